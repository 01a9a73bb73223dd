package routes

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"HostelManagement/internal/complaints"
	"HostelManagement/internal/config"
	"HostelManagement/internal/fees"
	"HostelManagement/internal/health"
	"HostelManagement/internal/mess"
	"HostelManagement/internal/metrics"
	"HostelManagement/internal/notification"
	"HostelManagement/internal/reports"
	"HostelManagement/internal/rooms"
	"HostelManagement/pkg/middleware"
	"context"
	"errors"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Infrastructure is everything below the domain services: config, logging,
// storage, cache, email and metrics.
var Infrastructure = fx.Module("infrastructure",
	fx.Provide(config.NewConfig),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewRedisClient),
	fx.Provide(config.NewEmailService),
	fx.Provide(metrics.New),
)

var HostelModules = fx.Module("hostel",
	Infrastructure,
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewRedisTokenStore),
	fx.Provide(newTokenManager),
	fx.Provide(newUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(rooms.NewRoomRepository),
	fx.Provide(newRoomService),
	fx.Provide(rooms.NewRoomHandler),
	fx.Provide(fees.NewFeeRepository),
	fx.Provide(newFeeService),
	fx.Provide(fees.NewFeeHandler),
	fx.Provide(complaints.NewComplaintRepository),
	fx.Provide(newComplaintService),
	fx.Provide(complaints.NewComplaintHandler),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(newNotificationService),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(mess.NewMenuRepository),
	fx.Provide(newMessService),
	fx.Provide(mess.NewMessHandler),
	fx.Provide(reports.NewReportRepository),
	fx.Provide(newReportService),
	fx.Provide(reports.NewReportHandler),
	fx.Provide(newHealthHandler),
	fx.Provide(middleware.NewEnforcer),
	fx.Provide(NewEchoServer),
	fx.Invoke(RegisterRoutes),
)

func NewEchoServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = apperr.NewValidator()
	e.HTTPErrorHandler = apperr.NewHTTPErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(m.Middleware())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("server listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
			go func() {
				if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("failed to start the server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// Handlers groups every route handler so RegisterRoutes keeps a short signature.
type Handlers struct {
	fx.In

	Auth          *auth.AuthHandler
	Rooms         *rooms.RoomHandler
	Fees          *fees.FeeHandler
	Complaints    *complaints.ComplaintHandler
	Notifications *notification.NotificationHandler
	Mess          *mess.MessHandler
	Reports       *reports.ReportHandler
	Health        *health.HealthHandler
}

// Guards are the middlewares applied to every protected route.
type Guards struct {
	fx.In

	Tokens   *auth.TokenManager
	Users    *auth.UserService
	Enforcer *casbin.Enforcer
	DB       *config.MongoDBClient
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/metrics", g.Metrics.Handler())
	e.GET("/api/health", h.Health.Health)
	e.GET("/api/health/live", h.Health.Live)
	e.GET("/api/health/ready", h.Health.Ready)

	api := e.Group("/api", middleware.RequireDatabase(g.DB))
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/check-roles", h.Auth.CheckRoles)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)

	protected := api.Group("",
		middleware.NewJWTMiddleware(g.Tokens, g.Users, g.Log),
		middleware.NewCasbinMiddleware(g.Enforcer, g.Log),
	)
	registerProtected(protected, h)
}

func registerProtected(r *echo.Group, h Handlers) {
	r.GET("/auth/me", h.Auth.Me)
	r.POST("/auth/logout", h.Auth.Logout)
	r.GET("/admin/students", h.Auth.ListStudents)
	r.GET("/accountant/students", h.Auth.ListStudentSummaries)

	r.POST("/students/room-allocation", h.Rooms.RequestAllocation)
	r.GET("/students/room-details", h.Rooms.RoomDetails)
	r.GET("/admin/room-requests", h.Rooms.PendingRequests)
	r.PUT("/admin/room-requests/:id/approve", h.Rooms.Approve)
	r.PUT("/admin/room-requests/:id/reject", h.Rooms.Reject)
	r.GET("/rooms", h.Rooms.ListRooms)
	r.POST("/rooms", h.Rooms.CreateRoom)
	r.GET("/rooms/charges", h.Rooms.Charges)
	r.PUT("/rooms/charges", h.Rooms.UpdateCharges)
	r.GET("/rooms/allocations", h.Rooms.Allocations)

	r.GET("/fees", h.Fees.List)
	r.POST("/fees", h.Fees.Create)
	r.GET("/fees/status", h.Fees.Status)
	r.GET("/fees/pending-fines", h.Fees.PendingFines)
	r.PUT("/fees/:id/pay", h.Fees.Pay)
	r.PUT("/fees/:id/add-fine", h.Fees.AddFine)

	r.POST("/complaints", h.Complaints.Create)
	r.GET("/complaints", h.Complaints.List)
	r.GET("/complaints/:id", h.Complaints.Get)
	r.PUT("/complaints/:id/resolve", h.Complaints.Resolve)
	r.DELETE("/complaints/:id", h.Complaints.Delete)

	r.POST("/notifications", h.Notifications.Create)
	r.GET("/notifications", h.Notifications.List)
	r.GET("/notifications/unread-count", h.Notifications.UnreadCount)
	r.PUT("/notifications/read-all", h.Notifications.MarkAllRead)
	r.GET("/notifications/:id", h.Notifications.Get)
	r.PUT("/notifications/:id/read", h.Notifications.MarkRead)
	r.DELETE("/notifications/:id", h.Notifications.Delete)

	r.GET("/mess/menu", h.Mess.Menu)
	r.GET("/mess/timings", h.Mess.Timings)
	r.PUT("/mess/menu", h.Mess.UpdateMenu)
	r.PUT("/mess/timings", h.Mess.UpdateTimings)

	r.GET("/accountant/reports", h.Reports.Live)
	r.POST("/accountant/reports/send", h.Reports.Send)
	r.GET("/admin/reports", h.Reports.List)
}
