package routes

import (
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
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services depend on narrow interfaces; these providers bind them to the
// concrete repositories and clients fx builds.

func newTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

func newUserService(repo *auth.UserRepository, tokens *auth.TokenManager, revoked *auth.RedisTokenStore, mailer *config.EmailService, cfg *config.Config, log *zap.Logger) *auth.UserService {
	return auth.NewUserService(repo, tokens, revoked, mailer, cfg.ResetTokenTTL, cfg.FrontendURL, log)
}

func newRoomService(repo *rooms.RoomRepository, users *auth.UserRepository, db *config.MongoDBClient, m *metrics.Metrics, log *zap.Logger) *rooms.RoomService {
	return rooms.NewRoomService(repo, users, db, m, log)
}

func newFeeService(repo *fees.FeeRepository, users *auth.UserRepository, log *zap.Logger) *fees.FeeService {
	return fees.NewFeeService(repo, users, log)
}

func newComplaintService(repo *complaints.ComplaintRepository, users *auth.UserRepository) *complaints.ComplaintService {
	return complaints.NewComplaintService(repo, users)
}

func newNotificationService(repo *notification.NotificationRepository, users *auth.UserRepository, log *zap.Logger) *notification.NotificationService {
	return notification.NewNotificationService(repo, users, log)
}

func newMessService(repo *mess.MenuRepository, notifications *notification.NotificationService, log *zap.Logger) *mess.MessService {
	return mess.NewMessService(repo, notifications, log)
}

func newReportService(feeRepo *fees.FeeRepository, repo *reports.ReportRepository, users *auth.UserRepository, log *zap.Logger) *reports.ReportService {
	return reports.NewReportService(feeRepo, repo, users, log)
}

func newHealthHandler(db *config.MongoDBClient, rdb *redis.Client, cfg *config.Config) *health.HealthHandler {
	return health.NewHealthHandler(db, map[string]health.Pinger{
		"database": db,
		"redis": health.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}, cfg.Version)
}
