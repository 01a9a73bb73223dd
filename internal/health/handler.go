package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Readiness reports the last known database state without blocking.
type Readiness interface {
	Ready() bool
}

type HealthHandler struct {
	db        Readiness
	checks    map[string]Pinger
	startTime time.Time
	version   string
}

func NewHealthHandler(db Readiness, checks map[string]Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, checks: checks, startTime: time.Now(), version: version}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ReadyResponse struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	database := "Disconnected"
	if h.db != nil && h.db.Ready() {
		database = "Connected"
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Backend is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  database,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
	})
}

// Live only confirms the process is serving requests.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
}

// Ready pings every dependency and answers 503 if any is down.
func (h *HealthHandler) Ready(c echo.Context) error {
	response := ReadyResponse{Status: "UP", Checks: make(map[string]Check, len(h.checks))}
	httpStatus := http.StatusOK

	for name, p := range h.checks {
		check := h.check(c.Request().Context(), name, p)
		response.Checks[name] = check
		if check.Status != "UP" {
			response.Status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}
	return c.JSON(httpStatus, response)
}

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) Check {
	if p == nil {
		return Check{Status: "DOWN", Message: name + " is not initialized"}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to " + name}
	}
	return Check{Status: "UP"}
}
