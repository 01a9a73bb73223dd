package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fixedReadiness bool

func (r fixedReadiness) Ready() bool { return bool(r) }

func serve(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestHealth_ReportsDatabaseState(t *testing.T) {
	for _, tc := range []struct {
		ready bool
		want  string
	}{{true, "Connected"}, {false, "Disconnected"}} {
		h := NewHealthHandler(fixedReadiness(tc.ready), nil, "1.2.3")

		rec := serve(t, h.Health)

		var body HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rec.Code != http.StatusOK || body.Status != "OK" || body.Database != tc.want || body.Version != "1.2.3" {
			t.Errorf("ready=%v: got %d %+v", tc.ready, rec.Code, body)
		}
	}
}

func TestReady(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		status int
	}{
		{"all up", map[string]Pinger{"mongodb": up, "redis": up}, http.StatusOK},
		{"redis down", map[string]Pinger{"mongodb": up, "redis": down}, http.StatusServiceUnavailable},
		{"not initialized", map[string]Pinger{"mongodb": nil}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fixedReadiness(true), tt.checks, "test")

			rec := serve(t, h.Ready)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ReadyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Errorf("checks = %v", body.Checks)
			}
		})
	}
}

func TestLive(t *testing.T) {
	h := NewHealthHandler(nil, nil, "test")

	if rec := serve(t, h.Live); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
