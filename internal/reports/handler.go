package reports

import (
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	service *ReportService
}

func NewReportHandler(service *ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Live(c echo.Context) error {
	report, err := h.service.Live(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Send(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	report, err := h.service.Send(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Report sent to admin",
		"report":  report,
	})
}

func (h *ReportHandler) List(c echo.Context) error {
	reports, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}
