package mess

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
)

type MessHandler struct {
	service *MessService
}

func NewMessHandler(service *MessService) *MessHandler {
	return &MessHandler{service: service}
}

func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store")
}

func (h *MessHandler) Menu(c echo.Context) error {
	noStore(c)
	menus, err := h.service.Menu(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menus)
}

func (h *MessHandler) Timings(c echo.Context) error {
	noStore(c)
	timings, err := h.service.Timings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timings)
}

func (h *MessHandler) UpdateMenu(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	var req UpdateMenuRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	menu, err := h.service.UpdateMenu(c.Request().Context(), caller.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *MessHandler) UpdateTimings(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	var req UpdateTimingsRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	menus, err := h.service.UpdateTimings(c.Request().Context(), caller.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Mess timings updated",
		"menus":   menus,
	})
}
