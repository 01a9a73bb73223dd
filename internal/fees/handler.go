package fees

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeeHandler struct {
	service *FeeService
}

func NewFeeHandler(service *FeeService) *FeeHandler {
	return &FeeHandler{service: service}
}

func feeID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Fee record not found")
	}
	return id, nil
}

func (h *FeeHandler) List(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	fees, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fees)
}

func (h *FeeHandler) Status(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	summary, err := h.service.StatusSummary(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *FeeHandler) PendingFines(c echo.Context) error {
	result, err := h.service.PendingFines(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *FeeHandler) Create(c echo.Context) error {
	var req CreateFeeRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	fee, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fee)
}

func (h *FeeHandler) Pay(c echo.Context) error {
	id, err := feeID(c)
	if err != nil {
		return err
	}
	var req PayRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	fee, err := h.service.Pay(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *FeeHandler) AddFine(c echo.Context) error {
	id, err := feeID(c)
	if err != nil {
		return err
	}
	var req AddFineRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	fee, err := h.service.AddFine(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fee)
}
