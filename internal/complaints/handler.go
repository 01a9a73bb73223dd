package complaints

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComplaintHandler struct {
	service *ComplaintService
}

func NewComplaintHandler(service *ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

func complaintID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Complaint not found")
	}
	return id, nil
}

func (h *ComplaintHandler) Create(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateComplaintRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	complaint, err := h.service.Create(c.Request().Context(), caller, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) List(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ComplaintHandler) Get(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ComplaintHandler) Resolve(c echo.Context) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req ResolveRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	complaint, err := h.service.Resolve(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaint)
}

func (h *ComplaintHandler) Delete(c echo.Context) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Complaint deleted"})
}
