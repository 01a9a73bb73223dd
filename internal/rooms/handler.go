package rooms

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomHandler struct {
	service *RoomService
}

func NewRoomHandler(service *RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

func studentParam(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Student not found")
	}
	return id, nil
}

func (h *RoomHandler) RequestAllocation(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	var req AllocationRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	details, err := h.service.RequestAllocation(c.Request().Context(), caller.ID, req.RoomType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AllocationResponse{
		Message:  "Room allocation request submitted",
		RoomType: details.RoomType,
		Status:   details.Status,
	})
}

func (h *RoomHandler) RoomDetails(c echo.Context) error {
	caller, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	details, err := h.service.RoomDetails(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *RoomHandler) PendingRequests(c echo.Context) error {
	requests, err := h.service.PendingRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *RoomHandler) Approve(c echo.Context) error {
	id, err := studentParam(c)
	if err != nil {
		return err
	}
	var req ApproveRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	result, err := h.service.Approve(c.Request().Context(), id, req.RoomNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *RoomHandler) Reject(c echo.Context) error {
	id, err := studentParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Reject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Room allocation rejected"})
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	list, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RoomHandler) Charges(c echo.Context) error {
	charges, err := h.service.Charges(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, charges)
}

func (h *RoomHandler) UpdateCharges(c echo.Context) error {
	var req UpdateChargesRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	updates, err := h.service.UpdateCharges(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Room charges updated",
		"updates": updates,
	})
}

func (h *RoomHandler) Allocations(c echo.Context) error {
	allocations, err := h.service.Allocations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, allocations)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req CreateRoomRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	room, err := h.service.CreateRoom(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, room)
}
