package notification

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service *NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func notificationID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Notification not found")
	}
	return id, nil
}

// Create lets an admin publish a notification.
func (h *NotificationHandler) Create(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateNotificationRequest
	if err := apperr.Bind(c, &req); err != nil {
		return err
	}
	n, err := h.service.Create(c.Request().Context(), viewer.ID, req)
	if err != nil {
		return err
	}
	view, err := h.service.ViewOf(c.Request().Context(), viewer, n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// List returns the caller's visible notifications and then marks them read.
// IsRead in the response reflects the state before this fetch.
func (h *NotificationHandler) List(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	views, err := h.service.List(ctx, viewer)
	if err != nil {
		return err
	}
	if _, err := h.service.MarkAllRead(ctx, viewer); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Get returns one notification and marks it read for the caller.
func (h *NotificationHandler) Get(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	id, err := notificationID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	view, err := h.service.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if _, err := h.service.MarkRead(ctx, viewer, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	count, err := h.service.UnreadCount(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	id, err := notificationID(c)
	if err != nil {
		return err
	}
	view, err := h.service.MarkRead(c.Request().Context(), viewer, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	viewer, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}
	updated, err := h.service.MarkAllRead(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// Delete removes a notification (admin only).
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteNotification(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification deleted"})
}
