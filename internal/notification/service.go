package notification

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the service needs.
type Store interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListVisible(ctx context.Context, role auth.Role) ([]*Notification, error)
	FindVisible(ctx context.Context, id primitive.ObjectID, role auth.Role) (*Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, role auth.Role, userID primitive.ObjectID, at time.Time) error
	MarkAllRead(ctx context.Context, role auth.Role, userID primitive.ObjectID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, role auth.Role, userID primitive.ObjectID) (int64, error)
	DeleteNotification(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// AuthorLookup resolves creator ids to users.
type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

// NotificationService publishes notifications and tracks per-user read state.
// Reads never change read state; only MarkRead and MarkAllRead do.
type NotificationService struct {
	repo    Store
	authors AuthorLookup
	log     *zap.Logger
	now     func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo Store, authors AuthorLookup, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, authors: authors, log: log.Named("notification"), now: time.Now}
}

// Create validates and stores an admin notification. Recipient defaults to all.
func (s *NotificationService) Create(ctx context.Context, createdBy primitive.ObjectID, req CreateNotificationRequest) (*Notification, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "Title is required"
	}
	if message == "" {
		fields["message"] = "Message is required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	recipient := req.Recipient
	if recipient == "" {
		recipient = RecipientAll
	}
	if !recipient.Valid() {
		return nil, apperr.Validation(map[string]string{"recipient": "Invalid recipient"})
	}
	return s.Broadcast(ctx, createdBy, title, message, recipient)
}

// Broadcast stores a notification without request validation. Other
// components use it to announce changes.
func (s *NotificationService) Broadcast(ctx context.Context, createdBy primitive.ObjectID, title, message string, recipient Recipient) (*Notification, error) {
	n := &Notification{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Message:   message,
		Recipient: recipient,
		CreatedBy: createdBy,
		ReadBy:    []ReadReceipt{},
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	s.log.Info("notification created", zap.String("id", n.ID.Hex()), zap.String("recipient", string(recipient)))
	return n, nil
}

// List returns the viewer's visible notifications, newest first.
func (s *NotificationService) List(ctx context.Context, viewer auth.Identity) ([]View, error) {
	notifications, err := s.repo.ListVisible(ctx, viewer.Role)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewer, notifications...)
}

// Get returns one visible notification.
func (s *NotificationService) Get(ctx context.Context, viewer auth.Identity, id primitive.ObjectID) (*View, error) {
	n, err := s.repo.FindVisible(ctx, id, viewer.Role)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound("Notification not found")
	}
	return s.ViewOf(ctx, viewer, n)
}

// ViewOf resolves the creator of n for viewer.
func (s *NotificationService) ViewOf(ctx context.Context, viewer auth.Identity, n *Notification) (*View, error) {
	views, err := s.views(ctx, viewer, n)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// MarkRead is idempotent: a second call leaves the receipt list unchanged.
func (s *NotificationService) MarkRead(ctx context.Context, viewer auth.Identity, id primitive.ObjectID) (*View, error) {
	n, err := s.repo.FindVisible(ctx, id, viewer.Role)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound("Notification not found")
	}
	if err := s.repo.MarkRead(ctx, id, viewer.Role, viewer.ID, s.now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, viewer, id)
}

// MarkAllRead returns the number of notifications that gained a receipt.
func (s *NotificationService) MarkAllRead(ctx context.Context, viewer auth.Identity) (int64, error) {
	return s.repo.MarkAllRead(ctx, viewer.Role, viewer.ID, s.now())
}

// UnreadCount counts the viewer's visible unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, viewer auth.Identity) (int64, error) {
	return s.repo.CountUnread(ctx, viewer.Role, viewer.ID)
}

// DeleteNotification deletes a notification by ObjectID.
func (s *NotificationService) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.DeleteNotification(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Notification not found")
	}
	return nil
}

func (s *NotificationService) views(ctx context.Context, viewer auth.Identity, notifications ...*Notification) ([]View, error) {
	ids := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.CreatedBy)
	}
	authors, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, View{
			Notification: *n,
			CreatedBy:    authors[n.CreatedBy].Author(),
			IsRead:       n.IsReadBy(viewer.ID),
		})
	}
	return views, nil
}
