package notification

import (
	"HostelManagement/internal/auth"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipient is the audience of a notification.
type Recipient string

const (
	RecipientAll        Recipient = "all"
	RecipientStudent    Recipient = "student"
	RecipientAccountant Recipient = "accountant"
	RecipientAdmin      Recipient = "admin"
)

func (r Recipient) Valid() bool {
	switch r {
	case RecipientAll, RecipientStudent, RecipientAccountant, RecipientAdmin:
		return true
	}
	return false
}

// ReadReceipt records that a user has read a notification.
type ReadReceipt struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user"`
	ReadAt time.Time          `bson:"read_at" json:"readAt"`
}

// Notification is an in-app announcement addressed to everyone or to one role.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Recipient Recipient          `bson:"recipient" json:"recipient"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"-"`
	ReadBy    []ReadReceipt      `bson:"read_by" json:"readBy"` // One receipt per user, never duplicated
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// VisibleTo reports whether a user with role may see n. Admins see everything;
// everyone else sees broadcasts and notifications addressed to their role.
func (n *Notification) VisibleTo(role auth.Role) bool {
	return role == auth.RoleAdmin || n.Recipient == RecipientAll || string(n.Recipient) == string(role)
}

// IsReadBy reports whether userID already has a receipt.
func (n *Notification) IsReadBy(userID primitive.ObjectID) bool {
	for _, r := range n.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// View is a notification as returned to a specific viewer.
type View struct {
	Notification
	CreatedBy *auth.Author `json:"createdBy"`
	IsRead    bool         `json:"isRead"`
}

// CreateNotificationRequest is the admin payload for a new notification.
type CreateNotificationRequest struct {
	Title     string    `json:"title" validate:"required"`
	Message   string    `json:"message" validate:"required"`
	Recipient Recipient `json:"recipient" validate:"omitempty,oneof=all student accountant admin"`
}
