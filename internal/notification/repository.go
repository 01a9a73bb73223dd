package notification

import (
	"HostelManagement/internal/auth"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository handles DB operations for notifications.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new repository for notifications.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

// audience builds the visibility filter matching Notification.VisibleTo.
func audience(role auth.Role) bson.M {
	if role == auth.RoleAdmin {
		return bson.M{}
	}
	return bson.M{"recipient": bson.M{"$in": bson.A{RecipientAll, Recipient(role)}}}
}

func unreadBy(filter bson.M, userID primitive.ObjectID) bson.M {
	filter["read_by.user_id"] = bson.M{"$ne": userID}
	return filter
}

// CreateNotification inserts a new notification into the DB.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// ListVisible returns every notification role may see, newest first.
func (r *NotificationRepository) ListVisible(ctx context.Context, role auth.Role) ([]*Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, audience(role), opts)
	if err != nil {
		return nil, err
	}
	notifications := []*Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindVisible returns one notification, or nil when it is missing or hidden from role.
func (r *NotificationRepository) FindVisible(ctx context.Context, id primitive.ObjectID, role auth.Role) (*Notification, error) {
	filter := audience(role)
	filter["_id"] = id
	var n Notification
	if err := r.collection.FindOne(ctx, filter).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// MarkRead adds a receipt for userID unless one already exists.
func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, role auth.Role, userID primitive.ObjectID, at time.Time) error {
	filter := audience(role)
	filter["_id"] = id
	_, err := r.collection.UpdateOne(ctx, unreadBy(filter, userID), bson.M{
		"$push": bson.M{"read_by": ReadReceipt{UserID: userID, ReadAt: at}},
	})
	return err
}

// MarkAllRead adds a receipt for userID to every visible unread notification
// and returns how many were updated.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, role auth.Role, userID primitive.ObjectID, at time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, unreadBy(audience(role), userID), bson.M{
		"$push": bson.M{"read_by": ReadReceipt{UserID: userID, ReadAt: at}},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnread counts visible notifications without a receipt from userID.
func (r *NotificationRepository) CountUnread(ctx context.Context, role auth.Role, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, unreadBy(audience(role), userID))
}

// DeleteNotification removes a notification; it reports false when nothing matched.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
