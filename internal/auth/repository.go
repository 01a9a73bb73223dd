package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateUser = errors.New("email or student ID already registered")

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

// findOne returns nil, nil when nothing matches.
func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID string) (*User, error) {
	return r.findOne(ctx, bson.M{"student_id": studentID})
}

// FindByIDs loads users keyed by id; unknown ids are simply absent.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*User, error) {
	users := make(map[primitive.ObjectID]*User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}

func (r *UserRepository) ExistsByRole(ctx context.Context, role Role) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"role": role}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	return r.find(ctx, bson.M{"role": role})
}

func (r *UserRepository) ListByAllocationStatus(ctx context.Context, status AllocationStatus) ([]*User, error) {
	return r.find(ctx, bson.M{"role": RoleStudent, "room_allocation_status": status})
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expires time.Time) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"reset_token_hash":    digest,
		"reset_token_expires": expires,
	}})
	return err
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$unset": bson.M{
		"reset_token_hash":    "",
		"reset_token_expires": "",
	}})
	return err
}

func (r *UserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*User, error) {
	return r.findOne(ctx, bson.M{
		"reset_token_hash":    digest,
		"reset_token_expires": bson.M{"$gt": now},
	})
}

// UpdatePassword sets a new hash and consumes any outstanding reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": passwordHash},
		"$unset": bson.M{"reset_token_hash": "", "reset_token_expires": ""},
	})
	return err
}

// RequestRoom moves a student from none to pending. It reports false when the
// student was not in the none state.
func (r *UserRepository) RequestRoom(ctx context.Context, id primitive.ObjectID, roomType string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "role": RoleStudent, "room_allocation_status": AllocationNone},
		bson.M{"$set": bson.M{"room_allocation_status": AllocationPending, "room_type": roomType}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ApproveAllocation moves a pending student to approved in roomNumber.
func (r *UserRepository) ApproveAllocation(ctx context.Context, id primitive.ObjectID, roomNumber string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "room_allocation_status": AllocationPending},
		bson.M{"$set": bson.M{"room_allocation_status": AllocationApproved, "room_number": roomNumber}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepository) RejectAllocation(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "room_allocation_status": AllocationPending},
		bson.M{
			"$set":   bson.M{"room_allocation_status": AllocationRejected},
			"$unset": bson.M{"room_type": ""},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
