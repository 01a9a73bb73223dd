package complaints

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ComplaintRepository struct {
	collection *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{collection: db.Collection("complaints")}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *Complaint) error {
	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *ComplaintRepository) find(ctx context.Context, filter bson.M) ([]*Complaint, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []*Complaint{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ComplaintRepository) ListAll(ctx context.Context) ([]*Complaint, error) {
	return r.find(ctx, bson.M{})
}

func (r *ComplaintRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*Complaint, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Complaint, error) {
	var c Complaint
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) Resolve(ctx context.Context, id primitive.ObjectID, response string, at time.Time) (*Complaint, error) {
	var c Complaint
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": StatusResolved, "admin_response": response, "resolved_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
