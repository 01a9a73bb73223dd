package fees

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeeRepository struct {
	collection *mongo.Collection
}

func NewFeeRepository(db *mongo.Database) *FeeRepository {
	return &FeeRepository{collection: db.Collection("fees")}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (r *FeeRepository) find(ctx context.Context, filter bson.M) ([]*Fee, error) {
	cursor, err := r.collection.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	fees := []*Fee{}
	if err := cursor.All(ctx, &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *FeeRepository) Create(ctx context.Context, fee *Fee) error {
	_, err := r.collection.InsertOne(ctx, fee)
	return err
}

func (r *FeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Fee, error) {
	var fee Fee
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&fee); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

func (r *FeeRepository) ListAll(ctx context.Context) ([]*Fee, error) {
	return r.find(ctx, bson.M{})
}

func (r *FeeRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*Fee, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *FeeRepository) ListPendingFines(ctx context.Context) ([]*Fee, error) {
	return r.find(ctx, bson.M{"fine": bson.M{"$gt": 0}, "status": bson.M{"$ne": StatusPaid}})
}

// updateUnpaid applies update to fee id only while it is unpaid. It returns
// nil, nil when the fee is missing or already paid.
func (r *FeeRepository) updateUnpaid(ctx context.Context, id primitive.ObjectID, update interface{}) (*Fee, error) {
	var fee Fee
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": StatusPaid}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&fee)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *FeeRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, method, remarks string, at time.Time) (*Fee, error) {
	set := bson.M{"status": StatusPaid, "paid_date": at}
	if method != "" {
		set["payment_method"] = method
	}
	if remarks != "" {
		set["remarks"] = remarks
	}
	return r.updateUnpaid(ctx, id, bson.M{"$set": set})
}

// AddFine raises fine and amount by the same increment and appends note to
// the remarks, all in one write.
func (r *FeeRepository) AddFine(ctx context.Context, id primitive.ObjectID, fine float64, note string) (*Fee, error) {
	set := bson.M{
		"fine":   bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$fine", 0}}, fine}},
		"amount": bson.M{"$add": bson.A{"$amount", fine}},
	}
	if note != "" {
		remarks := bson.M{"$ifNull": bson.A{"$remarks", ""}}
		set["remarks"] = bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{remarks, ""}},
			note,
			bson.M{"$concat": bson.A{remarks, " | ", note}},
		}}
	}
	return r.updateUnpaid(ctx, id, bson.A{bson.M{"$set": set}})
}
