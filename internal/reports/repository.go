package reports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{collection: db.Collection("financial_reports")}
}

func (r *ReportRepository) Create(ctx context.Context, report *FinancialReport) error {
	_, err := r.collection.InsertOne(ctx, report)
	return err
}

func (r *ReportRepository) List(ctx context.Context) ([]*FinancialReport, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []*FinancialReport{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
