package mess

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{collection: db.Collection("mess_menus")}
}

// List returns the stored days Monday first.
func (r *MenuRepository) List(ctx context.Context) ([]*MessMenu, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	menus := []*MessMenu{}
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, err
	}
	sort.Slice(menus, func(i, j int) bool { return dayIndex(menus[i].Day) < dayIndex(menus[j].Day) })
	return menus, nil
}

// Upsert replaces the menu for menu.Day, creating it when missing.
func (r *MenuRepository) Upsert(ctx context.Context, menu *MessMenu) (*MessMenu, error) {
	set := bson.M{
		"breakfast":  menu.Breakfast,
		"lunch":      menu.Lunch,
		"dinner":     menu.Dinner,
		"updated_by": menu.UpdatedBy,
		"updated_at": menu.UpdatedAt,
	}
	if menu.Image != "" {
		set["image"] = menu.Image
	}
	var saved MessMenu
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"day": menu.Day},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetTimings writes t to every day in one batch. Days without a menu are
// created with empty item lists.
func (r *MenuRepository) SetTimings(ctx context.Context, t Timings, by primitive.ObjectID, at time.Time) error {
	models := make([]mongo.WriteModel, 0, len(Days))
	for _, day := range Days {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"day": day}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"breakfast.timing": t.Breakfast,
					"lunch.timing":     t.Lunch,
					"dinner.timing":    t.Dinner,
					"updated_by":       by,
					"updated_at":       at,
				},
				"$setOnInsert": bson.M{
					"breakfast.items": bson.A{},
					"lunch.items":     bson.A{},
					"dinner.items":    bson.A{},
				},
			}).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}
