package rooms

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateRoom = errors.New("room number already exists")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("student already in room")
)

type RoomRepository struct {
	collection *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{collection: db.Collection("rooms")}
}

var byRoomNumber = bson.D{{Key: "room_number", Value: 1}}

func (r *RoomRepository) Create(ctx context.Context, room *Room) error {
	_, err := r.collection.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateRoom
	}
	return err
}

func (r *RoomRepository) List(ctx context.Context) ([]*Room, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(byRoomNumber))
	if err != nil {
		return nil, err
	}
	rooms := []*Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*Room, error) {
	var room Room
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) FindByNumber(ctx context.Context, number string) (*Room, error) {
	return r.findOne(ctx, bson.M{"room_number": number})
}

// FindAvailable returns the lowest-numbered room of type t with a free bed.
func (r *RoomRepository) FindAvailable(ctx context.Context, t RoomType) (*Room, error) {
	filter := bson.M{
		"room_type": t,
		"$expr":     bson.M{"$lt": bson.A{"$current_occupancy", "$capacity"}},
	}
	return r.findOne(ctx, filter, options.FindOne().SetSort(byRoomNumber))
}

func (r *RoomRepository) UpdateChargeByType(ctx context.Context, t RoomType, charge float64) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"room_type": t}, bson.M{"$set": bson.M{"charge": charge}})
	return err
}

// occupants treats a missing or null students field as empty.
var occupants = bson.M{"$ifNull": bson.A{"$students", bson.A{}}}

// recount keeps occupancy and availability derived from the students array.
var recount = bson.A{
	bson.M{"$set": bson.M{"current_occupancy": bson.M{"$size": "$students"}}},
	bson.M{"$set": bson.M{"is_available": bson.M{"$lt": bson.A{"$current_occupancy", "$capacity"}}}},
}

// AddOccupant appends studentID in a single conditional write: the update only
// matches while the room has a free bed and does not already hold the student,
// so concurrent approvals can never push a room past capacity. A failed match
// returns ErrAlreadyInRoom when the student is listed, ErrRoomFull otherwise.
func (r *RoomRepository) AddOccupant(ctx context.Context, roomID, studentID primitive.ObjectID) (*Room, error) {
	filter := bson.M{
		"_id":      roomID,
		"students": bson.M{"$ne": studentID},
		"$expr":    bson.M{"$lt": bson.A{bson.M{"$size": occupants}, "$capacity"}},
	}
	update := append(bson.A{
		bson.M{"$set": bson.M{"students": bson.M{"$concatArrays": bson.A{occupants, bson.A{studentID}}}}},
	}, recount...)

	var room Room
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		present, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": roomID, "students": studentID})
		if countErr != nil {
			return nil, countErr
		}
		if present > 0 {
			return nil, ErrAlreadyInRoom
		}
		return nil, ErrRoomFull
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// RemoveOccupant undoes AddOccupant.
func (r *RoomRepository) RemoveOccupant(ctx context.Context, roomID, studentID primitive.ObjectID) error {
	update := append(bson.A{
		bson.M{"$set": bson.M{"students": bson.M{"$filter": bson.M{
			"input": occupants,
			"cond":  bson.M{"$ne": bson.A{"$$this", studentID}},
		}}}},
	}, recount...)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": roomID, "students": studentID}, update)
	return err
}
