package rooms

import (
	"HostelManagement/internal/auth"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoomType string

const (
	TwoPerson   RoomType = "2-person"
	ThreePerson RoomType = "3-person"
	FourPerson  RoomType = "4-person"
)

var RoomTypes = []RoomType{TwoPerson, ThreePerson, FourPerson}

// Capacity is fixed by the room type; 0 means the type is unknown.
func (t RoomType) Capacity() int {
	switch t {
	case TwoPerson:
		return 2
	case ThreePerson:
		return 3
	case FourPerson:
		return 4
	}
	return 0
}

func (t RoomType) Valid() bool {
	return t.Capacity() > 0
}

// Room invariants: CurrentOccupancy == len(Students) <= Capacity and
// IsAvailable == CurrentOccupancy < Capacity.
type Room struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	RoomNumber       string               `bson:"room_number" json:"roomNumber"`
	RoomType         RoomType             `bson:"room_type" json:"roomType"`
	Capacity         int                  `bson:"capacity" json:"capacity"`
	CurrentOccupancy int                  `bson:"current_occupancy" json:"currentOccupancy"`
	Charge           float64              `bson:"charge" json:"charge"`
	Students         []primitive.ObjectID `bson:"students" json:"-"`
	IsAvailable      bool                 `bson:"is_available" json:"isAvailable"`
	CreatedAt        time.Time            `bson:"created_at" json:"createdAt"`
}

func (r *Room) HasSpace() bool {
	return r.CurrentOccupancy < r.Capacity
}

// RoomView is a room with its occupants resolved.
type RoomView struct {
	Room
	Students []*auth.Author `json:"students"`
}

// Charges maps each room type to its per-room charge.
type Charges map[RoomType]float64

type RoomList struct {
	Rooms   []RoomView `json:"rooms"`
	Charges Charges    `json:"charges"`
}

type Allocations struct {
	Students []*auth.User `json:"students"`
	Rooms    []RoomView   `json:"rooms"`
}

type RoomDetails struct {
	RoomNumber string                `json:"roomNumber"`
	RoomType   string                `json:"roomType"`
	Status     auth.AllocationStatus `json:"status"`
}

type PendingRequest struct {
	ID        primitive.ObjectID    `json:"_id"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	StudentID string                `json:"studentId,omitempty"`
	RoomType  string                `json:"roomType"`
	Status    auth.AllocationStatus `json:"roomAllocationStatus"`
	CreatedAt time.Time             `json:"createdAt"`
}

type AllocationRequest struct {
	RoomType RoomType `json:"roomType"`
}

type AllocationResponse struct {
	Message  string                `json:"message"`
	RoomType string                `json:"roomType"`
	Status   auth.AllocationStatus `json:"status"`
}

type ApproveRequest struct {
	RoomNumber string `json:"roomNumber"`
}

type CreateRoomRequest struct {
	RoomNumber string   `json:"roomNumber" validate:"required"`
	RoomType   RoomType `json:"roomType" validate:"required,oneof=2-person 3-person 4-person"`
	Charge     float64  `json:"charge" validate:"gte=0"`
}

// UpdateChargesRequest carries optional per-type charges; absent types are
// left unchanged.
type UpdateChargesRequest struct {
	TwoPerson   *float64 `json:"2-person" validate:"omitempty,gte=0"`
	ThreePerson *float64 `json:"3-person" validate:"omitempty,gte=0"`
	FourPerson  *float64 `json:"4-person" validate:"omitempty,gte=0"`
}

func (r UpdateChargesRequest) byType() Charges {
	out := Charges{}
	for t, v := range map[RoomType]*float64{TwoPerson: r.TwoPerson, ThreePerson: r.ThreePerson, FourPerson: r.FourPerson} {
		if v != nil {
			out[t] = *v
		}
	}
	return out
}

type ChargeUpdate struct {
	Type   RoomType `json:"type"`
	Charge float64  `json:"charge"`
}

type AllocatedStudent struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	RoomNumber string             `json:"roomNumber"`
	RoomType   string             `json:"roomType"`
}

type ApprovalResult struct {
	Message string           `json:"message"`
	Student AllocatedStudent `json:"student"`
	Room    *Room            `json:"room"`
}
