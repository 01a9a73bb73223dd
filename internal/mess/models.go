package mess

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Days lists the week in menu order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func dayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

type Timing struct {
	Start string `bson:"start" json:"start" validate:"required"`
	End   string `bson:"end" json:"end" validate:"required"`
}

type Meal struct {
	Items  []string `bson:"items" json:"items"`
	Timing Timing   `bson:"timing" json:"timing"`
}

type MessMenu struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Day       string              `bson:"day" json:"day"`
	Breakfast Meal                `bson:"breakfast" json:"breakfast"`
	Lunch     Meal                `bson:"lunch" json:"lunch"`
	Dinner    Meal                `bson:"dinner" json:"dinner"`
	Image     string              `bson:"image,omitempty" json:"image,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

type Timings struct {
	Breakfast Timing `json:"breakfast"`
	Lunch     Timing `json:"lunch"`
	Dinner    Timing `json:"dinner"`
}

// DefaultTimings apply until an admin sets timings.
var DefaultTimings = Timings{
	Breakfast: Timing{Start: "08:00", End: "10:00"},
	Lunch:     Timing{Start: "12:00", End: "14:00"},
	Dinner:    Timing{Start: "19:00", End: "21:00"},
}

// MealInput is a meal as sent by the client; a missing timing keeps the default.
type MealInput struct {
	Items  []string `json:"items"`
	Timing *Timing  `json:"timing"`
}

type UpdateMenuRequest struct {
	Day       string     `json:"day"`
	Breakfast *MealInput `json:"breakfast"`
	Lunch     *MealInput `json:"lunch"`
	Dinner    *MealInput `json:"dinner"`
	Image     string     `json:"image"`
}

type UpdateTimingsRequest struct {
	Breakfast Timing `json:"breakfast"`
	Lunch     Timing `json:"lunch"`
	Dinner    Timing `json:"dinner"`
}
