package complaints

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryMess    Category = "mess issue"
	CategoryGeneral Category = "general issue"
	CategoryOther   Category = "other"
)

func (c Category) Valid() bool {
	return c == CategoryMess || c == CategoryGeneral || c == CategoryOther
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	// StatusRejected is reserved; no endpoint sets it.
	StatusRejected Status = "rejected"
)

type Complaint struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID     primitive.ObjectID `bson:"student_id" json:"-"`
	StudentName   string             `bson:"student_name" json:"studentName"`
	Category      Category           `bson:"category" json:"category"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Status        Status             `bson:"status" json:"status"`
	AdminResponse string             `bson:"admin_response,omitempty" json:"adminResponse,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	ResolvedAt    *time.Time         `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

// View exposes the author; students get only the id back.
type View struct {
	Complaint
	Student interface{} `json:"student"`
}

type CreateComplaintRequest struct {
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type ResolveRequest struct {
	AdminResponse string `json:"adminResponse"`
}
