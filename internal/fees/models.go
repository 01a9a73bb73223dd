package fees

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	// StatusOverdue is counted in summaries but nothing sets it yet.
	StatusOverdue Status = "overdue"
)

type Fee struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID     primitive.ObjectID `bson:"student_id" json:"studentId"`
	StudentName   string             `bson:"student_name" json:"studentName"`
	StudentEmail  string             `bson:"student_email" json:"studentEmail"`
	Amount        float64            `bson:"amount" json:"amount"`
	RoomCharge    float64            `bson:"room_charge" json:"roomCharge"`
	MessCharge    float64            `bson:"mess_charge" json:"messCharge"`
	Fine          float64            `bson:"fine" json:"fine"`
	Status        Status             `bson:"status" json:"status"`
	DueDate       time.Time          `bson:"due_date" json:"dueDate"`
	PaidDate      *time.Time         `bson:"paid_date,omitempty" json:"paidDate,omitempty"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	Remarks       string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// CreateFeeRequest bills a student. When Amount is zero it is derived from the
// charges and fine.
type CreateFeeRequest struct {
	StudentID  string  `json:"studentId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	RoomCharge float64 `json:"roomCharge" validate:"gte=0"`
	MessCharge float64 `json:"messCharge" validate:"gte=0"`
	Fine       float64 `json:"fine" validate:"gte=0"`
	DueDate    string  `json:"dueDate" validate:"required"`
}

type PayRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Remarks       string `json:"remarks"`
}

// AddFineRequest increments the fine; any amount sent by the client is ignored.
type AddFineRequest struct {
	Fine   float64 `json:"fine" validate:"gt=0"`
	Reason string  `json:"reason"`
}

type StatusSummary struct {
	Paid      int     `json:"paid"`
	Pending   int     `json:"pending"`
	Overdue   int     `json:"overdue"`
	TotalFine float64 `json:"totalFine"`
	Fees      []*Fee  `json:"fees"`
}

type PendingFines struct {
	Fees             []*Fee  `json:"fees"`
	TotalPendingFine float64 `json:"totalPendingFine"`
}
