package reports

import (
	"HostelManagement/internal/auth"
	"HostelManagement/internal/fees"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Totals struct {
	TotalRevenue   float64 `bson:"total_revenue" json:"totalRevenue"`
	PendingAmount  float64 `bson:"pending_amount" json:"pendingAmount"`
	TotalFines     float64 `bson:"total_fines" json:"totalFines"`
	PendingFines   float64 `bson:"pending_fines" json:"pendingFines"`
	TotalRecords   int     `bson:"total_records" json:"totalRecords"`
	PaidRecords    int     `bson:"paid_records" json:"paidRecords"`
	PendingRecords int     `bson:"pending_records" json:"pendingRecords"`
	OverdueRecords int     `bson:"overdue_records" json:"overdueRecords"`
}

// FinancialReport is an immutable snapshot sent from the accountant to the admin.
type FinancialReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Totals      `bson:",inline"`
	GeneratedAt time.Time          `bson:"generated_at" json:"generatedAt"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"-"`
}

type ReportView struct {
	FinancialReport
	CreatedBy *auth.Author `json:"createdBy"`
}

type LiveReport struct {
	Totals
	GeneratedAt time.Time   `json:"generatedAt"`
	Fees        []*fees.Fee `json:"fees"`
}
