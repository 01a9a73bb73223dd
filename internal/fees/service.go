package fees

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FeeStore interface {
	Create(ctx context.Context, fee *Fee) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Fee, error)
	ListAll(ctx context.Context) ([]*Fee, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*Fee, error)
	ListPendingFines(ctx context.Context) ([]*Fee, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, method, remarks string, at time.Time) (*Fee, error)
	AddFine(ctx context.Context, id primitive.ObjectID, fine float64, note string) (*Fee, error)
}

type StudentFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
}

type FeeService struct {
	repo     FeeStore
	students StudentFinder
	log      *zap.Logger
	now      func() time.Time
}

func NewFeeService(repo FeeStore, students StudentFinder, log *zap.Logger) *FeeService {
	return &FeeService{repo: repo, students: students, log: log.Named("fees"), now: time.Now}
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns the caller's own fees for students and every fee for staff.
func (s *FeeService) List(ctx context.Context, caller auth.Identity) ([]*Fee, error) {
	switch caller.Role {
	case auth.RoleStudent:
		return s.repo.ListByStudent(ctx, caller.ID)
	case auth.RoleAccountant, auth.RoleAdmin:
		return s.repo.ListAll(ctx)
	}
	return nil, apperr.Forbidden("Access denied")
}

func (s *FeeService) StatusSummary(ctx context.Context, studentID primitive.ObjectID) (*StatusSummary, error) {
	fees, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	summary := &StatusSummary{Fees: fees}
	for _, f := range fees {
		switch f.Status {
		case StatusPaid:
			summary.Paid++
		case StatusPending:
			summary.Pending++
		case StatusOverdue:
			summary.Overdue++
		}
		summary.TotalFine += f.Fine
	}
	return summary, nil
}

func (s *FeeService) PendingFines(ctx context.Context) (*PendingFines, error) {
	fees, err := s.repo.ListPendingFines(ctx)
	if err != nil {
		return nil, err
	}
	result := &PendingFines{Fees: fees}
	for _, f := range fees {
		result.TotalPendingFine += f.Fine
	}
	return result, nil
}

func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*Fee, error) {
	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid student ID")
	}
	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		return nil, apperr.Validation(map[string]string{"dueDate": "dueDate must be a date (YYYY-MM-DD)"})
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != auth.RoleStudent {
		return nil, apperr.BadRequest("Invalid student ID")
	}

	amount := req.Amount
	if amount == 0 {
		amount = req.RoomCharge + req.MessCharge + req.Fine
	}
	fee := &Fee{
		ID:           primitive.NewObjectID(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		Amount:       amount,
		RoomCharge:   req.RoomCharge,
		MessCharge:   req.MessCharge,
		Fine:         req.Fine,
		Status:       StatusPending,
		DueDate:      dueDate,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, err
	}
	s.log.Info("fee created", zap.String("fee_id", fee.ID.Hex()), zap.String("student_id", student.ID.Hex()), zap.Float64("amount", amount))
	return fee, nil
}

// explainMiss turns a failed conditional update into 404 or 400.
func (s *FeeService) explainMiss(ctx context.Context, id primitive.ObjectID, paidMessage string) error {
	fee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if fee == nil {
		return apperr.NotFound("Fee record not found")
	}
	return apperr.BadRequest(paidMessage)
}

func (s *FeeService) Pay(ctx context.Context, id primitive.ObjectID, req PayRequest) (*Fee, error) {
	fee, err := s.repo.MarkPaid(ctx, id, strings.TrimSpace(req.PaymentMethod), strings.TrimSpace(req.Remarks), s.now())
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, s.explainMiss(ctx, id, "Fee is already paid")
	}
	s.log.Info("fee paid", zap.String("fee_id", id.Hex()), zap.Float64("amount", fee.Amount))
	return fee, nil
}

func (s *FeeService) AddFine(ctx context.Context, id primitive.ObjectID, req AddFineRequest) (*Fee, error) {
	if req.Fine <= 0 {
		return nil, apperr.Validation(map[string]string{"fine": "Fine must be greater than 0"})
	}
	var note string
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		note = "Fine added: " + reason
	}
	fee, err := s.repo.AddFine(ctx, id, req.Fine, note)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, s.explainMiss(ctx, id, "Cannot add fine to a paid fee record")
	}
	return fee, nil
}
