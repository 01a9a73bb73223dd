package reports

import (
	"HostelManagement/internal/auth"
	"HostelManagement/internal/fees"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FeeLister interface {
	ListAll(ctx context.Context) ([]*fees.Fee, error)
}

type Store interface {
	Create(ctx context.Context, report *FinancialReport) error
	List(ctx context.Context) ([]*FinancialReport, error)
}

type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

type ReportService struct {
	fees    FeeLister
	repo    Store
	authors AuthorLookup
	log     *zap.Logger
	now     func() time.Time
}

func NewReportService(fees FeeLister, repo Store, authors AuthorLookup, log *zap.Logger) *ReportService {
	return &ReportService{fees: fees, repo: repo, authors: authors, log: log.Named("reports"), now: time.Now}
}

func (s *ReportService) Live(ctx context.Context) (*LiveReport, error) {
	list, err := s.fees.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &LiveReport{Totals: Aggregate(list), GeneratedAt: s.now(), Fees: list}, nil
}

// Send stores a snapshot of the current totals attributed to the accountant.
func (s *ReportService) Send(ctx context.Context, by primitive.ObjectID) (*FinancialReport, error) {
	list, err := s.fees.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	report := &FinancialReport{
		ID:          primitive.NewObjectID(),
		Totals:      Aggregate(list),
		GeneratedAt: s.now(),
		CreatedBy:   by,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	s.log.Info("financial report sent", zap.String("report_id", report.ID.Hex()), zap.Float64("revenue", report.TotalRevenue))
	return report, nil
}

func (s *ReportService) List(ctx context.Context) ([]ReportView, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.CreatedBy)
	}
	authors, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]ReportView, 0, len(list))
	for _, r := range list {
		views = append(views, ReportView{FinancialReport: *r, CreatedBy: authors[r.CreatedBy].Author()})
	}
	return views, nil
}
