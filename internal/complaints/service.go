package complaints

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store interface {
	Create(ctx context.Context, c *Complaint) error
	ListAll(ctx context.Context) ([]*Complaint, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*Complaint, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Complaint, error)
	Resolve(ctx context.Context, id primitive.ObjectID, response string, at time.Time) (*Complaint, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

type ComplaintService struct {
	repo    Store
	authors AuthorLookup
	now     func() time.Time
}

func NewComplaintService(repo Store, authors AuthorLookup) *ComplaintService {
	return &ComplaintService{repo: repo, authors: authors, now: time.Now}
}

func (s *ComplaintService) Create(ctx context.Context, caller auth.Identity, req CreateComplaintRequest) (*Complaint, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	fields := map[string]string{}
	if req.Category == "" {
		fields["category"] = "Category is required"
	} else if !req.Category.Valid() {
		fields["category"] = "Invalid category"
	}
	if title == "" {
		fields["title"] = "Title is required"
	}
	if description == "" {
		fields["description"] = "Description is required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	c := &Complaint{
		ID:          primitive.NewObjectID(),
		StudentID:   caller.ID,
		StudentName: caller.Name,
		Category:    req.Category,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List gives students their own complaints and admins everything.
// Accountants have no access.
func (s *ComplaintService) List(ctx context.Context, caller auth.Identity) ([]View, error) {
	var (
		list []*Complaint
		err  error
	)
	switch caller.Role {
	case auth.RoleStudent:
		list, err = s.repo.ListByStudent(ctx, caller.ID)
	case auth.RoleAdmin:
		list, err = s.repo.ListAll(ctx)
	default:
		return nil, apperr.Forbidden("Access denied")
	}
	if err != nil {
		return nil, err
	}
	return s.views(ctx, caller, list...)
}

func (s *ComplaintService) Get(ctx context.Context, caller auth.Identity, id primitive.ObjectID) (*View, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Complaint not found")
	}
	switch caller.Role {
	case auth.RoleAdmin:
	case auth.RoleStudent:
		if c.StudentID != caller.ID {
			return nil, apperr.Forbidden("Not authorized to view this complaint")
		}
	default:
		return nil, apperr.Forbidden("Access denied")
	}
	views, err := s.views(ctx, caller, c)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ComplaintService) Resolve(ctx context.Context, id primitive.ObjectID, req ResolveRequest) (*Complaint, error) {
	response := strings.TrimSpace(req.AdminResponse)
	if response == "" {
		return nil, apperr.Validation(map[string]string{"adminResponse": "Admin response is required"})
	}
	c, err := s.repo.Resolve(ctx, id, response, s.now())
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Complaint not found")
	}
	return c, nil
}

func (s *ComplaintService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Complaint not found")
	}
	return nil
}

// views populates the author for admins; students only see their own id.
func (s *ComplaintService) views(ctx context.Context, caller auth.Identity, list ...*Complaint) ([]View, error) {
	views := make([]View, 0, len(list))
	if caller.Role != auth.RoleAdmin {
		for _, c := range list {
			views = append(views, View{Complaint: *c, Student: c.StudentID})
		}
		return views, nil
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.StudentID)
	}
	authors, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		var student interface{} = c.StudentID
		if u, ok := authors[c.StudentID]; ok {
			student = u.Author()
		}
		views = append(views, View{Complaint: *c, Student: student})
	}
	return views, nil
}
