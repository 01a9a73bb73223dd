package mess

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/notification"
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MenuStore interface {
	List(ctx context.Context) ([]*MessMenu, error)
	Upsert(ctx context.Context, menu *MessMenu) (*MessMenu, error)
	SetTimings(ctx context.Context, t Timings, by primitive.ObjectID, at time.Time) error
}

type Notifier interface {
	Broadcast(ctx context.Context, createdBy primitive.ObjectID, title, message string, recipient notification.Recipient) (*notification.Notification, error)
}

type MessService struct {
	repo     MenuStore
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewMessService(repo MenuStore, notifier Notifier, log *zap.Logger) *MessService {
	return &MessService{repo: repo, notifier: notifier, log: log.Named("mess"), now: time.Now}
}

func (s *MessService) Menu(ctx context.Context) ([]*MessMenu, error) {
	return s.repo.List(ctx)
}

// Timings reads the first stored day; defaults apply while no menu exists.
func (s *MessService) Timings(ctx context.Context) (Timings, error) {
	menus, err := s.repo.List(ctx)
	if err != nil {
		return Timings{}, err
	}
	if len(menus) == 0 {
		return DefaultTimings, nil
	}
	m := menus[0]
	return Timings{Breakfast: m.Breakfast.Timing, Lunch: m.Lunch.Timing, Dinner: m.Dinner.Timing}, nil
}

func meal(in *MealInput, fallback Timing) Meal {
	m := Meal{Items: []string{}, Timing: fallback}
	if in == nil {
		return m
	}
	for _, item := range in.Items {
		if item = strings.TrimSpace(item); item != "" {
			m.Items = append(m.Items, item)
		}
	}
	if in.Timing != nil {
		m.Timing = *in.Timing
	}
	return m
}

func (s *MessService) UpdateMenu(ctx context.Context, by primitive.ObjectID, req UpdateMenuRequest) (*MessMenu, error) {
	if dayIndex(req.Day) < 0 {
		return nil, apperr.BadRequest("Invalid day")
	}
	menu, err := s.repo.Upsert(ctx, &MessMenu{
		Day:       req.Day,
		Breakfast: meal(req.Breakfast, DefaultTimings.Breakfast),
		Lunch:     meal(req.Lunch, DefaultTimings.Lunch),
		Dinner:    meal(req.Dinner, DefaultTimings.Dinner),
		Image:     strings.TrimSpace(req.Image),
		UpdatedBy: &by,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, by, "Mess Menu Updated", fmt.Sprintf("The mess menu for %s has been updated.", req.Day))
	return menu, nil
}

func (s *MessService) UpdateTimings(ctx context.Context, by primitive.ObjectID, req UpdateTimingsRequest) ([]*MessMenu, error) {
	t := Timings(req)
	if err := s.repo.SetTimings(ctx, t, by, s.now()); err != nil {
		return nil, err
	}
	s.announce(ctx, by, "Mess Timings Updated",
		fmt.Sprintf("New mess timings: breakfast %s-%s, lunch %s-%s, dinner %s-%s.",
			t.Breakfast.Start, t.Breakfast.End, t.Lunch.Start, t.Lunch.End, t.Dinner.Start, t.Dinner.End))
	return s.repo.List(ctx)
}

// announce tells students about a change. The change is already saved, so a
// failure here is logged rather than returned.
func (s *MessService) announce(ctx context.Context, by primitive.ObjectID, title, message string) {
	if _, err := s.notifier.Broadcast(ctx, by, title, message, notification.RecipientStudent); err != nil {
		s.log.Error("notify students", zap.Error(err), zap.String("title", title))
	}
}
