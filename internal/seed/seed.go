package seed

import (
	"HostelManagement/internal/auth"
	"HostelManagement/internal/fees"
	"HostelManagement/internal/mess"
	"HostelManagement/internal/notification"
	"HostelManagement/internal/rooms"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collections are emptied before seeding. Indexes are kept.
var collections = []string{"users", "rooms", "fees", "mess_menus", "notifications", "complaints", "financial_reports"}

type Seeder struct {
	db            *mongo.Database
	users         *auth.UserRepository
	rooms         *rooms.RoomRepository
	fees          *fees.FeeRepository
	menus         *mess.MenuRepository
	notifications *notification.NotificationRepository
	log           *zap.Logger
}

func NewSeeder(db *mongo.Database, log *zap.Logger) *Seeder {
	return &Seeder{
		db:            db,
		users:         auth.NewUserRepository(db),
		rooms:         rooms.NewRoomRepository(db),
		fees:          fees.NewFeeRepository(db),
		menus:         mess.NewMenuRepository(db),
		notifications: notification.NewNotificationRepository(db),
		log:           log.Named("seed"),
	}
}

// Run replaces the contents of every collection with the demo dataset.
func (s *Seeder) Run(ctx context.Context) error {
	d, err := Build(time.Now().UTC())
	if err != nil {
		return err
	}

	for _, name := range collections {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	s.log.Info("cleared existing data")

	for _, u := range d.Users {
		if err := s.users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
	}
	for _, r := range d.Rooms {
		if err := s.rooms.Create(ctx, r); err != nil {
			return fmt.Errorf("create room %s: %w", r.RoomNumber, err)
		}
	}
	for _, f := range d.Fees {
		if err := s.fees.Create(ctx, f); err != nil {
			return fmt.Errorf("create fee: %w", err)
		}
	}
	for _, m := range d.Menus {
		if _, err := s.menus.Upsert(ctx, m); err != nil {
			return fmt.Errorf("create menu %s: %w", m.Day, err)
		}
	}
	for _, n := range d.Notifications {
		if err := s.notifications.CreateNotification(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
	}

	s.log.Info("seed data created",
		zap.String("admin", AdminEmail+" / "+AdminPassword),
		zap.String("accountant", AccountantEmail+" / "+AccountantPassword),
		zap.Int("users", len(d.Users)),
		zap.Int("rooms", len(d.Rooms)),
		zap.Int("fees", len(d.Fees)),
		zap.Int("menus", len(d.Menus)),
		zap.Int("notifications", len(d.Notifications)))
	return nil
}
