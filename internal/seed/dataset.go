// Package seed loads demo data for local development.
package seed

import (
	"HostelManagement/internal/auth"
	"HostelManagement/internal/fees"
	"HostelManagement/internal/mess"
	"HostelManagement/internal/notification"
	"HostelManagement/internal/rooms"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Demo credentials printed after seeding.
const (
	AdminEmail         = "admin@hostel.com"
	AdminPassword      = "admin123"
	AccountantEmail    = "accountant@hostel.com"
	AccountantPassword = "accountant123"
	StudentPassword    = "student123"
)

type Dataset struct {
	Users         []*auth.User
	Rooms         []*rooms.Room
	Fees          []*fees.Fee
	Menus         []*mess.MessMenu
	Notifications []*notification.Notification
}

type student struct {
	name, email, studentID string
	status                 auth.AllocationStatus
	roomNumber             string
	roomType               rooms.RoomType
}

var students = []student{
	{"John Doe", "john@student.com", "STU001", auth.AllocationApproved, "101", rooms.TwoPerson},
	{"Jane Smith", "jane@student.com", "STU002", auth.AllocationPending, "", rooms.ThreePerson},
	{"Bob Johnson", "bob@student.com", "STU003", auth.AllocationApproved, "102", rooms.FourPerson},
	{"Alice Williams", "alice@student.com", "STU004", auth.AllocationNone, "", ""},
}

var roomCharges = rooms.Charges{rooms.TwoPerson: 5000, rooms.ThreePerson: 4000, rooms.FourPerson: 3000}

var roomLayout = []struct {
	number string
	kind   rooms.RoomType
}{
	{"101", rooms.TwoPerson},
	{"102", rooms.FourPerson},
	{"103", rooms.ThreePerson},
	{"201", rooms.TwoPerson},
	{"202", rooms.ThreePerson},
	{"203", rooms.FourPerson},
}

var weeklyMenu = [][3][]string{
	{{"Bread", "Butter", "Jam", "Tea"}, {"Rice", "Dal", "Sabzi", "Roti"}, {"Rice", "Dal", "Sabzi", "Roti"}},
	{{"Paratha", "Curry", "Tea"}, {"Rice", "Rajma", "Sabzi", "Roti"}, {"Rice", "Dal", "Paneer", "Roti"}},
	{{"Poha", "Tea"}, {"Rice", "Chole", "Sabzi", "Roti"}, {"Rice", "Dal", "Sabzi", "Roti"}},
	{{"Sandwich", "Tea"}, {"Rice", "Dal", "Paneer", "Roti"}, {"Rice", "Dal", "Chole", "Roti"}},
	{{"Idli", "Sambar", "Tea"}, {"Rice", "Dal", "Sabzi", "Roti"}, {"Rice", "Dal", "Sabzi", "Roti"}},
	{{"Dosa", "Chutney", "Tea"}, {"Biryani", "Raita"}, {"Rice", "Dal", "Sabzi", "Roti"}},
	{{"Puri", "Sabzi", "Tea"}, {"Rice", "Dal", "Sabzi", "Roti"}, {"Rice", "Dal", "Sabzi", "Roti"}},
}

func newUser(name, email, password string, role auth.Role, now time.Time) (*auth.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", email, err)
	}
	return &auth.User{
		ID:                   primitive.NewObjectID(),
		Name:                 name,
		Email:                email,
		PasswordHash:         hash,
		Role:                 role,
		RoomAllocationStatus: auth.AllocationNone,
		CreatedAt:            now,
	}, nil
}

// Build assembles the demo documents. Room occupancy is derived from the
// students assigned to each room so the room invariants hold.
func Build(now time.Time) (*Dataset, error) {
	d := &Dataset{}

	admin, err := newUser("Admin User", AdminEmail, AdminPassword, auth.RoleAdmin, now)
	if err != nil {
		return nil, err
	}
	accountant, err := newUser("Accountant User", AccountantEmail, AccountantPassword, auth.RoleAccountant, now)
	if err != nil {
		return nil, err
	}
	d.Users = append(d.Users, admin, accountant)

	occupants := map[string][]primitive.ObjectID{}
	var studentUsers []*auth.User
	for _, s := range students {
		u, err := newUser(s.name, s.email, StudentPassword, auth.RoleStudent, now)
		if err != nil {
			return nil, err
		}
		u.StudentID = s.studentID
		u.RoomAllocationStatus = s.status
		u.RoomNumber = s.roomNumber
		u.RoomType = string(s.roomType)
		if s.roomNumber != "" {
			occupants[s.roomNumber] = append(occupants[s.roomNumber], u.ID)
		}
		studentUsers = append(studentUsers, u)
	}
	d.Users = append(d.Users, studentUsers...)

	for _, l := range roomLayout {
		ids := occupants[l.number]
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		d.Rooms = append(d.Rooms, &rooms.Room{
			ID:               primitive.NewObjectID(),
			RoomNumber:       l.number,
			RoomType:         l.kind,
			Capacity:         l.kind.Capacity(),
			CurrentOccupancy: len(ids),
			Charge:           roomCharges[l.kind],
			Students:         ids,
			IsAvailable:      len(ids) < l.kind.Capacity(),
			CreatedAt:        now,
		})
	}

	d.Fees = demoFees(studentUsers, now)

	for i, day := range mess.Days {
		meals := weeklyMenu[i]
		d.Menus = append(d.Menus, &mess.MessMenu{
			Day:       day,
			Breakfast: mess.Meal{Items: meals[0], Timing: mess.DefaultTimings.Breakfast},
			Lunch:     mess.Meal{Items: meals[1], Timing: mess.DefaultTimings.Lunch},
			Dinner:    mess.Meal{Items: meals[2], Timing: mess.DefaultTimings.Dinner},
			UpdatedBy: &admin.ID,
			UpdatedAt: now,
		})
	}

	for _, n := range []struct {
		title, message string
		recipient      notification.Recipient
	}{
		{"Welcome to Hostel Management System", "Welcome! Please update your profile and check the mess menu.", notification.RecipientAll},
		{"Fee Payment Reminder", "Please pay your pending fees before the due date to avoid fines.", notification.RecipientStudent},
		{"Mess Menu Updated", "The mess menu for this week has been updated. Please check the new menu.", notification.RecipientStudent},
	} {
		d.Notifications = append(d.Notifications, &notification.Notification{
			ID:        primitive.NewObjectID(),
			Title:     n.title,
			Message:   n.message,
			Recipient: n.recipient,
			CreatedBy: admin.ID,
			ReadBy:    []notification.ReadReceipt{},
			CreatedAt: now,
		})
	}
	return d, nil
}

func demoFees(s []*auth.User, now time.Time) []*fees.Fee {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	paid := func(t time.Time) *time.Time { return &t }

	fee := func(u *auth.User, amount, room, fine float64, status fees.Status, due time.Time) *fees.Fee {
		return &fees.Fee{
			ID:           primitive.NewObjectID(),
			StudentID:    u.ID,
			StudentName:  u.Name,
			StudentEmail: u.Email,
			Amount:       amount,
			RoomCharge:   room,
			MessCharge:   2000,
			Fine:         fine,
			Status:       status,
			DueDate:      due,
			CreatedAt:    now,
		}
	}

	johnPaid := fee(s[0], 5000, 5000, 0, fees.StatusPaid, date(2024, 1, 15))
	johnPaid.PaidDate, johnPaid.PaymentMethod = paid(date(2024, 1, 10)), "Online"
	bobPaid := fee(s[2], 3000, 3000, 0, fees.StatusPaid, date(2024, 1, 15))
	bobPaid.PaidDate, bobPaid.PaymentMethod = paid(date(2024, 1, 12)), "Cash"

	return []*fees.Fee{
		johnPaid,
		fee(s[1], 4000, 4000, 500, fees.StatusPending, date(2024, 2, 15)),
		bobPaid,
		fee(s[0], 7000, 5000, 0, fees.StatusPending, date(2024, 3, 15)),
	}
}
