package rooms

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"HostelManagement/internal/metrics"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRoom(number string, t RoomType, occupants ...primitive.ObjectID) *Room {
	students := append([]primitive.ObjectID{}, occupants...)
	return &Room{
		ID:               primitive.NewObjectID(),
		RoomNumber:       number,
		RoomType:         t,
		Capacity:         t.Capacity(),
		CurrentOccupancy: len(students),
		Students:         students,
		IsAvailable:      len(students) < t.Capacity(),
	}
}

func newStudent(name string, status auth.AllocationStatus, roomType RoomType) *auth.User {
	return &auth.User{
		ID:                   primitive.NewObjectID(),
		Name:                 name,
		Email:                name + "@hostel.com",
		Role:                 auth.RoleStudent,
		RoomAllocationStatus: status,
		RoomType:             string(roomType),
	}
}

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperr.Error(%d %q), got %v", status, message, err)
	}
	if ae.Status != status || (message != "" && ae.Message != message) {
		t.Fatalf("got %d %q, want %d %q", ae.Status, ae.Message, status, message)
	}
}

func TestRequestAllocation(t *testing.T) {
	fresh := newStudent("fresh", auth.AllocationNone, "")
	waiting := newStudent("waiting", auth.AllocationPending, TwoPerson)
	students := newFakeStudentStore(fresh, waiting)
	svc := NewRoomService(newFakeRoomStore(), students, directTx{}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.RequestAllocation(ctx, fresh.ID, "5-person")
	assertStatus(t, err, http.StatusBadRequest, "Invalid room type")

	details, err := svc.RequestAllocation(ctx, fresh.ID, ThreePerson)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if details.Status != auth.AllocationPending || details.RoomType != "3-person" {
		t.Errorf("details = %+v", details)
	}
	stored, _ := students.FindByID(ctx, fresh.ID)
	if stored.RoomAllocationStatus != auth.AllocationPending || stored.RoomType != "3-person" {
		t.Errorf("stored = %+v", stored)
	}

	_, err = svc.RequestAllocation(ctx, waiting.ID, FourPerson)
	assertStatus(t, err, http.StatusBadRequest, "You already have a pending room allocation request")
}

func TestApprove_ExplicitRoom(t *testing.T) {
	// ARRANGE
	student := newStudent("jane", auth.AllocationPending, TwoPerson)
	room := newRoom("101", TwoPerson, primitive.NewObjectID())
	rooms := newFakeRoomStore(room)
	students := newFakeStudentStore(student)
	observer := &countingObserver{}
	svc := NewRoomService(rooms, students, directTx{}, observer, zap.NewNop())

	// ACT
	result, err := svc.Approve(context.Background(), student.ID, "101")

	// ASSERT
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Message != "Room allocation approved" || result.Student.RoomNumber != "101" {
		t.Errorf("result = %+v", result)
	}
	got := rooms.get(room.ID)
	if got.CurrentOccupancy != 2 || len(got.Students) != 2 || got.IsAvailable {
		t.Errorf("room after approval = %+v", got)
	}
	u, _ := students.FindByID(context.Background(), student.ID)
	if u.RoomAllocationStatus != auth.AllocationApproved || u.RoomNumber != "101" {
		t.Errorf("student after approval = %+v", u)
	}
	if observer.counts[metrics.AllocationApproved] != 1 {
		t.Errorf("observer = %v", observer.counts)
	}
}

func TestApprove_ImplicitPicksLowestAvailable(t *testing.T) {
	student := newStudent("jane", auth.AllocationPending, ThreePerson)
	full := newRoom("102", ThreePerson, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())
	open := newRoom("202", ThreePerson)
	other := newRoom("201", TwoPerson)
	svc := NewRoomService(newFakeRoomStore(full, open, other), newFakeStudentStore(student), directTx{}, nil, zap.NewNop())

	result, err := svc.Approve(context.Background(), student.ID, "")

	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Room.RoomNumber != "202" {
		t.Errorf("room = %s, want 202", result.Room.RoomNumber)
	}
}

func TestApprove_Errors(t *testing.T) {
	pending := newStudent("pending", auth.AllocationPending, TwoPerson)
	approved := newStudent("approved", auth.AllocationApproved, TwoPerson)
	accountant := &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAccountant, RoomAllocationStatus: auth.AllocationPending}
	fullRoom := newRoom("101", TwoPerson, primitive.NewObjectID(), primitive.NewObjectID())
	threeRoom := newRoom("102", ThreePerson)

	tests := []struct {
		name       string
		student    primitive.ObjectID
		roomNumber string
		status     int
		message    string
	}{
		{"missing student", primitive.NewObjectID(), "", http.StatusNotFound, "Student not found"},
		{"not a student", accountant.ID, "", http.StatusNotFound, "Student not found"},
		{"not pending", approved.ID, "", http.StatusBadRequest, "No pending request found"},
		{"unknown room", pending.ID, "999", http.StatusNotFound, "Room not found or type mismatch"},
		{"type mismatch", pending.ID, "102", http.StatusNotFound, "Room not found or type mismatch"},
		{"explicit room full", pending.ID, "101", http.StatusBadRequest, "Room is full"},
		{"no room of type", pending.ID, "", http.StatusBadRequest, "No available room found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRoomService(
				newFakeRoomStore(fullRoom, threeRoom),
				newFakeStudentStore(pending, approved, accountant),
				directTx{}, nil, zap.NewNop())

			_, err := svc.Approve(context.Background(), tt.student, tt.roomNumber)

			assertStatus(t, err, tt.status, tt.message)
		})
	}
}

func TestApprove_ConcurrentNeverExceedsCapacity(t *testing.T) {
	room := newRoom("101", TwoPerson)
	rooms := newFakeRoomStore(room)
	var pending []*auth.User
	for i := 0; i < 6; i++ {
		pending = append(pending, newStudent("s", auth.AllocationPending, TwoPerson))
	}
	students := newFakeStudentStore(pending...)
	svc := NewRoomService(rooms, students, directTx{}, nil, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	approved, full := 0, 0
	for _, st := range pending {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), id, "101")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				approved++
			} else if apperr.StatusOf(err) == http.StatusBadRequest {
				full++
			}
		}(st.ID)
	}
	wg.Wait()

	got := rooms.get(room.ID)
	if approved != 2 || full != 4 {
		t.Errorf("approved=%d full=%d, want 2 and 4", approved, full)
	}
	if got.CurrentOccupancy != 2 || len(got.Students) != 2 || got.IsAvailable {
		t.Errorf("room = %+v", got)
	}
	count := 0
	for _, st := range pending {
		u, _ := students.FindByID(context.Background(), st.ID)
		if u.RoomAllocationStatus == auth.AllocationApproved {
			count++
		}
	}
	if count != 2 {
		t.Errorf("%d students approved, want 2", count)
	}
}

func TestApprove_UserWriteFailure(t *testing.T) {
	for _, tc := range []struct {
		name        string
		tx          func(*fakeRoomStore) TxRunner
		wantRemoves int
	}{
		{"compensates without transactions", func(*fakeRoomStore) TxRunner { return directTx{} }, 1},
		{"rolls back with transactions", func(r *fakeRoomStore) TxRunner { return rollbackTx{rooms: r} }, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			student := newStudent("jane", auth.AllocationPending, TwoPerson)
			room := newRoom("101", TwoPerson)
			rooms := newFakeRoomStore(room)
			students := newFakeStudentStore(student)
			students.ApproveErr = errBoom
			svc := NewRoomService(rooms, students, tc.tx(rooms), nil, zap.NewNop())

			_, err := svc.Approve(context.Background(), student.ID, "101")

			if !errors.Is(err, errBoom) {
				t.Fatalf("expected errBoom, got %v", err)
			}
			got := rooms.get(room.ID)
			if got.CurrentOccupancy != 0 || len(got.Students) != 0 || !got.IsAvailable {
				t.Errorf("room not restored: %+v", got)
			}
			if rooms.RemoveCalls != tc.wantRemoves {
				t.Errorf("RemoveOccupant calls = %d, want %d", rooms.RemoveCalls, tc.wantRemoves)
			}
		})
	}
}

func TestReject(t *testing.T) {
	student := newStudent("jane", auth.AllocationPending, FourPerson)
	students := newFakeStudentStore(student)
	svc := NewRoomService(newFakeRoomStore(), students, directTx{}, nil, zap.NewNop())
	ctx := context.Background()

	if err := svc.Reject(ctx, student.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	u, _ := students.FindByID(ctx, student.ID)
	if u.RoomAllocationStatus != auth.AllocationRejected || u.RoomType != "" {
		t.Errorf("student = %+v", u)
	}

	assertStatus(t, svc.Reject(ctx, student.ID), http.StatusBadRequest, "No pending request found")
}

func TestCreateRoom(t *testing.T) {
	rooms := newFakeRoomStore(newRoom("101", TwoPerson))
	svc := NewRoomService(rooms, newFakeStudentStore(), directTx{}, nil, zap.NewNop())
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "301", RoomType: FourPerson, Charge: 3000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.Capacity != 4 || room.CurrentOccupancy != 0 || !room.IsAvailable {
		t.Errorf("room = %+v", room)
	}

	_, err = svc.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "101", RoomType: TwoPerson})
	assertStatus(t, err, http.StatusBadRequest, "Room number already exists")
}

func TestChargesAndUpdate(t *testing.T) {
	a := newRoom("101", TwoPerson)
	a.Charge = 5000
	b := newRoom("102", TwoPerson)
	b.Charge = 5000
	c := newRoom("201", ThreePerson)
	c.Charge = 4000
	rooms := newFakeRoomStore(a, b, c)
	svc := NewRoomService(rooms, newFakeStudentStore(), directTx{}, nil, zap.NewNop())
	ctx := context.Background()

	charges, _ := svc.Charges(ctx)
	if charges[TwoPerson] != 5000 || charges[ThreePerson] != 4000 || charges[FourPerson] != 0 {
		t.Errorf("charges = %v", charges)
	}

	price := 5500.0
	updates, err := svc.UpdateCharges(ctx, UpdateChargesRequest{TwoPerson: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updates) != 1 || updates[0].Type != TwoPerson {
		t.Errorf("updates = %+v", updates)
	}
	if rooms.get(a.ID).Charge != 5500 || rooms.get(b.ID).Charge != 5500 || rooms.get(c.ID).Charge != 4000 {
		t.Error("only 2-person rooms should change")
	}
}

func TestListRooms_PopulatesOccupants(t *testing.T) {
	student := newStudent("jane", auth.AllocationApproved, TwoPerson)
	room := newRoom("101", TwoPerson, student.ID)
	svc := NewRoomService(newFakeRoomStore(room), newFakeStudentStore(student), directTx{}, nil, zap.NewNop())

	list, err := svc.ListRooms(context.Background())

	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rooms) != 1 || len(list.Rooms[0].Students) != 1 || list.Rooms[0].Students[0].Name != "jane" {
		t.Errorf("rooms = %+v", list.Rooms)
	}
}

func TestApprove_StudentAlreadyListedInRoom(t *testing.T) {
	student := newStudent("jane", auth.AllocationPending, ThreePerson)
	room := newRoom("103", ThreePerson, student.ID)
	rooms := newFakeRoomStore(room)
	svc := NewRoomService(rooms, newFakeStudentStore(student), directTx{}, nil, zap.NewNop())

	_, err := svc.Approve(context.Background(), student.ID, "103")

	assertStatus(t, err, http.StatusConflict, "Student is already in this room")
	if got := rooms.get(room.ID); len(got.Students) != 1 || got.CurrentOccupancy != 1 {
		t.Errorf("room changed: %+v", got)
	}
	if rooms.RemoveCalls != 0 {
		t.Errorf("nothing was written, but %d compensations ran", rooms.RemoveCalls)
	}
}
