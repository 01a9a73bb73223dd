package rooms

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"HostelManagement/internal/metrics"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RoomStore interface {
	Create(ctx context.Context, room *Room) error
	List(ctx context.Context) ([]*Room, error)
	FindByNumber(ctx context.Context, number string) (*Room, error)
	FindAvailable(ctx context.Context, t RoomType) (*Room, error)
	UpdateChargeByType(ctx context.Context, t RoomType, charge float64) error
	AddOccupant(ctx context.Context, roomID, studentID primitive.ObjectID) (*Room, error)
	RemoveOccupant(ctx context.Context, roomID, studentID primitive.ObjectID) error
}

type StudentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
	ListByRole(ctx context.Context, role auth.Role) ([]*auth.User, error)
	ListByAllocationStatus(ctx context.Context, status auth.AllocationStatus) ([]*auth.User, error)
	RequestRoom(ctx context.Context, id primitive.ObjectID, roomType string) (bool, error)
	ApproveAllocation(ctx context.Context, id primitive.ObjectID, roomNumber string) (bool, error)
	RejectAllocation(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// TxRunner groups writes into one unit of work.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	TransactionsEnabled() bool
}

type AllocationObserver interface {
	ObserveAllocation(outcome string)
}

var errNotPending = errors.New("allocation no longer pending")

type RoomService struct {
	rooms    RoomStore
	students StudentStore
	tx       TxRunner
	observer AllocationObserver
	log      *zap.Logger
	now      func() time.Time
}

func NewRoomService(rooms RoomStore, students StudentStore, tx TxRunner, observer AllocationObserver, log *zap.Logger) *RoomService {
	return &RoomService{
		rooms:    rooms,
		students: students,
		tx:       tx,
		observer: observer,
		log:      log.Named("rooms"),
		now:      time.Now,
	}
}

// RequestAllocation moves the student from none to pending for roomType.
func (s *RoomService) RequestAllocation(ctx context.Context, studentID primitive.ObjectID, roomType RoomType) (*RoomDetails, error) {
	if !roomType.Valid() {
		return nil, apperr.BadRequest("Invalid room type")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperr.NotFound("User not found")
	}
	if student.RoomAllocationStatus != auth.AllocationNone {
		return nil, alreadyRequested(student.RoomAllocationStatus)
	}

	ok, err := s.students.RequestRoom(ctx, studentID, string(roomType))
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent request won; report the state it left behind.
		current, err := s.students.FindByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		status := auth.AllocationPending
		if current != nil {
			status = current.RoomAllocationStatus
		}
		return nil, alreadyRequested(status)
	}
	s.log.Info("room requested", zap.String("student_id", studentID.Hex()), zap.String("room_type", string(roomType)))
	return &RoomDetails{RoomType: string(roomType), Status: auth.AllocationPending}, nil
}

func alreadyRequested(status auth.AllocationStatus) error {
	return apperr.BadRequest(fmt.Sprintf("You already have a %s room allocation request", status))
}

func (s *RoomService) RoomDetails(ctx context.Context, studentID primitive.ObjectID) (*RoomDetails, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperr.NotFound("User not found")
	}
	return &RoomDetails{
		RoomNumber: student.RoomNumber,
		RoomType:   student.RoomType,
		Status:     student.RoomAllocationStatus,
	}, nil
}

func (s *RoomService) PendingRequests(ctx context.Context) ([]PendingRequest, error) {
	students, err := s.students.ListByAllocationStatus(ctx, auth.AllocationPending)
	if err != nil {
		return nil, err
	}
	out := make([]PendingRequest, 0, len(students))
	for _, st := range students {
		out = append(out, PendingRequest{
			ID:        st.ID,
			Name:      st.Name,
			Email:     st.Email,
			StudentID: st.StudentID,
			RoomType:  st.RoomType,
			Status:    st.RoomAllocationStatus,
			CreatedAt: st.CreatedAt,
		})
	}
	return out, nil
}

func (s *RoomService) pendingStudent(ctx context.Context, studentID primitive.ObjectID) (*auth.User, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != auth.RoleStudent {
		return nil, apperr.NotFound("Student not found")
	}
	if student.RoomAllocationStatus != auth.AllocationPending {
		return nil, apperr.BadRequest("No pending request found")
	}
	return student, nil
}

func (s *RoomService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveAllocation(outcome)
	}
}

// Approve places a pending student in roomNumber, or in the first room of
// the requested type with a free bed when roomNumber is empty. The room and
// user writes commit together; a lost race for the last bed is reported as
// "Room is full".
func (s *RoomService) Approve(ctx context.Context, studentID primitive.ObjectID, roomNumber string) (*ApprovalResult, error) {
	student, err := s.pendingStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	roomType := RoomType(student.RoomType)

	var room *Room
	if roomNumber = strings.TrimSpace(roomNumber); roomNumber != "" {
		room, err = s.rooms.FindByNumber(ctx, roomNumber)
		if err != nil {
			return nil, err
		}
		if room == nil || room.RoomType != roomType {
			return nil, apperr.NotFound("Room not found or type mismatch")
		}
	} else {
		room, err = s.rooms.FindAvailable(ctx, roomType)
		if err != nil {
			return nil, err
		}
		if room == nil {
			s.observe(metrics.AllocationNoRoom)
			return nil, apperr.BadRequest("No available room found")
		}
	}
	if !room.HasSpace() {
		s.observe(metrics.AllocationFull)
		return nil, apperr.BadRequest("Room is full")
	}

	var updated *Room
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		r, err := s.rooms.AddOccupant(ctx, room.ID, student.ID)
		if err != nil {
			return err
		}
		ok, err := s.students.ApproveAllocation(ctx, student.ID, r.RoomNumber)
		if err == nil && !ok {
			err = errNotPending
		}
		if err != nil {
			if !s.tx.TransactionsEnabled() {
				s.compensate(ctx, room.ID, student.ID)
			}
			return err
		}
		updated = r
		return nil
	})
	switch {
	case errors.Is(err, ErrRoomFull):
		s.observe(metrics.AllocationFull)
		return nil, apperr.BadRequest("Room is full")
	case errors.Is(err, ErrAlreadyInRoom):
		return nil, apperr.Conflict("Student is already in this room")
	case errors.Is(err, errNotPending):
		return nil, apperr.BadRequest("No pending request found")
	case err != nil:
		return nil, err
	}

	s.observe(metrics.AllocationApproved)
	s.log.Info("room allocation approved",
		zap.String("student_id", student.ID.Hex()),
		zap.String("room", updated.RoomNumber),
		zap.Int("occupancy", updated.CurrentOccupancy))
	return &ApprovalResult{
		Message: "Room allocation approved",
		Student: AllocatedStudent{ID: student.ID, Name: student.Name, RoomNumber: updated.RoomNumber, RoomType: student.RoomType},
		Room:    updated,
	}, nil
}

// compensate releases a bed taken by an approval whose user write failed.
func (s *RoomService) compensate(ctx context.Context, roomID, studentID primitive.ObjectID) {
	if err := s.rooms.RemoveOccupant(context.WithoutCancel(ctx), roomID, studentID); err != nil {
		s.log.Error("release bed after failed approval",
			zap.Error(err), zap.String("room_id", roomID.Hex()), zap.String("student_id", studentID.Hex()))
	}
}

func (s *RoomService) Reject(ctx context.Context, studentID primitive.ObjectID) error {
	if _, err := s.pendingStudent(ctx, studentID); err != nil {
		return err
	}
	ok, err := s.students.RejectAllocation(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.BadRequest("No pending request found")
	}
	s.observe(metrics.AllocationRejected)
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	room := &Room{
		ID:          primitive.NewObjectID(),
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		RoomType:    req.RoomType,
		Capacity:    req.RoomType.Capacity(),
		Charge:      req.Charge,
		Students:    []primitive.ObjectID{},
		IsAvailable: true,
		CreatedAt:   s.now(),
	}
	if room.RoomNumber == "" {
		return nil, apperr.Validation(map[string]string{"roomNumber": "roomNumber is required"})
	}
	if !room.RoomType.Valid() {
		return nil, apperr.BadRequest("Invalid room type")
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, ErrDuplicateRoom) {
			return nil, apperr.BadRequest("Room number already exists")
		}
		return nil, err
	}
	return room, nil
}

// chargesOf takes each type's charge from its lowest-numbered room; types
// with no rooms report 0.
func chargesOf(rooms []*Room) Charges {
	charges := Charges{}
	for _, t := range RoomTypes {
		charges[t] = 0
	}
	seen := map[RoomType]bool{}
	for _, r := range rooms {
		if !seen[r.RoomType] {
			charges[r.RoomType] = r.Charge
			seen[r.RoomType] = true
		}
	}
	return charges
}

func (s *RoomService) views(ctx context.Context, rooms []*Room) ([]RoomView, error) {
	var ids []primitive.ObjectID
	for _, r := range rooms {
		ids = append(ids, r.Students...)
	}
	users, err := s.students.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		occupants := make([]*auth.Author, 0, len(r.Students))
		for _, id := range r.Students {
			if u, ok := users[id]; ok {
				occupants = append(occupants, u.Author())
			}
		}
		views = append(views, RoomView{Room: *r, Students: occupants})
	}
	return views, nil
}

func (s *RoomService) ListRooms(ctx context.Context) (*RoomList, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, rooms)
	if err != nil {
		return nil, err
	}
	return &RoomList{Rooms: views, Charges: chargesOf(rooms)}, nil
}

func (s *RoomService) Charges(ctx context.Context) (Charges, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	return chargesOf(rooms), nil
}

// UpdateCharges applies each provided charge to every room of that type.
func (s *RoomService) UpdateCharges(ctx context.Context, req UpdateChargesRequest) ([]ChargeUpdate, error) {
	charges := req.byType()
	updates := []ChargeUpdate{}
	for _, t := range RoomTypes {
		charge, ok := charges[t]
		if !ok {
			continue
		}
		if err := s.rooms.UpdateChargeByType(ctx, t, charge); err != nil {
			return nil, err
		}
		updates = append(updates, ChargeUpdate{Type: t, Charge: charge})
	}
	return updates, nil
}

func (s *RoomService) Allocations(ctx context.Context) (*Allocations, error) {
	students, err := s.students.ListByRole(ctx, auth.RoleStudent)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, rooms)
	if err != nil {
		return nil, err
	}
	return &Allocations{Students: students, Rooms: views}, nil
}
