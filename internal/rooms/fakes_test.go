package rooms

import (
	"HostelManagement/internal/auth"
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRoomStore applies the same conditions as the Mongo repository under a lock.
type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[primitive.ObjectID]*Room

	RemoveCalls int
}

func newFakeRoomStore(rooms ...*Room) *fakeRoomStore {
	s := &fakeRoomStore{rooms: map[primitive.ObjectID]*Room{}}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *fakeRoomStore) copyOf(r *Room) *Room {
	c := *r
	c.Students = append([]primitive.ObjectID{}, r.Students...)
	return &c
}

func (s *fakeRoomStore) Create(_ context.Context, room *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.RoomNumber == room.RoomNumber {
			return ErrDuplicateRoom
		}
	}
	s.rooms[room.ID] = s.copyOf(room)
	return nil
}

func (s *fakeRoomStore) List(_ context.Context) ([]*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Room{}
	for _, r := range s.rooms {
		out = append(out, s.copyOf(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *fakeRoomStore) FindByNumber(ctx context.Context, number string) (*Room, error) {
	rooms, _ := s.List(ctx)
	for _, r := range rooms {
		if r.RoomNumber == number {
			return r, nil
		}
	}
	return nil, nil
}

func (s *fakeRoomStore) FindAvailable(ctx context.Context, t RoomType) (*Room, error) {
	rooms, _ := s.List(ctx)
	for _, r := range rooms {
		if r.RoomType == t && r.HasSpace() {
			return r, nil
		}
	}
	return nil, nil
}

func (s *fakeRoomStore) UpdateChargeByType(_ context.Context, t RoomType, charge float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.RoomType == t {
			r.Charge = charge
		}
	}
	return nil
}

func (s *fakeRoomStore) AddOccupant(_ context.Context, roomID, studentID primitive.ObjectID) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomFull
	}
	for _, id := range r.Students {
		if id == studentID {
			return nil, ErrAlreadyInRoom
		}
	}
	if len(r.Students) >= r.Capacity {
		return nil, ErrRoomFull
	}
	r.Students = append(r.Students, studentID)
	r.CurrentOccupancy = len(r.Students)
	r.IsAvailable = r.CurrentOccupancy < r.Capacity
	return s.copyOf(r), nil
}

func (s *fakeRoomStore) RemoveOccupant(_ context.Context, roomID, studentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RemoveCalls++
	r := s.rooms[roomID]
	kept := []primitive.ObjectID{}
	for _, id := range r.Students {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	r.Students = kept
	r.CurrentOccupancy = len(kept)
	r.IsAvailable = r.CurrentOccupancy < r.Capacity
	return nil
}

func (s *fakeRoomStore) get(id primitive.ObjectID) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyOf(s.rooms[id])
}

type fakeStudentStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*auth.User

	ApproveErr error
}

func newFakeStudentStore(users ...*auth.User) *fakeStudentStore {
	s := &fakeStudentStore{users: map[primitive.ObjectID]*auth.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStudentStore) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *fakeStudentStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[primitive.ObjectID]*auth.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *fakeStudentStore) ListByRole(_ context.Context, role auth.Role) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*auth.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStudentStore) ListByAllocationStatus(_ context.Context, status auth.AllocationStatus) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*auth.User{}
	for _, u := range s.users {
		if u.Role == auth.RoleStudent && u.RoomAllocationStatus == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStudentStore) RequestRoom(_ context.Context, id primitive.ObjectID, roomType string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != auth.RoleStudent || u.RoomAllocationStatus != auth.AllocationNone {
		return false, nil
	}
	u.RoomAllocationStatus = auth.AllocationPending
	u.RoomType = roomType
	return true, nil
}

func (s *fakeStudentStore) ApproveAllocation(_ context.Context, id primitive.ObjectID, roomNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApproveErr != nil {
		return false, s.ApproveErr
	}
	u, ok := s.users[id]
	if !ok || u.RoomAllocationStatus != auth.AllocationPending {
		return false, nil
	}
	u.RoomAllocationStatus = auth.AllocationApproved
	u.RoomNumber = roomNumber
	return true, nil
}

func (s *fakeStudentStore) RejectAllocation(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.RoomAllocationStatus != auth.AllocationPending {
		return false, nil
	}
	u.RoomAllocationStatus = auth.AllocationRejected
	u.RoomType = ""
	return true, nil
}

// directTx runs the unit of work without a transaction, like a standalone
// Mongo deployment.
type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (directTx) TransactionsEnabled() bool { return false }

// rollbackTx restores the room store when fn fails, like an aborted transaction.
type rollbackTx struct {
	rooms *fakeRoomStore
}

func (t rollbackTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.rooms.mu.Lock()
	snapshot := map[primitive.ObjectID]*Room{}
	for id, r := range t.rooms.rooms {
		snapshot[id] = t.rooms.copyOf(r)
	}
	t.rooms.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		t.rooms.mu.Lock()
		t.rooms.rooms = snapshot
		t.rooms.mu.Unlock()
	}
	return err
}

func (rollbackTx) TransactionsEnabled() bool { return true }

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) ObserveAllocation(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[outcome]++
}

var errBoom = errors.New("boom")
