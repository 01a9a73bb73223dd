package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*User

	CreateCalls   int
	FindEmailErr  error
	CreateErr     error
	UpdatedHashes map[primitive.ObjectID]string
}

func newFakeUserStore(users ...*User) *fakeUserStore {
	s := &fakeUserStore{users: map[primitive.ObjectID]*User{}, UpdatedHashes: map[primitive.ObjectID]string{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	return s.users[id], nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	if s.FindEmailErr != nil {
		return nil, s.FindEmailErr
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByStudentID(_ context.Context, studentID string) (*User, error) {
	for _, u := range s.users {
		if studentID != "" && u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) ExistsByRole(_ context.Context, role Role) (bool, error) {
	for _, u := range s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) ListByRole(_ context.Context, role Role) ([]*User, error) {
	var out []*User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *User) error {
	s.CreateCalls++
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) SetResetToken(_ context.Context, id primitive.ObjectID, digest string, expires time.Time) error {
	u := s.users[id]
	u.ResetTokenHash = digest
	u.ResetTokenExpires = &expires
	return nil
}

func (s *fakeUserStore) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	u := s.users[id]
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	return nil
}

func (s *fakeUserStore) FindByResetToken(_ context.Context, digest string, now time.Time) (*User, error) {
	for _, u := range s.users {
		if u.ResetTokenHash == digest && u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u := s.users[id]
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	s.UpdatedHashes[id] = passwordHash
	return nil
}

type fakeTokenStore struct {
	revoked map[string]time.Duration
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: map[string]time.Duration{}}
}

func (s *fakeTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.revoked[jti] = ttl
	return nil
}

func (s *fakeTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

type sentEmail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendEmail(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}
