package auth

import (
	"HostelManagement/internal/apperr"
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestService(store *fakeUserStore, mailer *fakeMailer) (*UserService, *fakeTokenStore) {
	tokens := newFakeTokenStore()
	svc := NewUserService(store, NewTokenManager("test-secret", time.Hour), tokens, mailer, 15*time.Minute, "http://localhost:3000/", zap.NewNop())
	return svc, tokens
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func TestRegisterUser_Student(t *testing.T) {
	// ARRANGE
	store := newFakeUserStore()
	svc, _ := newTestService(store, &fakeMailer{})

	// ACT
	resp, err := svc.RegisterUser(context.Background(), RegisterRequest{
		Name: "Jane", Email: " Jane@Hostel.com ", Password: "secret1", Role: RoleStudent, StudentID: "STU010",
	})

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "jane@hostel.com" {
		t.Errorf("email = %q, want lower-cased", resp.User.Email)
	}
	if resp.User.RoomAllocationStatus != AllocationNone {
		t.Errorf("status = %q, want none", resp.User.RoomAllocationStatus)
	}
	if resp.User.PasswordHash == "secret1" || !CheckPasswordHash("secret1", resp.User.PasswordHash) {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterUser_SecondAdminRejected(t *testing.T) {
	admin := &User{ID: primitive.NewObjectID(), Email: "admin@hostel.com", Role: RoleAdmin}
	store := newFakeUserStore(admin)
	svc, _ := newTestService(store, &fakeMailer{})

	_, err := svc.RegisterUser(context.Background(), RegisterRequest{
		Name: "Other", Email: "other@hostel.com", Password: "secret1", Role: RoleAdmin,
	})

	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if store.CreateCalls != 0 {
		t.Error("second admin must not be created")
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore(&User{ID: primitive.NewObjectID(), Email: "jane@hostel.com", Role: RoleStudent})
	svc, _ := newTestService(store, &fakeMailer{})

	_, err := svc.RegisterUser(context.Background(), RegisterRequest{
		Name: "Jane", Email: "jane@hostel.com", Password: "secret1", Role: RoleStudent,
	})

	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Message != "User already exists with this email" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	student := &User{ID: primitive.NewObjectID(), Name: "John", Email: "john@hostel.com", StudentID: "STU001",
		Role: RoleStudent, PasswordHash: mustHash(t, "student123")}
	svc, _ := newTestService(newFakeUserStore(student), &fakeMailer{})

	tests := []struct {
		name       string
		cred       Credential
		wantStatus int
	}{
		{"by email", Credential{Identifier: "JOHN@hostel.com", Password: "student123"}, 0},
		{"by student id", Credential{Identifier: "STU001", Password: "student123"}, 0},
		{"wrong password", Credential{Identifier: "john@hostel.com", Password: "nope"}, http.StatusUnauthorized},
		{"unknown user", Credential{Identifier: "ghost@hostel.com", Password: "student123"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.AuthenticateUser(context.Background(), tt.cred)
			if tt.wantStatus != 0 {
				if apperr.StatusOf(err) != tt.wantStatus {
					t.Fatalf("expected %d, got %v", tt.wantStatus, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.User.ID != student.ID {
				t.Error("wrong user returned")
			}
		})
	}
}

func TestPasswordResetFlow(t *testing.T) {
	// ARRANGE
	user := &User{ID: primitive.NewObjectID(), Name: "John", Email: "john@hostel.com", Role: RoleStudent, PasswordHash: mustHash(t, "old-pass")}
	store := newFakeUserStore(user)
	mailer := &fakeMailer{}
	svc, _ := newTestService(store, mailer)

	// ACT
	if err := svc.ForgotPassword(context.Background(), "john@hostel.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	// ASSERT
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	link := regexp.MustCompile(`http://localhost:3000/reset-password/([0-9a-f-]+)`).FindStringSubmatch(mailer.sent[0].Body)
	if link == nil {
		t.Fatalf("reset link missing from %q", mailer.sent[0].Body)
	}
	if user.ResetTokenHash == link[1] {
		t.Error("raw token must not be stored")
	}

	if err := svc.ResetPassword(context.Background(), link[1], "new-pass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !CheckPasswordHash("new-pass", user.PasswordHash) {
		t.Error("password not updated")
	}

	// The token is single use.
	err := svc.ResetPassword(context.Background(), link[1], "again-pass")
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("reused token: expected 400, got %v", err)
	}
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newTestService(newFakeUserStore(), mailer)

	if err := svc.ForgotPassword(context.Background(), "ghost@hostel.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("no email should be sent")
	}
}

func TestForgotPassword_MailFailureClearsToken(t *testing.T) {
	user := &User{ID: primitive.NewObjectID(), Email: "john@hostel.com", Role: RoleStudent}
	svc, _ := newTestService(newFakeUserStore(user), &fakeMailer{err: errors.New("provider down")})

	err := svc.ForgotPassword(context.Background(), "john@hostel.com")

	if apperr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if user.ResetTokenHash != "" {
		t.Error("token should be cleared when the email fails")
	}
}

func TestResetPassword_Expired(t *testing.T) {
	raw, digest := newResetToken()
	expired := time.Now().Add(-time.Minute)
	user := &User{ID: primitive.NewObjectID(), ResetTokenHash: digest, ResetTokenExpires: &expired}
	svc, _ := newTestService(newFakeUserStore(user), &fakeMailer{})

	err := svc.ResetPassword(context.Background(), raw, "new-pass")

	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	user := &User{ID: primitive.NewObjectID(), Name: "John", Role: RoleStudent}
	svc, tokens := newTestService(newFakeUserStore(user), &fakeMailer{})
	token, err := svc.tokens.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.tokens.ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout: %v", err)
	}

	revoked, _ := svc.IsRevoked(context.Background(), claims.ID)
	if !revoked {
		t.Fatal("token should be revoked")
	}
	if ttl := tokens.revoked[claims.ID]; ttl <= 0 || ttl > time.Hour {
		t.Errorf("ttl = %v, want within token lifetime", ttl)
	}
}

func TestCheckRoles(t *testing.T) {
	store := newFakeUserStore(&User{ID: primitive.NewObjectID(), Role: RoleAdmin})
	svc, _ := newTestService(store, &fakeMailer{})

	roles, err := svc.CheckRoles(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !roles.AdminExists || roles.AccountantExists {
		t.Errorf("roles = %+v", roles)
	}
}

func TestListStudentSummaries_OnlyStudents(t *testing.T) {
	student := &User{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@student.com", Role: RoleStudent, StudentID: "STU003", RoomNumber: "102", RoomType: "4-person", PasswordHash: "x"}
	admin := &User{ID: primitive.NewObjectID(), Name: "Admin", Email: "admin@hostel.com", Role: RoleAdmin}
	svc, _ := newTestService(newFakeUserStore(student, admin), &fakeMailer{})

	summaries, err := svc.ListStudentSummaries(context.Background())
	if err != nil {
		t.Fatalf("ListStudentSummaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %+v, want only the student", summaries)
	}
	got := summaries[0]
	if got.StudentID != "STU003" || got.RoomNumber != "102" || got.RoomType != "4-person" {
		t.Errorf("summary = %+v", got)
	}
}
