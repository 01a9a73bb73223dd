package auth

import (
	"HostelManagement/internal/apperr"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByStudentID(ctx context.Context, studentID string) (*User, error)
	ExistsByRole(ctx context.Context, role Role) (bool, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	CreateUser(ctx context.Context, user *User) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expires time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type UserService struct {
	repo        UserStore
	tokens      *TokenManager
	revoked     TokenStore
	mailer      Mailer
	resetTTL    time.Duration
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
}

func NewUserService(repo UserStore, tokens *TokenManager, revoked TokenStore, mailer Mailer, resetTTL time.Duration, frontendURL string, log *zap.Logger) *UserService {
	return &UserService{
		repo:        repo,
		tokens:      tokens,
		revoked:     revoked,
		mailer:      mailer,
		resetTTL:    resetTTL,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Named("auth"),
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	// Only one admin and one accountant may exist.
	if req.Role == RoleAdmin || req.Role == RoleAccountant {
		exists, err := s.repo.ExistsByRole(ctx, req.Role)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.BadRequest(fmt.Sprintf("An %s account already exists. Only one %s account is allowed.", req.Role, req.Role))
		}
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("User already exists with this email")
	}

	studentID := strings.TrimSpace(req.StudentID)
	if req.Role != RoleStudent {
		studentID = ""
	}
	if studentID != "" {
		existingStudent, err := s.repo.FindByStudentID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if existingStudent != nil {
			return nil, apperr.BadRequest("Student ID already registered")
		}
	}

	hashPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:                   primitive.NewObjectID(),
		Name:                 strings.TrimSpace(req.Name),
		Email:                email,
		PasswordHash:         hashPassword,
		Role:                 req.Role,
		StudentID:            studentID,
		RoomAllocationStatus: AllocationNone,
		CreatedAt:            s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, apperr.BadRequest("User already exists with this email")
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))

	token, err := s.tokens.GenerateJWT(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (*AuthResponse, error) {
	var user *User
	var err error

	identifier := strings.TrimSpace(cred.Identifier)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.repo.FindByStudentID(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.GenerateJWT(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) CheckRoles(ctx context.Context) (*RoleAvailability, error) {
	adminExists, err := s.repo.ExistsByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, err
	}
	accountantExists, err := s.repo.ExistsByRole(ctx, RoleAccountant)
	if err != nil {
		return nil, err
	}
	return &RoleAvailability{AdminExists: adminExists, AccountantExists: accountantExists}, nil
}

// ForgotPassword mails a single-use reset link. Unknown emails succeed
// silently so the endpoint cannot be used to probe accounts.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	raw, digest := newResetToken()
	if err := s.repo.SetResetToken(ctx, user.ID, digest, s.now().Add(s.resetTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, raw)
	body := fmt.Sprintf(`<p>Hello %s,</p><p>You requested a password reset. <a href="%s">Reset your password</a>. The link expires in %s.</p>`,
		user.Name, link, s.resetTTL)
	if err := s.mailer.SendEmail(ctx, user.Email, "Password Reset Request", body); err != nil {
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Warn("clear reset token", zap.Error(clearErr))
		}
		return apperr.Wrap(http.StatusInternalServerError, "Email could not be sent", err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.repo.FindByResetToken(ctx, hashResetToken(token), s.now())
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.BadRequest("Invalid or expired token")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, hash)
}

// Logout revokes the presented token until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, claims *JWTClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

func (s *UserService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked.IsRevoked(ctx, jti)
}

func (s *UserService) ListStudents(ctx context.Context) ([]*User, error) {
	return s.repo.ListByRole(ctx, RoleStudent)
}

func (s *UserService) ListStudentSummaries(ctx context.Context) ([]StudentSummary, error) {
	students, err := s.repo.ListByRole(ctx, RoleStudent)
	if err != nil {
		return nil, err
	}
	summaries := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		summaries = append(summaries, StudentSummary{
			ID:         st.ID,
			Name:       st.Name,
			Email:      st.Email,
			StudentID:  st.StudentID,
			RoomNumber: st.RoomNumber,
			RoomType:   st.RoomType,
		})
	}
	return summaries, nil
}
