package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// AllocationStatus tracks a student's room request: none -> pending ->
// approved | rejected.
type AllocationStatus string

const (
	AllocationNone     AllocationStatus = "none"
	AllocationPending  AllocationStatus = "pending"
	AllocationApproved AllocationStatus = "approved"
	AllocationRejected AllocationStatus = "rejected"
)

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	PasswordHash         string             `bson:"password_hash" json:"-"`
	Role                 Role               `bson:"role" json:"role"`
	StudentID            string             `bson:"student_id,omitempty" json:"studentId,omitempty"`
	RoomNumber           string             `bson:"room_number,omitempty" json:"roomNumber"`
	RoomType             string             `bson:"room_type,omitempty" json:"roomType"`
	RoomAllocationStatus AllocationStatus   `bson:"room_allocation_status" json:"roomAllocationStatus"`
	ResetTokenHash       string             `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpires    *time.Time         `bson:"reset_token_expires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"created_at" json:"createdAt"`
}

// Author is the public slice of a user embedded in other resources.
type Author struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      Role               `json:"role,omitempty"`
	StudentID string             `json:"studentId,omitempty"`
}

func (u *User) Author() *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, StudentID: u.StudentID}
}

// StudentSummary is what the accountant sees of a student.
type StudentSummary struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	StudentID  string             `json:"studentId,omitempty"`
	RoomNumber string             `json:"roomNumber"`
	RoomType   string             `json:"roomType"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      Role   `json:"role" validate:"required,oneof=student accountant admin"`
	StudentID string `json:"studentId"`
}

// Credential identifies a user by email, or by student ID when the
// identifier has no "@".
type Credential struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RoleAvailability struct {
	AdminExists      bool `json:"adminExists"`
	AccountantExists bool `json:"accountantExists"`
}
