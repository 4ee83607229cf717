package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/types"
)

// User represents an account holder, either a candidate or a recruiter
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         types.Role `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserCreateInput contains the fields for creating a user
type UserCreateInput struct {
	Name         string
	Email        string
	Role         types.Role
	Phone        string
	PasswordHash string
}

// UserProfileUpdate carries a partial profile update; nil fields are left unchanged
type UserProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	Avatar  *string
}
