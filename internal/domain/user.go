package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string     `gorm:"size:191;not null" json:"-"`
	FirstName    string     `gorm:"size:64" json:"firstName"`
	LastName     string     `gorm:"size:64" json:"lastName"`
	Role         string     `gorm:"size:16;not null;default:user" json:"role"` // admin/manager/user
	Active       bool       `gorm:"not null;default:true" json:"active"`
	ProfileImage string     `gorm:"size:255" json:"profileImage,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// CanBypassOwnership 管理员不受归属限制
func CanBypassOwnership(role string) bool { return role == RoleAdmin }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
}
