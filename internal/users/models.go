package users

import (
	"time"

	"github.com/runtiger2024/buy1688-sub000/internal/auth"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) Claims() auth.Claims {
	return auth.Claims{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type CreateStaffInput struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     auth.Role `json:"role"`
}

// Patch fields left nil are not touched.
type Patch struct {
	Name     *string    `json:"name"`
	Role     *auth.Role `json:"role"`
	IsActive *bool      `json:"is_active"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
