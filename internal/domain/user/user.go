package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	HashedPassword string    `json:"-"` // never expose hash in JSON
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	PhoneNumber    *string   `json:"phoneNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=100"`
	Email       string  `json:"email" binding:"required,email,max=100"`
	FirstName   string  `json:"firstName" binding:"required,min=3,max=100"`
	LastName    string  `json:"lastName" binding:"required,min=3,max=100"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        string  `json:"role" binding:"omitempty,oneof=user admin"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=30"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
