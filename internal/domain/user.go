package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered campus user.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	RollNumber   string    `json:"roll_number" db:"roll_number"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	RollNumber string `json:"roll_number" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates by email or roll number.
type LoginRequest struct {
	EmailOrRoll string `json:"email_or_roll" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// AuthResponse is returned from signup and login.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

// UserInfo is the public projection of a user.
type UserInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	RollNumber string    `json:"roll_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// Info returns the public projection of the user.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		RollNumber: u.RollNumber,
		CreatedAt:  u.CreatedAt,
	}
}
