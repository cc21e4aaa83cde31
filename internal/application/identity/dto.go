package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/estore/backend/internal/domain/identity"
)

// RegisterRequest contains the input for account registration
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=100"`
	Email           string `json:"email" binding:"required,email,max=200"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest contains the input for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest contains the input for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest contains the editable profile fields
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name" binding:"omitempty,max=100"`
	Email      *string `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Address    *string `json:"address"`
	PictureURL *string `json:"picture_url" binding:"omitempty,max=500"`
}

// ChangePasswordRequest contains the input for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserResponse contains basic account information
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProfileResponse combines account and profile data for the account page
type ProfileResponse struct {
	User       UserResponse `json:"user"`
	Phone      string       `json:"phone"`
	Address    string       `json:"address"`
	PictureURL string       `json:"picture_url"`
}

// AuthResponse contains tokens and user info returned after login or register
type AuthResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// TokenResponse contains a refreshed token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ToUserResponse converts a domain user to its response representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToProfileResponse combines a user and their profile into an account view
func ToProfileResponse(u *identity.User, p *identity.UserProfile) ProfileResponse {
	resp := ProfileResponse{User: ToUserResponse(u)}
	if p != nil {
		resp.Phone = p.Phone
		resp.Address = p.Address
		resp.PictureURL = p.PictureURL
	}
	return resp
}
