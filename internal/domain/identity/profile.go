package identity

import (
	"strings"
	"time"

	"github.com/estore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserProfile holds optional contact details for a user
// Created lazily the first time the profile is accessed
type UserProfile struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Phone      string    `gorm:"type:varchar(30)"`
	Address    string    `gorm:"type:text"`
	PictureURL string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// NewUserProfile creates an empty profile for a user
func NewUserProfile(userID uuid.UUID) (*UserProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &UserProfile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}, nil
}

// SetPhone sets the contact phone number
func (p *UserProfile) SetPhone(phone string) error {
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	p.Phone = strings.TrimSpace(phone)
	p.UpdatedAt = time.Now()
	return nil
}

// SetAddress sets the contact address
func (p *UserProfile) SetAddress(address string) {
	p.Address = strings.TrimSpace(address)
	p.UpdatedAt = time.Now()
}

// SetPictureURL sets the profile picture URL
func (p *UserProfile) SetPictureURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_PICTURE_URL", "Picture URL cannot exceed 500 characters")
	}
	p.PictureURL = strings.TrimSpace(url)
	p.UpdatedAt = time.Now()
	return nil
}
