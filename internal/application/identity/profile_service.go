package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/estore/backend/internal/domain/identity"
	"github.com/estore/backend/internal/domain/shared"
)

// ProfileService handles the account page
type ProfileService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo identity.UserRepository, profileRepo identity.ProfileRepository) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// Get returns the account and profile data for a user
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToProfileResponse(user, profile)
	return &resp, nil
}

// Update applies the provided profile fields and returns the updated view
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userChanged := false
	if req.FirstName != nil || req.LastName != nil {
		firstName := user.FirstName
		lastName := user.LastName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		if req.LastName != nil {
			lastName = *req.LastName
		}
		if err := user.SetName(firstName, lastName); err != nil {
			return nil, err
		}
		userChanged = true
	}
	if req.Email != nil {
		if taken, err := s.emailTakenByOther(ctx, *req.Email, userID); err != nil {
			return nil, err
		} else if taken {
			return nil, shared.ErrDuplicateEmail
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
		userChanged = true
	}
	if userChanged {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	profile, err := s.loadOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profileChanged := false
	if req.Phone != nil {
		if err := profile.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
		profileChanged = true
	}
	if req.Address != nil {
		profile.SetAddress(*req.Address)
		profileChanged = true
	}
	if req.PictureURL != nil {
		if err := profile.SetPictureURL(*req.PictureURL); err != nil {
			return nil, err
		}
		profileChanged = true
	}
	if profileChanged {
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}
	}

	resp := ToProfileResponse(user, profile)
	return &resp, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if userID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(req.CurrentPassword) {
		return shared.ErrInvalidCredentials
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// loadOrCreateProfile returns the user's profile, lazily creating an
// empty one for accounts registered before profiles existed
func (s *ProfileService) loadOrCreateProfile(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	profile, err = identity.NewUserProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) emailTakenByOther(ctx context.Context, email string, userID uuid.UUID) (bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != userID, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
