package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estore/backend/internal/domain/identity"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/infrastructure/auth"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Register creates a new account and logs the user in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Info("Registration attempt", zap.String("username", username))

	if req.Password != req.ConfirmPassword {
		return nil, shared.ErrPasswordMismatch
	}

	// Uniqueness checks run before any write so a rejected registration
	// leaves no partial state behind
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}
	if exists {
		return nil, shared.ErrDuplicateUsername
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}
	if exists {
		return nil, shared.ErrDuplicateEmail
	}

	user, err := identity.NewUser(username, email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}

	profile, err := identity.NewUserProfile(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to create user profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register account")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Account registered",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return s.authResponse(user, tokenPair), nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	s.logger.Info("Login attempt", zap.String("username", username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// Same error for unknown user and wrong password
		s.logger.Warn("User not found during login", zap.String("username", username))
		return nil, shared.ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, shared.ErrInvalidCredentials
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Don't fail the login, just log the error
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return s.authResponse(user, tokenPair), nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil && claims.ID != "" {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("Failed to check token blacklist", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
		}
		if blacklisted {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	// Verify the account still exists
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.ErrUnauthorized
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &TokenResponse{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// CurrentUser returns the account behind a validated access token
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Logout revokes the current access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return shared.ErrUnauthorized
	}

	if s.blacklist != nil && claims.ID != "" {
		if ttl := claims.GetRemainingTTL(); ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
				s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

func (s *AuthService) authResponse(user *identity.User, pair *auth.TokenPair) *AuthResponse {
	return &AuthResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
