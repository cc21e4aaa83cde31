package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/estore/backend/internal/domain/identity"
	"github.com/estore/backend/internal/domain/shared"
	"github.com/estore/backend/internal/infrastructure/auth"
	"github.com/estore/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "auth-service-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "estore-test",
		MaxRefreshCount:        3,
	})
}

func newAuthService(userRepo *MockUserRepository, profileRepo *MockProfileRepository) *AuthService {
	return NewAuthService(userRepo, profileRepo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func mustNewUser(t *testing.T, username, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, email, password)
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.UserProfile")).Return(nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "Alice",
		Email:           "Alice@Example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	userRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "different",
	})

	assert.ErrorIs(t, err, shared.ErrPasswordMismatch)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	})

	assert.ErrorIs(t, err, shared.ErrDuplicateUsername)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	})

	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	user := mustNewUser(t, "alice", "alice@example.com", "s3cret-pass")
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "Alice", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, user.LastLoginAt)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	user := mustNewUser(t, "alice", "alice@example.com", "s3cret-pass")
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	userRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, shared.ErrNotFound)

	// Wrong password and unknown user produce the same error
	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	user := mustNewUser(t, "alice", "alice@example.com", "s3cret-pass")
	pair, err := svc.jwtService.GenerateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	resp, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: pair.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, resp.RefreshToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	_, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "garbage"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	profileRepo := new(MockProfileRepository)
	svc := newAuthService(userRepo, profileRepo)

	user := mustNewUser(t, "alice", "alice@example.com", "s3cret-pass")
	pair, err := svc.jwtService.GenerateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	claims, err := svc.jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))

	blacklisted, err := svc.blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}
