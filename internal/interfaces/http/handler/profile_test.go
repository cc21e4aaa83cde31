package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityapp "github.com/estore/backend/internal/application/identity"
	"github.com/estore/backend/internal/domain/identity"
	"github.com/estore/backend/internal/infrastructure/auth"
	"github.com/estore/backend/internal/interfaces/http/middleware"
)

type profileTestEnv struct {
	engine      *gin.Engine
	userRepo    *MockUserRepository
	profileRepo *MockProfileRepository
	jwtService  *auth.JWTService
}

func setupProfileRouter(t *testing.T) *profileTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &profileTestEnv{
		userRepo:    new(MockUserRepository),
		profileRepo: new(MockProfileRepository),
		jwtService:  newAuthTestJWTService(),
	}

	profileService := identityapp.NewProfileService(env.userRepo, env.profileRepo)
	handler := NewProfileHandler(profileService)

	env.engine = gin.New()
	api := env.engine.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: env.jwtService,
	}))
	handler.RegisterRoutes(protected)

	return env
}

func (env *profileTestEnv) bearerFor(t *testing.T, userID uuid.UUID, username string) string {
	t.Helper()
	pair, err := env.jwtService.GenerateTokenPair(userID, username)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func mustNewTestProfile(t *testing.T, userID uuid.UUID) *identity.UserProfile {
	t.Helper()
	profile, err := identity.NewUserProfile(userID)
	require.NoError(t, err)
	return profile
}

func TestProfileHandler_Get(t *testing.T) {
	env := setupProfileRouter(t)

	user := mustNewTestUser(t, "bob", "bob@example.com", "s3cret-password")
	profile := mustNewTestProfile(t, user.ID)
	require.NoError(t, profile.SetPhone("+1-555-0100"))

	env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	env.profileRepo.On("FindByUser", mock.Anything, user.ID).Return(profile, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", env.bearerFor(t, user.ID, user.Username))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)
	assert.Contains(t, w.Body.String(), `"phone":"+1-555-0100"`)
}

func TestProfileHandler_GetWithoutToken(t *testing.T) {
	env := setupProfileRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProfileHandler_Update(t *testing.T) {
	env := setupProfileRouter(t)

	user := mustNewTestUser(t, "bob", "bob@example.com", "s3cret-password")
	profile := mustNewTestProfile(t, user.ID)

	env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	env.userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	env.profileRepo.On("FindByUser", mock.Anything, user.ID).Return(profile, nil)
	env.profileRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	body := strings.NewReader(`{
		"first_name": "Bob",
		"last_name": "Martin",
		"phone": "+1-555-0199"
	}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearerFor(t, user.ID, user.Username))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"first_name":"Bob"`)
	assert.Contains(t, w.Body.String(), `"last_name":"Martin"`)
	assert.Contains(t, w.Body.String(), `"phone":"+1-555-0199"`)
	env.userRepo.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	env.profileRepo.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProfileHandler_UpdateInvalidEmail(t *testing.T) {
	env := setupProfileRouter(t)

	user := mustNewTestUser(t, "bob", "bob@example.com", "s3cret-password")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile",
		strings.NewReader(`{"email": "not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearerFor(t, user.ID, user.Username))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProfileHandler_ChangePassword(t *testing.T) {
	env := setupProfileRouter(t)

	user := mustNewTestUser(t, "bob", "bob@example.com", "old-password-1")

	env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	env.userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	body := strings.NewReader(`{
		"current_password": "old-password-1",
		"new_password": "new-password-22"
	}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/password", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearerFor(t, user.ID, user.Username))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, user.VerifyPassword("new-password-22"))
}

func TestProfileHandler_ChangePasswordWrongCurrent(t *testing.T) {
	env := setupProfileRouter(t)

	user := mustNewTestUser(t, "bob", "bob@example.com", "old-password-1")

	env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	body := strings.NewReader(`{
		"current_password": "wrong-password",
		"new_password": "new-password-22"
	}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/password", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearerFor(t, user.ID, user.Username))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	env.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
