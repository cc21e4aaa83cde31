package handler

import (
	identityapp "github.com/estore/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles the authenticated user's account endpoints
type ProfileHandler struct {
	BaseHandler
	profileService *identityapp.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *identityapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterRoutes implements the router registrar interface.
// All profile routes require an authenticated user.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
		profile.PUT("/password", h.ChangePassword)
	}
}

// Get godoc
// @ID           getProfile
// @Summary      Get the user's profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.ProfileResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Update godoc
// @ID           updateProfile
// @Summary      Update the user's profile
// @Description  Partial update of profile fields; omitted fields are left unchanged
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile update request"
// @Success      200 {object} APIResponse[identityapp.ProfileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change the user's password
// @Description  Verifies the current password before setting the new one
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePasswordRequest true "Password change request"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /profile/password [put]
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.profileService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
