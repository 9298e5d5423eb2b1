package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

// AuthHandler serves the magic-link sign-in flow and the profile of the
// signed-in user.
type AuthHandler struct {
	authService service.AuthService
	teamService service.TeamService
	log         logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, teamService service.TeamService, log logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, teamService: teamService, log: log}
}

// --- Request/Response Structs ---

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ProfileResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SessionResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// --- Handler Methods ---

// RequestMagicLink godoc
// @Summary Email a sign-in link
// @Description Sends a single-use sign-in link to a provisioned team member. Accounts are never created here.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body MagicLinkRequest true "Email address"
// @Success 202 {object} gin.H "Link sent"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Email not approved"
// @Failure 502 {object} gin.H "Email delivery failed"
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.authService.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Check your email for the sign-in link."})
}

// Callback godoc
// @Summary Redeem a sign-in link
// @Tags Auth
// @Produce json
// @Param token query string true "Token from the emailed link"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H "Link invalid, used or expired"
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, http.StatusBadRequest, "token query parameter is required")
		return
	}
	jwtToken, profile, err := h.authService.Redeem(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: jwtToken, Profile: MapProfileToResponse(profile)})
}

// Me returns the profile behind the session token.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	profile, err := h.teamService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// MapProfileToResponse converts a domain Profile to a ProfileResponse DTO.
func MapProfileToResponse(p *domain.Profile) ProfileResponse {
	if p == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}

func MapProfilesToResponse(profiles []domain.Profile) []ProfileResponse {
	out := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		out[i] = MapProfileToResponse(&profiles[i])
	}
	return out
}
