package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/transport/http/middleware"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// AuthHandler exposes the passwordless authentication endpoints.
type AuthHandler struct {
	auth     *usecase.AuthService
	sessions *usecase.SessionService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, sessions *usecase.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// RegisterRoutes binds authentication routes. authMiddleware guards the
// endpoints that need a verified access token; the rate-limit chains apply to
// the anonymous login endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, authMiddleware gin.HandlerFunc, requestLimits, verifyLimits []gin.HandlerFunc) {
	r.POST("/login/request", append(append([]gin.HandlerFunc{}, requestLimits...), h.requestLogin)...)
	r.POST("/login/verify", append(append([]gin.HandlerFunc{}, verifyLimits...), h.verifyLogin)...)
	r.POST("/refresh", h.refresh)
	r.POST("/logout", h.logout)
	r.POST("/verify-email/request", append(append([]gin.HandlerFunc{}, requestLimits...), h.requestEmailVerification)...)
	r.POST("/verify-email/confirm", h.confirmEmailVerification)

	r.GET("/me", authMiddleware, h.profile)
	r.POST("/logout-all", authMiddleware, h.logoutAll)
	r.POST("/tokens/sweep", authMiddleware, h.sweepTokens)
}

// sweepTokens flips stale pending login and verification tokens to expired.
// Meant for operators; the same work also happens lazily on verification.
func (h *AuthHandler) sweepTokens(c *gin.Context) {
	count, err := h.auth.SweepExpiredTokens(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to sweep tokens"))
		return
	}

	c.JSON(http.StatusOK, TokenSweepResponse{Expired: count})
}

func (h *AuthHandler) requestLogin(c *gin.Context) {
	var req LoginRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a valid email is required"))
		return
	}

	email := strings.TrimSpace(req.Email)
	result, err := h.auth.RequestPasswordlessLogin(c.Request.Context(), email)
	if err != nil {
		// The response never reveals whether the email exists: unknown
		// addresses get the same shape with a plausible expiry.
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusAccepted, LoginRequestedResponse{
				Message:   "login code sent",
				Email:     email,
				ExpiresAt: h.auth.LoginTokenExpiry(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to start login"))
		return
	}

	c.JSON(http.StatusAccepted, LoginRequestedResponse{
		Message:   "login code sent",
		Email:     result.Email,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *AuthHandler) verifyLogin(c *gin.Context) {
	var req LoginVerifyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}
	if strings.TrimSpace(req.Token) == "" && strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "token or code is required"))
		return
	}

	device := usecase.ExtractDeviceInfo(c.Request.UserAgent(), c.ClientIP())
	result, err := h.auth.VerifyPasswordlessLogin(c.Request.Context(), strings.TrimSpace(req.Token), strings.TrimSpace(req.Code), device)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredToken, Status: http.StatusUnauthorized, Message: "invalid or expired token"},
		}, http.StatusInternalServerError, "failed to verify login")
		return
	}

	c.JSON(http.StatusOK, newLoginResponse(result))
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req TokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "refresh_token is required"))
		return
	}

	result, err := h.sessions.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredToken, Status: http.StatusUnauthorized, Message: "invalid or expired token"},
		}, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, TokenRefreshResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
	})
}

// logout revokes the session behind the refresh token. Always 204: an invalid
// token means there is nothing left to revoke.
func (h *AuthHandler) logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "refresh_token is required"))
		return
	}

	h.auth.Logout(c.Request.Context(), req.RefreshToken)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) logoutAll(c *gin.Context) {
	userUUID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userUUID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "failed to revoke sessions")
		return
	}

	count, err := h.auth.LogoutAll(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke sessions"))
		return
	}

	c.JSON(http.StatusOK, LogoutAllResponse{RevokedCount: count})
}

func (h *AuthHandler) profile(c *gin.Context) {
	userUUID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userUUID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

func (h *AuthHandler) requestEmailVerification(c *gin.Context) {
	var req EmailVerifyRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a valid email is required"))
		return
	}

	result, err := h.auth.RequestEmailVerification(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to request verification")
		return
	}

	c.JSON(http.StatusAccepted, LoginRequestedResponse{
		Message:   "verification email sent",
		Email:     result.Email,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *AuthHandler) confirmEmailVerification(c *gin.Context) {
	var req EmailVerifyConfirmPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "token is required"))
		return
	}

	if err := h.auth.ConfirmEmailVerification(c.Request.Context(), strings.TrimSpace(req.Token)); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredToken, Status: http.StatusUnauthorized, Message: "invalid or expired token"},
		}, http.StatusInternalServerError, "failed to verify email")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "email verified"})
}

func newLoginResponse(result *usecase.LoginResult) LoginResponse {
	orgs := make([]OrganizationSummary, 0, len(result.Organizations))
	for i := range result.Organizations {
		orgs = append(orgs, newOrganizationSummary(&result.Organizations[i]))
	}

	resp := LoginResponse{
		AccessToken:   result.AccessToken,
		RefreshToken:  result.RefreshToken,
		TokenType:     "Bearer",
		ExpiresIn:     result.ExpiresIn,
		User:          newUserPayload(result.User),
		Organizations: orgs,
	}
	if result.DefaultOrganization != nil {
		summary := newOrganizationSummary(result.DefaultOrganization)
		resp.DefaultOrganization = &summary
	}
	return resp
}
