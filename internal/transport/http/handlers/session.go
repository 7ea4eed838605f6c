package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/transport/http/middleware"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// SessionHandler exposes the device/session overview endpoints. All routes
// require a verified access token.
type SessionHandler struct {
	auth     *usecase.AuthService
	sessions *usecase.SessionService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(auth *usecase.AuthService, sessions *usecase.SessionService) *SessionHandler {
	return &SessionHandler{auth: auth, sessions: sessions}
}

// RegisterRoutes binds session routes onto an authenticated group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.DELETE("", h.revokeAll)
	r.DELETE("/:uuid", h.revoke)
}

func (h *SessionHandler) currentUser(c *gin.Context) (int64, bool) {
	userUUID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return 0, false
	}

	user, err := h.auth.GetProfile(c.Request.Context(), userUUID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "failed to resolve user")
		return 0, false
	}
	return user.ID, true
}

func (h *SessionHandler) list(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list sessions"))
		return
	}

	payloads := make([]SessionPayload, 0, len(sessions))
	for i := range sessions {
		payloads = append(payloads, newSessionPayload(&sessions[i]))
	}

	c.JSON(http.StatusOK, SessionListResponse{
		Sessions: payloads,
		Total:    len(payloads),
	})
}

func (h *SessionHandler) revoke(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.sessions.RevokeSessionByUUID(c.Request.Context(), userID, c.Param("uuid")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSessionNotFound, Status: http.StatusNotFound, Message: "session not found"},
		}, http.StatusInternalServerError, "failed to revoke session")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) revokeAll(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	count, err := h.sessions.RevokeAllSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke sessions"))
		return
	}

	c.JSON(http.StatusOK, LogoutAllResponse{RevokedCount: count})
}
