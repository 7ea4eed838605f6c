package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// UserHandler exposes user CRUD endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user routes onto an authenticated group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:uuid", h.get)
	r.PUT("/:uuid", h.update)
	r.PATCH("/:uuid/status", h.updateStatus)
	r.DELETE("/:uuid", h.deactivate)
}

func (h *UserHandler) create(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Email:    strings.TrimSpace(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Password: req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, newUserPayload(user))
}

func (h *UserHandler) list(c *gin.Context) {
	filter := port.UserFilter{}
	if raw := c.Query("status"); raw != "" {
		status := domain.UserStatus(raw)
		filter.Status = &status
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	payloads := make([]UserPayload, 0, len(users))
	for i := range users {
		payloads = append(payloads, newUserPayload(&users[i]))
	}

	c.JSON(http.StatusOK, UserListResponse{Users: payloads, Total: len(payloads)})
}

func (h *UserHandler) get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

func (h *UserHandler) update(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("uuid"), usecase.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

func (h *UserHandler) updateStatus(c *gin.Context) {
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "status is required"))
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), c.Param("uuid"), req.Status); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to update user status")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "status updated"})
}

func (h *UserHandler) deactivate(c *gin.Context) {
	if err := h.users.Deactivate(c.Request.Context(), c.Param("uuid")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to deactivate user")
		return
	}

	c.Status(http.StatusNoContent)
}
