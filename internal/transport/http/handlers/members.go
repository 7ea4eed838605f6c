package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// MemberHandler exposes organization membership endpoints.
type MemberHandler struct {
	members *usecase.MemberService
}

// NewMemberHandler constructs MemberHandler.
func NewMemberHandler(members *usecase.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// RegisterRoutes binds membership routes. Organization-scoped routes hang off
// the organizations group; member-scoped routes off the members group.
func (h *MemberHandler) RegisterRoutes(orgs, members *gin.RouterGroup) {
	orgs.POST("/:uuid/members", h.add)
	orgs.POST("/:uuid/members/invite", h.invite)
	orgs.GET("/:uuid/members", h.listByOrganization)

	members.GET("/:uuid", h.get)
	members.PATCH("/:uuid/status", h.updateStatus)
	members.DELETE("/:uuid", h.remove)
	members.POST("/:uuid/roles", h.addRole)
	members.DELETE("/roles/:roleUuid", h.removeRole)
}

func roleNames(raw []string) []domain.RoleName {
	names := make([]domain.RoleName, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			names = append(names, domain.RoleName(trimmed))
		}
	}
	return names
}

func (h *MemberHandler) add(c *gin.Context) {
	var req MemberAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid member payload"))
		return
	}

	member, err := h.members.Add(c.Request.Context(), usecase.AddMemberInput{
		OrganizationUUID: c.Param("uuid"),
		UserUUID:         strings.TrimSpace(req.UserUUID),
		Title:            req.Title,
		Notes:            req.Notes,
		Roles:            roleNames(req.Roles),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrMemberExists, Status: http.StatusConflict, Message: "user is already a member"},
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "duplicate role"},
		}, http.StatusInternalServerError, "failed to add member")
		return
	}

	c.JSON(http.StatusCreated, newMemberPayload(member))
}

func (h *MemberHandler) invite(c *gin.Context) {
	var req MemberInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid invitation payload"))
		return
	}

	member, err := h.members.Invite(c.Request.Context(), usecase.InviteMemberInput{
		OrganizationUUID: c.Param("uuid"),
		Email:            strings.TrimSpace(req.Email),
		Name:             strings.TrimSpace(req.Name),
		InviterName:      strings.TrimSpace(req.InviterName),
		Roles:            roleNames(req.Roles),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
			{Err: usecase.ErrMemberExists, Status: http.StatusConflict, Message: "user is already a member"},
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusInternalServerError, "failed to invite member")
		return
	}

	c.JSON(http.StatusCreated, newMemberPayload(member))
}

func (h *MemberHandler) listByOrganization(c *gin.Context) {
	members, err := h.members.ListByOrganization(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to list members")
		return
	}

	payloads := make([]MemberPayload, 0, len(members))
	for i := range members {
		payloads = append(payloads, newMemberPayload(&members[i]))
	}

	c.JSON(http.StatusOK, MemberListResponse{Members: payloads, Total: len(payloads)})
}

func (h *MemberHandler) get(c *gin.Context) {
	member, err := h.members.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
		}, http.StatusInternalServerError, "failed to load member")
		return
	}

	c.JSON(http.StatusOK, newMemberPayload(member))
}

func (h *MemberHandler) updateStatus(c *gin.Context) {
	var req MemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "status is required"))
		return
	}

	if err := h.members.UpdateStatus(c.Request.Context(), c.Param("uuid"), req.Status); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
		}, http.StatusInternalServerError, "failed to update member status")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "status updated"})
}

func (h *MemberHandler) remove(c *gin.Context) {
	if err := h.members.Remove(c.Request.Context(), c.Param("uuid")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
		}, http.StatusInternalServerError, "failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) addRole(c *gin.Context) {
	var req MemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.members.AddRole(c.Request.Context(), c.Param("uuid"),
		domain.RoleName(strings.TrimSpace(req.Name)), req.Description, req.Permissions)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role already attached"},
		}, http.StatusInternalServerError, "failed to attach role")
		return
	}

	c.JSON(http.StatusCreated, RoleSummary{
		UUID:        role.UUID,
		Name:        string(role.Name),
		Description: role.Description,
		Permissions: role.Permissions,
	})
}

func (h *MemberHandler) removeRole(c *gin.Context) {
	if err := h.members.RemoveRole(c.Request.Context(), c.Param("roleUuid")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to remove role")
		return
	}

	c.Status(http.StatusNoContent)
}
