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

// OrganizationHandler exposes tenant CRUD endpoints.
type OrganizationHandler struct {
	orgs *usecase.OrganizationService
}

// NewOrganizationHandler constructs OrganizationHandler.
func NewOrganizationHandler(orgs *usecase.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

// RegisterRoutes binds organization routes onto an authenticated group.
func (h *OrganizationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/:uuid", h.get)
	r.PUT("/:uuid", h.update)
	r.DELETE("/:uuid", h.remove)
}

func (h *OrganizationHandler) create(c *gin.Context) {
	var req OrganizationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	org, err := h.orgs.Create(c.Request.Context(), usecase.CreateOrganizationInput{
		Name:         strings.TrimSpace(req.Name),
		Slug:         strings.TrimSpace(req.Slug),
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		PlanType:     req.PlanType,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSlugTaken, Status: http.StatusConflict, Message: "slug already taken"},
		}, http.StatusInternalServerError, "failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, newOrganizationPayload(org))
}

func (h *OrganizationHandler) list(c *gin.Context) {
	filter := port.OrganizationFilter{}
	if raw := c.Query("status"); raw != "" {
		status := domain.OrganizationStatus(raw)
		filter.Status = &status
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	orgs, err := h.orgs.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list organizations"))
		return
	}

	payloads := make([]OrganizationPayload, 0, len(orgs))
	for i := range orgs {
		payloads = append(payloads, newOrganizationPayload(&orgs[i]))
	}

	c.JSON(http.StatusOK, OrganizationListResponse{Organizations: payloads, Total: len(payloads)})
}

func (h *OrganizationHandler) get(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to load organization")
		return
	}

	c.JSON(http.StatusOK, newOrganizationPayload(org))
}

func (h *OrganizationHandler) update(c *gin.Context) {
	var req OrganizationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	org, err := h.orgs.Update(c.Request.Context(), c.Param("uuid"), usecase.UpdateOrganizationInput{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Status:       req.Status,
		PlanType:     req.PlanType,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
			{Err: usecase.ErrSlugTaken, Status: http.StatusConflict, Message: "slug already taken"},
		}, http.StatusInternalServerError, "failed to update organization")
		return
	}

	c.JSON(http.StatusOK, newOrganizationPayload(org))
}

func (h *OrganizationHandler) remove(c *gin.Context) {
	if err := h.orgs.Delete(c.Request.Context(), c.Param("uuid")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
			{Err: usecase.ErrOrganizationHasMembers, Status: http.StatusConflict, Message: "organization still has active members"},
		}, http.StatusInternalServerError, "failed to delete organization")
		return
	}

	c.Status(http.StatusNoContent)
}
