package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserPayload is the public view of a user.
type UserPayload struct {
	UUID      string            `json:"uuid"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// LoginRequestPayload starts a passwordless login.
type LoginRequestPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequestedResponse confirms that a login code was issued.
type LoginRequestedResponse struct {
	Message   string    `json:"message"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginVerifyPayload redeems a login token or its numeric code.
type LoginVerifyPayload struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// OrganizationSummary is one organization entry inside a login response.
type OrganizationSummary struct {
	UUID        string             `json:"uuid"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	IsPlatform  bool               `json:"is_platform"`
	IsOwner     bool               `json:"is_owner"`
	IsAdmin     bool               `json:"is_admin"`
	Permissions domain.Permissions `json:"permissions"`
	Roles       []RoleSummary      `json:"roles"`
	MemberSince time.Time          `json:"member_since"`
}

// RoleSummary is the public shape of a role with its scoped permissions.
type RoleSummary struct {
	UUID        string             `json:"uuid"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Permissions domain.Permissions `json:"permissions"`
}

// LoginResponse is returned on a successful passwordless verification.
type LoginResponse struct {
	AccessToken         string                `json:"access_token"`
	RefreshToken        string                `json:"refresh_token"`
	TokenType           string                `json:"token_type"`
	ExpiresIn           int64                 `json:"expires_in"`
	User                UserPayload           `json:"user"`
	Organizations       []OrganizationSummary `json:"organizations"`
	DefaultOrganization *OrganizationSummary  `json:"default_organization,omitempty"`
}

// TokenRefreshRequest represents the payload to refresh an access token.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRefreshResponse contains the freshly minted access token.
type TokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LogoutRequest carries the refresh token whose session should be revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutAllResponse reports how many sessions were revoked.
type LogoutAllResponse struct {
	RevokedCount int64 `json:"revoked_count"`
}

// TokenSweepResponse reports how many stale tokens were expired.
type TokenSweepResponse struct {
	Expired int64 `json:"expired"`
}

// EmailVerifyRequestPayload starts email verification.
type EmailVerifyRequestPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// EmailVerifyConfirmPayload redeems an email verification token.
type EmailVerifyConfirmPayload struct {
	Token string `json:"token" binding:"required"`
}

// SessionPayload describes a session view in API responses.
type SessionPayload struct {
	UUID         string               `json:"uuid"`
	DeviceID     string               `json:"device_id,omitempty"`
	DeviceName   string               `json:"device_name,omitempty"`
	IPAddress    string               `json:"ip_address,omitempty"`
	Status       domain.SessionStatus `json:"status"`
	IsActive     bool                 `json:"is_active"`
	LastActivity time.Time            `json:"last_activity"`
	ExpiresAt    time.Time            `json:"expires_at"`
	CreatedAt    time.Time            `json:"created_at"`
}

// SessionListResponse wraps a list of sessions for a user.
type SessionListResponse struct {
	Sessions []SessionPayload `json:"sessions"`
	Total    int              `json:"total"`
}

// UserCreateRequest defines the payload for user provisioning.
type UserCreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
}

// UserUpdateRequest carries mutable profile fields.
type UserUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UserStatusRequest changes a user's lifecycle status.
type UserStatusRequest struct {
	Status domain.UserStatus `json:"status" binding:"required"`
}

// UserListResponse wraps multiple users.
type UserListResponse struct {
	Users []UserPayload `json:"users"`
	Total int           `json:"total"`
}

// OrganizationPayload is the public view of a tenant.
type OrganizationPayload struct {
	UUID         string                    `json:"uuid"`
	Name         string                    `json:"name"`
	Slug         string                    `json:"slug"`
	Description  *string                   `json:"description,omitempty"`
	ContactEmail *string                   `json:"contact_email,omitempty"`
	ContactPhone *string                   `json:"contact_phone,omitempty"`
	Address      *string                   `json:"address,omitempty"`
	Status       domain.OrganizationStatus `json:"status"`
	PlanType     domain.PlanTier           `json:"plan_type"`
	IsPlatform   bool                      `json:"is_platform"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// OrganizationCreateRequest defines the tenant provisioning payload.
type OrganizationCreateRequest struct {
	Name         string          `json:"name" binding:"required"`
	Slug         string          `json:"slug" binding:"required"`
	Description  *string         `json:"description,omitempty"`
	ContactEmail *string         `json:"contact_email,omitempty" binding:"omitempty,email"`
	ContactPhone *string         `json:"contact_phone,omitempty"`
	Address      *string         `json:"address,omitempty"`
	PlanType     domain.PlanTier `json:"plan_type,omitempty"`
}

// OrganizationUpdateRequest carries mutable tenant fields.
type OrganizationUpdateRequest struct {
	Name         *string                    `json:"name,omitempty"`
	Description  *string                    `json:"description,omitempty"`
	ContactEmail *string                    `json:"contact_email,omitempty" binding:"omitempty,email"`
	ContactPhone *string                    `json:"contact_phone,omitempty"`
	Address      *string                    `json:"address,omitempty"`
	Status       *domain.OrganizationStatus `json:"status,omitempty"`
	PlanType     *domain.PlanTier           `json:"plan_type,omitempty"`
}

// OrganizationListResponse wraps multiple organizations.
type OrganizationListResponse struct {
	Organizations []OrganizationPayload `json:"organizations"`
	Total         int                   `json:"total"`
}

// MemberPayload is the public view of an organization membership.
type MemberPayload struct {
	UUID        string              `json:"uuid"`
	Title       *string             `json:"title,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
	Status      domain.MemberStatus `json:"status"`
	IsOwner     bool                `json:"is_owner"`
	IsAdmin     bool                `json:"is_admin"`
	MemberSince time.Time           `json:"member_since"`
	Roles       []RoleSummary       `json:"roles"`
}

// MemberAddRequest attaches an existing user to an organization.
type MemberAddRequest struct {
	UserUUID string   `json:"user_uuid" binding:"required"`
	Title    *string  `json:"title,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	Roles    []string `json:"roles"`
}

// MemberInviteRequest invites a user by email.
type MemberInviteRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name"`
	InviterName string   `json:"inviter_name"`
	Roles       []string `json:"roles"`
}

// MemberStatusRequest changes a membership's lifecycle status.
type MemberStatusRequest struct {
	Status domain.MemberStatus `json:"status" binding:"required"`
}

// MemberRoleRequest attaches a role to a member.
type MemberRoleRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Permissions domain.Permissions `json:"permissions,omitempty"`
}

// MemberListResponse wraps an organization's members.
type MemberListResponse struct {
	Members []MemberPayload `json:"members"`
	Total   int             `json:"total"`
}

// OrderPayload is the public view of a delivery order.
type OrderPayload struct {
	UUID            string             `json:"uuid"`
	OrderNumber     string             `json:"order_number"`
	Description     string             `json:"description,omitempty"`
	TotalAmount     float64            `json:"total_amount"`
	Status          domain.OrderStatus `json:"status"`
	PickupAddress   string             `json:"pickup_address,omitempty"`
	PickupLat       *float64           `json:"pickup_lat,omitempty"`
	PickupLng       *float64           `json:"pickup_lng,omitempty"`
	DeliveryAddress string             `json:"delivery_address,omitempty"`
	DeliveryLat     *float64           `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64           `json:"delivery_lng,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// OrderCreateRequest defines the order creation payload.
type OrderCreateRequest struct {
	UserUUID        *string  `json:"user_uuid,omitempty"`
	OrderNumber     string   `json:"order_number"`
	Description     string   `json:"description"`
	TotalAmount     float64  `json:"total_amount"`
	PickupAddress   string   `json:"pickup_address"`
	PickupLat       *float64 `json:"pickup_lat,omitempty"`
	PickupLng       *float64 `json:"pickup_lng,omitempty"`
	DeliveryAddress string   `json:"delivery_address"`
	DeliveryLat     *float64 `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64 `json:"delivery_lng,omitempty"`
}

// OrderBatchCreateRequest creates multiple orders in one call.
type OrderBatchCreateRequest struct {
	Orders []OrderCreateRequest `json:"orders" binding:"required,min=1"`
}

// OrderUpdateRequest carries mutable order fields.
type OrderUpdateRequest struct {
	Description     *string  `json:"description,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	PickupAddress   *string  `json:"pickup_address,omitempty"`
	PickupLat       *float64 `json:"pickup_lat,omitempty"`
	PickupLng       *float64 `json:"pickup_lng,omitempty"`
	DeliveryAddress *string  `json:"delivery_address,omitempty"`
	DeliveryLat     *float64 `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64 `json:"delivery_lng,omitempty"`
}

// OrderStatusRequest moves an order along its lifecycle.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// OrderListResponse wraps multiple orders.
type OrderListResponse struct {
	Orders []OrderPayload `json:"orders"`
	Total  int            `json:"total"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newUserPayload(user *domain.User) UserPayload {
	return UserPayload{
		UUID:      user.UUID,
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}

func newOrganizationSummary(org *domain.SnapshotOrganization) OrganizationSummary {
	roles := make([]RoleSummary, 0, len(org.Roles))
	for i := range org.Roles {
		roles = append(roles, RoleSummary{
			UUID:        org.Roles[i].UUID,
			Name:        org.Roles[i].Name,
			Description: org.Roles[i].Description,
			Permissions: org.Roles[i].Permissions,
		})
	}
	return OrganizationSummary{
		UUID:        org.UUID,
		Name:        org.Name,
		Slug:        org.Slug,
		IsPlatform:  org.IsPlatform,
		IsOwner:     org.IsOwner,
		IsAdmin:     org.IsAdmin,
		Permissions: org.Permissions,
		Roles:       roles,
		MemberSince: org.MemberSince,
	}
}

func newSessionPayload(session *domain.UserSession) SessionPayload {
	return SessionPayload{
		UUID:         session.UUID,
		DeviceID:     session.DeviceID,
		DeviceName:   session.DeviceName,
		IPAddress:    session.IPAddress,
		Status:       session.Status,
		IsActive:     session.IsActive,
		LastActivity: session.LastActivity,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    session.CreatedAt,
	}
}

func newOrganizationPayload(org *domain.Organization) OrganizationPayload {
	return OrganizationPayload{
		UUID:         org.UUID,
		Name:         org.Name,
		Slug:         org.Slug,
		Description:  org.Description,
		ContactEmail: org.ContactEmail,
		ContactPhone: org.ContactPhone,
		Address:      org.Address,
		Status:       org.Status,
		PlanType:     org.PlanType,
		IsPlatform:   org.IsPlatform(),
		CreatedAt:    org.CreatedAt,
	}
}

func newMemberPayload(member *domain.OrganizationMember) MemberPayload {
	roles := make([]RoleSummary, 0, len(member.Roles))
	for i := range member.Roles {
		role := &member.Roles[i]
		roles = append(roles, RoleSummary{
			UUID:        role.UUID,
			Name:        string(role.Name),
			Description: role.Description,
			Permissions: role.Permissions,
		})
	}
	return MemberPayload{
		UUID:        member.UUID,
		Title:       member.Title,
		Notes:       member.Notes,
		Status:      member.Status,
		IsOwner:     member.IsOwner,
		IsAdmin:     member.IsAdmin,
		MemberSince: member.MemberSince,
		Roles:       roles,
	}
}

func newOrderPayload(order *domain.Order) OrderPayload {
	return OrderPayload{
		UUID:            order.UUID,
		OrderNumber:     order.OrderNumber,
		Description:     order.Description,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		PickupAddress:   order.PickupAddress,
		PickupLat:       order.PickupLat,
		PickupLng:       order.PickupLng,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryLat:     order.DeliveryLat,
		DeliveryLng:     order.DeliveryLng,
		CreatedAt:       order.CreatedAt,
	}
}
