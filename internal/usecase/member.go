package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// AddMemberInput attaches an existing user to an organization.
type AddMemberInput struct {
	OrganizationUUID string
	UserUUID         string
	Title            *string
	Notes            *string
	Roles            []domain.RoleName
}

// InviteMemberInput provisions a user (if needed) and a pending membership,
// then emails an invitation.
type InviteMemberInput struct {
	OrganizationUUID string
	Email            string
	Name             string
	InviterName      string
	Roles            []domain.RoleName
}

// MemberService implements organization membership management.
type MemberService struct {
	members  port.MemberRepository
	orgs     port.OrganizationRepository
	users    port.UserRepository
	notifier port.Notifier
	logger   *zap.Logger

	frontendBaseURL string
	now             func() time.Time
}

// NewMemberService wires the service.
func NewMemberService(
	members port.MemberRepository,
	orgs port.OrganizationRepository,
	users port.UserRepository,
	notifier port.Notifier,
	frontendBaseURL string,
	log *zap.Logger,
) *MemberService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemberService{
		members:         members,
		orgs:            orgs,
		users:           users,
		notifier:        notifier,
		logger:          log,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		now:             time.Now,
	}
}

// WithClock injects a custom clock for tests.
func (s *MemberService) WithClock(now func() time.Time) *MemberService {
	if now != nil {
		s.now = now
	}
	return s
}

// Add creates an ACTIVE membership with the given roles. Role permissions
// default from the built-in templates for the role name.
func (s *MemberService) Add(ctx context.Context, input AddMemberInput) (*domain.OrganizationMember, error) {
	org, err := s.orgs.GetByUUID(ctx, input.OrganizationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}

	user, err := s.users.GetByUUID(ctx, input.UserUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	return s.createMember(ctx, org, user, input.Title, input.Notes, input.Roles, domain.MemberStatusActive)
}

// Invite provisions the user when absent (with a random password so the
// account cannot be logged into by guessing), creates a PENDING membership
// and sends the invitation email.
func (s *MemberService) Invite(ctx context.Context, input InviteMemberInput) (*domain.OrganizationMember, error) {
	org, err := s.orgs.GetByUUID(ctx, input.OrganizationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.provisionInvitedUser(ctx, input.Email, input.Name)
	}
	if err != nil {
		return nil, err
	}

	member, err := s.createMember(ctx, org, user, nil, nil, input.Roles, domain.MemberStatusPending)
	if err != nil {
		return nil, err
	}

	roleNames := make([]string, 0, len(input.Roles))
	for _, role := range input.Roles {
		roleNames = append(roleNames, string(role))
	}
	joinURL := fmt.Sprintf("%s/organizations/%s/join?member=%s", s.frontendBaseURL, org.UUID, member.UUID)
	if !s.notifier.SendInvitation(ctx, user.Email, org.Name, input.InviterName, roleNames, joinURL) {
		s.logger.Warn("invitation delivery failed",
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.String("org_uuid", org.UUID),
		)
	}

	return member, nil
}

func (s *MemberService) provisionInvitedUser(ctx context.Context, email, name string) (*domain.User, error) {
	randomPassword, err := security.GenerateSecureToken(24)
	if err != nil {
		return nil, fmt.Errorf("generate invite password: %w", err)
	}
	hash, err := security.HashPassword(randomPassword)
	if err != nil {
		return nil, fmt.Errorf("hash invite password: %w", err)
	}

	user := &domain.User{
		UUID:         uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Status:       domain.UserStatusInactive,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("provision invited user: %w", err)
	}
	return user, nil
}

func (s *MemberService) createMember(
	ctx context.Context,
	org *domain.Organization,
	user *domain.User,
	title, notes *string,
	roles []domain.RoleName,
	status domain.MemberStatus,
) (*domain.OrganizationMember, error) {
	member := &domain.OrganizationMember{
		UUID:           uuid.NewString(),
		OrganizationID: org.ID,
		UserID:         user.ID,
		Title:          title,
		Notes:          notes,
		Status:         status,
		MemberSince:    s.now().UTC(),
	}
	for _, role := range roles {
		if role == domain.RoleOwner {
			member.IsOwner = true
		}
		if role == domain.RolePlatformAdmin {
			member.IsAdmin = true
		}
	}

	if err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrMemberExists
		}
		return nil, fmt.Errorf("create member: %w", err)
	}

	for _, name := range roles {
		role := &domain.MemberRole{
			UUID:        uuid.NewString(),
			MemberID:    member.ID,
			Name:        name,
			Status:      domain.RoleStatusActive,
			Permissions: domain.TemplatePermissions(name),
		}
		if err := s.members.AddRole(ctx, role); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrRoleExists
			}
			return nil, fmt.Errorf("attach role %s: %w", name, err)
		}
		member.Roles = append(member.Roles, *role)
	}

	s.logger.Info("member created",
		zap.String("member_uuid", member.UUID),
		zap.String("org_uuid", org.UUID),
		zap.String("user_uuid", user.UUID),
		zap.String("status", string(status)),
	)
	return member, nil
}

// Get fetches a member with roles.
func (s *MemberService) Get(ctx context.Context, memberUUID string) (*domain.OrganizationMember, error) {
	member, err := s.members.GetByUUID(ctx, memberUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("load member: %w", err)
	}
	return member, nil
}

// ListByOrganization returns an organization's members.
func (s *MemberService) ListByOrganization(ctx context.Context, orgUUID string) ([]domain.OrganizationMember, error) {
	org, err := s.orgs.GetByUUID(ctx, orgUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}

	members, err := s.members.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// UpdateStatus changes a membership's lifecycle status. Accepting an invite
// moves PENDING to ACTIVE.
func (s *MemberService) UpdateStatus(ctx context.Context, memberUUID string, status domain.MemberStatus) error {
	if err := s.members.UpdateStatus(ctx, memberUUID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("update member status: %w", err)
	}
	return nil
}

// Remove deletes the membership and its roles.
func (s *MemberService) Remove(ctx context.Context, memberUUID string) error {
	if err := s.members.Remove(ctx, memberUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// AddRole attaches an additional role to a member.
func (s *MemberService) AddRole(ctx context.Context, memberUUID string, name domain.RoleName, description string, permissions domain.Permissions) (*domain.MemberRole, error) {
	member, err := s.Get(ctx, memberUUID)
	if err != nil {
		return nil, err
	}

	if permissions == nil {
		permissions = domain.TemplatePermissions(name)
	}

	role := &domain.MemberRole{
		UUID:        uuid.NewString(),
		MemberID:    member.ID,
		Name:        name,
		Description: description,
		Status:      domain.RoleStatusActive,
		Permissions: permissions,
	}
	if err := s.members.AddRole(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("attach role: %w", err)
	}
	return role, nil
}

// RemoveRole detaches a role from a member.
func (s *MemberService) RemoveRole(ctx context.Context, roleUUID string) error {
	if err := s.members.RemoveRole(ctx, roleUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}
