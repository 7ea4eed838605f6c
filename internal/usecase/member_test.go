package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

func newTestMemberService(members *mockMemberRepo, orgs *mockOrgRepo, users *mockUserRepo, notifier *stubNotifier) *MemberService {
	return NewMemberService(members, orgs, users, notifier, "https://app.movigo.test/", zap.NewNop()).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
}

func TestMemberAddAttachesTemplateRoles(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	user := activeUser(1, "user-1", "driver@acme.test")
	users := newMockUserRepo(user)

	svc := newTestMemberService(members, orgs, users, newStubNotifier())

	member, err := svc.Add(context.Background(), AddMemberInput{
		OrganizationUUID: "org-7",
		UserUUID:         "user-1",
		Roles:            []domain.RoleName{domain.RoleDriver},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if member.Status != domain.MemberStatusActive {
		t.Errorf("status = %s, want ACTIVE", member.Status)
	}
	if len(member.Roles) != 1 {
		t.Fatalf("roles = %d, want 1", len(member.Roles))
	}
	if !member.Roles[0].Permissions.Has(domain.ResourceOrders, domain.ActionUpdate) {
		t.Error("driver template grant missing")
	}
	if member.IsOwner || member.IsAdmin {
		t.Error("driver must not be flagged owner or admin")
	}
}

func TestMemberAddOwnerSetsFlag(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	users := newMockUserRepo(activeUser(1, "user-1", "owner@acme.test"))

	svc := newTestMemberService(members, orgs, users, newStubNotifier())

	member, err := svc.Add(context.Background(), AddMemberInput{
		OrganizationUUID: "org-7",
		UserUUID:         "user-1",
		Roles:            []domain.RoleName{domain.RoleOwner},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !member.IsOwner {
		t.Error("OWNER role should set the owner flag")
	}
}

func TestMemberInviteProvisionsUser(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	users := newMockUserRepo()
	notifier := newStubNotifier()

	svc := newTestMemberService(members, orgs, users, notifier)

	member, err := svc.Invite(context.Background(), InviteMemberInput{
		OrganizationUUID: "org-7",
		Email:            "new@acme.test",
		Name:             "New Hire",
		InviterName:      "Boss",
		Roles:            []domain.RoleName{domain.RoleViewer},
	})
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if member.Status != domain.MemberStatusPending {
		t.Errorf("status = %s, want PENDING", member.Status)
	}
	if notifier.inviteCalls != 1 {
		t.Errorf("invitations sent = %d, want 1", notifier.inviteCalls)
	}

	user, err := users.GetByEmail(context.Background(), "new@acme.test")
	if err != nil {
		t.Fatalf("provisioned user missing: %v", err)
	}
	if user.Status != domain.UserStatusInactive {
		t.Errorf("provisioned user status = %s, want INACTIVE until verified", user.Status)
	}
	if user.PasswordHash == nil || !strings.Contains(*user.PasswordHash, ":") {
		t.Error("provisioned user should carry a random password hash")
	}
	if user.CanAuthenticate() {
		t.Error("provisioned user must not authenticate before verification")
	}
}

func TestMemberInviteReusesExistingUser(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	existing := activeUser(1, "user-1", "known@acme.test")
	users := newMockUserRepo(existing)

	svc := newTestMemberService(members, orgs, users, newStubNotifier())

	member, err := svc.Invite(context.Background(), InviteMemberInput{
		OrganizationUUID: "org-7",
		Email:            "known@acme.test",
		Roles:            []domain.RoleName{domain.RoleViewer},
	})
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if member.UserID != existing.ID {
		t.Errorf("member bound to user %d, want %d", member.UserID, existing.ID)
	}
	if len(users.users) != 1 {
		t.Error("no new user should be provisioned for a known email")
	}
}

func TestMemberAddDuplicateRole(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	users := newMockUserRepo(activeUser(1, "user-1", "driver@acme.test"))

	svc := newTestMemberService(members, orgs, users, newStubNotifier())

	member, err := svc.Add(context.Background(), AddMemberInput{
		OrganizationUUID: "org-7",
		UserUUID:         "user-1",
		Roles:            []domain.RoleName{domain.RoleDriver},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := svc.AddRole(context.Background(), member.UUID, domain.RoleDriver, "", nil); !errors.Is(err, ErrRoleExists) {
		t.Errorf("err = %v, want ErrRoleExists", err)
	}
}

func TestMemberAddRoleDefaultsToTemplate(t *testing.T) {
	members := newMockMemberRepo()
	orgs := newMockOrgRepo(testOrg())
	users := newMockUserRepo(activeUser(1, "user-1", "driver@acme.test"))

	svc := newTestMemberService(members, orgs, users, newStubNotifier())

	member, err := svc.Add(context.Background(), AddMemberInput{
		OrganizationUUID: "org-7",
		UserUUID:         "user-1",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	role, err := svc.AddRole(context.Background(), member.UUID, domain.RoleViewer, "read only", nil)
	if err != nil {
		t.Fatalf("AddRole: %v", err)
	}
	if !role.Permissions.Has(domain.ResourceOrders, domain.ActionRead) {
		t.Error("viewer template grant missing when no permissions supplied")
	}

	custom, err := svc.AddRole(context.Background(), member.UUID, domain.RoleName("DISPATCHER"), "", domain.Permissions{
		domain.ResourceOrders: {domain.ActionCreate: true},
	})
	if err != nil {
		t.Fatalf("AddRole custom: %v", err)
	}
	if !custom.Permissions.Has(domain.ResourceOrders, domain.ActionCreate) {
		t.Error("custom permissions dropped")
	}
}
