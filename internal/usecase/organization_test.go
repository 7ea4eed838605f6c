package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

func TestOrganizationCreateDefaultsPlan(t *testing.T) {
	orgs := newMockOrgRepo()
	svc := NewOrganizationService(orgs, zap.NewNop())

	org, err := svc.Create(context.Background(), CreateOrganizationInput{
		Name: "Acme Logistics",
		Slug: "acme-logistics",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.PlanType != domain.PlanFree {
		t.Errorf("plan = %s, want FREE", org.PlanType)
	}
	if org.Status != domain.OrganizationStatusActive {
		t.Errorf("status = %s, want ACTIVE", org.Status)
	}
}

func TestOrganizationCreateSlugTaken(t *testing.T) {
	orgs := newMockOrgRepo(testOrg())
	svc := NewOrganizationService(orgs, zap.NewNop())

	if _, err := svc.Create(context.Background(), CreateOrganizationInput{
		Name: "Other",
		Slug: "acme-logistics",
	}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("err = %v, want ErrSlugTaken", err)
	}
}

func TestOrganizationDeleteRefusedWithActiveMembers(t *testing.T) {
	orgs := newMockOrgRepo(testOrg())
	orgs.memberCount = 4
	svc := NewOrganizationService(orgs, zap.NewNop())

	if err := svc.Delete(context.Background(), "org-7"); !errors.Is(err, ErrOrganizationHasMembers) {
		t.Fatalf("err = %v, want ErrOrganizationHasMembers", err)
	}
	if org, _ := orgs.GetByUUID(context.Background(), "org-7"); !org.IsActive {
		t.Error("refused delete must not deactivate the organization")
	}
}

func TestOrganizationDeleteEmptyOrg(t *testing.T) {
	orgs := newMockOrgRepo(testOrg())
	svc := NewOrganizationService(orgs, zap.NewNop())

	if err := svc.Delete(context.Background(), "org-7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	org, _ := orgs.GetByUUID(context.Background(), "org-7")
	if org.IsActive {
		t.Error("organization should be deactivated")
	}
	if org.Status != domain.OrganizationStatusInactive {
		t.Errorf("status = %s, want INACTIVE", org.Status)
	}
}

func TestOrganizationGetUnknown(t *testing.T) {
	svc := NewOrganizationService(newMockOrgRepo(), zap.NewNop())

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("err = %v, want ErrOrganizationNotFound", err)
	}
}
