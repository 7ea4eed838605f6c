package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// OrganizationRepository implements port.OrganizationRepository over
// PostgreSQL.
type OrganizationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.OrganizationRepository = (*OrganizationRepository)(nil)

// NewOrganizationRepository constructs the repository.
func NewOrganizationRepository(exec pgExecutor) *OrganizationRepository {
	r := &OrganizationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		r.pool = pool
	}
	return r
}

// WithTx returns a repository bound to the transaction.
func (r *OrganizationRepository) WithTx(tx pgx.Tx) *OrganizationRepository {
	if tx == nil {
		return r
	}
	return &OrganizationRepository{pool: r.pool, exec: tx, builder: r.builder}
}

var organizationColumns = []string{
	"id", "uuid", "name", "slug", "description", "contact_email",
	"contact_phone", "address", "status", "plan_type", "subscription_expiry",
	"is_active", "created_at", "updated_at",
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var org domain.Organization
	err := row.Scan(
		&org.ID, &org.UUID, &org.Name, &org.Slug, &org.Description,
		&org.ContactEmail, &org.ContactPhone, &org.Address, &org.Status,
		&org.PlanType, &org.SubscriptionExpiry, &org.IsActive,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Create inserts a tenant row. Slug uniqueness is enforced by the store.
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	sql, args, err := r.builder.Insert("organizations").
		Columns(
			"uuid", "name", "slug", "description", "contact_email",
			"contact_phone", "address", "status", "plan_type",
			"subscription_expiry", "is_active",
		).
		Values(
			org.UUID, org.Name, org.Slug, org.Description, org.ContactEmail,
			org.ContactPhone, org.Address, org.Status, org.PlanType,
			org.SubscriptionExpiry, org.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert organization sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return fmt.Errorf("insert organization: %w", translateError(err))
	}
	return nil
}

func (r *OrganizationRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Organization, error) {
	sql, args, err := r.builder.Select(organizationColumns...).
		From("organizations").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization sql: %w", err)
	}

	org, err := scanOrganization(r.exec.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("select organization: %w", translateError(err))
	}
	return org, nil
}

// GetByID fetches an organization by internal id.
func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByUUID fetches an organization by public identifier.
func (r *OrganizationRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"uuid": uuid})
}

// GetBySlug fetches an organization by slug.
func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"slug": slug})
}

// List returns organizations matching the filter, newest first.
func (r *OrganizationRepository) List(ctx context.Context, filter port.OrganizationFilter) ([]domain.Organization, error) {
	query := r.builder.Select(organizationColumns...).
		From("organizations").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC")

	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organizations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

// Update persists mutable organization fields.
func (r *OrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	sql, args, err := r.builder.Update("organizations").
		Set("name", org.Name).
		Set("slug", org.Slug).
		Set("description", org.Description).
		Set("contact_email", org.ContactEmail).
		Set("contact_phone", org.ContactPhone).
		Set("address", org.Address).
		Set("status", org.Status).
		Set("plan_type", org.PlanType).
		Set("subscription_expiry", org.SubscriptionExpiry).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": org.UUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update organization: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the organization.
func (r *OrganizationRepository) Deactivate(ctx context.Context, uuid string) error {
	sql, args, err := r.builder.Update("organizations").
		Set("is_active", false).
		Set("status", domain.OrganizationStatusInactive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate organization sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("deactivate organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountActiveMembers counts non-inactive memberships, used to refuse deletes
// of populated organizations.
func (r *OrganizationRepository) CountActiveMembers(ctx context.Context, orgID int64) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From("organization_members").
		Where(squirrel.Eq{"organization_id": orgID}).
		Where(squirrel.NotEq{"status": domain.MemberStatusInactive}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count members sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}
