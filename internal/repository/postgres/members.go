package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// MemberRepository implements port.MemberRepository over PostgreSQL.
type MemberRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.MemberRepository = (*MemberRepository)(nil)

// NewMemberRepository constructs the repository.
func NewMemberRepository(exec pgExecutor) *MemberRepository {
	r := &MemberRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		r.pool = pool
	}
	return r
}

// WithTx returns a repository bound to the transaction.
func (r *MemberRepository) WithTx(tx pgx.Tx) *MemberRepository {
	if tx == nil {
		return r
	}
	return &MemberRepository{pool: r.pool, exec: tx, builder: r.builder}
}

var memberColumns = []string{
	"id", "uuid", "organization_id", "user_id", "title", "notes", "status",
	"is_owner", "is_admin", "member_since", "created_at", "updated_at",
}

func scanMember(row pgx.Row) (*domain.OrganizationMember, error) {
	var member domain.OrganizationMember
	err := row.Scan(
		&member.ID, &member.UUID, &member.OrganizationID, &member.UserID,
		&member.Title, &member.Notes, &member.Status, &member.IsOwner,
		&member.IsAdmin, &member.MemberSince, &member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts a membership row. The (organization, user) pair is unique.
func (r *MemberRepository) Create(ctx context.Context, member *domain.OrganizationMember) error {
	sql, args, err := r.builder.Insert("organization_members").
		Columns(
			"uuid", "organization_id", "user_id", "title", "notes",
			"status", "is_owner", "is_admin", "member_since",
		).
		Values(
			member.UUID, member.OrganizationID, member.UserID, member.Title,
			member.Notes, member.Status, member.IsOwner, member.IsAdmin,
			member.MemberSince,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert member sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt); err != nil {
		return fmt.Errorf("insert member: %w", translateError(err))
	}
	return nil
}

// GetByUUID fetches a member with its roles.
func (r *MemberRepository) GetByUUID(ctx context.Context, uuid string) (*domain.OrganizationMember, error) {
	sql, args, err := r.builder.Select(memberColumns...).
		From("organization_members").
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select member sql: %w", err)
	}

	member, err := scanMember(r.exec.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("select member: %w", translateError(err))
	}

	roles, err := r.loadRoles(ctx, []int64{member.ID})
	if err != nil {
		return nil, err
	}
	member.Roles = roles[member.ID]
	return member, nil
}

// ListByOrganization returns the members of an organization with roles.
func (r *MemberRepository) ListByOrganization(ctx context.Context, orgID int64) ([]domain.OrganizationMember, error) {
	sql, args, err := r.builder.Select(memberColumns...).
		From("organization_members").
		Where(squirrel.Eq{"organization_id": orgID}).
		OrderBy("member_since ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list members sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []domain.OrganizationMember
	var ids []int64
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *member)
		ids = append(ids, member.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	roles, err := r.loadRoles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Roles = roles[members[i].ID]
	}
	return members, nil
}

// ListMembershipsForUser returns the user's memberships joined with their
// organizations, ordered by member_since ascending with member id as
// tie-break. This ordering decides the default organization at login.
func (r *MemberRepository) ListMembershipsForUser(ctx context.Context, userID int64) ([]port.Membership, error) {
	cols := []string{
		"m.id", "m.uuid", "m.organization_id", "m.user_id", "m.title",
		"m.notes", "m.status", "m.is_owner", "m.is_admin", "m.member_since",
		"m.created_at", "m.updated_at",
		"o.id", "o.uuid", "o.name", "o.slug", "o.description",
		"o.contact_email", "o.contact_phone", "o.address", "o.status",
		"o.plan_type", "o.subscription_expiry", "o.is_active",
		"o.created_at", "o.updated_at",
	}

	sql, args, err := r.builder.Select(cols...).
		From("organization_members m").
		Join("organizations o ON o.id = m.organization_id").
		Where(squirrel.Eq{"m.user_id": userID, "m.status": domain.MemberStatusActive, "o.is_active": true}).
		OrderBy("m.member_since ASC", "m.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list memberships sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []port.Membership
	var memberIDs []int64
	for rows.Next() {
		var ms port.Membership
		err := rows.Scan(
			&ms.Member.ID, &ms.Member.UUID, &ms.Member.OrganizationID,
			&ms.Member.UserID, &ms.Member.Title, &ms.Member.Notes,
			&ms.Member.Status, &ms.Member.IsOwner, &ms.Member.IsAdmin,
			&ms.Member.MemberSince, &ms.Member.CreatedAt, &ms.Member.UpdatedAt,
			&ms.Organization.ID, &ms.Organization.UUID, &ms.Organization.Name,
			&ms.Organization.Slug, &ms.Organization.Description,
			&ms.Organization.ContactEmail, &ms.Organization.ContactPhone,
			&ms.Organization.Address, &ms.Organization.Status,
			&ms.Organization.PlanType, &ms.Organization.SubscriptionExpiry,
			&ms.Organization.IsActive, &ms.Organization.CreatedAt,
			&ms.Organization.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, ms)
		memberIDs = append(memberIDs, ms.Member.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	roles, err := r.loadRoles(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	for i := range memberships {
		memberships[i].Member.Roles = roles[memberships[i].Member.ID]
	}
	return memberships, nil
}

var roleColumns = []string{
	"id", "uuid", "member_id", "role_name", "description", "status",
	"permissions", "created_at", "updated_at",
}

func (r *MemberRepository) loadRoles(ctx context.Context, memberIDs []int64) (map[int64][]domain.MemberRole, error) {
	result := make(map[int64][]domain.MemberRole, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.builder.Select(roleColumns...).
		From("member_roles").
		Where(squirrel.Eq{"member_id": memberIDs}).
		OrderBy("member_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role  domain.MemberRole
			perms []byte
		)
		err := rows.Scan(
			&role.ID, &role.UUID, &role.MemberID, &role.Name,
			&role.Description, &role.Status, &perms,
			&role.CreatedAt, &role.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if len(perms) > 0 {
			if err := json.Unmarshal(perms, &role.Permissions); err != nil {
				return nil, fmt.Errorf("decode role permissions: %w", err)
			}
		}
		result[role.MemberID] = append(result[role.MemberID], role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return result, nil
}

// UpdateStatus changes a membership's lifecycle status.
func (r *MemberRepository) UpdateStatus(ctx context.Context, uuid string, status domain.MemberStatus) error {
	sql, args, err := r.builder.Update("organization_members").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update member status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Remove deletes a membership and its roles.
func (r *MemberRepository) Remove(ctx context.Context, uuid string) error {
	sql, args, err := r.builder.Delete("organization_members").
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete member sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddRole attaches a role to a member. The (member, role_name) pair is
// unique.
func (r *MemberRepository) AddRole(ctx context.Context, role *domain.MemberRole) error {
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode role permissions: %w", err)
	}

	sql, args, err := r.builder.Insert("member_roles").
		Columns("uuid", "member_id", "role_name", "description", "status", "permissions").
		Values(role.UUID, role.MemberID, role.Name, role.Description, role.Status, perms).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return fmt.Errorf("insert role: %w", translateError(err))
	}
	return nil
}

// RemoveRole detaches a role from its member.
func (r *MemberRepository) RemoveRole(ctx context.Context, roleUUID string) error {
	sql, args, err := r.builder.Delete("member_roles").
		Where(squirrel.Eq{"uuid": roleUUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
