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

// OrderRepository implements port.OrderRepository over PostgreSQL.
type OrderRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository constructs the repository.
func NewOrderRepository(exec pgExecutor) *OrderRepository {
	r := &OrderRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		r.pool = pool
	}
	return r
}

// WithTx returns a repository bound to the transaction.
func (r *OrderRepository) WithTx(tx pgx.Tx) *OrderRepository {
	if tx == nil {
		return r
	}
	return &OrderRepository{pool: r.pool, exec: tx, builder: r.builder}
}

var orderColumns = []string{
	"id", "uuid", "organization_id", "user_id", "order_number", "description",
	"total_amount", "status", "pickup_address", "pickup_lat", "pickup_lng",
	"delivery_address", "delivery_lat", "delivery_lng", "created_at", "updated_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.UUID, &order.OrganizationID, &order.UserID,
		&order.OrderNumber, &order.Description, &order.TotalAmount,
		&order.Status, &order.PickupAddress, &order.PickupLat, &order.PickupLng,
		&order.DeliveryAddress, &order.DeliveryLat, &order.DeliveryLng,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) insertBuilder(order *domain.Order) squirrel.InsertBuilder {
	return r.builder.Insert("orders").
		Columns(
			"uuid", "organization_id", "user_id", "order_number", "description",
			"total_amount", "status", "pickup_address", "pickup_lat", "pickup_lng",
			"delivery_address", "delivery_lat", "delivery_lng",
		).
		Values(
			order.UUID, order.OrganizationID, order.UserID, order.OrderNumber,
			order.Description, order.TotalAmount, order.Status,
			order.PickupAddress, order.PickupLat, order.PickupLng,
			order.DeliveryAddress, order.DeliveryLat, order.DeliveryLng,
		)
}

// Create inserts a delivery order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	sql, args, err := r.insertBuilder(order).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert order sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", translateError(err))
	}
	return nil
}

// CreateBatch inserts orders one by one. Callers wrap this in a transaction
// when all-or-nothing semantics matter.
func (r *OrderRepository) CreateBatch(ctx context.Context, orders []*domain.Order) error {
	for _, order := range orders {
		if err := r.Create(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

// GetByUUID fetches an order by public identifier.
func (r *OrderRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Order, error) {
	sql, args, err := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select order sql: %w", err)
	}

	order, err := scanOrder(r.exec.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("select order: %w", translateError(err))
	}
	return order, nil
}

func (r *OrderRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Order, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// ListByOrganization returns the organization's orders, newest first.
func (r *OrderRepository) ListByOrganization(ctx context.Context, orgID int64, filter port.OrderFilter) ([]domain.Order, error) {
	query := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"organization_id": orgID}).
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

	return r.list(ctx, query)
}

// ListPending returns unassigned orders, oldest first so dispatchers work
// the backlog in arrival order.
func (r *OrderRepository) ListPending(ctx context.Context, orgID int64) ([]domain.Order, error) {
	query := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"organization_id": orgID, "status": domain.OrderStatusPending}).
		OrderBy("created_at ASC")

	return r.list(ctx, query)
}

// CountByOrganization returns the total order count, used for order-number
// generation.
func (r *OrderRepository) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From("orders").
		Where(squirrel.Eq{"organization_id": orgID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count orders sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// Update persists mutable order fields.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	sql, args, err := r.builder.Update("orders").
		Set("description", order.Description).
		Set("total_amount", order.TotalAmount).
		Set("pickup_address", order.PickupAddress).
		Set("pickup_lat", order.PickupLat).
		Set("pickup_lng", order.PickupLng).
		Set("delivery_address", order.DeliveryAddress).
		Set("delivery_lat", order.DeliveryLat).
		Set("delivery_lng", order.DeliveryLng).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": order.UUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update order sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus changes the delivery status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, uuid string, status domain.OrderStatus) error {
	sql, args, err := r.builder.Update("orders").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update order status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an order row.
func (r *OrderRepository) Delete(ctx context.Context, uuid string) error {
	sql, args, err := r.builder.Delete("orders").
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete order sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
