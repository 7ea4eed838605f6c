package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// CreateOrderInput carries the fields for order creation. OrderNumber is
// generated when absent.
type CreateOrderInput struct {
	OrganizationUUID string
	UserUUID         *string
	OrderNumber      string
	Description      string
	TotalAmount      float64
	PickupAddress    string
	PickupLat        *float64
	PickupLng        *float64
	DeliveryAddress  string
	DeliveryLat      *float64
	DeliveryLng      *float64
}

// UpdateOrderInput carries mutable order fields.
type UpdateOrderInput struct {
	Description     *string
	TotalAmount     *float64
	PickupAddress   *string
	PickupLat       *float64
	PickupLng       *float64
	DeliveryAddress *string
	DeliveryLat     *float64
	DeliveryLng     *float64
}

// OrderService implements delivery order CRUD.
type OrderService struct {
	orders port.OrderRepository
	orgs   port.OrganizationRepository
	users  port.UserRepository
	logger *zap.Logger
}

// NewOrderService wires the service.
func NewOrderService(orders port.OrderRepository, orgs port.OrganizationRepository, users port.UserRepository, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{orders: orders, orgs: orgs, users: users, logger: log}
}

func (s *OrderService) resolveOrganization(ctx context.Context, orgUUID string) (*domain.Organization, error) {
	org, err := s.orgs.GetByUUID(ctx, orgUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return org, nil
}

func (s *OrderService) buildOrder(ctx context.Context, org *domain.Organization, input CreateOrderInput, seq int64) (*domain.Order, error) {
	order := &domain.Order{
		UUID:            uuid.NewString(),
		OrganizationID:  org.ID,
		OrderNumber:     input.OrderNumber,
		Description:     input.Description,
		TotalAmount:     input.TotalAmount,
		Status:          domain.OrderStatusPending,
		PickupAddress:   input.PickupAddress,
		PickupLat:       input.PickupLat,
		PickupLng:       input.PickupLng,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryLat:     input.DeliveryLat,
		DeliveryLng:     input.DeliveryLng,
	}

	if order.OrderNumber == "" {
		order.OrderNumber = fmt.Sprintf("ORD-%d-%06d", org.ID, seq)
	}

	if input.UserUUID != nil {
		user, err := s.users.GetByUUID(ctx, *input.UserUUID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("load user: %w", err)
		}
		order.UserID = &user.ID
	}

	return order, nil
}

// Create inserts one order, generating an order number per organization when
// the caller supplies none.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	org, err := s.resolveOrganization(ctx, input.OrganizationUUID)
	if err != nil {
		return nil, err
	}

	count, err := s.orders.CountByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	order, err := s.buildOrder(ctx, org, input, count+1)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("order number taken: %w", err)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_uuid", order.UUID),
		zap.String("order_number", order.OrderNumber),
		zap.String("org_uuid", org.UUID),
	)
	return order, nil
}

// CreateBatch inserts a batch of orders for one organization.
func (s *OrderService) CreateBatch(ctx context.Context, orgUUID string, inputs []CreateOrderInput) ([]*domain.Order, error) {
	org, err := s.resolveOrganization(ctx, orgUUID)
	if err != nil {
		return nil, err
	}

	count, err := s.orders.CountByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(inputs))
	for i, input := range inputs {
		order, err := s.buildOrder(ctx, org, input, count+int64(i)+1)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := s.orders.CreateBatch(ctx, orders); err != nil {
		return nil, fmt.Errorf("create order batch: %w", err)
	}

	s.logger.Info("order batch created",
		zap.String("org_uuid", org.UUID),
		zap.Int("count", len(orders)),
	)
	return orders, nil
}

// Get fetches an order by public identifier.
func (s *OrderService) Get(ctx context.Context, orderUUID string) (*domain.Order, error) {
	order, err := s.orders.GetByUUID(ctx, orderUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

// ListByOrganization returns the organization's orders.
func (s *OrderService) ListByOrganization(ctx context.Context, orgUUID string, filter port.OrderFilter) ([]domain.Order, error) {
	org, err := s.resolveOrganization(ctx, orgUUID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByOrganization(ctx, org.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListPending returns unassigned orders, oldest first.
func (s *OrderService) ListPending(ctx context.Context, orgUUID string) ([]domain.Order, error) {
	org, err := s.resolveOrganization(ctx, orgUUID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListPending(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order along its lifecycle, refusing illegal jumps.
func (s *OrderService) UpdateStatus(ctx context.Context, orderUUID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.Get(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, orderUUID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = status
	return order, nil
}

// Update applies field changes to an order.
func (s *OrderService) Update(ctx context.Context, orderUUID string, input UpdateOrderInput) (*domain.Order, error) {
	order, err := s.Get(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		order.Description = *input.Description
	}
	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	if input.PickupAddress != nil {
		order.PickupAddress = *input.PickupAddress
	}
	if input.PickupLat != nil {
		order.PickupLat = input.PickupLat
	}
	if input.PickupLng != nil {
		order.PickupLng = input.PickupLng
	}
	if input.DeliveryAddress != nil {
		order.DeliveryAddress = *input.DeliveryAddress
	}
	if input.DeliveryLat != nil {
		order.DeliveryLat = input.DeliveryLat
	}
	if input.DeliveryLng != nil {
		order.DeliveryLng = input.DeliveryLng
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, orderUUID string) error {
	if err := s.orders.Delete(ctx, orderUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
