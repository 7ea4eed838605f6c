package domain

import "time"

// OrderStatus is the delivery lifecycle: PENDING moves to ASSIGNED, ASSIGNED
// moves to COMPLETED or CANCELLED. PENDING may also be cancelled directly.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusAssigned, OrderStatusCancelled},
	OrderStatusAssigned: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransitionTo reports whether the status change is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a tenant-scoped delivery record. OrderNumber is unique within the
// owning organization.
type Order struct {
	ID             int64
	UUID           string
	OrganizationID int64
	UserID         *int64
	OrderNumber    string
	Description    string
	TotalAmount    float64
	Status         OrderStatus
	PickupAddress  string
	PickupLat      *float64
	PickupLng      *float64
	DeliveryAddress string
	DeliveryLat    *float64
	DeliveryLng    *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
