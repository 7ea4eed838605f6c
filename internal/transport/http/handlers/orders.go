package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/usecase"
)

// OrderHandler exposes delivery order endpoints.
type OrderHandler struct {
	orders *usecase.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes binds order routes. Organization-scoped routes hang off the
// organizations group; order-scoped routes off the orders group.
func (h *OrderHandler) RegisterRoutes(orgs, orders *gin.RouterGroup) {
	orgs.POST("/:uuid/orders", h.create)
	orgs.POST("/:uuid/orders/batch", h.createBatch)
	orgs.GET("/:uuid/orders", h.listByOrganization)
	orgs.GET("/:uuid/orders/pending", h.listPending)

	orders.GET("/:uuid", h.get)
	orders.PUT("/:uuid", h.update)
	orders.PATCH("/:uuid/status", h.updateStatus)
	orders.DELETE("/:uuid", h.remove)
}

func orderInput(orgUUID string, req OrderCreateRequest) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		OrganizationUUID: orgUUID,
		UserUUID:         req.UserUUID,
		OrderNumber:      req.OrderNumber,
		Description:      req.Description,
		TotalAmount:      req.TotalAmount,
		PickupAddress:    req.PickupAddress,
		PickupLat:        req.PickupLat,
		PickupLng:        req.PickupLng,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryLat:      req.DeliveryLat,
		DeliveryLng:      req.DeliveryLng,
	}
}

var orderErrorCases = []ErrorCase{
	{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
}

func (h *OrderHandler) create(c *gin.Context) {
	var req OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid order payload"))
		return
	}

	order, err := h.orders.Create(c.Request.Context(), orderInput(c.Param("uuid"), req))
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to create order")
		return
	}

	c.JSON(http.StatusCreated, newOrderPayload(order))
}

func (h *OrderHandler) createBatch(c *gin.Context) {
	var req OrderBatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "at least one order is required"))
		return
	}

	inputs := make([]usecase.CreateOrderInput, 0, len(req.Orders))
	for _, item := range req.Orders {
		inputs = append(inputs, orderInput(c.Param("uuid"), item))
	}

	orders, err := h.orders.CreateBatch(c.Request.Context(), c.Param("uuid"), inputs)
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to create orders")
		return
	}

	payloads := make([]OrderPayload, 0, len(orders))
	for _, order := range orders {
		payloads = append(payloads, newOrderPayload(order))
	}

	c.JSON(http.StatusCreated, OrderListResponse{Orders: payloads, Total: len(payloads)})
}

func (h *OrderHandler) listByOrganization(c *gin.Context) {
	filter := port.OrderFilter{}
	if raw := c.Query("status"); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	orders, err := h.orders.ListByOrganization(c.Request.Context(), c.Param("uuid"), filter)
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to list orders")
		return
	}

	c.JSON(http.StatusOK, newOrderListResponse(orders))
}

func (h *OrderHandler) listPending(c *gin.Context) {
	orders, err := h.orders.ListPending(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to list pending orders")
		return
	}

	c.JSON(http.StatusOK, newOrderListResponse(orders))
}

func (h *OrderHandler) get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to load order")
		return
	}

	c.JSON(http.StatusOK, newOrderPayload(order))
}

func (h *OrderHandler) update(c *gin.Context) {
	var req OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid order payload"))
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("uuid"), usecase.UpdateOrderInput{
		Description:     req.Description,
		TotalAmount:     req.TotalAmount,
		PickupAddress:   req.PickupAddress,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryLat:     req.DeliveryLat,
		DeliveryLng:     req.DeliveryLng,
	})
	if err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to update order")
		return
	}

	c.JSON(http.StatusOK, newOrderPayload(order))
}

func (h *OrderHandler) updateStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "status is required"))
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("uuid"), req.Status)
	if err != nil {
		cases := append([]ErrorCase{
			{Err: usecase.ErrInvalidStatusTransition, Status: http.StatusConflict, Message: "illegal status transition"},
		}, orderErrorCases...)
		RespondWithMappedError(c, err, cases, http.StatusInternalServerError, "failed to update order status")
		return
	}

	c.JSON(http.StatusOK, newOrderPayload(order))
}

func (h *OrderHandler) remove(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("uuid")); err != nil {
		RespondWithMappedError(c, err, orderErrorCases, http.StatusInternalServerError, "failed to delete order")
		return
	}

	c.Status(http.StatusNoContent)
}

func newOrderListResponse(orders []domain.Order) OrderListResponse {
	payloads := make([]OrderPayload, 0, len(orders))
	for i := range orders {
		payloads = append(payloads, newOrderPayload(&orders[i]))
	}
	return OrderListResponse{Orders: payloads, Total: len(payloads)}
}
