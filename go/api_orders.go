package ordersserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/clean-orders/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	ordersports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry POST /v1/orders safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI implements the orders section of the API.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI wires dependencies. Placement goes through the orchestrator so
// it can run durably when Temporal is available.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Place a new order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(payload, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	view, err := api.workflows.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromView(view))
}

// Get /v1/orders
// List orders, optionally filtered by status, customer, or product
func (api *OrderAPI) ListOrders(c *gin.Context) {
	filter := ordersports.ListFilter{
		Status:     domain.Status(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		CustomerID: strings.TrimSpace(c.Query("customerId")),
		ProductID:  strings.TrimSpace(c.Query("productId")),
	}
	views, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromViews(views))
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	view, err := api.service.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromView(view))
}

// Post /v1/orders/:orderId/cancel
// Cancel an order; cancelling twice is a no-op
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	view, err := api.service.CancelOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromView(view))
}
