package ordersserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customerhttpmapper "github.com/Apurer/clean-orders/internal/domains/customers/adapters/http/mapper"
	customerports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
	apierrors "github.com/Apurer/clean-orders/internal/shared/errors"
)

// CustomerAPI implements the customers section of the API.
type CustomerAPI struct {
	service customerports.Service
}

// NewCustomerAPI wires dependencies.
func NewCustomerAPI(service customerports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Post /v1/customers
// Register a customer
func (api *CustomerAPI) RegisterCustomer(c *gin.Context) {
	var payload customerhttpmapper.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	saved, err := api.service.RegisterCustomer(c.Request.Context(), customerhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customerhttpmapper.FromProjection(saved))
}

// Get /v1/customers
// List customers
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	list, err := api.service.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromProjectionList(list))
}

// Get /v1/customers/:customerId
// Find customer by ID
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	customer, err := api.service.GetCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromProjection(customer))
}

// Patch /v1/customers/:customerId
// Rename a customer and/or change their email
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	var payload customerhttpmapper.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	if payload.Name == nil && payload.Email == nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("name or email is required"))
		return
	}
	updated, err := api.service.UpdateCustomer(c.Request.Context(), c.Param("customerId"), customerports.UpdateCustomerInput{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerhttpmapper.FromProjection(updated))
}
