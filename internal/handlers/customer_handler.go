package handlers

import (
	"net/http"
	"strconv"

	"mechseva/internal/middleware"
	"mechseva/internal/models"
	"mechseva/internal/services"
	"mechseva/internal/utils"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService services.CustomerService
}

func NewCustomerHandler(customerService services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetProfile handles GET /api/v1/customers/me
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	customer, err := h.customerService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", customer)
}

// UpdateProfile handles PUT /api/v1/customers/me
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req services.UpdateCustomerProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", customer)
}

// Deactivate handles DELETE /api/v1/customers/me
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	if err := h.customerService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account deactivated", nil)
}

// AddAddress handles POST /api/v1/customers/me/addresses
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var address models.Address
	if !bindJSON(c, &address) {
		return
	}

	customer, err := h.customerService.AddAddress(c.Request.Context(), id, address)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Address added", customer.Addresses)
}

// UpdateAddress handles PUT /api/v1/customers/me/addresses/:index
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_INDEX", "Address index must be a number")
		return
	}

	var address models.Address
	if !bindJSON(c, &address) {
		return
	}

	customer, err := h.customerService.UpdateAddress(c.Request.Context(), id, index, address)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Address updated", customer.Addresses)
}

// RemoveAddress handles DELETE /api/v1/customers/me/addresses/:index
func (h *CustomerHandler) RemoveAddress(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_INDEX", "Address index must be a number")
		return
	}

	customer, err := h.customerService.RemoveAddress(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Address removed", customer.Addresses)
}

// AddVehicle handles POST /api/v1/customers/me/vehicles
func (h *CustomerHandler) AddVehicle(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var vehicle models.Vehicle
	if !bindJSON(c, &vehicle) {
		return
	}

	customer, err := h.customerService.AddVehicle(c.Request.Context(), id, vehicle)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle added", customer.Vehicles)
}

// UpdateVehicle handles PUT /api/v1/customers/me/vehicles/:index
func (h *CustomerHandler) UpdateVehicle(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_INDEX", "Vehicle index must be a number")
		return
	}

	var vehicle models.Vehicle
	if !bindJSON(c, &vehicle) {
		return
	}

	customer, err := h.customerService.UpdateVehicle(c.Request.Context(), id, index, vehicle)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated", customer.Vehicles)
}

// RemoveVehicle handles DELETE /api/v1/customers/me/vehicles/:index
func (h *CustomerHandler) RemoveVehicle(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_INDEX", "Vehicle index must be a number")
		return
	}

	customer, err := h.customerService.RemoveVehicle(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle removed", customer.Vehicles)
}

// List handles GET /api/v1/admin/customers
func (h *CustomerHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	customers, total, err := h.customerService.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Customers retrieved", customers, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(customers),
	})
}

// GetStatistics handles GET /api/v1/admin/customers/statistics
func (h *CustomerHandler) GetStatistics(c *gin.Context) {
	stats, err := h.customerService.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Customer statistics", stats)
}
