package handlers

import (
	"net/http"
	"strconv"

	"mechseva/internal/middleware"
	"mechseva/internal/models"
	"mechseva/internal/services"
	"mechseva/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MechanicHandler struct {
	mechanicService services.MechanicService
}

func NewMechanicHandler(mechanicService services.MechanicService) *MechanicHandler {
	return &MechanicHandler{mechanicService: mechanicService}
}

// GetProfile handles GET /api/v1/mechanics/me
func (h *MechanicHandler) GetProfile(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	mechanic, err := h.mechanicService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", mechanic)
}

// UpdateProfile handles PUT /api/v1/mechanics/me
func (h *MechanicHandler) UpdateProfile(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req services.UpdateMechanicProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	mechanic, err := h.mechanicService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", mechanic)
}

// SetOnline handles PUT /api/v1/mechanics/me/online
func (h *MechanicHandler) SetOnline(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req struct {
		IsOnline bool `json:"is_online"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.mechanicService.SetOnline(c.Request.Context(), id, req.IsOnline); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Online status updated", gin.H{"is_online": req.IsOnline})
}

// UpdateAvailability handles PUT /api/v1/mechanics/me/availability
func (h *MechanicHandler) UpdateAvailability(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var availability models.WeeklyAvailability
	if !bindJSON(c, &availability) {
		return
	}

	if err := h.mechanicService.UpdateAvailability(c.Request.Context(), id, availability); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", availability)
}

// UpdateRateCard handles PUT /api/v1/mechanics/me/pricing
func (h *MechanicHandler) UpdateRateCard(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var rateCard models.RateCard
	if !bindJSON(c, &rateCard) {
		return
	}

	if err := h.mechanicService.UpdateRateCard(c.Request.Context(), id, rateCard); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rate card updated", rateCard)
}

// SubmitDocuments handles POST /api/v1/mechanics/me/documents
func (h *MechanicHandler) SubmitDocuments(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req services.SubmitDocumentsRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.mechanicService.SubmitDocuments(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Documents submitted for verification", nil)
}

// Deactivate handles DELETE /api/v1/mechanics/me
func (h *MechanicHandler) Deactivate(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	if err := h.mechanicService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account deactivated", nil)
}

// FindNearby handles GET /api/v1/mechanics/nearby
func (h *MechanicHandler) FindNearby(c *gin.Context) {
	lat, lng, ok := parseCoordinates(c)
	if !ok {
		return
	}
	radiusKM, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "0"), 64)

	serviceType := models.ServiceType(c.Query("service_type"))
	vehicleType := models.VehicleType(c.Query("vehicle_type"))

	var mechanics []*models.Mechanic
	var err error
	if serviceType != "" && vehicleType != "" {
		mechanics, err = h.mechanicService.FindAvailableForService(c.Request.Context(), serviceType, vehicleType, lat, lng, radiusKM)
	} else {
		mechanics, err = h.mechanicService.FindNearby(c.Request.Context(), lat, lng, radiusKM)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Nearby mechanics", mechanics, &utils.Meta{Count: len(mechanics)})
}

// GetTopRated handles GET /api/v1/mechanics/top-rated
func (h *MechanicHandler) GetTopRated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	mechanics, err := h.mechanicService.GetTopRated(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Top rated mechanics", mechanics, &utils.Meta{Count: len(mechanics)})
}

// List handles GET /api/v1/admin/mechanics
func (h *MechanicHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	mechanics, total, err := h.mechanicService.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Mechanics retrieved", mechanics, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(mechanics),
	})
}

// SetVerificationStatus handles PUT /api/v1/admin/mechanics/:id/verification
func (h *MechanicHandler) SetVerificationStatus(c *gin.Context) {
	mechanicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Mechanic id is not valid")
		return
	}

	var req struct {
		Status models.VerificationStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.mechanicService.SetVerificationStatus(c.Request.Context(), mechanicID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Verification status updated", gin.H{"status": req.Status})
}

// RefreshStatistics handles POST /api/v1/mechanics/me/statistics/refresh
func (h *MechanicHandler) RefreshStatistics(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	stats, err := h.mechanicService.RefreshStatistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Statistics refreshed", stats)
}

func parseCoordinates(c *gin.Context) (lat, lng float64, ok bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_COORDINATES", "lat and lng query parameters are required")
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_COORDINATES", "coordinates are out of range")
		return 0, 0, false
	}
	return lat, lng, true
}
