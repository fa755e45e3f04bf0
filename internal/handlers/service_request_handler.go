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

type ServiceRequestHandler struct {
	requestService services.ServiceRequestService
}

func NewServiceRequestHandler(requestService services.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{requestService: requestService}
}

// Create handles POST /api/v1/requests
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	customerID, ok := middleware.AccountID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req services.CreateServiceRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), customerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Service request created", request)
}

// Get handles GET /api/v1/requests/:requestId
func (h *ServiceRequestHandler) Get(c *gin.Context) {
	request, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, "Service request retrieved", request)
}

// ListMine handles GET /api/v1/requests for the authenticated account.
func (h *ServiceRequestHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	var (
		requests []*models.ServiceRequest
		total    int64
		err      error
	)
	switch actor.Kind {
	case models.ActorKindCustomer:
		requests, total, err = h.requestService.GetByCustomer(c.Request.Context(), actor.ID, params)
	case models.ActorKindMechanic:
		requests, total, err = h.requestService.GetByMechanic(c.Request.Context(), actor.ID, params)
	default:
		utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Listing not available for this account type")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Service requests retrieved", requests, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(requests),
	})
}

// FindPendingNearby handles GET /api/v1/requests/nearby/pending for
// mechanics scanning for work.
func (h *ServiceRequestHandler) FindPendingNearby(c *gin.Context) {
	lat, lng, ok := parseCoordinates(c)
	if !ok {
		return
	}
	radiusKM, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "0"), 64)

	requests, err := h.requestService.FindPendingNearby(c.Request.Context(), lat, lng, radiusKM)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Pending requests nearby", requests, &utils.Meta{Count: len(requests)})
}

// AssignMechanic handles POST /api/v1/requests/:requestId/assign
func (h *ServiceRequestHandler) AssignMechanic(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req struct {
		MechanicID string `json:"mechanic_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	mechanicID, err := primitive.ObjectIDFromHex(req.MechanicID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Mechanic id is not valid")
		return
	}

	request, err := h.requestService.AssignMechanic(c.Request.Context(), c.Param("requestId"), mechanicID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Mechanic assigned", request)
}

// UpdateStatus handles PUT /api/v1/requests/:requestId/status
func (h *ServiceRequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req struct {
		Status  models.RequestStatus `json:"status" binding:"required"`
		Comment string               `json:"comment"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.UpdateStatus(c.Request.Context(), c.Param("requestId"), req.Status, actor, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Status updated", request)
}

// Cancel handles POST /api/v1/requests/:requestId/cancel
func (h *ServiceRequestHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req struct {
		Reason  models.CancellationReason `json:"reason" binding:"required"`
		Comment string                    `json:"comment"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), c.Param("requestId"), actor, req.Reason, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Request cancelled", request)
}

// AddMessage handles POST /api/v1/requests/:requestId/messages
func (h *ServiceRequestHandler) AddMessage(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	var req struct {
		Body string             `json:"body" binding:"required"`
		Kind models.MessageKind `json:"kind"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.AddMessage(c.Request.Context(), c.Param("requestId"), actor, req.Body, req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Message sent", request.Messages)
}

// MarkMessagesRead handles PUT /api/v1/requests/:requestId/messages/read
func (h *ServiceRequestHandler) MarkMessagesRead(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return
	}

	request, err := h.requestService.MarkMessagesRead(c.Request.Context(), c.Param("requestId"), actor.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Messages marked read", gin.H{
		"unread": request.UnreadMessageCount(actor.Kind),
	})
}

// AddPart handles POST /api/v1/requests/:requestId/parts
func (h *ServiceRequestHandler) AddPart(c *gin.Context) {
	var part models.Part
	if !bindJSON(c, &part) {
		return
	}

	request, err := h.requestService.AddPart(c.Request.Context(), c.Param("requestId"), part)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Part added", gin.H{
		"parts_used": request.PartsUsed,
		"pricing":    request.Pricing,
	})
}

// SetLaborHours handles PUT /api/v1/requests/:requestId/labor
func (h *ServiceRequestHandler) SetLaborHours(c *gin.Context) {
	var req struct {
		Hours float64 `json:"hours"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.SetLaborHours(c.Request.Context(), c.Param("requestId"), req.Hours)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Labor recorded", request.Pricing)
}

// ApplyDiscount handles PUT /api/v1/requests/:requestId/discount
func (h *ServiceRequestHandler) ApplyDiscount(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.ApplyDiscount(c.Request.Context(), c.Param("requestId"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Discount applied", request.Pricing)
}

// MarkPaid handles POST /api/v1/requests/:requestId/payment
func (h *ServiceRequestHandler) MarkPaid(c *gin.Context) {
	var req struct {
		Method        models.PaymentMethod `json:"method" binding:"required"`
		TransactionID string               `json:"transaction_id"`
	}
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.MarkPaid(c.Request.Context(), c.Param("requestId"), req.Method, req.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment recorded", request.Payment)
}

// RateByCustomer handles POST /api/v1/requests/:requestId/rating/customer
func (h *ServiceRequestHandler) RateByCustomer(c *gin.Context) {
	var req services.RateRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.RateByCustomer(c.Request.Context(), c.Param("requestId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating submitted", request.CustomerRating)
}

// RateByMechanic handles POST /api/v1/requests/:requestId/rating/mechanic
func (h *ServiceRequestHandler) RateByMechanic(c *gin.Context) {
	var req services.RateRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.RateByMechanic(c.Request.Context(), c.Param("requestId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating submitted", request.MechanicRating)
}

// GetPlatformStatistics handles GET /api/v1/admin/requests/statistics
func (h *ServiceRequestHandler) GetPlatformStatistics(c *gin.Context) {
	stats, err := h.requestService.GetPlatformStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Platform statistics", stats)
}

// loadAuthorized fetches the request and checks the caller is a party to
// it. Admins can read anything.
func (h *ServiceRequestHandler) loadAuthorized(c *gin.Context) (*models.ServiceRequest, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		return nil, false
	}

	request, err := h.requestService.GetByRequestID(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	switch actor.Kind {
	case models.ActorKindAdmin:
	case models.ActorKindCustomer:
		if request.CustomerID != actor.ID {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Not your service request")
			return nil, false
		}
	case models.ActorKindMechanic:
		if request.MechanicID == nil || *request.MechanicID != actor.ID {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Not your service request")
			return nil, false
		}
	}

	return request, true
}
