package services

import (
	"context"
	"math"
	"strconv"
	"time"

	"mechseva/internal/lifecycle"
	"mechseva/internal/models"
	"mechseva/internal/pricing"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"
	"mechseva/pkg/logger"
	"mechseva/pkg/payment"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateServiceRequestRequest struct {
	Vehicle             models.VehicleInfo     `json:"vehicle" validate:"required"`
	ServiceType         models.ServiceType     `json:"service_type" validate:"required"`
	ProblemDescription  string                 `json:"problem_description" validate:"required,max=500"`
	Urgency             models.Urgency         `json:"urgency"`
	Location            models.RequestLocation `json:"location" validate:"required"`
	ScheduledFor        *time.Time             `json:"scheduled_for"`
	PreferredTime       models.PreferredTime   `json:"preferred_time"`
	SpecialInstructions string                 `json:"special_instructions"`
}

type RateRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=1000"`
}

// ServiceRequestService drives the booking lifecycle end to end: creation,
// mechanic assignment, status transitions, in-request chat, pricing
// adjustments, ratings, payment settlement and cancellation with refunds.
type ServiceRequestService interface {
	Create(ctx context.Context, customerID primitive.ObjectID, req *CreateServiceRequestRequest) (*models.ServiceRequest, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error)
	GetByMechanic(ctx context.Context, mechanicID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error)
	FindPendingNearby(ctx context.Context, lat, lng, radiusKM float64) ([]*models.ServiceRequest, error)

	AssignMechanic(ctx context.Context, requestID string, mechanicID primitive.ObjectID, actor models.ActorRef) (*models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, requestID string, newStatus models.RequestStatus, actor models.ActorRef, comment string) (*models.ServiceRequest, error)
	Cancel(ctx context.Context, requestID string, actor models.ActorRef, reason models.CancellationReason, comment string) (*models.ServiceRequest, error)

	AddMessage(ctx context.Context, requestID string, sender models.ActorRef, body string, kind models.MessageKind) (*models.ServiceRequest, error)
	MarkMessagesRead(ctx context.Context, requestID string, reader models.ActorKind) (*models.ServiceRequest, error)

	AddPart(ctx context.Context, requestID string, part models.Part) (*models.ServiceRequest, error)
	SetLaborHours(ctx context.Context, requestID string, hours float64) (*models.ServiceRequest, error)
	ApplyDiscount(ctx context.Context, requestID string, amount float64) (*models.ServiceRequest, error)

	MarkPaid(ctx context.Context, requestID string, method models.PaymentMethod, transactionID string) (*models.ServiceRequest, error)

	RateByCustomer(ctx context.Context, requestID string, req *RateRequest) (*models.ServiceRequest, error)
	RateByMechanic(ctx context.Context, requestID string, req *RateRequest) (*models.ServiceRequest, error)

	GetPlatformStatistics(ctx context.Context) (*interfaces.RequestStats, error)
}

type serviceRequestService struct {
	requestRepo  interfaces.ServiceRequestRepository
	customerRepo interfaces.CustomerRepository
	mechanicRepo interfaces.MechanicRepository
	refunds      payment.RefundProvider
	logger       *logger.Logger
}

func NewServiceRequestService(
	requestRepo interfaces.ServiceRequestRepository,
	customerRepo interfaces.CustomerRepository,
	mechanicRepo interfaces.MechanicRepository,
	refunds payment.RefundProvider,
	log *logger.Logger,
) ServiceRequestService {
	return &serviceRequestService{
		requestRepo:  requestRepo,
		customerRepo: customerRepo,
		mechanicRepo: mechanicRepo,
		refunds:      refunds,
		logger:       log,
	}
}

func (s *serviceRequestService) Create(ctx context.Context, customerID primitive.ObjectID, req *CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !models.IsValidServiceType(req.ServiceType) {
		return nil, utils.NewValidationError("service_type", "unknown service type")
	}
	if req.Urgency != "" && !models.IsValidUrgency(req.Urgency) {
		return nil, utils.NewValidationError("urgency", "unknown urgency level")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, utils.ErrAccountInactive
	}

	now := time.Now()

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	scheduledFor := now
	if req.ScheduledFor != nil {
		scheduledFor = *req.ScheduledFor
	}
	preferredTime := req.PreferredTime
	if preferredTime == "" {
		preferredTime = models.PreferredFlexible
	}

	request := &models.ServiceRequest{
		RequestID:           utils.GenerateRequestID(),
		CustomerID:          customerID,
		Vehicle:             req.Vehicle,
		ServiceType:         req.ServiceType,
		ProblemDescription:  utils.SanitizeString(req.ProblemDescription),
		Urgency:             urgency,
		Location:            req.Location,
		ScheduledFor:        scheduledFor,
		PreferredTime:       preferredTime,
		IsEmergency:         urgency == models.UrgencyEmergency,
		Status:              models.StatusPending,
		SpecialInstructions: utils.SanitizeString(req.SpecialInstructions),
		// History starts empty: the initial pending state is the record
		// itself, only transitions append entries.
		TimeTracking: models.TimeTracking{RequestedAt: now},
		Payment:      models.Payment{Status: models.PaymentStatusPending},
	}

	// Upfront estimate with platform defaults; refined against the
	// assigned mechanic's rate card later.
	request.Pricing = pricing.Estimate(0, request.IsEmergency, models.DefaultRateCard())

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(request.RequestID, "created", map[string]interface{}{
		"customer_id":  customerID.Hex(),
		"service_type": request.ServiceType,
		"urgency":      request.Urgency,
	})

	return request, nil
}

func (s *serviceRequestService) GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	return s.requestRepo.GetByRequestID(ctx, requestID)
}

func (s *serviceRequestService) GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	return s.requestRepo.GetByCustomer(ctx, customerID, params)
}

func (s *serviceRequestService) GetByMechanic(ctx context.Context, mechanicID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	return s.requestRepo.GetByMechanic(ctx, mechanicID, params)
}

func (s *serviceRequestService) FindPendingNearby(ctx context.Context, lat, lng, radiusKM float64) ([]*models.ServiceRequest, error) {
	if radiusKM <= 0 {
		radiusKM = utils.DefaultSearchRadiusKM
	}
	return s.requestRepo.FindPendingNearLocation(ctx, lng, lat, radiusKM*1000)
}

// AssignMechanic pins a mechanic to a pending request and replaces the
// default estimate with one priced off the mechanic's rate card and the
// actual travel distance. A lost race against another assignment surfaces
// as ErrStatusConflict.
func (s *serviceRequestService) AssignMechanic(ctx context.Context, requestID string, mechanicID primitive.ObjectID, actor models.ActorRef) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	mechanic, err := s.mechanicRepo.GetByID(ctx, mechanicID)
	if err != nil {
		return nil, err
	}
	if !mechanic.IsActive || !mechanic.IsVerified {
		return nil, utils.NewValidationError("mechanic", "mechanic is not available for assignment")
	}
	if !mechanic.HasSpecialization(request.ServiceType) {
		return nil, utils.NewValidationError("mechanic", "mechanic does not handle this service type")
	}
	if !mechanic.ServesVehicleType(request.Vehicle.VehicleType) {
		return nil, utils.NewValidationError("mechanic", "mechanic does not serve this vehicle type")
	}
	if !request.IsEmergency {
		day := request.ScheduledFor.Weekday()
		if !mechanic.IsAvailableAt(day, request.ScheduledFor.Format("15:04")) {
			return nil, utils.NewValidationError("mechanic", "mechanic is not available at the scheduled time")
		}
	}

	expected := request.Status

	distanceKM := utils.CalculateDistance(
		mechanic.BusinessAddress.Coordinates.Latitude(),
		mechanic.BusinessAddress.Coordinates.Longitude(),
		request.Location.Point.Latitude(),
		request.Location.Point.Longitude(),
	)

	request.MechanicID = &mechanicID
	request.DistanceKM = math.Round(distanceKM*100) / 100
	request.Pricing = pricing.Estimate(request.DistanceKM, request.IsEmergency, mechanic.Pricing)

	if err := lifecycle.Transition(request, models.StatusAssigned, actor, "", time.Now()); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithStatusGuard(ctx, request, expected); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(request.RequestID, "assigned", map[string]interface{}{
		"mechanic_id": mechanicID.Hex(),
		"distance_km": request.DistanceKM,
	})

	return request, nil
}

func (s *serviceRequestService) UpdateStatus(ctx context.Context, requestID string, newStatus models.RequestStatus, actor models.ActorRef, comment string) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	expected := request.Status

	if err := lifecycle.Transition(request, newStatus, actor, comment, time.Now()); err != nil {
		return nil, err
	}

	if newStatus == models.StatusCompleted {
		pricing.RecomputeFinalCost(&request.Pricing)
	}

	if err := s.requestRepo.SaveWithStatusGuard(ctx, request, expected); err != nil {
		return nil, err
	}

	if newStatus == models.StatusCompleted {
		s.settleCompletion(ctx, request)
	}

	s.logger.LogBookingEvent(request.RequestID, "status_changed", map[string]interface{}{
		"from": expected,
		"to":   newStatus,
	})

	return request, nil
}

// settleCompletion rolls the completed request into both parties'
// aggregate numbers. Failures here are logged, not returned: the request
// itself is already durably completed.
func (s *serviceRequestService) settleCompletion(ctx context.Context, request *models.ServiceRequest) {
	if err := s.customerRepo.IncrementBookingStats(ctx, request.CustomerID, request.Pricing.FinalCost); err != nil {
		s.logger.WithError(err).WithRequestID(request.RequestID).Error("failed to update customer booking stats")
	}

	if request.MechanicID == nil {
		return
	}

	requestStats, err := s.requestRepo.GetMechanicStatistics(ctx, *request.MechanicID)
	if err != nil {
		s.logger.WithError(err).WithRequestID(request.RequestID).Error("failed to aggregate mechanic stats")
		return
	}

	stats := models.MechanicStatistics{
		TotalBookings:     requestStats.TotalRequests,
		CompletedBookings: requestStats.CompletedRequests,
		CancelledBookings: requestStats.CancelledRequests,
		TotalEarnings:     requestStats.TotalEarnings,
		AvgResponseTime:   math.Round(requestStats.AvgResponseTime*100) / 100,
	}
	stats.RecomputeCompletionRate()

	if err := s.mechanicRepo.UpdateStatistics(ctx, *request.MechanicID, stats); err != nil {
		s.logger.WithError(err).WithRequestID(request.RequestID).Error("failed to update mechanic stats")
	}
}

func (s *serviceRequestService) Cancel(ctx context.Context, requestID string, actor models.ActorRef, reason models.CancellationReason, comment string) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	expected := request.Status

	refundAmount := 0.0
	if request.Payment.Status == models.PaymentStatusCompleted {
		refundAmount = request.Pricing.FinalCost
		if refundAmount == 0 {
			refundAmount = request.Pricing.EstimatedCost
		}
	}

	if err := lifecycle.Cancel(request, actor, reason, comment, refundAmount, time.Now()); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithStatusGuard(ctx, request, expected); err != nil {
		return nil, err
	}

	// The gateway is only touched once the cancellation is durable. A lost
	// status race returns above without any money moving, so a retry cannot
	// double-refund.
	if refundAmount > 0 && request.Payment.TransactionID != "" {
		if s.processRefund(ctx, request, refundAmount, string(reason)) {
			if err := s.requestRepo.Save(ctx, request); err != nil {
				s.logger.WithError(err).WithRequestID(request.RequestID).Error("failed to persist refund state")
			}
		}
	}

	s.logger.LogBookingEvent(request.RequestID, "cancelled", map[string]interface{}{
		"reason":        reason,
		"refund_amount": refundAmount,
	})

	return request, nil
}

// processRefund reverses the charge at the gateway and marks the payment
// refunded in memory. Reports whether anything changed so the caller knows
// to persist.
func (s *serviceRequestService) processRefund(ctx context.Context, request *models.ServiceRequest, amount float64, reason string) bool {
	if s.refunds == nil {
		s.logger.WithRequestID(request.RequestID).Warn("no refund provider configured, refund left pending")
		return false
	}

	resp, err := s.refunds.RefundPayment(ctx, &payment.RefundRequest{
		TransactionID: request.Payment.TransactionID,
		Amount:        amount,
		Currency:      request.Pricing.Currency,
		Reason:        reason,
		Receipt:       request.RequestID,
	})
	if err != nil {
		s.logger.WithError(err).WithRequestID(request.RequestID).Error("refund failed")
		return false
	}

	now := time.Now()
	request.Payment.Status = models.PaymentStatusRefunded
	request.Payment.RefundedAt = &now
	request.Payment.RefundReason = reason
	if request.Cancellation != nil {
		request.Cancellation.RefundProcessed = true
	}

	s.logger.LogPaymentEvent(request.RequestID, "refunded_"+resp.RefundID, amount, request.Pricing.Currency)

	return true
}

func (s *serviceRequestService) AddMessage(ctx context.Context, requestID string, sender models.ActorRef, body string, kind models.MessageKind) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.AddMessage(request, uuid.New().String(), sender, utils.SanitizeString(body), kind, time.Now()); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *serviceRequestService) MarkMessagesRead(ctx context.Context, requestID string, reader models.ActorKind) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range request.Messages {
		if request.Messages[i].Sender.Kind != reader && !request.Messages[i].IsRead {
			request.Messages[i].IsRead = true
			changed = true
		}
	}
	if !changed {
		return request, nil
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *serviceRequestService) AddPart(ctx context.Context, requestID string, part models.Part) (*models.ServiceRequest, error) {
	if err := utils.ValidateStruct(&part); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, utils.ErrTerminalStatus
	}

	request.PartsUsed = append(request.PartsUsed, part)
	pricing.ApplyParts(&request.Pricing, request.PartsUsed)

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *serviceRequestService) SetLaborHours(ctx context.Context, requestID string, hours float64) (*models.ServiceRequest, error) {
	if hours < 0 {
		return nil, utils.NewValidationError("hours", "labor hours cannot be negative")
	}

	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, utils.ErrTerminalStatus
	}

	rate := models.DefaultRateCard()
	if request.MechanicID != nil {
		if mechanic, err := s.mechanicRepo.GetByID(ctx, *request.MechanicID); err == nil {
			rate = mechanic.Pricing
		}
	}

	pricing.ApplyLabor(&request.Pricing, hours, rate)

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *serviceRequestService) ApplyDiscount(ctx context.Context, requestID string, amount float64) (*models.ServiceRequest, error) {
	if amount < 0 {
		return nil, utils.NewValidationError("amount", "discount cannot be negative")
	}

	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, utils.ErrTerminalStatus
	}

	pricing.ApplyDiscount(&request.Pricing, amount)

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *serviceRequestService) MarkPaid(ctx context.Context, requestID string, method models.PaymentMethod, transactionID string) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Payment.Status == models.PaymentStatusCompleted {
		return nil, utils.NewValidationError("payment", "request is already paid")
	}

	now := time.Now()
	request.Payment.Method = method
	request.Payment.Status = models.PaymentStatusCompleted
	request.Payment.TransactionID = transactionID
	request.Payment.PaidAt = &now

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.logger.LogPaymentEvent(request.RequestID, "paid", request.Pricing.FinalCost, request.Pricing.Currency)

	return request, nil
}

func (s *serviceRequestService) RateByCustomer(ctx context.Context, requestID string, req *RateRequest) (*models.ServiceRequest, error) {
	request, err := s.rateable(ctx, requestID, req)
	if err != nil {
		return nil, err
	}
	if request.CustomerRating != nil {
		return nil, utils.NewValidationError("rating", "request is already rated")
	}

	now := time.Now()
	request.CustomerRating = &models.Rating{
		Rating:  req.Rating,
		Review:  utils.SanitizeString(req.Review),
		RatedAt: &now,
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	if request.MechanicID != nil {
		s.foldIntoMechanicRating(ctx, *request.MechanicID, req.Rating)
	}

	return request, nil
}

func (s *serviceRequestService) RateByMechanic(ctx context.Context, requestID string, req *RateRequest) (*models.ServiceRequest, error) {
	request, err := s.rateable(ctx, requestID, req)
	if err != nil {
		return nil, err
	}
	if request.MechanicRating != nil {
		return nil, utils.NewValidationError("rating", "request is already rated")
	}

	now := time.Now()
	request.MechanicRating = &models.Rating{
		Rating:  req.Rating,
		Review:  utils.SanitizeString(req.Review),
		RatedAt: &now,
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.foldIntoCustomerRating(ctx, request.CustomerID, req.Rating)

	return request, nil
}

func (s *serviceRequestService) rateable(ctx context.Context, requestID string, req *RateRequest) (*models.ServiceRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.StatusCompleted {
		return nil, utils.NewValidationError("rating", "only completed requests can be rated")
	}

	return request, nil
}

func (s *serviceRequestService) foldIntoMechanicRating(ctx context.Context, mechanicID primitive.ObjectID, stars int) {
	mechanic, err := s.mechanicRepo.GetByID(ctx, mechanicID)
	if err != nil {
		s.logger.WithError(err).WithMechanicID(mechanicID).Error("failed to load mechanic for rating update")
		return
	}

	rating := mechanic.Rating
	if rating.Breakdown == nil {
		rating.Breakdown = make(map[string]int64)
	}
	rating.Average = math.Round((rating.Average*float64(rating.Count)+float64(stars))/float64(rating.Count+1)*10) / 10
	rating.Count++
	rating.Breakdown[strconv.Itoa(stars)]++

	if err := s.mechanicRepo.UpdateRating(ctx, mechanicID, rating); err != nil {
		s.logger.WithError(err).WithMechanicID(mechanicID).Error("failed to update mechanic rating")
	}
}

func (s *serviceRequestService) foldIntoCustomerRating(ctx context.Context, customerID primitive.ObjectID, stars int) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		s.logger.WithError(err).WithCustomerID(customerID).Error("failed to load customer for rating update")
		return
	}

	summary := customer.Rating
	summary.Average = math.Round((summary.Average*float64(summary.Count)+float64(stars))/float64(summary.Count+1)*10) / 10
	summary.Count++

	if err := s.customerRepo.Update(ctx, customerID, map[string]interface{}{"rating": summary}); err != nil {
		s.logger.WithError(err).WithCustomerID(customerID).Error("failed to update customer rating")
	}
}

func (s *serviceRequestService) GetPlatformStatistics(ctx context.Context) (*interfaces.RequestStats, error) {
	return s.requestRepo.GetPlatformStatistics(ctx)
}
