package services

import (
	"context"
	"testing"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestService(requests *fakeRequestRepo, customers *fakeCustomerRepo, mechanics *fakeMechanicRepo, refunds *fakeRefundProvider, t *testing.T) ServiceRequestService {
	if refunds == nil {
		return NewServiceRequestService(requests, customers, mechanics, nil, testLogger(t))
	}
	return NewServiceRequestService(requests, customers, mechanics, refunds, testLogger(t))
}

func breakdownLocation() models.RequestLocation {
	return models.RequestLocation{
		Point: models.NewGeoPoint(77.5946, 12.9716),
		Address: models.Address{
			AddressLine1: "4 Residency Road",
			City:         "Bengaluru",
			State:        "Karnataka",
			Pincode:      "560025",
		},
	}
}

func carInfo() models.VehicleInfo {
	return models.VehicleInfo{
		VehicleType:        models.VehicleTypeCar,
		Brand:              "Maruti",
		Model:              "Swift",
		Year:               2021,
		RegistrationNumber: "KA01AB1234",
	}
}

// mondayMorning falls inside the default weekday schedule.
var mondayMorning = time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)

func pendingRequest(customerID primitive.ObjectID) *models.ServiceRequest {
	now := time.Now()
	return &models.ServiceRequest{
		ID:                 primitive.NewObjectID(),
		RequestID:          "CR1756700000000TEST",
		CustomerID:         customerID,
		Vehicle:            carInfo(),
		ServiceType:        models.ServiceTypeBreakdown,
		ProblemDescription: "engine will not start",
		Urgency:            models.UrgencyMedium,
		Location:           breakdownLocation(),
		ScheduledFor:       mondayMorning,
		PreferredTime:      models.PreferredFlexible,
		Status:             models.StatusPending,
		TimeTracking:       models.TimeTracking{RequestedAt: now},
		Payment:            models.Payment{Status: models.PaymentStatusPending},
		Pricing: models.Pricing{
			EstimatedCost: 118,
			FinalCost:     118,
			Breakdown:     models.CostBreakdown{ServiceFee: 100, Tax: 18},
			Currency:      "INR",
		},
	}
}

func verifiedMechanic() *models.Mechanic {
	return &models.Mechanic{
		ID:              primitive.NewObjectID(),
		Name:            "Suresh Auto Works",
		Email:           "suresh@example.com",
		Phone:           "9000000001",
		Specializations: []models.ServiceType{models.ServiceTypeBreakdown, models.ServiceTypeRepair},
		VehicleTypes:    []models.VehicleType{models.VehicleTypeCar, models.VehicleTypeBike},
		BusinessAddress: models.BusinessAddress{
			AddressLine1: "12 MG Road",
			City:         "Bengaluru",
			State:        "Karnataka",
			Pincode:      "560001",
			Coordinates:  models.NewGeoPoint(77.6000, 12.9700),
		},
		Availability:       models.DefaultAvailability(),
		Pricing:            models.RateCard{BaseFee: 150, PerKmCharge: 20, HourlyRate: 300, EmergencyMultiplier: 2},
		IsActive:           true,
		IsVerified:         true,
		IsOnline:           true,
		VerificationStatus: models.VerificationVerified,
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	requests := newFakeRequestRepo()
	svc := requestService(requests, customers, newFakeMechanicRepo(), nil, t)

	request, err := svc.Create(context.Background(), customer.ID, &CreateServiceRequestRequest{
		Vehicle:            carInfo(),
		ServiceType:        models.ServiceTypeBreakdown,
		ProblemDescription: "flat tyre on the highway",
		Location:           breakdownLocation(),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^CR\d{13}[A-Z0-9]{4}$`, request.RequestID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, models.UrgencyMedium, request.Urgency)
	assert.Equal(t, models.PreferredFlexible, request.PreferredTime)
	assert.False(t, request.IsEmergency)
	assert.Equal(t, models.PaymentStatusPending, request.Payment.Status)

	// The log records transitions only, so a fresh request carries none.
	assert.Empty(t, request.StatusHistory)

	// Zero-distance estimate off the platform rate card.
	assert.Equal(t, 118.0, request.Pricing.EstimatedCost)
	assert.Equal(t, "INR", request.Pricing.Currency)

	require.Len(t, requests.created, 1)
}

func TestCreateRequestEmergencyPricing(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	svc := requestService(newFakeRequestRepo(), newFakeCustomerRepo(customer), newFakeMechanicRepo(), nil, t)

	request, err := svc.Create(context.Background(), customer.ID, &CreateServiceRequestRequest{
		Vehicle:            carInfo(),
		ServiceType:        models.ServiceTypeBreakdown,
		ProblemDescription: "stalled in the middle of the road",
		Urgency:            models.UrgencyEmergency,
		Location:           breakdownLocation(),
	})
	require.NoError(t, err)

	assert.True(t, request.IsEmergency)
	assert.Equal(t, 50.0, request.Pricing.Breakdown.EmergencyCharge)
	assert.Equal(t, 177.0, request.Pricing.EstimatedCost)
}

func TestCreateRequestInactiveCustomer(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: false}
	svc := requestService(newFakeRequestRepo(), newFakeCustomerRepo(customer), newFakeMechanicRepo(), nil, t)

	_, err := svc.Create(context.Background(), customer.ID, &CreateServiceRequestRequest{
		Vehicle:            carInfo(),
		ServiceType:        models.ServiceTypeBreakdown,
		ProblemDescription: "flat tyre",
		Location:           breakdownLocation(),
	})
	assert.ErrorIs(t, err, utils.ErrAccountInactive)
}

func TestCreateRequestUnknownServiceType(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	svc := requestService(newFakeRequestRepo(), newFakeCustomerRepo(customer), newFakeMechanicRepo(), nil, t)

	_, err := svc.Create(context.Background(), customer.ID, &CreateServiceRequestRequest{
		Vehicle:            carInfo(),
		ServiceType:        "plumbing",
		ProblemDescription: "flat tyre",
		Location:           breakdownLocation(),
	})
	assert.True(t, utils.IsValidationError(err))
}

func TestAssignMechanic(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	requests := newFakeRequestRepo(request)
	svc := requestService(requests, newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	got, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	require.NoError(t, err)

	assert.Equal(t, models.StatusAssigned, got.Status)
	require.NotNil(t, got.MechanicID)
	assert.Equal(t, mechanic.ID, *got.MechanicID)
	assert.NotNil(t, got.TimeTracking.AssignedAt)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.StatusAssigned, got.StatusHistory[0].Status)

	// MG Road to Residency Road, well under a kilometre.
	assert.InDelta(t, 0.61, got.DistanceKM, 0.1)

	// The estimate is re-priced off the mechanic's rate card.
	assert.Equal(t, 150.0, got.Pricing.Breakdown.ServiceFee)
	assert.Greater(t, got.Pricing.EstimatedCost, 150.0)

	require.Len(t, requests.guardSaves, 1)
	assert.Equal(t, models.StatusPending, requests.guardSaves[0])
}

func TestAssignMechanicUnverified(t *testing.T) {
	mechanic := verifiedMechanic()
	mechanic.IsVerified = false
	request := pendingRequest(primitive.NewObjectID())
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	_, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	assert.True(t, utils.IsValidationError(err))
}

func TestAssignMechanicWrongServiceType(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	request.ServiceType = models.ServiceTypeAC
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	_, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	assert.True(t, utils.IsValidationError(err))
}

func TestAssignMechanicOutsideSchedule(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	request.ScheduledFor = time.Date(2026, time.September, 6, 10, 0, 0, 0, time.UTC) // Sunday
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	_, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	assert.True(t, utils.IsValidationError(err))
}

func TestAssignMechanicEmergencySkipsSchedule(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	request.ScheduledFor = time.Date(2026, time.September, 6, 10, 0, 0, 0, time.UTC) // Sunday
	request.Urgency = models.UrgencyEmergency
	request.IsEmergency = true
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	got, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
}

func TestAssignMechanicStatusConflict(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	requests := newFakeRequestRepo(request)
	requests.guardErr = utils.ErrStatusConflict
	svc := requestService(requests, newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	_, err := svc.AssignMechanic(context.Background(), request.RequestID, mechanic.ID, models.AdminRef(primitive.NewObjectID()))
	assert.ErrorIs(t, err, utils.ErrStatusConflict)
}

func TestUpdateStatusCompletedSettles(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	mechanic := verifiedMechanic()
	mechanics := newFakeMechanicRepo(mechanic)

	request := pendingRequest(customer.ID)
	request.Status = models.StatusInProgress
	request.MechanicID = &mechanic.ID
	startedAt := time.Now().Add(-45 * time.Minute)
	request.TimeTracking.StartedAt = &startedAt
	request.Pricing.Breakdown = models.CostBreakdown{ServiceFee: 100, TravelFee: 50, Tax: 27}

	requests := newFakeRequestRepo(request)
	requests.mechStats = &interfaces.RequestStats{
		TotalRequests:     10,
		CompletedRequests: 6,
		CancelledRequests: 1,
		TotalEarnings:     4500,
		AvgResponseTime:   7.456,
	}
	svc := requestService(requests, customers, mechanics, nil, t)

	got, err := svc.UpdateStatus(context.Background(), request.RequestID, models.StatusCompleted, models.MechanicRef(mechanic.ID), "work done")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 177.0, got.Pricing.FinalCost)
	require.NotNil(t, got.TimeTracking.CompletedAt)
	require.NotNil(t, got.TimeTracking.ServiceTimeMin)
	assert.Equal(t, 45, *got.TimeTracking.ServiceTimeMin)

	require.Len(t, customers.increments, 1)
	assert.Equal(t, 177.0, customers.increments[0])

	require.Len(t, mechanics.stats, 1)
	assert.Equal(t, int64(10), mechanics.stats[0].TotalBookings)
	assert.Equal(t, 60.0, mechanics.stats[0].CompletionRate)
	assert.Equal(t, 7.46, mechanics.stats[0].AvgResponseTime)
}

func TestUpdateStatusFromTerminal(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusCompleted
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	_, err := svc.UpdateStatus(context.Background(), request.RequestID, models.StatusInProgress, models.AdminRef(primitive.NewObjectID()), "")
	assert.ErrorIs(t, err, utils.ErrTerminalStatus)
}

func TestCancelPaidRequestRefunds(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusAssigned
	request.Payment = models.Payment{Status: models.PaymentStatusCompleted, TransactionID: "pay_abc123", Method: models.PaymentMethodUPI}
	request.Pricing.FinalCost = 500

	refunds := &fakeRefundProvider{}
	requests := newFakeRequestRepo(request)
	svc := requestService(requests, newFakeCustomerRepo(), newFakeMechanicRepo(), refunds, t)

	got, err := svc.Cancel(context.Background(), request.RequestID, models.CustomerRef(request.CustomerID), models.CancelReasonCustomerRequested, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, got.Status)
	require.NotNil(t, got.Cancellation)
	assert.Equal(t, 500.0, got.Cancellation.RefundAmount)
	assert.True(t, got.Cancellation.RefundProcessed)
	assert.Equal(t, models.PaymentStatusRefunded, got.Payment.Status)
	assert.NotNil(t, got.Payment.RefundedAt)

	require.Len(t, refunds.requests, 1)
	assert.Equal(t, "pay_abc123", refunds.requests[0].TransactionID)
	assert.Equal(t, 500.0, refunds.requests[0].Amount)

	// The cancellation goes through the guarded save, the refund markers
	// through a follow-up plain save.
	require.Len(t, requests.guardSaves, 1)
	require.Len(t, requests.saved, 1)
	assert.True(t, requests.saved[0].Cancellation.RefundProcessed)
}

func TestCancelStatusConflictSkipsRefund(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusAssigned
	request.Payment = models.Payment{Status: models.PaymentStatusCompleted, TransactionID: "pay_abc123"}
	request.Pricing.FinalCost = 500

	refunds := &fakeRefundProvider{}
	requests := newFakeRequestRepo(request)
	requests.guardErr = utils.ErrStatusConflict
	svc := requestService(requests, newFakeCustomerRepo(), newFakeMechanicRepo(), refunds, t)

	_, err := svc.Cancel(context.Background(), request.RequestID, models.CustomerRef(request.CustomerID), models.CancelReasonCustomerRequested, "")
	assert.ErrorIs(t, err, utils.ErrStatusConflict)

	// A lost race must not reach the gateway, otherwise a retry refunds twice.
	assert.Empty(t, refunds.requests)
	assert.Empty(t, requests.saved)
}

func TestCancelUnpaidRequestSkipsRefund(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())

	refunds := &fakeRefundProvider{}
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), refunds, t)

	got, err := svc.Cancel(context.Background(), request.RequestID, models.CustomerRef(request.CustomerID), models.CancelReasonCustomerRequested, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Zero(t, got.Cancellation.RefundAmount)
	assert.Empty(t, refunds.requests)
}

func TestCancelWithoutProviderLeavesRefundPending(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusAssigned
	request.Payment = models.Payment{Status: models.PaymentStatusCompleted, TransactionID: "pay_abc123"}
	request.Pricing.FinalCost = 500

	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.Cancel(context.Background(), request.RequestID, models.CustomerRef(request.CustomerID), models.CancelReasonCustomerRequested, "")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, got.Payment.Status)
	assert.False(t, got.Cancellation.RefundProcessed)
	assert.Equal(t, 500.0, got.Cancellation.RefundAmount)
}

func TestAddMessageSanitizesBody(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	requests := newFakeRequestRepo(request)
	svc := requestService(requests, newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.AddMessage(context.Background(), request.RequestID, models.CustomerRef(request.CustomerID), "<b>reached yet?</b>", models.MessageKindText)
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "reached yet?", got.Messages[0].Body)
	assert.NotEmpty(t, got.Messages[0].ID)
	require.Len(t, requests.saved, 1)
}

func TestMarkMessagesRead(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	mechanicID := primitive.NewObjectID()
	request.Messages = []models.Message{
		{ID: "m1", Sender: models.MechanicRef(mechanicID), Body: "on my way", Kind: models.MessageKindText},
		{ID: "m2", Sender: models.CustomerRef(request.CustomerID), Body: "ok", Kind: models.MessageKindText},
	}
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.MarkMessagesRead(context.Background(), request.RequestID, models.ActorKindCustomer)
	require.NoError(t, err)

	assert.True(t, got.Messages[0].IsRead, "mechanic's message is marked read")
	assert.False(t, got.Messages[1].IsRead, "own message is untouched")
	assert.Zero(t, got.UnreadMessageCount(models.ActorKindCustomer))
}

func TestAddPartUpdatesFinalCost(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.AddPart(context.Background(), request.RequestID, models.Part{
		Name:       "Brake pad set",
		Quantity:   2,
		UnitPrice:  175,
		TotalPrice: 350,
	})
	require.NoError(t, err)

	assert.Equal(t, 350.0, got.Pricing.Breakdown.PartsCost)
	assert.Equal(t, 468.0, got.Pricing.FinalCost)
	assert.Equal(t, 118.0, got.Pricing.EstimatedCost, "the upfront estimate never moves")
}

func TestAddPartTerminalRequest(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusCancelled
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	_, err := svc.AddPart(context.Background(), request.RequestID, models.Part{Name: "Brake pad set", Quantity: 1, UnitPrice: 175, TotalPrice: 175})
	assert.ErrorIs(t, err, utils.ErrTerminalStatus)
}

func TestSetLaborHoursUsesMechanicRate(t *testing.T) {
	mechanic := verifiedMechanic()
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusInProgress
	request.MechanicID = &mechanic.ID
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(mechanic), nil, t)

	got, err := svc.SetLaborHours(context.Background(), request.RequestID, 1.5)
	require.NoError(t, err)

	assert.Equal(t, 450.0, got.Pricing.Breakdown.LaborCost, "1.5h at the mechanic's 300/h rate")
}

func TestSetLaborHoursNegative(t *testing.T) {
	svc := requestService(newFakeRequestRepo(), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	_, err := svc.SetLaborHours(context.Background(), "CRX", -1)
	assert.True(t, utils.IsValidationError(err))
}

func TestApplyDiscount(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.ApplyDiscount(context.Background(), request.RequestID, 30)
	require.NoError(t, err)

	assert.Equal(t, 30.0, got.Pricing.Breakdown.Discount)
	assert.Equal(t, 88.0, got.Pricing.FinalCost)
}

func TestMarkPaidTwiceRejected(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	got, err := svc.MarkPaid(context.Background(), request.RequestID, models.PaymentMethodUPI, "txn_001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, got.Payment.Status)
	assert.Equal(t, "txn_001", got.Payment.TransactionID)
	assert.NotNil(t, got.Payment.PaidAt)

	_, err = svc.MarkPaid(context.Background(), request.RequestID, models.PaymentMethodUPI, "txn_002")
	assert.True(t, utils.IsValidationError(err))
}

func TestRateByCustomerFoldsMechanicRating(t *testing.T) {
	mechanic := verifiedMechanic()
	mechanic.Rating = models.MechanicRating{Average: 4.0, Count: 4}
	mechanics := newFakeMechanicRepo(mechanic)

	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusCompleted
	request.MechanicID = &mechanic.ID
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), mechanics, nil, t)

	got, err := svc.RateByCustomer(context.Background(), request.RequestID, &RateRequest{Rating: 5, Review: "quick and tidy"})
	require.NoError(t, err)

	require.NotNil(t, got.CustomerRating)
	assert.Equal(t, 5, got.CustomerRating.Rating)

	require.Len(t, mechanics.ratings, 1)
	assert.Equal(t, 4.2, mechanics.ratings[0].Average)
	assert.Equal(t, int64(5), mechanics.ratings[0].Count)
	assert.Equal(t, int64(1), mechanics.ratings[0].Breakdown["5"])
}

func TestRateByCustomerTwiceRejected(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	request.Status = models.StatusCompleted
	now := time.Now()
	request.CustomerRating = &models.Rating{Rating: 4, RatedAt: &now}
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	_, err := svc.RateByCustomer(context.Background(), request.RequestID, &RateRequest{Rating: 5})
	assert.True(t, utils.IsValidationError(err))
}

func TestRateRequiresCompletedRequest(t *testing.T) {
	request := pendingRequest(primitive.NewObjectID())
	svc := requestService(newFakeRequestRepo(request), newFakeCustomerRepo(), newFakeMechanicRepo(), nil, t)

	_, err := svc.RateByCustomer(context.Background(), request.RequestID, &RateRequest{Rating: 5})
	assert.True(t, utils.IsValidationError(err))
}

func TestRateByMechanicFoldsCustomerRating(t *testing.T) {
	customer := &models.Customer{
		Name:   "Ravi Kumar",
		Email:  "ravi@example.com",
		Phone:  "9876543210",
		Rating: models.RatingSummary{Average: 3.0, Count: 2},
	}
	customers := newFakeCustomerRepo(customer)

	request := pendingRequest(customer.ID)
	request.Status = models.StatusCompleted
	svc := requestService(newFakeRequestRepo(request), customers, newFakeMechanicRepo(), nil, t)

	got, err := svc.RateByMechanic(context.Background(), request.RequestID, &RateRequest{Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, got.MechanicRating)

	require.Len(t, customers.updates, 1)
	summary, ok := customers.updates[0]["rating"].(models.RatingSummary)
	require.True(t, ok)
	assert.Equal(t, 3.3, summary.Average)
	assert.Equal(t, int64(3), summary.Count)
}
