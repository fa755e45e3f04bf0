package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string
type Urgency string
type PreferredTime string
type PaymentMethod string
type PaymentStatus string
type MessageKind string
type CancellationReason string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusAccepted   RequestStatus = "accepted"
	StatusOnTheWay   RequestStatus = "on_the_way"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
	StatusRejected   RequestStatus = "rejected"

	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"

	PreferredMorning   PreferredTime = "morning"
	PreferredAfternoon PreferredTime = "afternoon"
	PreferredEvening   PreferredTime = "evening"
	PreferredFlexible  PreferredTime = "flexible"

	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindLocation MessageKind = "location"

	CancelReasonCustomerRequested   CancellationReason = "customer_requested"
	CancelReasonMechanicUnavailable CancellationReason = "mechanic_unavailable"
	CancelReasonWeather             CancellationReason = "weather_conditions"
	CancelReasonVehicleMoved        CancellationReason = "vehicle_moved"
	CancelReasonPaymentIssue        CancellationReason = "payment_issue"
	CancelReasonEmergency           CancellationReason = "emergency"
	CancelReasonOther               CancellationReason = "other"
)

// StatusChange is one append-only audit entry in the status history.
type StatusChange struct {
	Status    RequestStatus `json:"status" bson:"status"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	UpdatedBy ActorRef      `json:"updated_by" bson:"updated_by"`
	Comment   string        `json:"comment,omitempty" bson:"comment,omitempty"`
}

type CostBreakdown struct {
	ServiceFee      float64 `json:"service_fee" bson:"service_fee"`
	TravelFee       float64 `json:"travel_fee" bson:"travel_fee"`
	PartsCost       float64 `json:"parts_cost" bson:"parts_cost"`
	LaborCost       float64 `json:"labor_cost" bson:"labor_cost"`
	EmergencyCharge float64 `json:"emergency_charge" bson:"emergency_charge"`
	Tax             float64 `json:"tax" bson:"tax"`
	Discount        float64 `json:"discount" bson:"discount"`
}

type Pricing struct {
	EstimatedCost float64       `json:"estimated_cost" bson:"estimated_cost"`
	FinalCost     float64       `json:"final_cost" bson:"final_cost"`
	Breakdown     CostBreakdown `json:"breakdown" bson:"breakdown"`
	Currency      string        `json:"currency" bson:"currency"`
}

type Payment struct {
	Method        PaymentMethod `json:"method" bson:"method"`
	Status        PaymentStatus `json:"status" bson:"status"`
	TransactionID string        `json:"transaction_id" bson:"transaction_id"`
	PaidAt        *time.Time    `json:"paid_at" bson:"paid_at"`
	RefundedAt    *time.Time    `json:"refunded_at" bson:"refunded_at"`
	RefundReason  string        `json:"refund_reason" bson:"refund_reason"`
}

// TimeTracking carries one timestamp per lifecycle milestone plus the three
// derived minute durations. Durations stay nil until both endpoints exist.
type TimeTracking struct {
	RequestedAt time.Time  `json:"requested_at" bson:"requested_at"`
	AssignedAt  *time.Time `json:"assigned_at" bson:"assigned_at"`
	AcceptedAt  *time.Time `json:"accepted_at" bson:"accepted_at"`
	ArrivedAt   *time.Time `json:"arrived_at" bson:"arrived_at"`
	StartedAt   *time.Time `json:"started_at" bson:"started_at"`
	CompletedAt *time.Time `json:"completed_at" bson:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at" bson:"cancelled_at"`

	ResponseTimeMin *int `json:"response_time_min" bson:"response_time_min"`
	ArrivalTimeMin  *int `json:"arrival_time_min" bson:"arrival_time_min"`
	ServiceTimeMin  *int `json:"service_time_min" bson:"service_time_min"`
}

type MediaFiles struct {
	BeforeService []string `json:"before_service" bson:"before_service"`
	AfterService  []string `json:"after_service" bson:"after_service"`
	Documents     []string `json:"documents" bson:"documents"`
}

type PartWarranty struct {
	DurationMonths int    `json:"duration_months" bson:"duration_months"`
	Terms          string `json:"terms" bson:"terms"`
}

// Part line totals are caller-supplied, never recomputed from quantity and
// unit price.
type Part struct {
	Name       string        `json:"name" bson:"name" validate:"required"`
	Quantity   int           `json:"quantity" bson:"quantity" validate:"required,min=1"`
	UnitPrice  float64       `json:"unit_price" bson:"unit_price" validate:"required"`
	TotalPrice float64       `json:"total_price" bson:"total_price" validate:"required"`
	Warranty   *PartWarranty `json:"warranty,omitempty" bson:"warranty,omitempty"`
}

type Rating struct {
	Rating  int        `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Review  string     `json:"review" bson:"review"`
	RatedAt *time.Time `json:"rated_at" bson:"rated_at"`
}

type Message struct {
	ID        string      `json:"id" bson:"id"`
	Sender    ActorRef    `json:"sender" bson:"sender"`
	Body      string      `json:"body" bson:"body" validate:"required,max=1000"`
	Kind      MessageKind `json:"kind" bson:"kind"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	IsRead    bool        `json:"is_read" bson:"is_read"`
}

type Cancellation struct {
	CancelledBy     ActorRef           `json:"cancelled_by" bson:"cancelled_by"`
	Reason          CancellationReason `json:"reason" bson:"reason"`
	Comment         string             `json:"comment" bson:"comment"`
	CancelledAt     time.Time          `json:"cancelled_at" bson:"cancelled_at"`
	RefundAmount    float64            `json:"refund_amount" bson:"refund_amount"`
	RefundProcessed bool               `json:"refund_processed" bson:"refund_processed"`
}

type FollowUp struct {
	Required      bool       `json:"required" bson:"required"`
	ScheduledDate *time.Time `json:"scheduled_date" bson:"scheduled_date"`
	Completed     bool       `json:"completed" bson:"completed"`
	Notes         string     `json:"notes" bson:"notes"`
}

type ServiceRequest struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RequestID  string              `json:"request_id" bson:"request_id" validate:"required"`
	CustomerID primitive.ObjectID  `json:"customer_id" bson:"customer_id" validate:"required"`
	MechanicID *primitive.ObjectID `json:"mechanic_id" bson:"mechanic_id"`

	Vehicle            VehicleInfo `json:"vehicle" bson:"vehicle" validate:"required"`
	ServiceType        ServiceType `json:"service_type" bson:"service_type" validate:"required"`
	ProblemDescription string      `json:"problem_description" bson:"problem_description" validate:"required,max=500"`
	Urgency            Urgency     `json:"urgency" bson:"urgency"`

	Location RequestLocation `json:"location" bson:"location" validate:"required"`

	ScheduledFor  time.Time     `json:"scheduled_for" bson:"scheduled_for"`
	PreferredTime PreferredTime `json:"preferred_time" bson:"preferred_time"`
	IsEmergency   bool          `json:"is_emergency" bson:"is_emergency"`

	Status        RequestStatus  `json:"status" bson:"status"`
	StatusHistory []StatusChange `json:"status_history" bson:"status_history"`

	Pricing      Pricing      `json:"pricing" bson:"pricing"`
	Payment      Payment      `json:"payment" bson:"payment"`
	TimeTracking TimeTracking `json:"time_tracking" bson:"time_tracking"`

	Images    MediaFiles `json:"images" bson:"images"`
	PartsUsed []Part     `json:"parts_used" bson:"parts_used"`

	CustomerRating *Rating `json:"customer_rating,omitempty" bson:"customer_rating,omitempty"`
	MechanicRating *Rating `json:"mechanic_rating,omitempty" bson:"mechanic_rating,omitempty"`

	Messages     []Message     `json:"messages" bson:"messages"`
	Cancellation *Cancellation `json:"cancellation,omitempty" bson:"cancellation,omitempty"`

	SpecialInstructions string   `json:"special_instructions" bson:"special_instructions"`
	DistanceKM          float64  `json:"distance_km" bson:"distance_km"`
	FollowUp            FollowUp `json:"follow_up" bson:"follow_up"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the status accepts no further transitions.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

func IsValidRequestStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusAccepted, StatusOnTheWay,
		StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

func IsValidCancellationReason(r CancellationReason) bool {
	switch r {
	case CancelReasonCustomerRequested, CancelReasonMechanicUnavailable,
		CancelReasonWeather, CancelReasonVehicleMoved,
		CancelReasonPaymentIssue, CancelReasonEmergency, CancelReasonOther:
		return true
	}
	return false
}

// TotalDuration is the wall-clock service span in minutes, zero until the
// request completes.
func (r *ServiceRequest) TotalDuration() int {
	if r.TimeTracking.CompletedAt == nil || r.TimeTracking.StartedAt == nil {
		return 0
	}
	return int(math.Round(r.TimeTracking.CompletedAt.Sub(*r.TimeTracking.StartedAt).Minutes()))
}

func (r *ServiceRequest) IsOverdue(now time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}
	return now.After(r.ScheduledFor)
}

func (r *ServiceRequest) UnreadMessageCount(forKind ActorKind) int {
	count := 0
	for i := range r.Messages {
		if !r.Messages[i].IsRead && r.Messages[i].Sender.Kind != forKind {
			count++
		}
	}
	return count
}
