// Package lifecycle implements the service-request state machine as pure
// functions over the plain request struct. Persistence happens in the
// service layer after a transition is applied.
package lifecycle

import (
	"fmt"
	"math"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/utils"
)

// statusRank orders the forward chain. Cancelled and rejected sit outside
// the chain and are reachable from any non-terminal state.
var statusRank = map[models.RequestStatus]int{
	models.StatusPending:    0,
	models.StatusAssigned:   1,
	models.StatusAccepted:   2,
	models.StatusOnTheWay:   3,
	models.StatusInProgress: 4,
	models.StatusCompleted:  5,
}

// CanTransition reports whether a move from one status to another is legal:
// strictly forward along the chain, or out to cancelled/rejected.
func CanTransition(from, to models.RequestStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == models.StatusCancelled || to == models.StatusRejected {
		return true
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}

	return toRank > fromRank
}

// Transition moves the request to a new status, appending exactly one
// history entry and stamping the milestone timestamps. Derived durations
// are computed only when both endpoints are present.
func Transition(req *models.ServiceRequest, newStatus models.RequestStatus, actor models.ActorRef, comment string, now time.Time) error {
	if !models.IsValidRequestStatus(newStatus) {
		return utils.NewValidationError("status", fmt.Sprintf("unknown status %q", newStatus))
	}
	if !models.IsValidActorKind(actor.Kind) {
		return utils.NewValidationError("actor", fmt.Sprintf("unknown actor kind %q", actor.Kind))
	}
	if req.Status.IsTerminal() {
		return fmt.Errorf("cannot leave %s: %w", req.Status, utils.ErrTerminalStatus)
	}
	if !CanTransition(req.Status, newStatus) {
		return fmt.Errorf("%s -> %s: %w", req.Status, newStatus, utils.ErrInvalidTransition)
	}

	req.Status = newStatus
	req.StatusHistory = append(req.StatusHistory, models.StatusChange{
		Status:    newStatus,
		Timestamp: now,
		UpdatedBy: actor,
		Comment:   comment,
	})

	stampMilestone(&req.TimeTracking, newStatus, now)
	req.UpdatedAt = now

	return nil
}

func stampMilestone(tt *models.TimeTracking, status models.RequestStatus, now time.Time) {
	switch status {
	case models.StatusAssigned:
		tt.AssignedAt = &now
	case models.StatusAccepted:
		tt.AcceptedAt = &now
		if tt.AssignedAt != nil {
			tt.ResponseTimeMin = minutesBetween(*tt.AssignedAt, now)
		}
	case models.StatusOnTheWay:
		// Status is tracked in history only.
	case models.StatusInProgress:
		tt.ArrivedAt = &now
		tt.StartedAt = &now
		if tt.AcceptedAt != nil {
			tt.ArrivalTimeMin = minutesBetween(*tt.AcceptedAt, now)
		}
	case models.StatusCompleted:
		tt.CompletedAt = &now
		if tt.StartedAt != nil {
			tt.ServiceTimeMin = minutesBetween(*tt.StartedAt, now)
		}
	case models.StatusCancelled:
		tt.CancelledAt = &now
	}
}

func minutesBetween(from, to time.Time) *int {
	minutes := int(math.Round(to.Sub(from).Minutes()))
	return &minutes
}

// AddMessage appends to the request thread with a server-assigned timestamp
// and unread flag. Delivery beyond storage is not this package's concern.
func AddMessage(req *models.ServiceRequest, id string, sender models.ActorRef, body string, kind models.MessageKind, now time.Time) error {
	if body == "" {
		return utils.NewValidationError("body", "message body is required")
	}
	if len(body) > utils.MaxMessageLength {
		return utils.NewValidationError("body", fmt.Sprintf("message exceeds %d characters", utils.MaxMessageLength))
	}
	if !models.IsValidActorKind(sender.Kind) {
		return utils.NewValidationError("sender", fmt.Sprintf("unknown actor kind %q", sender.Kind))
	}

	if kind == "" {
		kind = models.MessageKindText
	}

	req.Messages = append(req.Messages, models.Message{
		ID:        id,
		Sender:    sender,
		Body:      body,
		Kind:      kind,
		Timestamp: now,
		IsRead:    false,
	})
	req.UpdatedAt = now

	return nil
}

// Cancel records the cancellation sub-record and drives the status
// transition in one step.
func Cancel(req *models.ServiceRequest, actor models.ActorRef, reason models.CancellationReason, comment string, refundAmount float64, now time.Time) error {
	if !models.IsValidCancellationReason(reason) {
		return utils.NewValidationError("reason", fmt.Sprintf("unknown cancellation reason %q", reason))
	}

	if err := Transition(req, models.StatusCancelled, actor, comment, now); err != nil {
		return err
	}

	req.Cancellation = &models.Cancellation{
		CancelledBy:     actor,
		Reason:          reason,
		Comment:         comment,
		CancelledAt:     now,
		RefundAmount:    refundAmount,
		RefundProcessed: false,
	}

	return nil
}
