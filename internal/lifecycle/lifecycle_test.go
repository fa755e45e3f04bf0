package lifecycle

import (
	"testing"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRequest(status models.RequestStatus) *models.ServiceRequest {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &models.ServiceRequest{
		RequestID:    "CR17100000000001AB2C",
		CustomerID:   primitive.NewObjectID(),
		Status:       status,
		TimeTracking: models.TimeTracking{RequestedAt: now},
	}
}

func TestCanTransitionForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(models.StatusPending, models.StatusAssigned))
	assert.True(t, CanTransition(models.StatusAssigned, models.StatusAccepted))
	assert.True(t, CanTransition(models.StatusAccepted, models.StatusOnTheWay))
	assert.True(t, CanTransition(models.StatusOnTheWay, models.StatusInProgress))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusCompleted))

	// Skipping ahead is allowed, moving backwards is not.
	assert.True(t, CanTransition(models.StatusPending, models.StatusCompleted))
	assert.False(t, CanTransition(models.StatusAccepted, models.StatusAssigned))
	assert.False(t, CanTransition(models.StatusInProgress, models.StatusPending))
	assert.False(t, CanTransition(models.StatusAssigned, models.StatusAssigned))
}

func TestCanTransitionTerminalStates(t *testing.T) {
	for _, terminal := range []models.RequestStatus{models.StatusCompleted, models.StatusCancelled, models.StatusRejected} {
		for _, to := range []models.RequestStatus{
			models.StatusPending, models.StatusAssigned, models.StatusAccepted,
			models.StatusOnTheWay, models.StatusInProgress, models.StatusCompleted,
			models.StatusCancelled, models.StatusRejected,
		} {
			assert.False(t, CanTransition(terminal, to), "%s -> %s should be rejected", terminal, to)
		}
	}

	// Cancellation and rejection are reachable from any non-terminal state.
	for _, from := range []models.RequestStatus{
		models.StatusPending, models.StatusAssigned, models.StatusAccepted,
		models.StatusOnTheWay, models.StatusInProgress,
	} {
		assert.True(t, CanTransition(from, models.StatusCancelled))
		assert.True(t, CanTransition(from, models.StatusRejected))
	}
}

func TestTransitionAppendsExactlyOneHistoryEntry(t *testing.T) {
	req := newRequest(models.StatusPending)
	actor := models.MechanicRef(primitive.NewObjectID())

	// Creation itself leaves the log empty; after N transitions it holds
	// exactly N entries.
	require.Empty(t, req.StatusHistory)

	steps := []models.RequestStatus{
		models.StatusAssigned, models.StatusAccepted, models.StatusOnTheWay,
		models.StatusInProgress, models.StatusCompleted,
	}
	for i, status := range steps {
		now := time.Date(2026, 3, 14, 10+i+1, 0, 0, 0, time.UTC)
		require.NoError(t, Transition(req, status, actor, "", now))
		assert.Len(t, req.StatusHistory, i+1)
	}

	// History timestamps are monotonically non-decreasing.
	for i := 1; i < len(req.StatusHistory); i++ {
		assert.False(t, req.StatusHistory[i].Timestamp.Before(req.StatusHistory[i-1].Timestamp))
	}
}

func TestTransitionFromTerminalFails(t *testing.T) {
	req := newRequest(models.StatusCompleted)
	err := Transition(req, models.StatusCancelled, models.AdminRef(primitive.NewObjectID()), "", time.Now())
	assert.ErrorIs(t, err, utils.ErrTerminalStatus)
	assert.Empty(t, req.StatusHistory)
}

func TestTransitionRejectsBackwardMove(t *testing.T) {
	req := newRequest(models.StatusInProgress)
	err := Transition(req, models.StatusAccepted, models.MechanicRef(primitive.NewObjectID()), "", time.Now())
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestTransitionStampsDurations(t *testing.T) {
	req := newRequest(models.StatusPending)
	actor := models.MechanicRef(primitive.NewObjectID())

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, Transition(req, models.StatusAssigned, actor, "", base))
	require.NoError(t, Transition(req, models.StatusAccepted, actor, "", base.Add(3*time.Minute)))
	require.NoError(t, Transition(req, models.StatusInProgress, actor, "", base.Add(20*time.Minute)))
	require.NoError(t, Transition(req, models.StatusCompleted, actor, "", base.Add(65*time.Minute)))

	require.NotNil(t, req.TimeTracking.ResponseTimeMin)
	assert.Equal(t, 3, *req.TimeTracking.ResponseTimeMin)
	require.NotNil(t, req.TimeTracking.ArrivalTimeMin)
	assert.Equal(t, 17, *req.TimeTracking.ArrivalTimeMin)
	require.NotNil(t, req.TimeTracking.ServiceTimeMin)
	assert.Equal(t, 45, *req.TimeTracking.ServiceTimeMin)
}

func TestTransitionSkipLeavesDurationsUnset(t *testing.T) {
	req := newRequest(models.StatusPending)
	actor := models.MechanicRef(primitive.NewObjectID())

	// Straight from pending to accepted: no assignment timestamp exists,
	// so no response time can be derived.
	require.NoError(t, Transition(req, models.StatusAccepted, actor, "", time.Now()))
	assert.Nil(t, req.TimeTracking.ResponseTimeMin)
	assert.NotNil(t, req.TimeTracking.AcceptedAt)
}

func TestTransitionUnknownStatus(t *testing.T) {
	req := newRequest(models.StatusPending)
	err := Transition(req, "vanished", models.AdminRef(primitive.NewObjectID()), "", time.Now())
	assert.True(t, utils.IsValidationError(err))
}

func TestAddMessage(t *testing.T) {
	req := newRequest(models.StatusAccepted)
	sender := models.CustomerRef(primitive.NewObjectID())
	now := time.Now()

	require.NoError(t, AddMessage(req, "msg-1", sender, "Where are you?", "", now))
	require.Len(t, req.Messages, 1)
	assert.Equal(t, models.MessageKindText, req.Messages[0].Kind)
	assert.False(t, req.Messages[0].IsRead)
	assert.Equal(t, "msg-1", req.Messages[0].ID)

	err := AddMessage(req, "msg-2", sender, "", models.MessageKindText, now)
	assert.True(t, utils.IsValidationError(err))
	assert.Len(t, req.Messages, 1)
}

func TestCancelRecordsCancellation(t *testing.T) {
	req := newRequest(models.StatusAssigned)
	actor := models.CustomerRef(req.CustomerID)
	now := time.Now()

	require.NoError(t, Cancel(req, actor, models.CancelReasonCustomerRequested, "changed plans", 150, now))

	assert.Equal(t, models.StatusCancelled, req.Status)
	require.NotNil(t, req.Cancellation)
	assert.Equal(t, models.CancelReasonCustomerRequested, req.Cancellation.Reason)
	assert.Equal(t, 150.0, req.Cancellation.RefundAmount)
	assert.False(t, req.Cancellation.RefundProcessed)
	assert.NotNil(t, req.TimeTracking.CancelledAt)
}

func TestCancelUnknownReason(t *testing.T) {
	req := newRequest(models.StatusPending)
	err := Cancel(req, models.CustomerRef(req.CustomerID), "felt_like_it", "", 0, time.Now())
	assert.True(t, utils.IsValidationError(err))
	assert.Equal(t, models.StatusPending, req.Status)
}
