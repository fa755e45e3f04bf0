package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAssigned.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestTotalDuration(t *testing.T) {
	req := &ServiceRequest{}
	assert.Equal(t, 0, req.TotalDuration())

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Minute)
	req.TimeTracking.StartedAt = &start
	req.TimeTracking.CompletedAt = &end
	assert.Equal(t, 95, req.TotalDuration())
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	req := &ServiceRequest{Status: StatusAssigned, ScheduledFor: now.Add(-time.Hour)}
	assert.True(t, req.IsOverdue(now))

	req.ScheduledFor = now.Add(time.Hour)
	assert.False(t, req.IsOverdue(now))

	// Finished work can't be overdue.
	req.Status = StatusCompleted
	req.ScheduledFor = now.Add(-time.Hour)
	assert.False(t, req.IsOverdue(now))
}

func TestUnreadMessageCount(t *testing.T) {
	req := &ServiceRequest{Messages: []Message{
		{Sender: ActorRef{Kind: ActorKindCustomer}, IsRead: false},
		{Sender: ActorRef{Kind: ActorKindCustomer}, IsRead: true},
		{Sender: ActorRef{Kind: ActorKindMechanic}, IsRead: false},
	}}

	// Two unread in total, one from each side.
	assert.Equal(t, 1, req.UnreadMessageCount(ActorKindCustomer))
	assert.Equal(t, 1, req.UnreadMessageCount(ActorKindMechanic))
}

func TestGeoPointAccessors(t *testing.T) {
	p := NewGeoPoint(77.5946, 12.9716)
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, 12.9716, p.Latitude())
	assert.Equal(t, 77.5946, p.Longitude())

	var empty GeoPoint
	assert.Equal(t, 0.0, empty.Latitude())
	assert.Equal(t, 0.0, empty.Longitude())
}
