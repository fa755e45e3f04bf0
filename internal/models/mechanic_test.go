package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeCompletionRate(t *testing.T) {
	stats := MechanicStatistics{TotalBookings: 8, CompletedBookings: 5}
	stats.RecomputeCompletionRate()
	assert.Equal(t, 63.0, stats.CompletionRate) // round(62.5)

	stats = MechanicStatistics{}
	stats.RecomputeCompletionRate()
	assert.Equal(t, 0.0, stats.CompletionRate)
}

func TestIsAvailableAt(t *testing.T) {
	mechanic := &Mechanic{Availability: DefaultAvailability()}

	assert.True(t, mechanic.IsAvailableAt(time.Monday, "09:00"))
	assert.True(t, mechanic.IsAvailableAt(time.Monday, "17:59"))
	assert.True(t, mechanic.IsAvailableAt(time.Monday, "18:00"))
	assert.False(t, mechanic.IsAvailableAt(time.Monday, "08:59"))
	assert.False(t, mechanic.IsAvailableAt(time.Monday, "18:01"))

	// Saturday closes earlier, Sunday is off entirely.
	assert.True(t, mechanic.IsAvailableAt(time.Saturday, "15:30"))
	assert.False(t, mechanic.IsAvailableAt(time.Saturday, "16:30"))
	assert.False(t, mechanic.IsAvailableAt(time.Sunday, "11:00"))
}

func TestSpecializationAndVehicleChecks(t *testing.T) {
	mechanic := &Mechanic{
		Specializations: []ServiceType{ServiceTypeBreakdown, ServiceTypeTire},
		VehicleTypes:    []VehicleType{VehicleTypeBike, VehicleTypeCar},
	}

	assert.True(t, mechanic.HasSpecialization(ServiceTypeBreakdown))
	assert.False(t, mechanic.HasSpecialization(ServiceTypeEngine))
	assert.True(t, mechanic.ServesVehicleType(VehicleTypeCar))
	assert.False(t, mechanic.ServesVehicleType(VehicleTypeTruck))
}

func TestIsValidServiceType(t *testing.T) {
	assert.True(t, IsValidServiceType(ServiceTypeOilChange))
	assert.False(t, IsValidServiceType("horse_shoeing"))
}

func TestIsValidVerificationStatus(t *testing.T) {
	assert.True(t, IsValidVerificationStatus(VerificationVerified))
	assert.False(t, IsValidVerificationStatus("maybe"))
}
