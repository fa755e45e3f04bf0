package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddressesNoDefault(t *testing.T) {
	addresses := NormalizeAddresses([]Address{
		{AddressLine1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
		{AddressLine1: "4 Park Street", City: "Kolkata", Pincode: "700016"},
	})

	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)
}

func TestNormalizeAddressesMultipleDefaults(t *testing.T) {
	addresses := NormalizeAddresses([]Address{
		{AddressLine1: "12 MG Road", City: "Bengaluru", Pincode: "560001", IsDefault: true},
		{AddressLine1: "4 Park Street", City: "Kolkata", Pincode: "700016", IsDefault: true},
		{AddressLine1: "9 Anna Salai", City: "Chennai", Pincode: "600002", IsDefault: true},
	})

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, addresses[0].IsDefault, "earliest default keeps the flag")
}

func TestNormalizeAddressesEmpty(t *testing.T) {
	assert.Empty(t, NormalizeAddresses(nil))
}

func TestDefaultAddress(t *testing.T) {
	customer := &Customer{Addresses: []Address{
		{AddressLine1: "12 MG Road", City: "Bengaluru"},
		{AddressLine1: "4 Park Street", City: "Kolkata", IsDefault: true},
	}}

	addr := customer.DefaultAddress()
	require.NotNil(t, addr)
	assert.Equal(t, "Kolkata", addr.City)

	assert.Nil(t, (&Customer{}).DefaultAddress())
}

func TestCustomerIsLocked(t *testing.T) {
	now := time.Now()

	assert.False(t, (&Customer{}).IsLocked(now))

	past := now.Add(-time.Minute)
	assert.False(t, (&Customer{LockUntil: &past}).IsLocked(now))

	future := now.Add(time.Hour)
	assert.True(t, (&Customer{LockUntil: &future}).IsLocked(now))
}

func TestCustomerAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, (&Customer{}).Age(now))

	dob := time.Date(1990, 9, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 35, (&Customer{DateOfBirth: &dob}).Age(now), "birthday tomorrow")

	dob2 := time.Date(1990, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 36, (&Customer{DateOfBirth: &dob2}).Age(now), "birthday yesterday")
}

func TestIsValidGender(t *testing.T) {
	assert.True(t, IsValidGender(GenderFemale))
	assert.False(t, IsValidGender("unspecified"))
}
