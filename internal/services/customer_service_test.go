package services

import (
	"context"
	"testing"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeAddress() models.Address {
	return models.Address{
		Type:         models.AddressTypeHome,
		AddressLine1: "221 Koramangala 4th Block",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560034",
	}
}

func swiftVehicle() models.Vehicle {
	return models.Vehicle{
		VehicleType:        models.VehicleTypeCar,
		Brand:              "Maruti",
		Model:              "Swift",
		Year:               2021,
		RegistrationNumber: "KA01AB1234",
		FuelType:           models.FuelTypePetrol,
	}
}

func TestUpdateProfileRejectsUnknownGender(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	svc := NewCustomerService(newFakeCustomerRepo(customer), testLogger(t))

	_, err := svc.UpdateProfile(context.Background(), customer.ID, &UpdateCustomerProfileRequest{Gender: "unknown"})
	assert.True(t, utils.IsValidationError(err))
}

func TestUpdateProfileSanitizesName(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	_, err := svc.UpdateProfile(context.Background(), customer.ID, &UpdateCustomerProfileRequest{Name: "<b>Ravi K</b>"})
	require.NoError(t, err)

	require.Len(t, customers.updates, 1)
	assert.Equal(t, "Ravi K", customers.updates[0]["name"])
}

func TestAddFirstAddressBecomesDefault(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	got, err := svc.AddAddress(context.Background(), customer.ID, homeAddress())
	require.NoError(t, err)

	require.Len(t, got.Addresses, 1)
	assert.True(t, got.Addresses[0].IsDefault)
	require.Len(t, customers.addressWrites, 1)
}

func TestAddAddressKeepsSingleDefault(t *testing.T) {
	first := homeAddress()
	first.IsDefault = true
	customer := &models.Customer{
		Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true,
		Addresses: []models.Address{first},
	}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	second := homeAddress()
	second.Type = models.AddressTypeWork
	second.AddressLine1 = "Tower B, Embassy Tech Village"
	second.IsDefault = true

	got, err := svc.AddAddress(context.Background(), customer.ID, second)
	require.NoError(t, err)

	require.Len(t, got.Addresses, 2)
	assert.True(t, got.Addresses[0].IsDefault, "the earlier default wins")
	assert.False(t, got.Addresses[1].IsDefault)
}

func TestRemoveAddressOutOfRange(t *testing.T) {
	customer := &models.Customer{
		Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true,
		Addresses: []models.Address{homeAddress()},
	}
	svc := NewCustomerService(newFakeCustomerRepo(customer), testLogger(t))

	_, err := svc.RemoveAddress(context.Background(), customer.ID, 3)
	assert.True(t, utils.IsValidationError(err))
}

func TestAddVehicle(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	got, err := svc.AddVehicle(context.Background(), customer.ID, swiftVehicle())
	require.NoError(t, err)

	require.Len(t, got.Vehicles, 1)
	assert.True(t, got.Vehicles[0].IsActive)
	require.Len(t, customers.vehicleWrites, 1)
}

func TestAddVehicleBadRegistration(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	svc := NewCustomerService(newFakeCustomerRepo(customer), testLogger(t))

	vehicle := swiftVehicle()
	vehicle.RegistrationNumber = "NOT-A-PLATE"

	_, err := svc.AddVehicle(context.Background(), customer.ID, vehicle)
	assert.True(t, utils.IsValidationError(err))
}

func TestRemoveVehicle(t *testing.T) {
	customer := &models.Customer{
		Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true,
		Vehicles: []models.Vehicle{swiftVehicle()},
	}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	got, err := svc.RemoveVehicle(context.Background(), customer.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Vehicles)
}

func TestDeactivate(t *testing.T) {
	customer := &models.Customer{Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "9876543210", IsActive: true}
	customers := newFakeCustomerRepo(customer)
	svc := NewCustomerService(customers, testLogger(t))

	require.NoError(t, svc.Deactivate(context.Background(), customer.ID))
	require.Len(t, customers.deactivated, 1)
	assert.Equal(t, customer.ID, customers.deactivated[0])
}
