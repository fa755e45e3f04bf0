package services

import (
	"context"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"
	"mechseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateCustomerProfileRequest struct {
	Name         string                      `json:"name" validate:"omitempty,min=2,max=100"`
	ProfileImage string                      `json:"profile_image"`
	DateOfBirth  *time.Time                  `json:"date_of_birth"`
	Gender       models.Gender               `json:"gender"`
	Preferences  *models.CustomerPreferences `json:"preferences"`
}

// CustomerService manages customer profiles, their address book and
// vehicle garage.
type CustomerService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *UpdateCustomerProfileRequest) (*models.Customer, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	AddAddress(ctx context.Context, id primitive.ObjectID, address models.Address) (*models.Customer, error)
	UpdateAddress(ctx context.Context, id primitive.ObjectID, index int, address models.Address) (*models.Customer, error)
	RemoveAddress(ctx context.Context, id primitive.ObjectID, index int) (*models.Customer, error)

	AddVehicle(ctx context.Context, id primitive.ObjectID, vehicle models.Vehicle) (*models.Customer, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, index int, vehicle models.Vehicle) (*models.Customer, error)
	RemoveVehicle(ctx context.Context, id primitive.ObjectID, index int) (*models.Customer, error)

	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Customer, int64, error)
	GetStatistics(ctx context.Context) (*interfaces.CustomerStats, error)
}

type customerService struct {
	customerRepo interfaces.CustomerRepository
	logger       *logger.Logger
}

func NewCustomerService(customerRepo interfaces.CustomerRepository, log *logger.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       log,
	}
}

func (s *customerService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *UpdateCustomerProfileRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = utils.SanitizeString(req.Name)
	}
	if req.ProfileImage != "" {
		updates["profile_image"] = req.ProfileImage
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = req.DateOfBirth
	}
	if req.Gender != "" {
		if !models.IsValidGender(req.Gender) {
			return nil, utils.NewValidationError("gender", "must be one of male, female, other")
		}
		updates["gender"] = req.Gender
	}
	if req.Preferences != nil {
		updates["preferences"] = req.Preferences
	}

	if len(updates) > 0 {
		if err := s.customerRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.customerRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.WithCustomerID(id).Info("customer account deactivated")
	return nil
}

func (s *customerService) AddAddress(ctx context.Context, id primitive.ObjectID, address models.Address) (*models.Customer, error) {
	if err := utils.ValidateStruct(&address); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	addresses := models.NormalizeAddresses(append(customer.Addresses, address))
	if err := s.customerRepo.UpdateAddresses(ctx, id, addresses); err != nil {
		return nil, err
	}

	customer.Addresses = addresses
	return customer, nil
}

func (s *customerService) UpdateAddress(ctx context.Context, id primitive.ObjectID, index int, address models.Address) (*models.Customer, error) {
	if err := utils.ValidateStruct(&address); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(customer.Addresses) {
		return nil, utils.NewValidationError("address", "no address at that position")
	}

	customer.Addresses[index] = address
	addresses := models.NormalizeAddresses(customer.Addresses)
	if err := s.customerRepo.UpdateAddresses(ctx, id, addresses); err != nil {
		return nil, err
	}

	customer.Addresses = addresses
	return customer, nil
}

func (s *customerService) RemoveAddress(ctx context.Context, id primitive.ObjectID, index int) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(customer.Addresses) {
		return nil, utils.NewValidationError("address", "no address at that position")
	}

	addresses := models.NormalizeAddresses(append(customer.Addresses[:index], customer.Addresses[index+1:]...))
	if err := s.customerRepo.UpdateAddresses(ctx, id, addresses); err != nil {
		return nil, err
	}

	customer.Addresses = addresses
	return customer, nil
}

func (s *customerService) AddVehicle(ctx context.Context, id primitive.ObjectID, vehicle models.Vehicle) (*models.Customer, error) {
	if err := utils.ValidateStruct(&vehicle); err != nil {
		return nil, err
	}
	if !models.IsValidVehicleType(vehicle.VehicleType) {
		return nil, utils.NewValidationError("vehicle_type", "must be one of bike, car, auto, truck")
	}
	if !utils.IsValidRegistrationNumber(vehicle.RegistrationNumber) {
		return nil, utils.NewValidationError("registration_number", "not a valid registration number")
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.IsActive = true
	vehicles := append(customer.Vehicles, vehicle)
	if err := s.customerRepo.UpdateVehicles(ctx, id, vehicles); err != nil {
		return nil, err
	}

	customer.Vehicles = vehicles
	return customer, nil
}

func (s *customerService) UpdateVehicle(ctx context.Context, id primitive.ObjectID, index int, vehicle models.Vehicle) (*models.Customer, error) {
	if err := utils.ValidateStruct(&vehicle); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(customer.Vehicles) {
		return nil, utils.NewValidationError("vehicle", "no vehicle at that position")
	}

	customer.Vehicles[index] = vehicle
	if err := s.customerRepo.UpdateVehicles(ctx, id, customer.Vehicles); err != nil {
		return nil, err
	}

	return customer, nil
}

func (s *customerService) RemoveVehicle(ctx context.Context, id primitive.ObjectID, index int) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(customer.Vehicles) {
		return nil, utils.NewValidationError("vehicle", "no vehicle at that position")
	}

	vehicles := append(customer.Vehicles[:index], customer.Vehicles[index+1:]...)
	if err := s.customerRepo.UpdateVehicles(ctx, id, vehicles); err != nil {
		return nil, err
	}

	customer.Vehicles = vehicles
	return customer, nil
}

func (s *customerService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Customer, int64, error) {
	return s.customerRepo.List(ctx, params)
}

func (s *customerService) GetStatistics(ctx context.Context) (*interfaces.CustomerStats, error) {
	return s.customerRepo.GetStatistics(ctx)
}
