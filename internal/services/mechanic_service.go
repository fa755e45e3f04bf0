package services

import (
	"context"
	"math"

	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"
	"mechseva/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateMechanicProfileRequest struct {
	Name            string                  `json:"name" validate:"omitempty,min=2,max=100"`
	ProfileImage    string                  `json:"profile_image"`
	ExperienceYears *int                    `json:"experience_years" validate:"omitempty,min=0"`
	Specializations []models.ServiceType    `json:"specializations"`
	VehicleTypes    []models.VehicleType    `json:"vehicle_types"`
	BusinessName    string                  `json:"business_name"`
	BusinessType    models.BusinessType     `json:"business_type"`
	BusinessAddress *models.BusinessAddress `json:"business_address"`
	ServiceAreas    []models.ServiceArea    `json:"service_areas"`
}

type SubmitDocumentsRequest struct {
	Aadhaar        *models.DocumentRecord `json:"aadhaar"`
	PAN            *models.DocumentRecord `json:"pan"`
	DrivingLicense *models.DocumentRecord `json:"driving_license"`
}

// MechanicService manages mechanic profiles, availability, pricing,
// verification and discovery.
type MechanicService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *UpdateMechanicProfileRequest) (*models.Mechanic, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	SetOnline(ctx context.Context, id primitive.ObjectID, isOnline bool) error
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability models.WeeklyAvailability) error
	UpdateRateCard(ctx context.Context, id primitive.ObjectID, rateCard models.RateCard) error

	SubmitDocuments(ctx context.Context, id primitive.ObjectID, req *SubmitDocumentsRequest) error
	SetVerificationStatus(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error

	FindNearby(ctx context.Context, lat, lng, radiusKM float64) ([]*models.Mechanic, error)
	FindAvailableForService(ctx context.Context, serviceType models.ServiceType, vehicleType models.VehicleType, lat, lng, radiusKM float64) ([]*models.Mechanic, error)
	GetTopRated(ctx context.Context, limit int) ([]*models.Mechanic, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Mechanic, int64, error)

	RefreshStatistics(ctx context.Context, id primitive.ObjectID) (*models.MechanicStatistics, error)
}

type mechanicService struct {
	mechanicRepo interfaces.MechanicRepository
	requestRepo  interfaces.ServiceRequestRepository
	logger       *logger.Logger
}

func NewMechanicService(
	mechanicRepo interfaces.MechanicRepository,
	requestRepo interfaces.ServiceRequestRepository,
	log *logger.Logger,
) MechanicService {
	return &mechanicService{
		mechanicRepo: mechanicRepo,
		requestRepo:  requestRepo,
		logger:       log,
	}
}

func (s *mechanicService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, error) {
	return s.mechanicRepo.GetByID(ctx, id)
}

func (s *mechanicService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *UpdateMechanicProfileRequest) (*models.Mechanic, error) {
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
	if req.ExperienceYears != nil {
		updates["experience_years"] = *req.ExperienceYears
	}
	if len(req.Specializations) > 0 {
		for _, st := range req.Specializations {
			if !models.IsValidServiceType(st) {
				return nil, utils.NewValidationError("specializations", "unknown service type")
			}
		}
		updates["specializations"] = req.Specializations
	}
	if len(req.VehicleTypes) > 0 {
		for _, vt := range req.VehicleTypes {
			if !models.IsValidVehicleType(vt) {
				return nil, utils.NewValidationError("vehicle_types", "unknown vehicle type")
			}
		}
		updates["vehicle_types"] = req.VehicleTypes
	}
	if req.BusinessName != "" {
		updates["business_name"] = utils.SanitizeString(req.BusinessName)
	}
	if req.BusinessType != "" {
		updates["business_type"] = req.BusinessType
	}
	if req.BusinessAddress != nil {
		if err := utils.ValidateStruct(req.BusinessAddress); err != nil {
			return nil, err
		}
		updates["business_address"] = req.BusinessAddress
	}
	if req.ServiceAreas != nil {
		updates["service_areas"] = req.ServiceAreas
	}

	if len(updates) > 0 {
		if err := s.mechanicRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.mechanicRepo.GetByID(ctx, id)
}

func (s *mechanicService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.mechanicRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.WithMechanicID(id).Info("mechanic account deactivated")
	return nil
}

func (s *mechanicService) SetOnline(ctx context.Context, id primitive.ObjectID, isOnline bool) error {
	return s.mechanicRepo.UpdateOnlineStatus(ctx, id, isOnline)
}

func (s *mechanicService) UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability models.WeeklyAvailability) error {
	if err := utils.ValidateStruct(&availability); err != nil {
		return err
	}
	return s.mechanicRepo.UpdateAvailability(ctx, id, availability)
}

func (s *mechanicService) UpdateRateCard(ctx context.Context, id primitive.ObjectID, rateCard models.RateCard) error {
	if rateCard.BaseFee < 0 || rateCard.PerKmCharge < 0 || rateCard.HourlyRate < 0 {
		return utils.NewValidationError("pricing", "fees cannot be negative")
	}
	if rateCard.EmergencyMultiplier < 1 {
		return utils.NewValidationError("pricing", "emergency multiplier cannot be below 1")
	}
	return s.mechanicRepo.UpdateRateCard(ctx, id, rateCard)
}

func (s *mechanicService) SubmitDocuments(ctx context.Context, id primitive.ObjectID, req *SubmitDocumentsRequest) error {
	mechanic, err := s.mechanicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	docs := mechanic.Documents
	if req.Aadhaar != nil {
		if !utils.IsValidAadhaar(req.Aadhaar.Number) {
			return utils.NewValidationError("aadhaar", "not a valid aadhaar number")
		}
		req.Aadhaar.Verified = false
		docs.Aadhaar = *req.Aadhaar
	}
	if req.PAN != nil {
		if !utils.IsValidPAN(req.PAN.Number) {
			return utils.NewValidationError("pan", "not a valid PAN")
		}
		req.PAN.Verified = false
		docs.PAN = *req.PAN
	}
	if req.DrivingLicense != nil {
		req.DrivingLicense.Verified = false
		docs.DrivingLicense = *req.DrivingLicense
	}

	// A fresh document submission puts the account back in review.
	if err := s.mechanicRepo.Update(ctx, id, map[string]interface{}{
		"documents":           docs,
		"verification_status": models.VerificationPending,
		"is_verified":         false,
	}); err != nil {
		return err
	}

	s.logger.WithMechanicID(id).Info("verification documents submitted")
	return nil
}

func (s *mechanicService) SetVerificationStatus(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error {
	if !models.IsValidVerificationStatus(status) {
		return utils.NewValidationError("verification_status", "unknown verification status")
	}
	if err := s.mechanicRepo.UpdateVerification(ctx, id, status); err != nil {
		return err
	}
	s.logger.WithMechanicID(id).WithField("status", status).Info("verification status updated")
	return nil
}

func (s *mechanicService) FindNearby(ctx context.Context, lat, lng, radiusKM float64) ([]*models.Mechanic, error) {
	if radiusKM <= 0 {
		radiusKM = utils.DefaultSearchRadiusKM
	}
	return s.mechanicRepo.FindNearLocation(ctx, lng, lat, radiusKM*1000)
}

func (s *mechanicService) FindAvailableForService(ctx context.Context, serviceType models.ServiceType, vehicleType models.VehicleType, lat, lng, radiusKM float64) ([]*models.Mechanic, error) {
	if !models.IsValidServiceType(serviceType) {
		return nil, utils.NewValidationError("service_type", "unknown service type")
	}
	if !models.IsValidVehicleType(vehicleType) {
		return nil, utils.NewValidationError("vehicle_type", "unknown vehicle type")
	}
	if radiusKM <= 0 {
		radiusKM = utils.DefaultSearchRadiusKM
	}
	return s.mechanicRepo.FindAvailableForService(ctx, serviceType, vehicleType, lng, lat, radiusKM*1000)
}

func (s *mechanicService) GetTopRated(ctx context.Context, limit int) ([]*models.Mechanic, error) {
	if limit <= 0 || limit > utils.MaxNearbyResults {
		limit = 10
	}
	return s.mechanicRepo.GetTopRated(ctx, limit)
}

func (s *mechanicService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	return s.mechanicRepo.List(ctx, params)
}

// RefreshStatistics recomputes the mechanic's aggregate numbers from the
// service_requests collection and writes them back onto the profile.
func (s *mechanicService) RefreshStatistics(ctx context.Context, id primitive.ObjectID) (*models.MechanicStatistics, error) {
	requestStats, err := s.requestRepo.GetMechanicStatistics(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := models.MechanicStatistics{
		TotalBookings:     requestStats.TotalRequests,
		CompletedBookings: requestStats.CompletedRequests,
		CancelledBookings: requestStats.CancelledRequests,
		TotalEarnings:     requestStats.TotalEarnings,
		AvgResponseTime:   math.Round(requestStats.AvgResponseTime*100) / 100,
	}
	stats.RecomputeCompletionRate()

	if err := s.mechanicRepo.UpdateStatistics(ctx, id, stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
