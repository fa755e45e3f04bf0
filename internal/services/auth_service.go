package services

import (
	"context"
	"fmt"
	"time"

	"mechseva/internal/config"
	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"
	"mechseva/pkg/logger"
)

// RegisterCustomerRequest carries the signup payload for a customer account.
type RegisterCustomerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,indian_phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterMechanicRequest struct {
	Name            string                 `json:"name" validate:"required,min=2,max=100"`
	Email           string                 `json:"email" validate:"required,email"`
	Phone           string                 `json:"phone" validate:"required,indian_phone"`
	Password        string                 `json:"password" validate:"required,min=6"`
	ExperienceYears int                    `json:"experience_years" validate:"min=0"`
	Specializations []models.ServiceType   `json:"specializations" validate:"required,min=1"`
	VehicleTypes    []models.VehicleType   `json:"vehicle_types" validate:"required,min=1"`
	BusinessName    string                 `json:"business_name"`
	BusinessType    models.BusinessType    `json:"business_type"`
	BusinessAddress models.BusinessAddress `json:"business_address" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles signup, login with lockout, token refresh and
// password resets for both account kinds.
type AuthService interface {
	RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*models.Customer, *utils.TokenPair, error)
	RegisterMechanic(ctx context.Context, req *RegisterMechanicRequest) (*models.Mechanic, *utils.TokenPair, error)
	LoginCustomer(ctx context.Context, req *LoginRequest) (*models.Customer, *utils.TokenPair, error)
	LoginMechanic(ctx context.Context, req *LoginRequest) (*models.Mechanic, *utils.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type authService struct {
	customerRepo interfaces.CustomerRepository
	mechanicRepo interfaces.MechanicRepository
	config       *config.SecurityConfig
	logger       *logger.Logger
}

func NewAuthService(
	customerRepo interfaces.CustomerRepository,
	mechanicRepo interfaces.MechanicRepository,
	cfg *config.SecurityConfig,
	log *logger.Logger,
) AuthService {
	return &authService{
		customerRepo: customerRepo,
		mechanicRepo: mechanicRepo,
		config:       cfg,
		logger:       log,
	}
}

func (s *authService) RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*models.Customer, *utils.TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		Name:     utils.SanitizeString(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashed,
		IsActive: true,
		Preferences: models.CustomerPreferences{
			Language: utils.DefaultLanguage,
			Currency: utils.DefaultCurrency,
			Notifications: models.NotificationPrefs{
				Email: true,
				SMS:   true,
				Push:  true,
			},
		},
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, nil, err
	}

	tokens, err := utils.GenerateTokenPair(customer.ID, string(models.ActorKindCustomer), customer.Phone, s.config.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithCustomerID(customer.ID).Info("customer registered")

	return customer, tokens, nil
}

func (s *authService) RegisterMechanic(ctx context.Context, req *RegisterMechanicRequest) (*models.Mechanic, *utils.TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	for _, st := range req.Specializations {
		if !models.IsValidServiceType(st) {
			return nil, nil, utils.NewValidationError("specializations", fmt.Sprintf("unknown service type %q", st))
		}
	}
	for _, vt := range req.VehicleTypes {
		if !models.IsValidVehicleType(vt) {
			return nil, nil, utils.NewValidationError("vehicle_types", fmt.Sprintf("unknown vehicle type %q", vt))
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	mechanic := &models.Mechanic{
		Name:               utils.SanitizeString(req.Name),
		Email:              req.Email,
		Phone:              req.Phone,
		Password:           hashed,
		ExperienceYears:    req.ExperienceYears,
		Specializations:    req.Specializations,
		VehicleTypes:       req.VehicleTypes,
		BusinessName:       utils.SanitizeString(req.BusinessName),
		BusinessType:       req.BusinessType,
		BusinessAddress:    req.BusinessAddress,
		Availability:       models.DefaultAvailability(),
		Pricing:            models.DefaultRateCard(),
		IsActive:           true,
		VerificationStatus: models.VerificationPending,
	}
	if mechanic.BusinessType == "" {
		mechanic.BusinessType = models.BusinessTypeIndividual
	}

	if err := s.mechanicRepo.Create(ctx, mechanic); err != nil {
		return nil, nil, err
	}

	tokens, err := utils.GenerateTokenPair(mechanic.ID, string(models.ActorKindMechanic), mechanic.Phone, s.config.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithMechanicID(mechanic.ID).Info("mechanic registered")

	return mechanic, tokens, nil
}

func (s *authService) LoginCustomer(ctx context.Context, req *LoginRequest) (*models.Customer, *utils.TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error as a wrong password, the caller cannot probe for
		// registered emails.
		return nil, nil, utils.ErrInvalidCredentials
	}

	if err := s.checkAccount(customer.IsActive, customer.IsLocked(time.Now())); err != nil {
		return nil, nil, err
	}

	if !utils.CheckPassword(req.Password, customer.Password) {
		s.recordCustomerFailure(ctx, customer)
		return nil, nil, utils.ErrInvalidCredentials
	}

	if err := s.customerRepo.ResetLoginAttempts(ctx, customer.ID); err != nil {
		return nil, nil, err
	}
	if err := s.customerRepo.UpdateLastLogin(ctx, customer.ID); err != nil {
		return nil, nil, err
	}

	tokens, err := utils.GenerateTokenPair(customer.ID, string(models.ActorKindCustomer), customer.Phone, s.config.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithCustomerID(customer.ID).Info("customer logged in")

	return customer, tokens, nil
}

func (s *authService) LoginMechanic(ctx context.Context, req *LoginRequest) (*models.Mechanic, *utils.TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	mechanic, err := s.mechanicRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, utils.ErrInvalidCredentials
	}

	if err := s.checkAccount(mechanic.IsActive, mechanic.IsLocked(time.Now())); err != nil {
		return nil, nil, err
	}

	if !utils.CheckPassword(req.Password, mechanic.Password) {
		s.recordMechanicFailure(ctx, mechanic)
		return nil, nil, utils.ErrInvalidCredentials
	}

	if err := s.mechanicRepo.ResetLoginAttempts(ctx, mechanic.ID); err != nil {
		return nil, nil, err
	}
	if err := s.mechanicRepo.UpdateLastLogin(ctx, mechanic.ID); err != nil {
		return nil, nil, err
	}

	tokens, err := utils.GenerateTokenPair(mechanic.ID, string(models.ActorKindMechanic), mechanic.Phone, s.config.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithMechanicID(mechanic.ID).Info("mechanic logged in")

	return mechanic, tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	tokens, err := utils.RefreshAccessToken(refreshToken, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return tokens, nil
}

// RequestPasswordReset issues a single-use reset token for a customer
// account. Only the hash is stored, the raw token goes out to the
// delivery channel.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	raw, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(utils.ResetTokenExpiry)
	if err := s.customerRepo.SetResetToken(ctx, customer.ID, hashed, expiresAt); err != nil {
		return "", err
	}

	s.logger.WithCustomerID(customer.ID).Info("password reset requested")

	return raw, nil
}

func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 6 {
		return utils.NewValidationError("password", "must be at least 6 characters")
	}

	customer, err := s.customerRepo.GetByResetToken(ctx, utils.HashResetToken(rawToken))
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.customerRepo.Update(ctx, customer.ID, map[string]interface{}{
		"password":              hashed,
		"reset_password_token":  "",
		"reset_password_expire": nil,
	})
	if err != nil {
		return err
	}

	if err := s.customerRepo.ResetLoginAttempts(ctx, customer.ID); err != nil {
		return err
	}

	s.logger.WithCustomerID(customer.ID).Info("password reset completed")

	return nil
}

func (s *authService) checkAccount(isActive, isLocked bool) error {
	if isLocked {
		return utils.ErrAccountLocked
	}
	if !isActive {
		return utils.ErrAccountInactive
	}
	return nil
}

func (s *authService) recordCustomerFailure(ctx context.Context, customer *models.Customer) {
	lockUntil := s.lockDeadline(customer.LoginAttempts)
	if err := s.customerRepo.RecordFailedLogin(ctx, customer.ID, lockUntil); err != nil {
		s.logger.WithError(err).WithCustomerID(customer.ID).Error("failed to record login failure")
	}
}

func (s *authService) recordMechanicFailure(ctx context.Context, mechanic *models.Mechanic) {
	lockUntil := s.lockDeadline(mechanic.LoginAttempts)
	if err := s.mechanicRepo.RecordFailedLogin(ctx, mechanic.ID, lockUntil); err != nil {
		s.logger.WithError(err).WithMechanicID(mechanic.ID).Error("failed to record login failure")
	}
}

// lockDeadline returns the lock expiry when this failure crosses the
// attempt threshold, nil otherwise.
func (s *authService) lockDeadline(priorAttempts int) *time.Time {
	if priorAttempts+1 < s.config.MaxLoginAttempts {
		return nil
	}
	deadline := time.Now().Add(s.config.LoginLockoutTime)
	return &deadline
}
