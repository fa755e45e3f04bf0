package utils

import "time"

// Application Constants
const (
	AppName    = "MechSeva"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 6
	PasswordMaxLength  = 128
	BcryptCost         = 12
	MaxLoginAttempts   = 5
	AccountLockTime    = 2 * time.Hour
	ResetTokenExpiry   = 10 * time.Minute

	// Search Constants
	DefaultSearchRadiusKM = 10.0
	MaxSearchRadiusKM     = 50.0
	MaxNearbyResults      = 50

	// Request Constants
	RequestIDPrefix          = "CR"
	MaxProblemDescriptionLen = 500
	MaxMessageLength         = 1000
	MaxPartsPerRequest       = 50

	// Pricing Constants
	DefaultBaseFee             = 100.0
	DefaultPerKmCharge         = 10.0
	DefaultHourlyRate          = 200.0
	DefaultEmergencyMultiplier = 1.5
	TaxRate                    = 0.18

	// Rating Constants
	MinRating = 1
	MaxRating = 5

	// Geo
	EarthRadiusKM = 6371.0
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
