package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceType string
type BusinessType string
type VerificationStatus string

const (
	ServiceTypeBreakdown    ServiceType = "breakdown"
	ServiceTypeMaintenance  ServiceType = "maintenance"
	ServiceTypeRepair       ServiceType = "repair"
	ServiceTypeInspection   ServiceType = "inspection"
	ServiceTypeOilChange    ServiceType = "oil_change"
	ServiceTypeTire         ServiceType = "tire_service"
	ServiceTypeBattery      ServiceType = "battery_service"
	ServiceTypeBrake        ServiceType = "brake_service"
	ServiceTypeAC           ServiceType = "ac_service"
	ServiceTypeEngine       ServiceType = "engine_service"
	ServiceTypeElectrical   ServiceType = "electrical_service"
	ServiceTypeTransmission ServiceType = "transmission_service"

	BusinessTypeIndividual  BusinessType = "individual"
	BusinessTypePartnership BusinessType = "partnership"
	BusinessTypeCompany     BusinessType = "company"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// BusinessAddress anchors the mechanic's service-area geometry.
type BusinessAddress struct {
	AddressLine1 string   `json:"address_line1" bson:"address_line1" validate:"required"`
	AddressLine2 string   `json:"address_line2" bson:"address_line2"`
	City         string   `json:"city" bson:"city" validate:"required"`
	State        string   `json:"state" bson:"state" validate:"required"`
	Pincode      string   `json:"pincode" bson:"pincode" validate:"required,pincode"`
	Coordinates  GeoPoint `json:"coordinates" bson:"coordinates" validate:"required"`
}

type ServiceArea struct {
	City     string  `json:"city" bson:"city"`
	Pincode  string  `json:"pincode" bson:"pincode"`
	RadiusKM float64 `json:"radius_km" bson:"radius_km"`
}

type DaySchedule struct {
	IsAvailable bool   `json:"is_available" bson:"is_available"`
	StartTime   string `json:"start_time" bson:"start_time" validate:"omitempty,time_of_day"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"omitempty,time_of_day"`
}

type WeeklyAvailability struct {
	Monday    DaySchedule `json:"monday" bson:"monday"`
	Tuesday   DaySchedule `json:"tuesday" bson:"tuesday"`
	Wednesday DaySchedule `json:"wednesday" bson:"wednesday"`
	Thursday  DaySchedule `json:"thursday" bson:"thursday"`
	Friday    DaySchedule `json:"friday" bson:"friday"`
	Saturday  DaySchedule `json:"saturday" bson:"saturday"`
	Sunday    DaySchedule `json:"sunday" bson:"sunday"`
}

// RateCard drives the pricing calculator.
type RateCard struct {
	BaseFee             float64 `json:"base_fee" bson:"base_fee"`
	PerKmCharge         float64 `json:"per_km_charge" bson:"per_km_charge"`
	HourlyRate          float64 `json:"hourly_rate" bson:"hourly_rate"`
	EmergencyMultiplier float64 `json:"emergency_multiplier" bson:"emergency_multiplier"`
}

type MechanicRating struct {
	Average   float64          `json:"average" bson:"average"`
	Count     int64            `json:"count" bson:"count"`
	Breakdown map[string]int64 `json:"breakdown" bson:"breakdown"`
}

// MechanicStatistics are derived counters; CompletionRate is recomputed on
// every mutation and never written independently.
type MechanicStatistics struct {
	TotalBookings     int64   `json:"total_bookings" bson:"total_bookings"`
	CompletedBookings int64   `json:"completed_bookings" bson:"completed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings" bson:"cancelled_bookings"`
	TotalEarnings     float64 `json:"total_earnings" bson:"total_earnings"`
	AvgResponseTime   float64 `json:"avg_response_time" bson:"avg_response_time"`
	CompletionRate    float64 `json:"completion_rate" bson:"completion_rate"`
}

type DocumentRecord struct {
	Number   string `json:"number" bson:"number"`
	Image    string `json:"image" bson:"image"`
	Verified bool   `json:"verified" bson:"verified"`
}

type MechanicDocuments struct {
	Aadhaar        DocumentRecord `json:"aadhaar" bson:"aadhaar"`
	PAN            DocumentRecord `json:"pan" bson:"pan"`
	DrivingLicense DocumentRecord `json:"driving_license" bson:"driving_license"`
}

type Mechanic struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone" validate:"required,indian_phone"`
	Password     string             `json:"-" bson:"password"`
	ProfileImage string             `json:"profile_image" bson:"profile_image"`
	DateOfBirth  *time.Time         `json:"date_of_birth" bson:"date_of_birth"`
	Gender       Gender             `json:"gender" bson:"gender"`

	ExperienceYears int           `json:"experience_years" bson:"experience_years" validate:"min=0"`
	Specializations []ServiceType `json:"specializations" bson:"specializations" validate:"required,min=1"`
	VehicleTypes    []VehicleType `json:"vehicle_types" bson:"vehicle_types" validate:"required,min=1"`

	BusinessName    string          `json:"business_name" bson:"business_name"`
	BusinessType    BusinessType    `json:"business_type" bson:"business_type"`
	BusinessAddress BusinessAddress `json:"business_address" bson:"business_address" validate:"required"`
	ServiceAreas    []ServiceArea   `json:"service_areas" bson:"service_areas"`

	Availability WeeklyAvailability `json:"availability" bson:"availability"`
	Pricing      RateCard           `json:"pricing" bson:"pricing"`
	Rating       MechanicRating     `json:"rating" bson:"rating"`
	Statistics   MechanicStatistics `json:"statistics" bson:"statistics"`
	Documents    MechanicDocuments  `json:"documents" bson:"documents"`

	IsActive           bool               `json:"is_active" bson:"is_active"`
	IsVerified         bool               `json:"is_verified" bson:"is_verified"`
	IsOnline           bool               `json:"is_online" bson:"is_online"`
	VerificationStatus VerificationStatus `json:"verification_status" bson:"verification_status"`

	LastLoginAt         *time.Time `json:"last_login_at" bson:"last_login_at"`
	LoginAttempts       int        `json:"-" bson:"login_attempts"`
	LockUntil           *time.Time `json:"-" bson:"lock_until"`
	ResetPasswordToken  string     `json:"-" bson:"reset_password_token"`
	ResetPasswordExpire *time.Time `json:"-" bson:"reset_password_expire"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (m *Mechanic) IsLocked(now time.Time) bool {
	return m.LockUntil != nil && m.LockUntil.After(now)
}

// RecomputeCompletionRate rederives the completion percentage from the raw
// counters. Must run after every statistics mutation.
func (s *MechanicStatistics) RecomputeCompletionRate() {
	if s.TotalBookings <= 0 {
		s.CompletionRate = 0
		return
	}
	s.CompletionRate = math.Round(float64(s.CompletedBookings) / float64(s.TotalBookings) * 100)
}

func (m *Mechanic) CompletionRatePercentage() int {
	if m.Statistics.TotalBookings == 0 {
		return 0
	}
	return int(math.Round(float64(m.Statistics.CompletedBookings) / float64(m.Statistics.TotalBookings) * 100))
}

// IsAvailableAt checks the weekly table for a given weekday and "HH:MM"
// time. String comparison works because the format is zero-padded 24h.
func (m *Mechanic) IsAvailableAt(day time.Weekday, timeOfDay string) bool {
	schedule := m.scheduleFor(day)
	if !schedule.IsAvailable {
		return false
	}

	check := strings.ReplaceAll(timeOfDay, ":", "")
	start := strings.ReplaceAll(schedule.StartTime, ":", "")
	end := strings.ReplaceAll(schedule.EndTime, ":", "")

	return check >= start && check <= end
}

func (m *Mechanic) scheduleFor(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return m.Availability.Monday
	case time.Tuesday:
		return m.Availability.Tuesday
	case time.Wednesday:
		return m.Availability.Wednesday
	case time.Thursday:
		return m.Availability.Thursday
	case time.Friday:
		return m.Availability.Friday
	case time.Saturday:
		return m.Availability.Saturday
	default:
		return m.Availability.Sunday
	}
}

func (m *Mechanic) HasSpecialization(serviceType ServiceType) bool {
	for _, s := range m.Specializations {
		if s == serviceType {
			return true
		}
	}
	return false
}

func (m *Mechanic) ServesVehicleType(vehicleType VehicleType) bool {
	for _, v := range m.VehicleTypes {
		if v == vehicleType {
			return true
		}
	}
	return false
}

// DefaultAvailability is the schedule applied at registration: weekdays
// 09:00-18:00, Saturday until 16:00, Sunday off.
func DefaultAvailability() WeeklyAvailability {
	weekday := DaySchedule{IsAvailable: true, StartTime: "09:00", EndTime: "18:00"}

	return WeeklyAvailability{
		Monday:    weekday,
		Tuesday:   weekday,
		Wednesday: weekday,
		Thursday:  weekday,
		Friday:    weekday,
		Saturday:  DaySchedule{IsAvailable: true, StartTime: "09:00", EndTime: "16:00"},
		Sunday:    DaySchedule{IsAvailable: false, StartTime: "10:00", EndTime: "14:00"},
	}
}

// DefaultRateCard mirrors the platform fallbacks used by the pricing
// calculator.
func DefaultRateCard() RateCard {
	return RateCard{
		BaseFee:             100,
		PerKmCharge:         10,
		HourlyRate:          200,
		EmergencyMultiplier: 1.5,
	}
}

func IsValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

func IsValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceTypeBreakdown, ServiceTypeMaintenance, ServiceTypeRepair,
		ServiceTypeInspection, ServiceTypeOilChange, ServiceTypeTire,
		ServiceTypeBattery, ServiceTypeBrake, ServiceTypeAC,
		ServiceTypeEngine, ServiceTypeElectrical, ServiceTypeTransmission:
		return true
	}
	return false
}
