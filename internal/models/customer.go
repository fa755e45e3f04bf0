package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func IsValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type NotificationPrefs struct {
	Email bool `json:"email" bson:"email"`
	SMS   bool `json:"sms" bson:"sms"`
	Push  bool `json:"push" bson:"push"`
}

type CustomerPreferences struct {
	Language      string            `json:"language" bson:"language"`
	Notifications NotificationPrefs `json:"notifications" bson:"notifications"`
	Currency      string            `json:"currency" bson:"currency"`
}

type RatingSummary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

type Customer struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone" validate:"required,indian_phone"`
	Password     string             `json:"-" bson:"password"`
	ProfileImage string             `json:"profile_image" bson:"profile_image"`
	DateOfBirth  *time.Time         `json:"date_of_birth" bson:"date_of_birth"`
	Gender       Gender             `json:"gender" bson:"gender"`

	Addresses []Address `json:"addresses" bson:"addresses"`
	Vehicles  []Vehicle `json:"vehicles" bson:"vehicles"`

	IsActive      bool `json:"is_active" bson:"is_active"`
	IsVerified    bool `json:"is_verified" bson:"is_verified"`
	EmailVerified bool `json:"email_verified" bson:"email_verified"`
	PhoneVerified bool `json:"phone_verified" bson:"phone_verified"`

	Preferences CustomerPreferences `json:"preferences" bson:"preferences"`
	Rating      RatingSummary       `json:"rating" bson:"rating"`

	TotalBookings int64   `json:"total_bookings" bson:"total_bookings"`
	TotalSpent    float64 `json:"total_spent" bson:"total_spent"`

	LastLoginAt         *time.Time `json:"last_login_at" bson:"last_login_at"`
	LoginAttempts       int        `json:"-" bson:"login_attempts"`
	LockUntil           *time.Time `json:"-" bson:"lock_until"`
	ResetPasswordToken  string     `json:"-" bson:"reset_password_token"`
	ResetPasswordExpire *time.Time `json:"-" bson:"reset_password_expire"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsLocked reports whether the lockout window is still open.
func (c *Customer) IsLocked(now time.Time) bool {
	return c.LockUntil != nil && c.LockUntil.After(now)
}

func (c *Customer) Age(now time.Time) int {
	if c.DateOfBirth == nil {
		return 0
	}

	age := now.Year() - c.DateOfBirth.Year()
	if now.YearDay() < c.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// DefaultAddress returns the address marked default, if any.
func (c *Customer) DefaultAddress() *Address {
	for i := range c.Addresses {
		if c.Addresses[i].IsDefault {
			return &c.Addresses[i]
		}
	}
	return nil
}

// NormalizeAddresses restores the at-most-one-default invariant before a
// save: with no default the first address wins, with several only the
// earliest-added keeps the flag.
func NormalizeAddresses(addresses []Address) []Address {
	if len(addresses) == 0 {
		return addresses
	}

	defaults := 0
	for i := range addresses {
		if addresses[i].IsDefault {
			defaults++
		}
	}

	switch {
	case defaults == 0:
		addresses[0].IsDefault = true
	case defaults > 1:
		seen := false
		for i := range addresses {
			if addresses[i].IsDefault {
				if seen {
					addresses[i].IsDefault = false
				}
				seen = true
			}
		}
	}

	return addresses
}
