package models

type VehicleType string
type FuelType string

const (
	VehicleTypeBike  VehicleType = "bike"
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeAuto  VehicleType = "auto"
	VehicleTypeTruck VehicleType = "truck"

	FuelTypePetrol   FuelType = "petrol"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeElectric FuelType = "electric"
	FuelTypeCNG      FuelType = "cng"
)

// Vehicle is an entry in a customer's garage.
type Vehicle struct {
	VehicleType        VehicleType `json:"vehicle_type" bson:"vehicle_type" validate:"required"`
	Brand              string      `json:"brand" bson:"brand" validate:"required"`
	Model              string      `json:"model" bson:"model" validate:"required"`
	Year               int         `json:"year" bson:"year" validate:"required,min=1990"`
	RegistrationNumber string      `json:"registration_number" bson:"registration_number" validate:"required"`
	FuelType           FuelType    `json:"fuel_type" bson:"fuel_type" validate:"required"`
	IsActive           bool        `json:"is_active" bson:"is_active"`
}

// VehicleInfo is the snapshot embedded in a service request at creation
// time; later edits to the customer's garage do not rewrite history.
type VehicleInfo struct {
	VehicleType        VehicleType `json:"vehicle_type" bson:"vehicle_type" validate:"required"`
	Brand              string      `json:"brand" bson:"brand" validate:"required"`
	Model              string      `json:"model" bson:"model" validate:"required"`
	Year               int         `json:"year" bson:"year"`
	RegistrationNumber string      `json:"registration_number" bson:"registration_number" validate:"required"`
	FuelType           FuelType    `json:"fuel_type" bson:"fuel_type"`
}

func IsValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTypeBike, VehicleTypeCar, VehicleTypeAuto, VehicleTypeTruck:
		return true
	}
	return false
}

func IsValidFuelType(t FuelType) bool {
	switch t {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeElectric, FuelTypeCNG:
		return true
	}
	return false
}
