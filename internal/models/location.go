package models

// GeoPoint is a GeoJSON point stored on a 2dsphere index, coordinates are
// [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) >= 2 {
		return p.Coordinates[1]
	}
	return 0
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) >= 1 {
		return p.Coordinates[0]
	}
	return 0
}

type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

type Address struct {
	Type         AddressType `json:"type" bson:"type"`
	AddressLine1 string      `json:"address_line1" bson:"address_line1" validate:"required"`
	AddressLine2 string      `json:"address_line2" bson:"address_line2"`
	City         string      `json:"city" bson:"city" validate:"required"`
	State        string      `json:"state" bson:"state"`
	Pincode      string      `json:"pincode" bson:"pincode" validate:"required,pincode"`
	Coordinates  *GeoPoint   `json:"coordinates" bson:"coordinates"`
	IsDefault    bool        `json:"is_default" bson:"is_default"`
}

// RequestLocation is where the vehicle is stranded: a geo point plus the
// postal address a mechanic navigates to.
type RequestLocation struct {
	Point    GeoPoint `json:"point" bson:"point" validate:"required"`
	Address  Address  `json:"address" bson:"address" validate:"required"`
	Landmark string   `json:"landmark" bson:"landmark"`
}
