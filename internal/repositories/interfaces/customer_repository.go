package interfaces

import (
	"context"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerStats is the platform-wide aggregation over the customers
// collection.
type CustomerStats struct {
	TotalCustomers    int64   `bson:"total_customers" json:"total_customers"`
	ActiveCustomers   int64   `bson:"active_customers" json:"active_customers"`
	VerifiedCustomers int64   `bson:"verified_customers" json:"verified_customers"`
	TotalVehicles     int64   `bson:"total_vehicles" json:"total_vehicles"`
	AvgRating         float64 `bson:"avg_rating" json:"avg_rating"`
}

type CustomerRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	// Credential bookkeeping
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error
	ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, hashedToken string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, hashedToken string) (*models.Customer, error)

	// Profile sub-documents
	UpdateAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) error
	UpdateVehicles(ctx context.Context, id primitive.ObjectID, vehicles []models.Vehicle) error

	// Booking counters
	IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amountSpent float64) error

	// Search and analytics
	FindNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.Customer, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Customer, int64, error)
	GetStatistics(ctx context.Context) (*CustomerStats, error)
}
