package interfaces

import (
	"context"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MechanicRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, mechanic *models.Mechanic) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, error)
	GetByEmail(ctx context.Context, email string) (*models.Mechanic, error)
	GetByPhone(ctx context.Context, phone string) (*models.Mechanic, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	// Credential bookkeeping
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error
	ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error

	// Profile operations
	UpdateOnlineStatus(ctx context.Context, id primitive.ObjectID, isOnline bool) error
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability models.WeeklyAvailability) error
	UpdateRateCard(ctx context.Context, id primitive.ObjectID, rateCard models.RateCard) error
	UpdateVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error

	// Derived counters, recomputed before write
	UpdateStatistics(ctx context.Context, id primitive.ObjectID, stats models.MechanicStatistics) error
	UpdateRating(ctx context.Context, id primitive.ObjectID, rating models.MechanicRating) error

	// Geospatial locator, nearest-first via the 2dsphere index
	FindNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error)
	FindAvailableForService(ctx context.Context, serviceType models.ServiceType, vehicleType models.VehicleType, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error)

	// Search
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Mechanic, int64, error)
	GetTopRated(ctx context.Context, limit int) ([]*models.Mechanic, error)
}
