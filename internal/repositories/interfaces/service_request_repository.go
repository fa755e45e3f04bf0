package interfaces

import (
	"context"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStats is the aggregation over service requests, per mechanic or
// platform-wide.
type RequestStats struct {
	TotalRequests     int64   `bson:"total_requests" json:"total_requests"`
	CompletedRequests int64   `bson:"completed_requests" json:"completed_requests"`
	CancelledRequests int64   `bson:"cancelled_requests" json:"cancelled_requests"`
	TotalEarnings     float64 `bson:"total_earnings" json:"total_earnings"`
	AvgRating         float64 `bson:"avg_rating" json:"avg_rating"`
	AvgResponseTime   float64 `bson:"avg_response_time" json:"avg_response_time"`
	AvgServiceTime    float64 `bson:"avg_service_time" json:"avg_service_time"`
}

type ServiceRequestRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, request *models.ServiceRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error)

	// Save persists the full document. SaveWithStatusGuard additionally
	// requires the stored status to still equal expectedStatus; a mismatch
	// surfaces utils.ErrStatusConflict so concurrent transitions never
	// silently overwrite each other.
	Save(ctx context.Context, request *models.ServiceRequest) error
	SaveWithStatusGuard(ctx context.Context, request *models.ServiceRequest, expectedStatus models.RequestStatus) error

	// Listing
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error)
	GetByMechanic(ctx context.Context, mechanicID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error)
	GetByStatus(ctx context.Context, status models.RequestStatus, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error)

	// Geospatial discovery
	FindPendingNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.ServiceRequest, error)

	// Analytics
	GetMechanicStatistics(ctx context.Context, mechanicID primitive.ObjectID) (*RequestStats, error)
	GetPlatformStatistics(ctx context.Context) (*RequestStats, error)
}
