package mongodb

import (
	"context"
	"fmt"
	"time"

	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/services"
	"mechseva/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type serviceRequestRepository struct {
	collection *mongo.Collection

	cache services.CacheService
}

func NewServiceRequestRepository(db *mongo.Database, cache services.CacheService) interfaces.ServiceRequestRepository {
	return &serviceRequestRepository{
		collection: db.Collection("service_requests"),
		cache:      cache,
	}
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *models.ServiceRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("request id %s already taken: %w", request.RequestID, utils.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create service request: %w", err)
	}

	return nil
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service request %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	return &request, nil
}

func (r *serviceRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	if r.cache != nil {
		var cached models.ServiceRequest
		if err := r.cache.Get(ctx, "request_"+requestID, &cached); err == nil {
			return &cached, nil
		}
	}

	var request models.ServiceRequest
	err := r.collection.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service request %s: %w", requestID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, "request_"+requestID, &request, 5*time.Minute)
	}

	return &request, nil
}

// Save replaces the whole document. The request is mutated in memory by
// lifecycle/pricing helpers first and then persisted as one unit.
func (r *serviceRequestRepository) Save(ctx context.Context, request *models.ServiceRequest) error {
	request.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return fmt.Errorf("failed to save service request: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service request %s: %w", request.ID.Hex(), utils.ErrNotFound)
	}

	r.invalidateRequestCache(ctx, request.RequestID)

	return nil
}

// SaveWithStatusGuard replaces the document only if its stored status still
// matches expectedStatus. A concurrent transition that moved the status first
// makes the filter miss, reported as ErrStatusConflict so the caller can
// re-read and decide.
func (r *serviceRequestRepository) SaveWithStatusGuard(ctx context.Context, request *models.ServiceRequest, expectedStatus models.RequestStatus) error {
	request.UpdatedAt = time.Now()

	filter := bson.M{
		"_id":    request.ID,
		"status": expectedStatus,
	}

	result, err := r.collection.ReplaceOne(ctx, filter, request)
	if err != nil {
		return fmt.Errorf("failed to save service request: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a vanished document from a lost race.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": request.ID})
		if countErr == nil && count == 0 {
			return fmt.Errorf("service request %s: %w", request.ID.Hex(), utils.ErrNotFound)
		}
		return fmt.Errorf("service request %s changed status concurrently: %w", request.RequestID, utils.ErrStatusConflict)
	}

	r.invalidateRequestCache(ctx, request.RequestID)

	return nil
}

func (r *serviceRequestRepository) invalidateRequestCache(ctx context.Context, requestID string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, "request_"+requestID)
}

func (r *serviceRequestRepository) GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	return r.listRequests(ctx, bson.M{"customer_id": customerID}, params)
}

func (r *serviceRequestRepository) GetByMechanic(ctx context.Context, mechanicID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	return r.listRequests(ctx, bson.M{"mechanic_id": mechanicID}, params)
}

func (r *serviceRequestRepository) GetByStatus(ctx context.Context, status models.RequestStatus, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	return r.listRequests(ctx, bson.M{"status": status}, params)
}

// FindPendingNearLocation feeds the mechanic-side job board: unassigned
// requests around the mechanic's position, closest first.
func (r *serviceRequestRepository) FindPendingNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.ServiceRequest, error) {
	filter := bson.M{
		"status": models.StatusPending,
		"location.point": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(utils.MaxNearbyResults))
	if err != nil {
		return nil, fmt.Errorf("failed to find pending requests: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeRequests(ctx, cursor)
}

func (r *serviceRequestRepository) GetMechanicStatistics(ctx context.Context, mechanicID primitive.ObjectID) (*interfaces.RequestStats, error) {
	return r.aggregateStats(ctx, bson.M{"mechanic_id": mechanicID})
}

func (r *serviceRequestRepository) GetPlatformStatistics(ctx context.Context) (*interfaces.RequestStats, error) {
	return r.aggregateStats(ctx, bson.M{})
}

func (r *serviceRequestRepository) aggregateStats(ctx context.Context, match bson.M) (*interfaces.RequestStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_requests", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "completed_requests", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$status", models.StatusCompleted}}}, 1, 0}},
			}}}},
			{Key: "cancelled_requests", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$status", models.StatusCancelled}}}, 1, 0}},
			}}}},
			{Key: "total_earnings", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$status", models.StatusCompleted}}},
					"$pricing.final_cost",
					0,
				}},
			}}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$customer_rating.rating"}}},
			{Key: "avg_response_time", Value: bson.D{{Key: "$avg", Value: "$time_tracking.response_time_min"}}},
			{Key: "avg_service_time", Value: bson.D{{Key: "$avg", Value: "$time_tracking.service_time_min"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate request statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var stats interfaces.RequestStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return nil, fmt.Errorf("failed to decode request statistics: %w", err)
		}
	}

	return &stats, nil
}

func (r *serviceRequestRepository) listRequests(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.ServiceRequest, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count service requests: %w", err)
	}

	sortOrder := 1
	if params.SortDesc {
		sortOrder = -1
	}

	opts := options.Find().
		SetSkip(params.Skip()).
		SetLimit(params.Limit()).
		SetSort(bson.D{{Key: params.SortBy, Value: sortOrder}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests, err := decodeRequests(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func decodeRequests(ctx context.Context, cursor *mongo.Cursor) ([]*models.ServiceRequest, error) {
	var requests []*models.ServiceRequest
	for cursor.Next(ctx) {
		var request models.ServiceRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode service request: %w", err)
		}
		requests = append(requests, &request)
	}
	return requests, nil
}
