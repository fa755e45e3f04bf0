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

type mechanicRepository struct {
	collection *mongo.Collection

	cache services.CacheService
}

func NewMechanicRepository(db *mongo.Database, cache services.CacheService) interfaces.MechanicRepository {
	return &mechanicRepository{
		collection: db.Collection("mechanics"),
		cache:      cache,
	}
}

func (r *mechanicRepository) Create(ctx context.Context, mechanic *models.Mechanic) error {
	mechanic.ID = primitive.NewObjectID()
	mechanic.CreatedAt = time.Now()
	mechanic.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, mechanic)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mechanic with this email or phone already exists: %w", utils.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create mechanic: %w", err)
	}

	r.cacheMechanic(ctx, mechanic)

	return nil
}

func (r *mechanicRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, error) {
	if mechanic := r.getMechanicFromCache(ctx, id.Hex()); mechanic != nil {
		return mechanic, nil
	}

	var mechanic models.Mechanic
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&mechanic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("mechanic %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get mechanic: %w", err)
	}

	r.cacheMechanic(ctx, &mechanic)

	return &mechanic, nil
}

func (r *mechanicRepository) GetByEmail(ctx context.Context, email string) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&mechanic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("mechanic with email %s: %w", email, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get mechanic by email: %w", err)
	}

	return &mechanic, nil
}

func (r *mechanicRepository) GetByPhone(ctx context.Context, phone string) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&mechanic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("mechanic with phone %s: %w", phone, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get mechanic by phone: %w", err)
	}

	return &mechanic, nil
}

func (r *mechanicRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("update collides with existing mechanic: %w", utils.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update mechanic: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("mechanic %s: %w", id.Hex(), utils.ErrNotFound)
	}

	r.invalidateMechanicCache(ctx, id.Hex())

	return nil
}

func (r *mechanicRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{
		"is_active": false,
		"is_online": false,
	})
}

func (r *mechanicRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{
		"last_login_at": time.Now(),
	})
}

func (r *mechanicRepository) RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error {
	update := bson.M{
		"$inc": bson.M{"login_attempts": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	if lockUntil != nil {
		update["$set"] = bson.M{"lock_until": *lockUntil, "updated_at": time.Now()}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}

	r.invalidateMechanicCache(ctx, id.Hex())

	return nil
}

func (r *mechanicRepository) ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"login_attempts": 1, "lock_until": 1},
		"$set":   bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	r.invalidateMechanicCache(ctx, id.Hex())

	return nil
}

func (r *mechanicRepository) UpdateOnlineStatus(ctx context.Context, id primitive.ObjectID, isOnline bool) error {
	return r.Update(ctx, id, map[string]interface{}{
		"is_online": isOnline,
	})
}

func (r *mechanicRepository) UpdateAvailability(ctx context.Context, id primitive.ObjectID, availability models.WeeklyAvailability) error {
	return r.Update(ctx, id, map[string]interface{}{
		"availability": availability,
	})
}

func (r *mechanicRepository) UpdateRateCard(ctx context.Context, id primitive.ObjectID, rateCard models.RateCard) error {
	return r.Update(ctx, id, map[string]interface{}{
		"pricing": rateCard,
	})
}

func (r *mechanicRepository) UpdateVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error {
	return r.Update(ctx, id, map[string]interface{}{
		"verification_status": status,
		"is_verified":         status == models.VerificationVerified,
	})
}

func (r *mechanicRepository) UpdateStatistics(ctx context.Context, id primitive.ObjectID, stats models.MechanicStatistics) error {
	return r.Update(ctx, id, map[string]interface{}{
		"statistics": stats,
	})
}

func (r *mechanicRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, rating models.MechanicRating) error {
	return r.Update(ctx, id, map[string]interface{}{
		"rating": rating,
	})
}

func (r *mechanicRepository) FindNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error) {
	filter := bson.M{
		"is_active":   true,
		"is_verified": true,
		"business_address.coordinates": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}

	return r.findMechanics(ctx, filter, options.Find().SetLimit(utils.MaxNearbyResults))
}

// FindAvailableForService returns online verified mechanics within the
// radius who carry the requested specialization and serve the vehicle
// type, best rated first. $geoWithin filters by distance without forcing
// distance ordering, so the rating sort applies.
func (r *mechanicRepository) FindAvailableForService(ctx context.Context, serviceType models.ServiceType, vehicleType models.VehicleType, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error) {
	radiusRadians := maxDistanceMeters / (utils.EarthRadiusKM * 1000)

	filter := bson.M{
		"is_active":       true,
		"is_online":       true,
		"is_verified":     true,
		"specializations": serviceType,
		"vehicle_types":   vehicleType,
		"business_address.coordinates": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": []interface{}{[]float64{lng, lat}, radiusRadians},
			},
		},
	}

	opts := options.Find().
		SetLimit(utils.MaxNearbyResults).
		SetSort(bson.D{{Key: "rating.average", Value: -1}, {Key: "rating.count", Value: -1}})

	return r.findMechanics(ctx, filter, opts)
}

func (r *mechanicRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count mechanics: %w", err)
	}

	sortOrder := 1
	if params.SortDesc {
		sortOrder = -1
	}

	opts := options.Find().
		SetSkip(params.Skip()).
		SetLimit(params.Limit()).
		SetSort(bson.D{{Key: params.SortBy, Value: sortOrder}})

	mechanics, err := r.findMechanics(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	return mechanics, total, nil
}

func (r *mechanicRepository) GetTopRated(ctx context.Context, limit int) ([]*models.Mechanic, error) {
	filter := bson.M{
		"is_active":    true,
		"is_verified":  true,
		"rating.count": bson.M{"$gt": 0},
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "rating.average", Value: -1}, {Key: "rating.count", Value: -1}})

	return r.findMechanics(ctx, filter, opts)
}

func (r *mechanicRepository) findMechanics(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Mechanic, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find mechanics: %w", err)
	}
	defer cursor.Close(ctx)

	var mechanics []*models.Mechanic
	for cursor.Next(ctx) {
		var mechanic models.Mechanic
		if err := cursor.Decode(&mechanic); err != nil {
			return nil, fmt.Errorf("failed to decode mechanic: %w", err)
		}
		mechanics = append(mechanics, &mechanic)
	}

	return mechanics, nil
}

func (r *mechanicRepository) cacheMechanic(ctx context.Context, mechanic *models.Mechanic) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, "mechanic_"+mechanic.ID.Hex(), mechanic, 30*time.Minute)
}

func (r *mechanicRepository) getMechanicFromCache(ctx context.Context, id string) *models.Mechanic {
	if r.cache == nil {
		return nil
	}

	var mechanic models.Mechanic
	if err := r.cache.Get(ctx, "mechanic_"+id, &mechanic); err != nil {
		return nil
	}
	return &mechanic
}

func (r *mechanicRepository) invalidateMechanicCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, "mechanic_"+id)
}
