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

type customerRepository struct {
	collection *mongo.Collection

	cache services.CacheService
}

func NewCustomerRepository(db *mongo.Database, cache services.CacheService) interfaces.CustomerRepository {
	return &customerRepository{
		collection: db.Collection("customers"),
		cache:      cache,
	}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("customer with this email or phone already exists: %w", utils.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	r.cacheCustomer(ctx, customer)

	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	if customer := r.getCustomerFromCache(ctx, id.Hex()); customer != nil {
		return customer, nil
	}

	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("customer %s: %w", id.Hex(), utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	r.cacheCustomer(ctx, &customer)

	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("customer with email %s: %w", email, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("customer with phone %s: %w", phone, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("update collides with existing customer: %w", utils.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("customer %s: %w", id.Hex(), utils.ErrNotFound)
	}

	r.invalidateCustomerCache(ctx, id.Hex())

	return nil
}

// Deactivate soft-deletes, account records are never removed.
func (r *customerRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{
		"is_active": false,
	})
}

func (r *customerRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{
		"last_login_at": time.Now(),
	})
}

// RecordFailedLogin atomically increments the attempt counter and sets the
// lock timestamp when the caller decided the threshold is reached.
func (r *customerRepository) RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error {
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

	r.invalidateCustomerCache(ctx, id.Hex())

	return nil
}

// ResetLoginAttempts clears both the counter and the lock in one write.
func (r *customerRepository) ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"login_attempts": 1, "lock_until": 1},
		"$set":   bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}

	r.invalidateCustomerCache(ctx, id.Hex())

	return nil
}

func (r *customerRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, hashedToken string, expiresAt time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{
		"reset_password_token":  hashedToken,
		"reset_password_expire": expiresAt,
	})
}

func (r *customerRepository) GetByResetToken(ctx context.Context, hashedToken string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{
		"reset_password_token":  hashedToken,
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("reset token: %w", utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by reset token: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) UpdateAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) error {
	return r.Update(ctx, id, map[string]interface{}{
		"addresses": addresses,
	})
}

func (r *customerRepository) UpdateVehicles(ctx context.Context, id primitive.ObjectID, vehicles []models.Vehicle) error {
	return r.Update(ctx, id, map[string]interface{}{
		"vehicles": vehicles,
	})
}

func (r *customerRepository) IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amountSpent float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"total_bookings": 1, "total_spent": amountSpent},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update booking stats: %w", err)
	}

	r.invalidateCustomerCache(ctx, id.Hex())

	return nil
}

func (r *customerRepository) FindNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.Customer, error) {
	filter := bson.M{
		"is_active": true,
		"addresses.coordinates": bson.M{
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
		return nil, fmt.Errorf("failed to find nearby customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []*models.Customer
	for cursor.Next(ctx) {
		var customer models.Customer
		if err := cursor.Decode(&customer); err != nil {
			return nil, fmt.Errorf("failed to decode customer: %w", err)
		}
		customers = append(customers, &customer)
	}

	return customers, nil
}

func (r *customerRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Customer, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
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
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []*models.Customer
	for cursor.Next(ctx) {
		var customer models.Customer
		if err := cursor.Decode(&customer); err != nil {
			return nil, 0, fmt.Errorf("failed to decode customer: %w", err)
		}
		customers = append(customers, &customer)
	}

	return customers, total, nil
}

func (r *customerRepository) GetStatistics(ctx context.Context) (*interfaces.CustomerStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_customers", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "active_customers", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$is_active", true}}}, 1, 0}},
			}}}},
			{Key: "verified_customers", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$is_verified", true}}}, 1, 0}},
			}}}},
			{Key: "total_vehicles", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$vehicles", bson.A{}}}}},
			}}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$rating.average"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customer statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var stats interfaces.CustomerStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return nil, fmt.Errorf("failed to decode customer statistics: %w", err)
		}
	}

	return &stats, nil
}

func (r *customerRepository) cacheCustomer(ctx context.Context, customer *models.Customer) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, "customer_"+customer.ID.Hex(), customer, 30*time.Minute)
}

func (r *customerRepository) getCustomerFromCache(ctx context.Context, id string) *models.Customer {
	if r.cache == nil {
		return nil
	}

	var customer models.Customer
	if err := r.cache.Get(ctx, "customer_"+id, &customer); err != nil {
		return nil
	}
	return &customer
}

func (r *customerRepository) invalidateCustomerCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, "customer_"+id)
}
