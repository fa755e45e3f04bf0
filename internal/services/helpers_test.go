package services

import (
	"context"
	"io"
	"testing"
	"time"

	"mechseva/internal/config"
	"mechseva/internal/models"
	"mechseva/internal/repositories/interfaces"
	"mechseva/internal/utils"
	"mechseva/pkg/logger"
	"mechseva/pkg/payment"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	require.NoError(t, err)
	log.SetOutput(io.Discard)
	return log
}

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:        "test-secret",
		MaxLoginAttempts: 5,
		LoginLockoutTime: 2 * time.Hour,
	}
}

type failedLogin struct {
	id        primitive.ObjectID
	lockUntil *time.Time
}

// fakeCustomerRepo keeps customers in memory and records every mutation.
// Un-overridden interface methods panic via the embedded nil, which is the
// signal a test exercised something it did not mean to.
type fakeCustomerRepo struct {
	interfaces.CustomerRepository

	byEmail map[string]*models.Customer
	byID    map[primitive.ObjectID]*models.Customer
	byToken map[string]*models.Customer

	created       []*models.Customer
	createErr     error
	updates       []map[string]interface{}
	failed        []failedLogin
	attemptResets int
	lastLogins    int
	increments    []float64
	addressWrites [][]models.Address
	vehicleWrites [][]models.Vehicle
	deactivated   []primitive.ObjectID
}

func newFakeCustomerRepo(customers ...*models.Customer) *fakeCustomerRepo {
	f := &fakeCustomerRepo{
		byEmail: make(map[string]*models.Customer),
		byID:    make(map[primitive.ObjectID]*models.Customer),
		byToken: make(map[string]*models.Customer),
	}
	for _, c := range customers {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		f.byEmail[c.Email] = c
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	customer.ID = primitive.NewObjectID()
	f.created = append(f.created, customer)
	f.byEmail[customer.Email] = customer
	f.byID[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCustomerRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.updates = append(f.updates, updates)
	return nil
}

func (f *fakeCustomerRepo) RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error {
	f.failed = append(f.failed, failedLogin{id: id, lockUntil: lockUntil})
	return nil
}

func (f *fakeCustomerRepo) ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error {
	f.attemptResets++
	return nil
}

func (f *fakeCustomerRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	f.lastLogins++
	return nil
}

func (f *fakeCustomerRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, hashedToken string, expiresAt time.Time) error {
	f.byToken[hashedToken] = f.byID[id]
	return nil
}

func (f *fakeCustomerRepo) GetByResetToken(ctx context.Context, hashedToken string) (*models.Customer, error) {
	if c, ok := f.byToken[hashedToken]; ok {
		return c, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCustomerRepo) IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amountSpent float64) error {
	f.increments = append(f.increments, amountSpent)
	return nil
}

func (f *fakeCustomerRepo) UpdateAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) error {
	f.addressWrites = append(f.addressWrites, addresses)
	return nil
}

func (f *fakeCustomerRepo) UpdateVehicles(ctx context.Context, id primitive.ObjectID, vehicles []models.Vehicle) error {
	f.vehicleWrites = append(f.vehicleWrites, vehicles)
	return nil
}

func (f *fakeCustomerRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type nearCall struct {
	lng, lat, maxMeters float64
}

type availCall struct {
	serviceType models.ServiceType
	vehicleType models.VehicleType
	lng, lat    float64
	maxMeters   float64
}

type fakeMechanicRepo struct {
	interfaces.MechanicRepository

	byEmail map[string]*models.Mechanic
	byID    map[primitive.ObjectID]*models.Mechanic

	created       []*models.Mechanic
	createErr     error
	failed        []failedLogin
	attemptResets int
	lastLogins    int
	ratings       []models.MechanicRating
	stats         []models.MechanicStatistics
	rateCards     []models.RateCard
	updates       []map[string]interface{}
	nearCalls     []nearCall
	availCalls    []availCall
	topRatedLimit int
}

func newFakeMechanicRepo(mechanics ...*models.Mechanic) *fakeMechanicRepo {
	f := &fakeMechanicRepo{
		byEmail: make(map[string]*models.Mechanic),
		byID:    make(map[primitive.ObjectID]*models.Mechanic),
	}
	for _, m := range mechanics {
		if m.ID.IsZero() {
			m.ID = primitive.NewObjectID()
		}
		f.byEmail[m.Email] = m
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMechanicRepo) Create(ctx context.Context, mechanic *models.Mechanic) error {
	if f.createErr != nil {
		return f.createErr
	}
	mechanic.ID = primitive.NewObjectID()
	f.created = append(f.created, mechanic)
	f.byEmail[mechanic.Email] = mechanic
	f.byID[mechanic.ID] = mechanic
	return nil
}

func (f *fakeMechanicRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeMechanicRepo) GetByEmail(ctx context.Context, email string) (*models.Mechanic, error) {
	if m, ok := f.byEmail[email]; ok {
		return m, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeMechanicRepo) RecordFailedLogin(ctx context.Context, id primitive.ObjectID, lockUntil *time.Time) error {
	f.failed = append(f.failed, failedLogin{id: id, lockUntil: lockUntil})
	return nil
}

func (f *fakeMechanicRepo) ResetLoginAttempts(ctx context.Context, id primitive.ObjectID) error {
	f.attemptResets++
	return nil
}

func (f *fakeMechanicRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	f.lastLogins++
	return nil
}

func (f *fakeMechanicRepo) UpdateRating(ctx context.Context, id primitive.ObjectID, rating models.MechanicRating) error {
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeMechanicRepo) UpdateStatistics(ctx context.Context, id primitive.ObjectID, stats models.MechanicStatistics) error {
	f.stats = append(f.stats, stats)
	return nil
}

func (f *fakeMechanicRepo) UpdateRateCard(ctx context.Context, id primitive.ObjectID, rateCard models.RateCard) error {
	f.rateCards = append(f.rateCards, rateCard)
	return nil
}

func (f *fakeMechanicRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.updates = append(f.updates, updates)
	return nil
}

func (f *fakeMechanicRepo) FindNearLocation(ctx context.Context, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error) {
	f.nearCalls = append(f.nearCalls, nearCall{lng: lng, lat: lat, maxMeters: maxDistanceMeters})
	return nil, nil
}

func (f *fakeMechanicRepo) FindAvailableForService(ctx context.Context, serviceType models.ServiceType, vehicleType models.VehicleType, lng, lat float64, maxDistanceMeters float64) ([]*models.Mechanic, error) {
	f.availCalls = append(f.availCalls, availCall{
		serviceType: serviceType,
		vehicleType: vehicleType,
		lng:         lng,
		lat:         lat,
		maxMeters:   maxDistanceMeters,
	})
	return nil, nil
}

func (f *fakeMechanicRepo) GetTopRated(ctx context.Context, limit int) ([]*models.Mechanic, error) {
	f.topRatedLimit = limit
	return nil, nil
}

type fakeRequestRepo struct {
	interfaces.ServiceRequestRepository

	byRequestID map[string]*models.ServiceRequest

	created    []*models.ServiceRequest
	saved      []*models.ServiceRequest
	guardSaves []models.RequestStatus
	guardErr   error
	mechStats  *interfaces.RequestStats
}

func newFakeRequestRepo(requests ...*models.ServiceRequest) *fakeRequestRepo {
	f := &fakeRequestRepo{byRequestID: make(map[string]*models.ServiceRequest)}
	for _, r := range requests {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		f.byRequestID[r.RequestID] = r
	}
	return f
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *models.ServiceRequest) error {
	request.ID = primitive.NewObjectID()
	f.created = append(f.created, request)
	f.byRequestID[request.RequestID] = request
	return nil
}

func (f *fakeRequestRepo) GetByRequestID(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	if r, ok := f.byRequestID[requestID]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeRequestRepo) Save(ctx context.Context, request *models.ServiceRequest) error {
	f.saved = append(f.saved, request)
	f.byRequestID[request.RequestID] = request
	return nil
}

func (f *fakeRequestRepo) SaveWithStatusGuard(ctx context.Context, request *models.ServiceRequest, expectedStatus models.RequestStatus) error {
	if f.guardErr != nil {
		return f.guardErr
	}
	f.guardSaves = append(f.guardSaves, expectedStatus)
	f.byRequestID[request.RequestID] = request
	return nil
}

func (f *fakeRequestRepo) GetMechanicStatistics(ctx context.Context, mechanicID primitive.ObjectID) (*interfaces.RequestStats, error) {
	if f.mechStats != nil {
		return f.mechStats, nil
	}
	return &interfaces.RequestStats{}, nil
}

type fakeRefundProvider struct {
	requests []*payment.RefundRequest
	err      error
}

func (f *fakeRefundProvider) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return &payment.RefundResponse{
		RefundID: "rfnd_test",
		Status:   "processed",
		Amount:   request.Amount,
		Currency: request.Currency,
	}, nil
}
