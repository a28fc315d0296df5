package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/internal/utils"
	"pickupapp/pkg/database"
)

type driverRepository struct {
	collection *mongo.Collection
	cache      interfaces.CacheService
	cacheTTL   time.Duration
}

// NewDriverRepository caches driver profiles for cacheTTL; zero selects the default.
func NewDriverRepository(db *mongo.Database, cache interfaces.CacheService, cacheTTL time.Duration) interfaces.DriverRepository {
	if cacheTTL <= 0 {
		cacheTTL = utils.DriverCacheTTL
	}
	return &driverRepository{
		collection: db.Collection(database.DriversCollection),
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	if existing, err := r.GetByEmail(ctx, driver.Email); err == nil && existing != nil {
		return utils.NewConflictError(utils.ErrMsgEmailRegistered)
	} else if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return err
	}

	driver.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, driver); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError(utils.ErrMsgEmailRegistered)
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

// GetByID is served from the cache when possible. Cached copies never carry
// the password hash, so credential checks go through GetByEmail.
func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	if driver := r.getDriverFromCache(ctx, id); driver != nil {
		return driver, nil
	}

	driver, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	r.cacheDriver(ctx, driver)
	return driver, nil
}

func (r *driverRepository) GetByEmail(ctx context.Context, email string) (*models.Driver, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *driverRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Driver, error) {
	result := make(map[primitive.ObjectID]*models.Driver, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": inIDs(ids)})
	if err != nil {
		return nil, fmt.Errorf("failed to get drivers: %w", err)
	}

	drivers, err := decodeAll[models.Driver](ctx, cursor)
	if err != nil {
		return nil, err
	}

	for _, d := range drivers {
		result[d.ID] = d
	}
	return result, nil
}

func (r *driverRepository) List(ctx context.Context, limit int) ([]*models.Driver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	return decodeAll[models.Driver](ctx, cursor)
}

func (r *driverRepository) UpdateReputation(ctx context.Context, id primitive.ObjectID, rating float64, totalTrips int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "total_trips": totalTrips}},
	)
	if err != nil {
		return fmt.Errorf("failed to update driver reputation: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Driver")
	}

	r.invalidateDriverCache(ctx, id)
	return nil
}

func (r *driverRepository) MarkPortfolioCompleted(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"portfolio_completed": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Driver")
	}

	r.invalidateDriverCache(ctx, id)
	return nil
}

func (r *driverRepository) findOne(ctx context.Context, filter bson.M) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, filter).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Driver")
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return &driver, nil
}

// Cache helper methods
func (r *driverRepository) cacheDriver(ctx context.Context, driver *models.Driver) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Set(ctx, utils.CacheDriverPrefix+driver.ID.Hex(), driver, r.cacheTTL)
}

func (r *driverRepository) getDriverFromCache(ctx context.Context, id primitive.ObjectID) *models.Driver {
	if r.cache == nil {
		return nil
	}

	var driver models.Driver
	if err := r.cache.Get(ctx, utils.CacheDriverPrefix+id.Hex(), &driver); err != nil {
		return nil
	}

	return &driver
}

func (r *driverRepository) invalidateDriverCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, utils.CacheDriverPrefix+id.Hex())
}
