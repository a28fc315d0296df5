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

type discountRepository struct {
	collection *mongo.Collection
}

func NewDiscountRepository(db *mongo.Database) interfaces.DiscountRepository {
	return &discountRepository{
		collection: db.Collection(database.DiscountsCollection),
	}
}

func (r *discountRepository) Create(ctx context.Context, discount *models.Discount) error {
	discount.ID = primitive.NewObjectID()
	discount.Code = models.NormalizeDiscountCode(discount.Code)

	if _, err := r.collection.InsertOne(ctx, discount); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflictError("Discount code already exists")
		}
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

func validWindow(now time.Time) bson.M {
	return bson.M{
		"is_active":  true,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
	}
}

func (r *discountRepository) ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Discount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "end_date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, validWindow(now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}

	return decodeAll[models.Discount](ctx, cursor)
}

func (r *discountRepository) GetValidByCode(ctx context.Context, code string, now time.Time) (*models.Discount, error) {
	filter := validWindow(now)
	filter["code"] = models.NormalizeDiscountCode(code)

	var discount models.Discount
	err := r.collection.FindOne(ctx, filter).Decode(&discount)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewAppError(utils.ErrNotFound, utils.ErrMsgInvalidDiscountCode)
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}

	return &discount, nil
}
