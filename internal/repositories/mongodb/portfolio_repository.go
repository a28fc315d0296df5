package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
	"pickupapp/pkg/database"
)

type portfolioRepository struct {
	collection *mongo.Collection
}

func NewPortfolioRepository(db *mongo.Database) interfaces.PortfolioRepository {
	return &portfolioRepository{
		collection: db.Collection(database.DriverPortfoliosCollection),
	}
}

func (r *portfolioRepository) Upsert(ctx context.Context, portfolio *models.DriverPortfolio) error {
	set := bson.M{
		"driver_id":        portfolio.DriverID,
		"full_name":        portfolio.FullName,
		"age":              portfolio.Age,
		"car_model":        portfolio.CarModel,
		"car_year":         portfolio.CarYear,
		"car_color":        portfolio.CarColor,
		"experience_years": portfolio.ExperienceYears,
		"bio":              portfolio.Bio,
		"languages":        portfolio.Languages,
		"certifications":   portfolio.Certifications,
		"updated_at":       portfolio.UpdatedAt,
	}
	if portfolio.ProfileImage != "" {
		set["profile_image"] = portfolio.ProfileImage
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"driver_id": portfolio.DriverID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio: %w", err)
	}

	return nil
}

func (r *portfolioRepository) GetByDriverID(ctx context.Context, driverID primitive.ObjectID) (*models.DriverPortfolio, error) {
	var portfolio models.DriverPortfolio
	err := r.collection.FindOne(ctx, bson.M{"driver_id": driverID}).Decode(&portfolio)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return &portfolio, nil
}

func (r *portfolioRepository) GetByDriverIDs(ctx context.Context, driverIDs []primitive.ObjectID) (map[primitive.ObjectID]*models.DriverPortfolio, error) {
	result := make(map[primitive.ObjectID]*models.DriverPortfolio, len(driverIDs))
	if len(driverIDs) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"driver_id": inIDs(driverIDs)})
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolios: %w", err)
	}

	portfolios, err := decodeAll[models.DriverPortfolio](ctx, cursor)
	if err != nil {
		return nil, err
	}

	for _, p := range portfolios {
		result[p.DriverID] = p
	}
	return result, nil
}
