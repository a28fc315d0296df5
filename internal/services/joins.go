package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/repositories/interfaces"
)

// driverSummaries left-joins drivers and their portfolio photo by id. Missing
// drivers are simply absent from the result.
func driverSummaries(
	ctx context.Context,
	driverRepo interfaces.DriverRepository,
	portfolioRepo interfaces.PortfolioRepository,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]*models.DriverSummary, error) {
	ids = uniqueIDs(ids)

	drivers, err := driverRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	portfolios, err := portfolioRepo.GetByDriverIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make(map[primitive.ObjectID]*models.DriverSummary, len(drivers))
	for id, driver := range drivers {
		summary := driver.Summary()
		if p, ok := portfolios[id]; ok {
			summary.ProfileImage = p.ProfileImage
		}
		summaries[id] = summary
	}
	return summaries, nil
}

func passengerSummaries(ctx context.Context, userRepo interfaces.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PassengerSummary, error) {
	users, err := userRepo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	summaries := make(map[primitive.ObjectID]*models.PassengerSummary, len(users))
	for id, u := range users {
		summaries[id] = &models.PassengerSummary{ID: u.ID, FullName: u.FullName, Phone: u.Phone}
	}
	return summaries, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
