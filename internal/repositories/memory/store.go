// Package memory implements the repository interfaces in process memory.
// Every conditional update evaluates its predicate and applies its change under
// one lock, matching the atomicity of the MongoDB filters.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
)

// Store holds every collection. Repositories created from the same Store see
// each other's writes.
type Store struct {
	mu sync.RWMutex

	users         map[primitive.ObjectID]*models.User
	drivers       map[primitive.ObjectID]*models.Driver
	portfolios    map[primitive.ObjectID]*models.DriverPortfolio // by driver id
	availability  map[primitive.ObjectID]*models.DriverAvailability
	tours         map[primitive.ObjectID]*models.Tour
	bookings      map[primitive.ObjectID]*models.Booking
	pickups       map[primitive.ObjectID]*models.PickupRequest
	ratings       map[primitive.ObjectID]*models.Rating // by booking id
	notifications map[primitive.ObjectID]*models.Notification
	discounts     map[string]*models.Discount // by code
}

func NewStore() *Store {
	return &Store{
		users:         make(map[primitive.ObjectID]*models.User),
		drivers:       make(map[primitive.ObjectID]*models.Driver),
		portfolios:    make(map[primitive.ObjectID]*models.DriverPortfolio),
		availability:  make(map[primitive.ObjectID]*models.DriverAvailability),
		tours:         make(map[primitive.ObjectID]*models.Tour),
		bookings:      make(map[primitive.ObjectID]*models.Booking),
		pickups:       make(map[primitive.ObjectID]*models.PickupRequest),
		ratings:       make(map[primitive.ObjectID]*models.Rating),
		notifications: make(map[primitive.ObjectID]*models.Notification),
		discounts:     make(map[string]*models.Discount),
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// sortNewestFirst orders by created_at descending, breaking ties by id.
func sortNewestFirst[T any](items []*T, createdAt func(*T) time.Time, id func(*T) primitive.ObjectID) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := createdAt(items[i]), createdAt(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]).Hex() > id(items[j]).Hex()
	})
}

func truncate[T any](items []*T, limit int) []*T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
