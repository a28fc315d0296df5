package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
)

type ttlCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newTTLCache() *ttlCache {
	return &ttlCache{entries: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *ttlCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	c.ttls[key] = expiration
	return nil
}

func (c *ttlCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *ttlCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		delete(c.ttls, key)
	}
	return nil
}

func (c *ttlCache) IncrementWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}

func (c *ttlCache) Ping(context.Context) error { return nil }

// unconnectedDatabase returns a handle that never dials; the cache helpers do not touch it.
func unconnectedDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("pickup_app_test")
}

func TestDriverCacheUsesConfiguredTTL(t *testing.T) {
	ctx := context.Background()
	db := unconnectedDatabase(t)

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"configured", 3 * time.Minute, 3 * time.Minute},
		{"zero falls back", 0, utils.DriverCacheTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newTTLCache()
			repo := NewDriverRepository(db, cache, tt.ttl).(*driverRepository)

			driver := &models.Driver{ID: primitive.NewObjectID(), Email: "d@example.com", FullName: "Nika"}
			repo.cacheDriver(ctx, driver)

			key := utils.CacheDriverPrefix + driver.ID.Hex()
			if got := cache.ttls[key]; got != tt.want {
				t.Fatalf("ttl = %v, want %v", got, tt.want)
			}

			cached := repo.getDriverFromCache(ctx, driver.ID)
			if cached == nil || cached.FullName != "Nika" {
				t.Fatalf("cached = %+v", cached)
			}

			repo.invalidateDriverCache(ctx, driver.ID)
			if repo.getDriverFromCache(ctx, driver.ID) != nil {
				t.Fatal("entry survived invalidation")
			}
		})
	}
}
