package foodies

import (
	"context"
	"sync"
	"time"
)

// MealCache is an in-memory cache of the meal listing with a TTL. Sharing a
// meal invalidates it so the listing never lags behind a successful write.
type MealCache struct {
	mu      sync.RWMutex
	meals   []Meal
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	store   MealStore
}

// NewMealCache creates a MealCache backed by the given store.
func NewMealCache(s MealStore, ttl time.Duration) *MealCache {
	return &MealCache{store: s, ttl: ttl}
}

func (c *MealCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *MealCache) Invalidate() {
	c.mu.Lock()
	c.meals = nil
	c.loaded = false
	c.mu.Unlock()
}

// ListMeals returns the cached listing, reloading it from the store when
// stale. It tries a read lock first and only takes the write lock to reload.
func (c *MealCache) ListMeals(ctx context.Context) ([]Meal, error) {
	c.mu.RLock()
	if c.valid() {
		meals := c.meals
		c.mu.RUnlock()
		return meals, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.meals, nil
	}
	meals, err := c.store.ListMeals(ctx)
	if err != nil {
		return nil, err
	}
	c.meals = meals
	c.loaded = true
	c.fetched = time.Now()
	return meals, nil
}
