package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"carlot/internal/cache"
	"carlot/internal/model"
	"carlot/internal/repository"
)

const (
	activeCarsCacheKey = "cars:active"
	// carsGenerationKey is bumped after every mutation. Cached lists live
	// under a key carrying the generation they were read in, so a list read
	// that overlapped a write can only land under a generation nobody asks
	// for anymore.
	carsGenerationKey = "cars:generation"
)

// CarService handles car inventory operations.
type CarService interface {
	List(ctx context.Context) ([]model.Car, error)
	Create(ctx context.Context, carMake, carModel string, year int) error
	Delete(ctx context.Context, id uint) error
	Update(ctx context.Context, id uint, carMake, carModel string, year int) error
}

type carService struct {
	repo     repository.CarRepository
	cache    *cache.Client
	cacheTTL time.Duration

	// stale is set when a mutation could not bump the generation. Reads
	// bypass the cache until a later bump succeeds.
	stale atomic.Bool
}

// NewCarService creates a car service. The active car list is cached for
// cacheTTL; a zero TTL or a nil cache disables caching.
func NewCarService(repo repository.CarRepository, cache *cache.Client, cacheTTL time.Duration) CarService {
	return &carService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// List returns every active car.
func (s *carService) List(ctx context.Context) ([]model.Car, error) {
	key, cacheable := s.listKey(ctx)
	if cacheable {
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached []model.Car
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	cars, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}

	if cacheable {
		if payload, err := json.Marshal(cars); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.cacheTTL)
		}
	}
	return cars, nil
}

// listKey returns the cache key for the current generation. The generation
// is read before the database so a concurrent mutation always moves readers
// past whatever this call stores.
func (s *carService) listKey(ctx context.Context) (string, bool) {
	if s.cacheTTL <= 0 || s.cache == nil {
		return "", false
	}
	if s.stale.Load() {
		if _, err := s.cache.Incr(ctx, carsGenerationKey); err != nil {
			return "", false
		}
		s.stale.Store(false)
	}
	gen, err := s.cache.Counter(ctx, carsGenerationKey)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%d", activeCarsCacheKey, gen), true
}

// Create adds a car to the inventory.
func (s *carService) Create(ctx context.Context, carMake, carModel string, year int) error {
	car := &model.Car{Make: carMake, Model: carModel, Year: year}
	if err := s.repo.Create(ctx, car); err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// Delete soft-deletes a car. Unknown ids are not an error.
func (s *carService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

// Update replaces make, model and year of a car. Unknown ids are not an error.
func (s *carService) Update(ctx context.Context, id uint, carMake, carModel string, year int) error {
	if _, err := s.repo.Update(ctx, id, carMake, carModel, year); err != nil {
		return fmt.Errorf("update car %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *carService) invalidate(ctx context.Context) {
	if s.cacheTTL <= 0 || s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, carsGenerationKey); err != nil {
		s.stale.Store(true)
	}
}
