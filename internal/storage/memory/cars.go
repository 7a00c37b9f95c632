package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/norrbil/rentals/internal/domain/cars"
)

// CarRepository is an in-memory implementation of cars.Repository.
type CarRepository struct {
	mu   sync.RWMutex
	cars map[string]cars.Car
}

// NewCarRepository creates an in-memory car repo.
func NewCarRepository() *CarRepository {
	return &CarRepository{
		cars: make(map[string]cars.Car),
	}
}

func (r *CarRepository) FindByID(id string) (cars.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cars[id]
	if !ok {
		return cars.Car{}, cars.ErrNotFound
	}
	return c, nil
}

func (r *CarRepository) List() ([]cars.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]cars.Car, 0, len(r.cars))
	for _, c := range r.cars {
		list = append(list, c)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *CarRepository) Save(car cars.Car) (cars.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if car.ID == "" {
		car.ID = newID()
		car.CreatedAt = now
	} else {
		existing, ok := r.cars[car.ID]
		if !ok {
			return cars.Car{}, cars.ErrConflict
		}
		car.CreatedAt = existing.CreatedAt
	}
	car.UpdatedAt = now
	r.cars[car.ID] = car
	return car, nil
}

func (r *CarRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cars[id]; !ok {
		return cars.ErrNotFound
	}
	delete(r.cars, id)
	return nil
}

func (r *CarRepository) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.cars[id]
	return ok, nil
}

func (r *CarRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cars), nil
}

var _ cars.Repository = (*CarRepository)(nil)
