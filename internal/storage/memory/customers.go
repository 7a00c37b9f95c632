package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/norrbil/rentals/internal/domain/customers"
)

// CustomerRepository is an in-memory implementation of customers.Repository.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]customers.Customer
}

// NewCustomerRepository returns an initialized in-memory repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[string]customers.Customer),
	}
}

func (r *CustomerRepository) FindByID(id string) (customers.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return customers.Customer{}, customers.ErrNotFound
	}
	return c, nil
}

func (r *CustomerRepository) FindByUserID(userID string) (customers.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ApplicationUserID != "" && c.ApplicationUserID == userID {
			return c, nil
		}
	}
	return customers.Customer{}, customers.ErrNotFound
}

func (r *CustomerRepository) List() ([]customers.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]customers.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *CustomerRepository) Save(customer customers.Customer) (customers.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if customer.ID == "" {
		customer.ID = newID()
		customer.CreatedAt = now
	} else {
		existing, ok := r.customers[customer.ID]
		if !ok {
			return customers.Customer{}, customers.ErrConflict
		}
		customer.CreatedAt = existing.CreatedAt
	}
	customer.UpdatedAt = now
	r.customers[customer.ID] = customer
	return customer, nil
}

func (r *CustomerRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return customers.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *CustomerRepository) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.customers[id]
	return ok, nil
}

func (r *CustomerRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers), nil
}

var _ customers.Repository = (*CustomerRepository)(nil)
