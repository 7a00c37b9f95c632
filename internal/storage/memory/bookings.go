package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/norrbil/rentals/internal/domain/bookings"
)

// BookingRepository is an in-memory implementation of bookings.Repository.
// It joins cars and customers from the sibling repositories on reads, the
// way the postgres repository joins tables.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]bookings.Booking

	cars      *CarRepository
	customers *CustomerRepository
}

// NewBookingRepository creates an in-memory booking repo joined against the
// given car and customer repositories.
func NewBookingRepository(cars *CarRepository, customers *CustomerRepository) *BookingRepository {
	return &BookingRepository{
		bookings:  make(map[string]bookings.Booking),
		cars:      cars,
		customers: customers,
	}
}

func (r *BookingRepository) join(b bookings.Booking) bookings.Booking {
	if car, err := r.cars.FindByID(b.CarID); err == nil {
		b.Car = &car
	}
	if b.CustomerID != "" {
		if customer, err := r.customers.FindByID(b.CustomerID); err == nil {
			b.Customer = &customer
		}
	}
	return b
}

func (r *BookingRepository) FindByID(id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return bookings.Booking{}, bookings.ErrNotFound
	}
	return r.join(b), nil
}

func (r *BookingRepository) List() ([]bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]bookings.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		list = append(list, r.join(b))
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *BookingRepository) ListByUser(userID string) ([]bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []bookings.Booking
	for _, b := range r.bookings {
		if b.ApplicationUserID != "" && b.ApplicationUserID == userID {
			list = append(list, r.join(b))
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}

func (r *BookingRepository) Save(booking bookings.Booking) (bookings.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.Car = nil
	booking.Customer = nil

	now := time.Now().UTC()
	if booking.ID == "" {
		booking.ID = newID()
		booking.CreatedAt = now
	} else {
		existing, ok := r.bookings[booking.ID]
		if !ok {
			return bookings.Booking{}, bookings.ErrConflict
		}
		booking.CreatedAt = existing.CreatedAt
	}
	booking.UpdatedAt = now
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *BookingRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return bookings.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *BookingRepository) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.bookings[id]
	return ok, nil
}

func (r *BookingRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bookings), nil
}

func (r *BookingRepository) Overlaps(carID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ID == excludeID || b.CarID != carID {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			return true, nil
		}
	}
	return false, nil
}

var _ bookings.Repository = (*BookingRepository)(nil)
