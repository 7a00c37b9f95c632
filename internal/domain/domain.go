package domain

import (
	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
)

// Container wires the domain services together over a set of repositories,
// either the postgres or in-memory implementations.
type Container struct {
	Cars      cars.Service
	Customers customers.Service
	Bookings  bookings.Service
	Identity  identity.Service
}

// Options configures the domain container.
type Options struct {
	CarRepo      cars.Repository
	CustomerRepo customers.Repository
	BookingRepo  bookings.Repository
	UserRepo     identity.Repository
}

// New constructs a domain container with provided repositories.
func New(opts Options) Container {
	carRepo := opts.CarRepo
	if carRepo == nil {
		carRepo = cars.NullRepository{}
	}

	customerRepo := opts.CustomerRepo
	if customerRepo == nil {
		customerRepo = customers.NullRepository{}
	}

	bookingRepo := opts.BookingRepo
	if bookingRepo == nil {
		bookingRepo = bookings.NullRepository{}
	}

	userRepo := opts.UserRepo
	if userRepo == nil {
		userRepo = identity.NullRepository{}
	}

	return Container{
		Cars:      cars.NewService(carRepo),
		Customers: customers.NewService(customerRepo),
		Bookings:  bookings.NewService(bookingRepo, carRepo, customerRepo),
		Identity:  identity.NewService(userRepo),
	}
}
