package bookings

import (
	"errors"
	"time"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/validation"
)

var (
	ErrNotImplemented = errors.New("bookings repository: not implemented")
	ErrNotFound       = errors.New("booking not found")
	ErrConflict       = errors.New("booking modified concurrently")
	// ErrCustomerRequired signals that a self-service caller has no linked
	// customer record yet; handlers redirect to customer creation.
	ErrCustomerRequired = errors.New("customer profile required before booking")
	// ErrDatesUnavailable is returned when the requested car already has a
	// booking overlapping the requested date range.
	ErrDatesUnavailable = errors.New("car is already booked for the requested dates")
)

// Booking reserves a car for a date range. CustomerID and ApplicationUserID
// are optional: bookings created by an admin may lack a customer, and the
// user link is derived rather than supplied.
type Booking struct {
	ID                string    `json:"id"`
	CarID             string    `json:"car_id"`
	CustomerID        string    `json:"customer_id,omitempty"`
	ApplicationUserID string    `json:"application_user_id,omitempty"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Joined records, populated on reads. Customer is nil for bookings
	// without one; Car is nil only on the rare dangling reference.
	Car      *cars.Car           `json:"car,omitempty"`
	Customer *customers.Customer `json:"customer,omitempty"`
}

// Repository abstracts booking persistence. Read operations return bookings
// with Car and Customer joined in.
type Repository interface {
	FindByID(id string) (Booking, error)
	List() ([]Booking, error)
	ListByUser(userID string) ([]Booking, error)
	Save(booking Booking) (Booking, error)
	Delete(id string) error
	Exists(id string) (bool, error)
	Count() (int, error)
	// Overlaps reports whether any booking other than excludeID reserves
	// carID for a range intersecting [start, end).
	Overlaps(carID string, start, end time.Time, excludeID string) (bool, error)
}

// NullRepository returns ErrNotImplemented for all operations.
type NullRepository struct{}

func (NullRepository) FindByID(string) (Booking, error)     { return Booking{}, ErrNotImplemented }
func (NullRepository) List() ([]Booking, error)             { return nil, ErrNotImplemented }
func (NullRepository) ListByUser(string) ([]Booking, error) { return nil, ErrNotImplemented }
func (NullRepository) Save(Booking) (Booking, error)        { return Booking{}, ErrNotImplemented }
func (NullRepository) Delete(string) error                  { return ErrNotImplemented }
func (NullRepository) Exists(string) (bool, error)          { return false, ErrNotImplemented }
func (NullRepository) Count() (int, error)                  { return 0, ErrNotImplemented }
func (NullRepository) Overlaps(string, time.Time, time.Time, string) (bool, error) {
	return false, ErrNotImplemented
}

// Service provides booking business logic.
type Service interface {
	List() ([]Booking, error)
	Get(id string) (Booking, error)
	Create(input Input, actor authz.Actor) (Booking, error)
	Update(id string, input Input, actor authz.Actor) (Booking, error)
	Delete(id string, actor authz.Actor) error
	ListForUser(actor authz.Actor) ([]Booking, error)
	// Confirmation returns the booking with its car joined, for the
	// post-creation confirmation view.
	Confirmation(id string) (Booking, error)
	Count() (int, error)
}

// Input carries the booking fields accepted from callers. CustomerID is only
// honoured for admin actors; self-service callers always book for their own
// linked customer.
type Input struct {
	CarID      string
	CustomerID string
	StartDate  time.Time
	EndDate    time.Time
}

// NewService builds a booking service. Car and customer repositories are
// needed to resolve references during create and update.
func NewService(repo Repository, carRepo cars.Repository, customerRepo customers.Repository) Service {
	return &service{repo: repo, carRepo: carRepo, customerRepo: customerRepo}
}

type service struct {
	repo         Repository
	carRepo      cars.Repository
	customerRepo customers.Repository
}

func (s *service) List() ([]Booking, error) {
	return s.repo.List()
}

func (s *service) Get(id string) (Booking, error) {
	return s.repo.FindByID(id)
}

func (s *service) Count() (int, error) {
	return s.repo.Count()
}

// Confirmation strips the owning customer and identity; the receipt shows
// the car and dates only.
func (s *service) Confirmation(id string) (Booking, error) {
	booking, err := s.repo.FindByID(id)
	if err != nil {
		return Booking{}, err
	}
	booking.Customer = nil
	booking.CustomerID = ""
	booking.ApplicationUserID = ""
	return booking, nil
}

func (s *service) ListForUser(actor authz.Actor) ([]Booking, error) {
	if !actor.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	return s.repo.ListByUser(actor.UserID)
}

// resolve applies the ownership rules: self-service callers are pinned to
// their own customer record regardless of input, admins book on behalf of
// any customer and inherit that customer's user link.
func (s *service) resolve(input Input, actor authz.Actor) (customerID, userID string, err error) {
	if !actor.Admin {
		if actor.CustomerID == "" {
			return "", "", ErrCustomerRequired
		}
		return actor.CustomerID, actor.UserID, nil
	}

	if input.CustomerID == "" {
		return "", "", nil
	}
	customer, err := s.customerRepo.FindByID(input.CustomerID)
	if err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			v := validation.NewError()
			v.Add("customer_id", "unknown customer")
			return "", "", v
		}
		return "", "", err
	}
	return customer.ID, customer.ApplicationUserID, nil
}

func (s *service) validate(input Input, excludeID string) error {
	v := validation.NewError()
	if input.CarID == "" {
		v.Add("car_id", "is required")
	}
	if input.StartDate.IsZero() {
		v.Add("start_date", "is required")
	}
	if input.EndDate.IsZero() {
		v.Add("end_date", "is required")
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		v.Add("end_date", "must not be before start date")
	}
	if input.CarID != "" {
		if _, err := s.carRepo.FindByID(input.CarID); err != nil {
			if errors.Is(err, cars.ErrNotFound) {
				v.Add("car_id", "unknown car")
			} else {
				return err
			}
		}
	}
	if !v.Empty() {
		return v
	}

	taken, err := s.repo.Overlaps(input.CarID, input.StartDate, input.EndDate, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDatesUnavailable
	}
	return nil
}

func (s *service) Create(input Input, actor authz.Actor) (Booking, error) {
	if !actor.Authenticated() {
		return Booking{}, authz.ErrUnauthenticated
	}

	customerID, userID, err := s.resolve(input, actor)
	if err != nil {
		return Booking{}, err
	}
	if err := s.validate(input, ""); err != nil {
		return Booking{}, err
	}

	booking := Booking{
		CarID:             input.CarID,
		CustomerID:        customerID,
		ApplicationUserID: userID,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	}
	return s.repo.Save(booking)
}

func (s *service) Update(id string, input Input, actor authz.Actor) (Booking, error) {
	if !actor.Admin {
		return Booking{}, authz.ErrForbidden
	}

	customerID, userID, err := s.resolve(input, actor)
	if err != nil {
		return Booking{}, err
	}
	if err := s.validate(input, id); err != nil {
		return Booking{}, err
	}

	booking := Booking{
		ID:                id,
		CarID:             input.CarID,
		CustomerID:        customerID,
		ApplicationUserID: userID,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	}

	saved, err := s.repo.Save(booking)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, ErrConflict) {
		return Booking{}, err
	}

	exists, checkErr := s.repo.Exists(id)
	if checkErr != nil {
		return Booking{}, checkErr
	}
	if !exists {
		return Booking{}, ErrNotFound
	}
	return Booking{}, err
}

// Delete is restricted to admins and the booking's owner.
func (s *service) Delete(id string, actor authz.Actor) error {
	if !actor.Authenticated() {
		return authz.ErrUnauthenticated
	}

	booking, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleting an absent booking still succeeds.
			return nil
		}
		return err
	}

	if !actor.Admin && booking.ApplicationUserID != actor.UserID {
		return authz.ErrForbidden
	}

	err = s.repo.Delete(id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
