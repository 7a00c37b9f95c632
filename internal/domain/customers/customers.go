package customers

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/validation"
)

var (
	ErrNotImplemented = errors.New("customers repository: not implemented")
	ErrNotFound       = errors.New("customer not found")
	ErrConflict       = errors.New("customer modified concurrently")
	// ErrAlreadyRegistered is returned when a user with a linked customer
	// record tries the self-service signup again. Handlers translate it into
	// a redirect towards booking creation instead of an error page.
	ErrAlreadyRegistered = errors.New("customer already registered for this user")
)

// Customer represents a rental customer. ApplicationUserID links the record
// to an identity account for self-registered customers and stays empty for
// customers created by an admin.
type Customer struct {
	ID                string `json:"id"`
	ApplicationUserID string `json:"application_user_id,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	PhoneNumber       string `json:"phone_number"`
	Email             string `json:"email"`
	// RawPassword is display-only legacy data; authentication always goes
	// through the identity store. Never rendered in responses.
	RawPassword string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository abstracts persistence for customers.
type Repository interface {
	FindByID(id string) (Customer, error)
	FindByUserID(userID string) (Customer, error)
	List() ([]Customer, error)
	Save(customer Customer) (Customer, error)
	Delete(id string) error
	Exists(id string) (bool, error)
	Count() (int, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) FindByID(string) (Customer, error)     { return Customer{}, ErrNotImplemented }
func (NullRepository) FindByUserID(string) (Customer, error) { return Customer{}, ErrNotImplemented }
func (NullRepository) List() ([]Customer, error)             { return nil, ErrNotImplemented }
func (NullRepository) Save(Customer) (Customer, error)       { return Customer{}, ErrNotImplemented }
func (NullRepository) Delete(string) error                   { return ErrNotImplemented }
func (NullRepository) Exists(string) (bool, error)           { return false, ErrNotImplemented }
func (NullRepository) Count() (int, error)                   { return 0, ErrNotImplemented }

// Service exposes business operations over customers.
type Service interface {
	List(actor authz.Actor) ([]Customer, error)
	Get(id string, actor authz.Actor) (Customer, error)
	// ForUser returns the customer record linked to a user identity. Used
	// when resolving the request actor and by the booking flow.
	ForUser(userID string) (Customer, error)
	Create(input CreateInput, actor authz.Actor) (Customer, error)
	Update(id string, input UpdateInput, actor authz.Actor) (Customer, error)
	Delete(id string, actor authz.Actor) error
	Count() (int, error)
}

// CreateInput defines data required to create a customer.
type CreateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	RawPassword string
}

// UpdateInput replaces the mutable customer fields. The identity link and
// RawPassword are preserved from the stored record.
type UpdateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

func validateFields(firstName, lastName, phone, email string) error {
	v := validation.NewError()
	if strings.TrimSpace(firstName) == "" {
		v.Add("first_name", "is required")
	}
	if strings.TrimSpace(lastName) == "" {
		v.Add("last_name", "is required")
	}
	if strings.TrimSpace(phone) == "" {
		v.Add("phone_number", "is required")
	}
	if strings.TrimSpace(email) == "" {
		v.Add("email", "is required")
	} else if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		v.Add("email", "is not a valid email address")
	}
	if v.Empty() {
		return nil
	}
	return v
}

// NewService builds a customer service with the given repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

type service struct {
	repo Repository
}

func (s *service) List(actor authz.Actor) ([]Customer, error) {
	if !actor.Admin {
		return nil, authz.ErrForbidden
	}
	return s.repo.List()
}

func (s *service) Get(id string, actor authz.Actor) (Customer, error) {
	if !actor.Admin {
		return Customer{}, authz.ErrForbidden
	}
	return s.repo.FindByID(id)
}

func (s *service) ForUser(userID string) (Customer, error) {
	if userID == "" {
		return Customer{}, ErrNotFound
	}
	return s.repo.FindByUserID(userID)
}

func (s *service) Count() (int, error) {
	return s.repo.Count()
}

func (s *service) Create(input CreateInput, actor authz.Actor) (Customer, error) {
	if err := validateFields(input.FirstName, input.LastName, input.PhoneNumber, input.Email); err != nil {
		return Customer{}, err
	}

	customer := Customer{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Email:       strings.TrimSpace(input.Email),
		RawPassword: input.RawPassword,
	}

	// Self-service signup links the new record to the caller's identity and
	// refuses a second record for the same user. Admin-created customers
	// stay unlinked; anonymous signups too.
	if actor.Authenticated() && !actor.Admin {
		if _, err := s.repo.FindByUserID(actor.UserID); err == nil {
			return Customer{}, ErrAlreadyRegistered
		} else if !errors.Is(err, ErrNotFound) {
			return Customer{}, err
		}
		customer.ApplicationUserID = actor.UserID
	}

	return s.repo.Save(customer)
}

func (s *service) Update(id string, input UpdateInput, actor authz.Actor) (Customer, error) {
	if !actor.Admin && !actor.OwnsCustomer(id) {
		return Customer{}, authz.ErrForbidden
	}
	if err := validateFields(input.FirstName, input.LastName, input.PhoneNumber, input.Email); err != nil {
		return Customer{}, err
	}

	existing, err := s.repo.FindByID(id)
	if err != nil {
		return Customer{}, err
	}

	existing.FirstName = strings.TrimSpace(input.FirstName)
	existing.LastName = strings.TrimSpace(input.LastName)
	existing.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	existing.Email = strings.TrimSpace(input.Email)

	saved, err := s.repo.Save(existing)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, ErrConflict) {
		return Customer{}, err
	}

	exists, checkErr := s.repo.Exists(id)
	if checkErr != nil {
		return Customer{}, checkErr
	}
	if !exists {
		return Customer{}, ErrNotFound
	}
	return Customer{}, err
}

func (s *service) Delete(id string, actor authz.Actor) error {
	if !actor.Admin {
		return authz.ErrForbidden
	}

	err := s.repo.Delete(id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
