package cars

import (
	"errors"
	"strings"
	"time"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/validation"
)

var (
	ErrNotImplemented = errors.New("cars repository: not implemented")
	ErrNotFound       = errors.New("car not found")
	// ErrConflict signals that a write lost a race against a concurrent
	// delete or incompatible modification of the same record.
	ErrConflict = errors.New("car modified concurrently")
)

// Car describes a rentable car in the fleet.
type Car struct {
	ID          string    `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	IsAvailable bool      `json:"is_available"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository abstracts persistence for cars.
type Repository interface {
	FindByID(id string) (Car, error)
	List() ([]Car, error)
	Save(car Car) (Car, error)
	Delete(id string) error
	Exists(id string) (bool, error)
	Count() (int, error)
}

// NullRepository stub implementation returning ErrNotImplemented.
type NullRepository struct{}

func (NullRepository) FindByID(string) (Car, error) { return Car{}, ErrNotImplemented }
func (NullRepository) List() ([]Car, error)         { return nil, ErrNotImplemented }
func (NullRepository) Save(Car) (Car, error)        { return Car{}, ErrNotImplemented }
func (NullRepository) Delete(string) error          { return ErrNotImplemented }
func (NullRepository) Exists(string) (bool, error)  { return false, ErrNotImplemented }
func (NullRepository) Count() (int, error)          { return 0, ErrNotImplemented }

// Service defines operations for fleet management. Reads are open to all
// visitors; writes require an admin actor.
type Service interface {
	List() ([]Car, error)
	Get(id string) (Car, error)
	Create(input Input, actor authz.Actor) (Car, error)
	Update(id string, input Input, actor authz.Actor) (Car, error)
	Delete(id string, actor authz.Actor) error
	Count() (int, error)
}

// Input carries the mutable fields of a car. A nil IsAvailable defaults to
// true on create and false on update (full-record replace).
type Input struct {
	Brand       string
	Model       string
	Color       string
	IsAvailable *bool
	ImageURL    string
}

func (in Input) validate() error {
	v := validation.NewError()
	if strings.TrimSpace(in.Brand) == "" {
		v.Add("brand", "is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		v.Add("model", "is required")
	}
	if strings.TrimSpace(in.Color) == "" {
		v.Add("color", "is required")
	}
	if v.Empty() {
		return nil
	}
	return v
}

// NewService creates a car service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

type service struct {
	repo Repository
}

func (s *service) List() ([]Car, error) {
	return s.repo.List()
}

func (s *service) Get(id string) (Car, error) {
	return s.repo.FindByID(id)
}

func (s *service) Count() (int, error) {
	return s.repo.Count()
}

func (s *service) Create(input Input, actor authz.Actor) (Car, error) {
	if !actor.Admin {
		return Car{}, authz.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return Car{}, err
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	car := Car{
		Brand:       strings.TrimSpace(input.Brand),
		Model:       strings.TrimSpace(input.Model),
		Color:       strings.TrimSpace(input.Color),
		IsAvailable: available,
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	return s.repo.Save(car)
}

func (s *service) Update(id string, input Input, actor authz.Actor) (Car, error) {
	if !actor.Admin {
		return Car{}, authz.ErrForbidden
	}
	if err := input.validate(); err != nil {
		return Car{}, err
	}

	available := false
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	car := Car{
		ID:          id,
		Brand:       strings.TrimSpace(input.Brand),
		Model:       strings.TrimSpace(input.Model),
		Color:       strings.TrimSpace(input.Color),
		IsAvailable: available,
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}

	saved, err := s.repo.Save(car)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, ErrConflict) {
		return Car{}, err
	}

	// The write lost a race; report NotFound when the record is simply gone,
	// otherwise surface the conflict to the caller unretried.
	exists, checkErr := s.repo.Exists(id)
	if checkErr != nil {
		return Car{}, checkErr
	}
	if !exists {
		return Car{}, ErrNotFound
	}
	return Car{}, err
}

func (s *service) Delete(id string, actor authz.Actor) error {
	if !actor.Admin {
		return authz.ErrForbidden
	}

	err := s.repo.Delete(id)
	if errors.Is(err, ErrNotFound) {
		// Deleting an absent car is a no-op success.
		return nil
	}
	return err
}
