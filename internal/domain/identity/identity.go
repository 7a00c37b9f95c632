package identity

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/norrbil/rentals/internal/domain/validation"
)

var (
	ErrNotImplemented     = errors.New("identity repository: not implemented")
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Role is a privilege grant on a user record.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents an account in the identity store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Repository defines persistence behaviour for users.
type Repository interface {
	FindByID(id string) (User, error)
	FindByEmail(email string) (User, error)
	Save(user User) (User, error)
}

// NullRepository can be used when no storage is configured.
type NullRepository struct{}

func (NullRepository) FindByID(string) (User, error)    { return User{}, ErrNotImplemented }
func (NullRepository) FindByEmail(string) (User, error) { return User{}, ErrNotImplemented }
func (NullRepository) Save(User) (User, error)          { return User{}, ErrNotImplemented }

// Service exposes account registration and authentication.
type Service interface {
	Register(input RegisterInput) (User, error)
	Authenticate(email, password string) (User, error)
	// AuthenticateAdmin accepts only users holding the admin role. Every
	// failure mode collapses into ErrInvalidCredentials so callers cannot
	// distinguish a missing account from a wrong password or a missing role.
	AuthenticateAdmin(email, password string) (User, error)
	Get(id string) (User, error)
}

// RegisterInput captures data required to create an account.
// An empty Role defaults to RoleCustomer.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     Role
}

type service struct {
	repo Repository
}

// NewService constructs an identity service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(input RegisterInput) (User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	problems := validation.NewError()
	if email == "" {
		problems.Add("email", "is required")
	}
	if len(input.Password) < 8 {
		problems.Add("password", "must be at least 8 characters")
	}
	if !problems.Empty() {
		return User{}, problems
	}

	if _, err := s.repo.FindByEmail(email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotImplemented) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	role := input.Role
	if role == "" {
		role = RoleCustomer
	}

	user := User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		Role:         role,
	}

	return s.repo.Save(user)
}

func (s *service) Authenticate(email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) AuthenticateAdmin(email, password string) (User, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return User{}, err
	}
	if !user.IsAdmin() {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) Get(id string) (User, error) {
	return s.repo.FindByID(id)
}
