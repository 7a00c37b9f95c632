//go:build integration

package postgres_test

import (
	"errors"
	"testing"

	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
	pgstorage "github.com/norrbil/rentals/internal/storage/postgres"
)

func TestCustomerRepositoryIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := pgstorage.NewCustomerRepository(db)
	userRepo := pgstorage.NewUserRepository(db)

	user, err := userRepo.Save(identity.User{Email: "anna@example.com", Name: "Anna", PasswordHash: "x", Role: identity.RoleCustomer})
	if err != nil {
		t.Fatalf("save user failed: %v", err)
	}

	created, err := repo.Save(customers.Customer{
		ApplicationUserID: user.ID,
		FirstName:         "Anna",
		LastName:          "Andersson",
		PhoneNumber:       "070-555-0101",
		Email:             "anna@example.com",
	})
	if err != nil {
		t.Fatalf("save customer failed: %v", err)
	}

	fetched, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find customer failed: %v", err)
	}
	if fetched.Email != created.Email {
		t.Fatalf("expected email %s, got %s", created.Email, fetched.Email)
	}
	if fetched.ApplicationUserID != user.ID {
		t.Fatalf("expected user link %s, got %s", user.ID, fetched.ApplicationUserID)
	}

	byUser, err := repo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("find by user failed: %v", err)
	}
	if byUser.ID != created.ID {
		t.Fatalf("expected customer %s, got %s", created.ID, byUser.ID)
	}

	// An unlinked customer is not reachable by user lookup.
	unlinked, err := repo.Save(customers.Customer{FirstName: "Bert", LastName: "Berg", Email: "bert@example.com"})
	if err != nil {
		t.Fatalf("save unlinked customer failed: %v", err)
	}
	if unlinked.ApplicationUserID != "" {
		t.Fatalf("expected empty user link, got %q", unlinked.ApplicationUserID)
	}
	if _, err := repo.FindByUserID("00000000-0000-0000-0000-000000000000"); !errors.Is(err, customers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list customers failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(list))
	}
}
