package customers_test

import (
	"errors"
	"testing"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/validation"
	"github.com/norrbil/rentals/internal/storage/memory"
)

var admin = authz.Actor{UserID: "admin-1", Admin: true}

func validInput() customers.CreateInput {
	return customers.CreateInput{
		FirstName:   "Anna",
		LastName:    "Andersson",
		PhoneNumber: "070-555-0101",
		Email:       "anna@example.com",
	}
}

func TestCustomerServiceSelfServiceSignupLinksUser(t *testing.T) {
	svc := customers.NewService(memory.NewCustomerRepository())

	actor := authz.Actor{UserID: "user-1"}
	created, err := svc.Create(validInput(), actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ApplicationUserID != "user-1" {
		t.Fatalf("expected customer linked to user-1, got %q", created.ApplicationUserID)
	}

	// A second profile for the same user is refused.
	input := validInput()
	input.Email = "anna2@example.com"
	if _, err := svc.Create(input, actor); !errors.Is(err, customers.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestCustomerServiceAdminCreateStaysUnlinked(t *testing.T) {
	svc := customers.NewService(memory.NewCustomerRepository())

	first, err := svc.Create(validInput(), admin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ApplicationUserID != "" {
		t.Fatalf("expected admin-created customer to stay unlinked, got %q", first.ApplicationUserID)
	}

	// Admins are not subject to the one-profile rule.
	input := validInput()
	input.Email = "bert@example.com"
	if _, err := svc.Create(input, admin); err != nil {
		t.Fatalf("second admin create failed: %v", err)
	}
}

func TestCustomerServiceValidation(t *testing.T) {
	svc := customers.NewService(memory.NewCustomerRepository())

	input := validInput()
	input.Email = "not-an-email"
	_, err := svc.Create(input, admin)

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["email"]; !ok {
		t.Fatalf("expected email failure, got %v", verr.Fields)
	}
}

func TestCustomerServiceListRequiresAdmin(t *testing.T) {
	repo := memory.NewCustomerRepository()
	svc := customers.NewService(repo)

	if _, err := svc.Create(validInput(), admin); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.List(authz.Actor{UserID: "user-1"}); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin list, got %v", err)
	}

	list, err := svc.List(admin)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(list))
	}
}

func TestCustomerServiceUpdateAuthorization(t *testing.T) {
	svc := customers.NewService(memory.NewCustomerRepository())

	owner := authz.Actor{UserID: "user-1"}
	created, err := svc.Create(validInput(), owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	owner.CustomerID = created.ID

	input := customers.UpdateInput{
		FirstName:   "Anna",
		LastName:    "Larsson",
		PhoneNumber: "070-555-0101",
		Email:       "anna@example.com",
	}

	updated, err := svc.Update(created.ID, input, owner)
	if err != nil {
		t.Fatalf("self update failed: %v", err)
	}
	if updated.LastName != "Larsson" {
		t.Fatalf("expected last name updated, got %q", updated.LastName)
	}
	if updated.ApplicationUserID != "user-1" {
		t.Fatalf("expected user link preserved across update, got %q", updated.ApplicationUserID)
	}

	stranger := authz.Actor{UserID: "user-2", CustomerID: "other-customer"}
	if _, err := svc.Update(created.ID, input, stranger); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger update, got %v", err)
	}

	if _, err := svc.Update(created.ID, input, admin); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestCustomerServiceDelete(t *testing.T) {
	svc := customers.NewService(memory.NewCustomerRepository())

	created, err := svc.Create(validInput(), admin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(created.ID, authz.Actor{UserID: "user-1"}); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin delete, got %v", err)
	}
	if err := svc.Delete(created.ID, admin); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(created.ID, admin); err != nil {
		t.Fatalf("expected repeated delete to be a no-op, got %v", err)
	}
	if _, err := svc.Get(created.ID, admin); !errors.Is(err, customers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
