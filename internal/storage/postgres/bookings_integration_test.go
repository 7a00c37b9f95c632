//go:build integration

package postgres_test

import (
	"errors"
	"testing"
	"time"

	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
	pgstorage "github.com/norrbil/rentals/internal/storage/postgres"
)

func TestBookingRepositoryIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	carRepo := pgstorage.NewCarRepository(db)
	customerRepo := pgstorage.NewCustomerRepository(db)
	userRepo := pgstorage.NewUserRepository(db)
	repo := pgstorage.NewBookingRepository(db)

	car, err := carRepo.Save(cars.Car{Brand: "Volvo", Model: "V90", Color: "Silver", IsAvailable: true})
	if err != nil {
		t.Fatalf("save car failed: %v", err)
	}
	user, err := userRepo.Save(identity.User{Email: "anna@example.com", Name: "Anna", PasswordHash: "x", Role: identity.RoleCustomer})
	if err != nil {
		t.Fatalf("save user failed: %v", err)
	}
	customer, err := customerRepo.Save(customers.Customer{
		ApplicationUserID: user.ID,
		FirstName:         "Anna",
		LastName:          "Andersson",
		Email:             "anna@example.com",
	})
	if err != nil {
		t.Fatalf("save customer failed: %v", err)
	}

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	created, err := repo.Save(bookings.Booking{
		CarID:             car.ID,
		CustomerID:        customer.ID,
		ApplicationUserID: user.ID,
		StartDate:         start,
		EndDate:           end,
	})
	if err != nil {
		t.Fatalf("save booking failed: %v", err)
	}

	fetched, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find booking failed: %v", err)
	}
	if fetched.Car == nil || fetched.Car.Model != "V90" {
		t.Fatalf("expected joined car, got %+v", fetched.Car)
	}
	if fetched.Customer == nil || fetched.Customer.FirstName != "Anna" {
		t.Fatalf("expected joined customer, got %+v", fetched.Customer)
	}

	mine, err := repo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 booking for user, got %d", len(mine))
	}

	taken, err := repo.Overlaps(car.ID, start.AddDate(0, 0, 2), end.AddDate(0, 0, 2), "")
	if err != nil {
		t.Fatalf("overlaps failed: %v", err)
	}
	if !taken {
		t.Fatalf("expected overlap to be detected")
	}

	// The window itself is free when its own booking is excluded.
	taken, err = repo.Overlaps(car.ID, start, end, created.ID)
	if err != nil {
		t.Fatalf("overlaps failed: %v", err)
	}
	if taken {
		t.Fatalf("expected no overlap when excluding own booking")
	}

	// Adjacent windows do not collide.
	taken, err = repo.Overlaps(car.ID, end, end.AddDate(0, 0, 3), "")
	if err != nil {
		t.Fatalf("overlaps failed: %v", err)
	}
	if taken {
		t.Fatalf("expected back-to-back window to be free")
	}

	if err := repo.Delete(created.ID); err != nil {
		t.Fatalf("delete booking failed: %v", err)
	}

	// Malformed ids read as absent.
	if _, err := repo.FindByID("unknown-id"); !errors.Is(err, bookings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := customerRepo.FindByID("unknown-id"); !errors.Is(err, customers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed customer id, got %v", err)
	}
}
