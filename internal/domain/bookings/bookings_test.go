package bookings_test

import (
	"errors"
	"testing"
	"time"

	"github.com/norrbil/rentals/internal/domain/authz"
	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/validation"
	"github.com/norrbil/rentals/internal/storage/memory"
)

var admin = authz.Actor{UserID: "admin-1", Admin: true}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	carRepo      *memory.CarRepository
	customerRepo *memory.CustomerRepository
	svc          bookings.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	carRepo := memory.NewCarRepository()
	customerRepo := memory.NewCustomerRepository()
	repo := memory.NewBookingRepository(carRepo, customerRepo)
	return fixture{
		carRepo:      carRepo,
		customerRepo: customerRepo,
		svc:          bookings.NewService(repo, carRepo, customerRepo),
	}
}

func (f fixture) addCar(t *testing.T, brand, model, color string) cars.Car {
	t.Helper()
	car, err := f.carRepo.Save(cars.Car{Brand: brand, Model: model, Color: color, IsAvailable: true})
	if err != nil {
		t.Fatalf("seed car failed: %v", err)
	}
	return car
}

func (f fixture) addCustomer(t *testing.T, userID, email string) customers.Customer {
	t.Helper()
	customer, err := f.customerRepo.Save(customers.Customer{
		ApplicationUserID: userID,
		FirstName:         "Test",
		LastName:          "Customer",
		Email:             email,
	})
	if err != nil {
		t.Fatalf("seed customer failed: %v", err)
	}
	return customer
}

func TestBookingCreateRequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "V90", "Silver")

	input := bookings.Input{CarID: car.ID, StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 3)}
	if _, err := f.svc.Create(input, authz.Anonymous); !errors.Is(err, authz.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestBookingCreateWithoutCustomerProfile(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "V90", "Silver")

	actor := authz.Actor{UserID: "user-1"}
	input := bookings.Input{CarID: car.ID, StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 3)}
	if _, err := f.svc.Create(input, actor); !errors.Is(err, bookings.ErrCustomerRequired) {
		t.Fatalf("expected ErrCustomerRequired, got %v", err)
	}
}

func TestBookingCreatePinsOwnership(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "V90", "Silver")
	mine := f.addCustomer(t, "user-1", "me@example.com")
	other := f.addCustomer(t, "user-2", "other@example.com")

	actor := authz.Actor{UserID: "user-1", CustomerID: mine.ID}

	// Whatever customer the payload claims, the booking lands on the caller.
	input := bookings.Input{
		CarID:      car.ID,
		CustomerID: other.ID,
		StartDate:  date(2026, 9, 1),
		EndDate:    date(2026, 9, 3),
	}
	created, err := f.svc.Create(input, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CustomerID != mine.ID {
		t.Fatalf("expected booking pinned to caller's customer %s, got %s", mine.ID, created.CustomerID)
	}
	if created.ApplicationUserID != "user-1" {
		t.Fatalf("expected booking pinned to caller's user, got %q", created.ApplicationUserID)
	}
}

func TestBookingCreateAdminDerivesUserLink(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Saab", "9-5", "Blue")
	customer := f.addCustomer(t, "user-7", "linked@example.com")

	input := bookings.Input{
		CarID:      car.ID,
		CustomerID: customer.ID,
		StartDate:  date(2026, 9, 10),
		EndDate:    date(2026, 9, 12),
	}
	created, err := f.svc.Create(input, admin)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ApplicationUserID != "user-7" {
		t.Fatalf("expected user link derived from customer, got %q", created.ApplicationUserID)
	}

	// Unknown customer is a field error, not a 404.
	input.CustomerID = "no-such-customer"
	input.StartDate = date(2026, 10, 1)
	input.EndDate = date(2026, 10, 2)
	_, err = f.svc.Create(input, admin)
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["customer_id"] != "unknown customer" {
		t.Fatalf("expected unknown customer failure, got %v", verr.Fields)
	}
}

func TestBookingCreateUnknownCar(t *testing.T) {
	f := newFixture(t)
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	input := bookings.Input{CarID: "no-such-car", StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 3)}
	_, err := f.svc.Create(input, actor)
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["car_id"] != "unknown car" {
		t.Fatalf("expected unknown car failure, got %v", verr.Fields)
	}
}

func TestBookingCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	if _, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 10),
		EndDate:   date(2026, 9, 15),
	}, actor); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Overlapping window on the same car is rejected.
	if _, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 14),
		EndDate:   date(2026, 9, 18),
	}, actor); !errors.Is(err, bookings.ErrDatesUnavailable) {
		t.Fatalf("expected ErrDatesUnavailable, got %v", err)
	}

	// Back-to-back is allowed: return day and pickup day may coincide.
	if _, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 15),
		EndDate:   date(2026, 9, 18),
	}, actor); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}

	// A different car is unaffected.
	other := f.addCar(t, "Volvo", "V60", "Red")
	if _, err := f.svc.Create(bookings.Input{
		CarID:     other.ID,
		StartDate: date(2026, 9, 14),
		EndDate:   date(2026, 9, 18),
	}, actor); err != nil {
		t.Fatalf("booking another car failed: %v", err)
	}
}

func TestBookingCreateRejectsReversedDates(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	_, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 10),
		EndDate:   date(2026, 9, 5),
	}, actor)

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["end_date"]; !ok {
		t.Fatalf("expected end_date failure, got %v", verr.Fields)
	}
}

func TestBookingUpdateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	created, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 3),
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := bookings.Input{CarID: car.ID, StartDate: date(2026, 9, 2), EndDate: date(2026, 9, 4)}
	if _, err := f.svc.Update(created.ID, input, actor); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin update, got %v", err)
	}
}

func TestBookingUpdateAfterConcurrentDelete(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	created, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 3),
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Delete(created.ID, admin); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	input := bookings.Input{
		CarID:      car.ID,
		CustomerID: customer.ID,
		StartDate:  date(2026, 9, 2),
		EndDate:    date(2026, 9, 4),
	}
	if _, err := f.svc.Update(created.ID, input, admin); !errors.Is(err, bookings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted booking, got %v", err)
	}
}

func TestBookingDeleteAuthorization(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	owner := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	created, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 3),
	}, owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stranger := authz.Actor{UserID: "user-2", CustomerID: "other"}
	if err := f.svc.Delete(created.ID, stranger); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger delete, got %v", err)
	}

	if err := f.svc.Delete(created.ID, owner); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	// Absent booking deletes are no-ops.
	if err := f.svc.Delete(created.ID, owner); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
}

func TestBookingConfirmationHidesCustomer(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Volvo", "XC60", "Black")
	customer := f.addCustomer(t, "user-1", "me@example.com")
	actor := authz.Actor{UserID: "user-1", CustomerID: customer.ID}

	created, err := f.svc.Create(bookings.Input{
		CarID:     car.ID,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 3),
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	confirmation, err := f.svc.Confirmation(created.ID)
	if err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}
	if confirmation.Customer != nil {
		t.Fatalf("expected confirmation to omit customer details")
	}
	if confirmation.CustomerID != "" || confirmation.ApplicationUserID != "" {
		t.Fatalf("expected confirmation to omit ownership ids, got customer %q user %q",
			confirmation.CustomerID, confirmation.ApplicationUserID)
	}
	if confirmation.Car == nil || confirmation.Car.Model != "XC60" {
		t.Fatalf("expected confirmation to carry the car, got %+v", confirmation.Car)
	}
}

// The full self-service lifecycle: a customer books a car, sees it in their
// own list, an admin reschedules it onto another car, then removes it.
func TestBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	xc60 := f.addCar(t, "Volvo", "XC60", "Black")
	v90 := f.addCar(t, "Volvo", "V90", "Silver")
	customer := f.addCustomer(t, "user-anna", "anna@example.com")
	anna := authz.Actor{UserID: "user-anna", CustomerID: customer.ID}

	created, err := f.svc.Create(bookings.Input{
		CarID:     xc60.ID,
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 5),
	}, anna)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	mine, err := f.svc.ListForUser(anna)
	if err != nil {
		t.Fatalf("list for user failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != created.ID {
		t.Fatalf("expected own booking in list, got %+v", mine)
	}

	other := authz.Actor{UserID: "user-other", CustomerID: "someone-else"}
	theirs, err := f.svc.ListForUser(other)
	if err != nil {
		t.Fatalf("list for other user failed: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("expected no bookings for unrelated user, got %d", len(theirs))
	}

	updated, err := f.svc.Update(created.ID, bookings.Input{
		CarID:      v90.ID,
		CustomerID: customer.ID,
		StartDate:  date(2026, 10, 1),
		EndDate:    date(2026, 10, 5),
	}, admin)
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.CarID != v90.ID {
		t.Fatalf("expected booking moved to %s, got %s", v90.ID, updated.CarID)
	}
	if updated.ApplicationUserID != "user-anna" {
		t.Fatalf("expected user link preserved, got %q", updated.ApplicationUserID)
	}

	if err := f.svc.Delete(created.ID, admin); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := f.svc.Get(created.ID); !errors.Is(err, bookings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
