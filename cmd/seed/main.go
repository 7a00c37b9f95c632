package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/norrbil/rentals/internal/config"
	"github.com/norrbil/rentals/internal/database"
	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
	"github.com/norrbil/rentals/internal/domain/identity"
	"github.com/norrbil/rentals/internal/logger"
	pgstorage "github.com/norrbil/rentals/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog := logger.New("development")
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logr := logger.New(cfg.Env)

	if cfg.DataBackend != "postgres" {
		logr.Error("seed command requires DATA_BACKEND=postgres")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, database.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		Logger:          logr,
	})
	if err != nil {
		logr.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := database.NewSQLMigrator(db.DB, database.MigrationsFS(), database.MigrationsPath, logr)
	if err := db.RunMigrations(ctx, migrator); err != nil {
		logr.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	carRepo := pgstorage.NewCarRepository(db.DB)
	custRepo := pgstorage.NewCustomerRepository(db.DB)
	bookingRepo := pgstorage.NewBookingRepository(db.DB)
	userRepo := pgstorage.NewUserRepository(db.DB)

	identitySvc := identity.NewService(userRepo)

	admin, err := identitySvc.Register(identity.RegisterInput{
		Email:    "admin@norrbil.se",
		Name:     "Fleet Admin",
		Password: "changeme-admin",
		Role:     identity.RoleAdmin,
	})
	if err != nil {
		logr.Error("failed to seed admin user", "err", err)
		os.Exit(1)
	}

	anna, err := identitySvc.Register(identity.RegisterInput{
		Email:    "anna@example.com",
		Name:     "Anna Andersson",
		Password: "changeme-anna",
	})
	if err != nil {
		logr.Error("failed to seed customer user", "err", err)
		os.Exit(1)
	}

	sampleCars := []cars.Car{
		{Brand: "Volvo", Model: "XC60", Color: "Black", IsAvailable: true},
		{Brand: "Volvo", Model: "V90", Color: "Silver", IsAvailable: true},
		{Brand: "Saab", Model: "9-5", Color: "Blue", IsAvailable: false},
		{Brand: "Polestar", Model: "2", Color: "White", IsAvailable: true},
	}

	createdCars := make([]cars.Car, 0, len(sampleCars))
	for _, c := range sampleCars {
		saved, err := carRepo.Save(c)
		if err != nil {
			logr.Error("failed to seed car", "brand", c.Brand, "model", c.Model, "err", err)
			os.Exit(1)
		}
		createdCars = append(createdCars, saved)
	}

	customer, err := custRepo.Save(customers.Customer{
		ApplicationUserID: anna.ID,
		FirstName:         "Anna",
		LastName:          "Andersson",
		PhoneNumber:       "070-555-0101",
		Email:             "anna@example.com",
	})
	if err != nil {
		logr.Error("failed to seed customer", "email", "anna@example.com", "err", err)
		os.Exit(1)
	}

	start := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	booking, err := bookingRepo.Save(bookings.Booking{
		CarID:             createdCars[0].ID,
		CustomerID:        customer.ID,
		ApplicationUserID: anna.ID,
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, 3),
	})
	if err != nil {
		logr.Error("failed to seed booking", "car_id", createdCars[0].ID, "err", err)
		os.Exit(1)
	}
	logr.Info("seeded booking", "booking_id", booking.ID, "customer_id", customer.ID)

	for _, c := range createdCars {
		fmt.Printf("Car: %s %s, %s (%s)\n", c.Brand, c.Model, c.Color, c.ID)
	}
	fmt.Printf("Customer: %s %s (%s)\n", customer.FirstName, customer.LastName, customer.Email)
	fmt.Printf("Admin login: %s\n", admin.Email)

	logr.Info("seed complete")
}
