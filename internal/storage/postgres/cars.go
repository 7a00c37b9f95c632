package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/norrbil/rentals/internal/domain/cars"
)

// CarRepository persists cars in Postgres.
type CarRepository struct {
	db *sql.DB
}

// NewCarRepository constructs the repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{db: db}
}

// FindByID fetches a car by identifier. The id is compared as text so a
// malformed identifier reads as absent rather than a query error.
func (r *CarRepository) FindByID(id string) (cars.Car, error) {
	const query = `
        SELECT id, brand, model, color, is_available, image_url,
               created_at, updated_at
          FROM cars
         WHERE id::text = $1
    `

	var c cars.Car
	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&c.Brand,
		&c.Model,
		&c.Color,
		&c.IsAvailable,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cars.Car{}, cars.ErrNotFound
		}
		return cars.Car{}, fmt.Errorf("find car: %w", err)
	}

	return c, nil
}

// List returns the whole fleet ordered by creation.
func (r *CarRepository) List() ([]cars.Car, error) {
	const query = `
        SELECT id, brand, model, color, is_available, image_url,
               created_at, updated_at
          FROM cars
         ORDER BY created_at
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var result []cars.Car
	for rows.Next() {
		var c cars.Car
		if err := rows.Scan(
			&c.ID,
			&c.Brand,
			&c.Model,
			&c.Color,
			&c.IsAvailable,
			&c.ImageURL,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Save inserts or updates car data. An update against a row that vanished
// reports cars.ErrConflict; the service layer re-checks existence.
func (r *CarRepository) Save(car cars.Car) (cars.Car, error) {
	now := time.Now().UTC()

	if car.ID == "" {
		const insert = `
            INSERT INTO cars (brand, model, color, is_available, image_url, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			car.Brand,
			car.Model,
			car.Color,
			car.IsAvailable,
			car.ImageURL,
			now,
			now,
		).Scan(&car.ID); err != nil {
			return cars.Car{}, fmt.Errorf("insert car: %w", err)
		}
		car.CreatedAt = now
		car.UpdatedAt = now
		return car, nil
	}

	const update = `
        UPDATE cars
           SET brand = $2,
               model = $3,
               color = $4,
               is_available = $5,
               image_url = $6,
               updated_at = $7
         WHERE id::text = $1
        RETURNING created_at
    `

	var created time.Time
	err := r.db.QueryRow(update,
		car.ID,
		car.Brand,
		car.Model,
		car.Color,
		car.IsAvailable,
		car.ImageURL,
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cars.Car{}, cars.ErrConflict
		}
		return cars.Car{}, fmt.Errorf("update car: %w", err)
	}
	car.CreatedAt = created
	car.UpdatedAt = now
	return car, nil
}

// Delete removes a car by identifier.
func (r *CarRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM cars WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if affected == 0 {
		return cars.ErrNotFound
	}
	return nil
}

// Exists reports whether a car with the id is stored.
func (r *CarRepository) Exists(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM cars WHERE id::text = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("car exists: %w", err)
	}
	return exists, nil
}

// Count returns the fleet size.
func (r *CarRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cars: %w", err)
	}
	return n, nil
}

var _ cars.Repository = (*CarRepository)(nil)
