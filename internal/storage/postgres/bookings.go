package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/norrbil/rentals/internal/domain/bookings"
	"github.com/norrbil/rentals/internal/domain/cars"
	"github.com/norrbil/rentals/internal/domain/customers"
)

// BookingRepository persists bookings in Postgres. Reads join the car and,
// when present, the customer.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingQuery = `
        SELECT b.id,
               b.car_id,
               COALESCE(b.customer_id::text, ''),
               COALESCE(b.application_user_id::text, ''),
               b.start_date,
               b.end_date,
               b.created_at,
               b.updated_at,
               ca.brand, ca.model, ca.color, ca.is_available, ca.image_url,
               cu.id, cu.first_name, cu.last_name, cu.phone_number, cu.email
          FROM bookings b
          JOIN cars ca ON ca.id = b.car_id
          LEFT JOIN customers cu ON cu.id = b.customer_id
`

func scanBooking(row interface{ Scan(...any) error }) (bookings.Booking, error) {
	var (
		b        bookings.Booking
		car      cars.Car
		custID   sql.NullString
		custFN   sql.NullString
		custLN   sql.NullString
		custTel  sql.NullString
		custMail sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.CarID,
		&b.CustomerID,
		&b.ApplicationUserID,
		&b.StartDate,
		&b.EndDate,
		&b.CreatedAt,
		&b.UpdatedAt,
		&car.Brand, &car.Model, &car.Color, &car.IsAvailable, &car.ImageURL,
		&custID, &custFN, &custLN, &custTel, &custMail,
	)
	if err != nil {
		return bookings.Booking{}, err
	}

	car.ID = b.CarID
	b.Car = &car

	if custID.Valid {
		b.Customer = &customers.Customer{
			ID:                custID.String,
			ApplicationUserID: b.ApplicationUserID,
			FirstName:         custFN.String,
			LastName:          custLN.String,
			PhoneNumber:       custTel.String,
			Email:             custMail.String,
		}
	}

	return b, nil
}

// FindByID fetches a booking with joined car and customer.
func (r *BookingRepository) FindByID(id string) (bookings.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(bookingQuery+` WHERE b.id::text = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bookings.Booking{}, bookings.ErrNotFound
		}
		return bookings.Booking{}, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

// List returns all bookings ordered by creation.
func (r *BookingRepository) List() ([]bookings.Booking, error) {
	return r.list(bookingQuery + ` ORDER BY b.created_at`)
}

// ListByUser returns bookings owned by the given identity user.
func (r *BookingRepository) ListByUser(userID string) ([]bookings.Booking, error) {
	return r.list(bookingQuery+` WHERE b.application_user_id::text = $1 ORDER BY b.created_at`, userID)
}

func (r *BookingRepository) list(query string, args ...any) ([]bookings.Booking, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var result []bookings.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Save inserts or updates booking data. An update against a row that
// vanished reports bookings.ErrConflict.
func (r *BookingRepository) Save(booking bookings.Booking) (bookings.Booking, error) {
	now := time.Now().UTC()
	booking.Car = nil
	booking.Customer = nil

	if booking.ID == "" {
		const insert = `
            INSERT INTO bookings (car_id, customer_id, application_user_id, start_date, end_date, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			booking.CarID,
			nullIfEmpty(booking.CustomerID),
			nullIfEmpty(booking.ApplicationUserID),
			booking.StartDate,
			booking.EndDate,
			now,
			now,
		).Scan(&booking.ID); err != nil {
			return bookings.Booking{}, fmt.Errorf("insert booking: %w", err)
		}
		booking.CreatedAt = now
		booking.UpdatedAt = now
		return booking, nil
	}

	const update = `
        UPDATE bookings
           SET car_id = $2,
               customer_id = $3,
               application_user_id = $4,
               start_date = $5,
               end_date = $6,
               updated_at = $7
         WHERE id::text = $1
        RETURNING created_at
    `

	var created time.Time
	err := r.db.QueryRow(update,
		booking.ID,
		booking.CarID,
		nullIfEmpty(booking.CustomerID),
		nullIfEmpty(booking.ApplicationUserID),
		booking.StartDate,
		booking.EndDate,
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bookings.Booking{}, bookings.ErrConflict
		}
		return bookings.Booking{}, fmt.Errorf("update booking: %w", err)
	}
	booking.CreatedAt = created
	booking.UpdatedAt = now
	return booking, nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM bookings WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected == 0 {
		return bookings.ErrNotFound
	}
	return nil
}

// Exists reports whether a booking with the id is stored.
func (r *BookingRepository) Exists(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM bookings WHERE id::text = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("booking exists: %w", err)
	}
	return exists, nil
}

// Count returns the number of bookings.
func (r *BookingRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// Overlaps reports whether another booking reserves the car for a range
// intersecting [start, end).
func (r *BookingRepository) Overlaps(carID string, start, end time.Time, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1
              FROM bookings
             WHERE car_id::text = $1
               AND start_date < $3
               AND end_date > $2
               AND ($4 = '' OR id::text <> $4)
        )
    `

	var exists bool
	if err := r.db.QueryRow(query, carID, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("booking overlap check: %w", err)
	}
	return exists, nil
}

var _ bookings.Repository = (*BookingRepository)(nil)
