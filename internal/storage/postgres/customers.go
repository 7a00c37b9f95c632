package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/norrbil/rentals/internal/domain/customers"
)

// CustomerRepository persists customers using a *sql.DB handle.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository returns a repository backed by a pooled DB connection.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
        SELECT id, COALESCE(application_user_id::text, ''), first_name, last_name,
               phone_number, email, raw_password, created_at, updated_at
          FROM customers
`

func scanCustomer(row interface{ Scan(...any) error }) (customers.Customer, error) {
	var c customers.Customer
	err := row.Scan(
		&c.ID,
		&c.ApplicationUserID,
		&c.FirstName,
		&c.LastName,
		&c.PhoneNumber,
		&c.Email,
		&c.RawPassword,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// FindByID fetches a customer by primary key.
func (r *CustomerRepository) FindByID(id string) (customers.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(customerColumns+` WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customers.Customer{}, customers.ErrNotFound
		}
		return customers.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	return c, nil
}

// FindByUserID fetches the customer linked to an identity user.
func (r *CustomerRepository) FindByUserID(userID string) (customers.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(customerColumns+` WHERE application_user_id::text = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customers.Customer{}, customers.ErrNotFound
		}
		return customers.Customer{}, fmt.Errorf("find customer by user: %w", err)
	}
	return c, nil
}

// List returns customers ordered by creation date.
func (r *CustomerRepository) List() ([]customers.Customer, error) {
	rows, err := r.db.Query(customerColumns + ` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var result []customers.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Save inserts or updates a customer record.
func (r *CustomerRepository) Save(customer customers.Customer) (customers.Customer, error) {
	now := time.Now().UTC()

	if customer.ID == "" {
		const insert = `
            INSERT INTO customers (application_user_id, first_name, last_name, phone_number, email, raw_password, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			nullIfEmpty(customer.ApplicationUserID),
			customer.FirstName,
			customer.LastName,
			customer.PhoneNumber,
			customer.Email,
			customer.RawPassword,
			now,
			now,
		).Scan(&customer.ID); err != nil {
			return customers.Customer{}, fmt.Errorf("insert customer: %w", err)
		}
		customer.CreatedAt = now
		customer.UpdatedAt = now
		return customer, nil
	}

	const update = `
        UPDATE customers
           SET application_user_id = $2,
               first_name = $3,
               last_name = $4,
               phone_number = $5,
               email = $6,
               raw_password = $7,
               updated_at = $8
         WHERE id::text = $1
        RETURNING created_at
    `

	var created time.Time
	err := r.db.QueryRow(update,
		customer.ID,
		nullIfEmpty(customer.ApplicationUserID),
		customer.FirstName,
		customer.LastName,
		customer.PhoneNumber,
		customer.Email,
		customer.RawPassword,
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customers.Customer{}, customers.ErrConflict
		}
		return customers.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	customer.CreatedAt = created
	customer.UpdatedAt = now
	return customer, nil
}

// Delete removes a customer by identifier.
func (r *CustomerRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM customers WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if affected == 0 {
		return customers.ErrNotFound
	}
	return nil
}

// Exists reports whether a customer with the id is stored.
func (r *CustomerRepository) Exists(id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM customers WHERE id::text = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}

// Count returns the number of customer records.
func (r *CustomerRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ customers.Repository = (*CustomerRepository)(nil)
