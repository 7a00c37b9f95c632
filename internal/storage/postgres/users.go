package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/norrbil/rentals/internal/domain/identity"
)

// UserRepository persists identity users in Postgres.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a postgres-backed user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(id string) (identity.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, created_at, updated_at
          FROM users
         WHERE id::text = $1
    `
	var u identity.User
	err := r.db.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.User{}, identity.ErrNotFound
		}
		return identity.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(email string) (identity.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, created_at, updated_at
          FROM users
         WHERE LOWER(email) = LOWER($1)
    `
	var u identity.User
	err := r.db.QueryRow(query, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.User{}, identity.ErrNotFound
		}
		return identity.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Save(user identity.User) (identity.User, error) {
	now := time.Now().UTC()

	if user.ID == "" {
		const insert = `
            INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id
        `
		if err := r.db.QueryRow(insert,
			strings.ToLower(user.Email),
			user.Name,
			user.PasswordHash,
			string(user.Role),
			now,
			now,
		).Scan(&user.ID); err != nil {
			return identity.User{}, fmt.Errorf("insert user: %w", err)
		}
		user.CreatedAt = now
		user.UpdatedAt = now
		return user, nil
	}

	const update = `
        UPDATE users
           SET email = $2,
               name = $3,
               password_hash = $4,
               role = $5,
               updated_at = $6
         WHERE id::text = $1
        RETURNING created_at
    `
	var created time.Time
	err := r.db.QueryRow(update,
		user.ID,
		strings.ToLower(user.Email),
		user.Name,
		user.PasswordHash,
		string(user.Role),
		now,
	).Scan(&created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.User{}, identity.ErrNotFound
		}
		return identity.User{}, fmt.Errorf("update user: %w", err)
	}
	user.CreatedAt = created
	user.UpdatedAt = now
	return user, nil
}

var _ identity.Repository = (*UserRepository)(nil)
