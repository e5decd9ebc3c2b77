package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/usermgmt/admin-web/internal/models"
)

const userColumns = `id, forename, surname, email, active, date_of_birth`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListByActive returns users filtered on the active flag.
func (r *UserRepository) ListByActive(ctx context.Context, active bool) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE active = ? ORDER BY id`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, active); err != nil {
		return nil, fmt.Errorf("list users by active: %w", err)
	}
	return users, nil
}

// FindByID returns a user by identifier. Unknown ids surface as
// sql.ErrNoRows so callers can distinguish absence from faults.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and assigns the store-generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (forename, surname, email, active, date_of_birth) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Forename, user.Surname, user.Email, user.Active, user.DateOfBirth)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user id: %w", err)
	}
	user.ID = id
	return nil
}

// Update overwrites the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	const query = `UPDATE users SET forename = ?, surname = ?, email = ?, active = ?, date_of_birth = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, user.Forename, user.Surname, user.Email, user.Active, user.DateOfBirth, user.ID); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user. Logs referencing the user are left in place.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
