package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/the-beginners-2025/backend-go/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repositories: not found")

// ErrDuplicateEmail is returned when registration hits the unique
// email constraint.
var ErrDuplicateEmail = errors.New("repositories: email already registered")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its statistics row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, nickname, type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.PasswordHash, user.Nickname, user.Type, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_statistics (user_id) VALUES ($1)`, user.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, nickname, type, created_at, updated_at
		 FROM users WHERE email = $1`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, nickname, type, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

// UpdateProfile changes nickname, email and/or password hash. Empty
// values leave the current column untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, nickname, email, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		     nickname = CASE WHEN $2 <> '' THEN $2 ELSE nickname END,
		     email = CASE WHEN $3 <> '' THEN $3 ELSE email END,
		     password_hash = CASE WHEN $4 <> '' THEN $4 ELSE password_hash END,
		     updated_at = $5
		 WHERE id = $1`,
		id, nickname, email, passwordHash, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every user ordered by creation time, oldest first.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password_hash, nickname, type, created_at, updated_at
		 FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Type, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Type, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
