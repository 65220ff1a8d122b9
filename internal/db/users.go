package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/userdesk/backend/internal/model"
)

// EnsureSchema creates the users table. The UNIQUE constraint on login is the
// authority for uniqueness; application-level lookups are only a fast path.
func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			login TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, name, login, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, name, login, password_hash, role, created_at, updated_at
	`
	var saved model.User
	err := db.Pool.QueryRow(ctx, query, user.ID, user.Name, user.Login, user.PasswordHash, user.Role).Scan(
		&saved.ID,
		&saved.Name,
		&saved.Login,
		&saved.PasswordHash,
		&saved.Role,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (db *Postgres) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `
		SELECT id, name, login, password_hash, role, created_at, updated_at
		FROM users
		WHERE login = $1
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, login))
}

func (db *Postgres) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, name, login, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET name = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, login, password_hash, role, created_at, updated_at
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, user.ID, user.Name, user.PasswordHash))
}

func (db *Postgres) DeleteUser(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, name, login, password_hash, role, created_at, updated_at
		FROM users
		ORDER BY created_at
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Login,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *Postgres) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (db *Postgres) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Login,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
