package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
)

// UserRepository is the local face of the auth subsystem's account store.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, status, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, u.ID, strings.TrimSpace(u.Name), strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.Status)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return domain.ValidationError{Field: "email", Msg: "already registered"}
		}
		return storeErr("users.create", err)
	}
	return nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, status, created_at
		FROM users WHERE email = ?
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, storeErr("users.get_by_email", err)
	}
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, status, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, storeErr("users.get", err)
	}
	return u, nil
}
