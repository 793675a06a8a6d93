package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"carpool/internal/domain"
	"carpool/internal/repositories"
)

func newService(t *testing.T) (Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := Service{
		Users:    repositories.UserRepository{DB: db},
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return svc, mock, func() { db.Close() }
}

func userRow(id, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "status", "created_at"}).
		AddRow(id, "Test User", "test@example.com", "x", status, time.Now())
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	svc, mock, done := newService(t)
	defer done()

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	mock.ExpectQuery("FROM users").
		WithArgs("user-1").
		WillReturnRows(userRow("user-1", "active"))

	id, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "test@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc, _, done := newService(t)
	defer done()

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = svc.Validate(context.Background(), token+"x")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsEmptyToken(t *testing.T) {
	svc, _, done := newService(t)
	defer done()

	if _, err := svc.Validate(context.Background(), ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty token, got %v", err)
	}
}

func TestValidateRejectsDisabledAccount(t *testing.T) {
	svc, mock, done := newService(t)
	defer done()

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	mock.ExpectQuery("FROM users").
		WithArgs("user-1").
		WillReturnRows(userRow("user-1", "disabled"))

	if _, err := svc.Validate(context.Background(), token); err == nil {
		t.Fatalf("disabled account must not validate")
	}
}

func TestValidateRejectsUnknownAccount(t *testing.T) {
	svc, mock, done := newService(t)
	defer done()

	token, err := svc.Issue("ghost")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	mock.ExpectQuery("FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := svc.Validate(context.Background(), token); !domain.IsValidation(err) {
		t.Fatalf("unknown account must fail validation, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc, _, done := newService(t)
	defer done()

	svc.TokenTTL = -time.Minute
	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if _, err := svc.Validate(context.Background(), token); !domain.IsValidation(err) {
		t.Fatalf("expired token must fail validation, got %v", err)
	}
}
