package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Service issues and validates session tokens. Validation always goes back to
// the account store so deactivated users are cut off; the optional cache
// bounds that round trip to one per TTL.
type Service struct {
	Users    repositories.UserRepository
	Secret   []byte
	TokenTTL time.Duration
	Cache    *SessionCache
	Logger   *slog.Logger
}

func (s Service) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.TokenTTL).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString(s.Secret)
}

// Validate checks the token signature and expiry, then confirms the account
// still exists and is active.
func (s Service) Validate(ctx context.Context, tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, domain.ValidationError{Field: "token", Msg: "missing"}
	}

	if s.Cache != nil {
		if id, ok := s.Cache.Get(ctx, tokenString); ok {
			return id, nil
		}
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, domain.ValidationError{Field: "token", Msg: "invalid", Err: err}
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, domain.ValidationError{Field: "token", Msg: "invalid subject", Err: err}
	}

	user, err := s.Users.GetByID(ctx, sub)
	if err != nil {
		if domain.IsNotFound(err) {
			return Identity{}, domain.ValidationError{Field: "token", Msg: "unknown account"}
		}
		return Identity{}, err
	}
	if user.Status != models.UserStatusActive {
		return Identity{}, domain.ValidationError{Field: "token", Msg: "account disabled"}
	}

	id := Identity{UserID: user.ID, Name: user.Name, Email: user.Email}
	if s.Cache != nil {
		s.Cache.Set(ctx, tokenString, id)
	}
	return id, nil
}
