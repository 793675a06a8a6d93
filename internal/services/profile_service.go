package services

import (
	"context"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/repositories"
)

type ProfileService struct {
	Profiles repositories.ProfileRepository
}

func (s ProfileService) Get(ctx context.Context, id string) (models.Profile, error) {
	return s.Profiles.GetByID(ctx, id)
}

func (s ProfileService) Update(ctx context.Context, id string, upd models.ProfileUpdate) (models.Profile, error) {
	if upd.FullName != nil && strings.TrimSpace(*upd.FullName) == "" {
		return models.Profile{}, domain.ValidationError{Field: "fullName", Msg: "cannot be empty"}
	}
	if upd.Phone != nil && len(*upd.Phone) > 32 {
		return models.Profile{}, domain.ValidationError{Field: "phone", Msg: "too long"}
	}
	if upd.Bio != nil && len(*upd.Bio) > 2000 {
		return models.Profile{}, domain.ValidationError{Field: "bio", Msg: "too long"}
	}

	if err := s.Profiles.Update(ctx, id, upd); err != nil {
		return models.Profile{}, err
	}
	return s.Profiles.GetByID(ctx, id)
}
