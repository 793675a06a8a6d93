package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
)

type ProfileRepository struct {
	DB *sql.DB
}

func (r ProfileRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Profile
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(full_name,''), COALESCE(phone,''), COALESCE(avatar_url,''), COALESCE(bio,''), created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id).Scan(&p.ID, &p.FullName, &p.Phone, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, domain.NotFoundError{Resource: "profile", Err: err}
	}
	if err != nil {
		return models.Profile{}, storeErr("profiles.get", err)
	}
	return p, nil
}

// Ensure creates the profile row if it does not exist yet. Safe to call on
// every booking attempt.
func (r ProfileRepository) Ensure(ctx context.Context, id, fullName string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, created_at, updated_at)
		VALUES (?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE id = id
	`, id, strings.TrimSpace(fullName))
	if err != nil {
		return storeErr("profiles.ensure", err)
	}
	return nil
}

func (r ProfileRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, strings.TrimSpace(*upd.FullName))
	}
	if upd.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, strings.TrimSpace(*upd.Phone))
	}
	if upd.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, strings.TrimSpace(*upd.AvatarURL))
	}
	if upd.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, *upd.Bio)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return storeErr("profiles.update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "profile"}
	}
	return nil
}
