package models

import "time"

// Profile extends the auth identity with the marketplace-facing fields. The
// id is the auth user id; a row is created on first need (register or first
// booking) and never deleted directly.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate carries partial profile changes; nil means "leave as is".
type ProfileUpdate struct {
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
}
