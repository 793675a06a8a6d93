package models

import (
	"time"

	"carpool/internal/domain"
)

// Trip is a driver-published offer of seats between two locations at a
// scheduled time. AvailableSeats is the one mutable invariant-bearing field;
// it never goes below zero.
type Trip struct {
	ID             string                `json:"id"`
	DriverID       string                `json:"driverId"`
	Origin         string                `json:"origin"`
	Destination    string                `json:"destination"`
	DepartureAt    time.Time             `json:"departureAt"`
	AvailableSeats int                   `json:"availableSeats"`
	Price          *float64              `json:"price,omitempty"`
	Description    string                `json:"description,omitempty"`
	Route          *domain.RouteGeometry `json:"route,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`

	Driver *Profile `json:"driver,omitempty"`
}

// IsPast reports whether the departure is already behind now.
func (t Trip) IsPast(now time.Time) bool {
	return t.DepartureAt.Before(now)
}

// TripInput is the create-trip payload after binding.
type TripInput struct {
	Origin      string    `json:"origin" validate:"required,min=2,max=255"`
	Destination string    `json:"destination" validate:"required,min=2,max=255"`
	DepartureAt time.Time `json:"departureAt" validate:"required"`
	Seats       int       `json:"seats" validate:"required,min=1,max=8"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Description string    `json:"description" validate:"max=2000"`
}

// TripFilters narrows a listing query. FutureOnly defaults to true for the
// public listing; admin/debug callers may clear it.
type TripFilters struct {
	Origin      string
	Destination string
	MinPrice    *float64
	MaxPrice    *float64
	FutureOnly  bool
}
