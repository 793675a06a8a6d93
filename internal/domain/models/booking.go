package models

import "time"

// Booking reserves exactly one seat on a trip for a passenger. At most one
// row may exist per (trip, passenger); rows are never updated.
type Booking struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	PassengerID string    `json:"passengerId"`
	BookedAt    time.Time `json:"bookedAt"`
}

// BookingSummary is a booking joined with the trip fields a listing row needs.
type BookingSummary struct {
	Booking
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DepartureAt time.Time `json:"departureAt"`
	Price       *float64  `json:"price,omitempty"`
}

// BookingConfirmation is what a successful booking returns to the caller.
type BookingConfirmation struct {
	Booking Booking  `json:"booking"`
	Trip    Trip     `json:"trip"`
	Driver  *Profile `json:"driver,omitempty"`
}
