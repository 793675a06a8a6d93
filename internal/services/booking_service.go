package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/auth"
	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/events"
	"carpool/internal/observability"
	"carpool/internal/repositories"
)

// BookingService orchestrates the seat-reservation workflow. The eligibility
// reads are advisory fast-paths for friendly errors; the transaction inside
// BookingRepository.Book is what actually guarantees the seat invariants.
type BookingService struct {
	Profiles repositories.ProfileRepository
	Trips    repositories.TripRepository
	Bookings repositories.BookingRepository
	Events   *events.Publisher
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Book attempts to reserve one seat on the trip for the caller.
func (s BookingService) Book(ctx context.Context, caller auth.Identity, tripIDRaw string) (models.BookingConfirmation, error) {
	start := s.now()

	tripID := strings.TrimSpace(tripIDRaw)
	if _, err := uuid.Parse(tripID); err != nil {
		return models.BookingConfirmation{}, domain.ValidationError{Field: "trip_id", Msg: "not a valid id", Err: err}
	}

	// Profile row must exist before the booking can reference it; creation
	// is idempotent so a retried request cannot fail here spuriously.
	if err := s.Profiles.Ensure(ctx, caller.UserID, caller.Name); err != nil {
		s.Logger.Error("profile ensure failed", "user_id", caller.UserID, "error", err)
		return models.BookingConfirmation{}, s.count("profile_failed", err)
	}

	trip, err := s.Trips.GetByID(ctx, tripID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.BookingConfirmation{}, s.count("trip_not_found", err)
		}
		s.Logger.Error("trip lookup failed", "trip_id", tripID, "error", err)
		return models.BookingConfirmation{}, s.count("store_error", err)
	}

	if trip.DriverID == caller.UserID {
		return models.BookingConfirmation{}, s.count(domain.CodeSelfBooking,
			domain.EligibilityError{Code: domain.CodeSelfBooking, Msg: "drivers cannot book their own trip"})
	}
	if trip.AvailableSeats <= 0 {
		return models.BookingConfirmation{}, s.count(domain.CodeNoSeats,
			domain.EligibilityError{Code: domain.CodeNoSeats, Msg: "no seats available"})
	}
	if exists, err := s.Bookings.Exists(ctx, tripID, caller.UserID); err != nil {
		s.Logger.Error("booking existence check failed", "trip_id", tripID, "error", err)
		return models.BookingConfirmation{}, s.count("store_error", err)
	} else if exists {
		return models.BookingConfirmation{}, s.count(domain.CodeAlreadyBooked,
			domain.EligibilityError{Code: domain.CodeAlreadyBooked, Msg: "already booked"})
	}

	booking, err := s.Bookings.Book(ctx, uuid.NewString(), tripID, caller.UserID)
	if err != nil {
		if code := domain.EligibilityCode(err); code != "" {
			return models.BookingConfirmation{}, s.count(code, err)
		}
		s.Logger.Error("booking write failed", "trip_id", tripID, "user_id", caller.UserID, "error", err)
		return models.BookingConfirmation{}, s.count("booking_failed", err)
	}

	observability.BookingsTotal.WithLabelValues("confirmed").Inc()
	observability.BookingLatency.Observe(s.now().Sub(start).Seconds())
	s.Logger.Info("booking confirmed",
		"booking_id", booking.ID, "trip_id", tripID, "passenger_id", caller.UserID)

	if s.Events != nil {
		go s.Events.PublishBookingConfirmed(events.BookingConfirmed{
			BookingID:   booking.ID,
			TripID:      booking.TripID,
			PassengerID: booking.PassengerID,
			BookedAt:    booking.BookedAt,
		})
	}

	trip.AvailableSeats--
	return models.BookingConfirmation{
		Booking: booking,
		Trip:    trip,
		Driver:  trip.Driver,
	}, nil
}

// ListForPassenger returns the caller's bookings, newest first.
func (s BookingService) ListForPassenger(ctx context.Context, passengerID string) ([]models.BookingSummary, error) {
	return s.Bookings.ListByPassenger(ctx, passengerID)
}

// Get returns a booking the caller owns; anyone else sees not-found.
func (s BookingService) Get(ctx context.Context, bookingID, callerID string) (models.BookingConfirmation, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	if b.PassengerID != callerID {
		return models.BookingConfirmation{}, domain.NotFoundError{Resource: "booking"}
	}
	trip, err := s.Trips.GetByID(ctx, b.TripID)
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	return models.BookingConfirmation{Booking: b, Trip: trip, Driver: trip.Driver}, nil
}

func (s BookingService) count(outcome string, err error) error {
	observability.BookingsTotal.WithLabelValues(outcome).Inc()
	return err
}
