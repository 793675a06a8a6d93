package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/geo"
	"carpool/internal/repositories"
	"carpool/internal/validate"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

type TripService struct {
	Trips  repositories.TripRepository
	Geo    *geo.Client
	Logger *slog.Logger
	Now    func() time.Time
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListQuery is the parsed listing request.
type ListQuery struct {
	Page        int
	Limit       int
	Origin      string
	Destination string
	MinPrice    *float64
	MaxPrice    *float64
	IncludePast bool
}

// TripPage is one page of the listing plus pagination metadata. Totals come
// from a separate count query and may be stale under concurrent writes.
type TripPage struct {
	Items      []models.Trip     `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s TripService) List(ctx context.Context, q ListQuery) (TripPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	filters := models.TripFilters{
		Origin:      q.Origin,
		Destination: q.Destination,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		FutureOnly:  !q.IncludePast,
	}

	items, err := s.Trips.List(ctx, filters, q.Page, q.Limit)
	if err != nil {
		return TripPage{}, err
	}
	total, err := s.Trips.Count(ctx, filters)
	if err != nil {
		return TripPage{}, err
	}

	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}
	return TripPage{
		Items: items,
		Pagination: domain.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// TripDetail is a trip plus the flags the detail page renders from.
type TripDetail struct {
	Trip       models.Trip `json:"trip"`
	IsPastTrip bool        `json:"isPastTrip"`
	CanBook    bool        `json:"canBook"`
}

// Detail fetches one trip with driver profile and route geometry. Geometry
// resolution order: stored geometry, then on-demand geocoding of both
// endpoints into a two-point line, else absent.
func (s TripService) Detail(ctx context.Context, idRaw, callerID string) (TripDetail, error) {
	id := strings.TrimSpace(idRaw)
	if !validate.UUID(id) {
		return TripDetail{}, domain.ValidationError{Field: "trip_id", Msg: "not a valid id"}
	}

	trip, err := s.Trips.GetByID(ctx, id)
	if err != nil {
		return TripDetail{}, err
	}

	if trip.Route == nil {
		trip.Route = s.deriveRoute(ctx, trip)
	}

	now := s.now()
	past := trip.IsPast(now)
	return TripDetail{
		Trip:       trip,
		IsPastTrip: past,
		CanBook:    callerID != "" && callerID != trip.DriverID && !past && trip.AvailableSeats > 0,
	}, nil
}

// deriveRoute geocodes the endpoint texts into a straight two-point line.
// Best-effort: any miss leaves the geometry absent and the map unrendered.
func (s TripService) deriveRoute(ctx context.Context, trip models.Trip) *domain.RouteGeometry {
	if s.Geo == nil || strings.TrimSpace(trip.Origin) == "" || strings.TrimSpace(trip.Destination) == "" {
		return nil
	}

	origin, ok := s.geocodePoint(ctx, trip.Origin)
	if !ok {
		return nil
	}
	dest, ok := s.geocodePoint(ctx, trip.Destination)
	if !ok {
		return nil
	}

	return &domain.RouteGeometry{
		Line: domain.NewLineString(
			[2]float64{origin.Lng, origin.Lat},
			[2]float64{dest.Lng, dest.Lat},
		),
		Origin:      origin,
		Destination: dest,
	}
}

func (s TripService) geocodePoint(ctx context.Context, address string) (domain.Coord, bool) {
	resp, err := s.Geo.Geocode(ctx, address, 1)
	if err != nil || resp.Match == nil {
		if err != nil {
			s.Logger.Warn("on-demand geocode failed", "address", address, "error", err)
		}
		return domain.Coord{}, false
	}
	return domain.Coord{Lat: resp.Match.Lat, Lng: resp.Match.Lng}, true
}

// Create publishes a new trip for the driver, enriching it with provider
// route geometry when the endpoints geocode cleanly.
func (s TripService) Create(ctx context.Context, driverID string, in models.TripInput) (models.Trip, error) {
	if err := validate.Struct(in); err != nil {
		return models.Trip{}, err
	}
	if !in.DepartureAt.After(s.now()) {
		return models.Trip{}, domain.ValidationError{Field: "departureAt", Msg: "must be in the future"}
	}

	trip := models.Trip{
		ID:             uuid.NewString(),
		DriverID:       driverID,
		Origin:         strings.TrimSpace(in.Origin),
		Destination:    strings.TrimSpace(in.Destination),
		DepartureAt:    in.DepartureAt,
		AvailableSeats: in.Seats,
		Price:          in.Price,
		Description:    strings.TrimSpace(in.Description),
	}
	trip.Route = s.enrichRoute(ctx, trip)

	if err := s.Trips.Create(ctx, trip); err != nil {
		return models.Trip{}, err
	}
	return trip, nil
}

func (s TripService) enrichRoute(ctx context.Context, trip models.Trip) *domain.RouteGeometry {
	rg := s.deriveRoute(ctx, trip)
	if rg == nil || s.Geo == nil {
		return rg
	}
	route, err := s.Geo.Route(ctx, rg.Origin, rg.Destination)
	if err != nil {
		return rg
	}
	rg.Line = route.Geometry
	return rg
}
