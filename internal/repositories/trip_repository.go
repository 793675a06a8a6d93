package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

const tripColumns = `
	t.id, t.driver_id, t.origin_text, t.destination_text, t.departure_at,
	t.available_seats, t.price, COALESCE(t.description,''), t.route_geojson,
	t.created_at, t.updated_at,
	p.id, COALESCE(p.full_name,''), COALESCE(p.phone,''), COALESCE(p.avatar_url,''), COALESCE(p.bio,'')`

func (r TripRepository) Create(ctx context.Context, t models.Trip) error {
	var routeJSON sql.NullString
	if t.Route != nil {
		b, err := json.Marshal(t.Route)
		if err != nil {
			return storeErr("trips.create", err)
		}
		routeJSON = sql.NullString{String: string(b), Valid: true}
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO trips (id, driver_id, origin_text, destination_text, departure_at,
			available_seats, price, description, route_geojson, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, t.ID, t.DriverID, t.Origin, t.Destination, t.DepartureAt.UTC(),
		t.AvailableSeats, t.Price, t.Description, routeJSON)
	if err != nil {
		return storeErr("trips.create", err)
	}
	return nil
}

func (r TripRepository) GetByID(ctx context.Context, id string) (models.Trip, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.DB.QueryRowContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		LEFT JOIN profiles p ON p.id = t.driver_id
		WHERE t.id = ?
	`, id)

	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Trip{}, storeErr("trips.get", err)
	}
	return t, nil
}

// List returns a page of trips ordered by departure ascending, each with the
// driver profile summary joined in.
func (r TripRepository) List(ctx context.Context, f models.TripFilters, page, limit int) ([]models.Trip, error) {
	where, args := tripWhere(f)
	args = append(args, limit, (page-1)*limit)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		LEFT JOIN profiles p ON p.id = t.driver_id
		`+where+`
		ORDER BY t.departure_at ASC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, storeErr("trips.list", err)
	}
	defer rows.Close()

	out := make([]models.Trip, 0, limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, storeErr("trips.list", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("trips.list", err)
	}
	return out, nil
}

// Count runs the separate count query for pagination metadata. It can race
// with concurrent writes against List; stale totals are accepted.
func (r TripRepository) Count(ctx context.Context, f models.TripFilters) (int, error) {
	where, args := tripWhere(f)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips t `+where, args...).Scan(&n); err != nil {
		return 0, storeErr("trips.count", err)
	}
	return n, nil
}

func tripWhere(f models.TripFilters) (string, []any) {
	conds := make([]string, 0, 5)
	args := make([]any, 0, 5)

	if v := strings.TrimSpace(f.Origin); v != "" {
		conds = append(conds, "LOWER(t.origin_text) LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.Destination); v != "" {
		conds = append(conds, "LOWER(t.destination_text) LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if f.MinPrice != nil {
		conds = append(conds, "t.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "t.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.FutureOnly {
		conds = append(conds, "t.departure_at > NOW()")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var (
		t         models.Trip
		price     sql.NullFloat64
		routeJSON sql.NullString
		driverID  sql.NullString
		driver    models.Profile
	)
	err := row.Scan(
		&t.ID, &t.DriverID, &t.Origin, &t.Destination, &t.DepartureAt,
		&t.AvailableSeats, &price, &t.Description, &routeJSON,
		&t.CreatedAt, &t.UpdatedAt,
		&driverID, &driver.FullName, &driver.Phone, &driver.AvatarURL, &driver.Bio,
	)
	if err != nil {
		return models.Trip{}, err
	}
	if price.Valid {
		t.Price = &price.Float64
	}
	if routeJSON.Valid && routeJSON.String != "" {
		var rg domain.RouteGeometry
		// unparseable stored geometry is treated as absent
		if err := json.Unmarshal([]byte(routeJSON.String), &rg); err == nil && len(rg.Line.Coordinates) > 0 {
			t.Route = &rg
		}
	}
	if driverID.Valid {
		driver.ID = driverID.String
		t.Driver = &driver
	}
	return t, nil
}
