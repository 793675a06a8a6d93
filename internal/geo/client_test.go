package geo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"carpool/internal/config"
	"carpool/internal/domain"
)

func testClient(t *testing.T, base string) *Client {
	t.Helper()
	c := NewClient(config.Config{
		NominatimBaseURL: base,
		ORSBaseURL:       base,
		GeocodeTimeout:   2 * time.Second,
		RouteTimeout:     2 * time.Second,
		FetchTimeout:     2 * time.Second,
		FetchRetries:     2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.retryDelay = 5 * time.Millisecond
	return c
}

func TestFetchRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	resp, err := c.Geocode(context.Background(), "somewhere", 1)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if resp.Match != nil || len(resp.Suggestions) != 0 {
		t.Fatalf("empty upstream result should yield empty suggestions, got %+v", resp)
	}
}

func TestFetchGivesUpAfterConfiguredAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Geocode(context.Background(), "somewhere", 1)
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if !domain.IsUpstream(err) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", calls.Load())
	}
}

func TestFetchDoesNotRetry4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	// a 403 passes fetch through to the decoder; what matters is attempt count
	_, _ = c.Geocode(context.Background(), "somewhere", 1)
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestGeocodeBestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Kadikoy, Istanbul" {
			t.Errorf("unexpected query %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"lat":"40.99","lon":"29.02","display_name":"Kadikoy, Istanbul, Turkiye",
			 "address":{"county":"Kadikoy","state":"Istanbul","country":"Turkiye"}}
		]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	resp, err := c.Geocode(context.Background(), "Kadikoy, Istanbul", 1)
	if err != nil {
		t.Fatalf("geocode error: %v", err)
	}
	if resp.Match == nil {
		t.Fatalf("expected a best match")
	}
	if resp.Match.Lat != 40.99 || resp.Match.Lng != 29.02 {
		t.Fatalf("coords mismatch: %+v", resp.Match)
	}
	if resp.Suggestions != nil {
		t.Fatalf("limit=1 response should not carry suggestions")
	}
}

func TestGeocodeSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"lat":"40.99","lon":"29.02","display_name":"A","address":{"county":"K","state":"I","country":"T"}},
			{"lat":"41.01","lon":"28.97","display_name":"B","address":{"country":"T"}}
		]`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	resp, err := c.Geocode(context.Background(), "istanbul", 5)
	if err != nil {
		t.Fatalf("geocode error: %v", err)
	}
	if resp.Match != nil {
		t.Fatalf("multi-hit response should not pick a single match")
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(resp.Suggestions))
	}
	if resp.Suggestions[0].Region != "I" || resp.Suggestions[1].Country != "T" {
		t.Fatalf("address details not mapped: %+v", resp.Suggestions)
	}
}

func TestGeocodeEmptyAddress(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0")
	_, err := c.Geocode(context.Background(), "   ", 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRouteFallsBackWithoutKey(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0")
	r, err := c.Route(context.Background(), domain.Coord{Lat: 0, Lng: 0}, domain.Coord{Lat: 0, Lng: 1})
	if err != nil {
		t.Fatalf("route must not fail without a key: %v", err)
	}
	if !r.Fallback {
		t.Fatalf("expected fallback route")
	}
}

func TestRouteFallsBackOnProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	c.orsKey = "5b3ce3597851110001cf6248abcDEF-_"
	r, err := c.Route(context.Background(), domain.Coord{Lat: 0, Lng: 0}, domain.Coord{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("provider failure must degrade, not fail: %v", err)
	}
	if !r.Fallback {
		t.Fatalf("expected fallback after provider failure")
	}
}

func TestRouteUsesProviderGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			t.Errorf("provider call without key")
		}
		_, _ = w.Write([]byte(`{
			"features":[{"geometry":{"type":"LineString","coordinates":[[29.0,41.0],[29.1,41.0],[29.2,41.1]]},
				"properties":{"summary":{"distance":18000,"duration":1500}}}],
			"bbox":[29.0,41.0,29.2,41.1]
		}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	c.orsKey = "5b3ce3597851110001cf6248abcDEF-_"
	r, err := c.Route(context.Background(), domain.Coord{Lat: 41.0, Lng: 29.0}, domain.Coord{Lat: 41.1, Lng: 29.2})
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	if r.Fallback {
		t.Fatalf("provider route must not be marked fallback")
	}
	if r.DistanceMeters != 18000 || r.DurationSeconds != 1500 {
		t.Fatalf("summary mismatch: %+v", r)
	}
	if len(r.Geometry.Coordinates) != 3 {
		t.Fatalf("expected provider geometry, got %d points", len(r.Geometry.Coordinates))
	}
}

func TestRouteRejectsInvalidCoords(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0")
	_, err := c.Route(context.Background(), domain.Coord{Lat: 95, Lng: 0}, domain.Coord{Lat: 0, Lng: 0})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
