package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carpool/internal/domain"
	"carpool/internal/observability"
)

const orsKeyMinLen = 20

// ValidAPIKey does a cheap format check before any provider call: minimum
// length and a restricted character set. It does not prove the key works.
func ValidAPIKey(key string) bool {
	if len(key) < orsKeyMinLen {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// RoutingConfigured reports whether a plausibly valid provider key is set.
func (c *Client) RoutingConfigured() bool {
	return ValidAPIKey(c.orsKey)
}

type orsResponse struct {
	Features []struct {
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
	BBox []float64 `json:"bbox"`
}

// Route computes driving directions between two points. Provider failures of
// any kind degrade to the straight-line fallback; the caller always gets a
// usable route.
func (c *Client) Route(ctx context.Context, origin, dest domain.Coord) (Route, error) {
	if !ValidCoord(origin) || !ValidCoord(dest) {
		return Route{}, domain.ValidationError{Field: "coordinates", Msg: "out of range"}
	}
	if !c.RoutingConfigured() {
		observability.RouteFallbacks.Inc()
		return FallbackRoute(origin, dest), nil
	}

	route, err := c.providerRoute(ctx, origin, dest)
	if err != nil {
		c.logger.Warn("routing provider failed, using fallback", "error", err)
		observability.RouteFallbacks.Inc()
		return FallbackRoute(origin, dest), nil
	}
	return route, nil
}

func (c *Client) providerRoute(ctx context.Context, origin, dest domain.Coord) (Route, error) {
	payload, err := json.Marshal(map[string]any{
		"coordinates": [][2]float64{
			{origin.Lng, origin.Lat},
			{dest.Lng, dest.Lat},
		},
	})
	if err != nil {
		return Route{}, err
	}

	resp, err := c.fetch(ctx, c.routeTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.orsBase+"/v2/directions/driving-car/geojson", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", c.orsKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Route{}, domain.UpstreamError{Service: "openrouteservice", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, domain.UpstreamError{Service: "openrouteservice", Err: &StatusError{Status: resp.StatusCode}}
	}

	var out orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Route{}, domain.UpstreamError{Service: "openrouteservice", Err: err}
	}
	if len(out.Features) == 0 {
		return Route{}, domain.UpstreamError{Service: "openrouteservice", Err: fmt.Errorf("no route in response")}
	}

	f := out.Features[0]
	route := Route{
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Geometry: domain.LineString{
			Type:        "LineString",
			Coordinates: f.Geometry.Coordinates,
		},
	}
	if len(out.BBox) >= 4 {
		route.BBox = domain.BBox{out.BBox[0], out.BBox[1], out.BBox[2], out.BBox[3]}
	} else {
		route.BBox = bboxOf(origin, dest)
	}
	return route, nil
}

// ProviderStatus is one entry of the health report.
type ProviderStatus struct {
	Status         string `json:"status"` // healthy | unhealthy | not_configured
	ResponseTimeMs int64  `json:"responseTimeMs,omitempty"`
	Error          string `json:"error,omitempty"`
}

// RoutingHealth probes the provider with a trivial authenticated request.
func (c *Client) RoutingHealth(ctx context.Context) ProviderStatus {
	if !c.RoutingConfigured() {
		return ProviderStatus{Status: "not_configured"}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.geocodeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.orsBase+"/v2/health", nil)
	if err != nil {
		return ProviderStatus{Status: "unhealthy", Error: err.Error()}
	}
	req.Header.Set("Authorization", c.orsKey)

	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return ProviderStatus{Status: "unhealthy", ResponseTimeMs: elapsed, Error: err.Error()}
	}
	drainAndClose(resp.Body)
	if resp.StatusCode >= 500 {
		return ProviderStatus{Status: "unhealthy", ResponseTimeMs: elapsed, Error: http.StatusText(resp.StatusCode)}
	}
	return ProviderStatus{Status: "healthy", ResponseTimeMs: elapsed}
}
