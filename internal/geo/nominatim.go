package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/observability"
)

// Match is the single best geocode hit returned when limit is 1.
type Match struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Suggestion is one entry of a multi-hit geocode response.
type Suggestion struct {
	Address string       `json:"address"`
	Coords  domain.Coord `json:"coords"`
	County  string       `json:"county,omitempty"`
	Region  string       `json:"region,omitempty"`
	Country string       `json:"country,omitempty"`
}

// GeocodeResponse carries either a single match (limit=1) or suggestions.
// Zero hits yield empty suggestions, never an error.
type GeocodeResponse struct {
	Match       *Match       `json:"match,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
}

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		County  string `json:"county"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Geocode resolves a free-text address against Nominatim.
func (c *Client) Geocode(ctx context.Context, address string, limit int) (GeocodeResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return GeocodeResponse{}, domain.ValidationError{Field: "address", Msg: "required"}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 10 {
		limit = 10
	}

	resp, err := c.fetch(ctx, c.geocodeTimeout, func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("q", address)
		q.Set("format", "json")
		q.Set("addressdetails", "1")
		q.Set("limit", strconv.Itoa(limit))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nominatimBase+"/search?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "carpool-backend")
		return req, nil
	})
	if err != nil {
		observability.GeocodeRequests.WithLabelValues("error").Inc()
		return GeocodeResponse{}, domain.UpstreamError{Service: "nominatim", Err: err}
	}
	defer resp.Body.Close()

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		observability.GeocodeRequests.WithLabelValues("error").Inc()
		return GeocodeResponse{}, domain.UpstreamError{Service: "nominatim", Err: err}
	}

	out := GeocodeResponse{Suggestions: []Suggestion{}}
	for _, h := range hits {
		lat, latErr := strconv.ParseFloat(h.Lat, 64)
		lon, lonErr := strconv.ParseFloat(h.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		out.Suggestions = append(out.Suggestions, Suggestion{
			Address: h.DisplayName,
			Coords:  domain.Coord{Lat: lat, Lng: lon},
			County:  h.Address.County,
			Region:  h.Address.State,
			Country: h.Address.Country,
		})
	}

	if len(out.Suggestions) == 0 {
		observability.GeocodeRequests.WithLabelValues("empty").Inc()
		return out, nil
	}
	observability.GeocodeRequests.WithLabelValues("ok").Inc()

	if limit == 1 {
		best := out.Suggestions[0]
		out.Match = &Match{Lat: best.Coords.Lat, Lng: best.Coords.Lng, Address: best.Address}
		out.Suggestions = nil
	}
	return out, nil
}
