package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func geoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := GeoHandler{}
	r.POST("/api/geocode", h.Geocode)
	r.POST("/api/route", h.Route)
	return r
}

func TestGeocodeRejectsMissingAddress(t *testing.T) {
	r := geoRouter()

	for _, body := range []string{`{}`, `{"address":"   "}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/geocode", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: got status %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "validation_error") {
			t.Fatalf("body %s: expected validation_error code, got %s", body, w.Body.String())
		}
	}
}

func TestGeocodeRejectsMalformedJSON(t *testing.T) {
	r := geoRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/geocode", strings.NewReader(`{"address":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestRouteRejectsOutOfRangeCoordinates(t *testing.T) {
	r := geoRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/route",
		strings.NewReader(`{"origin":{"lat":95,"lng":0},"destination":{"lat":41,"lng":29}}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "coordinates out of range") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
