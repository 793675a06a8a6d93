package handlers

import (
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
)

func TestBookingErrorTarget(t *testing.T) {
	tripID := "6f1f8f5a-0b63-4a7e-9a43-1f2d3c4b5a69"

	cases := []struct {
		name string
		err  error
		code string
	}{
		{"malformed id", domain.ValidationError{Field: "trip_id", Msg: "invalid"}, "trip_not_found"},
		{"missing trip", domain.NotFoundError{Resource: "trip"}, "trip_not_found"},
		{"self booking", domain.EligibilityError{Code: domain.CodeSelfBooking}, "driver_booking"},
		{"full trip", domain.EligibilityError{Code: domain.CodeNoSeats}, "no_seats"},
		{"duplicate", domain.EligibilityError{Code: domain.CodeAlreadyBooked}, "already_booked"},
		{"profile store failure", domain.StoreError{Op: "profiles.ensure", Err: errors.New("boom")}, "profile_failed"},
		{"booking store failure", domain.StoreError{Op: "bookings.book", Err: errors.New("boom")}, "booking_failed"},
		{"unknown failure", errors.New("boom"), "booking_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := bookingErrorTarget(tripID, tc.err)
			want := "/trips/" + tripID + "?error=" + tc.code
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}
}

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/trips?"+rawQuery, nil)
	return c
}

func TestIntQuery(t *testing.T) {
	c := queryContext(t, "page=3&limit=oops")
	if got := intQuery(c, "page", 1); got != 3 {
		t.Fatalf("page: got %d, want 3", got)
	}
	if got := intQuery(c, "limit", 10); got != 10 {
		t.Fatalf("unparseable limit must fall back to default, got %d", got)
	}
	if got := intQuery(c, "missing", 7); got != 7 {
		t.Fatalf("missing key must fall back to default, got %d", got)
	}
}

func TestFloatQuery(t *testing.T) {
	c := queryContext(t, "min_price=12.5&max_price=-3&bad=abc")

	if got := floatQuery(c, "min_price"); got == nil || *got != 12.5 {
		t.Fatalf("min_price: got %v, want 12.5", got)
	}
	if got := floatQuery(c, "max_price"); got != nil {
		t.Fatalf("negative price must be dropped, got %v", strconv.FormatFloat(*got, 'f', -1, 64))
	}
	if got := floatQuery(c, "bad"); got != nil {
		t.Fatalf("unparseable value must be dropped, got %v", got)
	}
	if got := floatQuery(c, "missing"); got != nil {
		t.Fatalf("missing key must return nil, got %v", got)
	}
}
