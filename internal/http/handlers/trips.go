package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/http/middleware"
	"carpool/internal/services"
)

type TripHandler struct {
	Trips    services.TripService
	Bookings services.BookingService
	Logger   *slog.Logger
}

// GET /api/trips
func (h TripHandler) List(c *gin.Context) {
	q := services.ListQuery{
		Page:        intQuery(c, "page", 1),
		Limit:       intQuery(c, "limit", 10),
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		MinPrice:    floatQuery(c, "min_price"),
		MaxPrice:    floatQuery(c, "max_price"),
		IncludePast: c.Query("include_past") == "true",
	}

	page, err := h.Trips.List(c.Request.Context(), q)
	if err != nil {
		h.Logger.Error("trip listing failed", "error", err, "request_id", middleware.GetRequestID(c))
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/trips/:id
func (h TripHandler) Detail(c *gin.Context) {
	callerID := ""
	if id, ok := middleware.GetIdentity(c); ok {
		callerID = id.UserID
	}

	detail, err := h.Trips.Detail(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// POST /api/trips
func (h TripHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var in models.TripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}

	trip, err := h.Trips.Create(c.Request.Context(), caller.UserID, in)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// POST /trips/:id/book
//
// The browser booking form posts here; the answer is always a redirect.
// Success lands on the confirmation page, failures back on the trip page
// with a stable error code in the query string.
func (h TripHandler) Book(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	tripID := c.Param("id")
	conf, err := h.Bookings.Book(c.Request.Context(), caller, tripID)
	if err != nil {
		c.Redirect(http.StatusSeeOther, bookingErrorTarget(tripID, err))
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/bookings/%s/confirmation", conf.Booking.ID))
}

func bookingErrorTarget(tripID string, err error) string {
	var se domain.StoreError

	code := "booking_failed"
	switch {
	case domain.IsValidation(err), domain.IsNotFound(err):
		code = "trip_not_found"
	case domain.IsEligibility(err):
		code = domain.EligibilityCode(err)
	case errors.As(err, &se) && strings.HasPrefix(se.Op, "profiles."):
		code = "profile_failed"
	}
	return fmt.Sprintf("/trips/%s?error=%s", tripID, code)
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func floatQuery(c *gin.Context, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
