package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/http/middleware"
	"carpool/internal/services"
)

type BookingHandler struct {
	Bookings services.BookingService
	Docs     services.DocsService
}

// GET /api/bookings
func (h BookingHandler) List(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	bookings, err := h.Bookings.ListForPassenger(c.Request.Context(), caller.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings/:id
func (h BookingHandler) Detail(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	conf, err := h.Bookings.Get(c.Request.Context(), c.Param("id"), caller.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

// GET /api/bookings/:id/e-ticket
func (h BookingHandler) ETicket(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	pdf, filename, err := h.Docs.BookingETicket(c.Request.Context(), c.Param("id"), caller.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
