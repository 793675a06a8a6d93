package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/geo"
)

type GeoHandler struct {
	Geo *geo.Client
}

type geocodeRequest struct {
	Address string `json:"address"`
	Limit   int    `json:"limit"`
}

// POST /api/geocode
func (h GeoHandler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "address is required")
		return
	}
	if req.Limit < 1 {
		req.Limit = 1
	}

	resp, err := h.Geo.Geocode(c.Request.Context(), req.Address, req.Limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if resp.Match != nil {
		c.JSON(http.StatusOK, gin.H{
			"lat":     resp.Match.Lat,
			"lng":     resp.Match.Lng,
			"address": resp.Match.Address,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": resp.Suggestions})
}

type routeRequest struct {
	Origin      domain.Coord `json:"origin"`
	Destination domain.Coord `json:"destination"`
}

// POST /api/route
func (h GeoHandler) Route(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}
	if !geo.ValidCoord(req.Origin) || !geo.ValidCoord(req.Destination) {
		respondError(c, http.StatusBadRequest, "validation_error", "coordinates out of range")
		return
	}

	route, err := h.Geo.Route(c.Request.Context(), req.Origin, req.Destination)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}
