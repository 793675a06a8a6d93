package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain/models"
	"carpool/internal/http/middleware"
	"carpool/internal/services"
)

type ProfileHandler struct {
	Profiles services.ProfileService
}

// GET /api/profile
func (h ProfileHandler) Get(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	profile, err := h.Profiles.Get(c.Request.Context(), caller.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /api/profile
func (h ProfileHandler) Update(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}

	profile, err := h.Profiles.Update(c.Request.Context(), caller.UserID, upd)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
