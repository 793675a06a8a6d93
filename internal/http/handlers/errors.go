package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/http/middleware"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// respondDomainError maps domain errors to HTTP responses. Store and unknown
// errors surface a generic message; detail is only echoed outside release
// mode (it is always in the server log).
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsEligibility(err):
		respondError(c, http.StatusConflict, domain.EligibilityCode(err), err.Error())
	case domain.IsUpstream(err):
		respondError(c, http.StatusBadGateway, "upstream_error", "service temporarily unavailable, please retry")
	default:
		msg := "something went wrong, please retry"
		if gin.Mode() != gin.ReleaseMode {
			msg = err.Error()
		}
		respondError(c, http.StatusInternalServerError, "internal_error", msg)
	}
}
