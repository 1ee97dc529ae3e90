package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/middleware"
	"github.com/campus-spark/events-api/internal/models"
)

// claimsFromContext returns the authenticated identity, or nil on public
// routes and when the optional JWT middleware found no usable token.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
