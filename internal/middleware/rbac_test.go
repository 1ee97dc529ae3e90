package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campus-spark/events-api/internal/models"
)

func withClaims(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}
}

func TestRequireRolesBlocksOtherRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withClaims(&models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin, Email: "admin@campus.edu"}))
	student := r.Group("", RequireRoles(models.RoleStudent))
	student.POST("/events/:id/register", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	// An admin token must not reach student-only registration routes.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/events/evt-1/register", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withClaims(&models.JWTClaims{UserID: "u-2", Role: models.RoleStudent, Email: "asha@campus.edu"}))
	student := r.Group("", RequireRoles(models.RoleStudent))
	student.GET("/me/registrations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/registrations", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("", RequireRoles(models.RoleAdmin))
	admin.GET("/dashboard", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
