package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/service"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/response"
)

type activityFeed interface {
	List(ctx context.Context) ([]models.Activity, error)
}

// DashboardHandler serves the admin dashboard, per-user statistics and the
// recent activity feed.
type DashboardHandler struct {
	stats      *service.StatsService
	activities activityFeed
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(stats *service.StatsService, activities activityFeed) *DashboardHandler {
	return &DashboardHandler{stats: stats, activities: activities}
}

// Dashboard godoc
// @Summary Dashboard statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// AdminStats godoc
// @Summary Statistics for the acting admin's events
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *DashboardHandler) AdminStats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	stats, err := h.stats.AdminStats(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// StudentStats godoc
// @Summary Statistics for the authenticated student
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/stats [get]
func (h *DashboardHandler) StudentStats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	stats, err := h.stats.StudentStats(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Activities godoc
// @Summary Recent activity feed
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/activities [get]
func (h *DashboardHandler) Activities(c *gin.Context) {
	feed, err := h.activities.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity feed"))
		return
	}
	response.JSON(c, http.StatusOK, feed, nil)
}
