package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/dto"
	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/service"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/response"
)

// EventHandler exposes the event catalog over HTTP.
type EventHandler struct {
	ledger *service.LedgerService
}

// NewEventHandler creates a new handler.
func NewEventHandler(ledger *service.LedgerService) *EventHandler {
	return &EventHandler{ledger: ledger}
}

// List godoc
// @Summary List events
// @Description Browse events with optional filters and pagination
// @Tags Events
// @Produce json
// @Param college query string false "Filter by college"
// @Param type query string false "Filter by event type"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter := models.EventFilter{
		College:  c.Query("college"),
		Type:     c.Query("type"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	views, pagination, err := h.ledger.ListEvents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	view, err := h.ledger.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// History godoc
// @Summary List attended events
// @Description Events the authenticated student attended, most recent first
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/events/history [get]
func (h *EventHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	views, err := h.ledger.EventHistoryForStudent(c.Request.Context(), claims.Email, time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	event, err := h.ledger.CreateEvent(c.Request.Context(), req, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.ledger.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete event
// @Description Remove an event and all of its registrations
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.ledger.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func queryInt(c *gin.Context, key string) int {
	value := c.Query(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
