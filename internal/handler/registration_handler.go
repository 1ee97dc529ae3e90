package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/dto"
	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/service"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/response"
)

// RegistrationHandler exposes the registration lifecycle over HTTP.
type RegistrationHandler struct {
	ledger *service.LedgerService
}

// NewRegistrationHandler creates a new handler.
func NewRegistrationHandler(ledger *service.LedgerService) *RegistrationHandler {
	return &RegistrationHandler{ledger: ledger}
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated student. The body may override the
// @Description name, phone and college snapshot from the session.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.RegisterRequest false "Snapshot overrides"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /events/{id}/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	info := models.StudentInfo{
		Name:    claims.FullName,
		Email:   claims.Email,
		Phone:   claims.Phone,
		College: claims.College,
	}
	if req.Name != "" {
		info.Name = req.Name
	}
	if req.Phone != "" {
		info.Phone = req.Phone
	}
	if req.College != "" {
		info.College = req.College
	}

	reg, err := h.ledger.Register(c.Request.Context(), c.Param("id"), info)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reg)
}

// Cancel godoc
// @Summary Cancel registration
// @Description Students may cancel their own registration, admins any.
// @Tags Registrations
// @Param id path string true "Registration ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	reg, err := h.authorizeOwner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.ledger.CancelRegistration(c.Request.Context(), reg.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SubmitFeedback godoc
// @Summary Submit feedback
// @Description One rating per registration, only after attending a completed event
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param payload body dto.FeedbackRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/feedback [post]
func (h *RegistrationHandler) SubmitFeedback(c *gin.Context) {
	reg, err := h.authorizeOwner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	updated, err := h.ledger.SubmitFeedback(c.Request.Context(), reg.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// CheckIn godoc
// @Summary Check in attendee
// @Description Marks attendance. Repeating a check-in returns the current state.
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/registrations/{id}/checkin [post]
func (h *RegistrationHandler) CheckIn(c *gin.Context) {
	reg, err := h.ledger.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}

// MyRegistrations godoc
// @Summary List my registrations
// @Tags Registrations
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/registrations [get]
func (h *RegistrationHandler) MyRegistrations(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	regs, err := h.ledger.RegistrationsForStudent(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regs, nil)
}

// EventRegistrations godoc
// @Summary List event registrations
// @Tags Registrations
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/events/{id}/registrations [get]
func (h *RegistrationHandler) EventRegistrations(c *gin.Context) {
	regs, err := h.ledger.RegistrationsForEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regs, nil)
}

// AllFeedback godoc
// @Summary List submitted feedback
// @Description All feedback across registrations, newest first. event_id narrows to one event.
// @Tags Registrations
// @Produce json
// @Param event_id query string false "Event ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/feedback [get]
func (h *RegistrationHandler) AllFeedback(c *gin.Context) {
	entries, err := h.ledger.FeedbackEntries(c.Request.Context(), c.Query("event_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// authorizeOwner loads the registration and verifies the caller either owns
// it or is an admin.
func (h *RegistrationHandler) authorizeOwner(c *gin.Context) (*models.Registration, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}

	reg, err := h.ledger.GetRegistration(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && reg.StudentEmail != claims.Email {
		return nil, appErrors.ErrForbidden
	}
	return reg, nil
}
