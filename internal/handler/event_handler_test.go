package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-spark/events-api/internal/dto"
	"github.com/campus-spark/events-api/internal/models"
)

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{
		UserID:   "u-admin",
		Role:     models.RoleAdmin,
		Email:    "admin@campus.edu",
		FullName: "Dean Rao",
	}
}

func TestEventHandlerCreateAndList(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewEventHandler(f.ledger)

	c, w := testContext(t, http.MethodPost, "/admin/events", dto.CreateEventRequest{
		Title:       "Tech Symposium",
		Description: "Annual technology showcase",
		Date:        "2027-03-14",
		Time:        "18:30",
		Location:    "Main Auditorium",
		Type:        "technical",
		College:     "Engineering",
		MaxCapacity: 100,
	}, adminClaims())
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "admin@campus.edu", created.Data.CreatedBy)

	c, w = testContext(t, http.MethodGet, "/events", nil, nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data []dto.EventView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, models.EventStatusUpcoming, listed.Data[0].DerivedStatus)
	assert.Equal(t, 100, listed.Data[0].AvailableSpots)
}

func TestEventHandlerCreateRejectsMissingFields(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewEventHandler(f.ledger)

	c, w := testContext(t, http.MethodPost, "/admin/events", dto.CreateEventRequest{
		Title: "Missing everything else",
	}, adminClaims())
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandlerGetUnknownIs404(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewEventHandler(f.ledger)

	c, w := testContext(t, http.MethodGet, "/events/missing", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandlerUpdateIgnoresIdentityFields(t *testing.T) {
	f := newHandlerFixture(t)
	f.insertFutureEvent(t, "evt-1", 10)
	handler := NewEventHandler(f.ledger)

	original, err := f.events.FindByID(context.Background(), "evt-1")
	require.NoError(t, err)

	// A patch carrying id and created_at must not move either field.
	c, w := testContext(t, http.MethodPut, "/admin/events/evt-1", map[string]interface{}{
		"id":         "evt-hijacked",
		"created_at": "1999-01-01T00:00:00Z",
		"created_by": "intruder@campus.edu",
		"title":      "Renamed Symposium",
	}, adminClaims())
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.events.FindByID(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Symposium", stored.Title)
	assert.Equal(t, "evt-1", stored.ID)
	assert.Equal(t, original.CreatedBy, stored.CreatedBy)
	assert.True(t, original.CreatedAt.Equal(stored.CreatedAt))
}

func TestEventHandlerHistoryListsAttendedEvents(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewEventHandler(f.ledger)
	ctx := context.Background()

	require.NoError(t, f.events.Insert(ctx, &models.Event{
		ID:          "evt-done",
		Title:       "Completed Workshop",
		Date:        time.Now().UTC().Add(-48 * time.Hour).Format(models.DateLayout),
		Time:        "10:00",
		MaxCapacity: 50,
	}))
	require.NoError(t, f.regs.Insert(ctx, &models.Registration{
		ID: "reg-1", EventID: "evt-done", StudentEmail: "asha@campus.edu", Attended: true,
	}))

	c, w := testContext(t, http.MethodGet, "/me/events/history", nil, studentClaims("asha@campus.edu"))
	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data []dto.EventView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "evt-done", listed.Data[0].ID)
}

func TestEventHandlerDeleteCascades(t *testing.T) {
	f := newHandlerFixture(t)
	f.insertFutureEvent(t, "evt-1", 10)
	handler := NewEventHandler(f.ledger)

	c, w := testContext(t, http.MethodDelete, "/admin/events/evt-1", nil, adminClaims())
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	handler.Delete(c)
	// gin.CreateTestContext never flushes a bare c.Status; the engine would.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	c, w = testContext(t, http.MethodGet, "/events/evt-1", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
