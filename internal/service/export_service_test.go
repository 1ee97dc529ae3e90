package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/repository"
	"github.com/campus-spark/events-api/internal/store"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
)

func exportFixture(t *testing.T) *ExportService {
	t.Helper()
	kv := store.NewMemory()
	events := repository.NewEventRepository(kv, zap.NewNop())
	regs := repository.NewRegistrationRepository(kv, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, events.Insert(ctx, &models.Event{
		ID: "evt-1", Title: "Hackathon", Date: "2026-04-01", Time: "09:00",
		College: "Engineering", Type: "technical", MaxCapacity: 50,
	}))
	require.NoError(t, regs.Insert(ctx, &models.Registration{
		ID: "r1", EventID: "evt-1", StudentName: "Asha Verma",
		StudentEmail: "asha@campus.edu", RegisteredAt: time.Now().UTC(),
		Attended: true, FeedbackGiven: true,
		Feedback: &models.Feedback{Rating: 5, SubmittedAt: time.Now().UTC()},
	}))

	return NewExportService(events, regs, nil, nil, zap.NewNop())
}

func TestEventsReportCSV(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.EventsReport(context.Background(), ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "events-report.csv", result.Filename)

	body := string(result.Payload)
	assert.Contains(t, body, "Title,Date,College")
	assert.Contains(t, body, "Hackathon")
	assert.True(t, strings.Contains(body, ",1,1,1") || strings.Contains(body, "50,1,1,1"))
}

func TestEventRosterCSV(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.EventRoster(context.Background(), "evt-1", ReportFormatCSV)
	require.NoError(t, err)
	body := string(result.Payload)
	assert.Contains(t, body, "Asha Verma")
	assert.Contains(t, body, "asha@campus.edu")
	assert.Contains(t, body, "true")
}

func TestEventRosterPDF(t *testing.T) {
	svc := exportFixture(t)

	result, err := svc.EventRoster(context.Background(), "evt-1", ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestEventRosterUnknownEvent(t *testing.T) {
	svc := exportFixture(t)

	_, err := svc.EventRoster(context.Background(), "missing", ReportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
