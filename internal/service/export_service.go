package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campus-spark/events-api/internal/repository"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/export"
)

// ReportFormat selects the rendered output.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered report ready to serve inline.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the event summary report and per-event rosters.
// Rosters are small, so rendering is synchronous and nothing is stored.
type ExportService struct {
	events eventRepository
	regs   registrationRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(events eventRepository, regs registrationRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{events: events, regs: regs, csv: csv, pdf: pdf, logger: logger}
}

// EventsReport renders one row per event with registration and feedback
// aggregates.
func (s *ExportService) EventsReport(ctx context.Context, format ReportFormat) (*ExportResult, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	counts := make(map[string]int)
	attended := make(map[string]int)
	feedbacks := make(map[string]int)
	for _, reg := range regs {
		counts[reg.EventID]++
		if reg.Attended {
			attended[reg.EventID]++
		}
		if reg.FeedbackGiven {
			feedbacks[reg.EventID]++
		}
	}

	now := time.Now().UTC()
	dataset := export.Dataset{
		Headers: []string{"Title", "Date", "College", "Type", "Status", "Capacity", "Registered", "Attended", "Feedbacks"},
	}
	for _, event := range events {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":      event.Title,
			"Date":       event.Date,
			"College":    event.College,
			"Type":       event.Type,
			"Status":     string(event.DerivedStatus(now)),
			"Capacity":   strconv.Itoa(event.MaxCapacity),
			"Registered": strconv.Itoa(counts[event.ID]),
			"Attended":   strconv.Itoa(attended[event.ID]),
			"Feedbacks":  strconv.Itoa(feedbacks[event.ID]),
		})
	}

	return s.render(dataset, "Event Report", "events-report", format)
}

// EventRoster renders the registration list of a single event.
func (s *ExportService) EventRoster(ctx context.Context, eventID string, format ReportFormat) (*ExportResult, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	regs, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Phone", "College", "Registered At", "Attended", "Rating"},
	}
	for _, reg := range regs {
		rating := ""
		if reg.Feedback != nil {
			rating = strconv.Itoa(reg.Feedback.Rating)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":          reg.StudentName,
			"Email":         reg.StudentEmail,
			"Phone":         reg.Phone,
			"College":       reg.College,
			"Registered At": reg.RegisteredAt.Format(time.RFC3339),
			"Attended":      strconv.FormatBool(reg.Attended),
			"Rating":        rating,
		})
	}

	return s.render(dataset, "Roster: "+event.Title, "roster-"+event.ID, format)
}

func (s *ExportService) render(dataset export.Dataset, title, basename string, format ReportFormat) (*ExportResult, error) {
	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Payload: payload, ContentType: "text/csv", Filename: basename + ".csv"}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Payload: payload, ContentType: "application/pdf", Filename: basename + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
}
