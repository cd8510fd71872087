// Package dashboard serves the comparison as an HTML page and a JSON API
package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/jgoulah/tempcompare/pkg/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Store supplies the supplementary records merged over the baseline
type Store interface {
	ListRecords() ([]models.Record, error)
}

// Handler owns the baseline series and rebuilds the merged view per request
type Handler struct {
	baseline series.Series
	store    Store
	logger   *slog.Logger
	tmpl     *template.Template
}

// NewHandler parses the embedded templates. store may be nil, in which case
// only the baseline is served
func NewHandler(baseline series.Series, store Store, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"temp":  series.FormatTemp,
		"delta": series.FormatDelta,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Handler{
		baseline: baseline,
		store:    store,
		logger:   logger,
		tmpl:     tmpl,
	}, nil
}

// current merges the stored supplements over the baseline
func (h *Handler) current() (series.Series, error) {
	if h.store == nil {
		return h.baseline, nil
	}
	extra, err := h.store.ListRecords()
	if err != nil {
		return series.Series{}, fmt.Errorf("loading stored records: %w", err)
	}
	return series.Merge(h.baseline, extra), nil
}

// compare resolves the date and exclude_target query parameters
func (h *Handler) compare(c *fiber.Ctx) (series.Series, series.Comparison, error) {
	s, err := h.current()
	if err != nil {
		return series.Series{}, series.Comparison{}, err
	}

	opts := series.CompareOptions{ExcludeTarget: c.QueryBool("exclude_target", false)}
	cmp, err := series.CompareInput(s, c.Query("date"), opts)
	return s, cmp, err
}

// GetIndex renders the dashboard page
func (h *Handler) GetIndex(c *fiber.Ctx) error {
	s, cmp, err := h.compare(c)

	view := pageView{
		Date:          c.Query("date"),
		ExcludeTarget: c.QueryBool("exclude_target", false),
		Records:       s.Len(),
	}
	if latest, lerr := s.Latest(); lerr == nil {
		view.Latest = latest.Date.Format("2006-01-02")
		if view.Date == "" {
			view.Date = view.Latest
		}
	}

	switch {
	case err == nil:
		view.Comparison = newComparisonView(cmp)
	case series.IsNoData(err):
		h.logger.Warn("comparison unavailable", "date", view.Date, "error", err)
		view.Warning = warningText(err)
	default:
		return err
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// GetComparison returns the comparison as JSON
func (h *Handler) GetComparison(c *fiber.Ctx) error {
	_, cmp, err := h.compare(c)
	if err != nil {
		if series.IsNoData(err) {
			return c.Status(statusFor(err)).JSON(fiber.Map{
				"error":   warningText(err),
				"detail":  err.Error(),
				"success": false,
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    newComparisonJSON(cmp),
	})
}

// GetQuality returns per-column missing-value counts
func (h *Handler) GetQuality(c *fiber.Ctx) error {
	s, err := h.current()
	if err != nil {
		return err
	}

	missing := s.MissingCounts()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"records": s.Len(),
			"missing": missing.Columns(),
		},
	})
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func statusFor(err error) int {
	if errors.Is(err, series.ErrNoHistory) {
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusNotFound
}

func warningText(err error) string {
	switch {
	case errors.Is(err, series.ErrMissingValue):
		return "The selected date has no mean temperature."
	case errors.Is(err, series.ErrNoHistory):
		return "No other years recorded for this calendar day."
	default:
		return "No data for the selected date."
	}
}
