// Package importer pulls published workouts from public workout-of-the-day
// pages so they can be stored as reference material for generation.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/program"
)

const (
	fetchConcurrency = 4
	maxPages         = 20
)

// ErrTooManyPages is returned when a fetch requests more pages than the
// importer is willing to crawl in one call.
var ErrTooManyPages = errors.NewSentinel("too many pages requested")

// Client fetches and parses workout pages.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an importer client.
func New(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// FetchReferenceWorkouts crawls pages 1..pages of the archive at baseURL and
// returns the workouts found, in page order. Pages that respond with a
// non-200 status are treated as past the end of the archive.
func (c *Client) FetchReferenceWorkouts(ctx context.Context, baseURL string, pages int) ([]program.ReferenceWorkout, error) {
	if pages < 1 {
		pages = 1
	}
	if pages > maxPages {
		return nil, fmt.Errorf("%d pages: %w", pages, ErrTooManyPages)
	}

	byPage := make([][]program.ReferenceWorkout, pages)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := range pages {
		g.Go(func() error {
			workouts, err := c.fetchPage(ctx, fmt.Sprintf("%s?page=%d", baseURL, i+1))
			if err != nil {
				return errors.Wrap(err, "fetch workout page", slog.Int("page", i+1))
			}
			byPage[i] = workouts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var workouts []program.ReferenceWorkout
	for _, page := range byPage {
		workouts = append(workouts, page...)
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "imported reference workouts",
		slog.Int("pages", pages),
		slog.Int("workouts", len(workouts)))
	return workouts, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]program.ReferenceWorkout, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "skipping page",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return parseWorkouts(doc), nil
}

// parseWorkouts extracts workouts from the archive markup. Each workout lives
// in a .content block; rest days carry a "Rest Day" marker and are skipped.
func parseWorkouts(doc *goquery.Document) []program.ReferenceWorkout {
	var workouts []program.ReferenceWorkout
	doc.Find(".content").Each(func(_ int, s *goquery.Selection) {
		if isRestDay(s) {
			return
		}
		title := workoutTitle(s)
		if title == "" {
			return
		}
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return
		}
		workouts = append(workouts, program.ReferenceWorkout{Title: title, Body: body})
	})
	return workouts
}

func isRestDay(s *goquery.Selection) bool {
	return s.Find("strong").FilterFunction(func(_ int, marker *goquery.Selection) bool {
		return strings.TrimSpace(marker.Text()) == "Rest Day"
	}).Length() > 0
}

// workoutTitle tries the archive's title class first and falls back to
// headings for older page layouts.
func workoutTitle(s *goquery.Selection) string {
	for _, selector := range []string{".show", "h2, h3", "strong"} {
		if title := strings.TrimSpace(s.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}
