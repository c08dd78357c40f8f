package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mihirvv/jobassist/internal/model"
)

// Some job boards serve stripped-down pages to unknown clients; a browser UA
// gets the same markup a person would see.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodyBytes caps how much of a posting page is read. Job ads fit well
// under this; anything bigger is bloat we do not need.
const maxBodyBytes = 2 << 20

// Scraper fetches a job posting page and extracts a best-effort JobPosting.
// Extraction is regex-based and deliberately forgiving: a page we cannot
// fully parse still yields its plain text as the description.
type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

// NewScraper creates a scraper using the given HTTP client.
func NewScraper(client *http.Client, logger *slog.Logger) *Scraper {
	return &Scraper{
		client: client,
		logger: logger,
	}
}

// FetchPosting downloads the page at rawURL and extracts a posting from it.
// Non-2xx statuses are returned as *model.HTTPError so the retry layer can
// classify them.
func (s *Scraper) FetchPosting(ctx context.Context, rawURL string) (model.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.JobPosting{}, fmt.Errorf("fetch posting %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return model.JobPosting{}, fmt.Errorf("fetch posting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.JobPosting{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetch posting %s", rawURL),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.JobPosting{}, fmt.Errorf("read posting %s: %w", rawURL, err)
	}

	platform := identifyPlatform(rawURL)
	posting := extractFromHTML(string(body), platform)
	posting.URL = rawURL
	posting.Platform = platform

	s.logger.Info("extracted job posting",
		"url", rawURL,
		"platform", platform,
		"title", posting.Title,
		"company", posting.Company,
	)
	return posting, nil
}

// identifyPlatform maps the posting host to a known platform name.
func identifyPlatform(rawURL string) string {
	u, err := url.Parse(strings.ToLower(rawURL))
	if err != nil {
		return "generic"
	}
	host := u.Hostname()
	switch {
	case strings.Contains(host, "linkedin.com"):
		return "linkedin"
	case strings.Contains(host, "indeed.com"):
		return "indeed"
	case strings.Contains(host, "glassdoor.com"):
		return "glassdoor"
	default:
		return "generic"
	}
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
