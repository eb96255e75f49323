package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Client issues weekly menu requests against the vendor feed. It owns an
// explicitly constructed HTTP client with a bounded timeout; callers create
// one Client per run and share it across all (hall, meal) requests.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, typically for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger sets a custom logger. Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a feed client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		logger:  slog.Default().With("component", "feed-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WeekURL builds the vendor's weekly menu URL for a (hall, meal) pair and a
// week start date.
func (c *Client) WeekURL(hall, meal string, weekStart time.Time) string {
	return fmt.Sprintf("%s/menu/api/weeks/school/%s/menu-type/%s/%04d/%02d/%02d/",
		c.baseURL, hall, meal, weekStart.Year(), int(weekStart.Month()), weekStart.Day())
}

// FetchWeek downloads one week of menus for a (hall, meal) pair. It returns
// the parsed feed together with the raw body so the caller can persist the
// payload untouched. A non-success status is reported as ErrClosed.
func (c *Client) FetchWeek(ctx context.Context, hall, meal string, weekStart time.Time) (*WeekFeed, []byte, error) {
	url := c.WeekURL(hall, meal, weekStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, nil, fmt.Errorf("%w: HTTP %d", ErrClosed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var week WeekFeed
	if err := json.Unmarshal(body, &week); err != nil {
		return nil, nil, fmt.Errorf("parsing feed response: %w", err)
	}

	return &week, body, nil
}
