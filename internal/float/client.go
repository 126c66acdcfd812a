package float

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/floatsync/internal/timecalc"
)

// Client is an authenticated Float API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
}

// NewClient creates a Float client that sends token as a bearer credential.
// A nil logger discards output.
func NewClient(ctx context.Context, baseURL, token string, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
		logger:     logger.Named("float"),
	}
}

// LoggedTime is a Float logged-time record. A record without hours decodes
// with Hours == 0.
type LoggedTime struct {
	ID    string  `json:"logged_time_id"`
	Hours float64 `json:"hours"`
	Date  string  `json:"date"`
}

// NewLoggedTime is the body of a create request.
type NewLoggedTime struct {
	Date      string  `json:"date"`
	Billable  int     `json:"billable"`
	Hours     float64 `json:"hours"`
	PeopleID  string  `json:"people_id"`
	ProjectID string  `json:"project_id"`
}

// Query scopes a logged-time listing.
type Query struct {
	From      time.Time
	To        time.Time
	PeopleID  string
	ProjectID string
}

// APIError is returned when Float answers with a non-success status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("float API error %d on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// ListLoggedTime fetches logged time for the person and project in [From, To].
func (c *Client) ListLoggedTime(ctx context.Context, q Query) ([]LoggedTime, error) {
	params := url.Values{
		"start_date": {timecalc.ISODate(q.From)},
		"end_date":   {timecalc.ISODate(q.To)},
		"people_id":  {q.PeopleID},
		"project_id": {q.ProjectID},
	}
	body, err := c.do(ctx, http.MethodGet, "/logged-time?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var records []LoggedTime
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding logged-time response: %w", err)
	}
	return records, nil
}

// CreateLoggedTime logs time for a single date.
func (c *Client) CreateLoggedTime(ctx context.Context, lt NewLoggedTime) error {
	payload, err := json.Marshal(lt)
	if err != nil {
		return fmt.Errorf("encoding logged time: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/logged-time", payload)
	return err
}

// DeleteLoggedTime removes a logged-time record by id.
func (c *Client) DeleteLoggedTime(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/logged-time/"+url.PathEscape(id), nil)
	return err
}

// do sends a request and returns the response body. Anything but 200 is an *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("float API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
