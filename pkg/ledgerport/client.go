package ledgerport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the production Ledgerport API endpoint.
	DefaultBaseURL = "https://api.ledgerport.com/v2"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ledgerport-go"

	// maxPerPage is the largest page size the service accepts.
	maxPerPage = 100
)

// ClientConfig represents the configuration for a Ledgerport API client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string
	// AccessToken is a static OAuth2 bearer token. Ignored when TokenSource
	// is set.
	AccessToken string
	// TokenSource supplies and refreshes OAuth2 tokens. See OAuthConfig.
	TokenSource oauth2.TokenSource
	// Timeout for each HTTP request. Default: 30 seconds.
	Timeout time.Duration
	// UserAgent overrides the User-Agent header.
	UserAgent string
}

// Client is a Ledgerport Accounting API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	userAgent   string
}

// NewClient creates a new Ledgerport API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := &http.Client{Timeout: timeout}
	if config.TokenSource != nil {
		httpClient = oauth2.NewClient(context.Background(), config.TokenSource)
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		accessToken: config.AccessToken,
		userAgent:   userAgent,
	}
}

// BaseURL returns the API endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAccessToken replaces the static access token for subsequent requests.
// It has no effect when the client was built with a TokenSource.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// newRequest builds an API request with the standard headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if method == http.MethodPost || method == http.MethodPut {
		// The service deduplicates retried writes by request ID.
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	return req, nil
}

// do sends the request and decodes the response body into out, if non-nil.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.parseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) deleteRequest(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// parseError decodes an error response from the Ledgerport API.
func (c *Client) parseError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var root ErrorsRoot
	if err := json.Unmarshal(body, &root); err != nil || len(root.Errors) == 0 {
		apiErr.Body = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Errors = root.Errors
	return apiErr
}

// ListOptions controls pagination for list calls. A zero value requests the
// service defaults (first page, 25 items).
type ListOptions struct {
	Page    int
	PerPage int
}

// values encodes the options as query parameters.
func (o ListOptions) values() url.Values {
	q := url.Values{}
	o.apply(q)
	return q
}

// apply adds the options to an existing query.
func (o ListOptions) apply(q url.Values) {
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
}

// dateRangeQuery encodes the from/to window shared by dated list endpoints.
func dateRangeQuery(q url.Values, from, to *Date) {
	if from != nil {
		q.Set("from_date", from.String())
	}
	if to != nil {
		q.Set("to_date", to.String())
	}
}
