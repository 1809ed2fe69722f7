package breezeway

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

	"github.com/example/turnover-report/internal/domain/rental"
	"github.com/example/turnover-report/internal/internaltypes"
)

// Inventory resources, relative to the API base URL.
const (
	ResourceProperty    = "public/inventory/v1/property"
	ResourceReservation = "public/inventory/v1/reservation"
	ResourceTask        = "public/inventory/v1/task"

	authPath = "public/auth/v1/"
)

// TaskDetail is the single-record resource for one task.
func TaskDetail(id rental.ID) string {
	return ResourceTask + "/" + url.PathEscape(id.String())
}

// Page is one page of a collection response. Page and TotalPages are zero
// when the API omits them.
type Page struct {
	Results    []json.RawMessage `json:"results"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// TokenSource supplies the access token attached to every inventory request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("breezeway: http %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return internaltypes.ErrUnauthorized
	}
	return nil
}

// Client is a minimal client for the Breezeway public API.
type Client struct {
	hc     *http.Client
	base   string
	tokens TokenSource
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		hc:   &http.Client{Timeout: timeout},
		base: strings.TrimRight(baseURL, "/"),
	}
}

// WithTokens returns a copy of c that authorizes requests with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// List reads one page of resource filtered by query.
func (c *Client) List(ctx context.Context, resource string, query url.Values) (Page, error) {
	body, err := c.get(ctx, resource, query)
	if err != nil {
		return Page{}, err
	}
	var p Page
	if err := json.Unmarshal(body, &p); err != nil {
		return Page{}, fmt.Errorf("breezeway: decode %s page: %w", resource, err)
	}
	return p, nil
}

// Get reads a single record.
func (c *Client) Get(ctx context.Context, resource string) (json.RawMessage, error) {
	body, err := c.get(ctx, resource, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("breezeway: %s: invalid json body", resource)
	}
	return json.RawMessage(body), nil
}

// Login exchanges client credentials for an access token.
func (c *Client) Login(ctx context.Context, clientID, clientSecret string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     clientID,
		"client_secret": clientSecret,
	})
	if err != nil {
		return "", err
	}
	status, body, err := c.do(ctx, http.MethodPost, authPath, "application/json", nil, payload, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &StatusError{Status: status, Body: string(body)}
	}
	var r struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("breezeway: decode auth response: %w", err)
	}
	if r.AccessToken == "" {
		return "", fmt.Errorf("breezeway: auth response has no access_token")
	}
	return r.AccessToken, nil
}

func (c *Client) get(ctx context.Context, resource string, query url.Values) ([]byte, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("breezeway: client has no token source")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, resource, "", query, nil, token)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Status: status, Body: string(body)}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, query url.Values, body []byte, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("accept", "application/json")
	if contentType != "" {
		req.Header.Set("content-type", contentType)
	}
	if token != "" {
		req.Header.Set("authorization", "JWT "+token)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
