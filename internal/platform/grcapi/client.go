// Package grcapi provides the HTTP client for the vendor GRC platform.
package grcapi

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
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridane/grcbridge/internal/core/domain"
)

// DefaultTimeout is the fixed per-call network timeout.
const DefaultTimeout = 30 * time.Second

// DefaultRate is the default outbound request rate (requests per second).
const DefaultRate = 10

// StatusError reports a non-2xx platform response.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("platform returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("platform returned status %d", e.Status)
}

// IsNotFound reports a confirmed 404, as opposed to a transient failure.
func (e *StatusError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// Client is the HTTP client for the vendor platform.
type Client struct {
	baseURL  string
	instance string
	client   *http.Client
	limiter  *rate.Limiter

	mu    sync.RWMutex
	token string
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRateLimit overrides the outbound request rate.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
}

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a platform client for the given endpoint and instance.
func New(endpoint, instance string, opts ...Option) *Client {
	baseURL := strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	c := &Client{
		baseURL:  baseURL,
		instance: instance,
		client:   &http.Client{Timeout: DefaultTimeout},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRate), DefaultRate),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Instance returns the configured instance name.
func (c *Client) Instance() string {
	return c.instance
}

// SetSessionToken replaces the session token attached to outbound calls.
// The session manager calls this after every login; the prior token is
// discarded immediately.
func (c *Client) SetSessionToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// sessionToken returns the current session token.
func (c *Client) sessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates against the platform and returns the session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := loginRequest{
		InstanceName: c.instance,
		Username:     username,
		Password:     password,
	}

	var obj loginObject
	if err := c.postObject(ctx, "/platformapi/core/security/login", body, &obj); err != nil {
		return "", err
	}
	if obj.SessionToken == "" {
		return "", &StatusError{Status: http.StatusUnauthorized, Body: "login returned no session token"}
	}
	return obj.SessionToken, nil
}

// Applications fetches the application catalog.
func (c *Client) Applications(ctx context.Context) ([]ApplicationObject, error) {
	var rows []ApplicationObject
	if err := c.getObjects(ctx, "/platformapi/core/system/application", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Questionnaires fetches the questionnaire catalog.
func (c *Client) Questionnaires(ctx context.Context) ([]QuestionnaireObject, error) {
	var rows []QuestionnaireObject
	if err := c.getObjects(ctx, "/platformapi/core/system/questionnaire", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Levels fetches the full level table.
func (c *Client) Levels(ctx context.Context) ([]LevelObject, error) {
	var rows []LevelObject
	if err := c.getObjects(ctx, "/platformapi/core/system/level", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Fields fetches the field definitions for a container.
func (c *Client) Fields(ctx context.Context, containerID int) ([]FieldObject, error) {
	path := fmt.Sprintf("/platformapi/core/system/fielddefinition/application/%d", containerID)
	var rows []FieldObject
	if err := c.getObjects(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ContentPage fetches one record page from a content path. A negative
// top fetches without a size bound (the platform's fetch-all marker).
func (c *Client) ContentPage(ctx context.Context, path string, skip, top int) ([]domain.RawRecord, error) {
	u := "/" + strings.TrimLeft(path, "/")
	params := url.Values{}
	if skip > 0 {
		params.Set("$skip", strconv.Itoa(skip))
	}
	if top >= 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var page contentResponse
	if err := decodeBody(resp, &page); err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, len(page.Value))
	for i, row := range page.Value {
		rec := make(domain.RawRecord, len(row))
		for k, v := range row {
			rec[k] = domain.FromAny(v)
		}
		records[i] = rec
	}
	return records, nil
}

// ContentCount issues the cheap count probe against a content path.
// The bool return reports whether the deployment exposes a count at all.
func (c *Client) ContentCount(ctx context.Context, path string) (int, bool, error) {
	u := "/" + strings.TrimLeft(path, "/") + "?$count=true&$top=1"

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, false, err
	}

	var page contentResponse
	if err := decodeBody(resp, &page); err != nil {
		return 0, false, err
	}
	if page.Count == nil {
		return 0, false, nil
	}
	return *page.Count, true, nil
}

// Probe issues a HEAD existence check against a content path.
func (c *Client) Probe(ctx context.Context, path string) error {
	u := "/" + strings.TrimLeft(path, "/")
	resp, err := c.do(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// do performs one rate-limited, authenticated request and maps non-2xx
// statuses to StatusError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return resp, nil
}

// addHeaders adds authentication and common headers.
func (c *Client) addHeaders(req *http.Request) {
	if token := c.sessionToken(); token != "" {
		req.Header.Set("Authorization", "GRC session-id="+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "grcbridge/1.0")
}

// postObject posts a JSON body and decodes the envelope's requested object.
func (c *Client) postObject(ctx context.Context, path string, body, target any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, target)
}

// getObjects fetches a list endpoint whose rows arrive individually
// wrapped in success envelopes.
func (c *Client) getObjects(ctx context.Context, path string, target any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelopes []envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	objects := make([]json.RawMessage, 0, len(envelopes))
	for _, env := range envelopes {
		if !env.IsSuccessful || len(env.RequestedObject) == 0 {
			continue
		}
		objects = append(objects, env.RequestedObject)
	}

	joined, err := json.Marshal(objects)
	if err != nil {
		return err
	}
	return json.Unmarshal(joined, target)
}

// decodeEnvelope decodes a single success envelope into target.
func decodeEnvelope(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !env.IsSuccessful {
		msg := "request rejected by platform"
		if len(env.ValidationMessages) > 0 {
			msg = env.ValidationMessages[0].Description
		}
		return &StatusError{Status: http.StatusUnauthorized, Body: msg}
	}
	if target != nil && len(env.RequestedObject) > 0 {
		if err := json.Unmarshal(env.RequestedObject, target); err != nil {
			return fmt.Errorf("parse requested object: %w", err)
		}
	}
	return nil
}

// decodeBody decodes a plain JSON body into target.
func decodeBody(resp *http.Response, target any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
