package elasticbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	eberrors "github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

const (
	// TokenHeader carries the API token on every request.
	TokenHeader = "ElasticBox-Token"
	// ReleaseHeader pins the API release the client speaks.
	ReleaseHeader = "ElasticBox-Release"
	// Release is the API release sent in ReleaseHeader.
	Release = "4.0"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client is the subset of the ElasticBox REST API used by ebctl.
type Client interface {
	GetWorkspaces(ctx context.Context) ([]Workspace, error)
	GetBoxes(ctx context.Context, workspace string) ([]Box, error)
	GetBoxVersions(ctx context.Context, box string) ([]Box, error)
	GetProfiles(ctx context.Context, workspace, box string) ([]Profile, error)
	GetBoxStack(ctx context.Context, box string) ([]Box, error)
	GetInstance(ctx context.Context, id string) (*Instance, error)
	GetInstances(ctx context.Context, workspace string, ids ...string) ([]Instance, error)
	EndpointURL() string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("elasticbox API returned %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("elasticbox API returned %s", e.Status)
}

// Unauthorized reports whether the API rejected the token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// HTTPClient talks to an ElasticBox endpoint over HTTP.
type HTTPClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewClient creates a client for the given endpoint and API token.
func NewClient(endpoint, token string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	c := &HTTPClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EndpointURL returns the endpoint without a trailing slash.
func (c *HTTPClient) EndpointURL() string {
	return c.endpoint
}

// GetWorkspaces lists the workspaces visible to the token.
func (c *HTTPClient) GetWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	err := c.getJSON(ctx, "get workspaces", "/services/workspaces", nil, &workspaces)
	return workspaces, err
}

// GetBoxes lists the boxes of a workspace.
func (c *HTTPClient) GetBoxes(ctx context.Context, workspace string) ([]Box, error) {
	var boxes []Box
	path := "/services/workspaces/" + url.PathEscape(workspace) + "/boxes"
	err := c.getJSON(ctx, "get boxes", path, nil, &boxes)
	return boxes, err
}

// GetBoxVersions lists the published versions of a box.
func (c *HTTPClient) GetBoxVersions(ctx context.Context, box string) ([]Box, error) {
	var versions []Box
	path := "/services/boxes/" + url.PathEscape(box) + "/versions"
	err := c.getJSON(ctx, "get box versions", path, nil, &versions)
	return versions, err
}

// GetProfiles lists the profiles of a box (or box version) in a workspace.
func (c *HTTPClient) GetProfiles(ctx context.Context, workspace, box string) ([]Profile, error) {
	var profiles []Profile
	path := "/services/workspaces/" + url.PathEscape(workspace) + "/profiles"
	err := c.getJSON(ctx, "get profiles", path, url.Values{"box_version": {box}}, &profiles)
	return profiles, err
}

// GetBoxStack returns a box together with every box it references.
func (c *HTTPClient) GetBoxStack(ctx context.Context, box string) ([]Box, error) {
	var boxes []Box
	path := "/services/boxes/" + url.PathEscape(box) + "/stack"
	err := c.getJSON(ctx, "get box stack", path, nil, &boxes)
	return boxes, err
}

// GetInstance fetches a single instance.
func (c *HTTPClient) GetInstance(ctx context.Context, id string) (*Instance, error) {
	var instance Instance
	path := "/services/instances/" + url.PathEscape(id)
	if err := c.getJSON(ctx, "get instance", path, nil, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetInstances lists the instances of a workspace. When ids are given only
// those instances are fetched, with their boxes fully expanded.
func (c *HTTPClient) GetInstances(ctx context.Context, workspace string, ids ...string) ([]Instance, error) {
	var instances []Instance
	if len(ids) > 0 {
		err := c.getJSON(ctx, "get instances", "/services/instances", url.Values{"ids": {strings.Join(ids, ",")}}, &instances)
		return instances, err
	}
	path := "/services/workspaces/" + url.PathEscape(workspace) + "/instances"
	err := c.getJSON(ctx, "get instances", path, nil, &instances)
	return instances, err
}

func (c *HTTPClient) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	target := c.endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return eberrors.TransportError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(ReleaseHeader, Release)
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eberrors.TransportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("elasticbox request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return eberrors.TransportError(op, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eberrors.TransportError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
