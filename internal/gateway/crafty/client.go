package crafty

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"craftybot/internal/config"
	"craftybot/internal/pkg/health"
)

const (
	maxBodyBytes = 8 << 20

	// unreachableAfter consecutive transport failures mark the panel unreachable.
	unreachableAfter = 3
)

// Client wraps the Crafty Controller REST API v2. Every call issues exactly one
// request and is never retried.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	now        func() time.Time
	health     *health.Tracker
}

// NewClient constructs a client from configuration. No client timeout is set:
// callers bound latency through the context.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("crafty client requires config")
	}
	raw := strings.TrimSpace(cfg.CraftyAPIURL)
	if raw == "" {
		return nil, fmt.Errorf("crafty_api_url cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse crafty_api_url failed: %w", err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Crafty.InsecureSkipVerify {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true // #nosec G402
		}
	}
	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Transport: transport},
		token:      strings.TrimSpace(cfg.CraftyAPIToken),
		now:        time.Now,
		health:     health.NewTracker("crafty panel", unreachableAfter),
	}, nil
}

// Health reports panel reachability as seen by this client's calls.
func (c *Client) Health() health.Snapshot {
	return c.health.Snapshot()
}

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// ListServers returns every server visible to the API token.
func (c *Client) ListServers(ctx context.Context) ([]ServerSummary, error) {
	env, err := c.doRequest(ctx, http.MethodGet, nil, "servers")
	if err != nil {
		return nil, err
	}
	var servers []ServerSummary
	if err := decodeData(env, &servers, false); err != nil {
		return nil, &MalformedResponseError{Op: "GET /servers", Err: err}
	}
	return servers, nil
}

// GetServer returns the configuration of one server.
func (c *Client) GetServer(ctx context.Context, target string) (*ServerDetail, error) {
	target, err := normalizeTarget(target)
	if err != nil {
		return nil, err
	}
	env, err := c.doRequest(ctx, http.MethodGet, nil, "servers", target)
	if err != nil {
		return nil, err
	}
	var detail ServerDetail
	if err := decodeData(env, &detail, true); err != nil {
		return nil, &MalformedResponseError{Op: "GET /servers/" + target, Err: err}
	}
	return &detail, nil
}

// GetStats returns the live statistics of one server.
func (c *Client) GetStats(ctx context.Context, target string) (*ServerStats, error) {
	target, err := normalizeTarget(target)
	if err != nil {
		return nil, err
	}
	env, err := c.doRequest(ctx, http.MethodGet, nil, "servers", target, "stats")
	if err != nil {
		return nil, err
	}
	var stats ServerStats
	if err := decodeData(env, &stats, true); err != nil {
		return nil, &MalformedResponseError{Op: "GET /servers/" + target + "/stats", Err: err}
	}
	return &stats, nil
}

// GetStatus reads the stats endpoint into a fresh snapshot without logs.
func (c *Client) GetStatus(ctx context.Context, target string) (StatusSnapshot, error) {
	stats, err := c.GetStats(ctx, target)
	if err != nil {
		return StatusSnapshot{}, err
	}
	return SnapshotFromStats(strings.TrimSpace(target), *stats, c.now()), nil
}

// GetLogs returns the last tail lines of the server log, oldest first.
// tail <= 0 returns everything the panel sent.
func (c *Client) GetLogs(ctx context.Context, target string, tail int) ([]string, error) {
	target, err := normalizeTarget(target)
	if err != nil {
		return nil, err
	}
	query := url.Values{"raw": {"true"}, "file": {"true"}}
	env, err := c.doRequest(ctx, http.MethodGet, query, "servers", target, "logs")
	if err != nil {
		return nil, err
	}
	var lines []string
	if err := decodeData(env, &lines, false); err != nil {
		return nil, &MalformedResponseError{Op: "GET /servers/" + target + "/logs", Err: err}
	}
	if tail > 0 && len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	return append([]string(nil), lines...), nil
}

// PerformAction posts an action for the server.
func (c *Client) PerformAction(ctx context.Context, target string, action Action) error {
	target, err := normalizeTarget(target)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(action)) == "" {
		return fmt.Errorf("crafty: action is required")
	}
	_, err = c.doRequest(ctx, http.MethodPost, nil, "servers", target, "action", string(action))
	return err
}

func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", ErrEmptyTarget
	}
	return target, nil
}

func (c *Client) doRequest(ctx context.Context, method string, query url.Values, segments ...string) (envelope, error) {
	if c == nil || c.httpClient == nil {
		return envelope{}, fmt.Errorf("crafty client not initialized")
	}
	endpoint := c.resolveEndpoint(query, segments...)
	op := method + " /" + strings.Join(segments, "/")

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return envelope{}, &TransportError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			c.health.RecordFailure(err)
		}
		return envelope{}, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.health.RecordSuccess()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return envelope{}, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	env, parseErr := parseEnvelope(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remote := &RemoteError{Op: op, StatusCode: resp.StatusCode}
		if parseErr == nil {
			remote.Code = env.Code
			remote.Message = env.Message
		} else {
			remote.Message = snippet(body)
		}
		if remote.Message == "" && remote.Code == "" {
			remote.Message = resp.Status
		}
		return envelope{}, remote
	}
	if parseErr != nil {
		return envelope{}, &MalformedResponseError{Op: op, Err: parseErr}
	}
	if !env.ok() {
		return envelope{}, &RemoteError{Op: op, StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return env, nil
}

// resolveEndpoint appends escaped path segments to the configured base URL.
func (c *Client) resolveEndpoint(query url.Values, segments ...string) *url.URL {
	base := *c.baseURL
	plain := strings.TrimSuffix(base.Path, "/")
	escaped := strings.TrimSuffix(base.EscapedPath(), "/")
	for _, seg := range segments {
		plain += "/" + seg
		escaped += "/" + url.PathEscape(seg)
	}
	base.Path = plain
	base.RawPath = escaped
	base.RawQuery = ""
	if len(query) > 0 {
		base.RawQuery = query.Encode()
	}
	base.Fragment = ""
	return &base
}
