package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"agentdev/internal/config"
	"agentdev/internal/logging"
	"agentdev/internal/types"
)

const defaultTimeout = 10 * time.Second

// Client talks to the dashboard backend's read-only JSON API.
type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
	logger    logging.Logger
}

type Option func(*Client)

func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// New builds a client from cfg. Without a configured token the client reads
// the optional token file under the data dir.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.APIBaseURL(), "/"),
		tokenPath: tokenPath,
		token:     cfg.APIToken(),
		http: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.token == "" {
		if err := c.loadToken(); err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
	}
	return c, nil
}

func NewWithBaseURL(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListSessions(ctx context.Context) (*types.SessionsResponse, error) {
	var resp types.SessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListWorktrees(ctx context.Context) ([]types.WorktreeSummary, error) {
	var resp types.WorktreesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/worktrees", &resp); err != nil {
		return nil, err
	}
	return resp.Worktrees, nil
}

func (c *Client) WorktreeGit(ctx context.Context, worktreeID string) (*types.WorktreeGitDetails, error) {
	worktreeID = strings.TrimSpace(worktreeID)
	if worktreeID == "" {
		return nil, errors.New("worktree id is required")
	}
	var resp types.WorktreeGitDetails
	path := "/api/worktrees/" + url.PathEscape(worktreeID) + "/git"
	if err := c.doJSON(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SessionDetail(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error) {
	provider = strings.TrimSpace(provider)
	sessionID = strings.TrimSpace(sessionID)
	if provider == "" || sessionID == "" {
		return nil, errors.New("provider and session id are required")
	}
	path := "/api/sessions/" + url.PathEscape(provider) + "/" + url.PathEscape(sessionID)
	if mode != "" {
		q := url.Values{}
		q.Set("mode", string(mode))
		path += "?" + q.Encode()
	}
	var resp types.SessionDetailResponse
	if err := c.doJSON(ctx, http.MethodGet, path, &resp); err != nil {
		return nil, err
	}
	if resp.Mode == "" {
		resp.Mode = mode
	}
	return &resp, nil
}

// FetchSessionDetail lets the client serve as a detail cache fetcher.
func (c *Client) FetchSessionDetail(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error) {
	return c.SessionDetail(ctx, provider, sessionID, mode)
}

func (c *Client) doJSON(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpClient := c.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log().Warn("api_request_failed", logging.F("method", method), logging.F("path", path), logging.F("error", err))
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		c.log().Warn("api_request_rejected", logging.F("method", method), logging.F("path", path), logging.F("status", resp.StatusCode))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) log() logging.Logger {
	if c.logger == nil {
		return logging.Nop()
	}
	return c.logger
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func IsNotFound(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusNotFound
}
