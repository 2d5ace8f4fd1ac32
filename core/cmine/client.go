package cmine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"pos2cmine/core/apierr"
	"pos2cmine/core/httpx"

	"go.uber.org/zap"
)

const (
	tokenPath      = "/oauth/token"
	mePath         = "/api/admin/v1/me"
	usersPath      = "/api/admin/v1/users"
	attributesPath = "/api/admin/v1/settings/customizable_attributes"
	venturesPath   = "/api/admin/v2/ventures"
)

// Client talks to CMINE before authentication.
type Client struct {
	cfg       Config
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
	verbosity int
	dryRun    bool
}

// NewClient creates a CMINE client. A nil logger disables logging.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger, verbosity int) *Client {
	if httpClient == nil {
		httpClient = httpx.NewClient(httpx.Config{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:       cfg,
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		http:      httpClient,
		logger:    logger,
		verbosity: verbosity,
	}
}

// SetDryRun stops sessions from deleting duplicates while indexing.
// Explicit writes and deletes are not affected.
func (c *Client) SetDryRun(on bool) {
	c.dryRun = on
}

// Authenticate performs the OAuth password grant and returns a session bound to the token.
func (c *Client) Authenticate(ctx context.Context) (*Session, error) {
	fullURL := c.baseURL + tokenPath
	c.logger.Debug("CMINE: POST", zap.String("url", fullURL), zap.String("admin_email", c.cfg.Email))

	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, fullURL, tokenRequest{
		GrantType:    "password",
		Scope:        "admin",
		AdminEmail:   c.cfg.Email,
		Password:     c.cfg.Password,
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
	})
	if err != nil {
		return nil, err
	}

	resp, body, err := httpx.Do(c.http, req)
	if err != nil {
		return nil, fmt.Errorf("get oauth token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.NewResponseError(apierr.ErrAuth, "get oauth token", resp, body)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, apierr.NewResponseError(apierr.ErrAuth, "get oauth token: empty access token", resp, body)
	}

	return &Session{client: c, token: token.AccessToken}, nil
}

// Session performs authenticated calls with a single access token.
// The token is never refreshed.
type Session struct {
	client *Client
	token  string
}

// Token returns the access token of the session.
func (s *Session) Token() string {
	return s.token
}

// newRequest builds an authenticated request. target is either a path below
// the base URL or an absolute URL taken from a Link header.
func (s *Session) newRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	fullURL := target
	if strings.HasPrefix(target, "/") {
		fullURL = s.client.baseURL + target
	}
	req, err := httpx.NewJSONRequest(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	return req, nil
}

// getJSON performs an authenticated GET expecting 200 and decodes the body into out.
func (s *Session) getJSON(ctx context.Context, op, target string, out any) (*http.Response, error) {
	req, err := s.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	s.client.logger.Debug("CMINE: GET", zap.String("url", req.URL.String()))

	resp, body, err := httpx.Do(s.client.http, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.NewResponseError(apierr.ErrTransport, op, resp, body)
	}
	if s.client.verbosity > 1 {
		s.client.logger.Debug("CMINE: response", zap.String("op", op), zap.Any("headers", resp.Header), zap.ByteString("body", body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return resp, nil
}

// CurrentUserID returns the id of the authenticated admin.
func (s *Session) CurrentUserID(ctx context.Context) (int64, error) {
	var me meResponse
	if _, err := s.getJSON(ctx, "get me", mePath, &me); err != nil {
		return 0, err
	}
	return me.Admin.ID, nil
}

// Users returns all users visible to the admin.
func (s *Session) Users(ctx context.Context) ([]User, error) {
	var users usersResponse
	if _, err := s.getJSON(ctx, "get users", usersPath, &users); err != nil {
		return nil, err
	}
	return users.Users, nil
}

// UserIDByEmail returns the id of the first user whose email equals email exactly.
func (s *Session) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if u.Email == email {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("get user id for %s: %w", email, apierr.ErrNotFound)
}
