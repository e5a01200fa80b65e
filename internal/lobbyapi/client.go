// Package lobbyapi is the HTTP-side collaborator client: credential
// issuance/refresh against the auth service and table listing/creation/
// deletion against the lobby service. The realtime layer consumes it; it
// owns no game state.
package lobbyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"holdem-client/internal/wire"
)

var (
	ErrUnauthorized = errors.New("lobbyapi: unauthorized")
	ErrForbidden    = errors.New("lobbyapi: forbidden")
	ErrNotFound     = errors.New("lobbyapi: not found")
	ErrConflict     = errors.New("lobbyapi: conflict")
)

const defaultTimeout = 10 * time.Second

// Credentials is the issued access/refresh pair plus identity.
type Credentials struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid lobby base url %q", baseURL)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createTableRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	err := c.post(ctx, "/api/auth/login", "", credentialsRequest{Username: username, Password: password}, &creds)
	return creds, err
}

func (c *Client) Register(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	err := c.post(ctx, "/api/auth/register", "", credentialsRequest{Username: username, Password: password}, &creds)
	return creds, err
}

// Refresh exchanges a refresh token for a fresh credential pair, e.g. after
// the realtime layer signals auth expiry.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	var creds Credentials
	err := c.post(ctx, "/api/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &creds)
	return creds, err
}

func (c *Client) ListTables(ctx context.Context, accessToken string) ([]wire.TableInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/tables", accessToken, nil)
	if err != nil {
		return nil, err
	}
	var out wire.TablesList
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

func (c *Client) CreateTable(ctx context.Context, accessToken, name string) (wire.TableInfo, error) {
	var out wire.TableInfo
	err := c.post(ctx, "/api/tables", accessToken, createTableRequest{Name: name}, &out)
	return out, err
}

func (c *Client) DeleteTable(ctx context.Context, accessToken, tableID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/tables/"+url.PathEscape(tableID), accessToken, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	}
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lobbyapi: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lobbyapi: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		return fmt.Errorf("lobbyapi: %s: %s", resp.Request.URL.Path, msg)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
