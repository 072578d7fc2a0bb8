package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"repairorder/internal/entity"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// ErrSessionExpired is returned when the server rejects the stored token. The
// session has already been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired, please log in again")

// ErrNotLoggedIn is returned by calls that need a token when none is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client calls the REST API with the credentials of one Session.
type Client struct {
	store      *SessionStore
	session    *Session
	httpClient *http.Client
}

// New loads the stored session and returns a client bound to it.
func New(store *SessionStore) (*Client, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Client{
		store:      store,
		session:    session,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// Session returns the current session.
func (c *Client) Session() *Session {
	return c.session
}

// SetBaseURL stores an API base URL override, e.g. http://10.0.0.5:8000/api.
func (c *Client) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid API URL: %q", raw)
		}
	}
	c.session.APIBaseURL = strings.TrimRight(raw, "/")
	return c.store.Save(c.session)
}

func (c *Client) Register(ctx context.Context, username, password string) (uint, error) {
	var resp entity.RegisterResponse
	err := c.call(ctx, http.MethodPost, "/auth/register", false, entity.AuthRegisterRequest{
		Username: username,
		Password: password,
	}, &resp)
	return resp.UserID, err
}

// Login exchanges credentials for a token and persists the session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var resp entity.AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", false, entity.AuthLoginRequest{
		Username: username,
		Password: password,
	}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	user := resp.User
	c.session.Token = resp.Token
	c.session.User = &user
	if err := c.store.Save(c.session); err != nil {
		return nil, err
	}
	return c.session, nil
}

// Logout forgets the token and user.
func (c *Client) Logout() error {
	c.session.Token = ""
	c.session.User = nil
	return c.store.Clear()
}

// Me fetches the caller's profile and refreshes the cached user.
func (c *Client) Me(ctx context.Context) (*entity.UserSummary, error) {
	var resp struct {
		Data entity.UserSummary `json:"data"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/me", true, nil, &resp); err != nil {
		return nil, err
	}
	c.session.User = &resp.Data
	if err := c.store.Save(c.session); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListOrders returns every order; search, when set, is applied by the server.
func (c *Client) ListOrders(ctx context.Context, search string) ([]entity.DbRepairOrder, error) {
	path := "/repair-orders"
	if search = strings.TrimSpace(search); search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var resp entity.RepairOrderListResponse
	if err := c.call(ctx, http.MethodGet, path, true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) GetOrder(ctx context.Context, id uint) (*entity.DbRepairOrder, error) {
	var resp entity.RepairOrderResponse
	if err := c.call(ctx, http.MethodGet, orderPath(id), true, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateOrder(ctx context.Context, req entity.RepairOrderRequest) (uint, error) {
	var resp entity.CreatedResponse
	if err := c.call(ctx, http.MethodPost, "/repair-orders", true, req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id uint, req entity.RepairOrderRequest) error {
	return c.call(ctx, http.MethodPut, orderPath(id), true, req, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, orderPath(id), true, nil, nil)
}

// Export downloads a month's workbook into dir under the server-provided
// file name and returns the written path. An empty store means all stores.
func (c *Client) Export(ctx context.Context, year, month int, store, dir string) (string, error) {
	query := url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strconv.Itoa(month)},
	}
	if store = strings.TrimSpace(store); store != "" {
		query.Set("store", store)
	} else {
		query.Set("store", "all")
	}

	resp, err := c.send(ctx, http.MethodGet, "/repair-orders/export/excel?"+query.Encode(), true, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp, true); err != nil {
		return "", err
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fmt.Sprintf("Repair_Orders_%d-%02d.xlsx", year, month)
	}
	target := filepath.Join(dir, name)
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return target, nil
}

func (c *Client) call(ctx context.Context, method, path string, authed bool, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, authed, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp, authed); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, authed bool, body interface{}) (*http.Response, error) {
	if authed && !c.session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL()+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach server at %s: %w", c.session.BaseURL(), err)
	}
	return resp, nil
}

// checkStatus turns a failure response into an error. A 401 or 403 on an
// authenticated call ends the session.
func (c *Client) checkStatus(resp *http.Response, authed bool) error {
	if resp.StatusCode < 400 {
		return nil
	}
	if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.session.Token = ""
		c.session.User = nil
		if err := c.store.Clear(); err != nil {
			return fmt.Errorf("%w (clearing session: %v)", ErrSessionExpired, err)
		}
		return ErrSessionExpired
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Message string `json:"message"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
	}
	return apiErr
}

func orderPath(id uint) string {
	return "/repair-orders/" + strconv.FormatUint(uint64(id), 10)
}

func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
