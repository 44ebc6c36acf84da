package medhub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service defines the backend operations the client exposes. The interface is
// implemented by *Client and can be used for testing.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	FetchProfile(ctx context.Context) (*ProfileBundle, error)
	SaveProfile(ctx context.Context, user Profile, addr Address) (*ProfileBundle, error)
	FetchReminders(ctx context.Context) ([]Reminder, error)
	AddReminder(ctx context.Context, medicineName, dosage, timeOfDay string) (Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the MedHub HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultServerBind = "127.0.0.1:8000"
	defaultUserAgent  = "pillbox/0.1"
	requestTimeout    = 10 * time.Second
	tokenCookieName   = "token"
)

// APIError reports a request the server answered but refused: a non-2xx
// status or a well-formed payload carrying an error field. Both are treated
// identically by callers.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return e.Message
}

// NewClient builds a Client using the provided server host:port or URL.
func NewClient(serverURL string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			// Login and register answer with a redirect after setting the
			// session cookie; the cookie is what we are after.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: defaultUserAgent,
	}, nil
}

// SetToken attaches a session token to subsequent requests. Call it before
// issuing authenticated calls; it is not safe to race with in-flight requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Authenticated reports whether a session token is attached.
func (c *Client) Authenticated() bool {
	return c != nil && c.token != ""
}

// Login authenticates with the backend and returns the session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if c == nil {
		return "", errors.New("client is nil")
	}
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	return c.postCredentials(ctx, "/login", form)
}

// Register creates a new account and returns the session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	if c == nil {
		return "", errors.New("client is nil")
	}
	form := url.Values{}
	form.Set("username", name)
	form.Set("email", email)
	form.Set("password", password)
	return c.postCredentials(ctx, "/register/", form)
}

// FetchProfile retrieves the profile, address, and reminders in one call.
func (c *Client) FetchProfile(ctx context.Context) (*ProfileBundle, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	var payload ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/info", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Message: payload.Error}
	}
	return &ProfileBundle{
		User:      payload.User,
		Address:   payload.Address,
		Reminders: payload.Reminders,
	}, nil
}

// SaveProfile persists profile edits. When the backend echoes a normalized
// record it is returned; a plain ack yields a nil bundle.
func (c *Client) SaveProfile(ctx context.Context, user Profile, addr Address) (*ProfileBundle, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	body := struct {
		User    Profile `json:"user"`
		Address Address `json:"address"`
	}{User: user, Address: addr}
	var payload ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/api/info", body, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Message: payload.Error}
	}
	if payload.User.Email == "" {
		return nil, nil
	}
	return &ProfileBundle{User: payload.User, Address: payload.Address}, nil
}

// FetchReminders retrieves the caller's reminder list.
func (c *Client) FetchReminders(ctx context.Context) ([]Reminder, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	var payload RemindersResponse
	if err := c.do(ctx, http.MethodGet, "/api/reminders/user", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Message: payload.Error}
	}
	return payload.Reminders, nil
}

// AddReminder creates one reminder and returns the backend-assigned record.
func (c *Client) AddReminder(ctx context.Context, medicineName, dosage, timeOfDay string) (Reminder, error) {
	if c == nil {
		return Reminder{}, errors.New("client is nil")
	}
	body := struct {
		MedicineName string `json:"medicineName"`
		Dosage       string `json:"dosage"`
		Time         string `json:"time"`
	}{MedicineName: medicineName, Dosage: dosage, Time: timeOfDay}
	var created Reminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders/add", body, &created); err != nil {
		return Reminder{}, err
	}
	return created, nil
}

// DeleteReminder removes the reminder with the given identifier.
func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	if c == nil {
		return errors.New("client is nil")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return errors.New("reminder id required")
	}
	rel := &url.URL{Path: "/api/reminders/delete/" + trimmed}
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

// postCredentials submits a login or register form and extracts the session
// cookie from the response.
func (c *Client) postCredentials(ctx context.Context, path string, form url.Values) (string, error) {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == tokenCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", &APIError{Status: resp.StatusCode, Message: "no session token in response"}
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts the error message the backend attaches to non-2xx
// responses. FastAPI-era deployments use "detail"; older ones use "error".
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	msg := ""
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		if err := json.Unmarshal(body, &payload); err == nil {
			msg = payload.Detail
			if msg == "" {
				msg = payload.Error
			}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
