package api

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
)

const defaultTimeout = 15 * time.Second

// envelope mirrors the server response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

// Client is a typed HTTP client for the customer-hub API. It carries the
// bearer token but never decides what a failure means for the session;
// classification is returned to the caller as *Error values.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

// Health probes the liveness endpoint. It needs no token and is called
// at startup to tell "server unreachable" apart from auth problems.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{Email: email, Password: password}, &result)
	return result, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{Email: email, Password: password}, &result)
	return result, err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var payload struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &payload)
	return payload.User, err
}

func (c *Client) ListCustomers(ctx context.Context, params ListParams) (CustomerPage, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	path := "/api/customers"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page CustomerPage
	err := c.do(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

// Single-customer responses arrive nested as data.customer, the same
// shape /api/auth/me uses for data.user.
type customerPayload struct {
	Customer Customer `json:"customer"`
}

func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var payload customerPayload
	err := c.do(ctx, http.MethodGet, "/api/customers/"+url.PathEscape(id), nil, &payload)
	return payload.Customer, err
}

func (c *Client) CreateCustomer(ctx context.Context, fields CustomerFields) (Customer, error) {
	var payload customerPayload
	err := c.do(ctx, http.MethodPost, "/api/customers", fields, &payload)
	return payload.Customer, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, fields CustomerFields) (Customer, error) {
	var payload customerPayload
	err := c.do(ctx, http.MethodPut, "/api/customers/"+url.PathEscape(id), fields, &payload)
	return payload.Customer, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return networkError(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    "Malformed server response",
			cause:      err,
		}
	}

	if !env.Success || resp.StatusCode >= 400 {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    message,
			Fields:     env.Errors,
		}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
