package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/model"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

const defaultTimeout = 15 * time.Second

// Result is a successful, decoded response.
type Result[T any] struct {
	Status  int
	Message string
	Data    T
}

// Token is a bearer token issued by login or refresh.
type Token struct {
	Token     string
	TokenType string
	ExpiresIn int64
}

// TravelInput is the body of a create request. Empty fields are sent and
// rejected by the server as missing.
type TravelInput struct {
	Name    string `json:"Name"`
	Travel  string `json:"Travel"`
	DateIn  string `json:"DateIn"`
	DateOut string `json:"DateOut"`
	Status  string `json:"Status"`
}

// TravelPatch is the body of an update request; nil fields are left as they are.
type TravelPatch struct {
	Name    *string `json:"Name,omitempty"`
	Travel  *string `json:"Travel,omitempty"`
	DateIn  *string `json:"DateIn,omitempty"`
	DateOut *string `json:"DateOut,omitempty"`
	Status  *string `json:"Status,omitempty"`
}

// Client talks to the travel API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	_, raw, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return nil, err
	}
	var health dto.HealthResponse
	if err := json.Unmarshal(raw, &health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &health, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*Result[dto.LoginData], error) {
	body := map[string]string{"email": email, "password": password}
	status, raw, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return nil, err
	}

	res, err := decodeData[dto.LoginData](status, raw)
	if err != nil {
		return nil, err
	}
	if res.Data.Token == "" || res.Data.User == nil {
		return nil, errors.New("login response is missing token or user")
	}
	return res, nil
}

// Logout ends the session behind token.
func (c *Client) Logout(ctx context.Context, token string) (*Result[struct{}], error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeMessage(status, raw)
}

// Refresh exchanges token, expired or not, for a new one.
func (c *Client) Refresh(ctx context.Context, token string) (*Result[Token], error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/auth/refresh", token, nil)
	if err != nil {
		return nil, err
	}

	var resp dto.RefreshResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if resp.Token == "" {
		return nil, errors.New("refresh response is missing token")
	}
	return &Result[Token]{
		Status: status,
		Data:   Token{Token: resp.Token, TokenType: resp.TokenType, ExpiresIn: resp.ExpiresIn},
	}, nil
}

// Me returns the user token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*Result[*model.User], error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	var resp dto.MeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &Result[*model.User]{Status: status, Data: resp.User}, nil
}

// ListTravels returns every travel.
func (c *Client) ListTravels(ctx context.Context, token string) (*Result[[]model.Travel], error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/travels", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]model.Travel](status, raw)
}

// GetTravel returns one travel.
func (c *Client) GetTravel(ctx context.Context, token string, id int64) (*Result[model.Travel], error) {
	status, raw, err := c.do(ctx, http.MethodGet, travelPath(id), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[model.Travel](status, raw)
}

// CreateTravel creates a travel. The endpoint accepts anonymous callers,
// so token may be empty.
func (c *Client) CreateTravel(ctx context.Context, token string, input TravelInput) (*Result[model.Travel], error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/travels", token, input)
	if err != nil {
		return nil, err
	}
	return decodeData[model.Travel](status, raw)
}

// UpdateTravel changes the fields set in patch.
func (c *Client) UpdateTravel(ctx context.Context, token string, id int64, patch TravelPatch) (*Result[model.Travel], error) {
	status, raw, err := c.do(ctx, http.MethodPut, travelPath(id), token, patch)
	if err != nil {
		return nil, err
	}
	return decodeData[model.Travel](status, raw)
}

// DeleteTravel removes a travel.
func (c *Client) DeleteTravel(ctx context.Context, token string, id int64) (*Result[struct{}], error) {
	status, raw, err := c.do(ctx, http.MethodDelete, travelPath(id), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeMessage(status, raw)
}

func travelPath(id int64) string {
	return "/travels/" + strconv.FormatInt(id, 10)
}

// do sends a request and returns the raw body of a successful response.
// Error statuses come back as *APIError; transport failures wrap ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, nil, decodeError(resp.StatusCode, raw, isJSON)
	}
	if !isJSON {
		return resp.StatusCode, nil, fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	return resp.StatusCode, raw, nil
}

func decodeError(status int, raw []byte, isJSON bool) *APIError {
	apiErr := &APIError{
		Status:  status,
		Kind:    dto.KindUnexpected,
		Message: http.StatusText(status),
	}
	if !isJSON {
		return apiErr
	}

	var env dto.ErrorResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return apiErr
	}
	if env.Kind != "" {
		apiErr.Kind = env.Kind
	}
	if env.Message != "" {
		apiErr.Message = env.Message
	}
	apiErr.Code = env.Code
	apiErr.Detail = env.Error
	apiErr.Fields = env.Errors
	return apiErr
}

func decodeData[T any](status int, raw []byte) (*Result[T], error) {
	var env struct {
		Message string `json:"message"`
		Data    T      `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &Result[T]{Status: status, Message: env.Message, Data: env.Data}, nil
}

func decodeMessage(status int, raw []byte) (*Result[struct{}], error) {
	var env dto.MessageResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &Result[struct{}]{Status: status, Message: env.Message}, nil
}
