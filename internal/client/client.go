// Package client talks to the EstateHub REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"estatehub/internal/domain/favorite"
	"estatehub/internal/domain/property"
)

// APIError is a non-success envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for baseURL, which includes the /api prefix.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProperties calls GET /properties with the non-zero filters.
func (c *Client) ListProperties(ctx context.Context, f property.Filters) ([]property.Property, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}

	var out []property.Property
	err := c.do(ctx, http.MethodGet, "/properties", q, nil, &out)
	return out, err
}

func (c *Client) Cities(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/properties/cities", nil, nil, &out)
	return out, err
}

func (c *Client) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	var out property.Property
	if err := c.do(ctx, http.MethodGet, "/properties/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProperty(ctx context.Context, req property.CreatePropertyRequest) (*property.Property, error) {
	var out property.Property
	if err := c.do(ctx, http.MethodPost, "/properties", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProperty sends changes as-is; keys left out are not modified and a
// nil value clears the column.
func (c *Client) UpdateProperty(ctx context.Context, id string, changes map[string]any) (*property.Property, error) {
	var out property.Property
	if err := c.do(ctx, http.MethodPut, "/properties/"+url.PathEscape(id), nil, changes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/properties/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Favorites(ctx context.Context, userID string) ([]favorite.FavoriteWithProperty, error) {
	var out []favorite.FavoriteWithProperty
	err := c.do(ctx, http.MethodGet, "/favorites", url.Values{"userId": {userID}}, nil, &out)
	return out, err
}

func (c *Client) ToggleFavorite(ctx context.Context, userID, propertyID string) (*favorite.ToggleResult, error) {
	body := favorite.ToggleFavoriteRequest{UserID: userID, PropertyID: propertyID}
	var out favorite.ToggleResult
	if err := c.do(ctx, http.MethodPost, "/favorites/toggle", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) IsFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	q := url.Values{"userId": {userID}, "propertyId": {propertyID}}
	var out favorite.CheckFavoriteResponse
	if err := c.do(ctx, http.MethodGet, "/favorites/check", q, nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

func (c *Client) FavoriteCount(ctx context.Context, userID string) (int64, error) {
	var out favorite.CountResponse
	if err := c.do(ctx, http.MethodGet, "/favorites/count/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}
