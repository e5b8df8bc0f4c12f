// Package api implements the HTTP client for the external marketplace API.
// The API owns all listing and reservation state; this client only calls it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stayfinder/internal/config"
	"stayfinder/internal/metrics"
	"stayfinder/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Client is the HTTP client for the marketplace API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// ListingFilter narrows GET /api/listings. Empty fields are omitted.
type ListingFilter struct {
	Status   string
	Location string
}

func NewClient(cfg config.MarketplaceConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
	}
}

// UseRedisCache configures optional Redis caching for listing GETs.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	resp.User.Role = models.ParseRole(string(resp.User.Role))
	return &resp, nil
}

// Register creates an account and returns a fresh session pair.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	resp.User.Role = models.ParseRole(string(resp.User.Role))
	return &resp, nil
}

// Listings fetches listings, optionally filtered by status and location.
func (c *Client) Listings(ctx context.Context, token string, filter ListingFilter) ([]models.Listing, error) {
	endpoint := "/api/listings"
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Location != "" {
		params.Set("location", filter.Location)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	cacheKey := "listings:" + params.Encode()
	var listings []models.Listing

	// Only the public (unauthenticated) view is cacheable.
	if token == "" && c.readCache(ctx, cacheKey, &listings) {
		return listings, nil
	}

	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &listings); err != nil {
		return nil, err
	}
	if token == "" {
		c.writeCache(ctx, cacheKey, listings)
	}
	return listings, nil
}

// Listing fetches a single listing by id.
func (c *Client) Listing(ctx context.Context, id string) (*models.Listing, error) {
	cacheKey := "listing:" + id
	var listing models.Listing
	if c.readCache(ctx, cacheKey, &listing) {
		return &listing, nil
	}

	if err := c.doJSON(ctx, http.MethodGet, "/api/listings/"+url.PathEscape(id), "", nil, &listing); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, listing)
	return &listing, nil
}

// CreateListing submits a new listing. Bearer-authenticated.
func (c *Client) CreateListing(ctx context.Context, token string, listing *models.Listing) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/listings", token, listing, nil)
	if err == nil {
		c.invalidateListings(ctx)
	}
	return err
}

// UpdateListing replaces a listing (moderation and host edits both go
// through here; the server expects the complete document).
func (c *Client) UpdateListing(ctx context.Context, token string, listing *models.Listing) error {
	err := c.doJSON(ctx, http.MethodPut, "/api/listings/"+url.PathEscape(listing.ID), token, listing, nil)
	if err == nil {
		c.invalidateListing(ctx, listing.ID)
	}
	return err
}

// DeleteListing removes a listing. Bearer-authenticated.
func (c *Client) DeleteListing(ctx context.Context, token, id string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/api/listings/"+url.PathEscape(id), token, nil, nil)
	if err == nil {
		c.invalidateListing(ctx, id)
	}
	return err
}

// CreateReservation submits a reservation. The API is authoritative; the
// caller must not assume success beyond this synchronous response.
func (c *Client) CreateReservation(ctx context.Context, token string, req models.ReservationRequest) (*models.Reservation, error) {
	var created models.Reservation
	if err := c.doJSON(ctx, http.MethodPost, "/api/reservations", token, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Reservations lists reservations visible to the token's account.
func (c *Client) Reservations(ctx context.Context, token string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := c.doJSON(ctx, http.MethodGet, "/api/reservations", token, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Endpoint: endpoint, Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(endpoint, "transport_error")
		return &Error{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.IncAPIRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode))
		return &Error{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    decodeErrorMessage(resp),
		}
	}

	metrics.IncAPIRequest(endpoint, "ok")
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	return nil
}

// decodeErrorMessage extracts {"message": "..."} from error bodies when the
// server sends one.
func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) invalidateListing(ctx context.Context, id string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, "listing:"+id).Err()
	c.invalidateListings(ctx)
}

func (c *Client) invalidateListings(ctx context.Context) {
	if c.redis == nil {
		return
	}
	iter := c.redis.Scan(ctx, 0, "listings:*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.redis.Del(ctx, iter.Val()).Err()
	}
}
