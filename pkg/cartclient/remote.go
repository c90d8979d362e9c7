package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/astrape/storefront/internal/core/domain"
)

// ErrUnauthorized is returned when the server rejects the session credential.
var ErrUnauthorized = errors.New("unauthorized")

const defaultRemoteTimeout = 10 * time.Second

// RemoteCart is the server-side cart the manager talks to while the shopper
// is signed in. Every mutation returns the full authoritative cart.
type RemoteCart interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddItem(ctx context.Context, line domain.CartLine) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, productID string) (domain.Cart, error)
	ClearCart(ctx context.Context) (domain.Cart, error)
}

// ClientConfig holds the injected service location and transport policy.
type ClientConfig struct {
	BaseURL string
	// Timeout bounds every remote call so a stalled server surfaces as a
	// failure instead of leaving the manager loading forever.
	Timeout time.Duration
	// TokenSource supplies the current bearer token, empty when signed out.
	TokenSource func() string
}

// Client implements RemoteCart over the storefront cart HTTP API.
type Client struct {
	baseURL string
	token   func() string
	http    *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	token := cfg.TokenSource
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type addItemBody struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

type updateQuantityBody struct {
	Quantity int `json:"quantity"`
}

// cartEnvelope matches both the {cart} and {message, cart} response shapes.
type cartEnvelope struct {
	Message string      `json:"message"`
	Cart    domain.Cart `json:"cart"`
}

func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	return c.do(ctx, http.MethodGet, "/cart", nil)
}

func (c *Client) AddItem(ctx context.Context, line domain.CartLine) (domain.Cart, error) {
	return c.do(ctx, http.MethodPost, "/cart/add", addItemBody{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Title:     line.Title,
		Price:     line.UnitPrice,
		Image:     line.Image,
	})
}

func (c *Client) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	return c.do(ctx, http.MethodPut, "/cart/update/"+productID, updateQuantityBody{Quantity: quantity})
}

func (c *Client) RemoveItem(ctx context.Context, productID string) (domain.Cart, error) {
	return c.do(ctx, http.MethodDelete, "/cart/remove/"+productID, nil)
}

func (c *Client) ClearCart(ctx context.Context) (domain.Cart, error) {
	return c.do(ctx, http.MethodDelete, "/cart/clear", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (domain.Cart, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart call: %w", err)
	}
	defer resp.Body.Close()

	var envelope cartEnvelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	switch {
	case resp.StatusCode == http.StatusOK:
		if decodeErr != nil {
			return nil, fmt.Errorf("decode cart response: %w", decodeErr)
		}
		return envelope.Cart, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrLineNotFound
	case resp.StatusCode == http.StatusBadRequest:
		if envelope.Message != "" {
			return nil, fmt.Errorf("cart call rejected: %s", envelope.Message)
		}
		return nil, errors.New("cart call rejected")
	default:
		return nil, fmt.Errorf("cart call failed with status %d", resp.StatusCode)
	}
}
