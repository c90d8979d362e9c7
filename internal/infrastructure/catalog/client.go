// Package catalog implements the client for the third-party product catalog
// API. The catalog is a read-only collaborator: the storefront proxies and
// filters its paged product listings but never writes to it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/astrape/storefront/internal/api/metrics"
	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config locates the upstream catalog service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the upstream catalog over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client. A default timeout is applied when none
// is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type listResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// List fetches one page of products. Search and paging parameters are passed
// through to the upstream API.
func (c *Client) List(ctx context.Context, q ports.ProductQuery) (*ports.ProductPage, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}

	path := "/products"
	if q.Search != "" {
		path = "/products/search"
		params.Set("q", q.Search)
	}

	endpoint := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var resp listResponse
	if err := c.getJSON(ctx, "list", endpoint, &resp); err != nil {
		return nil, err
	}

	return &ports.ProductPage{
		Products: resp.Products,
		Total:    resp.Total,
		Skip:     resp.Skip,
		Limit:    resp.Limit,
	}, nil
}

// Get fetches a single product by id.
func (c *Client) Get(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, "get", fmt.Sprintf("%s/products/%d", c.baseURL, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories fetches the category list. The upstream API has shipped both a
// plain string array and an object array for this endpoint; both are accepted.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "categories", c.baseURL+"/products/categories", &raw); err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}

	var objects []struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("catalog categories: unexpected payload: %w", err)
	}
	names = make([]string, 0, len(objects))
	for _, o := range objects {
		if o.Name != "" {
			names = append(names, o.Name)
		} else {
			names = append(names, o.Slug)
		}
	}
	return names, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, dest any) error {
	start := time.Now()
	defer func() {
		metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog fetch: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("catalog decode: %w", err)
	}
	return nil
}
