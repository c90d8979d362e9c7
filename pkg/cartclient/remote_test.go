package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/astrape/storefront/internal/core/domain"
)

func TestRemoteClient_GetCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/cart" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token123" {
			t.Fatalf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cart":[{"productId":"p1","quantity":2,"title":"Phone","price":549}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, TokenSource: func() string { return "token123" }})
	cart, err := client.GetCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "p1" || cart[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestRemoteClient_AddItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/add" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["productId"] != "p1" || body["price"] != float64(549) {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Item added to cart","cart":[{"productId":"p1","quantity":1,"title":"Phone","price":549}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	cart, err := client.AddItem(context.Background(), domain.CartLine{
		ProductID: "p1", Quantity: 1, Title: "Phone", UnitPrice: 549,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestRemoteClient_UpdateQuantity_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/cart/update/p1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Cart updated","cart":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := client.UpdateQuantity(context.Background(), "p1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoteClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := client.GetCart(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRemoteClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"item not found in cart"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := client.UpdateQuantity(context.Background(), "ghost", 3); !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRemoteClient_BadRequestCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"quantity must be at least 1"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.UpdateQuantity(context.Background(), "p1", 0)
	if err == nil || !strings.Contains(err.Error(), "quantity must be at least 1") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}
