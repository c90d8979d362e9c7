package cartclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astrape/storefront/internal/core/domain"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "cart.json"))
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := tempStore(t)

	cart := store.Load()
	if len(cart) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	store := tempStore(t)

	saved := domain.Cart{
		{ProductID: "p1", Quantity: 2, Title: "Phone", UnitPrice: 549},
		{ProductID: "p2", Quantity: 1, Title: "Laptop", UnitPrice: 1499},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := store.Load()
	if len(loaded) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loaded))
	}
	if loaded[0].ProductID != "p1" || loaded[0].Quantity != 2 {
		t.Fatalf("unexpected line: %+v", loaded[0])
	}
}

func TestFileStore_CorruptFileFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store := NewFileStore(path)
	if cart := store.Load(); len(cart) != 0 {
		t.Fatalf("corrupt content must load as empty cart, got %+v", cart)
	}
}

func TestFileStore_LoadDropsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	raw := `[{"productId":"p1","quantity":2,"title":"Phone","price":549},{"productId":"","quantity":1,"title":"Ghost","price":5},{"productId":"p2","quantity":0,"title":"Zero","price":9}]`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store := NewFileStore(path)
	cart := store.Load()
	if len(cart) != 1 || cart[0].ProductID != "p1" {
		t.Fatalf("expected only the valid line to survive, got %+v", cart)
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store := tempStore(t)

	if err := store.Save(domain.Cart{{ProductID: "p1", Quantity: 1, Title: "Phone", UnitPrice: 549}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear must not fail: %v", err)
	}
	if cart := store.Load(); len(cart) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", cart)
	}
}
