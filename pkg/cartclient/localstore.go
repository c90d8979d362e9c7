package cartclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/astrape/storefront/internal/core/domain"
)

// CartStore is the durable slot holding the anonymous (guest) cart. It is
// local to the current device; there is no cross-device visibility.
type CartStore interface {
	// Load returns the persisted cart. Absent or unreadable content yields an
	// empty cart, never an error: corrupt data fails soft.
	Load() domain.Cart
	// Save overwrites the slot with the full cart.
	Save(cart domain.Cart) error
	// Clear removes the slot.
	Clear() error
}

// FileStore persists the guest cart as JSON in a single named file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}
	}
	// Persisted content is untrusted; drop anything violating cart invariants.
	return cart.Normalize()
}

func (s *FileStore) Save(cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart == nil {
		cart = domain.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("save guest cart: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}
