package mongo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/astrape/storefront/internal/core/domain"
)

// fakeCartStore is an in-memory cartStore. conflicts forces the next N store
// calls to report a CAS conflict; each simulated conflict also bumps the
// stored version, as a concurrent writer would.
type fakeCartStore struct {
	mu        sync.Mutex
	cart      domain.Cart
	version   int64
	conflicts int

	loadErr  error
	storeErr error

	loadCalls  int
	storeCalls int
}

func (s *fakeCartStore) load(_ context.Context, _ string) (domain.Cart, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCalls++
	if s.loadErr != nil {
		return nil, 0, s.loadErr
	}
	out := make(domain.Cart, len(s.cart))
	copy(out, s.cart)
	return out, s.version, nil
}

func (s *fakeCartStore) store(_ context.Context, _ string, cart domain.Cart, version int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeCalls++
	if s.storeErr != nil {
		return false, s.storeErr
	}
	if s.conflicts > 0 {
		s.conflicts--
		s.version++
		return false, nil
	}
	if version != s.version {
		return false, nil
	}
	s.cart = cart
	s.version++
	return true, nil
}

func repoOver(store *fakeCartStore) *CartRepository {
	return &CartRepository{records: store}
}

func addLine(id string, qty int) func(domain.Cart) (domain.Cart, error) {
	return func(c domain.Cart) (domain.Cart, error) {
		return c.Add(domain.CartLine{ProductID: id, Quantity: qty, Title: "Product " + id, UnitPrice: 10}), nil
	}
}

func TestCartRepository_Mutate_FirstAttempt(t *testing.T) {
	store := &fakeCartStore{}
	repo := repoOver(store)

	cart, err := repo.Mutate(context.Background(), "u1", addLine("A", 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "A" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if store.storeCalls != 1 {
		t.Errorf("expected a single store call, got %d", store.storeCalls)
	}
}

// A version conflict must reload the record and reapply the transform to the
// fresh state, not retry the stale write.
func TestCartRepository_Mutate_RetriesOnConflict(t *testing.T) {
	store := &fakeCartStore{
		cart:      domain.Cart{{ProductID: "A", Quantity: 1, Title: "Product A", UnitPrice: 10}},
		version:   1,
		conflicts: 2,
	}
	repo := repoOver(store)

	cart, err := repo.Mutate(context.Background(), "u1", addLine("A", 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart[0].Quantity != 2 {
		t.Fatalf("expected increment applied once, got %+v", cart)
	}
	if store.loadCalls != 3 || store.storeCalls != 3 {
		t.Errorf("expected 3 load/store rounds (2 conflicts + success), got %d/%d", store.loadCalls, store.storeCalls)
	}
}

func TestCartRepository_Mutate_ExhaustsAttempts(t *testing.T) {
	store := &fakeCartStore{conflicts: maxMutateAttempts}
	repo := repoOver(store)

	_, err := repo.Mutate(context.Background(), "u1", addLine("A", 1))
	if err == nil || !strings.Contains(err.Error(), "exceeded") {
		t.Fatalf("expected attempt-exhaustion error, got %v", err)
	}
	if store.storeCalls != maxMutateAttempts {
		t.Errorf("expected %d store attempts, got %d", maxMutateAttempts, store.storeCalls)
	}
}

func TestCartRepository_Mutate_FnErrorAbortsWithoutWrite(t *testing.T) {
	store := &fakeCartStore{}
	repo := repoOver(store)

	_, err := repo.Mutate(context.Background(), "u1", func(c domain.Cart) (domain.Cart, error) {
		return c.SetQuantity("ghost", 3)
	})
	if !errors.Is(err, domain.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
	if store.storeCalls != 0 {
		t.Errorf("a failed transform must not write, got %d store calls", store.storeCalls)
	}
}

func TestCartRepository_Mutate_StoreErrorSurfaced(t *testing.T) {
	store := &fakeCartStore{storeErr: errors.New("write concern failed")}
	repo := repoOver(store)

	if _, err := repo.Mutate(context.Background(), "u1", addLine("A", 1)); err == nil {
		t.Fatal("expected storage error to surface")
	}
}

func TestCartRepository_Get_EmptyForNewUser(t *testing.T) {
	repo := repoOver(&fakeCartStore{})

	cart, err := repo.Get(context.Background(), "brand-new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("expected empty cart, got %+v", cart)
	}
}

// Two goroutines increment the same product through the CAS loop; both
// increments must survive.
func TestCartRepository_Mutate_ConcurrentIncrements(t *testing.T) {
	store := &fakeCartStore{}
	repo := repoOver(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Mutate(ctx, "u1", addLine("A", 1)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	cart, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", cart)
	}
}
