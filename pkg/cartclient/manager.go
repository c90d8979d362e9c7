package cartclient

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/core/domain"
)

// Snapshot is the product display data captured when an item is added; the
// cart never re-fetches it from the catalog.
type Snapshot struct {
	ProductID string
	Title     string
	Price     float64
	Image     string
}

// SnapshotOf captures the add-time display snapshot of a catalog product.
func SnapshotOf(p domain.Product) Snapshot {
	return Snapshot{
		ProductID: strconv.Itoa(p.ID),
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.Thumbnail,
	}
}

// Options tunes manager behaviour.
type Options struct {
	// MergeOnSignIn pushes the guest cart into the server cart on sign-in
	// (summing quantities for overlapping products) and clears the local
	// slot. When false the server cart simply replaces the guest cart in
	// memory; the guest cart stays in the local store untouched.
	MergeOnSignIn bool
	// TransitionTimeout bounds the remote calls issued while reacting to an
	// identity transition. Defaults to 15s.
	TransitionTimeout time.Duration
}

// Manager keeps the single logical "current cart" consistent across the
// anonymous and authenticated modes. Every mutation reads the current
// identity: anonymous mutations are applied in memory and persisted to the
// local store synchronously; authenticated mutations round-trip to the remote
// cart service and adopt the returned authoritative cart. A failed remote
// call leaves the in-memory cart at its last-known-good value.
type Manager struct {
	identity IdentityProvider
	remote   RemoteCart
	store    CartStore
	opts     Options
	log      zerolog.Logger

	mu            sync.Mutex
	cart          domain.Cart
	loading       bool
	transitionErr error
	unsubscribe   func()
}

// NewManager builds a manager seeded from the local store and subscribed to
// identity transitions. When the current identity is already authenticated,
// the server cart is loaded immediately.
func NewManager(identity IdentityProvider, remote RemoteCart, store CartStore, opts Options, log zerolog.Logger) *Manager {
	if opts.TransitionTimeout <= 0 {
		opts.TransitionTimeout = 15 * time.Second
	}

	m := &Manager{
		identity: identity,
		remote:   remote,
		store:    store,
		opts:     opts,
		log:      log,
		cart:     store.Load(),
	}
	m.unsubscribe = identity.Subscribe(m.onIdentityChange)

	if id := identity.Current(); id.Authenticated() {
		m.onIdentityChange(id)
	}
	return m
}

// Close cancels the identity subscription.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// AddToCart adds one unit of the product to the current cart. Adding a
// product already present increments its quantity.
func (m *Manager) AddToCart(ctx context.Context, s Snapshot) error {
	line := domain.CartLine{
		ProductID: s.ProductID,
		Quantity:  1,
		Title:     s.Title,
		UnitPrice: s.Price,
		Image:     s.Image,
	}
	if err := line.Validate(); err != nil {
		return err
	}

	if !m.identity.Current().Authenticated() {
		return m.mutateLocal(func(c domain.Cart) (domain.Cart, error) {
			return c.Add(line), nil
		})
	}
	return m.callRemote(ctx, func() (domain.Cart, error) {
		return m.remote.AddItem(ctx, line)
	})
}

// UpdateQuantity sets the quantity of an existing line. A requested quantity
// below 1 is translated into a removal, keeping the service's quantity floor
// intact.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return m.RemoveFromCart(ctx, productID)
	}

	if !m.identity.Current().Authenticated() {
		return m.mutateLocal(func(c domain.Cart) (domain.Cart, error) {
			return c.SetQuantity(productID, quantity)
		})
	}
	return m.callRemote(ctx, func() (domain.Cart, error) {
		return m.remote.UpdateQuantity(ctx, productID, quantity)
	})
}

// RemoveFromCart deletes the line for productID. Removing an absent line is
// not an error.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) error {
	if !m.identity.Current().Authenticated() {
		return m.mutateLocal(func(c domain.Cart) (domain.Cart, error) {
			return c.Remove(productID), nil
		})
	}
	return m.callRemote(ctx, func() (domain.Cart, error) {
		return m.remote.RemoveItem(ctx, productID)
	})
}

// ClearCart empties the current cart. The anonymous path also removes the
// persisted slot.
func (m *Manager) ClearCart(ctx context.Context) error {
	if !m.identity.Current().Authenticated() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.store.Clear(); err != nil {
			return err
		}
		m.cart = domain.Cart{}
		return nil
	}
	return m.callRemote(ctx, func() (domain.Cart, error) {
		return m.remote.ClearCart(ctx)
	})
}

// Items returns a copy of the current cart.
func (m *Manager) Items() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(domain.Cart, len(m.cart))
	copy(out, m.cart)
	return out
}

// GetTotal returns the derived cart total.
func (m *Manager) GetTotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Total()
}

// GetItemCount returns the total number of units in the cart.
func (m *Manager) GetItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.ItemCount()
}

// Loading reports whether a remote call is in flight. Anonymous operations
// are synchronous and never toggle it.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// TransitionErr returns the error from the most recent identity transition,
// nil when it completed. A non-nil value means the manager is still showing
// the pre-transition cart; call Refresh to retry the adoption.
func (m *Manager) TransitionErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionErr
}

// Refresh re-adopts the authoritative cart for the current identity: the
// server cart when signed in, the local store when anonymous. It is the retry
// hook for a failed sign-in transition.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.identity.Current().Authenticated() {
		m.mu.Lock()
		m.cart = m.store.Load()
		m.transitionErr = nil
		m.mu.Unlock()
		return nil
	}

	m.setLoading(true)
	defer m.setLoading(false)

	cart, err := m.remote.GetCart(ctx)
	if err != nil {
		m.setTransitionErr(err)
		return err
	}
	m.adopt(cart)
	return nil
}

// mutateLocal applies a pure transform and persists the full result to the
// local store before returning.
func (m *Manager) mutateLocal(fn func(domain.Cart) (domain.Cart, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.cart)
	if err != nil {
		return err
	}
	if err := m.store.Save(next); err != nil {
		return err
	}
	m.cart = next
	return nil
}

// callRemote runs one remote mutation with the loading flag raised. On
// success the returned authoritative cart replaces the in-memory state; on
// failure the state is left untouched and the error surfaces to the caller.
func (m *Manager) callRemote(ctx context.Context, fn func() (domain.Cart, error)) error {
	m.setLoading(true)
	defer m.setLoading(false)

	cart, err := fn()
	if err != nil {
		return err
	}

	m.adopt(cart)
	return nil
}

// onIdentityChange reconciles the in-memory cart with the new identity. On
// sign-in the server cart is adopted (optionally after merging the guest
// cart); the guest cart remains in the local store unless merged. On sign-out
// the cart reloads from the local store. A failed sign-in transition leaves
// the pre-transition cart in place and is exposed via TransitionErr.
func (m *Manager) onIdentityChange(id Identity) {
	if !id.Authenticated() {
		m.mu.Lock()
		m.cart = m.store.Load()
		m.transitionErr = nil
		m.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.TransitionTimeout)
	defer cancel()

	m.setLoading(true)
	defer m.setLoading(false)

	if m.opts.MergeOnSignIn {
		if err := m.mergeGuestCart(ctx); err != nil {
			m.setTransitionErr(err)
			return
		}
	}

	cart, err := m.remote.GetCart(ctx)
	if err != nil {
		m.log.Error().Err(err).Str("user_id", id.UserID).Msg("failed to load server cart on sign-in")
		m.setTransitionErr(err)
		return
	}
	m.adopt(cart)
}

// mergeGuestCart pushes every guest line through the server's add operation,
// which sums quantities for overlapping products, then clears the local slot.
func (m *Manager) mergeGuestCart(ctx context.Context) error {
	guest := m.store.Load()
	if len(guest) == 0 {
		return nil
	}

	for _, line := range guest {
		if _, err := m.remote.AddItem(ctx, line); err != nil {
			m.log.Error().Err(err).Str("product_id", line.ProductID).Msg("failed to merge guest cart line")
			return err
		}
	}

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear guest cart after merge")
	}
	return nil
}

func (m *Manager) adopt(cart domain.Cart) {
	m.mu.Lock()
	m.cart = cart.Normalize()
	m.transitionErr = nil
	m.mu.Unlock()
}

func (m *Manager) setTransitionErr(err error) {
	m.mu.Lock()
	m.transitionErr = err
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
