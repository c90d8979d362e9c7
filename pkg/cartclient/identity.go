// Package cartclient implements the shopper-side cart state machine: a single
// logical "current cart" that lives in a local store while the shopper is
// anonymous and in the remote cart service once they sign in, converging
// across sign-in/sign-out transitions.
package cartclient

import "sync"

// Identity is the current shopper identity. The zero value is Anonymous.
type Identity struct {
	UserID string
}

// Anonymous is the identity of a signed-out session.
var Anonymous = Identity{}

// Authenticated reports whether the identity belongs to a signed-in user.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// IdentityProvider supplies the current identity and notifies subscribers on
// sign-in/sign-out transitions. Token issuance and validation live elsewhere;
// the cart manager only needs "who is signed in" and "tell me when it changes".
type IdentityProvider interface {
	Current() Identity
	// Subscribe registers fn to be called on every identity transition.
	// The returned function cancels the subscription.
	Subscribe(fn func(Identity)) (cancel func())
}

// SignInState is a mutex-guarded IdentityProvider for applications and tests.
type SignInState struct {
	mu      sync.Mutex
	current Identity
	subs    map[int]func(Identity)
	nextSub int
}

func NewSignInState() *SignInState {
	return &SignInState{subs: make(map[int]func(Identity))}
}

func (s *SignInState) Current() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SignInState) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetIdentity records a transition and notifies subscribers synchronously.
// Setting the identity already in effect is a no-op.
func (s *SignInState) SetIdentity(id Identity) {
	s.mu.Lock()
	if s.current == id {
		s.mu.Unlock()
		return
	}
	s.current = id
	subs := make([]func(Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// SignOut transitions back to Anonymous.
func (s *SignInState) SignOut() {
	s.SetIdentity(Anonymous)
}
