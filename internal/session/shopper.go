package session

import (
	"context"
	"fmt"
	"log"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ShopperAPI is the part of the backend the shopper session needs.
type ShopperAPI interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error)
	FetchIdentity(ctx context.Context, credential string) (*models.Identity, error)
	UpdateIdentity(ctx context.Context, credential string, patch models.ProfileInput) (*models.Identity, error)
}

// ShopperSnapshot is an immutable view of the shopper session.
type ShopperSnapshot struct {
	State    State
	Identity *models.Identity
}

// Authenticated reports whether the snapshot carries a resolved identity.
func (s ShopperSnapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// CredentialListener is told about every change of the shopper credential.
type CredentialListener func(ctx context.Context, snap ShopperSnapshot)

// Shopper is the storefront customer session store.
type Shopper struct {
	api   ShopperAPI
	store credentials.Store

	gens      generations
	state     State
	identity  *models.Identity
	listeners []CredentialListener
}

// NewShopper creates the store. Without a persisted credential it starts
// Anonymous; otherwise it stays Unknown until Resume.
func NewShopper(api ShopperAPI, store credentials.Store) *Shopper {
	s := &Shopper{
		api:   api,
		store: store,
		state: StateUnknown,
	}
	if !credentials.Present(store, credentials.Shopper) {
		s.state = StateAnonymous
	}
	return s
}

// Snapshot returns the current state.
func (s *Shopper) Snapshot() ShopperSnapshot {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Shopper) snapshotLocked() ShopperSnapshot {
	return ShopperSnapshot{State: s.state, Identity: s.identity.Clone()}
}

// OnCredentialChange registers l to run after login, registration, logout
// and after a stale credential is cleared.
func (s *Shopper) OnCredentialChange(l CredentialListener) {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Close discards the results of requests still in flight.
func (s *Shopper) Close() {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	s.gens.closed = true
	s.listeners = nil
}

func (s *Shopper) notify(ctx context.Context, snap ShopperSnapshot) {
	s.gens.mu.Lock()
	listeners := append([]CredentialListener(nil), s.listeners...)
	s.gens.mu.Unlock()
	for _, l := range listeners {
		l(ctx, snap)
	}
}

// begin issues a request and moves the store to Loading.
func (s *Shopper) begin() (uint64, ShopperSnapshot, error) {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	if s.gens.closed {
		return 0, ShopperSnapshot{}, ErrClosed
	}
	prev := s.snapshotLocked()
	gen := s.gens.next()
	s.state = StateLoading
	return gen, prev, nil
}

// settle applies a final state if gen is still authoritative. It reports
// whether the result was applied.
func (s *Shopper) settle(gen uint64, state State, identity *models.Identity) (ShopperSnapshot, bool) {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	if !s.gens.current(gen) {
		log.Printf("Discarding superseded shopper session result")
		return s.snapshotLocked(), false
	}
	s.state = state
	s.identity = identity.Clone()
	return s.snapshotLocked(), true
}

// drop clears the credential and returns to Anonymous if gen is current.
func (s *Shopper) drop(gen uint64) (ShopperSnapshot, bool) {
	s.gens.mu.Lock()
	defer s.gens.mu.Unlock()
	if !s.gens.current(gen) {
		return s.snapshotLocked(), false
	}
	if err := s.store.Clear(credentials.Shopper); err != nil {
		log.Printf("Error clearing shopper credential: %v", err)
	}
	s.state = StateAnonymous
	s.identity = nil
	return s.snapshotLocked(), true
}

// Resume resolves the persisted credential into an identity. A credential
// the backend rejects is cleared and ErrSessionExpired is returned. Other
// failures leave the credential in place for the next attempt.
func (s *Shopper) Resume(ctx context.Context) (ShopperSnapshot, error) {
	token, ok := s.store.Get(credentials.Shopper)
	if !ok {
		s.gens.mu.Lock()
		if !s.gens.closed {
			s.gens.next()
			s.state = StateAnonymous
			s.identity = nil
		}
		snap := s.snapshotLocked()
		s.gens.mu.Unlock()
		return snap, nil
	}

	gen, _, err := s.begin()
	if err != nil {
		return ShopperSnapshot{}, err
	}
	identity, err := s.api.FetchIdentity(ctx, token)
	if err != nil {
		return s.fail(ctx, gen, err)
	}
	snap, _ := s.settle(gen, StateAuthenticated, identity)
	return snap, nil
}

// fail handles an identity fetch failure for request gen.
func (s *Shopper) fail(ctx context.Context, gen uint64, err error) (ShopperSnapshot, error) {
	if rejected(err) {
		snap, applied := s.drop(gen)
		if applied {
			s.notify(ctx, snap)
		}
		return snap, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	snap, _ := s.settle(gen, StateAnonymous, nil)
	return snap, fmt.Errorf("failed to fetch shopper profile: %w", err)
}

// Login obtains and persists a credential, then resolves the identity.
// On failure the previous state is restored and nothing is persisted. A
// login overtaken by a later operation fails with ErrSuperseded.
func (s *Shopper) Login(ctx context.Context, username, password string) (ShopperSnapshot, error) {
	gen, prev, err := s.begin()
	if err != nil {
		return ShopperSnapshot{}, err
	}

	token, err := s.api.ObtainToken(ctx, username, password)
	if err != nil {
		snap, _ := s.settle(gen, prev.State, prev.Identity)
		return snap, loginError(err)
	}

	identity, err := s.api.FetchIdentity(ctx, token)
	if err != nil {
		snap, _ := s.settle(gen, prev.State, prev.Identity)
		return snap, fmt.Errorf("failed to fetch shopper profile: %w", err)
	}

	return s.authenticate(ctx, gen, token, identity)
}

// Register creates the account and signs it in.
func (s *Shopper) Register(ctx context.Context, req models.RegisterRequest) (ShopperSnapshot, error) {
	gen, prev, err := s.begin()
	if err != nil {
		return ShopperSnapshot{}, err
	}

	reg, err := s.api.Register(ctx, req)
	if err != nil {
		snap, _ := s.settle(gen, prev.State, prev.Identity)
		return snap, fmt.Errorf("failed to register shopper: %w", err)
	}
	identity := reg.User
	return s.authenticate(ctx, gen, reg.Token, &identity)
}

func (s *Shopper) authenticate(ctx context.Context, gen uint64, token string, identity *models.Identity) (ShopperSnapshot, error) {
	s.gens.mu.Lock()
	if !s.gens.current(gen) {
		snap := s.snapshotLocked()
		s.gens.mu.Unlock()
		log.Printf("Discarding superseded shopper login result")
		return snap, ErrSuperseded
	}
	if err := s.store.Set(credentials.Shopper, token); err != nil {
		s.state = StateAnonymous
		s.identity = nil
		snap := s.snapshotLocked()
		s.gens.mu.Unlock()
		return snap, fmt.Errorf("failed to persist shopper credential: %w", err)
	}
	s.state = StateAuthenticated
	s.identity = identity.Clone()
	snap := s.snapshotLocked()
	s.gens.mu.Unlock()

	s.notify(ctx, snap)
	return snap, nil
}

// Logout forgets the credential and identity. It makes no backend call.
func (s *Shopper) Logout(ctx context.Context) (ShopperSnapshot, error) {
	s.gens.mu.Lock()
	if s.gens.closed {
		s.gens.mu.Unlock()
		return ShopperSnapshot{}, ErrClosed
	}
	s.gens.next()
	err := s.store.Clear(credentials.Shopper)
	s.state = StateAnonymous
	s.identity = nil
	snap := s.snapshotLocked()
	s.gens.mu.Unlock()

	s.notify(ctx, snap)
	if err != nil {
		return snap, fmt.Errorf("failed to clear shopper credential: %w", err)
	}
	return snap, nil
}

// RefreshProfile re-fetches the identity with the current credential.
func (s *Shopper) RefreshProfile(ctx context.Context) (ShopperSnapshot, error) {
	token, ok := s.store.Get(credentials.Shopper)
	if !ok {
		return s.Snapshot(), ErrNotAuthenticated
	}
	gen, prev, err := s.begin()
	if err != nil {
		return ShopperSnapshot{}, err
	}
	identity, err := s.api.FetchIdentity(ctx, token)
	if err != nil {
		if rejected(err) {
			return s.fail(ctx, gen, err)
		}
		snap, _ := s.settle(gen, prev.State, prev.Identity)
		return snap, fmt.Errorf("failed to refresh shopper profile: %w", err)
	}
	snap, _ := s.settle(gen, StateAuthenticated, identity)
	return snap, nil
}

// UpdateProfile sends a partial profile update and adopts the returned
// identity.
func (s *Shopper) UpdateProfile(ctx context.Context, patch models.ProfileInput) (ShopperSnapshot, error) {
	token, ok := s.store.Get(credentials.Shopper)
	if !ok {
		return s.Snapshot(), ErrNotAuthenticated
	}
	gen, prev, err := s.begin()
	if err != nil {
		return ShopperSnapshot{}, err
	}
	identity, err := s.api.UpdateIdentity(ctx, token, patch)
	if err != nil {
		if rejected(err) {
			return s.fail(ctx, gen, err)
		}
		snap, _ := s.settle(gen, prev.State, prev.Identity)
		return snap, fmt.Errorf("failed to update shopper profile: %w", err)
	}
	snap, _ := s.settle(gen, StateAuthenticated, identity)
	return snap, nil
}
