package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// AdminAPI is the part of the backend the admin session needs. There is no
// separate admin token endpoint.
type AdminAPI interface {
	ObtainToken(ctx context.Context, username, password string) (string, error)
	FetchAdminIdentity(ctx context.Context, credential string) (*models.AdminIdentity, error)
}

// AdminSnapshot is an immutable view of the admin session.
type AdminSnapshot struct {
	State    State
	Identity *models.AdminIdentity
}

// Authenticated reports whether the snapshot carries a verified admin.
func (s AdminSnapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// Admin is the back-office session store. An identity without the admin
// capability never reaches StateAuthenticated.
type Admin struct {
	api    AdminAPI
	store  credentials.Store
	policy Policy

	gens     generations
	state    State
	identity *models.AdminIdentity
}

// NewAdmin creates the store, Anonymous when no admin credential is held.
func NewAdmin(api AdminAPI, store credentials.Store, policy Policy) *Admin {
	a := &Admin{
		api:    api,
		store:  store,
		policy: policy,
		state:  StateUnknown,
	}
	if !credentials.Present(store, credentials.Admin) {
		a.state = StateAnonymous
	}
	return a
}

// Snapshot returns the current state.
func (a *Admin) Snapshot() AdminSnapshot {
	a.gens.mu.Lock()
	defer a.gens.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Admin) snapshotLocked() AdminSnapshot {
	var identity *models.AdminIdentity
	if a.identity != nil {
		c := *a.identity
		identity = &c
	}
	return AdminSnapshot{State: a.state, Identity: identity}
}

// Close discards the results of requests still in flight.
func (a *Admin) Close() {
	a.gens.mu.Lock()
	defer a.gens.mu.Unlock()
	a.gens.closed = true
}

func (a *Admin) begin() (uint64, AdminSnapshot, error) {
	a.gens.mu.Lock()
	defer a.gens.mu.Unlock()
	if a.gens.closed {
		return 0, AdminSnapshot{}, ErrClosed
	}
	prev := a.snapshotLocked()
	gen := a.gens.next()
	a.state = StateLoading
	return gen, prev, nil
}

// settle applies the outcome of request gen. persist, when non-empty, is
// written to the admin scope; clear drops the admin credential. A stale gen
// changes nothing and returns ErrSuperseded.
func (a *Admin) settle(gen uint64, state State, identity *models.AdminIdentity, persist string, clear bool) (AdminSnapshot, error) {
	a.gens.mu.Lock()
	defer a.gens.mu.Unlock()
	if !a.gens.current(gen) {
		log.Printf("Discarding superseded admin session result")
		return a.snapshotLocked(), ErrSuperseded
	}
	if clear {
		if err := a.store.Clear(credentials.Admin); err != nil {
			log.Printf("Error clearing admin credential: %v", err)
		}
	}
	if persist != "" {
		if err := a.store.Set(credentials.Admin, persist); err != nil {
			a.state = StateAnonymous
			a.identity = nil
			return a.snapshotLocked(), fmt.Errorf("failed to persist admin credential: %w", err)
		}
	}
	a.state = state
	a.identity = nil
	if identity != nil {
		c := *identity
		a.identity = &c
	}
	return a.snapshotLocked(), nil
}

// verify fetches the identity behind token and checks the capability.
func (a *Admin) verify(ctx context.Context, token string) (*models.AdminIdentity, error) {
	identity, err := a.api.FetchAdminIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	if !Capability(identity, a.policy) {
		return nil, ErrNotAdministrator
	}
	return identity, nil
}

// Resume re-verifies a persisted admin credential, including the capability,
// since the account may have been demoted since it logged in.
func (a *Admin) Resume(ctx context.Context) (AdminSnapshot, error) {
	token, ok := a.store.Get(credentials.Admin)
	if !ok {
		a.gens.mu.Lock()
		if !a.gens.closed {
			a.gens.next()
			a.state = StateAnonymous
			a.identity = nil
		}
		snap := a.snapshotLocked()
		a.gens.mu.Unlock()
		return snap, nil
	}

	gen, _, err := a.begin()
	if err != nil {
		return AdminSnapshot{}, err
	}
	identity, err := a.verify(ctx, token)
	switch {
	case err == nil:
		snap, err := a.settle(gen, StateAuthenticated, identity, "", false)
		if errors.Is(err, ErrSuperseded) {
			return snap, nil
		}
		return snap, err
	case errors.Is(err, ErrNotAdministrator):
		snap, _ := a.settle(gen, StateAnonymous, nil, "", true)
		return snap, ErrNotAdministrator
	case rejected(err):
		snap, _ := a.settle(gen, StateAnonymous, nil, "", true)
		return snap, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	default:
		snap, _ := a.settle(gen, StateAnonymous, nil, "", false)
		return snap, fmt.Errorf("failed to fetch admin profile: %w", err)
	}
}

// Login authenticates through the shared token endpoint and only persists
// the credential once the capability check passes. A valid password on a
// non-admin account fails with ErrNotAdministrator. A login overtaken by a
// later operation fails with ErrSuperseded.
func (a *Admin) Login(ctx context.Context, username, password string) (AdminSnapshot, error) {
	gen, prev, err := a.begin()
	if err != nil {
		return AdminSnapshot{}, err
	}

	token, err := a.api.ObtainToken(ctx, username, password)
	if err != nil {
		snap, _ := a.settle(gen, prev.State, prev.Identity, "", false)
		return snap, loginError(err)
	}

	identity, err := a.verify(ctx, token)
	if err != nil {
		snap, _ := a.settle(gen, prev.State, prev.Identity, "", false)
		if errors.Is(err, ErrNotAdministrator) {
			return snap, ErrNotAdministrator
		}
		return snap, fmt.Errorf("failed to fetch admin profile: %w", err)
	}

	return a.settle(gen, StateAuthenticated, identity, token, false)
}

// Logout forgets the admin credential. It makes no backend call.
func (a *Admin) Logout() (AdminSnapshot, error) {
	a.gens.mu.Lock()
	defer a.gens.mu.Unlock()
	if a.gens.closed {
		return AdminSnapshot{}, ErrClosed
	}
	a.gens.next()
	err := a.store.Clear(credentials.Admin)
	a.state = StateAnonymous
	a.identity = nil
	if err != nil {
		return a.snapshotLocked(), fmt.Errorf("failed to clear admin credential: %w", err)
	}
	return a.snapshotLocked(), nil
}
