// Package session holds the shopper and admin session stores. Each store is
// an explicit object bound to one credential store; callers read immutable
// snapshots and drive transitions through the store's operations.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
)

// State is the lifecycle state of a session store.
type State int

const (
	StateUnknown State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrInvalidCredentials means the backend refused the username/password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAdministrator means the password was right but the account has
	// no back-office capability.
	ErrNotAdministrator = errors.New("user is not an administrator")
	// ErrSessionExpired means a persisted credential was rejected and has
	// been cleared.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is returned by operations that need a credential.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSuperseded means a later operation on the same store overtook a
	// login, so its result was discarded.
	ErrSuperseded = errors.New("superseded by a later session operation")
	// ErrClosed is returned once the store has been closed.
	ErrClosed = errors.New("session store closed")
)

// rejected reports whether err means the backend no longer accepts the
// credential it was sent.
func rejected(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrForbidden)
}

// loginError classifies a token endpoint failure.
func loginError(err error) error {
	if errors.Is(err, apiclient.ErrValidation) || errors.Is(err, apiclient.ErrUnauthorized) {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return err
}

// generations hands out request numbers. Only the latest issued request may
// apply its result; nothing applies after close.
type generations struct {
	mu     sync.Mutex
	latest uint64
	closed bool
}

// next issues a request number. Callers hold mu.
func (g *generations) next() uint64 {
	g.latest++
	return g.latest
}

// current reports whether gen may still apply its result. Callers hold mu.
func (g *generations) current(gen uint64) bool {
	return !g.closed && gen == g.latest
}
