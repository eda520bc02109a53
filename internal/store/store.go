// Package store defines the persistence boundary for per-user diary state.
//
// A Store serializes read-modify-write sequences per user: Update runs its
// callback against the full persisted state for one user id and writes the
// result back atomically, so two concurrent mutations for the same user
// cannot lose updates. Operations for different users are independent.
package store

import (
	"fmt"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
)

type Store interface {
	// View runs fn against a read-only snapshot of the user's state.
	// A user that was never written is presented as a zero-value User.
	View(userID int64, fn func(*model.User) error) error

	// Update runs fn against the user's state and persists the mutated
	// state if fn returns nil. The whole sequence is atomic: either the
	// full new state is durable or the old state is untouched.
	Update(userID int64, fn func(*model.User) error) error

	// Users lists every user id that has persisted state.
	Users() ([]int64, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// OpenFunc opens a concrete backend at path. Registered by backend
// packages so the CLI can pick one by name without importing both.
type OpenFunc func(path string) (Store, error)

var backends = map[string]OpenFunc{}

func Register(name string, open OpenFunc) {
	backends[name] = open
}

func Open(backend, path string) (Store, error) {
	open, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown store backend %q (expected %s or %s)", backend, BackendJSON, BackendSQLite)
	}
	return open(path)
}
