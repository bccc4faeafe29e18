package workspace

import (
	"sync/atomic"

	"weftworks/weft/pkg/playbook/vars"
)

// Store holds the workspace's current variable environment.
// Replacement is a single reference swap: concurrent pipeline runs read a
// complete snapshot and never observe a partially-built environment.
type Store struct {
	env atomic.Pointer[vars.Environment]
}

// NewStore creates a store holding an empty environment.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Snapshot returns the current environment. The result must be treated as
// read-only; reloads never mutate a published environment.
func (s *Store) Snapshot() vars.Environment {
	return *s.env.Load()
}

// Replace swaps in a new environment wholesale.
func (s *Store) Replace(env vars.Environment) {
	if env == nil {
		env = vars.Environment{}
	}
	s.env.Store(&env)
}

// Reset swaps in an empty environment. Used when a reload fails: the store
// never keeps a stale environment around after its file stopped loading.
func (s *Store) Reset() {
	s.Replace(vars.Environment{})
}
