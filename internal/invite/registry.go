// Package invite holds the in-process invitation code registry.
//
// The registry is owned by a single process: codes issued here are not
// visible to other instances of the service. Running multiple instances
// requires moving this table to a shared store keyed by code with an expiry
// column.
package invite

import (
	"errors"
	"sync"
	"time"

	"github.com/ComePicard/Cooloc/pkg/codegen"
)

var ErrCodeNotFound = errors.New("invitation code not found or expired")

type entry struct {
	groupID   string
	expiresAt time.Time
}

// Registry maps live invitation codes to a group and an expiry. All access
// goes through the mutex, so generate-check-insert is a single atomic step
// and two concurrent issues can never allocate the same code.
type Registry struct {
	mu    sync.Mutex
	codes map[string]entry
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		codes: make(map[string]entry),
		now:   time.Now,
	}
}

// Issue stores a fresh code for the group, valid for ttl, and returns the
// code with the expiry it will enforce. The caller has already checked that
// the group exists. The generation loop retries on the ~1e-8 chance of
// colliding with a live code; the loop is what makes uniqueness a guarantee
// rather than a probability.
func (r *Registry) Issue(groupID string, ttl time.Duration) (string, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var code string
	for {
		code = codegen.InvitationCode()
		if _, exists := r.codes[code]; !exists {
			break
		}
	}

	expiresAt := r.now().Add(ttl)
	r.codes[code] = entry{
		groupID:   groupID,
		expiresAt: expiresAt,
	}
	return code, expiresAt
}

// Resolve returns the group a code points to. An expired code is deleted on
// first sight and reported as not found, so a later Resolve cannot observe
// stale state. Resolving does not consume the code: several invitees may
// join with the same one before it expires.
func (r *Registry) Resolve(code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.codes[code]
	if !exists {
		return "", ErrCodeNotFound
	}
	if r.now().After(e.expiresAt) {
		delete(r.codes, code)
		return "", ErrCodeNotFound
	}
	return e.groupID, nil
}

// Revoke deletes the code. Revoking an absent code is a no-op.
func (r *Registry) Revoke(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, code)
}

// Sweep drops every expired entry and reports how many were removed. Resolve
// already expires lazily; the sweep only bounds memory between lookups.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for code, e := range r.codes {
		if now.After(e.expiresAt) {
			delete(r.codes, code)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}
