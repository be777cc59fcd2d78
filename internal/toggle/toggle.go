package toggle

import (
	"context"
	"sync"

	"github.com/minhnghia2k3/lumigram/internal/localstate"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// RemoteOps are the network calls behind one toggle kind. When Remove is nil
// the Add call flips the state in both directions (the like endpoint works
// that way). Reconcile, when set, is issued after a successful mutation and
// returns the server-confirmed membership and count.
type RemoteOps struct {
	Add       func(ctx context.Context, id string) error
	Remove    func(ctx context.Context, id string) error
	Reconcile func(ctx context.Context, id string) (toggled bool, count int, err error)
}

// Engine maintains a boolean per resource id for the current user, flips it
// optimistically, and reconciles with the server. One instance serves one
// resource kind.
//
// Failure policy: a failed mutation always reverts the optimistic flip and
// restores the durable map to its pre-toggle value; the error is logged and
// returned. A toggle already in flight for an id makes further Toggle calls
// on that id no-ops until it settles.
type Engine struct {
	kind    localstate.Kind
	persist bool
	session session.Store
	state   *localstate.Store
	log     logger.Logger
	ops     RemoteOps

	mu       sync.Mutex
	flags    map[string]bool
	counts   map[string]int
	inflight map[string]bool
	closed   bool
}

func NewEngine(kind localstate.Kind, persist bool, sess session.Store, state *localstate.Store, log logger.Logger, ops RemoteOps) *Engine {
	e := &Engine{
		kind:     kind,
		persist:  persist,
		session:  sess,
		state:    state,
		log:      log,
		ops:      ops,
		flags:    make(map[string]bool),
		counts:   make(map[string]int),
		inflight: make(map[string]bool),
	}
	if persist {
		// Seed from the durable map so UI state survives restarts before the
		// server confirms anything.
		e.flags = state.GetMap(kind)
		if e.flags == nil {
			e.flags = make(map[string]bool)
		}
	}
	return e
}

// Toggle flips the flag for id. It returns the flag's value once the call
// settles. Without a credential it refuses locally, performs zero network
// requests, and returns false.
func (e *Engine) Toggle(ctx context.Context, id string) (bool, error) {
	if !e.session.Authenticated() {
		e.log.Warn("Toggle refused, no access token", "kind", e.kind, "id", id)
		return false, pkgerrors.ErrNotAuthenticated
	}

	e.mu.Lock()
	if e.closed || e.inflight[id] {
		cur := e.flags[id]
		e.mu.Unlock()
		return cur, nil
	}
	prev := e.flags[id]
	next := !prev
	e.flags[id] = next
	e.inflight[id] = true
	e.mu.Unlock()

	if e.persist {
		if err := e.state.SetBool(e.kind, id, next); err != nil {
			e.log.Error("Failed to persist toggle", "kind", e.kind, "id", id, "error", err)
		}
	}

	op := e.ops.Add
	if !next && e.ops.Remove != nil {
		op = e.ops.Remove
	}

	if err := op(ctx, id); err != nil {
		// The durable map must be restored before the in-flight guard is
		// released, or a toggle slipping into the gap has its persisted
		// value overwritten by this revert.
		if e.persist {
			if perr := e.state.SetBool(e.kind, id, prev); perr != nil {
				e.log.Error("Failed to restore durable map", "kind", e.kind, "id", id, "error", perr)
			}
		}
		e.mu.Lock()
		if !e.closed {
			e.flags[id] = prev
		}
		delete(e.inflight, id)
		e.mu.Unlock()
		e.log.Error("Toggle failed, reverted", "kind", e.kind, "id", id, "error", err)
		return prev, err
	}

	if e.ops.Reconcile != nil {
		toggled, count, err := e.ops.Reconcile(ctx, id)
		if err != nil {
			// The optimistic value stands until the next successful fetch.
			e.log.Warn("Reconciliation fetch failed", "kind", e.kind, "id", id, "error", err)
		} else {
			e.apply(id, toggled, count)
		}
	}

	e.mu.Lock()
	cur := e.flags[id]
	delete(e.inflight, id)
	e.mu.Unlock()
	return cur, nil
}

// IsToggled is a pure read. Unknown ids are false.
func (e *Engine) IsToggled(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flags[id]
}

// Count returns the last reconciled counter for id.
func (e *Engine) Count(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[id]
}

// Apply reconciles server-confirmed state into the engine, for callers that
// fetched the authoritative record list themselves.
func (e *Engine) Apply(id string, toggled bool, count int) {
	e.apply(id, toggled, count)
}

func (e *Engine) apply(id string, toggled bool, count int) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	changed := e.flags[id] != toggled
	e.flags[id] = toggled
	e.counts[id] = count
	e.mu.Unlock()

	if e.persist && changed {
		if err := e.state.SetBool(e.kind, id, toggled); err != nil {
			e.log.Error("Failed to persist reconciled state", "kind", e.kind, "id", id, "error", err)
		}
	}
}

// Reset drops the in-memory state. The durable map is left alone; it belongs
// to the account, not the session.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flags = make(map[string]bool)
	e.counts = make(map[string]int)
}

// Close marks the engine torn down. In-flight network calls run to
// completion but no longer apply their results.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}
