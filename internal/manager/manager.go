// Package manager owns the currently active noise graph and performs
// atomic swap-on-reload. A reload builds a brand-new generation in
// isolation; only a fully built and validated graph is ever published, so
// samplers observe either the old generation or the new one, never a mix.
package manager

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/noisebench/internal/ctxlog"
	"github.com/vk/noisebench/internal/noise"
)

// State tracks where a Manager is in its reload cycle. It is informational
// (logs, gauges); correctness never depends on observing it.
type State uint8

const (
	// StateIdle means no build has been attempted yet.
	StateIdle State = iota
	// StateBuilding means a build pass is running the Node Builder.
	StateBuilding
	// StateValidating means a built graph is being checked before publish.
	StateValidating
	// StateActive means a published generation is live.
	StateActive
	// StateFailed means the last reload attempt was rejected. A previously
	// active generation, if any, is still live.
	StateFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateValidating:
		return "validating"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BuildFunc runs one build pass against a fresh Builder and returns the
// finished graph. The scripting frontend supplies these.
type BuildFunc func(ctx context.Context) (*noise.Graph, error)

// SwapEvent notifies subscribers of one reload attempt. On success Graph is
// the newly active generation and Err is nil; on failure Graph is nil, Err
// describes the rejection, and the previously active generation remains in
// force.
type SwapEvent struct {
	// Source names what was reloaded, typically the script path.
	Source string
	// Generation is the sequence number of the published generation; it
	// only advances on success.
	Generation uint64
	Graph      *noise.Graph
	Err        error
}

// Manager holds the active generation behind a single atomic pointer.
// Reads (Current) are wait-free; Reload serializes builds on one goroutine
// at a time, matching the one-build-thread model. Superseded generations
// are not freed eagerly: an in-flight sampler keeps its captured graph
// alive until it finishes, after which the arena is unreachable and
// collected wholesale.
type Manager struct {
	current    atomic.Pointer[noise.Graph]
	generation atomic.Uint64
	state      atomic.Uint32

	mu    sync.Mutex // serializes Reload and guards hooks
	hooks []func(SwapEvent)
}

// New creates an idle manager with no published generation.
func New() *Manager {
	return &Manager{}
}

// Current returns the active graph, or nil if no build has succeeded yet.
// The returned graph is immutable and safe to sample concurrently; it stays
// valid even if a newer generation is published mid-sample.
func (m *Manager) Current() *noise.Graph {
	return m.current.Load()
}

// Generation returns the sequence number of the active generation, zero if
// none has been published.
func (m *Manager) Generation() uint64 {
	return m.generation.Load()
}

// State returns the manager's position in the reload cycle.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Subscribe registers a hook fired after every reload attempt, successful
// or not. Hooks run synchronously on the reloading goroutine, after the
// swap is visible, so a hook that samples sees the new generation.
func (m *Manager) Subscribe(fn func(SwapEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Reload runs one build pass and, if it succeeds, publishes the new graph
// in a single atomic store. On any build error the previously active
// generation is left untouched and the orphaned arena is discarded. The
// build error is returned and also delivered to subscribers.
func (m *Manager) Reload(ctx context.Context, source string, build BuildFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := ctxlog.FromContext(ctx).With("source", source)

	m.state.Store(uint32(StateBuilding))
	logger.Debug("Reload started.")

	g, err := build(ctx)
	if err == nil && g == nil {
		err = &noise.BuildError{Kind: noise.MissingResult, Detail: "build produced no graph"}
	}
	if err != nil {
		m.state.Store(uint32(StateFailed))
		logger.Warn("Reload rejected; previous generation stays active.", "error", err)
		m.notify(SwapEvent{Source: source, Generation: m.generation.Load(), Err: err})
		return err
	}

	m.state.Store(uint32(StateValidating))
	logger.Debug("Build finished, publishing.", "nodes", g.NodeCount(), "root", g.Root())

	// Publish: the single synchronization point between the build thread
	// and the samplers.
	m.current.Store(g)
	seq := m.generation.Add(1)
	m.state.Store(uint32(StateActive))

	logger.Info("New generation active.", "generation", seq, "nodes", g.NodeCount())
	m.notify(SwapEvent{Source: source, Generation: seq, Graph: g})
	return nil
}

// notify runs with m.mu held, preserving event order across reloads.
func (m *Manager) notify(ev SwapEvent) {
	for _, fn := range m.hooks {
		fn(ev)
	}
}
