package reflector

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pshail/kmirror/pkg/logging"
)

// subsystem tag used for all log entries from this package.
const subsystem = "reflector"

// Reflector mirrors one remote collection of objects of type K.
//
// The mirror is advanced by Poll and rebuilt by Reset, both meant to be
// driven by an externally owned loop (see Runner). The read accessors may be
// called from any number of goroutines at any time, including while a Poll
// or Reset is in flight.
type Reflector[K Object] struct {
	lw        ListerWatcher[K]
	params    Params
	namespace string

	// mu guards state. The map and the resume version are always read and
	// written together as one consistent pair. The lock is held per event
	// application or per read copy, never across a network call.
	mu    sync.Mutex
	state *state[K]
}

// Option configures a Reflector at construction time.
type Option func(*settings)

type settings struct {
	params    Params
	namespace string
}

// WithParams sets the list/watch parameters forwarded to the collaborator on
// every call.
func WithParams(p Params) Option {
	return func(s *settings) { s.params = p }
}

// WithNamespace sets the default namespace used by Get. Leave it unset for
// cluster-scoped resources or reflectors spanning multiple namespaces.
func WithNamespace(ns string) Option {
	return func(s *settings) { s.namespace = ns }
}

// New creates a reflector over the given collaborator. The mirror starts
// empty at resume version "0"; call Reset or Poll to populate it.
func New[K Object](lw ListerWatcher[K], opts ...Option) *Reflector[K] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Reflector[K]{
		lw:        lw,
		params:    s.params,
		namespace: s.namespace,
		state:     newState[K](),
	}
}

// Poll runs a single watch session and folds its events into the mirror.
//
// Events are applied in the order received, one at a time under the lock:
// the resume version ratchets to the marker of every event that carries one
// (including deletes and bookmarks), then the object change is applied.
// Duplicate adds keep the first value, modifications of unknown keys are
// dropped, deletes of unknown keys are no-ops.
//
// The first error event or transport failure aborts the call; progress made
// up to that point is kept. Safe to call concurrently with the read
// accessors.
func (r *Reflector[K]) Poll(ctx context.Context) error {
	r.mu.Lock()
	since := r.state.version
	r.mu.Unlock()

	logging.Debug(subsystem, "Polling from resourceVersion=%s", since)

	// The session context stops the collaborator's producer goroutine when
	// the call aborts before draining the channel.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := r.lw.Watch(ctx, r.params, since)
	if err != nil {
		return &TransportError{Op: "watch", Err: err}
	}

	for ev := range events {
		if err := r.apply(ev); err != nil {
			return err
		}
	}
	return nil
}

// apply folds one event into the mirror under the lock.
func (r *Reflector[K]) apply(ev Event[K]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Version ratchet: always adopt the most recently seen resume marker,
	// regardless of what the event does to the data.
	switch ev.Type {
	case Added, Modified, Deleted, Bookmark:
		if nv := ev.Object.GetResourceVersion(); nv != "" {
			r.state.version = nv
		}
	}

	switch ev.Type {
	case Added:
		id := IDFor(ev.Object)
		if r.state.insertIfAbsent(id, ev.Object) {
			logging.Debug(subsystem, "Added %s", id)
		} else {
			logging.Debug(subsystem, "Ignoring duplicate add for %s", id)
		}
	case Modified:
		id := IDFor(ev.Object)
		if r.state.updateIfPresent(id, ev.Object) {
			logging.Debug(subsystem, "Modified %s", id)
		} else {
			logging.Debug(subsystem, "Ignoring modification of unknown %s", id)
		}
	case Deleted:
		id := IDFor(ev.Object)
		r.state.remove(id)
		logging.Debug(subsystem, "Removed %s", id)
	case Bookmark:
		// Resume marker only, no data change.
	case Error:
		err := ev.Err
		if err == nil {
			err = &StreamError{Message: "watch stream reported an unspecified error"}
		}
		logging.Warn(subsystem, "Watch stream failed: %v", err)
		return err
	default:
		return fmt.Errorf("unknown watch event type %q", ev.Type)
	}
	return nil
}

// Reset discards the mirror and rebuilds it from a full snapshot.
//
// The new cache is built outside the lock and swapped in as a single unit,
// so concurrent readers observe either the old or the new mirror in full,
// never a mix. On failure the previous mirror is left untouched and the
// error is returned.
func (r *Reflector[K]) Reset(ctx context.Context) error {
	snap, err := r.lw.List(ctx, r.params)
	if err != nil {
		return &TransportError{Op: "list", Err: err}
	}

	next := newState[K]()
	if snap.ResourceVersion != "" {
		next.version = snap.ResourceVersion
	}
	for _, obj := range snap.Items {
		next.replace(IDFor(obj), obj)
	}

	r.mu.Lock()
	r.state = next
	r.mu.Unlock()

	logging.Info(subsystem, "Rebuilt mirror with %d objects at resourceVersion=%s", next.len(), next.version)
	logging.Debug(subsystem, "Initialized with: [%s]", joinIDs(next.ids()))
	return nil
}

// State returns all currently mirrored values in identity order, consistent
// at the instant of the call. The returned objects are shared with the
// mirror and must be treated as read-only.
func (r *Reflector[K]) State() []K {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.values()
}

// Get looks up a single object by name in the reflector's configured default
// namespace (or without a namespace, for cluster-scoped resources).
func (r *Reflector[K]) Get(name string) (K, bool) {
	return r.lookup(ObjectID{Name: name, Namespace: r.namespace})
}

// GetWithin looks up a single object by name in an explicit namespace. Only
// useful on reflectors configured to span multiple namespaces.
func (r *Reflector[K]) GetWithin(name, namespace string) (K, bool) {
	return r.lookup(ObjectID{Name: name, Namespace: namespace})
}

func (r *Reflector[K]) lookup(id ObjectID) (K, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.get(id)
}

// Version returns the current watch resume version.
func (r *Reflector[K]) Version() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.version
}

// Len returns the number of mirrored objects.
func (r *Reflector[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.len()
}

func joinIDs(ids []ObjectID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
