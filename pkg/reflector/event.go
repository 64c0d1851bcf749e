package reflector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// EventType classifies a single incremental change from a watch session.
type EventType string

const (
	// Added indicates a new object appeared in the collection.
	Added EventType = "ADDED"

	// Modified indicates an existing object changed.
	Modified EventType = "MODIFIED"

	// Deleted indicates an object was removed from the collection.
	Deleted EventType = "DELETED"

	// Bookmark carries only an updated resume version, no object change.
	Bookmark EventType = "BOOKMARK"

	// Error indicates the stream reported a failure; the event carries no
	// object and terminates the session.
	Error EventType = "ERROR"
)

// Event is one incremental change yielded by a watch session.
//
// For Added, Modified, Deleted and Bookmark events Object is set and Err is
// nil. For Error events Object is the zero value and Err carries the
// failure, typically a *StreamError.
type Event[K Object] struct {
	Type   EventType
	Object K
	Err    error
}

// Snapshot is a full point-in-time enumeration of the collection plus the
// resume version it was taken at.
type Snapshot[K Object] struct {
	Items []K

	// ResourceVersion is the resume marker of the snapshot, or empty when
	// the remote did not provide one.
	ResourceVersion string
}

// Params narrows what a collaborator lists and watches. The reflector treats
// it as opaque and passes it through unchanged on every call.
type Params struct {
	LabelSelector  string
	FieldSelector  string
	AllowBookmarks bool
}

// ListerWatcher is the collaborator contract the reflector requires from the
// remote API client.
//
// Watch returns one finite session: a channel of events since the given
// resume version, closed when the session ends. Implementations must honor
// ctx cancellation by closing the channel, and must stop producing after an
// Error event. Both calls surface transport failures as plain errors; the
// reflector wraps them in TransportError.
type ListerWatcher[K Object] interface {
	List(ctx context.Context, params Params) (Snapshot[K], error)
	Watch(ctx context.Context, params Params, sinceVersion string) (<-chan Event[K], error)
}

// TransportError reports a failed list or watch call against the remote.
type TransportError struct {
	Op  string // "list" or "watch"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StreamError reports an explicit error event received on a watch stream.
// Code and Reason are filled in when the remote provided a structured
// status, and are what desync detection keys off.
type StreamError struct {
	Code    int32 // HTTP-style status code, 0 when unknown
	Reason  string
	Message string
}

func (e *StreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "watch stream failed"
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	return msg
}

// Expired reports whether the stream failed because the resume version is no
// longer valid on the remote, meaning the watch cannot be resumed and the
// mirror must be rebuilt from a full snapshot.
func (e *StreamError) Expired() bool {
	return e.Code == http.StatusGone || e.Reason == "Expired"
}

// IsDesync reports whether err indicates the stored resume version can no
// longer continue the watch. Callers should escalate to Reset when it
// returns true.
func IsDesync(err error) bool {
	var se *StreamError
	return errors.As(err, &se) && se.Expired()
}
