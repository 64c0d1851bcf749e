package kube

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/tools/cache"

	"github.com/pshail/kmirror/pkg/reflector"
)

// Resource constrains the mirrored element type to Kubernetes API objects:
// the reflector's identity and version capabilities plus runtime.Object.
// Typed API objects such as *corev1.Pod satisfy it through their embedded
// ObjectMeta and TypeMeta.
type Resource interface {
	reflector.Object
	runtime.Object
}

// listerWatcher adapts a client-go cache.ListerWatcher to the reflector's
// collaborator contract for one concrete resource type K.
type listerWatcher[K Resource] struct {
	lw cache.ListerWatcher
}

// NewListerWatcher wraps a client-go ListerWatcher. Every object produced by
// lw must be of type K; mismatches surface as errors rather than panics.
func NewListerWatcher[K Resource](lw cache.ListerWatcher) reflector.ListerWatcher[K] {
	return &listerWatcher[K]{lw: lw}
}

// List performs a full enumeration and returns it with the list's
// resourceVersion.
func (l *listerWatcher[K]) List(_ context.Context, params reflector.Params) (reflector.Snapshot[K], error) {
	obj, err := l.lw.List(listOptions(params, ""))
	if err != nil {
		return reflector.Snapshot[K]{}, err
	}

	listMeta, err := meta.ListAccessor(obj)
	if err != nil {
		return reflector.Snapshot[K]{}, fmt.Errorf("reading list metadata: %w", err)
	}
	items, err := meta.ExtractList(obj)
	if err != nil {
		return reflector.Snapshot[K]{}, fmt.Errorf("extracting list items: %w", err)
	}

	snap := reflector.Snapshot[K]{
		Items:           make([]K, 0, len(items)),
		ResourceVersion: listMeta.GetResourceVersion(),
	}
	for _, item := range items {
		typed, ok := item.(K)
		if !ok {
			return reflector.Snapshot[K]{}, fmt.Errorf("unexpected item type %T in list response", item)
		}
		snap.Items = append(snap.Items, typed)
	}
	return snap, nil
}

// Watch opens one watch session from the given resume version. The returned
// channel closes when the session ends, ctx is cancelled, or an error event
// is delivered.
func (l *listerWatcher[K]) Watch(ctx context.Context, params reflector.Params, sinceVersion string) (<-chan reflector.Event[K], error) {
	w, err := l.lw.Watch(listOptions(params, sinceVersion))
	if err != nil {
		return nil, err
	}

	out := make(chan reflector.Event[K])
	go func() {
		defer close(out)
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.ResultChan():
				if !ok {
					return
				}
				translated := translate[K](ev)
				select {
				case out <- translated:
				case <-ctx.Done():
					return
				}
				if translated.Type == reflector.Error {
					return
				}
			}
		}
	}()
	return out, nil
}

func translate[K Resource](ev watch.Event) reflector.Event[K] {
	switch ev.Type {
	case watch.Added, watch.Modified, watch.Deleted, watch.Bookmark:
		typed, ok := ev.Object.(K)
		if !ok {
			return reflector.Event[K]{
				Type: reflector.Error,
				Err:  &reflector.StreamError{Message: fmt.Sprintf("unexpected object type %T in watch stream", ev.Object)},
			}
		}
		return reflector.Event[K]{Type: eventType(ev.Type), Object: typed}
	case watch.Error:
		return reflector.Event[K]{Type: reflector.Error, Err: streamError(ev.Object)}
	default:
		return reflector.Event[K]{
			Type: reflector.Error,
			Err:  &reflector.StreamError{Message: fmt.Sprintf("unknown watch event type %q", ev.Type)},
		}
	}
}

func eventType(t watch.EventType) reflector.EventType {
	switch t {
	case watch.Added:
		return reflector.Added
	case watch.Modified:
		return reflector.Modified
	case watch.Deleted:
		return reflector.Deleted
	default:
		return reflector.Bookmark
	}
}

// streamError converts the payload of a watch error event into a
// StreamError, preserving the status code and reason when the remote sent a
// structured metav1.Status.
func streamError(obj runtime.Object) *reflector.StreamError {
	if status, ok := obj.(*metav1.Status); ok {
		return &reflector.StreamError{
			Code:    status.Code,
			Reason:  string(status.Reason),
			Message: status.Message,
		}
	}
	return &reflector.StreamError{Message: fmt.Sprintf("watch stream failed: %v", obj)}
}

func listOptions(p reflector.Params, sinceVersion string) metav1.ListOptions {
	return metav1.ListOptions{
		LabelSelector:       p.LabelSelector,
		FieldSelector:       p.FieldSelector,
		ResourceVersion:     sinceVersion,
		AllowWatchBookmarks: p.AllowBookmarks,
	}
}
