package kube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/tools/cache"

	"github.com/pshail/kmirror/pkg/reflector"
)

func newPod(name, namespace, resourceVersion string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:            name,
			Namespace:       namespace,
			ResourceVersion: resourceVersion,
		},
	}
}

func TestList_TranslatesSnapshot(t *testing.T) {
	var seen metav1.ListOptions
	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			seen = options
			return &corev1.PodList{
				ListMeta: metav1.ListMeta{ResourceVersion: "10"},
				Items:    []corev1.Pod{*newPod("a", "x", "9"), *newPod("b", "x", "10")},
			}, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	snap, err := adapter.List(context.Background(), reflector.Params{
		LabelSelector: "app=web",
		FieldSelector: "status.phase=Running",
	})
	require.NoError(t, err)

	require.Equal(t, "10", snap.ResourceVersion)
	require.Len(t, snap.Items, 2)
	require.Equal(t, "a", snap.Items[0].GetName())
	require.Equal(t, "b", snap.Items[1].GetName())

	require.Equal(t, "app=web", seen.LabelSelector)
	require.Equal(t, "status.phase=Running", seen.FieldSelector)
	require.Empty(t, seen.ResourceVersion)
}

func TestList_PropagatesTransportError(t *testing.T) {
	sentinel := errors.New("connection refused")
	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			return nil, sentinel
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	_, err := adapter.List(context.Background(), reflector.Params{})
	require.ErrorIs(t, err, sentinel)
}

func TestList_RejectsMismatchedItemType(t *testing.T) {
	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			return &corev1.ServiceList{Items: []corev1.Service{{}}}, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	_, err := adapter.List(context.Background(), reflector.Params{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected item type")
}

func TestWatch_TranslatesEvents(t *testing.T) {
	fw := watch.NewFake()
	var seen metav1.ListOptions
	lw := &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			seen = options
			return fw, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := adapter.Watch(ctx, reflector.Params{AllowBookmarks: true}, "10")
	require.NoError(t, err)

	require.Equal(t, "10", seen.ResourceVersion)
	require.True(t, seen.AllowWatchBookmarks)

	go fw.Add(newPod("a", "x", "11"))
	ev := <-events
	require.Equal(t, reflector.Added, ev.Type)
	require.Equal(t, "a", ev.Object.GetName())

	go fw.Modify(newPod("a", "x", "12"))
	ev = <-events
	require.Equal(t, reflector.Modified, ev.Type)
	require.Equal(t, "12", ev.Object.GetResourceVersion())

	go fw.Delete(newPod("a", "x", "13"))
	ev = <-events
	require.Equal(t, reflector.Deleted, ev.Type)

	go fw.Error(&metav1.Status{
		Code:    410,
		Reason:  metav1.StatusReasonExpired,
		Message: "too old resource version",
	})
	ev = <-events
	require.Equal(t, reflector.Error, ev.Type)
	require.True(t, reflector.IsDesync(ev.Err))

	var se *reflector.StreamError
	require.ErrorAs(t, ev.Err, &se)
	require.Equal(t, int32(410), se.Code)

	// An error event terminates the session.
	_, open := <-events
	require.False(t, open)
}

func TestWatch_SessionEndsWhenSourceCloses(t *testing.T) {
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return fw, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	events, err := adapter.Watch(context.Background(), reflector.Params{}, "1")
	require.NoError(t, err)

	fw.Stop()

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the event channel to close when the source stops")
	}
}

func TestWatch_ContextCancelClosesChannel(t *testing.T) {
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return fw, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := adapter.Watch(ctx, reflector.Params{}, "1")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the event channel to close on context cancellation")
	}
}

func TestWatch_PropagatesTransportError(t *testing.T) {
	sentinel := errors.New("dial tcp: i/o timeout")
	lw := &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return nil, sentinel
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	_, err := adapter.Watch(context.Background(), reflector.Params{}, "1")
	require.ErrorIs(t, err, sentinel)
}

func TestWatch_RejectsMismatchedObjectType(t *testing.T) {
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			return fw, nil
		},
	}
	adapter := NewListerWatcher[*corev1.Pod](lw)

	events, err := adapter.Watch(context.Background(), reflector.Params{}, "1")
	require.NoError(t, err)

	go fw.Add(&corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "svc"}})
	ev := <-events
	require.Equal(t, reflector.Error, ev.Type)
	require.Contains(t, ev.Err.Error(), "unexpected object type")
}
