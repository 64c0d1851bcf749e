package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/tools/cache"

	"github.com/pshail/kmirror/pkg/reflector"
)

// Exercises a reflector over the client-go adapter end to end: full list,
// then one watch session resumed from the snapshot version.
func TestReflectorOverClientGoAdapter(t *testing.T) {
	fw := watch.NewFake()
	var watchedFrom string
	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			return &corev1.PodList{
				ListMeta: metav1.ListMeta{ResourceVersion: "10"},
				Items:    []corev1.Pod{*newPod("web", "prod", "9")},
			}, nil
		},
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			watchedFrom = options.ResourceVersion
			return fw, nil
		},
	}

	refl := reflector.New[*corev1.Pod](
		NewListerWatcher[*corev1.Pod](lw),
		reflector.WithNamespace("prod"),
	)

	require.NoError(t, refl.Reset(context.Background()))
	require.Equal(t, "10", refl.Version())

	pod, ok := refl.Get("web")
	require.True(t, ok)
	require.Equal(t, "9", pod.ResourceVersion)

	done := make(chan error, 1)
	go func() { done <- refl.Poll(context.Background()) }()

	fw.Add(newPod("db", "prod", "11"))
	fw.Modify(newPod("web", "prod", "12"))
	fw.Delete(newPod("db", "prod", "13"))
	fw.Stop()

	require.NoError(t, <-done)
	require.Equal(t, "10", watchedFrom)
	require.Equal(t, "13", refl.Version())

	pod, ok = refl.Get("web")
	require.True(t, ok)
	require.Equal(t, "12", pod.ResourceVersion)

	_, ok = refl.Get("db")
	require.False(t, ok)
}
