// Package reflector maintains a local, eventually-consistent mirror of a
// named collection of remote objects that changes over time.
//
// # Overview
//
// A Reflector tracks one collection. It combines a full snapshot (list) with
// an incremental change feed (watch) keyed by an opaque, monotonically
// advancing resume version:
//
//   - Poll pulls one batch of change events since the last known version and
//     applies them to the mirror, advancing the resume version as it goes.
//   - Reset discards the mirror and rebuilds it from a full snapshot. It is
//     the recovery path when the incremental stream can no longer continue,
//     typically because the remote has expired the stored resume version.
//   - State, Get and GetWithin expose the current mirror to any number of
//     concurrent readers while a Poll or Reset is in flight.
//
// The reflector is prone to desync when the remote expires its history, but
// it self-heals: callers (or the bundled Runner) escalate to Reset, which is
// the equivalent of a fresh boot. During a reset readers keep seeing the old
// mirror until the new one is swapped in whole.
//
// # Collaborator contract
//
// The reflector never talks to the network itself. It is constructed with a
// ListerWatcher collaborator that performs the actual list and watch calls;
// transport concerns such as request cancellation, authentication and wire
// format belong to the collaborator. Package kube provides a collaborator
// backed by client-go for Kubernetes API resources.
//
// # Error handling
//
// Poll and Reset surface collaborator failures unchanged, wrapped in
// TransportError (the call itself failed) or StreamError (the watch stream
// reported an explicit error event). The reflector performs no retry and no
// backoff; callers decide whether to retry Poll or escalate to Reset. A
// failed Poll keeps the partial progress made before the failure, trading
// batch atomicity for availability of a slightly stale mirror. Reset is
// atomic: on failure the previous mirror is preserved unchanged.
//
// # Example usage
//
//	refl := reflector.New[*corev1.Pod](lw, reflector.WithNamespace("default"))
//	if err := refl.Reset(ctx); err != nil {
//	    return fmt.Errorf("initial sync failed: %w", err)
//	}
//	go func() {
//	    for {
//	        if err := refl.Poll(ctx); reflector.IsDesync(err) {
//	            refl.Reset(ctx)
//	        }
//	    }
//	}()
//	pod, ok := refl.Get("my-pod")
//
// Objects returned by the read accessors are shared with the mirror and must
// be treated as read-only.
package reflector
