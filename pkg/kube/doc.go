// Package kube provides the Kubernetes collaborator for the reflector core.
//
// It adapts a client-go cache.ListerWatcher into the transport-neutral
// reflector.ListerWatcher contract: list responses become snapshots with the
// list's resourceVersion, and watch sessions are translated event by event,
// including bookmark pass-through and metav1.Status error events. HTTP 410
// (Gone) statuses surface as expired StreamErrors so callers can detect
// desync and rebuild from a full snapshot.
//
// The package also carries the small amount of client-go plumbing the CLI
// needs: kubeconfig resolution and ListerWatcher construction for core/v1
// resources.
package kube
