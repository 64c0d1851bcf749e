// Package logging provides subsystem-tagged structured logging for kmirror.
//
// It is a thin wrapper over log/slog: every entry carries a "subsystem"
// attribute identifying the component that produced it, so output from the
// reflector core, the Kubernetes adapter and the CLI can be filtered apart.
//
// Init should be called once at startup (the CLI does this from its root
// command); before that, entries go to stderr at info level.
package logging
