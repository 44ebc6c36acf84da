// Package app provides the orchestration layer for the pillbox application.
//
// It is the composition root: Run loads the configuration and preferences,
// builds the MedHub HTTP client, restores any stored session, wires the
// profile and reminder stores to the syncer and reminder manager, launches
// the background reminder poller, and starts the TUI.
//
// The syncer embodies the write model: profile edits are committed to the
// local store first and pushed to the backend after, and a failed push never
// rolls the local commit back. Reads degrade the same way; when the backend
// is unreachable the stores keep serving the last-loaded (or placeholder)
// data and the poller retries with backoff.
//
// Fatal errors (bad config, unusable server URL) are returned from Run.
// Everything after startup is recoverable: poll and push failures are logged
// and surfaced through the stores' failure counters.
package app
