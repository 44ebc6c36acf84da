// Package state provides the thread-safe stores for the committed profile
// record and the reminder list.
//
// # Overview
//
// Each store is the single source of truth for its record. The sync engine
// writes after successful fetches, the edit controller writes on commit, and
// the UI reads snapshots at its own refresh rate. Snapshots are defensive
// copies, so a forked edit session can never observe another session's
// uncommitted changes and an abandoned edit can never mutate committed state.
//
// # Update Semantics
//
// Fetch failures keep the previous data and record the error; the stores
// start pre-seeded with a built-in placeholder record so the UI stays usable
// when the backend has never been reachable. A local commit marks the profile
// store dirty until a push is acknowledged; the optimistic commit is never
// rolled back by a push failure.
//
// # Stale Responses
//
// A save echo arriving after the user moved on is applied only when it still
// keys (by email) to the record the store currently holds; otherwise it is
// dropped. No locks beyond the store mutex are needed: all races are between
// interleaved callbacks operating on independent copies.
package state
