// Package session owns the canonical (identity, credential) pair.
//
// The Store is the single source of truth for "who is using the app right now":
// it normalizes loosely shaped backend payloads into one Identity shape, keeps
// the pair durable across restarts, and exposes the login / register / logout /
// profile-update operations. It emits lifecycle events instead of navigating;
// the HTTP layer decides what a "session ended" means for the UI.
package session
