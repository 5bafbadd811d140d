// Package session signs the user in and keeps the resulting session cookie
// across CLI invocations.
//
// Manager owns the logged-in flag. Every change is published to subscribers,
// and flag mutation is serialized so concurrent logins observe a consistent
// state. FileStore persists the cookies as JSON with owner-only permissions,
// guarded by an advisory file lock so parallel invocations do not interleave
// writes.
package session
