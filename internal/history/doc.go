// Package history keeps a local SQLite log of notes that the service accepted.
//
// Entries are written only after a successful submission and are never
// synced back; the log exists so `braindump history` can show what was sent
// from this machine.
package history
