// Package history keeps a log of finished runs in a local SQLite database
// (modernc.org/sqlite, no cgo). Recording is opt-in. The schema is created
// from embedded migrations on open.
package history
