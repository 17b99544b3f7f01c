package checkoutlog

import "context"

// Repository is the port for persisting checkout log entries. The flow
// depends on this abstraction, not on SQLite directly, so the implementation
// can be swapped for Postgres or an in-memory fake in tests.
type Repository interface {
	// Save appends a new entry. The log is append-only, never upserted.
	Save(ctx context.Context, entry *Entry) error
}
