package teacher

import (
	"context"
)

// Store answers credential questions for teacher logins and sessions.
// It is read-only; teachers are never created or edited at runtime.
type Store interface {
	// Verify reports whether a username/password pair exists.
	Verify(ctx context.Context, username, password string) bool
	// Exists reports whether any credential has the given username.
	Exists(ctx context.Context, username string) bool
}

// Ensure FileStore implements Store interface.
var _ Store = (*FileStore)(nil)
