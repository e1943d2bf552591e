package domain

import "context"

// AccountDirectory resolves submitted emails to existing account ids.
// Lookup-or-none: a miss is (0, false, nil), never an error, so checkout
// success is never coupled to account matching.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (uint, bool, error)
}
