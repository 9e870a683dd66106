// Package store provides the key-value persistence layer. The whole
// application state lives under two keys, KeyUsers and KeyCurrentUser,
// mirroring the browser-local storage model this service replaces.
package store

import "context"

const (
	// KeyUsers holds the serialized accountID -> Account mapping.
	KeyUsers = "users"
	// KeyCurrentUser holds the accountID of the active session, or "".
	KeyCurrentUser = "currentUser"
)

// Store is the persistence contract. A missing key reads back as the
// empty string rather than an error; callers treat "" as "not set".
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
	Close() error
}
