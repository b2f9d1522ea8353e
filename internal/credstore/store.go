// Package credstore persists the session token across program runs.
package credstore

// TokenKey is the well-known key holding the raw session token.
const TokenKey = "yakhteh_token"

// Store is a small durable key-value store. Values are stored as-is and are
// not encrypted.
type Store interface {
	// Read returns the value for key. ok is false when the key is absent.
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}
