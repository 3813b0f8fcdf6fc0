// Package metadata is a small key/value table in the local client database.
// The credential store keeps the session token and user record here.
package metadata

import (
	"context"
)

// Repository reads and writes raw values by key. Get returns (nil, nil)
// for a missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
