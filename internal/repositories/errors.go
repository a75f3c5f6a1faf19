package repositories

import (
	"context"

	"github.com/pkg/errors"
)

// Sentinel errors shared by all repositories. Any other error returned by a
// repository is a store or connectivity fault.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrDuplicate = errors.New("duplicate record")
)

// ExistenceStore answers id-shape and existence questions for one collection.
type ExistenceStore interface {
	// ValidID reports whether id could identify a record; it never touches the store.
	ValidID(id string) bool
	ExistsByID(ctx context.Context, id string) (bool, error)
}
