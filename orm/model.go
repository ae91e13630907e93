package orm

import (
	"github.com/iov-one/custody"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	custody.Persistent

	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	Validate() error
}

// Indexer calculates the secondary index value for a given model. Returning
// a nil value excludes the model from the index.
type Indexer func(Model) ([]byte, error)
