package custody

import (
	"fmt"

	"github.com/iov-one/custody/errors"
)

const (
	// KeyQueryMod looks up the exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns all the keys starting with given bytes.
	PrefixQueryMod = "prefix"
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is a function that adds some handlers
// to this router
type QueryRegister func(QueryRouter)

// QueryRouter allows us to register many query handlers
// to different paths and then direct each query
// to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path.
// panics if another Handler was already registered
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// RegisterQuery registers the raw store access under "/".
func RegisterQuery(qr QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	switch mod {
	case KeyQueryMod:
		value := db.Get(data)
		if value == nil {
			return nil, nil
		}
		return []Model{Pair(data, value)}, nil
	case PrefixQueryMod:
		return PrefixModels(db, data), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// PrefixModels returns all the key value pairs with keys starting with given
// prefix, in ascending key order.
func PrefixModels(db ReadOnlyKVStore, prefix []byte) []Model {
	start, end := PrefixRange(prefix)
	iter := db.Iterator(start, end)
	defer iter.Close()

	var res []Model
	for ; iter.Valid(); iter.Next() {
		res = append(res, Pair(iter.Key(), iter.Value()))
	}
	return res
}

// PrefixRange turns a prefix into (start, end) to create an iterator.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
