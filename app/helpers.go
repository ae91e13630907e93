package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query part of the abci.Application interface.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. A failed
// query panics with the error rebuilt from the response code.
type ABCIStore struct {
	app Querier
}

var _ custody.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of given app.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) []byte {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	// if only the interface supported returning errors....
	if query.Code != errors.SuccessABCICode {
		panic(errors.ABCIError(query.Code, query.Log))
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		panic(errors.Wrap(err, "unmarshal result set"))
	}
	if len(value.Results) == 0 {
		return nil
	}
	return value.Results[0]
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) bool {
	return len(a.Get(key)) > 0
}

// Iterator iterates over all the keys in the prefix range of start. Only
// prefix ranges, as created by custody.PrefixRange, are supported.
func (a *ABCIStore) Iterator(start, end []byte) custody.Iterator {
	if s, e := custody.PrefixRange(start); string(s) != string(start) || string(e) != string(end) {
		panic("iterator only implemented for prefix ranges")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: start,
	})
	if query.Code != errors.SuccessABCICode {
		panic(errors.ABCIError(query.Code, query.Log))
	}
	models, err := toModels(query.Key, query.Value)
	if err != nil {
		panic(errors.Wrap(err, "cannot convert to model"))
	}
	return store.NewSliceIterator(models)
}

// ReverseIterator is not supported.
func (a *ABCIStore) ReverseIterator(start, end []byte) custody.Iterator {
	panic("not implemented")
}

func toModels(keys, values []byte) ([]custody.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
