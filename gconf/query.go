package gconf

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// RegisterQuery exposes the raw configuration singletons under /gconf.
// The query data is the package name.
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/gconf", queryHandler{})
}

type queryHandler struct{}

func (queryHandler) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	key := dbKey(string(data))
	raw := db.Get(key)
	if raw == nil {
		return nil, nil
	}
	return []custody.Model{custody.Pair(data, raw)}, nil
}
