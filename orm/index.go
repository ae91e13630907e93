package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const indexPrefix = "_i."

// Index is a non unique secondary index. Every reference is stored as a
// separate key
//   _i.<name>:<uvarint len(value)><value><primary key>
// so that all references for a value can be found with
// a single prefix iteration. The stored value is the primary key.
type Index struct {
	name    string
	id      []byte
	indexer Indexer
}

func newIndex(name string, indexer Indexer) Index {
	return Index{
		name:    name,
		id:      []byte(indexPrefix + name + ":"),
		indexer: indexer,
	}
}

func (i Index) valuePrefix(value []byte) []byte {
	var size [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(size[:], uint64(len(value)))
	out := make([]byte, 0, len(i.id)+n+len(value))
	out = append(out, i.id...)
	out = append(out, size[:n]...)
	return append(out, value...)
}

func (i Index) refKey(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

// Update moves the reference to the primary key from the value of prev to
// the value of save.
//
// prev == nil means insert
// save == nil means delete
func (i Index) Update(db custody.KVStore, pk []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if after, err = i.indexer(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		db.Delete(i.refKey(before, pk))
	}
	if after != nil {
		db.Set(i.refKey(after, pk), pk)
	}
	return nil
}

// Keys returns all primary keys indexed under given value.
func (i Index) Keys(db custody.ReadOnlyKVStore, value []byte) [][]byte {
	prefix := i.valuePrefix(value)
	start, end := custody.PrefixRange(prefix)
	iter := db.Iterator(start, end)
	defer iter.Close()

	var keys [][]byte
	for ; iter.Valid(); iter.Next() {
		pk := iter.Key()[len(prefix):]
		keys = append(keys, append([]byte(nil), pk...))
	}
	return keys
}

// indexQuery returns all the entities of the bucket referenced by the
// queried index value.
type indexQuery struct {
	bucket ModelBucket
	index  Index
}

func (q indexQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported index query mod %q", mod)
	}
	var res []custody.Model
	for _, pk := range q.index.Keys(db, data) {
		key := q.bucket.DBKey(pk)
		if value := db.Get(key); value != nil {
			res = append(res, custody.Pair(key, value))
		}
	}
	return res, nil
}
