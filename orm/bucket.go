package orm

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
	isIndexName  = regexp.MustCompile(`^[a-z_]{2,20}$`).MatchString
)

// ModelBucket stores models of a single type under a prefix, keyed by the
// given primary key.
type ModelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]Index
}

var _ custody.QueryHandler = ModelBucket{}

// BucketOption configures a bucket when it is created.
type BucketOption func(*ModelBucket)

// WithIndex adds a non unique secondary index to the bucket. Panics if an index
// with that name is already registered.
func WithIndex(name string, indexer Indexer) BucketOption {
	return func(b *ModelBucket) {
		if !isIndexName(name) {
			panic(fmt.Sprintf("Illegal index: %s", name))
		}
		if _, ok := b.indexes[name]; ok {
			panic(fmt.Sprintf("Index %s registered twice", name))
		}
		b.indexes[name] = newIndex(b.name+"_"+name, indexer)
	}
}

// NewModelBucket returns a bucket storing the same type as the given model
// under the prefix name.
//
// Bucket name must be 3 to 10 characters long, lowercase letters or
// underscore.
func NewModelBucket(name string, m Model, opts ...BucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	b := ModelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		model:   tp.Elem(),
		indexes: make(map[string]Index),
	}
	for _, fn := range opts {
		fn(&b)
	}
	return b
}

// Name returns the name of this bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the model stored under given key into dest. ErrNotFound is
// returned if there is no such entity.
func (b ModelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.checkType(dest); err != nil {
		return err
	}
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "%s %X", b.name, key)
	}
	return nil
}

// Has returns true if an entity is stored under given key.
func (b ModelBucket) Has(db custody.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Put validates and saves the model under given key, updating all indexes.
// An existing entity is overwritten.
func (b ModelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key is required")
	}
	if err := b.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	db.Set(b.DBKey(key), raw)
	return nil
}

// Create saves the model only if no entity is stored under given key yet.
// ErrDuplicate is returned otherwise and nothing is written.
func (b ModelBucket) Create(db custody.KVStore, key []byte, m Model) error {
	if b.Has(db, key) {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", b.name, key)
	}
	return b.Put(db, key, m)
}

// Delete removes the entity stored under given key, together with its index
// entries. ErrNotFound is returned if there is no such entity.
func (b ModelBucket) Delete(db custody.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	db.Delete(b.DBKey(key))
	return nil
}

// ByIndex returns the primary keys of all entities indexed under the given
// value, in ascending order.
func (b ModelBucket) ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", indexName)
	}
	return idx.Keys(db, value), nil
}

// Register adds the bucket and all its indexes to the query router. The
// bucket is available under /<name> and each index under /<name>/<index>.
func (b ModelBucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)

	names := make([]string, 0, len(b.indexes))
	for n := range b.indexes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		r.Register(root+"/"+n, indexQuery{bucket: b, index: b.indexes[n]})
	}
}

// Query handles queries from the QueryRouter.
func (b ModelBucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := b.DBKey(data)
		value := db.Get(key)
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		return custody.PrefixModels(db, b.DBKey(data)), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// load returns the stored model or nil if there is none.
func (b ModelBucket) load(db custody.ReadOnlyKVStore, key []byte) (Model, error) {
	if len(b.indexes) == 0 {
		if b.Has(db, key) {
			return b.newModel(), nil
		}
		return nil, nil
	}
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return nil, nil
	}
	m := b.newModel()
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "%s %X", b.name, key)
	}
	return m, nil
}

func (b ModelBucket) newModel() Model {
	return reflect.New(b.model).Interface().(Model)
}

func (b ModelBucket) checkType(m Model) error {
	if tp := reflect.TypeOf(m); tp.Kind() != reflect.Ptr || tp.Elem() != b.model {
		return errors.Wrapf(errors.ErrType, "bucket %s stores %s, got %T", b.name, b.model, m)
	}
	return nil
}
