package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoreConstructor returns a fresh, empty store for every test.
type TestStoreConstructor func() CacheableKVStore

// TestSuite runs the same set of behaviour checks against any
// CacheableKVStore implementation.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// NewTestSuite returns a suite that uses given constructor to build the base
// layer for every test.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that writes are visible only in the layer they were made
// until that layer is written.
func (s *TestSuite) GetSet(t *testing.T) {
	base := s.makeBase()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	base.Set(k, v)
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("LA"), []byte("Dodgers")
	cache.Set(k2, v2)
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	cache.Write()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	c2.Set(k3, v3)
	c2.Delete(k)
	s.AssertGetHas(t, c2, k3, v3, true)
	s.AssertGetHas(t, c2, k, nil, false)
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)
	s.AssertGetHas(t, base, k, v, true)
}

// CacheConflicts checks that the last write on the top layer wins.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base := s.makeBase()
	k := []byte("key")
	base.Set(k, []byte("base"))

	cache := base.CacheWrap()
	cache.Set(k, []byte("one"))
	cache.Delete(k)
	s.AssertGetHas(t, cache, k, nil, false)
	cache.Set(k, []byte("two"))
	s.AssertGetHas(t, cache, k, []byte("two"), true)
	s.AssertGetHas(t, base, k, []byte("base"), true)

	cache.Write()
	s.AssertGetHas(t, base, k, []byte("two"), true)
}

// FuzzIterator checks iteration over random data written in both layers,
// with deletes and overwrites.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	base := s.makeBase()
	expected := make(map[string][]byte)

	for _, m := range randModels(40, 8, 12) {
		base.Set(m.Key, m.Value)
		expected[string(m.Key)] = m.Value
	}

	cache := base.CacheWrap()
	i := 0
	for k := range expected {
		switch i % 3 {
		case 0:
			cache.Delete([]byte(k))
			delete(expected, k)
		case 1:
			v := randBytes(5)
			cache.Set([]byte(k), v)
			expected[k] = v
		}
		i++
	}
	for _, m := range randModels(20, 8, 12) {
		cache.Set(m.Key, m.Value)
		expected[string(m.Key)] = m.Value
	}

	var want []Model
	for k, v := range expected {
		want = append(want, Model{Key: []byte(k), Value: v})
	}
	want = sortModels(want)

	verifyIterator(t, want, cache.Iterator(nil, nil))
	verifyIterator(t, reverse(want), cache.ReverseIterator(nil, nil))

	// a bounded range in the middle
	start, end := want[5].Key, want[len(want)-5].Key
	verifyIterator(t, want[5:len(want)-5], cache.Iterator(start, end))
	verifyIterator(t, reverse(want[5:len(want)-5]), cache.ReverseIterator(start, end))

	cache.Write()
	verifyIterator(t, want, base.Iterator(nil, nil))
}

// IteratorWithConflicts checks keys that exist in both layers are returned
// once, with the top layer value.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	base := s.makeBase()
	base.Set([]byte("a"), []byte("1"))
	base.Set([]byte("b"), []byte("2"))
	base.Set([]byte("c"), []byte("3"))

	cache := base.CacheWrap()
	cache.Set([]byte("b"), []byte("two"))
	cache.Delete([]byte("c"))
	cache.Set([]byte("d"), []byte("4"))

	want := []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("two")},
		{Key: []byte("d"), Value: []byte("4")},
	}
	verifyIterator(t, want, cache.Iterator(nil, nil))
	verifyIterator(t, reverse(want), cache.ReverseIterator(nil, nil))
	verifyIterator(t, want[1:2], cache.Iterator([]byte("b"), []byte("d")))
}

// AssertGetHas checks both Get and Has agree with expectations.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	assert.Equal(t, val, kv.Get(key))
	assert.Equal(t, has, kv.Has(key))
}

func verifyIterator(t testing.TB, want []Model, iter Iterator) {
	t.Helper()
	defer iter.Close()

	var got []Model
	for ; iter.Valid(); iter.Next() {
		got = append(got, Model{Key: iter.Key(), Value: iter.Value()})
	}
	require.Equal(t, len(want), len(got), "number of elements")
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key, "key %d", i)
		assert.Equal(t, want[i].Value, got[i].Value, "value %d", i)
	}
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	res := make([]Model, count)
	for i := range res {
		res[i] = Model{Key: randBytes(keySize), Value: randBytes(valueSize)}
	}
	return res
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	sort.Slice(models, func(i, j int) bool {
		return bytes.Compare(models[i].Key, models[j].Key) < 0
	})
	return models
}
