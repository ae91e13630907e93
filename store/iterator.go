package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendItems returns all cached items within [start, end) in ascending
// order. Nil start or end means there is no bound on that side.
func ascendItems(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendItems returns the same items as ascendItems, in descending order.
func descendItems(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendItems(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	us
	parent
)

// mergeIterator combines the cached items with the iterator of the parent
// store. Cached items overwrite parent values with the same key and deleted
// items hide them.
type mergeIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool
	current   source
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	it.settle()
	return it
}

// settle skips over deleted and overwritten entries and selects the source
// of the next visible element.
func (i *mergeIterator) settle() {
	for {
		hasUs := i.idx < len(i.items)
		hasParent := i.parent != nil && i.parent.Valid()

		switch {
		case !hasUs && !hasParent:
			i.current = none
			return
		case !hasUs:
			i.current = parent
			return
		case hasParent:
			cmp := bytes.Compare(i.items[i.idx].Key(), i.parent.Key())
			if !i.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				i.current = parent
				return
			}
			if cmp == 0 {
				// Our item shadows the parent entry.
				i.parent.Next()
			}
		}

		if _, ok := i.items[i.idx].(deletedItem); ok {
			i.idx++
			continue
		}
		i.current = us
		return
	}
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergeIterator) Valid() bool {
	return i.current != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *mergeIterator) Next() {
	switch i.current {
	case us:
		i.idx++
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}
	i.settle()
}

// Key returns the key of the cursor.
func (i *mergeIterator) Key() []byte {
	switch i.current {
	case us:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *mergeIterator) Value() []byte {
	switch i.current {
	case us:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *mergeIterator) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
	i.current = none
}
