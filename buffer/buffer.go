// Package buffer provides a time-indexed store of Transforms sharing a
// single (parent, child) pair, with nearest-neighbor lookup, SLERP-based
// interpolation between temporally adjacent samples, static-transform
// short-circuiting, and age-based eviction.
//
// The underlying ordered map is a github.com/google/btree, giving O(log n)
// insert and nearest-neighbor queries without reaching for an unsafe
// red-black tree implementation of our own.
package buffer

import (
	"errors"
	"time"

	"github.com/google/btree"

	"github.com/deniz-hofmeister/transforms/clock"
	"github.com/deniz-hofmeister/transforms/timestamp"
	"github.com/deniz-hofmeister/transforms/transform"
)

// ErrNoTransformAvailable is returned by Get when no entry exists at or
// within range of the requested timestamp, or the buffer is static and
// empty.
var ErrNoTransformAvailable = errors.New("buffer: no transform available")

// entry is the btree.Item stored in the buffer's tree, ordered by
// timestamp.
type entry struct {
	ts timestamp.Timestamp
	tf transform.Transform
}

func (e entry) Less(than btree.Item) bool {
	return e.ts < than.(entry).ts
}

const defaultDegree = 32

// Buffer stores transforms for a single (parent, child) pair, ordered by
// timestamp.
type Buffer struct {
	data     *btree.BTree
	maxAge   time.Duration
	clock    clock.Source
	isStatic bool
}

// New creates a Buffer that evicts entries older than maxAge on every
// non-static insert, using clk to determine "now".
func New(maxAge time.Duration, clk clock.Source) *Buffer {
	return &Buffer{
		data:   btree.New(defaultDegree),
		maxAge: maxAge,
		clock:  clk,
	}
}

// NewUnbounded creates a Buffer with no automatic eviction. Callers must
// call DeleteBefore themselves to bound memory growth.
func NewUnbounded() *Buffer {
	return &Buffer{data: btree.New(defaultDegree)}
}

// Insert adds tf to the buffer, replacing any existing entry at the same
// timestamp. If tf.Timestamp is the distinguished static value, the buffer
// becomes (or remains) static. Otherwise, if an age-based eviction clock
// was configured, entries older than the retention age are evicted.
func (b *Buffer) Insert(tf transform.Transform) {
	b.isStatic = tf.Timestamp.IsStatic()
	b.data.ReplaceOrInsert(entry{ts: tf.Timestamp, tf: tf})

	if !b.isStatic && b.clock != nil {
		b.evictExpired()
	}
}

// Get retrieves the transform valid at timestamp t.
//
// If the buffer is static, it returns the entry at timestamp zero
// regardless of t. Otherwise it returns an exact match if present, the
// SLERP interpolation between the nearest entries below and above t if
// both exist, or ErrNoTransformAvailable if t falls outside the buffered
// range.
func (b *Buffer) Get(t timestamp.Timestamp) (transform.Transform, error) {
	if b.isStatic {
		if item := b.data.Get(entry{ts: timestamp.Zero}); item != nil {
			return item.(entry).tf, nil
		}
		return transform.Transform{}, ErrNoTransformAvailable
	}

	before, after, exact := b.nearest(t)
	if exact {
		return before.tf, nil
	}
	if before == nil || after == nil {
		return transform.Transform{}, ErrNoTransformAvailable
	}
	return transform.Interpolate(before.tf, after.tf, t)
}

// DeleteBefore removes all entries with a timestamp strictly earlier than
// cutoff. It is idempotent.
func (b *Buffer) DeleteBefore(cutoff timestamp.Timestamp) {
	var stale []btree.Item
	b.data.AscendLessThan(entry{ts: cutoff}, func(item btree.Item) bool {
		stale = append(stale, item)
		return true
	})
	for _, item := range stale {
		b.data.Delete(item)
	}
}

// Len reports the number of entries currently stored.
func (b *Buffer) Len() int {
	return b.data.Len()
}

// nearest returns the greatest entry with timestamp <= t ("before") and
// the least entry with timestamp >= t ("after"). exact is true, and before
// is the matching entry, when an entry at exactly t exists.
func (b *Buffer) nearest(t timestamp.Timestamp) (before, after *entry, exact bool) {
	pivot := entry{ts: t}

	b.data.DescendLessOrEqual(pivot, func(item btree.Item) bool {
		e := item.(entry)
		before = &e
		return false
	})
	if before != nil && before.ts == t {
		return before, before, true
	}

	b.data.AscendGreaterOrEqual(pivot, func(item btree.Item) bool {
		e := item.(entry)
		after = &e
		return false
	})
	return before, after, false
}

func (b *Buffer) evictExpired() {
	now := b.clock.Now()
	cutoff, err := now.Sub(b.maxAge)
	if err != nil {
		// now < maxAge: nothing could possibly be older than the cutoff
		// yet, eviction is a no-op this round.
		return
	}
	b.DeleteBefore(cutoff)
}
