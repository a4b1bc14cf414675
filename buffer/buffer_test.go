package buffer

import (
	"errors"
	"testing"
	"time"

	"github.com/deniz-hofmeister/transforms/quaternion"
	"github.com/deniz-hofmeister/transforms/timestamp"
	"github.com/deniz-hofmeister/transforms/transform"
	"github.com/deniz-hofmeister/transforms/vector3"
)

func tf(ts timestamp.Timestamp, x float64) transform.Transform {
	return transform.Transform{
		Translation: vector3.Vector3{X: x},
		Rotation:    quaternion.Identity,
		Timestamp:   ts,
		Parent:      "parent",
		Child:       "child",
	}
}

func TestInsertGetExact(t *testing.T) {
	b := NewUnbounded()
	want := tf(100, 1)
	b.Insert(want)

	got, err := b.Get(100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Fatalf("Get(100) = %+v, want %+v", got, want)
	}
}

func TestGetEmpty(t *testing.T) {
	b := NewUnbounded()
	if _, err := b.Get(100); !errors.Is(err, ErrNoTransformAvailable) {
		t.Fatalf("Get on empty buffer: got %v, want ErrNoTransformAvailable", err)
	}
}

func TestGetOutOfRange(t *testing.T) {
	b := NewUnbounded()
	b.Insert(tf(100, 1))
	b.Insert(tf(200, 2))

	if _, err := b.Get(50); !errors.Is(err, ErrNoTransformAvailable) {
		t.Fatalf("Get before range: got %v, want ErrNoTransformAvailable", err)
	}
	if _, err := b.Get(300); !errors.Is(err, ErrNoTransformAvailable) {
		t.Fatalf("Get after range: got %v, want ErrNoTransformAvailable", err)
	}
}

func TestInterpolationMidpoint(t *testing.T) {
	b := NewUnbounded()
	b.Insert(transform.Transform{
		Translation: vector3.Vector3{},
		Rotation:    quaternion.Identity,
		Timestamp:   0,
		Parent:      "parent",
		Child:       "child",
	})
	b.Insert(transform.Transform{
		Translation: vector3.Vector3{X: 10},
		Rotation:    quaternion.Identity,
		Timestamp:   timestamp.Timestamp(2 * time.Second),
		Parent:      "parent",
		Child:       "child",
	})

	mid := timestamp.Timestamp(time.Second)
	got, err := b.Get(mid)
	if err != nil {
		t.Fatalf("Get(mid): %v", err)
	}
	if got.Translation.X != 5 {
		t.Fatalf("interpolated X = %v, want 5", got.Translation.X)
	}
	if got.Timestamp != mid {
		t.Fatalf("interpolated Timestamp = %d, want %d", got.Timestamp, mid)
	}
}

func TestStaticShortCircuit(t *testing.T) {
	b := NewUnbounded()
	want := tf(timestamp.Zero, 7)
	b.Insert(want)

	for _, query := range []timestamp.Timestamp{0, 1, 1_000_000_000_000} {
		got, err := b.Get(query)
		if err != nil {
			t.Fatalf("Get(%d): %v", query, err)
		}
		if got != want {
			t.Fatalf("Get(%d) = %+v, want %+v", query, got, want)
		}
	}
}

func TestDeleteBeforeIsIdempotent(t *testing.T) {
	b := NewUnbounded()
	b.Insert(tf(100, 1))
	b.Insert(tf(200, 2))

	b.DeleteBefore(150)
	if b.Len() != 1 {
		t.Fatalf("Len after first DeleteBefore = %d, want 1", b.Len())
	}
	b.DeleteBefore(150)
	if b.Len() != 1 {
		t.Fatalf("Len after second DeleteBefore = %d, want 1 (idempotent)", b.Len())
	}
}

func TestEvictionOnInsert(t *testing.T) {
	now := timestamp.Timestamp(10 * time.Second)
	clk := fixedClock{now: now}
	b := New(time.Second, clk)

	b.Insert(tf(timestamp.Timestamp(1*time.Second), 1))
	b.Insert(tf(timestamp.Timestamp(9*time.Second), 2))
	b.Insert(tf(now, 3))

	if b.Len() != 2 {
		t.Fatalf("Len after eviction = %d, want 2 (entries older than now-1s evicted)", b.Len())
	}
}

type fixedClock struct {
	now timestamp.Timestamp
}

func (c fixedClock) Now() timestamp.Timestamp { return c.now }

func BenchmarkInsertGet(b *testing.B) {
	buf := NewUnbounded()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ts := timestamp.Timestamp(i + 1)
		buf.Insert(tf(ts, float64(i)))
		if _, err := buf.Get(ts); err != nil {
			b.Fatalf("Get: %v", err)
		}
	}
}
