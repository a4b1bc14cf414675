// Package clock isolates the single wall-clock dependency the transforms
// module has: acquiring "now" for age-based eviction in package buffer. The
// core is otherwise free of any global time dependency, so it can run
// unchanged in environments without a wall clock by simply not configuring
// one (see buffer.NewUnbounded and registry.NewUnbounded).
package clock

import (
	"time"

	"github.com/deniz-hofmeister/transforms/timestamp"
)

// Source yields the current time as a Timestamp. It is consulted only
// inside Buffer's eviction path.
type Source interface {
	Now() timestamp.Timestamp
}

// System is the Source backed by the operating system's wall clock.
type System struct{}

// Now returns the current time as nanoseconds since the Unix epoch.
func (System) Now() timestamp.Timestamp {
	return timestamp.Timestamp(time.Now().UnixNano())
}
