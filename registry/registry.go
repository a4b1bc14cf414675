// Package registry composes single-edge transforms stored across many
// Buffers into transforms between arbitrary frames, by walking the
// parent-chain from each side of a query toward a common ancestor,
// truncating the shared suffix, and folding the remainder into one
// transform.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/deniz-hofmeister/transforms/buffer"
	"github.com/deniz-hofmeister/transforms/clock"
	"github.com/deniz-hofmeister/transforms/timestamp"
	"github.com/deniz-hofmeister/transforms/transform"
)

// NotFoundError is returned by GetTransform when neither the from-side nor
// the to-side chain walk reaches a shared frame.
type NotFoundError struct {
	From, To string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registry: no transform chain found between %q and %q", e.From, e.To)
}

// ErrChainTooLong is returned when a chain walk exceeds the number of known
// frames, which can only happen if the frame graph contains a cycle — an
// invariant violation the core does not otherwise detect (see spec design
// notes on cycle detection).
var ErrChainTooLong = errors.New("registry: chain walk exceeded known frame count, frame graph may contain a cycle")

// Registry holds one Buffer per child frame and composes chains across
// them to answer transform queries between arbitrary frames.
//
// Registry is not safe for concurrent use; callers sharing a Registry
// across goroutines must serialize access externally, for example with a
// sync.Mutex.
type Registry struct {
	data   map[string]*buffer.Buffer
	maxAge time.Duration
	clock  clock.Source
}

// New creates a Registry whose buffers evict entries older than maxAge,
// using clk to determine "now".
func New(maxAge time.Duration, clk clock.Source) *Registry {
	return &Registry{
		data:   make(map[string]*buffer.Buffer),
		maxAge: maxAge,
		clock:  clk,
	}
}

// NewUnbounded creates a Registry with no automatic eviction. Callers must
// call DeleteTransformsBefore themselves to bound memory growth.
func NewUnbounded() *Registry {
	return &Registry{data: make(map[string]*buffer.Buffer)}
}

// AddTransform stores tf, lazily creating the buffer for tf.Child if this
// is its first transform. This is the only place a Registry's buffers come
// into existence.
func (r *Registry) AddTransform(tf transform.Transform) {
	buf, ok := r.data[tf.Child]
	if !ok {
		if r.clock != nil {
			buf = buffer.New(r.maxAge, r.clock)
		} else {
			buf = buffer.NewUnbounded()
		}
		r.data[tf.Child] = buf
	}
	buf.Insert(tf)
}

// DeleteTransformsBefore applies DeleteBefore(cutoff) to every buffer in
// the registry.
func (r *Registry) DeleteTransformsBefore(cutoff timestamp.Timestamp) {
	for _, buf := range r.data {
		buf.DeleteBefore(cutoff)
	}
}

// GetTransform computes the transform from frame "from" into frame "to" at
// timestamp t.
//
// The query proceeds: ready -> collected_chains -> truncated -> combined ->
// inverted -> done. It walks a chain from each side toward its root,
// truncates the shared suffix (the "common ancestor" optimization), folds
// the remainder left-to-right with Compose, and inverts once more at the
// end so the result is labeled Parent=from, Child=to.
//
// It returns a *NotFoundError if neither side reaches the other (the two
// chain walks do not end at the same frame), ErrChainTooLong if either walk
// exceeds the known frame count, and propagates any composition or inversion error (ErrTransformTreeEmpty,
// ErrIncompatibleFrames, a *transform.TimestampMismatchError,
// ErrSameFrameMultiplication) encountered while folding the chain.
func (r *Registry) GetTransform(from, to string, t timestamp.Timestamp) (transform.Transform, error) {
	fromChain, fromErr := r.chain(from, t)
	toChain, toErr := r.chain(to, t)

	if errors.Is(fromErr, ErrChainTooLong) || errors.Is(toErr, ErrChainTooLong) {
		return transform.Transform{}, ErrChainTooLong
	}
	if fromErr != nil && toErr != nil {
		return transform.Transform{}, &NotFoundError{From: from, To: to}
	}

	// Both walks must end at the same frame; otherwise the two frames lie in
	// disconnected subtrees at time t.
	fromRoot, toRoot := from, to
	if fromErr == nil {
		fromRoot = fromChain[len(fromChain)-1].Parent
	}
	if toErr == nil {
		toRoot = toChain[len(toChain)-1].Parent
	}
	if fromRoot != toRoot {
		return transform.Transform{}, &NotFoundError{From: from, To: to}
	}

	if fromErr == nil && toErr == nil {
		truncateCommonSuffix(&fromChain, &toChain)
	}

	if toErr == nil {
		inverted, err := reverseInvert(toChain)
		if err != nil {
			return transform.Transform{}, err
		}
		toChain = inverted
	} else {
		toChain = nil
	}
	if fromErr != nil {
		fromChain = nil
	}

	combined, err := fold(append(fromChain, toChain...))
	if err != nil {
		return transform.Transform{}, err
	}

	result, err := combined.Inverse()
	if err != nil {
		return transform.Transform{}, err
	}
	result.Timestamp = t
	return result, nil
}

// chain walks from frame toward its root at timestamp t, collecting each
// transform along the way and advancing to its parent, until a frame has
// no buffer (a root) or its buffer has no valid sample at t.
//
// It caps the walk at len(r.data)+1 steps, returning ErrChainTooLong if
// exceeded — the frame graph is assumed cycle-free, but a corrupted
// registry (a child reassigned a parent that loops back) would otherwise
// walk forever.
func (r *Registry) chain(from string, t timestamp.Timestamp) ([]transform.Transform, error) {
	var transforms []transform.Transform
	current := from
	limit := len(r.data) + 1

	for i := 0; i < limit; i++ {
		buf, ok := r.data[current]
		if !ok {
			break
		}
		tf, err := buf.Get(t)
		if err != nil {
			break
		}
		transforms = append(transforms, tf)
		current = tf.Parent
	}

	if len(transforms) == limit {
		return nil, ErrChainTooLong
	}
	if len(transforms) == 0 {
		return nil, errNoChain
	}
	return transforms, nil
}

var errNoChain = errors.New("registry: no chain from this side")

// truncateCommonSuffix drops the shared suffix (from the root end) of two
// chains, so the transforms that would cancel in composition are never
// folded in the first place. Equality is full structural equality
// (translation, rotation, timestamp, frame names), which is both the
// correctness criterion and robust to independent re-sampling of the same
// edge.
func truncateCommonSuffix(fromChain, toChain *[]transform.Transform) {
	f, c := *fromChain, *toChain
	shared := 0
	for i, j := len(f)-1, len(c)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if f[i] != c[j] {
			break
		}
		shared++
	}
	*fromChain = f[:len(f)-shared]
	*toChain = c[:len(c)-shared]
}

// reverseInvert inverts every transform in chain and reverses the
// resulting order, turning a child-to-root walk into a root-to-child one.
func reverseInvert(chain []transform.Transform) ([]transform.Transform, error) {
	out := make([]transform.Transform, len(chain))
	for i, tf := range chain {
		inv, err := tf.Inverse()
		if err != nil {
			return nil, err
		}
		out[len(chain)-1-i] = inv
	}
	return out, nil
}

// fold composes a chain left to right: acc starts as the first element,
// then each subsequent element is composed as next ∘ acc. It returns
// ErrTransformTreeEmpty for an empty chain.
func fold(chain []transform.Transform) (transform.Transform, error) {
	if len(chain) == 0 {
		return transform.Transform{}, transform.ErrTransformTreeEmpty
	}
	acc := chain[0]
	for _, next := range chain[1:] {
		composed, err := transform.Compose(next, acc)
		if err != nil {
			return transform.Transform{}, err
		}
		acc = composed
	}
	return acc, nil
}
