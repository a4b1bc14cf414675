// Package transform defines the rigid-body Transform record and the
// algebra over it: composition, inversion, and SLERP-based interpolation.
// A Transform maps points expressed in its Child frame into its Parent
// frame, so composition runs right-to-left along the child-to-parent chain
// — the convention used throughout ROS's tf2 and, before it, this module's
// Rust original.
package transform

import (
	"errors"
	"fmt"

	"github.com/deniz-hofmeister/transforms/quaternion"
	"github.com/deniz-hofmeister/transforms/timestamp"
	"github.com/deniz-hofmeister/transforms/vector3"
)

// ErrIncompatibleFrames is returned by Compose when a.Child != b.Parent,
// and by Transformable appliers when the target frame does not match.
var ErrIncompatibleFrames = errors.New("transform: incompatible frames")

// ErrSameFrameMultiplication is returned by Compose when the two operands
// would collapse the chain into a single frame composed with itself.
var ErrSameFrameMultiplication = errors.New("transform: same-frame multiplication")

// ErrTransformTreeEmpty is returned by registry composition when the
// combined chain has no elements to fold, as happens when both sides of a
// query name the same frame and their chains cancel out completely.
var ErrTransformTreeEmpty = errors.New("transform: transform tree is empty")

// TimestampMismatchError is returned by Compose when both timestamps are
// non-zero and unequal, and by Interpolate when a.Timestamp is not before
// b.Timestamp or the query time lies outside [a.Timestamp, b.Timestamp].
type TimestampMismatchError struct {
	T1, T2 timestamp.Timestamp
}

func (e *TimestampMismatchError) Error() string {
	return fmt.Sprintf("transform: timestamp mismatch: %d != %d", e.T1, e.T2)
}

// Transform is an immutable rigid-body transform from Child into Parent,
// sampled at Timestamp.
type Transform struct {
	Translation vector3.Vector3
	Rotation    quaternion.Quaternion
	Timestamp   timestamp.Timestamp
	Parent      string
	Child       string
}

// Identity is the zero-translation, zero-rotation, zero-timestamp,
// empty-frame transform.
var Identity = Transform{Rotation: quaternion.Identity}

// Inverse returns the inverse of t: a transform from t.Parent into
// t.Child, undoing t.
//
// It returns an error if t.Rotation cannot be inverted (zero norm).
func (t Transform) Inverse() (Transform, error) {
	invRot, err := t.Rotation.Inverse()
	if err != nil {
		return Transform{}, fmt.Errorf("transform: inverting rotation: %w", err)
	}
	return Transform{
		Translation: vector3.Scale(-1, invRot.RotateVector(t.Translation)),
		Rotation:    invRot,
		Timestamp:   t.Timestamp,
		Parent:      t.Child,
		Child:       t.Parent,
	}, nil
}

// reconcileTimestamps applies the static-vs-dynamic reconciliation rule: if
// both timestamps are non-zero and equal, that timestamp is used; if
// exactly one is zero (static), the other's timestamp is inherited; if both
// are non-zero and differ, it is an error.
func reconcileTimestamps(a, b timestamp.Timestamp) (timestamp.Timestamp, error) {
	switch {
	case a == b:
		return a, nil
	case a.IsStatic():
		return b, nil
	case b.IsStatic():
		return a, nil
	default:
		return 0, &TimestampMismatchError{T1: a, T2: b}
	}
}

// Compose returns a ∘ b: the transform that maps points from b.Child
// directly into a.Parent, by first applying b then a.
//
// It requires a.Child == b.Parent (ErrIncompatibleFrames otherwise) and
// a.Child != b.Child (ErrSameFrameMultiplication otherwise), and
// reconciles timestamps per the static/dynamic rule above
// (TimestampMismatchError on irreconcilable non-zero timestamps).
func Compose(a, b Transform) (Transform, error) {
	if a.Child != b.Parent {
		return Transform{}, ErrIncompatibleFrames
	}
	if a.Child == b.Child {
		return Transform{}, ErrSameFrameMultiplication
	}
	ts, err := reconcileTimestamps(a.Timestamp, b.Timestamp)
	if err != nil {
		return Transform{}, err
	}
	return Transform{
		Translation: vector3.Add(a.Translation, a.Rotation.RotateVector(b.Translation)),
		Rotation:    quaternion.Mul(a.Rotation, b.Rotation),
		Timestamp:   ts,
		Parent:      a.Parent,
		Child:       b.Child,
	}, nil
}

// Interpolate returns the transform at timestamp t, linearly interpolating
// the translation and SLERPing the rotation between a and b.
//
// It requires a.Parent == b.Parent and a.Child == b.Child
// (ErrIncompatibleFrames otherwise), and a.Timestamp < b.Timestamp with t
// within [a.Timestamp, b.Timestamp] (TimestampMismatchError otherwise).
func Interpolate(a, b Transform, t timestamp.Timestamp) (Transform, error) {
	if a.Parent != b.Parent || a.Child != b.Child {
		return Transform{}, ErrIncompatibleFrames
	}
	if !a.Timestamp.Before(b.Timestamp) {
		return Transform{}, &TimestampMismatchError{T1: a.Timestamp, T2: b.Timestamp}
	}
	if t.Before(a.Timestamp) || b.Timestamp.Before(t) {
		return Transform{}, &TimestampMismatchError{T1: a.Timestamp, T2: b.Timestamp}
	}

	span, err := b.Timestamp.Diff(a.Timestamp)
	if err != nil {
		return Transform{}, fmt.Errorf("transform: interpolation span: %w", err)
	}
	elapsed, err := t.Diff(a.Timestamp)
	if err != nil {
		return Transform{}, fmt.Errorf("transform: interpolation offset: %w", err)
	}
	spanSeconds := span.Seconds()
	var alpha float64
	if spanSeconds != 0 {
		alpha = elapsed.Seconds() / spanSeconds
	}

	return Transform{
		Translation: vector3.Lerp(a.Translation, b.Translation, alpha),
		Rotation:    quaternion.Slerp(a.Rotation, b.Rotation, alpha),
		Timestamp:   t,
		Parent:      a.Parent,
		Child:       a.Child,
	}, nil
}

// Equal reports whether t and u are equal within the given absolute
// tolerance on the translation and rotation components. Timestamp and
// frame names are compared exactly.
func Equal(t, u Transform, tol float64) bool {
	if t.Parent != u.Parent || t.Child != u.Child || t.Timestamp != u.Timestamp {
		return false
	}
	if !vector3.Equal(t.Translation, u.Translation, tol) {
		return false
	}
	return abs(t.Rotation.W-u.Rotation.W) <= tol &&
		abs(t.Rotation.X-u.Rotation.X) <= tol &&
		abs(t.Rotation.Y-u.Rotation.Y) <= tol &&
		abs(t.Rotation.Z-u.Rotation.Z) <= tol
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
