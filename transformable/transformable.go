// Package transformable defines the Transformable interface implemented by
// anything that can be re-expressed in a different frame by applying a
// single Transform, along with Point, a minimal positioned-and-oriented
// value that does so.
package transformable

import (
	"github.com/deniz-hofmeister/transforms/quaternion"
	"github.com/deniz-hofmeister/transforms/timestamp"
	"github.com/deniz-hofmeister/transforms/transform"
	"github.com/deniz-hofmeister/transforms/vector3"
)

// Transformable is implemented by values that can be moved from one frame
// into another by applying a single Transform in place.
type Transformable interface {
	Transform(tf transform.Transform) error
}

// Point is a position and orientation expressed in Frame at Timestamp.
type Point struct {
	Position    vector3.Vector3
	Orientation quaternion.Quaternion
	Timestamp   timestamp.Timestamp
	Frame       string
}

// Transform applies tf to p in place, moving p from tf.Child into
// tf.Parent: the position is rotated and translated, the orientation is
// left-multiplied by tf.Rotation, and Frame becomes tf.Parent.
//
// It requires p.Frame == tf.Child (ErrIncompatibleFrames otherwise) and
// reconciles p.Timestamp against tf.Timestamp using the same static/dynamic
// rule as Compose (a *transform.TimestampMismatchError on irreconcilable
// non-zero timestamps).
func (p *Point) Transform(tf transform.Transform) error {
	if p.Frame != tf.Child {
		return transform.ErrIncompatibleFrames
	}

	asTransform := transform.Transform{
		Translation: p.Position,
		Rotation:    p.Orientation,
		Timestamp:   p.Timestamp,
		Parent:      tf.Child,
		Child:       "",
	}
	composed, err := transform.Compose(tf, asTransform)
	if err != nil {
		return err
	}

	p.Position = composed.Translation
	p.Orientation = composed.Rotation
	p.Timestamp = composed.Timestamp
	p.Frame = tf.Parent
	return nil
}
