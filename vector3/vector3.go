// Package vector3 provides a 3D translation/position vector used throughout
// the transforms module, built on gonum's spatial vector primitives.
package vector3

import "gonum.org/v1/gonum/spatial/r3"

// Vector3 is a point or translation in 3-space.
type Vector3 struct {
	X, Y, Z float64
}

// Zero is the additive identity.
var Zero = Vector3{}

func (v Vector3) toR3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Add returns the vector sum of a and b.
func Add(a, b Vector3) Vector3 {
	return fromR3(r3.Add(a.toR3(), b.toR3()))
}

// Sub returns a - b.
func Sub(a, b Vector3) Vector3 {
	return fromR3(r3.Sub(a.toR3(), b.toR3()))
}

// Scale returns v scaled by f.
func Scale(f float64, v Vector3) Vector3 {
	return fromR3(r3.Scale(f, v.toR3()))
}

// Dot returns the dot product of a and b.
func Dot(a, b Vector3) float64 {
	return r3.Dot(a.toR3(), b.toR3())
}

// Cross returns the cross product a x b.
func Cross(a, b Vector3) Vector3 {
	return fromR3(r3.Cross(a.toR3(), b.toR3()))
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b Vector3, t float64) Vector3 {
	return Add(a, Scale(t, Sub(b, a)))
}

// Equal reports whether a and b are equal within the given absolute
// tolerance on each component.
func Equal(a, b Vector3, tol float64) bool {
	return abs(a.X-b.X) <= tol && abs(a.Y-b.Y) <= tol && abs(a.Z-b.Z) <= tol
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
