// Package quaternion provides a Hamilton-convention unit quaternion type for
// representing 3D orientation, with the arithmetic delegated to
// gonum.org/v1/gonum/num/quat and the error-returning, robotics-flavored
// operations (normalize, inverse, division, vector rotation, SLERP) layered
// on top.
package quaternion

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/deniz-hofmeister/transforms/vector3"
)

// ErrZeroLengthNormalization is returned by Normalize when the quaternion
// has zero norm and cannot be scaled to unit length.
var ErrZeroLengthNormalization = errors.New("quaternion: cannot normalize a zero-length quaternion")

// ErrDivisionByZero is returned by Div when the divisor has zero norm and
// has no inverse.
var ErrDivisionByZero = errors.New("quaternion: division by zero-norm quaternion")

// Quaternion is a float64 quaternion in Hamilton convention (w, x, y, z).
// It represents an orientation when unit-norm.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the rotation-free unit quaternion.
var Identity = Quaternion{W: 1}

func (q Quaternion) toGonum() quat.Quat {
	return quat.Quat{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromGonum(n quat.Quat) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// Add returns the component-wise sum of a and b.
func Add(a, b Quaternion) Quaternion {
	return fromGonum(quat.Add(a.toGonum(), b.toGonum()))
}

// Sub returns a - b.
func Sub(a, b Quaternion) Quaternion {
	return fromGonum(quat.Sub(a.toGonum(), b.toGonum()))
}

// Scale returns q scaled by f.
func Scale(f float64, q Quaternion) Quaternion {
	return fromGonum(quat.Scale(f, q.toGonum()))
}

// Mul returns the Hamilton product of a and b. Quaternion multiplication is
// not commutative: Mul(a, b) != Mul(b, a) in general.
func Mul(a, b Quaternion) Quaternion {
	return fromGonum(quat.Mul(a.toGonum(), b.toGonum()))
}

// Conjugate returns the conjugate of q: (w, -x, -y, -z).
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// NormSquared returns the squared norm of q.
func (q Quaternion) NormSquared() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// Norm returns the Euclidean norm of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.NormSquared())
}

// Normalize returns q scaled to unit norm.
//
// It returns ErrZeroLengthNormalization if q has zero norm.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n == 0 {
		return Quaternion{}, ErrZeroLengthNormalization
	}
	return Scale(1/n, q), nil
}

// Inverse returns q^-1 = conjugate(q) / |q|^2.
//
// It returns ErrDivisionByZero if q has zero norm.
func (q Quaternion) Inverse() (Quaternion, error) {
	ns := q.NormSquared()
	if ns == 0 {
		return Quaternion{}, ErrDivisionByZero
	}
	return Scale(1/ns, q.Conjugate()), nil
}

// Div returns a / b, computed as a * b^-1.
//
// It returns ErrDivisionByZero if b has zero norm.
func Div(a, b Quaternion) (Quaternion, error) {
	inv, err := b.Inverse()
	if err != nil {
		return Quaternion{}, err
	}
	return Mul(a, inv), nil
}

// RotateVector rotates v by the rotation represented by q, evaluated with
// the standard optimized form t = 2*cross(qv, v); v' = v + q.w*t + cross(qv, t),
// which avoids the full sandwich product q*v*q^-1.
func (q Quaternion) RotateVector(v vector3.Vector3) vector3.Vector3 {
	qv := vector3.Vector3{X: q.X, Y: q.Y, Z: q.Z}
	t := vector3.Scale(2, vector3.Cross(qv, v))
	return vector3.Add(v, vector3.Add(vector3.Scale(q.W, t), vector3.Cross(qv, t)))
}

// Slerp performs spherical linear interpolation between the unit
// quaternions a and b for t in [0, 1], taking the shorter of the two arcs
// between them and falling back to linear interpolation (followed by
// renormalization) when a and b are nearly parallel, where the SLERP
// formula becomes numerically unstable.
func Slerp(a, b Quaternion, t float64) Quaternion {
	cosTheta := a.W*b.W + a.X*b.X + a.Y*b.Y + a.Z*b.Z

	if cosTheta < 0 {
		b = Scale(-1, b)
		cosTheta = -cosTheta
	}

	const dotThreshold = 0.9995
	if cosTheta > dotThreshold {
		result := Add(a, Scale(t, Sub(b, a)))
		if normalized, err := result.Normalize(); err == nil {
			return normalized
		}
		return result
	}

	theta := math.Acos(cosTheta)
	sinTheta := math.Sin(theta)
	s0 := math.Sin((1-t)*theta) / sinTheta
	s1 := math.Sin(t*theta) / sinTheta
	return Add(Scale(s0, a), Scale(s1, b))
}
