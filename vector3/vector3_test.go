package vector3

import "testing"

func TestAddSub(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: 5, Z: 6}
	sum := Add(a, b)
	want := Vector3{X: 5, Y: 7, Z: 9}
	if sum != want {
		t.Fatalf("Add(%v, %v) = %v, want %v", a, b, sum, want)
	}
	if got := Sub(sum, b); got != a {
		t.Fatalf("Sub(Add(a,b), b) = %v, want %v", got, a)
	}
}

func TestScale(t *testing.T) {
	v := Vector3{X: 1, Y: -2, Z: 3}
	got := Scale(2, v)
	want := Vector3{X: 2, Y: -4, Z: 6}
	if got != want {
		t.Fatalf("Scale(2, %v) = %v, want %v", v, got, want)
	}
}

func TestDot(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: -5, Z: 6}
	if got := Dot(a, b); got != 12 {
		t.Fatalf("Dot(%v, %v) = %v, want 12", a, b, got)
	}
}

func TestCross(t *testing.T) {
	x := Vector3{X: 1}
	y := Vector3{Y: 1}
	got := Cross(x, y)
	want := Vector3{Z: 1}
	if got != want {
		t.Fatalf("Cross(x, y) = %v, want %v", got, want)
	}
}

func TestLerp(t *testing.T) {
	a := Vector3{X: 0, Y: 0, Z: 0}
	b := Vector3{X: 10, Y: 10, Z: 10}
	got := Lerp(a, b, 0.5)
	want := Vector3{X: 5, Y: 5, Z: 5}
	if !Equal(got, want, 1e-12) {
		t.Fatalf("Lerp(a, b, 0.5) = %v, want %v", got, want)
	}
	if got := Lerp(a, b, 0); got != a {
		t.Fatalf("Lerp(a, b, 0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Fatalf("Lerp(a, b, 1) = %v, want %v", got, b)
	}
}

func TestEqualTolerance(t *testing.T) {
	a := Vector3{X: 1, Y: 1, Z: 1}
	b := Vector3{X: 1.0000000001, Y: 1, Z: 1}
	if !Equal(a, b, 1e-9) {
		t.Fatalf("Equal(%v, %v, 1e-9) = false, want true", a, b)
	}
	if Equal(a, b, 1e-12) {
		t.Fatalf("Equal(%v, %v, 1e-12) = true, want false", a, b)
	}
}
