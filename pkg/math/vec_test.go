package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestMean2(t *testing.T) {
	got := Mean2(Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 1}, Vec2{0, 1})
	want := Vec2{0.5, 0.5}
	if got != want {
		t.Errorf("Mean2() = %v, want %v", got, want)
	}
	if got := Mean2(); got != (Vec2{}) {
		t.Errorf("Mean2() of nothing = %v, want zero", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{0, 0, 2}.Normalize()
	if n != (Vec3{0, 0, 1}) {
		t.Errorf("Vec3.Normalize() = %v, want (0,0,1)", n)
	}

	// Zero vector must not produce NaN
	z := Vec3{}.Normalize()
	if math.IsNaN(z.X) || z != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero", z)
	}
}

func TestVec3AbsSum(t *testing.T) {
	tests := []struct {
		v    Vec3
		want float64
	}{
		{Vec3{0, 0, 1}, 1},
		{Vec3{0, -1, 0}, 1},
		{Vec3{1, -2, 3}, 6},
		{Vec3{}, 0},
	}
	for _, tc := range tests {
		if got := tc.v.AbsSum(); got != tc.want {
			t.Errorf("%v.AbsSum() = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	if got := a.Min(b); got != (Vec3{1, 2, -4}) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, -2}) {
		t.Errorf("Max() = %v", got)
	}
}

func TestMean(t *testing.T) {
	got := Mean(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{1, 1, 0}, Vec3{0, 1, 0})
	want := Vec3{0.5, 0.5, 0}
	if got != want {
		t.Errorf("Mean() = %v, want %v", got, want)
	}
}

func TestVec3Distance(t *testing.T) {
	if d := (Vec3{0, 0, 0}).Distance(Vec3{1, 2, 2}); d != 3 {
		t.Errorf("Distance() = %v, want 3", d)
	}
}

func TestVec3String(t *testing.T) {
	if got := (Vec3{X: 1, Y: -0.5, Z: 2}).String(); got != "(1, -0.5, 2)" {
		t.Errorf("String = %q", got)
	}
}
