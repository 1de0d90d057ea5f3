package math4d

import (
	"testing"
)

func BenchmarkRotorMul(b *testing.B) {
	r1 := RotationXY(0.5).Mul(RotationZW(0.25))
	r2 := RotationXW(0.3)

	for b.Loop() {
		_ = r1.Mul(r2)
	}
}

func BenchmarkRotorRotate(b *testing.B) {
	r := RotationXY(0.5).Mul(RotationZW(0.25)).Mul(RotationYW(1))
	v := V4(1, 2, 3, 4)

	for b.Loop() {
		_ = r.Rotate(v)
	}
}

func BenchmarkRotorSandwichGeneric(b *testing.B) {
	r := RotationXY(0.5).Mul(RotationZW(0.25)).Mul(RotationYW(1))
	v := V4(1, 2, 3, 4)

	for b.Loop() {
		_ = sandwich(r, v).vector()
	}
}

func BenchmarkRotorNormalize(b *testing.B) {
	r := RotorFrom([8]float64{1, 0.2, 0.1, 0, 0.3, 0, 0.1, 0.05})

	for b.Loop() {
		_ = r.Normalize()
	}
}

func BenchmarkRotorMatrix(b *testing.B) {
	r := RotationXY(0.5).Mul(RotationZW(0.25))

	for b.Loop() {
		_ = r.Matrix()
	}
}

func BenchmarkVec4Normalize(b *testing.B) {
	v := V4(1, 2, 3, 4)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec4Dot(b *testing.B) {
	v1 := V4(1, 2, 3, 4)
	v2 := V4(4, 5, 6, 7)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}
