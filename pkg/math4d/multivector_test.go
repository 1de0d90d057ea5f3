package math4d

import "math/bits"

// multivector is a general element of Cl(4,0), indexed by blade bitmask:
// bit 0 is e1, bit 1 is e2, bit 2 is e3, bit 3 is e4.
// It is the slow reference the hand-expanded rotor formulas are checked
// against.
type multivector [16]float64

const (
	bladeE1    = 0b0001
	bladeE2    = 0b0010
	bladeE3    = 0b0100
	bladeE4    = 0b1000
	bladeE12   = 0b0011
	bladeE13   = 0b0101
	bladeE14   = 0b1001
	bladeE23   = 0b0110
	bladeE24   = 0b1010
	bladeE34   = 0b1100
	bladeE1234 = 0b1111
)

// reorderSign is the sign picked up when sorting the basis vectors of the
// blade product a*b into ascending order. Every basis vector squares to +1.
func reorderSign(a, b uint) float64 {
	a >>= 1
	swaps := 0
	for a != 0 {
		swaps += bits.OnesCount(a & b)
		a >>= 1
	}
	if swaps&1 == 0 {
		return 1
	}
	return -1
}

func (m multivector) mul(o multivector) multivector {
	var out multivector
	for i, x := range m {
		if x == 0 {
			continue
		}
		for j, y := range o {
			if y == 0 {
				continue
			}
			out[i^j] += reorderSign(uint(i), uint(j)) * x * y
		}
	}
	return out
}

func fromRotor(r Rotor) multivector {
	var m multivector
	m[0] = r.S
	m[bladeE12] = r.E12
	m[bladeE13] = r.E13
	m[bladeE14] = r.E14
	m[bladeE23] = r.E23
	m[bladeE24] = r.E24
	m[bladeE34] = r.E34
	m[bladeE1234] = r.E1234
	return m
}

func fromVec(v Vec4) multivector {
	var m multivector
	m[bladeE1] = v.X
	m[bladeE2] = v.Y
	m[bladeE3] = v.Z
	m[bladeE4] = v.W
	return m
}

func (m multivector) rotor() Rotor {
	return Rotor{
		S:     m[0],
		E12:   m[bladeE12],
		E13:   m[bladeE13],
		E14:   m[bladeE14],
		E23:   m[bladeE23],
		E24:   m[bladeE24],
		E34:   m[bladeE34],
		E1234: m[bladeE1234],
	}
}

func (m multivector) vector() Vec4 {
	return Vec4{m[bladeE1], m[bladeE2], m[bladeE3], m[bladeE4]}
}

// trivectorNorm returns the summed magnitude of the grade-3 part.
func (m multivector) trivectorNorm() float64 {
	sum := 0.0
	for i, x := range m {
		if bits.OnesCount(uint(i)) == 3 {
			if x < 0 {
				x = -x
			}
			sum += x
		}
	}
	return sum
}

// sandwich computes r v r̃ with the generic product.
func sandwich(r Rotor, v Vec4) multivector {
	return fromRotor(r).mul(fromVec(v)).mul(fromRotor(r.Reverse()))
}
