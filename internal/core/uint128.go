package core

import (
	"fmt"
	"math/bits"
)

// U128 represents an unsigned 128-bit value as a high/low pair.
type U128 struct {
	Hi uint64
	Lo uint64
}

// U128From64 returns v widened to 128 bits.
func U128From64(v uint64) U128 {
	return U128{Lo: v}
}

// MaxU128 is 2^128 - 1.
var MaxU128 = U128{Hi: ^uint64(0), Lo: ^uint64(0)}

// IsZero reports whether u == 0.
func (u U128) IsZero() bool {
	return u.Hi|u.Lo == 0
}

// Cmp compares u and v and returns -1, 0 or +1.
// Not constant-time; use for tests and validation only.
func (u U128) Cmp(v U128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Add returns u + v mod 2^128 and the carry out.
func (u U128) Add(v U128) (U128, uint64) {
	lo, c := bits.Add64(u.Lo, v.Lo, 0)
	hi, c := bits.Add64(u.Hi, v.Hi, c)
	return U128{Hi: hi, Lo: lo}, c
}

// Sub returns u - v mod 2^128 and the borrow out.
func (u U128) Sub(v U128) (U128, uint64) {
	lo, b := bits.Sub64(u.Lo, v.Lo, 0)
	hi, b := bits.Sub64(u.Hi, v.Hi, b)
	return U128{Hi: hi, Lo: lo}, b
}

// Mul64 returns the low 128 bits of u * v.
func (u U128) Mul64(v uint64) U128 {
	hi, lo := bits.Mul64(u.Lo, v)
	return U128{Hi: hi + u.Hi*v, Lo: lo}
}

// MulHi returns the top 128 bits of the 256-bit product u * v.
//
// With u = (uh, ul) and v = (vh, vl):
//
//	u*v = uh*vh<<128 + (uh*vl + ul*vh)<<64 + ul*vl
//
// The middle column is summed with its carries kept so nothing is truncated
// before the final shift.
func (u U128) MulHi(v U128) U128 {
	llHi, _ := bits.Mul64(u.Lo, v.Lo)
	lhHi, lhLo := bits.Mul64(u.Lo, v.Hi)
	hlHi, hlLo := bits.Mul64(u.Hi, v.Lo)
	hhHi, hhLo := bits.Mul64(u.Hi, v.Hi)

	// bits 64..127: only the carries survive
	mid, c1 := bits.Add64(llHi, lhLo, 0)
	_, c2 := bits.Add64(mid, hlLo, 0)

	// bits 128..255
	lo, c := bits.Add64(lhHi, hlHi, 0)
	hi := hhHi + c
	lo, c = bits.Add64(lo, hhLo, 0)
	hi += c
	lo, c = bits.Add64(lo, c1+c2, 0)
	hi += c
	return U128{Hi: hi, Lo: lo}
}

// selectU128 returns a when mask is all ones and b when mask is zero.
func selectU128(mask uint64, a, b U128) U128 {
	return U128{
		Hi: (a.Hi & mask) | (b.Hi &^ mask),
		Lo: (a.Lo & mask) | (b.Lo &^ mask),
	}
}

// String formats u as a 32-digit hex literal.
func (u U128) String() string {
	return fmt.Sprintf("0x%016x%016x", u.Hi, u.Lo)
}
