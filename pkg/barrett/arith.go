package barrett

import "math/bits"

// MulMod returns x*y mod m. x and y need not be reduced.
func (c Context) MulMod(x, y uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	return c.Reduce(hi, lo)
}

// MulAddMod returns (x*y + z) mod m. The sum cannot exceed 2^128 - 1 for any
// 64-bit inputs, so a single reduction suffices.
func (c Context) MulAddMod(x, y, z uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	lo, carry := bits.Add64(lo, z, 0)
	return c.Reduce(hi+carry, lo)
}

// AddMod returns (x + y) mod m. The wrap is selected by mask, not by branch.
func (c Context) AddMod(x, y uint64) uint64 {
	x, y = c.Reduce(0, x), c.Reduce(0, y)
	s, carry := bits.Add64(x, y, 0)
	t, borrow := bits.Sub64(s, c.modulus, 0)
	// s + carry<<64 >= m exactly when there was a carry or no borrow
	mask := -(carry | (borrow ^ 1))
	return (t & mask) | (s &^ mask)
}

// SubMod returns (x - y) mod m without branching.
func (c Context) SubMod(x, y uint64) uint64 {
	x, y = c.Reduce(0, x), c.Reduce(0, y)
	d, borrow := bits.Sub64(x, y, 0)
	return d + (c.modulus & -borrow)
}

// Exp returns base^exp mod m.
//
// All 64 exponent bits are processed with a square and a multiply each, and
// the multiply is kept or discarded by mask, so the sequence of operations
// does not depend on exp.
func (c Context) Exp(base, exp uint64) uint64 {
	b := c.Reduce(0, base)
	r := c.Reduce(0, 1)
	for i := 63; i >= 0; i-- {
		r = c.MulMod(r, r)
		t := c.MulMod(r, b)
		mask := -((exp >> uint(i)) & 1)
		r = (t & mask) | (r &^ mask)
	}
	return r
}

// EvalPoly evaluates the polynomial with the given coefficients at x, mod m.
// coeffs[i] is the coefficient of x^i. An empty slice evaluates to 0.
func (c Context) EvalPoly(coeffs []uint64, x uint64) uint64 {
	x = c.Reduce(0, x)
	var acc uint64
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = c.MulAddMod(acc, x, coeffs[i])
	}
	return acc
}
