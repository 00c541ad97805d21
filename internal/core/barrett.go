// Package core provides the fixed-width arithmetic behind Barrett reduction.
package core

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrInvalidModulus is returned when a modulus cannot carry a reduction
// constant: zero, or one (whose 2^128 quotient does not fit in 128 bits).
var ErrInvalidModulus = errors.New("invalid modulus")

// ComputeMu computes the 128-bit Barrett constant mu = floor(2^128 / m).
//
// 2^128 itself has no 128-bit representation, so we divide N = 2^128 - 1
// instead using schoolbook division with bits.Div64:
//
//	qh = floor(N_h / m), rh = N_h mod m
//	ql, r = Div64(rh, N_l, m)
//
// giving N = q*m + r with q = (qh<<64)|ql. Then 2^128 = q*m + (r+1), so the
// quotient moves up by exactly one when r+1 == m. This holds for every
// m >= 2, powers of two included.
func ComputeMu(m uint64) (U128, error) {
	if m < 2 {
		return U128{}, errors.Wrapf(ErrInvalidModulus, "modulus %d", m)
	}
	qh := ^uint64(0) / m
	rh := ^uint64(0) - qh*m
	ql, r := bits.Div64(rh, ^uint64(0), m)

	mu := U128{Hi: qh, Lo: ql}
	if r == m-1 {
		mu, _ = mu.Add(U128From64(1))
	}
	return mu, nil
}

// Reduce returns a mod m given mu = ComputeMu(m).
//
// The quotient estimate q = floor(a*mu / 2^128) is at most one below
// floor(a/m): a/m - q < a/2^128 + 1 < 2. So a - q*m lies in [0, 2m) and two
// masked subtractions of m always land in [0, m). Every call executes the
// same instruction sequence regardless of a.
func Reduce(a U128, m uint64, mu U128) uint64 {
	q := a.MulHi(mu)
	r, _ := a.Sub(q.Mul64(m))
	r = correct(r, m)
	r = correct(r, m)
	return r.Lo
}

// QuoRem returns floor(a/m) and a mod m given mu = ComputeMu(m).
func QuoRem(a U128, m uint64, mu U128) (U128, uint64) {
	q := a.MulHi(mu)
	r, _ := a.Sub(q.Mul64(m))
	r, q = correctQuo(r, q, m)
	r, q = correctQuo(r, q, m)
	return q, r.Lo
}

// correct subtracts m from r when r >= m without branching.
func correct(r U128, m uint64) U128 {
	t, borrow := r.Sub(U128From64(m))
	// borrow is 1 when r < m; the mask keeps t only when it is 0.
	mask := borrow - 1
	return selectU128(mask, t, r)
}

// correctQuo is correct that also bumps the quotient.
func correctQuo(r, q U128, m uint64) (U128, U128) {
	t, borrow := r.Sub(U128From64(m))
	mask := borrow - 1
	q, _ = q.Add(U128From64(mask & 1))
	return selectU128(mask, t, r), q
}
