// Package barrett reduces 128-bit values modulo a fixed 64-bit modulus
// without dividing on the hot path.
//
// A Context is built once per modulus and then reused for any number of
// reductions. It is an immutable value, safe for concurrent use.
package barrett

import (
	"fmt"

	"barrettgo/internal/core"
)

// Uint128 is an unsigned 128-bit value as a Hi/Lo pair.
type Uint128 = core.U128

// ErrInvalidModulus is returned by NewContext for a zero or one modulus.
var ErrInvalidModulus = core.ErrInvalidModulus

// Context holds a modulus and its reduction constant mu = floor(2^128 / m).
// The zero value is not usable: its methods return meaningless results
// without reporting an error. Build one with NewContext, MustContext or
// UnmarshalBinary.
type Context struct {
	modulus uint64
	mu      Uint128
}

// NewContext precomputes the reduction constant for m. m must be at least 2.
func NewContext(m uint64) (Context, error) {
	mu, err := core.ComputeMu(m)
	if err != nil {
		return Context{}, err
	}
	return Context{modulus: m, mu: mu}, nil
}

// MustContext is like NewContext but panics on an invalid modulus.
func MustContext(m uint64) Context {
	c, err := NewContext(m)
	if err != nil {
		panic(err)
	}
	return c
}

// Modulus returns m.
func (c Context) Modulus() uint64 {
	return c.modulus
}

// Mu returns the reduction constant floor(2^128 / m).
func (c Context) Mu() Uint128 {
	return c.mu
}

// Reduce returns (hi<<64 | lo) mod m. Any 128-bit value is accepted; the
// result is in [0, m) for every c built by NewContext, MustContext or
// UnmarshalBinary.
func (c Context) Reduce(hi, lo uint64) uint64 {
	return core.Reduce(Uint128{Hi: hi, Lo: lo}, c.modulus, c.mu)
}

// ReduceUint128 returns a mod m.
func (c Context) ReduceUint128(a Uint128) uint64 {
	return core.Reduce(a, c.modulus, c.mu)
}

// QuoRem returns floor(a / m) and a mod m.
func (c Context) QuoRem(a Uint128) (Uint128, uint64) {
	return core.QuoRem(a, c.modulus, c.mu)
}

// String provides a string representation.
func (c Context) String() string {
	return fmt.Sprintf("{Modulus: %d, Mu: %v}", c.modulus, c.mu)
}

// Reduce returns (hi<<64 | lo) mod c.Modulus().
func Reduce(hi, lo uint64, c Context) uint64 {
	return c.Reduce(hi, lo)
}
