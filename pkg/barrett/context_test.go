package barrett_test

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrettgo/internal/serial"
	"barrettgo/pkg/barrett"
)

func bigMod(hi, lo, m uint64) uint64 {
	a := new(big.Int).SetUint64(hi)
	a.Lsh(a, 64)
	a.Or(a, new(big.Int).SetUint64(lo))
	return a.Mod(a, new(big.Int).SetUint64(m)).Uint64()
}

func TestNewContextInvalid(t *testing.T) {
	for _, m := range []uint64{0, 1} {
		_, err := barrett.NewContext(m)
		require.Error(t, err)
		assert.True(t, errors.Is(err, barrett.ErrInvalidModulus))
	}
	assert.Panics(t, func() { barrett.MustContext(0) })
}

func TestContextDeterministic(t *testing.T) {
	a := barrett.MustContext(1000000007)
	b := barrett.MustContext(1000000007)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Mu(), b.Mu())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), barrett.MustContext(1000000009).Fingerprint())
	assert.Equal(t, uint64(1000000007), a.Modulus())
}

func TestReduceScenarios(t *testing.T) {
	c := barrett.MustContext(10007)
	assert.Equal(t, uint64(6014), barrett.Reduce(0, 20000000, c))

	c = barrett.MustContext(0xFFFFFFFFFFFFFF)
	got := c.Reduce(0x123456789ABCDEF0, 0xFEDCBA9876543210)
	assert.Equal(t, bigMod(0x123456789ABCDEF0, 0xFEDCBA9876543210, 0xFFFFFFFFFFFFFF), got)
}

func TestReduceBoundaries(t *testing.T) {
	for _, m := range []uint64{2, 10007, 1 << 40, 18446744073709551557, ^uint64(0)} {
		c := barrett.MustContext(m)
		assert.Equal(t, uint64(0), c.Reduce(0, 0))
		assert.Equal(t, m-1, c.Reduce(0, m-1))
		r := c.Reduce(^uint64(0), ^uint64(0))
		assert.Less(t, r, m)
		assert.Equal(t, bigMod(^uint64(0), ^uint64(0), m), r)
	}
}

func TestReduceRandomProducts(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 500; i++ {
		m := rng.Uint64() >> uint(rng.Intn(63))
		if m < 2 {
			m = 2
		}
		c := barrett.MustContext(m)
		for j := 0; j < 20; j++ {
			hi, lo := bits.Mul64(rng.Uint64()%m, rng.Uint64()%m)
			require.Equal(t, bigMod(hi, lo, m), c.Reduce(hi, lo), "m=%d", m)
		}
	}
}

func TestQuoRem(t *testing.T) {
	c := barrett.MustContext(10007)
	q, r := c.QuoRem(barrett.Uint128{Lo: 20000000})
	assert.Equal(t, barrett.Uint128{Lo: 1998}, q)
	assert.Equal(t, uint64(6014), r)
}

func TestContextMarshalRoundTrip(t *testing.T) {
	c := barrett.MustContext(18446744073709551557)
	data, err := serial.TryMarshal(c)
	require.NoError(t, err)
	require.Len(t, data, 36)

	var back barrett.Context
	require.NoError(t, serial.TryUnmarshal(&back, data))
	assert.Equal(t, c, back)
	assert.Equal(t, c.Reduce(7, 11), back.Reduce(7, 11))
}

func TestContextUnmarshalRejects(t *testing.T) {
	good, err := barrett.MustContext(10007).MarshalBinary()
	require.NoError(t, err)

	corrupt := func(f func([]byte)) []byte {
		b := append([]byte(nil), good...)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"Short", good[:20]},
		{"Trailing", append(append([]byte(nil), good...), 0)},
		{"Magic", corrupt(func(b []byte) { b[0] = 'X' })},
		{"Checksum", corrupt(func(b []byte) { b[35] ^= 1 })},
		{"Body", corrupt(func(b []byte) { b[20] ^= 1 })},
		{"ForeignMu", foreignMu(10007, 10009)},
		{"ZeroModulus", foreignMu(0, 10009)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c barrett.Context
			assert.Error(t, c.UnmarshalBinary(tt.data))
			assert.Equal(t, barrett.Context{}, c)
		})
	}

	_, err = barrett.Context{}.MarshalBinary()
	assert.True(t, errors.Is(err, barrett.ErrInvalidModulus))
}

func TestZeroContextIsUnbuilt(t *testing.T) {
	var zero barrett.Context
	assert.Equal(t, uint64(0), zero.Modulus())
	assert.True(t, zero.Mu().IsZero())

	_, err := zero.MarshalBinary()
	assert.True(t, errors.Is(err, barrett.ErrInvalidModulus))

	// A built context reduces into range; the zero value gives no such promise.
	c := barrett.MustContext(10007)
	assert.Less(t, c.Reduce(0, 12345), c.Modulus())
	assert.NotEqual(t, barrett.Context{}, c)
}

func TestContextString(t *testing.T) {
	c := barrett.MustContext(3)
	assert.Equal(t, "{Modulus: 3, Mu: 0x55555555555555555555555555555555}", c.String())
}

// foreignMu encodes modulus m with the mu of another modulus and a valid
// checksum, so only the mu check can reject it.
func foreignMu(m, other uint64) []byte {
	mu := barrett.MustContext(other).Mu()
	buf := []byte("BRT1")
	buf = binary.LittleEndian.AppendUint64(buf, m)
	buf = binary.LittleEndian.AppendUint64(buf, mu.Hi)
	buf = binary.LittleEndian.AppendUint64(buf, mu.Lo)
	return binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf))
}
