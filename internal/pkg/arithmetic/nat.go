package arithmetic

import (
	"errors"
	"math/bits"
)

// Arithmetic failure modes. Callers are expected to treat these as typed
// results and wrap them with context.
var (
	ErrUnderflow      = errors.New("arithmetic: subtraction result would be negative")
	ErrDivisionByZero = errors.New("arithmetic: division by zero")
	ErrNoInverse      = errors.New("arithmetic: no modular inverse exists")
)

const (
	limbBits = 32
	limbMask = 1<<limbBits - 1
)

// Nat is a non-negative integer of arbitrary size, stored as little-endian
// base-2^32 limbs with no high zero limbs. The zero value represents 0.
// A Nat is never mutated after construction except by Wipe.
type Nat struct {
	limbs []uint32
}

// NewNat returns a Nat representing 0.
func NewNat() *Nat {
	return &Nat{}
}

// NatFromUint64 returns a Nat representing v.
func NatFromUint64(v uint64) *Nat {
	if v == 0 {
		return &Nat{}
	}
	if v <= limbMask {
		return &Nat{limbs: []uint32{uint32(v)}}
	}
	return &Nat{limbs: []uint32{uint32(v), uint32(v >> limbBits)}}
}

// NatFromBytes returns a Nat decoded from big-endian bytes.
func NatFromBytes(b []byte) *Nat {
	limbs := make([]uint32, (len(b)+3)/4)
	for i := range limbs {
		end := len(b) - i*4
		start := end - 4
		if start < 0 {
			start = 0
		}
		var limb uint32
		for _, c := range b[start:end] {
			limb = limb<<8 | uint32(c)
		}
		limbs[i] = limb
	}
	return (&Nat{limbs: limbs}).norm()
}

func (x *Nat) norm() *Nat {
	n := len(x.limbs)
	for n > 0 && x.limbs[n-1] == 0 {
		n--
	}
	x.limbs = x.limbs[:n]
	return x
}

// Clone returns an independent copy of x.
func (x *Nat) Clone() *Nat {
	if len(x.limbs) == 0 {
		return &Nat{}
	}
	limbs := make([]uint32, len(x.limbs))
	copy(limbs, x.limbs)
	return &Nat{limbs: limbs}
}

// IsZero reports whether x == 0.
func (x *Nat) IsZero() bool {
	return len(x.limbs) == 0
}

// IsOdd reports whether the lowest bit of x is set.
func (x *Nat) IsOdd() bool {
	return len(x.limbs) > 0 && x.limbs[0]&1 == 1
}

// Uint64 returns the low 64 bits of x.
func (x *Nat) Uint64() uint64 {
	var v uint64
	if len(x.limbs) > 1 {
		v = uint64(x.limbs[1]) << limbBits
	}
	if len(x.limbs) > 0 {
		v |= uint64(x.limbs[0])
	}
	return v
}

// BitLen returns the length of x in bits. The bit length of 0 is 0.
func (x *Nat) BitLen() int {
	if len(x.limbs) == 0 {
		return 0
	}
	return (len(x.limbs)-1)*limbBits + bits.Len32(x.limbs[len(x.limbs)-1])
}

// Bit returns the value of the i-th bit of x.
func (x *Nat) Bit(i uint) uint {
	limb := i / limbBits
	if limb >= uint(len(x.limbs)) {
		return 0
	}
	return uint(x.limbs[limb]>>(i%limbBits)) & 1
}

// TrailingZeroBits returns the number of consecutive zero bits at the low
// end of x. TrailingZeroBits(0) is 0.
func (x *Nat) TrailingZeroBits() uint {
	for i, limb := range x.limbs {
		if limb != 0 {
			return uint(i)*limbBits + uint(bits.TrailingZeros32(limb))
		}
	}
	return 0
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Nat) Cmp(y *Nat) int {
	if len(x.limbs) != len(y.limbs) {
		if len(x.limbs) < len(y.limbs) {
			return -1
		}
		return 1
	}
	for i := len(x.limbs) - 1; i >= 0; i-- {
		if x.limbs[i] != y.limbs[i] {
			if x.limbs[i] < y.limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Eq reports whether x == y.
func (x *Nat) Eq(y *Nat) bool {
	return x.Cmp(y) == 0
}

// Bytes returns the minimal big-endian encoding of x. The encoding of 0 is
// an empty slice.
func (x *Nat) Bytes() []byte {
	if len(x.limbs) == 0 {
		return []byte{}
	}
	out := make([]byte, (x.BitLen()+7)/8)
	x.fill(out)
	return out
}

// FillBytes writes x as zero-padded big-endian bytes into buf and returns
// buf. It panics if x does not fit, mirroring the usual bignum convention;
// callers size buffers to the modulus before invoking it.
func (x *Nat) FillBytes(buf []byte) []byte {
	if (x.BitLen()+7)/8 > len(buf) {
		panic("arithmetic: Nat does not fit in buffer")
	}
	for i := range buf {
		buf[i] = 0
	}
	x.fill(buf)
	return buf
}

func (x *Nat) fill(buf []byte) {
	for i, limb := range x.limbs {
		for j := 0; j < 4; j++ {
			pos := len(buf) - 1 - i*4 - j
			if pos < 0 {
				break
			}
			buf[pos] = byte(limb >> (8 * j))
		}
	}
}

// Wipe zeroizes the limbs of x and resets it to 0. Used when destroying
// private key material.
func (x *Nat) Wipe() {
	for i := range x.limbs {
		x.limbs[i] = 0
	}
	x.limbs = nil
}

// Add returns x + y.
func Add(x, y *Nat) *Nat {
	if len(x.limbs) < len(y.limbs) {
		x, y = y, x
	}
	out := make([]uint32, len(x.limbs)+1)
	var carry uint64
	for i, xi := range x.limbs {
		sum := uint64(xi) + carry
		if i < len(y.limbs) {
			sum += uint64(y.limbs[i])
		}
		out[i] = uint32(sum)
		carry = sum >> limbBits
	}
	out[len(x.limbs)] = uint32(carry)
	return (&Nat{limbs: out}).norm()
}

// Sub returns x - y, or ErrUnderflow when y > x.
func Sub(x, y *Nat) (*Nat, error) {
	if x.Cmp(y) < 0 {
		return nil, ErrUnderflow
	}
	out := make([]uint32, len(x.limbs))
	var borrow uint64
	for i, xi := range x.limbs {
		d := uint64(xi) - borrow
		if i < len(y.limbs) {
			d -= uint64(y.limbs[i])
		}
		out[i] = uint32(d)
		borrow = d >> 63
	}
	return (&Nat{limbs: out}).norm(), nil
}

// Mul returns x * y using schoolbook multiplication.
func Mul(x, y *Nat) *Nat {
	if x.IsZero() || y.IsZero() {
		return &Nat{}
	}
	out := make([]uint32, len(x.limbs)+len(y.limbs))
	for i, xi := range x.limbs {
		var carry uint64
		for j, yj := range y.limbs {
			cur := uint64(out[i+j]) + uint64(xi)*uint64(yj) + carry
			out[i+j] = uint32(cur)
			carry = cur >> limbBits
		}
		out[i+len(y.limbs)] = uint32(carry)
	}
	return (&Nat{limbs: out}).norm()
}

// ShiftLeft returns x << k.
func ShiftLeft(x *Nat, k uint) *Nat {
	if x.IsZero() {
		return &Nat{}
	}
	limbShift := int(k / limbBits)
	bitShift := k % limbBits
	out := make([]uint32, len(x.limbs)+limbShift+1)
	for i, limb := range x.limbs {
		out[i+limbShift] |= limb << bitShift
		if bitShift > 0 {
			out[i+limbShift+1] |= uint32(uint64(limb) >> (limbBits - bitShift))
		}
	}
	return (&Nat{limbs: out}).norm()
}

// ShiftRight returns x >> k.
func ShiftRight(x *Nat, k uint) *Nat {
	limbShift := int(k / limbBits)
	bitShift := k % limbBits
	if limbShift >= len(x.limbs) {
		return &Nat{}
	}
	src := x.limbs[limbShift:]
	out := make([]uint32, len(src))
	for i := range src {
		out[i] = src[i] >> bitShift
		if bitShift > 0 && i+1 < len(src) {
			out[i] |= uint32(uint64(src[i+1]) << (limbBits - bitShift))
		}
	}
	return (&Nat{limbs: out}).norm()
}

// DivMod returns the quotient and remainder of x / y. Division by zero
// fails with ErrDivisionByZero.
func DivMod(x, y *Nat) (*Nat, *Nat, error) {
	if y.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	if x.Cmp(y) < 0 {
		return &Nat{}, x.Clone(), nil
	}
	if len(y.limbs) == 1 {
		q, r := divModLimb(x.limbs, uint64(y.limbs[0]))
		return (&Nat{limbs: q}).norm(), NatFromUint64(r), nil
	}
	q, r := divModKnuth(x.limbs, y.limbs)
	return (&Nat{limbs: q}).norm(), (&Nat{limbs: r}).norm(), nil
}

func divModLimb(u []uint32, d uint64) ([]uint32, uint64) {
	q := make([]uint32, len(u))
	var r uint64
	for i := len(u) - 1; i >= 0; i-- {
		cur := r<<limbBits | uint64(u[i])
		q[i] = uint32(cur / d)
		r = cur % d
	}
	return q, r
}

// divModKnuth implements Knuth's Algorithm D for len(v) >= 2 and u >= v.
func divModKnuth(u, v []uint32) ([]uint32, []uint32) {
	n := len(v)
	m := len(u) - n
	s := uint(bits.LeadingZeros32(v[n-1]))

	// Normalize so the divisor's top bit is set.
	vn := make([]uint32, n)
	for i := n - 1; i > 0; i-- {
		vn[i] = v[i] << s
		if s > 0 {
			vn[i] |= uint32(uint64(v[i-1]) >> (limbBits - s))
		}
	}
	vn[0] = v[0] << s

	un := make([]uint32, len(u)+1)
	if s > 0 {
		un[len(u)] = uint32(uint64(u[len(u)-1]) >> (limbBits - s))
	}
	for i := len(u) - 1; i > 0; i-- {
		un[i] = u[i] << s
		if s > 0 {
			un[i] |= uint32(uint64(u[i-1]) >> (limbBits - s))
		}
	}
	un[0] = u[0] << s

	const b = uint64(1) << limbBits
	q := make([]uint32, m+1)
	for j := m; j >= 0; j-- {
		num := uint64(un[j+n])<<limbBits | uint64(un[j+n-1])
		qhat := num / uint64(vn[n-1])
		rhat := num % uint64(vn[n-1])
		for qhat >= b || qhat*uint64(vn[n-2]) > rhat<<limbBits+uint64(un[j+n-2]) {
			qhat--
			rhat += uint64(vn[n-1])
			if rhat >= b {
				break
			}
		}

		// Multiply and subtract qhat*vn from un[j:j+n+1].
		var carry, borrow uint64
		for i := 0; i < n; i++ {
			p := qhat*uint64(vn[i]) + carry
			carry = p >> limbBits
			d := uint64(un[i+j]) - (p & limbMask) - borrow
			un[i+j] = uint32(d)
			borrow = d >> 63
		}
		top := uint64(un[j+n]) - carry - borrow
		un[j+n] = uint32(top)

		if top>>63 != 0 {
			// qhat was one too large; add the divisor back.
			qhat--
			var c uint64
			for i := 0; i < n; i++ {
				sum := uint64(un[i+j]) + uint64(vn[i]) + c
				un[i+j] = uint32(sum)
				c = sum >> limbBits
			}
			un[j+n] = uint32(uint64(un[j+n]) + c)
		}
		q[j] = uint32(qhat)
	}

	// Denormalize the remainder.
	r := make([]uint32, n)
	for i := 0; i < n; i++ {
		r[i] = un[i] >> s
		if s > 0 && i+1 < len(un) {
			r[i] |= uint32(uint64(un[i+1]) << (limbBits - s))
		}
	}
	return q, r
}
