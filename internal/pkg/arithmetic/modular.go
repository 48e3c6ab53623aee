package arithmetic

// Mod returns x mod m. It fails with ErrDivisionByZero when m is 0.
func Mod(x, m *Nat) (*Nat, error) {
	_, r, err := DivMod(x, m)
	return r, err
}

// ModAdd returns (x + y) mod m.
func ModAdd(x, y, m *Nat) (*Nat, error) {
	return Mod(Add(x, y), m)
}

// ModSub returns (x - y) mod m, wrapping around m when y > x.
func ModSub(x, y, m *Nat) (*Nat, error) {
	yr, err := Mod(y, m)
	if err != nil {
		return nil, err
	}
	xr, err := Mod(x, m)
	if err != nil {
		return nil, err
	}
	sum, err := Sub(Add(xr, m), yr)
	if err != nil {
		return nil, err
	}
	return Mod(sum, m)
}

// ModMul returns (x * y) mod m.
func ModMul(x, y, m *Nat) (*Nat, error) {
	return Mod(Mul(x, y), m)
}

// ModExp returns base^exp mod m via a square-and-always-multiply ladder.
// Every bit of the exponent is processed and the multiply result is folded
// in with a limb-mask select, so the sequence of big-number operations does
// not depend on the exponent's bit pattern. Private-key exponentiations rely
// on this property.
func ModExp(base, exp, m *Nat) (*Nat, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	one := NatFromUint64(1)
	if m.Eq(one) {
		return NewNat(), nil
	}
	b, err := Mod(base, m)
	if err != nil {
		return nil, err
	}
	width := len(m.limbs)
	result := one
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result, err = ModMul(result, result, m)
		if err != nil {
			return nil, err
		}
		multiplied, err := ModMul(result, b, m)
		if err != nil {
			return nil, err
		}
		result = ctSelect(exp.Bit(uint(i)), multiplied, result, width)
	}
	return result, nil
}

// ctSelect returns a when bit is 1 and b when bit is 0, reading the same
// number of limbs from both operands.
func ctSelect(bit uint, a, b *Nat, width int) *Nat {
	mask := uint32(0) - uint32(bit&1)
	out := make([]uint32, width)
	for i := 0; i < width; i++ {
		var av, bv uint32
		if i < len(a.limbs) {
			av = a.limbs[i]
		}
		if i < len(b.limbs) {
			bv = b.limbs[i]
		}
		out[i] = av&mask | bv&^mask
	}
	return (&Nat{limbs: out}).norm()
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *Nat) *Nat {
	x, y := a.Clone(), b.Clone()
	for !y.IsZero() {
		_, r, _ := DivMod(x, y)
		x, y = y, r
	}
	return x
}

// LCM returns the least common multiple of a and b.
func LCM(a, b *Nat) *Nat {
	if a.IsZero() || b.IsZero() {
		return NewNat()
	}
	q, _, _ := DivMod(a, GCD(a, b))
	return Mul(q, b)
}

// signedNat carries a magnitude and a sign for the extended Euclidean
// cofactor bookkeeping. Only ModInverse needs signed values.
type signedNat struct {
	mag *Nat
	neg bool
}

func signedSub(a, b signedNat) signedNat {
	if a.neg != b.neg {
		return signedNat{mag: Add(a.mag, b.mag), neg: a.neg}
	}
	if a.mag.Cmp(b.mag) >= 0 {
		d, _ := Sub(a.mag, b.mag)
		return signedNat{mag: d, neg: a.neg && !d.IsZero()}
	}
	d, _ := Sub(b.mag, a.mag)
	return signedNat{mag: d, neg: !a.neg}
}

// ModInverse returns x such that a*x ≡ 1 (mod m), using the extended
// Euclidean algorithm. It fails with ErrNoInverse when gcd(a, m) != 1.
func ModInverse(a, m *Nat) (*Nat, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	one := NatFromUint64(1)
	if m.Eq(one) {
		return NewNat(), nil
	}
	r0 := m.Clone()
	r1, err := Mod(a, m)
	if err != nil {
		return nil, err
	}
	t0 := signedNat{mag: NewNat()}
	t1 := signedNat{mag: one}
	for !r1.IsZero() {
		q, r, err := DivMod(r0, r1)
		if err != nil {
			return nil, err
		}
		next := signedSub(t0, signedNat{mag: Mul(q, t1.mag), neg: t1.neg})
		r0, r1 = r1, r
		t0, t1 = t1, next
	}
	if !r0.Eq(one) {
		return nil, ErrNoInverse
	}
	inv, err := Mod(t0.mag, m)
	if err != nil {
		return nil, err
	}
	if t0.neg && !inv.IsZero() {
		return Sub(m, inv)
	}
	return inv, nil
}
