package cryptography

import (
	"context"
	"fmt"
	"io"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/pkg/arithmetic"
)

// minKeyBits is the smallest supported modulus length.
const minKeyBits = 512

// smallPrimes and smallPrimesProduct drive the cheap trial-division filter
// before a candidate reaches the Miller-Rabin rounds.
var smallPrimes = []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

var smallPrimesProduct = arithmetic.NatFromUint64(16294579238595022365)

// GenerateKeys generates an RSA key pair with the requested modulus bit
// length and public exponent. Primes are sampled at half the requested
// length, filtered by trial division and Miller-Rabin, and must satisfy
// gcd(e, p-1) = 1. The search honours ctx cancellation between trials and
// gives up with ErrGenerationFailed once the attempt budget is spent.
func (r *rsaEngine) GenerateKeys(ctx context.Context, bits int, publicExponent uint64) (*keys.PrivateKey, error) {
	if bits < minKeyBits {
		return nil, fmt.Errorf("%w: %d bits is below the %d-bit minimum", keys.ErrKeyTooSmall, bits, minKeyBits)
	}
	if publicExponent <= 2 || publicExponent%2 == 0 {
		return nil, fmt.Errorf("%w: public exponent must be odd and greater than 2", keys.ErrInvalidKeyParameters)
	}

	e := arithmetic.NatFromUint64(publicExponent)
	one := arithmetic.NatFromUint64(1)
	budget := r.settings.MaxPrimeAttempts

	for budget > 0 {
		p, err := r.findPrime(ctx, bits/2, e, &budget)
		if err != nil {
			return nil, err
		}
		q, err := r.findPrime(ctx, bits-bits/2, e, &budget)
		if err != nil {
			return nil, err
		}
		if p.Eq(q) {
			continue
		}

		n := arithmetic.Mul(p, q)
		if n.BitLen() != bits {
			continue
		}

		pMinus1, err := arithmetic.Sub(p, one)
		if err != nil {
			return nil, err
		}
		qMinus1, err := arithmetic.Sub(q, one)
		if err != nil {
			return nil, err
		}
		lambda := arithmetic.LCM(pMinus1, qMinus1)

		d, err := arithmetic.ModInverse(e, lambda)
		if err != nil {
			// gcd(e, λ) != 1 despite the per-prime filter; resample.
			continue
		}

		dp, err := arithmetic.Mod(d, pMinus1)
		if err != nil {
			return nil, err
		}
		dq, err := arithmetic.Mod(d, qMinus1)
		if err != nil {
			return nil, err
		}
		qinv, err := arithmetic.ModInverse(q, p)
		if err != nil {
			continue
		}

		r.logger.Info("Generated RSA key pair")
		return &keys.PrivateKey{
			PublicKey: keys.PublicKey{N: n, E: e},
			D:         d,
			P:         p,
			Q:         q,
			Dp:        dp,
			Dq:        dq,
			Qinv:      qinv,
		}, nil
	}
	return nil, fmt.Errorf("%w: no suitable primes within %d attempts", keys.ErrGenerationFailed, r.settings.MaxPrimeAttempts)
}

// findPrime samples random odd candidates of the given bit length until one
// passes trial division, the gcd(e, p-1) filter and Miller-Rabin, drawing
// each candidate from the shared attempt budget.
func (r *rsaEngine) findPrime(ctx context.Context, bits int, e *arithmetic.Nat, budget *int) (*arithmetic.Nat, error) {
	one := arithmetic.NatFromUint64(1)
	for *budget > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", keys.ErrGenerationFailed, err)
		}
		*budget--

		candidate, err := randomCandidate(r.random, bits)
		if err != nil {
			return nil, err
		}

		prime, err := r.isProbablyPrime(candidate)
		if err != nil {
			return nil, err
		}
		if !prime {
			continue
		}

		pMinus1, err := arithmetic.Sub(candidate, one)
		if err != nil {
			return nil, err
		}
		if !arithmetic.GCD(e, pMinus1).Eq(one) {
			continue
		}
		return candidate, nil
	}
	return nil, fmt.Errorf("%w: prime search budget exhausted", keys.ErrGenerationFailed)
}

// isProbablyPrime runs trial division by the small primes followed by the
// configured number of Miller-Rabin rounds with random bases.
func (r *rsaEngine) isProbablyPrime(n *arithmetic.Nat) (bool, error) {
	if !n.IsOdd() || n.BitLen() < 2 {
		return false, nil
	}

	rem, err := arithmetic.Mod(n, smallPrimesProduct)
	if err != nil {
		return false, err
	}
	m := rem.Uint64()
	for _, p := range smallPrimes {
		if m%p == 0 {
			return n.BitLen() <= 6 && n.Uint64() == p, nil
		}
	}

	one := arithmetic.NatFromUint64(1)
	nMinus1, err := arithmetic.Sub(n, one)
	if err != nil {
		return false, err
	}

	// n-1 = 2^s * d with d odd.
	s := nMinus1.TrailingZeroBits()
	d := arithmetic.ShiftRight(nMinus1, s)

	for round := 0; round < r.settings.MillerRabinRounds; round++ {
		a, err := randomBase(r.random, n)
		if err != nil {
			return false, err
		}

		x, err := arithmetic.ModExp(a, d, n)
		if err != nil {
			return false, err
		}
		if x.Eq(one) || x.Eq(nMinus1) {
			continue
		}

		witness := true
		for j := uint(1); j < s; j++ {
			x, err = arithmetic.ModMul(x, x, n)
			if err != nil {
				return false, err
			}
			if x.Eq(nMinus1) {
				witness = false
				break
			}
			if x.Eq(one) {
				return false, nil
			}
		}
		if witness {
			return false, nil
		}
	}
	return true, nil
}

// randomCandidate returns a random odd integer of exactly the given bit
// length with the top two bits set, so the product of two candidates keeps
// the full modulus length.
func randomCandidate(random io.Reader, bits int) (*arithmetic.Nat, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(random, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", keys.ErrEntropyUnavailable, err)
	}

	excess := len(buf)*8 - bits
	buf[0] &= 0xff >> excess
	buf[0] |= 0xc0 >> excess
	if excess == 7 {
		// Second-highest bit lands in the next byte.
		buf[1] |= 0x80
	}
	buf[len(buf)-1] |= 0x01
	return arithmetic.NatFromBytes(buf), nil
}

// randomBase returns a uniform Miller-Rabin base in [2, n-2]. randomBelow is
// inclusive of its bound, so the bound is n-4.
func randomBase(random io.Reader, n *arithmetic.Nat) (*arithmetic.Nat, error) {
	bound, err := arithmetic.Sub(n, arithmetic.NatFromUint64(4))
	if err != nil {
		return nil, err
	}
	below, err := randomBelow(random, bound)
	if err != nil {
		return nil, err
	}
	return arithmetic.Add(below, arithmetic.NatFromUint64(2)), nil
}

// randomBelow returns a uniform random value in [0, bound] by rejection
// sampling.
func randomBelow(random io.Reader, bound *arithmetic.Nat) (*arithmetic.Nat, error) {
	bits := bound.BitLen()
	if bits == 0 {
		return arithmetic.NewNat(), nil
	}
	buf := make([]byte, (bits+7)/8)
	mask := byte(0xff >> (len(buf)*8 - bits))
	for {
		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", keys.ErrEntropyUnavailable, err)
		}
		buf[0] &= mask
		v := arithmetic.NatFromBytes(buf)
		if v.Cmp(bound) <= 0 {
			return v, nil
		}
	}
}
