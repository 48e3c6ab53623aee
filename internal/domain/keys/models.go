package keys

import (
	"fmt"

	"rsa_engine_service/internal/pkg/arithmetic"
)

// PublicKey is the public part of an RSA key pair: modulus n and public
// exponent e. It is immutable once constructed and safe for concurrent use
// by any number of encrypt or verify calls.
type PublicKey struct {
	N *arithmetic.Nat
	E *arithmetic.Nat
}

// Size returns the modulus length in bytes. Ciphertexts and signatures for
// this key are exactly this long.
func (pub *PublicKey) Size() int {
	return (pub.N.BitLen() + 7) / 8
}

// Equal reports whether pub and other hold the same modulus and exponent.
func (pub *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return pub.N.Eq(other.N) && pub.E.Eq(other.E)
}

// Validate checks the public key invariants: n > 1 and 1 < e < n.
func (pub *PublicKey) Validate() error {
	if pub.N == nil || pub.E == nil {
		return fmt.Errorf("%w: missing modulus or exponent", ErrMalformedKey)
	}
	one := arithmetic.NatFromUint64(1)
	if pub.N.Cmp(one) <= 0 {
		return fmt.Errorf("%w: modulus must be greater than 1", ErrMalformedKey)
	}
	if pub.E.Cmp(one) <= 0 || pub.E.Cmp(pub.N) >= 0 {
		return fmt.Errorf("%w: exponent must satisfy 1 < e < n", ErrMalformedKey)
	}
	return nil
}

// PrivateKey is a full RSA key pair. The CRT fields P, Q, Dp, Dq and Qinv
// are optional; when present they accelerate the private-key operation and
// must produce results identical to direct exponentiation with D.
type PrivateKey struct {
	PublicKey
	D *arithmetic.Nat

	// CRT parameters: Dp = d mod (p-1), Dq = d mod (q-1), Qinv = q^-1 mod p.
	P    *arithmetic.Nat
	Q    *arithmetic.Nat
	Dp   *arithmetic.Nat
	Dq   *arithmetic.Nat
	Qinv *arithmetic.Nat
}

// HasCRT reports whether all CRT parameters are present.
func (priv *PrivateKey) HasCRT() bool {
	return priv.P != nil && priv.Q != nil && priv.Dp != nil && priv.Dq != nil && priv.Qinv != nil
}

// Public returns the public part of the key pair.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// Validate checks the private key invariants beyond the public ones:
// d in range, and n = p*q when primes are present.
func (priv *PrivateKey) Validate() error {
	if err := priv.PublicKey.Validate(); err != nil {
		return err
	}
	if priv.D == nil || priv.D.IsZero() || priv.D.Cmp(priv.N) >= 0 {
		return fmt.Errorf("%w: private exponent out of range", ErrInvalidKeyParameters)
	}
	if priv.P != nil && priv.Q != nil {
		if !arithmetic.Mul(priv.P, priv.Q).Eq(priv.N) {
			return fmt.Errorf("%w: modulus does not match prime factors", ErrInvalidKeyParameters)
		}
	}
	return nil
}

// Zeroize wipes all secret material: the private exponent, the primes and
// the CRT parameters. The public part is left intact. The key must not be
// used afterwards.
func (priv *PrivateKey) Zeroize() {
	for _, secret := range []*arithmetic.Nat{priv.D, priv.P, priv.Q, priv.Dp, priv.Dq, priv.Qinv} {
		if secret != nil {
			secret.Wipe()
		}
	}
}
