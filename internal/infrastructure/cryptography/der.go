package cryptography

import (
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/pkg/arithmetic"
)

// PEM block types for PKCS#1 encodings.
const (
	pemTypePrivateKey = "RSA PRIVATE KEY"
	pemTypePublicKey  = "RSA PUBLIC KEY"
)

// DecodePublicKey parses a DER-encoded PKCS#1 RSAPublicKey:
//
//	RSAPublicKey ::= SEQUENCE { modulus INTEGER, publicExponent INTEGER }
//
// A nil or empty input is "no key": it returns (nil, nil) rather than an
// error. Structural violations fail with ErrMalformedKey.
func (r *rsaEngine) DecodePublicKey(der []byte) (*keys.PublicKey, error) {
	if len(der) == 0 {
		return nil, nil
	}

	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, fmt.Errorf("%w: not a DER RSAPublicKey sequence", keys.ErrMalformedKey)
	}

	n, err := readASN1Nat(&seq)
	if err != nil {
		return nil, err
	}
	e, err := readASN1Nat(&seq)
	if err != nil {
		return nil, err
	}
	if !seq.Empty() {
		return nil, fmt.Errorf("%w: trailing data after public exponent", keys.ErrMalformedKey)
	}

	publicKey := &keys.PublicKey{N: n, E: e}
	if err := publicKey.Validate(); err != nil {
		return nil, err
	}
	return publicKey, nil
}

// EncodePublicKey encodes the public key as a DER PKCS#1 RSAPublicKey.
func (r *rsaEngine) EncodePublicKey(publicKey *keys.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: public key cannot be nil", keys.ErrInvalidInput)
	}
	if err := publicKey.Validate(); err != nil {
		return nil, err
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(cbasn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		addASN1Nat(seq, publicKey.N)
		addASN1Nat(seq, publicKey.E)
	})
	return b.Bytes()
}

// marshalPKCS1PrivateKey encodes the private key as a DER PKCS#1
// RSAPrivateKey (version 0, two primes with CRT parameters).
func marshalPKCS1PrivateKey(privateKey *keys.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: private key cannot be nil", keys.ErrInvalidInput)
	}
	if err := privateKey.Validate(); err != nil {
		return nil, err
	}
	if !privateKey.HasCRT() {
		return nil, fmt.Errorf("%w: PKCS#1 encoding requires the CRT parameters", keys.ErrInvalidInput)
	}

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(cbasn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		seq.AddASN1Int64(0) // version: two-prime
		for _, field := range []*arithmetic.Nat{
			privateKey.N, privateKey.E, privateKey.D,
			privateKey.P, privateKey.Q,
			privateKey.Dp, privateKey.Dq, privateKey.Qinv,
		} {
			addASN1Nat(seq, field)
		}
	})
	return b.Bytes()
}

// parsePKCS1PrivateKey decodes a DER PKCS#1 RSAPrivateKey.
func parsePKCS1PrivateKey(der []byte) (*keys.PrivateKey, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, fmt.Errorf("%w: not a DER RSAPrivateKey sequence", keys.ErrMalformedKey)
	}

	var version int64
	if !seq.ReadASN1Integer(&version) {
		return nil, fmt.Errorf("%w: missing version", keys.ErrMalformedKey)
	}
	if version != 0 {
		return nil, fmt.Errorf("%w: unsupported RSAPrivateKey version %d", keys.ErrMalformedKey, version)
	}

	fields := make([]*arithmetic.Nat, 8)
	for i := range fields {
		f, err := readASN1Nat(&seq)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	if !seq.Empty() {
		return nil, fmt.Errorf("%w: trailing data after CRT coefficient", keys.ErrMalformedKey)
	}

	privateKey := &keys.PrivateKey{
		PublicKey: keys.PublicKey{N: fields[0], E: fields[1]},
		D:         fields[2],
		P:         fields[3],
		Q:         fields[4],
		Dp:        fields[5],
		Dq:        fields[6],
		Qinv:      fields[7],
	}
	if err := privateKey.Validate(); err != nil {
		return nil, err
	}
	return privateKey, nil
}

// readASN1Nat reads a DER INTEGER as a non-negative Nat, rejecting negative
// and non-minimal encodings.
func readASN1Nat(s *cryptobyte.String) (*arithmetic.Nat, error) {
	var raw cryptobyte.String
	if !s.ReadASN1(&raw, cbasn1.INTEGER) {
		return nil, fmt.Errorf("%w: missing DER integer", keys.ErrMalformedKey)
	}
	b := []byte(raw)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty DER integer", keys.ErrMalformedKey)
	}
	if b[0]&0x80 != 0 {
		return nil, fmt.Errorf("%w: negative DER integer", keys.ErrMalformedKey)
	}
	if len(b) > 1 && b[0] == 0 && b[1]&0x80 == 0 {
		return nil, fmt.Errorf("%w: non-minimal DER integer", keys.ErrMalformedKey)
	}
	return arithmetic.NatFromBytes(b), nil
}

// addASN1Nat writes a Nat as a DER INTEGER, prepending a zero byte when the
// top bit is set so the value stays non-negative.
func addASN1Nat(b *cryptobyte.Builder, n *arithmetic.Nat) {
	b.AddASN1(cbasn1.INTEGER, func(c *cryptobyte.Builder) {
		bytes := n.Bytes()
		if len(bytes) == 0 {
			c.AddUint8(0)
			return
		}
		if bytes[0]&0x80 != 0 {
			c.AddUint8(0)
		}
		c.AddBytes(bytes)
	})
}

// encodePEM writes a single PEM block to w.
func encodePEM(w io.Writer, blockType string, der []byte) error {
	return pem.Encode(w, &pem.Block{Type: blockType, Bytes: der})
}

// readPEMFile reads a file and decodes a PEM block of the expected type.
func readPEMFile(path, blockType string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", keys.ErrMalformedKey)
	}
	if block.Type != blockType {
		return nil, fmt.Errorf("%w: expected %q PEM block, got %q", keys.ErrMalformedKey, blockType, block.Type)
	}
	return block.Bytes, nil
}
