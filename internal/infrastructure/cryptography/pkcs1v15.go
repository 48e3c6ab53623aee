package cryptography

import (
	"crypto/subtle"
	"fmt"
	"io"

	"rsa_engine_service/internal/domain/keys"
)

// pkcs1v15Pad produces the EME-PKCS1-v1_5 encoding 00 02 || PS || 00 || M
// for a modulus of k bytes. PS is at least eight non-zero random bytes.
func pkcs1v15Pad(random io.Reader, k int, msg []byte) ([]byte, error) {
	if len(msg) > k-11 {
		return nil, fmt.Errorf("%w: %d bytes exceeds PKCS#1 v1.5 capacity %d", keys.ErrMessageTooLong, len(msg), k-11)
	}
	em := make([]byte, k)
	em[1] = 0x02
	ps := em[2 : k-len(msg)-1]
	if err := fillNonZeroBytes(random, ps); err != nil {
		return nil, fmt.Errorf("%w: %v", keys.ErrEntropyUnavailable, err)
	}
	em[k-len(msg)-1] = 0x00
	copy(em[k-len(msg):], msg)
	return em, nil
}

// pkcs1v15Unpad strips the EME-PKCS1-v1_5 encoding. The structure checks
// run over the whole buffer with constant-time primitives and collapse
// into one uniform failure, so the error reveals nothing about where the
// encoding broke.
func pkcs1v15Unpad(em []byte) ([]byte, error) {
	if len(em) < 11 {
		return nil, keys.ErrInvalidPadding
	}

	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0x00)
	secondByteIsTwo := subtle.ConstantTimeByteEq(em[1], 0x02)

	// Scan for the zero separator without branching on its position.
	var index, lookingForIndex int
	lookingForIndex = 1
	for i := 2; i < len(em); i++ {
		equals0 := subtle.ConstantTimeByteEq(em[i], 0x00)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals0, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals0, 0, lookingForIndex)
	}

	// The padding string must span at least eight bytes.
	validPS := subtle.ConstantTimeLessOrEq(2+8, index)
	valid := firstByteIsZero & secondByteIsTwo & (^lookingForIndex & 1) & validPS
	if valid != 1 {
		return nil, keys.ErrInvalidPadding
	}
	return em[index+1:], nil
}

// DER DigestInfo prefixes per digest algorithm: the ASN.1 header that
// precedes the raw hash inside an EMSA-PKCS1-v1_5 encoding.
var digestInfoPrefixes = map[keys.DigestAlgorithm][]byte{
	keys.DigestSHA1:   {0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14},
	keys.DigestSHA224: {0x30, 0x2d, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x04, 0x05, 0x00, 0x04, 0x1c},
	keys.DigestSHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	keys.DigestSHA384: {0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	keys.DigestSHA512: {0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
}

// pkcs1v15SignEncode produces the EMSA-PKCS1-v1_5 encoding
// 00 01 || FF.. || 00 || DigestInfo || H at the full modulus width.
func pkcs1v15SignEncode(k int, algorithm keys.DigestAlgorithm, digest []byte) ([]byte, error) {
	prefix, ok := digestInfoPrefixes[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported digest algorithm %q", keys.ErrInvalidInput, algorithm)
	}
	t := len(prefix) + len(digest)
	if k < t+11 {
		return nil, fmt.Errorf("%w: key size %d too small for %s signature", keys.ErrMessageTooLong, k, algorithm)
	}
	em := make([]byte, k)
	em[1] = 0x01
	for i := 2; i < k-t-1; i++ {
		em[i] = 0xff
	}
	em[k-t-1] = 0x00
	copy(em[k-t:], prefix)
	copy(em[k-len(digest):], digest)
	return em, nil
}

// fillNonZeroBytes fills s with random non-zero bytes.
func fillNonZeroBytes(random io.Reader, s []byte) error {
	if _, err := io.ReadFull(random, s); err != nil {
		return err
	}
	for i := range s {
		for s[i] == 0 {
			if _, err := io.ReadFull(random, s[i:i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}
