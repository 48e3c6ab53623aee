package cryptography

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"hash"
	"io"

	"rsa_engine_service/internal/domain/keys"
)

// OAEP uses SHA-256 with an empty label throughout; the mask generation
// function is MGF1 over the same hash.

// oaepPad produces the EME-OAEP encoding 00 || maskedSeed || maskedDB for a
// modulus of k bytes.
func oaepPad(random io.Reader, k int, msg []byte) ([]byte, error) {
	h := sha256.New()
	if len(msg) > k-2*h.Size()-2 {
		return nil, fmt.Errorf("%w: %d bytes exceeds OAEP capacity %d", keys.ErrMessageTooLong, len(msg), k-2*h.Size()-2)
	}

	lHash := sha256.Sum256(nil)

	em := make([]byte, k)
	seed := em[1 : 1+h.Size()]
	db := em[1+h.Size():]

	copy(db[:h.Size()], lHash[:])
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, fmt.Errorf("%w: %v", keys.ErrEntropyUnavailable, err)
	}

	mgf1XOR(db, h, seed)
	mgf1XOR(seed, h, db)
	return em, nil
}

// oaepUnpad strips the EME-OAEP encoding. The lHash comparison and the
// padding-structure scan both run to completion with constant-time
// primitives and fail uniformly, regardless of which check broke.
func oaepUnpad(em []byte) ([]byte, error) {
	h := sha256.New()
	if len(em) < 2*h.Size()+2 {
		return nil, keys.ErrInvalidPadding
	}

	lHash := sha256.Sum256(nil)

	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0x00)

	seed := em[1 : 1+h.Size()]
	db := em[1+h.Size():]

	mgf1XOR(seed, h, db)
	mgf1XOR(db, h, seed)

	lHashGood := subtle.ConstantTimeCompare(lHash[:], db[:h.Size()])

	// The rest of DB must be zero or more 0x00 followed by 0x01 and the
	// message. Locate the 0x01 without branching on byte values.
	var lookingForIndex, index, invalid int
	lookingForIndex = 1
	rest := db[h.Size():]
	for i := 0; i < len(rest); i++ {
		equals0 := subtle.ConstantTimeByteEq(rest[i], 0x00)
		equals1 := subtle.ConstantTimeByteEq(rest[i], 0x01)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals1, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals1, 0, lookingForIndex)
		invalid = subtle.ConstantTimeSelect(lookingForIndex&^equals0, 1, invalid)
	}

	if firstByteIsZero&lHashGood&^invalid&^lookingForIndex != 1 {
		return nil, keys.ErrInvalidPadding
	}
	return rest[index+1:], nil
}

// mgf1XOR XORs the bytes in out with a mask generated by MGF1 over seed.
func mgf1XOR(out []byte, h hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte

	done := 0
	for done < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])

		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		incCounter(&counter)
	}
}

// incCounter increments a four byte, big-endian counter.
func incCounter(c *[4]byte) {
	if c[3]++; c[3] != 0 {
		return
	}
	if c[2]++; c[2] != 0 {
		return
	}
	if c[1]++; c[1] != 0 {
		return
	}
	c[0]++
}
