//go:build unit
// +build unit

package cryptography

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsa_engine_service/internal/domain/keys"
)

func TestOAEPPadUnpad(t *testing.T) {
	const k = 128
	hLen := sha256.Size

	t.Run("RoundTrip", func(t *testing.T) {
		msg := []byte("oaep round trip")
		em, err := oaepPad(rand.Reader, k, msg)
		require.NoError(t, err)
		require.Len(t, em, k)
		assert.Equal(t, byte(0x00), em[0])

		got, err := oaepUnpad(em)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	})

	t.Run("MaxLength", func(t *testing.T) {
		msg := bytes.Repeat([]byte{0x42}, k-2*hLen-2)
		em, err := oaepPad(rand.Reader, k, msg)
		require.NoError(t, err)
		got, err := oaepUnpad(em)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := oaepPad(rand.Reader, k, bytes.Repeat([]byte{0x42}, k-2*hLen-1))
		assert.ErrorIs(t, err, keys.ErrMessageTooLong)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		em, err := oaepPad(rand.Reader, k, nil)
		require.NoError(t, err)
		got, err := oaepUnpad(em)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("RandomizedSeed", func(t *testing.T) {
		msg := []byte("same message")
		first, err := oaepPad(rand.Reader, k, msg)
		require.NoError(t, err)
		second, err := oaepPad(rand.Reader, k, msg)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("TamperedEncoding", func(t *testing.T) {
		em, err := oaepPad(rand.Reader, k, []byte("tamper target"))
		require.NoError(t, err)
		em[k/2] ^= 0x01
		_, err = oaepUnpad(em)
		assert.ErrorIs(t, err, keys.ErrInvalidPadding)
	})

	t.Run("WrongFirstByte", func(t *testing.T) {
		em, err := oaepPad(rand.Reader, k, []byte("x"))
		require.NoError(t, err)
		em[0] = 0x01
		_, err = oaepUnpad(em)
		assert.ErrorIs(t, err, keys.ErrInvalidPadding)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := oaepUnpad(make([]byte, 2*hLen+1))
		assert.ErrorIs(t, err, keys.ErrInvalidPadding)
	})
}

func TestMGF1XOR(t *testing.T) {
	t.Run("Involution", func(t *testing.T) {
		original := []byte("masking is xor, twice restores")
		buf := make([]byte, len(original))
		copy(buf, original)
		seed := []byte("seed value")

		mgf1XOR(buf, sha256.New(), seed)
		assert.NotEqual(t, original, buf)

		mgf1XOR(buf, sha256.New(), seed)
		assert.Equal(t, original, buf)
	})

	t.Run("LongOutputSpansCounterBlocks", func(t *testing.T) {
		// 100 bytes needs four MGF1 blocks of SHA-256 output.
		buf := make([]byte, 100)
		mgf1XOR(buf, sha256.New(), []byte("seed"))
		assert.NotEqual(t, make([]byte, 100), buf)
	})
}

func TestIncCounter(t *testing.T) {
	c := [4]byte{0x00, 0x00, 0x00, 0xff}
	incCounter(&c)
	assert.Equal(t, [4]byte{0x00, 0x00, 0x01, 0x00}, c)

	c = [4]byte{0x00, 0xff, 0xff, 0xff}
	incCounter(&c)
	assert.Equal(t, [4]byte{0x01, 0x00, 0x00, 0x00}, c)

	c = [4]byte{0x00, 0x00, 0x00, 0x01}
	incCounter(&c)
	assert.Equal(t, [4]byte{0x00, 0x00, 0x00, 0x02}, c)
}
