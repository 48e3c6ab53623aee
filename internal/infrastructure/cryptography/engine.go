package cryptography

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/pkg/arithmetic"
	"rsa_engine_service/internal/pkg/config"
	"rsa_engine_service/internal/pkg/logger"
)

// rsaEngine struct that implements the keys.RSAEngine interface
type rsaEngine struct {
	logger   logger.Logger
	random   io.Reader
	settings *config.KeyGenSettings
}

// NewRSAEngine creates and returns a new instance of rsaEngine with default
// key generation settings and the system entropy source.
func NewRSAEngine(logger logger.Logger) (keys.RSAEngine, error) {
	return NewRSAEngineWithSettings(logger, config.NewDefaultKeyGenSettings())
}

// NewRSAEngineWithSettings creates an rsaEngine with explicit generation
// settings (Miller-Rabin rounds, attempt budget).
func NewRSAEngineWithSettings(logger logger.Logger, settings *config.KeyGenSettings) (keys.RSAEngine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid key generation settings: %w", err)
	}
	return &rsaEngine{
		logger:   logger,
		random:   rand.Reader,
		settings: settings,
	}, nil
}

// publicOp computes m^e mod n.
func publicOp(publicKey *keys.PublicKey, m *arithmetic.Nat) (*arithmetic.Nat, error) {
	return arithmetic.ModExp(m, publicKey.E, publicKey.N)
}

// privateOp computes c^d mod n, taking the CRT path when the parameters are
// present. The CRT result is checked against a public re-encryption so a
// faulty parameter set can never leak a wrong plaintext or signature.
func privateOp(privateKey *keys.PrivateKey, c *arithmetic.Nat) (*arithmetic.Nat, error) {
	if !privateKey.HasCRT() {
		return arithmetic.ModExp(c, privateKey.D, privateKey.N)
	}

	m1, err := arithmetic.ModExp(c, privateKey.Dp, privateKey.P)
	if err != nil {
		return nil, err
	}
	m2, err := arithmetic.ModExp(c, privateKey.Dq, privateKey.Q)
	if err != nil {
		return nil, err
	}
	diff, err := arithmetic.ModSub(m1, m2, privateKey.P)
	if err != nil {
		return nil, err
	}
	h, err := arithmetic.ModMul(privateKey.Qinv, diff, privateKey.P)
	if err != nil {
		return nil, err
	}
	m := arithmetic.Add(m2, arithmetic.Mul(h, privateKey.Q))

	check, err := publicOp(privateKey.Public(), m)
	if err != nil {
		return nil, err
	}
	if !check.Eq(c) {
		return nil, fmt.Errorf("%w: CRT parameters disagree with direct exponentiation", keys.ErrInvalidKeyParameters)
	}
	return m, nil
}

// Encrypt pads plainText per the padding mode, computes c = m^e mod n and
// returns the ciphertext as a buffer sized to the modulus.
func (r *rsaEngine) Encrypt(plainText []byte, publicKey *keys.PublicKey, padding keys.PaddingMode) ([]byte, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: public key cannot be nil", keys.ErrInvalidInput)
	}
	if err := publicKey.Validate(); err != nil {
		return nil, err
	}

	k := publicKey.Size()
	var em []byte
	var err error
	switch padding {
	case keys.PaddingPKCS1v15:
		em, err = pkcs1v15Pad(r.random, k, plainText)
	case keys.PaddingOAEP:
		em, err = oaepPad(r.random, k, plainText)
	default:
		return nil, fmt.Errorf("%w: unsupported padding mode", keys.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	c, err := publicOp(publicKey, arithmetic.NatFromBytes(em))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}

	r.logger.Info("RSA encryption succeeded")
	return c.FillBytes(make([]byte, k)), nil
}

// Decrypt requires a ciphertext of exactly the modulus length with numeric
// value below n, computes m = c^d mod n (CRT-accelerated when possible) and
// removes the padding.
func (r *rsaEngine) Decrypt(cipherText []byte, privateKey *keys.PrivateKey, padding keys.PaddingMode) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: private key cannot be nil", keys.ErrInvalidInput)
	}
	if err := privateKey.Validate(); err != nil {
		return nil, err
	}

	k := privateKey.Size()
	if len(cipherText) != k {
		return nil, fmt.Errorf("%w: ciphertext length %d does not match key size %d", keys.ErrInvalidCiphertext, len(cipherText), k)
	}
	c := arithmetic.NatFromBytes(cipherText)
	if c.Cmp(privateKey.N) >= 0 {
		return nil, fmt.Errorf("%w: ciphertext value not below modulus", keys.ErrInvalidCiphertext)
	}

	m, err := privateOp(privateKey, c)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}
	em := m.FillBytes(make([]byte, k))

	var plainText []byte
	switch padding {
	case keys.PaddingPKCS1v15:
		plainText, err = pkcs1v15Unpad(em)
	case keys.PaddingOAEP:
		plainText, err = oaepUnpad(em)
	default:
		return nil, fmt.Errorf("%w: unsupported padding mode", keys.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("RSA decryption succeeded")
	return plainText, nil
}

// Sign applies the PKCS#1 v1.5 signature encoding for the digest algorithm
// and signs the result with the private exponent.
func (r *rsaEngine) Sign(digest []byte, algorithm keys.DigestAlgorithm, privateKey *keys.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: private key cannot be nil", keys.ErrInvalidInput)
	}
	if err := privateKey.Validate(); err != nil {
		return nil, err
	}
	if !algorithm.Valid() {
		return nil, fmt.Errorf("%w: unsupported digest algorithm %q", keys.ErrInvalidInput, algorithm)
	}
	if len(digest) != algorithm.Size() {
		return nil, fmt.Errorf("%w: digest length %d does not match %s", keys.ErrInvalidInput, len(digest), algorithm)
	}

	k := privateKey.Size()
	em, err := pkcs1v15SignEncode(k, algorithm, digest)
	if err != nil {
		return nil, err
	}

	s, err := privateOp(privateKey, arithmetic.NatFromBytes(em))
	if err != nil {
		return nil, fmt.Errorf("failed to sign data: %w", err)
	}

	r.logger.Info("RSA signing succeeded")
	return s.FillBytes(make([]byte, k)), nil
}

// Verify computes m = signature^e mod n, re-derives the expected signature
// encoding for the digest and compares in constant time. A mismatch is a
// normal negative result, not an error.
func (r *rsaEngine) Verify(digest []byte, algorithm keys.DigestAlgorithm, signature []byte, publicKey *keys.PublicKey) (bool, error) {
	if publicKey == nil {
		return false, fmt.Errorf("%w: public key cannot be nil", keys.ErrInvalidInput)
	}
	if err := publicKey.Validate(); err != nil {
		return false, err
	}
	if !algorithm.Valid() {
		return false, fmt.Errorf("%w: unsupported digest algorithm %q", keys.ErrInvalidInput, algorithm)
	}
	if len(digest) != algorithm.Size() {
		return false, fmt.Errorf("%w: digest length %d does not match %s", keys.ErrInvalidInput, len(digest), algorithm)
	}

	k := publicKey.Size()
	if len(signature) != k {
		return false, fmt.Errorf("%w: signature length %d does not match key size %d", keys.ErrInvalidInput, len(signature), k)
	}
	s := arithmetic.NatFromBytes(signature)
	if s.Cmp(publicKey.N) >= 0 {
		return false, fmt.Errorf("%w: signature value not below modulus", keys.ErrInvalidInput)
	}

	m, err := publicOp(publicKey, s)
	if err != nil {
		return false, fmt.Errorf("failed to verify signature: %w", err)
	}
	expected, err := pkcs1v15SignEncode(k, algorithm, digest)
	if err != nil {
		return false, err
	}

	if subtle.ConstantTimeCompare(m.FillBytes(make([]byte, k)), expected) != 1 {
		return false, nil
	}

	r.logger.Info("RSA signature verified successfully")
	return true, nil
}

// SavePrivateKeyToFile saves the private key to a PEM-encoded file (PKCS#1 format).
func (r *rsaEngine) SavePrivateKeyToFile(privateKey *keys.PrivateKey, filename string) error {
	der, err := marshalPKCS1PrivateKey(privateKey)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Clean(filename))
	if err != nil {
		return fmt.Errorf("failed to create private key file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("warning: failed to close file: %v\n", err)
		}
	}()

	if err := encodePEM(file, pemTypePrivateKey, der); err != nil {
		return fmt.Errorf("failed to encode private key: %w", err)
	}

	r.logger.Info("Saved RSA private key ", filename)
	return nil
}

// SavePublicKeyToFile saves the public key to a PEM-encoded file (PKCS#1 format).
func (r *rsaEngine) SavePublicKeyToFile(publicKey *keys.PublicKey, filename string) error {
	der, err := r.EncodePublicKey(publicKey)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Clean(filename))
	if err != nil {
		return fmt.Errorf("failed to create public key file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("warning: failed to close file: %v\n", err)
		}
	}()

	if err := encodePEM(file, pemTypePublicKey, der); err != nil {
		return fmt.Errorf("failed to encode public key: %w", err)
	}

	r.logger.Info("Saved RSA public key ", filename)
	return nil
}

// ReadPrivateKey reads a private key from a PEM-encoded file (PKCS#1 format).
func (r *rsaEngine) ReadPrivateKey(privateKeyPath string) (*keys.PrivateKey, error) {
	der, err := readPEMFile(privateKeyPath, pemTypePrivateKey)
	if err != nil {
		return nil, err
	}
	return parsePKCS1PrivateKey(der)
}

// ReadPublicKey reads a public key from a PEM-encoded file (PKCS#1 format).
func (r *rsaEngine) ReadPublicKey(publicKeyPath string) (*keys.PublicKey, error) {
	der, err := readPEMFile(publicKeyPath, pemTypePublicKey)
	if err != nil {
		return nil, err
	}
	publicKey, err := r.DecodePublicKey(der)
	if err != nil {
		return nil, err
	}
	if publicKey == nil {
		return nil, fmt.Errorf("%w: empty public key encoding", keys.ErrMalformedKey)
	}
	return publicKey, nil
}
