package keys

import "context"

// PaddingMode selects the padding scheme for encryption and decryption.
// An enumeration rather than a boolean leaves room for future schemes
// without a contract change.
type PaddingMode int

const (
	// PaddingPKCS1v15 is the PKCS#1 v1.5 encryption padding.
	PaddingPKCS1v15 PaddingMode = iota
	// PaddingOAEP is the OAEP padding with SHA-256 and MGF1.
	PaddingOAEP
)

// String returns the CLI-facing name of the padding mode.
func (m PaddingMode) String() string {
	switch m {
	case PaddingPKCS1v15:
		return "pkcs1v15"
	case PaddingOAEP:
		return "oaep"
	default:
		return "unknown"
	}
}

// ParsePaddingMode maps a CLI-facing name to a PaddingMode.
func ParsePaddingMode(name string) (PaddingMode, error) {
	switch name {
	case "pkcs1v15":
		return PaddingPKCS1v15, nil
	case "oaep":
		return PaddingOAEP, nil
	default:
		return 0, ErrInvalidInput
	}
}

// DigestAlgorithm names the hash whose digest is being signed or verified.
type DigestAlgorithm string

// Supported digest algorithms for PKCS#1 v1.5 signatures.
const (
	DigestSHA1   DigestAlgorithm = "sha1"
	DigestSHA224 DigestAlgorithm = "sha224"
	DigestSHA256 DigestAlgorithm = "sha256"
	DigestSHA384 DigestAlgorithm = "sha384"
	DigestSHA512 DigestAlgorithm = "sha512"
)

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (d DigestAlgorithm) Size() int {
	switch d {
	case DigestSHA1:
		return 20
	case DigestSHA224:
		return 28
	case DigestSHA256:
		return 32
	case DigestSHA384:
		return 48
	case DigestSHA512:
		return 64
	default:
		return 0
	}
}

// Valid reports whether the algorithm is supported.
func (d DigestAlgorithm) Valid() bool {
	return d.Size() != 0
}

// RSAEngine is the boundary contract of the native RSA engine. All methods
// are safe for concurrent use; key material is treated as immutable.
type RSAEngine interface {
	// GenerateKeys generates an RSA key pair with the requested modulus
	// bit length and public exponent. Generation is CPU-bound with no
	// natural upper bound, so it honours ctx cancellation between
	// primality trials.
	GenerateKeys(ctx context.Context, bits int, publicExponent uint64) (*PrivateKey, error)

	// Encrypt pads plainText per the padding mode and encrypts it with
	// the public key, returning a ciphertext sized to the modulus.
	Encrypt(plainText []byte, publicKey *PublicKey, padding PaddingMode) ([]byte, error)

	// Decrypt decrypts a modulus-sized ciphertext with the private key and
	// removes the padding, using the CRT parameters when present.
	Decrypt(cipherText []byte, privateKey *PrivateKey, padding PaddingMode) ([]byte, error)

	// Sign applies the PKCS#1 v1.5 signature encoding for the digest
	// algorithm and signs with the private key.
	Sign(digest []byte, algorithm DigestAlgorithm, privateKey *PrivateKey) ([]byte, error)

	// Verify checks a PKCS#1 v1.5 signature. A signature that does not
	// match is a normal (false, nil) outcome; errors are reserved for
	// malformed input sizes.
	Verify(digest []byte, algorithm DigestAlgorithm, signature []byte, publicKey *PublicKey) (bool, error)

	// DecodePublicKey parses a DER-encoded PKCS#1 RSAPublicKey. A nil or
	// empty input yields (nil, nil): no key rather than an error.
	DecodePublicKey(der []byte) (*PublicKey, error)

	// EncodePublicKey encodes the public key as a DER PKCS#1 RSAPublicKey.
	EncodePublicKey(publicKey *PublicKey) ([]byte, error)

	// SavePrivateKeyToFile saves the private key to a PEM-encoded file
	// (PKCS#1 format).
	SavePrivateKeyToFile(privateKey *PrivateKey, filename string) error

	// SavePublicKeyToFile saves the public key to a PEM-encoded file
	// (PKCS#1 format).
	SavePublicKeyToFile(publicKey *PublicKey, filename string) error

	// ReadPrivateKey reads a PEM-encoded private key file (PKCS#1 format).
	ReadPrivateKey(privateKeyPath string) (*PrivateKey, error)

	// ReadPublicKey reads a PEM-encoded public key file (PKCS#1 format).
	ReadPublicKey(publicKeyPath string) (*PublicKey, error)
}
