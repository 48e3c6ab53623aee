package keys

import "errors"

// Failure taxonomy of the RSA engine. All operations return one of these
// sentinels (wrapped with context) so callers can branch with errors.Is.
// Padding failures are deliberately collapsed into the single
// ErrInvalidPadding outcome regardless of which structural check failed,
// so a caller-visible error never acts as a padding oracle.
var (
	// ErrMalformedKey indicates an encoded key that could not be parsed
	// or whose parsed structure violates the key invariants.
	ErrMalformedKey = errors.New("malformed key")

	// ErrInvalidKeyParameters indicates key material that parses but is
	// unusable, e.g. a public exponent that is even or not coprime to λ(n).
	ErrInvalidKeyParameters = errors.New("invalid key parameters")

	// ErrKeyTooSmall indicates a requested modulus length below the
	// supported minimum of 512 bits.
	ErrKeyTooSmall = errors.New("key size too small")

	// ErrGenerationFailed indicates that no suitable primes were found
	// within the bounded retry budget.
	ErrGenerationFailed = errors.New("key generation failed")

	// ErrMessageTooLong indicates a plaintext that exceeds the capacity
	// of the selected padding scheme for the key's modulus length.
	ErrMessageTooLong = errors.New("message too long for key size")

	// ErrInvalidCiphertext indicates a ciphertext whose length differs
	// from the modulus length or whose numeric value is not below n.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrInvalidPadding is the uniform failure for any malformed padding
	// discovered during decryption.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrInvalidInput indicates caller-supplied arguments with impossible
	// sizes, e.g. a digest whose length does not match its algorithm.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEntropyUnavailable indicates that the system entropy source
	// failed or was exhausted.
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
)
