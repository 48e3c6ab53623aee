// Package arithmetic implements arbitrary-precision unsigned integer
// arithmetic for the RSA engine: addition, subtraction, multiplication,
// division with remainder, and the modular operations (exponentiation,
// inversion) the cryptographic layer composes.
//
// All operations are pure functions over immutable values, so concurrent
// callers never share scratch state. Modular exponentiation processes every
// exponent bit and selects results with limb masks rather than branching,
// keeping the operation count independent of the secret exponent's bit
// pattern.
package arithmetic
