package validators

import (
	"github.com/go-playground/validator/v10"
)

// RSAKeySizeValidation validates that the requested modulus bit length is
// one of the supported RSA key sizes.
func RSAKeySizeValidation(fl validator.FieldLevel) bool {
	bits := fl.Field().Int()
	switch bits {
	case 512, 768, 1024, 2048, 3072, 4096:
		return true
	default:
		return false
	}
}

// PublicExponentValidation validates the RSA public exponent: it must be
// odd and greater than 2 (conventionally 65537).
func PublicExponentValidation(fl validator.FieldLevel) bool {
	e := fl.Field().Uint()
	return e > 2 && e%2 == 1
}
