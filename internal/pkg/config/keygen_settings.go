package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"rsa_engine_service/internal/pkg/validators"
)

// Key generation defaults. 65537 is the conventional public exponent; the
// Miller-Rabin round count trades false-positive probability for latency.
const (
	DefaultKeyBits           = 2048
	DefaultPublicExponent    = 65537
	DefaultMillerRabinRounds = 20
	DefaultMaxPrimeAttempts  = 10000
)

// KeyGenSettings holds configuration settings for RSA key-pair generation.
type KeyGenSettings struct {
	Bits              int    `mapstructure:"bits" validate:"required,rsakeysize"`
	PublicExponent    uint64 `mapstructure:"public_exponent" validate:"required,publicexponent"`
	MillerRabinRounds int    `mapstructure:"miller_rabin_rounds" validate:"required,min=1,max=64"`
	MaxPrimeAttempts  int    `mapstructure:"max_prime_attempts" validate:"required,min=100,max=1000000"`
}

// NewDefaultKeyGenSettings returns settings for a 2048-bit key with the
// conventional exponent and retry budget.
func NewDefaultKeyGenSettings() *KeyGenSettings {
	return &KeyGenSettings{
		Bits:              DefaultKeyBits,
		PublicExponent:    DefaultPublicExponent,
		MillerRabinRounds: DefaultMillerRabinRounds,
		MaxPrimeAttempts:  DefaultMaxPrimeAttempts,
	}
}

// Validate checks that all fields in KeyGenSettings are valid
func (s *KeyGenSettings) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("rsakeysize", validators.RSAKeySizeValidation); err != nil {
		return fmt.Errorf("failed to register key size validation: %w", err)
	}
	if err := validate.RegisterValidation("publicexponent", validators.PublicExponentValidation); err != nil {
		return fmt.Errorf("failed to register public exponent validation: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for KeyGenSettings: %w", err)
	}

	return nil
}
