package commands

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/pkg/config"
	"rsa_engine_service/internal/pkg/logger"
)

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: "info",
		LogType:  "console",
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// hashMessage computes the digest of data with the selected algorithm. The
// engine itself consumes digests, so the CLI hashes input files up front.
func hashMessage(algorithm keys.DigestAlgorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case keys.DigestSHA1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case keys.DigestSHA224:
		sum := sha256.Sum224(data)
		return sum[:], nil
	case keys.DigestSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case keys.DigestSHA384:
		sum := sha512.Sum384(data)
		return sum[:], nil
	case keys.DigestSHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", algorithm)
	}
}
