package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/pkg/logger"
)

// SignCommandHandler encapsulates logic for signing and verification via CLI.
type SignCommandHandler struct {
	rsaEngine keys.RSAEngine
	logger    logger.Logger
}

// NewSignCommandHandler initializes a new SignCommandHandler with logging and an RSA engine.
func NewSignCommandHandler() (*SignCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	rsaEngine, err := cryptography.NewRSAEngine(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA engine: %w", err)
	}

	return &SignCommandHandler{
		rsaEngine: rsaEngine,
		logger:    loggerInstance,
	}, nil
}

// SignRSACmd hashes a file and signs the digest with an RSA private key
func (commandHandler *SignCommandHandler) SignRSACmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: %v", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag: %v", err)
		return
	}
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		commandHandler.logger.Error("invalid private-key flag: %v", err)
		return
	}
	digestName, err := cmd.Flags().GetString("digest")
	if err != nil {
		commandHandler.logger.Error("invalid digest flag: %v", err)
		return
	}

	algorithm := keys.DigestAlgorithm(digestName)
	if !algorithm.Valid() {
		commandHandler.logger.Error("unsupported digest algorithm %q", digestName)
		return
	}

	message, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	digest, err := hashMessage(algorithm, message)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	privateKey, err := commandHandler.rsaEngine.ReadPrivateKey(privateKeyPath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}
	defer privateKey.Zeroize()

	signature, err := commandHandler.rsaEngine.Sign(digest, algorithm, privateKey)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	if err := os.WriteFile(outputFilePath, signature, 0600); err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	commandHandler.logger.Info("Signature path: ", outputFilePath)
}

// VerifyRSACmd hashes a file and verifies its signature with an RSA public key
func (commandHandler *SignCommandHandler) VerifyRSACmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag: %v", err)
		return
	}
	signatureFilePath, err := cmd.Flags().GetString("signature-file")
	if err != nil {
		commandHandler.logger.Error("invalid signature-file flag: %v", err)
		return
	}
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		commandHandler.logger.Error("invalid public-key flag: %v", err)
		return
	}
	digestName, err := cmd.Flags().GetString("digest")
	if err != nil {
		commandHandler.logger.Error("invalid digest flag: %v", err)
		return
	}

	algorithm := keys.DigestAlgorithm(digestName)
	if !algorithm.Valid() {
		commandHandler.logger.Error("unsupported digest algorithm %q", digestName)
		return
	}

	message, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}
	signature, err := os.ReadFile(filepath.Clean(signatureFilePath))
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	digest, err := hashMessage(algorithm, message)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	publicKey, err := commandHandler.rsaEngine.ReadPublicKey(publicKeyPath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	valid, err := commandHandler.rsaEngine.Verify(digest, algorithm, signature, publicKey)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	if valid {
		commandHandler.logger.Info("Signature valid: ", inputFilePath)
	} else {
		commandHandler.logger.Warn("Signature INVALID: ", inputFilePath)
	}
}

// InitSignCommands registers signing and verification commands
func InitSignCommands(rootCmd *cobra.Command) error {
	handler, err := NewSignCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create sign command handler %w", err)
	}

	var signRSACmd = &cobra.Command{
		Use:   "sign-rsa",
		Short: "Sign a file digest using an RSA private key",
		Run:   handler.SignRSACmd,
	}
	signRSACmd.Flags().StringP("input-file", "", "", "Path to file that needs to be signed")
	signRSACmd.Flags().StringP("output-file", "", "", "Path to file in which the signature will be stored")
	signRSACmd.Flags().StringP("private-key", "", "", "Path to RSA private key")
	signRSACmd.Flags().StringP("digest", "", string(keys.DigestSHA256), "Digest algorithm (sha1, sha224, sha256, sha384 or sha512)")
	rootCmd.AddCommand(signRSACmd)

	var verifyRSACmd = &cobra.Command{
		Use:   "verify-rsa",
		Short: "Verify a signature using an RSA public key",
		Run:   handler.VerifyRSACmd,
	}
	verifyRSACmd.Flags().StringP("input-file", "", "", "Path to file whose signature is being verified")
	verifyRSACmd.Flags().StringP("signature-file", "", "", "Path to the signature file")
	verifyRSACmd.Flags().StringP("public-key", "", "", "Path to RSA public key")
	verifyRSACmd.Flags().StringP("digest", "", string(keys.DigestSHA256), "Digest algorithm (sha1, sha224, sha256, sha384 or sha512)")
	rootCmd.AddCommand(verifyRSACmd)
	return nil
}
