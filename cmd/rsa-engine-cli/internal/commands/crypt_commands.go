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

// CryptCommandHandler encapsulates logic for encryption and decryption via CLI.
type CryptCommandHandler struct {
	rsaEngine keys.RSAEngine
	logger    logger.Logger
}

// NewCryptCommandHandler initializes a new CryptCommandHandler with logging and an RSA engine.
func NewCryptCommandHandler() (*CryptCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	rsaEngine, err := cryptography.NewRSAEngine(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA engine: %w", err)
	}

	return &CryptCommandHandler{
		rsaEngine: rsaEngine,
		logger:    loggerInstance,
	}, nil
}

// EncryptRSACmd encrypts a file with an RSA public key
func (commandHandler *CryptCommandHandler) EncryptRSACmd(cmd *cobra.Command, _ []string) {
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
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		commandHandler.logger.Error("invalid public-key flag: %v", err)
		return
	}
	paddingName, err := cmd.Flags().GetString("padding")
	if err != nil {
		commandHandler.logger.Error("invalid padding flag: %v", err)
		return
	}

	padding, err := keys.ParsePaddingMode(paddingName)
	if err != nil {
		commandHandler.logger.Error("unsupported padding mode %q", paddingName)
		return
	}

	plainText, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	publicKey, err := commandHandler.rsaEngine.ReadPublicKey(publicKeyPath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	cipherText, err := commandHandler.rsaEngine.Encrypt(plainText, publicKey, padding)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	if err := os.WriteFile(outputFilePath, cipherText, 0600); err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	commandHandler.logger.Info("Encrypted data path: ", outputFilePath)
}

// DecryptRSACmd decrypts a file with an RSA private key
func (commandHandler *CryptCommandHandler) DecryptRSACmd(cmd *cobra.Command, _ []string) {
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
	paddingName, err := cmd.Flags().GetString("padding")
	if err != nil {
		commandHandler.logger.Error("invalid padding flag: %v", err)
		return
	}

	padding, err := keys.ParsePaddingMode(paddingName)
	if err != nil {
		commandHandler.logger.Error("unsupported padding mode %q", paddingName)
		return
	}

	cipherText, err := os.ReadFile(filepath.Clean(inputFilePath))
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

	plainText, err := commandHandler.rsaEngine.Decrypt(cipherText, privateKey, padding)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	if err := os.WriteFile(outputFilePath, plainText, 0600); err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	commandHandler.logger.Info("Decrypted data path: ", outputFilePath)
}

// InitCryptCommands registers encryption and decryption commands
func InitCryptCommands(rootCmd *cobra.Command) error {
	handler, err := NewCryptCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create crypt command handler %w", err)
	}

	var encryptRSACmd = &cobra.Command{
		Use:   "encrypt-rsa",
		Short: "Encrypt data using an RSA public key",
		Run:   handler.EncryptRSACmd,
	}
	encryptRSACmd.Flags().StringP("input-file", "", "", "Path to file that needs to be encrypted")
	encryptRSACmd.Flags().StringP("output-file", "", "", "Path to file in which encrypted data will be stored")
	encryptRSACmd.Flags().StringP("public-key", "", "", "Path to RSA public key")
	encryptRSACmd.Flags().StringP("padding", "", keys.PaddingOAEP.String(), "Padding mode (pkcs1v15 or oaep)")
	rootCmd.AddCommand(encryptRSACmd)

	var decryptRSACmd = &cobra.Command{
		Use:   "decrypt-rsa",
		Short: "Decrypt data using an RSA private key",
		Run:   handler.DecryptRSACmd,
	}
	decryptRSACmd.Flags().StringP("input-file", "", "", "Path to file that needs to be decrypted")
	decryptRSACmd.Flags().StringP("output-file", "", "", "Path to file in which decrypted data will be stored")
	decryptRSACmd.Flags().StringP("private-key", "", "", "Path to RSA private key")
	decryptRSACmd.Flags().StringP("padding", "", keys.PaddingOAEP.String(), "Padding mode (pkcs1v15 or oaep)")
	rootCmd.AddCommand(decryptRSACmd)
	return nil
}
