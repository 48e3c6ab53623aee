package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/pkg/config"
	"rsa_engine_service/internal/pkg/logger"
)

// KeyCommandHandler encapsulates logic for key generation and inspection via CLI.
type KeyCommandHandler struct {
	rsaEngine keys.RSAEngine
	logger    logger.Logger
}

// NewKeyCommandHandler initializes a new KeyCommandHandler with logging and an RSA engine.
func NewKeyCommandHandler() (*KeyCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	rsaEngine, err := cryptography.NewRSAEngine(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA engine: %w", err)
	}

	return &KeyCommandHandler{
		rsaEngine: rsaEngine,
		logger:    loggerInstance,
	}, nil
}

// GenerateRSAKeysCmd generates an RSA key pair and persists it in a selected directory
func (commandHandler *KeyCommandHandler) GenerateRSAKeysCmd(cmd *cobra.Command, _ []string) {
	bits, err := cmd.Flags().GetInt("bits")
	if err != nil {
		commandHandler.logger.Error("invalid bits flag: %v", err)
		return
	}
	publicExponent, err := cmd.Flags().GetUint64("public-exponent")
	if err != nil {
		commandHandler.logger.Error("invalid public-exponent flag: %v", err)
		return
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		commandHandler.logger.Error("invalid key-dir flag: %v", err)
		return
	}

	settings := config.NewDefaultKeyGenSettings()
	settings.Bits = bits
	settings.PublicExponent = publicExponent
	if err := settings.Validate(); err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	uniqueID := uuid.New()

	privateKey, err := commandHandler.rsaEngine.GenerateKeys(context.Background(), bits, publicExponent)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	privateKeyFilePath := fmt.Sprintf("%s/%s-private-key.pem", keyDir, uniqueID.String())
	err = commandHandler.rsaEngine.SavePrivateKeyToFile(privateKey, privateKeyFilePath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	publicKeyFilePath := fmt.Sprintf("%s/%s-public-key.pem", keyDir, uniqueID.String())
	err = commandHandler.rsaEngine.SavePublicKeyToFile(privateKey.Public(), publicKeyFilePath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}
}

// InspectRSAKeyCmd prints the modulus length of a public key file
func (commandHandler *KeyCommandHandler) InspectRSAKeyCmd(cmd *cobra.Command, _ []string) {
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		commandHandler.logger.Error("invalid public-key flag: %v", err)
		return
	}

	publicKey, err := commandHandler.rsaEngine.ReadPublicKey(publicKeyPath)
	if err != nil {
		commandHandler.logger.Error("%v", err)
		return
	}

	commandHandler.logger.Info("RSA public key with ", publicKey.N.BitLen(), " bit modulus (", publicKey.Size(), " byte operations)")
}

// InitKeyCommands registers key-related commands
func InitKeyCommands(rootCmd *cobra.Command) error {
	handler, err := NewKeyCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create key command handler %w", err)
	}

	var generateRSAKeysCmd = &cobra.Command{
		Use:   "generate-rsa-keys",
		Short: "Generate RSA keys",
		Run:   handler.GenerateRSAKeysCmd,
	}
	generateRSAKeysCmd.Flags().IntP("bits", "", config.DefaultKeyBits, "RSA modulus bit length (default 2048 for RSA-2048)")
	generateRSAKeysCmd.Flags().Uint64P("public-exponent", "", config.DefaultPublicExponent, "RSA public exponent")
	generateRSAKeysCmd.Flags().StringP("key-dir", "", "", "Directory to store the RSA keys")
	rootCmd.AddCommand(generateRSAKeysCmd)

	var inspectRSAKeyCmd = &cobra.Command{
		Use:   "inspect-rsa-key",
		Short: "Print the modulus length of an RSA public key",
		Run:   handler.InspectRSAKeyCmd,
	}
	inspectRSAKeyCmd.Flags().StringP("public-key", "", "", "Path to RSA public key")
	rootCmd.AddCommand(inspectRSAKeyCmd)
	return nil
}
