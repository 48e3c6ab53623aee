// Package main is the entry point for the rsa-engine-cli application.
// It initializes the root command, registers the key, encryption and
// signature sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	commands "rsa_engine_service/cmd/rsa-engine-cli/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "rsa-engine-cli",
		Short: "Native RSA engine CLI tool",
		Long: `rsa-engine-cli is a command-line tool built on a native RSA engine.
Supports key-pair generation, encryption and decryption with PKCS#1 v1.5 or
OAEP padding, and PKCS#1 v1.5 signing and verification.`,
	}

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitKeyCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key commands: %w", err)
	}

	if err := commands.InitCryptCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize encryption commands: %w", err)
	}

	if err := commands.InitSignCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize signature commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
