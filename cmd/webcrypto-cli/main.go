// Package main is the entry point for the webcrypto-cli application.
// It initializes the root command, registers the digest, key, cipher and
// signature sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"

	commands "github.com/sdaliyot/webcrypto/cmd/webcrypto-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "webcrypto-cli",
		Short: "WebCrypto operations CLI tool",
		Long: `webcrypto-cli is a command-line tool over the WebCrypto provider layer.
It generates, imports and exports keys in raw, JWK, PKCS#8 and SPKI form,
encrypts and decrypts files, computes digests, and signs and verifies
files with any of the supported algorithms.

Key handles are stored as JSON files. A handle carries a sealed snapshot
of its material, so handles created by one invocation remain usable in
the next.`,
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
	if err := commands.InitDigestCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize digest commands: %w", err)
	}

	if err := commands.InitKeyCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key commands: %w", err)
	}

	if err := commands.InitCipherCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize cipher commands: %w", err)
	}

	if err := commands.InitSignatureCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize signature commands: %w", err)
	}

	return nil
}
