package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// DigestCommandHandler encapsulates logic for handling digest operations via CLI.
type DigestCommandHandler struct {
	subtle *app.Subtle
	logger logger.Logger
}

// NewDigestCommandHandler initializes and returns a DigestCommandHandler instance.
func NewDigestCommandHandler() (*DigestCommandHandler, error) {
	subtle, loggerInstance, err := setupSubtle()
	if err != nil {
		return nil, err
	}
	return &DigestCommandHandler{subtle: subtle, logger: loggerInstance}, nil
}

// DigestCmd hashes a file and prints the digest in hex
func (commandHandler *DigestCommandHandler) DigestCmd(cmd *cobra.Command, _ []string) {
	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		commandHandler.logger.Error("invalid algorithm flag ", err)
		return
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	digest, err := commandHandler.subtle.Digest(context.Background(), &keys.Algorithm{Name: algorithm}, data)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	fmt.Printf("%s  %s\n", hex.EncodeToString(digest), inputFilePath)
}

// InitDigestCommands registers the digest command group.
func InitDigestCommands(rootCmd *cobra.Command) error {
	handler, err := NewDigestCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create digest command handler: %w", err)
	}

	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Hash a file with one of the SHA algorithms",
		Run:   handler.DigestCmd,
	}
	digestCmd.Flags().String("algorithm", "SHA-256", "Digest algorithm (SHA-1, SHA-256, SHA-384, SHA-512)")
	digestCmd.Flags().String("input-file", "", "Path to the file to hash")
	rootCmd.AddCommand(digestCmd)

	return nil
}
