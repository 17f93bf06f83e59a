package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// SignatureCommandHandler encapsulates logic for handling signing and
// verification operations via CLI.
type SignatureCommandHandler struct {
	subtle *app.Subtle
	logger logger.Logger
}

// NewSignatureCommandHandler initializes and returns a SignatureCommandHandler instance.
func NewSignatureCommandHandler() (*SignatureCommandHandler, error) {
	subtle, loggerInstance, err := setupSubtle()
	if err != nil {
		return nil, err
	}
	return &SignatureCommandHandler{subtle: subtle, logger: loggerInstance}, nil
}

// SignCmd signs a file with a key handle and saves the signature
func (commandHandler *SignatureCommandHandler) SignCmd(cmd *cobra.Command, _ []string) {
	algorithm, handle, inputFilePath, err := commandHandler.signatureArgs(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	signatureFilePath, err := cmd.Flags().GetString("signature-file")
	if err != nil {
		commandHandler.logger.Error("invalid signature-file flag ", err)
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	signature, err := commandHandler.subtle.Sign(context.Background(), algorithm, handle, data)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(signatureFilePath, signature, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Signature saved to ", signatureFilePath)
}

// VerifyCmd verifies a file's signature with a key handle
func (commandHandler *SignatureCommandHandler) VerifyCmd(cmd *cobra.Command, _ []string) {
	algorithm, handle, inputFilePath, err := commandHandler.signatureArgs(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	signatureFilePath, err := cmd.Flags().GetString("signature-file")
	if err != nil {
		commandHandler.logger.Error("invalid signature-file flag ", err)
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	signature, err := os.ReadFile(filepath.Clean(signatureFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	valid, err := commandHandler.subtle.Verify(context.Background(), algorithm, handle, signature, data)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if valid {
		fmt.Println("signature is valid")
	} else {
		fmt.Println("signature is invalid")
	}
}

// signatureArgs assembles the operation parameters and key handle shared by
// sign and verify.
func (commandHandler *SignatureCommandHandler) signatureArgs(cmd *cobra.Command) (*keys.Algorithm, *keys.Handle, string, error) {
	name, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid algorithm flag: %w", err)
	}
	hash, err := cmd.Flags().GetString("hash")
	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid hash flag: %w", err)
	}
	saltLength, err := cmd.Flags().GetInt("salt-length")
	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid salt-length flag: %w", err)
	}
	handlePath, err := cmd.Flags().GetString("key-handle")
	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid key-handle flag: %w", err)
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return nil, nil, "", fmt.Errorf("invalid input-file flag: %w", err)
	}

	handle, err := readHandle(handlePath)
	if err != nil {
		return nil, nil, "", err
	}

	algorithm := &keys.Algorithm{
		Name:       name,
		Hash:       hash,
		SaltLength: saltLength,
	}
	return algorithm, handle, inputFilePath, nil
}

// InitSignatureCommands registers the signature command group.
func InitSignatureCommands(rootCmd *cobra.Command) error {
	handler, err := NewSignatureCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create signature command handler: %w", err)
	}

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a file with a key handle",
		Run:   handler.SignCmd,
	}
	addSignatureFlags(signCmd)
	rootCmd.AddCommand(signCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a file's signature with a key handle",
		Run:   handler.VerifyCmd,
	}
	addSignatureFlags(verifyCmd)
	rootCmd.AddCommand(verifyCmd)

	return nil
}

// addSignatureFlags registers the flags shared by sign and verify.
func addSignatureFlags(cmd *cobra.Command) {
	cmd.Flags().String("algorithm", "", "Signature algorithm (e.g. ECDSA, RSA-PSS, HMAC, Ed25519)")
	cmd.Flags().String("hash", "", "Hash algorithm for ECDSA and RSA signatures (e.g. SHA-256)")
	cmd.Flags().Int("salt-length", 0, "Salt length in bytes (RSA-PSS)")
	cmd.Flags().String("key-handle", "", "Path to the key handle file")
	cmd.Flags().String("input-file", "", "Path to the file to sign or verify")
	cmd.Flags().String("signature-file", "", "Path of the signature file")
}
