package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// CipherCommandHandler encapsulates logic for handling encryption and
// decryption operations via CLI.
type CipherCommandHandler struct {
	subtle *app.Subtle
	logger logger.Logger
}

// NewCipherCommandHandler initializes and returns a CipherCommandHandler instance.
func NewCipherCommandHandler() (*CipherCommandHandler, error) {
	subtle, loggerInstance, err := setupSubtle()
	if err != nil {
		return nil, err
	}
	return &CipherCommandHandler{subtle: subtle, logger: loggerInstance}, nil
}

// EncryptCmd encrypts a file under a key handle and saves the ciphertext
func (commandHandler *CipherCommandHandler) EncryptCmd(cmd *cobra.Command, _ []string) {
	algorithm, handle, inputFilePath, outputFilePath, err := commandHandler.cipherArgs(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if len(algorithm.IV) == 0 && len(algorithm.Counter) == 0 {
		if err := fillRandomIV(algorithm); err != nil {
			commandHandler.logger.Error(err)
			return
		}
	}

	plainText, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	cipherText, err := commandHandler.subtle.Encrypt(context.Background(), algorithm, handle, plainText)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(outputFilePath, cipherText, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Encrypted data saved to ", outputFilePath)
	if len(algorithm.IV) > 0 {
		fmt.Printf("iv: %s\n", hex.EncodeToString(algorithm.IV))
	}
	if len(algorithm.Counter) > 0 {
		fmt.Printf("counter: %s\n", hex.EncodeToString(algorithm.Counter))
	}
}

// DecryptCmd decrypts a file under a key handle and saves the plaintext
func (commandHandler *CipherCommandHandler) DecryptCmd(cmd *cobra.Command, _ []string) {
	algorithm, handle, inputFilePath, outputFilePath, err := commandHandler.cipherArgs(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	cipherText, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	plainText, err := commandHandler.subtle.Decrypt(context.Background(), algorithm, handle, cipherText)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(outputFilePath, plainText, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Decrypted data saved to ", outputFilePath)
}

// cipherArgs assembles the operation parameters and key handle shared by
// encrypt and decrypt.
func (commandHandler *CipherCommandHandler) cipherArgs(cmd *cobra.Command) (*keys.Algorithm, *keys.Handle, string, string, error) {
	name, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid algorithm flag: %w", err)
	}
	handlePath, err := cmd.Flags().GetString("key-handle")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid key-handle flag: %w", err)
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid input-file flag: %w", err)
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid output-file flag: %w", err)
	}
	ivHex, err := cmd.Flags().GetString("iv")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid iv flag: %w", err)
	}
	counterHex, err := cmd.Flags().GetString("counter")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid counter flag: %w", err)
	}
	counterLength, err := cmd.Flags().GetInt("counter-length")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid counter-length flag: %w", err)
	}
	tagLength, err := cmd.Flags().GetInt("tag-length")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid tag-length flag: %w", err)
	}
	additionalDataHex, err := cmd.Flags().GetString("additional-data")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid additional-data flag: %w", err)
	}
	labelHex, err := cmd.Flags().GetString("label")
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("invalid label flag: %w", err)
	}

	algorithm := &keys.Algorithm{
		Name:          name,
		CounterLength: counterLength,
		TagLength:     tagLength,
	}
	if algorithm.IV, err = decodeHexFlag("iv", ivHex); err != nil {
		return nil, nil, "", "", err
	}
	if algorithm.Counter, err = decodeHexFlag("counter", counterHex); err != nil {
		return nil, nil, "", "", err
	}
	if algorithm.AdditionalData, err = decodeHexFlag("additional-data", additionalDataHex); err != nil {
		return nil, nil, "", "", err
	}
	if algorithm.Label, err = decodeHexFlag("label", labelHex); err != nil {
		return nil, nil, "", "", err
	}

	handle, err := readHandle(handlePath)
	if err != nil {
		return nil, nil, "", "", err
	}

	return algorithm, handle, inputFilePath, outputFilePath, nil
}

// fillRandomIV populates a fresh IV or counter block sized for the mode.
func fillRandomIV(algorithm *keys.Algorithm) error {
	var size int
	switch algorithm.Name {
	case webcrypto.AlgAESGCM:
		size = 12
	case webcrypto.AlgAESCBC:
		size = 16
	case webcrypto.AlgDESCBC, webcrypto.AlgDESEDE3CBC:
		size = 8
	case webcrypto.AlgAESCTR:
		block := make([]byte, 16)
		if _, err := rand.Read(block); err != nil {
			return fmt.Errorf("failed to generate counter block: %w", err)
		}
		algorithm.Counter = block
		if algorithm.CounterLength == 0 {
			algorithm.CounterLength = 64
		}
		return nil
	default:
		return nil
	}
	iv := make([]byte, size)
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("failed to generate IV: %w", err)
	}
	algorithm.IV = iv
	return nil
}

// InitCipherCommands registers the encryption command group.
func InitCipherCommands(rootCmd *cobra.Command) error {
	handler, err := NewCipherCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create cipher command handler: %w", err)
	}

	encryptCmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file under a key handle",
		Run:   handler.EncryptCmd,
	}
	addCipherFlags(encryptCmd)
	rootCmd.AddCommand(encryptCmd)

	decryptCmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file under a key handle",
		Run:   handler.DecryptCmd,
	}
	addCipherFlags(decryptCmd)
	rootCmd.AddCommand(decryptCmd)

	return nil
}

// addCipherFlags registers the flags shared by encrypt and decrypt.
func addCipherFlags(cmd *cobra.Command) {
	cmd.Flags().String("algorithm", "", "Cipher algorithm (e.g. AES-GCM, AES-CBC, RSA-OAEP)")
	cmd.Flags().String("key-handle", "", "Path to the key handle file")
	cmd.Flags().String("input-file", "", "Path to the input file")
	cmd.Flags().String("output-file", "", "Path to the output file")
	cmd.Flags().String("iv", "", "Hex-encoded IV; generated when omitted on encrypt")
	cmd.Flags().String("counter", "", "Hex-encoded counter block (AES-CTR)")
	cmd.Flags().Int("counter-length", 0, "Counter length in bits (AES-CTR)")
	cmd.Flags().Int("tag-length", 0, "Authentication tag length in bits (AES-GCM)")
	cmd.Flags().String("additional-data", "", "Hex-encoded additional authenticated data (AES-GCM)")
	cmd.Flags().String("label", "", "Hex-encoded OAEP label (RSA-OAEP)")
}
