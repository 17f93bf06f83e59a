package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// KeyCommandHandler encapsulates logic for handling key lifecycle operations via CLI.
type KeyCommandHandler struct {
	subtle *app.Subtle
	logger logger.Logger
}

// NewKeyCommandHandler initializes and returns a KeyCommandHandler instance.
func NewKeyCommandHandler() (*KeyCommandHandler, error) {
	subtle, loggerInstance, err := setupSubtle()
	if err != nil {
		return nil, err
	}
	return &KeyCommandHandler{subtle: subtle, logger: loggerInstance}, nil
}

// GenerateKeyCmd generates a key or key pair and persists the handles in a selected directory
func (commandHandler *KeyCommandHandler) GenerateKeyCmd(cmd *cobra.Command, _ []string) {
	algorithm, err := commandHandler.algorithmFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	usages, err := cmd.Flags().GetStringSlice("usages")
	if err != nil {
		commandHandler.logger.Error("invalid usages flag ", err)
		return
	}
	extractable, err := cmd.Flags().GetBool("extractable")
	if err != nil {
		commandHandler.logger.Error("invalid extractable flag ", err)
		return
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		commandHandler.logger.Error("invalid key-dir flag ", err)
		return
	}

	generated, err := commandHandler.subtle.GenerateKey(context.Background(), algorithm, extractable, usages)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	uniqueID := uuid.New()
	if generated.SecretKey != nil {
		handlePath := filepath.Join(keyDir, fmt.Sprintf("%s-secret-key.json", uniqueID))
		if err := writeHandle(handlePath, generated.SecretKey); err != nil {
			commandHandler.logger.Error(err)
			return
		}
		commandHandler.logger.Info("Secret key handle saved to ", handlePath)
		fmt.Println(handlePath)
		return
	}

	privatePath := filepath.Join(keyDir, fmt.Sprintf("%s-private-key.json", uniqueID))
	if err := writeHandle(privatePath, generated.PrivateKey); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	publicPath := filepath.Join(keyDir, fmt.Sprintf("%s-public-key.json", uniqueID))
	if err := writeHandle(publicPath, generated.PublicKey); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Key pair handles saved to ", privatePath, " and ", publicPath)
	fmt.Println(privatePath)
	fmt.Println(publicPath)
}

// ImportKeyCmd imports external key data and persists the resulting handle
func (commandHandler *KeyCommandHandler) ImportKeyCmd(cmd *cobra.Command, _ []string) {
	algorithm, err := commandHandler.algorithmFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		commandHandler.logger.Error("invalid format flag ", err)
		return
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}
	usages, err := cmd.Flags().GetStringSlice("usages")
	if err != nil {
		commandHandler.logger.Error("invalid usages flag ", err)
		return
	}
	extractable, err := cmd.Flags().GetBool("extractable")
	if err != nil {
		commandHandler.logger.Error("invalid extractable flag ", err)
		return
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		commandHandler.logger.Error("invalid key-dir flag ", err)
		return
	}

	keyData, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	handle, err := commandHandler.subtle.ImportKey(context.Background(), format, keyData, algorithm, extractable, usages)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	handlePath := filepath.Join(keyDir, fmt.Sprintf("%s-%s-key.json", uuid.New(), handle.Type))
	if err := writeHandle(handlePath, handle); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Imported key handle saved to ", handlePath)
	fmt.Println(handlePath)
}

// ExportKeyCmd exports a key handle's material in a selected format
func (commandHandler *KeyCommandHandler) ExportKeyCmd(cmd *cobra.Command, _ []string) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		commandHandler.logger.Error("invalid format flag ", err)
		return
	}
	handlePath, err := cmd.Flags().GetString("key-handle")
	if err != nil {
		commandHandler.logger.Error("invalid key-handle flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	handle, err := readHandle(handlePath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	exported, err := commandHandler.subtle.ExportKey(context.Background(), format, handle)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(outputFilePath, exported, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Exported key saved to ", outputFilePath)
}

// DeriveBitsCmd derives keying material from a base key handle
func (commandHandler *KeyCommandHandler) DeriveBitsCmd(cmd *cobra.Command, _ []string) {
	algorithm, err := commandHandler.algorithmFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	handlePath, err := cmd.Flags().GetString("key-handle")
	if err != nil {
		commandHandler.logger.Error("invalid key-handle flag ", err)
		return
	}
	publicHandlePath, err := cmd.Flags().GetString("public-key-handle")
	if err != nil {
		commandHandler.logger.Error("invalid public-key-handle flag ", err)
		return
	}
	lengthBits, err := cmd.Flags().GetInt("length")
	if err != nil {
		commandHandler.logger.Error("invalid length flag ", err)
		return
	}
	saltHex, err := cmd.Flags().GetString("salt")
	if err != nil {
		commandHandler.logger.Error("invalid salt flag ", err)
		return
	}
	infoHex, err := cmd.Flags().GetString("info")
	if err != nil {
		commandHandler.logger.Error("invalid info flag ", err)
		return
	}
	iterations, err := cmd.Flags().GetInt("iterations")
	if err != nil {
		commandHandler.logger.Error("invalid iterations flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}

	handle, err := readHandle(handlePath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if publicHandlePath != "" {
		publicHandle, err := readHandle(publicHandlePath)
		if err != nil {
			commandHandler.logger.Error(err)
			return
		}
		algorithm.Public = publicHandle
	}
	if algorithm.Salt, err = decodeHexFlag("salt", saltHex); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if algorithm.Info, err = decodeHexFlag("info", infoHex); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	algorithm.Iterations = iterations

	derived, err := commandHandler.subtle.DeriveBits(context.Background(), algorithm, handle, lengthBits)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	if err := os.WriteFile(outputFilePath, derived, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Derived bits saved to ", outputFilePath)
}

// algorithmFromFlags assembles the shared algorithm descriptor flags.
func (commandHandler *KeyCommandHandler) algorithmFromFlags(cmd *cobra.Command) (*keys.Algorithm, error) {
	name, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return nil, fmt.Errorf("invalid algorithm flag: %w", err)
	}
	hash, err := cmd.Flags().GetString("hash")
	if err != nil {
		return nil, fmt.Errorf("invalid hash flag: %w", err)
	}
	length, err := cmd.Flags().GetInt("length-bits")
	if err != nil {
		return nil, fmt.Errorf("invalid length-bits flag: %w", err)
	}
	namedCurve, err := cmd.Flags().GetString("named-curve")
	if err != nil {
		return nil, fmt.Errorf("invalid named-curve flag: %w", err)
	}
	modulusLength, err := cmd.Flags().GetInt("modulus-length")
	if err != nil {
		return nil, fmt.Errorf("invalid modulus-length flag: %w", err)
	}

	return &keys.Algorithm{
		Name:          name,
		Hash:          hash,
		Length:        length,
		NamedCurve:    namedCurve,
		ModulusLength: modulusLength,
	}, nil
}

// addAlgorithmFlags registers the shared algorithm descriptor flags on a command.
func addAlgorithmFlags(cmd *cobra.Command) {
	cmd.Flags().String("algorithm", "", "Algorithm name (e.g. AES-GCM, RSA-OAEP, ECDSA, Ed25519, HMAC)")
	cmd.Flags().String("hash", "", "Hash algorithm for RSA, HMAC and KDF keys (e.g. SHA-256)")
	cmd.Flags().Int("length-bits", 0, "Key length in bits for AES and HMAC keys")
	cmd.Flags().String("named-curve", "", "Named curve for EC keys (P-256, P-384, P-521, K-256)")
	cmd.Flags().Int("modulus-length", 0, "Modulus length in bits for RSA keys")
}

// InitKeyCommands registers the key lifecycle command group.
func InitKeyCommands(rootCmd *cobra.Command) error {
	handler, err := NewKeyCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create key command handler: %w", err)
	}

	generateKeyCmd := &cobra.Command{
		Use:   "generate-key",
		Short: "Generate a key or key pair and save its handle(s)",
		Run:   handler.GenerateKeyCmd,
	}
	addAlgorithmFlags(generateKeyCmd)
	generateKeyCmd.Flags().StringSlice("usages", nil, "Permitted key usages (e.g. encrypt,decrypt)")
	generateKeyCmd.Flags().Bool("extractable", true, "Whether the key material may be exported")
	generateKeyCmd.Flags().String("key-dir", ".", "Directory to store the key handle files")
	rootCmd.AddCommand(generateKeyCmd)

	importKeyCmd := &cobra.Command{
		Use:   "import-key",
		Short: "Import external key data and save its handle",
		Run:   handler.ImportKeyCmd,
	}
	addAlgorithmFlags(importKeyCmd)
	importKeyCmd.Flags().String("format", "raw", "Key data format (raw, jwk, pkcs8, spki)")
	importKeyCmd.Flags().String("input-file", "", "Path to the key data file")
	importKeyCmd.Flags().StringSlice("usages", nil, "Permitted key usages (e.g. sign,verify)")
	importKeyCmd.Flags().Bool("extractable", true, "Whether the key material may be exported")
	importKeyCmd.Flags().String("key-dir", ".", "Directory to store the key handle file")
	rootCmd.AddCommand(importKeyCmd)

	exportKeyCmd := &cobra.Command{
		Use:   "export-key",
		Short: "Export a key handle's material in a selected format",
		Run:   handler.ExportKeyCmd,
	}
	exportKeyCmd.Flags().String("format", "raw", "Export format (raw, jwk, pkcs8, spki)")
	exportKeyCmd.Flags().String("key-handle", "", "Path to the key handle file")
	exportKeyCmd.Flags().String("output-file", "", "Path to write the exported key data")
	rootCmd.AddCommand(exportKeyCmd)

	deriveBitsCmd := &cobra.Command{
		Use:   "derive-bits",
		Short: "Derive keying material from a base key",
		Run:   handler.DeriveBitsCmd,
	}
	addAlgorithmFlags(deriveBitsCmd)
	deriveBitsCmd.Flags().String("key-handle", "", "Path to the base key handle file")
	deriveBitsCmd.Flags().String("public-key-handle", "", "Path to the peer public key handle file (ECDH, X25519, X448)")
	deriveBitsCmd.Flags().Int("length", 0, "Number of bits to derive")
	deriveBitsCmd.Flags().String("salt", "", "Hex-encoded salt (HKDF, PBKDF2)")
	deriveBitsCmd.Flags().String("info", "", "Hex-encoded context info (HKDF)")
	deriveBitsCmd.Flags().Int("iterations", 0, "Iteration count (PBKDF2)")
	deriveBitsCmd.Flags().String("output-file", "", "Path to write the derived bits")
	rootCmd.AddCommand(deriveBitsCmd)

	return nil
}
