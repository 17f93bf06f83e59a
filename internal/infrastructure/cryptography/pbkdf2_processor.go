package cryptography

import (
	"golang.org/x/crypto/pbkdf2"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// pbkdf2Processor struct that implements the PBKDF2Processor interface
type pbkdf2Processor struct {
	logger logger.Logger
}

// NewPBKDF2Processor creates and returns a new instance of pbkdf2Processor
func NewPBKDF2Processor(logger logger.Logger) (cryptoalg.PBKDF2Processor, error) {
	return &pbkdf2Processor{
		logger: logger,
	}, nil
}

// DeriveBits derives lengthBits from the password with the given salt and
// iteration count, delegating to the primitive PBKDF2 routine.
func (p *pbkdf2Processor) DeriveBits(password, salt []byte, iterations int, hashName string, lengthBits int) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	if iterations <= 0 {
		return nil, webcrypto.NewOperationError("PBKDF2 iteration count must be positive, got %d", iterations)
	}
	if lengthBits <= 0 {
		return nil, webcrypto.NewOperationError("cannot derive %d bits", lengthBits)
	}

	derived := pbkdf2.Key(password, salt, iterations, (lengthBits+7)/8, newHash)

	bits, err := truncateBits(derived, lengthBits)
	if err != nil {
		return nil, err
	}

	p.logger.Info("PBKDF2 derivation succeeded")
	return bits, nil
}
