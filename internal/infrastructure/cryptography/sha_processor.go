package cryptography

import (
	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// shaProcessor struct that implements the SHAProcessor interface
type shaProcessor struct {
	logger logger.Logger
}

// NewSHAProcessor creates and returns a new instance of shaProcessor
func NewSHAProcessor(logger logger.Logger) (cryptoalg.SHAProcessor, error) {
	return &shaProcessor{
		logger: logger,
	}, nil
}

// Digest hashes data with the named hash.
func (p *shaProcessor) Digest(hashName string, data []byte) ([]byte, error) {
	_, newHash, err := hashByName(hashName)
	if err != nil {
		return nil, err
	}

	h := newHash()
	h.Write(data)
	return h.Sum(nil), nil
}
