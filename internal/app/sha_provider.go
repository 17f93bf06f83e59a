package app

import (
	"context"

	"github.com/sdaliyot/webcrypto/internal/domain/cryptoalg"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// shaProvider serves one digest algorithm. It is keyless; every other
// operation fails through the base provider.
type shaProvider struct {
	baseProvider
	engine cryptoalg.SHAProcessor
	logger logger.Logger
}

func newSHAProvider(name string, engine cryptoalg.SHAProcessor, logger logger.Logger) webcrypto.Provider {
	return &shaProvider{
		baseProvider: baseProvider{name: name},
		engine:       engine,
		logger:       logger,
	}
}

// Digest hashes data.
func (p *shaProvider) Digest(_ context.Context, _ *keys.Algorithm, data []byte) ([]byte, error) {
	return p.engine.Digest(p.name, data)
}

// CheckCryptoKey always fails: digest algorithms have no keys.
func (p *shaProvider) CheckCryptoKey(_ context.Context, _ *keys.Handle, _ string) error {
	return webcrypto.NewOperationError("%s does not use keys", p.name)
}
