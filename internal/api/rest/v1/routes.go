package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/sdaliyot/webcrypto/internal/app"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine, subtle *app.Subtle) {
	v1 := r.Group(BasePath)

	handler := NewSubtleHandler(subtle)
	v1.POST("/keys/generate", handler.GenerateKey)
	v1.POST("/keys/import", handler.ImportKey)
	v1.POST("/keys/export", handler.ExportKey)
	v1.POST("/encrypt", handler.Encrypt)
	v1.POST("/decrypt", handler.Decrypt)
	v1.POST("/sign", handler.Sign)
	v1.POST("/verify", handler.Verify)
	v1.POST("/derive-bits", handler.DeriveBits)
	v1.POST("/digest", handler.Digest)
}
