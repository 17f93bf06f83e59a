package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
)

// SubtleHandler defines the interface for handling the capability surface
// over HTTP
type SubtleHandler interface {
	GenerateKey(ctx *gin.Context)
	ImportKey(ctx *gin.Context)
	ExportKey(ctx *gin.Context)
	Encrypt(ctx *gin.Context)
	Decrypt(ctx *gin.Context)
	Sign(ctx *gin.Context)
	Verify(ctx *gin.Context)
	DeriveBits(ctx *gin.Context)
	Digest(ctx *gin.Context)
}

type subtleHandler struct {
	subtle *app.Subtle
}

// NewSubtleHandler creates a new SubtleHandler over the provider table
func NewSubtleHandler(subtle *app.Subtle) SubtleHandler {
	return &subtleHandler{subtle: subtle}
}

func respondError(ctx *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, webcrypto.ErrKeyNotFound) {
		status = http.StatusNotFound
	}
	ctx.JSON(status, ErrorResponse{Message: err.Error()})
}

// GenerateKey handles the POST request to create a key or key pair
func (handler *subtleHandler) GenerateKey(ctx *gin.Context) {
	var request GenerateKeyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	generated, err := handler.subtle.GenerateKey(ctx, request.Algorithm, request.Extractable, request.Usages)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, GenerateKeyResponse{
		SecretKey:  generated.SecretKey,
		PublicKey:  generated.PublicKey,
		PrivateKey: generated.PrivateKey,
	})
}

// ImportKey handles the POST request to import external key data
func (handler *subtleHandler) ImportKey(ctx *gin.Context) {
	var request ImportKeyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	handle, err := handler.subtle.ImportKey(ctx, request.Format, request.KeyData, request.Algorithm, request.Extractable, request.Usages)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ImportKeyResponse{Key: handle})
}

// ExportKey handles the POST request to export a key
func (handler *subtleHandler) ExportKey(ctx *gin.Context) {
	var request ExportKeyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.ExportKey(ctx, request.Format, request.Key)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ExportKeyResponse{Data: data})
}

// Encrypt handles the POST request to encipher data
func (handler *subtleHandler) Encrypt(ctx *gin.Context) {
	var request CipherRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.Encrypt(ctx, request.Algorithm, request.Key, request.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CipherResponse{Data: data})
}

// Decrypt handles the POST request to decipher data
func (handler *subtleHandler) Decrypt(ctx *gin.Context) {
	var request CipherRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.Decrypt(ctx, request.Algorithm, request.Key, request.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CipherResponse{Data: data})
}

// Sign handles the POST request to compute a signature or MAC
func (handler *subtleHandler) Sign(ctx *gin.Context) {
	var request CipherRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.Sign(ctx, request.Algorithm, request.Key, request.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CipherResponse{Data: data})
}

// Verify handles the POST request to check a signature or MAC
func (handler *subtleHandler) Verify(ctx *gin.Context) {
	var request VerifyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	valid, err := handler.subtle.Verify(ctx, request.Algorithm, request.Key, request.Signature, request.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}

// DeriveBits handles the POST request to derive keying material
func (handler *subtleHandler) DeriveBits(ctx *gin.Context) {
	var request DeriveBitsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.DeriveBits(ctx, request.Algorithm, request.Key, request.Length)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CipherResponse{Data: data})
}

// Digest handles the POST request to hash data
func (handler *subtleHandler) Digest(ctx *gin.Context) {
	var request DigestRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	data, err := handler.subtle.Digest(ctx, request.Algorithm, request.Data)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, CipherResponse{Data: data})
}
