//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/domain/webcrypto"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/keystore"
	"github.com/sdaliyot/webcrypto/internal/pkg/testutil"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testutil.SetupTestLogger(t)
	registry, err := keystore.NewRegistry(nil, log)
	require.NoError(t, err)
	subtle, err := app.NewSubtle(registry, log)
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, subtle)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, err := http.NewRequest("POST", BasePath+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	return w
}

func TestSubtleHandler_GenerateKey(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/generate", GenerateKeyRequest{
		Algorithm:   &keys.Algorithm{Name: webcrypto.AlgAESGCM, Length: 256},
		Extractable: true,
		Usages:      []string{webcrypto.UsageEncrypt, webcrypto.UsageDecrypt},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response GenerateKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.SecretKey)
	assert.Equal(t, keys.ClassSecret, response.SecretKey.Type)
	assert.NotEmpty(t, response.SecretKey.ID)
	assert.Nil(t, response.PublicKey)
}

func TestSubtleHandler_GenerateKey_InvalidRequest(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/generate", map[string]interface{}{"extractable": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request")
}

func TestSubtleHandler_GenerateKey_UnknownAlgorithm(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/generate", GenerateKeyRequest{
		Algorithm: &keys.Algorithm{Name: "AES-XTS"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unrecognized algorithm name")
}

func TestSubtleHandler_EncryptDecryptRoundTrip(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/generate", GenerateKeyRequest{
		Algorithm:   &keys.Algorithm{Name: webcrypto.AlgAESGCM, Length: 128},
		Extractable: true,
		Usages:      []string{webcrypto.UsageEncrypt, webcrypto.UsageDecrypt},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var generated GenerateKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))

	opAlg := &keys.Algorithm{
		Name: webcrypto.AlgAESGCM,
		IV:   testutil.MustHex(t, "000102030405060708090a0b"),
	}
	plainText := []byte("round trip over the wire")

	w = postJSON(t, router, "/encrypt", CipherRequest{
		Algorithm: opAlg,
		Key:       generated.SecretKey,
		Data:      plainText,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var encrypted CipherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encrypted))
	assert.Equal(t, len(plainText)+16, len(encrypted.Data))

	w = postJSON(t, router, "/decrypt", CipherRequest{
		Algorithm: opAlg,
		Key:       generated.SecretKey,
		Data:      encrypted.Data,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var decrypted CipherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decrypted))
	assert.Equal(t, plainText, decrypted.Data)
}

func TestSubtleHandler_HandleSurvivesRestart(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/generate", GenerateKeyRequest{
		Algorithm:   &keys.Algorithm{Name: webcrypto.AlgHMAC, Hash: webcrypto.AlgSHA256},
		Extractable: true,
		Usages:      []string{webcrypto.UsageSign, webcrypto.UsageVerify},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var generated GenerateKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))

	// A fresh router simulates a restarted service with an empty registry.
	// The handle's sealed snapshot carries the material across.
	restarted := setupTestRouter(t)

	data := []byte("portable handle")
	w = postJSON(t, restarted, "/sign", CipherRequest{
		Algorithm: &keys.Algorithm{Name: webcrypto.AlgHMAC},
		Key:       generated.SecretKey,
		Data:      data,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var signed CipherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signed))

	w = postJSON(t, restarted, "/verify", VerifyRequest{
		Algorithm: &keys.Algorithm{Name: webcrypto.AlgHMAC},
		Key:       generated.SecretKey,
		Signature: signed.Data,
		Data:      data,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var verified VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.True(t, verified.Valid)
}

func TestSubtleHandler_UnknownHandleReturnsNotFound(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/export-key-missing-route-check", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(t, router, "/keys/export", ExportKeyRequest{
		Format: webcrypto.FormatRaw,
		Key:    &keys.Handle{ID: "no-such-key", Type: keys.ClassSecret, Algorithm: &keys.Algorithm{Name: webcrypto.AlgAESGCM}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "key not found in secure storage")
}

func TestSubtleHandler_ImportExport(t *testing.T) {
	router := setupTestRouter(t)

	secret := testutil.MustHex(t, "000102030405060708090a0b0c0d0e0f")
	w := postJSON(t, router, "/keys/import", ImportKeyRequest{
		Format:      webcrypto.FormatRaw,
		KeyData:     secret,
		Algorithm:   &keys.Algorithm{Name: webcrypto.AlgAESCBC},
		Extractable: true,
		Usages:      []string{webcrypto.UsageEncrypt},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var imported ImportKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	assert.Equal(t, 128, imported.Key.Algorithm.Length)

	w = postJSON(t, router, "/keys/export", ExportKeyRequest{
		Format: webcrypto.FormatRaw,
		Key:    imported.Key,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var exported ExportKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Equal(t, secret, exported.Data)
}

func TestSubtleHandler_Digest(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/digest", DigestRequest{
		Algorithm: &keys.Algorithm{Name: webcrypto.AlgSHA256},
		Data:      []byte("abc"),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response CipherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t,
		testutil.MustHex(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
		response.Data)
}

func TestSubtleHandler_DeriveBits(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/keys/import", ImportKeyRequest{
		Format:    webcrypto.FormatRaw,
		KeyData:   []byte("password"),
		Algorithm: &keys.Algorithm{Name: webcrypto.AlgPBKDF2},
		Usages:    []string{webcrypto.UsageDeriveBits},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var imported ImportKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))

	w = postJSON(t, router, "/derive-bits", DeriveBitsRequest{
		Algorithm: &keys.Algorithm{
			Name:       webcrypto.AlgPBKDF2,
			Hash:       webcrypto.AlgSHA1,
			Salt:       []byte("salt"),
			Iterations: 1,
		},
		Key:    imported.Key,
		Length: 160,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var derived CipherResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &derived))
	assert.Equal(t, testutil.MustHex(t, "0c60c80f961f0e71f3a9b524af6012062fe037a6"), derived.Data)
}
