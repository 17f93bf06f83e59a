package cryptoalg

// AES block mode constants
const (
	AESModeCBC = "CBC"
	AESModeCTR = "CTR"
	AESModeGCM = "GCM"
	AESModeECB = "ECB"
	AESModeKW  = "KW"
)

// DefaultGCMTagLength is the GCM authentication tag size in bits when the
// caller does not request one.
const DefaultGCMTagLength = 128

// AESParams carries the per-operation parameters of an AES cipher call.
// Which fields matter depends on the mode: CBC and GCM read IV, CTR reads
// Counter and CounterLength, GCM additionally reads TagLength and
// AdditionalData. ECB and KW take no parameters.
type AESParams struct {
	Mode           string
	IV             []byte
	Counter        []byte
	CounterLength  int
	TagLength      int
	AdditionalData []byte
}

// AESProcessor handles the AES cipher modes. GCM appends the authentication
// tag after the ciphertext on encrypt and consumes it from the tail on
// decrypt; KW is RFC 3394 key wrapping with the fixed initial value.
type AESProcessor interface {
	// GenerateKey draws a random AES key. Supported lengths: 128, 192 and
	// 256 bits.
	GenerateKey(lengthBits int) ([]byte, error)

	// Encrypt enciphers plaintext under the key with the mode selected in
	// params.
	Encrypt(params *AESParams, key, plaintext []byte) ([]byte, error)

	// Decrypt deciphers ciphertext under the key with the mode selected in
	// params.
	Decrypt(params *AESParams, key, ciphertext []byte) ([]byte, error)
}

// CMACProcessor computes and verifies AES-CMAC (RFC 4493) MACs.
type CMACProcessor interface {
	// GenerateKey draws a random AES key for CMAC use.
	GenerateKey(lengthBits int) ([]byte, error)

	// Sign computes the 16-byte MAC of message under key.
	Sign(key, message []byte) ([]byte, error)

	// Verify recomputes the MAC and compares it against mac over its full
	// length.
	Verify(key, message, mac []byte) (bool, error)
}

// DESProcessor handles DES-CBC and DES-EDE3-CBC.
type DESProcessor interface {
	// GenerateKey draws a random key. 64 bits selects single DES, 192 bits
	// selects three-key triple DES.
	GenerateKey(lengthBits int) ([]byte, error)

	// Encrypt enciphers plaintext in CBC mode with PKCS#7 padding.
	Encrypt(iv, key, plaintext []byte) ([]byte, error)

	// Decrypt deciphers CBC ciphertext and strips the padding.
	Decrypt(iv, key, ciphertext []byte) ([]byte, error)
}
