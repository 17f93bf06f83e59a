package webcrypto

// Key format constants
const (
	FormatRaw   = "raw"
	FormatJWK   = "jwk"
	FormatPKCS8 = "pkcs8"
	FormatSPKI  = "spki"
)

// Key usage constants
const (
	UsageEncrypt    = "encrypt"
	UsageDecrypt    = "decrypt"
	UsageSign       = "sign"
	UsageVerify     = "verify"
	UsageWrapKey    = "wrapKey"
	UsageUnwrapKey  = "unwrapKey"
	UsageDeriveKey  = "deriveKey"
	UsageDeriveBits = "deriveBits"
)

// WebCrypto algorithm name constants
const (
	AlgAESCBC     = "AES-CBC"
	AlgAESCTR     = "AES-CTR"
	AlgAESGCM     = "AES-GCM"
	AlgAESECB     = "AES-ECB"
	AlgAESKW      = "AES-KW"
	AlgAESCMAC    = "AES-CMAC"
	AlgDESCBC     = "DES-CBC"
	AlgDESEDE3CBC = "DES-EDE3-CBC"
	AlgRSASSA     = "RSASSA-PKCS1-v1_5"
	AlgRSAPSS     = "RSA-PSS"
	AlgRSAOAEP    = "RSA-OAEP"
	AlgECDSA      = "ECDSA"
	AlgECDH       = "ECDH"
	AlgEd25519    = "Ed25519"
	AlgEd448      = "Ed448"
	AlgX25519     = "X25519"
	AlgX448       = "X448"
	AlgHMAC       = "HMAC"
	AlgHKDF       = "HKDF"
	AlgPBKDF2     = "PBKDF2"
	AlgSHA1       = "SHA-1"
	AlgSHA256     = "SHA-256"
	AlgSHA384     = "SHA-384"
	AlgSHA512     = "SHA-512"
)

// Named curve constants
const (
	CurveP256    = "P-256"
	CurveP384    = "P-384"
	CurveP521    = "P-521"
	CurveK256    = "K-256"
	CurveEd25519 = "Ed25519"
	CurveEd448   = "Ed448"
	CurveX25519  = "X25519"
	CurveX448    = "X448"
)
