package keys

// Algorithm describes a WebCrypto algorithm together with the parameters of
// the operation it is used for. Key-level fields (Name, Hash, Length,
// NamedCurve, ModulusLength, PublicExponent) are captured on the handle at
// creation time; the remaining fields carry per-operation parameters and are
// only meaningful for the call they accompany.
type Algorithm struct {
	Name           string `json:"name"`
	Hash           string `json:"hash,omitempty"`
	Length         int    `json:"length,omitempty"`
	NamedCurve     string `json:"namedCurve,omitempty"`
	ModulusLength  int    `json:"modulusLength,omitempty"`
	PublicExponent uint64 `json:"publicExponent,omitempty"`

	// Operation parameters.
	Public         *Handle `json:"public,omitempty"`
	IV             []byte  `json:"iv,omitempty"`
	Counter        []byte  `json:"counter,omitempty"`
	CounterLength  int     `json:"counterLength,omitempty"`
	TagLength      int     `json:"tagLength,omitempty"`
	AdditionalData []byte  `json:"additionalData,omitempty"`
	Label          []byte  `json:"label,omitempty"`
	SaltLength     int     `json:"saltLength,omitempty"`
	Salt           []byte  `json:"salt,omitempty"`
	Info           []byte  `json:"info,omitempty"`
	Iterations     int     `json:"iterations,omitempty"`
}

// KeyParams returns a copy of the algorithm reduced to the fields that
// describe a key rather than a single operation. The reduced copy is what
// gets frozen onto handles and key material.
func (a *Algorithm) KeyParams() *Algorithm {
	if a == nil {
		return nil
	}
	return &Algorithm{
		Name:           a.Name,
		Hash:           a.Hash,
		Length:         a.Length,
		NamedCurve:     a.NamedCurve,
		ModulusLength:  a.ModulusLength,
		PublicExponent: a.PublicExponent,
	}
}
