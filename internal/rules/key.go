package rules

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for wrapper cache keys. Version suffix enables future
// algorithm migration without colliding with old keys.
const domainWrapperKey = "weft/wrapper/v1"

// CacheKey returns the stable identity of a wrapper method, used as the
// lookup key for its emitted member reference in a module's record.
//
// The key is SHA-256 over the NFC-normalized identity fields with null
// separators. NFC normalization makes byte-different spellings of the
// same name key identically; the null separators prevent field boundary
// ambiguity.
func (w WrapperMethod) CacheKey() string {
	h := sha256.New()
	h.Write([]byte(domainWrapperKey))
	for _, field := range []string{
		w.Assembly.Name,
		w.Assembly.Version,
		w.Assembly.PublicKeyToken,
		w.Type,
		w.Method,
		w.Signature,
	} {
		h.Write([]byte{0x00})
		h.Write([]byte(norm.NFC.String(field)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
