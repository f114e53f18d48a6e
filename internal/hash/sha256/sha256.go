// Package sha256 provides the snapshot fingerprint implementation.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hasher implements pricing.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex digest of the UTF-8 bytes of text.
func (h *Hasher) Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NormalizeBlob prepares previously persisted snapshot text for hashing:
// non-breaking spaces become ordinary spaces, CRLF becomes LF, and the
// result is trimmed. Freshly canonicalized text is already in this form,
// so applying it to both sides of a comparison is a no-op on the new side.
func NormalizeBlob(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}

// Short returns a digest prefix suitable for log correlation.
func Short(digest string) string {
	if len(digest) <= 8 {
		return digest
	}
	return digest[:8]
}
