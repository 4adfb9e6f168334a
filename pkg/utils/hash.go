package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short SHA-256 prefix of a normalized value so contact
// details can be correlated in logs without being written to them
func Fingerprint(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}
