package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the hex SHA256 digest of data
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ETag renders a strong HTTP entity tag for data
func ETag(data []byte) string {
	return `"` + Short(Hash(data)) + `"`
}

// Short truncates a digest to 16 characters for display
func Short(digest string) string {
	if len(digest) < 16 {
		return digest
	}
	return digest[:16]
}
