package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyTypeManifest labels manifest entries in cache hooks.
const KeyTypeManifest = "manifest"

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ManifestKey returns the cache key for a remote manifest source.
func ManifestKey(source string) string {
	return KeyTypeManifest + ":" + Hash([]byte(source))
}
