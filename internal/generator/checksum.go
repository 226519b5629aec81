package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// ComputeChecksum computes a SHA256 checksum for the given data
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// newFileHash returns the running hash used for whole-file checksums
func newFileHash() hash.Hash {
	return sha256.New()
}

// hashString formats a finished running hash like ComputeChecksum does
func hashString(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
