package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerNamespace returns a filesystem-safe storage namespace for an owner ID.
func OwnerNamespace(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}
