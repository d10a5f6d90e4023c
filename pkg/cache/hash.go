package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives a snapshot key as "namespace:digest", where the digest
// covers the JSON form of parts. Two renders share a key only when grid,
// effect, viewport, sample and format all match.
func hashKey(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return namespace + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Frame hashes and file cache
// entry names both use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
