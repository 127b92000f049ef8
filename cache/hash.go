package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds a namespaced key such as "image:<sha256(ref)>".
func Key(namespace, ref string) string {
	return namespace + ":" + Hash([]byte(ref))
}
