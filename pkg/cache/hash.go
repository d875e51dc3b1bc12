package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds prefix:sha256(json(parts)). Parts that cannot be encoded,
// such as NaN floats, yield an error instead of a shared key.
func hashKey(prefix string, parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("derive %s key: %w", prefix, err)
	}
	return fmt.Sprintf("%s:%s", prefix, Hash(data)), nil
}

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
