package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	hashScheme  = "argon2id"
	saltLen     = 16
	keyLen      = 32
	argonTime   = 1
	argonMemory = 64 * 1024
	argonLanes  = 4
)

// HashPassword returns "argon2id$<salt hex>$<key hex>" for password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := deriveKey(password, salt)
	return strings.Join([]string{hashScheme, hex.EncodeToString(salt), hex.EncodeToString(key)}, "$"), nil
}

// VerifyPassword reports whether password matches encoded. Malformed
// hashes never match.
func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != keyLen {
		return false
	}
	got := deriveKey(password, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonLanes, keyLen)
}
