package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"

	nanoid "github.com/aidarkhanov/nanoid/v2"
)

// RandomTokenString generates random hex token
func RandomTokenString(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// VALID_NANOID_CHAR excludes "_" and "-": ids are joined with "_" to
// form room ids, so the delimiter must never occur inside an id
const VALID_NANOID_CHAR = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// NewID generates a url safe unique id
func NewID() (string, error) {
	return nanoid.GenerateString(VALID_NANOID_CHAR, 21)
}

// ParseStringToInt parses string to int
func ParseStringToInt(str string) (int64, error) {
	return strconv.ParseInt(str, 10, 64)
}
