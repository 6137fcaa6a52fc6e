package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// Codec encrypts and decrypts message bodies at rest with AES-256-CBC.
// Every Encrypt draws a fresh random IV; the IV is stored alongside the
// ciphertext, both hex encoded.
type Codec struct {
	key []byte
}

// NewCodec creates a codec from a hex-encoded 256-bit key
func NewCodec(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("message key is not valid hex")
	}
	if len(key) != 32 {
		return nil, errors.New("message key must be 32 bytes")
	}
	return &Codec{key: key}, nil
}

// Encrypt returns the hex iv and hex ciphertext of plaintext
func (c *Codec) Encrypt(plaintext string) (string, string, error) {

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err = rand.Read(iv); err != nil {
		return "", "", err
	}

	padded := pad([]byte(plaintext))
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv), hex.EncodeToString(encrypted), nil
}

// Decrypt is the exact inverse of Encrypt. A wrong or corrupted iv, key
// or ciphertext returns an error instead of panicking; bulk read paths
// treat that as unreadable content.
func (c *Codec) Decrypt(ciphertext string, iv string) (string, error) {

	ivBytes, err := hex.DecodeString(iv)
	if err != nil {
		return "", errors.New("iv is not valid hex")
	}
	if len(ivBytes) != aes.BlockSize {
		return "", errors.New("iv has wrong length")
	}

	encrypted, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", errors.New("ciphertext is not valid hex")
	}
	if len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext has wrong length")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	decrypted := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, ivBytes).CryptBlocks(decrypted, encrypted)

	unpadded, err := unpad(decrypted)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

// PKCS#7
func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.New("invalid padding")
	}
	for i := len(b) - n; i < len(b); i++ {
		if b[i] != byte(n) {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
