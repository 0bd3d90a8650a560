package payload

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/salsa20"
)

// Codec encrypts and decrypts request/response bodies with a static key
// shared with the client apps. The wire format is base64(nonce || ciphertext)
// with an 8-byte random nonce; the payload underneath is always JSON.
type Codec struct {
	key [32]byte
}

// NewCodec derives the cipher key from the shared secret.
func NewCodec(secret string) *Codec {
	return &Codec{key: sha256.Sum256([]byte(secret))}
}

const nonceSize = 8

// Encrypt encrypts plaintext and returns the base64 wire form.
func (c *Codec) Encrypt(plaintext []byte) (string, error) {
	buf := make([]byte, nonceSize+len(plaintext))
	nonce := buf[:nonceSize]
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	salsa20.XORKeyStream(buf[nonceSize:], plaintext, nonce, &c.key)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt decodes the base64 wire form and returns the plaintext.
func (c *Codec) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("payload is not valid base64: %w", err)
	}
	if len(raw) < nonceSize {
		return nil, fmt.Errorf("payload too short")
	}
	plaintext := make([]byte, len(raw)-nonceSize)
	salsa20.XORKeyStream(plaintext, raw[nonceSize:], raw[:nonceSize], &c.key)
	return plaintext, nil
}

// EncryptJSON marshals v and encrypts the result.
func (c *Codec) EncryptJSON(v interface{}) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return c.Encrypt(plaintext)
}

// DecryptJSON decrypts the wire form and unmarshals the plaintext into v.
func (c *Codec) DecryptJSON(encoded string, v interface{}) error {
	plaintext, err := c.Decrypt(encoded)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
