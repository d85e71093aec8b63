package config

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Provider session cookies are opaque blobs issued by the provider's site
// and pasted in by the operator. They are kept fernet-encrypted in the
// environment so a leaked .env file does not hand out a live session.

// DecryptSecret verifies and decrypts a fernet token with the given key.
// Tokens are accepted regardless of age: cookies are rotated by the
// operator when the provider invalidates them, not by TTL.
func DecryptSecret(key, token string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret key: %w", err)
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if msg == nil {
		return "", fmt.Errorf("secret token failed verification")
	}
	return string(msg), nil
}

// EncryptSecret encrypts a value into a fernet token under the given key.
func EncryptSecret(key, value string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret key: %w", err)
	}
	tok, err := fernet.EncryptAndSign([]byte(value), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(tok), nil
}

// GenerateSecretKey returns a fresh base64-encoded fernet key.
func GenerateSecretKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return k.Encode(), nil
}
