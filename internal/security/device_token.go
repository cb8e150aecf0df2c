package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	encryptionKeyEnv = "GATEWAY_ENCRYPTION_KEY"

	// TokenCipherPrefix marks device tokens that are encrypted at rest.
	TokenCipherPrefix = "enc:"
)

var (
	tokenCipherOnce sync.Once
	tokenCipherGCM  cipher.AEAD
	tokenCipherErr  error
)

func getTokenCipher() (cipher.AEAD, error) {
	tokenCipherOnce.Do(func() {
		rawKey := strings.TrimSpace(os.Getenv(encryptionKeyEnv))
		if rawKey == "" {
			tokenCipherErr = errors.New("device token encryption key not set: " + encryptionKeyEnv)
			return
		}

		block, err := aes.NewCipher(deriveKey(rawKey))
		if err != nil {
			tokenCipherErr = fmt.Errorf("create cipher: %w", err)
			return
		}

		tokenCipherGCM, tokenCipherErr = cipher.NewGCM(block)
	})

	return tokenCipherGCM, tokenCipherErr
}

// deriveKey accepts either a base64-encoded key of a valid AES length or an
// arbitrary passphrase, which is stretched with SHA-256.
func deriveKey(raw string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		switch len(decoded) {
		case 16, 24, 32:
			return decoded
		}
	}

	sum := sha256.Sum256([]byte(raw))
	return sum[:]
}

// EncryptDeviceToken seals a pairing token for storage. Empty tokens stay
// empty.
func EncryptDeviceToken(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	gcm, err := getTokenCipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plain), nil)
	return TokenCipherPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptDeviceToken opens a stored token. Values without the cipher prefix
// are passed through untouched so device files written before encryption was
// enabled keep working.
func DecryptDeviceToken(stored string) (string, error) {
	if !strings.HasPrefix(stored, TokenCipherPrefix) {
		return stored, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, TokenCipherPrefix))
	if err != nil {
		return "", fmt.Errorf("decode token ciphertext: %w", err)
	}

	gcm, err := getTokenCipher()
	if err != nil {
		return "", err
	}

	if len(data) <= gcm.NonceSize() {
		return "", errors.New("token ciphertext too short")
	}

	plain, err := gcm.Open(nil, data[:gcm.NonceSize()], data[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}

	return string(plain), nil
}

func ResetTokenCipherForTests() {
	tokenCipherOnce = sync.Once{}
	tokenCipherGCM = nil
	tokenCipherErr = nil
}
