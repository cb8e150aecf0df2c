package security

import (
	"strings"
	"testing"
)

const testEncryptionKey = "unit-test-encryption-key"

func TestEncryptDecryptDeviceToken(t *testing.T) {
	t.Setenv(encryptionKeyEnv, testEncryptionKey)
	ResetTokenCipherForTests()

	sealed, err := EncryptDeviceToken("pairing-token-123")
	if err != nil {
		t.Fatalf("EncryptDeviceToken returned error: %v", err)
	}
	if !strings.HasPrefix(sealed, TokenCipherPrefix) {
		t.Fatalf("sealed token %q is missing the cipher prefix", sealed)
	}

	plain, err := DecryptDeviceToken(sealed)
	if err != nil {
		t.Fatalf("DecryptDeviceToken returned error: %v", err)
	}
	if plain != "pairing-token-123" {
		t.Fatalf("DecryptDeviceToken returned %q, want pairing-token-123", plain)
	}
}

func TestDecryptLegacyPlaintextToken(t *testing.T) {
	t.Setenv(encryptionKeyEnv, testEncryptionKey)
	ResetTokenCipherForTests()

	plain, err := DecryptDeviceToken("legacy-plaintext-token")
	if err != nil {
		t.Fatalf("DecryptDeviceToken returned error: %v", err)
	}
	if plain != "legacy-plaintext-token" {
		t.Fatalf("DecryptDeviceToken returned %q, want passthrough", plain)
	}
}

func TestEncryptDeviceTokenMissingKey(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "")
	ResetTokenCipherForTests()

	if _, err := EncryptDeviceToken("token"); err == nil {
		t.Fatal("expected error when encryption key is missing")
	}
}

func TestEncryptDeviceTokenEmpty(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "")
	ResetTokenCipherForTests()

	sealed, err := EncryptDeviceToken("")
	if err != nil {
		t.Fatalf("EncryptDeviceToken(\"\") returned error: %v", err)
	}
	if sealed != "" {
		t.Fatalf("EncryptDeviceToken(\"\") = %q, want empty string", sealed)
	}
}
