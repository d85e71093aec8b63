package config_test

import (
	"testing"

	"github.com/acastel/ytm-tracker/internal/config"
)

func TestSecretRoundTrip(t *testing.T) {
	key, err := config.GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey returned error: %v", err)
	}

	const cookie = "guest_profile=eyJpdiI6IkNRd3hC"

	token, err := config.EncryptSecret(key, cookie)
	if err != nil {
		t.Fatalf("EncryptSecret returned error: %v", err)
	}
	if token == cookie {
		t.Fatal("token is not encrypted")
	}

	got, err := config.DecryptSecret(key, token)
	if err != nil {
		t.Fatalf("DecryptSecret returned error: %v", err)
	}
	if got != cookie {
		t.Errorf("decrypted = %q, want %q", got, cookie)
	}
}

func TestDecryptSecretWrongKey(t *testing.T) {
	key, _ := config.GenerateSecretKey()
	other, _ := config.GenerateSecretKey()

	token, err := config.EncryptSecret(key, "value")
	if err != nil {
		t.Fatalf("EncryptSecret returned error: %v", err)
	}

	if _, err := config.DecryptSecret(other, token); err == nil {
		t.Error("DecryptSecret accepted a token signed with a different key")
	}
}
