package utils

import (
	"encoding/base64"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	publicKey, privateKey, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("GenerateVAPIDKeys() erreur = %v", err)
	}

	pub, err := base64.RawURLEncoding.DecodeString(publicKey)
	if err != nil {
		t.Fatalf("clé publique non décodable: %v", err)
	}
	// Point P-256 non compressé: 0x04 + X (32) + Y (32)
	if len(pub) != 65 {
		t.Errorf("len(publicKey) = %d, attendu 65", len(pub))
	}

	priv, err := base64.RawURLEncoding.DecodeString(privateKey)
	if err != nil {
		t.Fatalf("clé privée non décodable: %v", err)
	}
	if len(priv) != 32 {
		t.Errorf("len(privateKey) = %d, attendu 32", len(priv))
	}
}

func TestGenerateVAPIDKeysUniques(t *testing.T) {
	pub1, _, _ := GenerateVAPIDKeys()
	pub2, _, _ := GenerateVAPIDKeys()
	if pub1 == pub2 {
		t.Error("deux générations ne doivent pas produire la même clé")
	}
}
