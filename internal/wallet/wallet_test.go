package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestKeypairSignVerifies(t *testing.T) {
	kp, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}

	msg := []byte("message to sign")
	sig, err := kp.Sign(msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != ed25519.SignatureSize {
		t.Fatalf("signature length = %d", len(sig))
	}
	if !ed25519.Verify(kp.PublicKey().Bytes(), msg, sig) {
		t.Error("signature does not verify against the wallet public key")
	}
}

func TestSignAllOrder(t *testing.T) {
	kp, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}

	msgs := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	sigs, err := kp.SignAll(msgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(sigs) != 3 {
		t.Fatalf("got %d signatures", len(sigs))
	}
	for i, msg := range msgs {
		if !ed25519.Verify(kp.PublicKey().Bytes(), msg, sigs[i]) {
			t.Errorf("signature %d does not match message %q", i, msg)
		}
	}
}

func TestDisconnectStopsSigning(t *testing.T) {
	kp, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	if err := kp.Disconnect(); err != nil {
		t.Fatal(err)
	}
	if !kp.Disconnected() {
		t.Error("Disconnected() = false after Disconnect")
	}
	if _, err := kp.Sign([]byte("x")); err == nil {
		t.Error("Sign succeeded after Disconnect")
	}
}

func TestLoadKeypairFile(t *testing.T) {
	kp, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}

	// solana-keygen writes the 64-byte secret as a JSON number array.
	secret := append([]byte(nil), kp.priv...)
	ints := make([]int, len(secret))
	for i, b := range secret {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "id.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.PublicKey() != kp.PublicKey() {
		t.Errorf("loaded key %s, want %s", loaded.PublicKey(), kp.PublicKey())
	}
}

func TestFromSecretBytesRejectsShortKey(t *testing.T) {
	if _, err := FromSecretBytes(make([]byte, 32)); err == nil {
		t.Error("expected error for 32-byte secret")
	}
}

func TestReadOnlyWallet(t *testing.T) {
	kp, err := NewKeypair()
	if err != nil {
		t.Fatal(err)
	}
	ro := NewReadOnly(kp.PublicKey())

	if ro.PublicKey() != kp.PublicKey() {
		t.Error("public key mismatch")
	}
	if _, err := ro.Sign([]byte("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Sign err = %v, want ErrReadOnly", err)
	}
	if _, err := ro.SignAll(nil); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SignAll err = %v, want ErrReadOnly", err)
	}
	if err := ro.Disconnect(); err != nil {
		t.Errorf("Disconnect err = %v", err)
	}
}
