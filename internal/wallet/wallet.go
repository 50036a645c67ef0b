// Package wallet abstracts transaction signing so the dashboard can run
// either with a local keypair or in watch-only mode.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mr-tron/base58"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// ErrReadOnly is returned when a signing operation is attempted on a
// watch-only wallet.
var ErrReadOnly = errors.New("wallet is read-only")

// Wallet signs transaction messages for one public key.
type Wallet interface {
	// PublicKey returns the wallet's address.
	PublicKey() solana.PublicKey

	// Sign returns the ed25519 signature over a serialized message.
	Sign(message []byte) ([]byte, error)

	// SignAll signs several messages in order, failing on the first error.
	SignAll(messages [][]byte) ([][]byte, error)

	// Disconnect releases the wallet. Signing after Disconnect fails.
	Disconnect() error
}

// Keypair is a Wallet backed by a local ed25519 keypair.
type Keypair struct {
	pub          solana.PublicKey
	priv         ed25519.PrivateKey
	disconnected bool
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	pk, err := solana.PublicKeyFromBytes(pub)
	if err != nil {
		return nil, err
	}
	return &Keypair{pub: pk, priv: priv}, nil
}

// FromSecretBytes builds a keypair from the 64-byte expanded secret key
// (seed followed by public key), the layout solana-keygen writes.
func FromSecretBytes(secret []byte) (*Keypair, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(secret))
	}
	priv := ed25519.PrivateKey(append([]byte(nil), secret...))
	pk, err := solana.PublicKeyFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{pub: pk, priv: priv}, nil
}

// FromBase58 builds a keypair from a base58-encoded 64-byte secret key.
func FromBase58(s string) (*Keypair, error) {
	secret, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	return FromSecretBytes(secret)
}

// Load reads a keypair file in the JSON byte-array format solana-keygen
// produces.
func Load(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	var bytes []byte
	if err := json.Unmarshal(raw, &bytes); err != nil {
		// json decodes []byte from a base64 string; keypair files hold a
		// number array, so decode through []int when that fails.
		var ints []int
		if err2 := json.Unmarshal(raw, &ints); err2 != nil {
			return nil, fmt.Errorf("parse keypair file: %w", err2)
		}
		bytes = make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("keypair file byte %d out of range: %d", i, v)
			}
			bytes[i] = byte(v)
		}
	}
	return FromSecretBytes(bytes)
}

// PublicKey returns the wallet's address.
func (k *Keypair) PublicKey() solana.PublicKey {
	return k.pub
}

// Sign returns the ed25519 signature over message.
func (k *Keypair) Sign(message []byte) ([]byte, error) {
	if k.disconnected {
		return nil, errors.New("wallet disconnected")
	}
	return ed25519.Sign(k.priv, message), nil
}

// SignAll signs every message in order.
func (k *Keypair) SignAll(messages [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(messages))
	for _, msg := range messages {
		sig, err := k.Sign(msg)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, nil
}

// Disconnected reports whether Disconnect has been called.
func (k *Keypair) Disconnected() bool {
	return k.disconnected
}

// Disconnect drops the private key reference. Further signing fails.
func (k *Keypair) Disconnect() error {
	k.disconnected = true
	k.priv = nil
	return nil
}

// ReadOnly is a watch-only Wallet for a known address. Every signing
// operation fails with ErrReadOnly.
type ReadOnly struct {
	pub solana.PublicKey
}

// NewReadOnly creates a watch-only wallet for pub.
func NewReadOnly(pub solana.PublicKey) *ReadOnly {
	return &ReadOnly{pub: pub}
}

// PublicKey returns the watched address.
func (r *ReadOnly) PublicKey() solana.PublicKey {
	return r.pub
}

// Sign always fails with ErrReadOnly.
func (r *ReadOnly) Sign([]byte) ([]byte, error) {
	return nil, ErrReadOnly
}

// SignAll always fails with ErrReadOnly.
func (r *ReadOnly) SignAll([][]byte) ([][]byte, error) {
	return nil, ErrReadOnly
}

// Disconnect is a no-op for a watch-only wallet.
func (r *ReadOnly) Disconnect() error {
	return nil
}
