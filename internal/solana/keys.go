package solana

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program addresses.
var (
	SystemProgramID          = MustPublicKey("11111111111111111111111111111111")
	TokenProgramID           = MustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = MustPublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysvarRentID             = MustPublicKey("SysvarRent111111111111111111111111111111111")
)

// PublicKey is a 32-byte ed25519 account address.
type PublicKey [32]byte

// PublicKeyFromBase58 parses a base58-encoded address.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pk PublicKey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("decode base58: %w", err)
	}
	if len(raw) != 32 {
		return pk, fmt.Errorf("invalid public key length %d", len(raw))
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPublicKey parses a base58 address and panics on failure.
// Use only for compile-time constants.
func MustPublicKey(s string) PublicKey {
	pk, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(fmt.Sprintf("invalid public key %q: %v", s, err))
	}
	return pk
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != 32 {
		return pk, fmt.Errorf("invalid public key length %d", len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 form.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns the raw 32 bytes.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// IsZero reports whether the key is all zeroes (the default address).
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// Short returns the abbreviated display form: first 4 + "..." + last 4.
func (pk PublicKey) Short() string {
	s := pk.String()
	if len(s) <= 10 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MarshalText implements encoding.TextMarshaler (base58).
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (base58).
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := PublicKeyFromBase58(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// FindProgramAddress derives a Program Derived Address for the given seeds.
// It searches bump seeds from 255 downward until the resulting hash is off
// the ed25519 curve, per the Solana derivation algorithm.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			if len(seed) > 32 {
				return PublicKey{}, 0, fmt.Errorf("seed exceeds 32 bytes")
			}
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, programID[:]...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			pk, _ := PublicKeyFromBytes(hash[:])
			return pk, uint8(bump), nil
		}
	}
	return PublicKey{}, 0, fmt.Errorf("no viable bump seed found")
}

// AssociatedTokenAddress derives the associated token account for
// (owner, mint) under the associated token program.
func AssociatedTokenAddress(owner, mint PublicKey) (PublicKey, error) {
	seeds := [][]byte{owner[:], TokenProgramID[:], mint[:]}
	pk, _, err := FindProgramAddress(seeds, AssociatedTokenProgramID)
	if err != nil {
		return PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return pk, nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
