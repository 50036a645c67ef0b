package solana

import (
	"testing"
)

func TestPublicKeyBase58RoundTrip(t *testing.T) {
	const addr = "CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn"

	pk, err := PublicKeyFromBase58(addr)
	if err != nil {
		t.Fatalf("PublicKeyFromBase58: %v", err)
	}
	if got := pk.String(); got != addr {
		t.Errorf("round trip mismatch: got %s, want %s", got, addr)
	}
}

func TestPublicKeyFromBase58_Invalid(t *testing.T) {
	cases := []string{
		"",
		"0OIl",          // illegal base58 alphabet
		"abc",           // too short
		"CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjknCRDwYUDJ", // too long
	}
	for _, c := range cases {
		if _, err := PublicKeyFromBase58(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestSystemProgramIsZero(t *testing.T) {
	if !SystemProgramID.IsZero() {
		t.Error("system program address should be the all-zero key")
	}
	if SystemProgramID.String() != "11111111111111111111111111111111" {
		t.Errorf("unexpected system program encoding: %s", SystemProgramID)
	}
}

func TestShort(t *testing.T) {
	pk := MustPublicKey("CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn")
	short := pk.Short()
	if short != "CRDw...Qjkn" {
		t.Errorf("unexpected short form: %s", short)
	}
}

func TestFindProgramAddress_Deterministic(t *testing.T) {
	program := MustPublicKey("CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn")
	owner := MustPublicKey("Gy9zh44ttT7i5G9HPSzLKbweTWDb7EVrDfeEA4pmXpxK")
	pool := MustPublicKey("7JTJnze4Wru7byHHJofnCt5kash5PfDpZowisvNu8s9n")

	seeds := [][]byte{[]byte("user"), owner[:], pool[:]}

	addr1, bump1, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	addr2, bump2, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}

	if addr1 != addr2 || bump1 != bump2 {
		t.Error("derivation is not deterministic")
	}
	if isOnCurve(addr1[:]) {
		t.Error("derived address must be off the ed25519 curve")
	}
}

func TestFindProgramAddress_SeedSensitivity(t *testing.T) {
	program := MustPublicKey("CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn")
	owner := MustPublicKey("Gy9zh44ttT7i5G9HPSzLKbweTWDb7EVrDfeEA4pmXpxK")

	a, _, err := FindProgramAddress([][]byte{[]byte("user"), owner[:]}, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	b, _, err := FindProgramAddress([][]byte{[]byte("pool"), owner[:]}, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	if a == b {
		t.Error("different seeds must derive different addresses")
	}
}

func TestFindProgramAddress_SeedTooLong(t *testing.T) {
	program := MustPublicKey("CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn")
	if _, _, err := FindProgramAddress([][]byte{make([]byte, 33)}, program); err == nil {
		t.Error("expected error for oversized seed")
	}
}

func TestAssociatedTokenAddress(t *testing.T) {
	owner := MustPublicKey("Gy9zh44ttT7i5G9HPSzLKbweTWDb7EVrDfeEA4pmXpxK")
	mint := MustPublicKey("22v3QHqB2fq7biaWCqZbCFLRXpZbJ5sbbt7gA6AwtWUP")

	ata1, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress: %v", err)
	}
	ata2, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress: %v", err)
	}
	if ata1 != ata2 {
		t.Error("derivation is not deterministic")
	}
	if ata1 == owner || ata1 == mint {
		t.Error("associated token address must not collide with its inputs")
	}
}
