package txsubmit

import (
	"bytes"
	"testing"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

var testBlockhash = solana.MustPublicKey("Gy9zh44ttT7i5G9HPSzLKbweTWDb7EVrDfeEA4pmXpxK").String()

func testKeys(t *testing.T, n int) []solana.PublicKey {
	t.Helper()
	out := make([]solana.PublicKey, n)
	for i := range out {
		var raw [32]byte
		raw[0] = byte(i + 1)
		pk, err := solana.PublicKeyFromBytes(raw[:])
		if err != nil {
			t.Fatal(err)
		}
		out[i] = pk
	}
	return out
}

func TestCompileMessageOrdering(t *testing.T) {
	keys := testKeys(t, 4)
	feePayer, writable, readonly, program := keys[0], keys[1], keys[2], keys[3]

	msg, err := CompileMessage(feePayer, testBlockhash, []*solana.Instruction{{
		ProgramID: program,
		Accounts: []solana.AccountMeta{
			solana.Meta(readonly),
			solana.WritableMeta(writable),
		},
		Data: []byte{1, 2, 3},
	}})
	if err != nil {
		t.Fatalf("CompileMessage: %v", err)
	}

	want := []solana.PublicKey{feePayer, writable, readonly, program}
	if len(msg.AccountKeys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(msg.AccountKeys), len(want))
	}
	for i, key := range want {
		if msg.AccountKeys[i] != key {
			t.Errorf("key %d = %s, want %s", i, msg.AccountKeys[i].Short(), key.Short())
		}
	}

	h := msg.Header
	if h.NumRequiredSignatures != 1 || h.NumReadonlySignedAccounts != 0 || h.NumReadonlyUnsignedAccounts != 2 {
		t.Errorf("header = %+v", h)
	}

	ix := msg.Instructions[0]
	if ix.ProgramIDIndex != 3 {
		t.Errorf("ProgramIDIndex = %d, want 3", ix.ProgramIDIndex)
	}
	if !bytes.Equal(ix.AccountIndices, []uint8{2, 1}) {
		t.Errorf("AccountIndices = %v, want [2 1]", ix.AccountIndices)
	}
}

func TestCompileMessageMergesFlags(t *testing.T) {
	keys := testKeys(t, 2)
	feePayer, shared := keys[0], keys[1]

	// The same account read-only in one instruction and writable in another
	// must end up writable.
	msg, err := CompileMessage(feePayer, testBlockhash, []*solana.Instruction{
		{ProgramID: solana.TokenProgramID, Accounts: []solana.AccountMeta{solana.Meta(shared)}},
		{ProgramID: solana.TokenProgramID, Accounts: []solana.AccountMeta{solana.WritableMeta(shared)}},
	})
	if err != nil {
		t.Fatalf("CompileMessage: %v", err)
	}
	if msg.AccountKeys[1] != shared {
		t.Fatalf("key 1 = %s, want shared account", msg.AccountKeys[1].Short())
	}
	if msg.Header.NumReadonlyUnsignedAccounts != 1 {
		t.Errorf("NumReadonlyUnsignedAccounts = %d, want 1 (program only)", msg.Header.NumReadonlyUnsignedAccounts)
	}
}

func TestCompileMessageRejectsEmptyAndBadHash(t *testing.T) {
	keys := testKeys(t, 1)
	if _, err := CompileMessage(keys[0], testBlockhash, nil); err == nil {
		t.Error("expected error for empty instruction list")
	}
	if _, err := CompileMessage(keys[0], "short", []*solana.Instruction{{ProgramID: solana.TokenProgramID}}); err == nil {
		t.Error("expected error for malformed blockhash")
	}
}

func TestMessageSerializeLayout(t *testing.T) {
	keys := testKeys(t, 2)
	msg, err := CompileMessage(keys[0], testBlockhash, []*solana.Instruction{{
		ProgramID: keys[1],
		Data:      []byte{9, 9},
	}})
	if err != nil {
		t.Fatal(err)
	}

	raw := msg.Serialize()
	if raw[0] != 1 {
		t.Errorf("NumRequiredSignatures byte = %d, want 1", raw[0])
	}
	if raw[3] != 2 {
		t.Errorf("account key count = %d, want 2", raw[3])
	}
	// header(3) + count(1) + keys(64) + blockhash(32) + ix count(1)
	wantLen := 3 + 1 + 64 + 32 + 1 + (1 + 1 + 1 + 2)
	if len(raw) != wantLen {
		t.Errorf("serialized length = %d, want %d", len(raw), wantLen)
	}
}

func TestTransactionSignatures(t *testing.T) {
	keys := testKeys(t, 2)
	msg, err := CompileMessage(keys[0], testBlockhash, []*solana.Instruction{{ProgramID: keys[1]}})
	if err != nil {
		t.Fatal(err)
	}

	tx := NewTransaction(msg)
	if len(tx.Signatures) != 1 {
		t.Fatalf("got %d signature slots", len(tx.Signatures))
	}

	sig := bytes.Repeat([]byte{7}, 64)
	if err := tx.SetSignature(keys[0], sig); err != nil {
		t.Fatalf("SetSignature: %v", err)
	}
	if err := tx.SetSignature(keys[1], sig); err == nil {
		t.Error("SetSignature accepted a non-signer")
	}
	if err := tx.SetSignature(keys[0], []byte{1}); err == nil {
		t.Error("SetSignature accepted a short signature")
	}

	raw := tx.Serialize()
	if raw[0] != 1 {
		t.Errorf("signature count byte = %d, want 1", raw[0])
	}
	if !bytes.Equal(raw[1:65], sig) {
		t.Error("serialized signature mismatch")
	}
	if !bytes.Equal(raw[65:], msg.Serialize()) {
		t.Error("serialized message mismatch")
	}
}

func TestAppendCompactU16(t *testing.T) {
	cases := []struct {
		val  int
		want []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{127, []byte{127}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		if got := appendCompactU16(nil, c.val); !bytes.Equal(got, c.want) {
			t.Errorf("appendCompactU16(%d) = %v, want %v", c.val, got, c.want)
		}
	}
}
