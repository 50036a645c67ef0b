package idl

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

func poolLayoutDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Normalize([]byte(`{
		"accounts": [
			{"name": "Pool", "type": {"kind": "struct", "fields": [
				{"name": "authority", "type": "publicKey"},
				{"name": "rewardMint", "type": "publicKey"},
				{"name": "rewardVault", "type": "publicKey"},
				{"name": "rewardRatePerSecond", "type": "u64"},
				{"name": "totalStaked", "type": "u64"},
				{"name": "accRewardPerShare", "type": "u128"},
				{"name": "lastUpdated", "type": "i64"}
			]}}
		]
	}`))
	require.NoError(t, err)
	return doc
}

func poolBytes(t *testing.T) ([]byte, [3][]byte) {
	t.Helper()
	var keys [3][]byte
	data := make([]byte, 8)
	for i := range keys {
		keys[i] = bytes.Repeat([]byte{byte(i + 1)}, 32)
		data = append(data, keys[i]...)
	}
	data = binary.LittleEndian.AppendUint64(data, 777)        // rewardRatePerSecond
	data = binary.LittleEndian.AppendUint64(data, 5_000_000)  // totalStaked
	data = binary.LittleEndian.AppendUint64(data, 42)         // accRewardPerShare low
	data = binary.LittleEndian.AppendUint64(data, 1)          // accRewardPerShare high
	data = binary.LittleEndian.AppendUint64(data, 17_000_000) // lastUpdated
	return data, keys
}

func TestDecodeAccount_Pool(t *testing.T) {
	coder := NewCoder(poolLayoutDoc(t))
	data, keys := poolBytes(t)

	out, err := coder.DecodeAccount("Pool", data)
	require.NoError(t, err)

	wantAuthority, err := solana.PublicKeyFromBytes(keys[0])
	require.NoError(t, err)
	assert.Equal(t, wantAuthority.String(), out["authority"])
	assert.Equal(t, uint64(777), out["rewardRatePerSecond"])
	assert.Equal(t, uint64(5_000_000), out["totalStaked"])
	assert.Equal(t, int64(17_000_000), out["lastUpdated"])

	want := new(big.Int).Lsh(big.NewInt(1), 64)
	want.Or(want, big.NewInt(42))
	assert.Equal(t, 0, want.Cmp(out["accRewardPerShare"].(*big.Int)))
}

func TestDecodeAccount_UnknownAccount(t *testing.T) {
	coder := NewCoder(poolLayoutDoc(t))
	_, err := coder.DecodeAccount("UserState", []byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined in IDL")
}

func TestDecodeAccount_ShortBuffer(t *testing.T) {
	coder := NewCoder(poolLayoutDoc(t))
	data, _ := poolBytes(t)

	_, err := coder.DecodeAccount("Pool", data[:40])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewardMint")
}

func TestDecodeAccount_UnsupportedFieldType(t *testing.T) {
	doc, err := Normalize([]byte(`{
		"accounts": [
			{"name": "Tiered", "type": {"kind": "struct", "fields": [
				{"name": "tier", "type": {"defined": "RewardTier"}}
			]}}
		]
	}`))
	require.NoError(t, err)

	_, err = NewCoder(doc).DecodeAccount("Tiered", make([]byte, 16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field type")
}
