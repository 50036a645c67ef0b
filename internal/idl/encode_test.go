package idl

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stakingTestDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Normalize([]byte(`{
		"name": "hzk_staking",
		"instructions": [
			{"name": "stake", "accounts": [], "args": [{"name": "amount", "type": "u64"}]},
			{"name": "unstake", "accounts": [], "args": [{"name": "amount", "type": "u64"}]},
			{"name": "claim_rewards", "accounts": [], "args": []}
		]
	}`))
	require.NoError(t, err)
	return doc
}

func TestEncodeInstruction_Stake(t *testing.T) {
	coder := NewCoder(stakingTestDoc(t))

	data, err := coder.EncodeInstruction("stake", map[string]interface{}{
		"amount": uint64(1234560000),
	})
	require.NoError(t, err)
	require.Len(t, data, 16)

	wantTag := sha256.Sum256([]byte("global:stake"))
	assert.Equal(t, wantTag[:8], data[:8])
	assert.Equal(t, uint64(1234560000), binary.LittleEndian.Uint64(data[8:]))
}

func TestEncodeInstruction_ClaimNoArgs(t *testing.T) {
	coder := NewCoder(stakingTestDoc(t))

	data, err := coder.EncodeInstruction("claim_rewards", nil)
	require.NoError(t, err)
	require.Len(t, data, 8)

	wantTag := sha256.Sum256([]byte("global:claim_rewards"))
	assert.Equal(t, wantTag[:8], data)
}

func TestEncodeInstruction_CarriedDiscriminator(t *testing.T) {
	doc, err := Normalize([]byte(`{
		"instructions": [
			{"name": "stake", "discriminator": [206, 176, 202, 18, 200, 209, 179, 108], "args": []}
		]
	}`))
	require.NoError(t, err)

	data, err := NewCoder(doc).EncodeInstruction("stake", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{206, 176, 202, 18, 200, 209, 179, 108}, data)
}

func TestDiscBytesRejectsOutOfRangeValues(t *testing.T) {
	var d DiscBytes
	err := json.Unmarshal([]byte(`[206, 300, 202, 18, 200, 209, 179, 108]`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of byte range")

	require.NoError(t, json.Unmarshal([]byte(`[206, 176, 202, 18, 200, 209, 179, 108]`), &d))
	assert.Equal(t, DiscBytes{206, 176, 202, 18, 200, 209, 179, 108}, d)
}

func TestEncodeInstruction_MissingArgument(t *testing.T) {
	coder := NewCoder(stakingTestDoc(t))
	_, err := coder.EncodeInstruction("stake", nil)
	assert.Error(t, err)
}

func TestEncodeInstruction_ExtraArgument(t *testing.T) {
	coder := NewCoder(stakingTestDoc(t))
	_, err := coder.EncodeInstruction("claim_rewards", map[string]interface{}{
		"amount": uint64(1),
	})
	assert.Error(t, err)
}

func TestEncodeInstruction_Unknown(t *testing.T) {
	coder := NewCoder(stakingTestDoc(t))
	_, err := coder.EncodeInstruction("withdraw_all", nil)
	assert.Error(t, err)
}

func TestEncodeValue_Scalars(t *testing.T) {
	cases := []struct {
		schema string
		value  interface{}
		want   []byte
	}{
		{`"u8"`, uint64(7), []byte{7}},
		{`"u16"`, uint64(0x0201), []byte{1, 2}},
		{`"u32"`, uint64(0x04030201), []byte{1, 2, 3, 4}},
		{`"u64"`, uint64(0x0807060504030201), []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{`"bool"`, true, []byte{1}},
		{`"bool"`, false, []byte{0}},
		{`"i64"`, int64(-1), []byte{255, 255, 255, 255, 255, 255, 255, 255}},
	}
	for _, c := range cases {
		got, err := encodeValue([]byte(c.schema), c.value)
		require.NoError(t, err, "schema %s", c.schema)
		assert.Equal(t, c.want, got, "schema %s", c.schema)
	}
}

func TestEncodeValue_Overflow(t *testing.T) {
	_, err := encodeValue([]byte(`"u8"`), uint64(256))
	assert.Error(t, err)
	_, err = encodeValue([]byte(`"u16"`), uint64(1<<16))
	assert.Error(t, err)
}

func TestEncodeValue_DefinedObjectForm(t *testing.T) {
	got, err := encodeValue([]byte(`{"defined": "u64"}`), uint64(5))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0, 0, 0}, got)
}
