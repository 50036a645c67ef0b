package layout

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBytes_TupleBase64(t *testing.T) {
	raw := json.RawMessage(`["aGVsbG8=", "base64"]`)
	got, err := AccountBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestAccountBytes_TupleBase58(t *testing.T) {
	// "Cn8eVZg" is base58 for "hello"
	raw := json.RawMessage(`["Cn8eVZg", "base58"]`)
	got, err := AccountBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestAccountBytes_BareString(t *testing.T) {
	raw := json.RawMessage(`"aGVsbG8="`)
	got, err := AccountBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestAccountBytes_NumericArray(t *testing.T) {
	raw := json.RawMessage(`[104, 101, 108, 108, 111]`)
	got, err := AccountBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestAccountBytes_Null(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`)} {
		_, err := AccountBytes(raw)
		assert.ErrorIs(t, err, ErrNoData)
	}
}

func TestAccountBytes_UnsupportedShapes(t *testing.T) {
	cases := []string{
		`{"data": "aGVsbG8="}`,
		`["aGVsbG8=", "hex"]`,
		`"not!base64!"`,
		`[300, 1, 2]`,
		`true`,
	}
	for _, c := range cases {
		_, err := AccountBytes(json.RawMessage(c))
		assert.ErrorIs(t, err, ErrBadDataShape, "input %s", c)
		assert.False(t, errors.Is(err, ErrNoData), "input %s", c)
	}
}

func TestAccountBytes_EmptyTuple(t *testing.T) {
	_, err := AccountBytes(json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrNoData)
}
