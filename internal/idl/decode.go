package idl

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// accountTagLen is the 8-byte record tag prefixing every program account.
const accountTagLen = 8

// DecodeAccount decodes raw account bytes against the named account layout
// from the document, field by field in schema order. The 8-byte record tag
// is skipped. Trailing bytes beyond the declared fields are ignored.
//
// Only flat scalar layouts are supported; the manual decoder stays the
// source of truth and this decode exists to cross-check it against the IDL.
func (c *Coder) DecodeAccount(name string, data []byte) (map[string]interface{}, error) {
	acc := c.doc.Account(name)
	if acc == nil {
		return nil, fmt.Errorf("account %q not defined in IDL", name)
	}
	if acc.Type.Kind != "struct" || len(acc.Type.Fields) == 0 {
		return nil, fmt.Errorf("account %q has no struct layout", name)
	}
	if len(data) < accountTagLen {
		return nil, fmt.Errorf("account %q: %d bytes, shorter than the record tag", name, len(data))
	}

	out := make(map[string]interface{}, len(acc.Type.Fields))
	offset := accountTagLen
	for _, field := range acc.Type.Fields {
		value, width, err := decodeField(field.Type, data[offset:])
		if err != nil {
			return nil, fmt.Errorf("account %q: field %q at offset %d: %w", name, field.Name, offset, err)
		}
		out[field.Name] = value
		offset += width
	}
	return out, nil
}

// decodeField reads one scalar value from the front of buf, returning the
// value and its encoded width.
func decodeField(schema json.RawMessage, buf []byte) (interface{}, int, error) {
	typeName, err := scalarTypeName(schema)
	if err != nil {
		return nil, 0, err
	}

	need := func(n int) error {
		if len(buf) < n {
			return fmt.Errorf("need %d bytes for %s, have %d", n, typeName, len(buf))
		}
		return nil
	}

	switch typeName {
	case "u8":
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return uint64(buf[0]), 1, nil
	case "u16":
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return uint64(binary.LittleEndian.Uint16(buf)), 2, nil
	case "u32":
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return uint64(binary.LittleEndian.Uint32(buf)), 4, nil
	case "u64":
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return binary.LittleEndian.Uint64(buf), 8, nil
	case "i64":
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint64(buf)), 8, nil
	case "u128":
		if err := need(16); err != nil {
			return nil, 0, err
		}
		low := binary.LittleEndian.Uint64(buf)
		high := binary.LittleEndian.Uint64(buf[8:])
		v := new(big.Int).SetUint64(high)
		v.Lsh(v, 64)
		return v.Or(v, new(big.Int).SetUint64(low)), 16, nil
	case "bool":
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return buf[0] != 0, 1, nil
	case "publicKey", "pubkey":
		if err := need(32); err != nil {
			return nil, 0, err
		}
		pk, err := solana.PublicKeyFromBytes(buf[:32])
		if err != nil {
			return nil, 0, err
		}
		return pk.String(), 32, nil
	default:
		return nil, 0, fmt.Errorf("unsupported field type %q", typeName)
	}
}
