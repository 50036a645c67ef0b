package idl

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// Coder encodes instruction calls against a normalized document, following
// the Anchor wire convention: an 8-byte method tag followed by the
// Borsh-encoded arguments in schema order.
type Coder struct {
	doc *Document
}

// NewCoder creates a Coder over a normalized document.
func NewCoder(doc *Document) *Coder {
	return &Coder{doc: doc}
}

// EncodeInstruction encodes the named instruction with the given argument
// values. Every argument in the schema must be present in args; extra keys
// are rejected to catch caller drift early.
func (c *Coder) EncodeInstruction(name string, args map[string]interface{}) ([]byte, error) {
	instr := c.doc.FindInstruction(name)
	if instr == nil {
		return nil, fmt.Errorf("instruction %q not defined in IDL", name)
	}

	data := instructionTag(instr)

	for _, arg := range instr.Args {
		value, ok := args[arg.Name]
		if !ok {
			return nil, fmt.Errorf("instruction %q: missing argument %q", name, arg.Name)
		}
		encoded, err := encodeValue(arg.Type, value)
		if err != nil {
			return nil, fmt.Errorf("instruction %q: argument %q: %w", name, arg.Name, err)
		}
		data = append(data, encoded...)
	}

	if len(args) > len(instr.Args) {
		return nil, fmt.Errorf("instruction %q: %d arguments given, schema has %d", name, len(args), len(instr.Args))
	}

	return data, nil
}

// instructionTag returns the instruction's 8-byte method tag: the one the
// IDL carries if present, otherwise sha256("global:<name>")[:8].
func instructionTag(instr *Instruction) []byte {
	if len(instr.Discriminator) == 8 {
		return append([]byte(nil), instr.Discriminator...)
	}
	sum := sha256.Sum256([]byte("global:" + instr.Name))
	return sum[:8]
}

// encodeValue Borsh-encodes a single value against its schema type.
// The schema is either a bare type-name string or an object form; only the
// scalar types the staking instructions use are supported.
func encodeValue(schema json.RawMessage, value interface{}) ([]byte, error) {
	typeName, err := scalarTypeName(schema)
	if err != nil {
		return nil, err
	}

	switch typeName {
	case "u8":
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		if v > 0xff {
			return nil, fmt.Errorf("value %d overflows u8", v)
		}
		return []byte{byte(v)}, nil
	case "u16":
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		if v > 0xffff {
			return nil, fmt.Errorf("value %d overflows u16", v)
		}
		return binary.LittleEndian.AppendUint16(nil, uint16(v)), nil
	case "u32":
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		if v > 0xffffffff {
			return nil, fmt.Errorf("value %d overflows u32", v)
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
	case "u64":
		v, err := asUint64(value)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(nil, v), nil
	case "i64":
		v, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("expected int64 for i64, got %T", value)
		}
		return binary.LittleEndian.AppendUint64(nil, uint64(v)), nil
	case "bool":
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case "publicKey", "pubkey":
		v, ok := value.(solana.PublicKey)
		if !ok {
			return nil, fmt.Errorf("expected public key, got %T", value)
		}
		return v.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %q", typeName)
	}
}

// scalarTypeName extracts the type name from either schema form:
// "u64" or {"defined": "u64"}.
func scalarTypeName(schema json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(schema, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Defined string `json:"defined"`
	}
	if err := json.Unmarshal(schema, &obj); err == nil && obj.Defined != "" {
		return obj.Defined, nil
	}
	return "", fmt.Errorf("unsupported argument schema %s", string(schema))
}

func asUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned type", v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("expected unsigned integer, got %T", value)
	}
}
