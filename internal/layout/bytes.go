package layout

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Account data normalization errors. Callers distinguish "the node returned
// nothing" from "the node returned something we cannot read".
var (
	// ErrNoData means the RPC response carried no account data at all.
	ErrNoData = errors.New("no raw RPC account data available")

	// ErrBadDataShape means the data value had an unsupported JSON shape.
	ErrBadDataShape = errors.New("could not normalize account.data to bytes")
)

// AccountBytes normalizes the raw JSON account-data value returned by an RPC
// node into a byte slice. Accepted shapes, in order of attempt:
//
//  1. ["<data>", "<encoding>"] tuple, encoding "base64" or "base58"
//  2. bare string, assumed base64
//  3. array of byte values
//
// A null or absent value returns ErrNoData; anything else ErrBadDataShape.
func AccountBytes(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoData
	}

	// Tuple form: [data, encoding].
	var tuple []string
	if err := json.Unmarshal(raw, &tuple); err == nil {
		if len(tuple) == 0 {
			return nil, ErrNoData
		}
		encoding := "base64"
		if len(tuple) >= 2 {
			encoding = tuple[1]
		}
		return decodeWithEncoding(tuple[0], encoding)
	}

	// Bare string form.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decodeWithEncoding(s, "base64")
	}

	// Numeric array form.
	var nums []uint16
	if err := json.Unmarshal(raw, &nums); err == nil {
		out := make([]byte, len(nums))
		for i, n := range nums {
			if n > 0xff {
				return nil, fmt.Errorf("%w: value %d out of byte range", ErrBadDataShape, n)
			}
			out[i] = byte(n)
		}
		return out, nil
	}

	return nil, ErrBadDataShape
}

func decodeWithEncoding(data, encoding string) ([]byte, error) {
	switch encoding {
	case "base64":
		out, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataShape, err)
		}
		return out, nil
	case "base58":
		out, err := base58.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataShape, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrBadDataShape, encoding)
	}
}
