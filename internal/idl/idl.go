// Package idl loads and repairs the staking program's interface definition,
// then encodes instruction arguments against it.
//
// The IDL file shipped with the program is loosely specified: entries miss
// names or kinds, field types appear as bare strings, and referenced type
// names may have no definition. Normalize repairs all of that into a strict
// document, so the argument encoder never trips on a dangling reference.
// Instruction argument schemas are the one thing left untouched: they are a
// byte-level contract with the on-chain program.
package idl

import (
	"encoding/json"
	"fmt"
)

// Document is a normalized interface definition. Produced only by
// Normalize; treated as immutable afterwards.
type Document struct {
	Version      string        `json:"version,omitempty"`
	Name         string        `json:"name,omitempty"`
	Address      string        `json:"address,omitempty"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []TypeDef     `json:"accounts"`
	Types        []TypeDef     `json:"types"`

	// accountIndex maps lower-cased account names to Accounts indices.
	// Built once during normalization so record-kind lookups stay exact.
	accountIndex map[string]int
}

// TypeDef is a named type or account layout definition.
type TypeDef struct {
	Name string   `json:"name"`
	Type TypeBody `json:"type"`
}

// TypeBody is a kind-tagged struct or enum body. Defined carries the
// type-name alias for account bodies that were written as a bare string.
type TypeBody struct {
	Kind     string          `json:"kind"`
	Fields   []Field         `json:"fields,omitempty"`
	Variants json.RawMessage `json:"variants,omitempty"`
	Defined  string          `json:"defined,omitempty"`
}

// Field is a single struct field. Type is always in canonical object form
// after normalization.
type Field struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

// Instruction is a named operation with its account list and argument
// schema. Args pass through normalization untouched.
type Instruction struct {
	Name          string               `json:"name"`
	Discriminator DiscBytes            `json:"discriminator,omitempty"`
	Accounts      []InstructionAccount `json:"accounts,omitempty"`
	Args          []Arg                `json:"args,omitempty"`
}

// DiscBytes is an 8-byte instruction tag. IDL files carry it either as a
// JSON number array or a base64 string depending on the generator version.
type DiscBytes []byte

// UnmarshalJSON accepts both representations.
func (d *DiscBytes) UnmarshalJSON(b []byte) error {
	var nums []byte
	type alias []byte
	var viaBase64 alias
	if err := json.Unmarshal(b, &viaBase64); err == nil {
		*d = DiscBytes(viaBase64)
		return nil
	}
	var asInts []uint16
	if err := json.Unmarshal(b, &asInts); err != nil {
		return err
	}
	nums = make([]byte, len(asInts))
	for i, n := range asInts {
		if n > 0xff {
			return fmt.Errorf("discriminator value %d out of byte range", n)
		}
		nums[i] = byte(n)
	}
	*d = nums
	return nil
}

// MarshalJSON emits the number-array form.
func (d DiscBytes) MarshalJSON() ([]byte, error) {
	nums := make([]uint16, len(d))
	for i, b := range d {
		nums[i] = uint16(b)
	}
	return json.Marshal(nums)
}

// InstructionAccount is one entry of an instruction's account list.
type InstructionAccount struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

// Arg is a single instruction argument with its wire-type schema.
type Arg struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

// Account returns the account layout definition for the given record kind,
// matching case-insensitively against the index built at normalization.
// Returns nil when the document defines no such account.
func (d *Document) Account(name string) *TypeDef {
	idx, ok := d.accountIndex[lowerASCII(name)]
	if !ok {
		return nil
	}
	return &d.Accounts[idx]
}

// FindInstruction returns the named instruction, or nil.
func (d *Document) FindInstruction(name string) *Instruction {
	for i := range d.Instructions {
		if d.Instructions[i].Name == name {
			return &d.Instructions[i]
		}
	}
	return nil
}

// TypeNames returns the set of defined type names.
func (d *Document) TypeNames() map[string]bool {
	names := make(map[string]bool, len(d.Types))
	for _, t := range d.Types {
		names[t.Name] = true
	}
	return names
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
