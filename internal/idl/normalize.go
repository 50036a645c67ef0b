package idl

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Normalize repairs a loosely-specified IDL document into a strict
// Document. Malformed structure is repaired silently; the only hard error
// is a top-level value that is not a JSON object.
//
// Repairs applied, in order:
//   - missing/invalid accounts and types lists become empty lists
//     (the legacy "idlAccounts" alias is honored for accounts)
//   - entries missing a name get a synthetic unique placeholder name
//   - a missing kind is inferred from shape: fields present means struct,
//     variants present means enum, otherwise struct
//   - scalar field-type shorthands are rewritten into canonical object
//     form, with the "pubkey" alias rewritten to "publicKey"
//   - every type name referenced anywhere gets an empty-struct placeholder
//     definition if no definition exists
//
// Instruction argument schemas pass through untouched.
func Normalize(raw []byte) (*Document, error) {
	var tree map[string]interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse IDL document: %w", err)
	}

	accounts := listField(tree, "accounts")
	if accounts == nil {
		accounts = listField(tree, "idlAccounts")
	}
	types := listField(tree, "types")

	for i, entry := range types {
		types[i] = repairTypeDef(entry, fmt.Sprintf("__ANON_TYPE_%d", i), fmt.Sprintf("__MALFORMED_TYPE_%d", i))
	}
	for i, entry := range accounts {
		accounts[i] = repairTypeDef(entry, fmt.Sprintf("__ACCOUNT_%d", i), fmt.Sprintf("__MALFORMED_ACCOUNT_%d", i))
	}

	instructions := listField(tree, "instructions")
	for _, entry := range instructions {
		repairInstruction(entry)
	}

	tree["accounts"] = accounts
	tree["types"] = types
	tree["instructions"] = instructions

	// Synthesize an empty struct for every referenced-but-undefined type
	// name, so the encoder never sees a dangling reference. Names are
	// appended in sorted order to keep output deterministic.
	referenced := make(map[string]bool)
	collectDefinedNames(tree, referenced)

	defined := make(map[string]bool)
	for _, entry := range types {
		if m, ok := entry.(map[string]interface{}); ok {
			if name, ok := m["name"].(string); ok && name != "" {
				defined[name] = true
			}
		}
	}

	var missing []string
	for name := range referenced {
		if !defined[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		types = append(types, placeholderType(name))
	}
	tree["types"] = types

	return decodeDocument(tree)
}

// listField extracts a list-valued field, or nil when missing or not a list.
func listField(tree map[string]interface{}, key string) []interface{} {
	list, _ := tree[key].([]interface{})
	return list
}

// placeholderType builds an empty struct definition with the given name.
func placeholderType(name string) map[string]interface{} {
	return map[string]interface{}{
		"name": name,
		"type": map[string]interface{}{
			"kind":   "struct",
			"fields": []interface{}{},
		},
	}
}

// repairTypeDef coerces one types/accounts entry into well-formed shape.
// anonName is used when only the name is missing; malformedName replaces
// entries that are not objects at all.
func repairTypeDef(entry interface{}, anonName, malformedName string) map[string]interface{} {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return placeholderType(malformedName)
	}

	if name, ok := m["name"].(string); !ok || name == "" {
		m["name"] = anonName
	}

	switch body := m["type"].(type) {
	case map[string]interface{}:
		repairTypeBody(body)
	case string:
		// Account bodies occasionally appear as a bare type-name string;
		// keep the alias but give it a kind-tagged shell.
		shell := map[string]interface{}{"defined": canonicalTypeName(body)}
		repairTypeBody(shell)
		m["type"] = shell
	default:
		m["type"] = map[string]interface{}{
			"kind":   "struct",
			"fields": []interface{}{},
		}
	}

	return m
}

// repairTypeBody ensures a kind tag and well-typed fields/variants lists.
func repairTypeBody(body map[string]interface{}) {
	if _, ok := body["kind"]; !ok {
		if _, hasFields := body["fields"].([]interface{}); hasFields {
			body["kind"] = "struct"
		} else if _, hasVariants := body["variants"].([]interface{}); hasVariants {
			body["kind"] = "enum"
		} else {
			body["kind"] = "struct"
		}
	}

	switch body["kind"] {
	case "struct":
		fields, ok := body["fields"].([]interface{})
		if !ok {
			fields = []interface{}{}
		}
		for _, f := range fields {
			normalizeFieldType(f)
		}
		body["fields"] = fields
	case "enum":
		if _, ok := body["variants"].([]interface{}); !ok {
			body["variants"] = []interface{}{}
		}
	}
}

// normalizeFieldType rewrites scalar field-type shorthands into canonical
// object form.
func normalizeFieldType(field interface{}) {
	m, ok := field.(map[string]interface{})
	if !ok {
		return
	}
	switch t := m["type"].(type) {
	case string:
		m["type"] = map[string]interface{}{"defined": canonicalTypeName(t)}
	case float64:
		m["type"] = map[string]interface{}{"defined": formatJSONNumber(t)}
	case bool:
		m["type"] = map[string]interface{}{"defined": fmt.Sprintf("%t", t)}
	}
}

// canonicalTypeName maps domain-specific aliases to the encoder's names.
func canonicalTypeName(s string) string {
	if s == "pubkey" {
		return "publicKey"
	}
	return s
}

func formatJSONNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// repairInstruction fills in missing account-entry names. Argument schemas
// are deliberately not modified.
func repairInstruction(entry interface{}) {
	m, ok := entry.(map[string]interface{})
	if !ok {
		return
	}
	accounts, ok := m["accounts"].([]interface{})
	if !ok {
		return
	}
	for i, a := range accounts {
		am, ok := a.(map[string]interface{})
		if !ok {
			accounts[i] = map[string]interface{}{
				"name":     fmt.Sprintf("__ACC_%d", i),
				"isMut":    false,
				"isSigner": false,
			}
			continue
		}
		if name, ok := am["name"].(string); !ok || name == "" {
			am["name"] = fmt.Sprintf("account_%d", i)
		}
	}
}

// collectDefinedNames walks the whole document tree and records every
// string value of a "defined" key.
func collectDefinedNames(v interface{}, out map[string]bool) {
	switch node := v.(type) {
	case map[string]interface{}:
		for k, child := range node {
			if k == "defined" {
				if name, ok := child.(string); ok {
					out[name] = true
					continue
				}
			}
			collectDefinedNames(child, out)
		}
	case []interface{}:
		for _, child := range node {
			collectDefinedNames(child, out)
		}
	}
}

// decodeDocument converts a repaired generic tree into the strict Document
// and builds the account-name index.
func decodeDocument(tree map[string]interface{}) (*Document, error) {
	buf, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encode repaired IDL: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decode repaired IDL: %w", err)
	}
	if doc.Instructions == nil {
		doc.Instructions = []Instruction{}
	}
	if doc.Accounts == nil {
		doc.Accounts = []TypeDef{}
	}
	if doc.Types == nil {
		doc.Types = []TypeDef{}
	}

	doc.accountIndex = make(map[string]int, len(doc.Accounts))
	for i, acc := range doc.Accounts {
		key := lowerASCII(acc.Name)
		if _, exists := doc.accountIndex[key]; !exists {
			doc.accountIndex[key] = i
		}
	}

	return &doc, nil
}
