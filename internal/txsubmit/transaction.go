// Package txsubmit compiles, signs and submits legacy transactions, then
// tracks them to a terminal state.
package txsubmit

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

const signatureLen = 64

// MessageHeader carries the account-type counts of a legacy message.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references message accounts by index.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndices []uint8
	Data           []byte
}

// Message is a legacy transaction message ready for signing.
type Message struct {
	Header          MessageHeader
	AccountKeys     []solana.PublicKey
	RecentBlockhash [32]byte
	Instructions    []CompiledInstruction
}

// Transaction is a message plus its signatures, in fee-payer-first order.
type Transaction struct {
	Signatures [][]byte
	Message    *Message
}

// accountEntry accumulates merged flags per key while compiling.
type accountEntry struct {
	key      solana.PublicKey
	signer   bool
	writable bool
}

// CompileMessage flattens instructions into a legacy message. The fee payer
// is always the first account key; remaining keys are ordered writable
// signers, read-only signers, writable non-signers, read-only non-signers,
// with flags merged across instructions.
func CompileMessage(feePayer solana.PublicKey, blockhash string, instrs []*solana.Instruction) (*Message, error) {
	if len(instrs) == 0 {
		return nil, errors.New("no instructions to compile")
	}
	hashBytes, err := base58.Decode(blockhash)
	if err != nil {
		return nil, fmt.Errorf("decode blockhash: %w", err)
	}
	if len(hashBytes) != 32 {
		return nil, fmt.Errorf("blockhash must be 32 bytes, got %d", len(hashBytes))
	}

	index := map[solana.PublicKey]*accountEntry{}
	order := []*accountEntry{}
	upsert := func(key solana.PublicKey, signer, writable bool) {
		if e, ok := index[key]; ok {
			e.signer = e.signer || signer
			e.writable = e.writable || writable
			return
		}
		e := &accountEntry{key: key, signer: signer, writable: writable}
		index[key] = e
		order = append(order, e)
	}

	upsert(feePayer, true, true)
	for _, ix := range instrs {
		for _, meta := range ix.Accounts {
			upsert(meta.PublicKey, meta.IsSigner, meta.IsWritable)
		}
		upsert(ix.ProgramID, false, false)
	}

	// Stable bucket ordering; the fee payer stays first inside the first
	// bucket because it was inserted first.
	var buckets [4][]*accountEntry
	for _, e := range order {
		switch {
		case e.signer && e.writable:
			buckets[0] = append(buckets[0], e)
		case e.signer:
			buckets[1] = append(buckets[1], e)
		case e.writable:
			buckets[2] = append(buckets[2], e)
		default:
			buckets[3] = append(buckets[3], e)
		}
	}

	msg := &Message{
		Header: MessageHeader{
			NumRequiredSignatures:       uint8(len(buckets[0]) + len(buckets[1])),
			NumReadonlySignedAccounts:   uint8(len(buckets[1])),
			NumReadonlyUnsignedAccounts: uint8(len(buckets[3])),
		},
	}
	copy(msg.RecentBlockhash[:], hashBytes)

	keyIndex := map[solana.PublicKey]uint8{}
	for _, bucket := range buckets {
		for _, e := range bucket {
			keyIndex[e.key] = uint8(len(msg.AccountKeys))
			msg.AccountKeys = append(msg.AccountKeys, e.key)
		}
	}

	for _, ix := range instrs {
		compiled := CompiledInstruction{
			ProgramIDIndex: keyIndex[ix.ProgramID],
			Data:           ix.Data,
		}
		for _, meta := range ix.Accounts {
			compiled.AccountIndices = append(compiled.AccountIndices, keyIndex[meta.PublicKey])
		}
		msg.Instructions = append(msg.Instructions, compiled)
	}

	return msg, nil
}

// Serialize renders the message in the legacy wire format.
func (m *Message) Serialize() []byte {
	buf := make([]byte, 0, 256)

	buf = append(buf, m.Header.NumRequiredSignatures)
	buf = append(buf, m.Header.NumReadonlySignedAccounts)
	buf = append(buf, m.Header.NumReadonlyUnsignedAccounts)

	buf = appendCompactU16(buf, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buf = append(buf, key.Bytes()...)
	}

	buf = append(buf, m.RecentBlockhash[:]...)

	buf = appendCompactU16(buf, len(m.Instructions))
	for _, ix := range m.Instructions {
		buf = append(buf, ix.ProgramIDIndex)
		buf = appendCompactU16(buf, len(ix.AccountIndices))
		buf = append(buf, ix.AccountIndices...)
		buf = appendCompactU16(buf, len(ix.Data))
		buf = append(buf, ix.Data...)
	}

	return buf
}

// NewTransaction wraps a message with placeholder signature slots.
func NewTransaction(msg *Message) *Transaction {
	sigs := make([][]byte, msg.Header.NumRequiredSignatures)
	for i := range sigs {
		sigs[i] = make([]byte, signatureLen)
	}
	return &Transaction{Signatures: sigs, Message: msg}
}

// SetSignature stores sig for the signer key, which must be one of the
// message's required signers.
func (t *Transaction) SetSignature(signer solana.PublicKey, sig []byte) error {
	if len(sig) != signatureLen {
		return fmt.Errorf("signature must be %d bytes, got %d", signatureLen, len(sig))
	}
	numSigners := int(t.Message.Header.NumRequiredSignatures)
	for i := 0; i < numSigners && i < len(t.Message.AccountKeys); i++ {
		if t.Message.AccountKeys[i] == signer {
			t.Signatures[i] = sig
			return nil
		}
	}
	return fmt.Errorf("%s is not a required signer", signer.Short())
}

// Serialize renders signatures followed by the message.
func (t *Transaction) Serialize() []byte {
	buf := make([]byte, 0, 512)
	buf = appendCompactU16(buf, len(t.Signatures))
	for _, sig := range t.Signatures {
		buf = append(buf, sig...)
	}
	return append(buf, t.Message.Serialize()...)
}

// Base64 renders the serialized transaction the way sendTransaction expects.
func (t *Transaction) Base64() string {
	return base64.StdEncoding.EncodeToString(t.Serialize())
}

func appendCompactU16(buf []byte, val int) []byte {
	if val < 0x80 {
		return append(buf, byte(val))
	}
	if val < 0x4000 {
		return append(buf, byte(val&0x7f|0x80), byte(val>>7))
	}
	return append(buf, byte(val&0x7f|0x80), byte((val>>7)&0x7f|0x80), byte(val>>14))
}
