package solana

// AccountMeta describes one account an instruction touches. Order matters:
// on-chain programs address accounts by position, not by name.
type AccountMeta struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation ready to be compiled into a
// transaction message.
type Instruction struct {
	ProgramID PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Meta builds a read-only non-signer account reference.
func Meta(pk PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk}
}

// WritableMeta builds a writable non-signer account reference.
func WritableMeta(pk PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk, IsWritable: true}
}

// SignerMeta builds a writable signer account reference.
func SignerMeta(pk PublicKey) AccountMeta {
	return AccountMeta{PublicKey: pk, IsSigner: true, IsWritable: true}
}
