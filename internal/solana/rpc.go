package solana

import (
	"context"
	"encoding/json"
)

// Commitment levels accepted by the RPC node.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// RPCClient defines the Solana RPC HTTP interface used by the dashboard.
type RPCClient interface {
	// GetAccountInfo retrieves raw account info by address.
	// Returns nil (not an error) when the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenAccountBalance retrieves the balance of an SPL token account.
	GetTokenAccountBalance(ctx context.Context, pubkey string) (*TokenAmount, error)

	// GetLatestBlockhash retrieves a recent blockhash and its expiry height.
	GetLatestBlockhash(ctx context.Context, commitment string) (*LatestBlockhash, error)

	// SendTransaction submits a signed, base64-encoded transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string) (string, error)

	// GetSignatureStatuses retrieves confirmation status for signatures.
	// Result entries are positionally aligned with the input; nil means the
	// node has not seen the signature.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)

	// GetBlockHeight retrieves the current block height.
	GetBlockHeight(ctx context.Context, commitment string) (uint64, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)
}

// AccountInfo represents Solana account information.
// Data is kept as the raw JSON value the node returned; the layout package
// normalizes it to bytes (shape varies across nodes and encodings).
type AccountInfo struct {
	Lamports   uint64          `json:"lamports"`
	Owner      string          `json:"owner"`
	Data       json.RawMessage `json:"data"`
	Executable bool            `json:"executable"`
	RentEpoch  uint64          `json:"rentEpoch"`
}

// TokenAmount is the balance of an SPL token account.
type TokenAmount struct {
	Amount         string   `json:"amount"` // raw base units, decimal string
	Decimals       int      `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// LatestBlockhash is a recent blockhash with its validity window.
type LatestBlockhash struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// SignatureStatus is a single entry from getSignatureStatuses.
type SignatureStatus struct {
	Slot               uint64      `json:"slot"`
	Confirmations      *uint64     `json:"confirmations"`
	ConfirmationStatus string      `json:"confirmationStatus"`
	Err                interface{} `json:"err"`
}

// AccountNotification is a pushed account update from accountSubscribe.
type AccountNotification struct {
	Pubkey string
	Slot   int64
	Info   *AccountInfo
}
