// Package stub provides in-memory fakes of the solana package interfaces
// for tests.
package stub

import (
	"context"
	"errors"
	"sync"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// ErrUnavailable is returned when the stub has been told to fail.
var ErrUnavailable = errors.New("rpc unavailable")

// RPCClient implements solana.RPCClient for testing.
// Zero value is usable; populate the maps with canned responses.
type RPCClient struct {
	mu sync.Mutex

	Accounts       map[string]*solana.AccountInfo
	TokenBalances  map[string]*solana.TokenAmount
	Blockhash      *solana.LatestBlockhash
	BlockHeight    uint64
	Slot           int64
	Statuses       map[string]*solana.SignatureStatus
	SendResult     string
	SendErr        error
	BlockhashErr   error
	AccountErr     error
	BalanceErr     error
	StatusesErr    error
	SentTxs        []string
	StatusRequests int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:      make(map[string]*solana.AccountInfo),
		TokenBalances: make(map[string]*solana.TokenAmount),
		Statuses:      make(map[string]*solana.SignatureStatus),
	}
}

// GetAccountInfo returns the canned account, or nil when absent.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	return c.Accounts[pubkey], nil
}

// GetTokenAccountBalance returns the canned balance for the address.
func (c *RPCClient) GetTokenAccountBalance(_ context.Context, pubkey string) (*solana.TokenAmount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BalanceErr != nil {
		return nil, c.BalanceErr
	}
	amount, ok := c.TokenBalances[pubkey]
	if !ok {
		return nil, ErrUnavailable
	}
	return amount, nil
}

// GetLatestBlockhash returns the canned blockhash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context, _ string) (*solana.LatestBlockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BlockhashErr != nil {
		return nil, c.BlockhashErr
	}
	if c.Blockhash == nil {
		return nil, ErrUnavailable
	}
	return c.Blockhash, nil
}

// SendTransaction records the submitted payload and returns the canned
// signature.
func (c *RPCClient) SendTransaction(_ context.Context, txBase64 string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.SentTxs = append(c.SentTxs, txBase64)
	return c.SendResult, nil
}

// GetSignatureStatuses returns canned statuses positionally aligned with the
// requested signatures.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StatusRequests++
	if c.StatusesErr != nil {
		return nil, c.StatusesErr
	}
	out := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		out[i] = c.Statuses[sig]
	}
	return out, nil
}

// GetBlockHeight returns the canned block height.
func (c *RPCClient) GetBlockHeight(_ context.Context, _ string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.BlockHeight, nil
}

// GetSlot returns the canned slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Slot, nil
}
