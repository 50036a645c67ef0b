package staking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/idl"
	"github.com/Reddjoseph/DEMOHZK/internal/layout"
	"github.com/Reddjoseph/DEMOHZK/internal/observability"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// ErrPoolNotFound is returned when the pool account does not exist on chain.
var ErrPoolNotFound = errors.New("pool account not found")

// Position is one wallet's staking state: the derived PDA plus the decoded
// record. Record is nil when the wallet has never staked, which is not an
// error.
type Position struct {
	Address solana.PublicKey
	Record  *layout.UserStateRecord
}

// Repository reads the staking program's accounts over RPC and decodes them.
type Repository struct {
	rpc   solana.RPCClient
	log   *slog.Logger
	coder *idl.Coder

	mu         sync.Mutex
	schemaPool map[string]interface{}
}

// NewRepository creates a Repository over the given RPC client.
func NewRepository(rpc solana.RPCClient, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{rpc: rpc, log: log}
}

// WithCoder enables the IDL-directed cross-check decode of the pool account.
// The manual decode stays authoritative; the schema decode is kept for
// inspection only.
func (r *Repository) WithCoder(coder *idl.Coder) *Repository {
	r.coder = coder
	return r
}

// SchemaPool returns the last IDL-directed pool decode, or nil when no
// coder is set or the decode failed.
func (r *Repository) SchemaPool() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.schemaPool
}

// FetchPool reads and decodes the global pool account.
func (r *Repository) FetchPool(ctx context.Context) (*layout.PoolRecord, error) {
	start := time.Now()
	info, err := r.rpc.GetAccountInfo(ctx, PoolPDA.String())
	observability.RecordRPCLatency("getAccountInfo", time.Since(start).Seconds())
	if err != nil {
		observability.RecordAccountFetch("pool", err)
		return nil, fmt.Errorf("fetch pool account: %w", err)
	}
	if info == nil {
		observability.RecordAccountFetch("pool", ErrPoolNotFound)
		return nil, ErrPoolNotFound
	}
	if owner := info.Owner; owner != "" && owner != ProgramID.String() {
		// Decode proceeds regardless, but an unexpected owner usually means
		// a misconfigured pool address.
		r.log.Warn("pool account has unexpected owner",
			"address", PoolPDA.Short(), "owner", owner)
	}

	data, err := layout.AccountBytes(info.Data)
	if err != nil {
		observability.RecordAccountFetch("pool", err)
		observability.RecordDecodeError("pool", "data_shape")
		return nil, err
	}
	record, err := layout.DecodePool(data)
	if err != nil {
		observability.RecordAccountFetch("pool", err)
		observability.RecordDecodeError("pool", "layout")
		return nil, err
	}

	r.crossCheckPool(data, record)

	observability.RecordAccountFetch("pool", nil)
	r.log.Debug("pool decoded",
		"total_staked", record.TotalStaked,
		"reward_rate", record.RewardRatePerSecond,
		"data_len", record.RawDataLen)
	return record, nil
}

// crossCheckPool runs the IDL-directed decode over the same bytes and logs
// any disagreement with the manual decode. Disagreement is recorded, never
// fatal.
func (r *Repository) crossCheckPool(data []byte, record *layout.PoolRecord) {
	if r.coder == nil {
		return
	}
	alt, err := r.coder.DecodeAccount("Pool", data)
	if err != nil {
		r.log.Debug("schema decode of pool failed", "err", err)
		r.mu.Lock()
		r.schemaPool = nil
		r.mu.Unlock()
		return
	}
	if staked, ok := alt["totalStaked"].(uint64); ok && staked != record.TotalStaked {
		r.log.Warn("schema decode disagrees with manual decode",
			"manual_total_staked", record.TotalStaked,
			"schema_total_staked", staked)
	}
	r.mu.Lock()
	r.schemaPool = alt
	r.mu.Unlock()
}

// FetchUserPosition reads the wallet's user-state PDA. A missing account
// means the wallet has no position yet and yields a Position with nil Record.
func (r *Repository) FetchUserPosition(ctx context.Context, owner solana.PublicKey) (*Position, error) {
	pda, _, err := UserStateAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("derive user state address: %w", err)
	}
	pos := &Position{Address: pda}

	start := time.Now()
	info, err := r.rpc.GetAccountInfo(ctx, pda.String())
	observability.RecordRPCLatency("getAccountInfo", time.Since(start).Seconds())
	if err != nil {
		observability.RecordAccountFetch("position", err)
		return nil, fmt.Errorf("fetch user state account: %w", err)
	}
	if info == nil {
		observability.RecordAccountFetch("position", nil)
		r.log.Debug("no user state account", "owner", owner.Short(), "pda", pda.Short())
		return pos, nil
	}

	data, err := layout.AccountBytes(info.Data)
	if err != nil {
		observability.RecordAccountFetch("position", err)
		observability.RecordDecodeError("position", "data_shape")
		return nil, err
	}
	record, err := layout.DecodeUserState(data)
	if err != nil {
		observability.RecordAccountFetch("position", err)
		observability.RecordDecodeError("position", "layout")
		return nil, err
	}

	pos.Record = record
	observability.RecordAccountFetch("position", nil)
	return pos, nil
}

// FetchWalletBalance returns the wallet's stake-token balance as a display
// amount. Any failure, including a missing token account, reads as zero so
// the dashboard never blocks on balance lookup.
func (r *Repository) FetchWalletBalance(ctx context.Context, owner solana.PublicKey) float64 {
	ata, err := solana.AssociatedTokenAddress(owner, StakeMint)
	if err != nil {
		r.log.Warn("derive associated token address failed", "owner", owner.Short(), "err", err)
		return 0
	}

	start := time.Now()
	amount, err := r.rpc.GetTokenAccountBalance(ctx, ata.String())
	observability.RecordRPCLatency("getTokenAccountBalance", time.Since(start).Seconds())
	if err != nil || amount == nil {
		observability.RecordAccountFetch("balance", err)
		r.log.Warn("wallet balance fetch failed", "owner", owner.Short(), "err", err)
		return 0
	}
	observability.RecordAccountFetch("balance", nil)

	if amount.UIAmount != nil {
		return *amount.UIAmount
	}
	raw, err := strconv.ParseFloat(amount.Amount, 64)
	if err != nil {
		return 0
	}
	decimals := amount.Decimals
	if decimals == 0 {
		decimals = StakeMintDecimals
	}
	return raw / math.Pow(10, float64(decimals))
}
