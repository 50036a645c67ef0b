// Package dashboard exposes the staking state and operations over HTTP.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/history"
	"github.com/Reddjoseph/DEMOHZK/internal/layout"
	"github.com/Reddjoseph/DEMOHZK/internal/observability"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
	"github.com/Reddjoseph/DEMOHZK/internal/staking"
	"github.com/Reddjoseph/DEMOHZK/internal/txsubmit"
	"github.com/Reddjoseph/DEMOHZK/internal/wallet"
)

// ErrNothingToClaim is returned when claim is attempted with zero pending
// rewards; no transaction is built or sent.
var ErrNothingToClaim = errors.New("nothing to claim")

// Submitter abstracts transaction submission for the service.
type Submitter interface {
	Submit(ctx context.Context, action string, instrs ...*solana.Instruction) (*txsubmit.Result, error)
}

// Snapshot is the dashboard's current view of the chain, rendered for JSON.
type Snapshot struct {
	Wallet         string             `json:"wallet,omitempty"`
	WalletShort    string             `json:"walletShort,omitempty"`
	Network        string             `json:"network"`
	APR            int                `json:"apr"`
	Balance        float64            `json:"balance"`
	Staked         float64            `json:"staked"`
	PendingRewards float64            `json:"pendingRewards"`
	Pool           *layout.PoolRecord `json:"pool,omitempty"`
	Status         string             `json:"status"`
	Submitting     bool               `json:"submitting"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Service holds the decoded chain state and runs the staking operations.
// Fetches overwrite the stored snapshot last-writer-wins; the Submitting
// flag is an advisory guard for UI buttons, not a lock.
type Service struct {
	repo      *staking.Repository
	builder   *staking.Builder
	submitter Submitter
	wallet    wallet.Wallet
	activity  *history.Log
	logger    *slog.Logger
	network   string

	mu         sync.Mutex
	pool       *layout.PoolRecord
	position   *staking.Position
	balance    float64
	status     string
	submitting bool
	updatedAt  time.Time
}

// NewService wires the dashboard state over the given collaborators.
func NewService(repo *staking.Repository, builder *staking.Builder, sub Submitter, w wallet.Wallet, activity *history.Log, network string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if network == "" {
		network = "devnet"
	}
	return &Service{
		repo:      repo,
		builder:   builder,
		submitter: sub,
		wallet:    w,
		activity:  activity,
		logger:    logger,
		network:   network,
	}
}

// SetStatus stores the status line shown on the dashboard.
func (s *Service) SetStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// SetSubmitting flips the advisory in-flight flag.
func (s *Service) SetSubmitting(v bool) {
	s.mu.Lock()
	s.submitting = v
	s.mu.Unlock()
}

// RefreshAll re-fetches pool, position and wallet balance. Individual
// failures are logged and leave the previous value in place; the freshest
// successful fetch wins.
func (s *Service) RefreshAll(ctx context.Context) {
	pool, err := s.repo.FetchPool(ctx)
	if err != nil {
		s.logger.Warn("pool fetch failed", "err", err)
	}

	pos, err := s.repo.FetchUserPosition(ctx, s.wallet.PublicKey())
	if err != nil {
		s.logger.Warn("position fetch failed", "err", err)
	}

	balance := s.repo.FetchWalletBalance(ctx, s.wallet.PublicKey())

	s.mu.Lock()
	defer s.mu.Unlock()
	if pool != nil {
		s.pool = pool
	}
	if pos != nil {
		s.position = pos
	}
	s.balance = balance
	s.updatedAt = time.Now()
	if pool != nil || pos != nil {
		observability.DefaultMetrics.LastSuccessfulFetch.SetToCurrentTime()
	}
}

// ApplyPoolUpdate replaces the pool record, typically from a WebSocket
// account notification.
func (s *Service) ApplyPoolUpdate(record *layout.PoolRecord) {
	s.mu.Lock()
	s.pool = record
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// ApplyPositionUpdate replaces the user position record.
func (s *Service) ApplyPositionUpdate(pos *staking.Position) {
	s.mu.Lock()
	s.position = pos
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Snapshot returns the current dashboard view.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Network:    s.network,
		APR:        staking.StaticAPR,
		Balance:    s.balance,
		Pool:       s.pool,
		Status:     s.status,
		Submitting: s.submitting,
		UpdatedAt:  s.updatedAt,
	}
	if pk := s.wallet.PublicKey(); !pk.IsZero() {
		snap.Wallet = pk.String()
		snap.WalletShort = pk.Short()
	}
	if s.position != nil && s.position.Record != nil {
		snap.Staked = staking.DisplayAmount(s.position.Record.Amount, staking.StakeMintDecimals)
		snap.PendingRewards = staking.DisplayAmount(s.position.Record.RewardsPending, staking.StakeMintDecimals)
	}
	return snap
}

// Position returns the last fetched user position, which may be nil.
func (s *Service) Position() *staking.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Pool returns the last fetched pool record, which may be nil.
func (s *Service) Pool() *layout.PoolRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool
}

// SchemaPool returns the IDL-directed pool decode kept next to the manual
// one, or nil when unavailable.
func (s *Service) SchemaPool() map[string]interface{} {
	return s.repo.SchemaPool()
}

// Activity returns the session activity log.
func (s *Service) Activity() *history.Log {
	return s.activity
}

// validateAmount normalizes a requested amount against a balance: clamps to
// [0, max] and truncates to four decimal places.
func validateAmount(amount, max float64, verb string) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("Enter a valid amount to %s.", verb)
	}
	if max > 0 && amount > max+1e-9 {
		return 0, fmt.Errorf("%s amount exceeds your available balance.", verb)
	}
	return staking.FloorTo4(staking.ClampToBalance(amount, max)), nil
}

// Stake moves amount display tokens from the wallet into the pool.
func (s *Service) Stake(ctx context.Context, amount float64) error {
	if s.Pool() == nil {
		s.SetStatus("Pool not loaded")
		return errors.New("pool not loaded")
	}

	s.mu.Lock()
	max := s.balance
	s.mu.Unlock()

	amount, err := validateAmount(amount, max, "stake")
	if err != nil {
		s.SetStatus(err.Error())
		return err
	}

	return s.run(ctx, "stake", amount, history.KindStake, history.KindStakeError, func() (*solana.Instruction, error) {
		raw := staking.ToRawAmount(amount, staking.StakeMintDecimals)
		return s.builder.Stake(s.wallet.PublicKey(), raw)
	})
}

// Unstake returns amount display tokens from the pool to the wallet.
func (s *Service) Unstake(ctx context.Context, amount float64) error {
	if s.Pool() == nil {
		s.SetStatus("Pool not loaded")
		return errors.New("pool not loaded")
	}

	max := s.Snapshot().Staked

	amount, err := validateAmount(amount, max, "unstake")
	if err != nil {
		s.SetStatus(err.Error())
		return err
	}

	return s.run(ctx, "unstake", amount, history.KindUnstake, history.KindUnstakeError, func() (*solana.Instruction, error) {
		raw := staking.ToRawAmount(amount, staking.StakeMintDecimals)
		return s.builder.Unstake(s.wallet.PublicKey(), raw)
	})
}

// Claim pays out pending rewards. With nothing pending it short-circuits
// before any transport work.
func (s *Service) Claim(ctx context.Context) error {
	snap := s.Snapshot()
	if snap.PendingRewards <= 0 {
		s.SetStatus("Nothing to claim.")
		return ErrNothingToClaim
	}

	pool := s.Pool()
	if pool == nil {
		err := errors.New("pool not loaded")
		s.SetStatus("Pool not loaded")
		return err
	}
	rewardMint, err := solana.PublicKeyFromBase58(pool.RewardMint)
	if err != nil {
		s.SetStatus("Pool rewardMint not available")
		return fmt.Errorf("pool reward mint: %w", err)
	}

	return s.run(ctx, "claim", snap.PendingRewards, history.KindClaim, history.KindClaimError, func() (*solana.Instruction, error) {
		return s.builder.Claim(s.wallet.PublicKey(), rewardMint)
	})
}

// run builds one instruction and drives it through the submitter, recording
// the outcome in the activity log.
func (s *Service) run(ctx context.Context, action string, amount float64, okKind, errKind history.Kind, build func() (*solana.Instruction, error)) error {
	s.SetSubmitting(true)
	defer s.SetSubmitting(false)

	ix, err := build()
	if err != nil {
		s.activity.Add(history.Entry{Kind: errKind, Amount: amount, Detail: err.Error()})
		s.SetStatus(fmt.Sprintf("Failed to %s: %v", action, err))
		return err
	}

	result, err := s.submitter.Submit(ctx, action, ix)
	if err != nil {
		detail := err.Error()
		sig := ""
		if result != nil {
			sig = result.Signature
		}
		s.activity.Add(history.Entry{Kind: errKind, Amount: amount, Detail: detail, Signature: sig})
		return err
	}

	s.activity.Add(history.Entry{Kind: okKind, Amount: amount, Signature: result.Signature})
	return nil
}
