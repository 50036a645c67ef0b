package txsubmit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Reddjoseph/DEMOHZK/internal/observability"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
	"github.com/Reddjoseph/DEMOHZK/internal/wallet"
)

// State is one step of a submission's lifecycle. Confirmed and Failed are
// terminal; a submission never retries on its own.
type State string

const (
	StateIdle      State = "idle"
	StatePreparing State = "preparing"
	StateSigning   State = "signing"
	StateSent      State = "sent"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

// Result is the terminal outcome of one submission.
type Result struct {
	State     State
	Signature string
	Err       error
}

// StateFunc observes lifecycle transitions; detail is a human-readable
// status line for the dashboard.
type StateFunc func(state State, detail string)

// ConfirmedFunc runs after a submission confirms, before Submit returns.
type ConfirmedFunc func(ctx context.Context)

// Submitter drives transactions from preparation to a terminal state.
type Submitter struct {
	rpc    solana.RPCClient
	wallet wallet.Wallet
	log    *slog.Logger

	pollInterval time.Duration
	onState      StateFunc
	onConfirmed  ConfirmedFunc
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithPollInterval sets the confirmation poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(s *Submitter) { s.pollInterval = d }
}

// WithStateFunc registers a lifecycle observer.
func WithStateFunc(fn StateFunc) Option {
	return func(s *Submitter) { s.onState = fn }
}

// WithConfirmedHook registers a hook that runs once a submission confirms,
// typically to refresh the decoded accounts.
func WithConfirmedHook(fn ConfirmedFunc) Option {
	return func(s *Submitter) { s.onConfirmed = fn }
}

// NewSubmitter creates a Submitter signing with w and talking to rpc.
func NewSubmitter(rpc solana.RPCClient, w wallet.Wallet, log *slog.Logger, opts ...Option) *Submitter {
	if log == nil {
		log = slog.Default()
	}
	s := &Submitter{
		rpc:          rpc,
		wallet:       w,
		log:          log,
		pollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) setState(state State, detail string) {
	s.log.Debug("submission state", "state", string(state), "detail", detail)
	if s.onState != nil {
		s.onState(state, detail)
	}
}

// Submit prepares, signs, sends and confirms a transaction carrying the
// given instructions. It blocks until a terminal state. The action label
// names the staking operation for logs and metrics.
func (s *Submitter) Submit(ctx context.Context, action string, instrs ...*solana.Instruction) (*Result, error) {
	start := time.Now()
	fail := func(err error) (*Result, error) {
		observability.RecordSubmission(action, "failed", time.Since(start).Seconds())
		s.setState(StateFailed, fmt.Sprintf("Transaction failed: %v", err))
		s.log.Error("submission failed", "action", action, "err", err)
		return &Result{State: StateFailed, Err: err}, err
	}

	s.setState(StatePreparing, "Preparing transaction...")
	blockhash, err := s.rpc.GetLatestBlockhash(ctx, solana.CommitmentFinalized)
	if err != nil {
		return fail(fmt.Errorf("fetch blockhash: %w", err))
	}

	msg, err := CompileMessage(s.wallet.PublicKey(), blockhash.Blockhash, instrs)
	if err != nil {
		return fail(fmt.Errorf("compile message: %w", err))
	}

	s.setState(StateSigning, "Waiting for signature...")
	sig, err := s.wallet.Sign(msg.Serialize())
	if err != nil {
		return fail(fmt.Errorf("sign transaction: %w", err))
	}
	tx := NewTransaction(msg)
	if err := tx.SetSignature(s.wallet.PublicKey(), sig); err != nil {
		return fail(err)
	}

	signature, err := s.rpc.SendTransaction(ctx, tx.Base64())
	if err != nil {
		return fail(fmt.Errorf("send transaction: %w", err))
	}
	s.setState(StateSent, fmt.Sprintf("Transaction sent: %s. Waiting confirmation...", signature))
	s.log.Info("transaction sent", "action", action, "signature", signature)

	if err := s.awaitConfirmation(ctx, signature, blockhash.LastValidBlockHeight); err != nil {
		result, _ := fail(err)
		result.Signature = signature
		return result, err
	}

	observability.RecordSubmission(action, "confirmed", time.Since(start).Seconds())
	s.setState(StateConfirmed, fmt.Sprintf("Confirmed: %s", signature))
	s.log.Info("transaction confirmed", "action", action, "signature", signature)
	if s.onConfirmed != nil {
		s.onConfirmed(ctx)
	}
	return &Result{State: StateConfirmed, Signature: signature}, nil
}

// awaitConfirmation polls signature status until the transaction reaches
// confirmed commitment, errors on chain, or its blockhash expires.
func (s *Submitter) awaitConfirmation(ctx context.Context, signature string, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		statuses, err := s.rpc.GetSignatureStatuses(ctx, []string{signature})
		if err != nil {
			return fmt.Errorf("fetch signature status: %w", err)
		}
		if len(statuses) > 0 && statuses[0] != nil {
			st := statuses[0]
			if st.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", st.Err)
			}
			if st.ConfirmationStatus == solana.CommitmentConfirmed ||
				st.ConfirmationStatus == solana.CommitmentFinalized {
				return nil
			}
		}

		height, err := s.rpc.GetBlockHeight(ctx, solana.CommitmentConfirmed)
		if err != nil {
			return fmt.Errorf("fetch block height: %w", err)
		}
		if height > lastValidBlockHeight {
			return fmt.Errorf("blockhash expired at height %d", height)
		}
	}
}
