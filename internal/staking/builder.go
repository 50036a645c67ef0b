package staking

import (
	"fmt"

	"github.com/Reddjoseph/DEMOHZK/internal/idl"
	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// Builder assembles program instructions for the staking operations. The
// account lists are positional and must match the program's declared order
// exactly; names in the comments follow the program's IDL.
type Builder struct {
	coder *idl.Coder
}

// NewBuilder creates a Builder that encodes instruction data with coder.
func NewBuilder(coder *idl.Coder) *Builder {
	return &Builder{coder: coder}
}

// Stake builds the stake instruction moving rawAmount base units from the
// user's token account into the pool vault.
func (b *Builder) Stake(user solana.PublicKey, rawAmount uint64) (*solana.Instruction, error) {
	userPda, _, err := UserStateAddress(user)
	if err != nil {
		return nil, fmt.Errorf("derive user state address: %w", err)
	}
	userAta, err := solana.AssociatedTokenAddress(user, StakeMint)
	if err != nil {
		return nil, fmt.Errorf("derive user token account: %w", err)
	}
	data, err := b.coder.EncodeInstruction("stake", map[string]interface{}{
		"amount": rawAmount,
	})
	if err != nil {
		return nil, err
	}

	return &solana.Instruction{
		ProgramID: ProgramID,
		Accounts: []solana.AccountMeta{
			solana.WritableMeta(PoolPDA),        // pool
			solana.WritableMeta(userPda),        // user_state
			solana.SignerMeta(user),             // user
			solana.WritableMeta(userAta),        // user_token_account
			solana.WritableMeta(PoolVault),      // pool_vault
			solana.Meta(solana.TokenProgramID),  // token_program
			solana.Meta(solana.SystemProgramID), // system_program
			solana.Meta(solana.SysvarRentID),    // rent
		},
		Data: data,
	}, nil
}

// Unstake builds the unstake instruction returning rawAmount base units from
// the pool vault to the user's token account.
func (b *Builder) Unstake(user solana.PublicKey, rawAmount uint64) (*solana.Instruction, error) {
	userPda, _, err := UserStateAddress(user)
	if err != nil {
		return nil, fmt.Errorf("derive user state address: %w", err)
	}
	userAta, err := solana.AssociatedTokenAddress(user, StakeMint)
	if err != nil {
		return nil, fmt.Errorf("derive user token account: %w", err)
	}
	data, err := b.coder.EncodeInstruction("unstake", map[string]interface{}{
		"amount": rawAmount,
	})
	if err != nil {
		return nil, err
	}

	return &solana.Instruction{
		ProgramID: ProgramID,
		Accounts: []solana.AccountMeta{
			solana.WritableMeta(PoolPDA),       // pool
			solana.WritableMeta(userPda),       // user_state
			solana.SignerMeta(user),            // user
			solana.WritableMeta(userAta),       // user_token_account
			solana.WritableMeta(PoolVault),     // pool_vault
			solana.Meta(solana.TokenProgramID), // token_program
		},
		Data: data,
	}, nil
}

// Claim builds the claim_rewards instruction paying accrued rewards into the
// user's associated account for the pool's reward mint.
func (b *Builder) Claim(user, rewardMint solana.PublicKey) (*solana.Instruction, error) {
	userPda, _, err := UserStateAddress(user)
	if err != nil {
		return nil, fmt.Errorf("derive user state address: %w", err)
	}
	userRewardAta, err := solana.AssociatedTokenAddress(user, rewardMint)
	if err != nil {
		return nil, fmt.Errorf("derive reward token account: %w", err)
	}
	data, err := b.coder.EncodeInstruction("claim_rewards", nil)
	if err != nil {
		return nil, err
	}

	return &solana.Instruction{
		ProgramID: ProgramID,
		Accounts: []solana.AccountMeta{
			solana.WritableMeta(PoolPDA),       // pool
			solana.WritableMeta(userPda),       // user_state
			solana.SignerMeta(user),            // user
			solana.WritableMeta(userRewardAta), // user_reward_account
			solana.WritableMeta(RewardVault),   // reward_vault
			solana.Meta(solana.TokenProgramID), // token_program
		},
		Data: data,
	}, nil
}
