// Package staking holds the on-chain addresses, amount arithmetic, account
// repository and instruction builders for the HZK staking program.
package staking

import "github.com/Reddjoseph/DEMOHZK/internal/solana"

// Devnet deployment of the HZK staking program. The pool PDA and both vaults
// are fixed at initialization time, so they are pinned here rather than
// re-derived on every fetch.
var (
	ProgramID   = solana.MustPublicKey("CRDwYUDJuhAjUNmxWwHnQD5rWbGnwvUjCNx5fqFYQjkn")
	PoolPDA     = solana.MustPublicKey("7JTJnze4Wru7byHHJofnCt5kash5PfDpZowisvNu8s9n")
	StakeMint   = solana.MustPublicKey("Gy9zh44ttT7i5G9HPSzLKbweTWDb7EVrDfeEA4pmXpxK")
	PoolVault   = solana.MustPublicKey("22v3QHqB2fq7biaWCqZbCFLRXpZbJ5sbbt7gA6AwtWUP")
	RewardVault = solana.MustPublicKey("CAMniLm1STTzRLTsFE3UiP4uPNbVGE1g3XDuMtzMBoUh")
)

const (
	// StakeMintDecimals is the decimal count of the stake mint; raw amounts
	// are display amounts scaled by 10^9.
	StakeMintDecimals = 9

	// StaticAPR is the advertised annual rate shown on the dashboard. The
	// program accrues per-second, this figure is display-only.
	StaticAPR = 12
)

// userStateSeed is the first PDA seed of a wallet's per-pool state account.
var userStateSeed = []byte("user")

// UserStateAddress derives the user-state PDA for a wallet. The seed order
// is ["user", owner, pool].
func UserStateAddress(owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{userStateSeed, owner.Bytes(), PoolPDA.Bytes()},
		ProgramID,
	)
}
