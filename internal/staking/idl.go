package staking

import (
	"fmt"
	"os"

	"github.com/Reddjoseph/DEMOHZK/internal/idl"
)

// defaultIDLJSON mirrors the staking program's published interface. It is
// the fallback when no IDL file is supplied.
const defaultIDLJSON = `{
  "version": "0.1.0",
  "name": "hzk_staking",
  "instructions": [
    {
      "name": "stake",
      "accounts": [
        {"name": "pool", "isMut": true, "isSigner": false},
        {"name": "userState", "isMut": true, "isSigner": false},
        {"name": "user", "isMut": true, "isSigner": true},
        {"name": "userTokenAccount", "isMut": true, "isSigner": false},
        {"name": "poolVault", "isMut": true, "isSigner": false},
        {"name": "tokenProgram", "isMut": false, "isSigner": false},
        {"name": "systemProgram", "isMut": false, "isSigner": false},
        {"name": "rent", "isMut": false, "isSigner": false}
      ],
      "args": [{"name": "amount", "type": "u64"}]
    },
    {
      "name": "unstake",
      "accounts": [
        {"name": "pool", "isMut": true, "isSigner": false},
        {"name": "userState", "isMut": true, "isSigner": false},
        {"name": "user", "isMut": true, "isSigner": true},
        {"name": "userTokenAccount", "isMut": true, "isSigner": false},
        {"name": "poolVault", "isMut": true, "isSigner": false},
        {"name": "tokenProgram", "isMut": false, "isSigner": false}
      ],
      "args": [{"name": "amount", "type": "u64"}]
    },
    {
      "name": "claim_rewards",
      "accounts": [
        {"name": "pool", "isMut": true, "isSigner": false},
        {"name": "userState", "isMut": true, "isSigner": false},
        {"name": "user", "isMut": true, "isSigner": true},
        {"name": "userRewardAccount", "isMut": true, "isSigner": false},
        {"name": "rewardVault", "isMut": true, "isSigner": false},
        {"name": "tokenProgram", "isMut": false, "isSigner": false}
      ],
      "args": []
    }
  ],
  "accounts": [
    {
      "name": "Pool",
      "type": {
        "kind": "struct",
        "fields": [
          {"name": "authority", "type": "publicKey"},
          {"name": "rewardMint", "type": "publicKey"},
          {"name": "rewardVault", "type": "publicKey"},
          {"name": "rewardRatePerSecond", "type": "u64"},
          {"name": "totalStaked", "type": "u64"},
          {"name": "accRewardPerShare", "type": "u128"},
          {"name": "lastUpdated", "type": "i64"}
        ]
      }
    },
    {
      "name": "UserState",
      "type": {
        "kind": "struct",
        "fields": [
          {"name": "owner", "type": "publicKey"},
          {"name": "amount", "type": "u64"},
          {"name": "rewardDebt", "type": "u128"},
          {"name": "rewardsPending", "type": "u64"}
        ]
      }
    }
  ]
}`

// LoadIDL normalizes the schema at path, or the built-in default when path
// is empty. File-supplied schemas go through the same repair pipeline, so a
// partially malformed export still loads.
func LoadIDL(path string) (*idl.Document, error) {
	raw := []byte(defaultIDLJSON)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read IDL file: %w", err)
		}
		raw = b
	}
	doc, err := idl.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize IDL: %w", err)
	}
	return doc, nil
}
