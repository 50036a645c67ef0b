// Package layout decodes the staking program's fixed-layout accounts from
// raw bytes. The program's IDL has drifted from the deployed layouts, so the
// dashboard treats this manual decode as the source of truth and keeps any
// schema-driven decode for cross-checking only.
package layout

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/Reddjoseph/DEMOHZK/internal/solana"
)

// discLen is the size of the opaque record tag prefixing every account.
// The tag is skipped, not interpreted: the deployed program predates the
// IDL the dashboard ships, so the expected tag value is not known here and
// callers classify records by the address they fetched.
const discLen = 8

// Fixed record sizes, discriminator included.
const (
	// Pool: 3 pubkeys, u64 rewardRatePerSecond, u64 totalStaked,
	// u128 accRewardPerShare, i64 lastUpdated.
	PoolMinLen = discLen + 32*3 + 8 + 8 + 16 + 8

	// UserState: owner pubkey, u64 amount, u128 rewardDebt,
	// u64 rewardsPending.
	UserStateMinLen = discLen + 32 + 8 + 16 + 8
)

// SizeError reports a buffer shorter than a record's fixed layout.
type SizeError struct {
	Record string
	Len    int
	Min    int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("raw data length too small for %s layout", e.Record)
}

// PoolRecord is the decoded global staking pool state.
// Key fields hold base58 strings; an empty string means the 32-byte value
// could not be rendered (recorded, not fatal).
type PoolRecord struct {
	Authority           string   `json:"authority"`
	RewardMint          string   `json:"rewardMint"`
	RewardVault         string   `json:"rewardVault"`
	RewardRatePerSecond uint64   `json:"rewardRatePerSecond"`
	TotalStaked         uint64   `json:"totalStaked"`
	AccRewardPerShare   *big.Int `json:"accRewardPerShare"`
	LastUpdated         int64    `json:"lastUpdated"`
	RawDataLen          int      `json:"rawDataLen"`
}

// UserStateRecord is one wallet's decoded staking position.
type UserStateRecord struct {
	Owner          string   `json:"owner"`
	Amount         uint64   `json:"amount"`
	RewardDebt     *big.Int `json:"rewardDebt"`
	RewardsPending uint64   `json:"rewardsPending"`
	RawDataLen     int      `json:"rawDataLen"`
}

// ReadU64LE reads an unsigned 64-bit little-endian integer at offset.
// The buffer must hold at least 8 bytes past offset.
func ReadU64LE(buf []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buf[offset : offset+8])
}

// ReadU128LE reads an unsigned 128-bit little-endian integer at offset as
// two consecutive 64-bit words: (high << 64) | low.
func ReadU128LE(buf []byte, offset int) *big.Int {
	low := ReadU64LE(buf, offset)
	high := ReadU64LE(buf, offset+8)

	v := new(big.Int).SetUint64(high)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(low))
}

// readKey renders 32 bytes at offset as a base58 address, or "" if the
// bytes cannot be rendered.
func readKey(buf []byte, offset int) string {
	pk, err := solana.PublicKeyFromBytes(buf[offset : offset+32])
	if err != nil {
		return ""
	}
	return pk.String()
}

// DecodePool interprets raw account bytes as the pool record.
// Returns *SizeError (never panics) when the buffer is shorter than the
// fixed layout.
func DecodePool(data []byte) (*PoolRecord, error) {
	if len(data) < PoolMinLen {
		return nil, &SizeError{Record: "Pool", Len: len(data), Min: PoolMinLen}
	}

	rec := &PoolRecord{
		Authority:   readKey(data, discLen),
		RewardMint:  readKey(data, discLen+32),
		RewardVault: readKey(data, discLen+64),
		RawDataLen:  len(data),
	}

	offset := discLen + 96
	rec.RewardRatePerSecond = ReadU64LE(data, offset)
	offset += 8
	rec.TotalStaked = ReadU64LE(data, offset)
	offset += 8
	rec.AccRewardPerShare = ReadU128LE(data, offset)
	offset += 16

	// last_updated is declared i64 on chain; read with the u64 routine and
	// reinterpret the bits.
	rec.LastUpdated = int64(ReadU64LE(data, offset))

	return rec, nil
}

// DecodeUserState interprets raw account bytes as a user position record.
func DecodeUserState(data []byte) (*UserStateRecord, error) {
	if len(data) < UserStateMinLen {
		return nil, &SizeError{Record: "UserState", Len: len(data), Min: UserStateMinLen}
	}

	rec := &UserStateRecord{
		Owner:      readKey(data, discLen),
		RawDataLen: len(data),
	}

	offset := discLen + 32
	rec.Amount = ReadU64LE(data, offset)
	offset += 8
	rec.RewardDebt = ReadU128LE(data, offset)
	offset += 16
	rec.RewardsPending = ReadU64LE(data, offset)

	return rec, nil
}

// AppendU64LE appends the little-endian encoding of v.
// Inverse of ReadU64LE; used by tests and the instruction encoder.
func AppendU64LE(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}
