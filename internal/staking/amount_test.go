package staking

import (
	"math"
	"math/big"
	"testing"
)

func TestToRawAmount(t *testing.T) {
	cases := []struct {
		display float64
		want    uint64
	}{
		{0, 0},
		{-5, 0},
		{1, 1_000_000_000},
		{1.2345, 1_234_500_000},
		{0.0001, 100_000},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		if got := ToRawAmount(c.display, StakeMintDecimals); got != c.want {
			t.Errorf("ToRawAmount(%v) = %d, want %d", c.display, got, c.want)
		}
	}
}

func TestToRawAmountFloors(t *testing.T) {
	// Scaling must never round up past what the user typed.
	got := ToRawAmount(0.1234567899, StakeMintDecimals)
	if got > 123456790 {
		t.Errorf("ToRawAmount rounded up: %d", got)
	}
}

func TestFormatRaw(t *testing.T) {
	cases := []struct {
		raw  uint64
		want string
	}{
		{0, "0.0000"},
		{1_000_000_000, "1.0000"},
		{1_234_560_000, "1.2345"},
		{999, "0.0000"},
		{100_000, "0.0001"},
		{12_345_678_901_234, "12345.6789"},
	}
	for _, c := range cases {
		if got := FormatRaw(c.raw, StakeMintDecimals); got != c.want {
			t.Errorf("FormatRaw(%d) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestFormatBigWiderThan64Bits(t *testing.T) {
	v, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	got := FormatBig(v, StakeMintDecimals)
	want := "123456789012345678901.2345"
	if got != want {
		t.Errorf("FormatBig = %q, want %q", got, want)
	}
}

func TestDisplayAmountTruncates(t *testing.T) {
	// 1.23456789 tokens shows as 1.2345, never 1.2346.
	if got := DisplayAmount(1_234_567_890, StakeMintDecimals); got != 1.2345 {
		t.Errorf("DisplayAmount = %v, want 1.2345", got)
	}
}

func TestClampToBalance(t *testing.T) {
	cases := []struct {
		num, max, want float64
	}{
		{5, 10, 5},
		{-1, 10, 0},
		{15, 10, 10},
		{15, 0, 15}, // unknown balance leaves the upper bound open
		{math.NaN(), 10, 0},
	}
	for _, c := range cases {
		if got := ClampToBalance(c.num, c.max); got != c.want {
			t.Errorf("ClampToBalance(%v, %v) = %v, want %v", c.num, c.max, got, c.want)
		}
	}
}

func TestFloorTo4(t *testing.T) {
	if got := FloorTo4(1.23456); got != 1.2345 {
		t.Errorf("FloorTo4 = %v, want 1.2345", got)
	}
}

func TestStep(t *testing.T) {
	if got := Step(100); got != 5 {
		t.Errorf("Step(100) = %v, want 5", got)
	}
	if got := Step(0); got != 0.0001 {
		t.Errorf("Step(0) = %v, want 0.0001", got)
	}
}
