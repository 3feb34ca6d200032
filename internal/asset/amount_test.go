package asset

import (
	"math/big"
	"testing"
)

func TestNewAmount_DefensiveCopy(t *testing.T) {
	raw := big.NewInt(100)
	a := NewAmount(raw)

	raw.SetInt64(999)
	if a.Raw().Int64() != 100 {
		t.Errorf("Amount mutated through caller's big.Int: got %s", a.Raw())
	}

	// Mutating the returned Raw must not touch the Amount either.
	a.Raw().SetInt64(777)
	if a.Raw().Int64() != 100 {
		t.Errorf("Amount mutated through Raw(): got %s", a.Raw())
	}
}

func TestNewAmount_PanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative raw value")
		}
	}()
	NewAmount(big.NewInt(-1))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "zero", input: "0", want: "0"},
		{name: "wei_scale", input: "1000000000000000000", want: "1000000000000000000"},
		{name: "larger_than_uint64", input: "340282366920938463463374607431768211456", want: "340282366920938463463374607431768211456"},
		{name: "negative", input: "-5", wantErr: true},
		{name: "float", input: "1.5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "hex", input: "0x10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %s", tt.input, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if a.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, a, tt.want)
			}
		})
	}
}

func TestAmount_SubUnderflow(t *testing.T) {
	a := NewAmountFromUint64(10)
	b := NewAmountFromUint64(11)

	if _, err := a.Sub(b); err != ErrNegativeResult {
		t.Errorf("Sub underflow error = %v, want ErrNegativeResult", err)
	}
	if got := b.MustSub(a); got.Raw().Int64() != 1 {
		t.Errorf("MustSub = %s, want 1", got)
	}
}

func TestAmount_Format(t *testing.T) {
	a, _ := ParseAmount("1050000000000000000")
	if got := a.Format(18); got != "1.05" {
		t.Errorf("Format(18) = %q, want %q", got, "1.05")
	}
	if got := Zero().Format(18); got != "0" {
		t.Errorf("zero Format(18) = %q, want %q", got, "0")
	}
}

func TestFeeOf(t *testing.T) {
	tests := []struct {
		name     string
		notional int64
		feeBps   uint64
		want     int64
	}{
		{name: "two_percent", notional: 3_300_000, feeBps: 200, want: 66_000},
		{name: "zero_fee", notional: 1_000_000, feeBps: 0, want: 0},
		{name: "floors_remainder", notional: 999, feeBps: 100, want: 9}, // 9.99 -> 9
		{name: "full_notional", notional: 500, feeBps: 10_000, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeeOf(big.NewInt(tt.notional), tt.feeBps)
			if got.Int64() != tt.want {
				t.Errorf("FeeOf(%d, %d) = %s, want %d", tt.notional, tt.feeBps, got, tt.want)
			}
		})
	}
}

func TestScaleBps_Inverse(t *testing.T) {
	// One step up then one step down must never gain value: floor division
	// can only lose dust, never create it.
	v := big.NewInt(1_000_000_000)
	up := ScaleUpBps(v, 500)
	down := ScaleDownBps(up, 500)

	if down.Cmp(v) > 0 {
		t.Errorf("round trip gained value: %s -> %s -> %s", v, up, down)
	}
}

func TestScaleUpBps(t *testing.T) {
	// 1,000,000 * 1.1 (1000 bps)
	got := ScaleUpBps(big.NewInt(1_000_000), 1000)
	if got.Int64() != 1_100_000 {
		t.Errorf("ScaleUpBps = %s, want 1100000", got)
	}
}

func BenchmarkFeeOf(b *testing.B) {
	notional, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FeeOf(notional, 250)
	}
}
