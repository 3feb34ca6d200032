package asset

import "math/big"

// BpsDenominator is the basis-point scale: 10,000 bps = 100%.
const BpsDenominator = 10_000

var bpsDenominator = big.NewInt(BpsDenominator)

// FeeOf returns notional * feeBps / 10000, floored. The result shares no
// memory with notional.
func FeeOf(notional *big.Int, feeBps uint64) *big.Int {
	fee := new(big.Int).Mul(notional, new(big.Int).SetUint64(feeBps))
	return fee.Div(fee, bpsDenominator)
}

// ScaleUpBps returns v * (10000 + bps) / 10000, floored. This is one
// multiplicative step up an exponential curve.
func ScaleUpBps(v *big.Int, bps uint64) *big.Int {
	num := new(big.Int).Add(bpsDenominator, new(big.Int).SetUint64(bps))
	num.Mul(v, num)
	return num.Div(num, bpsDenominator)
}

// ScaleDownBps returns v * 10000 / (10000 + bps), floored. This is one
// multiplicative step down an exponential curve, the exact inverse direction
// of ScaleUpBps modulo flooring.
func ScaleDownBps(v *big.Int, bps uint64) *big.Int {
	den := new(big.Int).Add(bpsDenominator, new(big.Int).SetUint64(bps))
	num := new(big.Int).Mul(v, bpsDenominator)
	return num.Div(num, den)
}
