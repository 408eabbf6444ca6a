package mathutil

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

const (
	// CoinPrecision is the number of decimal places of one coin.
	CoinPrecision = 8
	// ZatoshisPerCoin ...
	ZatoshisPerCoin = uint64(100_000_000)
	// MaxMoney is the total supply cap expressed in zatoshis.
	MaxMoney = 21_000_000 * ZatoshisPerCoin
)

var (
	// ZatoshisPerCoinDecimal is ZatoshisPerCoin as decimal.Decimal
	ZatoshisPerCoinDecimal = decimal.NewFromBigInt(new(big.Int).SetUint64(ZatoshisPerCoin), 0)
	// MaxMoneyCoin is the supply cap expressed in coins.
	MaxMoneyCoin = decimal.NewFromInt(21_000_000)

	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrAmountTooLarge ...
	ErrAmountTooLarge = errors.New("amount exceeds the maximum supply")
	// ErrOverflow ...
	ErrOverflow = errors.New("arithmetic overflow")
)

// CoinToZatoshis converts a coin amount to zatoshis. Digits beyond the 8th
// decimal place are truncated.
func CoinToZatoshis(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	if amount.GreaterThan(MaxMoneyCoin) {
		return 0, ErrAmountTooLarge
	}
	return amount.Mul(ZatoshisPerCoinDecimal).BigInt().Uint64(), nil
}

// ZatoshisToCoin converts zatoshis to a coin amount.
func ZatoshisToCoin(zatoshis uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(zatoshis), -CoinPrecision)
}

// HasCoinPrecision returns whether the amount has no significant digit past
// the 8th decimal place, that is whether it converts to zatoshis exactly.
func HasCoinPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(CoinPrecision))
}

// FormatCoin returns zatoshis as a coin amount with exactly 8 decimals.
func FormatCoin(zatoshis uint64) string {
	return ZatoshisToCoin(zatoshis).StringFixed(CoinPrecision)
}

// CheckedAdd returns x + y or ErrOverflow if the sum does not fit in uint64.
func CheckedAdd(x, y uint64) (uint64, error) {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedMul returns x * y or ErrOverflow if the product does not fit in
// uint64.
func CheckedMul(x, y uint64) (uint64, error) {
	hi, lo := bits.Mul64(x, y)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
