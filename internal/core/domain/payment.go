package domain

import (
	"fmt"
	"math"

	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/shopspring/decimal"
)

const (
	// MaxMemoSize is the size in bytes of the memo field of a shielded
	// output.
	MaxMemoSize = 512

	// FromAddressIndex is the ValidationError index of the source address.
	FromAddressIndex = -1
	// FeeIndex is the ValidationError index of the fee override.
	FeeIndex = -2
)

// ViolationKind enumerates the reasons a payment is rejected locally.
type ViolationKind int

const (
	InvalidAmount ViolationKind = iota
	MemoTooLarge
	MemoOnTransparentAddress
	InvalidAddress
	InvalidFee
)

func (k ViolationKind) sentinel() error {
	switch k {
	case InvalidAmount:
		return ErrInvalidAmount
	case MemoTooLarge:
		return ErrMemoTooLarge
	case MemoOnTransparentAddress:
		return ErrMemoOnTransparentAddress
	case InvalidAddress:
		return ErrInvalidAddress
	case InvalidFee:
		return ErrInvalidFee
	default:
		return nil
	}
}

func (k ViolationKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown violation"
}

// ValidationError reports the first rule a payment violates. Index is the
// position of the payment in the submitted list, or FromAddressIndex and
// FeeIndex for the other request fields.
type ValidationError struct {
	Index  int
	Kind   ViolationKind
	Reason string
}

func (e *ValidationError) Error() string {
	var subject string
	switch e.Index {
	case FromAddressIndex:
		subject = "from address"
	case FeeIndex:
		subject = "fee"
	default:
		subject = fmt.Sprintf("payment #%d", e.Index)
	}

	msg := fmt.Sprintf("%s: %s", subject, e.Kind)
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Kind.sentinel()
}

// Payment is a single recipient of an outgoing transaction. Amount is in
// coins.
type Payment struct {
	Address string
	Amount  decimal.Decimal
	Memo    []byte
}

func (p Payment) HasMemo() bool {
	return len(p.Memo) > 0
}

// Zatoshis returns the amount in the smallest unit.
func (p Payment) Zatoshis() (uint64, error) {
	return mathutil.CoinToZatoshis(p.Amount)
}

// AmountFromFloat converts a user provided float amount, rejecting NaN and
// infinities.
func AmountFromFloat(amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v is not a finite number", ErrInvalidAmount, amount)
	}
	return decimal.NewFromFloat(amount), nil
}

// ValidatePayment applies, in order, the amount, memo size, memo
// capability and address rules and returns the first violation. Amounts must
// be a whole number of zatoshis.
func ValidatePayment(index int, p Payment, net zaddr.Network) error {
	addr, addrErr := zaddr.Parse(p.Address, net)

	if !p.Amount.IsPositive() || p.Amount.GreaterThan(mathutil.MaxMoneyCoin) {
		return &ValidationError{
			Index:  index,
			Kind:   InvalidAmount,
			Reason: fmt.Sprintf("%s must be in range (0, %s]", p.Amount, mathutil.MaxMoneyCoin),
		}
	}
	if !mathutil.HasCoinPrecision(p.Amount) {
		return &ValidationError{
			Index:  index,
			Kind:   InvalidAmount,
			Reason: fmt.Sprintf("%s has more than %d decimal places", p.Amount, mathutil.CoinPrecision),
		}
	}
	if len(p.Memo) > MaxMemoSize {
		return &ValidationError{
			Index:  index,
			Kind:   MemoTooLarge,
			Reason: fmt.Sprintf("%d bytes, max %d", len(p.Memo), MaxMemoSize),
		}
	}
	if p.HasMemo() && addrErr == nil && !addr.CanReceiveMemo() {
		return &ValidationError{
			Index:  index,
			Kind:   MemoOnTransparentAddress,
			Reason: fmt.Sprintf("%s address %s", addr.Kind, p.Address),
		}
	}
	if addrErr != nil {
		return &ValidationError{
			Index:  index,
			Kind:   InvalidAddress,
			Reason: addrErr.Error(),
		}
	}
	return nil
}

// ValidatePayments returns the first violation of the list, if any.
func ValidatePayments(payments []Payment, net zaddr.Network) error {
	if len(payments) <= 0 {
		return ErrNoPayments
	}
	for i, p := range payments {
		if err := ValidatePayment(i, p, net); err != nil {
			return err
		}
	}
	return nil
}

// CollectViolations returns the first violation of every invalid payment of
// the list.
func CollectViolations(payments []Payment, net zaddr.Network) []*ValidationError {
	violations := make([]*ValidationError, 0)
	for i, p := range payments {
		if err := ValidatePayment(i, p, net); err != nil {
			violations = append(violations, err.(*ValidationError))
		}
	}
	return violations
}

// ValidateFromAddress parses the source address of a submission.
func ValidateFromAddress(address string, net zaddr.Network) (*zaddr.Address, error) {
	addr, err := zaddr.Parse(address, net)
	if err != nil {
		return nil, &ValidationError{
			Index:  FromAddressIndex,
			Kind:   InvalidAddress,
			Reason: err.Error(),
		}
	}
	return addr, nil
}

// ValidateFee checks an optional fee override expressed in coins.
func ValidateFee(fee *decimal.Decimal) error {
	if fee == nil {
		return nil
	}
	if fee.IsNegative() || fee.GreaterThan(mathutil.MaxMoneyCoin) {
		return &ValidationError{
			Index:  FeeIndex,
			Kind:   InvalidFee,
			Reason: fmt.Sprintf("%s must be in range [0, %s]", fee, mathutil.MaxMoneyCoin),
		}
	}
	if !mathutil.HasCoinPrecision(*fee) {
		return &ValidationError{
			Index:  FeeIndex,
			Kind:   InvalidFee,
			Reason: fmt.Sprintf("%s has more than %d decimal places", fee, mathutil.CoinPrecision),
		}
	}
	return nil
}
