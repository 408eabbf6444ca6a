package domain

import (
	"math"

	"github.com/numi-network/numi-wallet/pkg/mathutil"
)

const (
	// FeePerLogicalAction is the marginal fee of one logical action in
	// zatoshis.
	FeePerLogicalAction uint64 = 5000
	// MinLogicalActions is the number of actions every transaction is charged
	// for at least.
	MinLogicalActions uint64 = 2
)

// LogicalActions estimates the logical actions of a transaction paying the
// given number of recipients: one for the change output, one per recipient
// and one more when a shielded input is spent.
func LogicalActions(numPayments int, hasShieldedInput bool) uint64 {
	actions := 1 + uint64(numPayments)
	if hasShieldedInput {
		actions++
	}
	return actions
}

// FeeForActions returns the conventional fee for n logical actions.
func FeeForActions(n uint64) uint64 {
	if n < MinLogicalActions {
		n = MinLogicalActions
	}
	fee, err := mathutil.CheckedMul(FeePerLogicalAction, n)
	if err != nil {
		return math.MaxUint64
	}
	return fee
}

// EstimateFee is the advisory fee, in zatoshis, of a transaction paying
// payments. It is never used to reject a submission.
func EstimateFee(payments []Payment, hasShieldedInput bool) uint64 {
	return FeeForActions(LogicalActions(len(payments), hasShieldedInput))
}
