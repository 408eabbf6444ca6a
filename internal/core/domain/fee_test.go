package domain_test

import (
	"testing"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEstimateFee(t *testing.T) {
	tests := []struct {
		numPayments      int
		hasShieldedInput bool
		expectedActions  uint64
		expectedFee      uint64
	}{
		{0, false, 1, 10000},
		{1, false, 2, 10000},
		{1, true, 3, 15000},
		{2, false, 3, 15000},
		{5, true, 7, 35000},
	}

	for _, tt := range tests {
		payments := make([]domain.Payment, tt.numPayments)
		for i := range payments {
			payments[i] = domain.Payment{Address: saplingAddress(byte(i)), Amount: decimal.NewFromInt(1)}
		}

		require.Equal(t, tt.expectedActions, domain.LogicalActions(tt.numPayments, tt.hasShieldedInput))
		require.Equal(t, tt.expectedFee, domain.EstimateFee(payments, tt.hasShieldedInput))
	}
}

func TestEstimateFeeProperties(t *testing.T) {
	prev := uint64(0)
	for n := 0; n < 50; n++ {
		for _, shielded := range []bool{false, true} {
			fee := domain.FeeForActions(domain.LogicalActions(n, shielded))
			require.GreaterOrEqual(t, fee, domain.FeePerLogicalAction*domain.MinLogicalActions)
		}
		fee := domain.FeeForActions(domain.LogicalActions(n, false))
		require.GreaterOrEqual(t, fee, prev)
		prev = fee
	}
}
