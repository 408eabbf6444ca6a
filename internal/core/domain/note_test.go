package domain_test

import (
	"math"
	"testing"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestBalanceFromNotes(t *testing.T) {
	notes := []domain.Note{
		{TxID: "a", Pool: domain.PoolTransparent, Value: 100},
		{TxID: "b", Pool: domain.PoolSapling, Value: 250},
		{TxID: "c", Pool: domain.PoolOrchard, Value: 50},
		{TxID: "d", Pool: domain.PoolSapling, Value: 50},
		{TxID: "e", Pool: domain.PoolOrchard, Value: 1000, Spent: true},
	}

	balance, err := domain.BalanceFromNotes(notes)
	require.NoError(t, err)
	require.Equal(t, domain.Balance{
		Transparent: 100,
		Sapling:     300,
		Orchard:     50,
		Total:       450,
	}, *balance)

	empty, err := domain.BalanceFromNotes(nil)
	require.NoError(t, err)
	require.Zero(t, empty.Total)
}

func TestBalanceOverflow(t *testing.T) {
	_, err := domain.NewBalance(math.MaxUint64, 1, 0)
	require.ErrorIs(t, err, domain.ErrBalanceOverflow)

	_, err = domain.NewBalance(1, math.MaxUint64-1, 1)
	require.ErrorIs(t, err, domain.ErrBalanceOverflow)

	_, err = domain.BalanceFromNotes([]domain.Note{
		{TxID: "a", Pool: domain.PoolSapling, Value: math.MaxUint64},
		{TxID: "b", Pool: domain.PoolSapling, Value: 1},
	})
	require.ErrorIs(t, err, domain.ErrBalanceOverflow)
}

func TestNoteKey(t *testing.T) {
	n := domain.Note{TxID: "abcd", Pool: domain.PoolOrchard, OutputIndex: 2}
	require.Equal(t, "abcd:orchard:2", n.Key())
}
