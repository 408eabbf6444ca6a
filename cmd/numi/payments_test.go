package main

import (
	"testing"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	saplingAddr     = "ztestsapling10yy2ex5dcqkclhc7z7yrnjq2z6feyjad56ptwlfgmy77dmaqqrl9gyhprdx59qgmsnyfska2kez"
	transparentAddr = "tmEZhbWHTpdKMw5it8YDspUXSMGQyFwovpU"
)

func TestParsePayments(t *testing.T) {
	t.Run("with memos", func(t *testing.T) {
		payments, err := parsePayments(
			[]string{saplingAddr, transparentAddr},
			[]string{"1.5", "0.00000001"},
			[]string{"rent", ""},
		)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		require.True(t, decimal.RequireFromString("1.5").Equal(payments[0].Amount))
		require.Equal(t, []byte("rent"), payments[0].Memo)
		require.False(t, payments[1].HasMemo())
	})

	t.Run("without memos", func(t *testing.T) {
		payments, err := parsePayments(
			[]string{transparentAddr}, []string{"2"}, nil,
		)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		require.Nil(t, payments[0].Memo)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parsePayments([]string{saplingAddr}, nil, nil)
		require.Error(t, err)

		_, err = parsePayments(
			[]string{saplingAddr, transparentAddr}, []string{"1", "2"},
			[]string{"only one"},
		)
		require.Error(t, err)

		_, err = parsePayments([]string{saplingAddr}, []string{"one"}, nil)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestParsePaymentRequest(t *testing.T) {
	req, err := parsePaymentRequest(
		"zcash:?address=" + transparentAddr + "&amount=123.456" +
			"&address.1=" + saplingAddr + "&memo.1=VGhpcyBpcyBhIHNpbXBsZSBtZW1vLg&label.1=coffee",
	)
	require.NoError(t, err)
	require.Len(t, req.Items, 2)

	require.Equal(t, transparentAddr, req.Items[0].Address)
	require.True(t, decimal.RequireFromString("123.456").Equal(*req.Items[0].Amount))

	require.Equal(t, saplingAddr, req.Items[1].Address)
	require.Nil(t, req.Items[1].Amount)
	require.Equal(t, "This is a simple memo.", string(req.Items[1].Memo))
	require.Equal(t, "coffee", req.Items[1].Label)

	_, err = parsePaymentRequest("bitcoin:" + transparentAddr)
	require.Error(t, err)
}
