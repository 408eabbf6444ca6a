package domain_test

import (
	"testing"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	vk := domain.ViewingKey{Encoded: "xpub-test", Network: zaddr.Testnet}

	account, err := domain.NewAccount(vk, domain.ChainState{})
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.Equal(t, vk.Fingerprint(), account.Fingerprint)
	require.True(t, account.Birthday.IsGenesis())
	require.Equal(t, domain.ZeroHash, account.Birthday.Hash)

	other, err := domain.NewAccount(vk, domain.GenesisChainState())
	require.NoError(t, err)
	require.NotEqual(t, account.ID, other.ID)
	require.Equal(t, account.Fingerprint, other.Fingerprint)

	mainnetKey := domain.ViewingKey{Encoded: "xpub-test", Network: zaddr.Mainnet}
	require.NotEqual(t, vk.Fingerprint(), mainnetKey.Fingerprint())

	_, err = domain.NewAccount(domain.ViewingKey{Network: zaddr.Testnet}, domain.ChainState{})
	require.ErrorIs(t, err, domain.ErrNullViewingKey)
}
