package zaddr_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		name     string
		expected zaddr.Network
	}{
		{"mainnet", zaddr.Mainnet},
		{"main", zaddr.Mainnet},
		{"TESTNET", zaddr.Testnet},
		{"regtest", zaddr.Regtest},
	}
	for _, tt := range tests {
		net, err := zaddr.ParseNetwork(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.expected, net)
	}

	_, err := zaddr.ParseNetwork("liquid")
	require.ErrorIs(t, err, zaddr.ErrUnknownNetwork)
}

func TestTransparentAddress(t *testing.T) {
	hash := bytes.Repeat([]byte{0x42}, 20)

	t.Run("p2pkh mainnet", func(t *testing.T) {
		addr, err := zaddr.EncodeTransparent(hash, zaddr.KindP2PKH, zaddr.Mainnet)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(addr, "t1"))

		decoded, err := zaddr.Parse(addr, zaddr.Mainnet)
		require.NoError(t, err)
		require.Equal(t, zaddr.KindP2PKH, decoded.Kind)
		require.Equal(t, hash, decoded.Payload)
		require.True(t, decoded.IsTransparent())
		require.False(t, decoded.CanReceiveMemo())
	})

	t.Run("p2sh mainnet", func(t *testing.T) {
		addr, err := zaddr.EncodeTransparent(hash, zaddr.KindP2SH, zaddr.Mainnet)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(addr, "t3"))

		decoded, err := zaddr.Parse(addr, zaddr.Mainnet)
		require.NoError(t, err)
		require.Equal(t, zaddr.KindP2SH, decoded.Kind)
	})

	t.Run("testnet address on mainnet", func(t *testing.T) {
		addr, err := zaddr.EncodeTransparent(hash, zaddr.KindP2PKH, zaddr.Testnet)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(addr, "tm"))

		_, err = zaddr.Parse(addr, zaddr.Mainnet)
		require.ErrorIs(t, err, zaddr.ErrNetworkMismatch)
	})

	t.Run("bad checksum", func(t *testing.T) {
		addr, err := zaddr.EncodeTransparent(hash, zaddr.KindP2PKH, zaddr.Mainnet)
		require.NoError(t, err)

		tampered := addr[:len(addr)-1] + flipBase58(addr[len(addr)-1])
		_, err = zaddr.Parse(tampered, zaddr.Mainnet)
		require.Error(t, err)
	})
}

func TestShieldedAddress(t *testing.T) {
	tests := []struct {
		name     string
		kind     zaddr.Kind
		payload  []byte
		net      zaddr.Network
		prefix   string
		memo     bool
		otherNet zaddr.Network
	}{
		{
			name:     "sapling mainnet",
			kind:     zaddr.KindSapling,
			payload:  bytes.Repeat([]byte{0x01}, 43),
			net:      zaddr.Mainnet,
			prefix:   "zs1",
			memo:     true,
			otherNet: zaddr.Testnet,
		},
		{
			name:     "sapling regtest",
			kind:     zaddr.KindSapling,
			payload:  bytes.Repeat([]byte{0x02}, 43),
			net:      zaddr.Regtest,
			prefix:   "zregtestsapling1",
			memo:     true,
			otherNet: zaddr.Mainnet,
		},
		{
			name:     "unified testnet",
			kind:     zaddr.KindUnified,
			payload:  bytes.Repeat([]byte{0x03}, 64),
			net:      zaddr.Testnet,
			prefix:   "utest1",
			memo:     true,
			otherNet: zaddr.Mainnet,
		},
		{
			name:     "tex mainnet",
			kind:     zaddr.KindTex,
			payload:  bytes.Repeat([]byte{0x04}, 20),
			net:      zaddr.Mainnet,
			prefix:   "tex1",
			memo:     false,
			otherNet: zaddr.Regtest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			addr, err := zaddr.EncodeShielded(tt.payload, tt.kind, tt.net)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(addr, tt.prefix))

			decoded, err := zaddr.Parse(addr, tt.net)
			require.NoError(t, err)
			require.Equal(t, tt.kind, decoded.Kind)
			require.Equal(t, tt.payload, decoded.Payload)
			require.Equal(t, tt.memo, decoded.CanReceiveMemo())

			_, err = zaddr.Parse(addr, tt.otherNet)
			require.ErrorIs(t, err, zaddr.ErrNetworkMismatch)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	shortSapling, err := zaddr.EncodeShielded(bytes.Repeat([]byte{0x01}, 43), zaddr.KindSapling, zaddr.Mainnet)
	require.NoError(t, err)
	tampered := shortSapling[:len(shortSapling)-1] + flipBech32(shortSapling[len(shortSapling)-1])

	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"bitcoin", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
		{"tampered sapling", tampered},
		{"zero payload", "zs1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, zaddr.IsValid(tt.addr, zaddr.Mainnet))
		})
	}
}

func flipBase58(c byte) string {
	if c == 'a' {
		return "b"
	}
	return "a"
}

func flipBech32(c byte) string {
	if c == 'q' {
		return "p"
	}
	return "q"
}
