package zaddr

import (
	"fmt"
	"strings"
)

// Network identifies one of the supported chains.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

// Params holds the encoding parameters of a network.
type Params struct {
	Name        string
	P2PKHPrefix [2]byte
	P2SHPrefix  [2]byte
	SaplingHRP  string
	UnifiedHRP  string
	TexHRP      string
	// CoinType is the BIP44 coin type used for key derivation.
	CoinType uint32
}

var (
	MainnetParams = Params{
		Name:        "mainnet",
		P2PKHPrefix: [2]byte{0x1c, 0xb8},
		P2SHPrefix:  [2]byte{0x1c, 0xbd},
		SaplingHRP:  "zs",
		UnifiedHRP:  "u",
		TexHRP:      "tex",
		CoinType:    133,
	}
	TestnetParams = Params{
		Name:        "testnet",
		P2PKHPrefix: [2]byte{0x1d, 0x25},
		P2SHPrefix:  [2]byte{0x1c, 0xba},
		SaplingHRP:  "ztestsapling",
		UnifiedHRP:  "utest",
		TexHRP:      "textest",
		CoinType:    1,
	}
	RegtestParams = Params{
		Name:        "regtest",
		P2PKHPrefix: [2]byte{0x1d, 0x25},
		P2SHPrefix:  [2]byte{0x1c, 0xba},
		SaplingHRP:  "zregtestsapling",
		UnifiedHRP:  "uregtest",
		TexHRP:      "texregtest",
		CoinType:    1,
	}

	networks = []Network{Mainnet, Testnet, Regtest}
)

// ParseNetwork accepts the canonical network names and their short forms.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}

// Params returns the encoding parameters of the network, nil if unknown.
func (n Network) Params() *Params {
	switch n {
	case Mainnet:
		return &MainnetParams
	case Testnet:
		return &TestnetParams
	case Regtest:
		return &RegtestParams
	default:
		return nil
	}
}

func (n Network) String() string {
	if p := n.Params(); p != nil {
		return p.Name
	}
	return fmt.Sprintf("unknown(%d)", int(n))
}

// IsValid returns whether n is one of the supported networks.
func (n Network) IsValid() bool {
	return n.Params() != nil
}
