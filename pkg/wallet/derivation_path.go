package wallet

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic key path.
type DerivationPath []uint32

// AccountDerivationPath returns the BIP44 account path m/44'/coin'/account'
// of the given network.
func AccountDerivationPath(net zaddr.Network, account uint32) (DerivationPath, error) {
	params := net.Params()
	if params == nil {
		return nil, ErrNullNetwork
	}
	if account > MaxHardenedValue {
		return nil, ErrOutOfRangeAccount
	}
	return DerivationPath{
		hdkeychain.HardenedKeyStart + purpose,
		hdkeychain.HardenedKeyStart + params.CoinType,
		hdkeychain.HardenedKeyStart + account,
	}, nil
}

// ParseDerivationPath converts a derivation path string to the
// internal binary representation
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	if strings.TrimSpace(strPath) == "" {
		return nil, ErrNullDerivationPath
	}

	elems := strings.Split(strPath, "/")
	for _, elem := range elems {
		if strings.TrimSpace(elem) == "" {
			return nil, ErrMalformedDerivationPath
		}
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}
	if len(elems) == 0 {
		return nil, ErrMalformedDerivationPath
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("%w: invalid elem '%s'", ErrInvalidDerivationPath, elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			return nil, fmt.Errorf(
				"%w: elem %v must be in range [0, %d]", ErrInvalidDerivationPath, bigval, max,
			)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("m")
	for _, component := range path {
		hardened := component >= hdkeychain.HardenedKeyStart
		if hardened {
			component -= hdkeychain.HardenedKeyStart
		}
		fmt.Fprintf(&sb, "/%d", component)
		if hardened {
			sb.WriteString("'")
		}
	}
	return sb.String()
}
