package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

const (
	// ExternalBranch is the branch of receive addresses.
	ExternalBranch uint32 = 0
	// InternalBranch is the branch of change addresses.
	InternalBranch uint32 = 1
)

// ExtendedKeyOpts is the struct given to ExtendedPublicKey method
type ExtendedKeyOpts struct {
	Account uint32
}

func (o ExtendedKeyOpts) validate() error {
	if o.Account > MaxHardenedValue {
		return ErrOutOfRangeAccount
	}
	return nil
}

// ExtendedPublicKey returns the base58 extended public key of the given
// account. It lets the holder derive every transparent receive address of the
// account without being able to spend.
func (w *Wallet) ExtendedPublicKey(opts ExtendedKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	path, err := AccountDerivationPath(w.network, opts.Account)
	if err != nil {
		return "", err
	}
	accountKey, err := derive(w.masterKey, path)
	if err != nil {
		return "", err
	}

	xpub, err := accountKey.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.String(), nil
}

// DeriveTransparentKeyOpts is the struct given to DeriveTransparentKey and
// DeriveTransparentAddress methods
type DeriveTransparentKeyOpts struct {
	ExtendedPublicKey string
	Branch            uint32
	Index             uint32
}

func (o DeriveTransparentKeyOpts) validate() error {
	if len(o.ExtendedPublicKey) <= 0 {
		return ErrNullExtendedKey
	}
	if o.Branch != ExternalBranch && o.Branch != InternalBranch {
		return ErrInvalidBranch
	}
	if o.Index >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeAddressIndex
	}
	return nil
}

// DeriveTransparentKey derives the public key at branch/index below the given
// account extended public key.
func DeriveTransparentKey(opts DeriveTransparentKeyOpts) (*btcec.PublicKey, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	accountKey, err := hdkeychain.NewKeyFromString(opts.ExtendedPublicKey)
	if err != nil {
		return nil, err
	}
	if accountKey.IsPrivate() {
		return nil, ErrPrivateExtendedKey
	}

	key, err := derive(accountKey, DerivationPath{opts.Branch, opts.Index})
	if err != nil {
		return nil, err
	}
	return key.ECPubKey()
}

// DeriveTransparentAddress derives the P2PKH address at branch/index below the
// given account extended public key.
func DeriveTransparentAddress(
	opts DeriveTransparentKeyOpts, net zaddr.Network,
) (string, error) {
	pubkey, err := DeriveTransparentKey(opts)
	if err != nil {
		return "", err
	}
	hash := btcutil.Hash160(pubkey.SerializeCompressed())
	return zaddr.EncodeTransparent(hash, zaddr.KindP2PKH, net)
}
