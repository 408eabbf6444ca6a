package wallet

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

// Wallet holds the mnemonic and master key of a single HD wallet and derives
// the per-account keys used to identify the account on chain.
type Wallet struct {
	mnemonic  []string
	masterKey *hdkeychain.ExtendedKey
	network   zaddr.Network
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
	Network     zaddr.Network
}

func (o NewWalletOpts) validate() error {
	if !o.Network.IsValid() {
		return ErrNullNetwork
	}
	return NewMnemonicOpts{o.EntropySize}.validate()
}

// NewWallet creates a new wallet from a freshly generated mnemonic.
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := NewMnemonic(NewMnemonicOpts{opts.EntropySize})
	if err != nil {
		return nil, err
	}

	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
		Network:  opts.Network,
	})
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
	Network  zaddr.Network
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	if !o.Network.IsValid() {
		return ErrNullNetwork
	}
	return nil
}

// NewWalletFromMnemonic restores a wallet from its mnemonic.
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(opts.Mnemonic)
	masterKey, err := deriveMasterKey(seed, opts.Network)
	if err != nil {
		return nil, err
	}

	mnemonic := make([]string, len(opts.Mnemonic))
	copy(mnemonic, opts.Mnemonic)

	return &Wallet{
		mnemonic:  mnemonic,
		masterKey: masterKey,
		network:   opts.Network,
	}, nil
}

func (w *Wallet) validate() error {
	if w.masterKey == nil {
		return ErrNullMasterKey
	}
	if len(w.mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	return nil
}

// Mnemonic is getter for the wallet mnemonic
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.mnemonic, nil
}

// Network ...
func (w *Wallet) Network() zaddr.Network {
	return w.network
}
