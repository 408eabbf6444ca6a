package domain

import (
	"context"
	"time"

	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

// Wallet is the local key material record. The mnemonic is stored encrypted
// and the account viewing key in clear.
type Wallet struct {
	EncryptedMnemonic string
	ViewingKey        string
	Network           zaddr.Network
	AccountIndex      uint32
	BirthdayHeight    uint64
	CreatedAt         int64
}

func NewWallet(
	encryptedMnemonic, viewingKey string, network zaddr.Network,
	accountIndex uint32, birthdayHeight uint64,
) (*Wallet, error) {
	vk := ViewingKey{viewingKey, network}
	if err := vk.validate(); err != nil {
		return nil, err
	}
	return &Wallet{
		EncryptedMnemonic: encryptedMnemonic,
		ViewingKey:        viewingKey,
		Network:           network,
		AccountIndex:      accountIndex,
		BirthdayHeight:    birthdayHeight,
		CreatedAt:         time.Now().Unix(),
	}, nil
}

func (w *Wallet) GetViewingKey() ViewingKey {
	return ViewingKey{w.ViewingKey, w.Network}
}

type WalletRepository interface {
	// CreateWallet fails with ErrWalletAlreadyExists if a wallet is stored.
	CreateWallet(ctx context.Context, wallet Wallet) error
	GetWallet(ctx context.Context) (*Wallet, error)
}
