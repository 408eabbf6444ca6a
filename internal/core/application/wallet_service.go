package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/wallet"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultAccountIndex is the BIP44 account used by the wallet.
const DefaultAccountIndex uint32 = 0

// ErrWalletNetworkMismatch is returned when the stored wallet was created for
// another network than the configured one.
var ErrWalletNetworkMismatch = errors.New("wallet belongs to another network")

type WalletInfo struct {
	Network        zaddr.Network
	ViewingKey     string
	AccountIndex   uint32
	BirthdayHeight uint64
	CreatedAt      int64
	// AccountID and SyncedState are set once the wallet has been synced.
	AccountID   string
	SyncedState *domain.ChainState
}

// ExportedViewingKeys is the full, unredacted viewing material of the wallet
// account, meant to be handed to an auditor. TransparentAddress is the first
// receive address derived from the key, for the auditor to check it.
type ExportedViewingKeys struct {
	Network            zaddr.Network
	AccountIndex       uint32
	ViewingKey         string
	TransparentAddress string
	BirthdayHeight     uint64
}

type AddressInfo struct {
	Address string
	Kind    string
	Account string
	Label   string
}

type WalletService interface {
	ports.ViewingKeyProvider
	// CreateWallet generates a new mnemonic, stores it encrypted with password
	// and returns it.
	CreateWallet(
		ctx context.Context, password string, birthdayHeight uint64,
	) ([]string, error)
	RestoreWallet(
		ctx context.Context, mnemonic []string, password string,
		birthdayHeight uint64,
	) error
	ExportMnemonic(ctx context.Context, password string) ([]string, error)
	GetTransparentAddress(ctx context.Context, index uint32) (string, error)
	NewShieldedAddress(ctx context.Context, addressType string) (string, error)
	// GetBalance sums the unspent notes found by the local scanner.
	GetBalance(ctx context.Context) (*domain.Balance, error)
	GetRemoteBalance(ctx context.Context, minConf uint32) (ports.RemoteBalance, error)
	// GetAddressBalance returns the node balance of one address in coins.
	GetAddressBalance(
		ctx context.Context, address string, minConf uint32,
	) (decimal.Decimal, error)
	// ListAddresses returns the addresses known to the node wallet.
	ListAddresses(ctx context.Context) ([]AddressInfo, error)
	ExportViewingKeys(ctx context.Context) (*ExportedViewingKeys, error)
	GetInfo(ctx context.Context) (*WalletInfo, error)
}

type walletService struct {
	walletRepository     domain.WalletRepository
	accountRepository    domain.AccountRepository
	chainStateRepository domain.ChainStateRepository
	noteRepository       domain.NoteRepository
	nodeSvc              ports.NodeService
	network              zaddr.Network
}

func NewWalletService(
	repoManager ports.RepoManager,
	nodeSvc ports.NodeService,
	network zaddr.Network,
) WalletService {
	return &walletService{
		walletRepository:     repoManager.WalletRepository(),
		accountRepository:    repoManager.AccountRepository(),
		chainStateRepository: repoManager.ChainStateRepository(),
		noteRepository:       repoManager.NoteRepository(),
		nodeSvc:              nodeSvc,
		network:              network,
	}
}

func (w *walletService) CreateWallet(
	ctx context.Context, password string, birthdayHeight uint64,
) ([]string, error) {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: 256})
	if err != nil {
		return nil, err
	}
	if err := w.storeWallet(ctx, mnemonic, password, birthdayHeight); err != nil {
		return nil, err
	}
	return mnemonic, nil
}

func (w *walletService) RestoreWallet(
	ctx context.Context, mnemonic []string, password string,
	birthdayHeight uint64,
) error {
	return w.storeWallet(ctx, mnemonic, password, birthdayHeight)
}

func (w *walletService) storeWallet(
	ctx context.Context, mnemonic []string, password string,
	birthdayHeight uint64,
) error {
	hdWallet, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
		Network:  w.network,
	})
	if err != nil {
		return err
	}
	xpub, err := hdWallet.ExtendedPublicKey(wallet.ExtendedKeyOpts{
		Account: DefaultAccountIndex,
	})
	if err != nil {
		return err
	}
	encryptedMnemonic, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  strings.Join(mnemonic, " "),
		Passphrase: password,
	})
	if err != nil {
		return err
	}

	record, err := domain.NewWallet(
		encryptedMnemonic, xpub, w.network, DefaultAccountIndex, birthdayHeight,
	)
	if err != nil {
		return err
	}
	if err := w.walletRepository.CreateWallet(ctx, *record); err != nil {
		return err
	}

	log.Infof("wallet created on %s with birthday %d", w.network, birthdayHeight)
	return nil
}

func (w *walletService) ExportMnemonic(
	ctx context.Context, password string,
) ([]string, error) {
	record, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}
	mnemonic, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: record.EncryptedMnemonic,
		Passphrase: password,
	})
	if err != nil {
		return nil, err
	}
	return strings.Split(mnemonic, " "), nil
}

// GetViewingKey returns the account extended public key of the stored
// wallet.
func (w *walletService) GetViewingKey(
	ctx context.Context,
) (domain.ViewingKey, error) {
	record, err := w.getWallet(ctx)
	if err != nil {
		return domain.ViewingKey{}, err
	}
	return record.GetViewingKey(), nil
}

func (w *walletService) GetTransparentAddress(
	ctx context.Context, index uint32,
) (string, error) {
	record, err := w.getWallet(ctx)
	if err != nil {
		return "", err
	}
	return wallet.DeriveTransparentAddress(wallet.DeriveTransparentKeyOpts{
		ExtendedPublicKey: record.ViewingKey,
		Branch:            wallet.ExternalBranch,
		Index:             index,
	}, w.network)
}

func (w *walletService) NewShieldedAddress(
	ctx context.Context, addressType string,
) (string, error) {
	addr, err := w.nodeSvc.GetNewAddress(ctx, addressType)
	if err != nil {
		return "", err
	}
	if _, err := zaddr.Parse(addr, w.network); err != nil {
		return "", fmt.Errorf(
			"%w: node returned address %q: %s", domain.ErrRemoteUnavailable, addr, err,
		)
	}
	return addr, nil
}

func (w *walletService) GetBalance(ctx context.Context) (*domain.Balance, error) {
	account, err := w.getAccount(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return domain.NewBalance(0, 0, 0)
	}

	notes, err := w.noteRepository.GetUnspentNotes(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return domain.BalanceFromNotes(notes)
}

func (w *walletService) GetRemoteBalance(
	ctx context.Context, minConf uint32,
) (ports.RemoteBalance, error) {
	return w.nodeSvc.GetTotalBalance(ctx, minConf)
}

func (w *walletService) GetAddressBalance(
	ctx context.Context, address string, minConf uint32,
) (decimal.Decimal, error) {
	if _, err := zaddr.Parse(address, w.network); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, err)
	}
	return w.nodeSvc.GetAddressBalance(ctx, address, minConf)
}

// ListAddresses fails if the node reports an address that does not belong
// to the configured network.
func (w *walletService) ListAddresses(ctx context.Context) ([]AddressInfo, error) {
	addresses, err := w.nodeSvc.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]AddressInfo, 0, len(addresses))
	for _, a := range addresses {
		addr, err := zaddr.Parse(a.GetAddress(), w.network)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: node returned address %q: %s",
				domain.ErrRemoteUnavailable, a.GetAddress(), err,
			)
		}
		infos = append(infos, AddressInfo{
			Address: a.GetAddress(),
			Kind:    addr.Kind.String(),
			Account: a.GetAccount(),
			Label:   a.GetLabel(),
		})
	}
	return infos, nil
}

func (w *walletService) ExportViewingKeys(
	ctx context.Context,
) (*ExportedViewingKeys, error) {
	record, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := w.GetTransparentAddress(ctx, 0)
	if err != nil {
		return nil, err
	}

	log.Warn("exporting the wallet viewing key, it reveals every transaction")
	return &ExportedViewingKeys{
		Network:            record.Network,
		AccountIndex:       record.AccountIndex,
		ViewingKey:         record.ViewingKey,
		TransparentAddress: addr,
		BirthdayHeight:     record.BirthdayHeight,
	}, nil
}

func (w *walletService) GetInfo(ctx context.Context) (*WalletInfo, error) {
	record, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}
	info := &WalletInfo{
		Network:        record.Network,
		ViewingKey:     redact(record.ViewingKey),
		AccountIndex:   record.AccountIndex,
		BirthdayHeight: record.BirthdayHeight,
		CreatedAt:      record.CreatedAt,
	}

	account, err := w.getAccount(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return info, nil
	}
	info.AccountID = account.ID

	state, err := w.chainStateRepository.GetLatestChainState(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain state: %w", err)
	}
	info.SyncedState = state
	return info, nil
}

func (w *walletService) getWallet(ctx context.Context) (*domain.Wallet, error) {
	record, err := w.walletRepository.GetWallet(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, ErrWalletNotInitialized
		}
		return nil, err
	}
	if record.Network != w.network {
		return nil, fmt.Errorf(
			"%w: wallet is on %s, configured network is %s",
			ErrWalletNetworkMismatch, record.Network, w.network,
		)
	}
	return record, nil
}

// getAccount returns the scanning account of the wallet, nil if the wallet
// never synced.
func (w *walletService) getAccount(ctx context.Context) (*domain.Account, error) {
	vk, err := w.GetViewingKey(ctx)
	if err != nil {
		return nil, err
	}
	account, err := w.accountRepository.GetAccountByViewingKey(ctx, vk)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func redact(key string) string {
	if len(key) <= 24 {
		return key
	}
	return key[:12] + "..." + key[len(key)-8:]
}
