package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
)

// ViewingKey is the read-only key material identifying an account: it allows
// scanning the chain for the account without spending authority.
type ViewingKey struct {
	Encoded string
	Network zaddr.Network
}

func (vk ViewingKey) validate() error {
	if len(vk.Encoded) <= 0 {
		return ErrNullViewingKey
	}
	if !vk.Network.IsValid() {
		return zaddr.ErrUnknownNetwork
	}
	return nil
}

// Fingerprint is the stable identity of the key, used as storage key so that
// importing the same key twice resolves to the same account.
func (vk ViewingKey) Fingerprint() string {
	h := sha256.Sum256([]byte(vk.Network.String() + ":" + vk.Encoded))
	return hex.EncodeToString(h[:])
}

// Account is a wallet account registered for scanning.
type Account struct {
	ID          string
	Fingerprint string
	ViewingKey  string
	Network     zaddr.Network
	Birthday    ChainState
	CreatedAt   int64
}

// NewAccount returns a new account for the given viewing key. The birthday is
// the chain state the scan of the account starts from.
func NewAccount(vk ViewingKey, birthday ChainState) (*Account, error) {
	if err := vk.validate(); err != nil {
		return nil, err
	}
	if birthday.Hash == "" {
		birthday.Hash = ZeroHash
	}

	return &Account{
		ID:          uuid.New().String(),
		Fingerprint: vk.Fingerprint(),
		ViewingKey:  vk.Encoded,
		Network:     vk.Network,
		Birthday:    birthday,
		CreatedAt:   time.Now().Unix(),
	}, nil
}

// AccountRepository is the abstraction for any kind of database intended to
// persist wallet accounts.
type AccountRepository interface {
	// GetOrCreateAccount returns the account matching the viewing key or
	// creates it with the given birthday. Lookup and creation are atomic.
	GetOrCreateAccount(
		ctx context.Context, vk ViewingKey, birthday ChainState,
	) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByViewingKey(ctx context.Context, vk ViewingKey) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}
