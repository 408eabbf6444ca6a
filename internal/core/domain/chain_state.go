package domain

import (
	"context"
	"strings"
)

// ZeroHash is the hash of the genesis chain state in hex.
var ZeroHash = strings.Repeat("0", 64)

// ChainState is the scanner continuation point: the last block whose effects
// have been applied to the wallet.
type ChainState struct {
	Height uint64
	Hash   string
}

// GenesisChainState is the continuation point of a wallet that never scanned.
func GenesisChainState() ChainState {
	return ChainState{Height: 0, Hash: ZeroHash}
}

func (c ChainState) IsGenesis() bool {
	return c.Height == 0 && (c.Hash == "" || c.Hash == ZeroHash)
}

// ChainStateRepository persists the per-account scan cursor. Implementations
// reject a state whose height is lower than the latest one with
// ErrChainStateRegression.
type ChainStateRepository interface {
	GetLatestChainState(ctx context.Context, accountID string) (*ChainState, error)
	AddChainState(ctx context.Context, accountID string, state ChainState) error
}
