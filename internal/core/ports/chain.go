package ports

import "context"

type BlockID interface {
	GetHeight() uint64
	GetHash() string
}

// CompactBlock is the reduced block representation served to light clients.
// Hashes are hex encoded in display (big-endian) order.
type CompactBlock interface {
	GetHeight() uint64
	GetHash() string
	GetPrevHash() string
	GetTime() uint32
	GetNumTransactions() int
	// GetRaw returns the block as received, for scanners that need the
	// shielded outputs.
	GetRaw() []byte
}

type LightdInfo interface {
	GetVersion() string
	GetVendor() string
	GetChainName() string
	GetConsensusBranchID() string
	GetBlockHeight() uint64
	GetSaplingActivationHeight() uint64
	GetEstimatedHeight() uint64
}

// ChainDataService is the source of compact blocks.
type ChainDataService interface {
	GetLatestBlock(ctx context.Context) (BlockID, error)
	// GetBlockRange returns the blocks of the inclusive range ordered by
	// ascending height. The result may be shorter than the range.
	GetBlockRange(ctx context.Context, start, end uint64) ([]CompactBlock, error)
	GetLightdInfo(ctx context.Context) (LightdInfo, error)
	Close()
}
