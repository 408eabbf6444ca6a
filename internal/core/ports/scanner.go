package ports

import (
	"context"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type ScanRequest struct {
	AccountID  string
	ViewingKey domain.ViewingKey
	// FromHeight is the first height to scan. Blocks below it are skipped.
	FromHeight uint64
	PriorState domain.ChainState
	// Gaps are ranges at or below PriorState that were never applied. Their
	// blocks are scanned again without moving the chain state.
	Gaps   []domain.SyncGap
	Blocks []CompactBlock
	// Limit is the max number of blocks to scan.
	Limit uint64
}

type ScanSummary struct {
	ScannedFrom   uint64
	ScannedTo     uint64
	BlocksScanned int
	// BlocksSkipped counts blocks already applied by a previous scan.
	BlocksSkipped int
	NotesFound    int
	ChainState    domain.ChainState
}

// BlockScanner applies compact blocks to the wallet state of an account and
// advances its chain state.
type BlockScanner interface {
	ScanBlocks(ctx context.Context, req ScanRequest) (*ScanSummary, error)
}

// NoteDetector trial-decrypts the outputs of a block with a viewing key.
type NoteDetector interface {
	DetectNotes(
		ctx context.Context, vk domain.ViewingKey, accountID string,
		block CompactBlock,
	) ([]domain.Note, error)
}

type ViewingKeyProvider interface {
	GetViewingKey(ctx context.Context) (domain.ViewingKey, error)
}
