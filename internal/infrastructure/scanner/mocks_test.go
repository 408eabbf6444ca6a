package scanner_test

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockNoteDetector struct {
	mock.Mock
}

func (m *mockNoteDetector) DetectNotes(
	ctx context.Context, vk domain.ViewingKey, accountID string,
	block ports.CompactBlock,
) ([]domain.Note, error) {
	args := m.Called(ctx, vk, accountID, block)
	var res []domain.Note
	if a := args.Get(0); a != nil {
		res = a.([]domain.Note)
	}
	return res, args.Error(1)
}

type block struct {
	height   uint64
	hash     string
	prevHash string
}

func (b block) GetHeight() uint64       { return b.height }
func (b block) GetHash() string         { return b.hash }
func (b block) GetPrevHash() string     { return b.prevHash }
func (b block) GetTime() uint32         { return 0 }
func (b block) GetNumTransactions() int { return 0 }
func (b block) GetRaw() []byte          { return nil }

func hashOf(height uint64) string {
	return fmt.Sprintf("%064x", height)
}

// chain returns a linked list of blocks in the inclusive range.
func chain(from, to uint64) []ports.CompactBlock {
	blocks := make([]ports.CompactBlock, 0, to-from+1)
	for h := from; h <= to; h++ {
		blocks = append(blocks, block{h, hashOf(h), hashOf(h - 1)})
	}
	return blocks
}
