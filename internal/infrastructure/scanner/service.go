package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// ErrChainDiscontinuity is returned when a block does not extend the chain
// state it should follow.
var ErrChainDiscontinuity = errors.New("block does not extend the previous chain state")

type service struct {
	chainStateRepository domain.ChainStateRepository
	noteRepository       domain.NoteRepository
	detector             ports.NoteDetector
}

// NewService returns the default block scanner. Without a note detector the
// scanner only advances the chain state of the account.
func NewService(
	chainStateRepository domain.ChainStateRepository,
	noteRepository domain.NoteRepository,
	detector ports.NoteDetector,
) ports.BlockScanner {
	return &service{chainStateRepository, noteRepository, detector}
}

// ScanBlocks applies at most req.Limit blocks at or above req.FromHeight.
// Blocks already covered by the prior state are skipped unless they fall in
// one of req.Gaps. Found notes and the chain state of the last scanned block
// are persisted only if the whole batch is scanned.
func (s *service) ScanBlocks(
	ctx context.Context, req ports.ScanRequest,
) (*ports.ScanSummary, error) {
	if req.ViewingKey.Encoded == "" {
		return nil, domain.ErrNullViewingKey
	}

	summary := &ports.ScanSummary{ChainState: req.PriorState}
	state := req.PriorState
	notes := make([]domain.Note, 0)
	var prev *domain.ChainState

	for _, block := range req.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if req.Limit > 0 && uint64(summary.BlocksScanned) >= req.Limit {
			break
		}

		height := block.GetHeight()
		if height < req.FromHeight {
			continue
		}
		covered := !state.IsGenesis() && height <= state.Height
		if covered && !inGaps(req.Gaps, height) {
			summary.BlocksSkipped++
			prev = nil
			continue
		}
		if err := checkContinuity(block, prev, state); err != nil {
			return nil, err
		}

		if s.detector != nil {
			found, err := s.detector.DetectNotes(
				ctx, req.ViewingKey, req.AccountID, block,
			)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", height, err)
			}
			notes = append(notes, found...)
		}

		if summary.BlocksScanned == 0 {
			summary.ScannedFrom = height
		}
		summary.ScannedTo = height
		summary.BlocksScanned++
		prev = &domain.ChainState{Height: height, Hash: block.GetHash()}
		if !covered {
			state = *prev
		}
	}

	if summary.BlocksScanned <= 0 {
		return summary, nil
	}

	if len(notes) > 0 {
		count, err := s.noteRepository.AddNotes(ctx, notes)
		if err != nil {
			return nil, err
		}
		summary.NotesFound = count
	}
	if state != req.PriorState {
		if err := s.chainStateRepository.AddChainState(
			ctx, req.AccountID, state,
		); err != nil {
			return nil, err
		}
	}
	summary.ChainState = state

	log.Debugf(
		"scanner: account %s scanned blocks [%d, %d], %d new notes",
		req.AccountID, summary.ScannedFrom, summary.ScannedTo, summary.NotesFound,
	)
	return summary, nil
}

// checkContinuity makes sure the block extends the previously scanned block
// of the batch, or the chain state it directly follows.
func checkContinuity(
	block ports.CompactBlock, prev *domain.ChainState, state domain.ChainState,
) error {
	height := block.GetHeight()
	expected := ""
	switch {
	case prev != nil && height == prev.Height+1:
		expected = prev.Hash
	case !state.IsGenesis() && height == state.Height+1:
		expected = state.Hash
	default:
		return nil
	}
	if block.GetPrevHash() != expected {
		return fmt.Errorf(
			"%w: block %d prev hash %s, expected %s",
			ErrChainDiscontinuity, height, block.GetPrevHash(), expected,
		)
	}
	return nil
}

func inGaps(gaps []domain.SyncGap, height uint64) bool {
	for _, g := range gaps {
		if g.Contains(height) {
			return true
		}
	}
	return false
}
