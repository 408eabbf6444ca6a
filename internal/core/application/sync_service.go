package application

import (
	"context"
	"fmt"
	"math"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

const (
	// DefaultSyncBatchSize is the number of blocks fetched per round trip.
	DefaultSyncBatchSize = 100
)

// SyncRequest is the height range to sync. A nil EndHeight means the remote
// chain tip, a zero BatchSize the service default.
type SyncRequest struct {
	StartHeight uint64
	EndHeight   *uint64
	BatchSize   uint64
	OnProgress  func(SyncProgress)
}

// SyncProgress is reported after every batch.
type SyncProgress struct {
	BatchStart      uint64
	BatchEnd        uint64
	EndHeight       uint64
	BlocksProcessed uint64
	Failed          bool
}

// FailedRange is a batch that was fetched but could not be applied. It is
// persisted and its blocks are scanned again by any later sync covering it.
type FailedRange struct {
	From   uint64
	To     uint64
	Reason string
}

type SyncSummary struct {
	AccountID   string
	StartHeight uint64
	EndHeight   uint64
	// FinalHeight is the last height covered by the sync, StartHeight if
	// nothing was covered.
	FinalHeight uint64
	// NextHeight is where a later sync should resume from.
	NextHeight      uint64
	BlocksProcessed uint64
	BlocksScanned   uint64
	// BlocksSkipped counts fetched blocks that were already applied.
	BlocksSkipped uint64
	Batches       int
	FailedRanges  []FailedRange
	// StoppedEarly is set when the remote service returned fewer blocks than
	// requested and the sync stopped before EndHeight.
	StoppedEarly bool
}

func newSyncSummary(start, end uint64) *SyncSummary {
	return &SyncSummary{
		StartHeight:  start,
		EndHeight:    end,
		FinalHeight:  start,
		NextHeight:   start,
		FailedRanges: make([]FailedRange, 0),
	}
}

// IsPartial returns whether part of the requested range was not applied.
func (s *SyncSummary) IsPartial() bool {
	return s.StoppedEarly || len(s.FailedRanges) > 0
}

type SyncService interface {
	// Sync fetches and scans the requested range.
	Sync(ctx context.Context, req SyncRequest) (*SyncSummary, error)
	// Resume syncs from the last applied block of the wallet account, or from
	// req.StartHeight if the account is behind it.
	Resume(ctx context.Context, req SyncRequest) (*SyncSummary, error)
	// RetryFailedRanges syncs again every persisted failed range.
	RetryFailedRanges(ctx context.Context, req SyncRequest) (*SyncSummary, error)
	ListFailedRanges(ctx context.Context) ([]FailedRange, error)
}

type SyncOpts struct {
	BatchSize        uint64
	BatchesPerSecond int
	Recorder         *stats.Recorder
}

type syncService struct {
	chainDataSvc      ports.ChainDataService
	blockScanner      ports.BlockScanner
	chainStateTracker ChainStateTracker
	accountRepository domain.AccountRepository
	keyProvider       ports.ViewingKeyProvider
	limiter           ratelimit.Limiter
	recorder          *stats.Recorder
	batchSize         uint64
}

func NewSyncService(
	chainDataSvc ports.ChainDataService,
	blockScanner ports.BlockScanner,
	chainStateTracker ChainStateTracker,
	accountRepository domain.AccountRepository,
	keyProvider ports.ViewingKeyProvider,
	opts SyncOpts,
) SyncService {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultSyncBatchSize
	}
	limiter := ratelimit.NewUnlimited()
	if opts.BatchesPerSecond > 0 {
		limiter = ratelimit.New(opts.BatchesPerSecond)
	}

	return &syncService{
		chainDataSvc:      chainDataSvc,
		blockScanner:      blockScanner,
		chainStateTracker: chainStateTracker,
		accountRepository: accountRepository,
		keyProvider:       keyProvider,
		limiter:           limiter,
		recorder:          opts.Recorder,
		batchSize:         batchSize,
	}
}

// Sync fetches the requested range in batches and hands them to the block
// scanner. Batches that cannot be applied are recorded in the summary,
// persisted as failed ranges and skipped. Fetch failures abort the sync: the
// summary of the batches processed so far is returned along with the error.
func (s *syncService) Sync(
	ctx context.Context, req SyncRequest,
) (*SyncSummary, error) {
	endHeight, err := s.resolveEndHeight(ctx, req.EndHeight)
	if err != nil {
		return nil, err
	}
	if req.StartHeight > endHeight {
		return nil, &RangeError{req.StartHeight, endHeight}
	}

	summary := newSyncSummary(req.StartHeight, endHeight)
	if req.StartHeight == endHeight {
		log.Debugf("sync: nothing to do at height %d", endHeight)
		return summary, nil
	}

	account, vk, err := s.importAccount(ctx)
	if err != nil {
		return nil, err
	}
	summary.AccountID = account.ID

	err = s.syncRange(ctx, account.ID, vk, req, req.StartHeight, endHeight, summary)
	s.logSummary(summary)
	return summary, err
}

func (s *syncService) Resume(
	ctx context.Context, req SyncRequest,
) (*SyncSummary, error) {
	account, vk, err := s.importAccount(ctx)
	if err != nil {
		return nil, err
	}
	state, err := s.chainStateTracker.ContinuationPoint(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	// The last applied block is fetched again so that the first new block is
	// checked against it.
	start := req.StartHeight
	if !state.IsGenesis() && state.Height > start {
		start = state.Height
	}
	endHeight, err := s.resolveEndHeight(ctx, req.EndHeight)
	if err != nil {
		return nil, err
	}
	if start > endHeight {
		return nil, &RangeError{start, endHeight}
	}

	summary := newSyncSummary(start, endHeight)
	summary.AccountID = account.ID
	if start == endHeight {
		log.Infof("sync: account %s already synced up to %d", account.ID, start)
		return summary, nil
	}

	err = s.syncRange(ctx, account.ID, vk, req, start, endHeight, summary)
	s.logSummary(summary)
	return summary, err
}

// RetryFailedRanges walks the persisted failed ranges of the account in
// ascending order. Ranges applied this time are forgotten, the others stay
// persisted with the new failure reason. The range of req is ignored.
func (s *syncService) RetryFailedRanges(
	ctx context.Context, req SyncRequest,
) (*SyncSummary, error) {
	account, vk, err := s.importAccount(ctx)
	if err != nil {
		return nil, err
	}
	gaps, err := s.chainStateTracker.FailedRanges(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	summary := newSyncSummary(0, 0)
	summary.AccountID = account.ID
	if len(gaps) <= 0 {
		return summary, nil
	}
	summary = newSyncSummary(gaps[0].From, gaps[len(gaps)-1].To)
	summary.AccountID = account.ID

	log.Infof(
		"sync: retrying %d failed ranges of account %s", len(gaps), account.ID,
	)
	for _, gap := range gaps {
		if err := s.syncRange(
			ctx, account.ID, vk, req, gap.From, gap.To, summary,
		); err != nil {
			return summary, err
		}
		if summary.StoppedEarly {
			break
		}
	}
	s.logSummary(summary)
	return summary, nil
}

func (s *syncService) ListFailedRanges(
	ctx context.Context,
) ([]FailedRange, error) {
	account, _, err := s.importAccount(ctx)
	if err != nil {
		return nil, err
	}
	gaps, err := s.chainStateTracker.FailedRanges(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	ranges := make([]FailedRange, 0, len(gaps))
	for _, g := range gaps {
		ranges = append(ranges, FailedRange{From: g.From, To: g.To, Reason: g.Reason})
	}
	return ranges, nil
}

// syncRange processes [start, end] in batches and accumulates the results in
// summary. Only context and fetch errors are returned.
func (s *syncService) syncRange(
	ctx context.Context, accountID string, vk domain.ViewingKey,
	req SyncRequest, start, end uint64, summary *SyncSummary,
) error {
	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = s.batchSize
	}

	log.Infof(
		"sync: account %s from %d to %d in batches of %d",
		accountID, start, end, batchSize,
	)

	current := start
	for current <= end {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.limiter.Take()

		batchEnd := end
		if end-current >= batchSize {
			batchEnd = current + batchSize - 1
		}

		blocks, err := s.chainDataSvc.GetBlockRange(ctx, current, batchEnd)
		if err != nil {
			return fmt.Errorf(
				"failed to fetch blocks [%d, %d]: %w", current, batchEnd, err,
			)
		}
		summary.Batches++

		if len(blocks) <= 0 {
			log.Warnf(
				"sync: no blocks returned for range [%d, %d], stopping",
				current, batchEnd,
			)
			summary.StoppedEarly = true
			s.record(stats.BatchEmpty, 0, summary.FinalHeight)
			break
		}
		summary.BlocksProcessed += uint64(len(blocks))

		// A short batch means the remote service has nothing past its last
		// block: advance only up to it and stop.
		covered := batchEnd
		reason := checkBatch(blocks, current, batchEnd)
		if reason == "" {
			if last := blocks[len(blocks)-1].GetHeight(); last < batchEnd {
				covered = last
			}
			var res *ports.ScanSummary
			res, reason = s.scanBatch(ctx, accountID, vk, current, blocks)
			if res != nil {
				summary.BlocksScanned += uint64(res.BlocksScanned)
				summary.BlocksSkipped += uint64(res.BlocksSkipped)
			}
		}

		failed := reason != ""
		if failed {
			log.Warnf(
				"sync: batch [%d, %d] not applied: %s", current, covered, reason,
			)
			failedRange := FailedRange{From: current, To: covered, Reason: reason}
			summary.FailedRanges = append(summary.FailedRanges, failedRange)
			if err := s.chainStateTracker.MarkFailed(
				ctx, accountID, failedRange,
			); err != nil {
				log.WithError(err).Warnf(
					"sync: failed to persist failed range [%d, %d]",
					current, covered,
				)
			}
		} else if err := s.chainStateTracker.MarkApplied(
			ctx, accountID, current, covered,
		); err != nil {
			log.WithError(err).Warnf(
				"sync: failed to clear failed ranges in [%d, %d]",
				current, covered,
			)
		}

		summary.FinalHeight = covered
		outcome := stats.BatchScanned
		if failed {
			outcome = stats.BatchFailed
		}
		s.record(outcome, len(blocks), covered)
		if req.OnProgress != nil {
			req.OnProgress(SyncProgress{
				BatchStart:      current,
				BatchEnd:        covered,
				EndHeight:       end,
				BlocksProcessed: summary.BlocksProcessed,
				Failed:          failed,
			})
		}

		if covered == math.MaxUint64 {
			break
		}
		current = covered + 1
		summary.NextHeight = current

		if covered < batchEnd {
			log.Warnf(
				"sync: remote service stopped at height %d, requested up to %d",
				covered, batchEnd,
			)
			summary.StoppedEarly = true
			break
		}
	}
	return nil
}

func (s *syncService) logSummary(summary *SyncSummary) {
	log.Infof(
		"sync: account %s reached height %d, %d blocks processed, "+
			"%d failed ranges",
		summary.AccountID, summary.FinalHeight, summary.BlocksProcessed,
		len(summary.FailedRanges),
	)
}
func (s *syncService) resolveEndHeight(
	ctx context.Context, endHeight *uint64,
) (uint64, error) {
	if endHeight != nil {
		return *endHeight, nil
	}
	tip, err := s.chainDataSvc.GetLatestBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve chain tip: %w", err)
	}
	return tip.GetHeight(), nil
}

// importAccount looks up or creates the account of the wallet viewing key.
// Its birthday is the genesis chain state so that nothing is skipped.
func (s *syncService) importAccount(
	ctx context.Context,
) (*domain.Account, domain.ViewingKey, error) {
	vk, err := s.keyProvider.GetViewingKey(ctx)
	if err != nil {
		return nil, domain.ViewingKey{}, fmt.Errorf(
			"%w: %s", ErrAccountImportFailed, err,
		)
	}
	account, err := s.accountRepository.GetOrCreateAccount(
		ctx, vk, domain.GenesisChainState(),
	)
	if err != nil {
		return nil, domain.ViewingKey{}, fmt.Errorf(
			"%w: %s", ErrAccountImportFailed, err,
		)
	}
	return account, vk, nil
}

// checkBatch returns why the blocks are not a strictly ascending sequence
// inside [from, to], if they are not.
func checkBatch(blocks []ports.CompactBlock, from, to uint64) string {
	var prev uint64
	for i, b := range blocks {
		h := b.GetHeight()
		if h < from || h > to {
			return fmt.Sprintf("block height %d out of range", h)
		}
		if i > 0 && h <= prev {
			return fmt.Sprintf("block %d received after block %d", h, prev)
		}
		prev = h
	}
	return ""
}

// scanBatch returns the scan result, or the reason the batch could not be
// applied.
func (s *syncService) scanBatch(
	ctx context.Context, accountID string, vk domain.ViewingKey,
	from uint64, blocks []ports.CompactBlock,
) (*ports.ScanSummary, string) {
	priorState, err := s.chainStateTracker.ContinuationPoint(ctx, accountID)
	if err != nil {
		return nil, err.Error()
	}
	gaps, err := s.chainStateTracker.FailedRanges(ctx, accountID)
	if err != nil {
		return nil, err.Error()
	}

	res, err := s.blockScanner.ScanBlocks(ctx, ports.ScanRequest{
		AccountID:  accountID,
		ViewingKey: vk,
		FromHeight: from,
		PriorState: priorState,
		Gaps:       gaps,
		Blocks:     blocks,
		Limit:      uint64(len(blocks)),
	})
	if err != nil {
		return nil, err.Error()
	}

	log.Debugf(
		"sync: scanned %d blocks from %d, skipped %d, chain state at %d",
		res.BlocksScanned, from, res.BlocksSkipped, res.ChainState.Height,
	)
	return res, ""
}

func (s *syncService) record(outcome string, blocks int, height uint64) {
	if s.recorder != nil {
		s.recorder.RecordBatch(outcome, blocks, height)
	}
}
