package domain

import (
	"context"
	"sort"
)

// SyncGap is a range of blocks that was fetched for an account but could not
// be applied. Blocks inside a gap are scanned again even if the chain state
// of the account is already past them.
type SyncGap struct {
	AccountID string
	From      uint64
	To        uint64
	Reason    string
	CreatedAt int64
}

func (g SyncGap) Validate() error {
	if g.AccountID == "" || g.From > g.To {
		return ErrInvalidSyncGap
	}
	return nil
}

func (g SyncGap) Contains(height uint64) bool {
	return height >= g.From && height <= g.To
}

func (g SyncGap) Overlaps(from, to uint64) bool {
	return g.From <= to && from <= g.To
}

// Subtract returns what is left of the gap once [from, to] is removed from
// it: nothing, the gap itself, or up to two shorter gaps.
func (g SyncGap) Subtract(from, to uint64) []SyncGap {
	if !g.Overlaps(from, to) {
		return []SyncGap{g}
	}
	left := make([]SyncGap, 0, 2)
	if g.From < from {
		head := g
		head.To = from - 1
		left = append(left, head)
	}
	if g.To > to {
		tail := g
		tail.From = to + 1
		left = append(left, tail)
	}
	return left
}

// SubtractRange removes [from, to] from every gap of the list and returns the
// remaining gaps sorted by height.
func SubtractRange(gaps []SyncGap, from, to uint64) []SyncGap {
	left := make([]SyncGap, 0, len(gaps))
	for _, g := range gaps {
		left = append(left, g.Subtract(from, to)...)
	}
	SortSyncGaps(left)
	return left
}

func SortSyncGaps(gaps []SyncGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].From < gaps[j].From
	})
}

// SyncGapRepository persists the ranges an account still has to apply.
// Adding a gap replaces the overlapping portion of existing ones, resolving
// a range removes it from every gap it overlaps.
type SyncGapRepository interface {
	AddSyncGap(ctx context.Context, gap SyncGap) error
	GetSyncGaps(ctx context.Context, accountID string) ([]SyncGap, error)
	ResolveSyncGaps(ctx context.Context, accountID string, from, to uint64) error
}
