package domain

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/pkg/mathutil"
)

// Pool is the value pool a note belongs to.
type Pool int

const (
	PoolTransparent Pool = iota
	PoolSapling
	PoolOrchard
)

func (p Pool) String() string {
	switch p {
	case PoolTransparent:
		return "transparent"
	case PoolSapling:
		return "sapling"
	case PoolOrchard:
		return "orchard"
	default:
		return "unknown"
	}
}

// Note is an output received by a wallet account.
type Note struct {
	AccountID   string
	TxID        string
	OutputIndex uint32
	Pool        Pool
	Value       uint64
	Height      uint64
	Memo        []byte
	Spent       bool
}

// Key uniquely identifies the note.
func (n Note) Key() string {
	return fmt.Sprintf("%s:%s:%d", n.TxID, n.Pool, n.OutputIndex)
}

type NoteRepository interface {
	// AddNotes stores the given notes and returns how many were new.
	AddNotes(ctx context.Context, notes []Note) (int, error)
	GetUnspentNotes(ctx context.Context, accountID string) ([]Note, error)
}

// Balance is the spendable value of an account per pool, in zatoshis.
type Balance struct {
	Transparent uint64
	Sapling     uint64
	Orchard     uint64
	Total       uint64
}

// NewBalance computes the total with overflow checking.
func NewBalance(transparent, sapling, orchard uint64) (*Balance, error) {
	total, err := mathutil.CheckedAdd(transparent, sapling)
	if err != nil {
		return nil, ErrBalanceOverflow
	}
	if total, err = mathutil.CheckedAdd(total, orchard); err != nil {
		return nil, ErrBalanceOverflow
	}
	return &Balance{
		Transparent: transparent,
		Sapling:     sapling,
		Orchard:     orchard,
		Total:       total,
	}, nil
}

// BalanceFromNotes sums the unspent notes of the list per pool.
func BalanceFromNotes(notes []Note) (*Balance, error) {
	var pools [3]uint64
	for _, n := range notes {
		if n.Spent {
			continue
		}
		if n.Pool < PoolTransparent || n.Pool > PoolOrchard {
			return nil, fmt.Errorf("note %s: unknown pool %d", n.Key(), n.Pool)
		}
		sum, err := mathutil.CheckedAdd(pools[n.Pool], n.Value)
		if err != nil {
			return nil, ErrBalanceOverflow
		}
		pools[n.Pool] = sum
	}
	return NewBalance(pools[PoolTransparent], pools[PoolSapling], pools[PoolOrchard])
}
