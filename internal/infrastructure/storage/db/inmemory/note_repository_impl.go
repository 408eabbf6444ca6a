package inmemory

import (
	"context"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type noteRepositoryImpl struct {
	locker *sync.RWMutex
	notes  map[string]domain.Note
}

// NewNoteRepositoryImpl returns a new empty NoteRepository
func NewNoteRepositoryImpl() domain.NoteRepository {
	return &noteRepositoryImpl{
		locker: &sync.RWMutex{},
		notes:  make(map[string]domain.Note),
	}
}

func (r *noteRepositoryImpl) AddNotes(
	ctx context.Context, notes []domain.Note,
) (int, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	count := 0
	for _, n := range notes {
		key := n.AccountID + ":" + n.Key()
		if _, ok := r.notes[key]; ok {
			continue
		}
		r.notes[key] = n
		count++
	}
	return count, nil
}

func (r *noteRepositoryImpl) GetUnspentNotes(
	ctx context.Context, accountID string,
) ([]domain.Note, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	notes := make([]domain.Note, 0)
	for _, n := range r.notes {
		if n.AccountID == accountID && !n.Spent {
			notes = append(notes, n)
		}
	}
	return notes, nil
}
