package inmemory

import (
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
)

type repoManager struct {
	accountRepository    domain.AccountRepository
	chainStateRepository domain.ChainStateRepository
	noteRepository       domain.NoteRepository
	submissionRepository domain.SubmissionRepository
	syncGapRepository    domain.SyncGapRepository
	walletRepository     domain.WalletRepository
}

// NewRepoManager returns a RepoManager whose repositories live in memory and
// are lost on exit.
func NewRepoManager() ports.RepoManager {
	return &repoManager{
		accountRepository:    NewAccountRepositoryImpl(),
		chainStateRepository: NewChainStateRepositoryImpl(),
		noteRepository:       NewNoteRepositoryImpl(),
		submissionRepository: NewSubmissionRepositoryImpl(),
		syncGapRepository:    NewSyncGapRepositoryImpl(),
		walletRepository:     NewWalletRepositoryImpl(),
	}
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) ChainStateRepository() domain.ChainStateRepository {
	return r.chainStateRepository
}

func (r *repoManager) NoteRepository() domain.NoteRepository {
	return r.noteRepository
}

func (r *repoManager) SubmissionRepository() domain.SubmissionRepository {
	return r.submissionRepository
}

func (r *repoManager) SyncGapRepository() domain.SyncGapRepository {
	return r.syncGapRepository
}

func (r *repoManager) WalletRepository() domain.WalletRepository {
	return r.walletRepository
}

func (r *repoManager) Close() {}
