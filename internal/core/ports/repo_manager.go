package ports

import "github.com/numi-network/numi-wallet/internal/core/domain"

type RepoManager interface {
	AccountRepository() domain.AccountRepository
	ChainStateRepository() domain.ChainStateRepository
	NoteRepository() domain.NoteRepository
	SubmissionRepository() domain.SubmissionRepository
	SyncGapRepository() domain.SyncGapRepository
	WalletRepository() domain.WalletRepository
	Close()
}
