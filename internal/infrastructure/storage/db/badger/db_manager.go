package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const gcInterval = 30 * time.Minute

type repoManager struct {
	store                *badgerhold.Store
	stopGC               chan struct{}
	accountRepository    domain.AccountRepository
	chainStateRepository domain.ChainStateRepository
	noteRepository       domain.NoteRepository
	submissionRepository domain.SubmissionRepository
	syncGapRepository    domain.SyncGapRepository
	walletRepository     domain.WalletRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// "wallet" subdirectory of baseDbDir. An empty baseDbDir opens an in-memory
// store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "wallet")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	rm := &repoManager{
		store:                store,
		stopGC:               make(chan struct{}),
		accountRepository:    NewAccountRepositoryImpl(store),
		chainStateRepository: NewChainStateRepositoryImpl(store),
		noteRepository:       NewNoteRepositoryImpl(store),
		submissionRepository: NewSubmissionRepositoryImpl(store),
		syncGapRepository:    NewSyncGapRepositoryImpl(store),
		walletRepository:     NewWalletRepositoryImpl(store),
	}
	if len(dbDir) > 0 {
		go rm.runValueLogGC()
	}
	return rm, nil
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

func (r *repoManager) Close() {
	close(r.stopGC)
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing wallet db")
	}
}

func (r *repoManager) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		case <-r.stopGC:
			return
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
