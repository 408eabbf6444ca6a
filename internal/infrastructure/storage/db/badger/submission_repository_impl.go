package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type submissionRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSubmissionRepositoryImpl returns a SubmissionRepository backed by the
// given store. Submissions are keyed by operation id.
func NewSubmissionRepositoryImpl(store *badgerhold.Store) domain.SubmissionRepository {
	return &submissionRepositoryImpl{store}
}

func (r *submissionRepositoryImpl) AddSubmission(
	ctx context.Context, submission domain.Submission,
) error {
	if err := r.store.Insert(submission.OperationID, submission); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrSubmissionAlreadyExists
		}
		return storageError(err)
	}
	return nil
}

func (r *submissionRepositoryImpl) GetSubmission(
	ctx context.Context, opID string,
) (*domain.Submission, error) {
	var submission domain.Submission
	if err := r.store.Get(opID, &submission); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, storageError(err)
	}
	return &submission, nil
}

func (r *submissionRepositoryImpl) UpdateSubmission(
	ctx context.Context, opID string,
	updateFn func(s *domain.Submission) (*domain.Submission, error),
) error {
	return r.store.Badger().Update(func(txn *badger.Txn) error {
		var submission domain.Submission
		if err := r.store.TxGet(txn, opID, &submission); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrSubmissionNotFound
			}
			return storageError(err)
		}

		updated, err := updateFn(&submission)
		if err != nil {
			return err
		}
		if err := r.store.TxUpdate(txn, opID, *updated); err != nil {
			return storageError(err)
		}
		return nil
	})
}

func (r *submissionRepositoryImpl) ListSubmissions(
	ctx context.Context,
) ([]domain.Submission, error) {
	var submissions []domain.Submission
	if err := r.store.Find(&submissions, nil); err != nil {
		return nil, storageError(err)
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].CreatedAt < submissions[j].CreatedAt
	})
	return submissions, nil
}
