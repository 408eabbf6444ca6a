package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type submissionRepositoryImpl struct {
	locker      *sync.RWMutex
	submissions map[string]domain.Submission
}

// NewSubmissionRepositoryImpl returns a new empty SubmissionRepository
func NewSubmissionRepositoryImpl() domain.SubmissionRepository {
	return &submissionRepositoryImpl{
		locker:      &sync.RWMutex{},
		submissions: make(map[string]domain.Submission),
	}
}

func (r *submissionRepositoryImpl) AddSubmission(
	ctx context.Context, submission domain.Submission,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.submissions[submission.OperationID]; ok {
		return domain.ErrSubmissionAlreadyExists
	}
	r.submissions[submission.OperationID] = submission
	return nil
}

func (r *submissionRepositoryImpl) GetSubmission(
	ctx context.Context, opID string,
) (*domain.Submission, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	submission, ok := r.submissions[opID]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return &submission, nil
}

func (r *submissionRepositoryImpl) UpdateSubmission(
	ctx context.Context, opID string,
	updateFn func(s *domain.Submission) (*domain.Submission, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	submission, ok := r.submissions[opID]
	if !ok {
		return domain.ErrSubmissionNotFound
	}

	updated, err := updateFn(&submission)
	if err != nil {
		return err
	}
	r.submissions[opID] = *updated
	return nil
}

func (r *submissionRepositoryImpl) ListSubmissions(
	ctx context.Context,
) ([]domain.Submission, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	submissions := make([]domain.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		submissions = append(submissions, s)
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].CreatedAt < submissions[j].CreatedAt
	})
	return submissions, nil
}
