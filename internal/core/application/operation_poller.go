package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/stats"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultOperationTimeout = 300 * time.Second
	DefaultPollInterval     = 2 * time.Second
)

// Clock abstracts the passing of time for the poller.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type OperationPoller interface {
	// WaitForTerminal polls the operation until it succeeds, fails or maxWait
	// elapses, and returns the id of the resulting transaction.
	WaitForTerminal(
		ctx context.Context, opID string, maxWait time.Duration,
	) (string, error)
	// Status returns the current status of the operation without waiting.
	// A terminal status is recorded in the local submission.
	Status(ctx context.Context, opID string) (*domain.OperationResult, error)
}

type PollerOpts struct {
	Interval time.Duration
	MaxWait  time.Duration
	Clock    Clock
	Recorder *stats.Recorder
}

type operationPoller struct {
	processor            ports.TransactionProcessor
	submissionRepository domain.SubmissionRepository
	clock                Clock
	interval             time.Duration
	maxWait              time.Duration
	recorder             *stats.Recorder
}

func NewOperationPoller(
	processor ports.TransactionProcessor,
	submissionRepository domain.SubmissionRepository,
	opts PollerOpts,
) OperationPoller {
	p := &operationPoller{
		processor:            processor,
		submissionRepository: submissionRepository,
		clock:                opts.Clock,
		interval:             opts.Interval,
		maxWait:              opts.MaxWait,
		recorder:             opts.Recorder,
	}
	if p.clock == nil {
		p.clock = systemClock{}
	}
	if p.interval <= 0 {
		p.interval = DefaultPollInterval
	}
	if p.maxWait <= 0 {
		p.maxWait = DefaultOperationTimeout
	}
	return p
}

func (p *operationPoller) Status(
	ctx context.Context, opID string,
) (*domain.OperationResult, error) {
	results, err := p.processor.GetOperationStatus(ctx, opID)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.OperationID == opID {
			result := r
			if result.IsTerminal() {
				p.persist(ctx, result)
			}
			return &result, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, opID)
}

func (p *operationPoller) WaitForTerminal(
	ctx context.Context, opID string, maxWait time.Duration,
) (string, error) {
	if maxWait <= 0 {
		maxWait = p.maxWait
	}

	start := p.clock.Now()
	for {
		elapsed := p.clock.Now().Sub(start)
		if elapsed > maxWait {
			log.Warnf("operation %s still pending after %s", opID, elapsed)
			p.record("timeout", elapsed)
			return "", &TimeoutError{OperationID: opID, Waited: elapsed}
		}

		result, err := p.Status(ctx, opID)
		if err != nil {
			return "", err
		}

		switch result.Status {
		case domain.OperationSuccess:
			p.record("success", elapsed)
			log.Infof("operation %s succeeded with tx %s", opID, result.TxID)
			return result.TxID, nil
		case domain.OperationFailed:
			p.record("failed", elapsed)
			return "", &OperationFailedError{OperationID: opID, Reason: result.Reason}
		}

		log.Debugf("operation %s is %s", opID, result.RemoteStatus)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-p.clock.After(p.interval):
		}
	}
}

// persist writes the terminal result into the local submission, if the
// operation was submitted by this wallet.
func (p *operationPoller) persist(ctx context.Context, result domain.OperationResult) {
	err := p.submissionRepository.UpdateSubmission(
		ctx, result.OperationID,
		func(s *domain.Submission) (*domain.Submission, error) {
			if err := s.Apply(result); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		log.Debugf("operation %s was not submitted by this wallet", result.OperationID)
		return
	}
	log.WithError(err).Warnf(
		"failed to record outcome of operation %s", result.OperationID,
	)
}

func (p *operationPoller) record(status string, elapsed time.Duration) {
	if p.recorder != nil {
		p.recorder.RecordSubmission(status)
		p.recorder.RecordOperationWait(elapsed)
	}
}
