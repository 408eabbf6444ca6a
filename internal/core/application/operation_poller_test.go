package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/application"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/infrastructure/storage/db/inmemory"
	"github.com/numi-network/numi-wallet/pkg/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testOpID = "opid-0b7f3e2a-4c1d-4f7e-9a51-d2c0f1e4b6a3"

func pending() []domain.OperationResult {
	return []domain.OperationResult{domain.NewPendingResult(testOpID, "executing")}
}

func succeeded(txid string) []domain.OperationResult {
	res, _ := domain.NewSuccessResult(testOpID, txid)
	return []domain.OperationResult{res}
}

func failed(reason string) []domain.OperationResult {
	return []domain.OperationResult{domain.NewFailedResult(testOpID, "failed", reason)}
}

func newPoller(
	node *mockNode, clock application.Clock, maxWait time.Duration,
) (application.OperationPoller, domain.SubmissionRepository) {
	repo := inmemory.NewSubmissionRepositoryImpl()
	poller := application.NewOperationPoller(node, repo, application.PollerOpts{
		Interval: 2 * time.Second,
		MaxWait:  maxWait,
		Clock:    clock,
		Recorder: stats.NewRecorder(),
	})
	return poller, repo
}

func addSubmission(t *testing.T, repo domain.SubmissionRepository) {
	submission := domain.NewSubmission(
		testOpID, "t1from", []domain.Payment{{
			Address: "t1to", Amount: decimal.NewFromInt(1),
		}}, 1, nil,
	)
	require.NoError(t, repo.AddSubmission(context.Background(), *submission))
}

func TestWaitForTerminal(t *testing.T) {
	t.Run("success after pending", func(t *testing.T) {
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(pending(), nil).Twice()
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(succeeded("txid-1"), nil).Once()
		clock := newFakeClock()
		poller, repo := newPoller(node, clock, time.Minute)
		addSubmission(t, repo)

		txid, err := poller.WaitForTerminal(context.Background(), testOpID, 0)
		require.NoError(t, err)
		require.Equal(t, "txid-1", txid)
		require.Equal(t, 2, clock.sleeps)
		node.AssertNumberOfCalls(t, "GetOperationStatus", 3)

		submission, err := repo.GetSubmission(context.Background(), testOpID)
		require.NoError(t, err)
		require.Equal(t, domain.OperationSuccess, submission.Status)
		require.Equal(t, "txid-1", submission.TxID)
	})

	t.Run("failure carries remote reason", func(t *testing.T) {
		reason := "Insufficient funds: have 0.00, need 1.0001"
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(failed(reason), nil)
		poller, repo := newPoller(node, newFakeClock(), time.Minute)
		addSubmission(t, repo)

		txid, err := poller.WaitForTerminal(context.Background(), testOpID, 0)
		require.Empty(t, txid)
		require.ErrorIs(t, err, domain.ErrRemoteRejected)

		var failedErr *application.OperationFailedError
		require.ErrorAs(t, err, &failedErr)
		require.Equal(t, reason, failedErr.Reason)

		submission, err := repo.GetSubmission(context.Background(), testOpID)
		require.NoError(t, err)
		require.Equal(t, domain.OperationFailed, submission.Status)
		require.Equal(t, reason, submission.FailureReason)
	})

	t.Run("timeout bounds the number of requests", func(t *testing.T) {
		tests := []struct {
			maxWait      time.Duration
			wantRequests int
		}{
			{0, 4},
			{10 * time.Second, 6},
			{11 * time.Second, 6},
			{time.Second, 1},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.maxWait.String(), func(t *testing.T) {
				node := &mockNode{}
				node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
					Return(pending(), nil)
				poller, repo := newPoller(node, newFakeClock(), 6*time.Second)
				addSubmission(t, repo)

				txid, err := poller.WaitForTerminal(
					context.Background(), testOpID, tt.maxWait,
				)
				require.Empty(t, txid)
				require.ErrorIs(t, err, application.ErrOperationTimeout)
				require.Contains(t, err.Error(), "may still complete")
				node.AssertNumberOfCalls(t, "GetOperationStatus", tt.wantRequests)

				submission, err := repo.GetSubmission(context.Background(), testOpID)
				require.NoError(t, err)
				require.Equal(t, domain.OperationPending, submission.Status)
			})
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return([]domain.OperationResult{}, nil)
		poller, _ := newPoller(node, newFakeClock(), time.Minute)

		_, err := poller.WaitForTerminal(context.Background(), testOpID, 0)
		require.ErrorIs(t, err, application.ErrOperationNotFound)
	})

	t.Run("remote failure", func(t *testing.T) {
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(nil, fmt.Errorf("%w: connection reset", domain.ErrRemoteUnavailable))
		poller, _ := newPoller(node, newFakeClock(), time.Minute)

		_, err := poller.WaitForTerminal(context.Background(), testOpID, 0)
		require.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	})

	t.Run("context cancellation", func(t *testing.T) {
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(pending(), nil)
		poller, _ := newPoller(node, &stuckClock{newFakeClock()}, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := poller.WaitForTerminal(ctx, testOpID, 0)
		require.ErrorIs(t, err, context.Canceled)
		node.AssertNumberOfCalls(t, "GetOperationStatus", 1)
	})

	t.Run("operation submitted elsewhere", func(t *testing.T) {
		node := &mockNode{}
		node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
			Return(succeeded("txid-2"), nil)
		poller, repo := newPoller(node, newFakeClock(), time.Minute)

		txid, err := poller.WaitForTerminal(context.Background(), testOpID, 0)
		require.NoError(t, err)
		require.Equal(t, "txid-2", txid)

		_, err = repo.GetSubmission(context.Background(), testOpID)
		require.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	})
}

func TestOperationStatus(t *testing.T) {
	node := &mockNode{}
	node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
		Return(pending(), nil).Once()
	node.On("GetOperationStatus", mock.Anything, []string{testOpID}).
		Return(succeeded("txid-3"), nil).Once()
	clock := newFakeClock()
	poller, repo := newPoller(node, clock, time.Minute)
	addSubmission(t, repo)
	ctx := context.Background()

	res, err := poller.Status(ctx, testOpID)
	require.NoError(t, err)
	require.Equal(t, domain.OperationPending, res.Status)
	require.Equal(t, "executing", res.RemoteStatus)
	require.Zero(t, clock.sleeps)

	res, err = poller.Status(ctx, testOpID)
	require.NoError(t, err)
	require.Equal(t, domain.OperationSuccess, res.Status)
	require.Equal(t, "txid-3", res.TxID)

	submission, err := repo.GetSubmission(ctx, testOpID)
	require.NoError(t, err)
	require.Equal(t, "txid-3", submission.TxID)
}
