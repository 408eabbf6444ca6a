package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

var (
	// ErrInvalidSyncRange ...
	ErrInvalidSyncRange = errors.New("sync start height must not be greater than end height")
	// ErrAccountImportFailed is returned when the wallet account cannot be
	// looked up or created before syncing.
	ErrAccountImportFailed = errors.New("account import failed")
	// ErrOperationTimeout ...
	ErrOperationTimeout = errors.New("timed out waiting for operation")
	// ErrOperationNotFound ...
	ErrOperationNotFound = errors.New("operation not found")
	// ErrWalletNotInitialized ...
	ErrWalletNotInitialized = errors.New("wallet not initialized, create or restore one first")
	// ErrInvalidBatchSize ...
	ErrInvalidBatchSize = errors.New("sync batch size must be positive")
)

// RangeError reports a sync range whose start is past its end.
type RangeError struct {
	Start uint64
	End   uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: [%d, %d]", ErrInvalidSyncRange, e.Start, e.End)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidSyncRange
}

// TimeoutError is returned when an operation is still pending once the wait
// budget is exhausted. It does not mean the operation failed.
type TimeoutError struct {
	OperationID string
	Waited      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"operation %s still pending after %s: it may still complete, "+
			"check its status later", e.OperationID, e.Waited,
	)
}

func (e *TimeoutError) Unwrap() error {
	return ErrOperationTimeout
}

// OperationFailedError carries the failure reason reported by the remote
// processor.
type OperationFailedError struct {
	OperationID string
	Reason      string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("operation %s failed: %s", e.OperationID, e.Reason)
}

func (e *OperationFailedError) Is(target error) bool {
	return target == domain.ErrRemoteRejected
}
