package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OperationStatus is the lifecycle state of an asynchronous remote
// submission.
type OperationStatus int

const (
	OperationPending OperationStatus = iota
	OperationSuccess
	OperationFailed
)

func (s OperationStatus) String() string {
	switch s {
	case OperationPending:
		return "pending"
	case OperationSuccess:
		return "success"
	case OperationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OperationResult is a decoded status report of a remote operation. TxID is
// set only on success and Reason only on failure.
type OperationResult struct {
	OperationID  string
	Status       OperationStatus
	TxID         string
	Reason       string
	RemoteStatus string
}

func NewPendingResult(opID, remoteStatus string) OperationResult {
	return OperationResult{
		OperationID:  opID,
		Status:       OperationPending,
		RemoteStatus: remoteStatus,
	}
}

func NewSuccessResult(opID, txid string) (OperationResult, error) {
	if txid == "" {
		return OperationResult{}, ErrMissingResultID
	}
	return OperationResult{
		OperationID:  opID,
		Status:       OperationSuccess,
		TxID:         txid,
		RemoteStatus: "success",
	}, nil
}

func NewFailedResult(opID, remoteStatus, reason string) OperationResult {
	return OperationResult{
		OperationID:  opID,
		Status:       OperationFailed,
		Reason:       reason,
		RemoteStatus: remoteStatus,
	}
}

func (r OperationResult) IsTerminal() bool {
	return r.Status != OperationPending
}

// Submission is the local record of a payment batch handed to the remote
// processor. Its outcome only changes through Apply with a remote status.
type Submission struct {
	OperationID   string
	FromAddress   string
	Payments      []Payment
	MinConf       uint32
	Fee           *decimal.Decimal
	Status        OperationStatus
	TxID          string
	FailureReason string
	CreatedAt     int64
	UpdatedAt     int64
}

func NewSubmission(
	opID, fromAddress string, payments []Payment, minConf uint32,
	fee *decimal.Decimal,
) *Submission {
	now := time.Now().Unix()
	return &Submission{
		OperationID: opID,
		FromAddress: fromAddress,
		Payments:    payments,
		MinConf:     minConf,
		Fee:         fee,
		Status:      OperationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Submission) IsFinal() bool {
	return s.Status != OperationPending
}

// Apply records a remote status report. A pending report is a no-op and a
// terminal submission cannot change outcome.
func (s *Submission) Apply(result OperationResult) error {
	if !result.IsTerminal() {
		return nil
	}
	if s.IsFinal() {
		if s.Status == result.Status && s.TxID == result.TxID {
			return nil
		}
		return ErrSubmissionFinalized
	}
	if result.Status == OperationSuccess && result.TxID == "" {
		return ErrMissingResultID
	}

	s.Status = result.Status
	s.TxID = result.TxID
	s.FailureReason = result.Reason
	s.UpdatedAt = time.Now().Unix()
	return nil
}

type SubmissionRepository interface {
	AddSubmission(ctx context.Context, submission Submission) error
	GetSubmission(ctx context.Context, opID string) (*Submission, error)
	UpdateSubmission(
		ctx context.Context, opID string,
		updateFn func(s *Submission) (*Submission, error),
	) error
	ListSubmissions(ctx context.Context) ([]Submission, error)
}
