package domain

import "errors"

var (
	// ErrRemoteUnavailable is returned when a remote service cannot be
	// reached, times out, or its circuit breaker is open.
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	// ErrRemoteRejected is returned when a remote service answers with an
	// error.
	ErrRemoteRejected = errors.New("request rejected by remote service")
	// ErrInvalidEndpoint is returned when a remote service address cannot be
	// used to connect.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrStorage wraps any failure of the local persistence layer.
	ErrStorage = errors.New("storage failure")

	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMemoTooLarge ...
	ErrMemoTooLarge = errors.New("memo too large")
	// ErrMemoOnTransparentAddress ...
	ErrMemoOnTransparentAddress = errors.New("memo not allowed for transparent recipient")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidFee ...
	ErrInvalidFee = errors.New("invalid fee")
	// ErrNoPayments ...
	ErrNoPayments = errors.New("at least one payment is required")

	// ErrNullViewingKey ...
	ErrNullViewingKey = errors.New("viewing key must not be null")
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletAlreadyExists ...
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	// ErrChainStateRegression is returned when persisting a chain state below
	// the latest known one.
	ErrChainStateRegression = errors.New("chain state height must not decrease")
	// ErrInvalidSyncGap ...
	ErrInvalidSyncGap = errors.New("sync gap must have an account and from <= to")
	// ErrBalanceOverflow ...
	ErrBalanceOverflow = errors.New("balance overflows uint64")
	// ErrSubmissionNotFound ...
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrSubmissionAlreadyExists ...
	ErrSubmissionAlreadyExists = errors.New("submission already exists")
	// ErrSubmissionFinalized is returned when trying to change the outcome of
	// a submission that already reached a terminal state.
	ErrSubmissionFinalized = errors.New("submission already reached a terminal state")
	// ErrMissingResultID ...
	ErrMissingResultID = errors.New("successful operation must carry a result id")
)
