package zip321

import "errors"

var (
	// ErrInvalidScheme ...
	ErrInvalidScheme = errors.New("uri scheme must be zcash")
	// ErrMissingAddress ...
	ErrMissingAddress = errors.New("payment is missing the address")
	// ErrInvalidParamIndex ...
	ErrInvalidParamIndex = errors.New("invalid parameter index")
	// ErrDuplicateParam ...
	ErrDuplicateParam = errors.New("duplicate parameter")
	// ErrUnknownRequiredParam is returned for unsupported req- parameters.
	ErrUnknownRequiredParam = errors.New("unsupported required parameter")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidMemo ...
	ErrInvalidMemo = errors.New("invalid memo")
	// ErrNoPayments ...
	ErrNoPayments = errors.New("uri contains no payments")
)
