package zaddr

import "errors"

var (
	// ErrEmptyAddress ...
	ErrEmptyAddress = errors.New("address must not be empty")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrUnrecognizedEncoding is returned when the address does not match any
	// known prefix or human-readable part.
	ErrUnrecognizedEncoding = errors.New("unrecognized address encoding")
	// ErrInvalidChecksum ...
	ErrInvalidChecksum = errors.New("invalid address checksum")
	// ErrInvalidPayloadLength ...
	ErrInvalidPayloadLength = errors.New("invalid address payload length")
	// ErrInvalidEncodingVariant is returned when a bech32m address carries a
	// bech32 checksum.
	ErrInvalidEncodingVariant = errors.New("invalid bech32 variant")
	// ErrNetworkMismatch is returned for an address that is valid on a
	// different network.
	ErrNetworkMismatch = errors.New("address belongs to a different network")
)
