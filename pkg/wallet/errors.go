package wallet

import "errors"

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network is unknown")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullMasterKey ...
	ErrNullMasterKey = errors.New("master key is null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrUnsupportedCypherVersion ...
	ErrUnsupportedCypherVersion = errors.New("cypher version is not supported")
	// ErrInvalidKeyDerivationCost ...
	ErrInvalidKeyDerivationCost = errors.New(
		"key derivation cost must be a power of two not greater than 2^30",
	)
	// ErrInvalidPassphrase is returned when the cypher cannot be opened with
	// the given passphrase.
	ErrInvalidPassphrase = errors.New("passphrase is not valid")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidBranch ...
	ErrInvalidBranch = errors.New("branch must be either 0 (external) or 1 (internal)")
	// ErrOutOfRangeAccount ...
	ErrOutOfRangeAccount = errors.New("account index must not be hardened")
	// ErrOutOfRangeAddressIndex ...
	ErrOutOfRangeAddressIndex = errors.New("address index must not be hardened")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrPrivateExtendedKey is returned when a private extended key is given
	// where only a viewing key is expected.
	ErrPrivateExtendedKey = errors.New("extended key must be public")
)
