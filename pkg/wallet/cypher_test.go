package wallet

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	KeyDerivationCost = 1 << 10
}

func TestEncryptDecrypt(t *testing.T) {
	plaintext := "super secret message"
	passphrase := "supersecurekey"

	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  plaintext,
		Passphrase: passphrase,
	})
	require.NoError(t, err)

	revealedtext, err := Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: passphrase,
	})
	require.NoError(t, err)
	require.Equal(t, plaintext, revealedtext)

	_, err = Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: "wrongpassphrase",
	})
	require.ErrorIs(t, err, ErrInvalidPassphrase)
}

func TestDecryptWithRecordedCost(t *testing.T) {
	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  "abandon about",
		Passphrase: "supersecurekey",
	})
	require.NoError(t, err)

	// Cyphers stay readable after the default cost changes.
	KeyDerivationCost = 1 << 11
	defer func() { KeyDerivationCost = 1 << 10 }()

	revealedtext, err := Decrypt(DecryptOpts{
		CypherText: cyphertext,
		Passphrase: "supersecurekey",
	})
	require.NoError(t, err)
	require.Equal(t, "abandon about", revealedtext)
}

func TestTamperedCypher(t *testing.T) {
	cyphertext, err := Encrypt(EncryptOpts{
		PlainText:  "super secret message",
		Passphrase: "supersecurekey",
	})
	require.NoError(t, err)
	sealed, err := base64.StdEncoding.DecodeString(cyphertext)
	require.NoError(t, err)

	tampered := append([]byte{}, sealed...)
	tampered[len(tampered)-1] ^= 0x01
	_, err = Decrypt(DecryptOpts{
		CypherText: base64.StdEncoding.EncodeToString(tampered),
		Passphrase: "supersecurekey",
	})
	require.ErrorIs(t, err, ErrInvalidPassphrase)

	tampered = append([]byte{}, sealed...)
	tampered[0] = 2
	_, err = Decrypt(DecryptOpts{
		CypherText: base64.StdEncoding.EncodeToString(tampered),
		Passphrase: "supersecurekey",
	})
	require.ErrorIs(t, err, ErrUnsupportedCypherVersion)
}

func TestInvalidKeyDerivationCost(t *testing.T) {
	KeyDerivationCost = 1000
	defer func() { KeyDerivationCost = 1 << 10 }()

	_, err := Encrypt(EncryptOpts{
		PlainText:  "super secret message",
		Passphrase: "supersecurekey",
	})
	require.ErrorIs(t, err, ErrInvalidKeyDerivationCost)
}

func TestFailingEncrypt(t *testing.T) {
	tests := []struct {
		opts EncryptOpts
		err  error
	}{
		{
			opts: EncryptOpts{
				PlainText:  "",
				Passphrase: "supersecurekey",
			},
			err: ErrNullPlainText,
		},
		{
			opts: EncryptOpts{
				PlainText:  "super secret message",
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Encrypt(tt.opts)
		require.Equal(t, tt.err, err)
	}
}

func TestFailingDecrypt(t *testing.T) {
	tests := []struct {
		opts DecryptOpts
		err  error
	}{
		{
			opts: DecryptOpts{
				CypherText: "",
				Passphrase: "supersecurekey",
			},
			err: ErrNullCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "supersecretmessage",
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "c2hvcnQ=",
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: DecryptOpts{
				CypherText: "fUzjTyxipK6fGrGXTLYFCb6oFHEOtqfdJTvXM5XMBx+YbK1EgFv+1PqkmZ2A3skaIyqQ0jJjA4gzKGw/dxtK0rRKL0ud8bq8BPImQvXAaYk=",
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Decrypt(tt.opts)
		require.Equal(t, tt.err, err)
	}
}
