package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"math/bits"

	"golang.org/x/crypto/scrypt"
)

// A sealed seed is laid out as
//
//	version (1) | log2 N (1) | salt (16) | nonce (12) | ciphertext
//
// and the first 18 bytes are authenticated along with the ciphertext, so
// the cost recorded at encryption time is the one used to decrypt.
const (
	cypherVersion = 1
	saltLen       = 16
	headerLen     = 2 + saltLen
	keyLen        = 32
	scryptR       = 8
	scryptP       = 1
	maxLogN       = 30
)

// KeyDerivationCost is the scrypt N parameter used for new cyphers. It must
// be a power of two.
var KeyDerivationCost = 1 << 20

type EncryptOpts struct {
	PlainText  string
	Passphrase string
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Encrypt seals the plaintext with AES-256-GCM under a key stretched from
// the passphrase with scrypt, and returns the result base64 encoded.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	logN, err := costToLogN(KeyDerivationCost)
	if err != nil {
		return "", err
	}
	header := make([]byte, headerLen)
	header[0] = cypherVersion
	header[1] = logN
	if _, err := rand.Read(header[2:]); err != nil {
		return "", err
	}

	aead, err := newAEAD(opts.Passphrase, header)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := append(header, nonce...)
	sealed = aead.Seal(sealed, nonce, []byte(opts.PlainText), header)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

type DecryptOpts struct {
	CypherText string
	Passphrase string
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Decrypt opens a cypher produced by Encrypt. A wrong passphrase and a
// tampered cypher both fail with ErrInvalidPassphrase.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	sealed, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	if len(sealed) < headerLen {
		return "", ErrInvalidCypherText
	}
	header, body := sealed[:headerLen], sealed[headerLen:]
	if header[0] != cypherVersion {
		return "", ErrUnsupportedCypherVersion
	}
	if header[1] == 0 || header[1] > maxLogN {
		return "", ErrInvalidCypherText
	}

	aead, err := newAEAD(opts.Passphrase, header)
	if err != nil {
		return "", err
	}
	if len(body) < aead.NonceSize()+aead.Overhead() {
		return "", ErrInvalidCypherText
	}
	nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return "", ErrInvalidPassphrase
	}
	return string(plaintext), nil
}

func newAEAD(passphrase string, header []byte) (cipher.AEAD, error) {
	cost := 1 << header[1]
	key, err := scrypt.Key(
		[]byte(passphrase), header[2:headerLen], cost, scryptR, scryptP, keyLen,
	)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func costToLogN(cost int) (byte, error) {
	if cost < 2 || cost&(cost-1) != 0 {
		return 0, ErrInvalidKeyDerivationCost
	}
	logN := bits.TrailingZeros(uint(cost))
	if logN > maxLogN {
		return 0, ErrInvalidKeyDerivationCost
	}
	return byte(logN), nil
}
