package zaddr

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	transparentPayloadLen = 20
	saplingPayloadLen     = 43
	texPayloadLen         = 20
	// Smallest F4Jumble input: one 32-byte receiver plus the 16-byte padding.
	minUnifiedPayloadLen = 48
	maxUnifiedPayloadLen = 4194368

	checksumLen = 4
)

// Kind is the encoding family of an address.
type Kind int

const (
	KindP2PKH Kind = iota
	KindP2SH
	KindSapling
	KindUnified
	KindTex
)

func (k Kind) String() string {
	switch k {
	case KindP2PKH:
		return "p2pkh"
	case KindP2SH:
		return "p2sh"
	case KindSapling:
		return "sapling"
	case KindUnified:
		return "unified"
	case KindTex:
		return "tex"
	default:
		return "unknown"
	}
}

// Address is a decoded payment address.
type Address struct {
	Encoded string
	Kind    Kind
	Network Network
	Payload []byte
}

// IsTransparent returns whether funds sent to the address are visible
// on-chain. TEX addresses only accept transparent outputs.
func (a *Address) IsTransparent() bool {
	switch a.Kind {
	case KindP2PKH, KindP2SH, KindTex:
		return true
	default:
		return false
	}
}

// IsShielded ...
func (a *Address) IsShielded() bool {
	return !a.IsTransparent()
}

// CanReceiveMemo returns whether an encrypted memo can be attached to a
// payment to the address. Unified addresses are assumed to carry at least one
// shielded receiver since their receivers are not unjumbled here.
func (a *Address) CanReceiveMemo() bool {
	return a.IsShielded()
}

func (a *Address) String() string {
	return a.Encoded
}

// Parse decodes addr and checks that it belongs to net.
func Parse(addr string, net Network) (*Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrEmptyAddress
	}
	params := net.Params()
	if params == nil {
		return nil, ErrUnknownNetwork
	}

	decoded, err := decode(addr, params)
	if err == nil {
		decoded.Network = net
		return decoded, nil
	}
	if !errors.Is(err, ErrUnrecognizedEncoding) {
		return nil, err
	}

	for _, other := range networks {
		if other == net {
			continue
		}
		if _, otherErr := decode(addr, other.Params()); otherErr == nil {
			return nil, fmt.Errorf("%w: %s address on %s", ErrNetworkMismatch, other, net)
		}
	}
	return nil, err
}

// IsValid is a shorthand for Parse without the decoded result.
func IsValid(addr string, net Network) bool {
	_, err := Parse(addr, net)
	return err == nil
}

func decode(addr string, params *Params) (*Address, error) {
	if sep := strings.LastIndexByte(addr, '1'); sep > 0 {
		hrp := strings.ToLower(addr[:sep])
		switch hrp {
		case params.SaplingHRP:
			return decodeBech32(addr, KindSapling, false)
		case params.UnifiedHRP:
			return decodeBech32(addr, KindUnified, true)
		case params.TexHRP:
			return decodeBech32(addr, KindTex, true)
		}
	}
	return decodeTransparent(addr, params)
}

func decodeTransparent(addr string, params *Params) (*Address, error) {
	raw := base58.Decode(addr)
	if len(raw) != 2+transparentPayloadLen+checksumLen {
		return nil, ErrUnrecognizedEncoding
	}

	var kind Kind
	prefix := raw[:2]
	switch {
	case bytes.Equal(prefix, params.P2PKHPrefix[:]):
		kind = KindP2PKH
	case bytes.Equal(prefix, params.P2SHPrefix[:]):
		kind = KindP2SH
	default:
		return nil, ErrUnrecognizedEncoding
	}

	body := raw[:len(raw)-checksumLen]
	checksum := chainhash.DoubleHashB(body)[:checksumLen]
	if !bytes.Equal(checksum, raw[len(raw)-checksumLen:]) {
		return nil, ErrInvalidChecksum
	}

	return &Address{
		Encoded: addr,
		Kind:    kind,
		Payload: append([]byte{}, body[2:]...),
	}, nil
}

func decodeBech32(addr string, kind Kind, bech32m bool) (*Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChecksum, err)
	}

	// DecodeNoLimit accepts both checksum constants, re-encoding tells them
	// apart.
	reencoded, err := bech32.EncodeM(hrp, data)
	if err != nil {
		return nil, err
	}
	isM := reencoded == strings.ToLower(addr)
	if isM != bech32m {
		return nil, ErrInvalidEncodingVariant
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayloadLength, err)
	}

	switch kind {
	case KindSapling:
		if len(payload) != saplingPayloadLen {
			return nil, ErrInvalidPayloadLength
		}
	case KindTex:
		if len(payload) != texPayloadLen {
			return nil, ErrInvalidPayloadLength
		}
	case KindUnified:
		if len(payload) < minUnifiedPayloadLen || len(payload) > maxUnifiedPayloadLen {
			return nil, ErrInvalidPayloadLength
		}
	}

	return &Address{
		Encoded: addr,
		Kind:    kind,
		Payload: payload,
	}, nil
}

// EncodeTransparent returns the base58check encoding of a 20-byte key or
// script hash.
func EncodeTransparent(hash []byte, kind Kind, net Network) (string, error) {
	params := net.Params()
	if params == nil {
		return "", ErrUnknownNetwork
	}
	if len(hash) != transparentPayloadLen {
		return "", ErrInvalidPayloadLength
	}

	var prefix [2]byte
	switch kind {
	case KindP2PKH:
		prefix = params.P2PKHPrefix
	case KindP2SH:
		prefix = params.P2SHPrefix
	default:
		return "", fmt.Errorf("%s is not a transparent kind", kind)
	}

	body := append(prefix[:], hash...)
	checksum := chainhash.DoubleHashB(body)[:checksumLen]
	return base58.Encode(append(body, checksum...)), nil
}

// EncodeShielded returns the bech32 (Sapling) or bech32m (unified, TEX)
// encoding of payload.
func EncodeShielded(payload []byte, kind Kind, net Network) (string, error) {
	params := net.Params()
	if params == nil {
		return "", ErrUnknownNetwork
	}

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindSapling:
		if len(payload) != saplingPayloadLen {
			return "", ErrInvalidPayloadLength
		}
		return bech32.Encode(params.SaplingHRP, data)
	case KindUnified:
		if len(payload) < minUnifiedPayloadLen {
			return "", ErrInvalidPayloadLength
		}
		return bech32.EncodeM(params.UnifiedHRP, data)
	case KindTex:
		if len(payload) != texPayloadLen {
			return "", ErrInvalidPayloadLength
		}
		return bech32.EncodeM(params.TexHRP, data)
	default:
		return "", fmt.Errorf("%s is not a bech32 kind", kind)
	}
}
