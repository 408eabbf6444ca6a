// Package zip321 parses and builds zcash: payment request URIs.
package zip321

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/shopspring/decimal"
)

const (
	scheme = "zcash"

	maxParamIndex = 9999
	maxMemoSize   = 512
)

// Payment is one item of a payment request. Amount is nil when the request
// leaves it to the payer.
type Payment struct {
	Address string
	Amount  *decimal.Decimal
	Memo    []byte
	Label   string
	Message string
}

// Request is a decoded payment request, payments sorted by parameter index.
type Request struct {
	Payments []Payment
}

// Parse decodes a zcash: URI. The address in the path, if any, is the
// payment with index 0. Address validity is not checked here.
func Parse(uri string) (*Request, error) {
	sep := strings.IndexByte(uri, ':')
	if sep < 0 || !strings.EqualFold(uri[:sep], scheme) {
		return nil, ErrInvalidScheme
	}
	rest := uri[sep+1:]

	path, query := rest, ""
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		path, query = rest[:i], rest[i+1:]
	}

	payments := make(map[int]*Payment)
	seen := make(map[string]bool)
	get := func(index int) *Payment {
		p, ok := payments[index]
		if !ok {
			p = &Payment{}
			payments[index] = p
		}
		return p
	}

	if path != "" {
		addr, err := url.PathUnescape(path)
		if err != nil {
			return nil, fmt.Errorf("address: %w", err)
		}
		get(0).Address = addr
		seen["address"] = true
	}

	if query != "" {
		for _, param := range strings.Split(query, "&") {
			if param == "" {
				continue
			}
			key, rawValue := param, ""
			if i := strings.IndexByte(param, '='); i >= 0 {
				key, rawValue = param[:i], param[i+1:]
			}
			value, err := url.PathUnescape(rawValue)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			name, index, err := splitParamKey(key)
			if err != nil {
				return nil, err
			}
			if seen[key] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateParam, key)
			}
			seen[key] = true

			if err := setParam(get(index), name, value); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	if len(payments) <= 0 {
		return nil, ErrNoPayments
	}

	indexes := make([]int, 0, len(payments))
	for i := range payments {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	req := &Request{Payments: make([]Payment, 0, len(indexes))}
	for _, i := range indexes {
		p := payments[i]
		if p.Address == "" {
			return nil, fmt.Errorf("payment %d: %w", i, ErrMissingAddress)
		}
		req.Payments = append(req.Payments, *p)
	}
	return req, nil
}

func setParam(p *Payment, name, value string) error {
	switch name {
	case "address":
		if value == "" {
			return ErrMissingAddress
		}
		p.Address = value
	case "amount":
		amount, err := parseAmount(value)
		if err != nil {
			return err
		}
		p.Amount = &amount
	case "memo":
		memo, err := base64.RawURLEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidMemo, err)
		}
		if len(memo) > maxMemoSize {
			return fmt.Errorf(
				"%w: %d bytes, max %d", ErrInvalidMemo, len(memo), maxMemoSize,
			)
		}
		p.Memo = memo
	case "label":
		p.Label = value
	case "message":
		p.Message = value
	default:
		if strings.HasPrefix(name, "req-") {
			return ErrUnknownRequiredParam
		}
	}
	return nil
}

// splitParamKey splits "amount.2" into ("amount", 2). A missing index is 0.
func splitParamKey(key string) (string, int, error) {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		return key, 0, nil
	}
	name, rawIndex := key[:i], key[i+1:]
	if rawIndex == "" || rawIndex[0] == '0' || len(rawIndex) > 4 {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidParamIndex, key)
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 1 || index > maxParamIndex {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidParamIndex, key)
	}
	return name, index, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" || strings.ContainsAny(value, "eE+-") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if i := strings.IndexByte(value, '.'); i >= 0 &&
		len(value)-i-1 > mathutil.CoinPrecision {
		return decimal.Zero, fmt.Errorf(
			"%w: more than %d decimals", ErrInvalidAmount, mathutil.CoinPrecision,
		)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if amount.GreaterThan(mathutil.MaxMoneyCoin) {
		return decimal.Zero, fmt.Errorf("%w: exceeds max supply", ErrInvalidAmount)
	}
	return amount, nil
}

// Encode builds the URI of the request. A single payment is encoded with
// the address in the path, multiple payments with indexed parameters
// starting from 1.
func Encode(req Request) (string, error) {
	if len(req.Payments) <= 0 {
		return "", ErrNoPayments
	}

	if len(req.Payments) == 1 {
		p := req.Payments[0]
		if p.Address == "" {
			return "", ErrMissingAddress
		}
		uri := scheme + ":" + p.Address
		if params := encodeParams(p, ""); len(params) > 0 {
			uri += "?" + strings.Join(params, "&")
		}
		return uri, nil
	}

	params := make([]string, 0)
	for i, p := range req.Payments {
		if p.Address == "" {
			return "", fmt.Errorf("payment %d: %w", i+1, ErrMissingAddress)
		}
		suffix := fmt.Sprintf(".%d", i+1)
		params = append(params, "address"+suffix+"="+escape(p.Address))
		params = append(params, encodeParams(p, suffix)...)
	}
	return scheme + ":?" + strings.Join(params, "&"), nil
}

func encodeParams(p Payment, suffix string) []string {
	params := make([]string, 0)
	if p.Amount != nil {
		params = append(params, "amount"+suffix+"="+p.Amount.String())
	}
	if len(p.Memo) > 0 {
		params = append(
			params, "memo"+suffix+"="+base64.RawURLEncoding.EncodeToString(p.Memo),
		)
	}
	if p.Label != "" {
		params = append(params, "label"+suffix+"="+escape(p.Label))
	}
	if p.Message != "" {
		params = append(params, "message"+suffix+"="+escape(p.Message))
	}
	return params
}

// escape percent-encodes a parameter value. Spaces are encoded as %20 since
// "+" is not decoded as a space.
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
