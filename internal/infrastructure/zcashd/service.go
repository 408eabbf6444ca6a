package zcashd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	// ErrMissingEndpoint ...
	ErrMissingEndpoint = fmt.Errorf("%w: missing rpc endpoint", domain.ErrInvalidEndpoint)
	// ErrInvalidScheme ...
	ErrInvalidScheme = fmt.Errorf("%w: rpc scheme must be either http or https", domain.ErrInvalidEndpoint)
	// ErrMissingRPCHost ...
	ErrMissingRPCHost = fmt.Errorf("%w: missing rpc host", domain.ErrInvalidEndpoint)
	// ErrMissingRPCPort ...
	ErrMissingRPCPort = fmt.Errorf("%w: missing rpc port", domain.ErrInvalidEndpoint)
)

// Service is the zcashd node: it processes the wallet submissions and
// answers chain and balance queries.
type Service interface {
	ports.TransactionProcessor
	ports.NodeService
}

type zcashd struct {
	client *rpcClient
}

// NewService returns a JSON-RPC client for the node at endpoint. Credentials
// embedded in the endpoint take precedence over user and password. No
// request is made here.
func NewService(
	endpoint, user, password string, timeout time.Duration,
) (Service, error) {
	u, err := validateEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if u.User != nil {
		user = u.User.Username()
		if pwd, ok := u.User.Password(); ok {
			password = pwd
		}
		u.User = nil
	}

	return &zcashd{newRPCClient(u.String(), user, password, timeout)}, nil
}

func (z *zcashd) GetBlockchainInfo(
	ctx context.Context,
) (ports.BlockchainInfo, error) {
	raw, err := z.client.call(ctx, "getblockchaininfo", nil)
	if err != nil {
		return nil, err
	}
	info := &blockchainInfo{}
	if err := unmarshalResult("getblockchaininfo", raw, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (z *zcashd) GetBlockCount(ctx context.Context) (uint64, error) {
	raw, err := z.client.call(ctx, "getblockcount", nil)
	if err != nil {
		return 0, err
	}
	var count uint64
	if err := unmarshalResult("getblockcount", raw, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (z *zcashd) GetTotalBalance(
	ctx context.Context, minConf uint32,
) (ports.RemoteBalance, error) {
	raw, err := z.client.call(
		ctx, "z_gettotalbalance", []interface{}{minConf},
	)
	if err != nil {
		return nil, err
	}
	balance := &totalBalance{}
	if err := unmarshalResult("z_gettotalbalance", raw, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (z *zcashd) GetNewAddress(
	ctx context.Context, addressType string,
) (string, error) {
	var params []interface{}
	if addressType != "" {
		params = append(params, addressType)
	}
	raw, err := z.client.call(ctx, "z_getnewaddress", params)
	if err != nil {
		return "", err
	}
	var addr string
	if err := unmarshalResult("z_getnewaddress", raw, &addr); err != nil {
		return "", err
	}
	return addr, nil
}

// ListAddresses calls z_listaddresses. Nodes answer with either plain
// address strings or address objects, both are accepted.
func (z *zcashd) ListAddresses(ctx context.Context) ([]ports.NodeAddress, error) {
	raw, err := z.client.call(ctx, "z_listaddresses", nil)
	if err != nil {
		return nil, err
	}
	var entries []nodeAddress
	if err := unmarshalResult("z_listaddresses", raw, &entries); err != nil {
		return nil, err
	}
	addresses := make([]ports.NodeAddress, 0, len(entries))
	for i := range entries {
		addresses = append(addresses, &entries[i])
	}
	return addresses, nil
}

func (z *zcashd) GetAddressBalance(
	ctx context.Context, address string, minConf uint32,
) (decimal.Decimal, error) {
	raw, err := z.client.call(
		ctx, "z_getbalance", []interface{}{address, minConf},
	)
	if err != nil {
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	if err := unmarshalResult("z_getbalance", raw, &balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// SendMany hands the payments to z_sendmany. Amounts are converted to
// zatoshis once and sent as JSON numbers with 8 decimals, memos are hex
// encoded. The fee is passed only when set, in which case minConf is always
// sent since the arguments are positional.
func (z *zcashd) SendMany(
	ctx context.Context, fromAddress string, payments []domain.Payment,
	minConf uint32, fee *decimal.Decimal,
) (string, error) {
	amounts := make([]sendManyAmount, 0, len(payments))
	for i, p := range payments {
		value, err := coinAmount(p.Amount)
		if err != nil {
			return "", fmt.Errorf("payment #%d: %w", i, err)
		}
		if string(value) == mathutil.FormatCoin(0) {
			return "", fmt.Errorf(
				"payment #%d: %w: %s is less than one zatoshi",
				i, domain.ErrInvalidAmount, p.Amount,
			)
		}
		amount := sendManyAmount{Address: p.Address, Amount: value}
		if p.HasMemo() {
			amount.Memo = hex.EncodeToString(p.Memo)
		}
		amounts = append(amounts, amount)
	}

	params := []interface{}{fromAddress, amounts, minConf}
	if fee != nil {
		value, err := coinAmount(*fee)
		if err != nil {
			return "", fmt.Errorf("fee: %w", err)
		}
		params = append(params, value)
	}

	raw, err := z.client.call(ctx, "z_sendmany", params)
	if err != nil {
		return "", err
	}
	var opID string
	if err := unmarshalResult("z_sendmany", raw, &opID); err != nil {
		return "", err
	}
	if opID == "" {
		return "", fmt.Errorf(
			"%w: zcashd z_sendmany: empty operation id", domain.ErrRemoteUnavailable,
		)
	}
	return opID, nil
}

// GetOperationStatus decodes z_getoperationstatus. Ids unknown to the node
// are simply missing from the result.
func (z *zcashd) GetOperationStatus(
	ctx context.Context, opIDs ...string,
) ([]domain.OperationResult, error) {
	raw, err := z.client.call(
		ctx, "z_getoperationstatus", []interface{}{opIDs},
	)
	if err != nil {
		return nil, err
	}

	var statuses []operationStatus
	if err := unmarshalResult("z_getoperationstatus", raw, &statuses); err != nil {
		return nil, err
	}

	results := make([]domain.OperationResult, 0, len(statuses))
	for _, s := range statuses {
		result, err := s.toResult()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (z *zcashd) ListOperationIDs(ctx context.Context) ([]string, error) {
	raw, err := z.client.call(ctx, "z_listoperationids", nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	if err := unmarshalResult("z_listoperationids", raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func validateEndpoint(endpoint string) (*url.URL, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidScheme
	}
	if u.Hostname() == "" {
		return nil, ErrMissingRPCHost
	}
	if u.Port() == "" {
		return nil, ErrMissingRPCPort
	}
	return u, nil
}

// coinAmount encodes the zatoshi value of amount as a coin JSON number, so
// that the node receives exactly what CoinToZatoshis accounts for.
func coinAmount(amount decimal.Decimal) (json.RawMessage, error) {
	zatoshis, err := mathutil.CoinToZatoshis(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, err)
	}
	return json.RawMessage(mathutil.FormatCoin(zatoshis)), nil
}
