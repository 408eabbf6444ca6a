package zcashd

import (
	"encoding/json"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

type blockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               uint64  `json:"blocks"`
	Headers              uint64  `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initial_block_download_complete"`
}

func (i *blockchainInfo) GetChain() string                 { return i.Chain }
func (i *blockchainInfo) GetBlocks() uint64                { return i.Blocks }
func (i *blockchainInfo) GetHeaders() uint64               { return i.Headers }
func (i *blockchainInfo) GetBestBlockHash() string         { return i.BestBlockHash }
func (i *blockchainInfo) GetVerificationProgress() float64 { return i.VerificationProgress }

// IsInitialBlockDownload returns whether the node is still catching up. The
// node reports the opposite flag.
func (i *blockchainInfo) IsInitialBlockDownload() bool {
	return !i.InitialBlockDownload
}

// totalBalance amounts are strings in the node response, decimal decodes
// both strings and numbers.
type totalBalance struct {
	Transparent decimal.Decimal `json:"transparent"`
	Private     decimal.Decimal `json:"private"`
	Total       decimal.Decimal `json:"total"`
}

func (b *totalBalance) GetTransparent() decimal.Decimal { return b.Transparent }
func (b *totalBalance) GetPrivate() decimal.Decimal     { return b.Private }
func (b *totalBalance) GetTotal() decimal.Decimal       { return b.Total }

type nodeAddress struct {
	Address string `json:"address"`
	Account string `json:"account,omitempty"`
	Label   string `json:"label,omitempty"`
}

func (a *nodeAddress) UnmarshalJSON(b []byte) error {
	var addr string
	if err := json.Unmarshal(b, &addr); err == nil {
		a.Address = addr
		return nil
	}
	type alias nodeAddress
	var entry struct {
		alias
		// account is a number on recent nodes.
		Account json.RawMessage `json:"account,omitempty"`
	}
	if err := json.Unmarshal(b, &entry); err != nil {
		return err
	}
	*a = nodeAddress(entry.alias)
	if len(entry.Account) > 0 && string(entry.Account) != "null" {
		var account string
		if err := json.Unmarshal(entry.Account, &account); err != nil {
			account = string(entry.Account)
		}
		a.Account = account
	}
	if a.Address == "" {
		return fmt.Errorf("address entry %s has no address", b)
	}
	return nil
}

func (a *nodeAddress) GetAddress() string { return a.Address }
func (a *nodeAddress) GetAccount() string { return a.Account }
func (a *nodeAddress) GetLabel() string   { return a.Label }

type sendManyAmount struct {
	Address string          `json:"address"`
	Amount  json.RawMessage `json:"amount"`
	Memo    string          `json:"memo,omitempty"`
}

type operationStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result *struct {
		TxID string `json:"txid"`
	} `json:"result,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

func (s operationStatus) toResult() (domain.OperationResult, error) {
	switch s.Status {
	case "queued", "executing":
		return domain.NewPendingResult(s.ID, s.Status), nil
	case "success":
		var txid string
		if s.Result != nil {
			txid = s.Result.TxID
		}
		result, err := domain.NewSuccessResult(s.ID, txid)
		if err != nil {
			return domain.OperationResult{}, fmt.Errorf(
				"zcashd: operation %s: %w", s.ID, err,
			)
		}
		return result, nil
	case "failed", "cancelled":
		return domain.NewFailedResult(s.ID, s.Status, s.reason()), nil
	default:
		return domain.OperationResult{}, fmt.Errorf(
			"%w: zcashd: operation %s has unknown status %q",
			domain.ErrRemoteUnavailable, s.ID, s.Status,
		)
	}
}

// reason returns the node's failure message verbatim. The error field is
// either an {code, message} object or a plain string.
func (s operationStatus) reason() string {
	if len(s.Error) > 0 {
		rpcErr := &RPCError{}
		if err := json.Unmarshal(s.Error, rpcErr); err == nil && rpcErr.Message != "" {
			return rpcErr.Message
		}
		var msg string
		if err := json.Unmarshal(s.Error, &msg); err == nil && msg != "" {
			return msg
		}
	}
	if s.Status == "cancelled" {
		return "operation cancelled"
	}
	return "operation failed"
}
