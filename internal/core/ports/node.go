package ports

import (
	"context"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

type BlockchainInfo interface {
	GetChain() string
	GetBlocks() uint64
	GetHeaders() uint64
	GetBestBlockHash() string
	GetVerificationProgress() float64
	IsInitialBlockDownload() bool
}

// RemoteBalance is the node wallet balance in coins. The node only splits
// transparent and shielded funds.
type RemoteBalance interface {
	GetTransparent() decimal.Decimal
	GetPrivate() decimal.Decimal
	GetTotal() decimal.Decimal
}

// TransactionProcessor builds, proves and broadcasts transactions on behalf
// of the wallet. Submissions are asynchronous and identified by an operation
// id.
type TransactionProcessor interface {
	SendMany(
		ctx context.Context, fromAddress string, payments []domain.Payment,
		minConf uint32, fee *decimal.Decimal,
	) (string, error)
	GetOperationStatus(
		ctx context.Context, opIDs ...string,
	) ([]domain.OperationResult, error)
	ListOperationIDs(ctx context.Context) ([]string, error)
}

// NodeAddress is an address known to the node wallet. Account and label are
// empty when the node does not report them.
type NodeAddress interface {
	GetAddress() string
	GetAccount() string
	GetLabel() string
}

type NodeService interface {
	GetBlockchainInfo(ctx context.Context) (BlockchainInfo, error)
	GetBlockCount(ctx context.Context) (uint64, error)
	GetTotalBalance(ctx context.Context, minConf uint32) (RemoteBalance, error)
	GetNewAddress(ctx context.Context, addressType string) (string, error)
	ListAddresses(ctx context.Context) ([]NodeAddress, error)
	// GetAddressBalance returns the balance of a single address in coins.
	GetAddressBalance(
		ctx context.Context, address string, minConf uint32,
	) (decimal.Decimal, error)
}
