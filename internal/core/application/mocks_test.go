package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/application"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// **** Chain data ****

type block struct {
	height   uint64
	hash     string
	prevHash string
}

func (b block) GetHeight() uint64       { return b.height }
func (b block) GetHash() string         { return b.hash }
func (b block) GetPrevHash() string     { return b.prevHash }
func (b block) GetTime() uint32         { return 0 }
func (b block) GetNumTransactions() int { return 0 }
func (b block) GetRaw() []byte          { return nil }

type blockID struct {
	height uint64
	hash   string
}

func (b blockID) GetHeight() uint64 { return b.height }
func (b blockID) GetHash() string   { return b.hash }

func hashOf(height uint64) string {
	return fmt.Sprintf("%064x", height)
}

// fakeChain serves the blocks in [1, tip] and records every range request.
type fakeChain struct {
	lock     sync.Mutex
	tip      uint64
	tipErr   error
	fetchErr map[uint64]error
	// reversed holds the batch starts whose blocks are served out of order.
	reversed map[uint64]bool
	calls    [][2]uint64
	info     ports.LightdInfo
	infoErr  error
}

func newFakeChain(tip uint64) *fakeChain {
	return &fakeChain{
		tip:      tip,
		fetchErr: make(map[uint64]error),
		reversed: make(map[uint64]bool),
	}
}

func (c *fakeChain) GetLatestBlock(ctx context.Context) (ports.BlockID, error) {
	if c.tipErr != nil {
		return nil, c.tipErr
	}
	return blockID{c.tip, hashOf(c.tip)}, nil
}

func (c *fakeChain) GetBlockRange(
	ctx context.Context, start, end uint64,
) ([]ports.CompactBlock, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.calls = append(c.calls, [2]uint64{start, end})
	if err := c.fetchErr[start]; err != nil {
		return nil, err
	}

	blocks := make([]ports.CompactBlock, 0)
	for h := start; h <= end && h <= c.tip; h++ {
		blocks = append(blocks, block{h, hashOf(h), hashOf(h - 1)})
	}
	if c.reversed[start] {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}
	return blocks, nil
}

func (c *fakeChain) GetLightdInfo(ctx context.Context) (ports.LightdInfo, error) {
	if c.infoErr != nil {
		return nil, c.infoErr
	}
	return c.info, nil
}

func (c *fakeChain) Close() {}

func (c *fakeChain) numCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.calls)
}

type lightdInfo struct {
	height uint64
}

func (i lightdInfo) GetVersion() string                 { return "v0.4.16" }
func (i lightdInfo) GetVendor() string                  { return "ECC LightWalletD" }
func (i lightdInfo) GetChainName() string               { return "main" }
func (i lightdInfo) GetConsensusBranchID() string       { return "c8e71055" }
func (i lightdInfo) GetBlockHeight() uint64             { return i.height }
func (i lightdInfo) GetSaplingActivationHeight() uint64 { return 419200 }
func (i lightdInfo) GetEstimatedHeight() uint64         { return i.height }

// **** Block scanner ****

type mockBlockScanner struct {
	mock.Mock
}

func (m *mockBlockScanner) ScanBlocks(
	ctx context.Context, req ports.ScanRequest,
) (*ports.ScanSummary, error) {
	args := m.Called(ctx, req)

	var res *ports.ScanSummary
	if a := args.Get(0); a != nil {
		res = a.(*ports.ScanSummary)
	}
	return res, args.Error(1)
}

// **** Viewing key provider ****

type mockKeyProvider struct {
	mock.Mock
}

func (m *mockKeyProvider) GetViewingKey(ctx context.Context) (domain.ViewingKey, error) {
	args := m.Called(ctx)

	var res domain.ViewingKey
	if a := args.Get(0); a != nil {
		res = a.(domain.ViewingKey)
	}
	return res, args.Error(1)
}

// **** Chain state tracker ****

type mockChainStateTracker struct {
	mock.Mock
}

func (m *mockChainStateTracker) ContinuationPoint(
	ctx context.Context, accountID string,
) (domain.ChainState, error) {
	args := m.Called(ctx, accountID)

	var res domain.ChainState
	if a := args.Get(0); a != nil {
		res = a.(domain.ChainState)
	}
	return res, args.Error(1)
}

func (m *mockChainStateTracker) FailedRanges(
	ctx context.Context, accountID string,
) ([]domain.SyncGap, error) {
	args := m.Called(ctx, accountID)

	var res []domain.SyncGap
	if a := args.Get(0); a != nil {
		res = a.([]domain.SyncGap)
	}
	return res, args.Error(1)
}

func (m *mockChainStateTracker) MarkFailed(
	ctx context.Context, accountID string, r application.FailedRange,
) error {
	args := m.Called(ctx, accountID, r)
	return args.Error(0)
}

func (m *mockChainStateTracker) MarkApplied(
	ctx context.Context, accountID string, from, to uint64,
) error {
	args := m.Called(ctx, accountID, from, to)
	return args.Error(0)
}

// **** Node ****

type mockNode struct {
	mock.Mock
}

func (m *mockNode) SendMany(
	ctx context.Context, fromAddress string, payments []domain.Payment,
	minConf uint32, fee *decimal.Decimal,
) (string, error) {
	args := m.Called(ctx, fromAddress, payments, minConf, fee)
	return args.String(0), args.Error(1)
}

func (m *mockNode) GetOperationStatus(
	ctx context.Context, opIDs ...string,
) ([]domain.OperationResult, error) {
	args := m.Called(ctx, opIDs)

	var res []domain.OperationResult
	if a := args.Get(0); a != nil {
		res = a.([]domain.OperationResult)
	}
	return res, args.Error(1)
}

func (m *mockNode) ListOperationIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetBlockchainInfo(ctx context.Context) (ports.BlockchainInfo, error) {
	args := m.Called(ctx)

	var res ports.BlockchainInfo
	if a := args.Get(0); a != nil {
		res = a.(ports.BlockchainInfo)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetBlockCount(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetTotalBalance(
	ctx context.Context, minConf uint32,
) (ports.RemoteBalance, error) {
	args := m.Called(ctx, minConf)

	var res ports.RemoteBalance
	if a := args.Get(0); a != nil {
		res = a.(ports.RemoteBalance)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetNewAddress(
	ctx context.Context, addressType string,
) (string, error) {
	args := m.Called(ctx, addressType)
	return args.String(0), args.Error(1)
}

func (m *mockNode) ListAddresses(ctx context.Context) ([]ports.NodeAddress, error) {
	args := m.Called(ctx)
	var res []ports.NodeAddress
	if a := args.Get(0); a != nil {
		res = a.([]ports.NodeAddress)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetAddressBalance(
	ctx context.Context, address string, minConf uint32,
) (decimal.Decimal, error) {
	args := m.Called(ctx, address, minConf)
	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

type nodeAddress struct {
	address string
	account string
	label   string
}

func (a nodeAddress) GetAddress() string { return a.address }
func (a nodeAddress) GetAccount() string { return a.account }
func (a nodeAddress) GetLabel() string   { return a.label }

type blockchainInfo struct {
	blocks uint64
}

func (i blockchainInfo) GetChain() string                 { return "main" }
func (i blockchainInfo) GetBlocks() uint64                { return i.blocks }
func (i blockchainInfo) GetHeaders() uint64               { return i.blocks }
func (i blockchainInfo) GetBestBlockHash() string         { return hashOf(i.blocks) }
func (i blockchainInfo) GetVerificationProgress() float64 { return 1 }
func (i blockchainInfo) IsInitialBlockDownload() bool     { return false }

type remoteBalance struct {
	transparent decimal.Decimal
	private     decimal.Decimal
}

func (b remoteBalance) GetTransparent() decimal.Decimal { return b.transparent }
func (b remoteBalance) GetPrivate() decimal.Decimal     { return b.private }
func (b remoteBalance) GetTotal() decimal.Decimal {
	return b.transparent.Add(b.private)
}

// **** Clock ****

// fakeClock advances its time by the requested duration on every After call
// and fires immediately.
type fakeClock struct {
	lock   sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.now = c.now.Add(d)
	c.sleeps++
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// stuckClock never fires.
type stuckClock struct {
	*fakeClock
}

func (c *stuckClock) After(d time.Duration) <-chan time.Time {
	return nil
}
