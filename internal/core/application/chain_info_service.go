package application

import (
	"context"
	"fmt"

	"github.com/numi-network/numi-wallet/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// ChainInfo gathers the view of the chain of both remote services.
type ChainInfo struct {
	Node   ports.BlockchainInfo
	Server ports.LightdInfo
}

// Lag returns how many blocks the lightwalletd server is behind the node,
// zero if it is ahead.
func (i *ChainInfo) Lag() uint64 {
	nodeHeight := i.Node.GetBlocks()
	serverHeight := i.Server.GetBlockHeight()
	if serverHeight >= nodeHeight {
		return 0
	}
	return nodeHeight - serverHeight
}

type ChainInfoService interface {
	GetChainInfo(ctx context.Context) (*ChainInfo, error)
}

type chainInfoService struct {
	nodeSvc      ports.NodeService
	chainDataSvc ports.ChainDataService
}

func NewChainInfoService(
	nodeSvc ports.NodeService, chainDataSvc ports.ChainDataService,
) ChainInfoService {
	return &chainInfoService{nodeSvc, chainDataSvc}
}

// GetChainInfo queries the node and the lightwalletd server concurrently and
// fails if either does.
func (s *chainInfoService) GetChainInfo(ctx context.Context) (*ChainInfo, error) {
	info := &ChainInfo{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodeInfo, err := s.nodeSvc.GetBlockchainInfo(gctx)
		if err != nil {
			return fmt.Errorf("node: %w", err)
		}
		info.Node = nodeInfo
		return nil
	})
	g.Go(func() error {
		serverInfo, err := s.chainDataSvc.GetLightdInfo(gctx)
		if err != nil {
			return fmt.Errorf("lightwalletd: %w", err)
		}
		info.Server = serverInfo
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}
