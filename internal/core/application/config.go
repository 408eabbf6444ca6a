package application

import (
	"fmt"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/ports"
	"github.com/numi-network/numi-wallet/internal/infrastructure/lightwalletd"
	"github.com/numi-network/numi-wallet/internal/infrastructure/scanner"
	dbbadger "github.com/numi-network/numi-wallet/internal/infrastructure/storage/db/badger"
	"github.com/numi-network/numi-wallet/internal/infrastructure/storage/db/inmemory"
	"github.com/numi-network/numi-wallet/internal/infrastructure/zcashd"
	"github.com/numi-network/numi-wallet/pkg/stats"
	"github.com/numi-network/numi-wallet/pkg/zaddr"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config wires the application services. Services and their dependencies
// are built on first use, so that a command only connects to the remote
// services it needs.
type Config struct {
	Network zaddr.Network
	DBType  string
	// DBConfig is the datadir for the badger db.
	DBConfig interface{}

	LightwalletdAddr string
	RPCAddr          string
	RPCUser          string
	RPCPassword      string
	RequestTimeout   time.Duration

	SyncBatchSize        uint64
	SyncBatchesPerSecond int
	PollInterval         time.Duration
	OperationTimeout     time.Duration
	MinConfirmations     uint32

	// Clock, when set, drives the operation poller.
	Clock Clock

	repo        ports.RepoManager
	chainData   ports.ChainDataService
	node        zcashd.Service
	recorder    *stats.Recorder
	wallet      WalletService
	sync        SyncService
	poller      OperationPoller
	transaction TransactionService
	chainInfo   ChainInfoService
}

func (c *Config) Validate() error {
	if !c.Network.IsValid() {
		return zaddr.ErrUnknownNetwork
	}
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %q", c.DBType)
	}
	if c.SyncBatchSize == 0 {
		return ErrInvalidBatchSize
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) Recorder() *stats.Recorder {
	if c.recorder == nil {
		c.recorder = stats.NewRecorder()
	}
	return c.recorder
}

func (c *Config) WalletService() (WalletService, error) {
	return c.walletService()
}

func (c *Config) SyncService() (SyncService, error) {
	return c.syncService()
}

func (c *Config) TransactionService() (TransactionService, error) {
	return c.transactionService()
}

func (c *Config) ChainInfoService() (ChainInfoService, error) {
	return c.chainInfoService()
}

// Close releases the connections and the db opened so far.
func (c *Config) Close() {
	if c.chainData != nil {
		c.chainData.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %q", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) chainDataService() (ports.ChainDataService, error) {
	if c.chainData == nil {
		svc, err := lightwalletd.NewService(c.LightwalletdAddr, c.RequestTimeout)
		if err != nil {
			return nil, err
		}
		c.chainData = svc
	}
	return c.chainData, nil
}

func (c *Config) nodeService() (zcashd.Service, error) {
	if c.node == nil {
		svc, err := zcashd.NewService(
			c.RPCAddr, c.RPCUser, c.RPCPassword, c.RequestTimeout,
		)
		if err != nil {
			return nil, err
		}
		c.node = svc
	}
	return c.node, nil
}

func (c *Config) walletService() (WalletService, error) {
	if c.wallet == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		node, err := c.nodeService()
		if err != nil {
			return nil, err
		}
		c.wallet = NewWalletService(repo, node, c.Network)
	}
	return c.wallet, nil
}

func (c *Config) syncService() (SyncService, error) {
	if c.sync == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		chainData, err := c.chainDataService()
		if err != nil {
			return nil, err
		}
		wallet, err := c.walletService()
		if err != nil {
			return nil, err
		}

		blockScanner := scanner.NewService(
			repo.ChainStateRepository(), repo.NoteRepository(), nil,
		)
		c.sync = NewSyncService(
			chainData,
			blockScanner,
			NewChainStateTracker(
				repo.ChainStateRepository(), repo.SyncGapRepository(),
			),
			repo.AccountRepository(),
			wallet,
			SyncOpts{
				BatchSize:        c.SyncBatchSize,
				BatchesPerSecond: c.SyncBatchesPerSecond,
				Recorder:         c.Recorder(),
			},
		)
	}
	return c.sync, nil
}

func (c *Config) operationPoller() (OperationPoller, error) {
	if c.poller == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		node, err := c.nodeService()
		if err != nil {
			return nil, err
		}
		c.poller = NewOperationPoller(node, repo.SubmissionRepository(), PollerOpts{
			Interval: c.PollInterval,
			MaxWait:  c.OperationTimeout,
			Clock:    c.Clock,
			Recorder: c.Recorder(),
		})
	}
	return c.poller, nil
}

func (c *Config) transactionService() (TransactionService, error) {
	if c.transaction == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		node, err := c.nodeService()
		if err != nil {
			return nil, err
		}
		poller, err := c.operationPoller()
		if err != nil {
			return nil, err
		}
		c.transaction = NewTransactionService(
			node, repo.SubmissionRepository(), poller, c.Network,
			c.MinConfirmations, c.Recorder(),
		)
	}
	return c.transaction, nil
}

func (c *Config) chainInfoService() (ChainInfoService, error) {
	if c.chainInfo == nil {
		node, err := c.nodeService()
		if err != nil {
			return nil, err
		}
		chainData, err := c.chainDataService()
		if err != nil {
			return nil, err
		}
		c.chainInfo = NewChainInfoService(node, chainData)
	}
	return c.chainInfo, nil
}
