package app

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/samarabdelhameed/aawallet-test/api/jsonrpc"
	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/internal/genesis"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/internal/storagemgr"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

const logo = `
    ___    ___ _       __      ____     __
   /   |  /   | |     / /___ _/ / /__  / /_
  / /| | / /| | | /| / / __ '/ / / _ \/ __/
 / ___ |/ ___ | |/ |/ / /_/ / / /  __/ /_
/_/  |_/_/  |_|__/|__/\__,_/_/_/\___/\__/
`

type AAWallet struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Repo     *repo.Repo
	logger   logrus.FieldLogger
	Ledger   *ledger.Ledger
	Executor executor.Executor
	Jsonrpc  *jsonrpc.ChainBrokerService

	ledgerPath string
	started    *atomic.Bool
}

func PrepareAAWallet(rep *repo.Repo) error {
	if err := storagemgr.Initialize(rep.Config.Storage.KvType, rep.Config.Storage.KvCacheSize, rep.Config.Storage.Sync); err != nil {
		return errors.Wrap(err, "storagemgr initialize")
	}
	return nil
}

func NewAAWallet(rep *repo.Repo, ctx context.Context, cancel context.CancelFunc) (*AAWallet, error) {
	if err := PrepareAAWallet(rep); err != nil {
		return nil, err
	}

	logger := loggers.Logger(loggers.App)

	// 0. load ledger
	ledgerPath := storagemgr.GetLedgerComponentPath(rep, storagemgr.Ledger)
	lg, err := ledger.NewLedger(rep)
	if err != nil {
		return nil, errors.Wrap(err, "create ledger")
	}

	// 1. deploy system contracts
	exec, err := executor.New(rep, lg)
	if err != nil {
		_ = storagemgr.Close(ledgerPath)
		return nil, errors.Wrap(err, "create executor")
	}

	// 2. apply or load genesis
	if !genesis.IsInitialized(lg) {
		if err := genesis.Initialize(&rep.Config.Genesis, lg); err != nil {
			_ = storagemgr.Close(ledgerPath)
			return nil, errors.Wrap(err, "initialize genesis")
		}
		logger.WithFields(logrus.Fields{
			"accounts": len(rep.Config.Genesis.Accounts),
			"version":  lg.StateLedger.Version(),
		}).Info("Initialize genesis")
	} else {
		genesisCfg, err := genesis.GetGenesisConfig(lg)
		if err != nil {
			_ = storagemgr.Close(ledgerPath)
			return nil, err
		}
		if genesisCfg != nil {
			rep.Config.Genesis = *genesisCfg
		}
	}

	cbs, err := jsonrpc.NewChainBrokerService(exec, rep)
	if err != nil {
		_ = storagemgr.Close(ledgerPath)
		return nil, errors.Wrap(err, "create jsonrpc service")
	}

	return &AAWallet{
		Ctx:        ctx,
		Cancel:     cancel,
		Repo:       rep,
		logger:     logger,
		Ledger:     lg,
		Executor:   exec,
		Jsonrpc:    cbs,
		ledgerPath: ledgerPath,
		started:    atomic.NewBool(false),
	}, nil
}

func (aa *AAWallet) Start() error {
	if !aa.started.CAS(false, true) {
		return errors.New("already started")
	}

	if err := aa.Executor.Start(); err != nil {
		return errors.Wrap(err, "executor start")
	}

	aa.start()

	if err := aa.Jsonrpc.Start(); err != nil {
		return errors.Wrap(err, "jsonrpc start")
	}

	aa.printLogo()

	return nil
}

func (aa *AAWallet) Stop() error {
	if !aa.started.CAS(true, false) {
		return nil
	}

	if err := aa.Jsonrpc.Stop(); err != nil {
		return errors.Wrap(err, "jsonrpc stop")
	}
	if err := aa.Executor.Stop(); err != nil {
		return errors.Wrap(err, "executor stop")
	}
	aa.Cancel()

	if err := storagemgr.Close(aa.ledgerPath); err != nil {
		return errors.Wrap(err, "close ledger storage")
	}

	aa.logger.Infof("%s stopped", repo.AppName)

	return nil
}

func (aa *AAWallet) printLogo() {
	aa.logger.WithFields(logrus.Fields{
		"version":     aa.Executor.Version(),
		"entry_point": aa.Executor.Addresses().EntryPoint.String(),
		"chain_id":    aa.Executor.ChainID().String(),
	}).Info("Entry point is ready")
	fmt.Printf(`
=========================================================================================
%s
=========================================================================================
`, logo)
}
