package system

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/common"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/loggers"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

// Addresses of the system contracts, resolved from the config
type Addresses struct {
	EntryPoint     ethcommon.Address
	AccountFactory ethcommon.Address
}

func LoadAddresses(cfg repo.EntryPoint) (*Addresses, error) {
	if !ethcommon.IsHexAddress(cfg.Address) {
		return nil, errors.Errorf("invalid entry point address %q", cfg.Address)
	}
	if !ethcommon.IsHexAddress(cfg.AccountFactory) {
		return nil, errors.Errorf("invalid account factory address %q", cfg.AccountFactory)
	}
	addrs := &Addresses{
		EntryPoint:     ethcommon.HexToAddress(cfg.Address),
		AccountFactory: ethcommon.HexToAddress(cfg.AccountFactory),
	}
	if addrs.EntryPoint == addrs.AccountFactory {
		return nil, errors.New("entry point and account factory share the same address")
	}
	return addrs, nil
}

// New builds the native vm with the entry point and the account factory deployed at their
// configured addresses, smart accounts created by the factory are run by their code.
func New(rep *repo.Repo, stateLedger ledger.StateLedger) (*common.NativeVM, *Addresses, error) {
	addrs, err := LoadAddresses(rep.Config.EntryPoint)
	if err != nil {
		return nil, nil, err
	}

	logger := loggers.Logger(loggers.SystemContract)
	nvm := common.NewNativeVM(stateLedger,
		new(big.Int).SetUint64(rep.Config.EntryPoint.ChainID),
		new(big.Int).SetUint64(rep.Config.EntryPoint.BaseFee),
		logger,
	)

	entryPoint := saccount.EntryPointBuildConfig.StaticConfig()
	entryPoint.Address = addrs.EntryPoint
	factory := saccount.SmartAccountFactoryBuildConfig.StaticConfig()
	factory.Address = addrs.AccountFactory

	// deploy all system contract
	nvm.Deploy(entryPoint)
	nvm.Deploy(factory)
	nvm.RegisterCode(saccount.SmartAccountBuildConfig.StaticConfig())

	logger.WithFields(logrus.Fields{
		"entry_point":     addrs.EntryPoint,
		"account_factory": addrs.AccountFactory,
		"chain_id":        rep.Config.EntryPoint.ChainID,
	}).Info("native vm initialized")
	return nvm, addrs, nil
}
