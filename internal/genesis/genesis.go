package genesis

import (
	"encoding/json"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/samarabdelhameed/aawallet-test/internal/ledger"
	"github.com/samarabdelhameed/aawallet-test/pkg/repo"
)

var (
	genesisConfigKey = []byte("genesis_cfg")

	// genesisHolder keeps the applied genesis config in its state
	genesisHolder = ethcommon.Address{}
)

// Initialize funds the genesis accounts and commits the first version of the ledger.
// The system contracts must already be deployed on the state ledger.
func Initialize(genesis *repo.Genesis, lg *ledger.Ledger) error {
	if err := initializeGenesisConfig(genesis, lg.StateLedger); err != nil {
		return err
	}

	for _, account := range genesis.Accounts {
		if !ethcommon.IsHexAddress(account.Address) {
			return errors.Errorf("invalid genesis account address %q", account.Address)
		}
		balance, ok := new(big.Int).SetString(account.Balance, 10)
		if !ok || balance.Sign() < 0 {
			return errors.Errorf("invalid balance %q of genesis account %s", account.Balance, account.Address)
		}
		lg.StateLedger.AddBalance(ethcommon.HexToAddress(account.Address), balance)
	}
	lg.StateLedger.Finalise()

	if _, err := lg.StateLedger.Commit(); err != nil {
		return errors.Wrap(err, "commit genesis state")
	}
	return nil
}

func IsInitialized(lg *ledger.Ledger) bool {
	account := lg.StateLedger.GetAccount(genesisHolder)
	if account == nil {
		return false
	}
	exists, _ := account.GetState(genesisConfigKey)
	return exists
}

func initializeGenesisConfig(genesis *repo.Genesis, lg ledger.StateLedger) error {
	account := lg.GetOrCreateAccount(genesisHolder)

	genesisCfg, err := json.Marshal(genesis)
	if err != nil {
		return err
	}
	account.SetState(genesisConfigKey, genesisCfg)
	return nil
}

// GetGenesisConfig retrieves the genesis configuration from the given ledger.
func GetGenesisConfig(lg *ledger.Ledger) (*repo.Genesis, error) {
	account := lg.StateLedger.GetAccount(genesisHolder)
	if account == nil {
		return nil, nil
	}

	exists, data := account.GetState(genesisConfigKey)
	if !exists {
		return nil, nil
	}

	genesis := &repo.Genesis{}
	if err := json.Unmarshal(data, genesis); err != nil {
		return nil, err
	}
	return genesis, nil
}
