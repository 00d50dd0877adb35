package main

import (
	"fmt"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/samarabdelhameed/aawallet-test/internal/executor"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
)

var accountArgs = struct {
	Owner string
	Salt  string
}{}

var signCallArgs = struct {
	Key    string
	Method string
	Target string
	Amount string
	Nonce  uint64
}{}

var accountCMD = &cli.Command{
	Name:  "account",
	Usage: "The smart account commands",
	Subcommands: []*cli.Command{
		{
			Name:   "address",
			Usage:  "Predict the smart account address created by the account factory",
			Action: accountAddress,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "owner",
					Usage:       "owner address of the smart account",
					Destination: &accountArgs.Owner,
					Required:    true,
				},
				&cli.StringFlag{
					Name:        "salt",
					Usage:       "decimal or 0x prefixed hex salt",
					Value:       "0",
					Destination: &accountArgs.Salt,
				},
			},
		},
		{
			Name:   "sign-call",
			Usage:  "Sign an aa_depositTo or aa_withdrawTo call, prints the from address and the signature",
			Action: accountSignCall,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "key",
					Usage:       "hex encoded secp256k1 private key of from",
					Destination: &signCallArgs.Key,
					Required:    true,
				},
				&cli.StringFlag{
					Name:        "method",
					Usage:       "depositTo or withdrawTo",
					Destination: &signCallArgs.Method,
					Required:    true,
				},
				&cli.StringFlag{
					Name:        "target",
					Usage:       "account credited by depositTo, or address paid by withdrawTo",
					Destination: &signCallArgs.Target,
					Required:    true,
				},
				&cli.StringFlag{
					Name:        "amount",
					Usage:       "decimal or 0x prefixed hex amount",
					Destination: &signCallArgs.Amount,
					Required:    true,
				},
				&cli.Uint64Flag{
					Name:        "nonce",
					Usage:       "call nonce of from, as returned by aa_getCallNonce",
					Destination: &signCallArgs.Nonce,
				},
			},
		},
	},
}

func accountAddress(ctx *cli.Context) error {
	r, err := loadRepo(ctx)
	if err != nil {
		return err
	}
	addrs, err := system.LoadAddresses(r.Config.EntryPoint)
	if err != nil {
		return err
	}

	if !ethcommon.IsHexAddress(accountArgs.Owner) {
		return errors.Errorf("invalid owner address %q", accountArgs.Owner)
	}
	salt, err := parseBig(accountArgs.Salt)
	if err != nil {
		return err
	}

	addr, err := saccount.PredictAddress(addrs.AccountFactory, ethcommon.HexToAddress(accountArgs.Owner), addrs.EntryPoint, salt)
	if err != nil {
		return err
	}
	fmt.Println(addr.String())
	return nil
}

// parseBig accepts a decimal or a 0x prefixed hex number
func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid number %q", s)
	}
	return v, nil
}

func accountSignCall(ctx *cli.Context) error {
	r, err := loadRepo(ctx)
	if err != nil {
		return err
	}
	addrs, err := system.LoadAddresses(r.Config.EntryPoint)
	if err != nil {
		return err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(signCallArgs.Key, "0x"))
	if err != nil {
		return errors.Wrap(err, "invalid private key")
	}
	if !ethcommon.IsHexAddress(signCallArgs.Target) {
		return errors.Errorf("invalid target address %q", signCallArgs.Target)
	}
	amount, err := parseBig(signCallArgs.Amount)
	if err != nil {
		return err
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	msg, err := entryPointCall(addrs.EntryPoint, from, signCallArgs.Method, ethcommon.HexToAddress(signCallArgs.Target), amount)
	if err != nil {
		return err
	}
	chainID := new(big.Int).SetUint64(r.Config.EntryPoint.ChainID)
	sig, err := saccount.SignUserOpHash(executor.SignedCallHash(msg, chainID, signCallArgs.Nonce), key)
	if err != nil {
		return err
	}
	fmt.Printf("from: %s\nsignature: %s\n", from, hexutil.Encode(sig))
	return nil
}

// entryPointCall builds the message aa_depositTo or aa_withdrawTo runs for from
func entryPointCall(entryPoint, from ethcommon.Address, method string, target ethcommon.Address, amount *big.Int) (*executor.Message, error) {
	msg := &executor.Message{
		From:  from,
		To:    entryPoint,
		Value: big.NewInt(0),
	}
	var err error
	epAbi := saccount.EntryPointBuildConfig.Abi()
	switch method {
	case "depositTo":
		msg.Value = amount
		msg.Data, err = epAbi.Pack(method, target)
	case "withdrawTo":
		msg.Data, err = epAbi.Pack(method, target, amount)
	default:
		return nil, errors.Errorf("unsupported method %q, expect depositTo or withdrawTo", method)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}
