package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	rpctypes "github.com/samarabdelhameed/aawallet-test/api/jsonrpc/types"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

var useropArgs = struct {
	File string
	Key  string
}{}

func userOpFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "json file of the user operation, as accepted by aa_handleOps",
		Destination: &useropArgs.File,
		Required:    true,
	}
}

var useropCMD = &cli.Command{
	Name:  "userop",
	Usage: "The user operation commands",
	Subcommands: []*cli.Command{
		{
			Name:   "hash",
			Usage:  "Compute the user operation hash for the configured entry point and chain",
			Action: userOpHash,
			Flags:  []cli.Flag{userOpFileFlag()},
		},
		{
			Name:   "sign",
			Usage:  "Sign the user operation hash with an owner private key, prints the signature",
			Action: userOpSign,
			Flags: []cli.Flag{
				userOpFileFlag(),
				&cli.StringFlag{
					Name:        "key",
					Usage:       "hex encoded secp256k1 private key of the owner",
					Destination: &useropArgs.Key,
					Required:    true,
				},
			},
		},
	},
}

func userOpHash(ctx *cli.Context) error {
	hash, err := loadUserOpHash(ctx)
	if err != nil {
		return err
	}
	fmt.Println(hash.String())
	return nil
}

func userOpSign(ctx *cli.Context) error {
	hash, err := loadUserOpHash(ctx)
	if err != nil {
		return err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(useropArgs.Key, "0x"))
	if err != nil {
		return errors.Wrap(err, "invalid private key")
	}
	sig, err := saccount.SignUserOpHash(hash, key)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(sig))
	return nil
}

func loadUserOpHash(ctx *cli.Context) (ethcommon.Hash, error) {
	r, err := loadRepo(ctx)
	if err != nil {
		return ethcommon.Hash{}, err
	}
	addrs, err := system.LoadAddresses(r.Config.EntryPoint)
	if err != nil {
		return ethcommon.Hash{}, err
	}
	op, err := readUserOp(useropArgs.File)
	if err != nil {
		return ethcommon.Hash{}, err
	}
	return interfaces.GetUserOpHash(op, addrs.EntryPoint, new(big.Int).SetUint64(r.Config.EntryPoint.ChainID)), nil
}

func readUserOp(path string) (*interfaces.UserOperation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read user operation file %s", path)
	}
	op := &rpctypes.UserOperation{}
	if err := json.Unmarshal(raw, op); err != nil {
		return nil, errors.Wrap(err, "unmarshal user operation")
	}
	return op.ToUserOperation()
}
