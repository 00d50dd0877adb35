package saccount

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartAccountFactory_CreateAccount(t *testing.T) {
	env := newTestEnv(t)
	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	factory := SmartAccountFactoryBuildConfig.Build(env.nvm.Context(env.entryPoint, nil))
	expected, err := factory.GetAddress(owner, env.entryPoint, big.NewInt(1))
	assert.Nil(t, err)

	createdTopic := SmartAccountFactoryBuildConfig.Abi().Events["AccountCreated"].ID
	countCreated := func() int {
		count := 0
		for _, log := range env.nvm.StateLedger.Logs() {
			if log.Address == env.factory && log.Topics[0] == createdTopic {
				count++
			}
		}
		return count
	}

	var addr ethcommon.Address
	err = env.nvm.RunSingleTX(factory, env.entryPoint, func() error {
		addr, err = factory.CreateAccount(owner, big.NewInt(1))
		return err
	})
	assert.Nil(t, err)
	assert.Equal(t, expected, addr)
	assert.Equal(t, SmartAccountBuildConfig.Code(), env.nvm.StateLedger.GetCode(addr))
	assert.True(t, env.nvm.VM.IsSystemContract(addr))
	assert.Equal(t, 1, countCreated())

	// existing account is returned as is
	var addr2 ethcommon.Address
	err = env.nvm.RunSingleTX(factory, env.entryPoint, func() error {
		addr2, err = factory.CreateAccount(owner, big.NewInt(1))
		return err
	})
	assert.Nil(t, err)
	assert.Equal(t, addr, addr2)
	assert.Equal(t, 1, countCreated())

	sa := SmartAccountBuildConfig.BuildAt(env.nvm.Context(ethcommon.Address{}, nil), addr)
	accountOwner, err := sa.Owner()
	assert.Nil(t, err)
	assert.Equal(t, owner, accountOwner)
	entryPoint, err := sa.EntryPoint()
	assert.Nil(t, err)
	assert.Equal(t, env.entryPoint, entryPoint)

	// different salt, different account
	var addr3 ethcommon.Address
	err = env.nvm.RunSingleTX(factory, env.entryPoint, func() error {
		addr3, err = factory.CreateAccount(owner, big.NewInt(2))
		return err
	})
	assert.Nil(t, err)
	assert.NotEqual(t, addr, addr3)

	err = env.nvm.RunSingleTX(factory, env.entryPoint, func() error {
		_, err = factory.CreateAccount(ethcommon.Address{}, big.NewInt(1))
		return err
	})
	assert.ErrorContains(t, err, "owner is zero address")
}

func TestPredictAddress(t *testing.T) {
	factory := SmartAccountFactoryBuildConfig.EthAddress()
	owner := ethcommon.HexToAddress("0x5000000000000000000000000000000000000005")
	entryPoint := EntryPointBuildConfig.EthAddress()

	addr1, err := PredictAddress(factory, owner, entryPoint, nil)
	assert.Nil(t, err)
	addr2, err := PredictAddress(factory, owner, entryPoint, big.NewInt(0))
	assert.Nil(t, err)
	assert.Equal(t, addr1, addr2)

	encoded, err := accountSaltArgs.Pack(owner, entryPoint)
	require.Nil(t, err)
	assert.Equal(t, crypto.CreateAddress2(factory, [32]byte{}, crypto.Keccak256(encoded)), addr1)

	// the trusted entry point is part of the address
	addr3, err := PredictAddress(factory, owner, ethcommon.HexToAddress("0x5000000000000000000000000000000000000006"), nil)
	assert.Nil(t, err)
	assert.NotEqual(t, addr1, addr3)

	_, err = PredictAddress(factory, owner, entryPoint, big.NewInt(-1))
	assert.NotNil(t, err)
}
