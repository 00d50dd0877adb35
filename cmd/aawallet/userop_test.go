package main

import (
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpctypes "github.com/samarabdelhameed/aawallet-test/api/jsonrpc/types"
	"github.com/samarabdelhameed/aawallet-test/internal/executor/system/saccount/interfaces"
)

func TestReadUserOp(t *testing.T) {
	op := &interfaces.UserOperation{
		Sender:               ethcommon.HexToAddress("0x7000000000000000000000000000000000000001"),
		Nonce:                big.NewInt(3),
		CallData:             []byte{0x1, 0x2},
		CallGasLimit:         big.NewInt(100000),
		VerificationGasLimit: big.NewInt(100000),
		PreVerificationGas:   big.NewInt(21000),
		MaxFeePerGas:         big.NewInt(10),
		MaxPriorityFeePerGas: big.NewInt(10),
	}
	raw, err := json.Marshal(rpctypes.NewUserOperation(op))
	require.Nil(t, err)
	path := filepath.Join(t.TempDir(), "op.json")
	require.Nil(t, os.WriteFile(path, raw, 0644))

	res, err := readUserOp(path)
	require.Nil(t, err)
	assert.Equal(t, op.Sender, res.Sender)
	assert.Equal(t, op.Nonce, res.Nonce)
	assert.Equal(t, op.CallData, []byte(res.CallData))
	assert.Equal(t, op.MaxFeePerGas, res.MaxFeePerGas)

	require.Nil(t, os.WriteFile(path, []byte(`{"sender":"0x7000000000000000000000000000000000000001"}`), 0644))
	_, err = readUserOp(path)
	assert.Error(t, err)

	_, err = readUserOp(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseBig(t *testing.T) {
	v, err := parseBig("42")
	require.Nil(t, err)
	assert.EqualValues(t, 42, v.Int64())

	v, err = parseBig("0x2a")
	require.Nil(t, err)
	assert.EqualValues(t, 42, v.Int64())

	_, err = parseBig("-1")
	assert.Error(t, err)
	_, err = parseBig("abc")
	assert.Error(t, err)
}
