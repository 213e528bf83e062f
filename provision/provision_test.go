// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package provision

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	key1 = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	key2 = "ae6ae8e5ccbfb04590405997ee2d52d2b330726137b875053c36d94e974d162f"
)

type fakeBackend struct {
	chainID  *big.Int
	gasPrice *big.Int
	nonces   map[common.Address]uint64
	sent     []*etypes.Transaction
	noCode   bool
	sendErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID:  big.NewInt(1337),
		gasPrice: big.NewInt(7e9),
		nonces:   make(map[common.Address]uint64),
	}
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return f.gasPrice, nil }

func (f *fakeBackend) PendingNonceAt(_ context.Context, a common.Address) (uint64, error) {
	return f.nonces[a], nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *etypes.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	from, err := etypes.Sender(etypes.NewEIP155Signer(f.chainID), tx)
	if err != nil {
		return err
	}
	f.nonces[from]++
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*etypes.Receipt, error) {
	for _, tx := range f.sent {
		if tx.Hash() != hash {
			continue
		}
		from, _ := etypes.Sender(etypes.NewEIP155Signer(f.chainID), tx)
		return &etypes.Receipt{
			Status:          etypes.ReceiptStatusSuccessful,
			TxHash:          hash,
			ContractAddress: crypto.CreateAddress(from, tx.Nonce()),
			BlockNumber:     big.NewInt(1),
		}, nil
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	if f.noCode {
		return nil, nil
	}
	return []byte{0x60, 0x80}, nil
}

func writeBin(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "Ganit.bin")
	require.NoError(t, os.WriteFile(path, []byte("6080604052\n"), 0644))
	return path
}

func TestGweiToWei(t *testing.T) {
	cases := map[string]int64{
		"1":     1e9,
		"1.5":   15e8,
		"0":     0,
		" 20 ":  20e9,
		"0.001": 1e6,
	}
	for in, want := range cases {
		wei, err := GweiToWei(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, wei.Int64(), in)
	}
	for _, bad := range []string{"", "abc", "-1", "0.0000000001"} {
		_, err := GweiToWei(bad)
		assert.Equal(t, types.ErrConfiguration, types.Category(err), bad)
	}
}

func TestParseKeysAndAccounts(t *testing.T) {
	keys, err := ParseKeys([]string{key1, key2})
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Equal(t, common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"), crypto.PubkeyToAddress(keys[0].PublicKey))

	_, err = ParseKeys(nil)
	assert.True(t, errors.Is(err, types.ErrEmptyKeyPool))
	_, err = ParseKeys([]string{"0x1234"})
	assert.Equal(t, types.ErrConfiguration, types.Category(err))

	addrs, err := ParseAccounts([]string{"0x00000000000000000000000000000000000000aa"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xaa"), addrs[0])
	_, err = ParseAccounts([]string{"0xzz"})
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestOffline(t *testing.T) {
	n := &types.Network{
		ChainID:         31337,
		Keys:            []string{key1, key2},
		GasLimit:        400000,
		ContractAddress: "0x00000000000000000000000000000000000000bb",
		StartNonce:      12,
	}
	p, err := Offline(n)
	require.NoError(t, err)
	assert.Equal(t, int64(31337), p.ChainID.Int64())
	assert.Equal(t, common.HexToAddress("0xbb"), p.Contract)
	assert.Equal(t, int64(1e9), p.GasPrice.Int64())
	assert.Equal(t, uint64(12), p.StartNonce)
	assert.Equal(t, uint64(400000), p.GasLimit)
	// accounts derived from keys
	require.Len(t, p.Accounts, 2)
	assert.Equal(t, crypto.PubkeyToAddress(p.Keys[1].PublicKey), p.Accounts[1])
	assert.False(t, p.Deployed)

	n.ContractAddress = ""
	_, err = Offline(n)
	assert.True(t, errors.Is(err, types.ErrNoContractAddress))

	n.ContractAddress = "0x00000000000000000000000000000000000000bb"
	n.ChainID = 0
	_, err = Offline(n)
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestOnlineDeploys(t *testing.T) {
	b := newFakeBackend()
	keys, err := ParseKeys([]string{key1, key2})
	require.NoError(t, err)
	creator := crypto.PubkeyToAddress(keys[0].PublicKey)
	other := crypto.PubkeyToAddress(keys[1].PublicKey)
	b.nonces[creator] = 4
	b.nonces[other] = 9

	n := &types.Network{
		Keys:           []string{key1, key2},
		GasLimit:       500000,
		DeployGasLimit: 3000000,
		ContractBin:    writeBin(t),
		DeployTimeout:  5,
	}
	p, err := Online(context.Background(), n, b)
	require.NoError(t, err)
	assert.True(t, p.Deployed)
	assert.Equal(t, crypto.CreateAddress(creator, 4), p.Contract)
	assert.Equal(t, int64(1337), p.ChainID.Int64())
	assert.Equal(t, int64(7e9), p.GasPrice.Int64())
	// the deploy tx consumed nonce 4
	assert.Equal(t, uint64(5), p.Nonces[creator])
	assert.Equal(t, uint64(9), p.Nonces[other])

	require.Len(t, b.sent, 1)
	deploy := b.sent[0]
	assert.Nil(t, deploy.To())
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, deploy.Data())
	assert.Equal(t, uint64(3000000), deploy.Gas())
}

func TestOnlineExistingContract(t *testing.T) {
	b := newFakeBackend()
	n := &types.Network{
		ChainID:         1337,
		Keys:            []string{key1},
		Accounts:        []string{"0x00000000000000000000000000000000000000a1", "0x00000000000000000000000000000000000000a2"},
		GasPrice:        "2",
		ContractAddress: "0x00000000000000000000000000000000000000cc",
	}
	p, err := Online(context.Background(), n, b)
	require.NoError(t, err)
	assert.False(t, p.Deployed)
	assert.Empty(t, b.sent)
	assert.Equal(t, int64(2e9), p.GasPrice.Int64())
	assert.Len(t, p.Accounts, 2)
	assert.Len(t, p.Nonces, 1)

	n.ChainID = 1
	_, err = Online(context.Background(), n, b)
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestOnlineDeployFailures(t *testing.T) {
	n := &types.Network{Keys: []string{key1}, DeployGasLimit: 1000000, ContractBin: writeBin(t), DeployTimeout: 5}

	b := newFakeBackend()
	b.sendErr = fmt.Errorf("insufficient funds")
	_, err := Online(context.Background(), n, b)
	assert.Equal(t, types.ErrDeployment, types.Category(err))

	b = newFakeBackend()
	b.noCode = true
	_, err = Online(context.Background(), n, b)
	assert.Equal(t, types.ErrDeployment, types.Category(err))

	n.ContractBin = ""
	_, err = Online(context.Background(), n, newFakeBackend())
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestReadBytecode(t *testing.T) {
	code, err := ReadBytecode(writeBin(t))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, code)

	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte("0xabc"), 0644))
	_, err = ReadBytecode(path)
	assert.Equal(t, types.ErrConfiguration, types.Category(err))
}

func TestShippedDefaultNetworkIsOffline(t *testing.T) {
	cfg, err := types.LoadConfig("../ganitgen.toml")
	require.NoError(t, err)
	n, err := cfg.GetNetwork("")
	require.NoError(t, err)
	require.True(t, n.Offline)

	// the default profile must provision without a node or bytecode file
	p, err := Offline(n)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), p.Contract)
	assert.Equal(t, int64(31337), p.ChainID.Int64())
	assert.Len(t, p.Keys, 2)
}
