// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package provision turns a network profile into everything the generator
// needs to sign: chain id, key and account pools, contract address, gas
// settings and starting nonces. Online profiles query the node and deploy
// the Ganit contract when no address is configured.
package provision

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/33cn/ganitgen/common/log"
	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var plog = log.New("module", "provision")

// Backend is the subset of an RPC client used for provisioning.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.DeployBackend
	ethereum.GasPricer
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *etypes.Transaction) error
}

// Provision 签名所需的全部输入
type Provision struct {
	ChainID  *big.Int
	Keys     []*ecdsa.PrivateKey
	Accounts []common.Address
	Contract common.Address
	GasPrice *big.Int
	GasLimit uint64
	// 每个签名地址的起始 nonce, 未出现的地址从 StartNonce 开始
	Nonces     map[common.Address]uint64
	StartNonce uint64
	Deployed   bool
}

// Dial 连接节点
func Dial(ctx context.Context, n *types.Network) (*ethclient.Client, error) {
	if n.URL == "" {
		return nil, errors.Wrap(types.ErrConfiguration, "empty url for online network")
	}
	c, err := ethclient.DialContext(ctx, n.URL)
	if err != nil {
		return nil, errors.Wrapf(types.ErrDeployment, "dial %s: %v", n.URL, err)
	}
	return c, nil
}

// Offline resolves a profile without any RPC. The contract address must be
// configured and nonces start at StartNonce for every signer.
func Offline(n *types.Network) (*Provision, error) {
	p, err := parse(n)
	if err != nil {
		return nil, err
	}
	if n.ContractAddress == "" {
		return nil, errors.Wrap(types.ErrNoContractAddress, "offline network")
	}
	if p.GasPrice == nil {
		p.GasPrice, err = GweiToWei(types.DefaultGasPrice)
		if err != nil {
			return nil, err
		}
	}
	if n.ChainID <= 0 {
		return nil, errors.Wrapf(types.ErrConfiguration, "offline network needs chainID, got %d", n.ChainID)
	}
	p.ChainID = big.NewInt(n.ChainID)
	p.StartNonce = n.StartNonce
	return p, nil
}

// Online queries the node for chain id, gas price and pending nonces,
// deploying the contract first when the profile has no address.
func Online(ctx context.Context, n *types.Network, backend Backend) (*Provision, error) {
	p, err := parse(n)
	if err != nil {
		return nil, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrapf(types.ErrDeployment, "chain id: %v", err)
	}
	if n.ChainID > 0 && chainID.Cmp(big.NewInt(n.ChainID)) != 0 {
		return nil, errors.Wrapf(types.ErrConfiguration, "chainID mismatch config=%d node=%s", n.ChainID, chainID)
	}
	p.ChainID = chainID

	if p.GasPrice == nil {
		if p.GasPrice, err = backend.SuggestGasPrice(ctx); err != nil {
			return nil, errors.Wrapf(types.ErrDeployment, "suggest gas price: %v", err)
		}
	}

	if n.ContractAddress == "" {
		code, err := ReadBytecode(n.ContractBin)
		if err != nil {
			return nil, err
		}
		d := &Deployer{
			Backend:  backend,
			ChainID:  chainID,
			Key:      p.Keys[0],
			GasLimit: n.DeployGasLimit,
			GasPrice: p.GasPrice,
			Timeout:  deployTimeout(n),
		}
		if p.Contract, err = d.Deploy(ctx, code); err != nil {
			return nil, err
		}
		p.Deployed = true
	}

	// 部署交易已计入 pending nonce
	for _, key := range p.Keys {
		addr := crypto.PubkeyToAddress(key.PublicKey)
		if _, ok := p.Nonces[addr]; ok {
			continue
		}
		nonce, err := backend.PendingNonceAt(ctx, addr)
		if err != nil {
			return nil, errors.Wrapf(types.ErrDeployment, "pending nonce %s: %v", addr.Hex(), err)
		}
		p.Nonces[addr] = nonce
	}
	plog.Info("provisioned", "chainID", p.ChainID, "contract", p.Contract.Hex(), "keys", len(p.Keys),
		"accounts", len(p.Accounts), "deployed", p.Deployed)
	return p, nil
}

func parse(n *types.Network) (*Provision, error) {
	keys, err := ParseKeys(n.Keys)
	if err != nil {
		return nil, err
	}
	accounts, err := ParseAccounts(n.Accounts)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		for _, k := range keys {
			accounts = append(accounts, crypto.PubkeyToAddress(k.PublicKey))
		}
	}
	p := &Provision{
		Keys:     keys,
		Accounts: accounts,
		GasLimit: n.GasLimit,
		Nonces:   make(map[common.Address]uint64),
	}
	if n.GasPrice != "" {
		if p.GasPrice, err = GweiToWei(n.GasPrice); err != nil {
			return nil, err
		}
	}
	if n.ContractAddress != "" {
		if !common.IsHexAddress(n.ContractAddress) {
			return nil, errors.Wrapf(types.ErrConfiguration, "contractAddress %q", n.ContractAddress)
		}
		p.Contract = common.HexToAddress(n.ContractAddress)
	}
	return p, nil
}

// ParseKeys 解析十六进制私钥, 可带 0x 前缀
func ParseKeys(hexKeys []string) ([]*ecdsa.PrivateKey, error) {
	if len(hexKeys) == 0 {
		return nil, types.ErrEmptyKeyPool
	}
	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, h := range hexKeys {
		h = strings.TrimPrefix(strings.TrimSpace(h), "0x")
		k, err := crypto.HexToECDSA(h)
		if err != nil {
			return nil, errors.Wrapf(types.ErrConfiguration, "key %d: %v", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseAccounts 解析地址列表
func ParseAccounts(addrs []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(addrs))
	for i, a := range addrs {
		a = strings.TrimSpace(a)
		if !common.IsHexAddress(a) {
			return nil, errors.Wrapf(types.ErrConfiguration, "account %d: %q", i, a)
		}
		out = append(out, common.HexToAddress(a))
	}
	return out, nil
}

// GweiToWei converts a decimal gwei amount such as "1.5" to wei.
func GweiToWei(gwei string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(gwei))
	if err != nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "gasPrice %q: %v", gwei, err)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(types.ErrConfiguration, "gasPrice %q is negative", gwei)
	}
	wei := d.Shift(9)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Wrapf(types.ErrConfiguration, "gasPrice %q below 1 wei precision", gwei)
	}
	return wei.BigInt(), nil
}
