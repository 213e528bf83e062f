// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package provision

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Deployer sends the contract creation tx and waits for the code to appear.
type Deployer struct {
	Backend  Backend
	ChainID  *big.Int
	Key      *ecdsa.PrivateKey
	GasLimit uint64
	GasPrice *big.Int
	Timeout  time.Duration
}

// Deploy 部署合约并返回合约地址
func (d *Deployer) Deploy(ctx context.Context, code []byte) (common.Address, error) {
	if len(code) == 0 {
		return common.Address{}, errors.Wrap(types.ErrDeployment, "empty contract bytecode")
	}
	from := crypto.PubkeyToAddress(d.Key.PublicKey)
	nonce, err := d.Backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Address{}, errors.Wrapf(types.ErrDeployment, "pending nonce %s: %v", from.Hex(), err)
	}
	tx := etypes.NewTx(&etypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: d.GasPrice,
		Gas:      d.GasLimit,
		Data:     code,
	})
	signed, err := etypes.SignTx(tx, etypes.NewEIP155Signer(d.ChainID), d.Key)
	if err != nil {
		return common.Address{}, errors.Wrapf(types.ErrDeployment, "sign deploy tx: %v", err)
	}
	if err := d.Backend.SendTransaction(ctx, signed); err != nil {
		return common.Address{}, errors.Wrapf(types.ErrDeployment, "send deploy tx: %v", err)
	}
	plog.Info("deploying ganit contract", "from", from.Hex(), "nonce", nonce, "tx", signed.Hash().Hex())

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	addr, err := bind.WaitDeployed(ctx, d.Backend, signed)
	if err != nil {
		return common.Address{}, errors.Wrapf(types.ErrDeployment, "wait deployed %s: %v", signed.Hash().Hex(), err)
	}
	if want := crypto.CreateAddress(from, nonce); addr != want {
		return common.Address{}, errors.Wrapf(types.ErrDeployment, "contract address %s, expect %s", addr.Hex(), want.Hex())
	}
	plog.Info("ganit contract deployed", "address", addr.Hex())
	return addr, nil
}

// ReadBytecode 读取十六进制字节码文件
func ReadBytecode(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.Wrap(types.ErrConfiguration, "neither contractAddress nor contractBin configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "read %s: %v", path, err)
	}
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	code, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(types.ErrConfiguration, "decode %s: %v", path, err)
	}
	return code, nil
}

func deployTimeout(n *types.Network) time.Duration {
	if n.DeployTimeout <= 0 {
		return time.Duration(types.DefaultDeployTimeout) * time.Second
	}
	return time.Duration(n.DeployTimeout) * time.Second
}
