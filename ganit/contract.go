// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ganit

import (
	"math/big"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// UnsignedTx 未签名的合约调用
type UnsignedTx struct {
	Method   string
	From     *common.Address
	To       common.Address
	Data     []byte
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
}

// StripSender clears From. Authorization comes from the signature only.
func (tx *UnsignedTx) StripSender() {
	tx.From = nil
}

// Contract builds call payloads against a deployed Ganit contract.
type Contract struct {
	address  common.Address
	gasLimit uint64
	gasPrice *big.Int
}

// NewContract 创建合约交易构造器
func NewContract(address common.Address, gasLimit uint64, gasPrice *big.Int) *Contract {
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	return &Contract{address: address, gasLimit: gasLimit, gasPrice: gasPrice}
}

// Address 合约地址
func (c *Contract) Address() common.Address {
	return c.address
}

// CreateGame createGame(opponent)
func (c *Contract) CreateGame(from, opponent common.Address) (*UnsignedTx, error) {
	return c.populate(from, MethodCreateGame, opponent)
}

// SubmitAnswer submitAnswer(gameId, questionId, answer)
func (c *Contract) SubmitAnswer(from common.Address, gameID common.Hash, questionID, answer uint64) (*UnsignedTx, error) {
	return c.populate(from, MethodSubmitAnswer, [32]byte(gameID), new(big.Int).SetUint64(questionID), new(big.Int).SetUint64(answer))
}

// ForceEndGame forceEndGame(gameId)
func (c *Contract) ForceEndGame(from common.Address, gameID common.Hash) (*UnsignedTx, error) {
	return c.populate(from, MethodForceEndGame, [32]byte(gameID))
}

func (c *Contract) populate(from common.Address, method string, args ...interface{}) (*UnsignedTx, error) {
	data, err := ganitABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(types.ErrEncoding, "pack %s: %v", method, err)
	}
	sender := from
	return &UnsignedTx{
		Method:   method,
		From:     &sender,
		To:       c.address,
		Data:     data,
		Gas:      c.gasLimit,
		GasPrice: new(big.Int).Set(c.gasPrice),
		Value:    new(big.Int),
	}, nil
}
