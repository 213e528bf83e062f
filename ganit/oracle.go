// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ganit

import (
	"math/big"
	"math/rand"
	"time"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// CorrectRate 模拟玩家答对的概率
const CorrectRate = 0.3

// MaxWrongAnswer 随机错误答案的上限(含)
const MaxWrongAnswer = 100

var (
	big50 = big.NewInt(50)
	big30 = big.NewInt(30)
	big3  = big.NewInt(3)
)

// RandSource yields uniform values in [0,1).
type RandSource interface {
	Float64() float64
}

// NewRandSource returns a time seeded source. It is intentionally not
// reproducible across runs.
func NewRandSource() RandSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// CorrectAnswer derives the answer the contract expects for questionID of
// gameID. The formula must stay bit-exact with the on-chain check.
func CorrectAnswer(gameID common.Hash, questionID uint64) (uint64, error) {
	seed, err := AnswerSeed(gameID, questionID)
	if err != nil {
		return 0, err
	}
	num1, num2, op := operands(seed)
	return apply(num1, num2, op), nil
}

// AnswerSeed = keccak256(abi.encode(gameId, questionId))
func AnswerSeed(gameID common.Hash, questionID uint64) (*big.Int, error) {
	enc, err := answerSeedArgs.Pack([32]byte(gameID), new(big.Int).SetUint64(questionID))
	if err != nil {
		return nil, errors.Wrapf(types.ErrEncoding, "answer seed game=%s question=%d: %v", gameID.Hex(), questionID, err)
	}
	return new(big.Int).SetBytes(crypto.Keccak256(enc)), nil
}

func operands(seed *big.Int) (num1, num2, op uint64) {
	num1 = new(big.Int).Mod(seed, big50).Uint64() + 1
	num2 = new(big.Int).Mod(new(big.Int).Rsh(seed, 8), big30).Uint64() + 1
	op = new(big.Int).Mod(new(big.Int).Rsh(seed, 16), big3).Uint64()
	return
}

func apply(num1, num2, op uint64) uint64 {
	switch op {
	case 0:
		return num1 + num2
	case 1:
		if num1 > num2 {
			return num1 - num2
		}
		return num2 - num1
	default:
		return (num1%12 + 1) * (num2%12 + 1)
	}
}

// Oracle 模拟玩家作答
type Oracle struct {
	rnd RandSource
}

// NewOracle 创建 Oracle, rnd 为空时使用时间种子
func NewOracle(rnd RandSource) *Oracle {
	if rnd == nil {
		rnd = NewRandSource()
	}
	return &Oracle{rnd: rnd}
}

// SimulatedAnswer returns the correct answer with probability CorrectRate,
// otherwise a uniform value in [1, MaxWrongAnswer].
func (o *Oracle) SimulatedAnswer(gameID common.Hash, questionID uint64) (uint64, error) {
	if o.rnd.Float64() < CorrectRate {
		return CorrectAnswer(gameID, questionID)
	}
	return uint64(o.rnd.Float64()*MaxWrongAnswer) + 1, nil
}
