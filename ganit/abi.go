// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ganit

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Ganit 合约方法名
const (
	MethodCreateGame   = "createGame"
	MethodSubmitAnswer = "submitAnswer"
	MethodForceEndGame = "forceEndGame"
)

// GanitABI is the subset of the Ganit contract interface the generator calls.
const GanitABI = `[
	{"inputs":[{"internalType":"address","name":"opponent","type":"address"}],"name":"createGame","outputs":[{"internalType":"bytes32","name":"gameId","type":"bytes32"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"bytes32","name":"gameId","type":"bytes32"},{"internalType":"uint256","name":"questionId","type":"uint256"},{"internalType":"uint256","name":"answer","type":"uint256"}],"name":"submitAnswer","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"bytes32","name":"gameId","type":"bytes32"}],"name":"forceEndGame","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	bytes32Ty = mustType("bytes32")
	uint256Ty = mustType("uint256")
	addressTy = mustType("address")

	// abi.encode(['bytes32','uint256'], [gameId, questionId])
	answerSeedArgs = abi.Arguments{{Type: bytes32Ty}, {Type: uint256Ty}}
	// abi.encode(['uint256','address','address','uint256'], [ts+index, p1, p2, index])
	gameIDArgs = abi.Arguments{{Type: uint256Ty}, {Type: addressTy}, {Type: addressTy}, {Type: uint256Ty}}

	ganitABI = mustABI(GanitABI)
)

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

func mustABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
