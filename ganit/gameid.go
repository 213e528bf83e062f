// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ganit

import (
	"math/big"
	"time"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Clock 毫秒时间戳来源
type Clock interface {
	NowMillis() int64
}

// SystemClock wall clock
type SystemClock struct{}

// NowMillis 当前毫秒时间戳
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// DeriveGameID = keccak256(abi.encode(nowMillis+index, p1, p2, index)).
// The timestamp salt makes the result differ between calls, so an id must be
// derived once per game and reused, see GameTable.
func DeriveGameID(nowMillis int64, index int, p1, p2 common.Address) (common.Hash, error) {
	salt := new(big.Int).Add(big.NewInt(nowMillis), big.NewInt(int64(index)))
	enc, err := gameIDArgs.Pack(salt, p1, p2, big.NewInt(int64(index)))
	if err != nil {
		return common.Hash{}, errors.Wrapf(types.ErrEncoding, "game id index=%d: %v", index, err)
	}
	return crypto.Keccak256Hash(enc), nil
}

// GameSpec one simulated game
type GameSpec struct {
	Index   int
	Player1 Account
	Player2 Account
	ID      common.Hash
}

// GameTable holds every game of a run, indexed by game index. It is built
// once before the first phase and only read afterwards.
type GameTable struct {
	games []GameSpec
}

// NewGameTable derives players and ids for games 0..count-1.
func NewGameTable(count int, assigner *Assigner, clock Clock) (*GameTable, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	games := make([]GameSpec, count)
	for i := 0; i < count; i++ {
		p1, err := assigner.PlayerAccount(i, 0)
		if err != nil {
			return nil, err
		}
		p2, err := assigner.PlayerAccount(i, 1)
		if err != nil {
			return nil, err
		}
		id, err := DeriveGameID(clock.NowMillis(), i, p1.Address, p2.Address)
		if err != nil {
			return nil, err
		}
		games[i] = GameSpec{Index: i, Player1: p1, Player2: p2, ID: id}
	}
	return &GameTable{games: games}, nil
}

// Len 游戏数量
func (t *GameTable) Len() int {
	return len(t.games)
}

// Game returns the game at index.
func (t *GameTable) Game(index int) *GameSpec {
	return &t.games[index]
}

// Player returns the account playing slot of game index.
func (g *GameSpec) Player(slot int) Account {
	if slot == 0 {
		return g.Player1
	}
	return g.Player2
}
