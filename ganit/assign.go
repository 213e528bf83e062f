// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ganit

import (
	"crypto/ecdsa"

	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Account 参与游戏的账户
//
// Index 是地址池中的位置, KeyIndex 是签名私钥池中的位置.
// 两个池长度不同时 Address 与 Key 对应的地址可以不一致.
type Account struct {
	Index    int
	Address  common.Address
	KeyIndex int
	Key      *ecdsa.PrivateKey
}

// Signer 返回私钥对应的地址
func (a Account) Signer() common.Address {
	return crypto.PubkeyToAddress(a.Key.PublicKey)
}

// Assigner maps game slots onto the account pool and the key pool.
//
//	accountIndex = (gameIndex*2 + slot) % len(addresses)
//	keyIndex     = accountIndex % len(keys)
//
// The second rotation is applied on top of the first and wraps on its own,
// so callers must not assume addresses[i] is the address of keys[i].
type Assigner struct {
	addresses []common.Address
	keys      []*ecdsa.PrivateKey
}

// NewAssigner 两个池都不能为空
func NewAssigner(addresses []common.Address, keys []*ecdsa.PrivateKey) (*Assigner, error) {
	if len(addresses) == 0 {
		return nil, types.ErrEmptyAccountPool
	}
	if len(keys) == 0 {
		return nil, types.ErrEmptyKeyPool
	}
	return &Assigner{addresses: addresses, keys: keys}, nil
}

// AccountIndex 玩家所在的地址池位置
func (a *Assigner) AccountIndex(gameIndex, slot int) int {
	return (gameIndex*2 + slot) % len(a.addresses)
}

// PlayerAccount resolves slot (0 or 1) of game gameIndex.
func (a *Assigner) PlayerAccount(gameIndex, slot int) (Account, error) {
	if slot != 0 && slot != 1 {
		return Account{}, errors.Wrapf(types.ErrInvalidSlot, "slot=%d", slot)
	}
	idx := a.AccountIndex(gameIndex, slot)
	keyIdx := idx % len(a.keys)
	return Account{
		Index:    idx,
		Address:  a.addresses[idx],
		KeyIndex: keyIdx,
		Key:      a.keys[keyIdx],
	}, nil
}

// EndSigner picks the key that force-ends game gameIndex. It rotates over the
// key pool directly and is unrelated to the player slots.
func (a *Assigner) EndSigner(gameIndex int) Account {
	keyIdx := gameIndex % len(a.keys)
	key := a.keys[keyIdx]
	return Account{
		Index:    -1,
		Address:  crypto.PubkeyToAddress(key.PublicKey),
		KeyIndex: keyIdx,
		Key:      key,
	}
}

// Keys 签名私钥池
func (a *Assigner) Keys() []*ecdsa.PrivateKey {
	return a.keys
}
