// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txgen

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/33cn/ganitgen/ganit"
	"github.com/33cn/ganitgen/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SignedTx 已签名的交易记录
type SignedTx struct {
	Raw    []byte
	Hash   common.Hash
	Signer common.Address
	Nonce  uint64
}

// Line 输出文件中的一行: 0x<raw>,0x<hash>
func (s *SignedTx) Line() string {
	return fmt.Sprintf("%s,%s\n", hexutil.Encode(s.Raw), s.Hash.Hex())
}

// Signer turns a stripped payload into a signed record.
type Signer interface {
	Sign(tx *ganit.UnsignedTx, key *ecdsa.PrivateKey) (*SignedTx, error)
}

// NonceTracker hands out consecutive nonces per signer address.
type NonceTracker struct {
	start uint64
	next  map[common.Address]uint64
}

// NewNonceTracker creates a tracker. Addresses present in initial start from
// their mapped value, every other address starts from start.
func NewNonceTracker(start uint64, initial map[common.Address]uint64) *NonceTracker {
	next := make(map[common.Address]uint64, len(initial))
	for addr, n := range initial {
		next[addr] = n
	}
	return &NonceTracker{start: start, next: next}
}

// Next 分配下一个nonce
func (n *NonceTracker) Next(addr common.Address) uint64 {
	nonce, ok := n.next[addr]
	if !ok {
		nonce = n.start
	}
	n.next[addr] = nonce + 1
	return nonce
}

// Peek returns the nonce Next would hand out without consuming it.
func (n *NonceTracker) Peek(addr common.Address) uint64 {
	if nonce, ok := n.next[addr]; ok {
		return nonce
	}
	return n.start
}

// EthSigner signs legacy EIP-155 transactions.
type EthSigner struct {
	signer etypes.Signer
	nonces *NonceTracker
}

// NewEthSigner 创建签名器
func NewEthSigner(chainID *big.Int, nonces *NonceTracker) *EthSigner {
	return &EthSigner{
		signer: etypes.NewEIP155Signer(chainID),
		nonces: nonces,
	}
}

// Sign signs tx with key. tx.From must already be cleared.
func (s *EthSigner) Sign(tx *ganit.UnsignedTx, key *ecdsa.PrivateKey) (*SignedTx, error) {
	if tx.From != nil {
		return nil, errors.Wrapf(types.ErrSenderNotStripped, "method=%s from=%s", tx.Method, tx.From.Hex())
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	to := tx.To
	etx := etypes.NewTx(&etypes.LegacyTx{
		Nonce:    s.nonces.Next(from),
		GasPrice: tx.GasPrice,
		Gas:      tx.Gas,
		To:       &to,
		Value:    tx.Value,
		Data:     tx.Data,
	})
	signed, err := etypes.SignTx(etx, s.signer, key)
	if err != nil {
		return nil, errors.Wrapf(types.ErrEncoding, "sign %s: %v", tx.Method, err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(types.ErrEncoding, "MarshalBinary %s: %v", tx.Method, err)
	}
	return &SignedTx{Raw: raw, Hash: signed.Hash(), Signer: from, Nonce: signed.Nonce()}, nil
}
