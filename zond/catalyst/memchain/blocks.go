// Copyright 2021 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package memchain

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/core/types"
)

func bigFromUint64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func bigFromHexBig(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return v.ToInt()
}

// EncodeTx packs a transaction's type, hash and blob versioned hashes into
// the raw wire bytes DecodeTx parses back out: 1 byte type, 32 byte hash, 1
// byte blob-hash count, then that many 32 byte hashes. Real transaction
// encoding is RLP and out of scope here (zond/catalyst.Decoder owns it in
// production); this is just enough of a wire format to round-trip through
// Decoder.Decode/Encode and exercise blob-hash matching in tests.
func EncodeTx(typ byte, hash common.Hash, blobHashes []common.Hash) []byte {
	if len(blobHashes) > 255 {
		panic("memchain: too many blob hashes for test encoding")
	}
	out := make([]byte, 0, 1+32+1+32*len(blobHashes))
	out = append(out, typ)
	out = append(out, hash.Bytes()...)
	out = append(out, byte(len(blobHashes)))
	for _, b := range blobHashes {
		out = append(out, b.Bytes()...)
	}
	return out
}

// DecodeTx is EncodeTx's inverse.
func DecodeTx(raw []byte) (*types.Transaction, error) {
	if len(raw) < 34 {
		return nil, fmt.Errorf("memchain: short transaction encoding (%d bytes)", len(raw))
	}
	typ := raw[0]
	hash := common.BytesToHash(raw[1:33])
	count := int(raw[33])
	want := 34 + 32*count
	if len(raw) != want {
		return nil, fmt.Errorf("memchain: transaction encoding length mismatch: have %d, want %d", len(raw), want)
	}
	blobHashes := make([]common.Hash, count)
	for i := 0; i < count; i++ {
		off := 34 + 32*i
		blobHashes[i] = common.BytesToHash(raw[off : off+32])
	}
	return types.NewTransaction(typ, hash, raw, blobHashes), nil
}

// TxHashFor derives a deterministic per-batch transaction hash: a uuid v5
// hash of (batchTag, index), its 16 bytes written twice to fill the 32-byte
// hash, so a synthetic batch of
// transactions built across several test helpers never collides by
// accident the way an incrementing counter might if two batches are built
// in the same test.
func TxHashFor(batchTag uuid.UUID, index int) common.Hash {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(index))
	id := uuid.NewSHA1(batchTag, buf[:])
	var h common.Hash
	copy(h[:16], id[:])
	copy(h[16:], id[:])
	return h
}

// BlockBuilder builds a chain of test blocks. Each NewBatch draws one random
// uuid tag, and Next derives its transaction hashes and state roots from that
// tag plus a running index, so hashes across separate NewBatch calls never
// collide.
type BlockBuilder struct {
	decoder  *Decoder
	batchTag uuid.UUID
	nextIdx  int
}

// NewBatch starts a new tagged batch of synthetic blocks/transactions.
func NewBatch(decoder *Decoder) *BlockBuilder {
	return &BlockBuilder{decoder: decoder, batchTag: uuid.New()}
}

// GenesisBlock returns a minimal, already-hashed genesis block with the
// given state root, number 0.
func (bb *BlockBuilder) GenesisBlock(root common.Hash) *types.Block {
	header := &types.Header{
		Root:   root,
		Number: big.NewInt(0),
		Time:   0,
	}
	hash := ComputeHash(header, nil, nil)
	return types.NewBlock(header, nil, nil, hash)
}

// Next builds a block on top of parent with n synthetic legacy
// transactions, a fresh state root, and a correctly computed hash.
func (bb *BlockBuilder) Next(parent *types.Block, n int, timestamp uint64) *types.Block {
	txs := make([]*types.Transaction, n)
	for i := 0; i < n; i++ {
		hash := TxHashFor(bb.batchTag, bb.nextIdx)
		bb.nextIdx++
		txs[i] = types.NewTransaction(types.LegacyTxType, hash, EncodeTx(types.LegacyTxType, hash, nil), nil)
	}
	root := TxHashFor(bb.batchTag, bb.nextIdx) // reuse as a synthetic, unique state root
	bb.nextIdx++
	header := &types.Header{
		ParentHash: parent.Hash(),
		Root:       root,
		Number:     new(big.Int).Add(parent.Number(), big.NewInt(1)),
		GasLimit:   30_000_000,
		Time:       timestamp,
	}
	hash := ComputeHash(header, txs, nil)
	return types.NewBlock(header, txs, nil, hash)
}

// BlockValue returns a synthetic block value of n wei as a uint256, the type
// of a BuiltPayload's Value, purely for exercising the non-nil-value code
// path in tests.
func BlockValue(n int) *uint256.Int {
	return uint256.NewInt(uint64(n))
}
