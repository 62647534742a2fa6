// Copyright 2014 The go-ethereum Authors
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

// Package types contains the data types related to Zond consensus that the
// engine API core operates on. Block/transaction decoding, RLP encoding and
// header hashing are the responsibility of the Decoder collaborator (see
// zond/catalyst.Decoder); this package only carries the decoded shape.
package types

import (
	"math/big"

	"github.com/zondchain/gzond/common"
)

// Header represents a block header in the Zond blockchain, including the
// ExcessBlobGas/BlobGasUsed fields carrying the blob-gas accounting a V3
// execution payload requires.
type Header struct {
	ParentHash      common.Hash
	Coinbase        common.Address
	Root            common.Hash
	TxHash          common.Hash
	ReceiptHash     common.Hash
	Bloom           common.Bloom
	Number          *big.Int
	GasLimit        uint64
	GasUsed         uint64
	Time            uint64
	Extra           []byte
	Random          common.Hash // PrevRandao
	BaseFee         *big.Int
	WithdrawalsHash *common.Hash
	ExcessBlobGas   *uint64
	BlobGasUsed     *uint64

	// Hash is the header's intrinsic hash, supplied by the Decoder at
	// construction time rather than computed here (header hashing is out
	// of this package's scope, see the package doc comment), mirroring
	// how Block carries its own pre-computed hash.
	Hash common.Hash
}

// CopyHeader creates a deep copy of a block header.
func CopyHeader(h *Header) *Header {
	cpy := *h
	if h.Number != nil {
		cpy.Number = new(big.Int).Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	if h.WithdrawalsHash != nil {
		wh := *h.WithdrawalsHash
		cpy.WithdrawalsHash = &wh
	}
	if h.ExcessBlobGas != nil {
		v := *h.ExcessBlobGas
		cpy.ExcessBlobGas = &v
	}
	if h.BlobGasUsed != nil {
		v := *h.BlobGasUsed
		cpy.BlobGasUsed = &v
	}
	return &cpy
}

// Withdrawal represents a validator withdrawal from the consensus layer.
type Withdrawal struct {
	Index     uint64
	Validator uint64
	Address   common.Address
	Amount    uint64
}

type Withdrawals []*Withdrawal

// Block is a fully decoded, self-consistent unit: header, transactions,
// optional withdrawals, and its intrinsic hash. The hash is supplied by the
// Decoder at construction time rather than computed here — header hashing
// is out of scope for this package.
type Block struct {
	header       *Header
	transactions []*Transaction
	withdrawals  Withdrawals
	hash         common.Hash
	totalDiff    *big.Int
}

// NewBlock wraps already-decoded components into a Block. hash must be the
// Decoder's computed keccak(rlp(header)) value; the engine never recomputes
// it.
func NewBlock(header *Header, txs []*Transaction, withdrawals Withdrawals, hash common.Hash) *Block {
	cpy := CopyHeader(header)
	cpy.Hash = hash
	return &Block{
		header:       cpy,
		transactions: txs,
		withdrawals:  withdrawals,
		hash:         hash,
	}
}

func (b *Block) Header() *Header               { return CopyHeader(b.header) }
func (b *Block) Transactions() []*Transaction   { return b.transactions }
func (b *Block) Withdrawals() Withdrawals       { return b.withdrawals }
func (b *Block) Hash() common.Hash              { return b.hash }
func (b *Block) Number() *big.Int               { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64              { return b.header.Number.Uint64() }
func (b *Block) Time() uint64                   { return b.header.Time }
func (b *Block) ParentHash() common.Hash        { return b.header.ParentHash }
func (b *Block) Root() common.Hash              { return b.header.Root }
func (b *Block) Coinbase() common.Address       { return b.header.Coinbase }
func (b *Block) GasLimit() uint64               { return b.header.GasLimit }
func (b *Block) GasUsed() uint64                { return b.header.GasUsed }
func (b *Block) BaseFee() *big.Int {
	if b.header.BaseFee == nil {
		return nil
	}
	return new(big.Int).Set(b.header.BaseFee)
}

// SetTotalDifficulty stashes the block's cumulative PoW difficulty, used by
// the terminal-block check. It is not part of the header because total
// difficulty is chain-derived metadata, not wire data.
func (b *Block) SetTotalDifficulty(td *big.Int) { b.totalDiff = td }
func (b *Block) TotalDifficulty() *big.Int       { return b.totalDiff }

// Transaction is the lean, decode-agnostic transaction shape payload
// validation and body queries need: its type, its hash, any blob versioned
// hashes it carries, and its raw wire bytes for re-export. Signing and RLP
// marshalling of the various transaction kinds are the Decoder's job.
type Transaction struct {
	typ         byte
	hash        common.Hash
	raw         []byte
	blobHashes  []common.Hash
}

const (
	LegacyTxType     = 0x00
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
)

func NewTransaction(typ byte, hash common.Hash, raw []byte, blobHashes []common.Hash) *Transaction {
	return &Transaction{typ: typ, hash: hash, raw: raw, blobHashes: blobHashes}
}

func (tx *Transaction) Type() byte               { return tx.typ }
func (tx *Transaction) Hash() common.Hash         { return tx.hash }
func (tx *Transaction) BlobHashes() []common.Hash { return tx.blobHashes }

// MarshalBinary returns the transaction's canonical wire encoding, as
// produced by the Decoder when the transaction was first seen. Body queries
// re-export this unchanged.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(tx.raw))
	copy(out, tx.raw)
	return out, nil
}
