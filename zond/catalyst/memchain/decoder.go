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
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/zond/catalyst"
)

// Decoder is an in-memory catalyst.Decoder. It computes a block's hash as a
// sha256 digest of its header fields plus transaction/withdrawal roots —
// deterministic but deliberately not the real keccak(rlp(header)) scheme, so
// tests that mutate a single field get a hash mismatch without dragging in
// an RLP encoder.
type Decoder struct {
	// blobGasPerBlob matches the real EIP-4844 constant unless a test
	// overrides it to exercise the blob-accounting check with smaller
	// numbers.
	blobGasPerBlob uint64
}

func NewDecoder() *Decoder {
	return &Decoder{blobGasPerBlob: 131072}
}

func (d *Decoder) Decode(payload *engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconRoot *common.Hash) (*types.Block, error) {
	txs := make([]*types.Transaction, len(payload.Transactions))
	for i, raw := range payload.Transactions {
		tx, err := DecodeTx(raw)
		if err != nil {
			return nil, &catalyst.DecodeError{Kind: catalyst.DecodeErrorOther, Err: fmt.Errorf("transaction %d: %w", i, err)}
		}
		txs[i] = tx
	}

	header := &types.Header{
		ParentHash:   payload.ParentHash,
		Coinbase:     payload.FeeRecipient,
		Root:         payload.StateRoot,
		ReceiptHash:  payload.ReceiptsRoot,
		Number:       bigFromUint64(uint64(payload.BlockNumber)),
		GasLimit:     uint64(payload.GasLimit),
		GasUsed:      uint64(payload.GasUsed),
		Time:         uint64(payload.Timestamp),
		Extra:        payload.ExtraData,
		Random:       payload.PrevRandao,
		BaseFee:      bigFromHexBig(payload.BaseFeePerGas),
	}
	if payload.Withdrawals != nil {
		h := withdrawalsHash(payload.Withdrawals)
		header.WithdrawalsHash = &h
	}
	if payload.ExcessBlobGas != nil {
		v := uint64(*payload.ExcessBlobGas)
		header.ExcessBlobGas = &v
	}
	if payload.BlobGasUsed != nil {
		v := uint64(*payload.BlobGasUsed)
		header.BlobGasUsed = &v
	}

	computed := ComputeHash(header, txs, payload.Withdrawals)
	if computed != payload.BlockHash {
		return nil, &catalyst.DecodeError{
			Kind: catalyst.DecodeErrorBlockHash,
			Err:  fmt.Errorf("blockhash mismatch, want %s, got %s", computed, payload.BlockHash),
		}
	}
	return types.NewBlock(header, txs, payload.Withdrawals, payload.BlockHash), nil
}

// ValidateBlobTransactions checks block's excess-blob-gas accounting against
// its parent per a simplified EIP-4844 rule: excessBlobGas must equal
// max(0, parent.excessBlobGas+parent.blobGasUsed-targetBlobGasPerBlock), and
// blobGasUsed must equal blobsPerBlock*blobGasPerBlob.
func (d *Decoder) ValidateBlobTransactions(block *types.Block, parentHeader *types.Header) error {
	header := block.Header()
	if header.ExcessBlobGas == nil || header.BlobGasUsed == nil {
		return errors.New("memchain: missing blob gas fields on cancun block")
	}
	var blobs uint64
	for _, tx := range block.Transactions() {
		if tx.Type() == types.BlobTxType {
			blobs += uint64(len(tx.BlobHashes()))
		}
	}
	if want := blobs * d.blobGasPerBlob; want != *header.BlobGasUsed {
		return fmt.Errorf("blobGasUsed mismatch: have %d, want %d", *header.BlobGasUsed, want)
	}
	var parentExcess, parentUsed uint64
	if parentHeader.ExcessBlobGas != nil {
		parentExcess = *parentHeader.ExcessBlobGas
	}
	if parentHeader.BlobGasUsed != nil {
		parentUsed = *parentHeader.BlobGasUsed
	}
	const targetBlobGasPerBlock = 3 * 131072
	var want uint64
	if parentExcess+parentUsed > targetBlobGasPerBlock {
		want = parentExcess + parentUsed - targetBlobGasPerBlock
	}
	if want != *header.ExcessBlobGas {
		return fmt.Errorf("excessBlobGas mismatch: have %d, want %d", *header.ExcessBlobGas, want)
	}
	return nil
}

// Encode renders block back into its wire-form execution payload, the
// inverse of Decode.
func (d *Decoder) Encode(block *types.Block) (*engine.ExecutionPayload, error) {
	header := block.Header()
	txs := make([]hexutil.Bytes, len(block.Transactions()))
	for i, tx := range block.Transactions() {
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, err
		}
		txs[i] = hexutil.Bytes(raw)
	}
	payload := &engine.ExecutionPayload{
		ParentHash:    header.ParentHash,
		FeeRecipient:  header.Coinbase,
		StateRoot:     header.Root,
		ReceiptsRoot:  header.ReceiptHash,
		LogsBloom:     header.Bloom[:],
		PrevRandao:    header.Random,
		BlockNumber:   hexutil.Uint64(header.Number.Uint64()),
		GasLimit:      hexutil.Uint64(header.GasLimit),
		GasUsed:       hexutil.Uint64(header.GasUsed),
		Timestamp:     hexutil.Uint64(header.Time),
		ExtraData:     header.Extra,
		BaseFeePerGas: (*hexutil.Big)(header.BaseFee),
		BlockHash:     block.Hash(),
		Transactions:  txs,
		Withdrawals:   block.Withdrawals(),
	}
	if header.ExcessBlobGas != nil {
		v := hexutil.Uint64(*header.ExcessBlobGas)
		payload.ExcessBlobGas = &v
	}
	if header.BlobGasUsed != nil {
		v := hexutil.Uint64(*header.BlobGasUsed)
		payload.BlobGasUsed = &v
	}
	return payload, nil
}

// ComputeHash is the fake header-hash function: a sha256 digest of every
// field that would otherwise go into keccak(rlp(header)), plus the
// transaction and withdrawal lists, since this package has no RLP/keccak
// dependency to exercise for real.
func ComputeHash(header *types.Header, txs []*types.Transaction, withdrawals types.Withdrawals) common.Hash {
	h := sha256.New()
	h.Write(header.ParentHash.Bytes())
	h.Write(header.Coinbase.Bytes())
	h.Write(header.Root.Bytes())
	h.Write(header.ReceiptHash.Bytes())
	writeUint64(h, header.Number.Uint64())
	writeUint64(h, header.GasLimit)
	writeUint64(h, header.GasUsed)
	writeUint64(h, header.Time)
	h.Write(header.Extra)
	h.Write(header.Random.Bytes())
	if header.BaseFee != nil {
		h.Write(header.BaseFee.Bytes())
	}
	if header.WithdrawalsHash != nil {
		h.Write(header.WithdrawalsHash.Bytes())
	}
	if header.ExcessBlobGas != nil {
		writeUint64(h, *header.ExcessBlobGas)
	}
	if header.BlobGasUsed != nil {
		writeUint64(h, *header.BlobGasUsed)
	}
	for _, tx := range txs {
		h.Write(tx.Hash().Bytes())
	}
	for _, w := range withdrawals {
		writeUint64(h, w.Index)
	}
	return common.BytesToHash(h.Sum(nil))
}

func withdrawalsHash(ws []*types.Withdrawal) common.Hash {
	h := sha256.New()
	for _, w := range ws {
		writeUint64(h, w.Index)
		writeUint64(h, w.Validator)
		h.Write(w.Address.Bytes())
		writeUint64(h, w.Amount)
	}
	return common.BytesToHash(h.Sum(nil))
}

func writeUint64(w interface{ Write([]byte) (int, error) }, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Write(b[:])
}
