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

package catalyst

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/zond/catalyst/memchain"
)

var errExecutionBoom = errors.New("memchain: simulated execution failure")

// A healthy payload whose parent is executed and canonical is VALID.
func TestNewPayloadHealthyIsValid(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 2, 10)

	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)

	status, err := h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	require.Equal(t, engine.VALID, status.Status)
	require.NotNil(t, status.LatestValidHash)
	require.Equal(t, child.Hash(), *status.LatestValidHash)
	require.True(t, h.vm.HasStateRoot(child.Root()))
}

// A payload whose parent is entirely unknown (no beacon acceptance) is
// cached as remote and reported ACCEPTED.
func TestNewPayloadUnknownParentIsAccepted(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	orphanParent := batch.Next(h.genesis, 0, 5) // never Stored anywhere
	child := batch.Next(orphanParent, 1, 10)

	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)

	status, err := h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	require.Equal(t, engine.ACCEPTED, status.Status)
	require.Nil(t, status.LatestValidHash)
}

// A payload with an unknown parent that the beacon skeleton already
// optimistically accepted is reported SYNCING instead of ACCEPTED.
func TestNewPayloadBeaconAcceptedBlockIsSyncing(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	orphanParent := batch.Next(h.genesis, 0, 5)
	child := batch.Next(orphanParent, 1, 10)
	h.beacon.Accept(child.Header())

	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)

	status, err := h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	require.Equal(t, engine.SYNCING, status.Status)
}

// A Cancun payload whose versionedHashes count mismatches its blob
// transactions is INVALID with an "Error verifying versionedHashes"
// message.
func TestNewPayloadBlobHashCountMismatchIsInvalid(t *testing.T) {
	h := newHarness(t)

	blobHashes := []common.Hash{{0x01}, {0x02}}
	txHash := common.Hash{0xaa}
	tx := types.NewTransaction(types.BlobTxType, txHash, memchain.EncodeTx(types.BlobTxType, txHash, blobHashes), blobHashes)

	header := &types.Header{
		ParentHash: h.genesis.Hash(),
		Root:       common.Hash{0xbb},
		Number:     bigOne(),
		GasLimit:   30_000_000,
		Time:       210, // post-Cancun (CancunTime=200)
	}
	excess, used := uint64(0), uint64(131072*2)
	header.ExcessBlobGas = &excess
	header.BlobGasUsed = &used
	hash := memchain.ComputeHash(header, []*types.Transaction{tx}, nil)
	block := types.NewBlock(header, []*types.Transaction{tx}, nil, hash)

	payload, err := h.decoder.Encode(block)
	require.NoError(t, err)

	// Only one versioned hash provided for a transaction carrying two.
	status, err := h.api.newPayload(payload, blobHashes[:1], &common.Hash{0xcc})
	require.NoError(t, err)
	require.Equal(t, engine.INVALID, status.Status)
	require.NotNil(t, status.ValidationError)
	require.Equal(t, "Error verifying versionedHashes: expected=2 received=1", *status.ValidationError)
}

// A payload whose recomputed hash doesn't match the claimed blockHash maps
// to INVALID_BLOCK_HASH via the Block Assembler.
func TestNewPayloadBadBlockHashIsInvalidBlockHash(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 1, 10)

	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.BlockHash = common.Hash{0xff} // corrupt the claimed hash

	status, err := h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	require.Equal(t, engine.INVALID_BLOCK_HASH, status.Status)
}

// A payload whose VM execution fails is INVALID and its latest valid hash
// points back at the parent.
func TestNewPayloadExecutionFailureIsInvalid(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 1, 10)
	h.vm.FailNext(child.Hash(), errExecutionBoom)

	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)

	status, err := h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	require.Equal(t, engine.INVALID, status.Status)
	require.NotNil(t, status.LatestValidHash)
	require.Equal(t, h.genesis.Hash(), *status.LatestValidHash)
}

func bigOne() *big.Int { return big.NewInt(1) }
