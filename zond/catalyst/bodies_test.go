// Copyright 2022 The go-ethereum Authors
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
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/zond/catalyst/memchain"
)

// GetPayloadBodiesByHashV1 returns a body per hash in order, with a nil
// entry for any hash it doesn't know about.
func TestGetPayloadBodiesByHashV1(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	b1 := batch.Next(h.genesis, 2, 10)
	h.chain.Store(b1, big.NewInt(0))

	bodies, err := h.api.GetPayloadBodiesByHashV1([]common.Hash{b1.Hash(), {0xde, 0xad}})
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	require.NotNil(t, bodies[0])
	require.Len(t, bodies[0].TransactionData, 2)
	require.Nil(t, bodies[1])
}

// A GetPayloadBodiesByHashV1 call exceeding the per-call cap is rejected as
// too large.
func TestGetPayloadBodiesByHashV1TooLarge(t *testing.T) {
	h := newHarness(t)
	hashes := make([]common.Hash, maxBodiesRequest+1)
	_, err := h.api.GetPayloadBodiesByHashV1(hashes)
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -38004, eerr.ErrorCode())
}

// GetPayloadBodiesByRangeV1 returns one body per number in range, clamped
// to the current chain height.
func TestGetPayloadBodiesByRangeV1ClampsToHeight(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	parent := h.genesis
	for i := 0; i < 3; i++ {
		next := batch.Next(parent, 0, uint64(10*(i+1)))
		h.chain.Store(next, big.NewInt(0))
		_, err := h.chain.SetCanonical(next)
		require.NoError(t, err)
		parent = next
	}

	bodies, err := h.api.GetPayloadBodiesByRangeV1(1, 10)
	require.NoError(t, err)
	require.Len(t, bodies, 3) // clamped from 10 down to the 3 blocks that exist
}

// start=0 or count=0 are rejected as invalid parameters.
func TestGetPayloadBodiesByRangeV1RejectsZero(t *testing.T) {
	h := newHarness(t)
	_, err := h.api.GetPayloadBodiesByRangeV1(0, 1)
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -32602, eerr.ErrorCode())

	_, err = h.api.GetPayloadBodiesByRangeV1(1, 0)
	require.Error(t, err)
}

// A count above the per-call cap is rejected as too large.
func TestGetPayloadBodiesByRangeV1TooLarge(t *testing.T) {
	h := newHarness(t)
	_, err := h.api.GetPayloadBodiesByRangeV1(1, hexutil.Uint64(maxBodiesRequest+1))
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -38004, eerr.ErrorCode())
}

// A start past the current chain height returns an empty (not nil) slice.
func TestGetPayloadBodiesByRangeV1StartPastHeightIsEmpty(t *testing.T) {
	h := newHarness(t)
	bodies, err := h.api.GetPayloadBodiesByRangeV1(5, 1)
	require.NoError(t, err)
	require.NotNil(t, bodies)
	require.Empty(t, bodies)
}

// A block whose header carries a WithdrawalsHash but whose Withdrawals
// list is nil still renders an empty, non-nil withdrawals slice in the
// body — the post-Shanghai wire shape requires `[]`, never `null`.
func TestGetBodyRendersEmptyWithdrawalsPostShanghai(t *testing.T) {
	withdrawalsHash := common.Hash{0x01}
	header := &types.Header{
		ParentHash:      common.Hash{0x00},
		Root:            common.Hash{0x02},
		Number:          big.NewInt(1),
		Time:            110,
		WithdrawalsHash: &withdrawalsHash,
	}
	hash := memchain.ComputeHash(header, nil, nil)
	block := types.NewBlock(header, nil, nil, hash)

	body := getBody(block)
	require.NotNil(t, body)
	require.NotNil(t, body.Withdrawals)
	require.Empty(t, body.Withdrawals)
}
