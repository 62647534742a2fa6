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

// NewPayloadV1 rejects a payload carrying withdrawals, since V1 only ever
// speaks the pre-Shanghai shape regardless of the block's own timestamp.
func TestNewPayloadV1RejectsWithdrawals(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 10)
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.Withdrawals = []*types.Withdrawal{}

	_, err = h.api.NewPayloadV1(*payload)
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -32602, eerr.ErrorCode())
}

// NewPayloadV1 rejects a payload whose timestamp is past Shanghai, even
// though the payload shape itself is otherwise valid V1.
func TestNewPayloadV1RejectsPostShanghaiTimestamp(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 150) // post-Shanghai (ShanghaiTime=100)
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)

	_, err = h.api.NewPayloadV1(*payload)
	require.Error(t, err)
}

// NewPayloadV2 requires withdrawals once Shanghai has activated.
func TestNewPayloadV2RequiresWithdrawalsPostShanghai(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 150) // post-Shanghai
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.Withdrawals = nil

	_, err = h.api.NewPayloadV2(*payload)
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -32602, eerr.ErrorCode())
}

// NewPayloadV2 rejects withdrawals before Shanghai activates.
func TestNewPayloadV2RejectsWithdrawalsPreShanghai(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 10) // pre-Shanghai
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.Withdrawals = []*types.Withdrawal{}

	_, err = h.api.NewPayloadV2(*payload)
	require.Error(t, err)
}

// NewPayloadV2 folds INVALID_BLOCK_HASH down to plain INVALID, unlike V1.
func TestNewPayloadV2FoldsInvalidBlockHash(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 150)
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.Withdrawals = []*types.Withdrawal{}
	payload.BlockHash = common.Hash{0xff}

	status, err := h.api.NewPayloadV2(*payload)
	require.NoError(t, err)
	require.Equal(t, engine.INVALID, status.Status)
}

// NewPayloadV3 is rejected before Cancun activates, regardless of shape.
func TestNewPayloadV3RejectedBeforeCancun(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 150) // post-Shanghai, pre-Cancun
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	payload.Withdrawals = []*types.Withdrawal{}
	excess, used := hexutil.Uint64(0), hexutil.Uint64(0)
	payload.ExcessBlobGas = &excess
	payload.BlobGasUsed = &used

	_, err = h.api.NewPayloadV3(*payload, []common.Hash{}, common.Hash{0xcc})
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -38005, eerr.ErrorCode())
}

// ForkchoiceUpdatedV1 rejects attributes carrying withdrawals.
func TestForkchoiceUpdatedV1RejectsWithdrawalAttrs(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	child := batch.Next(h.genesis, 0, 10)
	payload, err := h.decoder.Encode(child)
	require.NoError(t, err)
	_, err = h.api.newPayload(payload, nil, nil)
	require.NoError(t, err)
	h.chain.Store(child, big.NewInt(0))

	_, err = h.api.ForkchoiceUpdatedV1(engine.ForkchoiceStateV1{HeadBlockHash: child.Hash()}, &engine.PayloadAttributes{
		Timestamp:   20,
		Withdrawals: []*types.Withdrawal{},
	})
	require.Error(t, err)
}

// ForkchoiceUpdatedV3 requires a parent beacon block root once Cancun is
// active.
func TestForkchoiceUpdatedV3RequiresBeaconRoot(t *testing.T) {
	h := newHarness(t)

	_, err := h.api.ForkchoiceUpdatedV3(engine.ForkchoiceStateV1{HeadBlockHash: h.genesis.Hash()}, &engine.PayloadAttributes{
		Timestamp:   220,
		Withdrawals: []*types.Withdrawal{},
	})
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -38003, eerr.ErrorCode())
}

// ExchangeCapabilities replies with the static method list regardless of
// input.
func TestExchangeCapabilitiesReturnsStaticList(t *testing.T) {
	h := newHarness(t)
	caps := h.api.ExchangeCapabilities([]string{"engine_exchangeCapabilities"})
	require.Contains(t, caps, "engine_newPayloadV3")
	require.Contains(t, caps, "engine_forkchoiceUpdatedV1")
	require.NotContains(t, caps, "engine_exchangeCapabilities")
}

// ExchangeTransitionConfigurationV1 echoes the remote triple back when its
// TTD matches the node's configured TTD.
func TestExchangeTransitionConfigurationMatches(t *testing.T) {
	h := newHarness(t)
	remote := engine.TransitionConfigurationV1{
		TerminalTotalDifficulty: (*hexutil.Big)(big.NewInt(0)),
	}
	got, err := h.api.ExchangeTransitionConfigurationV1(remote)
	require.NoError(t, err)
	require.Equal(t, remote.TerminalTotalDifficulty, got.TerminalTotalDifficulty)
}

// A mismatched TTD is rejected with InvalidParams.
func TestExchangeTransitionConfigurationMismatch(t *testing.T) {
	h := newHarness(t)
	remote := engine.TransitionConfigurationV1{
		TerminalTotalDifficulty: (*hexutil.Big)(big.NewInt(99)),
	}
	_, err := h.api.ExchangeTransitionConfigurationV1(remote)
	require.Error(t, err)
	eerr, ok := err.(*engine.EngineError)
	require.True(t, ok)
	require.Equal(t, -32602, eerr.ErrorCode())
}
