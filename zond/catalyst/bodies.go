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
	"fmt"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/core/types"
)

// GetPayloadBodiesByHashV1 returns one body entry per requested hash, in
// order; a hash with no known block gets an explicit nil entry.
func (api *ConsensusAPI) GetPayloadBodiesByHashV1(hashes []common.Hash) ([]*engine.ExecutionPayloadBodyV1, error) {
	if len(hashes) > maxBodiesRequest {
		err := engine.TooLargeRequest.With(fmt.Errorf("requested count too large: %d", len(hashes)))
		api.observe("getPayloadBodiesByHashV1", observeStatus(err))
		return nil, err
	}
	bodies := make([]*engine.ExecutionPayloadBodyV1, len(hashes))
	for i, hash := range hashes {
		bodies[i] = getBody(api.chain.GetBlockByHash(hash))
	}
	api.observe("getPayloadBodiesByHashV1", "ok")
	return bodies, nil
}

// GetPayloadBodiesByRangeV1 returns one body entry per block number in
// [start, start+count), clamped to the current chain height.
func (api *ConsensusAPI) GetPayloadBodiesByRangeV1(start, count hexutil.Uint64) ([]*engine.ExecutionPayloadBodyV1, error) {
	if start == 0 || count == 0 {
		err := engine.InvalidParams.With(fmt.Errorf("invalid start or count, start=%d count=%d", uint64(start), uint64(count)))
		api.observe("getPayloadBodiesByRangeV1", observeStatus(err))
		return nil, err
	}
	if count > maxBodiesRequest {
		err := engine.TooLargeRequest.With(fmt.Errorf("requested count too large: %d", uint64(count)))
		api.observe("getPayloadBodiesByRangeV1", observeStatus(err))
		return nil, err
	}
	current := api.chain.CurrentBlock().Number.Uint64()
	if uint64(start) > current {
		api.observe("getPayloadBodiesByRangeV1", "ok")
		return []*engine.ExecutionPayloadBodyV1{}, nil
	}
	last := uint64(start) + uint64(count) - 1
	if last > current {
		last = current
	}
	bodies := make([]*engine.ExecutionPayloadBodyV1, 0, last-uint64(start)+1)
	for i := uint64(start); i <= last; i++ {
		bodies = append(bodies, getBody(api.chain.GetBlockByNumber(i)))
	}
	api.observe("getPayloadBodiesByRangeV1", "ok")
	return bodies, nil
}

// getBody renders block's body into the wire shape getPayloadBodies
// replies with, or nil if block is nil.
func getBody(block *types.Block) *engine.ExecutionPayloadBodyV1 {
	if block == nil {
		return nil
	}
	txs := make([]hexutil.Bytes, len(block.Transactions()))
	for i, tx := range block.Transactions() {
		data, _ := tx.MarshalBinary()
		txs[i] = hexutil.Bytes(data)
	}
	withdrawals := block.Withdrawals()
	// Post-Shanghai withdrawals MUST be an empty slice, not nil, even when
	// the block carried none.
	if withdrawals == nil && block.Header().WithdrawalsHash != nil {
		withdrawals = make(types.Withdrawals, 0)
	}
	return &engine.ExecutionPayloadBodyV1{TransactionData: txs, Withdrawals: withdrawals}
}
