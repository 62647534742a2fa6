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
	"fmt"

	"github.com/holiman/uint256"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/consensus/merge"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/internal/clog"
)

// forkchoiceUpdated resolves the consensus layer's view of head/safe/
// finalized against the local chain, canonicalises the head if needed, and
// optionally starts a new payload build.
func (api *ConsensusAPI) forkchoiceUpdated(update engine.ForkchoiceStateV1, attrs *engine.PayloadAttributes) (engine.ForkChoiceResponse, error) {
	api.forkchoiceLock.Lock()
	defer api.forkchoiceLock.Unlock()

	clog.Trace("Engine API request received", "method", "ForkchoiceUpdated", "head", update.HeadBlockHash, "safe", update.SafeBlockHash, "finalized", update.FinalizedBlockHash)

	// Step 1: sanity.
	if update.FinalizedBlockHash != (common.Hash{}) && update.SafeBlockHash == (common.Hash{}) {
		return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}}, engine.InvalidParams.With(
			errors.New("safe block hash must be set if finalized block hash is set"))
	}
	if update.HeadBlockHash == (common.Hash{}) {
		clog.Warn("Forkchoice requested update to zero hash")
		return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}}, nil
	}

	// Step 3: head resolution (Remote Cache -> Executed Cache -> chain).
	head := api.resolveBlock(update.HeadBlockHash)
	if head == nil {
		clog.Warn("Forkchoice requested unknown head", "hash", update.HeadBlockHash)
		return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.SYNCING}}, nil
	}

	// Step 4: hardfork-change log.
	api.noteForkchoiceHardfork(head.Time())

	// Step 5: unconditionally inform the beacon skeleton.
	if api.beacon != nil {
		api.beacon.SetHead(head.Header())
	}

	// Step 6: pre-merge terminal gate.
	headTD := api.chain.TotalDifficulty(head.Hash())
	if !merge.TTDReached(api.config, headTD) {
		parentTD := api.chain.TotalDifficulty(head.ParentHash())
		if !merge.IsTerminal(api.config, headTD, parentTD) {
			return engine.ForkChoiceResponse{PayloadStatus: api.invalid(fmt.Errorf("head is not a terminal PoW block"), common.Hash{})}, nil
		}
	}

	// Step 7: head executedness.
	if !api.vm.HasStateRoot(head.Root()) {
		return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.SYNCING}}, nil
	}

	// Step 8: resolve safe/finalized.
	var safe, finalized *types.Block
	if update.SafeBlockHash != (common.Hash{}) {
		if update.SafeBlockHash == head.Hash() {
			safe = head
		} else {
			safe = api.resolveBlock(update.SafeBlockHash)
		}
		if safe == nil {
			return engine.ForkChoiceResponse{}, engine.NewEngineError(-32602, "safe block not available")
		}
	}
	if update.FinalizedBlockHash != (common.Hash{}) {
		finalized = api.resolveBlock(update.FinalizedBlockHash)
		if finalized == nil {
			return engine.ForkChoiceResponse{}, engine.NewEngineError(-32602, "finalized block not available")
		}
	}

	// Step 9: canonicalisation, only when the canonical chain's head
	// differs from the requested head; the Ancestor Walker only runs when
	// that canonical head is behind (a same-height reorg skips straight to
	// setHead with no ancestors to splice in).
	canonHead := api.chain.CurrentBlock()
	if canonHead.Hash != head.Hash() {
		var ancestors []*types.Block
		if canonHead.Number.Uint64() < head.NumberU64() {
			var err error
			ancestors, err = api.walkAncestors(canonHead.Hash, head.ParentHash(), maxAncestorDepth)
			if err != nil {
				return engine.ForkChoiceResponse{}, engine.NewEngineError(-32602, err.Error())
			}
		}
		setHeadChain := append(ancestors, head)
		if _, err := api.chain.SetCanonical(head); err != nil {
			return engine.ForkChoiceResponse{}, engine.NewEngineError(-32602, err.Error())
		}
		if api.txpool != nil {
			for _, b := range setHeadChain {
				api.txpool.RemoveTransactions(b.Transactions())
			}
		}
		api.markSynced()
	}
	if finalized != nil {
		api.chain.SetFinalized(finalized.Header())
	}
	if safe != nil {
		api.chain.SetSafe(safe.Header())
	}

	// Step 10: build gate.
	var payloadID *engine.PayloadID
	if attrs != nil {
		if uint64(attrs.Timestamp) <= head.Time() {
			return engine.ForkChoiceResponse{}, engine.NewEngineError(-32602,
				fmt.Sprintf("invalid timestamp in payloadAttributes, got %d, need at least %d", attrs.Timestamp, head.Time()+1))
		}
		id, err := api.builder.StartBuild(&BuildArgs{
			Parent:                head.Hash(),
			Timestamp:             uint64(attrs.Timestamp),
			PrevRandao:            attrs.PrevRandao,
			SuggestedFeeRecipient: attrs.SuggestedFeeRecipient,
			Withdrawals:           attrs.Withdrawals,
			ParentBeaconBlockRoot: attrs.ParentBeaconBlockRoot,
		})
		if err != nil {
			clog.Error("Failed to start payload build", "err", err)
			return engine.ForkChoiceResponse{}, engine.InvalidPayloadAttributes
		}
		payloadID = &id
	}

	// Step 11: prune and reply.
	var finalizedHeader *types.Header
	if finalized != nil {
		finalizedHeader = finalized.Header()
	}
	api.cache.prune(finalizedHeader, currentVMNumber(api.vm))
	headHash := head.Hash()
	return engine.ForkChoiceResponse{
		PayloadStatus: engine.PayloadStatusV1{Status: engine.VALID, LatestValidHash: &headHash},
		PayloadID:     payloadID,
		HeadBlock:     head,
	}, nil
}

// resolveBlock looks a hash up via the Remote Cache, then the Executed
// Cache, then the canonical chain. The beacon skeleton is not consulted.
func (api *ConsensusAPI) resolveBlock(hash common.Hash) *types.Block {
	if b := api.cache.getRemote(hash); b != nil {
		return b
	}
	if b := api.cache.getExecuted(hash); b != nil {
		return b
	}
	return api.chain.GetBlockByHash(hash)
}

func currentVMNumber(vm StateManager) uint64 {
	if h := vm.CurrentHeader(); h != nil {
		return h.Number.Uint64()
	}
	return 0
}

// getPayload retrieves a previously started build by id, re-executes it
// against the VM without moving the chain head, and returns the assembled
// envelope.
func (api *ConsensusAPI) getPayload(id engine.PayloadID) (*engine.ExecutionPayloadEnvelope, error) {
	clog.Trace("Engine API request received", "method", "GetPayload", "id", id)

	built, ok := api.builder.Payload(id)
	if !ok {
		return nil, engine.UnknownPayload
	}
	if err := api.vm.RunWithoutSetHead(built.Block, true); err != nil {
		return nil, engine.NewEngineError(-32603, err.Error())
	}
	api.cache.putExecuted(built.Block)

	return api.blockToEnvelope(built)
}

// blockToEnvelope renders a built payload into the V1/V2/V3-shaped
// envelope getPayload replies with; the caller's method version decides
// which optional fields the RPC layer serialises back out.
func (api *ConsensusAPI) blockToEnvelope(built *BuiltPayload) (*engine.ExecutionPayloadEnvelope, error) {
	payload, err := api.decoder.Encode(built.Block)
	if err != nil {
		return nil, engine.NewEngineError(-32603, err.Error())
	}
	value := built.Value
	if value == nil {
		value = uint256.NewInt(0)
	}
	return &engine.ExecutionPayloadEnvelope{
		ExecutionPayload: payload,
		BlockValue:       (*hexutil.Big)(value.ToBig()),
		BlobsBundle:      built.BlobsBundle,
	}, nil
}
