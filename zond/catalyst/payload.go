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
	"fmt"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/consensus/merge"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/internal/clog"
)

func validHash(h common.Hash) *common.Hash { return &h }

// newPayload is the shared core of NewPayloadV1/V2/V3: decode and validate
// the payload, then drive it through execution. versionedHashes and
// parentBeaconRoot are nil unless the caller is newPayloadV3.
func (api *ConsensusAPI) newPayload(payload *engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconRoot *common.Hash) (engine.PayloadStatusV1, error) {
	api.newPayloadLock.Lock()
	defer api.newPayloadLock.Unlock()

	clog.Trace("Engine API request received", "method", "NewPayload", "number", uint64(payload.BlockNumber), "hash", payload.BlockHash)

	// Step 1: assemble.
	block, status := api.assembleBlock(payload, versionedHashes, parentBeaconRoot)
	if status != nil {
		return *status, nil
	}
	api.notePayloadHardfork(block.Time())

	// Step 2: blob-hash matching.
	if api.config.IsCancun(block.Time()) {
		if err := checkBlobHashes(block, versionedHashes); err != nil {
			return api.invalid(err, block.ParentHash()), nil
		}
	} else if versionedHashes != nil {
		return api.invalid(fmt.Errorf("versionedHashes before Cancun"), block.ParentHash()), nil
	}

	// Step 3: executed-already short-circuit.
	if api.alreadyExecuted(block) {
		hash := block.Hash()
		return engine.PayloadStatusV1{Status: engine.VALID, LatestValidHash: &hash}, nil
	}

	// Step 4: parent lookup (beacon skeleton -> remote cache -> chain).
	parent := api.resolveParent(block.ParentHash())
	if parent == nil {
		return api.delayOrReject(block), nil
	}

	// Step 5: pre-merge parent gate.
	parentTD := api.chain.TotalDifficulty(parent.Hash)
	if !merge.TTDReached(api.config, parentTD) {
		grandparentTD := api.chain.TotalDifficulty(parent.ParentHash)
		if !merge.IsTerminal(api.config, parentTD, grandparentTD) {
			return api.invalid(fmt.Errorf("parent is not a terminal PoW block"), common.Hash{}), nil
		}
	}

	// Step 6: blob-transaction validation.
	if api.config.IsCancun(block.Time()) {
		if err := api.decoder.ValidateBlobTransactions(block, parent); err != nil {
			return api.invalid(err, parent.Hash), nil
		}
	}

	// Step 7: executed-parent gate.
	if !api.isExecuted(parent.Hash, parent.Number.Uint64()) {
		return api.delayOrReject(block), nil
	}

	return api.executeChain(block, parent), nil
}

// invalid builds an INVALID status carrying err's message and the given
// latest-valid hash; the zero hash is itself a legitimate value here.
func (api *ConsensusAPI) invalid(err error, latestValid common.Hash) engine.PayloadStatusV1 {
	msg := err.Error()
	return engine.PayloadStatusV1{Status: engine.INVALID, LatestValidHash: &latestValid, ValidationError: &msg}
}

// checkBlobHashes flattens the versioned hashes of every blob transaction
// in block, in order, and compares them element-wise against provided.
func checkBlobHashes(block *types.Block, provided []common.Hash) error {
	var want []common.Hash
	for _, tx := range block.Transactions() {
		if tx.Type() == types.BlobTxType {
			want = append(want, tx.BlobHashes()...)
		}
	}
	if len(want) != len(provided) {
		return fmt.Errorf("Error verifying versionedHashes: expected=%d received=%d", len(want), len(provided))
	}
	for i := range want {
		if want[i] != provided[i] {
			return fmt.Errorf("Error verifying versionedHashes: mismatch at index %d", i)
		}
	}
	return nil
}

// alreadyExecuted reports whether block is in the Executed Cache or is
// already canonical and executed.
func (api *ConsensusAPI) alreadyExecuted(block *types.Block) bool {
	hash := block.Hash()
	if api.cache.hasExecuted(hash) {
		return true
	}
	return api.isCanonicalAt(hash, block.NumberU64()) && api.vm.HasStateRoot(block.Root())
}

func (api *ConsensusAPI) isCanonicalAt(hash common.Hash, number uint64) bool {
	vmHead := api.vm.CurrentHeader()
	if vmHead == nil || number > vmHead.Number.Uint64() {
		return false
	}
	canon, ok := api.chain.NumberToHash(number)
	return ok && canon == hash
}

// isExecuted reports whether the given (hash, number) is in the Executed
// Cache or is canonical-and-executed.
func (api *ConsensusAPI) isExecuted(hash common.Hash, number uint64) bool {
	if api.cache.hasExecuted(hash) {
		return true
	}
	return api.isCanonicalAt(hash, number)
}

// resolveParent consults the beacon skeleton, then the remote cache, then
// the canonical chain, in that order.
func (api *ConsensusAPI) resolveParent(hash common.Hash) *types.Header {
	if api.beacon != nil {
		if h := api.beacon.Header(hash); h != nil {
			return h
		}
	}
	if b := api.cache.getRemote(hash); b != nil {
		return b.Header()
	}
	if b := api.chain.GetBlockByHash(hash); b != nil {
		return b.Header()
	}
	return nil
}

// delayOrReject is the catch-all for an unresolvable or unexecuted parent:
// if the beacon skeleton optimistically accepted the block, reply SYNCING,
// otherwise stash it in the Remote Cache and reply ACCEPTED. It also
// short-circuits to INVALID if the block links to a known-bad ancestor.
func (api *ConsensusAPI) delayOrReject(block *types.Block) engine.PayloadStatusV1 {
	if res := api.tracker.check(block.ParentHash(), block.Hash()); res != nil {
		return *res
	}
	if api.beacon != nil && api.beacon.Accepted(block.Hash()) {
		clog.Debug("Payload accepted for sync extension", "number", block.NumberU64(), "hash", block.Hash())
		return engine.PayloadStatusV1{Status: engine.SYNCING}
	}
	api.cache.putRemote(block)
	clog.Warn("State not available, accepting new payload", "number", block.NumberU64(), "hash", block.Hash())
	return engine.PayloadStatusV1{Status: engine.ACCEPTED}
}

// executeChain walks ancestors from the VM head to block inclusive,
// executing whichever aren't already executed, bounded by
// engineNewpayloadMaxExecute.
func (api *ConsensusAPI) executeChain(block *types.Block, parent *types.Header) engine.PayloadStatusV1 {
	vmHead := api.vm.CurrentHeader()
	var vmHeadHash common.Hash
	if vmHead != nil {
		vmHeadHash = vmHead.Hash
	}
	ancestors, err := api.walkAncestors(vmHeadHash, block.ParentHash(), maxAncestorDepth)
	if err != nil {
		if api.beacon != nil && api.beacon.Accepted(block.Hash()) {
			return engine.PayloadStatusV1{Status: engine.SYNCING}
		}
		api.cache.putRemote(block)
		return engine.PayloadStatusV1{Status: engine.ACCEPTED}
	}
	chain := append(ancestors, block)

	parentRoot := parent.Root
	for i, b := range chain {
		if api.isExecuted(b.Hash(), b.NumberU64()) {
			parentRoot = b.Root()
			continue
		}
		remaining := len(chain) - i
		if remaining > engineNewpayloadMaxExecute {
			if api.beacon != nil && api.beacon.Accepted(block.Hash()) {
				return engine.PayloadStatusV1{Status: engine.SYNCING}
			}
			api.cache.putRemote(block)
			return engine.PayloadStatusV1{Status: engine.ACCEPTED}
		}
		if err := api.vm.Execute(b, parentRoot); err != nil {
			clog.Warn("NewPayload: executing block failed", "hash", b.Hash(), "error", err)
			api.tracker.setInvalidAncestor(b.Header(), b.Header())
			api.chain.Delete(b.Hash())
			if api.beacon != nil {
				api.beacon.SetHead(parent)
			}
			return api.invalid(err, parent.Hash)
		}
		api.cache.putExecuted(b)
		parentRoot = b.Root()
	}
	api.cache.putRemote(block)
	hash := block.Hash()
	return engine.PayloadStatusV1{Status: engine.VALID, LatestValidHash: &hash}
}
