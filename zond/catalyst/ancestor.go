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
	"errors"

	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
)

// errAncestorOverflow is the internal failure raised when the chain between
// startParentHash and vmHeadHash is deeper than maxDepth. newPayload treats
// it as "cannot yet extend chain" and replies SYNCING or ACCEPTED;
// forkchoiceUpdated turns it into an INVALID_PARAMS error.
var errAncestorOverflow = errors.New("catalyst: ancestor chain exceeds max depth")

// errAncestorUnresolved is raised when the walk runs off the known chain
// (a hash with no cached or stored block) before reaching vmHeadHash or
// the zero hash.
var errAncestorUnresolved = errors.New("catalyst: ancestor block not found")

// lookup resolves a hash to a full block, preferring the executed and
// remote caches (already-seen payloads) before falling back to the
// canonical store.
func (api *ConsensusAPI) lookup(hash common.Hash) *types.Block {
	if b := api.cache.getExecuted(hash); b != nil {
		return b
	}
	if b := api.cache.getRemote(hash); b != nil {
		return b
	}
	return api.chain.GetBlockByHash(hash)
}

// walkAncestors bridges startParentHash back to (and excluding) vmHeadHash,
// returning blocks oldest-first. It does not execute anything; it only
// resolves.
func (api *ConsensusAPI) walkAncestors(vmHeadHash, startParentHash common.Hash, maxDepth int) ([]*types.Block, error) {
	var chain []*types.Block

	cur := startParentHash
	for depth := 0; ; depth++ {
		if cur == vmHeadHash || cur == (common.Hash{}) {
			break
		}
		if depth >= maxDepth {
			return nil, errAncestorOverflow
		}
		block := api.lookup(cur)
		if block == nil {
			return nil, errAncestorUnresolved
		}
		chain = append(chain, block)
		cur = block.ParentHash()
	}
	// chain was appended newest-first (we walk backwards); reverse it to
	// the oldest-first order callers expect.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
