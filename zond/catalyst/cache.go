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
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
)

const (
	// invalidBlockHitEviction is the number of times an invalid block can
	// be referenced before it is attempted to be reprocessed again.
	invalidBlockHitEviction = 128

	// invalidTipsetsCap bounds the number of chain tips tracked as
	// descending from a known-bad ancestor; purely an OOM guard.
	invalidTipsetsCap = 512
)

// blockCache holds the Remote and Executed caches: two hash-keyed maps
// pruned by finality at the end of every successful forkchoice update.
type blockCache struct {
	mu       sync.Mutex
	remote   map[common.Hash]*types.Block
	executed map[common.Hash]*types.Block
}

func newBlockCache() *blockCache {
	return &blockCache{
		remote:   make(map[common.Hash]*types.Block),
		executed: make(map[common.Hash]*types.Block),
	}
}

func (c *blockCache) putRemote(b *types.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote[b.Hash()] = b
}

func (c *blockCache) putExecuted(b *types.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed[b.Hash()] = b
}

func (c *blockCache) getRemote(hash common.Hash) *types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote[hash]
}

func (c *blockCache) getExecuted(hash common.Hash) *types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed[hash]
}

func (c *blockCache) hasExecuted(hash common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.executed[hash]
	return ok
}

// prune drops any cache entry whose block number is at or below the
// relevant watermark. finalized may be nil, in which case pruning is
// skipped entirely — best-effort, never aborts the caller.
func (c *blockCache) prune(finalized *types.Header, vmHeadNumber uint64) {
	if finalized == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	finalizedNum := finalized.Number.Uint64()
	for hash, b := range c.remote {
		if b.NumberU64() <= finalizedNum {
			delete(c.remote, hash)
		}
	}
	executedWatermark := finalizedNum
	if vmHeadNumber < executedWatermark {
		executedWatermark = vmHeadNumber
	}
	for hash, b := range c.executed {
		if b.NumberU64() <= executedWatermark {
			delete(c.executed, hash)
		}
	}
}

// invalidTracker records blocks that failed execution or assembly so that
// descendants built on top of them are rejected without re-running the
// same doomed work every time.
//
// badRoots mirrors the keys of tipsets in a mapset.Set so the cap-eviction
// sweep below doesn't need a second map-iteration idiom for membership
// tests during concurrent reads from check.
type invalidTracker struct {
	mu       sync.Mutex
	hits     map[common.Hash]int
	tipsets  map[common.Hash]*types.Header
	badRoots mapset.Set[common.Hash]
}

func newInvalidTracker() *invalidTracker {
	return &invalidTracker{
		hits:     make(map[common.Hash]int),
		tipsets:  make(map[common.Hash]*types.Header),
		badRoots: mapset.NewSet[common.Hash](),
	}
}

// setInvalidAncestor records invalid as the bad ancestor of origin. newPayload
// calls it when a block fails execution.
func (t *invalidTracker) setInvalidAncestor(invalid, origin *types.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tipsets[origin.Hash] = invalid
	t.badRoots.Add(origin.Hash)
	t.hits[invalid.Hash]++
}

// check reports whether `check` links to a known bad ancestor, constructing
// the INVALID payload-status response to return if so. head is the tip of
// the chain under evaluation; it gets remembered as also-invalid so future
// requests short-circuit at the tip instead of the original bad block.
func (t *invalidTracker) check(check, head common.Hash) *engine.PayloadStatusV1 {
	t.mu.Lock()
	defer t.mu.Unlock()

	invalid, ok := t.tipsets[check]
	if !ok {
		return nil
	}
	badHash := invalid.Hash
	t.hits[badHash]++
	if t.hits[badHash] >= invalidBlockHitEviction {
		delete(t.hits, badHash)
		for descendant, badHeader := range t.tipsets {
			if badHeader.Hash == badHash {
				delete(t.tipsets, descendant)
				t.badRoots.Remove(descendant)
			}
		}
		return nil
	}
	if check != head {
		for t.badRoots.Cardinality() >= invalidTipsetsCap {
			victims := t.badRoots.ToSlice()
			if len(victims) == 0 {
				break
			}
			t.badRoots.Remove(victims[0])
			delete(t.tipsets, victims[0])
		}
		t.tipsets[head] = invalid
		t.badRoots.Add(head)
	}
	lastValid := invalid.ParentHash
	msg := "links to previously rejected block"
	return &engine.PayloadStatusV1{
		Status:          engine.INVALID,
		LatestValidHash: &lastValid,
		ValidationError: &msg,
	}
}
