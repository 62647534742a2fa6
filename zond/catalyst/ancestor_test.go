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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/zond/catalyst/memchain"
)

// walkAncestors bridges a short gap between the VM head and the requested
// parent, returning the missing blocks oldest-first.
func TestWalkAncestorsBridgesShortGap(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	b1 := batch.Next(h.genesis, 0, 10)
	b2 := batch.Next(b1, 0, 20)
	b3 := batch.Next(b2, 0, 30)
	h.chain.Store(b1, nil)
	h.chain.Store(b2, nil)
	h.chain.Store(b3, nil)

	ancestors, err := h.api.walkAncestors(h.genesis.Hash(), b3.ParentHash(), maxAncestorDepth)
	require.NoError(t, err)
	require.Equal(t, []common.Hash{b1.Hash(), b2.Hash()}, hashesOf(ancestors))
}

// When startParentHash already equals vmHeadHash, no ancestors are needed.
func TestWalkAncestorsNoGapReturnsEmpty(t *testing.T) {
	h := newHarness(t)
	ancestors, err := h.api.walkAncestors(h.genesis.Hash(), h.genesis.Hash(), maxAncestorDepth)
	require.NoError(t, err)
	require.Empty(t, ancestors)
}

// A gap deeper than maxDepth overflows rather than walking forever.
func TestWalkAncestorsOverflowsPastMaxDepth(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	parent := h.genesis
	for i := 0; i < 5; i++ {
		next := batch.Next(parent, 0, uint64(10*(i+1)))
		h.chain.Store(next, nil)
		parent = next
	}

	_, err := h.api.walkAncestors(h.genesis.Hash(), parent.ParentHash(), 2)
	require.ErrorIs(t, err, errAncestorOverflow)
}

// A gap that runs off the known chain (a hash with no stored/cached block)
// before reaching the VM head is unresolved.
func TestWalkAncestorsUnresolvedGap(t *testing.T) {
	h := newHarness(t)
	batch := memchain.NewBatch(h.decoder)
	orphan := batch.Next(h.genesis, 0, 10) // never Stored
	child := batch.Next(orphan, 0, 20)
	h.chain.Store(child, nil)

	_, err := h.api.walkAncestors(h.genesis.Hash(), child.ParentHash(), maxAncestorDepth)
	require.ErrorIs(t, err, errAncestorUnresolved)
}

func hashesOf(blocks []*types.Block) []common.Hash {
	out := make([]common.Hash, len(blocks))
	for i, b := range blocks {
		out[i] = b.Hash()
	}
	return out
}
