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
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
)

func testHeader(number uint64, hash common.Hash) *types.Header {
	return &types.Header{Number: big.NewInt(int64(number)), Hash: hash}
}

func testBlock(number uint64, hash common.Hash) *types.Block {
	h := testHeader(number, hash)
	return types.NewBlock(h, nil, nil, hash)
}

// prune drops remote entries at or below the finalized number, and executed
// entries at or below whichever is lower: the finalized number or the VM
// head number.
func TestBlockCachePruneMonotonicity(t *testing.T) {
	c := newBlockCache()
	for n := uint64(1); n <= 5; n++ {
		b := testBlock(n, common.Hash{byte(n)})
		c.putRemote(b)
		c.putExecuted(b)
	}

	c.prune(testHeader(3, common.Hash{0x03}), 4)

	for n := uint64(1); n <= 3; n++ {
		require.Nil(t, c.getRemote(common.Hash{byte(n)}), "remote entry %d should be pruned", n)
		require.Nil(t, c.getExecuted(common.Hash{byte(n)}), "executed entry %d should be pruned", n)
	}
	for n := uint64(4); n <= 5; n++ {
		require.NotNil(t, c.getRemote(common.Hash{byte(n)}))
		require.NotNil(t, c.getExecuted(common.Hash{byte(n)}))
	}
}

// When the VM head trails the finalized watermark, the executed cache is
// pruned only up to the VM head, never past it.
func TestBlockCachePruneExecutedWatermarkUsesLowerBound(t *testing.T) {
	c := newBlockCache()
	for n := uint64(1); n <= 5; n++ {
		b := testBlock(n, common.Hash{byte(n)})
		c.putExecuted(b)
	}

	c.prune(testHeader(5, common.Hash{0x05}), 2)

	require.NotNil(t, c.getExecuted(common.Hash{0x03}))
	require.Nil(t, c.getExecuted(common.Hash{0x02}))
}

// A nil finalized header is a no-op, not a panic.
func TestBlockCachePruneNilFinalizedIsNoop(t *testing.T) {
	c := newBlockCache()
	b := testBlock(1, common.Hash{0x01})
	c.putRemote(b)
	c.prune(nil, 0)
	require.NotNil(t, c.getRemote(common.Hash{0x01}))
}

// A chain linking to a known-bad ancestor is reported INVALID once, and the
// tip itself is remembered so a second request short-circuits immediately.
func TestInvalidTrackerChecksAndRemembersTip(t *testing.T) {
	tr := newInvalidTracker()
	bad := testHeader(1, common.Hash{0xba})
	bad.ParentHash = common.Hash{0xaa}
	origin := testHeader(2, common.Hash{0x02})
	tip := common.Hash{0x09}
	tr.setInvalidAncestor(bad, origin)

	res := tr.check(origin.Hash, tip)
	require.NotNil(t, res)
	require.Equal(t, bad.ParentHash, *res.LatestValidHash)

	// The tip itself is now tracked as bad too.
	res2 := tr.check(tip, tip)
	require.NotNil(t, res2)
}

// A hash with no recorded bad ancestor passes through untouched.
func TestInvalidTrackerIgnoresUnknownHash(t *testing.T) {
	tr := newInvalidTracker()
	require.Nil(t, tr.check(common.Hash{0x01}, common.Hash{0x01}))
}

// After invalidBlockHitEviction checks against the same bad ancestor, the
// tracker forgets it, allowing descendants to be reprocessed.
func TestInvalidTrackerEvictsAfterHitThreshold(t *testing.T) {
	tr := newInvalidTracker()
	bad := testHeader(1, common.Hash{0xba})
	origin := testHeader(2, common.Hash{0x02})
	tr.setInvalidAncestor(bad, origin)

	var sawNil bool
	for i := 0; i < invalidBlockHitEviction; i++ {
		if tr.check(origin.Hash, origin.Hash) == nil {
			sawNil = true
		}
	}
	require.True(t, sawNil, "tracker should forget the bad ancestor once the hit threshold is reached")
	require.Nil(t, tr.check(origin.Hash, origin.Hash))
}
