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

// Package merge holds the handful of PoS-transition constants and the
// terminal-block predicate used to detect the PoW/PoS boundary block.
package merge

import (
	"math/big"

	"github.com/zondchain/gzond/params"
)

// ProofOfStakeDifficulty is the value left in a post-merge header's
// Difficulty field; it signals "no more PoW" to anything still inspecting
// block difficulty.
var ProofOfStakeDifficulty = big.NewInt(0)

// ProofOfStakeNonce is the fixed nonce value of every post-merge header.
var ProofOfStakeNonce = [8]byte{}

// IsTerminal reports whether a block with total difficulty blockTD, whose
// parent has total difficulty parentTD, is the terminal PoW block: its own
// total difficulty meets or exceeds TTD while its parent's does not. A
// genesis block (parentTD == nil) with td >= TTD is also terminal.
func IsTerminal(cfg *params.ChainConfig, blockTD, parentTD *big.Int) bool {
	if cfg.TerminalTotalDifficulty == nil || blockTD == nil {
		return false
	}
	if blockTD.Cmp(cfg.TerminalTotalDifficulty) < 0 {
		return false
	}
	if parentTD == nil {
		return true
	}
	return parentTD.Cmp(cfg.TerminalTotalDifficulty) < 0
}

// TTDReached reports whether td meets or exceeds the configured terminal
// total difficulty.
func TTDReached(cfg *params.ChainConfig, td *big.Int) bool {
	if cfg.TerminalTotalDifficulty == nil || td == nil {
		return false
	}
	return td.Cmp(cfg.TerminalTotalDifficulty) >= 0
}
