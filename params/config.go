// Copyright 2017 The go-ethereum Authors
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

package params

import (
	"fmt"
	"math/big"

	"github.com/zondchain/gzond/common"
)

// ChainConfig is the hardfork activation table the version dispatcher
// consults. It is deliberately a thin slice of a real chain config: only
// the fields the engine API core reads.
type ChainConfig struct {
	ChainID *big.Int

	// TerminalTotalDifficulty is the PoW difficulty threshold at which the
	// Merge activates. A nil value means the chain has not been configured
	// for the transition at all.
	TerminalTotalDifficulty *big.Int

	// ShanghaiTime and CancunTime are the block-timestamp activation points
	// of the two post-merge hardforks this engine cares about. A nil
	// pointer means "never activates".
	ShanghaiTime *uint64
	CancunTime   *uint64
}

func (c *ChainConfig) IsShanghai(time uint64) bool {
	return isTimestampForked(c.ShanghaiTime, time)
}

func (c *ChainConfig) IsCancun(time uint64) bool {
	return isTimestampForked(c.CancunTime, time)
}

func isTimestampForked(s *uint64, time uint64) bool {
	if s == nil {
		return false
	}
	return *s <= time
}

// ConfigCompatError describes a genesis/chain-config mismatch. Nothing in
// the engine API core returns it.
type ConfigCompatError struct {
	What                         string
	StoredBlock, NewBlock        *big.Int
	StoredTime, NewTime          *uint64
	RewindToBlock, RewindToTime  uint64
}

func (err *ConfigCompatError) Error() string {
	if err.StoredBlock != nil {
		return fmt.Sprintf("mismatching %s in database (have %d, want %d, rewindto %d)", err.What, err.StoredBlock, err.NewBlock, err.RewindToBlock)
	}
	return fmt.Sprintf("mismatching %s in database (have %d, want %d, rewindto %d)", err.What, err.StoredTime, err.NewTime, err.RewindToTime)
}

// AllBeaconProtocolChanges is a ChainConfig with every fork this package
// knows about active from genesis.
var AllBeaconProtocolChanges = &ChainConfig{
	ChainID:                 common.Big1,
	TerminalTotalDifficulty: common.Big0,
	ShanghaiTime:            u64(0),
	CancunTime:              u64(0),
}

func u64(v uint64) *uint64 { return &v }
