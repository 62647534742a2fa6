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

	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/params"
	"github.com/zondchain/gzond/zond/catalyst/memchain"
)

// harness bundles a ConsensusAPI wired against the memchain fakes, plus
// direct handles to those fakes for test assertions and setup.
type harness struct {
	api     *ConsensusAPI
	chain   *memchain.Chain
	vm      *memchain.VM
	beacon  *memchain.Beacon
	pool    *memchain.TxPool
	builder *memchain.Builder
	telem   *memchain.Telemetry
	decoder *memchain.Decoder
	genesis *types.Block
}

// testChainConfig activates every fork at genesis except it leaves a gap so
// version-dispatch tests can exercise pre/post-fork behavior: Shanghai at
// timestamp 100, Cancun at timestamp 200.
func testChainConfig() *params.ChainConfig {
	shanghai := uint64(100)
	cancun := uint64(200)
	return &params.ChainConfig{
		ChainID:                 big.NewInt(1),
		TerminalTotalDifficulty: big.NewInt(0),
		ShanghaiTime:            &shanghai,
		CancunTime:              &cancun,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	decoder := memchain.NewDecoder()
	batch := memchain.NewBatch(decoder)
	genesis := batch.GenesisBlock(common.Hash{1})

	chain := memchain.NewChain(genesis, big.NewInt(0))
	vm := memchain.NewVM(genesis)
	beacon := memchain.NewBeacon()
	pool := memchain.NewTxPool()
	builder := memchain.NewBuilder()
	telem := memchain.NewTelemetry()

	api := NewConsensusAPI(Config{
		Chain:       chain,
		Decoder:     decoder,
		VM:          vm,
		Beacon:      beacon,
		TxPool:      pool,
		Builder:     builder,
		ChainConfig: testChainConfig(),
		Telemetry:   telem,
	})

	return &harness{
		api:     api,
		chain:   chain,
		vm:      vm,
		beacon:  beacon,
		pool:    pool,
		builder: builder,
		telem:   telem,
		decoder: decoder,
		genesis: genesis,
	}
}
