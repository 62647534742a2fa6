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

	"github.com/zondchain/gzond/internal/clog"
	"github.com/zondchain/gzond/params"
)

const (
	// engineNewpayloadMaxExecute bounds how many ancestor blocks a single
	// newPayload call will run through the VM before bailing out with
	// SYNCING/ACCEPTED.
	engineNewpayloadMaxExecute = 32

	// maxAncestorDepth bounds how far the ancestor walker will search for a
	// bridge between a requested head and the VM's last-executed block.
	maxAncestorDepth = 256

	// maxBodiesRequest is the per-call cap on getPayloadBodies.
	maxBodiesRequest = 32
)

// ConsensusAPI is the Engine API request handler. Every external
// dependency — decoding, the VM, the block store, beacon
// sync, the mempool, the pending-block builder, the hardfork table and
// telemetry — is reached only through the interfaces in interfaces.go.
type ConsensusAPI struct {
	chain   Chain
	decoder Decoder
	vm      StateManager
	beacon  BeaconSkeleton
	txpool  TxPool
	builder PendingBuilder
	config  *params.ChainConfig
	telem   Telemetry

	cache   *blockCache
	tracker *invalidTracker

	// lastPayloadHF and lastForkchoiceHF are the most recently observed
	// hardfork per method family, logged on transition.
	lastPayloadHF    string
	lastForkchoiceHF string
	hfLock           sync.Mutex

	// synced tracks whether a forkchoice update has ever successfully
	// canonicalised a head; the mempool's run state is poked exactly once
	// on the unsynced->synced transition.
	synced   bool
	syncLock sync.Mutex

	forkchoiceLock sync.Mutex
	newPayloadLock sync.Mutex
}

// Config bundles the collaborators a ConsensusAPI is wired against.
type Config struct {
	Chain      Chain
	Decoder    Decoder
	VM         StateManager
	Beacon     BeaconSkeleton
	TxPool     TxPool
	Builder    PendingBuilder
	ChainConfig *params.ChainConfig
	Telemetry  Telemetry
}

// NewConsensusAPI wires a ConsensusAPI against its collaborators. The
// underlying chain needs a valid terminal total difficulty configured.
func NewConsensusAPI(cfg Config) *ConsensusAPI {
	telem := cfg.Telemetry
	if telem == nil {
		telem = newPromTelemetry(nil)
	}
	return &ConsensusAPI{
		chain:   cfg.Chain,
		decoder: cfg.Decoder,
		vm:      cfg.VM,
		beacon:  cfg.Beacon,
		txpool:  cfg.TxPool,
		builder: cfg.Builder,
		config:  cfg.ChainConfig,
		telem:   telem,
		cache:   newBlockCache(),
		tracker: newInvalidTracker(),
	}
}

// hardforkAt reports the named hardfork active at timestamp, for logging
// transitions only — consensus decisions consult api.config directly at
// the point of use.
func hardforkAt(cfg *params.ChainConfig, timestamp uint64) string {
	switch {
	case cfg.IsCancun(timestamp):
		return "cancun"
	case cfg.IsShanghai(timestamp):
		return "shanghai"
	default:
		return "paris"
	}
}

func (api *ConsensusAPI) notePayloadHardfork(timestamp uint64) {
	hf := hardforkAt(api.config, timestamp)
	api.hfLock.Lock()
	prev := api.lastPayloadHF
	api.lastPayloadHF = hf
	api.hfLock.Unlock()
	if prev != "" && prev != hf {
		clog.Info("Payload hardfork changed", "from", prev, "to", hf)
	}
}

func (api *ConsensusAPI) noteForkchoiceHardfork(timestamp uint64) {
	hf := hardforkAt(api.config, timestamp)
	api.hfLock.Lock()
	prev := api.lastForkchoiceHF
	api.lastForkchoiceHF = hf
	api.hfLock.Unlock()
	if prev != "" && prev != hf {
		clog.Info("Forkchoice hardfork changed", "from", prev, "to", hf)
	}
}

func (api *ConsensusAPI) observe(method string, status string) {
	if api.telem != nil {
		api.telem.ObserveRequest(method, status)
	}
}

// markSynced records that the chain has canonicalised at least one
// forkchoice-directed head. On the unsynced->synced transition it pokes the
// mempool's run state: the pool only needs waking once, right when the
// node stops trailing the chain tip.
func (api *ConsensusAPI) markSynced() {
	api.syncLock.Lock()
	wasSynced := api.synced
	api.synced = true
	api.syncLock.Unlock()

	if !wasSynced && api.txpool != nil {
		if err := api.txpool.Sync(); err != nil {
			clog.Warn("Failed to sync transaction pool after forkchoice update", "err", err)
		}
	}
}
