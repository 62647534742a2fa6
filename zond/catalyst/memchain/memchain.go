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

// Package memchain provides in-memory fakes of every collaborator
// zond/catalyst.ConsensusAPI consumes through an interface (Chain,
// StateManager, BeaconSkeleton, TxPool, PendingBuilder, Telemetry), so the
// engine API state machine can be exercised without a real VM, database or
// beacon client.
package memchain

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
	"github.com/zondchain/gzond/zond/catalyst"
)

// Chain is an in-memory catalyst.Chain.
type Chain struct {
	mu       sync.Mutex
	blocks   map[common.Hash]*types.Block
	canon    map[uint64]common.Hash
	current  *types.Header
	finalize *types.Header
	safe     *types.Header
	totalDif map[common.Hash]*big.Int
}

// NewChain seeds a chain with a genesis block already canonical and current.
func NewChain(genesis *types.Block, genesisTD *big.Int) *Chain {
	c := &Chain{
		blocks:   make(map[common.Hash]*types.Block),
		canon:    make(map[uint64]common.Hash),
		totalDif: make(map[common.Hash]*big.Int),
	}
	c.blocks[genesis.Hash()] = genesis
	c.canon[genesis.NumberU64()] = genesis.Hash()
	c.totalDif[genesis.Hash()] = genesisTD
	c.current = genesis.Header()
	return c
}

func (c *Chain) GetBlockByHash(hash common.Hash) *types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks[hash]
}

func (c *Chain) GetBlockByNumber(number uint64) *types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash, ok := c.canon[number]
	if !ok {
		return nil
	}
	return c.blocks[hash]
}

func (c *Chain) CurrentBlock() *types.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Chain) NumberToHash(number uint64) (common.Hash, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash, ok := c.canon[number]
	return hash, ok
}

// Store registers a block and its total difficulty without making it
// canonical; tests use this to stand up parents/ancestors ahead of a call
// that is expected to walk or canonicalise through them.
func (c *Chain) Store(block *types.Block, td *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks[block.Hash()] = block
	c.totalDif[block.Hash()] = td
}

// SetCanonical makes block the new canonical head. block must already be
// Stored (an unknown block is an error); unlike a real Chain, the fake does
// not verify that the chain links all the way back before accepting it.
func (c *Chain) SetCanonical(block *types.Block) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.blocks[block.Hash()]; !ok {
		return common.Hash{}, fmt.Errorf("memchain: unknown block %s", block.Hash())
	}
	c.canon[block.NumberU64()] = block.Hash()
	c.current = block.Header()
	return block.Hash(), nil
}

func (c *Chain) SetFinalized(header *types.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalize = header
}

func (c *Chain) Finalized() *types.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalize
}

func (c *Chain) SetSafe(header *types.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.safe = header
}

func (c *Chain) Safe() *types.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.safe
}

func (c *Chain) Delete(hash common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.blocks, hash)
}

func (c *Chain) TotalDifficulty(hash common.Hash) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalDif[hash]
}

// VM is an in-memory catalyst.StateManager: every block Executed (or seeded
// at construction) is remembered as having a materialised state root.
type VM struct {
	mu      sync.Mutex
	roots   map[common.Hash]bool
	current *types.Header
	failing map[common.Hash]error
}

func NewVM(genesis *types.Block) *VM {
	vm := &VM{
		roots:   make(map[common.Hash]bool),
		failing: make(map[common.Hash]error),
	}
	vm.roots[genesis.Root()] = true
	vm.current = genesis.Header()
	return vm
}

func (vm *VM) HasStateRoot(root common.Hash) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.roots[root]
}

func (vm *VM) CurrentHeader() *types.Header {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.current
}

// FailNext makes a subsequent Execute/RunWithoutSetHead of hash return err
// instead of succeeding, once.
func (vm *VM) FailNext(hash common.Hash, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.failing[hash] = err
}

func (vm *VM) Execute(block *types.Block, parentRoot common.Hash) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err, ok := vm.failing[block.Hash()]; ok {
		delete(vm.failing, block.Hash())
		return err
	}
	vm.roots[block.Root()] = true
	vm.current = block.Header()
	return nil
}

func (vm *VM) RunWithoutSetHead(block *types.Block, force bool) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err, ok := vm.failing[block.Hash()]; ok {
		delete(vm.failing, block.Hash())
		return err
	}
	vm.roots[block.Root()] = true
	return nil
}

// Beacon is an in-memory catalyst.BeaconSkeleton.
type Beacon struct {
	mu       sync.Mutex
	headers  map[common.Hash]*types.Header
	accepted map[common.Hash]bool
	head     *types.Header
}

func NewBeacon() *Beacon {
	return &Beacon{
		headers:  make(map[common.Hash]*types.Header),
		accepted: make(map[common.Hash]bool),
	}
}

func (b *Beacon) Header(hash common.Hash) *types.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headers[hash]
}

func (b *Beacon) Accepted(hash common.Hash) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accepted[hash]
}

func (b *Beacon) SetHead(head *types.Header) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = head
}

func (b *Beacon) Head() *types.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head
}

// Accept records header's hash as optimistically accepted, the way a real
// skeleton does once async sync hears about a block it hasn't executed yet.
func (b *Beacon) Accept(header *types.Header) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.headers[header.Hash] = header
	b.accepted[header.Hash] = true
}

// TxPool is an in-memory catalyst.TxPool.
type TxPool struct {
	mu       sync.Mutex
	removed  []*types.Transaction
	syncErr  error
	syncHits int
}

func NewTxPool() *TxPool { return &TxPool{} }

func (p *TxPool) RemoveTransactions(txs []*types.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, txs...)
}

func (p *TxPool) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncHits++
	err := p.syncErr
	p.syncErr = nil
	return err
}

// FailSync makes the next Sync call return err.
func (p *TxPool) FailSync(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncErr = err
}

func (p *TxPool) SyncHits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.syncHits
}

func (p *TxPool) Removed() []*types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*types.Transaction, len(p.removed))
	copy(out, p.removed)
	return out
}

// Telemetry is an in-memory catalyst.Telemetry, recording every observed
// (method, status) pair in call order for assertions.
type Telemetry struct {
	mu    sync.Mutex
	calls []Observation
}

// Observation is one recorded ObserveRequest call.
type Observation struct {
	Method string
	Status string
}

func NewTelemetry() *Telemetry { return &Telemetry{} }

func (t *Telemetry) ObserveRequest(method string, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, Observation{Method: method, Status: status})
}

func (t *Telemetry) Calls() []Observation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Observation, len(t.calls))
	copy(out, t.calls)
	return out
}

// Builder is an in-memory catalyst.PendingBuilder. A test arranges for a
// given parent hash to build a specific block with Queue before exercising
// the forkchoiceUpdated/getPayload pair that drives it, mirroring how the
// teacher's simulated beacon pre-seeds a miner with a block template rather
// than running a real one.
type Builder struct {
	mu      sync.Mutex
	parents map[common.Hash]*catalyst.BuiltPayload
	byID    map[engine.PayloadID]*catalyst.BuiltPayload
	failing error
}

func NewBuilder() *Builder {
	return &Builder{
		parents: make(map[common.Hash]*catalyst.BuiltPayload),
		byID:    make(map[engine.PayloadID]*catalyst.BuiltPayload),
	}
}

// Queue arranges for the next StartBuild against parent to hand back built
// when its id is later looked up via Payload.
func (b *Builder) Queue(parent common.Hash, built *catalyst.BuiltPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parents[parent] = built
}

// FailNextBuild makes the next StartBuild call return err instead of an id.
func (b *Builder) FailNextBuild(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = err
}

func (b *Builder) StartBuild(args *catalyst.BuildArgs) (engine.PayloadID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing != nil {
		err := b.failing
		b.failing = nil
		return engine.PayloadID{}, err
	}
	built, ok := b.parents[args.Parent]
	if !ok {
		return engine.PayloadID{}, fmt.Errorf("memchain: no queued build for parent %s", args.Parent)
	}
	id := idFor(args.Parent, args.Timestamp)
	b.byID[id] = built
	return id, nil
}

func (b *Builder) Payload(id engine.PayloadID) (*catalyst.BuiltPayload, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	built, ok := b.byID[id]
	return built, ok
}

// idFor derives a deterministic PayloadID from (parent, timestamp), so a
// repeated StartBuild for the same arguments is idempotent the way real
// payload-id derivation (hash of the build arguments) is.
func idFor(parent common.Hash, timestamp uint64) engine.PayloadID {
	var id engine.PayloadID
	copy(id[:], parent.Bytes())
	for i := 0; i < 8; i++ {
		id[i] ^= byte(timestamp >> (8 * uint(i%8)))
	}
	return id
}
