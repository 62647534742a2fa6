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

// Package catalyst implements the Engine API: the consensus-layer facing
// request handler that validates payloads, drives execution against the VM
// without advancing the canonical head, and resolves forkchoice updates.
//
// Everything this package needs from the rest of a running node —
// transport, decoding, the VM, the block store, the beacon sync skeleton,
// the transaction pool, the pending-block builder and the hardfork table —
// is consumed only through the interfaces below, so the state machine can
// be exercised against the in-memory fakes in zond/catalyst/memchain.
package catalyst

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
)

// DecodeErrorKind distinguishes a malformed blockHash from every other
// decode failure, so the Block Assembler can map the former to
// INVALID_BLOCK_HASH without sniffing the error text.
type DecodeErrorKind int

const (
	DecodeErrorOther DecodeErrorKind = iota
	DecodeErrorBlockHash
)

// DecodeError is returned by Decoder.Decode when a payload cannot be turned
// into a Block.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns a wire-form execution payload into a fully decoded Block,
// re-hashing the header and checking transaction/withdrawal root
// consistency. Block/transaction decoding and header hashing live entirely
// behind this interface — out of this package's scope.
type Decoder interface {
	Decode(payload *engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconRoot *common.Hash) (*types.Block, error)

	// ValidateBlobTransactions checks block's excess-blob-gas accounting
	// against its parent header per EIP-4844; only invoked once Cancun is
	// active for block.
	ValidateBlobTransactions(block *types.Block, parentHeader *types.Header) error

	// Encode is Decode's inverse: it renders an already-assembled block
	// (typically fresh out of the pending-block builder) back into its
	// wire-form execution payload for a getPayload reply.
	Encode(block *types.Block) (*engine.ExecutionPayload, error)
}

// Chain is the canonical block store. GetBlockByHash/GetBlockByNumber
// never error; a missing block is a nil return.
type Chain interface {
	GetBlockByHash(hash common.Hash) *types.Block
	GetBlockByNumber(number uint64) *types.Block

	// CurrentBlock is the canonical head, independent of the VM head.
	CurrentBlock() *types.Header
	NumberToHash(number uint64) (common.Hash, bool)

	// SetCanonical makes block the new canonical head, returning the
	// latest valid ancestor if it fails partway through.
	SetCanonical(block *types.Block) (common.Hash, error)
	SetFinalized(header *types.Header)
	SetSafe(header *types.Header)

	// Delete removes a block that failed execution from the block store,
	// best-effort. The beacon skeleton does not drop the block; newPayload
	// only resets the skeleton's head to the failed block's parent.
	Delete(hash common.Hash)

	TotalDifficulty(hash common.Hash) *big.Int
}

// StateManager is the VM's view of execution: which state roots it has
// materialised (the "VM head" is the header whose root HasStateRoot
// currently answers true for), and how to run a block without touching the
// canonical head.
type StateManager interface {
	HasStateRoot(root common.Hash) bool
	CurrentHeader() *types.Header

	// Execute runs block against the state rooted at parentRoot and
	// reports success/failure; it never mutates the canonical chain.
	Execute(block *types.Block, parentRoot common.Hash) error

	// RunWithoutSetHead re-executes an already-built block, forcing
	// execution even if the VM is otherwise busy when force is true.
	RunWithoutSetHead(block *types.Block, force bool) error
}

// BeaconSkeleton is the asynchronous beacon-sync subsystem: a sparse,
// out-of-order view of a future canonical chain.
type BeaconSkeleton interface {
	// Header resolves a hash the skeleton has heard about but that isn't
	// necessarily canonical yet.
	Header(hash common.Hash) *types.Header
	// Accepted reports whether hash was optimistically accepted into the
	// skeleton ahead of full validation.
	Accepted(hash common.Hash) bool
	SetHead(head *types.Header)
}

// TxPool is mutated only as a follow-up of a successful setHead.
type TxPool interface {
	RemoveTransactions(txs []*types.Transaction)
	Sync() error
}

// BuildArgs seeds a pending build.
type BuildArgs struct {
	Parent                common.Hash
	Timestamp             uint64
	PrevRandao            common.Hash
	SuggestedFeeRecipient common.Address
	Withdrawals           types.Withdrawals
	ParentBeaconBlockRoot *common.Hash
}

// BuiltPayload is what a started build eventually produces: the assembled
// block, its uint256 value to the fee recipient, and (from Cancun) its blobs
// bundle. The builder collaborator computes Value from whatever receipts it
// produced internally; that accounting is out of scope here.
type BuiltPayload struct {
	Block       *types.Block
	Value       *uint256.Int
	BlobsBundle *engine.BlobsBundleV1
}

// PendingBuilder drives the pending-block builder; everything beyond this
// narrow interface is out of scope here.
type PendingBuilder interface {
	StartBuild(args *BuildArgs) (engine.PayloadID, error)
	Payload(id engine.PayloadID) (*BuiltPayload, bool)
}

// Telemetry taps every response with its method name and resulting status.
type Telemetry interface {
	ObserveRequest(method string, status string)
}
