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

// Package engine holds the Engine API wire types: the version matrix of
// execution payloads and payload attributes, forkchoice state, and the
// various response envelopes, including the V3/blob fields added by
// EIP-4844.
package engine

import (
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/common/hexutil"
	"github.com/zondchain/gzond/core/types"
)

// PayloadID is the opaque 8 byte identifier returned for a started build.
type PayloadID [8]byte

func (p PayloadID) String() string { return hexutil.Encode(p[:]) }

func (p PayloadID) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(p[:])), nil
}

func (p *PayloadID) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return ErrInvalidPayloadID
	}
	b, err := hexutil.Decode(string(input[1 : len(input)-1]))
	if err != nil || len(b) != 8 {
		return ErrInvalidPayloadID
	}
	copy(p[:], b)
	return nil
}

// ExecutionPayload is the union of the V1/V2/V3 wire shapes: higher-version
// fields are optional at the type boundary, and the validators in
// zond/catalyst/validators.go enforce presence rules per method version
// rather than the Go type system.
type ExecutionPayload struct {
	ParentHash    common.Hash     `json:"parentHash"`
	FeeRecipient  common.Address  `json:"feeRecipient"`
	StateRoot     common.Hash     `json:"stateRoot"`
	ReceiptsRoot  common.Hash     `json:"receiptsRoot"`
	LogsBloom     []byte          `json:"logsBloom"`
	PrevRandao    common.Hash     `json:"prevRandao"`
	BlockNumber   hexutil.Uint64  `json:"blockNumber"`
	GasLimit      hexutil.Uint64  `json:"gasLimit"`
	GasUsed       hexutil.Uint64  `json:"gasUsed"`
	Timestamp     hexutil.Uint64  `json:"timestamp"`
	ExtraData     hexutil.Bytes   `json:"extraData"`
	BaseFeePerGas *hexutil.Big    `json:"baseFeePerGas"`
	BlockHash     common.Hash     `json:"blockHash"`
	Transactions  []hexutil.Bytes `json:"transactions"`

	// V2 (Shanghai)
	Withdrawals []*types.Withdrawal `json:"withdrawals"`

	// V3 (Cancun)
	ExcessBlobGas *hexutil.Uint64 `json:"excessBlobGas"`
	BlobGasUsed   *hexutil.Uint64 `json:"blobGasUsed"`
}

// PayloadAttributes carries the optional build directive of a forkchoice
// update.
type PayloadAttributes struct {
	Timestamp             hexutil.Uint64      `json:"timestamp"`
	PrevRandao            common.Hash         `json:"prevRandao"`
	SuggestedFeeRecipient common.Address      `json:"suggestedFeeRecipient"`

	// V2 (Shanghai), required once present
	Withdrawals []*types.Withdrawal `json:"withdrawals"`

	// V3 (Cancun), required once present
	ParentBeaconBlockRoot *common.Hash `json:"parentBeaconBlockRoot"`
}

// ForkchoiceStateV1 is the triple (head, safe, finalized).
type ForkchoiceStateV1 struct {
	HeadBlockHash      common.Hash `json:"headBlockHash"`
	SafeBlockHash      common.Hash `json:"safeBlockHash"`
	FinalizedBlockHash common.Hash `json:"finalizedBlockHash"`
}

// Status values for PayloadStatusV1.
type Status string

const (
	VALID               Status = "VALID"
	INVALID             Status = "INVALID"
	SYNCING             Status = "SYNCING"
	ACCEPTED            Status = "ACCEPTED"
	INVALID_BLOCK_HASH  Status = "INVALID_BLOCK_HASH"
)

// PayloadStatusV1 is the protocol-status return value — never a JSON-RPC
// error.
type PayloadStatusV1 struct {
	Status          Status       `json:"status"`
	LatestValidHash *common.Hash `json:"latestValidHash"`
	ValidationError *string      `json:"validationError"`
}

// ForkChoiceResponse is forkchoiceUpdated's result. HeadBlock is an internal
// channel back to the caller for telemetry/logging purposes and is tagged
// `json:"-"` so it never reaches the JSON-RPC reply.
type ForkChoiceResponse struct {
	PayloadStatus PayloadStatusV1 `json:"payloadStatus"`
	PayloadID     *PayloadID      `json:"payloadId"`
	HeadBlock     *types.Block    `json:"-"`
}

// ExecutionPayloadBodyV1 is one entry of a getPayloadBodies response.
type ExecutionPayloadBodyV1 struct {
	TransactionData []hexutil.Bytes    `json:"transactions"`
	Withdrawals     []*types.Withdrawal `json:"withdrawals"`
}

// BlobsBundleV1 accompanies a V3 getPayload response with the blob data the
// CL needs to gossip alongside the block.
type BlobsBundleV1 struct {
	Commitments []hexutil.Bytes `json:"commitments"`
	Proofs      []hexutil.Bytes `json:"proofs"`
	Blobs       []hexutil.Bytes `json:"blobs"`
}

// ExecutionPayloadEnvelope is getPayload's result: the assembled payload,
// its value to the fee recipient, and (from V3) its blobs bundle.
type ExecutionPayloadEnvelope struct {
	ExecutionPayload *ExecutionPayload `json:"executionPayload"`
	BlockValue       *hexutil.Big      `json:"blockValue"`
	BlobsBundle      *BlobsBundleV1    `json:"blobsBundle,omitempty"`
	Override         bool              `json:"shouldOverrideBuilder"`
}

// TransitionConfigurationV1 is the exchangeTransitionConfiguration payload.
type TransitionConfigurationV1 struct {
	TerminalTotalDifficulty *hexutil.Big `json:"terminalTotalDifficulty"`
	TerminalBlockHash       common.Hash  `json:"terminalBlockHash"`
	TerminalBlockNumber     *hexutil.Big `json:"terminalBlockNumber"`
}
