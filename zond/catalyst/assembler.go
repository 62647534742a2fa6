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
	"errors"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
	"github.com/zondchain/gzond/core/types"
)

// assembleBlock turns a wire payload into a decoded Block via the Decoder
// collaborator. On failure it returns the PayloadStatus the caller should
// reply with directly: a decode error tagged DecodeErrorBlockHash maps to
// INVALID_BLOCK_HASH, everything else to INVALID, with latestValidHash set
// to the parent if the chain already has it. Exactly one of the two return
// values is non-nil.
func (api *ConsensusAPI) assembleBlock(payload *engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconRoot *common.Hash) (*types.Block, *engine.PayloadStatusV1) {
	block, err := api.decoder.Decode(payload, versionedHashes, parentBeaconRoot)
	if err == nil {
		return block, nil
	}
	status := engine.Status(engine.INVALID)
	var decErr *DecodeError
	if errors.As(err, &decErr) && decErr.Kind == DecodeErrorBlockHash {
		status = engine.INVALID_BLOCK_HASH
	}
	var latestValid *common.Hash
	if parent := api.chain.GetBlockByHash(payload.ParentHash); parent != nil {
		h := parent.Hash()
		latestValid = &h
	}
	msg := err.Error()
	return nil, &engine.PayloadStatusV1{Status: status, LatestValidHash: latestValid, ValidationError: &msg}
}
