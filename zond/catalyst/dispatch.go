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
	"fmt"

	"github.com/zondchain/gzond/beacon/engine"
	"github.com/zondchain/gzond/common"
)

// This file dispatches each method version against the active hardfork,
// exported as the Go methods a JSON-RPC server maps onto engine_newPayloadV1
// et al by name. Structural shape checks live in validators.go; these
// wrappers only decide whether a given version is *allowed* to run at all
// before handing off to the shared core routine.

// NewPayloadV1 is the pre-Shanghai execution payload delivery method.
func (api *ConsensusAPI) NewPayloadV1(payload engine.ExecutionPayload) (engine.PayloadStatusV1, error) {
	if err := validateNewPayloadV1(&payload); err != nil {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(err)
	}
	if api.config.IsShanghai(uint64(payload.Timestamp)) {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(
			errors.New("newPayloadV1 called post-Shanghai"))
	}
	status, err := api.newPayload(&payload, nil, nil)
	api.observe("newPayloadV1", string(status.Status))
	return status, err
}

// NewPayloadV2 additionally carries withdrawals, required once Shanghai is
// active and forbidden before.
func (api *ConsensusAPI) NewPayloadV2(payload engine.ExecutionPayload) (engine.PayloadStatusV1, error) {
	if err := validateNewPayloadV2(&payload); err != nil {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(err)
	}
	t := uint64(payload.Timestamp)
	if api.config.IsCancun(t) {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(
			errors.New("newPayloadV2 called post-Cancun"))
	}
	isShanghai := api.config.IsShanghai(t)
	hasWithdrawals := payload.Withdrawals != nil
	if hasWithdrawals && !isShanghai {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(
			errors.New("withdrawals before Shanghai"))
	}
	if !hasWithdrawals && isShanghai {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(
			errors.New("missing withdrawals post-Shanghai"))
	}
	status, err := api.newPayload(&payload, nil, nil)
	foldInvalidBlockHash(&status)
	api.observe("newPayloadV2", string(status.Status))
	return status, err
}

// NewPayloadV3 additionally carries the blob gas accounting fields plus the
// versioned-hashes array and parent beacon block root that travel alongside
// (not inside) the payload.
func (api *ConsensusAPI) NewPayloadV3(payload engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconBlockRoot common.Hash) (engine.PayloadStatusV1, error) {
	if err := validateNewPayloadV3(&payload, versionedHashes, &parentBeaconBlockRoot); err != nil {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.InvalidParams.With(err)
	}
	if !api.config.IsCancun(uint64(payload.Timestamp)) {
		return engine.PayloadStatusV1{Status: engine.INVALID}, engine.UnsupportedFork.With(
			errors.New("newPayloadV3 called before Cancun"))
	}
	status, err := api.newPayload(&payload, versionedHashes, &parentBeaconBlockRoot)
	foldInvalidBlockHash(&status)
	api.observe("newPayloadV3", string(status.Status))
	return status, err
}

// foldInvalidBlockHash normalises INVALID_BLOCK_HASH to plain INVALID for
// V2/V3 replies — only newPayloadV1 exposes the distinct status.
func foldInvalidBlockHash(status *engine.PayloadStatusV1) {
	if status.Status == engine.INVALID_BLOCK_HASH {
		status.Status = engine.INVALID
	}
}

// ForkchoiceUpdatedV1 is the pre-Shanghai forkchoice update method; its
// optional payload attributes never carry withdrawals or a beacon root.
func (api *ConsensusAPI) ForkchoiceUpdatedV1(update engine.ForkchoiceStateV1, attrs *engine.PayloadAttributes) (engine.ForkChoiceResponse, error) {
	if attrs != nil {
		if err := validatePayloadAttributesV1(attrs); err != nil {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidPayloadAttributes.With(err)
		}
		if api.config.IsShanghai(uint64(attrs.Timestamp)) {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidParams.With(errors.New("forkchoiceUpdatedV1 called post-Shanghai"))
		}
	}
	resp, err := api.forkchoiceUpdated(update, attrs)
	api.observe("forkchoiceUpdatedV1", string(resp.PayloadStatus.Status))
	return resp, err
}

// ForkchoiceUpdatedV2 requires withdrawals in the payload attributes once
// Shanghai is active and forbids them before.
func (api *ConsensusAPI) ForkchoiceUpdatedV2(update engine.ForkchoiceStateV1, attrs *engine.PayloadAttributes) (engine.ForkChoiceResponse, error) {
	if attrs != nil {
		if err := validatePayloadAttributesV2(attrs); err != nil {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidPayloadAttributes.With(err)
		}
		isShanghai := api.config.IsShanghai(uint64(attrs.Timestamp))
		hasWithdrawals := attrs.Withdrawals != nil
		if hasWithdrawals && !isShanghai {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidParams.With(errors.New("withdrawals before Shanghai"))
		}
		if !hasWithdrawals && isShanghai {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidParams.With(errors.New("missing withdrawals post-Shanghai"))
		}
	}
	resp, err := api.forkchoiceUpdated(update, attrs)
	api.observe("forkchoiceUpdatedV2", string(resp.PayloadStatus.Status))
	return resp, err
}

// ForkchoiceUpdatedV3 requires a parent beacon block root once Cancun is
// active and is unusable before.
func (api *ConsensusAPI) ForkchoiceUpdatedV3(update engine.ForkchoiceStateV1, attrs *engine.PayloadAttributes) (engine.ForkChoiceResponse, error) {
	if attrs != nil {
		if err := validatePayloadAttributesV3(attrs); err != nil {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidPayloadAttributes.With(err)
		}
		if !api.config.IsCancun(uint64(attrs.Timestamp)) {
			return engine.ForkChoiceResponse{PayloadStatus: engine.PayloadStatusV1{Status: engine.INVALID}},
				engine.InvalidParams.With(errors.New("forkchoiceUpdatedV3 called before Cancun"))
		}
	}
	resp, err := api.forkchoiceUpdated(update, attrs)
	api.observe("forkchoiceUpdatedV3", string(resp.PayloadStatus.Status))
	return resp, err
}

// GetPayloadV1 returns the bare pre-Shanghai execution payload.
func (api *ConsensusAPI) GetPayloadV1(payloadID engine.PayloadID) (*engine.ExecutionPayload, error) {
	env, err := api.getPayload(payloadID)
	api.observe("getPayloadV1", observeStatus(err))
	if err != nil {
		return nil, err
	}
	return env.ExecutionPayload, nil
}

// GetPayloadV2 returns the envelope (payload plus its value to the fee
// recipient), introduced alongside withdrawals support.
func (api *ConsensusAPI) GetPayloadV2(payloadID engine.PayloadID) (*engine.ExecutionPayloadEnvelope, error) {
	env, err := api.getPayload(payloadID)
	api.observe("getPayloadV2", observeStatus(err))
	return env, err
}

// GetPayloadV3 additionally carries the blobs bundle the CL must gossip
// alongside the block.
func (api *ConsensusAPI) GetPayloadV3(payloadID engine.PayloadID) (*engine.ExecutionPayloadEnvelope, error) {
	env, err := api.getPayload(payloadID)
	api.observe("getPayloadV3", observeStatus(err))
	return env, err
}

// observeStatus renders an error into the "ok"/"error" label telemetry uses
// for methods that don't reply with a PayloadStatusV1 of their own.
func observeStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// engineCaps is the static list exchangeCapabilities replies with, chosen
// over building the list by runtime method reflection.
var engineCaps = []string{
	"engine_newPayloadV1",
	"engine_newPayloadV2",
	"engine_newPayloadV3",
	"engine_forkchoiceUpdatedV1",
	"engine_forkchoiceUpdatedV2",
	"engine_forkchoiceUpdatedV3",
	"engine_getPayloadV1",
	"engine_getPayloadV2",
	"engine_getPayloadV3",
	"engine_exchangeTransitionConfigurationV1",
	"engine_getPayloadBodiesByHashV1",
	"engine_getPayloadBodiesByRangeV1",
}

// ExchangeCapabilities returns the engine_-prefixed methods this node
// supports, excluding exchangeCapabilities itself.
func (api *ConsensusAPI) ExchangeCapabilities([]string) []string {
	api.observe("exchangeCapabilities", "ok")
	return engineCaps
}

// ExchangeTransitionConfigurationV1 echoes the caller's triple iff its TTD
// matches the node's configured TTD; terminalBlockHash/Number are accepted
// but never enforced.
func (api *ConsensusAPI) ExchangeTransitionConfigurationV1(remote engine.TransitionConfigurationV1) (*engine.TransitionConfigurationV1, error) {
	if api.config.TerminalTotalDifficulty == nil {
		err := engine.InternalError.With(errors.New("terminal total difficulty not configured"))
		api.observe("exchangeTransitionConfigurationV1", observeStatus(err))
		return nil, err
	}
	ttd := remote.TerminalTotalDifficulty.ToInt()
	if ttd == nil || api.config.TerminalTotalDifficulty.Cmp(ttd) != 0 {
		err := engine.InvalidParams.With(fmt.Errorf(
			"invalid terminal total difficulty: have %v, want %v", ttd, api.config.TerminalTotalDifficulty))
		api.observe("exchangeTransitionConfigurationV1", observeStatus(err))
		return nil, err
	}
	api.observe("exchangeTransitionConfigurationV1", "ok")
	return &remote, nil
}
