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
)

// Structural validation of JSON-RPC parameter objects per method version.
// Version/timestamp/fork enforcement is a separate concern handled by the
// version dispatch in dispatch.go; these functions only check field
// presence/absence for the shape a given method version promises its
// caller.

var (
	errWithdrawalsNotNil      = errors.New("withdrawals not supported pre-Shanghai")
	errWithdrawalsNil         = errors.New("missing withdrawals list post-Shanghai")
	errBlobFieldsNotNil       = errors.New("blob gas fields not supported pre-Cancun")
	errBlobFieldsNil          = errors.New("missing blob gas fields post-Cancun")
	errVersionedHashesNil     = errors.New("missing versionedHashes post-Cancun")
	errBeaconRootNil          = errors.New("missing parentBeaconBlockRoot post-Cancun")
	errBeaconRootNotNil       = errors.New("parentBeaconBlockRoot not supported before Cancun")
)

// validateNewPayloadV1 rejects a payload carrying any post-Shanghai or
// post-Cancun field; newPayloadV1 only ever speaks the pre-Shanghai shape.
func validateNewPayloadV1(p *engine.ExecutionPayload) error {
	if p.Withdrawals != nil {
		return errWithdrawalsNotNil
	}
	if p.ExcessBlobGas != nil || p.BlobGasUsed != nil {
		return errBlobFieldsNotNil
	}
	return nil
}

// validateNewPayloadV2 accepts the union of the V1 and V2 shapes: whether
// withdrawals are required is decided from the block's timestamp during
// dispatch, not here. Blob fields are always rejected, since V2 never
// carries them.
func validateNewPayloadV2(p *engine.ExecutionPayload) error {
	if p.ExcessBlobGas != nil || p.BlobGasUsed != nil {
		return errBlobFieldsNotNil
	}
	return nil
}

// validateNewPayloadV3 requires the full V3 shape plus the versioned-hash
// array and parent beacon block root that travel alongside the payload
// rather than inside it.
func validateNewPayloadV3(p *engine.ExecutionPayload, versionedHashes []common.Hash, parentBeaconRoot *common.Hash) error {
	if p.Withdrawals == nil {
		return errWithdrawalsNil
	}
	if p.ExcessBlobGas == nil || p.BlobGasUsed == nil {
		return errBlobFieldsNil
	}
	if versionedHashes == nil {
		return errVersionedHashesNil
	}
	if parentBeaconRoot == nil {
		return errBeaconRootNil
	}
	return nil
}

// validatePayloadAttributesV1 rejects a build directive that names either
// withdrawals or a beacon root, both later-hardfork-only fields.
func validatePayloadAttributesV1(a *engine.PayloadAttributes) error {
	if a.Withdrawals != nil {
		return errWithdrawalsNotNil
	}
	if a.ParentBeaconBlockRoot != nil {
		return errBeaconRootNotNil
	}
	return nil
}

// validatePayloadAttributesV2 requires withdrawals and rejects a beacon
// root; whether withdrawals are *allowed yet* for this timestamp is the
// Version Dispatcher's job.
func validatePayloadAttributesV2(a *engine.PayloadAttributes) error {
	if a.Withdrawals == nil {
		return errWithdrawalsNil
	}
	if a.ParentBeaconBlockRoot != nil {
		return errBeaconRootNotNil
	}
	return nil
}

// validatePayloadAttributesV3 requires both withdrawals and a parent
// beacon block root.
func validatePayloadAttributesV3(a *engine.PayloadAttributes) error {
	if a.Withdrawals == nil {
		return errWithdrawalsNil
	}
	if a.ParentBeaconBlockRoot == nil {
		return errBeaconRootNil
	}
	return nil
}
