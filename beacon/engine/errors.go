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

package engine

// EngineError is a JSON-RPC error carrying the Engine API's custom error
// codes. It is distinct from PayloadStatusV1: a status is a protocol-level
// verdict about a payload, an EngineError means the request itself was
// malformed or could not be served.
type EngineError struct {
	code int
	msg  string
}

func (e *EngineError) ErrorCode() int { return e.code }
func (e *EngineError) Error() string  { return e.msg }

// With returns a copy of e carrying err's message instead of the generic
// one, preserving the error code. Call sites use this to attach
// request-specific detail to a well-known error kind, e.g.
// engine.InvalidParams.With(errors.New("withdrawals before Shanghai")).
func (e *EngineError) With(err error) *EngineError {
	return &EngineError{code: e.code, msg: err.Error()}
}

// NewEngineError builds an ad hoc error with one of the fixed codes below,
// used when the message needs call-specific detail (e.g. a block hash).
func NewEngineError(code int, msg string) *EngineError {
	return &EngineError{code: code, msg: msg}
}

const (
	invalidParamsCode    = -32602
	internalErrorCode    = -32603
	unknownPayloadCode   = -32001
	invalidForkchoiceCode = -38002
	invalidPayloadAttrCode = -38003
	tooLargeRequestCode  = -38004
	unsupportedForkCode  = -38005
)

var (
	// InvalidParams is returned when a request's parameters fail structural
	// validation.
	InvalidParams = &EngineError{code: invalidParamsCode, msg: "invalid parameters"}

	// InternalError wraps an unexpected failure in a downstream collaborator
	// (database, VM, decoder) that isn't a verdict about the payload itself.
	InternalError = &EngineError{code: internalErrorCode, msg: "internal error"}

	// UnknownPayload is returned by getPayload when the requested id was
	// never built, already served, or has been evicted.
	UnknownPayload = &EngineError{code: unknownPayloadCode, msg: "unknown payload"}

	// InvalidForkchoiceState is the Engine API's code for a head/safe/
	// finalized triple that violates the chain's ancestry invariants.
	// forkchoiceUpdated does not return it; it replies INVALID_PARAMS.
	InvalidForkchoiceState = &EngineError{code: invalidForkchoiceCode, msg: "invalid forkchoice state"}

	// InvalidPayloadAttributes is returned when payload attributes are
	// present but fail the version's presence rules.
	InvalidPayloadAttributes = &EngineError{code: invalidPayloadAttrCode, msg: "invalid payload attributes"}

	// TooLargeRequest is returned when a bodies-by-range request exceeds the
	// configured count limit.
	TooLargeRequest = &EngineError{code: tooLargeRequestCode, msg: "request too large"}

	// UnsupportedFork is returned when newPayloadV3 is invoked for a
	// timestamp before Cancun; the version dispatcher reports every other
	// version/timestamp violation as InvalidParams.
	UnsupportedFork = &EngineError{code: unsupportedForkCode, msg: "unsupported fork"}

	// ErrInvalidPayloadID is the error PayloadID.UnmarshalJSON returns for a
	// malformed id; it is an EngineError carrying the invalid-params code.
	ErrInvalidPayloadID = NewEngineError(invalidParamsCode, "invalid payload id")
)
