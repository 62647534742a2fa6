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

// Package hexutil implements the 0x-prefixed hex encoding used pervasively by
// the Engine API's JSON-RPC wire format.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

var (
	ErrEmptyString = errors.New("empty hex string")
	ErrMissingPrefix = errors.New("hex string without 0x prefix")
	ErrOddLength   = errors.New("hex string of odd length")
	ErrSyntax      = errors.New("invalid hex string")
)

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], b)
	return result, nil
}

func (b *Bytes) UnmarshalJSON(input []byte) error {
	s, err := unquote(input)
	if err != nil {
		return err
	}
	raw, err := Decode(s)
	if err != nil {
		return err
	}
	*b = raw
	return nil
}

func (b Bytes) String() string { return Encode(b) }

// Uint64 marshals/unmarshals as a JSON string with 0x prefix, minimal digits.
type Uint64 uint64

func (u Uint64) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", uint64(u))), nil
}

func (u *Uint64) UnmarshalJSON(input []byte) error {
	s, err := unquote(input)
	if err != nil {
		return err
	}
	v, err := DecodeUint64(s)
	if err != nil {
		return err
	}
	*u = Uint64(v)
	return nil
}

// Big marshals/unmarshals as a JSON string with 0x prefix.
type Big big.Int

func (b *Big) MarshalText() ([]byte, error) {
	if b == nil {
		return []byte("0x0"), nil
	}
	return []byte("0x" + (*big.Int)(b).Text(16)), nil
}

func (b *Big) UnmarshalJSON(input []byte) error {
	s, err := unquote(input)
	if err != nil {
		return err
	}
	v, err := DecodeBig(s)
	if err != nil {
		return err
	}
	*b = Big(*v)
	return nil
}

func (b *Big) ToInt() *big.Int {
	if b == nil {
		return nil
	}
	return (*big.Int)(b)
}

// Encode encodes b as a 0x prefixed hex string.
func Encode(b []byte) string { return "0x" + hex.EncodeToString(b) }

// Decode decodes a 0x prefixed hex string into bytes.
func Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrEmptyString
	}
	if !has0xPrefix(input) {
		return nil, ErrMissingPrefix
	}
	b, err := hex.DecodeString(input[2:])
	if err != nil {
		err = mapError(err)
	}
	return b, err
}

func DecodeUint64(input string) (uint64, error) {
	raw, err := checkNumber(input)
	if err != nil {
		return 0, err
	}
	dec, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, mapError(err)
	}
	return dec, nil
}

func DecodeBig(input string) (*big.Int, error) {
	raw, err := checkNumber(input)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, ErrSyntax
	}
	return v, nil
}

// EncodeUint64 encodes i as a hex string with 0x prefix.
func EncodeUint64(i uint64) string { return "0x" + strconv.FormatUint(i, 16) }

// EncodeBig encodes bigint as a hex string with 0x prefix.
func EncodeBig(bigint *big.Int) string {
	if bigint == nil {
		return "0x0"
	}
	return "0x" + bigint.Text(16)
}

func checkNumber(input string) (raw string, err error) {
	if len(input) == 0 {
		return "", ErrEmptyString
	}
	if !has0xPrefix(input) {
		return "", ErrMissingPrefix
	}
	input = input[2:]
	if len(input) == 0 {
		return "", nil
	}
	return input, nil
}

func has0xPrefix(input string) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}

func mapError(err error) error {
	if _, ok := err.(hex.InvalidByteError); ok {
		return ErrSyntax
	}
	if err == hex.ErrLength {
		return ErrOddLength
	}
	return err
}

func unquote(input []byte) (string, error) {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return "", fmt.Errorf("invalid hex JSON string %q", input)
	}
	return string(input[1 : len(input)-1]), nil
}
