// Copyright 2014 The go-ethereum Authors
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

// Package common contains the fixed-size identifiers shared across the
// engine API core: block hashes, addresses and the handful of big-integer
// constants the hardfork/forkchoice logic compares against.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data, most often a
// block hash. The zero Hash is the sentinel "absent" value used throughout
// the forkchoice and payload-validation state machine.
type Hash [HashLength]byte

// BytesToHash sets b to Hash, left-padded with zeros (big-endian); if it's
// larger than HashLength it will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool { return h == (Hash{}) }

func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

func (h *Hash) UnmarshalJSON(input []byte) error {
	s, err := unquoteHex(input)
	if err != nil {
		return err
	}
	*h = HexToHash(s)
	return nil
}

func (h Hash) MarshalJSON() ([]byte, error) { return []byte(`"` + h.Hex() + `"`), nil }

// Address represents the 20 byte address of a Zond account.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) MarshalJSON() ([]byte, error) { return []byte(`"` + a.Hex() + `"`), nil }

func (a *Address) UnmarshalJSON(input []byte) error {
	s, err := unquoteHex(input)
	if err != nil {
		return err
	}
	*a = HexToAddress(s)
	return nil
}

// Bloom is a 256 byte (2048 bit) log bloom filter.
type Bloom [256]byte

func BytesToBloom(b []byte) Bloom {
	var bl Bloom
	copy(bl[256-len(b):], b)
	return bl
}

func (b Bloom) Bytes() []byte { return b[:] }

// StorageSize is a float64 that formats as a human readable byte count.
type StorageSize float64

func (s StorageSize) String() string {
	if s > 1099511627776 {
		return fmt.Sprintf("%.2f TiB", s/1099511627776)
	} else if s > 1073741824 {
		return fmt.Sprintf("%.2f GiB", s/1073741824)
	} else if s > 1048576 {
		return fmt.Sprintf("%.2f MiB", s/1048576)
	} else if s > 1024 {
		return fmt.Sprintf("%.2f KiB", s/1024)
	}
	return fmt.Sprintf("%.2f B", s)
}

// FromHex returns the bytes represented by the hexadecimal string s, which may
// optionally carry a 0x prefix.
func FromHex(s string) []byte {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func unquoteHex(input []byte) (string, error) {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return "", fmt.Errorf("invalid hex JSON string %q", input)
	}
	return string(input[1 : len(input)-1]), nil
}

var (
	Big0  = big.NewInt(0)
	Big1  = big.NewInt(1)
	Big32 = big.NewInt(32)
)

// Engine API call sites pass time.Duration values straight to the logger's
// key-value pairs, so no dedicated pretty-printing type is needed here.
