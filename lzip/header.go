/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package lzip encodes and decodes the 6-byte member header and 20-byte
// member trailer of the lzip container format (spec.md §4.1): the magic
// bytes, version byte and packed dictionary-size byte in front of every
// member's LZMA payload, and the CRC32/data-size/member-size trailer behind
// it.
package lzip

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize and TrailerSize are the fixed byte widths spec.md §6's wire
// layout reserves for the two framing blocks.
const (
	HeaderSize  = 6
	TrailerSize = 20
)

const (
	// Version is the only member version this decoder accepts.
	Version = 1

	minDictSize = 1 << 12 // 4 KiB
	maxDictSize = 1 << 29 // 512 MiB

	minDictBits = 12
	maxDictBits = 29
)

var magic = [4]byte{'L', 'Z', 'I', 'P'}

// ErrBadMagic and ErrBadDictSize are two of the three header_error causes
// spec.md §7 distinguishes; the third, an unsupported version, is returned
// as *UnsupportedVersionError so callers can report the version number
// (scenario E).
var (
	ErrBadMagic    = errors.New("lzip: bad magic")
	ErrBadDictSize = errors.New("lzip: dictionary size byte out of range")
	ErrBadTrailer  = errors.New("lzip: short trailer")
	ErrShortHeader = errors.New("lzip: short header")
)

// UnsupportedVersionError reports a well-formed header whose version byte
// this decoder does not implement (spec.md scenario E).
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("lzip: version %d member format not supported", e.Version)
}

// dictSizeFromByte expands the packed byte into a dictionary size:
// ds = base - (base/16)*frac, where base = 2^bits, the low 5 bits of the
// byte hold bits and the high 3 bits hold frac (spec.md §4.1).
func dictSizeFromByte(b byte) uint32 {
	bits := uint(b & 0x1F)
	frac := uint32((b >> 5) & 0x7)
	base := uint32(1) << bits
	return base - (base/16)*frac
}

// dictSizeToByte packs the smallest representable dictionary size that is
// >= ds into a header byte, mirroring lzip's own Lh_set_dictionary_size.
func dictSizeToByte(ds uint32) byte {
	var bestByte byte
	bestVal := uint32(0xFFFFFFFF)

	for bits := uint(minDictBits); bits <= maxDictBits; bits++ {
		base := uint32(1) << bits

		for frac := uint32(0); frac < 8; frac++ {
			val := base - (base/16)*frac

			if val < ds {
				continue
			}

			if val < bestVal {
				bestVal = val
				bestByte = byte(bits) | byte(frac<<5)
			}
		}
	}

	return bestByte
}

// EncodeHeader builds the 6-byte header for a member whose dictionary size
// is ds, clamped to lzip's [4 KiB, 512 MiB] range before packing.
func EncodeHeader(ds uint32) []byte {
	if ds < minDictSize {
		ds = minDictSize
	} else if ds > maxDictSize {
		ds = maxDictSize
	}

	h := make([]byte, HeaderSize)
	copy(h[0:4], magic[:])
	h[4] = Version
	h[5] = dictSizeToByte(ds)
	return h
}

// DecodeHeader validates and parses a 6-byte member header, returning the
// dictionary size it carries.
func DecodeHeader(b []byte) (uint32, error) {
	if len(b) < HeaderSize {
		return 0, ErrShortHeader
	}

	if b[0] != magic[0] || b[1] != magic[1] || b[2] != magic[2] || b[3] != magic[3] {
		return 0, ErrBadMagic
	}

	if b[4] != Version {
		return 0, &UnsupportedVersionError{Version: b[4]}
	}

	ds := dictSizeFromByte(b[5])

	if ds < minDictSize || ds > maxDictSize {
		return 0, ErrBadDictSize
	}

	return ds, nil
}

// VerifyHeader is DecodeHeader's external-facing name (spec.md §6's
// verify_header(bytes[6]) -> ds | bad_magic | bad_version | bad_ds).
func VerifyHeader(b []byte) (uint32, error) {
	return DecodeHeader(b)
}

// LooksLikeHeader reports whether b starts with the lzip magic, regardless
// of whether the rest of the header is valid — used by the member driver on
// a full header-sized peek to distinguish trailing garbage from the start of
// a next member (spec.md §4.1); shorter reads go through MagicPrefixLen.
func LooksLikeHeader(b []byte) bool {
	return len(b) >= 4 && b[0] == magic[0] && b[1] == magic[1] && b[2] == magic[2] && b[3] == magic[3]
}

// MagicPrefixLen returns how many of b's leading bytes match the lzip magic
// (capped at 4). A truncated read at end-of-file that shares a non-empty
// magic prefix is what the driver treats as a truncated next member
// ("corrupt member") rather than plain trailing data.
func MagicPrefixLen(b []byte) int {
	n := len(b)

	if n > 4 {
		n = 4
	}

	for i := 0; i < n; i++ {
		if b[i] != magic[i] {
			return i
		}
	}

	return n
}

// EncodeTrailer builds the 20-byte trailer: CRC32, then data size, then
// member size, all little-endian.
func EncodeTrailer(crc32 uint32, dataSize, memberSize uint64) []byte {
	t := make([]byte, TrailerSize)
	binary.LittleEndian.PutUint32(t[0:4], crc32)
	binary.LittleEndian.PutUint64(t[4:12], dataSize)
	binary.LittleEndian.PutUint64(t[12:20], memberSize)
	return t
}

// DecodeTrailer parses a 20-byte trailer.
func DecodeTrailer(b []byte) (crc32 uint32, dataSize uint64, memberSize uint64, err error) {
	if len(b) < TrailerSize {
		return 0, 0, 0, ErrBadTrailer
	}

	crc32 = binary.LittleEndian.Uint32(b[0:4])
	dataSize = binary.LittleEndian.Uint64(b[4:12])
	memberSize = binary.LittleEndian.Uint64(b[12:20])
	return crc32, dataSize, memberSize, nil
}

// MinDictSize and MaxDictSize expose lzip's dictionary size bounds for
// callers validating a requested dictionary size.
const (
	MinDictSize = minDictSize
	MaxDictSize = maxDictSize
)
