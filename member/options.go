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

// Package member implements the lzip framing driver (spec.md §4.8): the
// per-member encode/decode loop, multi-member concatenation on decode, and
// member/volume size capping on encode, layered on top of lzencoder,
// lzdecoder and lzip.
package member

import (
	"errors"

	"github.com/gorazor/lzgo/matchfinder"
)

// Options configures EncodeMember / EncodeAll and DecodeAll.
type Options struct {
	// DictSize is the dictionary size recorded in the header and passed to
	// the match finder and decoder. Zero selects matchfinder.DefaultLevel's
	// size.
	DictSize int

	// MatchLenLimit bounds the optimal parser's search depth (ignored when
	// Level0 is set). Zero selects matchfinder.DefaultLevel's limit.
	MatchLenLimit int

	// Level0 selects the fast, non-optimizing greedy encoder.
	Level0 bool

	// MemberSizeCap is the number of input bytes EncodeAll compresses into
	// each member; zero means unbounded. It is applied to uncompressed
	// input, so a member's compressed size (header + payload + trailer) is
	// not bounded by it.
	MemberSizeCap int64

	// VolumeSizeCap caps a single output file's size; zero means unbounded.
	// EncodeAll starts a fresh member (never splitting one mid-stream)
	// whenever continuing would cross this boundary, and asks its
	// VolumeOpener for a new destination.
	VolumeSizeCap int64

	// IgnoreTrailing controls what DecodeAll does with trailing bytes that
	// do not parse as another member: true accepts them and reports an
	// EvtTrailingData event (cmd/lzgo sets it unless --trailing-error is
	// given); false, the zero value, reports ErrTrailingData.
	IgnoreTrailing bool

	// LooseTrailing relaxes the corrupt-next-member heuristic: garbage that
	// shares a prefix with the lzip magic is normally reported as
	// ErrCorruptMember; setting this treats it as ordinary trailing data
	// instead.
	LooseTrailing bool
}

// WithDefaults fills DictSize/MatchLenLimit from matchfinder.DefaultLevel
// when left at zero.
func (o Options) WithDefaults() Options {
	if o.DictSize == 0 || o.MatchLenLimit == 0 {
		lvl := matchfinder.Level(matchfinder.DefaultLevel)

		if o.DictSize == 0 {
			o.DictSize = lvl.DictSize
		}

		if o.MatchLenLimit == 0 {
			o.MatchLenLimit = lvl.MatchLenLimit
		}
	}

	return o
}

// Sentinel errors mapped to the exit-code contract at cmd/lzgo: 1
// environmental, 2 data/corruption, 3 internal.
var (
	ErrCorruptMember      = errors.New("member: corrupt member")
	ErrTrailingData       = errors.New("member: trailing data")
	ErrTruncated          = errors.New("member: file ends unexpectedly at member header")
	ErrCRCMismatch        = errors.New("member: CRC mismatch")
	ErrSizeMismatch       = errors.New("member: data size mismatch")
	ErrMemberSizeMismatch = errors.New("member: member size mismatch")
	ErrNoVolumeOpener     = errors.New("member: volume size cap set without a VolumeOpener")
)
