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

// Package lzencoder implements the LZMA encode side of a single lzip
// member: a fast greedy parser for level 0 (spec.md §4.6) and a price-driven
// optimal parser for levels 1-9 (spec.md §4.5), both built on the shared
// range-coded symbol emitter in this file and the matchfinder.BT4 match
// finder.
package lzencoder

import (
	"io"

	"github.com/gorazor/lzgo/crc"
	"github.com/gorazor/lzgo/lzma"
	"github.com/gorazor/lzgo/matchfinder"
	"github.com/gorazor/lzgo/rangecoder"
)

// Encoder holds the range coder, probability model and match finder shared
// by both parsing strategies; Fast and Optimal attach the control flow that
// decides which symbols to emit.
type Encoder struct {
	rc    *rangecoder.Encoder
	probs *lzma.Probs
	state lzma.State
	rep   [4]uint32

	buf      []byte
	pos      int
	dictSize int

	mf *matchfinder.BT4
}

func newEncoder(out io.Writer, buf []byte, dictSize, niceLen, cycles int) *Encoder {
	return &Encoder{
		rc:       rangecoder.NewEncoder(out),
		probs:    lzma.NewProbs(),
		buf:      buf,
		dictSize: dictSize,
		mf:       matchfinder.New(buf, dictSize, niceLen, cycles),
	}
}

func (this *Encoder) prevByte(at int) byte {
	if at == 0 {
		return 0
	}

	return this.buf[at-1]
}

func (this *Encoder) emitLiteral(at int) error {
	posState := lzma.PosState(uint64(at))

	if err := this.rc.EncodeBit(&this.probs.IsMatch[this.state][posState], 0); err != nil {
		return err
	}

	ctx := lzma.LiteralContext(this.prevByte(at))
	probs := this.probs.Literal[ctx]
	symbol := this.buf[at]

	var err error

	if this.state.IsLiteralState() {
		err = lzma.EncodeLiteral(this.rc, probs, symbol)
	} else {
		matchByte := this.buf[at-int(this.rep[0])-1]
		err = lzma.EncodeLiteralMatched(this.rc, probs, matchByte, symbol)
	}

	if err != nil {
		return err
	}

	this.state = this.state.UpdateLiteral()
	return nil
}

func (this *Encoder) emitMatch(at int, dist, length uint32) error {
	posState := lzma.PosState(uint64(at))

	if err := this.rc.EncodeBit(&this.probs.IsMatch[this.state][posState], 1); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRep[this.state], 0); err != nil {
		return err
	}

	if err := this.probs.MatchLen.Encode(this.rc, length-lzma.MinMatchLen, posState); err != nil {
		return err
	}

	if err := lzma.EncodeDistance(this.rc, this.probs, dist, lzma.LenState(length)); err != nil {
		return err
	}

	this.rep[3], this.rep[2], this.rep[1], this.rep[0] = this.rep[2], this.rep[1], this.rep[0], dist
	this.state = this.state.UpdateMatch()
	return nil
}

func (this *Encoder) emitShortRep(at int) error {
	posState := lzma.PosState(uint64(at))

	if err := this.rc.EncodeBit(&this.probs.IsMatch[this.state][posState], 1); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRep[this.state], 1); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRepG0[this.state], 0); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRep0Long[this.state][posState], 0); err != nil {
		return err
	}

	this.state = this.state.UpdateShortRep()
	return nil
}

// emitRep encodes a long rep (length >= 2) against rep[repIndex], rotating
// it to the front of the rep list.
func (this *Encoder) emitRep(at int, repIndex int, length uint32) error {
	posState := lzma.PosState(uint64(at))

	if err := this.rc.EncodeBit(&this.probs.IsMatch[this.state][posState], 1); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRep[this.state], 1); err != nil {
		return err
	}

	switch repIndex {
	case 0:
		if err := this.rc.EncodeBit(&this.probs.IsRepG0[this.state], 0); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRep0Long[this.state][posState], 1); err != nil {
			return err
		}
	case 1:
		if err := this.rc.EncodeBit(&this.probs.IsRepG0[this.state], 1); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRepG1[this.state], 0); err != nil {
			return err
		}

		this.rep[0], this.rep[1] = this.rep[1], this.rep[0]
	case 2:
		if err := this.rc.EncodeBit(&this.probs.IsRepG0[this.state], 1); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRepG1[this.state], 1); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRepG2[this.state], 0); err != nil {
			return err
		}

		this.rep[0], this.rep[1], this.rep[2] = this.rep[2], this.rep[0], this.rep[1]
	default:
		if err := this.rc.EncodeBit(&this.probs.IsRepG0[this.state], 1); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRepG1[this.state], 1); err != nil {
			return err
		}

		if err := this.rc.EncodeBit(&this.probs.IsRepG2[this.state], 1); err != nil {
			return err
		}

		this.rep[0], this.rep[1], this.rep[2], this.rep[3] = this.rep[3], this.rep[0], this.rep[1], this.rep[2]
	}

	if err := this.probs.RepLen.Encode(this.rc, length-lzma.MinMatchLen, posState); err != nil {
		return err
	}

	this.state = this.state.UpdateRep()
	return nil
}

// emitEndOfStream encodes the match symbol with the reserved
// all-ones distance that marks the end of the member's LZMA payload.
func (this *Encoder) emitEndOfStream() error {
	posState := lzma.PosState(uint64(this.pos))

	if err := this.rc.EncodeBit(&this.probs.IsMatch[this.state][posState], 1); err != nil {
		return err
	}

	if err := this.rc.EncodeBit(&this.probs.IsRep[this.state], 0); err != nil {
		return err
	}

	if err := this.probs.MatchLen.Encode(this.rc, 0, posState); err != nil {
		return err
	}

	return lzma.EncodeDistance(this.rc, this.probs, lzma.EndOfStreamDistance, lzma.LenState(lzma.MinMatchLen))
}

// finish emits the end-of-stream marker, flushes the range coder and
// returns the uncompressed size and CRC32 of everything encoded.
func (this *Encoder) finish() (uint64, uint32, error) {
	if err := this.emitEndOfStream(); err != nil {
		return 0, 0, err
	}

	if err := this.rc.Flush(); err != nil {
		return 0, 0, err
	}

	return uint64(len(this.buf)), crc.Checksum(this.buf), nil
}

// repMatchLenAt returns the common-prefix length between the bytes at `at`
// and the bytes `distBack+1` positions before it, capped at limit. Returns 0
// if there isn't enough history for the given distance.
func (this *Encoder) repMatchLenAt(at int, distBack uint32, limit int) uint32 {
	src := at - int(distBack) - 1

	if src < 0 {
		return 0
	}

	return this.mf.MatchLenAt(src, at, limit)
}
