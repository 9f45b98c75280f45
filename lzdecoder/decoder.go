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

// Package lzdecoder implements the LZMA decode side of a single lzip member
// (spec.md §4.7): it replays the range-coded symbol stream produced by
// either encoder, reconstructing the literal/match/rep sequence against a
// sliding dictionary window and re-deriving the CRC32 and uncompressed size
// that the member trailer claims.
package lzdecoder

import (
	"errors"
	"io"

	"github.com/gorazor/lzgo/crc"
	"github.com/gorazor/lzgo/lzma"
	"github.com/gorazor/lzgo/rangecoder"
)

// ErrCorruptStream is returned when the decoded symbol sequence references a
// distance beyond the data produced so far, or a distance beyond the
// dictionary window — both are always a stream integrity violation, never a
// legitimate encoding.
var ErrCorruptStream = errors.New("lzdecoder: corrupt stream")

// Decoder reconstructs one member's uncompressed bytes from its range-coded
// payload, streaming output to an io.Writer as it goes.
type Decoder struct {
	rc    *rangecoder.Decoder
	probs *lzma.Probs
	state lzma.State
	rep   [4]uint32

	dict    []byte
	dictPos int
	full    bool
	pos     uint64

	out io.Writer
	crc *crc.Digest
}

// New creates a Decoder reading range-coded symbols from in and writing
// reconstructed bytes to out, against a dictionary window of dictSize bytes
// (the size recorded in the member's 6-byte header).
func New(in io.Reader, out io.Writer, dictSize int) (*Decoder, error) {
	rc, err := rangecoder.NewDecoder(in)

	if err != nil {
		return nil, err
	}

	return &Decoder{
		rc:    rc,
		probs: lzma.NewProbs(),
		dict:  make([]byte, dictSize),
		out:   out,
		crc:   crc.New(),
	}, nil
}

// Decode runs until it consumes the end-of-stream marker (a match symbol
// whose coded distance is lzma.EndOfStreamDistance), returning the number of
// uncompressed bytes produced.
func (this *Decoder) Decode() (uint64, error) {
	for {
		posState := lzma.PosState(this.pos)
		bit, err := this.rc.DecodeBit(&this.probs.IsMatch[this.state][posState])

		if err != nil {
			return this.pos, err
		}

		if bit == 0 {
			if err := this.decodeLiteral(); err != nil {
				return this.pos, err
			}

			continue
		}

		isRep, err := this.rc.DecodeBit(&this.probs.IsRep[this.state])

		if err != nil {
			return this.pos, err
		}

		if isRep == 0 {
			done, err := this.decodeMatch(posState)

			if err != nil {
				return this.pos, err
			}

			if done {
				return this.pos, nil
			}

			continue
		}

		if err := this.decodeRep(posState); err != nil {
			return this.pos, err
		}
	}
}

func (this *Decoder) decodeLiteral() error {
	ctx := lzma.LiteralContext(this.byteBack(1))
	probs := this.probs.Literal[ctx]
	var sym byte
	var err error

	if this.state.IsLiteralState() {
		sym, err = lzma.DecodeLiteral(this.rc, probs)
	} else {
		matchByte := this.byteBack(this.rep[0] + 1)
		sym, err = lzma.DecodeLiteralMatched(this.rc, probs, matchByte)
	}

	if err != nil {
		return err
	}

	if err := this.putByte(sym); err != nil {
		return err
	}

	this.state = this.state.UpdateLiteral()
	return nil
}

// decodeMatch handles a full match (is_match=1, is_rep=0). It returns
// done=true once it has consumed the end-of-stream marker.
func (this *Decoder) decodeMatch(posState uint32) (bool, error) {
	lenSym, err := this.probs.MatchLen.Decode(this.rc, posState)

	if err != nil {
		return false, err
	}

	length := lenSym + lzma.MinMatchLen
	lenState := lzma.LenState(length)
	dist, err := lzma.DecodeDistance(this.rc, this.probs, lenState)

	if err != nil {
		return false, err
	}

	if dist == lzma.EndOfStreamDistance {
		return true, nil
	}

	this.rep[3], this.rep[2], this.rep[1], this.rep[0] = this.rep[2], this.rep[1], this.rep[0], dist
	this.state = this.state.UpdateMatch()
	return false, this.copyMatch(dist+1, length)
}

func (this *Decoder) decodeRep(posState uint32) error {
	bit, err := this.rc.DecodeBit(&this.probs.IsRepG0[this.state])

	if err != nil {
		return err
	}

	if bit == 0 {
		short, err := this.rc.DecodeBit(&this.probs.IsRep0Long[this.state][posState])

		if err != nil {
			return err
		}

		if short == 0 {
			if err := this.putByte(this.byteBack(this.rep[0] + 1)); err != nil {
				return err
			}

			this.state = this.state.UpdateShortRep()
			return nil
		}
	} else {
		bit1, err := this.rc.DecodeBit(&this.probs.IsRepG1[this.state])

		if err != nil {
			return err
		}

		if bit1 == 0 {
			this.rep[0], this.rep[1] = this.rep[1], this.rep[0]
		} else {
			bit2, err := this.rc.DecodeBit(&this.probs.IsRepG2[this.state])

			if err != nil {
				return err
			}

			if bit2 == 0 {
				this.rep[0], this.rep[1], this.rep[2] = this.rep[2], this.rep[0], this.rep[1]
			} else {
				this.rep[0], this.rep[1], this.rep[2], this.rep[3] = this.rep[3], this.rep[0], this.rep[1], this.rep[2]
			}
		}
	}

	lenSym, err := this.probs.RepLen.Decode(this.rc, posState)

	if err != nil {
		return err
	}

	length := lenSym + lzma.MinMatchLen
	this.state = this.state.UpdateRep()
	return this.copyMatch(this.rep[0]+1, length)
}

// byteBack returns the byte dist positions before the current write head
// (dist==1 is the most recently written byte).
func (this *Decoder) byteBack(dist uint32) byte {
	if uint64(dist) > this.pos {
		return 0
	}

	idx := this.dictPos - int(dist)

	if idx < 0 {
		idx += len(this.dict)
	}

	return this.dict[idx]
}

func (this *Decoder) putByte(b byte) error {
	this.dict[this.dictPos] = b
	this.dictPos++

	if this.dictPos == len(this.dict) {
		this.dictPos = 0
		this.full = true
	}

	this.pos++
	this.crc.Update([]byte{b})

	if this.out != nil {
		if _, err := this.out.Write([]byte{b}); err != nil {
			return err
		}
	}

	return nil
}

func (this *Decoder) copyMatch(dist uint32, length uint32) error {
	if uint64(dist) > this.pos {
		return ErrCorruptStream
	}

	if int(dist) > len(this.dict) {
		return ErrCorruptStream
	}

	for i := uint32(0); i < length; i++ {
		if err := this.putByte(this.byteBack(dist)); err != nil {
			return err
		}
	}

	return nil
}

// CRC32 returns the checksum of every byte produced so far.
func (this *Decoder) CRC32() uint32 {
	return this.crc.Sum()
}

// Size returns the number of uncompressed bytes produced so far.
func (this *Decoder) Size() uint64 {
	return this.pos
}
