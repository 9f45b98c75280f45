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

package lzma

import "github.com/gorazor/lzgo/rangecoder"

// Probs is the full set of adaptive probability contexts a member's range
// coder reads and writes, laid out exactly as spec.md §3 describes. A fresh
// Probs is created at the start of every member. The dictionary window does
// not carry over either: each member's encoder and decoder is built with its
// own newly allocated window.
type Probs struct {
	IsMatch    [NumStates][NumPosStates]uint16 // bm_match
	IsRep      [NumStates]uint16               // bm_rep
	IsRepG0    [NumStates]uint16               // bm_rep0
	IsRepG1    [NumStates]uint16               // bm_rep1
	IsRepG2    [NumStates]uint16               // bm_rep2
	IsRep0Long [NumStates][NumPosStates]uint16 // bm_len: short-rep vs rep0-long

	PosSlot [NumLenToPosStates][]uint16 // bm_dis_slot: NumPosSlots entries each
	SpecPos []uint16                    // bm_dis: numDisSlotProbs entries
	Align   []uint16                    // bm_align: NumAlignSlots entries

	Literal [NumLiteralContexts][]uint16 // bm_literal: literalCoderSize entries each

	MatchLen *rangecoder.LengthCoder
	RepLen   *rangecoder.LengthCoder
}

// NewProbs allocates a fresh set of predictors, all seeded to InitProb.
func NewProbs() *Probs {
	p := &Probs{
		SpecPos: rangecoder.NewProbs(numDisSlotProbs),
		Align:   rangecoder.NewProbs(NumAlignSlots),

		MatchLen: rangecoder.NewLengthCoder(),
		RepLen:   rangecoder.NewLengthCoder(),
	}

	for s := 0; s < NumStates; s++ {
		for ps := 0; ps < NumPosStates; ps++ {
			p.IsMatch[s][ps] = rangecoder.InitProb
			p.IsRep0Long[s][ps] = rangecoder.InitProb
		}

		p.IsRep[s] = rangecoder.InitProb
		p.IsRepG0[s] = rangecoder.InitProb
		p.IsRepG1[s] = rangecoder.InitProb
		p.IsRepG2[s] = rangecoder.InitProb
	}

	for i := 0; i < NumLenToPosStates; i++ {
		p.PosSlot[i] = rangecoder.NewProbs(NumPosSlots)
	}

	for i := 0; i < NumLiteralContexts; i++ {
		p.Literal[i] = rangecoder.NewProbs(literalCoderSize)
	}

	return p
}

// LiteralContext returns the literal-coder context index for the given prior
// output byte: the high LiteralContextBits bits of prevByte (lp=0, so the
// output position never contributes).
func LiteralContext(prevByte byte) uint32 {
	return uint32(prevByte) >> (8 - LiteralContextBits)
}

// EncodeLiteral encodes symbol using the plain per-context tree.
func EncodeLiteral(rc *rangecoder.Encoder, probs []uint16, symbol byte) error {
	context := uint32(1)

	for i := 7; i >= 0; i-- {
		bit := (uint32(symbol) >> uint(i)) & 1

		if err := rc.EncodeBit(&probs[context], bit); err != nil {
			return err
		}

		context = (context << 1) | bit
	}

	return nil
}

// EncodeLiteralMatched encodes symbol using the matched-byte tree: bits are
// coded against the corresponding bit of matchByte until the two diverge,
// after which coding falls back to the plain tree for the remaining bits.
func EncodeLiteralMatched(rc *rangecoder.Encoder, probs []uint16, matchByte, symbol byte) error {
	context := uint32(1)

	for i := 7; i >= 0; i-- {
		matchBit := (uint32(matchByte) >> uint(i)) & 1
		bit := (uint32(symbol) >> uint(i)) & 1
		idx := ((1 + matchBit) << 8) + context

		if err := rc.EncodeBit(&probs[idx], bit); err != nil {
			return err
		}

		context = (context << 1) | bit

		if matchBit != bit {
			for i--; i >= 0; i-- {
				bit = (uint32(symbol) >> uint(i)) & 1

				if err := rc.EncodeBit(&probs[context], bit); err != nil {
					return err
				}

				context = (context << 1) | bit
			}

			break
		}
	}

	return nil
}

// DecodeLiteral is the symmetric counterpart of EncodeLiteral.
func DecodeLiteral(rc *rangecoder.Decoder, probs []uint16) (byte, error) {
	context := uint32(1)

	for context < 0x100 {
		bit, err := rc.DecodeBit(&probs[context])

		if err != nil {
			return 0, err
		}

		context = (context << 1) | bit
	}

	return byte(context), nil
}

// DecodeLiteralMatched is the symmetric counterpart of EncodeLiteralMatched.
func DecodeLiteralMatched(rc *rangecoder.Decoder, probs []uint16, matchByte byte) (byte, error) {
	context := uint32(1)
	mb := uint32(matchByte)

	for context < 0x100 {
		matchBit := (mb >> 7) & 1
		mb <<= 1
		idx := ((1 + matchBit) << 8) + context
		bit, err := rc.DecodeBit(&probs[idx])

		if err != nil {
			return 0, err
		}

		context = (context << 1) | bit

		if matchBit != bit {
			for context < 0x100 {
				bit, err := rc.DecodeBit(&probs[context])

				if err != nil {
					return 0, err
				}

				context = (context << 1) | bit
			}

			break
		}
	}

	return byte(context), nil
}
