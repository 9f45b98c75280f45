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

// PriceLiteral returns the bit-cost of coding symbol with the plain tree for
// the given context, without touching any predictor. Used by the optimal
// parser (spec.md §4.5) to score a literal transition.
func PriceLiteral(p *Probs, ctx uint32, symbol byte) uint32 {
	probs := p.Literal[ctx]
	price := uint32(0)
	context := uint32(1)

	for i := 7; i >= 0; i-- {
		bit := (uint32(symbol) >> uint(i)) & 1
		price += rangecoder.BitPrice(probs[context], bit)
		context = (context << 1) | bit
	}

	return price
}

// PriceLiteralMatched returns the bit-cost of coding symbol with the
// matched-byte tree against matchByte.
func PriceLiteralMatched(p *Probs, ctx uint32, matchByte, symbol byte) uint32 {
	probs := p.Literal[ctx]
	price := uint32(0)
	context := uint32(1)

	for i := 7; i >= 0; i-- {
		matchBit := (uint32(matchByte) >> uint(i)) & 1
		bit := (uint32(symbol) >> uint(i)) & 1
		idx := ((1 + matchBit) << 8) + context
		price += rangecoder.BitPrice(probs[idx], bit)
		context = (context << 1) | bit

		if matchBit != bit {
			for i--; i >= 0; i-- {
				bit = (uint32(symbol) >> uint(i)) & 1
				price += rangecoder.BitPrice(probs[context], bit)
				context = (context << 1) | bit
			}

			break
		}
	}

	return price
}

// PriceDistance returns the bit-cost of coding a match distance (real
// distance - 1) given the length bucket it is paired with.
func PriceDistance(p *Probs, dist, lenState uint32) uint32 {
	slot := DistanceSlot(dist)
	price := rangecoder.TreePrice(p.PosSlot[lenState], NumPosSlotBits, slot)

	if slot < StartPosModelIndex {
		return price
	}

	footerBits := (slot >> 1) - 1
	base := (2 | (slot & 1)) << footerBits
	reduced := dist - base

	if slot < EndPosModelIndex {
		offset := int(base) - int(slot) - 1
		return price + rangecoder.TreeReversedSlicePrice(p.SpecPos, offset, uint(footerBits), reduced)
	}

	price += rangecoder.DirectBitsPrice(uint(footerBits - AlignBits))
	price += rangecoder.TreeReversedPrice(p.Align, AlignBits, reduced&(NumAlignSlots-1))
	return price
}

// PriceMatch returns the total bit-cost of a match(distance, length) symbol,
// including the is-match / is-rep discriminator bits.
func PriceMatch(p *Probs, state State, posState, dist, length uint32) uint32 {
	price := rangecoder.BitPrice(p.IsMatch[state][posState], 1)
	price += rangecoder.BitPrice(p.IsRep[state], 0)
	price += p.MatchLen.Price(length-MinMatchLen, posState)
	price += PriceDistance(p, dist, LenState(length))
	return price
}

// PriceRep returns the total bit-cost of a rep(index) symbol of the given
// length (length > 1; use PriceShortRep for the length-1 case).
func PriceRep(p *Probs, state State, posState uint32, repIndex int, length uint32) uint32 {
	price := rangecoder.BitPrice(p.IsMatch[state][posState], 1)
	price += rangecoder.BitPrice(p.IsRep[state], 1)

	switch repIndex {
	case 0:
		price += rangecoder.BitPrice(p.IsRepG0[state], 0)
		price += rangecoder.BitPrice(p.IsRep0Long[state][posState], 1)
	case 1:
		price += rangecoder.BitPrice(p.IsRepG0[state], 1)
		price += rangecoder.BitPrice(p.IsRepG1[state], 0)
	case 2:
		price += rangecoder.BitPrice(p.IsRepG0[state], 1)
		price += rangecoder.BitPrice(p.IsRepG1[state], 1)
		price += rangecoder.BitPrice(p.IsRepG2[state], 0)
	default:
		price += rangecoder.BitPrice(p.IsRepG0[state], 1)
		price += rangecoder.BitPrice(p.IsRepG1[state], 1)
		price += rangecoder.BitPrice(p.IsRepG2[state], 1)
	}

	price += p.RepLen.Price(length-MinMatchLen, posState)
	return price
}

// PriceShortRep returns the bit-cost of a short-rep (rep0, length 1) symbol.
func PriceShortRep(p *Probs, state State, posState uint32) uint32 {
	price := rangecoder.BitPrice(p.IsMatch[state][posState], 1)
	price += rangecoder.BitPrice(p.IsRep[state], 1)
	price += rangecoder.BitPrice(p.IsRepG0[state], 0)
	price += rangecoder.BitPrice(p.IsRep0Long[state][posState], 0)
	return price
}
