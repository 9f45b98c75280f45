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

package lzencoder

import (
	"io"
	"math"

	"github.com/gorazor/lzgo/lzma"
	"github.com/gorazor/lzgo/matchfinder"
	"github.com/gorazor/lzgo/rangecoder"
)

const maxOptimTrials = lzma.MaxMatchLen + 1

// backType identifies how a trellis node was reached.
type backType int

const (
	backNone backType = iota
	backLiteral
	backMatch
	backRep0
	backRep1
	backRep2
	backRep3
)

// trial is one node of the price trellis: the cheapest known way to reach
// `len(consumed)` bytes past the window's start, and enough state to both
// continue pricing from it and to replay the symbol that reaches it.
type trial struct {
	price     uint32
	prevIndex int
	back      backType
	dist      uint32 // only meaningful when back == backMatch
	state     lzma.State
	reps      [4]uint32
}

const infPrice = math.MaxUint32

// NewOptimal creates an Encoder that uses the price-driven trellis parser
// (levels "-1".."-9"): at each window it prices every literal, rep and
// match transition the matchfinder and current predictors make available
// and commits to the cheapest path across the window, matching spec.md
// §4.5's num_trials-bounded optimum search.
func NewOptimal(out io.Writer, buf []byte, dictSize, matchLenLimit int) *Encoder {
	niceLen := matchfinder.NiceLen(matchLenLimit)
	cycles := matchfinder.Cycles(matchLenLimit)
	return newEncoder(out, buf, dictSize, niceLen, cycles)
}

// EncodeOptimal runs the trellis parser over the whole buffer and returns
// the uncompressed size and CRC32 of what it encoded.
func (this *Encoder) EncodeOptimal() (uint64, uint32, error) {
	var matches []matchfinder.Match

	for this.pos < len(this.buf) {
		matches = this.mf.FindMatches(this.pos, matches[:0])
		decisions, _ := this.buildWindow(matches)

		// buildWindow already inserted every position the window spans into
		// the finder's tables (the first via the FindMatches call above,
		// the rest via its own trailing Skip loop), so emission here only
		// needs to replay the symbols and advance this.pos.
		for _, d := range decisions {
			at := this.pos

			switch d.back {
			case backLiteral:
				if err := this.emitLiteral(at); err != nil {
					return 0, 0, err
				}
			case backMatch:
				if err := this.emitMatch(at, d.dist, d.length); err != nil {
					return 0, 0, err
				}
			default:
				repIdx := int(d.back - backRep0)

				if d.length == 1 {
					if err := this.emitShortRep(at); err != nil {
						return 0, 0, err
					}
				} else if err := this.emitRep(at, repIdx, d.length); err != nil {
					return 0, 0, err
				}
			}

			this.pos += int(d.length)
		}
	}

	return this.finish()
}

// decision is one emitted symbol, in emission order, derived by
// backtracking the trellis built by buildWindow.
type decision struct {
	back   backType
	dist   uint32
	length uint32
}

// buildWindow prices a trellis spanning from the current position to the
// longest candidate match or rep length available there (at least one byte,
// so a plain literal is always a valid fallback), then backtracks the
// cheapest path across it.
func (this *Encoder) buildWindow(matches []matchfinder.Match) ([]decision, int) {
	pos := this.pos
	remaining := len(this.buf) - pos

	lenEnd := 1

	if len(matches) > 0 {
		if l := int(matches[len(matches)-1].Len); l > lenEnd {
			lenEnd = l
		}
	}

	var repLens [4]uint32

	for r := 0; r < 4; r++ {
		repLens[r] = this.repMatchLenAt(pos, this.rep[r], remaining)

		if int(repLens[r]) > lenEnd {
			lenEnd = int(repLens[r])
		}
	}

	if lenEnd > remaining {
		lenEnd = remaining
	}

	if lenEnd > maxOptimTrials {
		lenEnd = maxOptimTrials
	}

	opts := make([]trial, lenEnd+1)

	for i := 1; i <= lenEnd; i++ {
		opts[i].price = infPrice
	}

	opts[0] = trial{price: 0, state: this.state, reps: this.rep}

	for i := 0; i < lenEnd; i++ {
		cur := &opts[i]

		if cur.price == infPrice {
			continue
		}

		at := pos + i
		posState := lzma.PosState(uint64(at))

		// literal
		symbol := this.buf[at]
		var litPrice uint32
		ctx := lzma.LiteralContext(this.prevByte(at))

		if cur.state.IsLiteralState() {
			litPrice = lzma.PriceLiteral(this.probs, ctx, symbol)
		} else {
			mb := this.buf[at-int(cur.reps[0])-1]
			litPrice = lzma.PriceLiteralMatched(this.probs, ctx, mb, symbol)
		}

		litPrice += rangecoder.BitPrice(this.probs.IsMatch[cur.state][posState], 0)
		this.relax(opts, i+1, cur.price+litPrice, i, backLiteral, 0, cur.state.UpdateLiteral(), cur.reps)

		// reps
		for r := 0; r < 4; r++ {
			maxLen := int(this.repMatchLenAt(at, cur.reps[r], lenEnd-i))

			if r == 0 && maxLen >= 1 {
				src := at - int(cur.reps[0]) - 1

				if src >= 0 && this.buf[src] == this.buf[at] {
					price := cur.price + lzma.PriceShortRep(this.probs, cur.state, posState)
					this.relax(opts, i+1, price, i, backRep0, 0, cur.state.UpdateShortRep(), cur.reps)
				}
			}

			for length := 2; length <= maxLen; length++ {
				price := cur.price + lzma.PriceRep(this.probs, cur.state, posState, r, uint32(length))
				newReps := rotateRep(cur.reps, r)
				this.relax(opts, i+length, price, i, backRep0+backType(r), 0, cur.state.UpdateRep(), newReps)
			}
		}

		// normal matches, priced only at the window's first position: the
		// finder was queried once, at this.pos, for this window.
		if i == 0 {
			for _, m := range matches {
				maxLen := int(m.Len)

				if maxLen > lenEnd {
					maxLen = lenEnd
				}

				for length := 2; length <= maxLen; length++ {
					price := cur.price + lzma.PriceMatch(this.probs, cur.state, posState, m.Dist, uint32(length))
					newReps := [4]uint32{m.Dist, cur.reps[0], cur.reps[1], cur.reps[2]}
					this.relax(opts, i+length, price, i, backMatch, m.Dist, cur.state.UpdateMatch(), newReps)
				}
			}
		}
	}

	// Insert every interior position the window spans but the loop above
	// never queried, so future windows can still match into them.
	for p := pos + 1; p < pos+lenEnd; p++ {
		this.mf.Skip(p)
	}

	// backtrack
	var rev []decision
	idx := lenEnd

	for idx > 0 {
		t := opts[idx]
		length := uint32(idx - t.prevIndex)
		rev = append(rev, decision{back: t.back, dist: t.dist, length: length})
		idx = t.prevIndex
	}

	decisions := make([]decision, len(rev))

	for i, d := range rev {
		decisions[len(rev)-1-i] = d
	}

	return decisions, lenEnd
}

func (this *Encoder) relax(opts []trial, idx int, price uint32, prevIndex int, back backType, dist uint32, state lzma.State, reps [4]uint32) {
	if idx >= len(opts) || price >= opts[idx].price {
		return
	}

	opts[idx] = trial{price: price, prevIndex: prevIndex, back: back, dist: dist, state: state, reps: reps}
}

func rotateRep(reps [4]uint32, r int) [4]uint32 {
	d := reps[r]

	switch r {
	case 0:
		return reps
	case 1:
		return [4]uint32{d, reps[0], reps[2], reps[3]}
	case 2:
		return [4]uint32{d, reps[0], reps[1], reps[3]}
	default:
		return [4]uint32{d, reps[0], reps[1], reps[2]}
	}
}
