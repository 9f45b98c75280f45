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

	"github.com/gorazor/lzgo/matchfinder"
)

// fastNiceLen and fastCycles are level 0's search-depth knobs: shallow on
// purpose, trading ratio for speed (spec.md §4.6).
const (
	fastNiceLen = 32
	fastCycles  = 16
)

// NewFast creates an Encoder that uses the non-optimizing greedy parser
// (gzip/bzip2-style level "-0"). At every position it emits, in order of
// preference: a short rep when rep0 matches one byte and no rep distance
// matches two or more (even if the finder has a longer fresh match); the
// longest rep match of two or more bytes, when it is at most one byte
// shorter than the finder's longest match; the finder's longest match, when
// it is three bytes or more; otherwise a literal.
func NewFast(out io.Writer, buf []byte, dictSize int) *Encoder {
	return newEncoder(out, buf, dictSize, fastNiceLen, fastCycles)
}

// EncodeFast runs the greedy parser over the whole buffer and returns the
// uncompressed size and CRC32 of what it encoded.
func (this *Encoder) EncodeFast() (uint64, uint32, error) {
	var matches []matchfinder.Match

	for this.pos < len(this.buf) {
		matches = this.mf.FindMatches(this.pos, matches[:0])

		bestRepIdx := -1
		bestRepLen := uint32(0)

		for r := 0; r < 4; r++ {
			l := this.repMatchLenAt(this.pos, this.rep[r], len(this.buf)-this.pos)

			if l > bestRepLen {
				bestRepLen = l
				bestRepIdx = r
			}
		}

		var bestDist uint32
		var bestLen uint32

		if len(matches) > 0 {
			best := matches[len(matches)-1]
			bestDist = best.Dist
			bestLen = best.Len
		}

		switch {
		case bestRepIdx == 0 && bestRepLen == 1:
			if err := this.emitShortRep(this.pos); err != nil {
				return 0, 0, err
			}

			this.pos++
		case bestRepLen >= 2 && bestRepLen+1 >= bestLen:
			if err := this.emitRep(this.pos, bestRepIdx, bestRepLen); err != nil {
				return 0, 0, err
			}

			this.skipRange(this.pos+1, int(bestRepLen))
			this.pos += int(bestRepLen)
		case bestLen >= 3:
			if err := this.emitMatch(this.pos, bestDist, bestLen); err != nil {
				return 0, 0, err
			}

			this.skipRange(this.pos+1, int(bestLen))
			this.pos += int(bestLen)
		default:
			if err := this.emitLiteral(this.pos); err != nil {
				return 0, 0, err
			}

			this.pos++
		}
	}

	return this.finish()
}

// skipRange inserts positions [from, from+length-1) into the match finder's
// tables without pricing them (the interior of an already-accepted match).
func (this *Encoder) skipRange(from, length int) {
	for p := from; p < from+length-1 && p < len(this.buf); p++ {
		this.mf.Skip(p)
	}
}
