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

// Package matchfinder implements the BT4 binary-tree-over-hash-buckets
// match finder described in spec.md §4.4: for every input position it finds
// the set of previous occurrences of the 2/3/4-byte prefix at that position,
// and for the 4-byte class extends each candidate to its full common length
// by walking (and incrementally rebalancing) a binary search tree keyed on
// lexicographic suffix order, bounded by a configurable cycle count.
//
// The finder operates over the whole member buffer held in memory, in the
// style of kanzi's transform.XXXCodec.Forward(src, dst []byte): it does not
// stream. The dictSize parameter still bounds how far back a match may
// point, matching the wire-format dictionary-size constraint.
package matchfinder

// Match is a single candidate found at a given position: length of the
// common prefix and the wire-coded distance (real distance minus one).
type Match struct {
	Len  uint32
	Dist uint32
}

const (
	hash2Bits = 10
	hash2Size = 1 << hash2Bits

	hash3Bits = 16
	hash3Size = 1 << hash3Bits

	hash4Bits = 17
	hash4Size = 1 << hash4Bits

	// MinMatchLen is the shortest match class the finder reports (spec.md's
	// length range starts at 2).
	MinMatchLen = 2
)

// BT4 is a match finder bound to one input buffer.
type BT4 struct {
	buf      []byte
	dictSize int
	niceLen  int
	cycles   int

	hash2 []int32 // one slot each, -1 == empty
	hash3 []int32
	head4 []int32 // hash4 chain heads
	tree  []int32 // 2 links per position: tree[2*pos], tree[2*pos+1]
}

// New creates a match finder over buf. dictSize bounds how far back a match
// may reach; niceLen stops the search early once a match of that length is
// found; cycles bounds how many binary-tree nodes are visited per position
// (spec.md's "at most cycles iterations").
func New(buf []byte, dictSize, niceLen, cycles int) *BT4 {
	if niceLen > MaxMatchLen {
		niceLen = MaxMatchLen
	}

	this := &BT4{
		buf:      buf,
		dictSize: dictSize,
		niceLen:  niceLen,
		cycles:   cycles,
		hash2:    make([]int32, hash2Size),
		hash3:    make([]int32, hash3Size),
		head4:    make([]int32, hash4Size),
		tree:     make([]int32, 2*len(buf)),
	}

	for i := range this.hash2 {
		this.hash2[i] = -1
	}

	for i := range this.hash3 {
		this.hash3[i] = -1
	}

	for i := range this.head4 {
		this.head4[i] = -1
	}

	return this
}

// MaxMatchLen is the longest match length the LZMA length coder can express
// (spec.md's length range tops out at 273).
const MaxMatchLen = 273

func hash2(b []byte) uint32 {
	return (uint32(b[0]) | uint32(b[1])<<8) & (hash2Size - 1)
}

func hash3(b []byte) uint32 {
	h := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	h *= 506832829
	return (h >> (32 - hash3Bits)) & (hash3Size - 1)
}

func hash4(b []byte) uint32 {
	h := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	h *= 2654435761
	return (h >> (32 - hash4Bits)) & (hash4Size - 1)
}

// FindMatches reports every candidate at pos whose length strictly improves
// on the previous one, in increasing-length order, and inserts pos into the
// finder's tables. dst's backing array is reused across calls.
func (this *BT4) FindMatches(pos int, dst []Match) []Match {
	matches := dst[:0]
	remaining := len(this.buf) - pos
	bestLen := uint32(1)
	minPos := pos - this.dictSize

	if remaining >= 2 {
		h2 := hash2(this.buf[pos:])

		if cand := int(this.hash2[h2]); cand >= 0 && cand > minPos && this.buf[cand] == this.buf[pos] && this.buf[cand+1] == this.buf[pos+1] {
			bestLen = 2
			matches = append(matches, Match{Len: 2, Dist: uint32(pos - cand - 1)})
		}

		this.hash2[h2] = int32(pos)
	}

	if remaining >= 3 {
		h3 := hash3(this.buf[pos:])

		if cand := int(this.hash3[h3]); cand >= 0 && cand > minPos && uint32(3) > bestLen &&
			this.buf[cand] == this.buf[pos] && this.buf[cand+1] == this.buf[pos+1] && this.buf[cand+2] == this.buf[pos+2] {
			bestLen = 3
			matches = append(matches, Match{Len: 3, Dist: uint32(pos - cand - 1)})
		}

		this.hash3[h3] = int32(pos)
	}

	if remaining < 4 {
		return matches
	}

	maxLen := this.niceLen

	if remaining < maxLen {
		maxLen = remaining
	}

	h4 := hash4(this.buf[pos:])
	curMatch := this.head4[h4]
	this.head4[h4] = int32(pos)

	ptrLo := 2*pos + 1
	ptrHi := 2 * pos
	lenLo, lenHi := 0, 0
	count := this.cycles

	for {
		if curMatch < 0 || int(curMatch) <= minPos || count == 0 {
			this.tree[ptrLo] = -1
			this.tree[ptrHi] = -1
			break
		}

		count--
		cm := int(curMatch)
		cLen := lenLo

		if lenHi < cLen {
			cLen = lenHi
		}

		for cLen < maxLen && this.buf[cm+cLen] == this.buf[pos+cLen] {
			cLen++
		}

		if cLen > int(bestLen) {
			bestLen = uint32(cLen)
			matches = append(matches, Match{Len: uint32(cLen), Dist: uint32(pos - cm - 1)})

			if cLen >= maxLen {
				this.tree[ptrLo] = this.tree[2*cm+1]
				this.tree[ptrHi] = this.tree[2*cm]
				break
			}
		}

		if this.buf[cm+cLen] < this.buf[pos+cLen] {
			this.tree[ptrLo] = curMatch
			ptrLo = 2*cm + 1
			curMatch = this.tree[ptrLo]
			lenLo = cLen
		} else {
			this.tree[ptrHi] = curMatch
			ptrHi = 2 * cm
			curMatch = this.tree[ptrHi]
			lenHi = cLen
		}
	}

	return matches
}

// Skip inserts pos into the finder's tables without collecting matches, for
// positions the encoder chooses not to price (e.g. the interior of an
// accepted match).
func (this *BT4) Skip(pos int) {
	remaining := len(this.buf) - pos

	if remaining >= 2 {
		h2 := hash2(this.buf[pos:])
		this.hash2[h2] = int32(pos)
	}

	if remaining >= 3 {
		h3 := hash3(this.buf[pos:])
		this.hash3[h3] = int32(pos)
	}

	if remaining < 4 {
		return
	}

	maxLen := this.niceLen

	if remaining < maxLen {
		maxLen = remaining
	}

	minPos := pos - this.dictSize
	h4 := hash4(this.buf[pos:])
	curMatch := this.head4[h4]
	this.head4[h4] = int32(pos)

	ptrLo := 2*pos + 1
	ptrHi := 2 * pos
	lenLo, lenHi := 0, 0
	count := this.cycles

	for {
		if curMatch < 0 || int(curMatch) <= minPos || count == 0 {
			this.tree[ptrLo] = -1
			this.tree[ptrHi] = -1
			break
		}

		count--
		cm := int(curMatch)
		cLen := lenLo

		if lenHi < cLen {
			cLen = lenHi
		}

		for cLen < maxLen && this.buf[cm+cLen] == this.buf[pos+cLen] {
			cLen++
		}

		if cLen >= maxLen {
			this.tree[ptrLo] = this.tree[2*cm+1]
			this.tree[ptrHi] = this.tree[2*cm]
			break
		}

		if this.buf[cm+cLen] < this.buf[pos+cLen] {
			this.tree[ptrLo] = curMatch
			ptrLo = 2*cm + 1
			curMatch = this.tree[ptrLo]
			lenLo = cLen
		} else {
			this.tree[ptrHi] = curMatch
			ptrHi = 2 * cm
			curMatch = this.tree[ptrHi]
			lenHi = cLen
		}
	}
}

// MatchLenAt returns the common-prefix length of the bytes at a and b,
// capped at limit. Used by encoders to re-score a rep distance without a
// hash lookup.
func (this *BT4) MatchLenAt(a, b, limit int) uint32 {
	n := 0

	for n < limit && a+n < len(this.buf) && this.buf[a+n] == this.buf[b+n] {
		n++
	}

	return uint32(n)
}
