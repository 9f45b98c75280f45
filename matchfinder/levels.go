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

package matchfinder

// LevelParams is the (dictionary size, match-length limit) pair associated
// with one of the gzip/bzip2-style -0..-9 compression levels, mirroring
// clzip main.c's option_mapping table (SPEC_FULL.md §9).
type LevelParams struct {
	DictSize      int
	MatchLenLimit int
}

// levelTable is option_mapping verbatim: level 0 favors the fast greedy
// encoder with a tiny match-length limit, level 9 the optimal parser with
// the full 273-byte limit.
var levelTable = [10]LevelParams{
	{DictSize: 1 << 16, MatchLenLimit: 16},  // -0
	{DictSize: 1 << 20, MatchLenLimit: 5},   // -1
	{DictSize: 3 << 19, MatchLenLimit: 6},   // -2
	{DictSize: 1 << 21, MatchLenLimit: 8},   // -3
	{DictSize: 3 << 20, MatchLenLimit: 12},  // -4
	{DictSize: 1 << 22, MatchLenLimit: 20},  // -5
	{DictSize: 1 << 23, MatchLenLimit: 36},  // -6
	{DictSize: 1 << 24, MatchLenLimit: 68},  // -7
	{DictSize: 3 << 23, MatchLenLimit: 132}, // -8
	{DictSize: 1 << 25, MatchLenLimit: 273}, // -9
}

// DefaultLevel is clzip's own default ("-6").
const DefaultLevel = 6

// Level returns the (dictSize, matchLenLimit) pair for a gzip-style level in
// [0, 9]. An out-of-range level clamps to the nearest end.
func Level(n int) LevelParams {
	if n < 0 {
		n = 0
	} else if n > 9 {
		n = 9
	}

	return levelTable[n]
}

// NiceLen and Cycles derive the BT4 search-depth knobs from a match-length
// limit: the finder stops early once it has a match of niceLen (capped at
// the format's MaxMatchLen), and visits at most cycles tree nodes per
// position. Level 0 does not use them; its fast encoder runs the same BT4
// Skip/FindMatches path with a fixed niceLen and a fixed, shallow cycle count.
func NiceLen(matchLenLimit int) int {
	if matchLenLimit > MaxMatchLen {
		return MaxMatchLen
	}

	if matchLenLimit < 8 {
		return 8
	}

	return matchLenLimit
}

// Cycles scales search effort with the match-length limit: clzip's higher
// levels spend proportionally more time per position finding longer matches.
func Cycles(matchLenLimit int) int {
	c := matchLenLimit * 4

	if c < 16 {
		return 16
	}

	if c > 4096 {
		return 4096
	}

	return c
}
