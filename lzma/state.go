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

// State is the 12-valued automaton of spec.md's GLOSSARY: it summarizes the
// class of the last couple of emitted symbols (literal, match, rep,
// short-rep) and indexes several of the context arrays below. State 0 is the
// initial state at the start of a member, and UpdateLiteral returns to it
// from any of states 0..3.
type State uint32

// UpdateLiteral returns the state reached after emitting a literal.
func (s State) UpdateLiteral() State {
	switch {
	case s < 4:
		return 0
	case s < 10:
		return s - 3
	default:
		return s - 6
	}
}

// UpdateMatch returns the state reached after emitting a full match.
func (s State) UpdateMatch() State {
	if s < 7 {
		return 7
	}

	return 10
}

// UpdateRep returns the state reached after emitting a rep (any of rep0..3).
func (s State) UpdateRep() State {
	if s < 7 {
		return 8
	}

	return 11
}

// UpdateShortRep returns the state reached after emitting a short-rep
// (rep0 of length 1).
func (s State) UpdateShortRep() State {
	if s < 7 {
		return 9
	}

	return 11
}

// IsLiteralState reports whether the state indicates the previous symbol was
// a literal, in which case the next literal is coded with the plain tree; a
// match/rep-derived state (IsLiteralState == false) instead uses the
// matched-byte tree (spec.md §4.7).
func (s State) IsLiteralState() bool {
	return s < 7
}
