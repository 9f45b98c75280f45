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

import (
	"github.com/gorazor/lzgo/internal"
	"github.com/gorazor/lzgo/rangecoder"
)

// DistanceSlot maps a coded distance (the wire value, i.e. real distance
// minus one) to its slot in [0, NumPosSlots), per spec.md §4.3: slots 0..3
// equal the distance directly; slots >= 4 encode floor(log2(dist))*2 plus
// the bit just below the top one.
func DistanceSlot(dist uint32) uint32 {
	if dist < StartPosModelIndex {
		return dist
	}

	n := internal.Log2NoCheck(dist)
	return (n << 1) | ((dist >> (n - 1)) & 1)
}

// EncodeDistance encodes a coded distance (real distance - 1) given the
// length bucket it was paired with.
func EncodeDistance(rc *rangecoder.Encoder, p *Probs, dist, lenState uint32) error {
	slot := DistanceSlot(dist)

	if err := rc.EncodeTree(p.PosSlot[lenState], NumPosSlotBits, slot); err != nil {
		return err
	}

	if slot < StartPosModelIndex {
		return nil
	}

	footerBits := (slot >> 1) - 1
	base := (2 | (slot & 1)) << footerBits
	reduced := dist - base

	if slot < EndPosModelIndex {
		offset := int(base) - int(slot) - 1
		return rc.EncodeTreeReversedSlice(p.SpecPos, offset, uint(footerBits), reduced)
	}

	if err := rc.EncodeDirectBits(reduced>>AlignBits, uint(footerBits-AlignBits)); err != nil {
		return err
	}

	return rc.EncodeTreeReversed(p.Align, AlignBits, reduced&(NumAlignSlots-1))
}

// DecodeDistance is the symmetric counterpart of EncodeDistance.
func DecodeDistance(rc *rangecoder.Decoder, p *Probs, lenState uint32) (uint32, error) {
	slot, err := rc.DecodeTree(p.PosSlot[lenState], NumPosSlotBits)

	if err != nil {
		return 0, err
	}

	if slot < StartPosModelIndex {
		return slot, nil
	}

	footerBits := (slot >> 1) - 1
	base := (2 | (slot & 1)) << footerBits

	if slot < EndPosModelIndex {
		offset := int(base) - int(slot) - 1
		reduced, err := rc.DecodeTreeReversedSlice(p.SpecPos, offset, uint(footerBits))

		if err != nil {
			return 0, err
		}

		return base + reduced, nil
	}

	direct, err := rc.DecodeDirectBits(uint(footerBits - AlignBits))

	if err != nil {
		return 0, err
	}

	align, err := rc.DecodeTreeReversed(p.Align, AlignBits)

	if err != nil {
		return 0, err
	}

	return base + (direct << AlignBits) + align, nil
}
