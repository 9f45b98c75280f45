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

// Package crc computes the IEEE CRC32 used in the lzip member trailer:
// reflected polynomial 0xEDB88320, one byte at a time. The digest stores the
// finished checksum (0 for no input); Update inverts it on entry and exit,
// which gives the standard CRC-32 (check value 0xCBF43926 for "123456789").
package crc

const poly = 0xEDB88320

var table = buildTable()

func buildTable() [256]uint32 {
	var t [256]uint32

	for i := range t {
		c := uint32(i)

		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = poly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}

		t[i] = c
	}

	return t
}

// Digest accumulates a CRC32 over successive calls to Update, matching the
// running checksum lzip stores in the member trailer.
type Digest struct {
	crc uint32
}

// New creates a Digest seeded to 0, as required by the lzip trailer format.
func New() *Digest {
	return &Digest{crc: 0}
}

// Update folds the given bytes into the running checksum.
func (this *Digest) Update(p []byte) {
	c := this.crc ^ 0xFFFFFFFF

	for _, b := range p {
		c = table[byte(c)^b] ^ (c >> 8)
	}

	this.crc = c ^ 0xFFFFFFFF
}

// Sum returns the CRC32 of all bytes seen so far.
func (this *Digest) Sum() uint32 {
	return this.crc
}

// Reset restores the digest to its initial (seed 0) state.
func (this *Digest) Reset() {
	this.crc = 0
}

// Checksum is a convenience one-shot CRC32 over a single buffer.
func Checksum(p []byte) uint32 {
	d := New()
	d.Update(p)
	return d.Sum()
}
