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

// Package rangecoder implements the binary range (arithmetic) coder that
// the lzip-compatible LZMA core codes every symbol through, layered with
// the bit-tree, reverse bit-tree and three-tier length codecs built on top
// of it (spec.md §4.2, §4.3).
//
// It is adapted from the interval-halving arithmetic coder in
// entropy/BinaryEntropyCodec.go of the teacher package, reworked to use
// the cache/cache_size carry-propagation scheme the lzip wire format
// requires instead of the dual low/high bound the teacher uses. Byte I/O
// at the coder's boundary goes through github.com/icza/bitio, which both
// sides use purely at byte granularity (every WriteByte/ReadByte call is
// already bit-aligned, so its bit-accumulator path never activates).
package rangecoder

import (
	"errors"
	"io"

	"github.com/icza/bitio"
)

const (
	// BitModelTotal is 2^11: every predictor lives in [0, BitModelTotal).
	BitModelTotal = 1 << 11
	numMoveBits   = 5
	topValue      = 1 << 24
)

// ErrTruncated is returned by the decoder when the underlying source runs
// out of bytes before the range coder's renormalization is satisfied.
var ErrTruncated = errors.New("rangecoder: truncated stream")

// InitProb is the seed value for every freshly constructed 11-bit predictor:
// BitModelTotal / 2, representing equal probability of 0 and 1.
const InitProb = uint16(BitModelTotal / 2)

// NewProbs returns a slice of n predictors, all seeded to InitProb.
func NewProbs(n int) []uint16 {
	p := make([]uint16, n)

	for i := range p {
		p[i] = InitProb
	}

	return p
}

// Encoder is a renormalizing binary range encoder. It defers exactly one
// pending output byte (cache) and counts a run of pending 0xFF bytes
// (cacheSize) so that a late carry out of low can still propagate into
// already-queued output, per spec.md §4.2.
type Encoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize uint64
	bw        *bitio.Writer
}

// NewEncoder creates an Encoder writing to out.
func NewEncoder(out io.Writer) *Encoder {
	return &Encoder{
		rng:       0xFFFFFFFF,
		cache:     0, // the encoder always emits this as the first output byte
		cacheSize: 1,
		bw:        bitio.NewWriter(out),
	}
}

// EncodeBit encodes one bit using the predictor at *prob, then updates it.
func (this *Encoder) EncodeBit(prob *uint16, bit uint32) error {
	bound := (this.rng >> 11) * uint32(*prob)

	if bit == 0 {
		this.rng = bound
		*prob += uint16((BitModelTotal - uint32(*prob)) >> numMoveBits)
	} else {
		this.low += uint64(bound)
		this.rng -= bound
		*prob -= *prob >> numMoveBits
	}

	for this.rng < topValue {
		this.rng <<= 8

		if err := this.shiftLow(); err != nil {
			return err
		}
	}

	return nil
}

// EncodeDirectBits encodes the n low bits of v (n in [1..32]) as equi-probable
// bits, used for the high-order bits of large distances (spec.md §4.3).
func (this *Encoder) EncodeDirectBits(v uint32, n uint) error {
	for i := int(n) - 1; i >= 0; i-- {
		this.rng >>= 1

		if (v>>uint(i))&1 != 0 {
			this.low += uint64(this.rng)
		}

		if this.rng < topValue {
			this.rng <<= 8

			if err := this.shiftLow(); err != nil {
				return err
			}
		}
	}

	return nil
}

// shiftLow flushes the top byte of low once it is no longer subject to carry,
// propagating a pending carry into the cached byte and any queued 0xFF run.
func (this *Encoder) shiftLow() error {
	if uint32(this.low>>32) != 0 || this.low < 0xFF000000 {
		carry := byte(this.low >> 32)
		temp := this.cache

		for {
			if err := this.writeByte(temp + carry); err != nil {
				return err
			}

			temp = 0xFF
			this.cacheSize--

			if this.cacheSize == 0 {
				break
			}
		}

		this.cache = byte(this.low >> 24)
	}

	this.cacheSize++
	this.low = (this.low & 0x00FFFFFF) << 8
	return nil
}

func (this *Encoder) writeByte(b byte) error {
	return this.bw.WriteByte(b)
}

// Flush drains the remaining cached bytes (5 shiftLow calls are enough to
// push every bit of low out, matching the LZMA reference coder). Call once
// at end of member, after the end-marker; it does not close the underlying
// writer, so the caller may still append a trailer after it returns.
func (this *Encoder) Flush() error {
	for i := 0; i < 5; i++ {
		if err := this.shiftLow(); err != nil {
			return err
		}
	}

	_, err := this.bw.Align()
	return err
}

// Decoder is the symmetric renormalizing decoder. It keeps a small
// read-ahead buffer filled from src and fails with ErrTruncated if asked to
// renormalize past the end of input.
type Decoder struct {
	rng  uint32
	code uint32
	br   *bitio.Reader
}

// NewDecoder creates a Decoder reading from in and primes code with the 5
// initial bytes the encoder always emits (the first is always 0, a byproduct
// of the encoder's seed cache).
func NewDecoder(in io.Reader) (*Decoder, error) {
	this := &Decoder{
		rng: 0xFFFFFFFF,
		br:  bitio.NewReader(in),
	}

	for i := 0; i < 5; i++ {
		b, err := this.readByte()

		if err != nil {
			return nil, err
		}

		this.code = (this.code << 8) | uint32(b)
	}

	return this, nil
}

func (this *Decoder) readByte() (byte, error) {
	b, err := this.br.ReadByte()

	if err != nil {
		return 0, ErrTruncated
	}

	return b, nil
}

// DecodeBit decodes one bit using the predictor at *prob, then updates it.
func (this *Decoder) DecodeBit(prob *uint16) (uint32, error) {
	bound := (this.rng >> 11) * uint32(*prob)
	var bit uint32

	if this.code < bound {
		this.rng = bound
		*prob += uint16((BitModelTotal - uint32(*prob)) >> numMoveBits)
		bit = 0
	} else {
		this.code -= bound
		this.rng -= bound
		*prob -= *prob >> numMoveBits
		bit = 1
	}

	for this.rng < topValue {
		b, err := this.readByte()

		if err != nil {
			return 0, err
		}

		this.rng <<= 8
		this.code = (this.code << 8) | uint32(b)
	}

	return bit, nil
}

// DecodeDirectBits decodes n equi-probable bits, symmetric to EncodeDirectBits.
func (this *Decoder) DecodeDirectBits(n uint) (uint32, error) {
	var res uint32

	for i := uint(0); i < n; i++ {
		this.rng >>= 1
		this.code -= this.rng
		t := uint32(0) - (this.code >> 31)
		this.code += this.rng & t
		res = (res << 1) + (t + 1)

		if this.rng < topValue {
			b, err := this.readByte()

			if err != nil {
				return 0, err
			}

			this.rng <<= 8
			this.code = (this.code << 8) | uint32(b)
		}
	}

	return res, nil
}
