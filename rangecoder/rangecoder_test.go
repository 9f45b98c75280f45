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

package rangecoder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBitRoundTrip(t *testing.T) {
	bits := []uint32{1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0, 1}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	encProb := InitProb

	for _, b := range bits {
		require.NoError(t, enc.EncodeBit(&encProb, b))
	}

	require.NoError(t, enc.Flush())

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	decProb := InitProb

	for _, want := range bits {
		got, err := dec.DecodeBit(&decProb)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	require.Equal(t, encProb, decProb)
}

func TestEncodeDecodeDirectBitsRoundTrip(t *testing.T) {
	values := []struct {
		v uint32
		n uint
	}{
		{0, 4}, {15, 4}, {1, 1}, {0x1234, 16}, {0xFFFFFFFF, 32},
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	for _, v := range values {
		require.NoError(t, enc.EncodeDirectBits(v.v, v.n))
	}

	require.NoError(t, enc.Flush())

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	for _, v := range values {
		got, err := dec.DecodeDirectBits(v.n)
		require.NoError(t, err)

		mask := uint32(0xFFFFFFFF)

		if v.n < 32 {
			mask = (uint32(1) << v.n) - 1
		}

		require.Equal(t, v.v&mask, got)
	}
}

func TestEncodeTreeRoundTrip(t *testing.T) {
	symbols := []uint32{0, 1, 7, 200, 255}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	probs := NewProbs(1 << 8)

	for _, s := range symbols {
		require.NoError(t, enc.EncodeTree(probs, 8, s))
	}

	require.NoError(t, enc.Flush())

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	decProbs := NewProbs(1 << 8)

	for _, want := range symbols {
		got, err := dec.DecodeTree(decProbs, 8)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestLengthCoderRoundTrip(t *testing.T) {
	syms := []uint32{0, 3, 7, 8, 15, 16, 100, 271}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	lc := NewLengthCoder()

	for i, s := range syms {
		require.NoError(t, lc.Encode(enc, s, uint32(i)%NumPosStates))
	}

	require.NoError(t, enc.Flush())

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	dlc := NewLengthCoder()

	for i, want := range syms {
		got, err := dlc.Decode(dec, uint32(i)%NumPosStates)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecoderTruncatedStream(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader([]byte{0, 1}))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestBitPriceMonotonicWithProbability(t *testing.T) {
	// Encoding the bit the predictor favors should always cost less than
	// encoding the bit it doesn't.
	require.Less(t, BitPrice(3*BitModelTotal/4, 0), BitPrice(3*BitModelTotal/4, 1))
}
