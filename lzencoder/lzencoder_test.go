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
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorazor/lzgo/lzdecoder"
)

func roundTrip(t *testing.T, payload []byte, fast bool) {
	t.Helper()

	var out bytes.Buffer
	const dictSize = 1 << 16

	var enc *Encoder

	if fast {
		enc = NewFast(&out, payload, dictSize)
	} else {
		enc = NewOptimal(&out, payload, dictSize, 273)
	}

	var size uint64
	var sum uint32
	var err error

	if fast {
		size, sum, err = enc.EncodeFast()
	} else {
		size, sum, err = enc.EncodeOptimal()
	}

	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), size)

	var decoded bytes.Buffer
	dec, err := lzdecoder.New(bytes.NewReader(out.Bytes()), &decoded, dictSize)
	require.NoError(t, err)

	n, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), n)
	require.Equal(t, payload, decoded.Bytes())
	require.Equal(t, sum, dec.CRC32())
}

func TestFastRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil, true)
}

func TestFastRoundTripPlainText(t *testing.T) {
	roundTrip(t, []byte("the quick brown fox jumps over the lazy dog, again and again and again"), true)
}

func TestFastRoundTripRepeats(t *testing.T) {
	payload := bytes.Repeat([]byte("abcabcabcabcabcabc xyzxyzxyz "), 200)
	roundTrip(t, payload, true)
}

func TestOptimalRoundTripEmpty(t *testing.T) {
	roundTrip(t, nil, false)
}

func TestOptimalRoundTripPlainText(t *testing.T) {
	roundTrip(t, []byte("the quick brown fox jumps over the lazy dog, again and again and again"), false)
}

func TestOptimalRoundTripRepeats(t *testing.T) {
	payload := bytes.Repeat([]byte("abcabcabcabcabcabc xyzxyzxyz "), 200)
	roundTrip(t, payload, false)
}

func TestOptimalRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	payload := make([]byte, 8192)
	r.Read(payload)
	roundTrip(t, payload, false)
}

func TestFastRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	payload := make([]byte, 8192)
	r.Read(payload)
	roundTrip(t, payload, true)
}

func TestOptimalBeatsOrMatchesFastOnCompressibleInput(t *testing.T) {
	payload := bytes.Repeat([]byte("mississippi river mist "), 500)

	var fastOut, optOut bytes.Buffer
	fastEnc := NewFast(&fastOut, payload, 1<<16)
	_, _, err := fastEnc.EncodeFast()
	require.NoError(t, err)

	optEnc := NewOptimal(&optOut, payload, 1<<16, 273)
	_, _, err = optEnc.EncodeOptimal()
	require.NoError(t, err)

	require.LessOrEqual(t, optOut.Len(), fastOut.Len())
}
