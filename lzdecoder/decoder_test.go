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

package lzdecoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorazor/lzgo/crc"
	"github.com/gorazor/lzgo/lzma"
	"github.com/gorazor/lzgo/rangecoder"
)

// errWriter fails every write, simulating a downstream io_error (a full
// disk, a closed pipe) while output is still being produced.
type errWriter struct{}

var errWriteFailed = errors.New("write failed")

func (errWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

// failAfterWriter accepts its first ok writes, then fails every later one.
type failAfterWriter struct {
	ok int
}

func (w *failAfterWriter) Write(p []byte) (int, error) {
	if w.ok == 0 {
		return 0, errWriteFailed
	}

	w.ok--
	return len(p), nil
}

// encodeLiteralsAndEOS hand-encodes a literal-only payload followed by the
// end-of-stream marker, independently of the lzencoder package, so this
// package's tests do not depend on it.
func encodeLiteralsAndEOS(t *testing.T, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	rc := rangecoder.NewEncoder(&buf)
	probs := lzma.NewProbs()
	state := lzma.State(0)
	var pos uint64
	var prevByte byte

	for _, b := range payload {
		posState := lzma.PosState(pos)
		require.NoError(t, rc.EncodeBit(&probs.IsMatch[state][posState], 0))

		ctx := lzma.LiteralContext(prevByte)

		if state.IsLiteralState() {
			require.NoError(t, lzma.EncodeLiteral(rc, probs.Literal[ctx], b))
		} else {
			require.NoError(t, lzma.EncodeLiteralMatched(rc, probs.Literal[ctx], 0, b))
		}

		state = state.UpdateLiteral()
		prevByte = b
		pos++
	}

	posState := lzma.PosState(pos)
	require.NoError(t, rc.EncodeBit(&probs.IsMatch[state][posState], 1))
	require.NoError(t, rc.EncodeBit(&probs.IsRep[state], 0))
	require.NoError(t, probs.MatchLen.Encode(rc, 0, posState))
	require.NoError(t, lzma.EncodeDistance(rc, probs, lzma.EndOfStreamDistance, lzma.LenState(lzma.MinMatchLen)))
	require.NoError(t, rc.Flush())

	return buf.Bytes()
}

func TestDecodeLiteralsAndEOS(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	stream := encodeLiteralsAndEOS(t, payload)

	var out bytes.Buffer
	dec, err := New(bytes.NewReader(stream), &out, 1<<16)
	require.NoError(t, err)
	n, err := dec.Decode()

	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), n)
	require.Equal(t, payload, out.Bytes())
	require.Equal(t, crc.Checksum(payload), dec.CRC32())
}

func TestDecodeEmptyPayload(t *testing.T) {
	stream := encodeLiteralsAndEOS(t, nil)

	var out bytes.Buffer
	dec, err := New(bytes.NewReader(stream), &out, 1<<16)
	require.NoError(t, err)
	n, err := dec.Decode()

	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
	require.Equal(t, 0, out.Len())
}

func TestDecodeLiteralPropagatesWriteError(t *testing.T) {
	stream := encodeLiteralsAndEOS(t, []byte("x"))

	dec, err := New(bytes.NewReader(stream), errWriter{}, 1<<16)
	require.NoError(t, err)
	_, err = dec.Decode()
	require.ErrorIs(t, err, errWriteFailed)
}

func TestDecodeShortRepPropagatesWriteError(t *testing.T) {
	// "aa" decodes as one literal followed by a short rep (dist 0). The
	// writer accepts the literal's byte and fails the short rep's, so the
	// error must surface from the putByte call in decodeRep.
	var buf bytes.Buffer
	rc := rangecoder.NewEncoder(&buf)
	probs := lzma.NewProbs()
	state := lzma.State(0)

	require.NoError(t, rc.EncodeBit(&probs.IsMatch[state][0], 0))
	require.NoError(t, lzma.EncodeLiteral(rc, probs.Literal[lzma.LiteralContext(0)], 'a'))
	state = state.UpdateLiteral()

	require.NoError(t, rc.EncodeBit(&probs.IsMatch[state][1], 1))
	require.NoError(t, rc.EncodeBit(&probs.IsRep[state], 1))
	require.NoError(t, rc.EncodeBit(&probs.IsRepG0[state], 0))
	require.NoError(t, rc.EncodeBit(&probs.IsRep0Long[state][1], 0))
	require.NoError(t, rc.Flush())

	dec, err := New(bytes.NewReader(buf.Bytes()), &failAfterWriter{ok: 1}, 1<<16)
	require.NoError(t, err)
	_, err = dec.Decode()
	require.ErrorIs(t, err, errWriteFailed)
}

func TestCopyMatchRejectsOutOfRangeDistance(t *testing.T) {
	dec, err := New(bytes.NewReader(make([]byte, 5)), &bytes.Buffer{}, 64)
	require.NoError(t, err)
	err = dec.copyMatch(5, 4) // nothing written yet: any positive distance is out of range
	require.ErrorIs(t, err, ErrCorruptStream)
}
