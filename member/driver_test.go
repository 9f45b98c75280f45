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

package member

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeMemberRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")

	var out bytes.Buffer
	in, memberSize, err := EncodeMember(bytes.NewReader(payload), &out, Options{Level0: true})
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), in)
	require.Equal(t, int64(out.Len()), memberSize)

	var got bytes.Buffer
	bytesIn, bytesOut, crcOK, err := DecodeMember(bytes.NewReader(out.Bytes()), &got)
	require.NoError(t, err)
	require.True(t, crcOK)
	require.Equal(t, memberSize, bytesIn)
	require.Equal(t, int64(len(payload)), bytesOut)
	require.Equal(t, payload, got.Bytes())
}

func TestDecodeMemberDetectsCRCMismatch(t *testing.T) {
	var out bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("corrupt me")), &out, Options{Level0: true})
	require.NoError(t, err)

	raw := out.Bytes()
	raw[len(raw)-20] ^= 0xFF // flip every bit of the trailer's leading CRC32 byte

	var got bytes.Buffer
	_, _, _, err = DecodeMember(bytes.NewReader(raw), &got)
	require.ErrorIs(t, err, ErrCRCMismatch)
}

func TestDecodeMemberDetectsDataSizeMismatch(t *testing.T) {
	var out bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("corrupt me")), &out, Options{Level0: true})
	require.NoError(t, err)

	raw := out.Bytes()
	// trailer's data-size field starts 16 bytes before the end; bump its
	// low byte so it no longer matches the bytes the decoder actually
	// produces, without touching the leading CRC32 field.
	raw[len(raw)-16]++

	var got bytes.Buffer
	_, _, _, err = DecodeMember(bytes.NewReader(raw), &got)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestDecodeMemberDetectsMemberSizeMismatch(t *testing.T) {
	var out bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("corrupt me")), &out, Options{Level0: true})
	require.NoError(t, err)

	raw := out.Bytes()
	// trailer's member-size field is the last 8 bytes; bump its low byte
	// so it no longer matches the bytes actually consumed, without
	// touching the CRC32 or data-size fields ahead of it.
	raw[len(raw)-8]++

	var got bytes.Buffer
	_, _, _, err = DecodeMember(bytes.NewReader(raw), &got)
	require.ErrorIs(t, err, ErrMemberSizeMismatch)
}

func TestDecodeAllConcatenatedMembers(t *testing.T) {
	parts := [][]byte{
		[]byte("first member payload"),
		[]byte("second member payload, a bit longer than the first"),
		[]byte("third"),
	}

	var stream bytes.Buffer

	for _, p := range parts {
		_, _, err := EncodeMember(bytes.NewReader(p), &stream, Options{Level0: true})
		require.NoError(t, err)
	}

	var got bytes.Buffer
	bytesIn, bytesOut, err := DecodeAll(bytes.NewReader(stream.Bytes()), &got, Options{})
	require.NoError(t, err)
	require.Equal(t, int64(stream.Len()), bytesIn)

	var want bytes.Buffer

	for _, p := range parts {
		want.Write(p)
	}

	require.Equal(t, want.Bytes(), got.Bytes())
	require.Equal(t, int64(want.Len()), bytesOut)
}

func TestDecodeAllTrailingGarbageIgnoredByDefault(t *testing.T) {
	var stream bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("payload")), &stream, Options{Level0: true})
	require.NoError(t, err)
	stream.WriteString("not a member")

	var got bytes.Buffer
	_, _, err = DecodeAll(bytes.NewReader(stream.Bytes()), &got, Options{IgnoreTrailing: true})
	require.NoError(t, err)
	require.Equal(t, "payload", got.String())
}

func TestDecodeAllTrailingGarbageRejectedWhenConfigured(t *testing.T) {
	var stream bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("payload")), &stream, Options{Level0: true})
	require.NoError(t, err)
	stream.WriteString("not a member")

	var got bytes.Buffer
	_, _, err = DecodeAll(bytes.NewReader(stream.Bytes()), &got, Options{IgnoreTrailing: false})
	require.ErrorIs(t, err, ErrTrailingData)
}

func TestDecodeAllTruncatedNextMemberIsCorrupt(t *testing.T) {
	var stream bytes.Buffer
	_, _, err := EncodeMember(bytes.NewReader([]byte("payload")), &stream, Options{Level0: true})
	require.NoError(t, err)
	stream.WriteString("LZ") // shares a prefix with the magic, then cuts off

	var got bytes.Buffer
	_, _, err = DecodeAll(bytes.NewReader(stream.Bytes()), &got, Options{IgnoreTrailing: true})
	require.ErrorIs(t, err, ErrCorruptMember)
}

func TestDecodeAllEmptyInput(t *testing.T) {
	var got bytes.Buffer
	bytesIn, bytesOut, err := DecodeAll(bytes.NewReader(nil), &got, Options{})
	require.NoError(t, err)
	require.Equal(t, int64(0), bytesIn)
	require.Equal(t, int64(0), bytesOut)
}

// memVolumeOpener hands out fresh afero in-memory files, numbered
// sequentially, for EncodeAll's volume-splitting path.
type memVolumeOpener struct {
	fs      afero.Fs
	next    int
	opened  []string
	current afero.File
}

func (o *memVolumeOpener) NextVolume() (io.WriteCloser, error) {
	o.next++
	name := fmt.Sprintf("volume-%03d.lz", o.next)
	f, err := o.fs.Create(name)

	if err != nil {
		return nil, err
	}

	o.opened = append(o.opened, name)
	o.current = f
	return f, nil
}

func TestEncodeAllSplitsAcrossVolumes(t *testing.T) {
	fs := afero.NewMemMapFs()
	opener := &memVolumeOpener{fs: fs}

	first, err := opener.NextVolume()
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("volume splitting test data, "), 200)

	_, _, err = EncodeAll(bytes.NewReader(payload), first, opener, Options{
		Level0:        true,
		MemberSizeCap: 512,
		VolumeSizeCap: 1024,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(opener.opened), 1)

	var got bytes.Buffer

	for _, name := range opener.opened {
		data, err := afero.ReadFile(fs, name)
		require.NoError(t, err)

		_, _, derr := DecodeAll(bytes.NewReader(data), &got, Options{})
		require.NoError(t, derr)
	}

	require.Equal(t, payload, got.Bytes())
}
