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

package lzip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	for _, want := range []uint32{1 << 12, 1 << 16, 3 << 19, 1 << 20, 1 << 25, 1 << 29} {
		h := EncodeHeader(want)
		require.Len(t, h, HeaderSize)

		got, err := DecodeHeader(h)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, want)
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	h := EncodeHeader(1 << 20)
	h[0] = 'X'
	_, err := DecodeHeader(h)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeHeaderUnsupportedVersion(t *testing.T) {
	h := EncodeHeader(1 << 20)
	h[4] = 2
	_, err := DecodeHeader(h)

	var uv *UnsupportedVersionError
	require.ErrorAs(t, err, &uv)
	require.Equal(t, byte(2), uv.Version)
	require.Contains(t, uv.Error(), "2")
}

func TestDecodeHeaderBadDictSize(t *testing.T) {
	h := EncodeHeader(1 << 20)
	h[5] = 0 // bits=0 -> base=1, far below the 4 KiB floor
	_, err := DecodeHeader(h)
	require.ErrorIs(t, err, ErrBadDictSize)
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader([]byte{'L', 'Z', 'I'})
	require.ErrorIs(t, err, ErrShortHeader)
}

func TestLooksLikeHeader(t *testing.T) {
	require.True(t, LooksLikeHeader([]byte("LZIP\x01\x00")))
	require.False(t, LooksLikeHeader([]byte("garb")))
	require.False(t, LooksLikeHeader([]byte("LZ")))
}

func TestTrailerRoundTrip(t *testing.T) {
	tr := EncodeTrailer(0xCBF43926, 9, 29)
	require.Len(t, tr, TrailerSize)

	crc32, dataSize, memberSize, err := DecodeTrailer(tr)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCBF43926), crc32)
	require.Equal(t, uint64(9), dataSize)
	require.Equal(t, uint64(29), memberSize)
}

func TestDecodeTrailerShort(t *testing.T) {
	_, _, _, err := DecodeTrailer(make([]byte, 10))
	require.ErrorIs(t, err, ErrBadTrailer)
}

func TestEncodeHeaderClampsToBounds(t *testing.T) {
	h := EncodeHeader(1) // far below the floor
	ds, err := DecodeHeader(h)
	require.NoError(t, err)
	require.Equal(t, uint32(MinDictSize), ds)

	h = EncodeHeader(1 << 31) // far above the ceiling
	ds, err = DecodeHeader(h)
	require.NoError(t, err)
	require.Equal(t, uint32(MaxDictSize), ds)
}
