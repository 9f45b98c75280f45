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
	"io"

	"github.com/gorazor/lzgo/lzdecoder"
	"github.com/gorazor/lzgo/lzencoder"
	"github.com/gorazor/lzgo/lzip"
)

// countingWriter tracks how many bytes have passed through it, so the
// member trailer's member-size field can be computed without a second pass.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// countingReader tracks how many bytes have been pulled from it, so
// DecodeMember can measure the compressed payload actually consumed by the
// range decoder without the decoder itself needing to know about framing.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// EncodeMember reads all of src, compresses it as a single lzip member
// under opt, and writes header + payload + trailer to dst.
func EncodeMember(src io.Reader, dst io.Writer, opt Options) (bytesIn, bytesOut int64, err error) {
	data, err := io.ReadAll(src)

	if err != nil {
		return 0, 0, err
	}

	opt = opt.WithDefaults()
	header := lzip.EncodeHeader(uint32(opt.DictSize))

	if _, err := dst.Write(header); err != nil {
		return int64(len(data)), 0, err
	}

	cw := &countingWriter{w: dst}

	var size uint64
	var sum uint32

	if opt.Level0 {
		enc := lzencoder.NewFast(cw, data, opt.DictSize)
		size, sum, err = enc.EncodeFast()
	} else {
		enc := lzencoder.NewOptimal(cw, data, opt.DictSize, opt.MatchLenLimit)
		size, sum, err = enc.EncodeOptimal()
	}

	if err != nil {
		return int64(len(data)), int64(lzip.HeaderSize) + cw.n, err
	}

	memberSize := int64(lzip.HeaderSize) + cw.n + int64(lzip.TrailerSize)
	trailer := lzip.EncodeTrailer(sum, size, uint64(memberSize))

	if _, err := dst.Write(trailer); err != nil {
		return int64(len(data)), memberSize, err
	}

	return int64(len(data)), memberSize, nil
}

// DecodeMember reads one lzip member from src (header, range-coded payload,
// trailer), writes its uncompressed bytes to dst, and reports whether the
// trailer's CRC, data-size and member-size fields all matched what was
// actually produced (spec.md §4.8, §6: "verify CRC, data-size, member-size").
func DecodeMember(src io.Reader, dst io.Writer) (bytesIn, bytesOut int64, crcOK bool, err error) {
	hdr := make([]byte, lzip.HeaderSize)

	if _, err := io.ReadFull(src, hdr); err != nil {
		return 0, 0, false, err
	}

	ds, err := lzip.DecodeHeader(hdr)

	if err != nil {
		return int64(lzip.HeaderSize), 0, false, err
	}

	cr := &countingReader{r: src}
	dec, err := lzdecoder.New(cr, dst, int(ds))

	if err != nil {
		return int64(lzip.HeaderSize), 0, false, err
	}

	size, err := dec.Decode()

	if err != nil {
		return int64(lzip.HeaderSize) + cr.n, int64(size), false, err
	}

	trailer := make([]byte, lzip.TrailerSize)

	if _, err := io.ReadFull(src, trailer); err != nil {
		return int64(lzip.HeaderSize) + cr.n, int64(size), false, err
	}

	crc32, dataSize, memberSize, err := lzip.DecodeTrailer(trailer)

	actualMemberSize := int64(lzip.HeaderSize) + cr.n + int64(lzip.TrailerSize)

	if err != nil {
		return actualMemberSize, int64(size), false, err
	}

	switch {
	case crc32 != dec.CRC32():
		return actualMemberSize, int64(size), false, ErrCRCMismatch
	case dataSize != size:
		return actualMemberSize, int64(size), false, ErrSizeMismatch
	case memberSize != uint64(actualMemberSize):
		return actualMemberSize, int64(size), false, ErrMemberSizeMismatch
	}

	return actualMemberSize, int64(size), true, nil
}
