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
	"bufio"
	"bytes"
	"io"

	"github.com/gorazor/lzgo"
	"github.com/gorazor/lzgo/lzip"
)

// notify calls every listener's ProcessEvent, doing nothing when none were
// given — the variadic listeners parameter on DecodeAll/EncodeAll is the
// optional diagnostics sink spec.md §6 describes, wired to cmd/lzgo.
func notify(listeners []lzgo.Listener, evt *lzgo.Event) {
	for _, l := range listeners {
		if l != nil {
			l.ProcessEvent(evt)
		}
	}
}

// VolumeOpener hands EncodeAll a fresh destination once the current one
// reaches Options.VolumeSizeCap. A member is never split across the
// boundary: the driver always finishes the member it is writing into the
// old volume before asking for the next one.
type VolumeOpener interface {
	NextVolume() (io.WriteCloser, error)
}

// DecodeAll reads a concatenation of one or more lzip members from src (the
// multi-member case spec.md §4.8 requires every compliant decoder to
// support) and writes their uncompressed bytes, in order, to dst.
//
// At each member boundary it peeks the next Header-size bytes without
// consuming them, mirroring original_source/main.c's decompress(): a clean
// end of input ends the stream successfully; a full header that doesn't
// start with the lzip magic is trailing data, accepted silently unless
// Options.IgnoreTrailing is false; a short, truncated read that still
// shares a non-empty prefix with the magic is treated as a corrupt member
// unless Options.LooseTrailing relaxes that.
func DecodeAll(src io.Reader, dst io.Writer, opt Options, listeners ...lzgo.Listener) (bytesIn, bytesOut int64, err error) {
	br := bufio.NewReaderSize(src, 1<<16)
	memberNum := 0

	for {
		peek, peekErr := br.Peek(lzip.HeaderSize)

		if len(peek) == 0 {
			return bytesIn, bytesOut, nil
		}

		if peekErr != nil {
			// fewer than HeaderSize bytes remain: either a truncated next
			// member or plain trailing garbage shorter than a header.
			if lzip.MagicPrefixLen(peek) > 0 && !opt.LooseTrailing {
				return bytesIn, bytesOut, ErrCorruptMember
			}

			if !opt.IgnoreTrailing {
				return bytesIn, bytesOut, ErrTrailingData
			}

			notify(listeners, lzgo.NewEvent(lzgo.EvtTrailingData, memberNum, int64(len(peek)), "trailing data shorter than a header, ignored"))
			return bytesIn, bytesOut, nil
		}

		if !lzip.LooksLikeHeader(peek) {
			if !opt.IgnoreTrailing {
				return bytesIn, bytesOut, ErrTrailingData
			}

			notify(listeners, lzgo.NewEvent(lzgo.EvtTrailingData, memberNum, 0, "trailing data after last member, ignored"))
			return bytesIn, bytesOut, nil
		}

		if ds, hderr := lzip.DecodeHeader(peek); hderr == nil {
			notify(listeners, lzgo.NewEvent(lzgo.EvtHeaderDecoded, memberNum, int64(ds), ""))
		}

		notify(listeners, lzgo.NewEvent(lzgo.EvtMemberStart, memberNum, 0, ""))
		in, out, crcOK, merr := DecodeMember(br, dst)
		bytesIn += in
		bytesOut += out

		if merr != nil {
			return bytesIn, bytesOut, merr
		}

		if !crcOK {
			return bytesIn, bytesOut, ErrCRCMismatch
		}

		notify(listeners, lzgo.NewEvent(lzgo.EvtMemberEnd, memberNum, out, ""))
		memberNum++
	}
}

// EncodeAll compresses src into one or more lzip members written to first
// (and, once Options.VolumeSizeCap would be exceeded, to the volumes opener
// supplies), closing each volume as the driver moves past it.
//
// With neither cap set, src is compressed as a single member, matching
// plain lzip's default behavior. Options.MemberSizeCap (or, absent that,
// VolumeSizeCap) instead bounds how many input bytes are read into each
// member: because the encoder holds its whole input in memory rather than
// measuring compressed output incrementally, the cap is applied to input
// size rather than to the compressed member size clzip itself bisects
// against, so a member's compressed size is not bounded by the cap.
func EncodeAll(src io.Reader, first io.WriteCloser, opener VolumeOpener, opt Options, listeners ...lzgo.Listener) (bytesIn, bytesOut int64, err error) {
	opt = opt.WithDefaults()
	memberNum := 0

	if opt.MemberSizeCap <= 0 && opt.VolumeSizeCap <= 0 {
		notify(listeners, lzgo.NewEvent(lzgo.EvtMemberStart, memberNum, 0, ""))
		bytesIn, bytesOut, err = EncodeMember(src, first, opt)

		if err == nil {
			notify(listeners, lzgo.NewEvent(lzgo.EvtMemberEnd, memberNum, bytesOut, ""))
		}

		if cerr := first.Close(); err == nil {
			err = cerr
		}

		return bytesIn, bytesOut, err
	}

	chunkSize := opt.MemberSizeCap

	if chunkSize <= 0 {
		chunkSize = opt.VolumeSizeCap
	}

	buf := make([]byte, chunkSize)
	cur := first
	var curSize int64
	volumeNum := 0

	for {
		n, rerr := io.ReadFull(src, buf)

		if rerr != nil && rerr != io.EOF && rerr != io.ErrUnexpectedEOF {
			cur.Close()
			return bytesIn, bytesOut, rerr
		}

		if n > 0 {
			if opt.VolumeSizeCap > 0 && curSize > 0 && curSize+int64(n) > opt.VolumeSizeCap {
				if opener == nil {
					cur.Close()
					return bytesIn, bytesOut, ErrNoVolumeOpener
				}

				if cerr := cur.Close(); cerr != nil {
					return bytesIn, bytesOut, cerr
				}

				next, operr := opener.NextVolume()

				if operr != nil {
					return bytesIn, bytesOut, operr
				}

				cur = next
				curSize = 0
				volumeNum++
				notify(listeners, lzgo.NewEvent(lzgo.EvtVolumeSplit, memberNum, int64(volumeNum), ""))
			}

			notify(listeners, lzgo.NewEvent(lzgo.EvtMemberStart, memberNum, 0, ""))
			cw := &countingWriter{w: cur}
			in, out, merr := EncodeMember(bytes.NewReader(buf[:n]), cw, opt)
			bytesIn += in
			bytesOut += out
			curSize += cw.n

			if merr != nil {
				cur.Close()
				return bytesIn, bytesOut, merr
			}

			notify(listeners, lzgo.NewEvent(lzgo.EvtMemberEnd, memberNum, out, ""))
			memberNum++
		}

		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
	}

	return bytesIn, bytesOut, cur.Close()
}
