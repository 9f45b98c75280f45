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

// Command lzgo is a thin CLI driver over the member package: it wires
// urfave/cli/v2 flags onto member.Options and member.EncodeAll/DecodeAll,
// and maps every returned error onto the exit-code contract in lzgo.go.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gorazor/lzgo"
	"github.com/gorazor/lzgo/lzdecoder"
	"github.com/gorazor/lzgo/lzip"
	"github.com/gorazor/lzgo/matchfinder"
	"github.com/gorazor/lzgo/member"
	"github.com/gorazor/lzgo/rangecoder"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := &cli.App{
		Name:            "lzgo",
		Usage:           "compress or decompress files in the lzip format",
		Version:         "1.0.0",
		ArgsUsage:       "[file]",
		Flags:           flags(),
		Action:          action,
		HideHelpCommand: true,
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintln(os.Stderr, "lzgo:", err)
		return exitCodeFor(err)
	}

	return lzgo.ExitSuccess
}

func flags() []cli.Flag {
	fs := []cli.Flag{
		&cli.BoolFlag{Name: "decompress", Aliases: []string{"d"}, Usage: "decompress"},
		&cli.BoolFlag{Name: "stdout", Aliases: []string{"c"}, Usage: "write to stdout"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "report each member to stderr"},
		&cli.Int64Flag{Name: "member-size", Usage: "start a new member after this many input bytes (compressed member size is not bounded)"},
		&cli.Int64Flag{Name: "volume-size", Usage: "split compressed output across volumes of at most this many bytes"},
		&cli.BoolFlag{Name: "trailing-error", Usage: "treat trailing non-member data as an error"},
		&cli.BoolFlag{Name: "loose-trailing", Usage: "treat data that merely resembles a truncated member as trailing data"},
		&cli.IntFlag{Name: "match-length", Usage: "override the match length limit for the chosen level"},
	}

	for n := 0; n <= 9; n++ {
		fs = append(fs, &cli.BoolFlag{Name: fmt.Sprintf("%d", n), Usage: fmt.Sprintf("compression level %d", n)})
	}

	return fs
}

func levelFromFlags(c *cli.Context) int {
	level := -1

	for n := 0; n <= 9; n++ {
		if c.Bool(fmt.Sprintf("%d", n)) {
			level = n
		}
	}

	if level < 0 {
		return matchfinder.DefaultLevel
	}

	return level
}

func action(c *cli.Context) error {
	src, closeSrc, err := openInput(c)

	if err != nil {
		return err
	}

	defer closeSrc()

	decompress := c.Bool("decompress")
	listener := &stderrListener{enabled: c.Bool("verbose")}

	if decompress {
		dst, closeDst, err := openOutput(c)

		if err != nil {
			return err
		}

		defer closeDst()

		opt := member.Options{
			IgnoreTrailing: !c.Bool("trailing-error"),
			LooseTrailing:  c.Bool("loose-trailing"),
		}

		_, _, err = member.DecodeAll(src, dst, opt, listener)
		return err
	}

	var first io.WriteCloser

	if c.Bool("stdout") || c.String("output") == "" {
		first = closeableWriter{os.Stdout}
	} else {
		f, err := os.Create(c.String("output"))

		if err != nil {
			return err
		}

		first = f
	}

	lvl := matchfinder.Level(levelFromFlags(c))
	opt := member.Options{
		DictSize:      lvl.DictSize,
		MatchLenLimit: lvl.MatchLenLimit,
		Level0:        levelFromFlags(c) == 0,
		MemberSizeCap: c.Int64("member-size"),
		VolumeSizeCap: c.Int64("volume-size"),
	}

	if ml := c.Int("match-length"); ml > 0 {
		opt.MatchLenLimit = ml
	}

	var opener member.VolumeOpener

	if opt.VolumeSizeCap > 0 {
		base := c.String("output")

		if base == "" {
			return errors.New("a --volume-size split requires --output to name the first volume")
		}

		opener = &fileVolumeOpener{base: base}
	}

	_, _, err = member.EncodeAll(src, first, opener, opt, listener)
	return err
}

// closeableWriter forwards Write to an already-open io.WriteCloser and makes
// Close a no-op: EncodeAll closes its first destination, and os.Stdout must
// never actually be closed.
type closeableWriter struct {
	w io.WriteCloser
}

func (c closeableWriter) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c closeableWriter) Close() error                { return nil }

func openInput(c *cli.Context) (io.Reader, func(), error) {
	if c.Args().Len() == 0 {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(c.Args().First())

	if err != nil {
		return nil, func() {}, err
	}

	return f, func() { f.Close() }, nil
}

func openOutput(c *cli.Context) (io.Writer, func(), error) {
	if c.Bool("stdout") || c.String("output") == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(c.String("output"))

	if err != nil {
		return nil, func() {}, err
	}

	return f, func() { f.Close() }, nil
}

// fileVolumeOpener names successive volumes base, base.v2, base.v3, ...
type fileVolumeOpener struct {
	base string
	next int
}

func (o *fileVolumeOpener) NextVolume() (io.WriteCloser, error) {
	o.next++
	return os.Create(fmt.Sprintf("%s.v%d", o.base, o.next+1))
}

// stderrListener reports each member boundary when verbose is set.
type stderrListener struct {
	enabled bool
}

func (l *stderrListener) ProcessEvent(evt *lzgo.Event) {
	if l.enabled {
		fmt.Fprintln(os.Stderr, evt.String())
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return lzgo.ExitSuccess
	}

	var uv *lzip.UnsupportedVersionError

	switch {
	case errors.As(err, &uv):
		return lzgo.ExitDataError
	case errors.Is(err, lzip.ErrBadMagic),
		errors.Is(err, lzip.ErrBadDictSize),
		errors.Is(err, lzip.ErrBadTrailer),
		errors.Is(err, lzip.ErrShortHeader),
		errors.Is(err, member.ErrCorruptMember),
		errors.Is(err, member.ErrTrailingData),
		errors.Is(err, member.ErrTruncated),
		errors.Is(err, member.ErrCRCMismatch),
		errors.Is(err, member.ErrSizeMismatch),
		errors.Is(err, member.ErrMemberSizeMismatch),
		errors.Is(err, lzdecoder.ErrCorruptStream),
		errors.Is(err, rangecoder.ErrTruncated):
		return lzgo.ExitDataError
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, member.ErrNoVolumeOpener),
		errors.Is(err, io.ErrUnexpectedEOF):
		return lzgo.ExitEnvironment
	default:
		return lzgo.ExitInternal
	}
}
