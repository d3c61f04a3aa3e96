// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqfile

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Format is a sequence file grammar.
type Format int

const (
	// Unknown is the zero Format. It is never returned alongside a nil error.
	Unknown Format = iota
	// Fasta is the FASTA format.
	Fasta
	// Fastq is the 4-line FASTQ format.
	Fastq
	// GenBank is the GenBank flat file format.
	GenBank
	// Embl is the EMBL flat file format.
	Embl
)

var formatNames = [...]string{Unknown: "unknown", Fasta: "fasta", Fastq: "fastq", GenBank: "genbank", Embl: "embl"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "invalid"
	}
	return formatNames[f]
}

// SniffSize is the number of leading characters examined by ResolveFormat when
// the file name does not determine the format.
const SniffSize = 2048

// ErrUnresolvedFormat is the cause of the error returned by ResolveFormat when
// neither the name nor the content identify the format.
var ErrUnresolvedFormat = errors.New("unresolved sequence file format")

var extFormats = []struct {
	ext    string
	format Format
}{
	{".fasta", Fasta},
	{".fa", Fasta},
	{".fastq", Fastq},
	{".fq", Fastq},
	{".gbk", GenBank},
	{".gb", GenBank},
	{".embl", Embl},
}

var compressionExts = []string{".gz", ".gzip", ".bz2"}

// FormatFromName maps a file name to a format by its extension,
// case-insensitively. A single trailing compression extension is ignored, so
// "reads.FQ.gz" is Fastq. Compression itself is always detected from content.
func FormatFromName(name string) (Format, bool) {
	lower := strings.ToLower(name)
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			lower = strings.TrimSuffix(lower, ext)
			break
		}
	}
	for _, e := range extFormats {
		if strings.HasSuffix(lower, e.ext) {
			return e.format, true
		}
	}
	return Unknown, false
}

// SniffFormat guesses FASTA or FASTQ from the first non-whitespace character
// of prefix. GenBank and EMBL are never sniffed.
func SniffFormat(prefix string) (Format, bool) {
	s := strings.TrimLeftFunc(prefix, unicode.IsSpace)
	switch {
	case strings.HasPrefix(s, ">"):
		return Fasta, true
	case strings.HasPrefix(s, "@"):
		return Fastq, true
	}
	return Unknown, false
}

// ResolveFormat determines the format of the stream, first from name and then
// by sniffing the first SniffSize characters of s. The stream is left at
// offset 0. It returns an error whose cause is ErrUnresolvedFormat when
// neither succeeds.
func ResolveFormat(name string, s *Stream) (Format, error) {
	if f, ok := FormatFromName(name); ok {
		return f, nil
	}
	prefix, err := s.Prefix(SniffSize)
	if err != nil {
		return Unknown, err
	}
	if f, ok := SniffFormat(prefix); ok {
		return f, nil
	}
	return Unknown, errors.Wrapf(ErrUnresolvedFormat, "%q: no recognized extension and content is neither FASTA nor FASTQ", name)
}
