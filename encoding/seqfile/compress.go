// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqfile

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compression identifies the container wrapping the sequence text.
type Compression int

const (
	// None means the bytes are the text itself.
	None Compression = iota
	// Gzip means the bytes start with the gzip magic 1f 8b.
	Gzip
	// Bzip2 means the bytes start with the bzip2 magic "BZh".
	Bzip2
)

var compressionNames = [...]string{None: "none", Gzip: "gzip", Bzip2: "bzip2"}

func (c Compression) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return "invalid"
	}
	return compressionNames[c]
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
)

// DetectCompression classifies data by its leading magic bytes. At most the
// first three bytes are examined and nothing is decompressed.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, bzip2Magic):
		return Bzip2
	}
	return None
}

// ErrDecode is the cause of errors reported when compressed data is
// structurally invalid, e.g. a truncated or corrupt archive.
var ErrDecode = errors.New("decode error")

// DefaultEncoding is the text encoding used when Open is given "".
const DefaultEncoding = "utf-8"

// Stream is a decoded, rewindable view of an in-memory sequence file.
//
// Decompression happens lazily: the decompressor is built by the first Read,
// so a corrupt archive is reported as ErrDecode from Read, never from Open.
// Bytes that are invalid in the text encoding are replaced with U+FFFD.
type Stream struct {
	data        []byte
	compression Compression
	enc         encoding.Encoding

	r   io.Reader // decoded text; nil until the first Read after a rewind.
	err error     // sticky decode error.
}

// Open returns a Stream decoding data as text in the named encoding (any
// WHATWG encoding label, e.g. "utf-8", "latin1", "windows-1252"). The stream
// is positioned at offset 0. The only error is an unknown encoding name.
func Open(data []byte, encodingName string) (*Stream, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Stream{data: data, compression: DetectCompression(data), enc: enc}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "text encoding %q", name)
	}
	return enc, nil
}

// Compression returns the container format detected from the magic bytes.
func (s *Stream) Compression() Compression { return s.compression }

// Size returns the size of the raw, possibly compressed, input.
func (s *Stream) Size() int { return len(s.data) }

func (s *Stream) open() error {
	var raw io.Reader = bytes.NewReader(s.data)
	switch s.compression {
	case Gzip:
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return errors.Wrapf(ErrDecode, "gzip: %v", err)
		}
		raw = zr
	case Bzip2:
		raw = bzip2.NewReader(raw)
	}
	s.r = transform.NewReader(raw, s.enc.NewDecoder())
	return nil
}

// Read implements io.Reader over the decoded text.
func (s *Stream) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.r == nil {
		if err := s.open(); err != nil {
			s.err = err
			return 0, err
		}
	}
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		if s.compression != None {
			err = errors.Wrapf(ErrDecode, "%v: %v", s.compression, err)
		}
		s.err = err
	}
	return n, err
}

// Rewind repositions the stream at offset 0 of the decoded text.
func (s *Stream) Rewind() {
	s.r = nil
	s.err = nil
}

// Prefix returns up to n leading characters of the decoded text and then
// rewinds the stream, so the caller can sniff content before parsing.
func (s *Stream) Prefix(n int) (string, error) {
	defer s.Rewind()
	br := bufio.NewReader(s)
	var b strings.Builder
	for i := 0; i < n; i++ {
		r, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
