// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package linereader reads text one line at a time for the flat-file
// parsers. Lines may be arbitrarily long.
package linereader

import (
	"bufio"
	"bytes"
	"io"
)

const bufSize = 1 << 20

// Reader returns lines with "\n" or "\r\n" terminators removed. Reader is
// not threadsafe.
type Reader struct {
	r   *bufio.Reader
	eof bool
	n   int
}

// New creates a Reader reading from r.
func New(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, bufSize)}
}

// Next returns the next line. The returned slice is not reused by later
// calls. A final line without a terminator is returned normally; io.EOF is
// returned only when no bytes remain. Other read errors are returned as is.
func (r *Reader) Next() ([]byte, error) {
	if r.eof {
		return nil, io.EOF
	}
	line, err := r.r.ReadBytes('\n')
	if err == io.EOF {
		r.eof = true
		if len(line) == 0 {
			return nil, io.EOF
		}
	} else if err != nil {
		return nil, err
	}
	r.n++
	return bytes.TrimRight(line, "\r\n"), nil
}

// Line returns the 1-based number of the line last returned by Next.
func (r *Reader) Line() int { return r.n }
