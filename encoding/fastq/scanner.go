// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fastq reads and writes 4-line FASTQ data.
package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// maxLineSize bounds a single FASTQ line. Long-read platforms routinely
// produce reads far beyond bufio.Scanner's 64KiB default.
const maxLineSize = 256 * 1024 * 1024

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
)

// A Read is a FASTQ read, comprising a header line (without the leading '@'),
// sequence, line 3 (without the leading '+'), and a quality string.
type Read struct {
	Header, Seq, Unk, Qual string
}

// Trim cuts the read and quality lengths to at most n.
func (r *Read) Trim(n int) {
	if len(r.Seq) > n {
		r.Seq = r.Seq[:n]
	}
	if len(r.Qual) > n {
		r.Qual = r.Qual[:n]
	}
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner performs some validation: it requires header lines to begin
// with "@" and that line 3 begins with "+", but does not perform
// further validation (e.g., seq/qual being of equal length,
// containing only data in range, etc.) Blank lines between records and
// whitespace before '@' are skipped, and trailing carriage returns are removed.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// Header causes the Read.Header field to be filled
	Header Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Unk causes the Read.Unk field to be filled
	Unk
	// Qual causes the Read.Qual field to be filled
	Qual
	// All equals Header|Seq|Unk|Qual.
	All = Header | Seq | Unk | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read. A typical value
// would be All or Header|Seq|Qual.
func NewScanner(r io.Reader, fields Field) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineSize)
	return &Scanner{b: b, fields: fields}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	var header []byte
	for {
		if !f.b.Scan() {
			if f.err = f.b.Err(); f.err == nil {
				f.err = errEOF
			}
			return false
		}
		if header = bytes.TrimLeft(f.line(), " \t"); len(header) != 0 {
			break
		}
	}
	if header[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&Header != 0 {
		read.Header = string(header[1:])
	}
	if !f.scan() {
		return false
	}
	if f.fields&Seq != 0 {
		read.Seq = string(f.line())
	}
	if !f.scan() {
		return false
	}
	unk := f.line()
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&Unk != 0 {
		read.Unk = string(unk[1:])
	}
	if !f.scan() {
		return false
	}
	if f.fields&Qual != 0 {
		read.Qual = string(f.line())
	}
	return true
}

func (f *Scanner) line() []byte {
	return bytes.TrimRight(f.b.Bytes(), "\r")
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}
