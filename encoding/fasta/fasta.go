// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta contains a streaming parser for FASTA files.  FASTA files
// consist of a number of named sequences that may be interrupted by newlines.
// For example:
//
// >chr7 A human chromosome
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Sequence IDs are defined to be the stretch of characters excluding
// whitespace immediately after '>'.  The whole header line after '>' is kept
// as the record description, so '>chr1 A viral sequence' has ID 'chr1' and
// description 'chr1 A viral sequence'.
package fasta

import (
	"bytes"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqqc/encoding/internal/linereader"
)

// Record is one FASTA entry.
type Record struct {
	ID          string
	Description string
	Seq         string
}

// Scanner reads FASTA records one at a time from an io.Reader. Only one
// record is held in memory at a time. Scanners are not threadsafe.
//
// Blank lines are ignored anywhere in the input, and so is whitespace before
// the first '>'. Other text before the first header line is an error.
// Whitespace inside sequence lines is removed, but no other validation is
// done on sequence characters.
type Scanner struct {
	lr      *linereader.Reader
	header  []byte // pending header line for the next record, without '>'.
	pending bool   // header holds an unconsumed header line.
	started bool
	done    bool
	seq     bytes.Buffer
	err     error
}

// NewScanner creates a Scanner reading FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lr: linereader.New(r)}
}

// Scan reads the next record into rec. It returns false once the input is
// exhausted or an error occurs, and never returns true again after that.
// Err distinguishes the two cases.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	if !s.started {
		// Find the first header.
		for {
			line, err := s.lr.Next()
			if err == io.EOF {
				s.done = true
				return false
			}
			if err != nil {
				s.err = err
				return false
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			line = bytes.TrimLeft(line, " \t")
			if line[0] != '>' {
				s.err = errors.E(errors.Invalid, fmt.Sprintf("fasta: line %d: expected '>' at start of record", s.lr.Line()))
				return false
			}
			s.header = append([]byte{}, line[1:]...)
			s.pending = true
			s.started = true
			break
		}
	}
	if !s.pending {
		s.done = true
		return false
	}
	s.seq.Reset()
	var (
		next    []byte
		hasNext bool
	)
	for {
		line, err := s.lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.err = err
			return false
		}
		if len(line) > 0 && line[0] == '>' {
			next = append([]byte{}, line[1:]...)
			hasNext = true
			break
		}
		for _, c := range line {
			if c != ' ' && c != '\t' && c != '\r' {
				s.seq.WriteByte(c)
			}
		}
	}
	title := bytes.TrimSpace(s.header)
	rec.Description = string(title)
	if fields := bytes.Fields(title); len(fields) > 0 {
		rec.ID = string(fields[0])
	} else {
		rec.ID = ""
	}
	rec.Seq = s.seq.String()
	s.header, s.pending = next, hasNext
	return true
}

// Err returns the scanning error, if any. It is nil when scanning stopped at
// the end of the input.
func (s *Scanner) Err() error {
	return s.err
}
