// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package genbank extracts sequence records from GenBank flat files.
//
// Only the parts needed to identify a record and recover its sequence are
// interpreted: the LOCUS, DEFINITION, ACCESSION and VERSION header lines, and
// the ORIGIN block. Features and references are skipped. For example:
//
// LOCUS       SCU49845     5028 bp    DNA             PLN       21-JUN-1999
// DEFINITION  Saccharomyces cerevisiae TCP1-beta gene, partial cds, and Axl2p
//             (AXL2) and Rev7p (REV7) genes, complete cds.
// ACCESSION   U49845
// VERSION     U49845.1  GI:1293613
// ...
// ORIGIN
//         1 gatcctccat atacaacggt atctccacct caggtttaga tctcaacaac ggaaccattg
// //
package genbank

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqqc/encoding/internal/linereader"
)

// Record is one GenBank entry.
//
// ID is the VERSION accession (e.g. "U49845.1") when present, otherwise the
// first ACCESSION, otherwise the LOCUS name. Description is the DEFINITION
// text with continuation lines joined and the final period removed. Seq is
// the upper-cased ORIGIN sequence, empty for records without one.
type Record struct {
	ID          string
	Name        string
	Description string
	Seq         string
}

// Scanner reads GenBank records one at a time. Scanners are not threadsafe.
type Scanner struct {
	lr   *linereader.Reader
	seq  bytes.Buffer
	err  error
	done bool
}

// NewScanner creates a Scanner reading GenBank data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lr: linereader.New(r)}
}

// keyword returns the header keyword that starts line, or "" for continuation
// and sequence lines.
func keyword(line []byte) string {
	if len(line) == 0 || line[0] == ' ' {
		return ""
	}
	if i := bytes.IndexAny(line, " \t"); i >= 0 {
		return string(line[:i])
	}
	return string(line)
}

// value returns the text after the 12-column keyword field.
func value(line []byte) string {
	if len(line) <= 12 {
		if i := bytes.IndexAny(line, " \t"); i >= 0 {
			return strings.TrimSpace(string(line[i:]))
		}
		return ""
	}
	return strings.TrimSpace(string(line[12:]))
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Scan reads the next record into rec. It returns false once the input is
// exhausted or an error occurs, and never returns true again after that.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	// Skip anything up to the next LOCUS line, e.g. release file headers.
	var locus []byte
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
		if keyword(line) == "LOCUS" {
			locus = line
			break
		}
	}
	*rec = Record{Name: firstField(value(locus))}
	var (
		accession, version string
		definition         []string
		section            string
		inSeq              bool
	)
	s.seq.Reset()
	startLine := s.lr.Line()
	for {
		line, err := s.lr.Next()
		if err == io.EOF {
			s.err = errors.E(errors.Invalid, fmt.Sprintf("genbank: record %q starting at line %d: missing '//' terminator", rec.Name, startLine))
			return false
		}
		if err != nil {
			s.err = err
			return false
		}
		if bytes.HasPrefix(line, []byte("//")) {
			break
		}
		if inSeq {
			for _, c := range line {
				if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*' || c == '-' {
					if c >= 'a' && c <= 'z' {
						c -= 'a' - 'A'
					}
					s.seq.WriteByte(c)
				}
			}
			continue
		}
		if kw := keyword(line); kw != "" {
			section = kw
			switch kw {
			case "DEFINITION":
				definition = append(definition, value(line))
			case "ACCESSION":
				if accession == "" {
					accession = firstField(value(line))
				}
			case "VERSION":
				version = firstField(value(line))
			case "ORIGIN":
				inSeq = true
			}
			continue
		}
		if section == "DEFINITION" {
			if v := strings.TrimSpace(string(line)); v != "" {
				definition = append(definition, v)
			}
		}
	}
	switch {
	case version != "":
		rec.ID = version
	case accession != "":
		rec.ID = accession
	default:
		rec.ID = rec.Name
	}
	rec.Description = strings.TrimSuffix(strings.Join(definition, " "), ".")
	rec.Seq = s.seq.String()
	return true
}

// Err returns the scanning error, if any. It is nil when scanning stopped at
// the end of the input.
func (s *Scanner) Err() error {
	return s.err
}
