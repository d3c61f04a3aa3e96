// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package embl extracts sequence records from EMBL flat files.
//
// Every EMBL line starts with a two-character line code. Only ID, AC, DE, SQ,
// sequence data lines and the "//" terminator are interpreted:
//
// ID   X56734; SV 1; linear; mRNA; STD; PLN; 1859 BP.
// AC   X56734; S46826;
// DE   Trifolium repens mRNA for non-cyanogenic beta-glucosidase
// SQ   Sequence 1859 BP; 609 A; 314 C; 355 G; 581 T; 0 other;
//      aaacaaacca aatatggatt ttattgtagc catatttgct ctgtttgtta ttagctcatt        60
// //
package embl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqqc/encoding/internal/linereader"
)

// Record is one EMBL entry.
//
// ID is "<primary accession>.<sequence version>" when the ID line carries an
// SV field, otherwise the first AC accession, otherwise the ID line name.
// Description is the DE text with lines joined and the final period removed.
// Seq is the upper-cased SQ block.
type Record struct {
	ID          string
	Name        string
	Description string
	Seq         string
}

// Scanner reads EMBL records one at a time. Scanners are not threadsafe.
type Scanner struct {
	lr   *linereader.Reader
	seq  bytes.Buffer
	err  error
	done bool
}

// NewScanner creates a Scanner reading EMBL data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lr: linereader.New(r)}
}

// split separates a line into its two-character code and its content.
func split(line []byte) (code, content string) {
	if len(line) < 2 {
		return string(line), ""
	}
	code = string(line[:2])
	if len(line) > 5 {
		content = strings.TrimSpace(string(line[5:]))
	} else {
		content = strings.TrimSpace(string(line[2:]))
	}
	return code, content
}

// parseIDLine returns the entry name and the sequence version, if any, from
// the content of an ID line. Both the current ("X56734; SV 1; linear; ...")
// and the pre-2006 ("AA03518    standard; DNA; ...") layouts are accepted.
func parseIDLine(content string) (name, version string) {
	parts := strings.Split(content, ";")
	if f := strings.Fields(parts[0]); len(f) > 0 {
		name = f[0]
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "SV ") {
			version = strings.TrimSpace(p[3:])
		}
	}
	return name, version
}

// Scan reads the next record into rec. It returns false once the input is
// exhausted or an error occurs, and never returns true again after that.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	var idContent string
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
		code, content := split(line)
		if code != "ID" {
			s.err = errors.E(errors.Invalid, fmt.Sprintf("embl: line %d: expected ID line, got %q", s.lr.Line(), code))
			return false
		}
		idContent = content
		break
	}
	name, version := parseIDLine(idContent)
	*rec = Record{Name: name}
	var (
		accession   string
		description []string
		inSeq       bool
	)
	s.seq.Reset()
	startLine := s.lr.Line()
	for {
		line, err := s.lr.Next()
		if err == io.EOF {
			s.err = errors.E(errors.Invalid, fmt.Sprintf("embl: record %q starting at line %d: missing '//' terminator", name, startLine))
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
		code, content := split(line)
		switch code {
		case "AC":
			if accession == "" {
				accession = strings.TrimSpace(strings.Split(content, ";")[0])
			}
		case "DE":
			if content != "" {
				description = append(description, content)
			}
		case "SQ":
			inSeq = true
		}
	}
	primary := accession
	if primary == "" {
		primary = name
	}
	switch {
	case version != "" && primary != "":
		rec.ID = primary + "." + version
	default:
		rec.ID = primary
	}
	rec.Description = strings.TrimSuffix(strings.Join(description, " "), ".")
	rec.Seq = s.seq.String()
	return true
}

// Err returns the scanning error, if any. It is nil when scanning stopped at
// the end of the input.
func (s *Scanner) Err() error {
	return s.err
}
