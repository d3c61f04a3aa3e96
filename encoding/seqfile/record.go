// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqfile

import (
	"fmt"
	"io"

	"github.com/grailbio/seqqc/encoding/embl"
	"github.com/grailbio/seqqc/encoding/fasta"
	"github.com/grailbio/seqqc/encoding/fastq"
	"github.com/grailbio/seqqc/encoding/genbank"
)

// Record is a raw record produced by a format parser. It is implemented by
// *FastaLikeRecord and *FastqRecord only.
type Record interface {
	isRecord()
}

// FastaLikeRecord is the record shape of FASTA, GenBank and EMBL.
type FastaLikeRecord struct {
	ID          string
	Description string
	Seq         string
}

// FastqRecord is the record shape of FASTQ. Header is the whole '@' line
// without the '@'.
type FastqRecord struct {
	Header string
	Seq    string
	Qual   string
}

func (*FastaLikeRecord) isRecord() {}
func (*FastqRecord) isRecord()     {}

// Scanner is a forward-only, non-restartable producer of raw records.
//
// Scan advances to the next record and reports whether there is one. Record
// returns the current record; it is overwritten by the next call to Scan.
// Err returns the first error encountered, or nil if the input was exhausted.
// Parser errors are returned exactly as the format package produced them.
type Scanner interface {
	Scan() bool
	Record() Record
	Err() error
}

// NewScanner returns a Scanner parsing r in the given format.
func NewScanner(r io.Reader, f Format) (Scanner, error) {
	switch f {
	case Fasta:
		return &fastaScanner{sc: fasta.NewScanner(r)}, nil
	case Fastq:
		return &fastqScanner{sc: fastq.NewScanner(r, fastq.Header|fastq.Seq|fastq.Qual)}, nil
	case GenBank:
		return &genbankScanner{sc: genbank.NewScanner(r)}, nil
	case Embl:
		return &emblScanner{sc: embl.NewScanner(r)}, nil
	}
	return nil, fmt.Errorf("seqfile: no parser for format %v", f)
}

type fastaScanner struct {
	sc  *fasta.Scanner
	raw fasta.Record
	rec FastaLikeRecord
}

func (s *fastaScanner) Scan() bool {
	if !s.sc.Scan(&s.raw) {
		return false
	}
	s.rec = FastaLikeRecord{ID: s.raw.ID, Description: s.raw.Description, Seq: s.raw.Seq}
	return true
}

func (s *fastaScanner) Record() Record { return &s.rec }
func (s *fastaScanner) Err() error     { return s.sc.Err() }

type fastqScanner struct {
	sc   *fastq.Scanner
	read fastq.Read
	rec  FastqRecord
}

func (s *fastqScanner) Scan() bool {
	if !s.sc.Scan(&s.read) {
		return false
	}
	s.rec = FastqRecord{Header: s.read.Header, Seq: s.read.Seq, Qual: s.read.Qual}
	return true
}

func (s *fastqScanner) Record() Record { return &s.rec }
func (s *fastqScanner) Err() error     { return s.sc.Err() }

type genbankScanner struct {
	sc  *genbank.Scanner
	raw genbank.Record
	rec FastaLikeRecord
}

func (s *genbankScanner) Scan() bool {
	if !s.sc.Scan(&s.raw) {
		return false
	}
	s.rec = FastaLikeRecord{ID: s.raw.ID, Description: s.raw.Description, Seq: s.raw.Seq}
	return true
}

func (s *genbankScanner) Record() Record { return &s.rec }
func (s *genbankScanner) Err() error     { return s.sc.Err() }

type emblScanner struct {
	sc  *embl.Scanner
	raw embl.Record
	rec FastaLikeRecord
}

func (s *emblScanner) Scan() bool {
	if !s.sc.Scan(&s.raw) {
		return false
	}
	s.rec = FastaLikeRecord{ID: s.raw.ID, Description: s.raw.Description, Seq: s.raw.Seq}
	return true
}

func (s *emblScanner) Record() Record { return &s.rec }
func (s *emblScanner) Err() error     { return s.sc.Err() }
