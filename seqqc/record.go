// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"unicode/utf8"

	"github.com/grailbio/seqqc/composition"
	"github.com/grailbio/seqqc/encoding/seqfile"
	"github.com/grailbio/seqqc/quality"
)

// SequenceRecord is the output row for one input record. Rows are never
// modified after the Iterator returns them.
type SequenceRecord struct {
	ID string
	// Description is the parser's description for FASTA, GenBank and EMBL
	// records, and the header text after the ID for FASTQ reads.
	Description string
	// Sequence is set only when Opts.KeepSequence is.
	Sequence string
	// Quality is set only for FASTQ reads when Opts.KeepQuality is.
	Quality string
	// Length is the number of characters in the sequence as parsed.
	Length int
	// GCPercent is 100*GC. It is meaningful only when GCDefined is true;
	// GC is undefined for a zero denominator.
	GCPercent float64
	GCDefined bool
	Counts    [composition.NumBases]int
	Denom     int
	// FirstBase and LastBase are the first and last sequence characters of
	// FASTA, GenBank and EMBL records. They are empty for FASTQ reads and for
	// empty sequences.
	FirstBase string
	LastBase  string
	// Quality metrics, FASTQ only.
	QualityMetrics *quality.Metrics
}

// Fraction returns the fraction of b in the record under the denominator it
// was computed with. ok is false when the denominator is 0.
func (r *SequenceRecord) Fraction(b composition.Base) (f float64, ok bool) {
	return composition.Composition{Counts: r.Counts, Denom: r.Denom}.Fraction(b)
}

func newRow(id, desc, seq string, c composition.Composition, keepSeq bool) SequenceRecord {
	row := SequenceRecord{
		ID:          id,
		Description: desc,
		Length:      utf8.RuneCountInString(seq),
		Counts:      c.Counts,
		Denom:       c.Denom,
	}
	if gc, ok := c.GC(); ok {
		row.GCPercent, row.GCDefined = 100*gc, true
	}
	if keepSeq {
		row.Sequence = seq
	}
	return row
}

func fastaLikeRow(r *seqfile.FastaLikeRecord, a composition.Analyzer, keepSeq bool) SequenceRecord {
	row := newRow(r.ID, r.Description, r.Seq, a.Analyze(r.Seq), keepSeq)
	if r.Seq != "" {
		first, _ := utf8.DecodeRuneInString(r.Seq)
		last, _ := utf8.DecodeLastRuneInString(r.Seq)
		row.FirstBase, row.LastBase = string(first), string(last)
	}
	return row
}

func fastqRow(id, title string, r *seqfile.FastqRecord, a composition.Analyzer, keepSeq, keepQual bool) SequenceRecord {
	row := newRow(id, title, r.Seq, a.Analyze(r.Seq), keepSeq)
	m := quality.Analyze(r.Qual)
	row.QualityMetrics = &m
	if keepQual {
		row.Quality = r.Qual
	}
	return row
}
