// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqqc/composition"
	"github.com/grailbio/seqqc/encoding/fastq"
	"github.com/grailbio/seqqc/seqqc"
	"github.com/pkg/errors"
)

const summaryHeader = "NAME\tFORMAT\tCOMPRESSION\tSIZE\tSEAHASH\tTOTAL_SEQUENCES\tTOTAL_BASES\tAVERAGE_LENGTH\tAVERAGE_GC\tAVERAGE_PHRED"

// writeSummary writes a stats-mode report.
func writeSummary(w io.Writer, sum seqqc.Summary) error {
	t := tsv.NewWriter(w)
	t.WriteString(summaryHeader)
	if err := t.EndLine(); err != nil {
		return err
	}
	t.WriteString(field(sum.Source.Name))
	t.WriteString(sum.Format.String())
	t.WriteString(sum.Compression.String())
	t.WriteInt64(int64(sum.Source.Size))
	t.WriteString(fmt.Sprintf("%016x", sum.Source.Digest))
	t.WriteInt64(int64(sum.TotalSequences))
	t.WriteInt64(sum.TotalBases)
	t.WriteFloat64(sum.AverageLength, 'f', 2)
	t.WriteFloat64(sum.AverageGC, 'f', 2)
	t.WriteFloat64(sum.AveragePhred, 'f', 2)
	if err := t.EndLine(); err != nil {
		return err
	}
	return t.Flush()
}

// rowColumns lists the columns of a record report.
func rowColumns(fastqRows, keepSeq bool) []string {
	cols := []string{"ID", "DESCRIPTION", "LENGTH", "GC_PERCENT"}
	for b := composition.Base(0); b < composition.NumBases; b++ {
		cols = append(cols, b.String())
	}
	cols = append(cols, "DENOM")
	if fastqRows {
		cols = append(cols, "AVG_QUALITY", "MIN_QUALITY", "MAX_QUALITY", "Q20_PERCENT", "Q30_PERCENT")
	} else {
		cols = append(cols, "FIRST_BASE", "LAST_BASE")
	}
	if keepSeq {
		cols = append(cols, "SEQUENCE")
	}
	return cols
}

// field replaces tabs and line breaks in free text so it stays one TSV field.
func field(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return ' '
		}
		return r
	}, s)
}

// writeRows writes one TSV line per record. GC is "NA" where undefined.
func writeRows(w io.Writer, rows []seqqc.SequenceRecord, fastqRows, keepSeq bool) error {
	t := tsv.NewWriter(w)
	t.WriteString(strings.Join(rowColumns(fastqRows, keepSeq), "\t"))
	if err := t.EndLine(); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		t.WriteString(field(r.ID))
		t.WriteString(field(r.Description))
		t.WriteInt64(int64(r.Length))
		if r.GCDefined {
			t.WriteFloat64(r.GCPercent, 'f', 2)
		} else {
			t.WriteString("NA")
		}
		for _, n := range r.Counts {
			t.WriteInt64(int64(n))
		}
		t.WriteInt64(int64(r.Denom))
		if fastqRows {
			m := r.QualityMetrics
			if m == nil {
				return errors.Errorf("record %s: missing quality metrics", r.ID)
			}
			t.WriteFloat64(m.Average, 'f', 2)
			t.WriteInt64(int64(m.Min))
			t.WriteInt64(int64(m.Max))
			t.WriteFloat64(m.Q20Percent, 'f', 2)
			t.WriteFloat64(m.Q30Percent, 'f', 2)
		} else {
			t.WriteString(r.FirstBase)
			t.WriteString(r.LastBase)
		}
		if keepSeq {
			t.WriteString(r.Sequence)
		}
		if err := t.EndLine(); err != nil {
			return err
		}
	}
	return t.Flush()
}

// writeFastq writes rows, which must carry their sequence and quality, to
// path as FASTQ.
func writeFastq(ctx context.Context, path string, rows []seqqc.SequenceRecord) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := fastq.NewWriter(out.Writer(ctx))
	for i := range rows {
		r := &rows[i]
		header := r.ID
		if r.Description != "" {
			header += " " + r.Description
		}
		if err = w.Write(&fastq.Read{Header: header, Seq: r.Sequence, Qual: r.Quality}); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	log.Printf("wrote %d reads to %s", w.N(), path)
	return nil
}
