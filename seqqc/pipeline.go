// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"context"
	"math"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqqc/encoding/seqfile"
	"github.com/pkg/errors"
)

// Input is one raw input file. Name is only used for format hinting and
// reporting.
type Input struct {
	Name string
	Data []byte
}

// Source identifies the input a result was computed from.
type Source struct {
	Name string
	// Size is the raw (possibly compressed) size in bytes.
	Size int
	// Digest is the seahash of the raw bytes.
	Digest uint64
}

func newSource(in Input) Source {
	return Source{Name: in.Name, Size: len(in.Data), Digest: seahash.Sum64(in.Data)}
}

// Summary is the result of Stats.
type Summary struct {
	Source         Source
	Format         seqfile.Format
	Compression    seqfile.Compression
	TotalSequences int
	TotalBases     int64
	// AverageLength and AverageGC are rounded to two decimals. Records with
	// undefined GC contribute 0 to AverageGC.
	AverageLength float64
	AverageGC     float64
	// AveragePhred is the mean per-read average quality, FASTQ only.
	AveragePhred float64
}

// FilterResult is the result of Filter.
type FilterResult struct {
	Source         Source
	Format         seqfile.Format
	Compression    seqfile.Compression
	TotalSequences int
	// Filtered reports whether an ID filter was applied, and FilterCount
	// how many distinct IDs it named.
	Filtered    bool
	FilterCount int
	Records     []SequenceRecord
}

// UniversalResult is the result of Universal.
type UniversalResult struct {
	Source         Source
	Format         seqfile.Format
	Compression    seqfile.Compression
	TotalSequences int
	// TotalBases is the sum of Length over Records.
	TotalBases int64
	Records    []SequenceRecord
}

// open decodes in and resolves its format.
func open(in Input, opts Opts) (*seqfile.Stream, seqfile.Format, error) {
	s, err := seqfile.Open(in.Data, opts.Encoding)
	if err != nil {
		return nil, seqfile.Unknown, err
	}
	f, err := seqfile.ResolveFormat(in.Name, s)
	if err != nil {
		return nil, seqfile.Unknown, err
	}
	return s, f, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Stats streams every record of in and returns aggregate counts. It retains
// no rows. MaxRecords is ignored.
func Stats(ctx context.Context, in Input, opts Opts) (Summary, error) {
	a, err := opts.analyzer()
	if err != nil {
		return Summary{}, err
	}
	s, f, err := open(in, opts)
	if err != nil {
		return Summary{}, err
	}
	it, err := NewIterator(ctx, s, f, IteratorOpts{Analyzer: a, StrictQuality: opts.StrictQuality})
	if err != nil {
		return Summary{}, err
	}
	var (
		n          int
		totalBases int64
		totalGC    float64
		totalPhred float64
	)
	for it.Scan() {
		row := it.Record()
		n++
		totalBases += int64(row.Length)
		if row.GCDefined {
			totalGC += row.GCPercent
		}
		if row.QualityMetrics != nil {
			totalPhred += row.QualityMetrics.Average
		}
	}
	if err := it.Err(); err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Source:         newSource(in),
		Format:         f,
		Compression:    s.Compression(),
		TotalSequences: n,
		TotalBases:     totalBases,
	}
	if n > 0 {
		sum.AverageLength = round2(float64(totalBases) / float64(n))
		sum.AverageGC = round2(totalGC / float64(n))
		if f == seqfile.Fastq {
			sum.AveragePhred = round2(totalPhred / float64(n))
		}
	}
	log.Debug.Printf("seqqc: stats %s: format %v, compression %v, %d records", in.Name, f, sum.Compression, n)
	return sum, nil
}

// Filter keeps up to opts.MaxRecords FASTQ reads whose ID is named in
// opts.IDs. An empty opts.IDs keeps every read up to the cap. Inputs that do
// not resolve to FASTQ fail with ErrInvalidOperation before any record is
// parsed.
func Filter(ctx context.Context, in Input, opts Opts) (FilterResult, error) {
	a, err := opts.analyzer()
	if err != nil {
		return FilterResult{}, err
	}
	if opts.MaxRecords <= 0 {
		return FilterResult{}, errors.Wrapf(ErrInvalidCap, "max records %d", opts.MaxRecords)
	}
	s, f, err := open(in, opts)
	if err != nil {
		return FilterResult{}, err
	}
	if f != seqfile.Fastq {
		return FilterResult{}, errors.Wrapf(ErrInvalidOperation, "%s: filtering requires fastq input, got %v", in.Name, f)
	}
	wanted := ParseIDs(opts.IDs)
	it, err := NewIterator(ctx, s, f, IteratorOpts{
		Analyzer:      a,
		Cap:           opts.MaxRecords,
		Wanted:        wanted,
		KeepSequence:  opts.KeepSequence,
		KeepQuality:   opts.KeepQuality,
		StrictQuality: opts.StrictQuality,
	})
	if err != nil {
		return FilterResult{}, err
	}
	var rows []SequenceRecord
	for it.Scan() {
		rows = append(rows, it.Record())
	}
	if err := it.Err(); err != nil {
		return FilterResult{}, err
	}
	log.Debug.Printf("seqqc: filter %s: compression %v, %d ids, %d records kept", in.Name, s.Compression(), len(wanted), len(rows))
	return FilterResult{
		Source:         newSource(in),
		Format:         f,
		Compression:    s.Compression(),
		TotalSequences: len(rows),
		Filtered:       wanted != nil,
		FilterCount:    len(wanted),
		Records:        rows,
	}, nil
}

// Universal keeps the first opts.MaxRecords records of in, whatever its
// format.
func Universal(ctx context.Context, in Input, opts Opts) (UniversalResult, error) {
	a, err := opts.analyzer()
	if err != nil {
		return UniversalResult{}, err
	}
	if opts.MaxRecords <= 0 {
		return UniversalResult{}, errors.Wrapf(ErrInvalidCap, "max records %d", opts.MaxRecords)
	}
	s, f, err := open(in, opts)
	if err != nil {
		return UniversalResult{}, err
	}
	it, err := NewIterator(ctx, s, f, IteratorOpts{
		Analyzer:      a,
		Cap:           opts.MaxRecords,
		KeepSequence:  opts.KeepSequence,
		KeepQuality:   opts.KeepQuality,
		StrictQuality: opts.StrictQuality,
	})
	if err != nil {
		return UniversalResult{}, err
	}
	var (
		rows       []SequenceRecord
		totalBases int64
	)
	for it.Scan() {
		row := it.Record()
		totalBases += int64(row.Length)
		rows = append(rows, row)
	}
	if err := it.Err(); err != nil {
		return UniversalResult{}, err
	}
	log.Debug.Printf("seqqc: universal %s: format %v, compression %v, %d records", in.Name, f, s.Compression(), len(rows))
	return UniversalResult{
		Source:         newSource(in),
		Format:         f,
		Compression:    s.Compression(),
		TotalSequences: len(rows),
		TotalBases:     totalBases,
		Records:        rows,
	}, nil
}
