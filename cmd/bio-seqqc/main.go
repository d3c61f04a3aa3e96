// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// See doc.go for documentation.

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqqc/encoding/seqfile"
	"github.com/grailbio/seqqc/seqqc"
	"github.com/pkg/errors"
)

const histogramBins = 30

type runFlags struct {
	mode     string
	out      string
	fastqOut string
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <input>

Reports composition and quality statistics of a sequence file. See the package
documentation for details.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	var (
		flags runFlags
		opts  = seqqc.DefaultOpts
	)
	flag.StringVar(&flags.mode, "mode", "full", "Report to produce: stats, filter or full.")
	flag.StringVar(&flags.out, "out", "", "Path of the TSV report. (default stdout)")
	flag.StringVar(&flags.fastqOut, "fastq-out", "", "Filter mode only. If set, kept reads are written to this path as FASTQ.")
	flag.StringVar(&opts.Mode, "denom", seqqc.DefaultOpts.Mode, "Denominator of GC and base fractions: canonical (A+T+G+C) or raw (sequence length).")
	flag.IntVar(&opts.MaxRecords, "max-records", seqqc.DefaultOpts.MaxRecords, "Maximum number of records reported in filter and full modes.")
	flag.StringVar(&opts.IDs, "ids", "", "Filter mode only. IDs to keep, separated by commas or whitespace. Empty keeps all reads.")
	flag.StringVar(&opts.Encoding, "encoding", seqqc.DefaultOpts.Encoding, "Text encoding of the decompressed input.")
	flag.BoolVar(&opts.KeepSequence, "keep-sequence", false, "Include each record's sequence in the report.")
	flag.BoolVar(&opts.KeepU, "keep-u", false, "Count U as an ambiguous base instead of T.")
	flag.BoolVar(&opts.StrictQuality, "strict-quality", false, "Fail on FASTQ reads whose quality and sequence lengths differ.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one input path is required, got %d", flag.NArg())
	}
	if err := run(ctx, flag.Arg(0), flags, opts); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func run(ctx context.Context, path string, flags runFlags, opts seqqc.Opts) (err error) {
	keepSeq := opts.KeepSequence
	if flags.fastqOut != "" {
		if flags.mode != "filter" {
			return errors.New("-fastq-out requires -mode=filter")
		}
		opts.KeepSequence, opts.KeepQuality = true, true
	}
	data, release, err := loadInput(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := release(); e != nil && err == nil {
			err = e
		}
	}()
	in := seqqc.Input{Name: path, Data: data}

	var w io.Writer = os.Stdout
	if flags.out != "" {
		var out file.File
		if out, err = file.Create(ctx, flags.out); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, out, &err)
		w = out.Writer(ctx)
	}

	switch flags.mode {
	case "stats":
		sum, err := seqqc.Stats(ctx, in, opts)
		if err != nil {
			return err
		}
		log.Printf("%s: %v, %v compression, %d records", path, sum.Format, sum.Compression, sum.TotalSequences)
		return writeSummary(w, sum)
	case "filter":
		res, err := seqqc.Filter(ctx, in, opts)
		if err != nil {
			return err
		}
		logDescription(path, res.Records)
		if err := writeRows(w, res.Records, true, keepSeq); err != nil {
			return err
		}
		if flags.fastqOut != "" {
			return writeFastq(ctx, flags.fastqOut, res.Records)
		}
		return nil
	case "full":
		res, err := seqqc.Universal(ctx, in, opts)
		if err != nil {
			return err
		}
		logDescription(path, res.Records)
		return writeRows(w, res.Records, res.Format == seqfile.Fastq, keepSeq)
	}
	return errors.Errorf("unknown mode %q: must be stats, filter or full", flags.mode)
}

func logDescription(path string, rows []seqqc.SequenceRecord) {
	d := seqqc.Describe(rows)
	log.Printf("%s: %d records, mean length %.2f, mean GC%% %.2f (sd %.2f, %d defined)",
		path, d.N, d.MeanLength, d.MeanGC, d.StdGC, d.NGC)
	if d.NPhred > 0 {
		log.Printf("%s: mean read quality %.2f", path, d.MeanPhred)
	}
	log.Debug.Printf("%s: mean A/T/G/C fractions %.3f over %d records", path, d.MeanFraction, d.NFraction)
	logHistogram(path, "length", seqqc.Lengths(rows))
	logHistogram(path, "GC%", seqqc.GCPercents(rows))
	logHistogram(path, "read quality", seqqc.Phreds(rows))
}

func logHistogram(path, name string, values []float64) {
	for _, b := range seqqc.Histogram(values, histogramBins) {
		log.Debug.Printf("%s: %s [%.1f, %.1f]: %d", path, name, b.Lo, b.Hi, b.Count)
	}
}
