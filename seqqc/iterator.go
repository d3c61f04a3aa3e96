// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/grailbio/seqqc/composition"
	"github.com/grailbio/seqqc/encoding/seqfile"
	"github.com/pkg/errors"
)

// IteratorOpts configures an Iterator.
type IteratorOpts struct {
	Analyzer composition.Analyzer
	// Cap is the maximum number of records returned. Cap <= 0 means no cap.
	Cap int
	// Wanted, if non-nil, restricts FASTQ reads to these IDs. Skipped reads
	// do not count toward Cap.
	Wanted        map[string]struct{}
	KeepSequence  bool
	KeepQuality   bool
	StrictQuality bool
}

// Iterator turns the raw records of a decoded stream into SequenceRecords,
// one at a time. Iterators are not threadsafe.
//
// Example:
//   it, err := seqqc.NewIterator(ctx, stream, seqfile.Fastq, opts)
//   ...
//   for it.Scan() {
//     row := it.Record()
//   }
//   if err := it.Err(); err != nil { ... }
type Iterator struct {
	ctx    context.Context
	sc     seqfile.Scanner
	format seqfile.Format
	opts   IteratorOpts
	kept   int
	row    SequenceRecord
	done   bool
	err    error
}

// NewIterator creates an Iterator reading s as format f. A wanted set is
// only valid for FASTQ.
func NewIterator(ctx context.Context, s *seqfile.Stream, f seqfile.Format, opts IteratorOpts) (*Iterator, error) {
	if opts.Wanted != nil && f != seqfile.Fastq {
		return nil, errors.Wrapf(ErrInvalidOperation, "ID filter on %v input", f)
	}
	sc, err := seqfile.NewScanner(s, f)
	if err != nil {
		return nil, err
	}
	return &Iterator{ctx: ctx, sc: sc, format: f, opts: opts}, nil
}

// Format returns the format the iterator parses.
func (it *Iterator) Format() seqfile.Format { return it.format }

// Scan advances to the next kept record. It returns false at the end of the
// input, once Cap records have been returned, on error, or when the context
// is done. Once Scan returns false, it never returns true again.
func (it *Iterator) Scan() bool {
	if it.done {
		return false
	}
	if it.opts.Cap > 0 && it.kept >= it.opts.Cap {
		it.done = true
		return false
	}
	for {
		if err := it.ctx.Err(); err != nil {
			return it.fail(err)
		}
		if !it.sc.Scan() {
			return it.fail(it.sc.Err())
		}
		switch r := it.sc.Record().(type) {
		case *seqfile.FastaLikeRecord:
			it.row = fastaLikeRow(r, it.opts.Analyzer, it.opts.KeepSequence)
		case *seqfile.FastqRecord:
			id, title := splitHeader(r.Header)
			if it.opts.Wanted != nil {
				if _, ok := it.opts.Wanted[id]; !ok {
					continue
				}
			}
			if it.opts.StrictQuality {
				if ns, nq := utf8.RuneCountInString(r.Seq), utf8.RuneCountInString(r.Qual); ns != nq {
					return it.fail(errors.Wrapf(ErrQualityLength, "read %s: %d sequence characters, %d quality characters", id, ns, nq))
				}
			}
			it.row = fastqRow(id, title, r, it.opts.Analyzer, it.opts.KeepSequence, it.opts.KeepQuality)
		default:
			return it.fail(errors.Errorf("unexpected record type %T", r))
		}
		it.kept++
		return true
	}
}

func (it *Iterator) fail(err error) bool {
	it.err = err
	it.done = true
	return false
}

// Record returns the current row. It is only valid after Scan returns true.
func (it *Iterator) Record() SequenceRecord { return it.row }

// Err returns the first error encountered. Parser errors are returned
// unmodified. It is nil if iteration stopped at the end of the input or at
// the cap.
func (it *Iterator) Err() error { return it.err }

// splitHeader splits a FASTQ header into its first whitespace-delimited
// token and the rest of the line.
func splitHeader(h string) (id, title string) {
	h = strings.TrimLeftFunc(h, unicode.IsSpace)
	i := strings.IndexFunc(h, unicode.IsSpace)
	if i < 0 {
		return h, ""
	}
	return h[:i], strings.TrimSpace(h[i:])
}
