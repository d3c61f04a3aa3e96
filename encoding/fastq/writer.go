// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastq

import "io"

var newline = []byte{'\n'}

// Writer is a FASTQ file writer.
type Writer struct {
	w   io.Writer
	err error
	n   int
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format, restoring the '@' and '+'
// line prefixes that Scanner strips.
// An error is returned if the write failed.
func (w *Writer) Write(r *Read) error {
	w.writeln("@", r.Header)
	w.writeln("", r.Seq)
	w.writeln("+", r.Unk)
	w.writeln("", r.Qual)
	if w.err == nil {
		w.n++
	}
	return w.err
}

// N returns the number of reads written so far.
func (w *Writer) N() int { return w.n }

func (w *Writer) writeln(prefix, line string) {
	if w.err != nil {
		return
	}
	if prefix != "" {
		if _, w.err = io.WriteString(w.w, prefix); w.err != nil {
			return
		}
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
