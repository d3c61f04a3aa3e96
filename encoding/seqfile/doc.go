// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqfile turns the raw bytes of a sequence file into a stream of raw
// records. It detects gzip/bzip2 compression from magic bytes, decodes the
// text with a replacement policy for invalid bytes, resolves the file format
// from the file name or the leading content, and dispatches to the FASTA,
// FASTQ, GenBank or EMBL parser.
//
// Typical use:
//
//   s, err := seqfile.Open(data, "")
//   ...
//   format, err := seqfile.ResolveFormat(name, s)
//   ...
//   sc, err := seqfile.NewScanner(s, format)
//   for sc.Scan() {
//     switch r := sc.Record().(type) {
//     case *seqfile.FastaLikeRecord:
//       ...
//     case *seqfile.FastqRecord:
//       ...
//     }
//   }
//   if err := sc.Err(); err != nil {
//     ...
//   }
package seqfile
