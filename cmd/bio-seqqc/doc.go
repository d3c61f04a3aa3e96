// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-seqqc reports base composition, GC content and read quality for a FASTA,
FASTQ, GenBank or EMBL file. Inputs may be gzip or bzip2 compressed; the
compression is detected from the content.

Usage:

  bio-seqqc [flags] <input>

The -mode flag selects one of three reports:

  stats   one summary row: record count, total bases, average length, GC%
          and, for FASTQ, average Phred score. Every record is read.
  filter  FASTQ only. One row per read whose ID is listed in -ids (all reads
          if -ids is empty), up to -max-records reads.
  full    one row per record, up to -max-records records. This is the default.

The format is taken from the file extension (.fa, .fasta, .fq, .fastq, .gb,
.gbk, .embl, optionally followed by .gz, .gzip or .bz2). Without a known
extension, content starting with '>' is read as FASTA and content starting
with '@' as FASTQ.

GC% and base fractions use the A+T+G+C count as the denominator by default.
-denom=raw uses the full sequence length instead. A record whose denominator
is 0 reports GC% as "NA".

Local inputs are memory-mapped. Paths with a scheme, such as s3://, are read
through github.com/grailbio/base/file. The report is written as TSV to -out,
or to stdout. In filter mode, -fastq-out additionally writes the kept reads
as FASTQ.

Example:

  bio-seqqc -mode filter -ids "read7,read9" -fastq-out kept.fq reads.fq.gz
*/
package main
