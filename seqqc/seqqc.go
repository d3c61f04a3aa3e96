// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqqc computes per-record and aggregate composition and quality
// statistics over FASTA, FASTQ, GenBank and EMBL inputs, optionally gzip or
// bzip2 compressed.
//
// Three pipelines are provided:
//
//   Stats      streams every record and returns only scalar aggregates.
//   Filter     FASTQ only; keeps reads whose ID is in a wanted set, up to a cap.
//   Universal  keeps the first records of any format, up to a cap.
//
// All pipelines run on the calling goroutine and hold at most one parsed
// record at a time, plus the retained rows for Filter and Universal.
package seqqc

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidOperation is the cause of errors returned by Filter for
	// inputs that do not resolve to FASTQ.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidCap is the cause of errors returned by Filter and Universal
	// when Opts.MaxRecords is not positive.
	ErrInvalidCap = errors.New("record cap must be positive")
	// ErrQualityLength is the cause of errors returned when
	// Opts.StrictQuality is set and a read's quality string and sequence
	// differ in length.
	ErrQualityLength = errors.New("quality length differs from sequence length")
)
