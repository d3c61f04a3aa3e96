// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"github.com/grailbio/seqqc/composition"
	"github.com/grailbio/seqqc/encoding/seqfile"
)

// Opts configures a pipeline run.
type Opts struct {
	// Mode is the composition denominator mode, "canonical" or "raw".
	Mode string
	// KeepU disables treating U as T.
	KeepU bool
	// MaxRecords caps the records kept by Filter and Universal. It must be
	// positive. Stats ignores it.
	MaxRecords int
	// Encoding names the text encoding of the decompressed input.
	Encoding string
	// IDs is the free-form ID filter used by Filter. Empty means no filter.
	IDs string
	// KeepSequence retains each record's sequence string in its row.
	KeepSequence bool
	// KeepQuality retains each FASTQ read's quality string in its row.
	KeepQuality bool
	// StrictQuality makes a FASTQ quality/sequence length mismatch fatal.
	// By default mismatches are tolerated and quality metrics are computed
	// over the quality string alone.
	StrictQuality bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Mode:       "canonical",
	MaxRecords: 200,
	Encoding:   seqfile.DefaultEncoding,
}

func (o Opts) analyzer() (composition.Analyzer, error) {
	return composition.NewAnalyzer(o.Mode, o.KeepU)
}
