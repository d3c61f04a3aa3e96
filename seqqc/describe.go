// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc

import (
	"math"

	"github.com/grailbio/seqqc/composition"
)

// Description summarizes a set of retained rows.
type Description struct {
	N          int
	MeanLength float64
	// MeanGC and StdGC are the mean and sample standard deviation of
	// GCPercent over the NGC rows whose GC is defined.
	MeanGC float64
	StdGC  float64
	NGC    int
	// MeanFraction holds the mean A, T, G and C fractions, in
	// composition.Canonical order, over the NFraction rows with a nonzero
	// denominator.
	MeanFraction [len(composition.Canonical)]float64
	NFraction    int
	// MeanPhred is the mean per-read average quality over the NPhred FASTQ
	// rows.
	MeanPhred float64
	NPhred    int
}

// Describe computes a Description of rows. Undefined values are skipped
// rather than counted as zero.
func Describe(rows []SequenceRecord) Description {
	d := Description{N: len(rows)}
	if len(rows) == 0 {
		return d
	}
	var sumLen, sumGC, sumPhred float64
	var sumFrac [len(composition.Canonical)]float64
	for i := range rows {
		r := &rows[i]
		sumLen += float64(r.Length)
		if r.GCDefined {
			sumGC += r.GCPercent
			d.NGC++
		}
		if r.Denom > 0 {
			for j, b := range composition.Canonical {
				f, _ := r.Fraction(b)
				sumFrac[j] += f
			}
			d.NFraction++
		}
		if r.QualityMetrics != nil {
			sumPhred += r.QualityMetrics.Average
			d.NPhred++
		}
	}
	d.MeanLength = sumLen / float64(d.N)
	if d.NGC > 0 {
		d.MeanGC = sumGC / float64(d.NGC)
	}
	if d.NGC > 1 {
		var ss float64
		for i := range rows {
			if rows[i].GCDefined {
				dev := rows[i].GCPercent - d.MeanGC
				ss += dev * dev
			}
		}
		d.StdGC = math.Sqrt(ss / float64(d.NGC-1))
	}
	if d.NFraction > 0 {
		for j := range sumFrac {
			d.MeanFraction[j] = sumFrac[j] / float64(d.NFraction)
		}
	}
	if d.NPhred > 0 {
		d.MeanPhred = sumPhred / float64(d.NPhred)
	}
	return d
}

// Bin is one histogram bucket covering [Lo, Hi). The last bucket of a
// histogram also includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram buckets values into nbins equal-width bins spanning their range.
// It returns nil for no values or nbins <= 0. If all values are equal, a
// single bin holds them all.
func Histogram(values []float64, nbins int) []Bin {
	if len(values) == 0 || nbins <= 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}
	width := (hi - lo) / float64(nbins)
	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[nbins-1].Hi = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= nbins {
			i = nbins - 1
		}
		bins[i].Count++
	}
	return bins
}

// Lengths returns the Length of each row.
func Lengths(rows []SequenceRecord) []float64 {
	v := make([]float64, len(rows))
	for i := range rows {
		v[i] = float64(rows[i].Length)
	}
	return v
}

// GCPercents returns GCPercent of the rows whose GC is defined.
func GCPercents(rows []SequenceRecord) []float64 {
	var v []float64
	for i := range rows {
		if rows[i].GCDefined {
			v = append(v, rows[i].GCPercent)
		}
	}
	return v
}

// Phreds returns the average quality of the FASTQ rows.
func Phreds(rows []SequenceRecord) []float64 {
	var v []float64
	for i := range rows {
		if m := rows[i].QualityMetrics; m != nil {
			v = append(v, m.Average)
		}
	}
	return v
}
