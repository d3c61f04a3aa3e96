// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package quality computes per-read Phred statistics from FASTQ quality
// strings. Scores are always decoded as Phred+33.
package quality

// Offset is the ASCII offset of Phred+33 quality encoding.
const Offset = 33

// Score thresholds counted by Metrics.
const (
	Q20 = 20
	Q30 = 30
)

// Metrics summarizes the quality string of one read.
type Metrics struct {
	// Len is the number of quality characters, not bytes.
	Len int
	// Average is the mean Phred score, 0 for an empty string.
	Average float64
	Min     int
	Max     int
	// Q20 and Q30 count the bases with score >= 20 and >= 30.
	Q20 int
	Q30 int
	// Q20Percent and Q30Percent are Q20 and Q30 as a percentage of Len, 0
	// for an empty string.
	Q20Percent float64
	Q30Percent float64
}

// Score decodes one Phred+33 quality character.
func Score(c rune) int { return int(c) - Offset }

// Analyze computes Metrics for qual, one score per character. Characters
// below '!' yield negative scores; they are not rejected.
func Analyze(qual string) Metrics {
	var m Metrics
	sum := 0
	for _, c := range qual {
		q := Score(c)
		if m.Len == 0 || q < m.Min {
			m.Min = q
		}
		if m.Len == 0 || q > m.Max {
			m.Max = q
		}
		m.Len++
		sum += q
		if q >= Q20 {
			m.Q20++
		}
		if q >= Q30 {
			m.Q30++
		}
	}
	if m.Len == 0 {
		return m
	}
	n := float64(m.Len)
	m.Average = float64(sum) / n
	m.Q20Percent = float64(m.Q20) / n * 100
	m.Q30Percent = float64(m.Q30) / n * 100
	return m
}
