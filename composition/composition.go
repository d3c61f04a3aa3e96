// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package composition counts bases in nucleotide sequences and computes base
// and GC fractions under a selectable denominator.
package composition

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Base indexes the classes a sequence character is counted into.
type Base int

const (
	// A counts 'A'.
	A Base = iota
	// T counts 'T', and 'U' unless the analyzer keeps U.
	T
	// G counts 'G'.
	G
	// C counts 'C'.
	C
	// N counts 'N'.
	N
	// AMB counts every other character: IUPAC ambiguity codes, gaps, junk.
	AMB
	// NumBases is the number of classes.
	NumBases
)

var baseNames = [...]string{A: "A", T: "T", G: "G", C: "C", N: "N", AMB: "AMB"}

func (b Base) String() string {
	if b < 0 || b >= NumBases {
		return "invalid"
	}
	return baseNames[b]
}

// Canonical lists the bases that have fractions, in reporting order.
var Canonical = [...]Base{A, T, G, C}

// Mode selects the denominator of base and GC fractions.
type Mode int

const (
	// CanonicalMode divides by the number of A, T, G and C characters.
	CanonicalMode Mode = iota
	// RawMode divides by the normalized sequence length, N and AMB included.
	RawMode
)

func (m Mode) String() string {
	switch m {
	case CanonicalMode:
		return "canonical"
	case RawMode:
		return "raw"
	}
	return "invalid"
}

// ErrInvalidMode is the cause of errors returned for a mode other than
// "canonical" or "raw".
var ErrInvalidMode = errors.New("invalid denominator mode")

// ParseMode parses "canonical" or "raw". Matching is exact.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "canonical":
		return CanonicalMode, nil
	case "raw":
		return RawMode, nil
	}
	return 0, errors.Wrapf(ErrInvalidMode, "%q: must be \"canonical\" or \"raw\"", s)
}

// Composition holds the base counts of one sequence.
type Composition struct {
	Counts [NumBases]int
	// Denom is the denominator of all fractions: the canonical base count or
	// the normalized length, depending on the Mode used.
	Denom int
}

// Count returns the number of characters counted as b.
func (c Composition) Count(b Base) int { return c.Counts[b] }

// Len returns the normalized sequence length.
func (c Composition) Len() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// Fraction returns Count(b)/Denom. ok is false when Denom is 0, in which
// case the fraction is undefined, not zero.
func (c Composition) Fraction(b Base) (f float64, ok bool) {
	if c.Denom <= 0 {
		return 0, false
	}
	return float64(c.Counts[b]) / float64(c.Denom), true
}

// GC returns (G+C)/Denom. ok is false when Denom is 0.
func (c Composition) GC() (f float64, ok bool) {
	if c.Denom <= 0 {
		return 0, false
	}
	return float64(c.Counts[G]+c.Counts[C]) / float64(c.Denom), true
}

// Analyzer computes compositions under a fixed mode. The zero value uses
// CanonicalMode and treats U as T.
type Analyzer struct {
	Mode Mode
	// KeepU disables the U->T rewrite, so U counts as AMB.
	KeepU bool
}

// NewAnalyzer returns an Analyzer for the named mode.
func NewAnalyzer(mode string, keepU bool) (Analyzer, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Analyzer{}, err
	}
	return Analyzer{Mode: m, KeepU: keepU}, nil
}

// Analyze classifies every character of seq after trimming surrounding
// whitespace and upper-casing it.
func (a Analyzer) Analyze(seq string) Composition {
	seq = strings.TrimSpace(seq)
	var c Composition
	for i := 0; i < len(seq); i++ {
		ch := seq[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch == 'U' && !a.KeepU {
			ch = 'T'
		}
		switch ch {
		case 'A':
			c.Counts[A]++
		case 'T':
			c.Counts[T]++
		case 'G':
			c.Counts[G]++
		case 'C':
			c.Counts[C]++
		case 'N':
			c.Counts[N]++
		default:
			if ch >= 0x80 {
				// Count a multi-byte character once.
				_, size := utf8.DecodeRuneInString(seq[i:])
				i += size - 1
			}
			c.Counts[AMB]++
		}
	}
	switch a.Mode {
	case RawMode:
		c.Denom = c.Len()
	default:
		c.Denom = c.Counts[A] + c.Counts[T] + c.Counts[G] + c.Counts[C]
	}
	return c
}

// Analyze computes the composition of seq under the named mode.
func Analyze(seq, mode string) (Composition, error) {
	a, err := NewAnalyzer(mode, false)
	if err != nil {
		return Composition{}, err
	}
	return a.Analyze(seq), nil
}
