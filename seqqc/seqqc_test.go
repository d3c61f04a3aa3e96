// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqqc_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/seqqc/composition"
	"github.com/grailbio/seqqc/encoding/fastq"
	"github.com/grailbio/seqqc/encoding/seqfile"
	"github.com/grailbio/seqqc/seqqc"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastqText(ids ...string) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "@%s sample=1\nACGTGC\n+\nIIII##\n", id)
	}
	return b.String()
}

func manyFasta(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, ">rec%d\nACGT\nGGCC\n", i)
	}
	return b.String()
}

func gzipText(t *testing.T, text string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func opts(fn func(*seqqc.Opts)) seqqc.Opts {
	o := seqqc.DefaultOpts
	if fn != nil {
		fn(&o)
	}
	return o
}

func TestParseIDs(t *testing.T) {
	assert.Nil(t, seqqc.ParseIDs(""))
	assert.Nil(t, seqqc.ParseIDs("  \n\t , ,"))
	ids := seqqc.ParseIDs("a,b c\nd,,a \t e")
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}, "d": {}, "e": {}}, ids)
}

func TestUniversalCap(t *testing.T) {
	ctx := context.Background()
	in := seqqc.Input{Name: "many.fasta", Data: []byte(manyFasta(1000))}
	res, err := seqqc.Universal(ctx, in, opts(func(o *seqqc.Opts) { o.MaxRecords = 50 }))
	require.NoError(t, err)
	assert.Len(t, res.Records, 50)
	assert.Equal(t, 50, res.TotalSequences)
	assert.Equal(t, int64(50*8), res.TotalBases)
	assert.Equal(t, seqfile.Fasta, res.Format)
	assert.Equal(t, seqfile.None, res.Compression)
	assert.Equal(t, "rec0", res.Records[0].ID)
	assert.Equal(t, "rec49", res.Records[49].ID)

	r := res.Records[0]
	assert.Equal(t, 8, r.Length)
	assert.True(t, r.GCDefined)
	assert.InDelta(t, 75.0, r.GCPercent, 1e-9)
	assert.Equal(t, "A", r.FirstBase)
	assert.Equal(t, "C", r.LastBase)
	assert.Equal(t, "", r.Sequence)
	assert.Nil(t, r.QualityMetrics)

	_, err = seqqc.Universal(ctx, in, opts(func(o *seqqc.Opts) { o.MaxRecords = 0 }))
	assert.Equal(t, seqqc.ErrInvalidCap, errors.Cause(err))
}

func TestUniversalFastqGzip(t *testing.T) {
	data := gzipText(t, fastqText("r1", "r2"))
	in := seqqc.Input{Name: "reads.fq.gz", Data: data}
	res, err := seqqc.Universal(context.Background(), in, opts(func(o *seqqc.Opts) {
		o.KeepSequence = true
		o.KeepQuality = true
	}))
	require.NoError(t, err)
	assert.Equal(t, seqfile.Fastq, res.Format)
	assert.Equal(t, seqfile.Gzip, res.Compression)
	assert.Equal(t, seqqc.Source{Name: "reads.fq.gz", Size: len(data), Digest: seahash.Sum64(data)}, res.Source)
	require.Len(t, res.Records, 2)
	r := res.Records[1]
	assert.Equal(t, "r2", r.ID)
	assert.Equal(t, "sample=1", r.Description)
	assert.Equal(t, "ACGTGC", r.Sequence)
	assert.Equal(t, "IIII##", r.Quality)
	require.NotNil(t, r.QualityMetrics)
	assert.Equal(t, 40, r.QualityMetrics.Max)
	assert.Equal(t, 2, r.QualityMetrics.Min)
	assert.Equal(t, 4, r.QualityMetrics.Q30)
	assert.Equal(t, "", r.FirstBase)
}

func TestUniversalSniffsFormat(t *testing.T) {
	in := seqqc.Input{Name: "upload", Data: []byte("\n>only\nGATTACA\n")}
	res, err := seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	assert.Equal(t, seqfile.Fasta, res.Format)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "only", res.Records[0].ID)

	in = seqqc.Input{Name: "upload", Data: []byte(" \t>padded\nAC\n")}
	res, err = seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "padded", res.Records[0].ID)

	in = seqqc.Input{Name: "upload", Data: []byte("  @r1\nAC\n+\nII\n")}
	res, err = seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	assert.Equal(t, seqfile.Fastq, res.Format)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "r1", res.Records[0].ID)

	in = seqqc.Input{Name: "upload", Data: []byte("LOCUS       X\n//\n")}
	_, err = seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	assert.Equal(t, seqfile.ErrUnresolvedFormat, errors.Cause(err))
}

func TestUniversalGenBankAndEMBL(t *testing.T) {
	gb := `LOCUS       AB000001                  12 bp    DNA     linear   BCT 01-JAN-2000
DEFINITION  Test sequence.
ACCESSION   AB000001
VERSION     AB000001.1
ORIGIN
        1 acgtacgtnn nn
//
`
	res, err := seqqc.Universal(context.Background(), seqqc.Input{Name: "x.gbk", Data: []byte(gb)}, seqqc.DefaultOpts)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Equal(t, "AB000001.1", r.ID)
	assert.Equal(t, "Test sequence", r.Description)
	assert.Equal(t, 12, r.Length)
	assert.Equal(t, 8, r.Denom)
	assert.Equal(t, 4, r.Counts[composition.N])

	embl := `ID   X56734; SV 1; linear; mRNA; STD; PLN; 8 BP.
AC   X56734;
DE   Test entry.
SQ   Sequence 8 BP;
     ggccnnat                                                             8
//
`
	res, err = seqqc.Universal(context.Background(), seqqc.Input{Name: "x.embl", Data: []byte(embl)}, opts(func(o *seqqc.Opts) { o.Mode = "raw" }))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	r = res.Records[0]
	assert.Equal(t, "X56734.1", r.ID)
	assert.Equal(t, 8, r.Denom)
	assert.InDelta(t, 50.0, r.GCPercent, 1e-9)
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	in := seqqc.Input{Name: "reads.fastq", Data: []byte(fastqText("seq1", "seq2", "seq3"))}
	res, err := seqqc.Filter(ctx, in, opts(func(o *seqqc.Opts) { o.IDs = "seq2" }))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "seq2", res.Records[0].ID)
	assert.True(t, res.Filtered)
	assert.Equal(t, 1, res.FilterCount)
	assert.Equal(t, 1, res.TotalSequences)

	res, err = seqqc.Filter(ctx, in, opts(func(o *seqqc.Opts) { o.IDs = " \n" }))
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.False(t, res.Filtered)
	assert.Equal(t, 0, res.FilterCount)

	// The cap counts kept reads only.
	res, err = seqqc.Filter(ctx, in, opts(func(o *seqqc.Opts) {
		o.IDs = "seq3, seq1, missing"
		o.MaxRecords = 1
	}))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "seq1", res.Records[0].ID)
	assert.Equal(t, 3, res.FilterCount)
}

func TestFilterRejectsNonFastq(t *testing.T) {
	in := seqqc.Input{Name: "x.fa", Data: []byte(">seq1\nACGT\n")}
	_, err := seqqc.Filter(context.Background(), in, seqqc.DefaultOpts)
	assert.Equal(t, seqqc.ErrInvalidOperation, errors.Cause(err))
}

func TestInvalidModeBeforeReading(t *testing.T) {
	// The input is unresolvable, so any read would fail differently.
	in := seqqc.Input{Name: "junk", Data: []byte{0x1f, 0x8b, 0}}
	o := opts(func(o *seqqc.Opts) { o.Mode = "weird" })
	_, err := seqqc.Stats(context.Background(), in, o)
	assert.Equal(t, composition.ErrInvalidMode, errors.Cause(err))
	_, err = seqqc.Filter(context.Background(), in, o)
	assert.Equal(t, composition.ErrInvalidMode, errors.Cause(err))
	_, err = seqqc.Universal(context.Background(), in, o)
	assert.Equal(t, composition.ErrInvalidMode, errors.Cause(err))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	sum, err := seqqc.Stats(ctx, seqqc.Input{Name: "empty.fa"}, seqqc.DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, sum.TotalSequences, 0)
	expect.EQ(t, sum.AverageLength, 0.0)
	expect.EQ(t, sum.AverageGC, 0.0)

	// Stats has no cap.
	sum, err = seqqc.Stats(ctx, seqqc.Input{Name: "many.fa", Data: []byte(manyFasta(1000))}, opts(func(o *seqqc.Opts) { o.MaxRecords = 1 }))
	require.NoError(t, err)
	expect.EQ(t, sum.TotalSequences, 1000)
	expect.EQ(t, sum.TotalBases, int64(8000))
	expect.EQ(t, sum.AverageLength, 8.0)
	expect.EQ(t, sum.AverageGC, 75.0)
	expect.EQ(t, sum.AveragePhred, 0.0)

	sum, err = seqqc.Stats(ctx, seqqc.Input{Name: "r.fq", Data: []byte("@a\nGGG\n+\nIII\n@b\nAAAA\n+\n5555\n")}, seqqc.DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, sum.Format, seqfile.Fastq)
	expect.EQ(t, sum.AverageLength, 3.5)
	expect.EQ(t, sum.AverageGC, 50.0)
	expect.EQ(t, sum.AveragePhred, 30.0)
}

func TestStatsUndefinedGCCountsAsZero(t *testing.T) {
	in := seqqc.Input{Name: "x.fa", Data: []byte(">a\nGGCC\n>b\nNNNN\n>c\nGCA\n")}
	sum, err := seqqc.Stats(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	// (100 + 0 + 66.67) / 3
	expect.EQ(t, sum.AverageGC, 55.56)

	res, err := seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.False(t, res.Records[1].GCDefined)
	d := seqqc.Describe(res.Records)
	assert.Equal(t, 2, d.NGC)
	assert.InDelta(t, (100+200.0/3)/2, d.MeanGC, 1e-9)
}

func TestStrictQuality(t *testing.T) {
	in := seqqc.Input{Name: "r.fq", Data: []byte("@a\nACGT\n+\nII\n")}
	res, err := seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 2, res.Records[0].QualityMetrics.Len)
	assert.Equal(t, 4, res.Records[0].Length)

	strict := opts(func(o *seqqc.Opts) { o.StrictQuality = true })
	_, err = seqqc.Universal(context.Background(), in, strict)
	assert.Equal(t, seqqc.ErrQualityLength, errors.Cause(err))
	_, err = seqqc.Filter(context.Background(), in, strict)
	assert.Equal(t, seqqc.ErrQualityLength, errors.Cause(err))
	_, err = seqqc.Stats(context.Background(), in, strict)
	assert.Equal(t, seqqc.ErrQualityLength, errors.Cause(err))
}

func TestQualityCountsCharacters(t *testing.T) {
	// 0xC9 is one latin1 character, two bytes once decoded to UTF-8.
	in := seqqc.Input{Name: "r.fq", Data: []byte("@a\nA\n+\n\xc9\n")}
	o := opts(func(o *seqqc.Opts) {
		o.Encoding = "latin1"
		o.StrictQuality = true
	})
	res, err := seqqc.Universal(context.Background(), in, o)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	r := res.Records[0]
	assert.Equal(t, 1, r.Length)
	assert.Equal(t, 1, r.QualityMetrics.Len)
	assert.Equal(t, 168.0, r.QualityMetrics.Average)
	assert.Equal(t, 168, r.QualityMetrics.Max)

	sum, err := seqqc.Stats(context.Background(), in, o)
	require.NoError(t, err)
	assert.Equal(t, 168.0, sum.AveragePhred)
}

func TestParserErrorPropagates(t *testing.T) {
	in := seqqc.Input{Name: "r.fq", Data: []byte("@a\nACGT\n+\nIIII\n@b\nAC")}
	_, err := seqqc.Universal(context.Background(), in, seqqc.DefaultOpts)
	assert.Equal(t, fastq.ErrShort, err)

	data := gzipText(t, manyFasta(10))
	in = seqqc.Input{Name: "x.fa.gz", Data: data[:len(data)-10]}
	_, err = seqqc.Stats(context.Background(), in, seqqc.DefaultOpts)
	assert.Equal(t, seqfile.ErrDecode, errors.Cause(err))
}

func TestIterator(t *testing.T) {
	ctx := context.Background()
	s, err := seqfile.Open([]byte(fastqText("x1", "x2", "x3")), "")
	require.NoError(t, err)
	it, err := seqqc.NewIterator(ctx, s, seqfile.Fastq, seqqc.IteratorOpts{
		Cap:    1,
		Wanted: map[string]struct{}{"x2": {}, "x3": {}},
	})
	require.NoError(t, err)
	var ids []string
	for it.Scan() {
		ids = append(ids, it.Record().ID)
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, []string{"x2"}, ids)
	assert.False(t, it.Scan())

	s, err = seqfile.Open([]byte(">a\nAC\n"), "")
	require.NoError(t, err)
	_, err = seqqc.NewIterator(ctx, s, seqfile.Fasta, seqqc.IteratorOpts{Wanted: map[string]struct{}{"a": {}}})
	assert.Equal(t, seqqc.ErrInvalidOperation, errors.Cause(err))
}

func TestIteratorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := seqfile.Open([]byte(manyFasta(10)), "")
	require.NoError(t, err)
	it, err := seqqc.NewIterator(ctx, s, seqfile.Fasta, seqqc.IteratorOpts{})
	require.NoError(t, err)
	require.True(t, it.Scan())
	cancel()
	assert.False(t, it.Scan())
	assert.Equal(t, context.Canceled, it.Err())
}
