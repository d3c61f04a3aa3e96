// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package linereader

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func readAll(r *Reader) ([]string, error) {
	var lines []string
	for {
		line, err := r.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, string(line))
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		data string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\n\r\nb\r\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		r := New(strings.NewReader(tt.data))
		got, err := readAll(r)
		expect.NoError(t, err)
		expect.EQ(t, got, tt.want, "%q", tt.data)
		expect.EQ(t, r.Line(), len(tt.want))
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestNextError(t *testing.T) {
	readErr := errors.New("boom")
	_, err := New(errReader{readErr}).Next()
	expect.EQ(t, err, readErr)
}
