// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io/ioutil"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// loadInput returns the contents of path. Local files are memory-mapped;
// the returned function must be called once the data is no longer used.
func loadInput(ctx context.Context, path string) (data []byte, release func() error, err error) {
	if strings.Contains(path, "://") {
		return readFile(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, nil, err
	}
	if info.Size() == 0 {
		// Empty files cannot be mapped.
		return nil, f.Close, nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, nil, errors.Wrapf(err, "mmap %s", path)
	}
	release = func() error {
		err := mm.Unmap()
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
		return err
	}
	return mm, release, nil
}

func readFile(ctx context.Context, path string) (data []byte, release func() error, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	if data, err = ioutil.ReadAll(in.Reader(ctx)); err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	return data, func() error { return nil }, nil
}
