// Package textio opens line-oriented text files that may be gzip-, BGZF- or
// bzip2-compressed, preferring an external bgzip executable for the gzip
// family when one is available.
package textio

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Options control how compressed inputs are decoded.
type Options struct {
	// Bgzip is the path to a bgzip executable. When non-empty, .gz and .bgz
	// inputs are streamed through `bgzip -dc` instead of the in-process
	// gzip decoder.
	Bgzip string
	// Procs is the thread count passed to bgzip (-@). Values below 1 are
	// treated as 1.
	Procs int
}

// Open returns a stream of the decompressed contents of path. "-" reads
// stdin. The caller must Close the stream and check the error: for
// subprocess-backed streams a non-zero exit surfaces there, with the tool's
// captured stderr.
func Open(path string, opts Options) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	switch {
	case strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz"):
		if opts.Bgzip != "" {
			procs := opts.Procs
			if procs < 1 {
				procs = 1
			}
			return command(opts.Bgzip, "-@", fmt.Sprint(procs), "-dc", path)
		}
		return openGzip(path)
	case strings.HasSuffix(path, ".bz2"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &wrappedReader{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return os.Open(path)
	}
}

// FetchExecutable returns the absolute path of the first executable named
// name on PATH, or an error when none exists.
func FetchExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("command not found: %s", name)
	}
	return path, nil
}

func openGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
	}
	return &wrappedReader{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

type wrappedReader struct {
	io.Reader
	closers []io.Closer
}

func (w *wrappedReader) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
