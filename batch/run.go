// Package batch converts many .torrent files concurrently and writes the
// results out in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/givxl33t/magneto/bencode"
	"github.com/givxl33t/magneto/torrentparser"
	"github.com/givxl33t/magneto/verify"
)

// Options configures a batch run
type Options struct {
	// Workers is the number of files converted at once; <= 0 means NumCPU
	Workers int
	// IncludeTrackers embeds tracker URLs in the magnet links
	IncludeTrackers bool
	// Verify cross-checks every result with the verify package
	Verify bool
}

// Result is the outcome for one input file. Err is set instead of the
// conversion fields when the file failed.
type Result struct {
	File       string
	MagnetLink string
	InfoHash   string
	Metadata   *torrentparser.Metadata
	Err        error
}

// ErrorKind classifies a failure for reports: "io", "parse", "validation",
// "verify", "canceled" or "error"
func ErrorKind(err error) string {
	var perr *bencode.ParseError
	var verr *torrentparser.ValidationError
	var pathErr *os.PathError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &perr):
		return "parse"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, verify.ErrMismatch):
		return "verify"
	case errors.As(err, &pathErr):
		return "io"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// Failures counts the results that carry an error
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// job is a single file to convert and its position in the input
type job struct {
	Index int
	Path  string
}

// indexedResult carries a Result back to the collector
type indexedResult struct {
	Index  int
	Result Result
}

// Run converts files with a pool of workers.
//
// The returned slice lines up with files. A failing file never stops the
// batch; once ctx is done the files not yet started fail with ctx.Err().
func Run(ctx context.Context, files []string, opts Options) []Result {
	out := make([]Result, len(files))
	if len(files) == 0 {
		return out
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	// make job queue that matches the number of files
	jobQueue := make(chan job, len(files))
	results := make(chan indexedResult)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobQueue {
				results <- indexedResult{
					Index:  j.Index,
					Result: convertFile(ctx, j.Path, opts),
				}
			}
		}()
	}

	for i, f := range files {
		jobQueue <- job{Index: i, Path: f}
	}
	close(jobQueue)

	go func() {
		wg.Wait()
		close(results)
	}()

	// a single collector owns out, so order only depends on the index
	done := 0
	for r := range results {
		out[r.Index] = r.Result
		done++
		logResult(done, len(files), r.Result)
	}

	return out
}

func convertFile(ctx context.Context, path string, opts Options) Result {
	res := Result{File: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	tf, err := torrentparser.ParseTorrentFile(path)
	if err != nil {
		res.Err = err
		return res
	}

	conv, err := tf.Convert(opts.IncludeTrackers)
	if err != nil {
		res.Err = err
		return res
	}

	if opts.Verify {
		err := verify.Check(tf.Bytes(), conv)
		switch {
		case errors.Is(err, verify.ErrMismatch):
			res.Err = fmt.Errorf("verifying %s: %w", conv.InfoHash, err)
			return res
		case err != nil:
			// a reference decoder rejecting the file says nothing about our result
			slog.Warn("could not verify", "file", path, "info_hash", conv.InfoHash, "err", err)
		}
	}

	res.MagnetLink = conv.MagnetLink
	res.InfoHash = conv.InfoHash
	res.Metadata = &conv.Metadata
	return res
}

func logResult(done, total int, r Result) {
	progress := fmt.Sprintf("%d/%d", done, total)
	if r.Err != nil {
		slog.Error("conversion failed", "progress", progress, "file", r.File, "kind", ErrorKind(r.Err), "err", r.Err)
		return
	}

	attrs := []any{"progress", progress, "file", r.File}
	slog.Info("converted", attrs...)

	attrs = append(attrs, "info_hash", r.InfoHash, "trackers", len(r.Metadata.Trackers))
	if r.Metadata.Name != nil {
		attrs = append(attrs, "name", *r.Metadata.Name)
	}
	if r.Metadata.Info != nil {
		attrs = append(attrs, "size", torrentparser.FormatSize(r.Metadata.Info.TotalLength))
	}
	slog.Debug("torrent details", attrs...)
}
