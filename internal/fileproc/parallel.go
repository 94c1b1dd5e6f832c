// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/panbanda/codestat/internal/progress"
	"github.com/panbanda/codestat/pkg/models"
	"github.com/panbanda/codestat/pkg/source"
)

// ErrTooLarge marks a file skipped for exceeding the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ProcessingError represents an error that occurred while processing a file.
// It matches models.ErrFileProcessing with errors.Is and unwraps to the
// underlying cause.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error { return e.Err }

// Is reports whether target is models.ErrFileProcessing.
func (e ProcessingError) Is(target error) bool {
	return target == models.ErrFileProcessing
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Len returns the number of collected errors.
func (e *ProcessingErrors) Len() int {
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors)
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		out[i] = pe
	}
	return out
}

func (e *ProcessingErrors) sort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	sort.SliceStable(e.Errors, func(i, j int) bool { return e.Errors[i].Path < e.Errors[j].Path })
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// Workers returns n, or the default worker count when n <= 0.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// MapIndexed applies fn to every item on a bounded pool. Result i belongs
// to items[i]; each task writes only its own slot.
func MapIndexed[I, T any](items []I, maxWorkers int, fn func(I) T) []T {
	if len(items) == 0 {
		return nil
	}
	results := make([]T, len(items))
	p := pool.New().WithMaxGoroutines(Workers(maxWorkers))
	for i, item := range items {
		p.Go(func() {
			results[i] = fn(item)
		})
	}
	p.Wait()
	return results
}

// Options configure MapSourceFiles.
type Options struct {
	// Workers bounds concurrency; <= 0 means 2x NumCPU.
	Workers int
	// MaxFileSize skips larger files with ErrTooLarge; 0 disables the limit.
	MaxFileSize int64
}

// MapSourceFiles reads each file from src and applies fn to its content on
// a bounded pool. Results keep the order of files with failed files left
// out; failures are returned sorted by path. Files not started before ctx
// is cancelled fail with the context error. Progress is reported to the
// reporter carried by ctx, if any.
func MapSourceFiles[T any](
	ctx context.Context,
	files []string,
	src source.ContentSource,
	opts Options,
	fn func(path string, content []byte) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	reporter := progress.FromContext(ctx)
	if reporter != nil {
		reporter.Add(len(files))
	}

	type slot struct {
		value T
		ok    bool
	}
	slots := make([]slot, len(files))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(Workers(opts.Workers)).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if reporter != nil {
				defer reporter.Tick(path)
			}
			if err := ctx.Err(); err != nil {
				errs.Add(path, err)
				return nil
			}

			if sizer, ok := src.(source.Sizer); ok && opts.MaxFileSize > 0 {
				if size, err := sizer.Size(path); err == nil && size > opts.MaxFileSize {
					errs.Add(path, fmt.Errorf("%w: %d bytes", ErrTooLarge, size))
					return nil
				}
			}

			content, err := src.Read(path)
			if err != nil {
				errs.Add(path, err)
				return nil
			}
			if opts.MaxFileSize > 0 && int64(len(content)) > opts.MaxFileSize {
				errs.Add(path, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(content)))
				return nil
			}

			value, err := fn(path, content)
			if err != nil {
				errs.Add(path, err)
				return nil
			}
			slots[i] = slot{value: value, ok: true}
			return nil
		})
	}
	_ = p.Wait()

	results := make([]T, 0, len(files))
	for _, s := range slots {
		if s.ok {
			results = append(results, s.value)
		}
	}
	if !errs.HasErrors() {
		return results, nil
	}
	errs.sort()
	return results, errs
}
