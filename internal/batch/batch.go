// Package batch runs independent per-file jobs on a fixed pool of workers.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Result is the outcome of one file's job.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// Summary counts job outcomes.
type Summary struct {
	Success int
	Failed  int
}

// Job processes one file.
type Job[T any] func(ctx context.Context, path string) (T, error)

type task struct {
	index int
	path  string
}

// Run executes job for every file using concurrency workers. Results are
// returned in the order of files. Once ctx is done, files not yet started
// fail with ctx.Err().
func Run[T any](ctx context.Context, files []string, concurrency int, job Job[T]) ([]Result[T], Summary) {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		wg      sync.WaitGroup
		counter struct {
			sync.Mutex
			Summary
		}
	)

	results := make([]Result[T], len(files))

	tasks := make(chan task, len(files))
	for i, file := range files {
		tasks <- task{index: i, path: file}
	}
	close(tasks)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				res := Result[T]{Path: t.path}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					res.Value, res.Err = job(ctx, t.path)
				}
				results[t.index] = res

				counter.Lock()
				if res.Err != nil {
					counter.Failed++
				} else {
					counter.Success++
				}
				counter.Unlock()
			}
		}()
	}

	wg.Wait()
	return results, counter.Summary
}

// FindFiles walks dir and returns the files whose extension is one of exts
// (case-insensitive), sorted.
func FindFiles(dir string, exts ...string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && want[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
