package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Find returns every .txt file under root, sorted. A root that is a regular
// file is returned as the only entry.
func Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Outcome is the result of processing one file.
type Outcome[T any] struct {
	Path  string
	Value T
	Err   error
}

// Run calls fn for every file with at most workers calls in flight and
// returns the outcomes in file order. A failing file does not stop the
// batch; the returned error collects every failure. Once ctx is done no new
// file is started and the remaining outcomes carry ctx.Err().
func Run[T any](ctx context.Context, files []string, workers int, fn func(context.Context, string) (T, error)) ([]Outcome[T], error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome[T], len(files))

	var g errgroup.Group
	g.SetLimit(workers)

	var mu sync.Mutex
	var result *multierror.Error
	fail := func(path string, err error) {
		mu.Lock()
		result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
		mu.Unlock()
	}

	scheduled := 0
	for i, path := range files {
		outcomes[i].Path = path
		if ctx.Err() != nil {
			break
		}
		scheduled++
		i, path := i, path
		g.Go(func() error {
			v, err := fn(ctx, path)
			outcomes[i].Value = v
			outcomes[i].Err = err
			if err != nil {
				fail(path, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if scheduled < len(files) {
		err := ctx.Err()
		for i := scheduled; i < len(files); i++ {
			outcomes[i].Path = files[i]
			outcomes[i].Err = err
		}
		result = multierror.Append(result, fmt.Errorf("%d files not processed: %w", len(files)-scheduled, err))
	}
	glog.V(1).Infof("batch: %d files, %d scheduled, %d workers", len(files), scheduled, workers)
	return outcomes, result.ErrorOrNil()
}
