package spritemap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/esimov/spritemap/utils"
	"golang.org/x/sync/errgroup"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// licenseFile is the name of the license file stored next to the icons of a set.
const licenseFile = "LICENSE.txt"

// IconSource is a raw vector icon of a set.
type IconSource struct {
	SetID   string
	ID      string
	Buffer  []byte
	License string
}

// SourceProvider supplies the icon sources of a set.
type SourceProvider interface {
	Load(ctx context.Context, setID string, set *Set) ([]IconSource, error)
}

// DirProvider reads the icon sources of a set from the *.svg files of a directory.
// The icon id is the file name without its extension.
type DirProvider struct {
	// Root is the directory the set directories are relative to.
	Root string
	// Workers limits the number of files read concurrently.
	Workers int
}

// Load implements the SourceProvider interface. The sources are sorted by id.
func (p *DirProvider) Load(ctx context.Context, setID string, set *Set) ([]IconSource, error) {
	dir := setID
	if set != nil && set.Dir != "" {
		dir = set.Dir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.Root, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("set %s: unable to read the source directory: %w", setID, err)
	}

	var license string
	if data, err := os.ReadFile(filepath.Join(dir, licenseFile)); err == nil {
		license = string(data)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	sources := make([]IconSource, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(p.Workers))
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := strings.TrimSuffix(name, filepath.Ext(name))
			buf, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return &SourceError{Set: setID, Icon: id, Err: err}
			}
			sources[i] = IconSource{SetID: setID, ID: id, Buffer: buf, License: license}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// MemProvider serves icon sources held in memory, keyed by set id.
type MemProvider map[string][]IconSource

// Load implements the SourceProvider interface.
func (m MemProvider) Load(_ context.Context, setID string, _ *Set) ([]IconSource, error) {
	sources := make([]IconSource, len(m[setID]))
	copy(sources, m[setID])
	for i := range sources {
		sources[i].SetID = setID
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].ID < sources[j].ID
	})
	return sources, nil
}

// workers returns the size of a worker pool, limited to maxWorkers.
func workers(n int) int {
	if n <= 0 || n > maxWorkers {
		return utils.Min(runtime.NumCPU(), maxWorkers)
	}
	return n
}
