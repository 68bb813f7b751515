// File: heapdump/dumper.go
// Package heapdump captures heap snapshots to disk.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The artifact is the runtime's own binary heap dump format, written
// with debug.WriteHeapDump. Retention is bounded: once the managed
// directory holds more than MaxStored artifacts, the oldest are
// deleted first.

package heapdump

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/momentics/leakwatch/api"
)

// DefaultMaxStored bounds how many dump artifacts the managed directory
// keeps before the oldest is evicted.
const DefaultMaxStored = 7

const dumpExt = ".heapdump"

// Dumper writes heap dumps into a managed directory.
type Dumper struct {
	dir       string
	maxStored int
	logger    log.Logger
}

// New creates the directory if needed and returns a dumper managing it.
// maxStored values below 1 fall back to DefaultMaxStored.
func New(dir string, maxStored int, logger log.Logger) (*Dumper, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty dump directory", api.ErrInvalidArgument)
	}
	if maxStored < 1 {
		maxStored = DefaultMaxStored
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump directory: %w", err)
	}
	return &Dumper{dir: dir, maxStored: maxStored, logger: logger}, nil
}

// DumpHeap implements api.HeapDumper. The dump briefly stops the world;
// the coordinator already guarantees only one capture runs at a time.
func (d *Dumper) DumpHeap(req api.DumpRequest) (string, error) {
	name := fmt.Sprintf("%s_%s%s", time.Now().Format("2006-01-02_15-04-05.000"), req.Record.Key, dumpExt)
	path := filepath.Join(d.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dump file: %w", err)
	}
	debug.WriteHeapDump(f.Fd())
	info, statErr := f.Stat()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close dump file: %w", err)
	}

	size := "unknown"
	if statErr == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	level.Debug(d.logger).Log("msg", "heap dump written", "path", path, "size", size)

	d.evictOldest()
	return path, nil
}

// evictOldest removes the oldest artifacts beyond the retention bound.
// Eviction failures are logged, never propagated: the fresh dump is
// already on disk.
func (d *Dumper) evictOldest() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		level.Error(d.logger).Log("msg", "dump directory scan failed", "err", err)
		return
	}
	type dumpFile struct {
		path string
		mod  time.Time
	}
	var dumps []dumpFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != dumpExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dumps = append(dumps, dumpFile{path: filepath.Join(d.dir, e.Name()), mod: info.ModTime()})
	}
	if len(dumps) <= d.maxStored {
		return
	}
	sort.Slice(dumps, func(i, j int) bool { return dumps[i].mod.Before(dumps[j].mod) })
	for _, old := range dumps[:len(dumps)-d.maxStored] {
		if err := os.Remove(old.path); err != nil {
			level.Error(d.logger).Log("msg", "dump eviction failed", "path", old.path, "err", err)
		}
	}
}

// Nop is a HeapDumper for environments where capture is unsupported.
// Every request fails with api.ErrDumpUnsupported, which the
// coordinator logs and drops.
type Nop struct{}

// DumpHeap implements api.HeapDumper.
func (Nop) DumpHeap(api.DumpRequest) (string, error) {
	return "", api.ErrDumpUnsupported
}

var (
	_ api.HeapDumper = (*Dumper)(nil)
	_ api.HeapDumper = Nop{}
)
