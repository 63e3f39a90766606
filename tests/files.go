// Package tests provides access to external test data, downloaded on first
// use.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

const sm83URL = `https://raw.githubusercontent.com/SingleStepTests/sm83/main/v1/%s.json`

func download(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SM83Name returns the base name of the test file of an opcode.
func SM83Name(opcode uint8, prefixed bool) string {
	if prefixed {
		return fmt.Sprintf("cb %02x", opcode)
	}
	return fmt.Sprintf("%02x", opcode)
}

// download the given SingleStepTests sm83 test files into dest dir.
func downloadSM83(tb testing.TB, dest string, names []string) error {
	tempdir, err := os.MkdirTemp("", "sm83.tests.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, name := range names {
		g.Go(func() error {
			return download(fmt.Sprintf(sm83URL, name), filepath.Join(tempdir, name+".json"))
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}

	tb.Log("renaming", tempdir, "to", dest)
	return os.Rename(tempdir, dest)
}

var sm83Once struct {
	sync.Once
	dir string
	err error
}

// SM83TestsPath returns the directory holding the sm83 single step tests,
// one JSON file per opcode. names lists the files to download if the
// directory doesn't exist yet. The test is skipped if they can't be
// downloaded.
func SM83TestsPath(tb testing.TB, names []string) string {
	sm83Once.Do(func() {
		_, b, _, _ := runtime.Caller(0)
		dir := filepath.Join(filepath.Dir(b), "sm83.tests")

		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			tb.Log("sm83.tests directory not found, downloading it...")
			if err := downloadSM83(tb, dir, names); err != nil {
				sm83Once.err = err
				return
			}
			tb.Log("sm83 tests downloaded in", dir)
		}
		sm83Once.dir = dir
	})

	if sm83Once.err != nil {
		tb.Skipf("sm83 tests not available: %v", sm83Once.err)
	}
	return sm83Once.dir
}
