package driver_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"llvet/internal/diag"
	"llvet/internal/driver"
)

func TestListFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ll", validIR)
	writeFile(t, dir, "a.ll", validIR)
	writeFile(t, dir, "sub/c.ll", validIR)
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".hidden/d.ll", validIR)

	files, err := driver.ListFiles(dir)
	be.Err(t, err, nil)
	be.Equal(t, files, []string{
		filepath.Join(dir, "a.ll"),
		filepath.Join(dir, "b.ll"),
		filepath.Join(dir, "sub", "c.ll"),
	})
}

func TestVerifyDirCollectsPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_ok.ll", validIR)
	writeFile(t, dir, "b_bad.ll", badReturnIR)
	writeFile(t, dir, "c_broken.ll", "define i32 @f( {\n")

	var mu sync.Mutex
	final := map[string]driver.Status{}
	queued := 0
	res, err := driver.VerifyDir(context.Background(), dir, driver.Options{
		Jobs: 2,
		Progress: driver.FuncSink(func(ev driver.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			if ev.Status == driver.StatusQueued {
				queued++
				return
			}
			final[filepath.Base(ev.File)] = ev.Status
		}),
	})
	be.Err(t, err, nil)
	be.Equal(t, len(res.Files), 3)
	be.True(t, !res.OK())
	be.Equal(t, res.Violations(), 1)

	be.True(t, res.Files[0].OK())
	be.Equal(t, codes(res.Files[1].Bag), []string{"VER4001"})
	be.True(t, res.Files[2].Err != nil)

	be.Equal(t, queued, 3)
	be.Equal(t, final["a_ok.ll"], driver.StatusDone)
	be.Equal(t, final["b_bad.ll"], driver.StatusError)
	be.Equal(t, final["c_broken.ll"], driver.StatusError)

	// все span'ы резолвятся общим FileSet
	merged := res.Bag()
	be.Equal(t, merged.Len(), 2)
	for _, d := range merged.Items() {
		be.True(t, int(d.Primary.File) < res.FileSet.Len())
	}
	be.Equal(t, res.FileSet.Get(merged.Items()[0].Primary.File).Path, res.Files[1].File.Path)
}

func TestVerifyFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.ll", validIR)
	missing := filepath.Join(dir, "missing.ll")

	res, err := driver.VerifyFiles(context.Background(), dir, []string{ok, missing}, driver.Options{})
	be.Err(t, err, nil)
	be.True(t, res.Files[0].OK())
	be.Equal(t, codes(res.Files[1].Bag), []string{diag.IOLoadFileError.ID()})
}

func TestVerifyDirIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ll", "b.ll", "c.ll", "d.ll"} {
		writeFile(t, dir, name, badReturnIR)
	}
	first, err := driver.VerifyDir(context.Background(), dir, driver.Options{Jobs: 4})
	be.Err(t, err, nil)
	second, err := driver.VerifyDir(context.Background(), dir, driver.Options{Jobs: 1})
	be.Err(t, err, nil)

	var a, b []string
	for _, d := range first.Bag().Items() {
		a = append(a, first.FileSet.Get(d.Primary.File).Path+" "+d.Message)
	}
	for _, d := range second.Bag().Items() {
		b = append(b, second.FileSet.Get(d.Primary.File).Path+" "+d.Message)
	}
	be.Equal(t, a, b)
	be.Equal(t, len(a), 4)
}

func TestVerifyDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ll", validIR)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.VerifyDir(ctx, dir, driver.Options{})
	be.Err(t, err, context.Canceled)
}

func TestVerifyDirEmpty(t *testing.T) {
	res, err := driver.VerifyDir(context.Background(), t.TempDir(), driver.Options{})
	be.Err(t, err, nil)
	be.Equal(t, len(res.Files), 0)
	be.True(t, res.OK())
}
