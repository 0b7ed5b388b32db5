package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"llvet/internal/diag"
	"llvet/internal/source"
	"llvet/internal/trace"
)

// DirResult holds per-file results in path order. All spans resolve
// against FileSet.
type DirResult struct {
	Dir     string
	FileSet *source.FileSet
	Files   []*Result
}

// OK reports that every file parsed and verified cleanly.
func (d *DirResult) OK() bool {
	for _, r := range d.Files {
		if !r.OK() {
			return false
		}
	}
	return true
}

// Bag merges every file's diagnostics in path order.
func (d *DirResult) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for _, r := range d.Files {
		out.Merge(r.Bag)
	}
	return out
}

// Violations sums violations over all files.
func (d *DirResult) Violations() int {
	n := 0
	for _, r := range d.Files {
		n += r.Violations()
	}
	return n
}

// ListFiles возвращает отсортированный список всех *.ll файлов в директории.
func ListFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".ll") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// VerifyDir verifies every *.ll file under dir in parallel. A file that
// fails to load gets an IO5001 diagnostic; the error return is reserved for
// listing failures and cancellation.
func VerifyDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return VerifyFiles(ctx, dir, files, opts)
}

// VerifyFiles is VerifyDir over an explicit list.
func VerifyFiles(ctx context.Context, dir string, files []string, opts Options) (*DirResult, error) {
	fileSet := source.NewFileSetWithBase(dir)
	out := &DirResult{Dir: dir, FileSet: fileSet, Files: make([]*Result, len(files))}
	if len(files) == 0 {
		return out, nil
	}

	tr := opts.tracer()
	root := trace.Begin(tr, trace.ScopeDriver, "verify-dir", 0).WithExtra("files", fmt.Sprint(len(files)))
	defer root.End("")

	// FileSet не потокобезопасен на запись: грузим всё заранее,
	// воркеры только читают.
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Progress, ProgressEvent{File: path, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.Add(path, nil, 0)
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := fileSet.Get(fileIDs[i])

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: file.ID}, "failed to load file: "+loadErr.Error()))
				out.Files[i] = &Result{FileSet: fileSet, File: file, Bag: bag, Err: loadErr}
				emit(opts.Progress, ProgressEvent{File: path, Status: StatusError, Err: loadErr})
				return nil
			}

			started := time.Now()
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageParse, Status: StatusWorking})
			fileOpts := opts
			fileOpts.Context = gctx
			fileOpts.PhaseObserver = func(ev PhaseEvent) {
				if ev.Name == "verify" && ev.Status == PhaseStart {
					emit(opts.Progress, ProgressEvent{File: path, Stage: StageVerify, Status: StatusWorking})
				}
				opts.observe(ev)
			}
			res := runFile(fileSet, file, &fileOpts, root.ID())
			out.Files[i] = res

			if res.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			stage, status := StageVerify, StatusDone
			if res.Cached {
				stage = StageCache
			}
			if !res.OK() {
				status = StatusError
			}
			emit(opts.Progress, ProgressEvent{
				File: path, Stage: stage, Status: status, Err: res.Err,
				Elapsed: time.Since(started), Violations: res.Violations(),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
