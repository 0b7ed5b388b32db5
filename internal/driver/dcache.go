package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"llvet/internal/diag"
	"llvet/internal/parser"
	"llvet/internal/source"
)

// Current schema version - increment when CachedReport format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит итоги проверки файлов по ключу cacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedSpan is a span without its FileID; offsets stay valid for the same
// content.
type CachedSpan struct {
	Start uint32
	End   uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

// CachedReport is the persisted outcome of VerifyFile for one file.
type CachedReport struct {
	Schema uint16
	Path   string

	// ParseError is set when the file did not parse.
	ParseError *CachedDiagnostic

	Violations int
	Dropped    int
	Kinds      map[string]int

	Diagnostics []CachedDiagnostic
	BagDropped  int
	CreatedAt   time.Time
}

// Open initializes a disk cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir initializes a disk cache rooted at dir.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, как в git objects
	return filepath.Join(c.dir, "reports", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a report to the disk cache.
func (c *DiskCache) Put(key Digest, rep *CachedReport) (err error) {
	if c == nil || rep == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp))
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(rep); err != nil {
		return errors.Join(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a report. A missing entry or one written by another schema is
// a miss, not an error.
func (c *DiskCache) Get(key Digest, out *CachedReport) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// snapshot converts the result for caching. Timing diagnostics are skipped.
func (r *Result) snapshot() *CachedReport {
	rep := &CachedReport{
		Schema:     diskCacheSchemaVersion,
		Path:       r.File.Path,
		BagDropped: r.Bag.Dropped(),
		CreatedAt:  time.Now().UTC(),
	}
	var perr *parser.Error
	if errors.As(r.Err, &perr) {
		cd := cachedDiagnostic(perr.Diagnostic())
		rep.ParseError = &cd
	}
	for _, d := range r.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		rep.Diagnostics = append(rep.Diagnostics, cachedDiagnostic(d))
	}
	if r.Report != nil {
		rep.Violations = r.Report.Len()
		rep.Dropped = r.Report.Dropped
		rep.Kinds = make(map[string]int)
		for _, v := range r.Report.Violations {
			rep.Kinds[v.Kind.String()]++
		}
	}
	return rep
}

// restore fills r from the cache entry for key. Any cache failure is a miss.
func (r *Result) restore(c *DiskCache, key Digest) bool {
	var rep CachedReport
	if ok, err := c.Get(key, &rep); err != nil || !ok {
		return false
	}
	for _, cd := range rep.Diagnostics {
		r.Bag.Add(cd.restore(r.File.ID))
	}
	if rep.ParseError != nil {
		d := rep.ParseError.restore(r.File.ID)
		r.Err = &parser.Error{Code: d.Code, Span: d.Primary, Msg: d.Message}
	}
	r.cachedViolations = rep.Violations + rep.Dropped
	r.Cached = true
	return true
}

func cachedDiagnostic(d diag.Diagnostic) CachedDiagnostic {
	cd := CachedDiagnostic{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Primary:  CachedSpan{Start: d.Primary.Start, End: d.Primary.End},
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, CachedNote{Span: CachedSpan{Start: n.Span.Start, End: n.Span.End}, Msg: n.Msg})
	}
	return cd
}

func (cd CachedDiagnostic) restore(file source.FileID) diag.Diagnostic {
	span := func(s CachedSpan) source.Span {
		return source.Span{File: file, Start: s.Start, End: s.End}
	}
	d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Primary), cd.Message)
	for _, n := range cd.Notes {
		d = d.WithNote(span(n.Span), n.Msg)
	}
	return d
}
