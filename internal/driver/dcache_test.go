package driver_test

import (
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"llvet/internal/driver"
	"llvet/internal/verify"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := driver.OpenDir(filepath.Join(t.TempDir(), "cache"))
	be.Err(t, err, nil)

	var key driver.Digest
	key[0] = 0xab
	var out driver.CachedReport
	ok, err := c.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, !ok)

	in := &driver.CachedReport{Schema: 1, Path: "a.ll", Violations: 2, Kinds: map[string]int{"TypeMismatch": 2}}
	be.Err(t, c.Put(key, in), nil)
	ok, err = c.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, out.Path, "a.ll")
	be.Equal(t, out.Kinds["TypeMismatch"], 2)

	be.Err(t, c.DropAll(), nil)
	ok, err = c.Get(key, &driver.CachedReport{})
	be.Err(t, err, nil)
	be.True(t, !ok)
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	c, err := driver.OpenDir(t.TempDir())
	be.Err(t, err, nil)
	var key driver.Digest
	be.Err(t, c.Put(key, &driver.CachedReport{Schema: 999}), nil)
	ok, err := c.Get(key, &driver.CachedReport{})
	be.Err(t, err, nil)
	be.True(t, !ok)
}

func TestVerifyFileUsesCache(t *testing.T) {
	dir := t.TempDir()
	c, err := driver.OpenDir(filepath.Join(dir, "cache"))
	be.Err(t, err, nil)
	path := writeFile(t, dir, "bad.ll", badReturnIR)

	opts := driver.Options{Cache: c}
	first, err := driver.VerifyFile(path, opts)
	be.Err(t, err, nil)
	be.True(t, !first.Cached)

	second, err := driver.VerifyFile(path, opts)
	be.Err(t, err, nil)
	be.True(t, second.Cached)
	be.True(t, second.Module == nil)
	be.Equal(t, second.Violations(), first.Violations())
	be.Equal(t, codes(second.Bag), codes(first.Bag))
	be.Equal(t, second.Bag.Items()[0].Primary.Start, first.Bag.Items()[0].Primary.Start)
	be.Equal(t, second.Bag.Items()[0].Message, first.Bag.Items()[0].Message)

	// другие фазы дают другой ключ
	third, err := driver.VerifyFile(path, driver.Options{Cache: c, Verify: verify.PhaseCFG})
	be.Err(t, err, nil)
	be.True(t, !third.Cached)
	be.True(t, third.OK())

	// изменённый текст промахивается
	writeFile(t, dir, "bad.ll", validIR)
	fourth, err := driver.VerifyFile(path, opts)
	be.Err(t, err, nil)
	be.True(t, !fourth.Cached)
	be.True(t, fourth.OK())
}

func TestCachedParseErrorKeepsErr(t *testing.T) {
	dir := t.TempDir()
	c, err := driver.OpenDir(filepath.Join(dir, "cache"))
	be.Err(t, err, nil)
	path := writeFile(t, dir, "broken.ll", "define i32 @f( {\n")

	_, err = driver.VerifyFile(path, driver.Options{Cache: c})
	be.Err(t, err, nil)
	res, err := driver.VerifyFile(path, driver.Options{Cache: c})
	be.Err(t, err, nil)
	be.True(t, res.Cached)
	be.True(t, res.Err != nil)
	be.True(t, !res.OK())
}
