package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const validIR = `define i32 @main() {
entry:
  %x = add i32 1, 2
  ret i32 %x
}
`

const badIR = `define void @f() {
  ret i32 1
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(content), 0o600), nil)
	return path
}

// run executes llvet with args and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root, finish := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	finish()
	return out.String(), errOut.String(), err
}

func TestVerifyValidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	_, stderr, err := run(t, "verify", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stderr, "1 file verified, no violations"))
}

func TestVerifyReportsViolations(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.ll", badIR)
	_, stderr, err := run(t, "verify", "--format", "short", path)
	be.True(t, errors.Is(err, errFailed))
	be.True(t, strings.Contains(stderr, "@f %0 #0 (ret)"))
	be.True(t, strings.Contains(stderr, "1 file checked, 1 violation\n"))
}

func TestVerifyJSONGoesToStdout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.ll", badIR)
	stdout, _, err := run(t, "verify", "--format", "json", path)
	be.True(t, errors.Is(err, errFailed))
	var payload struct {
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	be.Err(t, json.Unmarshal([]byte(stdout), &payload), nil)
	be.Equal(t, payload.Count, 1)
	be.True(t, strings.HasPrefix(payload.Diagnostics[0].Code, "VER"))
}

func TestVerifyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ll", validIR)
	writeFile(t, dir, "b.ll", badIR)
	_, stderr, err := run(t, "verify", "--ui", "off", "--jobs", "2", dir)
	be.True(t, errors.Is(err, errFailed))
	be.True(t, strings.Contains(stderr, "2 files checked, 1 violation\n"))
}

func TestVerifyUnknownPhase(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	_, _, err := run(t, "verify", "--phases", "bogus", path)
	be.Err(t, err, "unknown verification phase")
}

func TestVerifyTimings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	_, stderr, err := run(t, "verify", "--timings", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stderr, "timings:"))
	be.True(t, strings.Contains(stderr, "verify/cfg"))
	be.True(t, !strings.Contains(stderr, "OBS6001"))
}

func TestConfigUnknownKeyWarns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "llvet.toml", "[verify]\nbogus = 1\n")
	path := writeFile(t, dir, "ok.ll", validIR)
	_, stderr, err := run(t, "verify", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stderr, `unknown key "verify.bogus"`))
}

func TestConfigFormatAndCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	writeFile(t, dir, "llvet.toml", "[output]\nformat = \"json\"\n[cache]\nenabled = true\ndir = "+
		strconvQuote(cacheDir)+"\n")
	path := writeFile(t, dir, "bad.ll", badIR)

	for range 2 {
		stdout, _, err := run(t, "verify", path)
		be.True(t, errors.Is(err, errFailed))
		be.True(t, strings.Contains(stdout, `"diagnostics"`))
	}
	entries, err := os.ReadDir(filepath.Join(cacheDir, "reports"))
	be.Err(t, err, nil)
	be.True(t, len(entries) > 0)
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestParseFormats(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)

	stdout, _, err := run(t, "parse", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "define i32 @main() {"))
	be.True(t, strings.Contains(stdout, "  %x = add i32 1, 2"))

	stdout, _, err = run(t, "parse", "--format", "summary", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "functions: 1 defined, 0 declared"))
	be.True(t, strings.Contains(stdout, "instructions: 2"))

	stdout, _, err = run(t, "parse", "--format", "dump", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "@main"))
	be.True(t, strings.Contains(stdout, "add i32 1, 2"))

	_, _, err = run(t, "parse", "--format", "xml", path)
	be.Err(t, err, "unknown format")
}

func TestParseSkipsVerifier(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.ll", badIR)
	_, _, err := run(t, "parse", "--format", "summary", path)
	be.Err(t, err, nil)
}

func TestParseErrorFails(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.ll", "define i32 @f( {\n")
	_, stderr, err := run(t, "parse", path)
	be.True(t, errors.Is(err, errFailed))
	be.True(t, stderr != "")
}

func TestTokenizeJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	stdout, _, err := run(t, "tokenize", "--format", "json", path)
	be.Err(t, err, nil)
	be.True(t, json.Valid([]byte(stdout)))
}

func TestCrosscheckAgrees(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	stdout, _, err := run(t, "crosscheck", path)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(stdout, "entity"))
	be.True(t, strings.Contains(stdout, "functions"))
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := run(t, "version", "--format", "json")
	be.Err(t, err, nil)
	var info struct {
		Version  string `json:"version"`
		Platform string `json:"platform"`
	}
	be.Err(t, json.Unmarshal([]byte(stdout), &info), nil)
	be.True(t, info.Version != "")
	be.True(t, info.Platform != "")
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.ll", validIR)
	tracePath := filepath.Join(dir, "run.ndjson")
	_, _, err := run(t, "verify", "--trace", tracePath, "--trace-level", "detail", path)
	be.Err(t, err, nil)
	data, err := os.ReadFile(tracePath)
	be.Err(t, err, nil)
	be.True(t, bytes.Contains(data, []byte("verify.cfg")))
}

func TestBadColorFlag(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.ll", validIR)
	_, _, err := run(t, "verify", "--color", "sometimes", path)
	be.Err(t, err, "invalid --color value")
}
