package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/gutenkjv/core/cas"
	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/ref"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
	"github.com/FocuswithJustin/gutenkjv/internal/formats/formatstest"
	"github.com/FocuswithJustin/gutenkjv/internal/logging"
	"github.com/FocuswithJustin/gutenkjv/internal/manifest"
)

const fixture = "../../core/gutenberg/testdata/mini.txt"

var miniStats = scripture.Stats{OldBooks: 7, NewBooks: 2, Chapters: 11, Verses: 15}

func TestMain(m *testing.M) {
	logging.InitLoggerTo(io.Discard, logging.LevelError, logging.FormatText)
	os.Exit(m.Run())
}

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// copyFixture writes the synthetic eBook into dir and returns its path.
func copyFixture(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return createTestFile(t, dir, "pg10.txt", string(data))
}

func parseFixture(t *testing.T) *scripture.Document {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return gutenberg.Parse(string(data), gutenberg.DefaultOptions())
}

// captureStdout redirects command output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// parserFlags mirrors the flag defaults kong fills in.
func parserFlags() ParserFlags {
	return ParserFlags{
		StartMarker: gutenberg.DefaultStartMarker,
		EndMarker:   gutenberg.DefaultEndMarker,
	}
}

// Tests for command-line parsing

func TestCLIDefaultsAndEnv(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("GUTENKJV_CACHE_DIR", cacheDir)
	t.Setenv("GUTENKJV_LOG_LEVEL", "debug")

	parser, err := kong.New(&CLI, kong.Name("gutenkjv"), markerVars)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	if _, err := parser.Parse([]string{"parse", "pg10.txt", "-o", "kjv.bin"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if CLI.Parse.StartMarker != gutenberg.DefaultStartMarker {
		t.Errorf("StartMarker = %q, want %q", CLI.Parse.StartMarker, gutenberg.DefaultStartMarker)
	}
	if CLI.Parse.EndMarker != gutenberg.DefaultEndMarker {
		t.Errorf("EndMarker = %q, want %q", CLI.Parse.EndMarker, gutenberg.DefaultEndMarker)
	}
	if CLI.Parse.CacheDir != cacheDir {
		t.Errorf("CacheDir = %q, want %q", CLI.Parse.CacheDir, cacheDir)
	}
	if CLI.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", CLI.LogLevel, "debug")
	}
	if CLI.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", CLI.LogFormat, "text")
	}
}

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() {
		logging.InitLoggerTo(io.Discard, logging.LevelError, logging.FormatText)
	})

	if err := configureLogging("warn", "json"); err != nil {
		t.Errorf("configureLogging(warn, json) error = %v", err)
	}
	if err := configureLogging("loud", "text"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := configureLogging("info", "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := loadEnv(); err != nil {
		t.Fatalf("loadEnv() without .env error = %v", err)
	}

	t.Setenv("GUTENKJV_LOG_FORMAT", "")
	os.Unsetenv("GUTENKJV_LOG_FORMAT")
	createTestFile(t, dir, ".env", "GUTENKJV_LOG_FORMAT=json\n")
	if err := loadEnv(); err != nil {
		t.Fatalf("loadEnv() error = %v", err)
	}
	if got := os.Getenv("GUTENKJV_LOG_FORMAT"); got != "json" {
		t.Errorf("GUTENKJV_LOG_FORMAT = %q, want %q", got, "json")
	}
}

// Tests for ParseCmd

func TestParseCmd_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)
	manifestPath := filepath.Join(dir, "run.json")

	cmd := &ParseCmd{
		Input: input,
		Out: []string{
			filepath.Join(dir, "kjv.bin"),
			filepath.Join(dir, "out", "kjv.json.xz"),
			filepath.Join(dir, "kjv.keyed.json"),
			filepath.Join(dir, "kjv.db"),
			filepath.Join(dir, "kjv.osis.xml.gz"),
			filepath.Join(dir, "kjv.xlsx"),
		},
		Manifest:    manifestPath,
		ParserFlags: parserFlags(),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if m.Status != manifest.StatusCompleted {
		t.Errorf("Status = %q, want %q", m.Status, manifest.StatusCompleted)
	}
	if m.Stats != miniStats {
		t.Errorf("Stats = %+v, want %+v", m.Stats, miniStats)
	}
	if m.Cached {
		t.Error("first run should not be cached")
	}
	if len(m.Suppressed) != 2 {
		t.Errorf("Suppressed = %d, want 2", len(m.Suppressed))
	}

	wantFormats := []string{"bin", "json", "json-keyed", "sqlite", "osis", "xlsx"}
	var gotFormats []string
	for _, o := range m.Outputs {
		gotFormats = append(gotFormats, o.Format)
	}
	if !reflect.DeepEqual(gotFormats, wantFormats) {
		t.Errorf("output formats = %v, want %v", gotFormats, wantFormats)
	}
	if m.Outputs[1].Compression != "xz" {
		t.Errorf("json compression = %q, want xz", m.Outputs[1].Compression)
	}

	want := parseFixture(t)
	for _, out := range cmd.Out[:5] {
		codec, err := formats.ByPath(out)
		if err != nil {
			t.Fatalf("ByPath(%s) error = %v", out, err)
		}
		got, err := formats.ReadFile(out, codec)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", out, err)
		}
		formatstest.Equal(t, got, want)
	}
}

func TestParseCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	out := captureStdout(t)

	cmd := &ParseCmd{Input: copyFixture(t, dir), ParserFlags: parserFlags()}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	codec, err := formats.Lookup("json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := formats.DecodeBytes(codec, out.Bytes())
	if err != nil {
		t.Fatalf("stdout is not a json document: %v", err)
	}
	if got := doc.Stats(); got != miniStats {
		t.Errorf("Stats() = %+v, want %+v", got, miniStats)
	}
}

func TestParseCmd_Cache(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)
	cacheDir := filepath.Join(dir, "cache")

	run := func(name string) *manifest.Manifest {
		t.Helper()
		manifestPath := filepath.Join(dir, name+".manifest.json")
		cmd := &ParseCmd{
			Input:       input,
			Out:         []string{filepath.Join(dir, name+".bin")},
			CacheDir:    cacheDir,
			Manifest:    manifestPath,
			ParserFlags: parserFlags(),
		}
		if err := cmd.Run(); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		m, err := manifest.ReadFile(manifestPath)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		return m
	}

	first := run("first")
	second := run("second")

	if first.Cached {
		t.Error("first run should parse")
	}
	if !second.Cached {
		t.Error("second run should hit the cache")
	}
	if second.Stats != miniStats {
		t.Errorf("cached Stats = %+v, want %+v", second.Stats, miniStats)
	}
	if first.Source.BLAKE3 != second.Source.BLAKE3 {
		t.Error("source digests differ between runs")
	}
	if first.Outputs[0].SHA256 != second.Outputs[0].SHA256 {
		t.Error("cached document encodes differently from the parsed one")
	}
}

func TestParseCmd_InvalidCacheEntry(t *testing.T) {
	var logs bytes.Buffer
	logging.InitLoggerTo(&logs, logging.LevelWarn, logging.FormatJSON)
	t.Cleanup(func() {
		logging.InitLoggerTo(io.Discard, logging.LevelError, logging.FormatText)
	})

	dir := t.TempDir()
	input := copyFixture(t, dir)
	cacheDir := filepath.Join(dir, "cache")
	manifestPath := filepath.Join(dir, "run.json")
	cmd := &ParseCmd{
		Input:       input,
		Out:         []string{filepath.Join(dir, "kjv.bin")},
		CacheDir:    cacheDir,
		Manifest:    manifestPath,
		ParserFlags: parserFlags(),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	source := cas.Sum(data).BLAKE3
	entry := filepath.Join(cacheDir, "index", source[:2], source+"."+cacheKey+".json")
	if err := os.WriteFile(entry, []byte("{"), 0644); err != nil {
		t.Fatalf("failed to corrupt cache entry: %v", err)
	}
	logs.Reset()

	if err := cmd.Run(); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if m.Cached {
		t.Error("run with an invalid cache entry should not be cached")
	}
	if m.Stats != miniStats {
		t.Errorf("Stats = %+v, want %+v", m.Stats, miniStats)
	}
	if !strings.Contains(logs.String(), `"msg":"cache_entry_invalid"`) {
		t.Errorf("expected cache_entry_invalid warning, got %s", logs.String())
	}
	if strings.Contains(logs.String(), "cache_read_failed") {
		t.Errorf("invalid entry logged as a read failure: %s", logs.String())
	}
}

func TestParseCmd_TraceLogsEvents(t *testing.T) {
	var logs bytes.Buffer
	logging.InitLoggerTo(&logs, logging.LevelDebug, logging.FormatJSON)
	t.Cleanup(func() {
		logging.InitLoggerTo(io.Discard, logging.LevelError, logging.FormatText)
	})

	dir := t.TempDir()
	cmd := &ParseCmd{
		Input:       copyFixture(t, dir),
		Out:         []string{filepath.Join(dir, "kjv.bin")},
		CacheDir:    filepath.Join(dir, "cache"),
		Trace:       true,
		ParserFlags: parserFlags(),
	}
	for i := 0; i < 2; i++ {
		if err := cmd.Run(); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	counts := make(map[string]int)
	runIDs := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		msg, _ := rec["msg"].(string)
		counts[msg]++
		if kind, _ := rec["kind"].(string); kind == "book_suppressed" {
			counts["suppressed"]++
		}
		if id, ok := rec["run_id"].(string); ok {
			runIDs[id] = true
		}
	}

	if counts["parse_complete"] != 2 {
		t.Errorf("parse_complete logged %d times, want 2 (tracing bypasses the cache)", counts["parse_complete"])
	}
	if counts["cache_lookup"] != 0 {
		t.Errorf("cache_lookup logged %d times, want 0", counts["cache_lookup"])
	}
	if counts["suppressed"] != 4 {
		t.Errorf("suppressed events = %d, want 4", counts["suppressed"])
	}
	if counts["book_suppressed"] != 0 {
		t.Errorf("book_suppressed summary logged %d times with --trace", counts["book_suppressed"])
	}
	if len(runIDs) != 2 {
		t.Errorf("distinct run IDs = %d, want 2", len(runIDs))
	}
}

func TestParseCmd_CacheKey(t *testing.T) {
	cmd := &ParseCmd{ParserFlags: parserFlags()}
	if got := cmd.cacheKey(); got != cacheKey {
		t.Errorf("cacheKey() = %q, want %q", got, cacheKey)
	}

	cmd.NoContents = true
	got := cmd.cacheKey()
	if !strings.HasPrefix(got, cacheKey+"-") || len(got) != len(cacheKey)+13 {
		t.Errorf("cacheKey() with --no-contents = %q", got)
	}
}

func TestParseCmd_Bundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "kjv.tar.xz")

	cmd := &ParseCmd{
		Input:       copyFixture(t, dir),
		Out:         []string{"kjv.bin", "kjv.osis.xml"},
		Bundle:      bundle,
		ParserFlags: parserFlags(),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	names, err := archive.List(bundle)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"kjv.bin", "kjv.osis.xml", "manifest.json"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}

	raw, err := archive.ReadEntry(bundle, manifestEntry)
	if err != nil {
		t.Fatalf("ReadEntry() error = %v", err)
	}
	m, err := manifest.Parse(raw)
	if err != nil {
		t.Fatalf("manifest.Parse() error = %v", err)
	}
	if m.Status != manifest.StatusCompleted || len(m.Outputs) != 2 {
		t.Errorf("manifest status = %q, outputs = %d", m.Status, len(m.Outputs))
	}

	out := captureStdout(t)
	lookup := &LookupCmd{Input: bundle, Reference: []string{"John", "11:35"}}
	if err := lookup.Run(); err != nil {
		t.Fatalf("lookup in bundle error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "John 11:35 Jesus wept." {
		t.Errorf("lookup = %q", got)
	}
}

func TestParseCmd_BundleDefaultEntry(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "kjv-1611.tar")

	cmd := &ParseCmd{Input: copyFixture(t, dir), Bundle: bundle, ParserFlags: parserFlags()}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	names, err := archive.List(bundle)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"kjv-1611.bin", "manifest.json"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}
}

func TestParseCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)
	encoded := createTestFile(t, dir, "kjv.json", "{}")

	tests := []struct {
		name    string
		cmd     ParseCmd
		wantErr error
	}{
		{
			name:    "encoded input",
			cmd:     ParseCmd{Input: encoded},
			wantErr: gkerrors.ErrInvalidInput,
		},
		{
			name:    "missing input",
			cmd:     ParseCmd{Input: filepath.Join(dir, "missing.txt")},
			wantErr: nil,
		},
		{
			name:    "unknown output extension",
			cmd:     ParseCmd{Input: input, Out: []string{filepath.Join(dir, "kjv.docx")}},
			wantErr: gkerrors.ErrUnsupported,
		},
		{
			name:    "unknown format",
			cmd:     ParseCmd{Input: input, Format: "usfm", Out: []string{filepath.Join(dir, "kjv.out")}},
			wantErr: gkerrors.ErrUnsupported,
		},
		{
			name:    "bad bundle suffix",
			cmd:     ParseCmd{Input: input, Bundle: filepath.Join(dir, "kjv.zip")},
			wantErr: gkerrors.ErrInvalidInput,
		},
		{
			name:    "compressed bundle entry",
			cmd:     ParseCmd{Input: input, Bundle: filepath.Join(dir, "b.tar"), Out: []string{"kjv.json.xz"}},
			wantErr: gkerrors.ErrInvalidInput,
		},
		{
			name:    "manifest entry name",
			cmd:     ParseCmd{Input: input, Bundle: filepath.Join(dir, "c.tar"), Out: []string{"manifest.json"}},
			wantErr: gkerrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.ParserFlags = parserFlags()
			err := tt.cmd.Run()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !gkerrors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "b.tar")); !os.IsNotExist(err) {
		t.Error("aborted bundle was left behind")
	}
}

func TestParseCmd_FailedRunManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "run.json")

	cmd := &ParseCmd{
		Input:       copyFixture(t, dir),
		Out:         []string{filepath.Join(dir, "kjv.unknown")},
		Manifest:    manifestPath,
		ParserFlags: parserFlags(),
	}
	if err := cmd.Run(); err == nil {
		t.Fatal("expected error")
	}

	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if m.Status != manifest.StatusFailed || m.Error == "" {
		t.Errorf("Status = %q, Error = %q", m.Status, m.Error)
	}
}

// Tests for TocCmd

func TestTocCmd(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)
	encoded := filepath.Join(dir, "kjv.bin")
	if _, err := formats.WriteFile(encoded, mustCodec(t, "bin"), parseFixture(t)); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{input, encoded} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			out := captureStdout(t)
			cmd := &TocCmd{Input: path, ParserFlags: parserFlags()}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			got := out.String()
			for _, want := range []string{
				"Old Testament (7 books)",
				"   1  Genesis",
				"   4  1 Kings",
				"New Testament (2 books)",
				"   2  Revelation",
			} {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestTocCmd_NoContents(t *testing.T) {
	dir := t.TempDir()
	input := createTestFile(t, dir, "plain.txt", "Genesis\n1:1 In the beginning.\n")

	cmd := &TocCmd{Input: input}
	err := cmd.Run()
	if !gkerrors.Is(err, gkerrors.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

// Tests for CheckCmd

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	out := captureStdout(t)
	cmd := &CheckCmd{Input: input, MinVerseLength: 2, ParserFlags: parserFlags()}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v\n%s", err, out)
	}
	want := "ok: 7 old testament books, 2 new testament books, 11 chapters, 15 verses\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCheckCmd_Strict(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	out := captureStdout(t)
	cmd := &CheckCmd{Input: input, Strict: true, ParserFlags: parserFlags()}
	if err := cmd.Run(); err == nil {
		t.Fatal("strict check of a partial Bible should fail")
	}
	if !strings.Contains(out.String(), "old_testament: expected 39 books, got 7") {
		t.Errorf("output missing book count problem:\n%s", out)
	}
}

// Tests for LookupCmd

func TestLookupCmd(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	tests := []struct {
		name string
		refs []string
		want string
	}{
		{"single verse", []string{"John", "11:35"}, "John 11:35 Jesus wept.\n"},
		{"abbreviation", []string{"Rev 22:21"}, "Revelation 22:21 The grace of our Lord Jesus Christ be with you all. Amen.\n"},
		{"several", []string{"Gen", "1:1;", "John", "11:35"}, "Genesis 1:1 In the beginning God created the heaven and the earth.\nJohn 11:35 Jesus wept.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			cmd := &LookupCmd{Input: input, Reference: tt.refs, ParserFlags: parserFlags()}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestLookupCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	out := captureStdout(t)
	cmd := &LookupCmd{Input: input, Reference: []string{"Genesis 1:1-2"}, JSON: true, ParserFlags: parserFlags()}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []ref.Passage
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 || got[0].Verse != "1" || got[1].Verse != "2" {
		t.Errorf("passages = %+v", got)
	}
}

func TestLookupCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir)

	tests := []struct {
		name    string
		refs    []string
		wantErr error
	}{
		{"book not parsed", []string{"Exodus 1:1"}, gkerrors.ErrNotFound},
		{"verse missing", []string{"John 3:17"}, gkerrors.ErrNotFound},
		{"empty", []string{" ; "}, gkerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureStdout(t)
			cmd := &LookupCmd{Input: input, Reference: tt.refs, ParserFlags: parserFlags()}
			err := cmd.Run()
			if !gkerrors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitReferences(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"John 3:16", []string{"John 3:16"}},
		{"Gen 1:1; Ps 23 ;", []string{"Gen 1:1", "Ps 23"}},
		{" ; ", nil},
	}
	for _, tt := range tests {
		if got := splitReferences(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitReferences(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// Tests for ConvertCmd

func mustCodec(t *testing.T, name string) formats.Codec {
	t.Helper()
	c, err := formats.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", name, err)
	}
	return c
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	want := parseFixture(t)
	src := filepath.Join(dir, "kjv.bin.gz")
	if _, err := formats.WriteFile(src, mustCodec(t, "bin"), want); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		out    string
		format string
		codec  string
	}{
		{out: "kjv.keyed.json", codec: "json-keyed"},
		{out: "kjv.sqlite", codec: "sqlite"},
		{out: "kjv.out", format: "osis", codec: "osis"},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			out := filepath.Join(dir, tt.out)
			cmd := &ConvertCmd{Input: src, Out: out, Format: tt.format}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			got, err := formats.ReadFile(out, mustCodec(t, tt.codec))
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			formatstest.Equal(t, got, want)
		})
	}
}

func TestConvertCmd_FromText(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "kjv.xlsx")

	cmd := &ConvertCmd{Input: copyFixture(t, dir), Out: out, ParserFlags: parserFlags()}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}

	// xlsx is encode-only.
	back := &ConvertCmd{Input: out, Out: filepath.Join(dir, "kjv.json")}
	if err := back.Run(); !gkerrors.Is(err, gkerrors.ErrUnsupported) {
		t.Errorf("decode xlsx error = %v, want unsupported", err)
	}
}

func TestConvertCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	src := createTestFile(t, dir, "kjv.json", `{"old_testament": [], "bogus": 1}`)
	notBin := createTestFile(t, dir, "kjv.bin", "this is text, not a binary document")

	tests := []struct {
		name    string
		cmd     ConvertCmd
		wantErr error
	}{
		{"bundle output", ConvertCmd{Input: src, Out: filepath.Join(dir, "x.tar.gz")}, gkerrors.ErrInvalidInput},
		{"unknown output", ConvertCmd{Input: src, Out: filepath.Join(dir, "x.pdf")}, gkerrors.ErrUnsupported},
		{"bad input", ConvertCmd{Input: src, Out: filepath.Join(dir, "x.bin")}, gkerrors.ErrInvalidInput},
		{"content mismatch", ConvertCmd{Input: notBin, Out: filepath.Join(dir, "y.json")}, gkerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run()
			if !gkerrors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Tests for the informational commands

func TestClassifyCmd(t *testing.T) {
	out := captureStdout(t)
	cmd := &ClassifyCmd{Lines: []string{
		"The First Book of Samuel",
		"  The Gospel According to Saint John  ",
		"Otherwise Called:",
	}}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "1 Samuel") || !strings.Contains(lines[0], "Old Testament") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "John") || !strings.Contains(lines[1], "New Testament") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "-") {
		t.Errorf("line 3 = %q, want not a header", lines[2])
	}
}

func TestClassifyCmd_Rules(t *testing.T) {
	out := captureStdout(t)
	cmd := &ClassifyCmd{Rules: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if want := len(gutenberg.Titles()) + 1; len(lines) != want {
		t.Errorf("got %d lines, want %d", len(lines), want)
	}
	if !strings.Contains(out.String(), "The First Book of the Kings") {
		t.Error("rules missing Kings entry")
	}

	if err := (&ClassifyCmd{}).Run(); err == nil {
		t.Error("expected error with no lines")
	}
}

func TestFormatsCmd(t *testing.T) {
	out := captureStdout(t)
	if err := (&FormatsCmd{}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, name := range []string{"bin", "json", "json-keyed", "osis", "sqlite", "xlsx"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("formats output missing %q", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out := captureStdout(t)
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "gutenkjv version "+version) {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "sqlite: ") {
		t.Errorf("output missing driver line: %q", out.String())
	}
}

func TestIsText(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"pg10.txt", true},
		{"pg10.TXT.xz", true},
		{"pg10.txt.gz", true},
		{"-", true},
		{"kjv.json", false},
		{"kjv.bin.xz", false},
	}
	for _, tt := range tests {
		if got := isText(tt.path); got != tt.want {
			t.Errorf("isText(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
