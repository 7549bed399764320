package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DeusData/lua-chunks/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func sampleTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lua"), "-- greet\nfunction greet(name)\n  print(name)\nend\n")
	writeFile(t, filepath.Join(dir, "lib", "m.lua"), "local M = {}\nfunction M.add(a, b) return a + b end\nlocal function helper() end\nreturn M\n")
	writeFile(t, filepath.Join(dir, "broken.lua"), "function f() end\n\xff\n")
	return dir
}

func TestCLI_Version(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--version"}, &out, &bytes.Buffer{}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out.String(), "lua-chunks") {
		t.Errorf("unexpected --version output: %q", out.String())
	}
}

func TestCLI_Usage(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(nil, &bytes.Buffer{}, &stderr); code != 2 {
		t.Errorf("no args exit = %d, want 2", code)
	}
	if code := run([]string{"frobnicate"}, &bytes.Buffer{}, &stderr); code != 2 {
		t.Errorf("unknown command exit = %d, want 2", code)
	}
	if code := run([]string{"extract"}, &bytes.Buffer{}, &stderr); code != 2 {
		t.Errorf("extract without root exit = %d, want 2", code)
	}
	if code := run([]string{"extract", "--format", "xml", t.TempDir()}, &bytes.Buffer{}, &stderr); code != 2 {
		t.Errorf("bad format exit = %d, want 2", code)
	}
}

func TestCLI_ExtractText(t *testing.T) {
	dir := sampleTree(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"extract", "--log-level", "error", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d\n%s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"File: " + filepath.Join(dir, "a.lua"),
		"Function: greet",
		"Function: M.add",
		"Function: helper\nKind: local",
		"Failures: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestCLI_ExtractJSONToFile(t *testing.T) {
	dir := sampleTree(t)
	outPath := filepath.Join(t.TempDir(), "report.json")
	var stderr bytes.Buffer
	code := run([]string{"extract", "--format", "json", "--out", outPath, "--workers", "2", "--log-level", "error", dir}, &bytes.Buffer{}, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d\n%s", code, stderr.String())
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Files []struct {
			Path   string `json:"path"`
			Chunks []struct {
				FunctionName string `json:"function_name"`
			} `json:"chunks"`
		} `json:"files"`
		Failures []struct {
			Path string `json:"path"`
		} `json:"failures"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if len(doc.Files) != 2 || len(doc.Failures) != 1 {
		t.Fatalf("files=%d failures=%d", len(doc.Files), len(doc.Failures))
	}
	if doc.Files[0].Path != filepath.Join(dir, "a.lua") || doc.Files[1].Chunks[1].FunctionName != "helper" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestCLI_ExtractConfigAndCache(t *testing.T) {
	dir := sampleTree(t)
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	writeFile(t, filepath.Join(dir, ".luachunks.yaml"), "ignore:\n  - \"lib/**\"\noutput:\n  format: yaml\nlog_level: error\ncache_path: "+dbPath+"\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"extract", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "function_name: greet") {
		t.Errorf("expected YAML report, got:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "M.add") {
		t.Error("lib/** should be ignored by config")
	}

	st, err := store.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer st.Close()
	files, err := st.ListFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != filepath.Join(dir, "a.lua") {
		t.Errorf("cached files = %+v", files)
	}
}

func TestCLI_ExtractMissingRoot(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"extract", filepath.Join(t.TempDir(), "nope")}, &bytes.Buffer{}, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
}
