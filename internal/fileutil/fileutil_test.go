package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursebuild/internal/fileutil"
)

func TestWriteJSONCreatesParentsAndTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "artifact.json")
	if err := fileutil.WriteJSON(path, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatal("expected trailing newline")
	}
	var out map[string]string
	if err := fileutil.ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if out["a"] != "b" {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestReadJSONReportsParseErrorWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	err := fileutil.ReadJSON(path, &out)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestSameContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := fileutil.WriteText(path, "hello\n"); err != nil {
		t.Fatal(err)
	}
	if !fileutil.SameContents(path, []byte("hello\n")) {
		t.Fatal("expected identical contents")
	}
	if fileutil.SameContents(path, []byte("other")) {
		t.Fatal("expected mismatch")
	}
	if fileutil.SameContents(filepath.Join(dir, "absent"), nil) {
		t.Fatal("missing file should not match")
	}
}
