package schema_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/schema"
)

func mustParse(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return s
}

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRequiredProperty(t *testing.T) {
	s := mustParse(t, `{"required": ["a"]}`)

	errs := schema.Validate(decode(t, `{}`), s, "$data")
	if len(errs) != 1 || errs[0] != "$data.a: is required" {
		t.Fatalf("expected exactly one required issue, got %v", errs)
	}

	if errs := schema.Validate(decode(t, `{"a": 1}`), s, "$data"); len(errs) != 0 {
		t.Fatalf("expected zero issues, got %v", errs)
	}
}

func TestTypeUnion(t *testing.T) {
	s := mustParse(t, `{"type": ["string", "null"]}`)
	if errs := schema.Validate(nil, s, "$data"); len(errs) != 0 {
		t.Fatalf("null should satisfy union, got %v", errs)
	}
	if errs := schema.Validate(decode(t, `"x"`), s, "$data"); len(errs) != 0 {
		t.Fatalf("string should satisfy union, got %v", errs)
	}
	errs := schema.Validate(decode(t, `3`), s, "$data")
	if len(errs) != 1 || errs[0] != "$data: expected type string|null" {
		t.Fatalf("unexpected type issue: %v", errs)
	}
}

func TestConstAndEnum(t *testing.T) {
	s := mustParse(t, `{"const": 1}`)
	if errs := schema.Validate(decode(t, `2`), s, "$data"); len(errs) != 1 || !strings.Contains(errs[0], "expected constant value 1") {
		t.Fatalf("unexpected const issue: %v", errs)
	}

	s = mustParse(t, `{"enum": ["DRAFT", "READY_TO_RECORD"]}`)
	if errs := schema.Validate(decode(t, `"DRAFT"`), s, "$data"); len(errs) != 0 {
		t.Fatalf("enum member rejected: %v", errs)
	}
	errs := schema.Validate(decode(t, `"DONE"`), s, "$data")
	if len(errs) != 1 || !strings.Contains(errs[0], `expected one of "DRAFT", "READY_TO_RECORD"`) {
		t.Fatalf("unexpected enum issue: %v", errs)
	}
}

func TestArrayBoundsAndItems(t *testing.T) {
	s := mustParse(t, `{"type": "array", "minItems": 2, "maxItems": 3, "items": {"type": "number"}}`)
	errs := schema.Validate(decode(t, `[1]`), s, "$data")
	if len(errs) != 1 || !strings.Contains(errs[0], "at least 2 items") {
		t.Fatalf("unexpected minItems issue: %v", errs)
	}
	errs = schema.Validate(decode(t, `[1, "x"]`), s, "$data")
	if len(errs) != 1 || errs[0] != "$data[1]: expected type number" {
		t.Fatalf("unexpected items issue: %v", errs)
	}
}

func TestPatternAndMinimum(t *testing.T) {
	s := mustParse(t, `{"type": "string", "pattern": "^M[0-9]{2}-L[0-9]{3}$"}`)
	if errs := schema.Validate(decode(t, `"M01-L003"`), s, "$data"); len(errs) != 0 {
		t.Fatalf("valid id rejected: %v", errs)
	}
	if errs := schema.Validate(decode(t, `"M1-L3"`), s, "$data"); len(errs) != 1 || !strings.Contains(errs[0], "does not match pattern") {
		t.Fatalf("unexpected pattern issue: %v", errs)
	}

	s = mustParse(t, `{"minimum": 1}`)
	if errs := schema.Validate(decode(t, `0`), s, "$data"); len(errs) != 1 || errs[0] != "$data: must be >= 1" {
		t.Fatalf("unexpected minimum issue: %v", errs)
	}
}

func TestClosedObjectCollectsAllViolations(t *testing.T) {
	s := mustParse(t, `{
		"type": "object",
		"required": ["a", "b"],
		"additionalProperties": false,
		"properties": {"a": {"type": "string"}, "b": {"type": "number"}}
	}`)
	errs := schema.Validate(decode(t, `{"a": 1, "extra": true}`), s, "$data")
	joined := strings.Join(errs, "\n")
	for _, want := range []string{
		"$data.b: is required",
		"$data.a: expected type string",
		"$data.extra: additional property is not allowed",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %v", want, errs)
		}
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 issues, got %v", errs)
	}
}

func TestValidateTargets(t *testing.T) {
	root := t.TempDir()

	status := map[string]any{
		"lessonId":     "M01-L001",
		"state":        "DRAFT",
		"updatedAt":    "2026-01-01T00:00:00Z",
		"validatedAt":  nil,
		"stageResults": map[string]string{"0": "PASS"},
		"notes":        []string{},
	}
	statusPath := filepath.Join(root, "status.json")
	if err := fileutil.WriteJSON(statusPath, status); err != nil {
		t.Fatal(err)
	}

	issues := schema.ValidateTargets(root, []schema.Target{
		{Path: "status.json", SchemaFile: "status.json", Required: true},
		{Path: "missing.json", SchemaFile: "status.json", Required: false},
	})
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}

	issues = schema.ValidateTargets(root, []schema.Target{
		{Path: "missing.json", SchemaFile: "status.json", Required: true},
	})
	if len(issues) != 1 || issues[0].Message != "Required schema-validated file is missing" {
		t.Fatalf("expected missing-file issue, got %+v", issues)
	}
}

func TestValidateTargetsStripsPathPrefix(t *testing.T) {
	root := t.TempDir()
	if err := fileutil.WriteJSON(filepath.Join(root, "status.json"), map[string]any{}); err != nil {
		t.Fatal(err)
	}
	issues := schema.ValidateTargets(root, []schema.Target{
		{Path: "status.json", SchemaFile: "status.json", Required: true},
	})
	if len(issues) == 0 {
		t.Fatal("expected issues for empty status object")
	}
	for _, issue := range issues {
		if strings.HasPrefix(issue.Message, "$data") {
			t.Fatalf("path prefix not stripped: %+v", issue)
		}
	}
}

func TestValidateTargetsDiskOverride(t *testing.T) {
	root := t.TempDir()
	override := `{"type": "object", "required": ["custom"]}`
	if err := os.MkdirAll(filepath.Join(root, "schemas"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "schemas", "status.json"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.WriteJSON(filepath.Join(root, "status.json"), map[string]any{"custom": true}); err != nil {
		t.Fatal(err)
	}
	issues := schema.ValidateTargets(root, []schema.Target{
		{Path: "status.json", SchemaFile: "status.json", Required: true},
	})
	if len(issues) != 0 {
		t.Fatalf("override schema should accept file, got %+v", issues)
	}
}
