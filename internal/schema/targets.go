package schema

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coursebuild/internal/fileutil"
)

//go:embed schemas/*.json
var builtinSchemas embed.FS

// Target binds one JSON artifact to the schema document that governs it.
// Path is resolved against the course root unless absolute. Optional targets
// that are absent on disk are skipped without issue.
type Target struct {
	Path       string
	SchemaFile string
	Required   bool
}

// TargetIssue is one schema finding attributed to a file.
type TargetIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// loadSchema prefers a document under <root>/schemas over the embedded
// defaults, so a course can tighten or relax artifact shapes without a
// rebuild.
func loadSchema(root, schemaFile string) (*Schema, error) {
	onDisk := filepath.Join(root, "schemas", schemaFile)
	if fileutil.Exists(onDisk) {
		data, err := os.ReadFile(onDisk)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	}
	data, err := builtinSchemas.ReadFile("schemas/" + schemaFile)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// HasBuiltin reports whether a builtin schema document exists for schemaFile.
func HasBuiltin(schemaFile string) bool {
	_, err := builtinSchemas.ReadFile("schemas/" + schemaFile)
	return err == nil
}

// ValidateTargets validates every target file against its schema and folds
// the per-file output into one flat list. A missing required file and a
// missing schema document are themselves issues; a JSON parse failure is
// reported for that file without aborting the rest.
func ValidateTargets(root string, targets []Target) []TargetIssue {
	var issues []TargetIssue

	for _, target := range targets {
		filePath := target.Path
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(root, filePath)
		}
		if !fileutil.Exists(filePath) {
			if target.Required {
				issues = append(issues, TargetIssue{Path: filePath, Message: "Required schema-validated file is missing"})
			}
			continue
		}

		doc, err := loadSchema(root, target.SchemaFile)
		if err != nil {
			if os.IsNotExist(err) {
				issues = append(issues, TargetIssue{Path: target.SchemaFile, Message: "Schema file missing"})
			} else {
				issues = append(issues, TargetIssue{Path: target.SchemaFile, Message: fmt.Sprintf("Schema file unreadable: %v", err)})
			}
			continue
		}

		var value any
		if err := fileutil.ReadJSON(filePath, &value); err != nil {
			issues = append(issues, TargetIssue{Path: filePath, Message: err.Error()})
			continue
		}

		for _, msg := range Validate(value, doc, "$data") {
			msg = strings.TrimPrefix(msg, "$data")
			msg = strings.TrimPrefix(msg, ".")
			issues = append(issues, TargetIssue{Path: filePath, Message: msg})
		}
	}

	return issues
}
