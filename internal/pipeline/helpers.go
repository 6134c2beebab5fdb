package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/status"
	"coursebuild/internal/validate"
	"coursebuild/internal/vocabindex"
)

// writeArtifact persists a JSON artifact as a whole-file replacement,
// skipping the write when the bytes are unchanged so idempotent re-runs do
// not churn modification times.
func writeArtifact(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	body := append(data, '\n')
	if fileutil.SameContents(path, body) {
		return nil
	}
	return fileutil.WriteText(path, string(body))
}

// writeDocument persists a text document, skipping unchanged rewrites.
func writeDocument(path, body string) error {
	if fileutil.SameContents(path, []byte(body)) {
		return nil
	}
	return fileutil.WriteText(path, body)
}

func readMaster(dir string) (*lesson.ScriptMaster, error) {
	var master lesson.ScriptMaster
	if err := fileutil.ReadJSON(filepath.Join(dir, lesson.FileScriptMaster), &master); err != nil {
		return nil, err
	}
	return &master, nil
}

func readContext(dir string) (*lesson.Context, error) {
	var lessonContext lesson.Context
	if err := fileutil.ReadJSON(filepath.Join(dir, lesson.FileContext), &lessonContext); err != nil {
		return nil, err
	}
	return &lessonContext, nil
}

// rebuildIndex refreshes the global vocabulary index from disk.
func (p *Pipeline) rebuildIndex(ctx context.Context) error {
	store, err := vocabindex.Open(ctx, p.root)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Rebuild(ctx, p.root)
}

func pass(note string) *Outcome {
	return &Outcome{Result: status.ResultPass, Note: note}
}

func fail(note string, issues []validate.Issue) *Outcome {
	return &Outcome{Result: status.ResultFail, Note: note, Issues: issues}
}
