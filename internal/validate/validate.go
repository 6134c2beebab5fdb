// Package validate holds the semantic content validators: per-artifact rule
// functions composed into one per-lesson and one whole-repository aggregate.
// Validators always return an issue list rather than failing, so zero issues
// means pass; only genuine filesystem errors surface as errors.
package validate

import (
	"fmt"
	"path/filepath"

	"coursebuild/internal/lesson"
	"coursebuild/internal/schema"
)

// Issue is one validation finding attributed to a file or directory.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// LessonTargets binds every structured artifact of a lesson to its schema
// document. All targets are optional here; artifact presence is enforced by
// the READY_TO_RECORD rule and the stage prerequisites, not the schema gate.
func LessonTargets(root, lessonID string) ([]schema.Target, error) {
	dir, err := lesson.Dir(root, lessonID)
	if err != nil {
		return nil, err
	}
	files := []string{
		lesson.FileContext,
		lesson.FileScriptMaster,
		lesson.FileQAReport,
		lesson.FileVideoPlan,
		lesson.FileAssets,
		lesson.FileStudyGuide,
		lesson.FileFlashcards,
		lesson.FileVocab,
		lesson.FileQuizBank,
		lesson.FileQuiz,
		lesson.FileStatus,
	}
	targets := make([]schema.Target, 0, len(files))
	for _, file := range files {
		targets = append(targets, schema.Target{
			Path:       filepath.Join(dir, file),
			SchemaFile: file,
		})
	}
	return targets, nil
}

// Schemas runs the schema gate for one lesson.
func Schemas(root, lessonID string) ([]Issue, error) {
	targets, err := LessonTargets(root, lessonID)
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for _, found := range schema.ValidateTargets(root, targets) {
		issues = append(issues, Issue{Path: found.Path, Message: found.Message})
	}
	return issues, nil
}

// SchemasAll runs the schema gate across every lesson.
func SchemasAll(root string) ([]Issue, error) {
	ids, err := lesson.ListIDs(root)
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for _, id := range ids {
		found, err := Schemas(root, id)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

// Lesson runs every semantic rule for one lesson and folds the findings into
// a flat list.
func Lesson(root, lessonID string, requireToneMark bool) ([]Issue, error) {
	if !lesson.ValidID(lessonID) {
		return []Issue{{Path: lessonID, Message: "Lesson id must follow M##-L### format"}}, nil
	}
	dir, err := lesson.Dir(root, lessonID)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	issues = append(issues, statusRules(dir)...)
	issues = append(issues, scriptMasterRules(dir, requireToneMark)...)
	issues = append(issues, documentRules(dir, requireToneMark)...)
	issues = append(issues, assetRules(dir)...)
	issues = append(issues, coverageRules(dir)...)

	schemaIssues, err := Schemas(root, lessonID)
	if err != nil {
		return nil, err
	}
	issues = append(issues, schemaIssues...)
	return issues, nil
}

// All validates the whole repository: folder shape plus every lesson.
func All(root string, requireToneMark bool) ([]Issue, error) {
	var issues []Issue

	misshapen, err := lesson.ListMisshapenDirs(root)
	if err != nil {
		return nil, err
	}
	for _, dir := range misshapen {
		issues = append(issues, Issue{
			Path:    filepath.Join(root, dir),
			Message: "Lesson folder must follow M##/L### format",
		})
	}

	ids, err := lesson.ListIDs(root)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found, err := Lesson(root, id, requireToneMark)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", id, err)
		}
		issues = append(issues, found...)
	}
	return issues, nil
}
