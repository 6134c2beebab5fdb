package lesson

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Fixed per-lesson artifact filenames.
const (
	FileContext      = "context.json"
	FileScriptMaster = "script-master.json"
	FileScriptSpoken = "script-spoken.md"
	FileScriptVisual = "script-visual.md"
	FileQAReport     = "qa-report.json"
	FileVideoPlan    = "video-plan.json"
	FileAssets       = "assets.json"
	FileStudyGuide   = "study-guide.json"
	FileStudyGuideMD = "study-guide.md"
	FileStudyGuidePD = "study-guide.pdf"
	FileFlashcards   = "flashcards.json"
	FileVocab        = "vocab.json"
	FileQuizBank     = "quiz-bank.json"
	FileQuiz         = "quiz.json"
	FileStatus       = "status.json"
)

// RequiredForRelease lists every artifact that must exist before a lesson may
// carry the READY_TO_RECORD state. The PDF is excluded because rendering is
// optional by configuration.
var RequiredForRelease = []string{
	FileContext,
	FileScriptMaster,
	FileScriptSpoken,
	FileScriptVisual,
	FileQAReport,
	FileVideoPlan,
	FileAssets,
	FileStudyGuide,
	FileStudyGuideMD,
	FileFlashcards,
	FileVocab,
	FileQuizBank,
	FileQuiz,
	FileStatus,
}

var (
	lessonIDPattern  = regexp.MustCompile(`^(M\d{2})-(L\d{3})$`)
	moduleDirPattern = regexp.MustCompile(`^M\d{2}$`)
	lessonDirPattern = regexp.MustCompile(`^L\d{3}$`)
)

// ValidID reports whether id has the fixed M##-L### shape.
func ValidID(id string) bool {
	return lessonIDPattern.MatchString(id)
}

// SplitID breaks a lesson id into its module and lesson directory names.
func SplitID(id string) (moduleDir, lessonDir string, err error) {
	groups := lessonIDPattern.FindStringSubmatch(id)
	if groups == nil {
		return "", "", fmt.Errorf("lesson id %q does not match M##-L###", id)
	}
	return groups[1], groups[2], nil
}

// Dir maps a lesson id to its directory under the course root.
func Dir(root, id string) (string, error) {
	moduleDir, lessonDir, err := SplitID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "modules", moduleDir, lessonDir), nil
}

// IDForDirs reassembles a lesson id from its directory names.
func IDForDirs(moduleDir, lessonDir string) string {
	return moduleDir + "-" + lessonDir
}

// ListIDs walks <root>/modules and returns every well-formed lesson id in
// sorted order. Entries that do not match the M##/L### directory shape are
// skipped; validators report them separately.
func ListIDs(root string) ([]string, error) {
	modulesDir := filepath.Join(root, "modules")
	moduleEntries, err := os.ReadDir(modulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, moduleEntry := range moduleEntries {
		if !moduleEntry.IsDir() || !moduleDirPattern.MatchString(moduleEntry.Name()) {
			continue
		}
		lessonEntries, err := os.ReadDir(filepath.Join(modulesDir, moduleEntry.Name()))
		if err != nil {
			return nil, err
		}
		for _, lessonEntry := range lessonEntries {
			if !lessonEntry.IsDir() || !lessonDirPattern.MatchString(lessonEntry.Name()) {
				continue
			}
			ids = append(ids, IDForDirs(moduleEntry.Name(), lessonEntry.Name()))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ListMisshapenDirs returns directory names under <root>/modules that do not
// match the fixed M##/L### shape, for the folder-shape validator.
func ListMisshapenDirs(root string) ([]string, error) {
	modulesDir := filepath.Join(root, "modules")
	moduleEntries, err := os.ReadDir(modulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var bad []string
	for _, moduleEntry := range moduleEntries {
		if !moduleEntry.IsDir() {
			continue
		}
		if !moduleDirPattern.MatchString(moduleEntry.Name()) {
			bad = append(bad, filepath.Join("modules", moduleEntry.Name()))
			continue
		}
		lessonEntries, err := os.ReadDir(filepath.Join(modulesDir, moduleEntry.Name()))
		if err != nil {
			return nil, err
		}
		for _, lessonEntry := range lessonEntries {
			if !lessonEntry.IsDir() {
				continue
			}
			if !lessonDirPattern.MatchString(lessonEntry.Name()) {
				bad = append(bad, filepath.Join("modules", moduleEntry.Name(), lessonEntry.Name()))
			}
		}
	}
	sort.Strings(bad)
	return bad, nil
}
