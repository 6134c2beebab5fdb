package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
)

func writeMaster(t *testing.T, root string, master *lesson.ScriptMaster) string {
	t.Helper()
	dir, err := lesson.Dir(root, master.LessonID)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileScriptMaster), master); err != nil {
		t.Fatal(err)
	}
	return dir
}

func legacyMaster() *lesson.ScriptMaster {
	return &lesson.ScriptMaster{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      "M01-L001",
		Title:         "Apologies",
		Sections: []lesson.Section{{
			Heading: "Core Vocabulary",
			LanguageFocus: []lesson.Lexeme{
				{Script: "ขอโทษ", Translit: "khawR-thootL", Gloss: "sorry"},
				{Script: "ครับ", Translit: "khráp", Gloss: "polite particle"},
			},
		}},
	}
}

func TestRunReportsViolations(t *testing.T) {
	root := t.TempDir()
	writeMaster(t, root, legacyMaster())

	report, err := Run(context.Background(), nil, root, Options{RequireToneMarks: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.LessonsScanned != 1 {
		t.Fatalf("expected 1 lesson scanned, got %d", report.LessonsScanned)
	}
	if report.Clean() {
		t.Fatal("expected findings for legacy tone notation")
	}
	if len(report.Fixes) != 0 {
		t.Fatalf("expected no fixes without ApplyFixes, got %d", len(report.Fixes))
	}

	found := false
	for _, finding := range report.Findings {
		if finding.Location == "sections[0].languageFocus[0]" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a finding at the legacy field, got %v", report.Findings)
	}
}

func TestRunAppliesFixes(t *testing.T) {
	root := t.TempDir()
	dir := writeMaster(t, root, legacyMaster())

	report, err := Run(context.Background(), nil, root, Options{
		RequireToneMarks: true,
		ApplyFixes:       true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Fixes) == 0 {
		t.Fatal("expected at least one fix")
	}

	var repaired lesson.ScriptMaster
	if err := fileutil.ReadJSON(filepath.Join(dir, lesson.FileScriptMaster), &repaired); err != nil {
		t.Fatal(err)
	}
	fixed := repaired.Sections[0].LanguageFocus[0]
	if fixed.Translit != "khǎw-thòot" {
		t.Fatalf("expected repaired transliteration khǎw-thòot, got %q", fixed.Translit)
	}
	want := lesson.VocabID(fixed.Script, fixed.Translit, fixed.Gloss)
	if fixed.VocabID != want {
		t.Fatalf("expected refreshed vocab id %s, got %s", want, fixed.VocabID)
	}

	// The untouched field keeps its value.
	if repaired.Sections[0].LanguageFocus[1].Translit != "khráp" {
		t.Fatalf("clean field changed: %q", repaired.Sections[0].LanguageFocus[1].Translit)
	}
}

func TestRunScansDerivedDocuments(t *testing.T) {
	root := t.TempDir()
	dir := writeMaster(t, root, legacyMaster())
	doc := "# Apologies\n\nRepeat after me: khaw^H.\n"
	if err := os.WriteFile(filepath.Join(dir, lesson.FileScriptSpoken), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), nil, root, Options{RequireToneMarks: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, finding := range report.Findings {
		if finding.File == lesson.FileScriptSpoken && finding.Location == "line 3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a drift finding in the narration document, got %v", report.Findings)
	}
}

func TestRunScansStructuredArtifacts(t *testing.T) {
	root := t.TempDir()
	master := legacyMaster()
	master.Sections[0].LanguageFocus = []lesson.Lexeme{
		{Script: "ครับ", Translit: "khráp", Gloss: "polite particle"},
	}
	dir := writeMaster(t, root, master)

	videoPlan := lesson.VideoPlan{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      master.LessonID,
		Title:         master.Title,
		Scenes: []lesson.Scene{{
			ID:      "scene-1",
			Heading: "Core Vocabulary",
			FocusTriplets: []lesson.Lexeme{
				{Script: "ข้าว", Translit: "khawR", Gloss: "rice"},
			},
			VoiceoverLines: []lesson.VoiceoverLine{},
			OverlayBullets: []string{},
			AssetRefs:      []string{},
		}},
	}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileVideoPlan), &videoPlan); err != nil {
		t.Fatal(err)
	}

	deck := lesson.Deck{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      master.LessonID,
		Cards: []lesson.Flashcard{
			{ID: "card-1", VocabID: "v0000000000000000", Front: "ข้าว", Back: "kʰaːw"},
		},
	}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileFlashcards), &deck); err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), nil, root, Options{RequireToneMarks: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Clean() {
		t.Fatal("expected findings in the derived structured artifacts")
	}

	byFile := make(map[string][]string)
	for _, finding := range report.Findings {
		byFile[finding.File] = append(byFile[finding.File], finding.Location)
	}
	if locations := byFile[lesson.FileVideoPlan]; len(locations) != 1 || locations[0] != "scenes[0].focusTriplets[0]" {
		t.Fatalf("unexpected video plan findings: %v", locations)
	}
	if locations := byFile[lesson.FileFlashcards]; len(locations) != 1 || locations[0] != "cards[0].back" {
		t.Fatalf("unexpected flashcard findings: %v", locations)
	}
	if len(report.Fixes) != 0 {
		t.Fatalf("derived artifacts must never be repaired in place, got %v", report.Fixes)
	}
}

func TestRunRestrictsToRequestedLessons(t *testing.T) {
	root := t.TempDir()
	writeMaster(t, root, legacyMaster())
	other := legacyMaster()
	other.LessonID = "M01-L002"
	writeMaster(t, root, other)

	report, err := Run(context.Background(), nil, root, Options{
		RequireToneMarks: true,
		Lessons:          []string{"M01-L002"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.LessonsScanned != 1 {
		t.Fatalf("expected 1 lesson scanned, got %d", report.LessonsScanned)
	}
	for _, finding := range report.Findings {
		if finding.LessonID != "M01-L002" {
			t.Fatalf("unexpected lesson in findings: %s", finding.LessonID)
		}
	}
}
