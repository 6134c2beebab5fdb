// Package audit sweeps the course for transliteration policy violations and
// optionally applies the mechanical repair pass to script masters. Every other
// artifact, the markdown documents and the derived structured files alike, is
// scan-only: fixing the master and regenerating is the correct path for them.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/logging"
	"coursebuild/internal/translit"
)

// Finding is one policy violation located in a lesson artifact.
type Finding struct {
	LessonID string `json:"lessonId"`
	File     string `json:"file"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Fix is one mechanical repair applied to a script master field.
type Fix struct {
	LessonID string   `json:"lessonId"`
	Location string   `json:"location"`
	Before   string   `json:"before"`
	After    string   `json:"after"`
	Notes    []string `json:"notes"`
}

// Report summarizes one audit sweep.
type Report struct {
	LessonsScanned int       `json:"lessonsScanned"`
	Findings       []Finding `json:"findings"`
	Fixes          []Fix     `json:"fixes"`
	ManualReview   []Finding `json:"manualReview"`
}

// Clean reports whether the sweep found nothing to flag.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0 && len(r.ManualReview) == 0
}

// Options controls an audit sweep.
type Options struct {
	RequireToneMarks bool
	ApplyFixes       bool
	// Lessons restricts the sweep; empty means every lesson under the root.
	Lessons []string
}

// Run sweeps the lessons under root. With ApplyFixes set, repaired script
// masters are rewritten whole-file; derived documents are never patched in
// place and stale ones surface as findings to regenerate.
func Run(ctx context.Context, logger *slog.Logger, root string, opts Options) (*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	lessonIDs := opts.Lessons
	if len(lessonIDs) == 0 {
		var err error
		lessonIDs, err = lesson.ListIDs(root)
		if err != nil {
			return nil, fmt.Errorf("list lessons: %w", err)
		}
	}

	report := &Report{
		Findings:     []Finding{},
		Fixes:        []Fix{},
		ManualReview: []Finding{},
	}
	for _, lessonID := range lessonIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, err := lesson.Dir(root, lessonID)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		report.LessonsScanned++

		if err := auditMaster(report, dir, lessonID, opts); err != nil {
			return nil, err
		}
		auditDocuments(report, dir, lessonID)
		auditDerived(report, dir, lessonID)
	}

	logger.Info("audit complete",
		logging.Int("lessons", report.LessonsScanned),
		logging.Int("findings", len(report.Findings)),
		logging.Int("fixes", len(report.Fixes)))
	return report, nil
}

func auditMaster(report *Report, dir, lessonID string, opts Options) error {
	masterPath := filepath.Join(dir, lesson.FileScriptMaster)
	if !fileutil.Exists(masterPath) {
		return nil
	}
	var master lesson.ScriptMaster
	if err := fileutil.ReadJSON(masterPath, &master); err != nil {
		report.Findings = append(report.Findings, Finding{
			LessonID: lessonID,
			File:     lesson.FileScriptMaster,
			Message:  err.Error(),
		})
		return nil
	}

	changed := false
	field := func(location string, value *string) {
		changed = auditField(report, lessonID, location, value, opts) || changed
	}
	for si := range master.Sections {
		for li := range master.Sections[si].LanguageFocus {
			lex := &master.Sections[si].LanguageFocus[li]
			field(fmt.Sprintf("sections[%d].languageFocus[%d]", si, li), &lex.Translit)
		}
	}
	for li := range master.Roleplay.Lines {
		field(fmt.Sprintf("roleplay.lines[%d]", li), &master.Roleplay.Lines[li].Translit)
	}

	if !changed {
		return nil
	}
	// Repaired transliterations shift the content hash, so refresh ids.
	for si := range master.Sections {
		for li := range master.Sections[si].LanguageFocus {
			lex := master.Sections[si].LanguageFocus[li]
			master.Sections[si].LanguageFocus[li] = lex.WithVocabID()
		}
	}
	if err := fileutil.WriteJSON(masterPath, &master); err != nil {
		return fmt.Errorf("rewrite %s: %w", masterPath, err)
	}
	report.Findings = append(report.Findings, Finding{
		LessonID: lessonID,
		File:     lesson.FileScriptMaster,
		Message:  "script master repaired; rerun the script stage to regenerate derived documents",
	})
	return nil
}

// auditField checks one transliteration field and, when fixing, replaces it
// with the repaired value. Reports whether the field changed.
func auditField(report *Report, lessonID, location string, value *string, opts Options) bool {
	result := translit.Check(*value, opts.RequireToneMarks)
	if result.OK {
		return false
	}
	for _, issue := range result.Issues {
		report.Findings = append(report.Findings, Finding{
			LessonID: lessonID,
			File:     lesson.FileScriptMaster,
			Location: location,
			Message:  fmt.Sprintf("transliteration %q %s", *value, issue.Message),
		})
	}
	if !opts.ApplyFixes {
		return false
	}

	repaired := translit.Repair(*value)
	for _, note := range repaired.ManualReview {
		report.ManualReview = append(report.ManualReview, Finding{
			LessonID: lessonID,
			File:     lesson.FileScriptMaster,
			Location: location,
			Message:  note,
		})
	}
	if !repaired.Changed {
		return false
	}
	report.Fixes = append(report.Fixes, Fix{
		LessonID: lessonID,
		Location: location,
		Before:   *value,
		After:    repaired.Value,
		Notes:    repaired.AutoFixes,
	})
	*value = repaired.Value
	return true
}

func auditDocuments(report *Report, dir, lessonID string) {
	for _, file := range []string{lesson.FileScriptSpoken, lesson.FileScriptVisual, lesson.FileStudyGuideMD} {
		docPath := filepath.Join(dir, file)
		data, err := os.ReadFile(docPath)
		if err != nil {
			continue
		}
		for _, drift := range translit.ScanText(string(data)) {
			report.Findings = append(report.Findings, Finding{
				LessonID: lessonID,
				File:     file,
				Location: fmt.Sprintf("line %d", drift.Line),
				Message:  drift.Message,
			})
		}
	}
}

// auditDerived drift-scans the transliteration-bearing fields of the derived
// structured artifacts. Nothing here is repaired in place; a finding means the
// master needs fixing and the producing stage a rerun.
func auditDerived(report *Report, dir, lessonID string) {
	scan := func(file, location, value string) {
		for _, drift := range translit.ScanText(value) {
			report.Findings = append(report.Findings, Finding{
				LessonID: lessonID,
				File:     file,
				Location: location,
				Message:  drift.Message,
			})
		}
	}

	var lessonContext lesson.Context
	if readDerived(report, dir, lessonID, lesson.FileContext, &lessonContext) {
		for i, lex := range lessonContext.KnownVocab {
			scan(lesson.FileContext, fmt.Sprintf("knownVocab[%d]", i), lex.Translit)
		}
		for bi, bucket := range lessonContext.ReviewBuckets {
			for i, lex := range bucket.Lexemes {
				scan(lesson.FileContext, fmt.Sprintf("reviewBuckets[%d].lexemes[%d]", bi, i), lex.Translit)
			}
		}
	}

	var videoPlan lesson.VideoPlan
	if readDerived(report, dir, lessonID, lesson.FileVideoPlan, &videoPlan) {
		for si, scene := range videoPlan.Scenes {
			for i, lex := range scene.FocusTriplets {
				scan(lesson.FileVideoPlan, fmt.Sprintf("scenes[%d].focusTriplets[%d]", si, i), lex.Translit)
			}
			for i, bullet := range scene.OverlayBullets {
				scan(lesson.FileVideoPlan, fmt.Sprintf("scenes[%d].overlayBullets[%d]", si, i), bullet)
			}
			for i, line := range scene.VoiceoverLines {
				scan(lesson.FileVideoPlan, fmt.Sprintf("scenes[%d].voiceoverLines[%d]", si, i), line.Text)
			}
		}
	}

	var guide lesson.StudyGuide
	if readDerived(report, dir, lessonID, lesson.FileStudyGuide, &guide) {
		for i, section := range guide.Sections {
			scan(lesson.FileStudyGuide, fmt.Sprintf("sections[%d]", i), section.Body)
		}
		for i, drill := range guide.Drills {
			scan(lesson.FileStudyGuide, fmt.Sprintf("drills[%d]", i), drill)
		}
		for i, answer := range guide.AnswerKey {
			scan(lesson.FileStudyGuide, fmt.Sprintf("answerKey[%d]", i), answer)
		}
	}

	var deck lesson.Deck
	if readDerived(report, dir, lessonID, lesson.FileFlashcards, &deck) {
		for i, card := range deck.Cards {
			scan(lesson.FileFlashcards, fmt.Sprintf("cards[%d].front", i), card.Front)
			scan(lesson.FileFlashcards, fmt.Sprintf("cards[%d].back", i), card.Back)
		}
	}

	var vocab lesson.VocabExport
	if readDerived(report, dir, lessonID, lesson.FileVocab, &vocab) {
		for i, entry := range vocab.Entries {
			scan(lesson.FileVocab, fmt.Sprintf("entries[%d]", i), entry.Translit)
		}
	}

	var bank lesson.ItemBank
	if readDerived(report, dir, lessonID, lesson.FileQuizBank, &bank) {
		scanQuizItems(scan, lesson.FileQuizBank, "items", bank.Items)
	}
	var quiz lesson.QuizSet
	if readDerived(report, dir, lessonID, lesson.FileQuiz, &quiz) {
		scanQuizItems(scan, lesson.FileQuiz, "questions", quiz.Questions)
	}
}

func scanQuizItems(scan func(file, location, value string), file, field string, items []lesson.QuizItem) {
	for i, item := range items {
		scan(file, fmt.Sprintf("%s[%d].prompt", field, i), item.Prompt)
		for oi, option := range item.Options {
			scan(file, fmt.Sprintf("%s[%d].options[%d]", field, i, oi), option.Text)
		}
	}
}

// readDerived loads one optional artifact; a parse failure is itself a finding.
func readDerived(report *Report, dir, lessonID, file string, out any) bool {
	path := filepath.Join(dir, file)
	if !fileutil.Exists(path) {
		return false
	}
	if err := fileutil.ReadJSON(path, out); err != nil {
		report.Findings = append(report.Findings, Finding{
			LessonID: lessonID,
			File:     file,
			Message:  err.Error(),
		})
		return false
	}
	return true
}
