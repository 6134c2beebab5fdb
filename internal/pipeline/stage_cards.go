package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"coursebuild/internal/export"
	"coursebuild/internal/lesson"
	"coursebuild/internal/validate"
)

// lexemesByVocabID collects the unique complete lexemes of a script master
// keyed and sorted by content-addressed id.
func lexemesByVocabID(master *lesson.ScriptMaster) (map[string]lesson.Lexeme, []string) {
	byID := make(map[string]lesson.Lexeme)
	for _, lex := range master.Lexemes() {
		if !lex.Complete() {
			continue
		}
		lex = lex.WithVocabID()
		if _, dup := byID[lex.VocabID]; !dup {
			byID[lex.VocabID] = lex
		}
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return byID, ids
}

// stageFlashcards derives the per-lesson deck and vocabulary export, then
// rebuilds the global index and the repository-wide flashcard export.
func stageFlashcards(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	master, err := readMaster(env.dir)
	if err != nil {
		return nil, err
	}
	lessonContext, err := readContext(env.dir)
	if err != nil {
		return nil, err
	}

	byID, allIDs := lexemesByVocabID(master)
	newIDs := validate.NewVocabIDs(master, lessonContext)

	deck := lesson.Deck{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Cards:         make([]lesson.Flashcard, 0, len(newIDs)),
	}
	for _, vocabID := range newIDs {
		lex := byID[vocabID]
		deck.Cards = append(deck.Cards, lesson.Flashcard{
			ID:      "card-" + strings.TrimPrefix(vocabID, "v"),
			VocabID: vocabID,
			Front:   lex.Script,
			Back:    fmt.Sprintf("%s (%s)", lex.Translit, lex.Gloss),
			Notes:   lex.Notes,
		})
	}

	vocabExport := lesson.VocabExport{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Entries:       make([]lesson.Lexeme, 0, len(allIDs)),
	}
	for _, vocabID := range allIDs {
		vocabExport.Entries = append(vocabExport.Entries, byID[vocabID])
	}

	if err := writeArtifact(filepath.Join(env.dir, lesson.FileFlashcards), &deck); err != nil {
		return nil, err
	}
	if err := writeArtifact(filepath.Join(env.dir, lesson.FileVocab), &vocabExport); err != nil {
		return nil, err
	}

	if err := p.rebuildIndex(ctx); err != nil {
		return nil, err
	}
	if err := export.Rebuild(p.root); err != nil {
		return nil, err
	}
	return pass(""), nil
}
