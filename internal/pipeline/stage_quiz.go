package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"coursebuild/internal/lesson"
	"coursebuild/internal/validate"
)

// fallbackDistractor keeps every item at two or more options even in a
// course too small to supply real distractors.
const fallbackDistractor = "none of the above"

var drillOrder = []string{lesson.DrillRecognition, lesson.DrillRecall, lesson.DrillListening}

// stageQuiz generates the item bank and the curated quiz set, then enforces
// both coverage invariants: at least three bank items and at least one quiz
// question per newly-introduced vocab id. The check re-derives new vocabulary
// the same way the release validators do, so a gap here fails the stage
// rather than surfacing later at the release gate.
func stageQuiz(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	master, err := readMaster(env.dir)
	if err != nil {
		return nil, err
	}
	lessonContext, err := readContext(env.dir)
	if err != nil {
		return nil, err
	}

	byID, _ := lexemesByVocabID(master)
	newIDs := validate.NewVocabIDs(master, lessonContext)
	pool := distractorPool(byID, lessonContext)

	bank := lesson.ItemBank{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Items:         []lesson.QuizItem{},
	}
	itemsPerWord := p.cfg.Quiz.ItemsPerNewWord
	for _, vocabID := range newIDs {
		lex := byID[vocabID]
		for k := 0; k < itemsPerWord; k++ {
			drill := drillOrder[k%len(drillOrder)]
			item := buildQuizItem(lex, drill, k/len(drillOrder), pool)
			bank.Items = append(bank.Items, item)
		}
	}

	quiz := lesson.QuizSet{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		PassScore:     p.cfg.Quiz.PassScore,
		Questions:     []lesson.QuizItem{},
	}
	for _, item := range bank.Items {
		if item.DrillType == lesson.DrillRecognition {
			quiz.Questions = append(quiz.Questions, item)
		}
	}
	for _, item := range bank.Items {
		if len(quiz.Questions) >= p.cfg.Quiz.SetSize {
			break
		}
		if item.DrillType != lesson.DrillRecognition {
			quiz.Questions = append(quiz.Questions, item)
		}
	}
	// A lesson with no new vocabulary still ships a quiz; fall back to
	// recognition items over the review pool.
	if len(quiz.Questions) == 0 {
		for _, lex := range pool {
			if len(quiz.Questions) >= p.cfg.Quiz.SetSize {
				break
			}
			quiz.Questions = append(quiz.Questions, buildQuizItem(lex, lesson.DrillRecognition, 0, pool))
		}
	}

	if err := writeArtifact(filepath.Join(env.dir, lesson.FileQuizBank), &bank); err != nil {
		return nil, err
	}
	if err := writeArtifact(filepath.Join(env.dir, lesson.FileQuiz), &quiz); err != nil {
		return nil, err
	}

	var issues []validate.Issue
	bankCounts := make(map[string]int)
	for _, item := range bank.Items {
		bankCounts[item.VocabID]++
	}
	quizCounts := make(map[string]int)
	for _, question := range quiz.Questions {
		quizCounts[question.VocabID]++
	}
	for _, vocabID := range newIDs {
		if bankCounts[vocabID] < 3 {
			issues = append(issues, validate.Issue{
				Path:    filepath.Join(env.dir, lesson.FileQuizBank),
				Message: fmt.Sprintf("new vocab %s has %d item bank items, need at least 3", vocabID, bankCounts[vocabID]),
			})
		}
		if quizCounts[vocabID] < 1 {
			issues = append(issues, validate.Issue{
				Path:    filepath.Join(env.dir, lesson.FileQuiz),
				Message: fmt.Sprintf("new vocab %s has no quiz question", vocabID),
			})
		}
	}
	if len(issues) > 0 {
		return fail(fmt.Sprintf("%d coverage violation(s)", len(issues)), issues), nil
	}
	return pass(""), nil
}

// distractorPool merges lesson and known vocabulary, sorted by vocab id.
func distractorPool(byID map[string]lesson.Lexeme, lessonContext *lesson.Context) []lesson.Lexeme {
	merged := make(map[string]lesson.Lexeme, len(byID))
	for id, lex := range byID {
		merged[id] = lex
	}
	for _, lex := range lessonContext.KnownVocab {
		if !lex.Complete() {
			continue
		}
		lex = lex.WithVocabID()
		if _, dup := merged[lex.VocabID]; !dup {
			merged[lex.VocabID] = lex
		}
	}
	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	pool := make([]lesson.Lexeme, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, merged[id])
	}
	return pool
}

// distractorsFor picks up to three lexemes following the target in the
// sorted pool, wrapping around. Deterministic for a given pool.
func distractorsFor(target lesson.Lexeme, pool []lesson.Lexeme) []lesson.Lexeme {
	position := -1
	for i, lex := range pool {
		if lex.VocabID == target.VocabID {
			position = i
			break
		}
	}
	var picks []lesson.Lexeme
	for step := 1; step < len(pool) && len(picks) < 3; step++ {
		picks = append(picks, pool[(position+step)%len(pool)])
	}
	return picks
}

func buildQuizItem(lex lesson.Lexeme, drill string, repeat int, pool []lesson.Lexeme) lesson.QuizItem {
	itemID := fmt.Sprintf("%s-%s", lex.VocabID, drill)
	if repeat > 0 {
		itemID = fmt.Sprintf("%s-%d", itemID, repeat+1)
	}

	var prompt, display, correct string
	pick := func(l lesson.Lexeme) string { return l.Gloss }
	switch drill {
	case lesson.DrillRecognition:
		prompt = fmt.Sprintf("What does %s mean?", lex.Translit)
		display = lesson.DisplayTranslit
		correct = lex.Gloss
	case lesson.DrillRecall:
		prompt = fmt.Sprintf("How do you say '%s'?", lex.Gloss)
		display = lesson.DisplayGloss
		correct = lex.Translit
		pick = func(l lesson.Lexeme) string { return l.Translit }
	case lesson.DrillListening:
		prompt = fmt.Sprintf("You hear: %s. Choose the written form.", lex.Translit)
		display = lesson.DisplayScript
		correct = lex.Script
		pick = func(l lesson.Lexeme) string { return l.Script }
	}

	// Lexemes can share a gloss; duplicate option texts would leave
	// CorrectOptionID ambiguous after the sort.
	seen := map[string]struct{}{correct: {}}
	texts := []string{correct}
	for _, distractor := range distractorsFor(lex, pool) {
		text := pick(distractor)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		texts = append(texts, text)
	}
	if len(texts) < 2 {
		texts = append(texts, fallbackDistractor)
	}
	sort.Strings(texts)

	item := lesson.QuizItem{
		ID:          itemID,
		VocabID:     lex.VocabID,
		DrillType:   drill,
		DisplayMode: display,
		Prompt:      prompt,
	}
	for i, text := range texts {
		optionID := fmt.Sprintf("o%d", i+1)
		item.Options = append(item.Options, lesson.QuizOption{ID: optionID, Text: text})
		if text == correct {
			item.CorrectOptionID = optionID
		}
	}
	return item
}
