package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"coursebuild/internal/lesson"
	"coursebuild/internal/plan"
)

// Policy names declared on every generated script master.
var declaredPolicies = []string{
	"inline-tone-marks",
	"asset-https-provenance",
	"whole-file-writes",
}

// stageScript regenerates the script master and the two derived documents
// from the plan entry and the context snapshot. Vocabulary ids come from the
// content hash, so regeneration on unchanged input is byte-identical.
func stageScript(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	lessonContext, err := readContext(env.dir)
	if err != nil {
		return nil, err
	}

	seeds := make([]lesson.Lexeme, 0, len(env.entry.Lexemes))
	for _, seed := range env.entry.Lexemes {
		seeds = append(seeds, lesson.Lexeme{
			Script:   seed.Script,
			Translit: seed.Translit,
			Gloss:    seed.Gloss,
			Notes:    seed.Notes,
		}.WithVocabID())
	}

	master := &lesson.ScriptMaster{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Title:         env.entry.Title,
		Objective:     env.entry.Objective,
		Context:       *lessonContext,
		Sections:      buildSections(env.entry, lessonContext, seeds),
		Roleplay:      buildRoleplay(env.entry, seeds),
		Recap:         buildRecap(seeds),
		Policies:      declaredPolicies,
	}
	master.QAChecks = computeQAChecks(master, p.cfg.Policy.RequireToneMarks)

	if err := writeArtifact(filepath.Join(env.dir, lesson.FileScriptMaster), master); err != nil {
		return nil, err
	}
	if err := writeDocument(filepath.Join(env.dir, lesson.FileScriptSpoken), renderSpoken(master)); err != nil {
		return nil, err
	}
	if err := writeDocument(filepath.Join(env.dir, lesson.FileScriptVisual), renderVisual(master)); err != nil {
		return nil, err
	}
	if err := p.rebuildIndex(ctx); err != nil {
		return nil, err
	}
	return pass(""), nil
}

func tripletLine(lex lesson.Lexeme) string {
	return fmt.Sprintf("%s | %s | %s", lex.Script, lex.Translit, lex.Gloss)
}

func buildSections(entry plan.Lesson, lessonContext *lesson.Context, seeds []lesson.Lexeme) []lesson.Section {
	var sections []lesson.Section

	warmup := lesson.Section{
		Heading:       "Warm-up Review",
		Purpose:       "Reactivate vocabulary from earlier lessons",
		Narration:     []string{fmt.Sprintf("Welcome back. Today you will learn to: %s.", strings.TrimSuffix(entry.Objective, "."))},
		Bullets:       []string{},
		Drills:        []string{},
		LanguageFocus: []lesson.Lexeme{},
	}
	for _, bucket := range lessonContext.ReviewBuckets {
		for _, lex := range bucket.Lexemes {
			warmup.Narration = append(warmup.Narration,
				fmt.Sprintf("Quick review: %s means %s.", lex.Translit, lex.Gloss))
			warmup.Bullets = append(warmup.Bullets, tripletLine(lex))
		}
	}
	sections = append(sections, warmup)

	core := lesson.Section{
		Heading:       "Core Vocabulary",
		Purpose:       entry.Objective,
		Narration:     []string{},
		Bullets:       []string{},
		Drills:        []string{},
		LanguageFocus: seeds,
	}
	for _, lex := range seeds {
		core.Narration = append(core.Narration,
			fmt.Sprintf("Repeat after me: %s. It means %s.", lex.Translit, lex.Gloss))
		core.Bullets = append(core.Bullets, tripletLine(lex))
		core.Drills = append(core.Drills, fmt.Sprintf("Translate to Thai: %s", lex.Gloss))
	}
	sections = append(sections, core)

	if entry.Grammar != "" {
		sections = append(sections, lesson.Section{
			Heading:       "Grammar Focus",
			Purpose:       "Understand the structure behind the new phrases",
			Narration:     []string{entry.Grammar + "."},
			Bullets:       []string{},
			Drills:        []string{},
			LanguageFocus: []lesson.Lexeme{},
		})
	}
	return sections
}

func buildRoleplay(entry plan.Lesson, seeds []lesson.Lexeme) lesson.Roleplay {
	roleplay := lesson.Roleplay{
		Scenario: fmt.Sprintf("Practice conversation: %s", entry.Title),
		Lines:    []lesson.RoleplayLine{},
	}
	speakers := [2]string{"A", "B"}
	for i, lex := range seeds {
		roleplay.Lines = append(roleplay.Lines, lesson.RoleplayLine{
			Speaker:  speakers[i%2],
			Script:   lex.Script,
			Translit: lex.Translit,
			Gloss:    lex.Gloss,
		})
	}
	return roleplay
}

func buildRecap(seeds []lesson.Lexeme) []string {
	recap := make([]string, 0, len(seeds))
	for _, lex := range seeds {
		recap = append(recap, fmt.Sprintf("%s (%s): %s", lex.Script, lex.Translit, lex.Gloss))
	}
	return recap
}
