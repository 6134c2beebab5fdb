package pipeline

import (
	"context"
	"path/filepath"
	"sort"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/vocabindex"
)

// stageContext rebuilds the lesson context snapshot: prior lesson ids, known
// vocabulary drawn from the global index, grammar summaries, and the four
// spaced-review buckets. The snapshot is replaced wholesale on every run.
func stageContext(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	store, err := vocabindex.Open(ctx, p.root)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if err := store.Rebuild(ctx, p.root); err != nil {
		return nil, err
	}

	known, err := store.KnownBefore(ctx, env.lessonID)
	if err != nil {
		return nil, err
	}
	if known == nil {
		known = []lesson.Lexeme{}
	}

	prior := p.plan.Prior(env.lessonID)
	if prior == nil {
		prior = []string{}
	}

	var grammar []string
	for _, priorID := range prior {
		if entry, ok := p.plan.Lesson(priorID); ok && entry.Grammar != "" {
			grammar = append(grammar, entry.Grammar)
		}
	}
	if grammar == nil {
		grammar = []string{}
	}

	var buckets [4]lesson.ReviewBucket
	for i, offset := range lesson.ReviewBucketOffsets {
		buckets[i] = lesson.ReviewBucket{OffsetBack: offset, Lexemes: []lesson.Lexeme{}}
		idx := len(prior) - offset
		if idx < 0 {
			continue
		}
		sourceID := prior[idx]
		buckets[i].SourceID = sourceID
		buckets[i].Lexemes = p.reviewSample(sourceID)
	}

	snapshot := lesson.Context{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		PriorLessons:  prior,
		KnownVocab:    known,
		KnownGrammar:  grammar,
		ReviewBuckets: buckets,
	}
	if err := writeArtifact(filepath.Join(env.dir, lesson.FileContext), &snapshot); err != nil {
		return nil, err
	}
	return pass(""), nil
}

// reviewSample draws up to four lexemes from a prior lesson, preferring the
// published script master over the plan seeds and ordering by vocab id so
// the sample is stable across runs.
func (p *Pipeline) reviewSample(lessonID string) []lesson.Lexeme {
	var source []lesson.Lexeme
	if dir, err := lesson.Dir(p.root, lessonID); err == nil {
		masterPath := filepath.Join(dir, lesson.FileScriptMaster)
		if fileutil.Exists(masterPath) {
			if master, err := readMaster(dir); err == nil {
				source = master.Lexemes()
			}
		}
	}
	if source == nil {
		if entry, ok := p.plan.Lesson(lessonID); ok {
			for _, seed := range entry.Lexemes {
				source = append(source, lesson.Lexeme{
					Script:   seed.Script,
					Translit: seed.Translit,
					Gloss:    seed.Gloss,
					Notes:    seed.Notes,
				})
			}
		}
	}

	seen := make(map[string]struct{})
	var sample []lesson.Lexeme
	for _, lex := range source {
		if !lex.Complete() {
			continue
		}
		lex = lex.WithVocabID()
		if _, dup := seen[lex.VocabID]; dup {
			continue
		}
		seen[lex.VocabID] = struct{}{}
		sample = append(sample, lex)
	}
	sort.Slice(sample, func(i, j int) bool { return sample[i].VocabID < sample[j].VocabID })
	if len(sample) > lesson.ReviewBucketLimit {
		sample = sample[:lesson.ReviewBucketLimit]
	}
	if sample == nil {
		sample = []lesson.Lexeme{}
	}
	return sample
}
