package vocabindex

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
)

// Entry is one indexed vocabulary item with its lesson occurrences.
type Entry struct {
	Lexeme    lesson.Lexeme
	FirstSeen string
	Lessons   []string
}

// Rebuild replaces the whole index from the script masters on disk, inside a
// single transaction. Each master contributes its language-focus, role-play,
// and bullet triplets; lessons without a script master contribute nothing.
// first_seen is the smallest lesson id containing the triplet, which matches
// plan order because lesson ids sort lexically.
func (s *Store) Rebuild(ctx context.Context, root string) error {
	ids, err := lesson.ListIDs(root)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	type record struct {
		lexeme    lesson.Lexeme
		firstSeen string
		lessons   map[string]struct{}
	}
	records := make(map[string]*record)

	for _, id := range ids {
		dir, err := lesson.Dir(root, id)
		if err != nil {
			return err
		}
		masterPath := filepath.Join(dir, lesson.FileScriptMaster)
		if !fileutil.Exists(masterPath) {
			continue
		}
		var master lesson.ScriptMaster
		if err := fileutil.ReadJSON(masterPath, &master); err != nil {
			return err
		}
		lexemes := master.Lexemes()
		for _, section := range master.Sections {
			for _, bullet := range section.Bullets {
				if lex, ok := lesson.ParseBullet(bullet); ok {
					lexemes = append(lexemes, lex)
				}
			}
		}
		for _, lex := range lexemes {
			if !lex.Complete() {
				continue
			}
			lex = lex.WithVocabID()
			rec, ok := records[lex.VocabID]
			if !ok {
				rec = &record{lexeme: lex, firstSeen: id, lessons: map[string]struct{}{}}
				records[lex.VocabID] = rec
			}
			if id < rec.firstSeen {
				rec.firstSeen = id
			}
			rec.lessons[id] = struct{}{}
		}
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin rebuild transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, "DELETE FROM vocab_lessons"); err != nil {
			return fmt.Errorf("clear vocab_lessons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM vocab"); err != nil {
			return fmt.Errorf("clear vocab: %w", err)
		}

		vocabIDs := make([]string, 0, len(records))
		for id := range records {
			vocabIDs = append(vocabIDs, id)
		}
		sort.Strings(vocabIDs)

		for _, vocabID := range vocabIDs {
			rec := records[vocabID]
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO vocab (id, script, translit, gloss, first_seen) VALUES (?, ?, ?, ?, ?)",
				vocabID, rec.lexeme.Script, rec.lexeme.Translit, rec.lexeme.Gloss, rec.firstSeen,
			); err != nil {
				return fmt.Errorf("insert vocab %s: %w", vocabID, err)
			}
			lessonIDs := make([]string, 0, len(rec.lessons))
			for id := range rec.lessons {
				lessonIDs = append(lessonIDs, id)
			}
			sort.Strings(lessonIDs)
			for _, lessonID := range lessonIDs {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO vocab_lessons (vocab_id, lesson_id) VALUES (?, ?)",
					vocabID, lessonID,
				); err != nil {
					return fmt.Errorf("insert vocab lesson %s/%s: %w", vocabID, lessonID, err)
				}
			}
		}

		return tx.Commit()
	})
}

// KnownBefore returns every lexeme first seen in a lesson that sorts before
// lessonID, ordered by vocab id.
func (s *Store) KnownBefore(ctx context.Context, lessonID string) ([]lesson.Lexeme, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, script, translit, gloss FROM vocab WHERE first_seen < ? ORDER BY id",
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("query known vocab: %w", err)
	}
	defer rows.Close()

	var out []lesson.Lexeme
	for rows.Next() {
		var lex lesson.Lexeme
		if err := rows.Scan(&lex.VocabID, &lex.Script, &lex.Translit, &lex.Gloss); err != nil {
			return nil, err
		}
		out = append(out, lex)
	}
	return out, rows.Err()
}

// Lookup fetches one entry by vocab id.
func (s *Store) Lookup(ctx context.Context, vocabID string) (*Entry, error) {
	var entry Entry
	err := s.db.QueryRowContext(ctx,
		"SELECT id, script, translit, gloss, first_seen FROM vocab WHERE id = ?",
		vocabID,
	).Scan(&entry.Lexeme.VocabID, &entry.Lexeme.Script, &entry.Lexeme.Translit, &entry.Lexeme.Gloss, &entry.FirstSeen)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT lesson_id FROM vocab_lessons WHERE vocab_id = ? ORDER BY lesson_id",
		vocabID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, err
		}
		entry.Lessons = append(entry.Lessons, lessonID)
	}
	return &entry, rows.Err()
}

// Count returns the number of indexed vocabulary items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM vocab").Scan(&count)
	return count, err
}
