package vocabindex_test

import (
	"context"
	"path/filepath"
	"testing"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/vocabindex"
)

func writeMaster(t *testing.T, root, lessonID string, lexemes []lesson.Lexeme) {
	t.Helper()
	dir, err := lesson.Dir(root, lessonID)
	if err != nil {
		t.Fatal(err)
	}
	master := lesson.ScriptMaster{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      lessonID,
		Title:         "t",
		Objective:     "o",
		Sections: []lesson.Section{
			{Heading: "Core", LanguageFocus: lexemes},
		},
	}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileScriptMaster), &master); err != nil {
		t.Fatal(err)
	}
}

func TestRebuildAndQueries(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	hello := lesson.Lexeme{Script: "สวัสดี", Translit: "sà-wàt-dii", Gloss: "hello"}
	thanks := lesson.Lexeme{Script: "ขอบคุณ", Translit: "khàawp-khun", Gloss: "thank you"}
	writeMaster(t, root, "M01-L001", []lesson.Lexeme{hello})
	writeMaster(t, root, "M01-L002", []lesson.Lexeme{hello, thanks})

	store, err := vocabindex.Open(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Rebuild(ctx, root); err != nil {
		t.Fatal(err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 vocab entries, got %d", count)
	}

	known, err := store.KnownBefore(ctx, "M01-L002")
	if err != nil {
		t.Fatal(err)
	}
	if len(known) != 1 || known[0].Gloss != "hello" {
		t.Fatalf("unexpected known vocab: %+v", known)
	}

	entry, err := store.Lookup(ctx, lesson.VocabID(hello.Script, hello.Translit, hello.Gloss))
	if err != nil {
		t.Fatal(err)
	}
	if entry.FirstSeen != "M01-L001" || len(entry.Lessons) != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRebuildIndexesBulletOnlyTriplets(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	dir, err := lesson.Dir(root, "M01-L001")
	if err != nil {
		t.Fatal(err)
	}
	master := lesson.ScriptMaster{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      "M01-L001",
		Title:         "t",
		Objective:     "o",
		Sections: []lesson.Section{
			{Heading: "Core", Bullets: []string{"ข้าว | khâaw | rice"}},
		},
	}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileScriptMaster), &master); err != nil {
		t.Fatal(err)
	}

	store, err := vocabindex.Open(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Rebuild(ctx, root); err != nil {
		t.Fatal(err)
	}

	known, err := store.KnownBefore(ctx, "M01-L002")
	if err != nil {
		t.Fatal(err)
	}
	if len(known) != 1 || known[0].Gloss != "rice" {
		t.Fatalf("expected the bullet triplet indexed, got %+v", known)
	}
	if known[0].VocabID != lesson.VocabID("ข้าว", "khâaw", "rice") {
		t.Fatalf("unexpected vocab id: %s", known[0].VocabID)
	}
}

func TestRebuildIsWholesale(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	hello := lesson.Lexeme{Script: "สวัสดี", Translit: "sà-wàt-dii", Gloss: "hello"}
	writeMaster(t, root, "M01-L001", []lesson.Lexeme{hello})

	store, err := vocabindex.Open(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Rebuild(ctx, root); err != nil {
		t.Fatal(err)
	}

	// Replace the lesson's vocabulary entirely; the old entry must vanish.
	thanks := lesson.Lexeme{Script: "ขอบคุณ", Translit: "khàawp-khun", Gloss: "thank you"}
	writeMaster(t, root, "M01-L001", []lesson.Lexeme{thanks})
	if err := store.Rebuild(ctx, root); err != nil {
		t.Fatal(err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected wholesale replacement, got %d entries", count)
	}
	if _, err := store.Lookup(ctx, lesson.VocabID(hello.Script, hello.Translit, hello.Gloss)); err == nil {
		t.Fatal("stale entry survived rebuild")
	}
}
