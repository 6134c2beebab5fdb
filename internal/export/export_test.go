package export_test

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"coursebuild/internal/export"
	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
)

func writeDeck(t *testing.T, root, lessonID string, cards []lesson.Flashcard) {
	t.Helper()
	dir, err := lesson.Dir(root, lessonID)
	if err != nil {
		t.Fatal(err)
	}
	deck := lesson.Deck{SchemaVersion: lesson.CurrentSchemaVersion, LessonID: lessonID, Cards: cards}
	if err := fileutil.WriteJSON(filepath.Join(dir, lesson.FileFlashcards), &deck); err != nil {
		t.Fatal(err)
	}
}

func TestRebuildAggregatesInLessonOrder(t *testing.T) {
	root := t.TempDir()
	writeDeck(t, root, "M01-L002", []lesson.Flashcard{
		{ID: "card-2", VocabID: "v2222222222222222", Front: "ขอบคุณ", Back: "khàawp-khun (thank you)"},
	})
	writeDeck(t, root, "M01-L001", []lesson.Flashcard{
		{ID: "card-1", VocabID: "v1111111111111111", Front: "สวัสดี", Back: "sà-wàt-dii (hello)"},
	})

	if err := export.Rebuild(root); err != nil {
		t.Fatal(err)
	}

	var doc export.Export
	if err := fileutil.ReadJSON(export.JSONPath(root), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %+v", doc.Cards)
	}
	if doc.Cards[0].LessonID != "M01-L001" || doc.Cards[1].LessonID != "M01-L002" {
		t.Fatalf("cards not in lesson order: %+v", doc.Cards)
	}

	book, err := excelize.OpenFile(export.XLSXPath(root))
	if err != nil {
		t.Fatal(err)
	}
	defer book.Close()
	rows, err := book.GetRows("Flashcards")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][3] != "สวัสดี" {
		t.Fatalf("unexpected first card front: %v", rows[1])
	}
}

func TestRebuildEmptyCourse(t *testing.T) {
	root := t.TempDir()
	if err := export.Rebuild(root); err != nil {
		t.Fatal(err)
	}
	var doc export.Export
	if err := fileutil.ReadJSON(export.JSONPath(root), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Cards) != 0 {
		t.Fatalf("expected no cards, got %+v", doc.Cards)
	}
}
