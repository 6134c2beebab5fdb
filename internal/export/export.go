// Package export rebuilds the repository-wide flashcard export by
// aggregating every lesson deck. Like the vocabulary index, the export is a
// derived artifact: recomputed wholesale on trigger, never hand-edited.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
)

// Card is one exported flashcard tagged with its source lesson.
type Card struct {
	LessonID string `json:"lessonId"`
	ID       string `json:"id"`
	VocabID  string `json:"vocabId"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Notes    string `json:"notes,omitempty"`
}

// Export is the global flashcard export document.
type Export struct {
	SchemaVersion int    `json:"schemaVersion"`
	Cards         []Card `json:"cards"`
}

// JSONPath and XLSXPath locate the export artifacts under the course root.
func JSONPath(root string) string { return filepath.Join(root, "export", "flashcards.json") }
func XLSXPath(root string) string { return filepath.Join(root, "export", "flashcards.xlsx") }

// Collect aggregates every lesson deck in lesson-id order. Lessons without a
// deck contribute nothing; a malformed deck aborts the rebuild.
func Collect(root string) (*Export, error) {
	ids, err := lesson.ListIDs(root)
	if err != nil {
		return nil, err
	}

	out := &Export{SchemaVersion: lesson.CurrentSchemaVersion, Cards: []Card{}}
	for _, id := range ids {
		dir, err := lesson.Dir(root, id)
		if err != nil {
			return nil, err
		}
		deckPath := filepath.Join(dir, lesson.FileFlashcards)
		if !fileutil.Exists(deckPath) {
			continue
		}
		var deck lesson.Deck
		if err := fileutil.ReadJSON(deckPath, &deck); err != nil {
			return nil, err
		}
		for _, card := range deck.Cards {
			out.Cards = append(out.Cards, Card{
				LessonID: id,
				ID:       card.ID,
				VocabID:  card.VocabID,
				Front:    card.Front,
				Back:     card.Back,
				Notes:    card.Notes,
			})
		}
	}
	return out, nil
}

// Rebuild writes both export forms: the JSON document and the reviewer
// spreadsheet.
func Rebuild(root string) error {
	export, err := Collect(root)
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSON(JSONPath(root), export); err != nil {
		return err
	}
	return writeSpreadsheet(XLSXPath(root), export)
}

func writeSpreadsheet(path string, export *Export) error {
	book := excelize.NewFile()
	defer book.Close()

	const sheet = "Flashcards"
	index, err := book.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	header := []any{"Lesson", "Card ID", "Vocab ID", "Front", "Back", "Notes"}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, card := range export.Cards {
		row := []any{card.LessonID, card.ID, card.VocabID, card.Front, card.Back, card.Notes}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return book.SaveAs(path)
}
