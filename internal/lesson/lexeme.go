// Package lesson defines the course data model: lexeme triplets with
// content-addressed vocabulary ids, the per-lesson artifact set, and the
// lesson directory layout under the course root.
package lesson

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Lexeme is the three-part vocabulary representation used across every
// artifact: target-script form, phonetic transliteration, and gloss.
type Lexeme struct {
	Script   string `json:"script"`
	Translit string `json:"translit"`
	Gloss    string `json:"gloss"`
	Notes    string `json:"notes,omitempty"`
	VocabID  string `json:"vocabId,omitempty"`
}

// Complete reports whether all three core fields are non-blank.
func (l Lexeme) Complete() bool {
	return strings.TrimSpace(l.Script) != "" &&
		strings.TrimSpace(l.Translit) != "" &&
		strings.TrimSpace(l.Gloss) != ""
}

// WithVocabID returns a copy with the content-addressed id filled in.
func (l Lexeme) WithVocabID() Lexeme {
	l.VocabID = VocabID(l.Script, l.Translit, l.Gloss)
	return l
}

// VocabID derives the content-addressed vocabulary id for a triplet.
// Identical normalized triplets always yield the same id regardless of input
// order or prior state, which keeps regeneration idempotent and enables
// cross-lesson dedup. The canonical form joins trimmed script, lowercased
// transliteration, and lowercased gloss with a unit separator.
func VocabID(script, translit, gloss string) string {
	canonical := strings.TrimSpace(script) + "\x1f" +
		strings.ToLower(strings.TrimSpace(translit)) + "\x1f" +
		strings.ToLower(strings.TrimSpace(gloss))
	sum := sha256.Sum256([]byte(canonical))
	return "v" + hex.EncodeToString(sum[:])[:16]
}
