package lesson

import "strings"

// CurrentSchemaVersion is stamped into every structured artifact.
const CurrentSchemaVersion = 1

// ReviewBucketOffsets are the spaced-review lookback distances, in lessons.
var ReviewBucketOffsets = [4]int{1, 3, 6, 8}

// ReviewBucketLimit caps how many lexemes one review bucket may carry.
const ReviewBucketLimit = 4

// ReviewBucket is one spaced-review sample drawn from a prior lesson.
type ReviewBucket struct {
	OffsetBack int      `json:"offsetBack"`
	SourceID   string   `json:"sourceId,omitempty"`
	Lexemes    []Lexeme `json:"lexemes"`
}

// Context is the snapshot of everything known before a lesson: prior lesson
// ids, deduplicated known vocabulary, known grammar summaries, and the four
// spaced-review buckets. It is rebuilt wholesale, never incrementally mutated.
type Context struct {
	SchemaVersion int             `json:"schemaVersion"`
	LessonID      string          `json:"lessonId"`
	PriorLessons  []string        `json:"priorLessons"`
	KnownVocab    []Lexeme        `json:"knownVocab"`
	KnownGrammar  []string        `json:"knownGrammar"`
	ReviewBuckets [4]ReviewBucket `json:"reviewBuckets"`
}

// Section is one ordered block of the script master.
type Section struct {
	Heading       string   `json:"heading"`
	Purpose       string   `json:"purpose,omitempty"`
	Narration     []string `json:"narration"`
	Bullets       []string `json:"bullets"`
	Drills        []string `json:"drills"`
	LanguageFocus []Lexeme `json:"languageFocus"`
}

// RoleplayLine is one turn of the role-play dialogue.
type RoleplayLine struct {
	Speaker  string `json:"speaker"`
	Script   string `json:"script"`
	Translit string `json:"translit"`
	Gloss    string `json:"gloss"`
}

// Roleplay is the scenario dialogue closing a lesson.
type Roleplay struct {
	Scenario string         `json:"scenario"`
	Lines    []RoleplayLine `json:"lines"`
}

// QACheck is one self-reported quality check on the script master. The
// externally recomputed copy in the QA report is authoritative; the values
// embedded here are display-only.
type QACheck struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Pass        bool   `json:"pass"`
	Evidence    string `json:"evidence,omitempty"`
}

// ScriptMaster is the canonical lesson document, the single source of truth
// every downstream artifact derives from.
type ScriptMaster struct {
	SchemaVersion int       `json:"schemaVersion"`
	LessonID      string    `json:"lessonId"`
	Title         string    `json:"title"`
	Objective     string    `json:"objective"`
	Context       Context   `json:"context"`
	Sections      []Section `json:"sections"`
	Roleplay      Roleplay  `json:"roleplay"`
	Recap         []string  `json:"recap"`
	Policies      []string  `json:"policies"`
	QAChecks      []QACheck `json:"qaChecks"`
}

// Lexemes returns every triplet the script master introduces or displays:
// section language focus first, then role-play lines.
func (m *ScriptMaster) Lexemes() []Lexeme {
	var out []Lexeme
	for _, section := range m.Sections {
		out = append(out, section.LanguageFocus...)
	}
	for _, line := range m.Roleplay.Lines {
		out = append(out, Lexeme{Script: line.Script, Translit: line.Translit, Gloss: line.Gloss})
	}
	return out
}

// ParseBullet splits an "a | b | c" display bullet back into a triplet.
// Returns false for malformed or incomplete bullets.
func ParseBullet(bullet string) (Lexeme, bool) {
	parts := strings.Split(bullet, "|")
	if len(parts) != 3 {
		return Lexeme{}, false
	}
	lex := Lexeme{
		Script:   strings.TrimSpace(parts[0]),
		Translit: strings.TrimSpace(parts[1]),
		Gloss:    strings.TrimSpace(parts[2]),
	}
	return lex, lex.Complete()
}
