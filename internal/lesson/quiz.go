package lesson

// Drill types and display modes for quiz items.
const (
	DrillRecognition = "recognition"
	DrillRecall      = "recall"
	DrillListening   = "listening"

	DisplayScript   = "script"
	DisplayTranslit = "translit"
	DisplayGloss    = "gloss"
)

// QuizOption is one answer choice.
type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizItem is one drill question: a prompt, a correct option, and up to
// three distractors.
type QuizItem struct {
	ID              string       `json:"id"`
	VocabID         string       `json:"vocabId"`
	DrillType       string       `json:"drillType"`
	DisplayMode     string       `json:"displayMode"`
	Prompt          string       `json:"prompt"`
	CorrectOptionID string       `json:"correctOptionId"`
	Options         []QuizOption `json:"options"`
}

// ItemBank holds every generated item for a lesson's new vocabulary. By
// construction each new vocab id gets at least three items.
type ItemBank struct {
	SchemaVersion int        `json:"schemaVersion"`
	LessonID      string     `json:"lessonId"`
	Items         []QuizItem `json:"items"`
}

// QuizSet is the curated subset served to learners: one mandatory
// recognition item per new vocab id plus extras up to the target size.
type QuizSet struct {
	SchemaVersion int        `json:"schemaVersion"`
	LessonID      string     `json:"lessonId"`
	PassScore     int        `json:"passScore"`
	Questions     []QuizItem `json:"questions"`
}

// Flashcard is one two-sided review card.
type Flashcard struct {
	ID      string `json:"id"`
	VocabID string `json:"vocabId"`
	Front   string `json:"front"`
	Back    string `json:"back"`
	Notes   string `json:"notes,omitempty"`
}

// Deck is the per-lesson flashcard deck.
type Deck struct {
	SchemaVersion int         `json:"schemaVersion"`
	LessonID      string      `json:"lessonId"`
	Cards         []Flashcard `json:"cards"`
}
