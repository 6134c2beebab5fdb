package lesson

// DriftIssue is one line-scoped policy finding in a text document, recorded
// in the QA report.
type DriftIssue struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// QAReport is the stage-2 gate record. Checks here are the authoritative
// recomputation, not the script master's self-reported copy.
type QAReport struct {
	SchemaVersion int          `json:"schemaVersion"`
	ReportID      string       `json:"reportId"`
	LessonID      string       `json:"lessonId"`
	GeneratedAt   string       `json:"generatedAt"`
	Checks        []QACheck    `json:"checks"`
	DriftIssues   []DriftIssue `json:"driftIssues"`
	Pass          bool         `json:"pass"`
}

// Timing is one aligned span in seconds from the start of the scene audio.
type Timing struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// VoiceoverLine pairs a narration line with its (possibly estimated) timing.
type VoiceoverLine struct {
	Text   string  `json:"text"`
	Timing *Timing `json:"timing,omitempty"`
}

// Scene is one segment of the video overlay plan.
type Scene struct {
	ID             string          `json:"id"`
	Heading        string          `json:"heading"`
	VoiceoverLines []VoiceoverLine `json:"voiceoverLines"`
	OverlayBullets []string        `json:"overlayBullets"`
	FocusTriplets  []Lexeme        `json:"focusTriplets"`
	AssetRefs      []string        `json:"assetRefs"`
}

// VideoPlan is consumed by the external overlay renderer; this pipeline only
// produces it.
type VideoPlan struct {
	SchemaVersion int     `json:"schemaVersion"`
	LessonID      string  `json:"lessonId"`
	Title         string  `json:"title"`
	Scenes        []Scene `json:"scenes"`
}

// AssetRef is one media asset used by the video plan.
type AssetRef struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	License     string `json:"license"`
	Description string `json:"description,omitempty"`
}

// ProvenanceEntry records where an asset came from. Its source URL must match
// the asset reference exactly.
type ProvenanceEntry struct {
	AssetID   string `json:"assetId"`
	SourceURL string `json:"sourceUrl"`
	Note      string `json:"note,omitempty"`
}

// AssetManifest is the asset provenance file.
type AssetManifest struct {
	SchemaVersion int               `json:"schemaVersion"`
	LessonID      string            `json:"lessonId"`
	Assets        []AssetRef        `json:"assets"`
	Provenance    []ProvenanceEntry `json:"provenance"`
}

// GuideSection is one heading+body block of the study guide source.
type GuideSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// StudyGuide is the study-guide source object handed to the external document
// renderer.
type StudyGuide struct {
	SchemaVersion int            `json:"schemaVersion"`
	LessonID      string         `json:"lessonId"`
	Title         string         `json:"title"`
	Sections      []GuideSection `json:"sections"`
	Drills        []string       `json:"drills"`
	AnswerKey     []string       `json:"answerKey"`
}

// VocabExport is the per-lesson vocabulary export, every entry carrying its
// content-addressed id.
type VocabExport struct {
	SchemaVersion int      `json:"schemaVersion"`
	LessonID      string   `json:"lessonId"`
	Entries       []Lexeme `json:"entries"`
}
