// Package testsupport scaffolds temporary course trees for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"coursebuild/internal/config"
)

const samplePlan = `title: Thai Foundations
language: th
modules:
  - id: M01
    title: Greetings
    lessons:
      - id: M01-L001
        title: Hello and goodbye
        objective: Greet someone politely and say goodbye
        grammar: Politeness particles khráp and khâ
        lexemes:
          - script: "สวัสดี"
            translit: "sà-wàt-dii"
            gloss: "hello"
          - script: "ครับ"
            translit: "khráp"
            gloss: "polite particle (male)"
          - script: "ลาก่อน"
            translit: "laa-gàawn"
            gloss: "goodbye"
      - id: M01-L002
        title: Thank you
        objective: Thank someone and respond
        lexemes:
          - script: "ขอบคุณ"
            translit: "khàawp-khun"
            gloss: "thank you"
          - script: "ไม่เป็นไร"
            translit: "mâi-bpen-rai"
            gloss: "you're welcome"
      - id: M01-L003
        title: Apologies
        objective: Apologize politely
        lexemes:
          - script: "ขอโทษ"
            translit: "khǎaw-thôot"
            gloss: "sorry"
`

// CourseRoot creates a temp course tree with a three-lesson plan and returns
// its root.
func CourseRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "course.yaml"), []byte(samplePlan), 0o644); err != nil {
		t.Fatalf("write course plan: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "modules"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

// Config returns a default configuration rooted at root.
func Config(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.CourseRoot = root
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	return &cfg
}
