package plan_test

import (
	"os"
	"path/filepath"
	"testing"

	"coursebuild/internal/plan"
)

const samplePlan = `
title: Thai Foundations
language: th
modules:
  - id: M01
    title: Greetings
    lessons:
      - id: M01-L001
        title: Hello and goodbye
        objective: Greet politely
        lexemes:
          - script: "สวัสดี"
            translit: "sà-wàt-dii"
            gloss: "hello"
      - id: M01-L002
        title: Thank you
        objective: Thank someone
        lexemes: []
  - id: M02
    title: Food
    lessons:
      - id: M02-L001
        title: Ordering
        objective: Order a dish
        lexemes: []
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndOrder(t *testing.T) {
	p, err := plan.Load(writePlan(t, samplePlan))
	if err != nil {
		t.Fatal(err)
	}
	ids := p.LessonIDs()
	want := []string{"M01-L001", "M01-L002", "M02-L001"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	entry, ok := p.Lesson("M01-L002")
	if !ok || entry.Title != "Thank you" {
		t.Fatalf("lookup failed: %+v %v", entry, ok)
	}

	prior := p.Prior("M02-L001")
	if len(prior) != 2 || prior[0] != "M01-L001" || prior[1] != "M01-L002" {
		t.Fatalf("unexpected prior lessons: %v", prior)
	}
	if got := p.Prior("M01-L001"); len(got) != 0 {
		t.Fatalf("first lesson should have no priors: %v", got)
	}
}

func TestValidateRejectsMismatchedModule(t *testing.T) {
	body := `
modules:
  - id: M01
    title: Greetings
    lessons:
      - id: M02-L001
        title: Wrong module
        objective: x
`
	if _, err := plan.Load(writePlan(t, body)); err == nil {
		t.Fatal("expected error for lesson listed under wrong module")
	}
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	body := `
modules:
  - id: M01
    title: Greetings
    lessons:
      - id: M01-L001
        title: a
        objective: x
      - id: M01-L001
        title: b
        objective: y
`
	if _, err := plan.Load(writePlan(t, body)); err == nil {
		t.Fatal("expected error for duplicate lesson id")
	}
}
