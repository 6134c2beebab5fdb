// Package plan loads the course plan (course.yaml): the ordered module and
// lesson declarations that seed stage 1 generation. The plan is authored by
// hand; the loader validates id shape and ordering but never rewrites it.
package plan

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"coursebuild/internal/lesson"
)

// SeedLexeme is one vocabulary triplet declared for a lesson.
type SeedLexeme struct {
	Script   string `yaml:"script"`
	Translit string `yaml:"translit"`
	Gloss    string `yaml:"gloss"`
	Notes    string `yaml:"notes,omitempty"`
}

// Lesson is one planned lesson entry.
type Lesson struct {
	ID        string       `yaml:"id"`
	Title     string       `yaml:"title"`
	Objective string       `yaml:"objective"`
	Grammar   string       `yaml:"grammar,omitempty"`
	Lexemes   []SeedLexeme `yaml:"lexemes"`
}

// Module groups ordered lessons.
type Module struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Lessons []Lesson `yaml:"lessons"`
}

// Plan is the whole course declaration.
type Plan struct {
	Title    string   `yaml:"title"`
	Language string   `yaml:"language"`
	Modules  []Module `yaml:"modules"`
}

var moduleIDPattern = regexp.MustCompile(`^M\d{2}$`)

// Load reads and validates the course plan.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

// Validate checks id shapes, module prefixes, and duplicate lesson ids.
func (p *Plan) Validate() error {
	seen := make(map[string]struct{})
	for _, module := range p.Modules {
		if !moduleIDPattern.MatchString(module.ID) {
			return fmt.Errorf("module id %q does not match M##", module.ID)
		}
		for _, entry := range module.Lessons {
			if !lesson.ValidID(entry.ID) {
				return fmt.Errorf("lesson id %q does not match M##-L###", entry.ID)
			}
			if !strings.HasPrefix(entry.ID, module.ID+"-") {
				return fmt.Errorf("lesson %q listed under module %q", entry.ID, module.ID)
			}
			if _, dup := seen[entry.ID]; dup {
				return fmt.Errorf("duplicate lesson id %q", entry.ID)
			}
			seen[entry.ID] = struct{}{}
			if strings.TrimSpace(entry.Title) == "" {
				return fmt.Errorf("lesson %q has no title", entry.ID)
			}
		}
	}
	return nil
}

// LessonIDs returns every planned lesson id in plan order.
func (p *Plan) LessonIDs() []string {
	var ids []string
	for _, module := range p.Modules {
		for _, entry := range module.Lessons {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// Lesson returns the planned entry for a lesson id.
func (p *Plan) Lesson(id string) (Lesson, bool) {
	for _, module := range p.Modules {
		for _, entry := range module.Lessons {
			if entry.ID == id {
				return entry, true
			}
		}
	}
	return Lesson{}, false
}

// Prior returns the lesson ids that precede id in plan order, earliest first.
func (p *Plan) Prior(id string) []string {
	var prior []string
	for _, planned := range p.LessonIDs() {
		if planned == id {
			return prior
		}
		prior = append(prior, planned)
	}
	return prior
}
