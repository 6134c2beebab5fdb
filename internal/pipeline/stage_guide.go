package pipeline

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"coursebuild/internal/lesson"
)

// stageStudyGuide derives the study-guide source object and its rendered
// markdown, then invokes the configured external renderer for the PDF. A
// renderer failure fails only this stage; the pipeline carries no layout
// logic of its own.
func stageStudyGuide(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	master, err := readMaster(env.dir)
	if err != nil {
		return nil, err
	}

	guide := lesson.StudyGuide{
		SchemaVersion: lesson.CurrentSchemaVersion,
		LessonID:      env.lessonID,
		Title:         master.Title,
		Sections:      make([]lesson.GuideSection, 0, len(master.Sections)),
		Drills:        []string{},
		AnswerKey:     []string{},
	}
	for _, section := range master.Sections {
		var body strings.Builder
		for _, line := range section.Narration {
			body.WriteString(line)
			body.WriteString("\n")
		}
		for _, lex := range section.LanguageFocus {
			body.WriteString(tripletLine(lex))
			body.WriteString("\n")
		}
		guide.Sections = append(guide.Sections, lesson.GuideSection{
			Heading: section.Heading,
			Body:    strings.TrimRight(body.String(), "\n"),
		})
		guide.Drills = append(guide.Drills, section.Drills...)
		for _, lex := range section.LanguageFocus {
			guide.AnswerKey = append(guide.AnswerKey, fmt.Sprintf("%s: %s", lex.Gloss, lex.Translit))
		}
	}

	jsonPath := filepath.Join(env.dir, lesson.FileStudyGuide)
	if err := writeArtifact(jsonPath, &guide); err != nil {
		return nil, err
	}
	if err := writeDocument(filepath.Join(env.dir, lesson.FileStudyGuideMD), renderGuide(&guide)); err != nil {
		return nil, err
	}

	if command := strings.TrimSpace(p.cfg.Render.PDFCommand); command != "" {
		pdfPath := filepath.Join(env.dir, lesson.FileStudyGuidePD)
		if err := p.renderPDF(ctx, command, jsonPath, pdfPath); err != nil {
			return fail(fmt.Sprintf("document renderer failed: %v", err), nil), nil
		}
	}
	return pass(""), nil
}

// renderPDF shells out to the configured renderer under a bounded timeout:
// <pdf_command> <study-guide.json> <study-guide.pdf>
func (p *Pipeline) renderPDF(ctx context.Context, command, jsonPath, pdfPath string) error {
	timeout := time.Duration(p.cfg.Render.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parts := strings.Fields(command)
	args := append(parts[1:], jsonPath, pdfPath)
	cmd := exec.CommandContext(runCtx, parts[0], args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%s: %s", parts[0], detail)
	}
	return nil
}
