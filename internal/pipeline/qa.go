package pipeline

import (
	"fmt"
	"strings"

	"coursebuild/internal/lesson"
	"coursebuild/internal/translit"
)

// computeQAChecks evaluates the master-level quality checks. Stage 1 embeds
// the result in the script master as a self-report; stage 2 recomputes the
// same checks against the files on disk and treats its own result as
// authoritative.
func computeQAChecks(master *lesson.ScriptMaster, requireToneMark bool) []lesson.QACheck {
	checks := make([]lesson.QACheck, 0, 5)

	lexemes := master.Lexemes()
	incomplete := 0
	for _, lex := range lexemes {
		if !lex.Complete() {
			incomplete++
		}
	}
	checks = append(checks, lesson.QACheck{
		ID:          "triplets-complete",
		Description: "Every vocabulary triplet has script, transliteration, and gloss",
		Pass:        incomplete == 0,
		Evidence:    fmt.Sprintf("%d of %d triplets complete", len(lexemes)-incomplete, len(lexemes)),
	})

	var policyFailures []string
	for _, lex := range lexemes {
		if !lex.Complete() {
			continue
		}
		result := translit.Check(lex.Translit, requireToneMark)
		if !result.OK {
			policyFailures = append(policyFailures, lex.Translit)
		}
	}
	evidence := "all transliterations conform"
	if len(policyFailures) > 0 {
		evidence = "violations: " + strings.Join(policyFailures, ", ")
	}
	checks = append(checks, lesson.QACheck{
		ID:          "translit-policy",
		Description: "Every transliteration passes the orthography policy",
		Pass:        len(policyFailures) == 0,
		Evidence:    evidence,
	})

	badBullets := 0
	totalBullets := 0
	for _, section := range master.Sections {
		for _, bullet := range section.Bullets {
			totalBullets++
			parts := strings.Split(bullet, "|")
			if len(parts) != 3 {
				badBullets++
				continue
			}
			for _, part := range parts {
				if strings.TrimSpace(part) == "" {
					badBullets++
					break
				}
			}
		}
	}
	checks = append(checks, lesson.QACheck{
		ID:          "bullets-shape",
		Description: "Every on-screen bullet follows the 'a | b | c' triplet shape",
		Pass:        badBullets == 0,
		Evidence:    fmt.Sprintf("%d of %d bullets well-formed", totalBullets-badBullets, totalBullets),
	})

	checks = append(checks, lesson.QACheck{
		ID:          "roleplay-present",
		Description: "Role-play dialogue has at least two lines",
		Pass:        len(master.Roleplay.Lines) >= 2,
		Evidence:    fmt.Sprintf("%d role-play lines", len(master.Roleplay.Lines)),
	})

	checks = append(checks, lesson.QACheck{
		ID:          "recap-present",
		Description: "Recap list is not empty",
		Pass:        len(master.Recap) > 0,
		Evidence:    fmt.Sprintf("%d recap entries", len(master.Recap)),
	})

	return checks
}

// scanDocument collects drift findings for one rendered document: forbidden
// notation anywhere, plus a full policy check of every triplet line's
// transliteration segment.
func scanDocument(file, raw string, requireToneMark bool) []lesson.DriftIssue {
	var issues []lesson.DriftIssue
	for _, found := range translit.ScanText(raw) {
		issues = append(issues, lesson.DriftIssue{File: file, Line: found.Line, Message: found.Message})
	}
	for _, segment := range translit.TripletSegments(raw) {
		result := translit.Check(segment.Translit, requireToneMark)
		for _, issue := range result.Issues {
			issues = append(issues, lesson.DriftIssue{
				File:    file,
				Line:    segment.Line,
				Message: fmt.Sprintf("transliteration %q %s", segment.Translit, issue.Message),
			})
		}
	}
	return issues
}
