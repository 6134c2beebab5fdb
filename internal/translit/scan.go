package translit

import (
	"fmt"
	"strings"
)

// LineIssue is a policy drift finding at a specific line of a text document.
type LineIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Segment is one transliteration column extracted from a script triplet line.
type Segment struct {
	Line     int    `json:"line"`
	Translit string `json:"translit"`
}

// ScanText scans a whole text document for forbidden symbols and legacy tone
// notation, one finding per offending line. Line numbers are 1-based.
func ScanText(raw string) []LineIssue {
	var issues []LineIssue
	for index, line := range strings.Split(raw, "\n") {
		var fragments []string
		if forbiddenSymbol.MatchString(line) {
			found := uniqueForbidden(line)
			if len(found) > 0 {
				parts := make([]string, len(found))
				for i, r := range found {
					parts[i] = string(r)
				}
				fragments = append(fragments, fmt.Sprintf("forbidden symbol(s): %s", strings.Join(parts, ", ")))
			}
		}
		if superscriptTone.MatchString(line) {
			fragments = append(fragments, "superscript/caret tone notation")
		}
		if legacyToneSuffix.MatchString(line) {
			fragments = append(fragments, "legacy trailing H/M/L/R tone suffix")
		}
		if len(fragments) == 0 {
			continue
		}
		issues = append(issues, LineIssue{Line: index + 1, Message: strings.Join(fragments, " + ")})
	}
	return issues
}

// TripletSegments extracts the transliteration column from every
// "thai | translit | gloss" line of a script document. Lines with fewer than
// three pipe-separated parts or an empty middle column are skipped.
func TripletSegments(raw string) []Segment {
	var segments []Segment
	for index, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		translit := strings.TrimSpace(parts[1])
		if translit == "" {
			continue
		}
		segments = append(segments, Segment{Line: index + 1, Translit: translit})
	}
	return segments
}
