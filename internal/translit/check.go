package translit

import (
	"fmt"
	"strings"
)

// IssueCode classifies a policy violation found by Check.
type IssueCode string

const (
	IssueEmpty           IssueCode = "empty"
	IssueInvalidChar     IssueCode = "invalid-char"
	IssueForbiddenSymbol IssueCode = "forbidden-symbol"
	IssueLegacyTone      IssueCode = "legacy-tone"
	IssueMissingTone     IssueCode = "missing-tone"
)

// Issue is a single policy violation.
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

// CheckResult reports whether a transliteration conforms to policy.
type CheckResult struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// Check validates a single transliteration string against the orthography
// policy. The input is trimmed before checking. When requireToneMark is set,
// at least one inline diacritic tone mark must be present.
func Check(text string, requireToneMark bool) CheckResult {
	value := strings.TrimSpace(text)
	var issues []Issue

	if value == "" {
		issues = append(issues, Issue{Code: IssueEmpty, Message: "transliteration is empty"})
		return CheckResult{OK: false, Issues: issues}
	}

	if forbiddenSymbol.MatchString(value) {
		found := uniqueForbidden(value)
		parts := make([]string, len(found))
		for i, r := range found {
			parts[i] = string(r)
		}
		issues = append(issues, Issue{
			Code:    IssueForbiddenSymbol,
			Message: fmt.Sprintf("contains forbidden symbol(s): %s", strings.Join(parts, ", ")),
		})
	}

	if superscriptTone.MatchString(value) || legacyToneSuffix.MatchString(value) {
		issues = append(issues, Issue{
			Code:    IssueLegacyTone,
			Message: "contains forbidden superscript/caret/trailing legacy tone notation",
		})
	}

	if !allowedTextPattern.MatchString(value) {
		for _, r := range value {
			if !allowedCharPattern.MatchString(string(r)) {
				issues = append(issues, Issue{
					Code:    IssueInvalidChar,
					Message: fmt.Sprintf("contains non-policy character %q", string(r)),
				})
				break
			}
		}
	}

	if requireToneMark && !HasToneMark(value) {
		issues = append(issues, Issue{Code: IssueMissingTone, Message: "must include inline tone marks"})
	}

	return CheckResult{OK: len(issues) == 0, Issues: issues}
}
