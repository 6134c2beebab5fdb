package translit_test

import (
	"strings"
	"testing"

	"coursebuild/internal/translit"
)

func TestCheckAcceptsMarkedTransliteration(t *testing.T) {
	result := translit.Check("khǎaw-thôot", true)
	if !result.OK {
		t.Fatalf("expected ok, got issues: %+v", result.Issues)
	}
}

func TestCheckEmpty(t *testing.T) {
	result := translit.Check("   ", true)
	if result.OK {
		t.Fatal("expected failure for empty input")
	}
	if len(result.Issues) != 1 || result.Issues[0].Code != translit.IssueEmpty {
		t.Fatalf("expected single empty issue, got %+v", result.Issues)
	}
}

func TestCheckForbiddenSymbols(t *testing.T) {
	result := translit.Check("kʰaːw", true)
	if result.OK {
		t.Fatal("expected failure for IPA input")
	}
	var codes []translit.IssueCode
	for _, issue := range result.Issues {
		codes = append(codes, issue.Code)
	}
	if !containsCode(codes, translit.IssueForbiddenSymbol) {
		t.Fatalf("expected forbidden-symbol issue, got %v", codes)
	}
	if !containsCode(codes, translit.IssueInvalidChar) {
		t.Fatalf("expected invalid-char issue for aspiration mark, got %v", codes)
	}
}

func TestCheckLegacyToneNotation(t *testing.T) {
	for _, input := range []string{"khawR", "khaw^H", "khawᴿ"} {
		result := translit.Check(input, false)
		if result.OK {
			t.Fatalf("expected legacy-tone failure for %q", input)
		}
		found := false
		for _, issue := range result.Issues {
			if issue.Code == translit.IssueLegacyTone {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected legacy-tone issue for %q, got %+v", input, result.Issues)
		}
	}
}

func TestCheckMissingToneMark(t *testing.T) {
	result := translit.Check("sawatdee", true)
	if result.OK {
		t.Fatal("expected missing-tone failure")
	}
	if result.Issues[0].Code != translit.IssueMissingTone {
		t.Fatalf("expected missing-tone issue, got %+v", result.Issues)
	}
	if relaxed := translit.Check("sawatdee", false); !relaxed.OK {
		t.Fatalf("expected ok without tone requirement, got %+v", relaxed.Issues)
	}
}

func TestRepairTrailingTone(t *testing.T) {
	result := translit.Repair("khawL")
	if result.Value != "khàw" {
		t.Fatalf("expected khàw, got %q", result.Value)
	}
	if !result.Changed || len(result.AutoFixes) == 0 {
		t.Fatalf("expected reported auto fix, got %+v", result)
	}
}

func TestRepairSuperscriptTone(t *testing.T) {
	result := translit.Repair("khawᴿ")
	if result.Value != "khǎw" {
		t.Fatalf("expected khǎw, got %q", result.Value)
	}
}

func TestRepairSuperscriptFollowedByLetterLeftAlone(t *testing.T) {
	result := translit.Repair("khawᴿx")
	if result.Value != "khawᴿx" {
		t.Fatalf("expected input unchanged, got %q", result.Value)
	}
}

func TestRepairCaretTone(t *testing.T) {
	result := translit.Repair("khaw^H")
	if result.Value != "kháw" {
		t.Fatalf("expected kháw, got %q", result.Value)
	}
}

func TestRepairStressAndLengthMarkers(t *testing.T) {
	result := translit.Repair("ˈkaːn")
	if result.Value != "kaan" {
		t.Fatalf("expected kaan, got %q", result.Value)
	}
}

func TestRepairUncertainSubstitutionFlagsReview(t *testing.T) {
	result := translit.Repair("kəm")
	if result.Value != "kerm" {
		t.Fatalf("expected kerm, got %q", result.Value)
	}
	if len(result.ManualReview) == 0 {
		t.Fatal("expected manual review note for schwa substitution")
	}
}

func TestRepairThaiScriptFlagsManualEntry(t *testing.T) {
	result := translit.Repair("สวัสดี")
	if len(result.ManualReview) == 0 {
		t.Fatal("expected manual review note for Thai script value")
	}
}

func TestRepairNormalizesWhitespace(t *testing.T) {
	result := translit.Repair("sà-wàt  dii /khráp ,")
	if result.Value != "sà-wàt dii / khráp," {
		t.Fatalf("unexpected whitespace normalization: %q", result.Value)
	}
}

func TestRepairedValuePassesCheck(t *testing.T) {
	inputs := []string{"khawL", "khawᴿ", "khaw^H", "ˈkaːw", "kɔːn"}
	for _, input := range inputs {
		repaired := translit.Repair(input)
		result := translit.Check(repaired.Value, false)
		if !result.OK {
			t.Fatalf("repaired %q -> %q still fails: %+v", input, repaired.Value, result.Issues)
		}
	}
}

func TestRepairIdempotent(t *testing.T) {
	first := translit.Repair("khawL kɔːn")
	second := translit.Repair(first.Value)
	if second.Changed {
		t.Fatalf("second repair changed %q to %q", first.Value, second.Value)
	}
}

func TestScanTextReportsPerLine(t *testing.T) {
	raw := strings.Join([]string{
		"sà-wàt-dii khráp",
		"kʰaːw suay",
		"phǒm chɔ̂ɔp khawR",
	}, "\n")
	issues := translit.ScanText(raw)
	if len(issues) != 2 {
		t.Fatalf("expected 2 line issues, got %+v", issues)
	}
	if issues[0].Line != 2 || !strings.Contains(issues[0].Message, "forbidden symbol(s)") {
		t.Fatalf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Line != 3 || !strings.Contains(issues[1].Message, "legacy trailing H/M/L/R tone suffix") {
		t.Fatalf("unexpected second issue: %+v", issues[1])
	}
}

func TestTripletSegments(t *testing.T) {
	raw := strings.Join([]string{
		"# Dialogue",
		"สวัสดีครับ | sà-wàt-dii khráp | hello",
		"no pipes here",
		"a | b",
		"ขอบคุณ |  | thanks",
		"ครับ | khráp | polite particle",
	}, "\n")
	segments := translit.TripletSegments(raw)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segments)
	}
	if segments[0].Line != 2 || segments[0].Translit != "sà-wàt-dii khráp" {
		t.Fatalf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Line != 6 || segments[1].Translit != "khráp" {
		t.Fatalf("unexpected second segment: %+v", segments[1])
	}
}

func containsCode(codes []translit.IssueCode, want translit.IssueCode) bool {
	for _, code := range codes {
		if code == want {
			return true
		}
	}
	return false
}
