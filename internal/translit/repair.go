package translit

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RepairResult describes the outcome of a mechanical repair pass.
type RepairResult struct {
	Value        string   `json:"value"`
	Changed      bool     `json:"changed"`
	AutoFixes    []string `json:"autoFixes"`
	ManualReview []string `json:"manualReview"`
}

// tokenClass matches one word token eligible for tone remapping, including
// already-marked vowels so a second tone notation still finds its vowel.
const tokenClass = `[A-Za-z` + toneMarkChars + `'’-]+`

var (
	stressMarkers   = regexp.MustCompile(`ˈ|ˌ`)
	lengthMarker    = regexp.MustCompile(`([A-Za-z])ː`)
	caretTone       = regexp.MustCompile(`\b(` + tokenClass + `)\^([HMLR])\b`)
	superscriptRule = regexp.MustCompile(`\b(` + tokenClass + `)([ᴴᴹᴸᴿ])`)
	trailingTone    = regexp.MustCompile(`\b([a-z][a-z'’-]*)([HMLR])\b`)
	thaiScriptOnly  = regexp.MustCompile(`^[\x{0E00}-\x{0E7F}\s]+$`)

	multiSpace    = regexp.MustCompile(`\s{2,}`)
	slashSpacing  = regexp.MustCompile(`\s*/\s*`)
	pipeSpacing   = regexp.MustCompile(`\s*\|\s*`)
	spaceThenStop = regexp.MustCompile(`\s+([,.;!?])`)
)

// ipaSubstitutions is applied in order; longer sequences precede their
// prefixes so ʉː wins over ʉ.
var ipaSubstitutions = []struct {
	pattern     *regexp.Regexp
	replacement string
	note        string
	uncertain   bool
}{
	{regexp.MustCompile(`ʉː`), "uu", "Converted ʉː to uu", false},
	{regexp.MustCompile(`ʉ`), "uu", "Converted ʉ to uu", false},
	{regexp.MustCompile(`ɯː`), "euu", "Converted ɯː to euu", false},
	{regexp.MustCompile(`ɯ`), "eu", "Converted ɯ to eu", false},
	{regexp.MustCompile(`ɤː`), "euu", "Converted ɤː to euu", false},
	{regexp.MustCompile(`ɤ`), "eu", "Converted ɤ to eu", false},
	{regexp.MustCompile(`ə`), "er", "Converted ə to er", true},
	{regexp.MustCompile(`œ`), "oe", "Converted œ to oe", false},
	{regexp.MustCompile(`ɨ`), "eu", "Converted ɨ to eu", false},
	{regexp.MustCompile(`ɪ`), "i", "Converted ɪ to i", false},
	{regexp.MustCompile(`ʊ`), "u", "Converted ʊ to u", false},
	{regexp.MustCompile(`ɔː`), "aaw", "Converted ɔː to aaw", false},
	{regexp.MustCompile(`ɔ`), "aw", "Converted ɔ to aw", false},
	{regexp.MustCompile(`ɒ`), "aw", "Converted ɒ to aw", false},
	{regexp.MustCompile(`æ`), "ae", "Converted æ to ae", false},
	{regexp.MustCompile(`ŋ`), "ng", "Converted ŋ to ng", false},
	{regexp.MustCompile(`ɲ`), "y", "Converted ɲ to y", false},
	{regexp.MustCompile(`tɕʰ`), "ch", "Converted tɕʰ to ch", false},
	{regexp.MustCompile(`tɕ`), "j", "Converted tɕ to j", false},
	{regexp.MustCompile(`dʑ`), "j", "Converted dʑ to j", false},
	{regexp.MustCompile(`ɕ`), "ch", "Converted ɕ to ch", false},
	{regexp.MustCompile(`ʑ`), "ch", "Converted ʑ to ch", true},
	{regexp.MustCompile(`ʔ`), "", "Removed glottal stop marker ʔ", true},
	{regexp.MustCompile(`ɡ`), "g", "Normalized IPA g to ASCII g", false},
}

type repairReport struct {
	autoFixes    []string
	manualReview []string
}

func (r *repairReport) replace(input string, pattern *regexp.Regexp, replacement, note string, uncertain bool) string {
	if !pattern.MatchString(input) {
		return input
	}
	output := pattern.ReplaceAllString(input, replacement)
	if output != input {
		r.autoFixes = append(r.autoFixes, note)
		if uncertain {
			r.manualReview = append(r.manualReview, note+" (verify meaning manually)")
		}
	}
	return output
}

// Repair mechanically converts legacy tone notation and IPA symbols to the
// course orthography. Repair never fails; anything it cannot resolve is left
// in place and reported in ManualReview.
func Repair(input string) RepairResult {
	report := &repairReport{}

	value := norm.NFC.String(input)

	value = report.replace(value, stressMarkers, "", "Removed IPA stress markers", false)
	value = lengthMarker.ReplaceAllStringFunc(value, func(match string) string {
		vowel := match[:1]
		report.autoFixes = append(report.autoFixes, fmt.Sprintf("Expanded IPA length marker after '%s'", vowel))
		return vowel + vowel
	})

	value = repairLegacyTones(value, report)

	for _, sub := range ipaSubstitutions {
		value = report.replace(value, sub.pattern, sub.replacement, sub.note, sub.uncertain)
	}

	if thaiScriptOnly.MatchString(value) {
		report.manualReview = append(report.manualReview, "Value is still Thai script; transliteration must be entered manually")
	}

	value = normalizeWhitespace(value)

	return RepairResult{
		Value:        value,
		Changed:      value != input,
		AutoFixes:    dedupe(report.autoFixes),
		ManualReview: dedupe(report.manualReview),
	}
}

func repairLegacyTones(input string, report *repairReport) string {
	out := caretTone.ReplaceAllStringFunc(input, func(match string) string {
		groups := caretTone.FindStringSubmatch(match)
		token, tone := groups[1], Tone(groups[2][0])
		applied, ok := applyToneToToken(token, tone)
		if !ok {
			report.manualReview = append(report.manualReview, fmt.Sprintf("Could not apply ^%c tone to '%s'", tone, token))
			return match
		}
		report.autoFixes = append(report.autoFixes, fmt.Sprintf("Applied ^%c inline tone mark in '%s'", tone, token))
		return applied
	})

	out = replaceSuperscriptTones(out, report)

	out = trailingTone.ReplaceAllStringFunc(out, func(match string) string {
		groups := trailingTone.FindStringSubmatch(match)
		token, tone := groups[1], Tone(groups[2][0])
		applied, ok := applyToneToToken(token, tone)
		if !ok {
			report.manualReview = append(report.manualReview, fmt.Sprintf("Could not apply trailing tone %c to '%s'", tone, token))
			return match
		}
		report.autoFixes = append(report.autoFixes, fmt.Sprintf("Converted trailing tone %c in '%s'", tone, token))
		return applied
	})

	return out
}

// replaceSuperscriptTones converts token-final superscript tone letters.
// A superscript followed directly by an ASCII letter is not token-final and
// is left alone; the scan is manual because RE2 has no lookahead.
func replaceSuperscriptTones(input string, report *repairReport) string {
	matches := superscriptRule.FindAllStringSubmatchIndex(input, -1)
	if matches == nil {
		return input
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		rest := input[end:]
		if len(rest) > 0 && (rest[0] >= 'A' && rest[0] <= 'Z' || rest[0] >= 'a' && rest[0] <= 'z') {
			continue
		}
		token := input[m[2]:m[3]]
		super := input[m[4]:m[5]]
		tone := superscriptToTone[[]rune(super)[0]]

		b.WriteString(input[last:start])
		applied, ok := applyToneToToken(token, tone)
		if !ok {
			report.manualReview = append(report.manualReview, fmt.Sprintf("Could not apply superscript tone %s to '%s'", super, token))
			b.WriteString(input[start:end])
		} else {
			report.autoFixes = append(report.autoFixes, fmt.Sprintf("Converted superscript tone %s in '%s'", super, token))
			b.WriteString(applied)
		}
		last = end
	}
	b.WriteString(input[last:])
	return b.String()
}

func normalizeWhitespace(input string) string {
	out := multiSpace.ReplaceAllString(input, " ")
	out = slashSpacing.ReplaceAllString(out, " / ")
	out = pipeSpacing.ReplaceAllString(out, " | ")
	out = spaceThenStop.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
