package translit

import "regexp"

// Tone identifies one of the four tone categories carried by legacy notation.
type Tone byte

const (
	ToneLow    Tone = 'L'
	ToneHigh   Tone = 'H'
	ToneRising Tone = 'R'
	ToneMid    Tone = 'M'
)

// toneMarkChars lists every vowel form carrying an inline tone mark.
const toneMarkChars = "àáâǎèéêěìíîǐòóôǒùúûǔÀÁÂǍÈÉÊĚÌÍÎǏÒÓÔǑÙÚÛǓ"

var lowerToneMap = map[rune]map[Tone]rune{
	'a': {ToneLow: 'à', ToneHigh: 'á', ToneRising: 'ǎ', ToneMid: 'a'},
	'e': {ToneLow: 'è', ToneHigh: 'é', ToneRising: 'ě', ToneMid: 'e'},
	'i': {ToneLow: 'ì', ToneHigh: 'í', ToneRising: 'ǐ', ToneMid: 'i'},
	'o': {ToneLow: 'ò', ToneHigh: 'ó', ToneRising: 'ǒ', ToneMid: 'o'},
	'u': {ToneLow: 'ù', ToneHigh: 'ú', ToneRising: 'ǔ', ToneMid: 'u'},
}

var upperToneMap = map[rune]map[Tone]rune{
	'A': {ToneLow: 'À', ToneHigh: 'Á', ToneRising: 'Ǎ', ToneMid: 'A'},
	'E': {ToneLow: 'È', ToneHigh: 'É', ToneRising: 'Ě', ToneMid: 'E'},
	'I': {ToneLow: 'Ì', ToneHigh: 'Í', ToneRising: 'Ǐ', ToneMid: 'I'},
	'O': {ToneLow: 'Ò', ToneHigh: 'Ó', ToneRising: 'Ǒ', ToneMid: 'O'},
	'U': {ToneLow: 'Ù', ToneHigh: 'Ú', ToneRising: 'Ǔ', ToneMid: 'U'},
}

var markedToBase = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ǎ': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ǐ': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ǒ': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ǔ': 'u',
	'À': 'A', 'Á': 'A', 'Â': 'A', 'Ǎ': 'A',
	'È': 'E', 'É': 'E', 'Ê': 'E', 'Ě': 'E',
	'Ì': 'I', 'Í': 'I', 'Î': 'I', 'Ǐ': 'I',
	'Ò': 'O', 'Ó': 'O', 'Ô': 'O', 'Ǒ': 'O',
	'Ù': 'U', 'Ú': 'U', 'Û': 'U', 'Ǔ': 'U',
}

var superscriptToTone = map[rune]Tone{
	'ᴴ': ToneHigh,
	'ᴹ': ToneMid,
	'ᴸ': ToneLow,
	'ᴿ': ToneRising,
}

// allowedCharClass is the closed character allow-list: ASCII letters and
// digits, the diacritic vowel forms, and fixed punctuation.
const allowedCharClass = `A-Za-z0-9` + toneMarkChars + `\s\-’'.,!?/:;()\[\]{}&+|•…"`

// ForbiddenSymbols is the closed denylist of IPA and legacy phonetic code
// points that must never appear in course transliteration.
var ForbiddenSymbols = []rune{
	'ʉ', 'ə', 'ɯ', 'ɤ', 'œ', 'ɨ', 'ɪ', 'ʊ', 'ɜ', 'ɐ', 'ɑ', 'ɔ', 'ɒ', 'æ',
	'ɲ', 'ŋ', 'ɕ', 'ʑ', 'ʔ', 'ɡ', 'ː', 'ˈ', 'ˌ', 'ᵊ', 'ᶱ', 'ᴴ', 'ᴹ', 'ᴸ', 'ᴿ',
}

var forbiddenSet = func() map[rune]struct{} {
	set := make(map[rune]struct{}, len(ForbiddenSymbols))
	for _, r := range ForbiddenSymbols {
		set[r] = struct{}{}
	}
	return set
}()

var (
	allowedTextPattern   = regexp.MustCompile(`^[` + allowedCharClass + `]+$`)
	allowedCharPattern   = regexp.MustCompile(`^[` + allowedCharClass + `]$`)
	inlineToneMarkRegexp = regexp.MustCompile(`[` + toneMarkChars + `]`)
	legacyToneSuffix     = regexp.MustCompile(`\b[a-z][a-z'’-]*[HMLR]\b`)
	superscriptTone      = regexp.MustCompile(`[ᴴᴹᴸᴿ]|\^[HMLR]`)
	forbiddenSymbol      = regexp.MustCompile(`[` + string(ForbiddenSymbols) + `]`)
)

// HasToneMark reports whether text contains at least one inline tone mark.
func HasToneMark(text string) bool {
	return inlineToneMarkRegexp.MatchString(text)
}

func baseChar(r rune) rune {
	if base, ok := markedToBase[r]; ok {
		return base
	}
	return r
}

// applyToneToToken remaps the rightmost vowel of token through the diacritic
// tables for the given tone. Returns ("", false) when no vowel is present.
func applyToneToToken(token string, tone Tone) (string, bool) {
	chars := []rune(token)
	for i := len(chars) - 1; i >= 0; i-- {
		base := baseChar(chars[i])
		if mapped, ok := lowerToneMap[base]; ok {
			chars[i] = mapped[tone]
			return string(chars), true
		}
		if mapped, ok := upperToneMap[base]; ok {
			chars[i] = mapped[tone]
			return string(chars), true
		}
	}
	return "", false
}

func uniqueForbidden(text string) []rune {
	seen := make(map[rune]struct{})
	var found []rune
	for _, r := range text {
		if _, forbidden := forbiddenSet[r]; !forbidden {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		found = append(found, r)
	}
	return found
}
