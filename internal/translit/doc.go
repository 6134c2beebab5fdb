// Package translit implements the transliteration orthography policy for the
// course's phonetic notation: inline diacritic tone marks on vowels, a closed
// allow-list of characters, and mechanical repair of legacy tone notations
// (superscript tone letters, caret suffixes, trailing tone letters) and IPA
// symbols. The package is pure and I/O-free; Check and Repair never fail,
// unresolvable input passes through flagged for manual review.
package translit
