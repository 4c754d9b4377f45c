// Package audit checks the items a user owns or uses against a sign's
// STRONG and MILD avoid lists.
//
// Matching is loose. The last-resort substring step lets short tokens hit
// long terms ("an" matches "banana"), and singularisation is a plain suffix
// strip ("glass" becomes "glas").
package audit

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

var splitter = regexp.MustCompile(`[,\n\r]+`)

// synonyms rewrites common phrasings onto the words the workbook uses.
var synonyms = map[string]string{
	"couch":        "sofa",
	"settee":       "sofa",
	"loveseat":     "sofa",
	"rose gold":    "gold",
	"yellow gold":  "gold",
	"white gold":   "gold",
	"garbage can":  "bin",
	"trash can":    "bin",
	"dustbin":      "bin",
	"waste basket": "bin",
	"wastebasket":  "bin",
	"drape":        "curtain",
	"telly":        "tv",
	"television":   "tv",
	"sneaker":      "shoe",
	"trainer":      "shoe",
	"soda":         "soft drink",
	"pop":          "soft drink",
	"fizzy drink":  "soft drink",
	"aubergine":    "eggplant",
	"courgette":    "zucchini",
}

// Tokenize splits free text into lowercase phrases. Multi-word phrases also
// contribute each of their words, so "trash can" yields "trash can", "trash"
// and "can". Blank input yields no tokens.
func Tokenize(text string) []string {
	var tokens []string
	seen := map[string]bool{}
	add := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}

	for _, part := range splitter.Split(text, -1) {
		words := strings.Fields(strings.ToLower(part))
		if len(words) == 0 {
			continue
		}
		add(strings.Join(words, " "))
		if len(words) > 1 {
			for _, w := range words {
				add(w)
			}
		}
	}
	return tokens
}

// Normalize maps a token onto its canonical form: synonym substitution and a
// naive per-word singular. List terms go through the same function.
func Normalize(token string) string {
	token = strings.Join(strings.Fields(strings.ToLower(token)), " ")
	if syn, ok := synonyms[token]; ok {
		return syn
	}

	words := strings.Fields(token)
	for i, w := range words {
		words[i] = singular(w)
	}
	token = strings.Join(words, " ")
	if syn, ok := synonyms[token]; ok {
		return syn
	}
	return token
}

// singular strips a trailing "es" or "s" from words longer than three letters.
func singular(w string) string {
	if len(w) <= 3 {
		return w
	}
	if strings.HasSuffix(w, "es") {
		return strings.TrimSuffix(w, "es")
	}
	if strings.HasSuffix(w, "s") {
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// term is one avoid-list entry: the text shown to the user and its normalized form.
type term struct {
	raw  string
	norm string
}

// Rules is a sign's avoid lists for one category, normalized once.
type Rules struct {
	strong []term
	mild   []term
}

// NewRules normalizes the raw strong and mild terms.
func NewRules(strong, mild []string) Rules {
	return Rules{strong: normalizeTerms(strong), mild: normalizeTerms(mild)}
}

// Empty reports whether no terms were found for either tier.
func (r Rules) Empty() bool {
	return len(r.strong) == 0 && len(r.mild) == 0
}

func normalizeTerms(raw []string) []term {
	var out []term
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if n := Normalize(r); n != "" {
			out = append(out, term{raw: r, norm: n})
		}
	}
	return out
}

// Match grades one token. The strong list is searched before the mild list,
// so a token touching any strong term is never reported as MILD.
func Match(token string, rules Rules) models.TokenVerdict {
	tok := Normalize(token)
	v := models.TokenVerdict{Token: tok, Level: models.OK}
	if tok == "" {
		return v
	}
	if t, ok := find(tok, rules.strong); ok {
		v.Level, v.Term = models.Strong, t
		return v
	}
	if t, ok := find(tok, rules.mild); ok {
		v.Level, v.Term = models.Mild, t
	}
	return v
}

// find walks the terms three times, from strict to loose: exact, whole word,
// then raw substring. The first hit wins.
func find(tok string, terms []term) (string, bool) {
	for _, t := range terms {
		if t.norm == tok {
			return t.raw, true
		}
	}
	for _, t := range terms {
		if containsWord(t.norm, tok) || containsWord(tok, t.norm) {
			return t.raw, true
		}
	}
	for _, t := range terms {
		if strings.Contains(t.norm, tok) || strings.Contains(tok, t.norm) {
			return t.raw, true
		}
	}
	return "", false
}

// containsWord reports whether word occurs in s bounded by non-letter,
// non-digit runes or the ends of s.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i == len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
