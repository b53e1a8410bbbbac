// Package normalizer canonicalizes cleaned OCR text so that differently
// formatted spellings of the same value (dates, amounts, currencies) compare
// equal downstream. Every pass is total: input that fails to parse is passed
// through unmodified, never dropped. The full pipeline is idempotent.
package normalizer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Result carries the two canonical forms of a document's text. SearchText is
// always DisplayText lowercased; DisplayText keeps case for field extraction.
type Result struct {
	DisplayText string `json:"display_text"`
	SearchText  string `json:"search_text"`
}

// currencyAliases maps every recognized symbol or keyword to its ISO 4217
// code. Matching is case-insensitive and longest-alias-first so that "US$"
// never loses to "$" and "Rs." never loses to "Rs".
var currencyAliases = map[string]string{
	"$": "USD", "US$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₹": "INR", "Rs": "INR", "Rs.": "INR", "INR": "INR",
	"A$": "AUD",
	"C$": "CAD",
	"Fr": "CHF", "CHF": "CHF",
	"R$": "BRL",
}

var dateRe = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`)

var typographicReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", "'", "’", "'",
	"—", "-", "–", "-",
)

// Normalizer applies the canonicalization passes. The currency pattern is
// compiled once at construction.
type Normalizer struct {
	currencyRe *regexp.Regexp
	codeFor    map[string]string
}

// New builds a Normalizer with the currency alias table compiled.
func New() *Normalizer {
	aliases := make([]string, 0, len(currencyAliases))
	codeFor := make(map[string]string, len(currencyAliases))
	for alias, code := range currencyAliases {
		aliases = append(aliases, alias)
		codeFor[strings.ToLower(alias)] = code
	}

	// Longest first so short aliases cannot shadow longer ones; ties broken
	// lexicographically for a deterministic pattern.
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})

	escaped := make([]string, len(aliases))
	for i, a := range aliases {
		escaped[i] = regexp.QuoteMeta(a)
	}

	re := regexp.MustCompile(`(?i)(` + strings.Join(escaped, "|") + `)\s*`)

	return &Normalizer{currencyRe: re, codeFor: codeFor}
}

// Normalize runs all passes in order and returns both canonical forms.
func (n *Normalizer) Normalize(text string) Result {
	out := normalizeUnicode(text)
	out = standardizeNumbers(out)
	out = standardizeDates(out)
	out = n.standardizeCurrency(out)

	return Result{
		DisplayText: out,
		SearchText:  strings.ToLower(out),
	}
}

// normalizeUnicode converts to NFC and replaces typographic quotes and
// dashes with their ASCII equivalents.
func normalizeUnicode(text string) string {
	return typographicReplacer.Replace(norm.NFC.String(text))
}

// standardizeNumbers removes thousands-separator commas strictly between two
// digits, which handles both Indian (1,00,000) and international (100,000)
// grouping without caring which convention was used.
func standardizeNumbers(text string) string {
	if !strings.Contains(text, ",") {
		return text
	}

	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i, r := range runes {
		if r == ',' && i > 0 && i < len(runes)-1 &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// standardizeDates rewrites D/M/Y sequences to ISO YYYY-MM-DD, parsing
// day-first. Anything that fails to parse as a real calendar date is left
// exactly as found.
func standardizeDates(text string) string {
	return dateRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := strings.FieldsFunc(match, func(r rune) bool {
			return r == '/' || r == '-' || r == '.'
		})
		if len(parts) != 3 {
			return match
		}

		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return match
		}

		if year < 100 {
			if year < 70 {
				year += 2000
			} else {
				year += 1900
			}
		}

		if month < 1 || month > 12 || day < 1 || day > 31 {
			return match
		}
		// Round-trip through time.Date to reject impossible days (e.g. 31/04).
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
			return match
		}

		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	})
}

// standardizeCurrency replaces each symbol/keyword occurrence with its
// 3-letter code plus one space. Aliases made of letters only fire at word
// boundaries so substrings like "Fr" in "Friday" survive.
func (n *Normalizer) standardizeCurrency(text string) string {
	matches := n.currencyRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*2)
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		aliasStart, aliasEnd := m[2], m[3]
		alias := text[aliasStart:aliasEnd]

		if !n.boundaryOK(text, aliasStart, aliasEnd, alias) {
			continue
		}

		code, ok := n.codeFor[strings.ToLower(alias)]
		if !ok {
			continue
		}

		b.WriteString(text[last:start])
		b.WriteString(code)
		b.WriteString(" ")
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// boundaryOK rejects matches where a letter-edged alias is glued to other
// letters or digits (leading side) or letters (trailing side).
func (n *Normalizer) boundaryOK(text string, start, end int, alias string) bool {
	first, _ := utf8.DecodeRuneInString(alias)
	lastR, _ := utf8.DecodeLastRuneInString(alias)

	if unicode.IsLetter(first) && start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	if unicode.IsLetter(lastR) && end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(next) {
			return false
		}
	}
	return true
}
