// Package cleaner repairs per-token OCR noise before normalization.
//
// Corrections are confidence-gated: tokens the engine was confident about are
// left untouched (beyond artifact stripping), so reliable text is never
// corrupted by heuristic fixes.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sajari/fuzzy"

	"github.com/arjunrk/govdoc-intel/internal/ocr"
)

// DefaultConfidenceThreshold is the score below which the OCR engine is
// considered uncertain and heuristic corrections are applied.
const DefaultConfidenceThreshold = 0.8

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	zeroWidthRe  = regexp.MustCompile("[​-‍\ufeff]")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// structural substitutions for known OCR confusions, applied in order.
var confusionPairs = [][2]string{
	{"rn", "m"},
	{"vv", "w"},
	{"cl", "d"},
}

// Cleaner fixes systematic OCR errors in a token stream. Safe for concurrent
// use: the spell model is trained once at construction and only read after.
type Cleaner struct {
	threshold float64
	model     *fuzzy.Model
	known     map[string]struct{}
}

// New builds a Cleaner with the given confidence threshold. The spell model
// is trained on the embedded dictionary at construction so per-document
// cleaning stays cheap.
func New(threshold float64) *Cleaner {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.Train(dictionary)

	known := make(map[string]struct{}, len(dictionary))
	for _, w := range dictionary {
		known[w] = struct{}{}
	}

	return &Cleaner{threshold: threshold, model: model, known: known}
}

// Clean runs the full per-token pipeline and reassembles the text with single
// spaces. Output is never empty as long as any token survives artifact
// stripping. Pure with respect to its input.
func (c *Cleaner) Clean(tokens []ocr.Token) string {
	words := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		word := stripArtifacts(tok.Text)

		if tok.Confidence < c.threshold {
			word = fixConfusions(word)
			word = c.correctSpelling(word)
		}

		if word != "" {
			words = append(words, word)
		}
	}

	joined := strings.Join(words, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(joined, " "))
}

// stripArtifacts removes zero-width characters and anything outside the safe
// alphanumeric/punctuation set. Always applied, regardless of confidence.
func stripArtifacts(word string) string {
	word = zeroWidthRe.ReplaceAllString(word, "")

	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' ||
			unicode.IsSpace(r) || strings.ContainsRune(".,;:!?()-", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fixConfusions applies the structural substitutions, then the digit-context
// O→0 and l→1 repairs. The digit repairs only fire when the character is
// flanked by digits on both sides.
func fixConfusions(word string) string {
	for _, pair := range confusionPairs {
		word = strings.ReplaceAll(word, pair[0], pair[1])
	}

	runes := []rune(word)
	for i := 1; i < len(runes)-1; i++ {
		if !unicode.IsDigit(runes[i-1]) || !unicode.IsDigit(runes[i+1]) {
			continue
		}
		switch runes[i] {
		case 'O':
			runes[i] = '0'
		case 'l':
			runes[i] = '1'
		}
	}
	return string(runes)
}

// correctSpelling replaces a misrecognized word with a dictionary suggestion.
// Attached punctuation is preserved; numeric or mixed tokens are skipped so
// codes and amounts are never "corrected".
func (c *Cleaner) correctSpelling(word string) string {
	core := strings.Trim(word, punctuation)
	if core == "" || !isAlpha(core) {
		return word
	}

	lower := strings.ToLower(core)
	if _, ok := c.known[lower]; ok {
		return word
	}

	suggestion := c.model.SpellCheck(lower)
	if suggestion == "" || suggestion == lower {
		return word
	}

	return strings.Replace(word, core, suggestion, 1)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
