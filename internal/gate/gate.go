// Package gate decides what happens to an OCR result before any expensive
// processing or storage: store it, queue it for human review, or reject it.
package gate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arjunrk/govdoc-intel/internal/extractor"
)

// Recommendation is the gate's terminal verdict for a document.
type Recommendation string

const (
	Store  Recommendation = "store"
	Review Recommendation = "review"
	Reject Recommendation = "reject"
)

// Flags are the independent quality checks. Each is computed on its own;
// no flag depends on another.
type Flags struct {
	LowConfidence          bool `json:"low_confidence"`
	VeryLowWordCount       bool `json:"very_low_word_count"`
	NoGrandTotal           bool `json:"no_grand_total"`
	NoDDOCode              bool `json:"no_ddo_code"`
	BalanceMismatch        bool `json:"balance_mismatch"`
	SuspiciousRoundNumbers bool `json:"suspicious_round_numbers"`
}

// Result is the gate's full output for one document.
type Result struct {
	Passed         bool           `json:"passed"`
	ConfidenceOK   bool           `json:"confidence_ok"`
	HasText        bool           `json:"has_text"`
	Warnings       []string       `json:"warnings"`
	Flags          Flags          `json:"flags"`
	Recommendation Recommendation `json:"recommendation"`
}

// Thresholds. Confidence is on a 0 to 1 scale.
const (
	minPassConfidence = 0.3
	minPassWords      = 5
	lowConfidence     = 0.4
	lowWordCount      = 10
	storeConfidence   = 0.6
	roundNumberBase   = 10000
)

// Check evaluates an OCR result against the quality thresholds. It is a pure
// function: no state survives between calls and the recommendation is final.
// Metadata may be nil when extraction has not run, in which case the
// field-presence flags stay unset.
func Check(confidence float64, wordCount int, meta *extractor.DocumentMetadata) Result {
	r := Result{
		ConfidenceOK: confidence > lowConfidence,
		HasText:      wordCount > lowWordCount,
	}

	if confidence < lowConfidence {
		r.Flags.LowConfidence = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("Low OCR confidence: %.1f%%", confidence*100))
	}
	if wordCount < lowWordCount {
		r.Flags.VeryLowWordCount = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("Very low word count: %d words", wordCount))
	}

	if meta != nil {
		if meta.GrandTotal == nil {
			r.Flags.NoGrandTotal = true
			r.Warnings = append(r.Warnings, "No grand total found in document")
		}
		if meta.DDOCode == nil {
			r.Flags.NoDDOCode = true
			r.Warnings = append(r.Warnings, "No DDO code found in document")
		}
		if meta.Validation.BalanceMatches != nil && !*meta.Validation.BalanceMatches {
			r.Flags.BalanceMismatch = true
			r.Warnings = append(r.Warnings, "Balance mismatch detected in document")
		}
		if meta.GrandTotal != nil && isRoundNumber(*meta.GrandTotal) {
			r.Flags.SuspiciousRoundNumbers = true
			r.Warnings = append(r.Warnings, fmt.Sprintf("Suspicious round number detected: %s", *meta.GrandTotal))
		}
	}

	r.Passed = confidence > minPassConfidence && wordCount > minPassWords

	switch {
	case !r.Passed:
		r.Recommendation = Reject
	case confidence > storeConfidence && !r.Flags.BalanceMismatch && !r.Flags.VeryLowWordCount:
		r.Recommendation = Store
	default:
		r.Recommendation = Review
	}

	return r
}

// isRoundNumber reports whether a lexical amount parses to a non-zero
// multiple of 10,000.
func isRoundNumber(amount string) bool {
	v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil {
		return false
	}
	return v > 0 && math.Mod(v, roundNumberBase) == 0
}
