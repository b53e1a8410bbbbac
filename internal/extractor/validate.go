package extractor

import (
	"math"
	"regexp"
)

// Strict "LABEL = amount" forms. Validation only compares balances the
// document states explicitly in this shape; looser matches feed the field
// extractors instead.
var (
	openingBalanceEqRe = regexp.MustCompile(`(?i)OPENING\s+BALANCE\s*=\s*([\d,]+\.?\d*)`)
	closingBalanceEqRe = regexp.MustCompile(`(?i)CLOSING\s+BALANCE\s*=\s*([\d,]+\.?\d*)`)

	ddoCodeKeyRe          = regexp.MustCompile(`(?i)DDO\s*CODE`)
	officerSignatureKeyRe = regexp.MustCompile(`(?i)executive engineer|divisional accounts officer`)
)

// runValidation computes the cross-field consistency flags. Every check is
// independent; a missing input yields a nil comparison, never a failure.
func runValidation(text string) ValidationFlags {
	flags := ValidationFlags{
		HasGrandTotal:       grandTotalKeyRe.MatchString(text),
		HasDDOCode:          ddoCodeKeyRe.MatchString(text),
		HasOfficerSignature: officerSignatureKeyRe.MatchString(text),
		RoundNumberAmounts:  findRoundNumbers(text),
	}

	obm := openingBalanceEqRe.FindStringSubmatch(text)
	cbm := closingBalanceEqRe.FindStringSubmatch(text)
	if obm != nil && cbm != nil {
		flags.OpeningBalanceValue = &obm[1]
		flags.ClosingBalanceValue = &cbm[1]

		ob, okOB := parseAmount(obm[1])
		cb, okCB := parseAmount(cbm[1])
		if okOB && okCB {
			matches := ob == cb
			flags.BalanceMatches = &matches
		}
	}

	return flags
}

// findRoundNumbers flags amounts that are exact non-zero multiples of
// 10,000. A perfectly round figure is atypical for an itemized total and may
// indicate fabrication or an OCR mis-merge.
func findRoundNumbers(text string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, tok := range amountRe.FindAllString(text, -1) {
		v, ok := parseAmount(tok)
		if !ok || v <= 0 || math.Mod(v, 10000) != 0 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		found = append(found, tok)
		if len(found) == maxRoundNumbers {
			break
		}
	}
	return found
}
