package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// amount-token grammar: a run of digits and grouping commas, optionally with
// a decimal part. The minimum-length variants keep short figures (years,
// serial numbers) from matching where only substantial amounts are plausible.
var (
	amountRe        = regexp.MustCompile(`[\d,]{5,}\.?\d*`)
	hugeAmountRe    = regexp.MustCompile(`[\d,]{8,}\.?\d*`)
	smallAmountRe   = regexp.MustCompile(`[\d,]{4,}\.?\d*`)
	amountCleanRe   = regexp.MustCompile(`[₹,\s]`)
	grandTotalRe    = regexp.MustCompile(`(?i)GRAND\s*TOTAL[^\d₹]*([\d,]{6,}\.?\d*)`)
	grandTotalKeyRe = regexp.MustCompile(`(?i)GRAND\s*TOTAL`)

	openingBalanceRe = regexp.MustCompile(`(?i)OPENING\s*BALANCE\s*[=:\-]?\s*([\d,]{4,}\.?\d*)`)
	closingBalanceRe = regexp.MustCompile(`(?i)CLOSING\s*BALANCE\s*[=:\-]?\s*([\d,]{4,}\.?\d*)`)
)

// Label patterns for the labelled-amount lookup. Numeric alternatives are the
// head-of-account codes under which these figures are booked, which survive
// OCR better than English labels do.
const (
	totalReceiptsLabel    = `total.*?receipt|receipt.*?total`
	totalExpenditureLabel = `total.*?expenditure|expenditure.*?total|grand\s+total`
	pwChequeLabel         = `pw\s+remittance.*?cheque|8782.*?102.*?02`
	pwCashLabel           = `pw\s+remittance.*?remittance|8782.*?102.*?01`
	incomeTaxLabel        = `income\s+tax|8658.*?112`
	gstLabel              = `gst|8658.*?139|8658.*?0139`
	civilDepositLabel     = `civil\s+deposit|8443`
)

// labelledAmountWindow bounds how far past a label the lookup scans for an
// amount token when none shares the label's line.
const labelledAmountWindow = 200

var labelREs = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{
		totalReceiptsLabel, totalExpenditureLabel, pwChequeLabel,
		pwCashLabel, incomeTaxLabel, gstLabel, civilDepositLabel,
	} {
		labelREs[label] = regexp.MustCompile(`(?i)` + label)
	}
}

// parseAmount converts a lexical amount token (Indian or international
// grouping, optional rupee sign) to a float. Returns false when the token
// does not parse.
func parseAmount(s string) (float64, bool) {
	cleaned := amountCleanRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractLabelledAmount finds the first amount-shaped token associated with a
// label: same line as the label first, then a bounded window after it.
func extractLabelledAmount(text, label string) *string {
	re := labelREs[label]
	if re == nil {
		re = regexp.MustCompile(`(?i)` + label)
	}

	for _, loc := range re.FindAllStringIndex(text, -1) {
		// Same line as the label, after it.
		lineEnd := strings.IndexByte(text[loc[1]:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text) - loc[1]
		}
		if m := amountRe.FindString(text[loc[1] : loc[1]+lineEnd]); m != "" {
			return &m
		}

		// Bounded window past the label, crossing line breaks.
		end := loc[0] + labelledAmountWindow
		if end > len(text) {
			end = len(text)
		}
		if m := amountRe.FindString(text[loc[0]:end]); m != "" {
			return &m
		}
	}
	return nil
}

// extractGrandTotal looks for an explicit GRAND TOTAL figure; failing that it
// returns the lexical token of the numerically largest amount in the
// document, on the grounds that the biggest number in a financial statement
// is probably the total. This is a heuristic fallback with no confidence
// bound.
func extractGrandTotal(text string) *string {
	if m := grandTotalRe.FindStringSubmatch(text); m != nil {
		return &m[1]
	}

	var bestToken string
	bestValue := -1.0
	for _, tok := range hugeAmountRe.FindAllString(text, -1) {
		v, ok := parseAmount(tok)
		if !ok {
			continue
		}
		if v > bestValue {
			bestValue = v
			bestToken = tok
		}
	}
	if bestToken == "" {
		return nil
	}
	return &bestToken
}

func extractBalance(text string, re *regexp.Regexp) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &m[1]
}
