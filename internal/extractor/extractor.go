// Package extractor classifies Indian government financial documents and
// pulls named fields out of their normalized display text.
//
// It is a pipeline of small, independently testable pure functions over an
// immutable text view. Each field extractor returns nil on a miss rather than
// an error; the assembled DocumentMetadata record never fails to produce,
// at worst every field is nil.
package extractor

import "strings"

// Extract runs every field extractor over the display text and assembles the
// metadata record.
func Extract(text string) *DocumentMetadata {
	if text == "" {
		return &DocumentMetadata{DocumentType: defaultDocumentType}
	}

	lines := splitLines(text)

	return &DocumentMetadata{
		DocumentType:  Classify(text),
		FormNumber:    extractFormNumber(text),
		Division:      extractDivision(text),
		DDOCode:       extractDDOCode(text),
		AccountNumber: extractAccountNumber(text),
		MonthYear:     extractMonthYear(text),

		GrandTotal:       extractGrandTotal(text),
		OpeningBalance:   extractBalance(text, openingBalanceRe),
		ClosingBalance:   extractBalance(text, closingBalanceRe),
		TotalReceipts:    extractLabelledAmount(text, totalReceiptsLabel),
		TotalExpenditure: extractLabelledAmount(text, totalExpenditureLabel),

		PWRemittancesCheque: extractLabelledAmount(text, pwChequeLabel),
		PWRemittancesCash:   extractLabelledAmount(text, pwCashLabel),
		IncomeTaxAmount:     extractLabelledAmount(text, incomeTaxLabel),
		GSTAmount:           extractLabelledAmount(text, gstLabel),
		CivilDeposit:        extractLabelledAmount(text, civilDepositLabel),

		HeadOfAccountCodes:  extractHeadCodes(text),
		ScheduleParticulars: extractScheduleParticulars(lines),
		WorkExpenditure:     extractWorkExpenditure(lines),
		DatesFound:          extractDates(text),
		GSTRegistrationNo:   extractGSTNumber(text),
		OfficersMentioned:   extractOfficers(lines),

		Validation: runValidation(text),
	}
}

// splitLines returns the non-empty trimmed lines of the text.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
