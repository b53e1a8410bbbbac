package extractor

import "regexp"

const defaultDocumentType = "Government Financial Document"

// signature pairs a detection pattern with the document type label it
// assigns. Signatures are tested in declaration order and the first match
// wins: some patterns are substrings of others' context (e.g. "schedule"
// appears in several form types), so priority is positional, not by
// specificity.
type signature struct {
	re    *regexp.Regexp
	label string
}

var signatures = []signature{
	{regexp.MustCompile(`(?i)FORM[- ]?80|MONTHLY ACCOUNT`), "Monthly Account (Form-80)"},
	{regexp.MustCompile(`(?i)FORM[- ]?46|SCHEDULE OF REVENUE|SCHEDULE OF.*FOR THE MONTH`), "Schedule of Revenue/Receipts (Form-46)"},
	{regexp.MustCompile(`(?i)FORM[- ]?74|CLASSIFIED ABSTRACT`), "Classified Abstract of Expenditure (Form-74)"},
	{regexp.MustCompile(`(?i)FORM[- ]?64|SCHEDULE OF WORK`), "Schedule of Work Expenditure (Form-64)"},
	{regexp.MustCompile(`(?i)CASH BALANCE`), "Cash Balance Report (Form-5)"},
	{regexp.MustCompile(`(?i)LIST OF ACCOUNTS|CODE NO\.?\s*516`), "List of Accounts Submitted"},
}

// Classify returns the document type label for the text, falling back to a
// generic label when no signature matches.
func Classify(text string) string {
	for _, sig := range signatures {
		if sig.re.MatchString(text) {
			return sig.label
		}
	}
	return defaultDocumentType
}

var formNumberRe = regexp.MustCompile(`(?i)FORM[- ]?(\d{1,3})`)

func extractFormNumber(text string) *string {
	m := formNumberRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := "Form-" + m[1]
	return &v
}
