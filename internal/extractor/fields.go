package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// Extraction caps. Noisy OCR over tabular pages can produce near-unbounded
// matches; the caps keep a single garbled document from ballooning its
// metadata record.
const (
	maxHeadCodes       = 20
	maxWorkExpenditure = 30
	maxOfficers        = 5
	maxRoundNumbers    = 5
)

var (
	divisionREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)OFFICE OF THE EXECUTIVE ENGINEER[,\s]+(.*?DIVISION[,\s]+BHOPAL)`),
		regexp.MustCompile(`(?i)((?:P\.?W\.?D\.?|PWD).*?DIVISION[,\s]+BHOPAL)`),
		regexp.MustCompile(`(?i)DIVISION\s*[:\-]?\s*(.*?BHOPAL)`),
	}

	ddoCodeRe = regexp.MustCompile(`(?i)DDO\s*CODE\s*(?:NO\.?)?\s*[:\-]?\s*(\d{8,12})`)

	accountNumberRe         = regexp.MustCompile(`(?i)A/?C\s*(?:NO\.?)?\s*(?:PW/?)?\s*(\d{3,6})`)
	accountNumberFallbackRe = regexp.MustCompile(`(?i)PW[-/]?(\d{3,6})`)

	monthYearRe = regexp.MustCompile(`(?i)(?:MONTH[:\s]+|FOR THE MONTH OF\s+)` +
		`(JANUARY|FEBRUARY|MARCH|APRIL|MAY|JUNE|JULY|AUGUST|SEPTEMBER|OCTOBER|NOVEMBER|DECEMBER)` +
		`[\s,]+(\d{4})`)
	monthYearFallbackRe = regexp.MustCompile(`(?i)(MARCH|APRIL|MAY|JUNE)\s+(\d{4})`)

	// Long hierarchical head-of-account codes (24-5054-03-337-...) and short
	// 4-digit major heads (8443, 8658, ...), matched independently.
	longHeadCodeRe  = regexp.MustCompile(`\b(?:24|67|80|00)[-/]\d{4}[-/][0-9A-Za-z][-/]\d{3}[-/][0-9A-Za-z/-]{4,}`)
	shortHeadCodeRe = regexp.MustCompile(`\b(8[0-9]{3}|4[0-9]{3}|2[0-9]{3})\b`)

	workExpenditureCodeRe = regexp.MustCompile(`\d{2,3}[-/]\d{4}[-/][0-9A-Za-z][-/]\d{3}[-/][0-9A-Za-z/-]{4,}`)

	dayFirstDateRe  = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	yearFirstDateRe = regexp.MustCompile(`\b\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2}\b`)

	// GSTIN: state code, PAN, entity code, Z, check character.
	gstinRe = regexp.MustCompile(`\b\d{2}[A-Z]{5}\d{4}[A-Z]\d{1}Z[A-Z\d]\b`)

	officerDesignationREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)executive engineer`),
		regexp.MustCompile(`(?i)divisional accounts officer`),
		regexp.MustCompile(`(?i)sr\.?\s*divisional`),
		regexp.MustCompile(`(?i)superintending engineer`),
		regexp.MustCompile(`(?i)chief engineer`),
		regexp.MustCompile(`(?i)accountant general`),
		regexp.MustCompile(`(?i)deputy accountant`),
		regexp.MustCompile(`(?i)assistant engineer`),
	}
)

func extractDivision(text string) *string {
	for _, re := range divisionREs {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

func extractDDOCode(text string) *string {
	m := ddoCodeRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &m[1]
}

func extractAccountNumber(text string) *string {
	if m := accountNumberRe.FindStringSubmatch(text); m != nil {
		v := "PW/" + m[1]
		return &v
	}
	if m := accountNumberFallbackRe.FindStringSubmatch(text); m != nil {
		v := "PW/" + m[1]
		return &v
	}
	return nil
}

func extractMonthYear(text string) *string {
	if m := monthYearRe.FindStringSubmatch(text); m != nil {
		v := titleCase(m[1]) + " " + m[2]
		return &v
	}
	if m := monthYearFallbackRe.FindStringSubmatch(text); m != nil {
		v := titleCase(m[1]) + " " + m[2]
		return &v
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// extractHeadCodes concatenates long-code and major-head matches,
// deduplicates preserving first-seen order, and caps the result.
func extractHeadCodes(text string) []string {
	var codes []string
	codes = append(codes, longHeadCodeRe.FindAllString(text, -1)...)
	codes = append(codes, shortHeadCodeRe.FindAllString(text, -1)...)

	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == maxHeadCodes {
			break
		}
	}
	return out
}

// scheduleLabels maps lowercase line markers to canonical row labels.
var scheduleLabels = []struct {
	key   string
	label string
}{
	{"amount b.f.", "Amount B/F Last Month"},
	{"pertaining to this", "Pertaining to This Month"},
	{"total end", "Total End of Month"},
	{"deduct refund", "Deduct Refunds"},
	{"upto date", "Upto Date C.O."},
}

func extractScheduleParticulars(lines []string) []ScheduleItem {
	var items []ScheduleItem
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, sl := range scheduleLabels {
			if !strings.Contains(lower, sl.key) {
				continue
			}
			item := ScheduleItem{Label: sl.label, RawLine: line}
			if m := smallAmountRe.FindString(line); m != "" {
				item.Amount = &m
			}
			items = append(items, item)
			break
		}
	}
	return items
}

// extractWorkExpenditure collects table rows where a head code is followed by
// up to three amount columns: this month, previous month, year to date.
func extractWorkExpenditure(lines []string) []WorkExpenditureEntry {
	var entries []WorkExpenditureEntry
	for _, line := range lines {
		code := workExpenditureCodeRe.FindString(line)
		if code == "" {
			continue
		}
		rest := line[strings.Index(line, code)+len(code):]
		amounts := smallAmountRe.FindAllString(rest, 3)
		if len(amounts) == 0 {
			continue
		}

		e := WorkExpenditureEntry{HeadCode: code}
		e.ExpenditureThisMonth = &amounts[0]
		if len(amounts) > 1 {
			e.ExpenditurePrevMonth = &amounts[1]
		}
		if len(amounts) > 2 {
			e.ExpenditureYear = &amounts[2]
		}
		entries = append(entries, e)
		if len(entries) == maxWorkExpenditure {
			break
		}
	}
	return entries
}

// extractDates returns every date-shaped token, deduplicated and sorted.
func extractDates(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{dayFirstDateRe, yearFirstDateRe} {
		for _, m := range re.FindAllString(text, -1) {
			seen[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func extractGSTNumber(text string) *string {
	m := gstinRe.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}

// extractOfficers returns lines mentioning an officer designation,
// deduplicated, capped.
func extractOfficers(lines []string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, line := range lines {
		for _, re := range officerDesignationREs {
			if !re.MatchString(line) {
				continue
			}
			if _, dup := seen[line]; !dup {
				seen[line] = struct{}{}
				found = append(found, line)
			}
			break
		}
		if len(found) == maxOfficers {
			break
		}
	}
	return found
}
