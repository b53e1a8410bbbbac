package extractor

// DocumentMetadata is the structured-field record extracted from one
// document. Every scalar field is optional: nil means the extractor found no
// match, and the absence of one field never blocks extraction of the others.
type DocumentMetadata struct {
	// Document identity.
	DocumentType string  `json:"document_type"`
	FormNumber   *string `json:"form_number"`

	// Header fields.
	Division      *string `json:"division"`
	DDOCode       *string `json:"ddo_code"`
	AccountNumber *string `json:"account_number"`
	MonthYear     *string `json:"month_year"`

	// Financial figures. Amounts are kept as the lexical tokens found in the
	// text (commas included) so the original formatting is preserved for
	// display; parse on demand.
	GrandTotal       *string `json:"grand_total"`
	OpeningBalance   *string `json:"opening_balance"`
	ClosingBalance   *string `json:"closing_balance"`
	TotalReceipts    *string `json:"total_receipts"`
	TotalExpenditure *string `json:"total_expenditure"`

	// Remittance and deposit heads.
	PWRemittancesCheque *string `json:"pw_remittances_cheque"`
	PWRemittancesCash   *string `json:"pw_remittances_cash"`
	IncomeTaxAmount     *string `json:"income_tax_amount"`
	GSTAmount           *string `json:"gst_amount"`
	CivilDeposit        *string `json:"civil_deposit"`

	HeadOfAccountCodes  []string               `json:"head_of_account_codes"`
	ScheduleParticulars []ScheduleItem         `json:"schedule_particulars"`
	WorkExpenditure     []WorkExpenditureEntry `json:"work_expenditure_entries"`
	DatesFound          []string               `json:"dates_found"`
	GSTRegistrationNo   *string                `json:"gst_registration_no"`
	OfficersMentioned   []string               `json:"officers_mentioned"`

	Validation ValidationFlags `json:"validation"`
}

// ScheduleItem is one labelled row from a schedule table (Amount B/F,
// Pertaining to This Month, ...).
type ScheduleItem struct {
	Label   string  `json:"label"`
	Amount  *string `json:"amount"`
	RawLine string  `json:"raw_line"`
}

// WorkExpenditureEntry is one row of a work expenditure table: a head of
// account code followed by up to three amount columns.
type WorkExpenditureEntry struct {
	HeadCode             string  `json:"head_code"`
	ExpenditureThisMonth *string `json:"expenditure_this_month"`
	ExpenditurePrevMonth *string `json:"expenditure_prev_month"`
	ExpenditureYear      *string `json:"expenditure_year"`
}

// ValidationFlags carries the cross-field consistency checks run during
// extraction. BalanceMatches is nil when either balance is absent.
type ValidationFlags struct {
	HasGrandTotal       bool     `json:"has_grand_total"`
	BalanceMatches      *bool    `json:"balance_matches,omitempty"`
	OpeningBalanceValue *string  `json:"opening_balance_value,omitempty"`
	ClosingBalanceValue *string  `json:"closing_balance_value,omitempty"`
	HasDDOCode          bool     `json:"has_ddo_code"`
	HasOfficerSignature bool     `json:"has_officer_signature"`
	RoundNumberAmounts  []string `json:"round_number_amounts,omitempty"`
}

// Clone returns a deep copy. Chunks each carry their own metadata copy, so
// mutation of one chunk's record can never leak into another's.
func (m *DocumentMetadata) Clone() *DocumentMetadata {
	if m == nil {
		return nil
	}
	out := *m

	out.FormNumber = cloneStr(m.FormNumber)
	out.Division = cloneStr(m.Division)
	out.DDOCode = cloneStr(m.DDOCode)
	out.AccountNumber = cloneStr(m.AccountNumber)
	out.MonthYear = cloneStr(m.MonthYear)
	out.GrandTotal = cloneStr(m.GrandTotal)
	out.OpeningBalance = cloneStr(m.OpeningBalance)
	out.ClosingBalance = cloneStr(m.ClosingBalance)
	out.TotalReceipts = cloneStr(m.TotalReceipts)
	out.TotalExpenditure = cloneStr(m.TotalExpenditure)
	out.PWRemittancesCheque = cloneStr(m.PWRemittancesCheque)
	out.PWRemittancesCash = cloneStr(m.PWRemittancesCash)
	out.IncomeTaxAmount = cloneStr(m.IncomeTaxAmount)
	out.GSTAmount = cloneStr(m.GSTAmount)
	out.CivilDeposit = cloneStr(m.CivilDeposit)
	out.GSTRegistrationNo = cloneStr(m.GSTRegistrationNo)

	out.HeadOfAccountCodes = append([]string(nil), m.HeadOfAccountCodes...)
	out.DatesFound = append([]string(nil), m.DatesFound...)
	out.OfficersMentioned = append([]string(nil), m.OfficersMentioned...)

	if m.ScheduleParticulars != nil {
		out.ScheduleParticulars = make([]ScheduleItem, len(m.ScheduleParticulars))
		for i, item := range m.ScheduleParticulars {
			item.Amount = cloneStr(item.Amount)
			out.ScheduleParticulars[i] = item
		}
	}
	if m.WorkExpenditure != nil {
		out.WorkExpenditure = make([]WorkExpenditureEntry, len(m.WorkExpenditure))
		for i, e := range m.WorkExpenditure {
			e.ExpenditureThisMonth = cloneStr(e.ExpenditureThisMonth)
			e.ExpenditurePrevMonth = cloneStr(e.ExpenditurePrevMonth)
			e.ExpenditureYear = cloneStr(e.ExpenditureYear)
			out.WorkExpenditure[i] = e
		}
	}

	out.Validation.BalanceMatches = cloneBool(m.Validation.BalanceMatches)
	out.Validation.OpeningBalanceValue = cloneStr(m.Validation.OpeningBalanceValue)
	out.Validation.ClosingBalanceValue = cloneStr(m.Validation.ClosingBalanceValue)
	out.Validation.RoundNumberAmounts = append([]string(nil), m.Validation.RoundNumberAmounts...)

	return &out
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
