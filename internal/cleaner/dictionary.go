package cleaner

// dictionary is the vocabulary used for spell correction. It mixes common
// English function words with the recurring vocabulary of Indian government
// financial documents (PWD monthly accounts, schedules, bills), since those
// are the words OCR most often mangles and search most depends on.
var dictionary = []string{
	// Common English.
	"the", "a", "an", "and", "of", "to", "in", "for", "is", "on", "with",
	"by", "at", "from", "as", "this", "that", "these", "those", "it", "its",
	"be", "been", "was", "were", "are", "not", "no", "all", "any", "each",
	"other", "more", "most", "than", "then", "when", "where", "which", "who",
	"will", "shall", "may", "can", "must", "should", "would", "also", "only",
	"such", "same", "between", "during", "before", "after", "into", "over",
	"out", "up", "down", "about", "through", "under", "above", "below", "per",
	"end", "last", "next", "first", "second", "third", "new", "old", "said",

	// Financial and accounting vocabulary.
	"total", "grand", "amount", "amounts", "balance", "balances", "opening",
	"closing", "account", "accounts", "payment", "payments", "receipt",
	"receipts", "expenditure", "expenditures", "bill", "bills", "cash",
	"cheque", "cheques", "remittance", "remittances", "deposit", "deposits",
	"income", "tax", "taxes", "registration", "number", "numbers", "code",
	"codes", "form", "forms", "revenue", "abstract", "classified", "invoice",
	"invoices", "date", "dated", "dates", "paid", "due", "sanctioned",
	"salary", "wages", "contractor", "contractors", "supplier", "advance",
	"refund", "refunds", "interest", "budget", "allotment", "voucher",
	"vouchers", "treasury", "audit", "report", "reports", "statement",
	"statements", "summary", "details", "particulars", "previous", "current",
	"upto", "against", "pertaining", "deduct", "close", "open", "rupees",
	"lakh", "lakhs", "crore", "crores", "thousand", "hundred", "value",
	"figure", "figures", "column", "row", "entry", "entries",

	// Government document vocabulary.
	"government", "public", "works", "work", "department", "division",
	"divisions", "engineer", "engineers", "executive", "officer", "officers",
	"schedule", "schedules", "month", "monthly", "year", "yearly", "head",
	"heads", "office", "state", "central", "district", "chief",
	"superintending", "divisional", "assistant", "deputy", "accountant",
	"general", "drawing", "disbursing", "submitted", "signature", "signed",
	"certified", "verified", "section", "subsection", "major", "minor",

	// Month names appear constantly in monthly accounts.
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
}
