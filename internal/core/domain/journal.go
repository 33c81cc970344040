package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// IsFinal reports whether the entry has been posted (reversed entries stay posted).
func (s JournalStatus) IsFinal() bool {
	return s == Posted || s == Reversed
}

// JournalEntry is a balanced set of debit/credit lines posted on a given date.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`
	TenantID         string        `json:"tenantID"`
	DocType          DocumentType  `json:"docType"`
	DocNumber        string        `json:"docNumber"`
	PostingDate      time.Time     `json:"postingDate"`
	Remarks          string        `json:"remarks"`
	Author           string        `json:"author"`
	Approver         *string       `json:"approver,omitempty"`
	Status           JournalStatus `json:"status"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on a reversal, points at the reversed entry
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on a reversed entry, points at its reversal
	Lines            []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit sums the debit side of all lines.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// JournalLine is one debit or credit against a single account. Exactly one side is
// expected to be non-zero by convention; the schema only requires both to be >= 0.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo,omitempty"`
}

// LineInput is a candidate journal line referencing an account by its code.
type LineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Memo        string
}

// PostingRequest is the candidate entry handed to the posting engine.
type PostingRequest struct {
	DocType     DocumentType // Defaults to DocJournal
	PostingDate time.Time
	Lines       []LineInput
	Author      string
	Approver    *string
	Remarks     string

	OriginalEntryID *string // Set when the entry reverses another one
}

// DocumentSeries is a per-tenant, per-document-type monotonic counter.
type DocumentSeries struct {
	TenantID   string       `json:"tenantID"`
	DocType    DocumentType `json:"docType"`
	Prefix     string       `json:"prefix"`
	NextNumber int64        `json:"nextNumber"`
}
