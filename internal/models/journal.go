package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	EntryID          string         `db:"entry_id"`
	TenantID         string         `db:"tenant_id"`
	DocType          string         `db:"doc_type"`
	DocNumber        string         `db:"doc_number"`
	PostingDate      time.Time      `db:"posting_date"`
	Remarks          string         `db:"remarks"`
	Author           string         `db:"author"`
	Approver         sql.NullString `db:"approver"`
	Status           string         `db:"status"`
	OriginalEntryID  sql.NullString `db:"original_entry_id"`
	ReversingEntryID sql.NullString `db:"reversing_entry_id"`
	AuditFields
}

// JournalLine is a row of journal_entry_lines joined with the account code.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Memo        string          `db:"memo"`
}
