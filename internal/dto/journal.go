package dto

import (
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one candidate journal line.
type LineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit      decimal.Decimal `json:"credit" binding:"gte=0"`
	Memo        string          `json:"memo" binding:"max=255"`
}

// PostEntryRequest defines the data needed to post (or save as draft) a journal entry.
// The minimum line count is enforced by the posting engine so that callers receive
// the specific ledger error instead of a generic binding failure.
type PostEntryRequest struct {
	PostingDate string        `json:"postingDate" binding:"required,datetime=2006-01-02"`
	Remarks     string        `json:"remarks" binding:"max=1000"`
	Lines       []LineRequest `json:"lines" binding:"dive"`
}

// ReverseEntryRequest defines the data needed to reverse a posted entry.
type ReverseEntryRequest struct {
	ReversalDate string `json:"reversalDate" binding:"required,datetime=2006-01-02"`
	Remarks      string `json:"remarks" binding:"max=1000"`
}

// ListJournalsParams holds parameters for listing entries.
type ListJournalsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineNo      int             `json:"lineNo"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	EntryID          string               `json:"entryID"`
	DocType          domain.DocumentType  `json:"docType"`
	DocNumber        string               `json:"docNumber"`
	PostingDate      string               `json:"postingDate"`
	Remarks          string               `json:"remarks"`
	Author           string               `json:"author"`
	Approver         *string              `json:"approver,omitempty"`
	Status           domain.JournalStatus `json:"status"`
	OriginalEntryID  *string              `json:"originalEntryID,omitempty"`
	ReversingEntryID *string              `json:"reversingEntryID,omitempty"`
	TotalDebit       decimal.Decimal      `json:"totalDebit"`
	TotalCredit      decimal.Decimal      `json:"totalCredit"`
	Lines            []LineResponse       `json:"lines,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// ListJournalsResponse wraps a page of entries.
type ListJournalsResponse struct {
	Entries   []JournalResponse `json:"entries"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToPostingRequest converts the wire request into the posting engine's input.
func (r PostEntryRequest) ToPostingRequest(author string) (domain.PostingRequest, error) {
	date, err := ParseDate(r.PostingDate)
	if err != nil {
		return domain.PostingRequest{}, err
	}
	lines := make([]domain.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.LineInput{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
		}
	}
	return domain.PostingRequest{
		DocType:     domain.DocJournal,
		PostingDate: date,
		Lines:       lines,
		Author:      author,
		Remarks:     r.Remarks,
	}, nil
}

// ToJournalResponse converts a domain.JournalEntry to a JournalResponse DTO.
func ToJournalResponse(e *domain.JournalEntry) JournalResponse {
	resp := JournalResponse{
		EntryID:          e.EntryID,
		DocType:          e.DocType,
		DocNumber:        e.DocNumber,
		PostingDate:      FormatDate(e.PostingDate),
		Remarks:          e.Remarks,
		Author:           e.Author,
		Approver:         e.Approver,
		Status:           e.Status,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		TotalDebit:       e.TotalDebit(),
		TotalCredit:      e.TotalCredit(),
		CreatedAt:        e.CreatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = LineResponse{
				LineNo:      l.LineNo,
				AccountCode: l.AccountCode,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Memo:        l.Memo,
			}
		}
	}
	return resp
}
