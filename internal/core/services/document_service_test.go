package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/core/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	txManager    *fakeTxManager
	poster       *MockEntryPoster
	documentRepo *MockDocumentRepository
	service      portssvc.DocumentPosterSvc
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.txManager = &fakeTxManager{}
	suite.poster = new(MockEntryPoster)
	suite.documentRepo = new(MockDocumentRepository)
	suite.service = services.NewDocumentService(suite.txManager, suite.poster, suite.documentRepo)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (suite *DocumentServiceTestSuite) invoiceRequest() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		Counterparty:       "Harbour Catering Ltd",
		InvoiceDate:        "2025-01-10",
		ControlAccountCode: "1100",
		TaxAccountCode:     "2300",
		TaxAmount:          dec("20"),
		Lines: []dto.InvoiceLineRequest{
			{AccountCode: "4000", Amount: dec("70")},
			{AccountCode: "4100", Amount: dec("30")},
		},
	}
}

func (suite *DocumentServiceTestSuite) TestPostARInvoice_DebitsReceivable() {
	var posted domain.PostingRequest
	suite.poster.On("PostEntryTx", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Run(func(args mock.Arguments) { posted = args.Get(3).(domain.PostingRequest) }).
		Return(&domain.JournalEntry{EntryID: "entry-inv", DocNumber: "ARINV-1"}, nil)
	suite.documentRepo.On("SaveDocument", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.LedgerDocument) bool {
		return d.DocType == domain.DocARInvoice && d.EntryID == "entry-inv" && d.Total.Equal(dec("120")) && d.ControlAccount == "1100"
	})).Return(nil)

	doc, entry, err := suite.service.PostARInvoice(context.Background(), testTenantID, suite.invoiceRequest(), "user-1")

	suite.Require().NoError(err)
	suite.Equal("ARINV-1", entry.DocNumber)
	suite.True(doc.Outstanding().Equal(dec("120")))

	suite.Equal(domain.DocARInvoice, posted.DocType)
	suite.Require().Len(posted.Lines, 4)
	suite.Equal("1100", posted.Lines[0].AccountCode)
	suite.True(posted.Lines[0].Debit.Equal(dec("120")))
	suite.True(posted.Lines[1].Credit.Equal(dec("70")))
	suite.True(posted.Lines[3].Credit.Equal(dec("20")))
	suite.documentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestPostAPInvoice_CreditsPayable() {
	req := suite.invoiceRequest()
	req.ControlAccountCode = "2000"
	req.TaxAmount = dec("0")
	var posted domain.PostingRequest
	suite.poster.On("PostEntryTx", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Run(func(args mock.Arguments) { posted = args.Get(3).(domain.PostingRequest) }).
		Return(&domain.JournalEntry{EntryID: "entry-ap", DocNumber: "APINV-1"}, nil)
	suite.documentRepo.On("SaveDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, _, err := suite.service.PostAPInvoice(context.Background(), testTenantID, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(posted.Lines, 3)
	suite.True(posted.Lines[0].Credit.Equal(dec("100")))
	suite.True(posted.Lines[1].Debit.Equal(dec("70")))
}

func (suite *DocumentServiceTestSuite) TestPostInvoice_TaxWithoutAccount() {
	req := suite.invoiceRequest()
	req.TaxAccountCode = ""

	_, _, err := suite.service.PostARInvoice(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(0, suite.txManager.calls)
}

func (suite *DocumentServiceTestSuite) TestPostInvoice_PostingFailureSavesNothing() {
	suite.poster.On("PostEntryTx", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Return(nil, apperrors.ErrPeriodClosedOrMissing)

	_, _, err := suite.service.PostARInvoice(context.Background(), testTenantID, suite.invoiceRequest(), "user-1")

	suite.ErrorIs(err, apperrors.ErrPeriodClosedOrMissing)
	suite.documentRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) arInvoice(paid string) *domain.LedgerDocument {
	return &domain.LedgerDocument{
		DocumentID:     "inv-1",
		TenantID:       testTenantID,
		DocType:        domain.DocARInvoice,
		EntryID:        "entry-inv",
		Counterparty:   "Harbour Catering Ltd",
		ControlAccount: "1100",
		Total:          dec("120"),
		PaidAmount:     dec(paid),
		EntryStatus:    domain.Posted,
	}
}

func (suite *DocumentServiceTestSuite) TestPostIncomingPayment_SettlesInvoice() {
	req := dto.PaymentRequest{InvoiceID: "inv-1", PaymentDate: "2025-01-25", CashAccountCode: "1000", Amount: dec("100")}
	var posted domain.PostingRequest
	suite.documentRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "inv-1").Return(suite.arInvoice("20"), nil)
	suite.poster.On("PostEntryTx", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Run(func(args mock.Arguments) { posted = args.Get(3).(domain.PostingRequest) }).
		Return(&domain.JournalEntry{EntryID: "entry-pay", DocNumber: "PAYIN-1"}, nil)
	suite.documentRepo.On("SaveDocument", mock.Anything, mock.Anything, mock.MatchedBy(func(d domain.LedgerDocument) bool {
		return d.AppliesToDocID != nil && *d.AppliesToDocID == "inv-1" && d.DocType == domain.DocIncomingPayment
	})).Return(nil)
	suite.documentRepo.On("AddPaidAmount", mock.Anything, mock.Anything, "inv-1", mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(dec("100"))
	}), "user-1", mock.Anything).Return(nil)

	_, entry, err := suite.service.PostIncomingPayment(context.Background(), testTenantID, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("PAYIN-1", entry.DocNumber)
	suite.Equal(domain.DocIncomingPayment, posted.DocType)
	suite.Equal("1000", posted.Lines[0].AccountCode)
	suite.True(posted.Lines[0].Debit.Equal(dec("100")))
	suite.Equal("1100", posted.Lines[1].AccountCode)
	suite.True(posted.Lines[1].Credit.Equal(dec("100")))
	suite.documentRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestPostIncomingPayment_Overpayment() {
	req := dto.PaymentRequest{InvoiceID: "inv-1", PaymentDate: "2025-01-25", CashAccountCode: "1000", Amount: dec("100.01")}
	suite.documentRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "inv-1").Return(suite.arInvoice("20"), nil)

	_, _, err := suite.service.PostIncomingPayment(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.poster.AssertNotCalled(suite.T(), "PostEntryTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestPostOutgoingPayment_RequiresAPInvoice() {
	req := dto.PaymentRequest{InvoiceID: "inv-1", PaymentDate: "2025-01-25", CashAccountCode: "1000", Amount: dec("10")}
	suite.documentRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "inv-1").Return(suite.arInvoice("0"), nil)

	_, _, err := suite.service.PostOutgoingPayment(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestPostIncomingPayment_RejectsReversedInvoice() {
	req := dto.PaymentRequest{InvoiceID: "inv-1", PaymentDate: "2025-01-25", CashAccountCode: "1000", Amount: dec("10")}
	invoice := suite.arInvoice("0")
	invoice.EntryStatus = domain.Reversed
	suite.documentRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "inv-1").Return(invoice, nil)

	_, _, err := suite.service.PostIncomingPayment(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrEntryNotPosted)
	suite.poster.AssertNotCalled(suite.T(), "PostEntryTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.documentRepo.AssertNotCalled(suite.T(), "AddPaidAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
