package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/core/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	txManager   *fakeTxManager
	periodRepo  *MockPeriodRepository
	journalRepo *MockJournalRepository
	service     portssvc.PeriodSvcFacade
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.txManager = &fakeTxManager{}
	suite.periodRepo = new(MockPeriodRepository)
	suite.journalRepo = new(MockJournalRepository)
	suite.service = services.NewPeriodService(suite.txManager, suite.periodRepo, suite.journalRepo,
		services.WithPeriodRetryPolicy(services.RetryPolicy{}))
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_Success() {
	req := dto.CreatePeriodRequest{Name: "Jan 2025", StartDate: "2025-01-01", EndDate: "2025-01-31"}
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindOverlappingPeriods", mock.Anything, mock.Anything, testTenantID, sameDay("2025-01-01"), sameDay("2025-01-31"), "").
		Return([]domain.AccountingPeriod{}, nil)
	suite.periodRepo.On("SavePeriod", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.AccountingPeriod) bool {
		return p.Name == "Jan 2025" && p.Status == domain.PeriodOpen && p.TenantID == testTenantID
	})).Return(nil)

	period, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.periodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_InvalidRange() {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "2025-02-01", "2025-01-01"},
		{"zero length", "2025-01-01", "2025-01-01"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := dto.CreatePeriodRequest{Name: "Bad", StartDate: tt.start, EndDate: tt.end}
			_, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")
			suite.ErrorIs(err, apperrors.ErrInvalidRange)
		})
	}
	suite.Equal(0, suite.txManager.calls)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_OverlapRejected() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	req := dto.CreatePeriodRequest{Name: "Jan 2025b", StartDate: "2025-01-15", EndDate: "2025-02-15"}
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindOverlappingPeriods", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything, "").
		Return([]domain.AccountingPeriod{jan}, nil)

	_, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrOverlappingPeriod)
	suite.Contains(err.Error(), "Jan 2025")
	suite.periodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_TouchingBoundaryOverlaps() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	req := dto.CreatePeriodRequest{Name: "Feb 2025", StartDate: "2025-01-31", EndDate: "2025-02-28"}
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindOverlappingPeriods", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything, "").
		Return([]domain.AccountingPeriod{jan}, nil)

	_, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrOverlappingPeriod)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_IgnoresDisjointCandidates() {
	dec2024 := openPeriod("period-dec", "Dec 2024", "2024-12-01", "2024-12-31")
	req := dto.CreatePeriodRequest{Name: "Jan 2025", StartDate: "2025-01-01", EndDate: "2025-01-31"}
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindOverlappingPeriods", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything, "").
		Return([]domain.AccountingPeriod{dec2024}, nil)
	suite.periodRepo.On("SavePeriod", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")

	suite.Require().NoError(err)
	suite.periodRepo.AssertCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestResolveActivePeriod_IgnoresNonContainingCandidates() {
	feb := openPeriod("period-feb", "Feb 2025", "2025-02-01", "2025-02-28")
	suite.periodRepo.On("FindPeriodsContaining", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Return([]domain.AccountingPeriod{feb}, nil)

	_, err := suite.service.ResolveActivePeriod(context.Background(), testTenantID, date("2025-01-31"))

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_BadDate() {
	req := dto.CreatePeriodRequest{Name: "Jan", StartDate: "01/01/2025", EndDate: "2025-01-31"}

	_, err := suite.service.CreatePeriod(context.Background(), testTenantID, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PeriodServiceTestSuite) TestResolveActivePeriod() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	suite.periodRepo.On("FindPeriodsContaining", mock.Anything, mock.Anything, testTenantID, sameDay("2025-01-31")).
		Return([]domain.AccountingPeriod{jan}, nil)
	suite.periodRepo.On("FindPeriodsContaining", mock.Anything, mock.Anything, testTenantID, sameDay("2025-02-01")).
		Return([]domain.AccountingPeriod{}, nil)

	found, err := suite.service.ResolveActivePeriod(context.Background(), testTenantID, date("2025-01-31"))
	suite.Require().NoError(err)
	suite.Equal("period-jan", found.PeriodID)

	_, err = suite.service.ResolveActivePeriod(context.Background(), testTenantID, date("2025-02-01"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestResolveActivePeriod_ClosedIsNotActive() {
	closed := closedPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	suite.periodRepo.On("FindPeriodsContaining", mock.Anything, mock.Anything, testTenantID, mock.Anything).
		Return([]domain.AccountingPeriod{closed}, nil)

	_, err := suite.service.ResolveActivePeriod(context.Background(), testTenantID, date("2025-01-10"))

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestDeletePeriod_HasEntries() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&jan, nil)
	suite.journalRepo.On("CountEntriesInRange", mock.Anything, mock.Anything, testTenantID, jan.StartDate, jan.EndDate).Return(int64(4), nil)

	err := suite.service.DeletePeriod(context.Background(), testTenantID, "period-jan", "user-1")

	suite.ErrorIs(err, apperrors.ErrPeriodHasEntries)
	suite.periodRepo.AssertNotCalled(suite.T(), "DeletePeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestDeletePeriod_Empty() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&jan, nil)
	suite.journalRepo.On("CountEntriesInRange", mock.Anything, mock.Anything, testTenantID, jan.StartDate, jan.EndDate).Return(int64(0), nil)
	suite.periodRepo.On("DeletePeriod", mock.Anything, mock.Anything, "period-jan").Return(nil)

	err := suite.service.DeletePeriod(context.Background(), testTenantID, "period-jan", "user-1")

	suite.NoError(err)
	suite.periodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestDeletePeriod_ClosedRejected() {
	closed := closedPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&closed, nil)

	err := suite.service.DeletePeriod(context.Background(), testTenantID, "period-jan", "user-1")

	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

func (suite *PeriodServiceTestSuite) TestUpdatePeriod_ShrinkingStrandsEntries() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	end := "2025-01-20"
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&jan, nil)
	suite.periodRepo.On("FindOverlappingPeriods", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything, "period-jan").
		Return([]domain.AccountingPeriod{}, nil)
	suite.journalRepo.On("CountEntriesInRange", mock.Anything, mock.Anything, testTenantID, sameDay("2025-01-01"), sameDay("2025-01-31")).Return(int64(5), nil)
	suite.journalRepo.On("CountEntriesInRange", mock.Anything, mock.Anything, testTenantID, sameDay("2025-01-01"), sameDay("2025-01-20")).Return(int64(3), nil)

	_, err := suite.service.UpdatePeriod(context.Background(), testTenantID, "period-jan", dto.UpdatePeriodRequest{EndDate: &end}, "user-1")

	suite.ErrorIs(err, apperrors.ErrPeriodHasEntries)
	suite.Contains(err.Error(), "2 entries")
	suite.periodRepo.AssertNotCalled(suite.T(), "UpdatePeriod", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUpdatePeriod_RenameOnly() {
	jan := openPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	name := "January 2025"
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&jan, nil)
	suite.periodRepo.On("UpdatePeriod", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.AccountingPeriod) bool {
		return p.Name == "January 2025" && p.LastUpdatedBy == "user-1"
	})).Return(nil)

	updated, err := suite.service.UpdatePeriod(context.Background(), testTenantID, "period-jan", dto.UpdatePeriodRequest{Name: &name}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("January 2025", updated.Name)
	suite.periodRepo.AssertNotCalled(suite.T(), "FindOverlappingPeriods", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUpdatePeriod_ClosedRejected() {
	closed := closedPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
	name := "x"
	suite.periodRepo.On("LockPeriodRegistry", mock.Anything, mock.Anything, testTenantID).Return(nil)
	suite.periodRepo.On("FindPeriodByIDForUpdate", mock.Anything, mock.Anything, testTenantID, "period-jan").Return(&closed, nil)

	_, err := suite.service.UpdatePeriod(context.Background(), testTenantID, "period-jan", dto.UpdatePeriodRequest{Name: &name}, "user-1")

	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}
