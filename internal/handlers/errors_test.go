package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.ErrUnbalancedEntry, http.StatusBadRequest},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"unknown account is not found", apperrors.ErrUnknownAccount, http.StatusNotFound},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"state conflict", apperrors.ErrPeriodClosed, http.StatusConflict},
		{"tx conflict", fmt.Errorf("%w: %w", apperrors.ErrTxConflict, errors.New("40001")), http.StatusServiceUnavailable},
		{"integrity", apperrors.ErrLedgerIntegrity, http.StatusInternalServerError},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"app error", apperrors.NewAppError(http.StatusTeapot, "teapot", nil), http.StatusTeapot},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
