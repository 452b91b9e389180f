package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/jwt"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAutoReleaseHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockAutoReleaseRunner(ctrl)
	handler := NewRunAutoReleaseHandler(runner)

	tests := []struct {
		name           string
		summary        *services.EvaluationSummary
		err            error
		expectedStatus int
	}{
		{"pass", &services.EvaluationSummary{Evaluated: 3, Released: 1, Scheduled: 2}, nil, http.StatusOK},
		{"halted", &services.EvaluationSummary{Halted: true}, services.ErrEngineHalted, http.StatusServiceUnavailable},
		{"rules_unavailable", nil, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner.EXPECT().EvaluateAutoReleases(gomock.Any()).Return(tt.summary, tt.err)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/auto-release/run", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.summary != nil {
				var got AutoReleaseResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, *tt.summary, *got.Summary)
			}
		})
	}
}

func TestAcknowledgeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := NewMockHaltAcknowledger(ctrl)
	handler := NewAcknowledgeHandler(engine, userTokener(ctrl, "ops-1", jwt.RoleAdmin))

	t.Run("halted", func(t *testing.T) {
		engine.EXPECT().HaltReason().Return("settlement inconsistency: release b1")
		engine.EXPECT().AcknowledgeInconsistency("ops-1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/settlement/acknowledge", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got AcknowledgeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Processing resumed", got.Message)
		assert.Equal(t, "settlement inconsistency: release b1", got.Reason)
	})

	t.Run("not_halted", func(t *testing.T) {
		engine.EXPECT().HaltReason().Return("")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/settlement/acknowledge", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got AcknowledgeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Engine not halted", got.Message)
	})
}

func TestRollbackReleaseHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := NewMockReleaseRollbacker(ctrl)
	r := chi.NewRouter()
	RegisterAdminHandlers(r, nil, nil, NewRollbackReleaseHandler(engine))

	tests := []struct {
		name           string
		result         *models.SettlementResult
		err            error
		expectedStatus int
	}{
		{"rolled_back", &models.SettlementResult{BookingID: "b1", Status: models.EscrowHeld}, nil, http.StatusOK},
		{"refunded", nil, fmt.Errorf("%w: escrow of booking b1 is refunded", services.ErrInvalidState), http.StatusConflict},
		{"inconsistent", nil, services.ErrSettlementInconsistency, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine.EXPECT().RollbackRelease(gomock.Any(), "b1").Return(tt.result, tt.err)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/bookings/b1/rollback-release", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.result != nil {
				var got SettlementResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, models.EscrowHeld, got.Result.Status)
			}
		})
	}
}
