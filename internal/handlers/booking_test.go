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

func bookingRouter(ctrl *gomock.Controller) (chi.Router, *MockEscrowSettler, *MockCommissionProcessor) {
	settler := NewMockEscrowSettler(ctrl)
	commissions := NewMockCommissionProcessor(ctrl)

	r := chi.NewRouter()
	RegisterBookingHandlers(r,
		NewHoldFundsHandler(settler),
		NewReleaseFundsHandler(settler, userTokener(ctrl, "booking-service", jwt.RoleService)),
		NewRefundFundsHandler(settler),
		NewCommissionHandler(commissions),
	)
	return r, settler, commissions
}

func TestHoldFundsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, settler, _ := bookingRouter(ctrl)
	fee := int64(500)

	tests := []struct {
		name            string
		reqBody         any
		mock            func()
		expectedStatus  int
		expectedMessage string
		expectedError   string
	}{
		{
			name:    "held",
			reqBody: HoldFundsRequest{ClientID: "c1", WorkerID: "w1", Amount: 10000, PlatformFee: &fee, ProviderReference: "tp_1"},
			mock: func() {
				settler.EXPECT().HoldFunds(gomock.Any(), services.HoldRequest{
					ClientID: "c1", WorkerID: "w1", BookingID: "b1", Amount: 10000, PlatformFee: &fee, ProviderReference: "tp_1",
				}).Return(&models.SettlementResult{BookingID: "b1", Status: models.EscrowHeld}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Funds held",
		},
		{
			name:    "retry",
			reqBody: HoldFundsRequest{ClientID: "c1", WorkerID: "w1", Amount: 10000},
			mock: func() {
				settler.EXPECT().HoldFunds(gomock.Any(), gomock.Any()).
					Return(&models.SettlementResult{BookingID: "b1", Status: models.EscrowHeld, AlreadyProcessed: true}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Already processed",
		},
		{
			name:    "insufficient_funds",
			reqBody: HoldFundsRequest{ClientID: "c1", WorkerID: "w1", Amount: 10000},
			mock: func() {
				settler.EXPECT().HoldFunds(gomock.Any(), gomock.Any()).Return(nil, services.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Insufficient funds",
		},
		{
			name:    "spend_limit",
			reqBody: HoldFundsRequest{ClientID: "c1", WorkerID: "w1", Amount: 10000},
			mock: func() {
				settler.EXPECT().HoldFunds(gomock.Any(), gomock.Any()).
					Return(nil, &models.LimitError{Limit: "daily", Remaining: 300})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Spending limit exceeded",
		},
		{
			name:    "conflicting_hold",
			reqBody: HoldFundsRequest{ClientID: "c2", WorkerID: "w1", Amount: 10000},
			mock: func() {
				settler.EXPECT().HoldFunds(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: booking b1 already has escrow", services.ErrInvalidState))
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Operation not allowed in current state",
		},
		{
			name:           "invalid_json",
			reqBody:        `{`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mock != nil {
				tt.mock()
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b1/hold", body(t, tt.reqBody)))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rec))
				assert.NotContains(t, rec.Body.String(), "300")
				return
			}
			var got SettlementResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.expectedMessage, got.Message)
		})
	}
}

func TestReleaseFundsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, settler, _ := bookingRouter(ctrl)

	t.Run("defaults_trigger_to_caller", func(t *testing.T) {
		settler.EXPECT().ReleaseFunds(gomock.Any(), "b1", "booking-service").
			Return(&models.SettlementResult{BookingID: "b1", Status: models.EscrowReleased}, nil)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b1/release", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("explicit_trigger", func(t *testing.T) {
		settler.EXPECT().ReleaseFunds(gomock.Any(), "b1", "client-1").
			Return(&models.SettlementResult{BookingID: "b1", Status: models.EscrowReleased}, nil)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b1/release", body(t, ReleaseFundsRequest{TriggeredBy: "client-1"})))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("settlement_failed", func(t *testing.T) {
		settler.EXPECT().ReleaseFunds(gomock.Any(), "b2", gomock.Any()).
			Return(nil, &services.StepError{Op: "release", Step: "update booking", Err: errors.New("booking service down")})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b2/release", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Settlement failed", decodeError(t, rec))
	})

	t.Run("missing_escrow", func(t *testing.T) {
		settler.EXPECT().ReleaseFunds(gomock.Any(), "b3", gomock.Any()).Return(nil, models.ErrNotFound)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b3/release", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRefundFundsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, settler, _ := bookingRouter(ctrl)

	settler.EXPECT().RefundFunds(gomock.Any(), "b1", "worker no-show").
		Return(&models.SettlementResult{BookingID: "b1", Status: models.EscrowRefunded}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b1/refund", body(t, RefundFundsRequest{Reason: "worker no-show"})))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got SettlementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Funds refunded", got.Message)
	assert.Equal(t, models.EscrowRefunded, got.Result.Status)
}

func TestCommissionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, _, commissions := bookingRouter(ctrl)

	tests := []struct {
		name            string
		result          *models.CommissionResult
		expectedMessage string
	}{
		{"recorded", &models.CommissionResult{BookingID: "b1", PartnerID: "p1", CommissionAmount: 500}, "Commission recorded"},
		{"retry", &models.CommissionResult{BookingID: "b1", CommissionAmount: 500, AlreadyProcessed: true}, "Already processed"},
		{"no_referral", &models.CommissionResult{BookingID: "b1", Skipped: services.SkipNoReferral}, "No commission earned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commissions.EXPECT().ProcessCommission(gomock.Any(), "b1", "c1", int64(10000)).Return(tt.result, nil)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings/b1/commission", body(t, CommissionRequest{ClientID: "c1", JobAmount: 10000})))

			assert.Equal(t, http.StatusOK, rec.Code)
			var got CommissionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.expectedMessage, got.Message)
		})
	}
}
