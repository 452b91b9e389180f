package handlers

//go:generate mockgen -source=admin.go -destination=admin_mock.go -package=handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// AutoReleaseRunner runs one auto-release pass.
type AutoReleaseRunner interface {
	EvaluateAutoReleases(ctx context.Context) (*services.EvaluationSummary, error)
}

// HaltAcknowledger clears a settlement halt.
type HaltAcknowledger interface {
	HaltReason() string
	AcknowledgeInconsistency(operator string)
}

// ReleaseRollbacker undoes a release.
type ReleaseRollbacker interface {
	RollbackRelease(ctx context.Context, bookingID string) (*models.SettlementResult, error)
}

// AutoReleaseResponse represents the outcome of an auto-release pass
// swagger:model AutoReleaseResponse
type AutoReleaseResponse struct {
	Message string                      `json:"message"`
	Summary *services.EvaluationSummary `json:"summary"`
}

// AcknowledgeResponse represents the result of clearing a halt
// swagger:model AcknowledgeResponse
type AcknowledgeResponse struct {
	Message string `json:"message"`
	// Error that halted the engine
	Reason string `json:"reason,omitempty"`
}

// NewRunAutoReleaseHandler returns an HTTP handler that runs an auto-release pass on demand.
// @Summary Run auto-release
// @Description Evaluates held escrows against the auto-release rules and releases the eligible ones
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.AutoReleaseResponse "Pass finished"
// @Failure 503 {object} handlers.AutoReleaseResponse "Settlement engine halted"
// @Router /admin/auto-release/run [post]
// @Security BearerAuth
func NewRunAutoReleaseHandler(runner AutoReleaseRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := runner.EvaluateAutoReleases(r.Context())
		switch {
		case errors.Is(err, services.ErrEngineHalted), errors.Is(err, services.ErrSettlementInconsistency):
			logger.Log.Warnw("auto-release pass stopped", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, AutoReleaseResponse{Message: "Settlement engine halted", Summary: summary})
			return
		case err != nil:
			logger.Log.Errorw("auto-release pass failed", "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AutoReleaseResponse{Message: "Auto-release pass finished", Summary: summary})
	}
}

// NewAcknowledgeHandler returns an HTTP handler that resumes processing after a halt.
// @Summary Acknowledge settlement inconsistency
// @Description Resumes automatic processing once an operator has reconciled the ledger
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.AcknowledgeResponse "Processing resumed"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /admin/settlement/acknowledge [post]
// @Security BearerAuth
func NewAcknowledgeHandler(engine HaltAcknowledger, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}

		reason := engine.HaltReason()
		if reason == "" {
			writeJSON(w, http.StatusOK, AcknowledgeResponse{Message: "Engine not halted"})
			return
		}

		engine.AcknowledgeInconsistency(claims.UserID)
		writeJSON(w, http.StatusOK, AcknowledgeResponse{Message: "Processing resumed", Reason: reason})
	}
}

// NewRollbackReleaseHandler returns an HTTP handler that undoes a release.
// @Summary Roll back a release
// @Description Reverses the worker and platform credits of a released booking and holds its escrow again
// @Tags admin
// @Produce json
// @Param id path string true "Booking id"
// @Success 200 {object} handlers.SettlementResponse "Release rolled back"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Escrow not released"
// @Failure 500 {object} handlers.ErrorResponse "Settlement inconsistency"
// @Router /admin/bookings/{id}/rollback-release [post]
// @Security BearerAuth
func NewRollbackReleaseHandler(engine ReleaseRollbacker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		res, err := engine.RollbackRelease(r.Context(), bookingID)
		if err != nil {
			logger.Log.Errorw("failed to roll back release", "booking_id", bookingID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SettlementResponse{Message: "Release rolled back", Result: res})
	}
}

// RegisterAdminHandlers registers the operator routes
func RegisterAdminHandlers(r chi.Router, run, acknowledge, rollback http.HandlerFunc) {
	r.Post("/admin/auto-release/run", run)
	r.Post("/admin/settlement/acknowledge", acknowledge)
	r.Post("/admin/bookings/{id}/rollback-release", rollback)
}
